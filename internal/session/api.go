// AngelaMos | 2026
// api.go

package session

import "context"

// OTP purposes understood by the auth API. Registration and password reset
// share one verification code path; the purpose tag is the only difference.
const (
	PurposeEmailVerification = "email_verification"
	PurposePasswordReset     = "password_reset"
)

// LoginResult is what a successful login returns: the profile plus a fresh
// credential pair.
type LoginResult struct {
	User         User
	AccessToken  string
	RefreshToken string
}

// TokenPair is a refreshed credential pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput carries everything the register endpoint needs. Local
// validation (password confirmation, terms acceptance) happens before this
// ever reaches the network.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Mobile          string
	Role            Role
	AcceptedTerms   bool
}

// APIError is a rejection from the auth API, carrying the server's
// user-facing message when one was provided.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "auth API rejected the request"
}

// API is the remote auth contract the controller drives. Every call is a
// suspension point and honors context cancellation.
type API interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, input RegisterInput) (*User, error)
	VerifyOTP(ctx context.Context, email, code, purpose string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword, confirmPassword string) error
	Profile(ctx context.Context, accessToken string) (*User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}
