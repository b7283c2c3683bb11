// AngelaMos | 2026
// server_test.go

package stub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Yashraj9595/edumentor-session/internal/authapi"
	"github.com/Yashraj9595/edumentor-session/internal/config"
	"github.com/Yashraj9595/edumentor-session/internal/session"
)

func testStubConfig() config.StubConfig {
	return config.StubConfig{
		Issuer:          "edumentor-authstub",
		Audience:        "edumentor-client",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
		OTPTTL:          10 * time.Minute,
		RateLimitPerMin: 10000,
		RateLimitBurst:  10000,
		PrivateKeyPath:  "does-not-exist.pem", // forces an ephemeral key
	}
}

func newTestServer(t *testing.T) (*Server, *authapi.Client) {
	t.Helper()

	srv, err := NewServer(testStubConfig(), nil)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return srv, authapi.NewClientWithHTTP(ts.URL, ts.Client())
}

// currentOTP reads the latest issued code; tests stand in for the mail
// delivery the stub does not have.
func (s *Server) currentOTP(email, purpose string) (string, bool) {
	s.otp.mu.Lock()
	defer s.otp.mu.Unlock()
	entry, ok := s.otp.codes[otpKey(email, purpose)]
	return entry.code, ok
}

func TestLoginSeededUser(t *testing.T) {
	srv, client := newTestServer(t)
	_, err := srv.SeedUser("institution@university.edu", "institution123", "Iris", "Institution", session.RoleInstitution)
	require.NoError(t, err)

	result, err := client.Login(context.Background(), "institution@university.edu", "institution123")
	require.NoError(t, err)
	require.Equal(t, session.RoleInstitution, result.User.Role)
	require.True(t, result.User.IsEmailVerified)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)

	profile, err := client.Profile(context.Background(), result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, profile.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	srv, client := newTestServer(t)
	_, err := srv.SeedUser("user@example.com", "password123", "Test", "User", session.RoleStudent)
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "user@example.com", "wrongpassword")
	var apiErr *session.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	// Unknown accounts fail the same way as wrong passwords.
	_, err = client.Login(context.Background(), "nobody@example.com", "password123")
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestRegistrationFlow(t *testing.T) {
	srv, client := newTestServer(t)
	ctx := context.Background()

	input := session.RegisterInput{
		Email:           "new@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
		FirstName:       "New",
		LastName:        "User",
		Role:            session.RoleMentor,
		AcceptedTerms:   true,
	}

	user, err := client.Register(ctx, input)
	require.NoError(t, err)
	require.False(t, user.IsEmailVerified)

	// Login is blocked until the email is verified.
	_, err = client.Login(ctx, input.Email, input.Password)
	var apiErr *session.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	code, ok := srv.currentOTP(input.Email, session.PurposeEmailVerification)
	require.True(t, ok)
	require.NoError(t, client.VerifyOTP(ctx, input.Email, code, session.PurposeEmailVerification))

	// The code is single-use.
	err = client.VerifyOTP(ctx, input.Email, code, session.PurposeEmailVerification)
	require.ErrorAs(t, err, &apiErr)

	result, err := client.Login(ctx, input.Email, input.Password)
	require.NoError(t, err)
	require.True(t, result.User.IsEmailVerified)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv, client := newTestServer(t)
	_, err := srv.SeedUser("taken@example.com", "password123", "Already", "Here", session.RoleStudent)
	require.NoError(t, err)

	_, err = client.Register(context.Background(), session.RegisterInput{
		Email:           "taken@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
		FirstName:       "Second",
		LastName:        "Try",
		Role:            session.RoleStudent,
		AcceptedTerms:   true,
	})

	var apiErr *session.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
	require.Equal(t, "EMAIL_EXISTS", apiErr.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	srv, client := newTestServer(t)
	ctx := context.Background()
	_, err := srv.SeedUser("user@example.com", "oldpassword1", "Test", "User", session.RoleStudent)
	require.NoError(t, err)

	require.NoError(t, client.ForgotPassword(ctx, "user@example.com"))

	code, ok := srv.currentOTP("user@example.com", session.PurposePasswordReset)
	require.True(t, ok)

	// The pre-reset verification step checks the code without consuming it,
	// so the reset call can present the same code again.
	require.NoError(t, client.VerifyOTP(ctx, "user@example.com", code, session.PurposePasswordReset))
	require.NoError(t, client.ResetPassword(ctx, "user@example.com", code, "newpassword1", "newpassword1"))

	_, err = client.Login(ctx, "user@example.com", "oldpassword1")
	require.Error(t, err)

	_, err = client.Login(ctx, "user@example.com", "newpassword1")
	require.NoError(t, err)

	// The consumed code cannot reset the password a second time.
	err = client.ResetPassword(ctx, "user@example.com", code, "anotherpass1", "anotherpass1")
	require.Error(t, err)
}

func TestForgotPasswordDoesNotLeakExistence(t *testing.T) {
	_, client := newTestServer(t)
	require.NoError(t, client.ForgotPassword(context.Background(), "nobody@example.com"))
}

func TestRefreshRotation(t *testing.T) {
	srv, client := newTestServer(t)
	ctx := context.Background()
	_, err := srv.SeedUser("user@example.com", "password123", "Test", "User", session.RoleStudent)
	require.NoError(t, err)

	result, err := client.Login(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	pair, err := client.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, result.RefreshToken, pair.RefreshToken)

	// The consumed token is dead; the rotated one works.
	_, err = client.Refresh(ctx, result.RefreshToken)
	var apiErr *session.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, err = client.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutRevokesRefreshTokens(t *testing.T) {
	srv, client := newTestServer(t)
	ctx := context.Background()
	_, err := srv.SeedUser("user@example.com", "password123", "Test", "User", session.RoleStudent)
	require.NoError(t, err)

	result, err := client.Login(ctx, "user@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, client.Logout(ctx, result.AccessToken))

	_, err = client.Refresh(ctx, result.RefreshToken)
	require.Error(t, err)
}

func TestProfileRejectsGarbageToken(t *testing.T) {
	_, client := newTestServer(t)

	_, err := client.Profile(context.Background(), "not-a-jwt")
	var apiErr *session.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestRateLimiterThrottlesCredentialEndpoints(t *testing.T) {
	cfg := testStubConfig()
	cfg.RateLimitPerMin = 2
	cfg.RateLimitBurst = 2

	srv, err := NewServer(cfg, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	client := authapi.NewClientWithHTTP(ts.URL, ts.Client())

	var limited *session.APIError
	for range 5 {
		_, err := client.Login(context.Background(), "user@example.com", "password123")

		var apiErr *session.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			limited = apiErr
			break
		}
	}
	require.NotNil(t, limited, "repeated logins must eventually hit the limiter")
	require.Equal(t, "RATE_LIMITED", limited.Code)
}
