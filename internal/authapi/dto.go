// AngelaMos | 2026
// dto.go

package authapi

import (
	"github.com/Yashraj9595/edumentor-session/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type registerRequest struct {
	Email           string `json:"email"           validate:"required,email,max=255"`
	Password        string `json:"password"        validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FirstName       string `json:"firstName"       validate:"required,min=1,max=100"`
	LastName        string `json:"lastName"        validate:"required,min=1,max=100"`
	Mobile          string `json:"mobile"          validate:"omitempty,min=7,max=20"`
	Role            string `json:"role"            validate:"required,oneof=admin mentor student organizer company institution"`
	AcceptedTerms   bool   `json:"acceptedTerms"   validate:"required,eq=true"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,len=6,numeric"`
	Type  string `json:"type"  validate:"required,oneof=email_verification password_reset"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email           string `json:"email"           validate:"required,email"`
	OTP             string `json:"otp"             validate:"required,len=6,numeric"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type loginResponse struct {
	User         session.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type userResponse struct {
	User session.User `json:"user"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
