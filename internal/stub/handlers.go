// AngelaMos | 2026
// handlers.go

package stub

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Yashraj9595/edumentor-session/internal/core"
	"github.com/Yashraj9595/edumentor-session/internal/session"
)

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}
	return true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	user, ok := s.registry.Authenticate(req.Email, req.Password)
	if !ok {
		core.JSONError(w, core.UnauthorizedError("invalid email or password"))
		return
	}

	if !user.IsEmailVerified {
		core.JSONError(w, core.ForbiddenError("email not verified"))
		return
	}

	accessToken, err := s.signer.CreateAccessToken(user)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	refreshToken, err := s.registry.IssueRefresh(user.ID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, loginResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}

	user, err := s.registry.Create(
		req.Email,
		req.Password,
		req.FirstName,
		req.LastName,
		req.Mobile,
		session.Role(req.Role),
	)
	if err != nil {
		if errors.Is(err, errEmailExists) {
			core.JSONError(w, core.NewAppError(err, "email already registered", http.StatusConflict, "EMAIL_EXISTS"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if _, err := s.otp.Issue(req.Email, session.PurposeEmailVerification); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, userResponse{User: *user})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if !s.decode(w, r, &req) {
		return
	}

	switch req.Type {
	case session.PurposeEmailVerification:
		if !s.otp.Verify(req.Email, req.Type, req.OTP) {
			core.JSONError(w, core.ValidationError("invalid or expired verification code"))
			return
		}
		if err := s.registry.MarkEmailVerified(req.Email); err != nil {
			core.InternalServerError(w, err)
			return
		}
	case session.PurposePasswordReset:
		// Not consumed here: the reset-password call presents it again.
		if !s.otp.Check(req.Email, req.Type, req.OTP) {
			core.JSONError(w, core.ValidationError("invalid or expired verification code"))
			return
		}
	}

	core.OK(w, map[string]string{"status": "verified"})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !s.decode(w, r, &req) {
		return
	}

	// Responds identically whether or not the account exists, so the
	// endpoint cannot be used to enumerate addresses.
	if s.registry.Exists(req.Email) {
		if _, err := s.otp.Issue(req.Email, session.PurposePasswordReset); err != nil {
			core.InternalServerError(w, err)
			return
		}
	}

	core.OK(w, map[string]string{"status": "sent"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !s.decode(w, r, &req) {
		return
	}

	if !s.otp.Verify(req.Email, session.PurposePasswordReset, req.OTP) {
		core.JSONError(w, core.ValidationError("invalid or expired verification code"))
		return
	}

	if err := s.registry.SetPassword(req.Email, req.NewPassword); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]string{"status": "reset"})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !s.decode(w, r, &req) {
		return
	}

	userID, next, err := s.registry.RotateRefresh(req.RefreshToken)
	if err != nil {
		core.JSONError(w, core.UnauthorizedError("refresh token invalid or expired"))
		return
	}

	user, ok := s.registry.Get(userID)
	if !ok {
		core.JSONError(w, core.UnauthorizedError("account no longer exists"))
		return
	}

	accessToken, err := s.signer.CreateAccessToken(user)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, refreshResponse{
		AccessToken:  accessToken,
		RefreshToken: next,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	core.OK(w, userResponse{User: *user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	s.registry.RevokeAllFor(user.ID)
	core.NoContent(w)
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (*session.User, bool) {
	token := bearerToken(r)
	if token == "" {
		core.Unauthorized(w, "")
		return nil, false
	}

	userID, err := s.signer.VerifyAccessToken(token)
	if err != nil {
		core.JSONError(w, core.UnauthorizedError("invalid or expired access token"))
		return nil, false
	}

	user, ok := s.registry.Get(userID)
	if !ok {
		core.JSONError(w, core.UnauthorizedError("account no longer exists"))
		return nil, false
	}

	return user, true
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) {
		return ""
	}
	if header[:len(prefix)] != prefix {
		return ""
	}
	return header[len(prefix):]
}
