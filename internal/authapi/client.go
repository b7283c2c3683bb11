// AngelaMos | 2026
// client.go

package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Yashraj9595/edumentor-session/internal/config"
	"github.com/Yashraj9595/edumentor-session/internal/session"
)

// Client talks to the remote auth API over its REST contract. Requests are
// validated locally before any bytes hit the wire, so invalid input never
// costs a round-trip.
type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
}

var _ session.API = (*Client)(nil)

func NewClient(cfg config.APIConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// NewClientWithHTTP injects a custom http.Client; used by tests.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     hc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (c *Client) Login(ctx context.Context, email, password string) (*session.LoginResult, error) {
	req := loginRequest{Email: email, Password: password}
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate login request: %w", err)
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, "", &resp); err != nil {
		return nil, err
	}

	return &session.LoginResult{
		User:         resp.User,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

func (c *Client) Register(ctx context.Context, input session.RegisterInput) (*session.User, error) {
	req := registerRequest{
		Email:           input.Email,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Mobile:          input.Mobile,
		Role:            input.Role.String(),
		AcceptedTerms:   input.AcceptedTerms,
	}
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate register request: %w", err)
	}

	var resp userResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, "", &resp); err != nil {
		return nil, err
	}

	return &resp.User, nil
}

func (c *Client) VerifyOTP(ctx context.Context, email, code, purpose string) error {
	req := verifyOTPRequest{Email: email, OTP: code, Type: purpose}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("validate otp request: %w", err)
	}

	return c.do(ctx, http.MethodPost, "/auth/verify-otp", req, "", nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	req := forgotPasswordRequest{Email: email}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("validate forgot-password request: %w", err)
	}

	return c.do(ctx, http.MethodPost, "/auth/forgot-password", req, "", nil)
}

func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword, confirmPassword string) error {
	req := resetPasswordRequest{
		Email:           email,
		OTP:             otp,
		NewPassword:     newPassword,
		ConfirmPassword: confirmPassword,
	}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("validate reset-password request: %w", err)
	}

	return c.do(ctx, http.MethodPost, "/auth/reset-password", req, "", nil)
}

func (c *Client) Profile(ctx context.Context, accessToken string) (*session.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, accessToken, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*session.TokenPair, error) {
	req := refreshRequest{RefreshToken: refreshToken}
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validate refresh request: %w", err)
	}

	var resp refreshResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", req, "", &resp); err != nil {
		return nil, err
	}

	return &session.TokenPair{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

func (c *Client) Logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, accessToken, nil)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	body any,
	bearer string,
	out any,
) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// decodeAPIError turns an error response into a session.APIError, keeping
// the server's message when the envelope parses and falling back to the HTTP
// status text when it does not.
func decodeAPIError(resp *http.Response) error {
	apiErr := &session.APIError{StatusCode: resp.StatusCode}

	var envelope errorEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
