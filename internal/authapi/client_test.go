// AngelaMos | 2026
// client_test.go

package authapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Yashraj9595/edumentor-session/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithHTTP(srv.URL, srv.Client()), srv
}

func TestLoginDecodesResult(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "user@example.com", req.Email)

		json.NewEncoder(w).Encode(loginResponse{
			User:         session.User{ID: "u-1", Email: req.Email, Role: session.RoleStudent},
			AccessToken:  "t1",
			RefreshToken: "r1",
		})
	}))

	result, err := client.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "u-1", result.User.ID)
	require.Equal(t, session.RoleStudent, result.User.Role)
	require.Equal(t, "t1", result.AccessToken)
	require.Equal(t, "r1", result.RefreshToken)
}

func TestLoginValidatesBeforeSending(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))

	_, err := client.Login(context.Background(), "not-an-email", "password123")
	require.Error(t, err)

	_, err = client.Login(context.Background(), "user@example.com", "short")
	require.Error(t, err)

	require.Zero(t, hits.Load(), "invalid input must never reach the wire")
}

func TestErrorEnvelopeBecomesAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"INVALID_CREDENTIALS","message":"invalid email or password"}}`))
	}))

	_, err := client.Login(context.Background(), "user@example.com", "password123")
	require.Error(t, err)

	var apiErr *session.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
	require.Equal(t, "invalid email or password", apiErr.Message)
}

func TestMalformedErrorBodyFallsBackToStatusText(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream exploded</html>"))
	}))

	_, err := client.Profile(context.Background(), "t1")

	var apiErr *session.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestProfileSendsBearer(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/auth/profile", r.URL.Path)
		require.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(userResponse{User: session.User{ID: "u-1"}})
	}))

	user, err := client.Profile(context.Background(), "t1")
	require.NoError(t, err)
	require.Equal(t, "u-1", user.ID)
}

func TestRefreshRoundTrip(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/refresh", r.URL.Path)

		var req refreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "r1", req.RefreshToken)

		json.NewEncoder(w).Encode(refreshResponse{AccessToken: "t2", RefreshToken: "r2"})
	}))

	pair, err := client.Refresh(context.Background(), "r1")
	require.NoError(t, err)
	require.Equal(t, "t2", pair.AccessToken)
	require.Equal(t, "r2", pair.RefreshToken)
}

func TestVerifyOTPSendsPurpose(t *testing.T) {
	var gotType string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req verifyOTPRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotType = req.Type
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.VerifyOTP(context.Background(), "a@b.co", "123456", session.PurposeEmailVerification))
	require.Equal(t, "email_verification", gotType)

	require.NoError(t, client.VerifyOTP(context.Background(), "a@b.co", "123456", session.PurposePasswordReset))
	require.Equal(t, "password_reset", gotType)
}

func TestRegisterRejectsUnknownRoleLocally(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))

	_, err := client.Register(context.Background(), session.RegisterInput{
		Email:           "new@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
		FirstName:       "New",
		LastName:        "User",
		Role:            "superuser",
		AcceptedTerms:   true,
	})
	require.Error(t, err)
	require.Zero(t, hits.Load())
}

func TestLogoutPostsBearer(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/logout", r.URL.Path)
		require.Equal(t, "Bearer t1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.Logout(context.Background(), "t1"))
}
