// AngelaMos | 2026
// errors_test.go

package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func TestJSONErrorWritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, UnauthorizedError("invalid token"))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	env := decodeEnvelope(t, rec)
	require.Equal(t, "UNAUTHORIZED", env.Error.Code)
	require.Equal(t, "invalid token", env.Error.Message)
}

func TestJSONErrorMasksUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("pq: connection refused at 10.0.0.3"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	env := decodeEnvelope(t, rec)
	require.Equal(t, "INTERNAL", env.Error.Code)
	require.Equal(t, "internal server error", env.Error.Message)
	require.NotContains(t, rec.Body.String(), "10.0.0.3")
}

func TestAppErrorUnwraps(t *testing.T) {
	err := UnauthorizedError("expired")
	require.ErrorIs(t, err, ErrTokenInvalid)

	err = ForbiddenError("wrong role")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestFormatValidationError(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		OTP   string `validate:"len=6"`
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(payload{Email: "nope", OTP: "12"})
	require.Error(t, err)

	msg := FormatValidationError(err)
	require.Contains(t, msg, "Email")
	require.Contains(t, msg, "OTP")

	require.Equal(t, "invalid request", FormatValidationError(errors.New("boom")))
}
