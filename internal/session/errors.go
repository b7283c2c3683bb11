// AngelaMos | 2026
// errors.go

package session

import "errors"

var (
	// ErrInvalidCredentials is returned by Login when the API rejects the
	// email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrRegistrationFailed is returned by Register on any API rejection.
	ErrRegistrationFailed = errors.New("registration failed")

	// ErrInvalidOTP is returned by VerifyOTP; a nil error is the only
	// success signal.
	ErrInvalidOTP = errors.New("invalid or expired verification code")

	// ErrMalformedOTP is a local validation failure raised before any
	// network call is issued.
	ErrMalformedOTP = errors.New("verification code must be 6 digits")

	// ErrPasswordMismatch is a local validation failure raised before any
	// network call is issued.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrTermsNotAccepted is a local validation failure raised before any
	// network call is issued.
	ErrTermsNotAccepted = errors.New("terms and conditions must be accepted")

	// ErrNotRestored is returned by operations invoked before Restore has
	// completed.
	ErrNotRestored = errors.New("session not restored yet")

	// ErrNoPendingRegistration is returned by AdoptPendingRegistration when
	// no registration is awaiting verification.
	ErrNoPendingRegistration = errors.New("no pending registration")
)
