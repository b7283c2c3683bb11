// AngelaMos | 2026
// otp.go

package stub

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"
)

// otpStore issues and checks one-time codes. Codes are scoped to an
// email+purpose pair, expire after a TTL, and are single-use. In development
// the code is logged instead of mailed.
type otpStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	codes  map[string]otpEntry
	now    func() time.Time
	logger *slog.Logger
}

type otpEntry struct {
	code      string
	expiresAt time.Time
}

func newOTPStore(ttl time.Duration, logger *slog.Logger) *otpStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &otpStore{
		ttl:    ttl,
		codes:  map[string]otpEntry{},
		now:    time.Now,
		logger: logger,
	}
}

func otpKey(email, purpose string) string {
	return purpose + ":" + email
}

// Issue mints a fresh 6-digit code, replacing any previous one for the same
// email+purpose.
func (s *otpStore) Issue(email, purpose string) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.codes[otpKey(email, purpose)] = otpEntry{
		code:      code,
		expiresAt: s.now().Add(s.ttl),
	}
	s.mu.Unlock()

	s.logger.Info("otp issued", "email", email, "purpose", purpose, "code", code)
	return code, nil
}

// Check reports whether the code is currently valid without consuming it.
// The password-reset flow checks the code once during verification and
// consumes it only when the new password is actually set.
func (s *otpStore) Check(email, purpose, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[otpKey(email, purpose)]
	if !ok || s.now().After(entry.expiresAt) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(entry.code), []byte(code)) == 1
}

// Verify consumes the code on success. Expired and mismatched codes both
// fail; a mismatched code is not consumed so the legitimate user can still
// use theirs.
func (s *otpStore) Verify(email, purpose, code string) bool {
	key := otpKey(email, purpose)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[key]
	if !ok {
		return false
	}

	if s.now().After(entry.expiresAt) {
		delete(s.codes, key)
		return false
	}

	if subtle.ConstantTimeCompare([]byte(entry.code), []byte(code)) != 1 {
		return false
	}

	delete(s.codes, key)
	return true
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
