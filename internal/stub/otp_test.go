// AngelaMos | 2026
// otp_test.go

package stub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Yashraj9595/edumentor-session/internal/session"
)

func TestOTPExpiry(t *testing.T) {
	now := time.Now()
	s := newOTPStore(10*time.Minute, nil)
	s.now = func() time.Time { return now }

	code, err := s.Issue("a@b.co", session.PurposeEmailVerification)
	require.NoError(t, err)
	require.Len(t, code, 6)

	require.True(t, s.Check("a@b.co", session.PurposeEmailVerification, code))

	now = now.Add(11 * time.Minute)
	require.False(t, s.Check("a@b.co", session.PurposeEmailVerification, code))
	require.False(t, s.Verify("a@b.co", session.PurposeEmailVerification, code))
}

func TestOTPCheckDoesNotConsume(t *testing.T) {
	s := newOTPStore(10*time.Minute, nil)
	code, err := s.Issue("a@b.co", session.PurposePasswordReset)
	require.NoError(t, err)

	require.True(t, s.Check("a@b.co", session.PurposePasswordReset, code))
	require.True(t, s.Check("a@b.co", session.PurposePasswordReset, code))
	require.True(t, s.Verify("a@b.co", session.PurposePasswordReset, code))

	// Verify consumed it.
	require.False(t, s.Check("a@b.co", session.PurposePasswordReset, code))
}

func TestOTPWrongCodeIsNotConsumed(t *testing.T) {
	s := newOTPStore(10*time.Minute, nil)
	code, err := s.Issue("a@b.co", session.PurposeEmailVerification)
	require.NoError(t, err)

	require.False(t, s.Verify("a@b.co", session.PurposeEmailVerification, "000000"))
	require.True(t, s.Verify("a@b.co", session.PurposeEmailVerification, code))
}

func TestOTPScopedToPurpose(t *testing.T) {
	s := newOTPStore(10*time.Minute, nil)
	code, err := s.Issue("a@b.co", session.PurposeEmailVerification)
	require.NoError(t, err)

	require.False(t, s.Verify("a@b.co", session.PurposePasswordReset, code))
	require.False(t, s.Verify("other@b.co", session.PurposeEmailVerification, code))
}

func TestOTPReissueReplaces(t *testing.T) {
	s := newOTPStore(10*time.Minute, nil)
	first, err := s.Issue("a@b.co", session.PurposeEmailVerification)
	require.NoError(t, err)
	second, err := s.Issue("a@b.co", session.PurposeEmailVerification)
	require.NoError(t, err)

	if first != second {
		require.False(t, s.Verify("a@b.co", session.PurposeEmailVerification, first))
	}
	require.True(t, s.Verify("a@b.co", session.PurposeEmailVerification, second))
}
