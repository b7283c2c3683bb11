// AngelaMos | 2026
// controller.go

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Yashraj9595/edumentor-session/internal/store"
	"github.com/Yashraj9595/edumentor-session/internal/token"
)

// Controller owns the single source of truth for "who is logged in and with
// what role". It is constructed once at bootstrap and injected wherever
// session state is needed; there is no ambient global.
//
// Exactly one user is current at a time. Every failure path leaves both the
// in-memory state and the persisted store exactly as they were before the
// failed operation began.
type Controller struct {
	api       API
	durable   store.Store
	transient store.Store
	notify    NotificationSink
	logger    *slog.Logger

	revalidateOnRestore bool

	mu       sync.Mutex
	user     *User
	loading  bool
	restored bool
}

// Options carries the optional collaborators of a Controller.
type Options struct {
	// Notify receives user-facing toasts; nil means no-op.
	Notify NotificationSink
	// RevalidateOnRestore re-fetches the profile in the background after an
	// optimistic cached-user restore, trading startup simplicity for
	// protection against revoked sessions appearing valid.
	RevalidateOnRestore bool
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// New builds a Controller in the Restoring state. Callers must run Restore
// once at application bootstrap before invoking any other operation.
func New(api API, durable, transient store.Store, opts Options) *Controller {
	notify := opts.Notify
	if notify == nil {
		notify = NoopSink()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		api:                 api,
		durable:             durable,
		transient:           transient,
		notify:              notify,
		logger:              logger,
		revalidateOnRestore: opts.RevalidateOnRestore,
		loading:             true,
	}
}

// State returns an immutable snapshot of the session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := State{Loading: c.loading}
	if c.user != nil {
		u := *c.user
		state.User = &u
	}
	return state
}

// Restore reconstructs the session from the persisted store. It runs exactly
// once per process; repeated calls are no-ops. Failures never surface to the
// caller: an unrecoverable session silently degrades to anonymous.
//
// The sequence is bounded by design: a cached user is adopted without a
// network round-trip; a bare access token gets one profile fetch, one token
// refresh, and one retry before the session is declared dead.
func (c *Controller) Restore(ctx context.Context) {
	c.mu.Lock()
	if c.restored {
		c.mu.Unlock()
		return
	}
	c.restored = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	if raw, err := c.durable.Get(ctx, store.KeyUser); err == nil {
		var u User
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			c.swapUser(&u)
			if c.revalidateOnRestore {
				go c.revalidate(context.WithoutCancel(ctx))
			}
			return
		}
		c.logger.Warn("discarding unreadable cached user", "error", err)
	}

	accessToken, err := c.durable.Get(ctx, store.KeyAccessToken)
	if err != nil {
		return
	}

	user, err := c.profileWithRefresh(ctx, accessToken)
	if err != nil {
		c.logger.Info("session restoration failed, signing out", "error", err)
		c.clearSession(ctx)
		return
	}

	if err := c.persistUser(ctx, user); err != nil {
		c.logger.Warn("persist restored user", "error", err)
	}
	c.swapUser(user)
}

// profileWithRefresh fetches the profile, allowing the access token exactly
// one refresh-and-retry before giving up.
func (c *Controller) profileWithRefresh(ctx context.Context, accessToken string) (*User, error) {
	user, err := c.api.Profile(ctx, accessToken)
	if err == nil {
		return user, nil
	}

	refreshToken, storeErr := c.durable.Get(ctx, store.KeyRefreshToken)
	if storeErr != nil {
		return nil, err
	}

	pair, refreshErr := c.api.Refresh(ctx, refreshToken)
	if refreshErr != nil {
		return nil, fmt.Errorf("refresh: %w", refreshErr)
	}

	if err := c.persistTokens(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, err
	}

	user, err = c.api.Profile(ctx, pair.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("profile retry: %w", err)
	}
	return user, nil
}

// revalidate runs after an optimistic restore when RevalidateOnRestore is
// set. A token that is locally known to be expired goes straight to the
// refresh path instead of wasting a doomed profile fetch.
func (c *Controller) revalidate(ctx context.Context) {
	accessToken, err := c.durable.Get(ctx, store.KeyAccessToken)
	if err != nil {
		c.clearSession(ctx)
		return
	}

	if claims, peekErr := token.Peek(accessToken); peekErr == nil && claims.Expired(time.Now()) {
		accessToken = "" // force the refresh path
	}

	var user *User
	if accessToken != "" {
		user, err = c.api.Profile(ctx, accessToken)
	} else {
		err = errors.New("access token expired")
	}
	if err != nil {
		user, err = c.refreshAndFetch(ctx)
	}
	if err != nil {
		c.logger.Info("background revalidation failed, signing out", "error", err)
		c.clearSession(ctx)
		return
	}

	if err := c.persistUser(ctx, user); err != nil {
		c.logger.Warn("persist revalidated user", "error", err)
	}
	c.swapUser(user)
}

func (c *Controller) refreshAndFetch(ctx context.Context) (*User, error) {
	refreshToken, err := c.durable.Get(ctx, store.KeyRefreshToken)
	if err != nil {
		return nil, err
	}

	pair, err := c.api.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	if err := c.persistTokens(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, err
	}

	return c.api.Profile(ctx, pair.AccessToken)
}

// Login authenticates against the remote API and adopts the returned
// profile. On failure nothing is written: no partial user, no partial tokens.
func (c *Controller) Login(ctx context.Context, email, password string, rememberMe bool) error {
	if err := c.ensureRestored(); err != nil {
		return err
	}

	result, err := c.api.Login(ctx, email, password)
	if err != nil {
		wrapped := rejection(err, ErrInvalidCredentials)
		c.notify.Error(wrapped.Error())
		return wrapped
	}

	if err := c.persistTokens(ctx, result.AccessToken, result.RefreshToken); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}
	if err := c.persistUser(ctx, &result.User); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}

	if rememberMe {
		if err := c.durable.Set(ctx, store.KeyRememberMe, "true"); err != nil {
			c.logger.Warn("persist remember-me flag", "error", err)
		}
	}

	c.swapUser(&result.User)
	c.notify.Success("Welcome back, " + result.User.FirstName)
	return nil
}

// Register creates an unverified account. Local preconditions are checked
// before any network traffic; a successful registration does NOT
// authenticate the user — the pending record is parked in the transient
// store for the OTP verification step.
func (c *Controller) Register(ctx context.Context, input RegisterInput) error {
	if err := c.ensureRestored(); err != nil {
		return err
	}
	if input.Password != input.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if !input.AcceptedTerms {
		return ErrTermsNotAccepted
	}

	user, err := c.api.Register(ctx, input)
	if err != nil {
		wrapped := rejection(err, ErrRegistrationFailed)
		c.notify.Error(wrapped.Error())
		return wrapped
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode pending user: %w", err)
	}
	if err := c.transient.Set(ctx, store.KeyPendingRegistrationEmail, input.Email); err != nil {
		return fmt.Errorf("stash pending email: %w", err)
	}
	if err := c.transient.Set(ctx, store.KeyPendingRegistrationUser, string(raw)); err != nil {
		return fmt.Errorf("stash pending user: %w", err)
	}

	c.notify.Success("Account created. Check your email for a verification code.")
	return nil
}

// VerifyOTP submits a one-time code. isRegistration selects the server-side
// purpose tag; the code path is otherwise identical. A nil error is the only
// success signal.
func (c *Controller) VerifyOTP(ctx context.Context, email, code string, isRegistration bool) error {
	if err := c.ensureRestored(); err != nil {
		return err
	}
	if !validOTP(code) {
		return ErrMalformedOTP
	}

	purpose := PurposePasswordReset
	if isRegistration {
		purpose = PurposeEmailVerification
	}

	if err := c.api.VerifyOTP(ctx, email, code, purpose); err != nil {
		wrapped := rejection(err, ErrInvalidOTP)
		c.notify.Error(wrapped.Error())
		return wrapped
	}

	return nil
}

// ForgotPassword triggers an OTP dispatch for password reset and parks the
// target email for the verification step.
func (c *Controller) ForgotPassword(ctx context.Context, email string) error {
	if err := c.ensureRestored(); err != nil {
		return err
	}

	if err := c.api.ForgotPassword(ctx, email); err != nil {
		return rejection(err, ErrInvalidCredentials)
	}

	if err := c.transient.Set(ctx, store.KeyPendingResetEmail, email); err != nil {
		return fmt.Errorf("stash reset email: %w", err)
	}

	c.notify.Success("Password reset code sent to " + email)
	return nil
}

// ResetPassword completes a password reset. The confirmation check fails
// fast before any network call.
func (c *Controller) ResetPassword(ctx context.Context, email, otp, newPassword, confirmPassword string) error {
	if err := c.ensureRestored(); err != nil {
		return err
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	if err := c.api.ResetPassword(ctx, email, otp, newPassword, confirmPassword); err != nil {
		wrapped := rejection(err, ErrInvalidOTP)
		c.notify.Error(wrapped.Error())
		return wrapped
	}

	if err := c.transient.Delete(ctx, store.KeyPendingResetEmail); err != nil {
		c.logger.Warn("clear reset email marker", "error", err)
	}

	c.notify.Success("Password updated. You can sign in now.")
	return nil
}

// Logout clears the local session unconditionally. The remote invalidation
// is attempted first and is best-effort: its failure is a soft warning, never
// a hard error, and never leaves local state behind.
func (c *Controller) Logout(ctx context.Context) {
	accessToken, err := c.durable.Get(ctx, store.KeyAccessToken)
	if err == nil && accessToken != "" {
		if err := c.api.Logout(ctx, accessToken); err != nil {
			c.logger.Warn("remote logout failed, clearing local session anyway", "error", err)
			c.notify.Warning("Signed out locally; the server could not be reached.")
		}
	}

	c.clearSession(ctx)
	c.notify.Success("Signed out.")
}

// SetUser replaces the current user record wholesale and persists it. A nil
// user clears the cached record without touching tokens.
func (c *Controller) SetUser(ctx context.Context, u *User) error {
	if u == nil {
		if err := c.durable.Delete(ctx, store.KeyUser); err != nil {
			return err
		}
		c.swapUser(nil)
		return nil
	}

	if err := c.persistUser(ctx, u); err != nil {
		return err
	}
	c.swapUser(u)
	return nil
}

// AdoptPendingRegistration promotes the transient post-registration user to
// the current user after OTP verification succeeded, and clears the pending
// markers. This is the explicit adoption step: nothing between Register and
// this call changes who is signed in.
func (c *Controller) AdoptPendingRegistration(ctx context.Context) (*User, error) {
	raw, err := c.transient.Get(ctx, store.KeyPendingRegistrationUser)
	if err != nil {
		return nil, ErrNoPendingRegistration
	}

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode pending user: %w", err)
	}
	u.IsEmailVerified = true

	if err := c.SetUser(ctx, &u); err != nil {
		return nil, err
	}

	_ = c.transient.Delete(ctx, store.KeyPendingRegistrationUser)
	_ = c.transient.Delete(ctx, store.KeyPendingRegistrationEmail)

	return &u, nil
}

// PendingRegistrationEmail exposes the parked registration email, if any.
func (c *Controller) PendingRegistrationEmail(ctx context.Context) (string, bool) {
	email, err := c.transient.Get(ctx, store.KeyPendingRegistrationEmail)
	return email, err == nil && email != ""
}

// PendingResetEmail exposes the parked password-reset email, if any.
func (c *Controller) PendingResetEmail(ctx context.Context) (string, bool) {
	email, err := c.transient.Get(ctx, store.KeyPendingResetEmail)
	return email, err == nil && email != ""
}

// ensureRestored rejects mutating operations issued before the bootstrap
// restoration ran. The restoration owns the persisted session until it is
// done; letting a login race it could interleave writes.
func (c *Controller) ensureRestored() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.restored {
		return ErrNotRestored
	}
	return nil
}

func (c *Controller) swapUser(u *User) {
	c.mu.Lock()
	c.user = u
	c.mu.Unlock()
}

func (c *Controller) persistTokens(ctx context.Context, access, refresh string) error {
	if err := c.durable.Set(ctx, store.KeyAccessToken, access); err != nil {
		return err
	}
	return c.durable.Set(ctx, store.KeyRefreshToken, refresh)
}

func (c *Controller) persistUser(ctx context.Context, u *User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return c.durable.Set(ctx, store.KeyUser, string(raw))
}

func (c *Controller) clearSession(ctx context.Context) {
	if err := store.ClearAuth(ctx, c.durable); err != nil {
		c.logger.Warn("clear persisted session", "error", err)
	}
	c.swapUser(nil)
}

func validOTP(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// rejection wraps an API failure in the operation's sentinel, preferring the
// server's user-facing message over the generic fallback.
func rejection(err error, sentinel error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return fmt.Errorf("%s: %w", apiErr.Message, sentinel)
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
