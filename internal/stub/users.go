// AngelaMos | 2026
// users.go

package stub

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Yashraj9595/edumentor-session/internal/session"
)

var (
	errEmailExists    = errors.New("email already registered")
	errUnknownAccount = errors.New("unknown account")
	errBadRefresh     = errors.New("refresh token invalid")
)

type account struct {
	user         session.User
	passwordHash string
}

type refreshEntry struct {
	userID    string
	expiresAt time.Time
	used      bool
}

// registry is the stub's entire persistence layer: accounts by email and
// single-use refresh tokens by hash. It exists to exercise the client, not
// to survive a restart.
type registry struct {
	mu         sync.Mutex
	byEmail    map[string]*account
	byID       map[string]*account
	refresh    map[string]*refreshEntry
	refreshTTL time.Duration
	now        func() time.Time
}

func newRegistry(refreshTTL time.Duration) *registry {
	return &registry{
		byEmail:    map[string]*account{},
		byID:       map[string]*account{},
		refresh:    map[string]*refreshEntry{},
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (r *registry) Create(email, password, firstName, lastName, mobile string, role session.Role) (*session.User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return nil, errEmailExists
	}

	now := r.now()
	acct := &account{
		user: session.User{
			ID:        uuid.New().String(),
			Email:     email,
			FirstName: firstName,
			LastName:  lastName,
			Mobile:    mobile,
			Role:      role,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		passwordHash: hash,
	}

	r.byEmail[email] = acct
	r.byID[acct.user.ID] = acct

	u := acct.user
	return &u, nil
}

// Authenticate burns constant argon2 time whether or not the email exists.
func (r *registry) Authenticate(email, password string) (*session.User, bool) {
	r.mu.Lock()
	acct := r.byEmail[email]
	storedHash := ""
	if acct != nil {
		storedHash = acct.passwordHash
	}
	r.mu.Unlock()

	if !verifyPasswordTimingSafe(password, storedHash) {
		return nil, false
	}

	u := acct.user
	return &u, true
}

func (r *registry) Get(id string) (*session.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	u := acct.user
	return &u, true
}

func (r *registry) Exists(email string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byEmail[email]
	return ok
}

func (r *registry) MarkEmailVerified(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, ok := r.byEmail[email]
	if !ok {
		return errUnknownAccount
	}
	acct.user.IsEmailVerified = true
	acct.user.UpdatedAt = r.now()
	return nil
}

func (r *registry) SetPassword(email, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	acct, ok := r.byEmail[email]
	if !ok {
		return errUnknownAccount
	}
	acct.passwordHash = hash
	acct.user.UpdatedAt = r.now()
	return nil
}

func (r *registry) IssueRefresh(userID string) (string, error) {
	tok, err := generateOpaqueToken()
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.refresh[hashOpaqueToken(tok)] = &refreshEntry{
		userID:    userID,
		expiresAt: r.now().Add(r.refreshTTL),
	}
	r.mu.Unlock()

	return tok, nil
}

// RotateRefresh consumes a refresh token and mints a replacement. Reuse of a
// consumed token fails, matching production rotation semantics.
func (r *registry) RotateRefresh(tok string) (string, string, error) {
	r.mu.Lock()
	entry, ok := r.refresh[hashOpaqueToken(tok)]
	if !ok || entry.used || r.now().After(entry.expiresAt) {
		r.mu.Unlock()
		return "", "", errBadRefresh
	}
	entry.used = true
	userID := entry.userID
	r.mu.Unlock()

	next, err := r.IssueRefresh(userID)
	if err != nil {
		return "", "", err
	}
	return userID, next, nil
}

func (r *registry) RevokeAllFor(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, entry := range r.refresh {
		if entry.userID == userID {
			delete(r.refresh, hash)
		}
	}
}
