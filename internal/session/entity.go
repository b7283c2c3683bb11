// AngelaMos | 2026
// entity.go

package session

import (
	"time"
)

// Role is the closed set of account categories. The server may introduce new
// roles before this client learns about them, so Role values outside the set
// are carried verbatim and resolved to the generic dashboard by HomeRoute.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleMentor      Role = "mentor"
	RoleStudent     Role = "student"
	RoleOrganizer   Role = "organizer"
	RoleCompany     Role = "company"
	RoleInstitution Role = "institution"
)

func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleMentor, RoleStudent, RoleOrganizer, RoleCompany, RoleInstitution:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// User is the authenticated account record as returned by the auth API.
// Role is immutable in this client; a different role requires a full
// re-authentication.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Mobile           string    `json:"mobile"`
	Role             Role      `json:"role"`
	IsEmailVerified  bool      `json:"isEmailVerified"`
	IsMobileVerified bool      `json:"isMobileVerified"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// State is an immutable snapshot of the controller. Loading is true only
// while the initial restoration sequence is in flight; any state observed
// with Loading set is provisional.
type State struct {
	User    *User
	Loading bool
}

func (s State) Authenticated() bool {
	return s.User != nil
}

func (s State) Role() Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}
