// AngelaMos | 2026
// routes.go

package session

// DefaultHomeRoute is where any role outside the closed set lands. Unknown
// roles are an expected condition, never an error: the server may ship a new
// role before this client does.
const DefaultHomeRoute = "/dashboard"

// homeRoutes is the total role → home mapping consumed by route guards.
var homeRoutes = map[Role]string{
	RoleAdmin:       "/admin/dashboard",
	RoleMentor:      "/mentor/dashboard",
	RoleStudent:     "/student/dashboard",
	RoleOrganizer:   "/organizer/hackathon-dashboard",
	RoleCompany:     "/company/dashboard",
	RoleInstitution: "/institution/dashboard",
}

// HomeRoute resolves the role-specific landing path.
func HomeRoute(role Role) string {
	if route, ok := homeRoutes[role]; ok {
		return route
	}
	return DefaultHomeRoute
}

// GuardDecision tells a route guard what to do with a navigation attempt.
type GuardDecision int

const (
	// Allow lets the navigation proceed.
	Allow GuardDecision = iota
	// RedirectLogin sends an unauthenticated user to the login page.
	RedirectLogin
	// RedirectHome sends an authenticated user away from a public-only page
	// to their role home.
	RedirectHome
	// Deny blocks an authenticated user whose role is outside the route's
	// allowed set.
	Deny
)

// GuardProtected decides access to a route restricted to the given roles.
// An empty allowed set means any authenticated user may enter.
func (s State) GuardProtected(allowed ...Role) GuardDecision {
	if s.User == nil {
		return RedirectLogin
	}
	if len(allowed) == 0 {
		return Allow
	}
	for _, role := range allowed {
		if s.User.Role == role {
			return Allow
		}
	}
	return Deny
}

// GuardPublicOnly decides access to login/register/landing pages, which
// authenticated users are bounced away from.
func (s State) GuardPublicOnly() GuardDecision {
	if s.User != nil {
		return RedirectHome
	}
	return Allow
}

// HomeRoute is the landing path for the current user, or the login page when
// nobody is signed in.
func (s State) HomeRoute() string {
	if s.User == nil {
		return "/login"
	}
	return HomeRoute(s.User.Role)
}
