package route

// Access is the guard policy of a route.
type Access int

const (
	// Public routes render for everyone.
	Public Access = iota
	// Protected routes need an authenticated session.
	Protected
	// GuestOnly routes are for anonymous sessions only.
	GuestOnly
)

// Decide returns where to redirect for a route with access a, or "" to
// render it.
func Decide(a Access, authenticated bool) string {
	switch {
	case a == Protected && !authenticated:
		return PathLogin
	case a == GuestOnly && authenticated:
		return PathRoot
	default:
		return ""
	}
}
