package auth

// Page routes known to the guard.
const (
	RouteLogin    = "login"
	RouteRegister = "register"
	RouteProfile  = "profile"
)

// Guard decides whether a page route may be shown. It returns the route to
// redirect to, or "" when navigation may proceed.
//
// Logged-in users are sent from login and register to profile. Anonymous
// users may open register and login; every other page sends them to login.
func Guard(route string, loggedIn bool) string {
	switch {
	case loggedIn && (route == RouteLogin || route == RouteRegister):
		return RouteProfile
	case route == RouteRegister || route == RouteLogin:
		return ""
	case !loggedIn:
		return RouteLogin
	default:
		return ""
	}
}
