// Package guard decides whether a navigation may proceed for the current
// session state. Guards are pure functions: they hold no state of their own
// and must be re-evaluated on every navigation.
package guard

import (
	"storefront-api/internal/domain"
	"storefront-api/internal/session"
)

// Well-known destinations used by redirect decisions.
const (
	PathHome          = "/"
	PathLogin         = "/login"
	PathAdminProducts = "/admin/products"
)

// Decision is the outcome of evaluating a guard. Exactly one of Allow or a
// redirect applies; a denied navigation never renders the guarded content,
// not even transiently.
type Decision struct {
	// Allow renders the requested view.
	Allow bool
	// RedirectTo is the destination when Allow is false.
	RedirectTo string
	// From preserves the originally requested path for post-login redirect.
	From string
	// Warning carries the one-time message to surface, when present.
	Warning string
}

// PublicOnly keeps authenticated users away from login/register views,
// routing admins to their console and customers home.
func PublicOnly(st session.State) Decision {
	if !st.IsAuthenticated {
		return Decision{Allow: true}
	}
	if st.User != nil && st.User.Role == domain.RoleAdmin {
		return Decision{RedirectTo: PathAdminProducts}
	}
	return Decision{RedirectTo: PathHome}
}

// RequireAuth admits authenticated users and sends everyone else to login,
// remembering the intended destination.
func RequireAuth(st session.State, target string) Decision {
	if st.IsAuthenticated {
		return Decision{Allow: true}
	}
	return Decision{RedirectTo: PathLogin, From: target}
}

// RequireAdmin admits admins only. Unauthenticated callers go to login;
// authenticated non-admins get exactly one warning and go home.
func RequireAdmin(st session.State, target string) Decision {
	if !st.IsAuthenticated {
		return Decision{RedirectTo: PathLogin, From: target}
	}
	if st.User == nil || st.User.Role != domain.RoleAdmin {
		return Decision{
			RedirectTo: PathHome,
			Warning:    "You are not authorized to access this page.",
		}
	}
	return Decision{Allow: true}
}
