package auth

import "github.com/spec-kit/desk-console/internal/domain"

// Decision is the gate's verdict for a protected navigation.
type Decision int

const (
	// DecisionWait holds rendering in a neutral state while the session
	// store is still resolving; no redirect, no content.
	DecisionWait Decision = iota
	// DecisionRedirectToLogin sends an anonymous browser to the login
	// entry point.
	DecisionRedirectToLogin
	// DecisionDeny renders an inline authorization error for a valid
	// session whose role is insufficient. Not a redirect.
	DecisionDeny
	// DecisionRender allows the protected content.
	DecisionRender
)

func (d Decision) String() string {
	switch d {
	case DecisionWait:
		return "wait"
	case DecisionRedirectToLogin:
		return "redirect-to-login"
	case DecisionDeny:
		return "deny"
	case DecisionRender:
		return "render"
	default:
		return "unknown"
	}
}

// Evaluate gates a protected destination. It must run on every
// navigation, not once: the published session can change underneath a
// rendered route (a logout elsewhere, a failed revalidation).
//
// An empty required set means any authenticated session may render.
func Evaluate(session domain.Session, loading bool, required ...domain.Role) Decision {
	if loading {
		return DecisionWait
	}
	if session.Absent() {
		return DecisionRedirectToLogin
	}
	if len(required) > 0 && !session.Role.In(required...) {
		return DecisionDeny
	}
	return DecisionRender
}
