package authstate

import "sportspace-admin/internal/model"

// Route targets used by guard redirects.
const (
	RouteEntry     = "/"
	RouteDashboard = "/dashboard"
)

// Decision is a guard verdict: either allow, or deny with a redirect
// target. Guards never error; denial always carries somewhere to go.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(redirectTo string) Decision {
	return Decision{Allowed: false, RedirectTo: redirectTo}
}

// Guards bundles the navigation predicates evaluated synchronously before
// each route transition.
type Guards struct {
	tokens  *TokenStore
	session *SessionState
}

func NewGuards(tokens *TokenStore, session *SessionState) *Guards {
	return &Guards{tokens: tokens, session: session}
}

// Guest admits only unauthenticated visitors (the login page); an active
// session is sent to the dashboard instead.
func (g *Guards) Guest() Decision {
	if !g.tokens.IsTokenExpired() && g.session.IsAuthenticated() {
		return deny(RouteDashboard)
	}
	return allow()
}

// Authenticated requires both a live token and a materialized session
// user. On denial the session is cleared so stale state cannot satisfy a
// later check.
func (g *Guards) Authenticated() Decision {
	if g.tokens.IsTokenExpired() || !g.session.IsAuthenticated() {
		g.session.ClearUser()
		return deny(RouteEntry)
	}
	return allow()
}

// Role admits sessions whose role is in the allow-list. No role at all
// redirects to the entry page; a role outside the list redirects to the
// dashboard, distinguishing "never logged in" from "insufficient
// privilege".
func (g *Guards) Role(allowed ...model.Role) Decision {
	role := g.session.UserRole()
	if role == "" {
		return deny(RouteEntry)
	}
	for _, candidate := range allowed {
		if role == candidate {
			return allow()
		}
	}
	return deny(RouteDashboard)
}
