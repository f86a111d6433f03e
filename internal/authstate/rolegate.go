package authstate

import (
	"sync"

	"sportspace-admin/internal/model"
)

// RoleGate decides which UI subtrees are rendered for the current role.
// It tracks the session reactively: a role change is visible to Visible
// within the same mutation that changed the session.
type RoleGate struct {
	mu          sync.Mutex
	role        model.Role
	unsubscribe func()
}

func NewRoleGate(session *SessionState) *RoleGate {
	gate := &RoleGate{role: session.UserRole()}
	gate.unsubscribe = session.Subscribe(func(user *model.SessionUser) {
		gate.mu.Lock()
		if user == nil {
			gate.role = ""
		} else {
			gate.role = user.Role
		}
		gate.mu.Unlock()
	})
	return gate
}

// Visible reports whether a subtree restricted to the given roles should
// be rendered. An empty allow-list means any authenticated role.
func (g *RoleGate) Visible(allowed ...model.Role) bool {
	g.mu.Lock()
	role := g.role
	g.mu.Unlock()

	if role == "" {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, candidate := range allowed {
		if role == candidate {
			return true
		}
	}
	return false
}

// Close detaches the gate from the session.
func (g *RoleGate) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
		g.unsubscribe = nil
	}
}
