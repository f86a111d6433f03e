package main

import (
	"context"
	"fmt"
	"time"

	"sportspace-admin/internal/apiclient"
	"sportspace-admin/internal/authstate"
	"sportspace-admin/internal/model"
)

// clientSession bundles the session core and the API client behind one
// wiring point shared by every command.
type clientSession struct {
	cfg     *Config
	tokens  *authstate.TokenStore
	session *authstate.SessionState
	guards  *authstate.Guards
	gate    *authstate.RoleGate
	api     *apiclient.Client
}

func newClientSession(configPath string) (*clientSession, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	store, err := authstate.NewFileStore(cfg.StateFile)
	if err != nil {
		return nil, err
	}

	tokens := authstate.NewTokenStore(store)
	session := authstate.NewSessionState(store, tokens)
	session.Initialize()

	api, err := apiclient.New(cfg.APIURL, apiclient.Options{Tokens: tokens})
	if err != nil {
		return nil, err
	}

	return &clientSession{
		cfg:     cfg,
		tokens:  tokens,
		session: session,
		guards:  authstate.NewGuards(tokens, session),
		gate:    authstate.NewRoleGate(session),
		api:     api,
	}, nil
}

// Route guard chains, evaluated before each command runs. Mirrors the
// route table of the admin UI.
var routeGuards = map[string]func(*clientSession) authstate.Decision{
	authstate.RouteEntry:     func(s *clientSession) authstate.Decision { return s.guards.Guest() },
	authstate.RouteDashboard: func(s *clientSession) authstate.Decision { return s.guards.Authenticated() },
	"/users": func(s *clientSession) authstate.Decision {
		return chain(s.guards.Authenticated, func() authstate.Decision {
			return s.guards.Role(model.RoleAdmin)
		})
	},
	"/spaces": func(s *clientSession) authstate.Decision {
		return chain(s.guards.Authenticated, func() authstate.Decision {
			return s.guards.Role(model.RoleAdmin, model.RoleTrainer)
		})
	},
	"/bookings": func(s *clientSession) authstate.Decision { return s.guards.Authenticated() },
	"/reports":  func(s *clientSession) authstate.Decision { return s.guards.Authenticated() },
}

func chain(guards ...func() authstate.Decision) authstate.Decision {
	for _, guard := range guards {
		if decision := guard(); !decision.Allowed {
			return decision
		}
	}
	return authstate.Decision{Allowed: true}
}

// navigate runs the guard chain for a route. Denial reports the redirect
// target as an error, which the CLI surfaces with a non-zero exit.
func (s *clientSession) navigate(route string) error {
	guard, ok := routeGuards[route]
	if !ok {
		return fmt.Errorf("unknown route %q", route)
	}
	if decision := guard(s); !decision.Allowed {
		return fmt.Errorf("access to %s denied, redirected to %s", route, decision.RedirectTo)
	}
	return nil
}

func (s *clientSession) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
