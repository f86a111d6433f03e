package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sportspace-admin/internal/apiclient"
	"sportspace-admin/internal/authstate"
)

func loginCmd(configPath *string) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newClientSession(*configPath)
			if err != nil {
				return err
			}
			if err := s.navigate(authstate.RouteEntry); err != nil {
				return err
			}

			ctx, cancel := s.requestContext()
			defer cancel()

			payload, err := s.api.Login(ctx, email, password)
			if err != nil {
				if apiclient.IsAuthError(err) {
					return fmt.Errorf("invalid credentials")
				}
				return err
			}

			if err := s.tokens.SaveTokens(payload.Session.AccessToken, payload.Session.RefreshToken); err != nil {
				return err
			}
			s.session.SetUser(payload.User)

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", payload.User.Email, payload.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and clear local state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newClientSession(*configPath)
			if err != nil {
				return err
			}

			// Local state is cleared whatever the server says.
			defer func() {
				_ = s.tokens.ClearTokens()
				s.session.ClearUser()
				fmt.Fprintf(cmd.OutOrStdout(), "Logged out, returning to %s\n", authstate.RouteEntry)
			}()

			refresh := s.tokens.RefreshToken()
			if refresh == "" {
				return nil
			}

			ctx, cancel := s.requestContext()
			defer cancel()
			if err := s.api.Logout(ctx, refresh); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: server logout failed: %v\n", err)
			}
			return nil
		},
	}
}

func whoamiCmd(configPath *string) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newClientSession(*configPath)
			if err != nil {
				return err
			}
			if err := s.navigate(authstate.RouteDashboard); err != nil {
				return err
			}

			user := s.session.CurrentUser()
			if remote {
				ctx, cancel := s.requestContext()
				defer cancel()
				fetched, err := s.api.Me(ctx)
				if err != nil {
					return err
				}
				user = &fetched
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ID:    %s\nName:  %s\nEmail: %s\nRole:  %s\n",
				user.ID, user.Name, user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "verify identity against the server")
	return cmd
}
