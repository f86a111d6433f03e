package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"sportspace-admin/internal/model"
	"sportspace-admin/internal/report"
)

// menuEntry is one dashboard action; entries with role restrictions are
// filtered through the view gate before rendering.
type menuEntry struct {
	route string
	label string
	roles []model.Role
}

var dashboardMenu = []menuEntry{
	{route: "/users", label: "Manage users", roles: []model.Role{model.RoleAdmin}},
	{route: "/spaces", label: "Manage sport spaces", roles: []model.Role{model.RoleAdmin, model.RoleTrainer}},
	{route: "/bookings", label: "Manage bookings"},
	{route: "/reports", label: "Reports dashboard"},
}

func dashboardCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the actions available to the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newClientSession(*configPath)
			if err != nil {
				return err
			}
			if err := s.navigate("/dashboard"); err != nil {
				return err
			}

			user := s.session.CurrentUser()
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s (%s)\n\nAvailable actions:\n", user.Name, user.Role)
			for _, entry := range dashboardMenu {
				if !s.gate.Visible(entry.roles...) {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %s\n", entry.route, entry.label)
			}
			return nil
		},
	}
}

func usersCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage platform users",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newClientSession(*configPath)
			if err != nil {
				return err
			}
			if err := s.navigate("/users"); err != nil {
				return err
			}

			ctx, cancel := s.requestContext()
			defer cancel()
			users, err := s.api.ListUsers(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
			for _, user := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", user.ID, user.Name, user.Email, user.Role)
			}
			return w.Flush()
		},
	})

	var name, email, password, role string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newClientSession(*configPath)
			if err != nil {
				return err
			}
			if err := s.navigate("/users"); err != nil {
				return err
			}

			ctx, cancel := s.requestContext()
			defer cancel()
			user, err := s.api.CreateUser(ctx, model.CreateUserRequest{
				Name:     name,
				Email:    email,
				Password: password,
				Role:     role,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "full name")
	create.Flags().StringVar(&email, "email", "", "email address")
	create.Flags().StringVar(&password, "password", "", "initial password")
	create.Flags().StringVar(&role, "role", "student", "role (admin, trainer, student)")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newClientSession(*configPath)
			if err != nil {
				return err
			}
			if err := s.navigate("/users"); err != nil {
				return err
			}

			ctx, cancel := s.requestContext()
			defer cancel()
			if err := s.api.DeleteUser(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])
			return nil
		},
	})

	return cmd
}

func spacesCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spaces",
		Short: "Manage sport spaces",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all sport spaces",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newClientSession(*configPath)
			if err != nil {
				return err
			}
			if err := s.navigate("/spaces"); err != nil {
				return err
			}

			ctx, cancel := s.requestContext()
			defer cancel()
			spaces, err := s.api.ListSpaces(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLOCATION\tCAPACITY\tACTIVE")
			for _, space := range spaces {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\n",
					space.ID, space.Name, space.Location, space.Capacity, space.IsActive)
			}
			return w.Flush()
		},
	})

	var name, location, description, imagePath string
	var capacity int
	var sportIDs []string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a sport space",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newClientSession(*configPath)
			if err != nil {
				return err
			}
			if err := s.navigate("/spaces"); err != nil {
				return err
			}

			req := model.CreateSpaceRequest{
				Name:        name,
				Location:    location,
				Description: description,
				Capacity:    capacity,
				IsActive:    true,
				SportIDs:    sportIDs,
			}

			var image *os.File
			var imageName string
			if imagePath != "" {
				file, err := os.Open(imagePath)
				if err != nil {
					return err
				}
				defer file.Close()
				image = file
				imageName = filepath.Base(imagePath)
			}

			ctx, cancel := s.requestContext()
			defer cancel()
			var space model.SportSpace
			if image != nil {
				space, err = s.api.CreateSpace(ctx, req, image, imageName)
			} else {
				space, err = s.api.CreateSpace(ctx, req, nil, "")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created space %s (%s)\n", space.Name, space.ID)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "space name")
	create.Flags().StringVar(&location, "location", "", "physical location")
	create.Flags().StringVar(&description, "description", "", "description")
	create.Flags().IntVar(&capacity, "capacity", 0, "capacity")
	create.Flags().StringSliceVar(&sportIDs, "sport", nil, "sport id (repeatable)")
	create.Flags().StringVar(&imagePath, "image", "", "path to a cover image")
	_ = create.MarkFlagRequired("name")
	cmd.AddCommand(create)

	return cmd
}

func bookingsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Manage bookings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all bookings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newClientSession(*configPath)
			if err != nil {
				return err
			}
			if err := s.navigate("/bookings"); err != nil {
				return err
			}

			ctx, cancel := s.requestContext()
			defer cancel()
			bookings, err := s.api.ListBookings(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSPACE\tDATE\tSTART\tEND\tPEOPLE")
			for _, booking := range bookings {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
					booking.ID, booking.SpaceID, booking.Date,
					booking.TimeStart, booking.TimeEnd, booking.PeopleNumber)
			}
			return w.Flush()
		},
	})

	var spaceID, date, timeStart, timeEnd string
	var people int
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a booking",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newClientSession(*configPath)
			if err != nil {
				return err
			}
			if err := s.navigate("/bookings"); err != nil {
				return err
			}

			ctx, cancel := s.requestContext()
			defer cancel()
			booking, err := s.api.CreateBooking(ctx, model.CreateBookingRequest{
				SpaceID:      spaceID,
				Date:         date,
				TimeStart:    timeStart,
				TimeEnd:      timeEnd,
				PeopleNumber: people,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created booking %s\n", booking.ID)
			return nil
		},
	}
	create.Flags().StringVar(&spaceID, "space", "", "space id")
	create.Flags().StringVar(&date, "date", "", "booking date (YYYY-MM-DD)")
	create.Flags().StringVar(&timeStart, "start", "", "start time (HH:MM)")
	create.Flags().StringVar(&timeEnd, "end", "", "end time (HH:MM)")
	create.Flags().IntVar(&people, "people", 1, "number of attendees")
	_ = create.MarkFlagRequired("space")
	_ = create.MarkFlagRequired("date")
	_ = create.MarkFlagRequired("start")
	_ = create.MarkFlagRequired("end")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <booking-id>",
		Short: "Cancel a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newClientSession(*configPath)
			if err != nil {
				return err
			}
			if err := s.navigate("/bookings"); err != nil {
				return err
			}

			ctx, cancel := s.requestContext()
			defer cancel()
			if err := s.api.DeleteBooking(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted booking %s\n", args[0])
			return nil
		},
	})

	return cmd
}

func reportsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "Show platform usage metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newClientSession(*configPath)
			if err != nil {
				return err
			}
			if err := s.navigate("/reports"); err != nil {
				return err
			}

			ctx, cancel := s.requestContext()
			defer cancel()

			bookings, err := s.api.ListBookings(ctx)
			if err != nil {
				return err
			}
			spaces, err := s.api.ListSpaces(ctx)
			if err != nil {
				return err
			}
			users, err := s.api.ListUsers(ctx)
			if err != nil {
				return err
			}

			metrics := report.Compute(time.Now(), bookings, spaces, users)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Users:    %d\n", metrics.TotalUsers)
			fmt.Fprintf(out, "Spaces:   %d (%d active)\n", metrics.TotalSpaces, metrics.ActiveSpaces)
			fmt.Fprintf(out, "Bookings: %d (week %d, month %d)\n",
				metrics.TotalBookings, metrics.BookingsThisWeek, metrics.BookingsThisMonth)
			fmt.Fprintf(out, "Most used space: %s (%d bookings)\n\n",
				metrics.MostUsedSpace.SpaceName, metrics.MostUsedSpace.Count)

			fmt.Fprintln(out, "Users by role:")
			for _, role := range metrics.UsersByRole {
				fmt.Fprintf(out, "  %-14s %d (%d%%)\n", role.Role, role.Count, role.Percentage)
			}

			fmt.Fprintln(out, "\nBookings by space:")
			for _, space := range metrics.BookingsBySpace {
				fmt.Fprintf(out, "  %-24s %d\n", space.SpaceName, space.Count)
			}
			return nil
		},
	}
}
