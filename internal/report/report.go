// Package report recomputes dashboard metrics from the three flat lists
// the admin CLI fetches: bookings, spaces and users. Pure computation, no
// I/O.
package report

import (
	"math"
	"sort"
	"time"

	"sportspace-admin/internal/model"
)

type SpaceCount struct {
	SpaceName string `json:"space_name"`
	Count     int    `json:"count"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type RoleCount struct {
	Role       string `json:"role"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type Metrics struct {
	TotalUsers        int          `json:"total_users"`
	TotalSpaces       int          `json:"total_spaces"`
	TotalBookings     int          `json:"total_bookings"`
	ActiveUsers       int          `json:"active_users"`
	ActiveSpaces      int          `json:"active_spaces"`
	BookingsThisWeek  int          `json:"bookings_this_week"`
	BookingsThisMonth int          `json:"bookings_this_month"`
	MostUsedSpace     SpaceCount   `json:"most_used_space"`
	BookingsByDate    []DateCount  `json:"bookings_by_date"`
	BookingsBySpace   []SpaceCount `json:"bookings_by_space"`
	UsersByRole       []RoleCount  `json:"users_by_role"`
}

const dateLayout = "2006-01-02"

// Compute aggregates the three lists at the given reference time. The
// 7- and 30-day windows are inclusive of today; the by-date series is
// zero-filled over the last 30 days.
func Compute(now time.Time, bookings []model.Booking, spaces []model.SportSpace, users []model.User) Metrics {
	today := now.Truncate(24 * time.Hour)
	weekAgo := today.AddDate(0, 0, -7)
	monthAgo := today.AddDate(0, 0, -30)

	metrics := Metrics{
		TotalUsers:    len(users),
		TotalSpaces:   len(spaces),
		TotalBookings: len(bookings),
		ActiveUsers:   len(users),
		MostUsedSpace: SpaceCount{SpaceName: "N/A"},
	}

	for _, space := range spaces {
		if space.IsActive {
			metrics.ActiveSpaces++
		}
	}

	var recent []model.Booking
	for _, booking := range bookings {
		date, err := time.Parse(dateLayout, booking.Date)
		if err != nil {
			continue
		}
		if !date.Before(monthAgo) {
			recent = append(recent, booking)
		}
		if !date.Before(weekAgo) {
			metrics.BookingsThisWeek++
		}
	}
	metrics.BookingsThisMonth = len(recent)

	metrics.BookingsBySpace = bookingsBySpace(bookings, spaces)
	if len(metrics.BookingsBySpace) > 0 {
		metrics.MostUsedSpace = metrics.BookingsBySpace[0]
	}

	metrics.BookingsByDate = bookingsByDate(today, recent)
	metrics.UsersByRole = usersByRole(users)

	return metrics
}

func bookingsBySpace(bookings []model.Booking, spaces []model.SportSpace) []SpaceCount {
	names := make(map[string]string, len(spaces))
	for _, space := range spaces {
		names[space.ID] = space.Name
	}

	counts := map[string]int{}
	for _, booking := range bookings {
		name, ok := names[booking.SpaceID]
		if !ok {
			name = "unknown space"
		}
		counts[name]++
	}

	result := make([]SpaceCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, SpaceCount{SpaceName: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].SpaceName < result[j].SpaceName
	})
	return result
}

func bookingsByDate(today time.Time, bookings []model.Booking) []DateCount {
	counts := map[string]int{}
	for _, booking := range bookings {
		counts[booking.Date]++
	}

	series := make([]DateCount, 0, 30)
	for i := 29; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(dateLayout)
		series = append(series, DateCount{Date: day, Count: counts[day]})
	}
	return series
}

func usersByRole(users []model.User) []RoleCount {
	counts := map[model.Role]int{}
	for _, user := range users {
		role := user.Role
		if role == "" {
			role = model.RoleStudent
		}
		counts[role]++
	}

	total := len(users)
	result := make([]RoleCount, 0, len(counts))
	for role, count := range counts {
		percentage := 0
		if total > 0 {
			percentage = int(math.Round(float64(count) / float64(total) * 100))
		}
		result = append(result, RoleCount{Role: role.Label(), Count: count, Percentage: percentage})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Role < result[j].Role
	})
	return result
}
