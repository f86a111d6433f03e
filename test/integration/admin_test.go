//go:build integration

package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportspace-admin/internal/model"
)

func TestUserManagementIsAdminOnly(t *testing.T) {
	server, _ := newTestServer(t)

	student := login(t, server, memberEmail, memberPass)
	admin := login(t, server, adminEmail, adminPassword)

	denied := doJSON(t, http.MethodGet, server.URL+"/api/v1/users", student.Session.AccessToken, nil)
	defer denied.Body.Close()
	require.Equal(t, http.StatusForbidden, denied.StatusCode)

	created := doJSON(t, http.MethodPost, server.URL+"/api/v1/users", admin.Session.AccessToken, model.CreateUserRequest{
		Name:     "Coach Ana",
		Email:    "ana@sportspace.test",
		Password: "new-user-pass",
		Role:     "trainer",
	})
	defer created.Body.Close()
	require.Equal(t, http.StatusCreated, created.StatusCode)

	var user model.User
	decodeData(t, created.Body, &user)
	assert.Equal(t, model.RoleTrainer, user.Role)
	require.NotEmpty(t, user.ID)

	// The fresh account can log in right away.
	fresh := login(t, server, "ana@sportspace.test", "new-user-pass")
	assert.Equal(t, user.ID, fresh.User.ID)

	deleted := doJSON(t, http.MethodDelete, server.URL+"/api/v1/users/"+user.ID, admin.Session.AccessToken, nil)
	defer deleted.Body.Close()
	require.Equal(t, http.StatusOK, deleted.StatusCode)

	missing := doJSON(t, http.MethodGet, server.URL+"/api/v1/users/"+user.ID, admin.Session.AccessToken, nil)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func seedCourt(t *testing.T, mem *memStore) model.SportSpace {
	t.Helper()

	now := time.Now().UTC()
	space := model.SportSpace{
		ID:       "sp-court",
		Name:     "Center Court",
		Location: "Building A",
		Capacity: 10,
		IsActive: true,
		Schedules: []model.Schedule{
			{Day: 1, TimeStart: "08:00", TimeEnd: "20:00"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	mem.mu.Lock()
	mem.spaces[space.ID] = space
	mem.mu.Unlock()
	return space
}

func TestBookingLifecycle(t *testing.T) {
	server, mem := newTestServer(t)
	space := seedCourt(t, mem)

	student := login(t, server, memberEmail, memberPass)
	token := student.Session.AccessToken

	// 2026-09-07 is a Monday, inside the seeded schedule.
	created := doJSON(t, http.MethodPost, server.URL+"/api/v1/bookings", token, model.CreateBookingRequest{
		SpaceID:      space.ID,
		Date:         "2026-09-07",
		TimeStart:    "10:00",
		TimeEnd:      "11:00",
		PeopleNumber: 4,
	})
	defer created.Body.Close()
	require.Equal(t, http.StatusCreated, created.StatusCode)

	var booking model.Booking
	decodeData(t, created.Body, &booking)
	assert.Equal(t, "u-student", booking.CreatorID)

	overlap := doJSON(t, http.MethodPost, server.URL+"/api/v1/bookings", token, model.CreateBookingRequest{
		SpaceID:      space.ID,
		Date:         "2026-09-07",
		TimeStart:    "10:30",
		TimeEnd:      "11:30",
		PeopleNumber: 2,
	})
	defer overlap.Body.Close()
	assert.Equal(t, http.StatusConflict, overlap.StatusCode)

	mine := doJSON(t, http.MethodGet, server.URL+"/api/v1/bookings/creator/u-student", token, nil)
	defer mine.Body.Close()
	require.Equal(t, http.StatusOK, mine.StatusCode)

	var bookings []model.Booking
	decodeData(t, mine.Body, &bookings)
	require.Len(t, bookings, 1)
	assert.Equal(t, booking.ID, bookings[0].ID)

	removed := doJSON(t, http.MethodDelete, server.URL+"/api/v1/bookings/"+booking.ID, token, nil)
	defer removed.Body.Close()
	require.Equal(t, http.StatusOK, removed.StatusCode)
}

func TestAuditTrailRecordsMutations(t *testing.T) {
	server, mem := newTestServer(t)
	space := seedCourt(t, mem)

	student := login(t, server, memberEmail, memberPass)
	admin := login(t, server, adminEmail, adminPassword)

	created := doJSON(t, http.MethodPost, server.URL+"/api/v1/bookings", student.Session.AccessToken, model.CreateBookingRequest{
		SpaceID:      space.ID,
		Date:         "2026-09-07",
		TimeStart:    "12:00",
		TimeEnd:      "13:00",
		PeopleNumber: 2,
	})
	defer created.Body.Close()
	require.Equal(t, http.StatusCreated, created.StatusCode)

	// Audit writes go through the event bus asynchronously.
	require.Eventually(t, func() bool {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		return len(mem.audit) > 0
	}, 2*time.Second, 10*time.Millisecond)

	auditResp := doJSON(t, http.MethodGet, server.URL+"/api/v1/audit", admin.Session.AccessToken, nil)
	defer auditResp.Body.Close()
	require.Equal(t, http.StatusOK, auditResp.StatusCode)

	var entries []model.AuditEntry
	decodeData(t, auditResp.Body, &entries)
	require.NotEmpty(t, entries)

	var actions []string
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	assert.Contains(t, actions, "booking.created")

	studentDenied := doJSON(t, http.MethodGet, server.URL+"/api/v1/audit", student.Session.AccessToken, nil)
	defer studentDenied.Body.Close()
	assert.Equal(t, http.StatusForbidden, studentDenied.StatusCode)
}
