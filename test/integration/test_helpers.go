//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"sportspace-admin/internal/config"
	"sportspace-admin/internal/event"
	"sportspace-admin/internal/handler"
	"sportspace-admin/internal/metrics"
	"sportspace-admin/internal/middleware"
	"sportspace-admin/internal/model"
	"sportspace-admin/internal/router"
	"sportspace-admin/internal/service"
	"sportspace-admin/internal/storage"
)

// memStore is a single in-memory backend behind all the repository
// interfaces the services consume, so the full HTTP stack can be exercised
// without Postgres.
type memStore struct {
	mu       sync.Mutex
	users    map[string]model.User
	tokens   map[string]string
	sports   map[string]model.Sport
	spaces   map[string]model.SportSpace
	bookings map[string]model.Booking
	audit    []model.AuditEntry
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]model.User{},
		tokens:   map[string]string{},
		sports:   map[string]model.Sport{},
		spaces:   map[string]model.SportSpace{},
		bookings: map[string]model.Booking{},
	}
}

func (m *memStore) FindByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (m *memStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (m *memStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Create(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m *memStore) Update(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return model.ErrUserNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memStore) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]model.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

type tokenStore struct{ m *memStore }

func (t tokenStore) Store(_ context.Context, token string, userID string, _ time.Time) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	t.m.tokens[token] = userID
	return nil
}

func (t tokenStore) Validate(_ context.Context, token string) (string, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	userID, ok := t.m.tokens[token]
	if !ok {
		return "", model.ErrTokenNotFound
	}
	return userID, nil
}

func (t tokenStore) Revoke(_ context.Context, token string) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	delete(t.m.tokens, token)
	return nil
}

func (t tokenStore) RevokeAllForUser(_ context.Context, userID string) error {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for token, owner := range t.m.tokens {
		if owner == userID {
			delete(t.m.tokens, token)
		}
	}
	return nil
}

type sportStore struct{ m *memStore }

func (s sportStore) FindByID(_ context.Context, id string) (model.Sport, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	sport, ok := s.m.sports[id]
	if !ok {
		return model.Sport{}, model.ErrSportNotFound
	}
	return sport, nil
}

func (s sportStore) Create(_ context.Context, sport model.Sport) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.sports[sport.ID] = sport
	return nil
}

func (s sportStore) List(_ context.Context) ([]model.Sport, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	sports := make([]model.Sport, 0, len(s.m.sports))
	for _, sport := range s.m.sports {
		sports = append(sports, sport)
	}
	return sports, nil
}

type spaceStore struct{ m *memStore }

func (s spaceStore) Create(_ context.Context, space model.SportSpace) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.spaces[space.ID] = space
	return nil
}

func (s spaceStore) FindByID(_ context.Context, id string) (model.SportSpace, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	space, ok := s.m.spaces[id]
	if !ok {
		return model.SportSpace{}, model.ErrSpaceNotFound
	}
	return space, nil
}

func (s spaceStore) List(_ context.Context) ([]model.SportSpace, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	spaces := make([]model.SportSpace, 0, len(s.m.spaces))
	for _, space := range s.m.spaces {
		spaces = append(spaces, space)
	}
	return spaces, nil
}

func (s spaceStore) Update(_ context.Context, space model.SportSpace) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.spaces[space.ID]; !ok {
		return model.ErrSpaceNotFound
	}
	s.m.spaces[space.ID] = space
	return nil
}

func (s spaceStore) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.spaces[id]; !ok {
		return model.ErrSpaceNotFound
	}
	delete(s.m.spaces, id)
	return nil
}

func (s spaceStore) ReplaceSchedules(_ context.Context, spaceID string, schedules []model.Schedule) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	space, ok := s.m.spaces[spaceID]
	if !ok {
		return model.ErrSpaceNotFound
	}
	space.Schedules = schedules
	s.m.spaces[spaceID] = space
	return nil
}

type bookingStore struct{ m *memStore }

func (b bookingStore) Create(_ context.Context, booking model.Booking) error {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	b.m.bookings[booking.ID] = booking
	return nil
}

func (b bookingStore) FindByID(_ context.Context, id string) (model.Booking, error) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	booking, ok := b.m.bookings[id]
	if !ok {
		return model.Booking{}, model.ErrBookingNotFound
	}
	return booking, nil
}

func (b bookingStore) List(_ context.Context) ([]model.Booking, error) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	bookings := make([]model.Booking, 0, len(b.m.bookings))
	for _, booking := range b.m.bookings {
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

func (b bookingStore) ListByCreator(_ context.Context, creatorID string) ([]model.Booking, error) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	var bookings []model.Booking
	for _, booking := range b.m.bookings {
		if booking.CreatorID == creatorID {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (b bookingStore) ListBySpaceAndDate(_ context.Context, spaceID string, date string) ([]model.Booking, error) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	var bookings []model.Booking
	for _, booking := range b.m.bookings {
		if booking.SpaceID == spaceID && booking.Date == date {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (b bookingStore) Delete(_ context.Context, id string) error {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	if _, ok := b.m.bookings[id]; !ok {
		return model.ErrBookingNotFound
	}
	delete(b.m.bookings, id)
	return nil
}

type auditStore struct{ m *memStore }

func (a auditStore) Log(_ context.Context, entry model.AuditEntry) error {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	a.m.audit = append(a.m.audit, entry)
	return nil
}

func (a auditStore) Recent(_ context.Context, limit int) ([]model.AuditEntry, error) {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	entries := a.m.audit
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]model.AuditEntry, len(entries))
	copy(out, entries)
	return out, nil
}

const (
	adminEmail    = "admin@sportspace.test"
	adminPassword = "admin-pass-123"
	memberEmail   = "student@sportspace.test"
	memberPass    = "student-pass-123"
)

// newTestServer stands up the full router over in-memory repositories and
// returns the server plus the backing store for direct seeding.
func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()

	mem := newMemStore()
	seedUser(t, mem, "u-admin", "Admin", adminEmail, adminPassword, model.RoleAdmin)
	seedUser(t, mem, "u-student", "Sam", memberEmail, memberPass, model.RoleStudent)

	bus := event.NewBus()

	authService, err := service.NewAuthService("integration-secret", 15*time.Minute, 24*time.Hour, mem, tokenStore{mem}, bus)
	require.NoError(t, err)

	imageStore, err := storage.New(t.TempDir())
	require.NoError(t, err)

	userService := service.NewUserService(mem, bus)
	spaceService := service.NewSpaceService(spaceStore{mem}, sportStore{mem}, imageStore, t.TempDir(), bus)
	bookingService := service.NewBookingService(bookingStore{mem}, spaceStore{mem}, bus)
	auditService := service.NewAuditService(auditStore{mem}, bus)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go auditService.Run(ctx)

	cfg := &config.Config{
		RequestTimeout:   30 * time.Second,
		MaxImageSize:     5 * 1024 * 1024,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
	}

	reg := metrics.New()
	authMiddleware := middleware.NewAuthMiddleware(authService)

	h := router.New(
		cfg,
		reg,
		authMiddleware,
		handler.NewAuthHandler(authService, reg),
		handler.NewUserHandler(userService),
		handler.NewSpaceHandler(spaceService, cfg.MaxImageSize),
		handler.NewBookingHandler(bookingService),
		handler.NewAuditHandler(auditService),
		func() error { return nil },
	)

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return server, mem
}

func seedUser(t *testing.T, mem *memStore, id, name, email, password string, role model.Role) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	mem.users[id] = model.User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

func login(t *testing.T, server *httptest.Server, email, password string) model.AuthPayload {
	t.Helper()

	body, err := json.Marshal(model.LoginRequest{Email: email, Password: password})
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload model.AuthPayload
	decodeData(t, resp.Body, &payload)
	return payload
}

func doJSON(t *testing.T, method, url, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// decodeData unwraps the {success, data} envelope into out.
func decodeData(t *testing.T, r io.Reader, out any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(r).Decode(&envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
