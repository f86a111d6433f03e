// Package apiclient is a typed HTTP client for the booking platform API,
// used by the admin CLI. It injects the bearer token supplied by a token
// source and unwraps the platform's response envelope.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"sportspace-admin/internal/model"
)

const defaultTimeout = 15 * time.Second

// TokenSource supplies the current access token, or "" when none exists.
type TokenSource interface {
	AccessToken() string
}

type staticToken string

func (t staticToken) AccessToken() string { return string(t) }

// StaticToken adapts a fixed token string to a TokenSource.
func StaticToken(token string) TokenSource { return staticToken(token) }

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
}

// Options overrides client dependencies.
type Options struct {
	HTTPClient *http.Client
	Tokens     TokenSource
}

func New(baseURL string, opts Options) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("apiclient: base URL is empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base URL: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: parsed, httpClient: httpClient, tokens: opts.Tokens}, nil
}

// Error describes a failed API call.
type Error struct {
	Op      string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (%d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// IsAuthError reports whether err is an API rejection with a 401 or 403
// status.
func IsAuthError(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// Login exchanges credentials for a token pair and user identity.
func (c *Client) Login(ctx context.Context, email string, password string) (model.AuthPayload, error) {
	const op = "Login"
	var payload model.AuthPayload
	body := model.LoginRequest{Email: email, Password: password}
	if err := c.call(ctx, op, http.MethodPost, "/api/v1/auth/login", body, &payload); err != nil {
		return model.AuthPayload{}, err
	}
	return payload, nil
}

// Refresh exchanges a refresh token for a fresh token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (model.AuthPayload, error) {
	const op = "Refresh"
	var payload model.AuthPayload
	body := model.RefreshRequest{RefreshToken: refreshToken}
	if err := c.call(ctx, op, http.MethodPost, "/api/v1/auth/refresh", body, &payload); err != nil {
		return model.AuthPayload{}, err
	}
	return payload, nil
}

// Logout revokes the refresh token server-side. Callers clear local state
// regardless of the outcome.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	const op = "Logout"
	body := model.RefreshRequest{RefreshToken: refreshToken}
	return c.call(ctx, op, http.MethodPost, "/api/v1/auth/logout", body, nil)
}

// Me returns the identity behind the current access token.
func (c *Client) Me(ctx context.Context) (model.SessionUser, error) {
	const op = "Me"
	var user model.SessionUser
	if err := c.call(ctx, op, http.MethodGet, "/api/v1/auth/me", nil, &user); err != nil {
		return model.SessionUser{}, err
	}
	return user, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	const op = "ListUsers"
	var users []model.User
	if err := c.call(ctx, op, http.MethodGet, "/api/v1/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (model.User, error) {
	const op = "GetUser"
	var user model.User
	if err := c.call(ctx, op, http.MethodGet, "/api/v1/users/"+url.PathEscape(id), nil, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (c *Client) CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	const op = "CreateUser"
	var user model.User
	if err := c.call(ctx, op, http.MethodPost, "/api/v1/users", req, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, req model.UpdateUserRequest) (model.User, error) {
	const op = "UpdateUser"
	var user model.User
	if err := c.call(ctx, op, http.MethodPut, "/api/v1/users/"+url.PathEscape(id), req, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	const op = "DeleteUser"
	return c.call(ctx, op, http.MethodDelete, "/api/v1/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListSports(ctx context.Context) ([]model.Sport, error) {
	const op = "ListSports"
	var sports []model.Sport
	if err := c.call(ctx, op, http.MethodGet, "/api/v1/sports", nil, &sports); err != nil {
		return nil, err
	}
	return sports, nil
}

func (c *Client) CreateSport(ctx context.Context, req model.CreateSportRequest) (model.Sport, error) {
	const op = "CreateSport"
	var sport model.Sport
	if err := c.call(ctx, op, http.MethodPost, "/api/v1/sports", req, &sport); err != nil {
		return model.Sport{}, err
	}
	return sport, nil
}

func (c *Client) ListSpaces(ctx context.Context) ([]model.SportSpace, error) {
	const op = "ListSpaces"
	var spaces []model.SportSpace
	if err := c.call(ctx, op, http.MethodGet, "/api/v1/spaces", nil, &spaces); err != nil {
		return nil, err
	}
	return spaces, nil
}

func (c *Client) GetSpace(ctx context.Context, id string) (model.SportSpace, error) {
	const op = "GetSpace"
	var space model.SportSpace
	if err := c.call(ctx, op, http.MethodGet, "/api/v1/spaces/"+url.PathEscape(id), nil, &space); err != nil {
		return model.SportSpace{}, err
	}
	return space, nil
}

func (c *Client) UpdateSpace(ctx context.Context, id string, req model.UpdateSpaceRequest) (model.SportSpace, error) {
	const op = "UpdateSpace"
	var space model.SportSpace
	if err := c.call(ctx, op, http.MethodPut, "/api/v1/spaces/"+url.PathEscape(id), req, &space); err != nil {
		return model.SportSpace{}, err
	}
	return space, nil
}

func (c *Client) DeleteSpace(ctx context.Context, id string) error {
	const op = "DeleteSpace"
	return c.call(ctx, op, http.MethodDelete, "/api/v1/spaces/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ReplaceSchedules(ctx context.Context, spaceID string, req model.ReplaceSchedulesRequest) error {
	const op = "ReplaceSchedules"
	return c.call(ctx, op, http.MethodPut, "/api/v1/spaces/"+url.PathEscape(spaceID)+"/schedules", req, nil)
}

// CreateSpace sends the space payload as the "data" part of a multipart
// form, with an optional image file part.
func (c *Client) CreateSpace(ctx context.Context, req model.CreateSpaceRequest, image io.Reader, imageName string) (model.SportSpace, error) {
	const op = "CreateSpace"

	body, contentType, err := encodeSpaceForm(req, image, imageName)
	if err != nil {
		return model.SportSpace{}, &Error{Op: op, Err: err}
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/v1/spaces", body, contentType)
	if err != nil {
		return model.SportSpace{}, &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var space model.SportSpace
	if err := decodeEnvelope(op, resp, &space); err != nil {
		return model.SportSpace{}, err
	}
	return space, nil
}

func (c *Client) ListBookings(ctx context.Context) ([]model.Booking, error) {
	const op = "ListBookings"
	var bookings []model.Booking
	if err := c.call(ctx, op, http.MethodGet, "/api/v1/bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) ListBookingsByCreator(ctx context.Context, creatorID string) ([]model.Booking, error) {
	const op = "ListBookingsByCreator"
	var bookings []model.Booking
	if err := c.call(ctx, op, http.MethodGet, "/api/v1/bookings/creator/"+url.PathEscape(creatorID), nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) CreateBooking(ctx context.Context, req model.CreateBookingRequest) (model.Booking, error) {
	const op = "CreateBooking"
	var booking model.Booking
	if err := c.call(ctx, op, http.MethodPost, "/api/v1/bookings", req, &booking); err != nil {
		return model.Booking{}, err
	}
	return booking, nil
}

func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	const op = "DeleteBooking"
	return c.call(ctx, op, http.MethodDelete, "/api/v1/bookings/"+url.PathEscape(id), nil, nil)
}

func (c *Client) RecentAudit(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	const op = "RecentAudit"
	path := "/api/v1/audit"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var entries []model.AuditEntry
	if err := c.call(ctx, op, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// call performs a JSON request and decodes the envelope's data section
// into out (when non-nil).
func (c *Client) call(ctx context.Context, op string, method string, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return &Error{Op: op, Err: err}
		}
		body = buf
	}

	resp, err := c.do(ctx, method, path, body, "application/json")
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	return decodeEnvelope(op, resp, out)
}

func (c *Client) do(ctx context.Context, method string, path string, body io.Reader, contentType string) (*http.Response, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	full := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, method, full.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return c.httpClient.Do(req)
}

func decodeEnvelope(op string, resp *http.Response, out any) error {
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *model.APIError `json:"error"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Op: op, Status: resp.StatusCode}
		if envelope.Error != nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}
	if decodeErr != nil {
		return &Error{Op: op, Status: resp.StatusCode, Err: decodeErr}
	}
	if !envelope.Success {
		return &Error{Op: op, Status: resp.StatusCode, Err: errors.New("response not marked successful")}
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Err: err}
	}
	return nil
}
