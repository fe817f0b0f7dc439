// Package client is a Go SDK for the EventMate API. It keeps the login
// session in a SessionStore and attaches the bearer token to every call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrNotLoggedIn is returned by calls that need a session when none is held.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx API response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eventmate: %d %s", e.StatusCode, e.Message)
}

// StatusCode returns the HTTP status of err when it is an *APIError, else 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Client calls the EventMate API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      SessionStore

	mu      sync.RWMutex
	session *Session
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSessionStore sets where the session is persisted. The default is a
// MemoryStore.
func WithSessionStore(s SessionStore) Option {
	return func(c *Client) { c.store = s }
}

// New returns a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		store:      NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore loads a previously saved session. It reports false when the store
// holds none.
func (c *Client) Restore(ctx context.Context) (bool, error) {
	s, err := c.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return false, nil
		}
		return false, err
	}

	c.mu.Lock()
	c.session = &s
	c.mu.Unlock()
	return true, nil
}

// Session returns the current session, if any.
func (c *Client) Session() (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, in RegisterInput) (Registered, error) {
	var out Registered
	err := c.do(ctx, http.MethodPost, "/auth/register", in, &out, false)
	return out, err
}

// Login authenticates and stores the resulting session.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	in := map[string]string{"username": username, "password": password}
	var out Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &out, false); err != nil {
		return Session{}, err
	}
	if err := c.store.Save(ctx, out); err != nil {
		return Session{}, fmt.Errorf("saving session: %w", err)
	}

	c.mu.Lock()
	c.session = &out
	c.mu.Unlock()
	return out, nil
}

// Logout forgets the session locally. Tokens stay valid until they expire.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	return c.store.Clear(ctx)
}

// Events lists all events.
func (c *Client) Events(ctx context.Context) ([]Event, error) {
	var out struct {
		Events []Event `json:"events"`
	}
	err := c.do(ctx, http.MethodGet, "/events", nil, &out, false)
	return out.Events, err
}

// Event returns one event.
func (c *Client) Event(ctx context.Context, id int64) (Event, error) {
	var out struct {
		Event Event `json:"event"`
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/events/%d", id), nil, &out, false)
	return out.Event, err
}

// CreateEvent creates an event. Admin only.
func (c *Client) CreateEvent(ctx context.Context, in EventInput) (Event, error) {
	var out struct {
		Event Event `json:"event"`
	}
	err := c.do(ctx, http.MethodPost, "/events", in, &out, true)
	return out.Event, err
}

// UpdateEvent replaces an event. Admin only.
func (c *Client) UpdateEvent(ctx context.Context, id int64, in EventInput) (Event, error) {
	var out struct {
		Event Event `json:"event"`
	}
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/events/%d", id), in, &out, true)
	return out.Event, err
}

// DeleteEvent deletes an event and its registrations. Admin only.
func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/events/%d", id), nil, nil, true)
}

// RegisterForEvent registers the logged in user for an event.
func (c *Client) RegisterForEvent(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/events/%d/register", id), nil, nil, true)
}

// CancelRegistration cancels the logged in user's registration.
func (c *Client) CancelRegistration(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/user/events/%d/cancel", id), nil, nil, true)
}

// MyEvents lists the events the logged in user is registered for.
func (c *Client) MyEvents(ctx context.Context) ([]Event, error) {
	var out struct {
		Events []Event `json:"events"`
	}
	err := c.do(ctx, http.MethodGet, "/user/events", nil, &out, true)
	return out.Events, err
}

// EventRegistrations lists the registrants of an event. Admin only.
func (c *Client) EventRegistrations(ctx context.Context, id int64) ([]Registrant, error) {
	var out struct {
		Registrations []Registrant `json:"registrations"`
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/events/%d/registrations", id), nil, &out, true)
	return out.Registrations, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, auth bool) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		s, ok := c.Session()
		if !ok {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil {
			apiErr.Message = msg.Message
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
