package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"eventapp/internal/config"
	"eventapp/internal/model"
)

// API is the surface of the EventApp REST backend as the client consumes it.
// Handlers depend on this interface; Client is the wire implementation.
type API interface {
	Login(ctx context.Context, creds model.Credentials) (model.LoginResult, error)
	CreateAccount(ctx context.Context, payload model.UserPayload) error

	CurrentUser(ctx context.Context, token string) (model.User, error)
	UpdateProfile(ctx context.Context, token string, payload model.UserPayload) error

	Events(ctx context.Context, token string) ([]model.Event, error)
	MyRegistrations(ctx context.Context, token string) ([]model.Registration, error)
	RegisterForEvent(ctx context.Context, token, eventID string) error
	CancelRegistration(ctx context.Context, token, registrationID string) error

	AdminUsers(ctx context.Context, token string) ([]model.User, error)
	AddUser(ctx context.Context, token string, payload model.UserPayload) error
	DeleteUser(ctx context.Context, token, userID string) error

	AdminEvents(ctx context.Context, token string) ([]model.Event, error)
	CreateEvent(ctx context.Context, token string, payload model.EventPayload) error
	UpdateEvent(ctx context.Context, token, eventID string, payload model.EventPayload) error
	DeleteEvent(ctx context.Context, token, eventID string) error

	AdminRegistrations(ctx context.Context, token string) ([]model.Registration, error)
	PendingRegistrations(ctx context.Context, token string) ([]model.Registration, error)
	ApproveRegistration(ctx context.Context, token, registrationID string) error
	RejectRegistration(ctx context.Context, token, registrationID string) error

	RegistrationAnalytics(ctx context.Context, token, timeframe string) ([]model.AnalyticsPoint, error)
	RecentActivities(ctx context.Context, token string) ([]model.Activity, error)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

var _ API = (*Client)(nil)

func NewClient(cfg config.BackendConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.LoginResult, error) {
	var result model.LoginResult
	if err := c.do(ctx, http.MethodPost, "/public/login", "", creds, &result); err != nil {
		return model.LoginResult{}, err
	}
	if result.Token == "" {
		return model.LoginResult{}, fmt.Errorf("backend: login response missing token")
	}
	return result, nil
}

func (c *Client) CreateAccount(ctx context.Context, payload model.UserPayload) error {
	return c.do(ctx, http.MethodPost, "/public/create-user", "", payload, nil)
}

func (c *Client) CurrentUser(ctx context.Context, token string) (model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/user", token, nil, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, payload model.UserPayload) error {
	return c.do(ctx, http.MethodPut, "/user/update", token, payload, nil)
}

func (c *Client) Events(ctx context.Context, token string) ([]model.Event, error) {
	var events []model.Event
	if err := c.do(ctx, http.MethodGet, "/events", token, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) MyRegistrations(ctx context.Context, token string) ([]model.Registration, error) {
	var regs []model.Registration
	if err := c.do(ctx, http.MethodGet, "/register/my-registrations", token, nil, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

func (c *Client) RegisterForEvent(ctx context.Context, token, eventID string) error {
	return c.do(ctx, http.MethodPost, "/register/"+url.PathEscape(eventID), token, struct{}{}, nil)
}

func (c *Client) CancelRegistration(ctx context.Context, token, registrationID string) error {
	return c.do(ctx, http.MethodDelete, "/register/"+url.PathEscape(registrationID), token, nil, nil)
}

func (c *Client) AdminUsers(ctx context.Context, token string) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/admin/users", token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) AddUser(ctx context.Context, token string, payload model.UserPayload) error {
	return c.do(ctx, http.MethodPost, "/admin/adduser", token, payload, nil)
}

func (c *Client) DeleteUser(ctx context.Context, token, userID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/deleteuser/"+url.PathEscape(userID), token, nil, nil)
}

func (c *Client) AdminEvents(ctx context.Context, token string) ([]model.Event, error) {
	var events []model.Event
	if err := c.do(ctx, http.MethodGet, "/admin/events", token, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) CreateEvent(ctx context.Context, token string, payload model.EventPayload) error {
	return c.do(ctx, http.MethodPost, "/admin/events", token, payload, nil)
}

func (c *Client) UpdateEvent(ctx context.Context, token, eventID string, payload model.EventPayload) error {
	return c.do(ctx, http.MethodPut, "/admin/events/"+url.PathEscape(eventID), token, payload, nil)
}

func (c *Client) DeleteEvent(ctx context.Context, token, eventID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/events/"+url.PathEscape(eventID), token, nil, nil)
}

func (c *Client) AdminRegistrations(ctx context.Context, token string) ([]model.Registration, error) {
	var regs []model.Registration
	if err := c.do(ctx, http.MethodGet, "/admin/registrations", token, nil, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

func (c *Client) PendingRegistrations(ctx context.Context, token string) ([]model.Registration, error) {
	var regs []model.Registration
	if err := c.do(ctx, http.MethodGet, "/admin/registrations/pending", token, nil, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

func (c *Client) ApproveRegistration(ctx context.Context, token, registrationID string) error {
	return c.do(ctx, http.MethodPut, "/register/accept/"+url.PathEscape(registrationID), token, nil, nil)
}

func (c *Client) RejectRegistration(ctx context.Context, token, registrationID string) error {
	return c.do(ctx, http.MethodPut, "/register/reject/"+url.PathEscape(registrationID), token, nil, nil)
}

func (c *Client) RegistrationAnalytics(ctx context.Context, token, timeframe string) ([]model.AnalyticsPoint, error) {
	var points []model.AnalyticsPoint
	path := "/admin/analytics/registrations?timeframe=" + url.QueryEscape(timeframe)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (c *Client) RecentActivities(ctx context.Context, token string) ([]model.Activity, error) {
	var activities []model.Activity
	if err := c.do(ctx, http.MethodGet, "/admin/activities/recent", token, nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// do performs a single request against the API. Auth failures map to the
// sentinel errors so callers can tear the session down; any JSON that does
// not match the expected shape is an error, never rendered as zero values.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("backend: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("api request failed", "method", method, "path", path, "status", resp.StatusCode)
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decode %s %s: %w", method, path, err)
	}
	return nil
}
