package adminsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the admin authentication service. It covers the
// unauthenticated surface and mints Sessions via Login.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with a sane default timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Bootstrap creates the founding super admin. Only works while no
// accounts exist.
func (c *Client) Bootstrap(ctx context.Context, req BootstrapRequest) (AccountSummary, error) {
	resp, err := c.postJSON(ctx, "/v1/bootstrap", req)
	if err != nil {
		return AccountSummary{}, err
	}

	var out AccountSummary
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return AccountSummary{}, err
	}
	return out, nil
}

// Login performs the password step. On success the returned Session is
// pending; call VerifyTOTP on it to activate. The LoginResponse carries
// enrolment material on first login.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, *LoginResponse, error) {
	resp, err := c.postJSON(ctx, "/v1/login", LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, nil, err
	}

	return &Session{
		client:    c,
		token:     out.Token,
		expiresAt: out.ExpiresAt,
	}, &out, nil
}

// NewSessionFromToken resumes a session from a stored token, e.g. after a
// CLI restart.
func (c *Client) NewSessionFromToken(token string, expiresAt time.Time) *Session {
	return &Session{
		client:    c,
		token:     token,
		expiresAt: expiresAt,
	}
}

// Livez checks process liveness.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// Readyz checks whether the service can reach its database.
func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return HealthResponse{}, err
	}

	var out HealthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return HealthResponse{}, err
	}
	return out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(payload), map[string]string{
		"Content-Type": "application/json",
	})
}
