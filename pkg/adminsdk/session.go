package adminsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Session is an authenticated handle on the service. It starts pending
// after Login and becomes usable for protected calls once VerifyTOTP
// succeeds.
type Session struct {
	client    *Client
	token     string
	expiresAt time.Time
}

// Token returns the raw bearer token, for callers that persist sessions.
func (s *Session) Token() string { return s.token }

// ExpiresAt returns when the server will stop honouring the token.
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// VerifyTOTP submits the six-digit code and promotes the session to
// active.
func (s *Session) VerifyTOTP(ctx context.Context, code string) (TOTPVerifyResponse, error) {
	resp, err := s.postJSON(ctx, "/v1/2fa/verify", TOTPVerifyRequest{Code: code})
	if err != nil {
		return TOTPVerifyResponse{}, err
	}

	var out TOTPVerifyResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return TOTPVerifyResponse{}, err
	}
	return out, nil
}

// Me returns the calling account.
func (s *Session) Me(ctx context.Context) (AccountSummary, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/me", nil, nil)
	if err != nil {
		return AccountSummary{}, err
	}

	var out AccountSummary
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return AccountSummary{}, err
	}
	return out, nil
}

// Logout revokes the session server-side. The Session is dead afterwards.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/logout", nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// CreateAccount provisions a new admin. Requires the super_admin role.
func (s *Session) CreateAccount(ctx context.Context, req CreateAccountRequest) (AccountSummary, error) {
	resp, err := s.postJSON(ctx, "/v1/accounts", req)
	if err != nil {
		return AccountSummary{}, err
	}

	var out AccountSummary
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return AccountSummary{}, err
	}
	return out, nil
}

// ListAccounts returns every admin account. Requires the super_admin role.
func (s *Session) ListAccounts(ctx context.Context) ([]AccountSummary, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/accounts", nil, nil)
	if err != nil {
		return nil, err
	}

	var out AccountListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

// DeleteAccount removes an admin account. Requires the super_admin role;
// deleting your own account is rejected.
func (s *Session) DeleteAccount(ctx context.Context, id string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/accounts/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// AuditLog returns the most recent audit entries, newest first. limit <= 0
// uses the server default.
func (s *Session) AuditLog(ctx context.Context, limit int) ([]AuditEntry, error) {
	path := "/v1/audit"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out AuditListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (s *Session) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return s.doAuthRequest(ctx, http.MethodPost, path, bytes.NewReader(payload), map[string]string{
		"Content-Type": "application/json",
	})
}
