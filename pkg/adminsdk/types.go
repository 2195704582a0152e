package adminsdk

import "time"

// AccountSummary is the public projection of an admin account. Password
// hashes and TOTP secrets never leave the server.
type AccountSummary struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	TOTPEnabled bool       `json:"totp_enabled"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginRequest is the body of POST /v1/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TOTPSetup carries first-login enrolment material. It is only present
// until the account confirms a code; treat it like a password.
type TOTPSetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

// LoginResponse is returned when the password checks out. The session is
// pending until the TOTP code is verified.
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Account   AccountSummary `json:"account"`
	TOTPSetup *TOTPSetup     `json:"totp_setup,omitempty"`
}

// TOTPVerifyRequest is the body of POST /v1/2fa/verify.
type TOTPVerifyRequest struct {
	Code string `json:"code"`
}

// TOTPVerifyResponse is returned once the session is active. The token
// is the same one the login response carried, now elevated.
type TOTPVerifyResponse struct {
	Token     string         `json:"token"`
	Account   AccountSummary `json:"account"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// BootstrapRequest is the body of POST /v1/bootstrap.
type BootstrapRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// CreateAccountRequest is the body of POST /v1/accounts.
type CreateAccountRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Password    string `json:"password"`
}

// AccountListResponse wraps GET /v1/accounts.
type AccountListResponse struct {
	Accounts []AccountSummary `json:"accounts"`
}

// AuditEntry is one row of the audit trail.
type AuditEntry struct {
	ID         string         `json:"id"`
	ActorID    *string        `json:"actor_id,omitempty"`
	ActorEmail *string        `json:"actor_email,omitempty"`
	Action     string         `json:"action"`
	Success    bool           `json:"success"`
	IP         string         `json:"ip"`
	UserAgent  string         `json:"user_agent"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AuditListResponse wraps GET /v1/audit.
type AuditListResponse struct {
	Entries []AuditEntry `json:"entries"`
}

// ErrorResponse is the wire shape of every non-2xx response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Version string        `json:"version,omitempty"`
	Uptime  string        `json:"uptime,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}
