package adminsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vantasec/adminauth/pkg/httpx"
)

// Error codes shared between server handlers and SDK callers.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeAccountDisabled    = "account_disabled"
	ErrorCodeAccountLocked      = "account_locked"
	ErrorCodeRateLimited        = "rate_limited"
	ErrorCodeInvalidCode        = "invalid_code"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeSessionExpired     = "session_expired"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeSelfDelete         = "self_delete"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeEmailTaken         = "email_taken"
	ErrorCodeAlreadyBootstrap   = "already_bootstrapped"
	ErrorCodeServerError        = "server_error"
)

// APIError is the typed form of an error response. It is used both by the
// server to write responses and by the SDK client to surface them.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	// ErrInvalidRequest covers malformed bodies and missing fields.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidCredentials is deliberately vague; it covers unknown
	// emails and wrong passwords alike.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid email or password",
	}

	// ErrAccountDisabled is returned for administratively disabled accounts.
	ErrAccountDisabled = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeAccountDisabled,
		Description: "this account has been disabled",
	}

	// ErrAccountLocked is returned while a lockout window is in effect.
	// Same 429 class as the IP limiter; the code distinguishes them.
	ErrAccountLocked = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeAccountLocked,
		Description: "too many failed attempts, try again later",
	}

	// ErrRateLimited is returned when the per-IP login window is exhausted.
	ErrRateLimited = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeRateLimited,
		Description: "too many login attempts from this address",
	}

	// ErrInvalidCode is returned for a wrong or stale TOTP code.
	ErrInvalidCode = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCode,
		Description: "invalid verification code",
	}

	// ErrInvalidToken is returned when the bearer token is missing,
	// unknown or revoked.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the session token is missing, invalid or revoked",
	}

	// ErrSessionExpired is returned when the session outlived its TTL.
	ErrSessionExpired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeSessionExpired,
		Description: "the session has expired, log in again",
	}

	// ErrForbidden is returned when the role does not allow the operation.
	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "insufficient role for this operation",
	}

	// ErrSelfDelete is returned when an admin tries to delete themselves.
	ErrSelfDelete = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeSelfDelete,
		Description: "cannot delete your own account",
	}

	// ErrNotFound is returned when the target resource does not exist.
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "resource not found",
	}

	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeEmailTaken,
		Description: "an account with this email already exists",
	}

	// ErrAlreadyBootstrapped is returned once any account exists.
	ErrAlreadyBootstrapped = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeAlreadyBootstrap,
		Description: "the system has already been bootstrapped",
	}

	// ErrServerError is the catch-all for unexpected failures.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewAPIError creates a custom APIError while keeping the standard wire
// shape.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// parseErrorResponse turns a non-2xx HTTP response into a typed *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
