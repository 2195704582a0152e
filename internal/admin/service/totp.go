package service

import (
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// generateTOTPKey provisions a new TOTP secret for an account. The secret
// is returned alongside the otpauth:// URL that authenticator apps consume.
func generateTOTPKey(issuer, email string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// validateTOTPCode checks a six-digit code against the secret, accepting
// one period of clock skew either side.
func validateTOTPCode(code, secret string, at time.Time) bool {
	code = normalizeTOTPCode(code)
	if len(code) != 6 {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// normalizeTOTPCode strips the whitespace users paste in from
// authenticator apps ("123 456").
func normalizeTOTPCode(code string) string {
	return strings.Join(strings.Fields(code), "")
}
