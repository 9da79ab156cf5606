// Package totp derives time-based one-time passwords from a shared secret.
package totp

import (
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	apierr "degiro-trader/internal/errors"
)

// Period is the code rotation window in seconds.
const Period = 30

// Generate derives the 6-digit one-time code for a base32-encoded secret at
// the given time. Pure function of (secret, 30-second window); inject the
// timestamp to make call sites deterministic in tests.
func Generate(secret string, at time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(normalize(secret), at, totp.ValidateOpts{
		Period:    Period,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", apierr.Wrapf(apierr.ErrInvalidSecret, "%v", err)
	}
	return code, nil
}

// GenerateNow derives the code for the current time window.
func GenerateNow(secret string) (string, error) {
	return Generate(secret, time.Now())
}

// normalize strips the whitespace some authenticator exports carry. Case and
// base32 padding are handled by the otp library.
func normalize(secret string) string {
	return strings.ReplaceAll(strings.TrimSpace(secret), " ", "")
}
