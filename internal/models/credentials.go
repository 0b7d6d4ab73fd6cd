package models

import (
	"fmt"
	"strings"
)

const redacted = "[redacted]"

// Credentials holds the login for the authenticated portfolio source.
// Supplied via the environment, never persisted. Every serialization
// surface (String, GoString, MarshalJSON) redacts, so a credential value
// cannot leak through logging or diagnostic dumps by accident.
type Credentials struct {
	Email    string
	Password string
}

// IsZero reports whether either field is missing. A zero credential
// degrades the scraper path to "skipped" rather than erroring.
func (c Credentials) IsZero() bool {
	return c.Email == "" || c.Password == ""
}

// MaskedEmail returns the account identifier safe for logs,
// e.g. "trad***@example.com".
func (c Credentials) MaskedEmail() string {
	if c.Email == "" {
		return ""
	}
	at := strings.LastIndex(c.Email, "@")
	local := c.Email
	domain := ""
	if at >= 0 {
		local = c.Email[:at]
		domain = c.Email[at:]
	}
	if len(local) > 4 {
		local = local[:4]
	}
	return local + "***" + domain
}

func (c Credentials) String() string {
	return fmt.Sprintf("Credentials(email=%s password=%s)", c.MaskedEmail(), redacted)
}

// GoString keeps %#v from printing raw field values.
func (c Credentials) GoString() string { return c.String() }

// MarshalJSON emits only redacted forms.
func (c Credentials) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"email":%q,"password":%q}`, c.MaskedEmail(), redacted)), nil
}

// Scrub removes the literal credential values from s. Applied to every
// diagnostic dump before it touches disk.
func (c Credentials) Scrub(s string) string {
	if c.Email != "" {
		s = strings.ReplaceAll(s, c.Email, redacted)
	}
	if c.Password != "" {
		s = strings.ReplaceAll(s, c.Password, redacted)
	}
	return s
}
