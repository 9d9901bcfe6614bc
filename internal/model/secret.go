// Package model defines domain entities for the application.
package model

// redacted is what a Secret renders as anywhere outside the provider call.
const redacted = "[REDACTED]"

// Secret wraps a sensitive credential string so it cannot leak through
// JSON encoding, logging, or fmt verbs. The raw value is only reachable
// through an explicit Reveal call at the point of use.
type Secret struct {
	value string
}

// NewSecret wraps a raw credential value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Reveal returns the raw credential value.
// Call only where the value is actually sent to the provider.
func (s Secret) Reveal() string {
	return s.value
}

// IsZero reports whether the secret holds no value.
func (s Secret) IsZero() bool {
	return s.value == ""
}

// Prefix returns the first n characters of the value for display,
// mirroring how the settings UI surfaces a configured key.
func (s Secret) Prefix(n int) string {
	if n <= 0 || s.value == "" {
		return ""
	}
	if n > len(s.value) {
		n = len(s.value)
	}
	return s.value[:n]
}

// String implements fmt.Stringer with redaction.
func (s Secret) String() string {
	if s.value == "" {
		return ""
	}
	return redacted
}

// GoString keeps %#v output redacted as well.
func (s Secret) GoString() string {
	return "model.Secret{" + s.String() + "}"
}

// MarshalJSON always serializes the redaction marker, never the value.
func (s Secret) MarshalJSON() ([]byte, error) {
	if s.value == "" {
		return []byte(`""`), nil
	}
	return []byte(`"` + redacted + `"`), nil
}
