package rule

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

// ErrInvalidSeverity is returned when a severity name is not recognised.
var ErrInvalidSeverity = errors.New("invalid severity")

// Severity is the ordered classification of a violation.
// The zero value is SeverityLow.
type Severity int

const (
	// SeverityLow is a style or robustness concern.
	SeverityLow Severity = iota

	// SeverityMedium is a weakness that needs attention.
	SeverityMedium

	// SeverityHigh is a likely exploitable weakness.
	SeverityHigh

	// SeverityCritical is an immediately exploitable weakness.
	SeverityCritical
)

var severityNames = [...]string{"low", "medium", "high", "critical"}

// severityPenalties are the score points each severity costs.
var severityPenalties = [...]int{2, 5, 10, 20}

// Severities returns all severities from lowest to highest.
func Severities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	if !s.IsValid() {
		return "unknown"
	}

	return severityNames[s]
}

// IsValid reports whether s is one of the defined severities.
func (s Severity) IsValid() bool {
	return s >= SeverityLow && s <= SeverityCritical
}

// Penalty returns the number of points a violation of this severity
// subtracts from the score.
func (s Severity) Penalty() int {
	if !s.IsValid() {
		return 0
	}

	return severityPenalties[s]
}

// AtLeast reports whether s is the same as or more severe than other.
func (s Severity) AtLeast(other Severity) bool {
	return s >= other
}

// ParseSeverity parses a case-insensitive severity name.
func ParseSeverity(name string) (Severity, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))

	for i, n := range severityNames {
		if n == normalized {
			return Severity(i), nil
		}
	}

	return SeverityLow, errors.Wrapf(
		ErrInvalidSeverity,
		"%q, must be one of %s",
		name,
		strings.Join(severityNames[:], ", "),
	)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, errors.Wrapf(ErrInvalidSeverity, "%d", int(s))
	}

	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// MarshalYAML renders the severity by name.
func (s Severity) MarshalYAML() (any, error) {
	return s.String(), nil
}

// JSONSchema describes the severity by name.
func (Severity) JSONSchema() *jsonschema.Schema {
	enum := make([]any, len(severityNames))
	for i, n := range severityNames {
		enum[i] = n
	}

	return &jsonschema.Schema{Type: "string", Enum: enum}
}
