package config

import (
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/invopop/jsonschema"
)

// ErrInvalidByteSize is returned for an unparsable size.
var ErrInvalidByteSize = errors.New("invalid byte size")

// ByteSize is a size in bytes, written in config files either as an
// integer or as a human string like "512KiB" or "1MB".
type ByteSize int64

// Common byte size constants.
const (
	KB ByteSize = 1024
	MB ByteSize = 1024 * KB
)

// ParseByteSize parses a human size string.
func ParseByteSize(s string) (ByteSize, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidByteSize, "%q", s)
	}

	return ByteSize(n), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (b *ByteSize) UnmarshalText(text []byte) error {
	size, err := ParseByteSize(string(text))
	if err != nil {
		return err
	}

	*b = size

	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML serialization.
func (b ByteSize) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// String renders the size with binary units, for example "1.0 MiB".
func (b ByteSize) String() string {
	if b < 0 {
		return strconv.FormatInt(int64(b), 10)
	}

	return humanize.IBytes(uint64(b))
}

// JSONSchema returns the JSON Schema for the ByteSize type.
func (ByteSize) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Description: "Size in bytes, as an integer or a string such as \"1MiB\"",
		OneOf: []*jsonschema.Schema{
			{Type: "integer", Minimum: json.Number("0")},
			{Type: "string", Pattern: `^\s*[0-9.]+\s*[a-zA-Z]*\s*$`},
		},
		Examples: []any{1048576, "1MiB", "512KB"},
	}
}
