// Package schema generates JSON Schema for the configuration file and the
// machine-readable report.
package schema

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"

	"github.com/smykla-skalski/codeaudit/internal/report"
	"github.com/smykla-skalski/codeaudit/pkg/config"
)

const (
	schemaURI = "https://json-schema.org/draft/2020-12/schema"

	// ConfigSchemaURL is where the published config schema lives.
	ConfigSchemaURL = "https://raw.githubusercontent.com/smykla-skalski/codeaudit/main/schema/config.schema.json"

	configTitle = "codeaudit configuration"
	resultTitle = "codeaudit report"
)

// Schema kinds accepted by GenerateJSON.
const (
	KindConfig = "config"
	KindResult = "result"
)

// ErrUnknownKind is returned for an unsupported schema kind.
var ErrUnknownKind = errors.New("unknown schema kind")

// Kinds lists the schema kinds.
var Kinds = []string{KindConfig, KindResult}

// Generate produces a JSON Schema from the config.Config struct.
func Generate() *jsonschema.Schema {
	return reflect(&config.Config{}, configTitle)
}

// GenerateResult produces a JSON Schema for the JSON report document.
func GenerateResult() *jsonschema.Schema {
	return reflect(&report.Document{}, resultTitle)
}

func reflect(v any, title string) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	s := r.Reflect(v)
	s.Version = schemaURI
	s.Title = title

	return s
}

// SchemaDirective returns the Taplo comment that points editors at the
// config schema.
func SchemaDirective() string {
	return "#:schema " + ConfigSchemaURL
}

// GenerateJSON produces the JSON Schema of the given kind as bytes.
// When indent is true, the output is pretty-printed.
func GenerateJSON(kind string, indent bool) ([]byte, error) {
	var s *jsonschema.Schema

	switch kind {
	case KindConfig, "":
		s = Generate()
	case KindResult:
		s = GenerateResult()
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}

	var (
		data []byte
		err  error
	)

	if indent {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = json.Marshal(s)
	}

	if err != nil {
		return nil, errors.Wrap(err, "marshaling schema to JSON")
	}

	// Append trailing newline for file output.
	return append(data, '\n'), nil
}
