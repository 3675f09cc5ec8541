package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/smykla-skalski/codeaudit/internal/analyzer"
	"github.com/smykla-skalski/codeaudit/internal/color"
	"github.com/smykla-skalski/codeaudit/pkg/config"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

const yamlIndent = 2

// Options controls rendering.
type Options struct {
	// Format is one of config.Formats.
	Format string

	// Theme styles table output. The zero Theme renders plain text.
	Theme color.Theme

	// Width is the terminal width used to size table columns. Zero lets
	// the table size itself.
	Width int

	// Elapsed is shown in the table summary.
	Elapsed time.Duration
}

// Write renders reports to w.
func Write(w io.Writer, reports []analyzer.FileReport, opts Options) error {
	switch opts.Format {
	case config.FormatJSON:
		return writeJSON(w, NewDocument(reports))
	case config.FormatYAML:
		return writeYAML(w, NewDocument(reports))
	case config.FormatTable, "":
		return writeTable(w, reports, opts)
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", opts.Format)
	}
}

func writeJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	return errors.Wrap(enc.Encode(doc), "encoding JSON report")
}

func writeYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)

	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "encoding YAML report")
	}

	return errors.Wrap(enc.Close(), "encoding YAML report")
}
