package git

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v6/plumbing/format/gitignore"
)

const (
	// ExcludeFileMode is the file mode for .git/info/exclude file.
	ExcludeFileMode = 0o644

	// ExcludeDirMode is the file mode for .git/info directory.
	ExcludeDirMode = 0o750

	excludeComment = "# Added by codeaudit"
)

// ErrEntryAlreadyExists is returned when the exclude file already ignores
// the path a new entry would cover.
var ErrEntryAlreadyExists = errors.New("entry already exists")

// Exclude edits the repository-local ignore list, .git/info/exclude.
type Exclude struct {
	path string
}

// NewExclude returns the exclude list of repo.
func NewExclude(repo *Repository) *Exclude {
	return NewExcludeAt(repo.Root())
}

// NewExcludeAt returns the exclude list of the worktree rooted at root.
func NewExcludeAt(root string) *Exclude {
	return &Exclude{path: filepath.Join(root, ".git", "info", "exclude")}
}

// Path returns the location of the exclude file.
func (e *Exclude) Path() string {
	return e.path
}

// Patterns returns the entries of the exclude file, without comments and
// blank lines. A missing file has no entries.
func (e *Exclude) Patterns() ([]string, error) {
	lines, err := e.lines()
	if err != nil {
		return nil, err
	}

	var patterns []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}

	return patterns, nil
}

// Ignores reports whether the exclude file already ignores rel, a slash
// separated path relative to the worktree root. Later patterns win, as in
// git.
func (e *Exclude) Ignores(rel string, isDir bool) (bool, error) {
	patterns, err := e.Patterns()
	if err != nil {
		return false, err
	}

	parts := strings.Split(strings.Trim(rel, "/"), "/")

	for _, p := range slices.Backward(patterns) {
		switch gitignore.ParsePattern(p, nil).Match(parts, isDir) {
		case gitignore.Exclude:
			return true, nil
		case gitignore.Include:
			return false, nil
		case gitignore.NoMatch:
		}
	}

	return false, nil
}

// Add appends a directory pattern such as "/web/.codeaudit/" under a
// comment line. It returns ErrEntryAlreadyExists when the pattern is
// listed or the directory is already ignored.
func (e *Exclude) Add(pattern string) error {
	patterns, err := e.Patterns()
	if err != nil {
		return err
	}

	ignored, err := e.Ignores(pattern, true)
	if err != nil {
		return err
	}

	if ignored || slices.Contains(patterns, pattern) {
		return errors.Wrapf(ErrEntryAlreadyExists, "pattern %q", pattern)
	}

	lines, err := e.lines()
	if err != nil {
		return err
	}

	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	lines = append(lines, excludeComment, pattern, "")

	if err := os.MkdirAll(filepath.Dir(e.path), ExcludeDirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", filepath.Dir(e.path))
	}

	if err := os.WriteFile(e.path, []byte(strings.Join(lines, "\n")), ExcludeFileMode); err != nil {
		return errors.Wrapf(err, "failed to write to %s", e.path)
	}

	return nil
}

// lines returns the exclude file split on newlines, or nil when it does
// not exist.
func (e *Exclude) lines() ([]string, error) {
	//nolint:gosec // G304: path is inside the repository
	data, err := os.ReadFile(e.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", e.path)
	}

	return strings.Split(string(data), "\n"), nil
}
