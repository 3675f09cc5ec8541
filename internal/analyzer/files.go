package analyzer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/smykla-skalski/codeaudit/internal/engine"
)

var (
	// ErrFileTooLarge is returned for files above the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrNoFiles is returned when the given paths match no source files.
	ErrNoFiles = errors.New("no source files found")
)

// FileReport is the outcome for one file of a batch. Err is set when the
// file could not be read, exceeded the size limit or did not parse; in the
// last case Result is engine.Empty().
type FileReport struct {
	Path     string
	Size     int64
	Result   *engine.AnalysisResult
	Err      error
	Duration time.Duration
}

// Failed reports whether the file could not be fully analyzed.
func (r *FileReport) Failed() bool {
	return r.Err != nil
}

// BatchOptions controls file discovery and batch concurrency.
type BatchOptions struct {
	// Extensions filters files found while walking directories.
	Extensions []string

	// Exclude holds doublestar patterns matched against paths relative to
	// the walked directory.
	Exclude []string

	// MaxFileSize is the largest file analyzed, in bytes. Zero disables
	// the check.
	MaxFileSize int64

	// MaxInFlight bounds how many files are analyzed at once.
	MaxInFlight int
}

// Discover expands paths into the source files to analyze. Directories are
// walked recursively and filtered by extension and exclude patterns.
// Arguments containing glob metacharacters are expanded with doublestar.
// Named files are always kept. The result is deduplicated and keeps
// argument order, with each directory's files in lexical order.
func Discover(paths []string, opts BatchOptions) ([]string, error) {
	var (
		out  []string
		seen = make(map[string]bool)
	)

	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		if hasGlobMeta(p) {
			matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
			if err != nil {
				return nil, errors.Wrapf(err, "invalid pattern %q", p)
			}

			for _, m := range matches {
				add(m)
			}

			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot access %s", p)
		}

		if !info.IsDir() {
			add(p)

			continue
		}

		files, err := walkDir(p, opts)
		if err != nil {
			return nil, err
		}

		for _, f := range files {
			add(f)
		}
	}

	if len(out) == 0 {
		return nil, errors.Wrapf(ErrNoFiles, "in %s", strings.Join(paths, ", "))
	}

	return out, nil
}

func walkDir(root string, opts BatchOptions) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			// A trailing /** also matches the directory itself.
			if rel != "." && excluded(rel, opts.Exclude) {
				return filepath.SkipDir
			}

			return nil
		}

		if excluded(rel, opts.Exclude) {
			return nil
		}

		if slices.Contains(opts.Extensions, filepath.Ext(path)) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}

	return files, nil
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}

	return false
}

func hasGlobMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// AnalyzeFiles analyzes every file concurrently, at most opts.MaxInFlight
// at a time. Per-file problems are recorded in the returned reports, which
// follow the order of files. Only context cancellation is returned as an
// error.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, files []string, opts BatchOptions) ([]FileReport, error) {
	reports := make([]FileReport, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if opts.MaxInFlight > 0 {
		g.SetLimit(opts.MaxInFlight)
	}

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			reports[i] = a.analyzeFile(ctx, path, opts.MaxFileSize)

			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return reports, errors.Wrap(err, "batch analysis interrupted")
	}

	return reports, nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, path string, maxSize int64) (report FileReport) {
	start := time.Now()
	report.Path = path

	defer func() {
		report.Duration = time.Since(start)
	}()

	info, err := os.Stat(path)
	if err != nil {
		report.Err = errors.Wrapf(err, "cannot access %s", path)

		return report
	}

	report.Size = info.Size()

	if maxSize > 0 && report.Size > maxSize {
		report.Err = errors.Wrapf(ErrFileTooLarge, "%s is %d bytes, limit is %d", path, report.Size, maxSize)

		return report
	}

	//nolint:gosec // paths come from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		report.Err = errors.Wrapf(err, "reading %s", path)

		return report
	}

	report.Result, report.Err = a.analyze(ctx, string(data), path)

	return report
}

// AnalyzeSource analyzes in-memory source, for example standard input, as
// a single-file batch.
func (a *Analyzer) AnalyzeSource(ctx context.Context, name string, data []byte, maxSize int64) FileReport {
	start := time.Now()
	report := FileReport{Path: name, Size: int64(len(data))}

	if maxSize > 0 && report.Size > maxSize {
		report.Err = errors.Wrapf(ErrFileTooLarge, "%s is %d bytes, limit is %d", name, report.Size, maxSize)
	} else {
		report.Result, report.Err = a.analyze(ctx, string(data), name)
	}

	report.Duration = time.Since(start)

	return report
}
