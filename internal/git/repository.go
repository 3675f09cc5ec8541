// Package git reads worktree state with go-git so analysis can be limited
// to files touched since the last commit.
package git

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v6"
)

// ErrNotRepository is returned when no repository encloses the path.
var ErrNotRepository = errors.New("not a git repository")

// gitEnvVarsToUnset lists git environment variables cleared before go-git
// touches the index.
//
// When codeaudit runs as a pre-commit hook it inherits GIT_INDEX_FILE from
// the parent git process. Reading that index while git is rewriting it
// corrupts it ("invalid object 100644<sha>", "Error building trees").
//
// See: https://github.com/pre-commit/pre-commit/issues/1849
var gitEnvVarsToUnset = []string{
	"GIT_INDEX_FILE",
}

func init() {
	clearGitEnvVars()
}

func clearGitEnvVars() {
	for _, envVar := range gitEnvVarsToUnset {
		_ = os.Unsetenv(envVar)
	}
}

// Repository is an opened worktree.
type Repository struct {
	repo *git.Repository
	root string
}

// Open opens the repository enclosing path.
//
// EnableDotGitCommonDir makes linked worktrees (a .git file pointing into
// the main repository) resolve correctly.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.Wrapf(ErrNotRepository, "%s", path)
		}

		return nil, errors.Wrap(err, "failed to open repository")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get worktree")
	}

	return &Repository{repo: repo, root: worktree.Filesystem.Root()}, nil
}

// Root returns the worktree root directory.
func (r *Repository) Root() string {
	return r.root
}

// ChangedFiles returns the absolute paths of files that are staged,
// modified or untracked, sorted. Deleted files are left out since there is
// nothing to read.
func (r *Repository) ChangedFiles() ([]string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get worktree")
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get status")
	}

	changed := make([]string, 0, len(status))

	for file, st := range status {
		if st.Staging == git.Unmodified && st.Worktree == git.Unmodified {
			continue
		}

		if st.Staging == git.Deleted || st.Worktree == git.Deleted {
			continue
		}

		changed = append(changed, filepath.Join(r.root, filepath.FromSlash(file)))
	}

	slices.Sort(changed)

	return changed, nil
}
