// Package updater compares the running version with the latest release.
package updater

import (
	"context"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/codeaudit/internal/github"
)

const (
	// GitHubOwner is the repository owner on GitHub.
	GitHubOwner = "smykla-skalski"

	// GitHubRepo is the repository name on GitHub.
	GitHubRepo = "codeaudit"

	devVersion = "dev"
)

// ErrAlreadyLatest is returned when the current version is already the latest.
var ErrAlreadyLatest = errors.New("already up to date")

// Checker looks up newer releases.
type Checker struct {
	currentVersion string
	ghClient       github.Client
}

// NewChecker creates a Checker for the running version.
func NewChecker(currentVersion string, ghClient github.Client) *Checker {
	return &Checker{
		currentVersion: currentVersion,
		ghClient:       ghClient,
	}
}

// CheckLatest returns the latest release, or ErrAlreadyLatest if current >= latest.
// Dev builds always get the latest release.
func (c *Checker) CheckLatest(ctx context.Context) (*github.Release, error) {
	release, err := c.ghClient.GetLatestRelease(ctx, GitHubOwner, GitHubRepo)
	if err != nil {
		return nil, errors.Wrap(err, "checking latest release")
	}

	if c.currentVersion == devVersion {
		return release, nil
	}

	latestVer, err := semver.NewVersion(strings.TrimPrefix(release.TagName, "v"))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing latest version %q", release.TagName)
	}

	currentVer, err := semver.NewVersion(strings.TrimPrefix(c.currentVersion, "v"))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing current version %q", c.currentVersion)
	}

	if !currentVer.LessThan(latestVer) {
		return nil, ErrAlreadyLatest
	}

	return release, nil
}
