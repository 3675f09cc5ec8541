// Package github looks up codeaudit releases through the GitHub API.
package github

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v84/github"
)

var (
	// ErrRateLimitExceeded is returned when GitHub API rate limit is exceeded
	ErrRateLimitExceeded = errors.New("github API rate limit exceeded")
	// ErrNoReleases is returned when the repository has no published release
	ErrNoReleases = errors.New("no releases found")
)

// Release represents a GitHub release
type Release struct {
	TagName string
	Name    string
	HTMLURL string
}

// Client defines the GitHub API operations codeaudit needs.
type Client interface {
	// GetLatestRelease retrieves the latest release for a repository
	GetLatestRelease(ctx context.Context, owner, repo string) (*Release, error)
}

// SDKClient implements Client using go-github SDK
type SDKClient struct {
	client *github.Client
}

// Option configures an SDKClient.
type Option func(*github.Client) error

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise server or a test server.
func WithBaseURL(raw string) Option {
	return func(c *github.Client) error {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}

		u, err := url.Parse(raw)
		if err != nil {
			return errors.Wrapf(err, "invalid base URL %q", raw)
		}

		c.BaseURL = u

		return nil
	}
}

// token reads GH_TOKEN, then GITHUB_TOKEN.
func token() string {
	if t := os.Getenv("GH_TOKEN"); t != "" {
		return t
	}

	return os.Getenv("GITHUB_TOKEN")
}

// NewClient creates a client, authenticated when GH_TOKEN or GITHUB_TOKEN
// is set.
func NewClient(opts ...Option) (*SDKClient, error) {
	client := github.NewClient(nil)
	if t := token(); t != "" {
		client = client.WithAuthToken(t)
	}

	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, err
		}
	}

	return &SDKClient{client: client}, nil
}

// GetLatestRelease retrieves the latest release for a repository
func (c *SDKClient) GetLatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	release, resp, err := c.client.Repositories.GetLatestRelease(ctx, owner, repo)
	if err != nil {
		return nil, handleError(resp, err)
	}

	return &Release{
		TagName: release.GetTagName(),
		Name:    release.GetName(),
		HTMLURL: release.GetHTMLURL(),
	}, nil
}

// handleError converts GitHub API errors to our error types
func handleError(resp *github.Response, err error) error {
	if resp == nil {
		return errors.Wrap(err, "github request failed")
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNoReleases
	case http.StatusForbidden, http.StatusTooManyRequests:
		if resp.Rate.Remaining == 0 {
			return ErrRateLimitExceeded
		}
	}

	return errors.Wrap(err, "github request failed")
}
