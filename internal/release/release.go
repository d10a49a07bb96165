// Package release checks GitHub for a newer jeedom-status release.
package release

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/hashicorp/go-version"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultRepository is the upstream repository releases are published to.
const DefaultRepository = "deimosfr/jeedom-status"

var (
	// ErrInvalidRepository is returned for a repository not in owner/name form.
	ErrInvalidRepository = errors.New("repository must be owner/name")

	// ErrInvalidVersion is returned when a version string is not semantic.
	ErrInvalidVersion = errors.New("invalid version")
)

// Checker queries the latest published release.
type Checker struct {
	client *github.Client
	owner  string
	repo   string
	logger *zap.Logger
}

type options struct {
	token      string
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// Option configures a Checker.
type Option func(*options)

// WithToken authenticates requests, which raises the rate limit.
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithBaseURL points the checker at another GitHub API endpoint.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewChecker creates a Checker for repository ("owner/name").
func NewChecker(ctx context.Context, repository string, opts ...Option) (*Checker, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRepository, repository)
	}

	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	hc := o.httpClient
	if o.token != "" {
		if hc != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
		}
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.token}))
	}

	client := github.NewClient(hc)
	if o.baseURL != "" {
		base := o.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API url: %w", err)
		}
		client.BaseURL = u
	}

	return &Checker{client: client, owner: owner, repo: repo, logger: o.logger}, nil
}

// Release is a published release.
type Release struct {
	Version *version.Version
	Tag     string
	URL     string
}

// Latest returns the most recent non-draft, non-prerelease release.
func (c *Checker) Latest(ctx context.Context) (*Release, error) {
	rel, _, err := c.client.Repositories.GetLatestRelease(ctx, c.owner, c.repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest release of %s/%s: %w", c.owner, c.repo, err)
	}

	tag := rel.GetTagName()
	v, err := Parse(tag)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("latest release fetched",
		zap.String("repository", c.owner+"/"+c.repo),
		zap.String("tag", tag),
	)
	return &Release{Version: v, Tag: tag, URL: rel.GetHTMLURL()}, nil
}

// Status compares the running version with the latest release.
type Status struct {
	Current *version.Version
	Latest  *Release
}

// UpdateAvailable reports whether the latest release is newer than the running one.
func (s *Status) UpdateAvailable() bool {
	return s.Latest.Version.GreaterThan(s.Current)
}

// Check fetches the latest release and compares it with current.
func (c *Checker) Check(ctx context.Context, current string) (*Status, error) {
	cur, err := Parse(current)
	if err != nil {
		return nil, err
	}
	latest, err := c.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return &Status{Current: cur, Latest: latest}, nil
}

// Parse parses a version string, with or without a leading "v".
func Parse(s string) (*version.Version, error) {
	v, err := version.NewSemver(strings.TrimPrefix(strings.TrimSpace(s), "v"))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidVersion, s, err)
	}
	return v, nil
}
