// Package github reads repository contents through the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"golang.org/x/time/rate"

	"github.com/klauern/docsync/internal/logging"
	"github.com/klauern/docsync/internal/source"
)

// Options configures the GitHub source.
type Options struct {
	// Owner is the organization or user that owns every repository.
	Owner string
	// Token authenticates API requests.
	Token string
	// BaseURL overrides the API endpoint (GitHub Enterprise, tests).
	BaseURL string
	// RequestsPerSecond paces API calls. Zero disables pacing.
	RequestsPerSecond float64
	// HTTPClient overrides the transport. Defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

// Source implements source.Source on top of the contents API.
type Source struct {
	client  *gh.Client
	owner   string
	limiter *rate.Limiter
}

// New creates a GitHub source.
func New(opts Options) (*Source, error) {
	if opts.Owner == "" {
		return nil, errors.New("github: owner is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	client := gh.NewClient(httpClient)
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("github: invalid base URL: %w", err)
		}
		client.BaseURL = u
	}

	s := &Source{client: client, owner: opts.Owner}
	if opts.RequestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return s, nil
}

// Get implements source.Source.
func (s *Source) Get(ctx context.Context, repo, path, ref string) (*source.Content, error) {
	fail := func(err error) error {
		return &source.FetchError{Repo: repo, Path: path, Ref: ref, Err: err}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fail(err)
		}
	}

	logging.Debug("fetching contents",
		logging.Repo(repo),
		logging.Path(path),
		logging.Ref(ref),
	)

	var opts *gh.RepositoryContentGetOptions
	if ref != "" {
		opts = &gh.RepositoryContentGetOptions{Ref: ref}
	}

	file, dir, _, err := s.client.Repositories.GetContents(ctx, s.owner, repo, path, opts)
	if err != nil {
		return nil, fail(classify(err))
	}

	if file != nil {
		text, err := file.GetContent()
		if err != nil {
			return nil, fail(fmt.Errorf("decode content: %w", err))
		}
		return &source.Content{
			Type: source.TypeFile,
			Path: file.GetPath(),
			Text: text,
		}, nil
	}

	entries := make([]source.Entry, 0, len(dir))
	for _, item := range dir {
		typ := source.TypeFile
		if item.GetType() == "dir" {
			typ = source.TypeDir
		} else if item.GetType() != "file" {
			// symlinks and submodules are not mirrored
			continue
		}
		entries = append(entries, source.Entry{
			Name: item.GetName(),
			Path: item.GetPath(),
			Type: typ,
		})
	}
	return &source.Content{Type: source.TypeDir, Path: path, Entries: entries}, nil
}

// classify maps API errors onto the source sentinels, keeping the original.
func classify(err error) error {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %w", source.ErrRateLimited, err)
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", source.ErrNotFound, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %w", source.ErrAccessDenied, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", source.ErrRateLimited, err)
		}
	}
	return err
}
