// Package ghclient implements contract.HostClient on top of the GitHub
// REST API.
package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"

	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/schema"
)

const perPage = 100

// maxPatchChars bounds how much patch text a single commit detail can
// carry into the enrichment prompt.
const maxPatchChars = 50000

// Client talks to the GitHub API for one organization.
type Client struct {
	gh          *github.Client
	org         string
	maxAttempts int
	baseDelay   time.Duration
}

var _ contract.HostClient = &Client{} // Compile-time check

// New returns a client authenticated with a personal access token.
// retries is the number of attempts beyond the first for transient
// failures (rate limits, 5xx).
func New(token, org string, retries int) *Client {
	return &Client{
		gh:          github.NewClient(nil).WithAuthToken(token),
		org:         org,
		maxAttempts: retries + 1,
		baseDelay:   time.Second,
	}
}

// NewWithBaseURL returns a client against a custom API endpoint over
// the given HTTP client. Used by tests and GitHub Enterprise setups.
func NewWithBaseURL(httpClient *http.Client, baseURL, org string, retries int) (*Client, error) {
	gh := github.NewClient(httpClient)
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	gh.BaseURL = parsed
	return &Client{gh: gh, org: org, maxAttempts: retries + 1, baseDelay: time.Millisecond}, nil
}

// ListOrgRepos implements the HostClient interface.
func (c *Client) ListOrgRepos(ctx context.Context) ([]schema.Repository, error) {
	opt := &github.RepositoryListByOrgOptions{
		Type:        "all",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var out []schema.Repository
	for {
		var repos []*github.Repository
		var resp *github.Response
		err := c.withRetry(ctx, func() (*github.Response, error) {
			var err error
			repos, resp, err = c.gh.Repositories.ListByOrg(ctx, c.org, opt)
			return resp, err
		})
		if err != nil {
			return nil, fmt.Errorf("list repos page %d: %w", opt.Page, err)
		}
		for _, r := range repos {
			out = append(out, schema.Repository{
				Name:          r.GetName(),
				FullName:      r.GetFullName(),
				DefaultBranch: r.GetDefaultBranch(),
				Archived:      r.GetArchived(),
				Private:       r.GetPrivate(),
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return out, nil
}

// ListCommits implements the HostClient interface. Records come back
// with raw author fields and zero stats; detail is fetched separately.
func (c *Client) ListCommits(ctx context.Context, repo string, since, until time.Time) ([]schema.CommitRecord, error) {
	opt := &github.CommitsListOptions{
		Since:       since,
		Until:       until,
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var out []schema.CommitRecord
	for {
		var commits []*github.RepositoryCommit
		var resp *github.Response
		err := c.withRetry(ctx, func() (*github.Response, error) {
			var err error
			commits, resp, err = c.gh.Repositories.ListCommits(ctx, c.org, repo, opt)
			return resp, err
		})
		if err != nil {
			// A repository can legitimately have no commits yet.
			if isEmptyRepoError(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("list commits page %d: %w", opt.Page, err)
		}
		for _, rc := range commits {
			out = append(out, toCommitRecord(repo, rc))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opt.Page = resp.NextPage
	}
	return out, nil
}

// GetCommitDetail implements the HostClient interface.
func (c *Client) GetCommitDetail(ctx context.Context, repo, sha string) (schema.CommitDetail, error) {
	var rc *github.RepositoryCommit
	err := c.withRetry(ctx, func() (*github.Response, error) {
		var resp *github.Response
		var err error
		rc, resp, err = c.gh.Repositories.GetCommit(ctx, c.org, repo, sha, nil)
		return resp, err
	})
	if err != nil {
		return schema.CommitDetail{}, fmt.Errorf("get commit %s: %w", sha, err)
	}

	detail := schema.CommitDetail{FilesChanged: len(rc.Files)}
	if rc.Stats != nil {
		detail.Additions = rc.Stats.GetAdditions()
		detail.Deletions = rc.Stats.GetDeletions()
	}

	var patch strings.Builder
	for _, f := range rc.Files {
		if f.GetPatch() == "" {
			continue
		}
		if patch.Len()+len(f.GetPatch()) > maxPatchChars {
			break
		}
		fmt.Fprintf(&patch, "--- %s\n%s\n", f.GetFilename(), f.GetPatch())
	}
	detail.Patch = patch.String()
	return detail, nil
}

// withRetry runs call, retrying rate-limit and server errors with
// exponential backoff up to maxAttempts. Client errors (4xx other than
// 429) fail immediately.
func (c *Client) withRetry(ctx context.Context, call func() (*github.Response, error)) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := call()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(resp, err) {
			return err
		}
		if attempt == c.maxAttempts {
			break
		}
		delay := c.baseDelay << (attempt - 1)
		if rl, ok := err.(*github.RateLimitError); ok {
			if wait := time.Until(rl.Rate.Reset.Time); wait > delay {
				delay = wait
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", c.maxAttempts, lastErr)
}

func isRetryable(resp *github.Response, err error) bool {
	switch err.(type) {
	case *github.RateLimitError, *github.AbuseRateLimitError:
		return true
	}
	if resp != nil {
		return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
	}
	// No HTTP response at all means a transport-level failure.
	return true
}

// isEmptyRepoError matches the 409 GitHub returns for repositories
// without any commits.
func isEmptyRepoError(err error) bool {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode == http.StatusConflict
	}
	return false
}

func toCommitRecord(repo string, rc *github.RepositoryCommit) schema.CommitRecord {
	rec := schema.CommitRecord{
		SHA:         rc.GetSHA(),
		Repository:  repo,
		Message:     rc.GetCommit().GetMessage(),
		ParentCount: len(rc.Parents),
	}
	if author := rc.GetCommit().GetAuthor(); author != nil {
		rec.AuthorName = author.GetName()
		rec.AuthorEmail = author.GetEmail()
		rec.Date = author.GetDate().Time.UTC()
	}
	return rec
}
