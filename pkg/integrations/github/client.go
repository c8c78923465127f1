// Package github queries the GitHub REST API for repository records used
// during canonical-URL verification and metadata extension.
package github

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/metaforge/pkg/cache"
	"github.com/matzehuels/metaforge/pkg/integrations"
)

// Repo holds the subset of the GitHub repository record that matters for
// verification: whether the project still lives here, whether it tracks
// issues, and the descriptive fields worth merging.
type Repo struct {
	FullName      string   `json:"full_name"`
	Description   string   `json:"description"`
	Homepage      string   `json:"homepage"`
	CloneURL      string   `json:"clone_url"`
	HTMLURL       string   `json:"html_url"`
	DefaultBranch string   `json:"default_branch"`
	Archived      bool     `json:"archived"`
	HasIssues     bool     `json:"has_issues"`
	Fork          bool     `json:"fork"`
	Topics        []string `json:"topics"`
	License       struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
}

// MovedTo returns the repository URL a moved project points at, parsed
// from the "Moved to <url>" description convention, or "" when the project
// has not moved.
func (r *Repo) MovedTo() string {
	return descriptionTarget(r.Description, "Moved to ")
}

// MirrorOf returns the upstream URL for mirror repositories following the
// "Mirror of <url>" description convention, or "".
func (r *Repo) MirrorOf() string {
	return descriptionTarget(r.Description, "Mirror of ")
}

func descriptionTarget(description, prefix string) string {
	rest, ok := strings.CutPrefix(description, prefix)
	if !ok {
		return ""
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimRight(fields[0], ".")
}

// Client provides access to the GitHub API. It handles HTTP requests with
// caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower
// rate limits).
func NewClient(store cache.Cache, ttl time.Duration, token string) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:  integrations.NewClient(store, ttl, headers),
		baseURL: "https://api.github.com",
	}
}

// Repo retrieves the repository record for owner/repo.
func (c *Client) Repo(ctx context.Context, owner, repo string) (*Repo, error) {
	key := "github:repo:" + owner + "/" + repo

	var r Repo
	err := c.Cached(ctx, key, &r, func() error {
		url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
		if err := c.Get(ctx, url, &r); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// SetBaseURL overrides the API endpoint, for tests.
func (c *Client) SetBaseURL(url string) { c.baseURL = url }
