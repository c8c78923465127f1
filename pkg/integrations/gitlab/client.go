// Package gitlab queries the GitLab REST API, on gitlab.com or any
// self-hosted instance, for project records used during canonical-URL
// verification.
package gitlab

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/metaforge/pkg/cache"
	"github.com/matzehuels/metaforge/pkg/integrations"
)

// Project holds the subset of the GitLab project record that matters for
// verification and metadata extension.
type Project struct {
	PathWithNamespace string `json:"path_with_namespace"`
	Description       string `json:"description"`
	WebURL            string `json:"web_url"`
	HTTPURLToRepo     string `json:"http_url_to_repo"`
	DefaultBranch     string `json:"default_branch"`
	IssuesEnabled     bool   `json:"issues_enabled"`
	Archived          bool   `json:"archived"`
}

// Client provides access to the GitLab API. Unlike the GitHub client it is
// not bound to one host: every call names the instance, since self-hosted
// GitLab servers share the same API surface.
type Client struct {
	*integrations.Client

	// base overrides the per-host endpoint when non-empty, for tests.
	base string
}

// NewClient creates a GitLab API client with optional authentication.
func NewClient(store cache.Cache, ttl time.Duration, token string) *Client {
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"PRIVATE-TOKEN": token}
	}
	return &Client{Client: integrations.NewClient(store, ttl, headers)}
}

// Project retrieves the record for the project at the given namespace path
// (e.g. "group/subgroup/proj") on host.
func (c *Client) Project(ctx context.Context, host, path string) (*Project, error) {
	key := "gitlab:project:" + host + "/" + path

	var p Project
	err := c.Cached(ctx, key, &p, func() error {
		url := fmt.Sprintf("%s/projects/%s", c.apiBase(host), integrations.URLEncode(path))
		if err := c.Get(ctx, url, &p); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: gitlab project %s on %s", err, path, host)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) apiBase(host string) string {
	if c.base != "" {
		return c.base
	}
	return "https://" + host + "/api/v4"
}

// SetBaseURL overrides the API endpoint for every host, for tests.
func (c *Client) SetBaseURL(url string) { c.base = url }
