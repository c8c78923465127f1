// Package launchpad queries the Launchpad web service API for project
// records used during forge metadata extension.
package launchpad

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/metaforge/pkg/cache"
	"github.com/matzehuels/metaforge/pkg/integrations"
)

// Project holds the subset of the Launchpad project entry used for
// metadata extension.
type Project struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	HomepageURL string `json:"homepage_url"`
	WebLink     string `json:"web_link"`
}

// BugDatabaseURL returns the project's bug tracker URL on Launchpad.
func (p *Project) BugDatabaseURL() string {
	if p.Name == "" {
		return ""
	}
	return "https://bugs.launchpad.net/" + p.Name
}

// RepositoryURL returns the project's default git repository URL on
// Launchpad.
func (p *Project) RepositoryURL() string {
	if p.Name == "" {
		return ""
	}
	return "https://git.launchpad.net/" + p.Name
}

// Client provides access to the Launchpad web service API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Launchpad API client. The API is anonymous for
// public project records.
func NewClient(store cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(store, ttl, nil),
		baseURL: "https://api.launchpad.net/devel",
	}
}

// Project retrieves the entry for the named project.
func (c *Client) Project(ctx context.Context, name string) (*Project, error) {
	key := "launchpad:project:" + name

	var p Project
	err := c.Cached(ctx, key, &p, func() error {
		url := fmt.Sprintf("%s/%s", c.baseURL, name)
		if err := c.Get(ctx, url, &p); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: launchpad project %s", err, name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if p.Name == "" {
		p.Name = name
	}
	return &p, nil
}

// SetBaseURL overrides the API endpoint, for tests.
func (c *Client) SetBaseURL(url string) { c.baseURL = url }
