// Package sourceforge queries the SourceForge REST API for project
// records used during forge metadata extension.
package sourceforge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/metaforge/pkg/cache"
	"github.com/matzehuels/metaforge/pkg/integrations"
)

// Tool is one mounted tool on a SourceForge project, such as a git
// repository or a bug tracker.
type Tool struct {
	Name       string `json:"name"`
	MountPoint string `json:"mount_point"`
	URL        string `json:"url"`
}

// Project holds the subset of the SourceForge project record used for
// metadata extension.
type Project struct {
	Shortname        string `json:"shortname"`
	Name             string `json:"name"`
	ShortDescription string `json:"shortdesc"`
	ExternalHomepage string `json:"external_homepage"`
	Tools            []Tool `json:"tools"`
}

// GitRepoURL returns the clone URL of the project's first mounted git
// repository, or "".
func (p *Project) GitRepoURL() string {
	for _, tool := range p.Tools {
		if tool.Name == "git" {
			return fmt.Sprintf("https://git.code.sf.net/p/%s/%s", p.Shortname, tool.MountPoint)
		}
	}
	return ""
}

// BugDatabaseURL returns the project's tracker URL when a bug tracker tool
// is mounted, or "".
func (p *Project) BugDatabaseURL() string {
	for _, tool := range p.Tools {
		if tool.Name == "tickets" || tool.MountPoint == "bugs" {
			return fmt.Sprintf("https://sourceforge.net/p/%s/%s", p.Shortname, tool.MountPoint)
		}
	}
	return ""
}

// Client provides access to the SourceForge REST API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a SourceForge API client.
func NewClient(store cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(store, ttl, nil),
		baseURL: "https://sourceforge.net/rest",
	}
}

// Project retrieves the record for the named project.
func (c *Client) Project(ctx context.Context, name string) (*Project, error) {
	key := "sourceforge:project:" + name

	var p Project
	err := c.Cached(ctx, key, &p, func() error {
		url := fmt.Sprintf("%s/p/%s", c.baseURL, name)
		if err := c.Get(ctx, url, &p); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: sourceforge project %s", err, name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if p.Shortname == "" {
		p.Shortname = name
	}
	return &p, nil
}

// SetBaseURL overrides the API endpoint, for tests.
func (c *Client) SetBaseURL(url string) { c.baseURL = url }
