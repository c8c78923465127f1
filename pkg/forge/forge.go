// Package forge maintains the registry of known code-hosting services and
// the URL derivations each one supports.
//
// Forges are data, not stateful objects: each is a record of pure
// derivation functions between the repository, issue-list ("bug database"),
// new-issue ("bug submit"), and merge-request URL shapes, dispatched
// through one ordered lookup table. Adding a forge means adding a table
// entry; nothing else changes.
//
// Matching is ordered: static hostname matchers first (SourceForge,
// Launchpad, GitHub, the known GitLab instances), then, only when network
// access is enabled, a probe for the GitLab API signature. Static matches
// always pre-empt probe results. With network access disabled, unmatched
// hosts resolve to no forge at all.
package forge

import (
	"context"
	"net/url"
	"strings"

	"github.com/matzehuels/metaforge/pkg/probe"
)

// Kind identifies a forge in the closed set.
type Kind string

// The known forge kinds.
const (
	KindGitHub      Kind = "github"
	KindGitLab      Kind = "gitlab"
	KindSourceForge Kind = "sourceforge"
	KindLaunchpad   Kind = "launchpad"
)

// Forge describes one code-hosting service: how to recognize it and how to
// rewrite URLs between the shapes it serves. All derivation funcs are pure;
// a nil func means the forge does not support that derivation and callers
// get no result, not an error.
type Forge struct {
	Kind Kind
	Name string

	// RepositoryBrowseCanBeHomepage reports whether a browse URL on this
	// forge is commonly used as a project homepage.
	RepositoryBrowseCanBeHomepage bool

	// BrowseURL derives the human-browsable URL from a repository URL,
	// optionally positioned at a branch and subpath.
	BrowseURL func(u *url.URL, branch, subpath string) *url.URL

	// BugDatabaseFromRepo derives the issue-list URL from a repository URL.
	BugDatabaseFromRepo func(u *url.URL) *url.URL

	// BugSubmitFromBugDatabase derives the new-issue URL from the
	// issue-list URL.
	BugSubmitFromBugDatabase func(u *url.URL) *url.URL

	// BugDatabaseFromBugSubmit derives the issue-list URL back from the
	// new-issue URL.
	BugDatabaseFromBugSubmit func(u *url.URL) *url.URL

	// BugDatabaseFromIssue derives the issue-list URL from the URL of one
	// specific issue.
	BugDatabaseFromIssue func(u *url.URL) *url.URL

	// RepoFromMergeRequest derives the repository URL from a merge or pull
	// request URL.
	RepoFromMergeRequest func(u *url.URL) *url.URL

	// ProjectID extracts the forge's project identifier from a repository
	// URL (e.g. "owner/repo" on GitHub, "project" on SourceForge).
	ProjectID func(u *url.URL) string
}

// KnownGitLabHosts are self-hosted GitLab instances recognized without
// probing.
var KnownGitLabHosts = []string{
	"salsa.debian.org",
	"invent.kde.org",
	"0xacab.org",
	"gitlab.gnome.org",
	"gitlab.freedesktop.org",
}

// registry is the fixed, ordered list of forge matchers. Earlier entries
// win; the GitLab entry is last because its match may involve a probe.
var registry = []struct {
	match func(ctx context.Context, host string, p *probe.Prober) bool
	forge *Forge
}{
	{matchSourceForge, &sourceForge},
	{matchLaunchpad, &launchpadForge},
	{matchGitHub, &gitHub},
	{matchGitLab, &gitLab},
}

// Find returns the forge responsible for u, if any. Matching follows the
// registry order; the probe-backed GitLab check runs only when the prober
// has network access enabled and no static matcher claimed the host.
func Find(ctx context.Context, u *url.URL, p *probe.Prober) (*Forge, bool) {
	host := u.Hostname()
	if host == "" {
		return nil, false
	}
	for _, entry := range registry {
		if entry.match(ctx, host, p) {
			return entry.forge, true
		}
	}
	return nil, false
}

// ByKind returns the forge with the given kind.
func ByKind(kind Kind) (*Forge, bool) {
	for _, entry := range registry {
		if entry.forge.Kind == kind {
			return entry.forge, true
		}
	}
	return nil, false
}

func matchSourceForge(_ context.Context, host string, _ *probe.Prober) bool {
	return host == "sourceforge.net"
}

func matchLaunchpad(_ context.Context, host string, _ *probe.Prober) bool {
	return host == "launchpad.net" || strings.HasSuffix(host, ".launchpad.net")
}

func matchGitHub(_ context.Context, host string, _ *probe.Prober) bool {
	return host == "github.com"
}

func matchGitLab(ctx context.Context, host string, p *probe.Prober) bool {
	return IsGitLabHost(ctx, host, p)
}

// IsGitLabHost reports whether host runs GitLab. The static list and the
// "gitlab." prefix always pre-empt the probe; the probe runs only with
// network access enabled, and its per-host result is cached by the prober.
func IsGitLabHost(ctx context.Context, host string, p *probe.Prober) bool {
	if host == "" {
		return false
	}
	for _, known := range KnownGitLabHosts {
		if host == known {
			return true
		}
	}
	if strings.HasPrefix(host, "gitlab.") {
		return true
	}
	if p == nil {
		return false
	}
	return p.GitLabHost(ctx, host)
}

// pathSegments splits a URL path into its non-empty segments.
func pathSegments(u *url.URL) []string {
	trimmed := strings.Trim(u.Path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// withPath returns a copy of u with the path replaced by the joined
// segments, the scheme forced to https, and query/fragment dropped.
func withPath(u *url.URL, segments ...string) *url.URL {
	out := *u
	out.Scheme = "https"
	out.Path = "/" + strings.Join(segments, "/")
	out.RawQuery = ""
	out.Fragment = ""
	out.User = nil
	return &out
}
