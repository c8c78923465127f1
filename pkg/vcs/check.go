package vcs

import (
	"context"
	stderrors "errors"
	"net/url"
	"strings"

	"github.com/matzehuels/metaforge/pkg/cache"
	"github.com/matzehuels/metaforge/pkg/errors"
	"github.com/matzehuels/metaforge/pkg/forge"
	"github.com/matzehuels/metaforge/pkg/integrations"
	"github.com/matzehuels/metaforge/pkg/integrations/github"
	"github.com/matzehuels/metaforge/pkg/integrations/gitlab"
	"github.com/matzehuels/metaforge/pkg/probe"
)

// moved-repository chains are followed at most this deep.
const maxMovedHops = 5

// Checker verifies canonical URLs against the forge APIs. With network
// access disabled every check degrades to syntactic canonicalization and
// never fails for that reason alone.
type Checker struct {
	prober *probe.Prober
	github *github.Client
	gitlab *gitlab.Client
}

// CheckerConfig carries the optional API tokens for authenticated
// verification requests.
type CheckerConfig struct {
	GitHubToken string
	GitLabToken string
}

// NewChecker creates a Checker whose API clients share the prober's cache
// settings.
func NewChecker(p *probe.Prober, store cache.Cache, cfg CheckerConfig) *Checker {
	ttl := p.Options().CacheTTL
	return &Checker{
		prober: p,
		github: github.NewClient(store, ttl, cfg.GitHubToken),
		gitlab: gitlab.NewClient(store, ttl, cfg.GitLabToken),
	}
}

// Prober returns the underlying prober.
func (c *Checker) Prober() *probe.Prober { return c.prober }

// GitHubClient returns the underlying GitHub client, for tests.
func (c *Checker) GitHubClient() *github.Client { return c.github }

// GitLabClient returns the underlying GitLab client, for tests.
func (c *Checker) GitLabClient() *gitlab.Client { return c.gitlab }

// CanonicalRepoURL returns the canonical form of a repository URL,
// resolving redirects when network access is enabled. Redirect resolution
// is best-effort enrichment: any network trouble yields the syntactic
// form.
func (c *Checker) CanonicalRepoURL(ctx context.Context, repoURL string) string {
	s := SanitizeURL(repoURL)
	if c.prober != nil && c.prober.NetAccess().Allowed() {
		s = c.prober.ResolveRedirects(ctx, s)
		s = CanonicalGitRepoURL(s)
	}
	return s
}

// RepositoryURLCanonical verifies that a repository URL points at a live,
// non-archived repository and returns its canonical form. Moved and mirror
// repositories are followed to their target.
func (c *Checker) RepositoryURLCanonical(ctx context.Context, repoURL string) (string, error) {
	return c.repositoryURLCanonical(ctx, repoURL, maxMovedHops)
}

func (c *Checker) repositoryURLCanonical(ctx context.Context, repoURL string, hops int) (string, error) {
	canonical := SanitizeURL(repoURL)
	if !c.netEnabled() {
		return canonical, nil
	}
	if hops == 0 {
		return "", errors.New(errors.ErrCodeVerificationFailed, "moved-repository chain too long starting at %s", repoURL)
	}

	u, err := url.Parse(canonical)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidURL, err, "cannot parse %q", repoURL)
	}

	switch {
	case u.Hostname() == "github.com":
		owner, repo, ok := githubOwnerRepo(u)
		if !ok {
			return "", errors.New(errors.ErrCodeInvalidURL, "github URL %q has no owner/repo", repoURL)
		}
		data, err := c.github.Repo(ctx, owner, repo)
		if err != nil {
			return "", verificationError(err, canonical)
		}
		if target := data.MovedTo(); target != "" {
			return c.repositoryURLCanonical(ctx, target, hops-1)
		}
		if target := data.MirrorOf(); target != "" {
			return c.repositoryURLCanonical(ctx, target, hops-1)
		}
		if data.Archived {
			return "", errors.New(errors.ErrCodeVerificationFailed, "repository %s is archived", canonical)
		}
		return CanonicalGitRepoURL(data.HTMLURL), nil

	case forge.IsGitLabHost(ctx, u.Hostname(), c.prober):
		f, _ := forge.ByKind(forge.KindGitLab)
		project := f.ProjectID(u)
		if project == "" {
			return "", errors.New(errors.ErrCodeInvalidURL, "gitlab URL %q has no project path", repoURL)
		}
		data, err := c.gitlab.Project(ctx, u.Hostname(), project)
		if err != nil {
			return "", verificationError(err, canonical)
		}
		if data.Archived {
			return "", errors.New(errors.ErrCodeVerificationFailed, "repository %s is archived", canonical)
		}
		return CanonicalGitRepoURL(data.WebURL), nil
	}

	final, err := c.prober.CheckURL(ctx, canonical)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNetDisabled) {
			return canonical, nil
		}
		return "", err
	}
	return final, nil
}

// BugDatabaseCanonical verifies that an issue-list URL points at a live
// tracker and returns its canonical form.
func (c *Checker) BugDatabaseCanonical(ctx context.Context, dbURL string) (string, error) {
	if !c.netEnabled() {
		return dbURL, nil
	}
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidURL, err, "cannot parse %q", dbURL)
	}

	switch {
	case u.Hostname() == "github.com":
		owner, repo, ok := githubOwnerRepo(u)
		if !ok {
			return "", errors.New(errors.ErrCodeInvalidURL, "github URL %q has no owner/repo", dbURL)
		}
		data, err := c.github.Repo(ctx, owner, repo)
		if err != nil {
			return "", verificationError(err, dbURL)
		}
		if !data.HasIssues || data.Archived {
			return "", errors.New(errors.ErrCodeVerificationFailed, "%s does not track issues", dbURL)
		}
		return data.HTMLURL + "/issues", nil

	case forge.IsGitLabHost(ctx, u.Hostname(), c.prober):
		f, _ := forge.ByKind(forge.KindGitLab)
		db := f.BugDatabaseFromBugSubmit(u)
		if db == nil {
			db = u
		}
		project := strings.TrimSuffix(strings.Trim(db.Path, "/"), "/issues")
		if project == "" {
			return "", errors.New(errors.ErrCodeInvalidURL, "gitlab URL %q has no project path", dbURL)
		}
		data, err := c.gitlab.Project(ctx, u.Hostname(), project)
		if err != nil {
			return "", verificationError(err, dbURL)
		}
		if !data.IssuesEnabled {
			return "", errors.New(errors.ErrCodeVerificationFailed, "%s does not track issues", dbURL)
		}
		return data.WebURL + "/issues", nil
	}

	final, err := c.prober.CheckURL(ctx, dbURL)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNetDisabled) {
			return dbURL, nil
		}
		return "", err
	}
	return final, nil
}

// BugSubmitURLCanonical verifies a new-issue URL by verifying the issue
// list it belongs to, then re-deriving the submit URL from the canonical
// list.
func (c *Checker) BugSubmitURLCanonical(ctx context.Context, submitURL string) (string, error) {
	if !c.netEnabled() {
		return submitURL, nil
	}
	db := BugDatabaseURLFromBugSubmitURL(ctx, submitURL, c.prober)
	if db == "" {
		final, err := c.prober.CheckURL(ctx, submitURL)
		if err != nil {
			return "", err
		}
		return final, nil
	}
	canonicalDB, err := c.BugDatabaseCanonical(ctx, db)
	if err != nil {
		return "", err
	}
	if submit := BugSubmitURLFromBugDatabaseURL(ctx, canonicalDB, c.prober); submit != "" {
		return submit, nil
	}
	return submitURL, nil
}

// URLCanonical verifies reachability of an arbitrary URL and returns its
// final location after redirects.
func (c *Checker) URLCanonical(ctx context.Context, rawURL string) (string, error) {
	if !c.netEnabled() {
		return rawURL, nil
	}
	return c.prober.CheckURL(ctx, rawURL)
}

func (c *Checker) netEnabled() bool {
	return c.prober != nil && c.prober.NetAccess().Allowed()
}

func githubOwnerRepo(u *url.URL) (string, string, bool) {
	elements := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(elements) < 2 || elements[0] == "" || elements[1] == "" {
		return "", "", false
	}
	return elements[0], strings.TrimSuffix(elements[1], ".git"), true
}

// verificationError maps the integrations sentinels onto the coded errors
// the check entry points surface.
func verificationError(err error, checked string) error {
	switch {
	case stderrors.Is(err, integrations.ErrNotFound):
		return errors.Wrap(errors.ErrCodeVerificationFailed, err, "%s does not exist", checked)
	case stderrors.Is(err, integrations.ErrRateLimited):
		return errors.Wrap(errors.ErrCodeRateLimited, err, "rate limited verifying %s", checked)
	default:
		return errors.Wrap(errors.ErrCodeUnverifiable, err, "cannot verify %s", checked)
	}
}
