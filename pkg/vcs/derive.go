package vcs

import (
	"context"
	"net/url"

	"github.com/matzehuels/metaforge/pkg/forge"
	"github.com/matzehuels/metaforge/pkg/probe"
)

// derive runs one forge derivation on rawURL, returning "" if the host
// matches no forge or the forge has no answer for this shape.
func derive(ctx context.Context, rawURL string, p *probe.Prober, fn func(f *forge.Forge) func(*url.URL) *url.URL) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	f, ok := forge.Find(ctx, u, p)
	if !ok {
		return ""
	}
	op := fn(f)
	if op == nil {
		return ""
	}
	out := op(u)
	if out == nil {
		return ""
	}
	return out.String()
}

// GuessBugDatabaseURLFromRepoURL derives the issue-list URL for a
// repository hosted on a known forge.
func GuessBugDatabaseURLFromRepoURL(ctx context.Context, repoURL string, p *probe.Prober) string {
	return derive(ctx, repoURL, p, func(f *forge.Forge) func(*url.URL) *url.URL {
		return f.BugDatabaseFromRepo
	})
}

// BugDatabaseURLFromBugSubmitURL derives the issue-list URL back from a
// new-issue URL.
func BugDatabaseURLFromBugSubmitURL(ctx context.Context, submitURL string, p *probe.Prober) string {
	return derive(ctx, submitURL, p, func(f *forge.Forge) func(*url.URL) *url.URL {
		return f.BugDatabaseFromBugSubmit
	})
}

// BugSubmitURLFromBugDatabaseURL derives the new-issue URL from an
// issue-list URL.
func BugSubmitURLFromBugDatabaseURL(ctx context.Context, dbURL string, p *probe.Prober) string {
	return derive(ctx, dbURL, p, func(f *forge.Forge) func(*url.URL) *url.URL {
		return f.BugSubmitFromBugDatabase
	})
}

// BugDatabaseFromIssueURL derives the issue-list URL from the URL of one
// specific issue.
func BugDatabaseFromIssueURL(ctx context.Context, issueURL string, p *probe.Prober) string {
	return derive(ctx, issueURL, p, func(f *forge.Forge) func(*url.URL) *url.URL {
		return f.BugDatabaseFromIssue
	})
}

// RepoURLFromMergeRequestURL derives the repository URL from a merge or
// pull request URL.
func RepoURLFromMergeRequestURL(ctx context.Context, mrURL string, p *probe.Prober) string {
	return derive(ctx, mrURL, p, func(f *forge.Forge) func(*url.URL) *url.URL {
		return f.RepoFromMergeRequest
	})
}
