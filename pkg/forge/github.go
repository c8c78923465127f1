package forge

import (
	"net/url"
	"strings"
)

var gitHub = Forge{
	Kind:                          KindGitHub,
	Name:                          "GitHub",
	RepositoryBrowseCanBeHomepage: true,
	BrowseURL:                     githubBrowseURL,
	BugDatabaseFromRepo:           githubBugDatabaseFromRepo,
	BugSubmitFromBugDatabase:      githubBugSubmitFromBugDatabase,
	BugDatabaseFromBugSubmit:      githubBugDatabaseFromBugSubmit,
	BugDatabaseFromIssue:          githubBugDatabaseFromIssue,
	RepoFromMergeRequest:          githubRepoFromMergeRequest,
	ProjectID:                     githubProjectID,
}

// githubOwnerRepo returns the first two path segments with any ".git"
// suffix stripped, or nil if the path is too short.
func githubOwnerRepo(u *url.URL) []string {
	segments := pathSegments(u)
	if len(segments) < 2 {
		return nil
	}
	owner := segments[0]
	repo := strings.TrimSuffix(segments[1], ".git")
	if owner == "" || repo == "" {
		return nil
	}
	return []string{owner, repo}
}

func githubBrowseURL(u *url.URL, branch, subpath string) *url.URL {
	or := githubOwnerRepo(u)
	if or == nil {
		return nil
	}
	segments := or
	if branch != "" {
		segments = append(segments, "tree", branch)
		if subpath != "" {
			segments = append(segments, strings.Split(strings.Trim(subpath, "/"), "/")...)
		}
	} else if subpath != "" {
		segments = append(segments, "tree", "HEAD")
		segments = append(segments, strings.Split(strings.Trim(subpath, "/"), "/")...)
	}
	return withPath(u, segments...)
}

func githubBugDatabaseFromRepo(u *url.URL) *url.URL {
	or := githubOwnerRepo(u)
	if or == nil {
		return nil
	}
	return withPath(u, or[0], or[1], "issues")
}

func githubBugSubmitFromBugDatabase(u *url.URL) *url.URL {
	segments := pathSegments(u)
	if len(segments) != 3 || segments[2] != "issues" {
		return nil
	}
	return withPath(u, segments[0], segments[1], "issues", "new")
}

func githubBugDatabaseFromBugSubmit(u *url.URL) *url.URL {
	segments := pathSegments(u)
	if len(segments) != 4 || segments[2] != "issues" || segments[3] != "new" {
		return nil
	}
	return withPath(u, segments[0], segments[1], "issues")
}

func githubBugDatabaseFromIssue(u *url.URL) *url.URL {
	segments := pathSegments(u)
	if len(segments) != 4 || segments[2] != "issues" || !allDigits(segments[3]) {
		return nil
	}
	return withPath(u, segments[0], segments[1], "issues")
}

func githubRepoFromMergeRequest(u *url.URL) *url.URL {
	segments := pathSegments(u)
	if len(segments) != 4 || segments[2] != "pull" || !allDigits(segments[3]) {
		return nil
	}
	return withPath(u, segments[0], segments[1])
}

func githubProjectID(u *url.URL) string {
	or := githubOwnerRepo(u)
	if or == nil {
		return ""
	}
	return or[0] + "/" + or[1]
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
