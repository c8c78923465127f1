package forge

import (
	"net/url"
	"strings"
)

var gitLab = Forge{
	Kind:                          KindGitLab,
	Name:                          "GitLab",
	RepositoryBrowseCanBeHomepage: true,
	BrowseURL:                     gitlabBrowseURL,
	BugDatabaseFromRepo:           gitlabBugDatabaseFromRepo,
	BugSubmitFromBugDatabase:      gitlabBugSubmitFromBugDatabase,
	BugDatabaseFromBugSubmit:      gitlabBugDatabaseFromBugSubmit,
	BugDatabaseFromIssue:          gitlabBugDatabaseFromIssue,
	RepoFromMergeRequest:          gitlabRepoFromMergeRequest,
	ProjectID:                     gitlabProjectID,
}

// gitlabProjectSegments returns the namespace/project segments of a GitLab
// path with any trailing ".git" stripped. GitLab namespaces can nest, so
// any non-zero number of leading segments before a marker like "-",
// "issues" or "merge_requests" belongs to the project.
func gitlabProjectSegments(segments []string) []string {
	if len(segments) < 2 {
		return nil
	}
	out := make([]string, len(segments))
	copy(out, segments)
	out[len(out)-1] = strings.TrimSuffix(out[len(out)-1], ".git")
	return out
}

// stripDashSegment removes the "-" path separator GitLab inserts before
// resource suffixes such as "/-/issues".
func stripDashSegment(segments []string) []string {
	out := segments[:0:0]
	for _, segment := range segments {
		if segment == "-" {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func gitlabBrowseURL(u *url.URL, branch, subpath string) *url.URL {
	project := gitlabProjectSegments(pathSegments(u))
	if project == nil {
		return nil
	}
	segments := project
	if branch != "" {
		segments = append(segments, "-", "tree", branch)
		if subpath != "" {
			segments = append(segments, strings.Split(strings.Trim(subpath, "/"), "/")...)
		}
	} else if subpath != "" {
		segments = append(segments, "-", "tree", "HEAD")
		segments = append(segments, strings.Split(strings.Trim(subpath, "/"), "/")...)
	}
	return withPath(u, segments...)
}

func gitlabBugDatabaseFromRepo(u *url.URL) *url.URL {
	project := gitlabProjectSegments(pathSegments(u))
	if project == nil {
		return nil
	}
	return withPath(u, append(project, "issues")...)
}

func gitlabBugSubmitFromBugDatabase(u *url.URL) *url.URL {
	segments := stripDashSegment(pathSegments(u))
	if len(segments) < 3 || segments[len(segments)-1] != "issues" {
		return nil
	}
	return withPath(u, append(segments, "new")...)
}

func gitlabBugDatabaseFromBugSubmit(u *url.URL) *url.URL {
	segments := stripDashSegment(pathSegments(u))
	if len(segments) < 4 || segments[len(segments)-1] != "new" || segments[len(segments)-2] != "issues" {
		return nil
	}
	return withPath(u, segments[:len(segments)-1]...)
}

func gitlabBugDatabaseFromIssue(u *url.URL) *url.URL {
	segments := stripDashSegment(pathSegments(u))
	if len(segments) < 4 || segments[len(segments)-2] != "issues" || !allDigits(segments[len(segments)-1]) {
		return nil
	}
	return withPath(u, segments[:len(segments)-1]...)
}

func gitlabRepoFromMergeRequest(u *url.URL) *url.URL {
	segments := stripDashSegment(pathSegments(u))
	if len(segments) < 4 || segments[len(segments)-2] != "merge_requests" || !allDigits(segments[len(segments)-1]) {
		return nil
	}
	return withPath(u, segments[:len(segments)-2]...)
}

func gitlabProjectID(u *url.URL) string {
	project := gitlabProjectSegments(pathSegments(u))
	if project == nil {
		return ""
	}
	return strings.Join(project, "/")
}
