package forge

import "net/url"

var launchpadForge = Forge{
	Kind:                          KindLaunchpad,
	Name:                          "Launchpad",
	RepositoryBrowseCanBeHomepage: false,
	BugDatabaseFromRepo:           launchpadBugDatabaseFromRepo,
	BugSubmitFromBugDatabase:      launchpadBugSubmitFromBugDatabase,
	BugDatabaseFromBugSubmit:      launchpadBugDatabaseFromBugSubmit,
	ProjectID:                     launchpadProjectID,
}

// launchpadProject returns the project name, the first path segment on any
// launchpad.net host. Personal branches (~user/project/...) name the
// project in the second segment.
func launchpadProject(u *url.URL) string {
	segments := pathSegments(u)
	if len(segments) == 0 {
		return ""
	}
	if segments[0] != "" && segments[0][0] == '~' {
		if len(segments) < 2 {
			return ""
		}
		return segments[1]
	}
	return segments[0]
}

func launchpadBugDatabaseFromRepo(u *url.URL) *url.URL {
	project := launchpadProject(u)
	if project == "" {
		return nil
	}
	out := withPath(u, project)
	out.Host = "bugs.launchpad.net"
	return out
}

func launchpadBugSubmitFromBugDatabase(u *url.URL) *url.URL {
	if u.Hostname() != "bugs.launchpad.net" {
		return nil
	}
	segments := pathSegments(u)
	if len(segments) != 1 {
		return nil
	}
	return withPath(u, segments[0], "+filebug")
}

func launchpadBugDatabaseFromBugSubmit(u *url.URL) *url.URL {
	if u.Hostname() != "bugs.launchpad.net" {
		return nil
	}
	segments := pathSegments(u)
	if len(segments) != 2 || segments[1] != "+filebug" {
		return nil
	}
	return withPath(u, segments[0])
}

func launchpadProjectID(u *url.URL) string {
	return launchpadProject(u)
}
