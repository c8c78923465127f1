package forge

import "net/url"

var sourceForge = Forge{
	Kind:                          KindSourceForge,
	Name:                          "SourceForge",
	RepositoryBrowseCanBeHomepage: false,
	BugDatabaseFromRepo:           sourceforgeBugDatabaseFromRepo,
	BugDatabaseFromBugSubmit:      sourceforgeBugDatabaseFromBugSubmit,
	ProjectID:                     sourceforgeProjectID,
}

// sourceforgeProject returns the project name from a /p/<project>/... or
// /projects/<project>/... path.
func sourceforgeProject(u *url.URL) string {
	segments := pathSegments(u)
	if len(segments) < 2 {
		return ""
	}
	if segments[0] != "p" && segments[0] != "projects" {
		return ""
	}
	return segments[1]
}

func sourceforgeBugDatabaseFromRepo(u *url.URL) *url.URL {
	project := sourceforgeProject(u)
	if project == "" {
		return nil
	}
	return withPath(u, "p", project, "bugs")
}

func sourceforgeBugDatabaseFromBugSubmit(u *url.URL) *url.URL {
	segments := pathSegments(u)
	if len(segments) < 3 || segments[0] != "p" || segments[2] != "bugs" {
		return nil
	}
	return withPath(u, "p", segments[1], "bugs")
}

func sourceforgeProjectID(u *url.URL) string {
	return sourceforgeProject(u)
}
