package vcs

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/matzehuels/metaforge/pkg/forge"
)

// staticGitLabHost is the network-free GitLab check: the known instance
// list plus the "gitlab." prefix convention.
func staticGitLabHost(host string) bool {
	return forge.IsGitLabHost(context.Background(), host, nil)
}

// A fixer repairs one common way git URLs get mangled. It returns the
// possibly-updated branch/subpath along with whether it changed anything.
type fixer func(u *url.URL, branch, subpath string) (string, string, bool)

// fixers run in order; later fixers see the effect of earlier ones.
var fixers = []fixer{
	fixGitLabScheme,
	fixGitHubScheme,
	fixSalsaCgitURL,
	fixGitLabTreeInURL,
	fixDoubleSlash,
	fixExtraColon,
	dropGitUsername,
	fixBranchArgument,
	fixGitGnomeOrgURL,
	fixAnongitURL,
	fixFreedesktopOrgURL,
}

// FixupBrokenGitDetails repairs mangled git URLs: wrong schemes, doubled
// slashes, tree links pasted as clone URLs, hosts that have moved. The
// returned branch and subpath pick up anything a fixer extracted from the
// URL itself.
func FixupBrokenGitDetails(repoURL, branch, subpath string) (string, string, string) {
	repoURL = fixPathInPort(repoURL)
	u, err := url.Parse(repoURL)
	if err != nil || u.Host == "" {
		return repoURL, branch, subpath
	}
	changed := false
	for _, fix := range fixers {
		if newBranch, newSubpath, ok := fix(u, branch, subpath); ok {
			branch, subpath = newBranch, newSubpath
			changed = true
		}
	}
	if !changed {
		return repoURL, branch, subpath
	}
	return u.String(), branch, subpath
}

var pathInPort = regexp.MustCompile(`^([a-z+]+://)(?:([^@/]+)@)?([^/:]+):([^0-9/][^/]*)(/.*)?$`)

// fixPathInPort repairs "host:path" mistakes inside a full URL, where the
// first path segment ends up where a port belongs. Runs on the raw string
// because such URLs do not parse.
func fixPathInPort(s string) string {
	m := pathInPort.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	scheme, user, host, first, rest := m[1], m[2], m[3], m[4], m[5]
	if host != "github.com" && !staticGitLabHost(host) {
		return s
	}
	out := scheme
	if user != "" {
		out += user + "@"
	}
	return out + host + "/" + first + rest
}

func fixGitLabScheme(u *url.URL, branch, subpath string) (string, string, bool) {
	if staticGitLabHost(u.Hostname()) && u.Scheme != "https" {
		u.Scheme = "https"
		return branch, subpath, true
	}
	return branch, subpath, false
}

// GitHub no longer serves the git:// scheme.
func fixGitHubScheme(u *url.URL, branch, subpath string) (string, string, bool) {
	if u.Hostname() == "github.com" && u.Scheme == "git" {
		u.Scheme = "https"
		return branch, subpath, true
	}
	return branch, subpath, false
}

func fixSalsaCgitURL(u *url.URL, branch, subpath string) (string, string, bool) {
	if u.Hostname() == "salsa.debian.org" && strings.HasPrefix(u.Path, "/cgit/") {
		u.Path = u.Path[len("/cgit"):]
		return branch, subpath, true
	}
	return branch, subpath, false
}

func fixGitLabTreeInURL(u *url.URL, branch, subpath string) (string, string, bool) {
	if !staticGitLabHost(u.Hostname()) {
		return branch, subpath, false
	}
	parts := strings.Split(u.Path, "/")
	if len(parts) >= 5 && parts[3] == "tree" {
		branch = strings.Join(parts[4:], "/")
		u.Path = strings.Join(parts[:3], "/")
		return branch, subpath, true
	}
	return branch, subpath, false
}

func fixDoubleSlash(u *url.URL, branch, subpath string) (string, string, bool) {
	if strings.HasPrefix(u.Path, "//") {
		u.Path = u.Path[1:]
		return branch, subpath, true
	}
	return branch, subpath, false
}

func fixExtraColon(u *url.URL, branch, subpath string) (string, string, bool) {
	if strings.HasSuffix(u.Host, ":") {
		u.Host = strings.TrimRight(u.Host, ":")
		return branch, subpath, true
	}
	return branch, subpath, false
}

func dropGitUsername(u *url.URL, branch, subpath string) (string, string, bool) {
	if u.Hostname() != "salsa.debian.org" && u.Hostname() != "github.com" {
		return branch, subpath, false
	}
	switch u.Scheme {
	case "git", "http", "https":
	default:
		return branch, subpath, false
	}
	if u.User != nil && u.User.Username() == "git" {
		u.User = nil
		return branch, subpath, true
	}
	return branch, subpath, false
}

func fixBranchArgument(u *url.URL, branch, subpath string) (string, string, bool) {
	if u.Hostname() != "github.com" {
		return branch, subpath, false
	}
	elements := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(elements) > 2 && elements[2] == "tree" {
		u.Path = "/" + strings.Join(elements[:2], "/")
		return strings.Join(elements[3:], "/"), subpath, true
	}
	return branch, subpath, false
}

func fixGitGnomeOrgURL(u *url.URL, branch, subpath string) (string, string, bool) {
	if u.Host != "git.gnome.org" {
		return branch, subpath, false
	}
	path := strings.TrimPrefix(u.Path, "/browse")
	u.Scheme = "https"
	u.Host = "gitlab.gnome.org"
	u.Path = "/GNOME" + path
	return branch, subpath, true
}

func fixAnongitURL(u *url.URL, branch, subpath string) (string, string, bool) {
	if u.Host == "anongit.kde.org" && u.Scheme == "git" {
		u.Scheme = "https"
		return branch, subpath, true
	}
	return branch, subpath, false
}

func fixFreedesktopOrgURL(u *url.URL, branch, subpath string) (string, string, bool) {
	if u.Host != "anongit.freedesktop.org" {
		return branch, subpath, false
	}
	u.Path = strings.TrimPrefix(u.Path, "/git")
	u.Scheme = "https"
	u.Host = "gitlab.freedesktop.org"
	return branch, subpath, true
}
