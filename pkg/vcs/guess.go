package vcs

import (
	"context"
	"net/url"
	"strings"

	"github.com/matzehuels/metaforge/pkg/forge"
	"github.com/matzehuels/metaforge/pkg/probe"
)

// knownHostingSites serve repository URLs directly; a URL on one of them
// is assumed to already point at a repository.
var knownHostingSites = map[string]bool{
	"code.launchpad.net": true,
	"github.com":         true,
	"launchpad.net":      true,
	"git.openstack.org":  true,
}

// GuessRepoFromURL guesses the repository URL behind an arbitrary
// project-related URL: CI dashboards, coverage services, release download
// directories, and the hosting sites themselves. Returns "" when no guess
// can be made. The prober is consulted only for GitLab host detection and
// may be nil or offline.
func GuessRepoFromURL(ctx context.Context, rawURL string, p *probe.Prober) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	elements := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch host {
	case "github.com":
		if len(elements) < 2 {
			return ""
		}
		return "https://github.com/" + strings.Join(elements[:2], "/")
	case "travis-ci.org":
		if len(elements) < 2 {
			return ""
		}
		return "https://github.com/" + strings.Join(elements[:2], "/")
	case "coveralls.io":
		if len(elements) < 3 || elements[0] != "r" {
			return ""
		}
		return "https://github.com/" + strings.Join(elements[1:3], "/")
	case "launchpad.net":
		if len(elements) == 0 || elements[0] == "" {
			return ""
		}
		return "https://code.launchpad.net/" + elements[0]
	case "git.savannah.gnu.org":
		if len(elements) != 2 || elements[0] != "git" {
			return ""
		}
		return rawURL
	case "freedesktop.org", "www.freedesktop.org":
		if len(elements) >= 2 && elements[0] == "software" {
			return "https://gitlab.freedesktop.org/" + elements[1]
		}
		if len(elements) >= 3 && elements[0] == "wiki" && elements[1] == "Software" {
			return "https://gitlab.freedesktop.org/" + elements[2]
		}
		return ""
	case "download.gnome.org":
		if len(elements) >= 2 && elements[0] == "sources" {
			return "https://gitlab.gnome.org/GNOME/" + elements[1]
		}
		return ""
	case "download.kde.org":
		if len(elements) >= 2 && (elements[0] == "stable" || elements[0] == "unstable") {
			return "https://invent.kde.org/" + elements[1]
		}
		return ""
	case "ftp.gnome.org":
		if len(elements) >= 4 &&
			strings.EqualFold(elements[0], "pub") &&
			strings.EqualFold(elements[1], "gnome") &&
			strings.EqualFold(elements[2], "sources") {
			return "https://gitlab.gnome.org/GNOME/" + elements[3]
		}
		return ""
	case "sourceforge.net":
		if len(elements) >= 4 && elements[0] == "p" && elements[3] == "ci" {
			return "https://sourceforge.net/p/" + elements[1] + "/" + elements[2]
		}
		return ""
	case "www.apache.org":
		if len(elements) > 2 && elements[0] == "dist" {
			return "https://svn.apache.org/repos/asf/" + elements[1] + "/" + elements[2]
		}
		return ""
	case "bitbucket.org":
		if len(elements) < 2 {
			return ""
		}
		return "https://bitbucket.org/" + strings.Join(elements[:2], "/")
	case "ftp.gnu.org":
		if len(elements) >= 2 && elements[0] == "gnu" {
			return "https://git.savannah.gnu.org/git/" + elements[1]
		}
		return ""
	case "download.savannah.gnu.org":
		if len(elements) >= 2 && elements[0] == "releases" {
			return "https://git.savannah.gnu.org/git/" + elements[1]
		}
		return ""
	}

	if forge.IsGitLabHost(ctx, host, p) {
		return guessGitLabRepo(u, elements)
	}
	if knownHostingSites[host] {
		return rawURL
	}
	// svn subdomains usually host the repository itself.
	if strings.HasPrefix(host, "svn.") {
		return rawURL
	}
	return ""
}

// guessGitLabRepo trims resource suffixes like /-/tags off a GitLab
// project URL.
func guessGitLabRepo(u *url.URL, elements []string) string {
	if len(elements) < 2 {
		return ""
	}
	for i, e := range elements {
		if e == "-" || e == "tags" {
			elements = elements[:i]
			break
		}
	}
	if len(elements) < 2 {
		return ""
	}
	return "https://" + u.Hostname() + "/" + strings.Join(elements, "/")
}
