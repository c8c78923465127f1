package vcs

import (
	"net/url"
	"strings"
)

// BrowseURLFromRepoURL derives the human-browsable URL for a repository
// URL, optionally positioned at a branch and subpath. It returns "" when
// the host has no known browse convention.
func BrowseURLFromRepoURL(repoURL, branch, subpath string) string {
	u, err := url.Parse(repoURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	switch {
	case host == "github.com":
		return githubBrowse(u, branch, subpath)
	case host == "gopkg.in":
		return gopkgBrowse(u, subpath)
	case host == "code.launchpad.net" || host == "launchpad.net":
		return launchpadBrowse(u, subpath)
	case host == "svn.apache.org":
		return apacheBrowse(u, subpath)
	case host == "git.savannah.gnu.org" || host == "git.sv.gnu.org":
		return savannahBrowse(u, subpath)
	case staticGitLabHost(host):
		return gitlabBrowse(u, branch, subpath)
	}
	return ""
}

func githubBrowse(u *url.URL, branch, subpath string) string {
	parts := strings.Split(u.Path, "/")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	path := strings.TrimSuffix(strings.Join(parts, "/"), ".git")
	if branch != "" || subpath != "" {
		if branch == "" {
			branch = "HEAD"
		}
		path += "/tree/" + branch
	}
	if subpath != "" {
		path += "/" + subpath
	}
	return "https://github.com" + path
}

// gopkg.in paths carry the major version in the package name (pkg.v3);
// the tree lives on GitHub under the matching tag. The one-element form
// gopkg.in/pkg.v3 maps to the go-pkg GitHub organization.
func gopkgBrowse(u *url.URL, subpath string) string {
	elements := strings.Split(strings.Trim(u.Path, "/"), "/")
	var user, pkg string
	switch len(elements) {
	case 1:
		pkg = elements[0]
	case 2:
		user, pkg = elements[0], elements[1]
	default:
		return ""
	}
	name, version, ok := strings.Cut(pkg, ".v")
	if !ok {
		name, version = pkg, "HEAD"
	} else {
		version = "v" + version
	}
	if user == "" {
		user = "go-" + name
	}
	path := "/" + user + "/" + name + "/tree/" + version
	if subpath != "" {
		path += "/" + subpath
	}
	return "https://github.com" + path
}

func launchpadBrowse(u *url.URL, subpath string) string {
	if subpath != "" {
		return "https://bazaar.launchpad.net" + u.Path + "/view/head:/" + subpath
	}
	return "https://code.launchpad.net" + u.Path
}

func apacheBrowse(u *url.URL, subpath string) string {
	elements := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(elements) < 2 || elements[0] != "repos" || elements[1] != "asf" {
		return ""
	}
	elements = elements[1:]
	elements[0] = "viewvc"
	if subpath != "" {
		elements = append(elements, subpath)
	}
	return "https://svn.apache.org/" + strings.Join(elements, "/")
}

func savannahBrowse(u *url.URL, subpath string) string {
	elements := strings.Split(strings.Trim(u.Path, "/"), "/")
	if u.Scheme == "https" && len(elements) > 0 && elements[0] == "git" {
		elements = elements[1:]
	}
	elements = append([]string{"cgit"}, elements...)
	if subpath != "" {
		elements = append(elements, "tree", subpath)
	}
	return "https://" + u.Host + "/" + strings.Join(elements, "/")
}

func gitlabBrowse(u *url.URL, branch, subpath string) string {
	path := strings.TrimSuffix(u.Path, ".git")
	if subpath != "" {
		if branch == "" {
			branch = "HEAD"
		}
		path += "/-/blob/" + branch + "/" + subpath
	}
	return "https://" + u.Hostname() + path
}
