// Package vcs normalizes version-control URLs. It turns the many ways a
// repository gets written down (scp-style git locations, vcs-prefixed
// schemes, tree-browsing links, plain-http mirrors of https hosts) into
// one canonical https form, and derives related URLs such as the
// browsable tree for a clone URL.
//
// Everything in this package is network-free except the Checker, which
// verifies canonical URLs against the forge APIs.
package vcs

import (
	"net/url"
	"regexp"
	"strings"
)

// PlausibleURL reports whether s could be a VCS location at all. Any URL
// or scp-style location contains a colon.
func PlausibleURL(s string) bool {
	return strings.Contains(s, ":")
}

// PlausibleBrowseURL reports whether s could be opened in a browser.
func PlausibleBrowseURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

// DropVCSInScheme strips the vcs qualifier from pip-style schemes such as
// git+https: or bzr+lp:.
func DropVCSInScheme(s string) string {
	if strings.HasPrefix(s, "git+http:") || strings.HasPrefix(s, "git+https:") {
		return s[4:]
	}
	if strings.HasPrefix(s, "hg+http:") || strings.HasPrefix(s, "hg+https:") {
		return s[3:]
	}
	if strings.HasPrefix(s, "bzr+lp:") || strings.HasPrefix(s, "bzr+http:") || strings.HasPrefix(s, "bzr+https:") {
		_, rest, _ := strings.Cut(s, "+")
		return rest
	}
	return s
}

// UnsplitVCSURL joins a repository URL with an optional branch and subpath
// into the "url -b branch [subpath]" notation used in packaging metadata.
func UnsplitVCSURL(repoURL, branch, subpath string) string {
	out := repoURL
	if branch != "" {
		out += " -b " + branch
	}
	if subpath != "" {
		out += " [" + subpath + "]"
	}
	return out
}

var subpathSuffix = regexp.MustCompile(`^(.*) \[([^]]+)\]$`)

// SplitVCSURL is the inverse of UnsplitVCSURL: it separates the "url -b
// branch [subpath]" notation back into its parts.
func SplitVCSURL(location string) (repoURL, branch, subpath string) {
	repoURL = strings.TrimSpace(location)
	if m := subpathSuffix.FindStringSubmatch(repoURL); m != nil {
		repoURL, subpath = m[1], m[2]
	}
	if before, after, ok := strings.Cut(repoURL, " -b "); ok {
		repoURL, branch = before, strings.TrimSpace(after)
	}
	return repoURL, branch, subpath
}

var rcpLocation = regexp.MustCompile(`^(?:([^@:/]+)@)?([^@:/]+):(.*)$`)

// FixupRCPStyleGitRepoURL rewrites scp-style git locations such as
// git@github.com:example/proj.git into proper ssh:// URLs. Anything that
// already has a scheme, or whose remainder could be a port number, is
// returned unchanged.
func FixupRCPStyleGitRepoURL(s string) string {
	if strings.Contains(s, "://") {
		return s
	}
	m := rcpLocation.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	user, host, path := m[1], m[2], m[3]
	if path == "" || allDigits(path) || !strings.Contains(host, ".") {
		return s
	}
	out := "ssh://"
	if user != "" {
		out += user + "@"
	}
	return out + host + "/" + strings.TrimPrefix(path, "/")
}

// CanonicalGitRepoURL returns the canonical form of a repository URL on a
// known forge: https transport, no credentials, no trailing ".git" or
// slash. URLs on unrecognized hosts come back unchanged.
func CanonicalGitRepoURL(repoURL string) string {
	u, err := url.Parse(repoURL)
	if err != nil || u.Hostname() == "" {
		return repoURL
	}
	if u.Hostname() != "github.com" && !staticGitLabHost(u.Hostname()) {
		return repoURL
	}
	u.Scheme = "https"
	u.User = nil
	u.Host = u.Hostname()
	u.Path = strings.TrimSuffix(strings.TrimRight(u.Path, "/"), ".git")
	return u.String()
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
