package vcs

import (
	"net/url"
	"strings"
)

// secureSchemes are the transports whose URLs are left alone by
// FindSecureRepoURL.
var secureSchemes = map[string]bool{
	"https":   true,
	"git+ssh": true,
	"bzr+ssh": true,
	"hg+ssh":  true,
	"ssh":     true,
	"svn+ssh": true,
}

// FindPublicRepoURL rewrites repository URLs that require credentials into
// their anonymous equivalents on hosts known to serve both. It returns ""
// when no public form is known.
func FindPublicRepoURL(repoURL string) string {
	u, err := url.Parse(repoURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	switch {
	case host == "github.com":
		switch u.Scheme {
		case "https", "http", "git":
			return repoURL
		}
		return "https://github.com" + u.Path
	case staticGitLabHost(host):
		switch u.Scheme {
		case "https", "http":
			return repoURL
		case "ssh":
			return "https://" + host + u.Path
		}
	case host == "code.launchpad.net" || host == "bazaar.launchpad.net" || host == "git.launchpad.net":
		if strings.HasPrefix(u.Scheme, "http") || u.Scheme == "lp" {
			return repoURL
		}
		if u.Scheme == "ssh" || u.Scheme == "bzr+ssh" {
			return "https://" + host + u.Path
		}
	}
	return ""
}

// FindSecureRepoURL rewrites a repository URL onto a secure transport for
// hosts known to serve https, without touching the network. It returns ""
// when no secure form can be determined.
func FindSecureRepoURL(repoURL string) string {
	u, err := url.Parse(repoURL)
	if err != nil {
		return ""
	}
	if secureSchemes[u.Scheme] {
		return repoURL
	}

	host := u.Hostname()
	switch {
	case host == "" && u.Scheme == "lp":
		// lp:project shorthand
		return "https://code.launchpad.net/" + strings.TrimPrefix(u.Opaque, "/")
	case staticGitLabHost(host),
		host == "github.com",
		host == "git.launchpad.net",
		host == "bazaar.launchpad.net",
		host == "code.launchpad.net":
		u.Scheme = "https"
		u.User = nil
		return u.String()
	case host == "git.savannah.gnu.org" || host == "git.sv.gnu.org":
		if u.Scheme == "http" {
			u.Scheme = "https"
		} else {
			u.Scheme = "https"
			u.Path = "/git" + u.Path
		}
		return u.String()
	}
	return ""
}

// SanitizeURL runs the full network-free normalization chain over a raw
// repository location: scheme cleanup, broken-URL repair, scp-style
// rewrite, public and secure URL selection, and the forge ".git"
// convention.
func SanitizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	s = DropVCSInScheme(s)
	s = FixupRCPStyleGitRepoURL(s)
	s, _, _ = FixupBrokenGitDetails(s, "", "")
	if public := FindPublicRepoURL(s); public != "" {
		s = public
	}
	s = CanonicalGitRepoURL(s)
	if secure := FindSecureRepoURL(s); secure != "" {
		s = secure
	}
	return s
}
