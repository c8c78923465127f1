package meta

import (
	"net/url"
	"strings"
)

// Hosts that historically serve placeholder or dead values for specific
// fields. A match sends the observation to the denylist regardless of its
// certainty.
var (
	badBugTrackerHosts = map[string]bool{
		"bugzilla.gnome.org":   true,
		"bugs.freedesktop.org": true,
	}
	badRepositoryHosts = map[string]bool{
		"anongit.kde.org":    true,
		"git.gitorious.org":  true,
	}
	badBrowseHosts = map[string]bool{
		"cgit.kde.org": true,
	}
	badHomepageHosts = map[string]bool{
		"pypi.org":     true,
		"rubygems.org": true,
	}
)

// KnownBadGuess reports whether the observation's value matches a known
// "bad guess" pattern: placeholder text, unsubstituted template markers,
// structurally empty strings, or hosts known to serve dead or generic
// values for the field. Denylisted observations are discarded
// unconditionally, before the merge sees them.
func KnownBadGuess(o Observation) bool {
	if o.Empty() {
		return true
	}

	switch o.Field {
	case FieldBugDatabase, FieldBugSubmit:
		return badURL(o.Value) || matchHost(o.Value, badBugTrackerHosts) || signInPath(o.Value)
	case FieldRepository:
		return badURL(o.Value) || matchHost(o.Value, badRepositoryHosts) || signInPath(o.Value)
	case FieldRepositoryBrowse:
		return badURL(o.Value) || matchHost(o.Value, badBrowseHosts) || signInPath(o.Value)
	case FieldHomepage:
		return badURL(o.Value) || matchHost(o.Value, badHomepageHosts)
	case FieldAuthor:
		for _, a := range o.Values {
			lc := strings.ToLower(a)
			if strings.Contains(lc, "unknown") ||
				strings.Contains(lc, "maintainer") ||
				strings.Contains(lc, "contributor") {
				return true
			}
		}
	case FieldName:
		lc := strings.ToLower(o.Value)
		return strings.Contains(lc, "unknown") || lc == "package"
	case FieldVersion:
		lc := strings.ToLower(o.Value)
		return lc == "devel" || lc == "unknown"
	}
	return false
}

// badURL reports unsubstituted template markers such as "${project}".
func badURL(value string) bool {
	return strings.Contains(value, "${")
}

func matchHost(value string, hosts map[string]bool) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return hosts[u.Hostname()]
}

// Login redirects are a common scrape artifact on GitLab instances.
func signInPath(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return strings.HasSuffix(u.Path, "/sign_in")
}
