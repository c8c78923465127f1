// Package probe implements the minimal blocking HTTP operations used by the
// forge registry and the URL canonicalizer: host signature checks, redirect
// resolution, and URL verification.
//
// All operations are gated by an explicit [NetAccess] flag carried in the
// prober's immutable [Options]; a prober built with network access disabled
// or unspecified never issues a request. Probe outcomes are cached per
// hostname for the lifetime of one prober, which the aggregator scopes to a
// single run to keep forge matching deterministic.
package probe

// NetAccess controls whether network probes may be issued.
// It is a tri-state: unspecified degrades to disabled for any
// non-interactive canonicalization path.
type NetAccess int

const (
	// NetUnspecified means the caller expressed no preference.
	// It behaves exactly like NetDisabled.
	NetUnspecified NetAccess = iota

	// NetDisabled forbids all network probes.
	NetDisabled

	// NetEnabled allows network probes.
	NetEnabled
)

// Allowed reports whether probes may be issued. Only NetEnabled allows
// them; the registry and canonicalizer fail closed on anything else.
func (n NetAccess) Allowed() bool {
	return n == NetEnabled
}

// String returns the lowercase name of the access level.
func (n NetAccess) String() string {
	switch n {
	case NetEnabled:
		return "enabled"
	case NetDisabled:
		return "disabled"
	default:
		return "unspecified"
	}
}
