package vcs

import (
	"testing"
)

func TestPlausibleURL(t *testing.T) {
	if !PlausibleURL("https://github.com/example/proj") {
		t.Error("PlausibleURL(https URL) = false")
	}
	if !PlausibleURL("git@github.com:example/proj.git") {
		t.Error("PlausibleURL(scp location) = false")
	}
	if PlausibleURL("not a url") {
		t.Error("PlausibleURL(plain text) = true")
	}
}

func TestPlausibleBrowseURL(t *testing.T) {
	if !PlausibleBrowseURL("https://github.com/example/proj") {
		t.Error("PlausibleBrowseURL(https) = false")
	}
	if PlausibleBrowseURL("ssh://git@github.com/example/proj") {
		t.Error("PlausibleBrowseURL(ssh) = true")
	}
}

func TestDropVCSInScheme(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"git+https://github.com/example/proj", "https://github.com/example/proj"},
		{"git+http://example.org/proj", "http://example.org/proj"},
		{"hg+https://hg.example.org/proj", "https://hg.example.org/proj"},
		{"bzr+lp:byobu", "lp:byobu"},
		{"bzr+https://code.launchpad.net/byobu", "https://code.launchpad.net/byobu"},
		{"https://github.com/example/proj", "https://github.com/example/proj"},
	}
	for _, tt := range tests {
		if got := DropVCSInScheme(tt.in); got != tt.want {
			t.Errorf("DropVCSInScheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnsplitSplitVCSURL(t *testing.T) {
	tests := []struct {
		url, branch, subpath string
		want                 string
	}{
		{"https://github.com/example/proj", "", "", "https://github.com/example/proj"},
		{"https://github.com/example/proj", "main", "", "https://github.com/example/proj -b main"},
		{"https://github.com/example/proj", "main", "docs", "https://github.com/example/proj -b main [docs]"},
		{"https://github.com/example/proj", "", "docs", "https://github.com/example/proj [docs]"},
	}
	for _, tt := range tests {
		got := UnsplitVCSURL(tt.url, tt.branch, tt.subpath)
		if got != tt.want {
			t.Errorf("UnsplitVCSURL(%q, %q, %q) = %q, want %q", tt.url, tt.branch, tt.subpath, got, tt.want)
		}
		gotURL, gotBranch, gotSubpath := SplitVCSURL(got)
		if gotURL != tt.url || gotBranch != tt.branch || gotSubpath != tt.subpath {
			t.Errorf("SplitVCSURL(%q) = (%q, %q, %q), want (%q, %q, %q)",
				got, gotURL, gotBranch, gotSubpath, tt.url, tt.branch, tt.subpath)
		}
	}
}

func TestFixupRCPStyleGitRepoURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"git@github.com:example/proj.git", "ssh://git@github.com/example/proj.git"},
		{"github.com:example/proj", "ssh://github.com/example/proj"},
		{"https://github.com/example/proj", "https://github.com/example/proj"},
		{"example.com:8080", "example.com:8080"},
		{"lp:byobu", "lp:byobu"},
	}
	for _, tt := range tests {
		if got := FixupRCPStyleGitRepoURL(tt.in); got != tt.want {
			t.Errorf("FixupRCPStyleGitRepoURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalGitRepoURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ssh://git@github.com/example/proj.git", "https://github.com/example/proj"},
		{"https://github.com/example/proj.git", "https://github.com/example/proj"},
		{"https://github.com/example/proj/", "https://github.com/example/proj"},
		{"https://github.com/example/proj", "https://github.com/example/proj"},
		{"http://salsa.debian.org/group/proj.git", "https://salsa.debian.org/group/proj"},
		{"https://git.example.org/proj.git", "https://git.example.org/proj.git"},
	}
	for _, tt := range tests {
		if got := CanonicalGitRepoURL(tt.in); got != tt.want {
			t.Errorf("CanonicalGitRepoURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalGitRepoURLIdempotent(t *testing.T) {
	urls := []string{
		"https://github.com/example/proj",
		"https://salsa.debian.org/group/proj",
		"https://git.example.org/proj.git",
	}
	for _, u := range urls {
		once := CanonicalGitRepoURL(u)
		twice := CanonicalGitRepoURL(once)
		if once != twice {
			t.Errorf("CanonicalGitRepoURL not idempotent for %q: %q != %q", u, once, twice)
		}
	}
}

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"git@github.com:example/proj.git", "https://github.com/example/proj"},
		{"git+https://github.com/example/proj.git", "https://github.com/example/proj"},
		{"git://github.com/example/proj", "https://github.com/example/proj"},
		{"  https://github.com/example/proj  ", "https://github.com/example/proj"},
		{"https://gitlab.com/group/proj.git", "https://gitlab.com/group/proj"},
		{"lp:byobu", "https://code.launchpad.net/byobu"},
		{"https://git.example.org/proj", "https://git.example.org/proj"},
	}
	for _, tt := range tests {
		if got := SanitizeURL(tt.in); got != tt.want {
			t.Errorf("SanitizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeURLIdempotent(t *testing.T) {
	for _, u := range []string{
		"https://github.com/example/proj",
		"https://gitlab.com/group/proj",
		"https://sourceforge.net/p/gnuastro/code",
	} {
		once := SanitizeURL(u)
		if twice := SanitizeURL(once); once != twice {
			t.Errorf("SanitizeURL not idempotent for %q: %q != %q", u, once, twice)
		}
	}
}

func TestFindSecureRepoURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://github.com/example/proj", "https://github.com/example/proj"},
		{"git://github.com/example/proj", "https://github.com/example/proj"},
		{"http://gitlab.com/group/proj", "https://gitlab.com/group/proj"},
		{"ssh://git@github.com/example/proj", "ssh://git@github.com/example/proj"},
		{"http://git.savannah.gnu.org/git/proj.git", "https://git.savannah.gnu.org/git/proj.git"},
		{"git://git.savannah.gnu.org/proj.git", "https://git.savannah.gnu.org/git/proj.git"},
		{"http://random.example.org/proj", ""},
	}
	for _, tt := range tests {
		if got := FindSecureRepoURL(tt.in); got != tt.want {
			t.Errorf("FindSecureRepoURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFindPublicRepoURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ssh://git@github.com/example/proj.git", "https://github.com/example/proj.git"},
		{"https://github.com/example/proj", "https://github.com/example/proj"},
		{"ssh://git@salsa.debian.org/group/proj.git", "https://salsa.debian.org/group/proj.git"},
		{"bzr+ssh://bazaar.launchpad.net/~user/proj/trunk", "https://bazaar.launchpad.net/~user/proj/trunk"},
		{"ssh://random.example.org/proj", ""},
	}
	for _, tt := range tests {
		if got := FindPublicRepoURL(tt.in); got != tt.want {
			t.Errorf("FindPublicRepoURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
