package vcs

import "testing"

func TestBrowseURLFromRepoURL(t *testing.T) {
	tests := []struct {
		url, branch, subpath string
		want                 string
	}{
		{"https://github.com/example/proj.git", "", "", "https://github.com/example/proj"},
		{"https://github.com/example/proj", "main", "", "https://github.com/example/proj/tree/main"},
		{"https://github.com/example/proj", "", "docs", "https://github.com/example/proj/tree/HEAD/docs"},
		{"https://gopkg.in/yaml.v3", "", "", "https://github.com/go-yaml/yaml/tree/v3"},
		{"https://gopkg.in/user/pkg.v2", "", "", "https://github.com/user/pkg/tree/v2"},
		{"https://code.launchpad.net/byobu", "", "", "https://code.launchpad.net/byobu"},
		{"https://code.launchpad.net/byobu", "", "etc", "https://bazaar.launchpad.net/byobu/view/head:/etc"},
		{"https://svn.apache.org/repos/asf/maven/site", "", "", "https://svn.apache.org/viewvc/maven/site"},
		{"https://git.savannah.gnu.org/git/gnuastro.git", "", "", "https://git.savannah.gnu.org/cgit/gnuastro.git"},
		{"https://salsa.debian.org/group/proj.git", "", "", "https://salsa.debian.org/group/proj"},
		{"https://salsa.debian.org/group/proj", "", "debian/control", "https://salsa.debian.org/group/proj/-/blob/HEAD/debian/control"},
		{"https://random.example.org/proj", "", "", ""},
	}
	for _, tt := range tests {
		if got := BrowseURLFromRepoURL(tt.url, tt.branch, tt.subpath); got != tt.want {
			t.Errorf("BrowseURLFromRepoURL(%q, %q, %q) = %q, want %q",
				tt.url, tt.branch, tt.subpath, got, tt.want)
		}
	}
}
