package forge

import (
	"context"
	"net/url"
	"testing"

	"github.com/matzehuels/metaforge/pkg/probe"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) error = %v", raw, err)
	}
	return u
}

func TestFindStaticHosts(t *testing.T) {
	tests := []struct {
		url  string
		kind Kind
	}{
		{"https://github.com/example/proj", KindGitHub},
		{"https://sourceforge.net/projects/proj", KindSourceForge},
		{"https://code.launchpad.net/proj", KindLaunchpad},
		{"https://bugs.launchpad.net/proj", KindLaunchpad},
		{"https://salsa.debian.org/group/proj", KindGitLab},
		{"https://invent.kde.org/utilities/kate", KindGitLab},
		{"https://0xacab.org/group/proj", KindGitLab},
		{"https://gitlab.com/group/proj", KindGitLab},
		{"https://gitlab.example.org/group/proj", KindGitLab},
	}
	p := probe.Offline()
	for _, tt := range tests {
		f, ok := Find(context.Background(), mustParse(t, tt.url), p)
		if !ok {
			t.Errorf("Find(%q) matched nothing, want %s", tt.url, tt.kind)
			continue
		}
		if f.Kind != tt.kind {
			t.Errorf("Find(%q) = %s, want %s", tt.url, f.Kind, tt.kind)
		}
	}
}

func TestFindUnknownHostOffline(t *testing.T) {
	// Fails closed: with network access disabled an unrecognized host is
	// not treated as any forge.
	if _, ok := Find(context.Background(), mustParse(t, "https://git.example.org/proj"), probe.Offline()); ok {
		t.Error("Find() matched an unknown host without network access")
	}
}

func TestFindNilProber(t *testing.T) {
	if _, ok := Find(context.Background(), mustParse(t, "https://git.example.org/proj"), nil); ok {
		t.Error("Find() matched an unknown host with a nil prober")
	}
}

func TestByKind(t *testing.T) {
	f, ok := ByKind(KindGitHub)
	if !ok || f.Name != "GitHub" {
		t.Fatalf("ByKind(github) = %v, %v", f, ok)
	}
	if _, ok := ByKind(Kind("bitbucket")); ok {
		t.Error("ByKind() matched an unregistered kind")
	}
}

func TestRepositoryBrowseCanBeHomepage(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindGitHub, true},
		{KindGitLab, true},
		{KindSourceForge, false},
		{KindLaunchpad, false},
	}
	for _, tt := range tests {
		f, _ := ByKind(tt.kind)
		if f.RepositoryBrowseCanBeHomepage != tt.want {
			t.Errorf("%s: RepositoryBrowseCanBeHomepage = %v, want %v", tt.kind, f.RepositoryBrowseCanBeHomepage, tt.want)
		}
	}
}

func TestGitHubDerivations(t *testing.T) {
	f, _ := ByKind(KindGitHub)

	tests := []struct {
		name string
		fn   func(*url.URL) *url.URL
		in   string
		want string
	}{
		{"bug database from repo", f.BugDatabaseFromRepo,
			"https://github.com/example/proj.git", "https://github.com/example/proj/issues"},
		{"bug submit from bug database", f.BugSubmitFromBugDatabase,
			"https://github.com/example/proj/issues", "https://github.com/example/proj/issues/new"},
		{"bug database from bug submit", f.BugDatabaseFromBugSubmit,
			"https://github.com/example/proj/issues/new", "https://github.com/example/proj/issues"},
		{"bug database from issue", f.BugDatabaseFromIssue,
			"https://github.com/example/proj/issues/42", "https://github.com/example/proj/issues"},
		{"repo from pull request", f.RepoFromMergeRequest,
			"https://github.com/example/proj/pull/7", "https://github.com/example/proj"},
	}
	for _, tt := range tests {
		got := tt.fn(mustParse(t, tt.in))
		if got == nil {
			t.Errorf("%s: got nil, want %q", tt.name, tt.want)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got.String(), tt.want)
		}
	}
}

func TestGitHubDerivationsRejectWrongShapes(t *testing.T) {
	f, _ := ByKind(KindGitHub)

	if got := f.BugSubmitFromBugDatabase(mustParse(t, "https://github.com/example/proj")); got != nil {
		t.Errorf("BugSubmitFromBugDatabase(repo URL) = %q, want nil", got)
	}
	if got := f.BugDatabaseFromIssue(mustParse(t, "https://github.com/example/proj/issues/new")); got != nil {
		t.Errorf("BugDatabaseFromIssue(submit URL) = %q, want nil", got)
	}
	if got := f.RepoFromMergeRequest(mustParse(t, "https://github.com/example/proj/pull/abc")); got != nil {
		t.Errorf("RepoFromMergeRequest(non-numeric) = %q, want nil", got)
	}
	if got := f.BugDatabaseFromRepo(mustParse(t, "https://github.com/example")); got != nil {
		t.Errorf("BugDatabaseFromRepo(owner only) = %q, want nil", got)
	}
}

func TestGitHubBrowseURL(t *testing.T) {
	f, _ := ByKind(KindGitHub)

	tests := []struct {
		in, branch, subpath, want string
	}{
		{"https://github.com/example/proj.git", "", "", "https://github.com/example/proj"},
		{"https://github.com/example/proj", "main", "", "https://github.com/example/proj/tree/main"},
		{"https://github.com/example/proj", "main", "docs", "https://github.com/example/proj/tree/main/docs"},
		{"https://github.com/example/proj", "", "docs", "https://github.com/example/proj/tree/HEAD/docs"},
	}
	for _, tt := range tests {
		got := f.BrowseURL(mustParse(t, tt.in), tt.branch, tt.subpath)
		if got == nil || got.String() != tt.want {
			t.Errorf("BrowseURL(%q, %q, %q) = %v, want %q", tt.in, tt.branch, tt.subpath, got, tt.want)
		}
	}
}

func TestGitLabDerivations(t *testing.T) {
	f, _ := ByKind(KindGitLab)

	tests := []struct {
		name string
		fn   func(*url.URL) *url.URL
		in   string
		want string
	}{
		{"bug database from repo", f.BugDatabaseFromRepo,
			"https://salsa.debian.org/group/proj.git", "https://salsa.debian.org/group/proj/issues"},
		{"bug submit from bug database", f.BugSubmitFromBugDatabase,
			"https://salsa.debian.org/group/proj/issues", "https://salsa.debian.org/group/proj/issues/new"},
		{"bug submit from dashed bug database", f.BugSubmitFromBugDatabase,
			"https://gitlab.com/group/proj/-/issues", "https://gitlab.com/group/proj/issues/new"},
		{"bug database from bug submit", f.BugDatabaseFromBugSubmit,
			"https://salsa.debian.org/group/proj/issues/new", "https://salsa.debian.org/group/proj/issues"},
		{"bug database from issue", f.BugDatabaseFromIssue,
			"https://gitlab.com/group/proj/-/issues/123", "https://gitlab.com/group/proj/issues"},
		{"repo from merge request", f.RepoFromMergeRequest,
			"https://salsa.debian.org/group/proj/merge_requests/5", "https://salsa.debian.org/group/proj"},
		{"nested namespace", f.BugDatabaseFromRepo,
			"https://gitlab.com/group/subgroup/proj", "https://gitlab.com/group/subgroup/proj/issues"},
	}
	for _, tt := range tests {
		got := tt.fn(mustParse(t, tt.in))
		if got == nil {
			t.Errorf("%s: got nil, want %q", tt.name, tt.want)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got.String(), tt.want)
		}
	}
}

func TestSourceForgeDerivations(t *testing.T) {
	f, _ := ByKind(KindSourceForge)

	got := f.BugDatabaseFromRepo(mustParse(t, "https://sourceforge.net/p/gnuastro/code"))
	if want := "https://sourceforge.net/p/gnuastro/bugs"; got == nil || got.String() != want {
		t.Errorf("BugDatabaseFromRepo() = %v, want %q", got, want)
	}

	got = f.BugDatabaseFromRepo(mustParse(t, "https://sourceforge.net/projects/gnuastro"))
	if want := "https://sourceforge.net/p/gnuastro/bugs"; got == nil || got.String() != want {
		t.Errorf("BugDatabaseFromRepo(projects path) = %v, want %q", got, want)
	}

	if f.BugSubmitFromBugDatabase != nil {
		t.Error("SourceForge should not derive a bug submit URL")
	}
}

func TestLaunchpadDerivations(t *testing.T) {
	f, _ := ByKind(KindLaunchpad)

	got := f.BugDatabaseFromRepo(mustParse(t, "https://code.launchpad.net/byobu"))
	if want := "https://bugs.launchpad.net/byobu"; got == nil || got.String() != want {
		t.Errorf("BugDatabaseFromRepo() = %v, want %q", got, want)
	}

	got = f.BugSubmitFromBugDatabase(mustParse(t, "https://bugs.launchpad.net/byobu"))
	if want := "https://bugs.launchpad.net/byobu/+filebug"; got == nil || got.String() != want {
		t.Errorf("BugSubmitFromBugDatabase() = %v, want %q", got, want)
	}

	got = f.BugDatabaseFromBugSubmit(mustParse(t, "https://bugs.launchpad.net/byobu/+filebug"))
	if want := "https://bugs.launchpad.net/byobu"; got == nil || got.String() != want {
		t.Errorf("BugDatabaseFromBugSubmit() = %v, want %q", got, want)
	}

	got = f.BugDatabaseFromRepo(mustParse(t, "https://code.launchpad.net/~user/byobu/trunk"))
	if want := "https://bugs.launchpad.net/byobu"; got == nil || got.String() != want {
		t.Errorf("BugDatabaseFromRepo(personal branch) = %v, want %q", got, want)
	}
}

func TestProjectIDs(t *testing.T) {
	tests := []struct {
		kind Kind
		url  string
		want string
	}{
		{KindGitHub, "https://github.com/example/proj.git", "example/proj"},
		{KindGitLab, "https://salsa.debian.org/group/proj.git", "group/proj"},
		{KindGitLab, "https://gitlab.com/group/subgroup/proj", "group/subgroup/proj"},
		{KindSourceForge, "https://sourceforge.net/p/gnuastro/code", "gnuastro"},
		{KindLaunchpad, "https://code.launchpad.net/byobu", "byobu"},
	}
	for _, tt := range tests {
		f, _ := ByKind(tt.kind)
		if got := f.ProjectID(mustParse(t, tt.url)); got != tt.want {
			t.Errorf("%s: ProjectID(%q) = %q, want %q", tt.kind, tt.url, got, tt.want)
		}
	}
}
