package vcs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/metaforge/pkg/errors"
	"github.com/matzehuels/metaforge/pkg/probe"
)

func onlineChecker(t *testing.T, server *httptest.Server) *Checker {
	t.Helper()
	p := probe.New(probe.Options{NetAccess: probe.NetEnabled, Timeout: 5 * time.Second})
	c := NewChecker(p, nil, CheckerConfig{})
	c.GitHubClient().SetBaseURL(server.URL)
	c.GitLabClient().SetBaseURL(server.URL)
	return c
}

func TestRepositoryURLCanonicalOffline(t *testing.T) {
	c := NewChecker(probe.Offline(), nil, CheckerConfig{})
	got, err := c.RepositoryURLCanonical(context.Background(), "git@github.com:example/proj.git")
	if err != nil {
		t.Fatalf("RepositoryURLCanonical() error = %v", err)
	}
	if want := "https://github.com/example/proj"; got != want {
		t.Errorf("RepositoryURLCanonical() = %q, want %q", got, want)
	}
}

func TestRepositoryURLCanonicalGitHub(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/example/proj":
			w.Write([]byte(`{
				"full_name": "example/proj",
				"clone_url": "https://github.com/example/proj.git",
				"html_url": "https://github.com/example/proj",
				"has_issues": true
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := onlineChecker(t, server)
	got, err := c.RepositoryURLCanonical(context.Background(), "git://github.com/example/proj.git")
	if err != nil {
		t.Fatalf("RepositoryURLCanonical() error = %v", err)
	}
	if want := "https://github.com/example/proj"; got != want {
		t.Errorf("RepositoryURLCanonical() = %q, want %q", got, want)
	}
}

func TestRepositoryURLCanonicalFollowsMoved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/example/old":
			w.Write([]byte(`{"description": "Moved to https://github.com/example/new"}`))
		case "/repos/example/new":
			w.Write([]byte(`{"html_url": "https://github.com/example/new"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := onlineChecker(t, server)
	got, err := c.RepositoryURLCanonical(context.Background(), "https://github.com/example/old")
	if err != nil {
		t.Fatalf("RepositoryURLCanonical() error = %v", err)
	}
	if want := "https://github.com/example/new"; got != want {
		t.Errorf("RepositoryURLCanonical() = %q, want %q", got, want)
	}
}

func TestRepositoryURLCanonicalArchived(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"html_url": "https://github.com/example/proj", "archived": true}`))
	}))
	defer server.Close()

	c := onlineChecker(t, server)
	_, err := c.RepositoryURLCanonical(context.Background(), "https://github.com/example/proj")
	if !errors.Is(err, errors.ErrCodeVerificationFailed) {
		t.Errorf("error = %v, want VERIFICATION_FAILED", err)
	}
}

func TestRepositoryURLCanonicalNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := onlineChecker(t, server)
	_, err := c.RepositoryURLCanonical(context.Background(), "https://github.com/example/gone")
	if !errors.Is(err, errors.ErrCodeVerificationFailed) {
		t.Errorf("error = %v, want VERIFICATION_FAILED", err)
	}
}

func TestRepositoryURLCanonicalRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := onlineChecker(t, server)
	_, err := c.RepositoryURLCanonical(context.Background(), "https://github.com/example/proj")
	if !errors.Is(err, errors.ErrCodeRateLimited) {
		t.Errorf("error = %v, want RATE_LIMITED", err)
	}
}

func TestBugDatabaseCanonicalGitHub(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"html_url": "https://github.com/example/proj", "has_issues": true}`))
	}))
	defer server.Close()

	c := onlineChecker(t, server)
	got, err := c.BugDatabaseCanonical(context.Background(), "https://github.com/example/proj/issues")
	if err != nil {
		t.Fatalf("BugDatabaseCanonical() error = %v", err)
	}
	if want := "https://github.com/example/proj/issues"; got != want {
		t.Errorf("BugDatabaseCanonical() = %q, want %q", got, want)
	}
}

func TestBugDatabaseCanonicalNoIssues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"html_url": "https://github.com/example/proj", "has_issues": false}`))
	}))
	defer server.Close()

	c := onlineChecker(t, server)
	_, err := c.BugDatabaseCanonical(context.Background(), "https://github.com/example/proj/issues")
	if !errors.Is(err, errors.ErrCodeVerificationFailed) {
		t.Errorf("error = %v, want VERIFICATION_FAILED", err)
	}
}

func TestBugDatabaseCanonicalGitLab(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if want := "/projects/group%2Fproj"; r.URL.EscapedPath() != want {
			t.Errorf("path = %q, want %q", r.URL.EscapedPath(), want)
		}
		w.Write([]byte(`{"web_url": "https://salsa.debian.org/group/proj", "issues_enabled": true}`))
	}))
	defer server.Close()

	c := onlineChecker(t, server)
	got, err := c.BugDatabaseCanonical(context.Background(), "https://salsa.debian.org/group/proj/issues")
	if err != nil {
		t.Fatalf("BugDatabaseCanonical() error = %v", err)
	}
	if want := "https://salsa.debian.org/group/proj/issues"; got != want {
		t.Errorf("BugDatabaseCanonical() = %q, want %q", got, want)
	}
}

func TestBugSubmitURLCanonical(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"html_url": "https://github.com/example/proj", "has_issues": true}`))
	}))
	defer server.Close()

	c := onlineChecker(t, server)
	got, err := c.BugSubmitURLCanonical(context.Background(), "https://github.com/example/proj/issues/new")
	if err != nil {
		t.Fatalf("BugSubmitURLCanonical() error = %v", err)
	}
	if want := "https://github.com/example/proj/issues/new"; got != want {
		t.Errorf("BugSubmitURLCanonical() = %q, want %q", got, want)
	}
}

func TestChecksOfflineNeverFail(t *testing.T) {
	c := NewChecker(probe.Offline(), nil, CheckerConfig{})
	ctx := context.Background()

	for _, check := range []func(context.Context, string) (string, error){
		c.RepositoryURLCanonical,
		c.BugDatabaseCanonical,
		c.BugSubmitURLCanonical,
		c.URLCanonical,
	} {
		if _, err := check(ctx, "https://github.com/example/proj"); err != nil {
			t.Errorf("offline check returned error: %v", err)
		}
	}
}
