package sourceforge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if want := "/p/gnuastro"; r.URL.Path != want {
			t.Errorf("path = %q, want %q", r.URL.Path, want)
		}
		w.Write([]byte(`{
			"shortname": "gnuastro",
			"name": "GNU Astronomy Utilities",
			"shortdesc": "Astronomical data analysis",
			"external_homepage": "https://www.gnu.org/software/gnuastro/",
			"tools": [
				{"name": "git", "mount_point": "code", "url": "/p/gnuastro/code/"},
				{"name": "tickets", "mount_point": "bugs", "url": "/p/gnuastro/bugs/"}
			]
		}`))
	}))
	defer server.Close()

	c := NewClient(nil, time.Hour)
	c.SetBaseURL(server.URL)

	p, err := c.Project(context.Background(), "gnuastro")
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if p.Name != "GNU Astronomy Utilities" {
		t.Errorf("Name = %q, want %q", p.Name, "GNU Astronomy Utilities")
	}
	if got, want := p.GitRepoURL(), "https://git.code.sf.net/p/gnuastro/code"; got != want {
		t.Errorf("GitRepoURL() = %q, want %q", got, want)
	}
	if got, want := p.BugDatabaseURL(), "https://sourceforge.net/p/gnuastro/bugs"; got != want {
		t.Errorf("BugDatabaseURL() = %q, want %q", got, want)
	}
}

func TestProjectNoTools(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"shortname": "empty", "name": "Empty"}`))
	}))
	defer server.Close()

	c := NewClient(nil, time.Hour)
	c.SetBaseURL(server.URL)

	p, err := c.Project(context.Background(), "empty")
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if got := p.GitRepoURL(); got != "" {
		t.Errorf("GitRepoURL() = %q, want empty", got)
	}
	if got := p.BugDatabaseURL(); got != "" {
		t.Errorf("BugDatabaseURL() = %q, want empty", got)
	}
}
