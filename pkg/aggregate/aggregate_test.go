package aggregate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/matzehuels/metaforge/pkg/meta"
	"github.com/matzehuels/metaforge/pkg/probe"
)

func offlineAggregator() *Aggregator {
	return New(Config{Prober: probe.Offline()})
}

func TestRunHigherCertaintyWins(t *testing.T) {
	// The GitHub URL must win regardless of input order.
	obs := []meta.Observation{
		{Field: meta.FieldRepository, Value: "https://bad.example/placeholder", Certainty: meta.Likely, Origin: "readme"},
		{Field: meta.FieldRepository, Value: "https://github.com/foo/bar", Certainty: meta.Confirmed, Origin: "git-config"},
	}
	for _, order := range [][]meta.Observation{obs, {obs[1], obs[0]}} {
		record, err := offlineAggregator().Run(context.Background(), order)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got, want := record.Value(meta.FieldRepository), "https://github.com/foo/bar"; got != want {
			t.Errorf("Repository = %q, want %q", got, want)
		}
		if got := record.Certainty(meta.FieldRepository); got != meta.Confirmed {
			t.Errorf("certainty = %s, want confirmed", got)
		}
	}
}

func TestRunEqualCertaintyFirstWinsForURLFields(t *testing.T) {
	record, err := offlineAggregator().Run(context.Background(), []meta.Observation{
		{Field: meta.FieldHomepage, Value: "https://first.example.org", Certainty: meta.Likely, Origin: "a"},
		{Field: meta.FieldHomepage, Value: "https://second.example.org", Certainty: meta.Likely, Origin: "b"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := record.Value(meta.FieldHomepage), "https://first.example.org"; got != want {
		t.Errorf("Homepage = %q, want %q", got, want)
	}
}

func TestRunEqualCertaintyLastWinsForDescriptiveFields(t *testing.T) {
	record, err := offlineAggregator().Run(context.Background(), []meta.Observation{
		{Field: meta.FieldDescription, Value: "first description", Certainty: meta.Likely, Origin: "a"},
		{Field: meta.FieldDescription, Value: "second description", Certainty: meta.Likely, Origin: "b"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := record.Value(meta.FieldDescription), "second description"; got != want {
		t.Errorf("Description = %q, want %q", got, want)
	}
}

func TestRunDropsDenylistedValues(t *testing.T) {
	record, err := offlineAggregator().Run(context.Background(), []meta.Observation{
		{Field: meta.FieldBugDatabase, Value: "https://example.org/${project.name}/issues", Certainty: meta.Confirmed, Origin: "pom"},
		{Field: meta.FieldBugDatabase, Value: "https://example.org/proj/issues", Certainty: meta.Possible, Origin: "readme"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := record.Value(meta.FieldBugDatabase), "https://example.org/proj/issues"; got != want {
		t.Errorf("Bug-Database = %q, want %q", got, want)
	}
}

func TestRunNormalizesRepositoryURL(t *testing.T) {
	record, err := offlineAggregator().Run(context.Background(), []meta.Observation{
		{Field: meta.FieldRepository, Value: "git@github.com:example/proj.git", Certainty: meta.Confirmed, Origin: "git-config"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := record.Value(meta.FieldRepository), "https://github.com/example/proj"; got != want {
		t.Errorf("Repository = %q, want %q", got, want)
	}
	if got := record.Certainty(meta.FieldRepository); got != meta.Confirmed {
		t.Errorf("certainty after normalization = %s, want confirmed", got)
	}
}

func TestRunKeepsOriginThroughNormalization(t *testing.T) {
	record, err := offlineAggregator().Run(context.Background(), []meta.Observation{
		{Field: meta.FieldRepository, Value: "git://github.com/example/proj", Certainty: meta.Likely, Origin: "cargo"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	entry, _ := record.Get(meta.FieldRepository)
	if entry.Origin != "cargo" {
		t.Errorf("origin = %q, want %q", entry.Origin, "cargo")
	}
}

func TestRunExtrapolatesBugTrackerChain(t *testing.T) {
	record, err := offlineAggregator().Run(context.Background(), []meta.Observation{
		{Field: meta.FieldRepository, Value: "https://github.com/example/proj", Certainty: meta.Confirmed, Origin: "git-config"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	tests := []struct {
		field meta.FieldTag
		value string
		cert  meta.Certainty
	}{
		{meta.FieldBugDatabase, "https://github.com/example/proj/issues", meta.Likely},
		{meta.FieldBugSubmit, "https://github.com/example/proj/issues/new", meta.Likely},
		{meta.FieldRepositoryBrowse, "https://github.com/example/proj", meta.Confirmed},
		{meta.FieldName, "proj", meta.Likely},
	}
	for _, tt := range tests {
		if got := record.Value(tt.field); got != tt.value {
			t.Errorf("%s = %q, want %q", tt.field, got, tt.value)
		}
		if got := record.Certainty(tt.field); got != tt.cert {
			t.Errorf("%s certainty = %s, want %s", tt.field, got, tt.cert)
		}
	}
}

func TestRunExtrapolatesRepositoryFromHomepage(t *testing.T) {
	record, err := offlineAggregator().Run(context.Background(), []meta.Observation{
		{Field: meta.FieldHomepage, Value: "https://github.com/example/proj", Certainty: meta.Confirmed, Origin: "package.json"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := record.Value(meta.FieldRepository), "https://github.com/example/proj"; got != want {
		t.Errorf("Repository = %q, want %q", got, want)
	}
	if got := record.Certainty(meta.FieldRepository); got != meta.Likely {
		t.Errorf("Repository certainty = %s, want likely (capped)", got)
	}
}

func TestRunContactFromMaintainer(t *testing.T) {
	record, err := offlineAggregator().Run(context.Background(), []meta.Observation{
		{Field: meta.FieldMaintainer, Value: "Jane Doe <jane@example.org>", Certainty: meta.Confirmed, Origin: "control"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := record.Value(meta.FieldContact), "Jane Doe <jane@example.org>"; got != want {
		t.Errorf("Contact = %q, want %q", got, want)
	}
}

func TestRunNeverDowngradesWithDerivedValues(t *testing.T) {
	record, err := offlineAggregator().Run(context.Background(), []meta.Observation{
		{Field: meta.FieldRepository, Value: "https://github.com/example/proj", Certainty: meta.Confirmed, Origin: "git-config"},
		{Field: meta.FieldName, Value: "The Real Name", Certainty: meta.Confirmed, Origin: "doap"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// Name must keep the confirmed value, not the likely guess from the
	// repository path.
	if got, want := record.Value(meta.FieldName), "The Real Name"; got != want {
		t.Errorf("Name = %q, want %q", got, want)
	}
}

func TestRunDeterministic(t *testing.T) {
	obs := []meta.Observation{
		{Field: meta.FieldRepository, Value: "https://github.com/example/proj", Certainty: meta.Confirmed, Origin: "git-config"},
		{Field: meta.FieldHomepage, Value: "https://example.org", Certainty: meta.Likely, Origin: "readme"},
		{Field: meta.FieldSummary, Value: "A project", Certainty: meta.Possible, Origin: "readme"},
	}

	first, err := offlineAggregator().Run(context.Background(), obs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := offlineAggregator().Run(context.Background(), obs)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !reflect.DeepEqual(first.Observations(), again.Observations()) {
			t.Fatalf("records differ across runs:\n%v\n%v", first.Observations(), again.Observations())
		}
	}
}

func TestRunRejectsMalformedObservation(t *testing.T) {
	_, err := offlineAggregator().Run(context.Background(), []meta.Observation{
		{Field: meta.FieldTag("No-Such-Field"), Value: "x", Certainty: meta.Likely, Origin: "test"},
	})
	if err == nil {
		t.Fatal("Run() accepted an unknown field")
	}
}

func TestRunForgeBackfillSourceForge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"shortname": "gnuastro",
			"name": "GNU Astronomy Utilities",
			"shortdesc": "Astronomical data analysis",
			"external_homepage": "https://www.gnu.org/software/gnuastro/"
		}`))
	}))
	defer server.Close()

	a := offlineAggregator()
	a.Extender().SourceForgeClient().SetBaseURL(server.URL)

	record, err := a.Run(context.Background(), []meta.Observation{
		{Field: meta.FieldRepository, Value: "https://sourceforge.net/p/gnuastro/code", Certainty: meta.Confirmed, Origin: "watch"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got, want := record.Value(meta.FieldSummary), "Astronomical data analysis"; got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
	if got, want := record.Value(meta.FieldHomepage), "https://www.gnu.org/software/gnuastro/"; got != want {
		t.Errorf("Homepage = %q, want %q", got, want)
	}
	if got := record.Certainty(meta.FieldSummary); got != meta.Likely {
		t.Errorf("Summary certainty = %s, want likely", got)
	}
}
