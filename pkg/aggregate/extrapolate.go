package aggregate

import (
	"context"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/metaforge/pkg/errors"
	"github.com/matzehuels/metaforge/pkg/forge"
	"github.com/matzehuels/metaforge/pkg/meta"
	"github.com/matzehuels/metaforge/pkg/vcs"
)

// An extrapolation derives observations for missing fields from fields
// already won. A rule only fires when every source field is present and
// every target field is either absent or strictly weaker than the weakest
// source.
type extrapolation struct {
	from []meta.FieldTag
	to   []meta.FieldTag
	fn   func(a *Aggregator, ctx context.Context, record *meta.Record) []meta.Observation
}

// extrapolations run in order within each pass; the driver repeats passes
// until a fixed point.
var extrapolations = []extrapolation{
	{
		from: []meta.FieldTag{meta.FieldHomepage},
		to:   []meta.FieldTag{meta.FieldRepository},
		fn:   repositoryFromHomepage,
	},
	{
		from: []meta.FieldTag{meta.FieldRepositoryBrowse},
		to:   []meta.FieldTag{meta.FieldHomepage},
		fn:   homepageFromRepositoryBrowse,
	},
	{
		from: []meta.FieldTag{meta.FieldBugDatabase},
		to:   []meta.FieldTag{meta.FieldRepository},
		fn:   repositoryFromBugDatabase,
	},
	{
		from: []meta.FieldTag{meta.FieldRepository},
		to:   []meta.FieldTag{meta.FieldRepositoryBrowse},
		fn:   repositoryBrowseFromRepository,
	},
	{
		from: []meta.FieldTag{meta.FieldRepositoryBrowse},
		to:   []meta.FieldTag{meta.FieldRepository},
		fn:   repositoryFromRepositoryBrowse,
	},
	{
		from: []meta.FieldTag{meta.FieldRepository},
		to:   []meta.FieldTag{meta.FieldBugDatabase},
		fn:   bugDatabaseFromRepository,
	},
	{
		from: []meta.FieldTag{meta.FieldBugDatabase},
		to:   []meta.FieldTag{meta.FieldBugSubmit},
		fn:   bugSubmitFromBugDatabase,
	},
	{
		from: []meta.FieldTag{meta.FieldBugSubmit},
		to:   []meta.FieldTag{meta.FieldBugDatabase},
		fn:   bugDatabaseFromBugSubmit,
	},
	{
		from: []meta.FieldTag{meta.FieldDownload},
		to:   []meta.FieldTag{meta.FieldRepository},
		fn:   repositoryFromDownload,
	},
	{
		from: []meta.FieldTag{meta.FieldRepository},
		to:   []meta.FieldTag{meta.FieldName},
		fn:   nameFromRepository,
	},
	{
		from: []meta.FieldTag{meta.FieldMaintainer},
		to:   []meta.FieldTag{meta.FieldContact},
		fn:   contactFromMaintainer,
	},
}

// extrapolate repeats the rule passes until no rule changes the record.
// Exceeding the iteration limit means two rules keep rewriting each
// other's output, which a correct rule set never does.
func (a *Aggregator) extrapolate(ctx context.Context, record *meta.Record, logger *log.Logger) error {
	for iteration := 0; ; iteration++ {
		if iteration >= a.limit {
			return errors.New(errors.ErrCodeInternal, "extrapolation did not settle after %d passes", a.limit)
		}
		changed := false
		for _, rule := range extrapolations {
			if !a.ruleApplies(record, rule) {
				continue
			}
			derived := rule.fn(a, ctx, record)
			if fields := Update(record, derived); len(fields) > 0 {
				logger.Debug("extrapolated", "from", rule.from, "fields", fields)
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
}

func (a *Aggregator) ruleApplies(record *meta.Record, rule extrapolation) bool {
	source := meta.Confirmed
	for _, f := range rule.from {
		entry, ok := record.Get(f)
		if !ok {
			return false
		}
		source = meta.Min(source, entry.Certainty)
	}
	for _, f := range rule.to {
		if entry, ok := record.Get(f); ok && entry.Certainty >= source {
			return false
		}
	}
	return true
}

// capped builds a derived observation at most as certain as its source.
func capped(field meta.FieldTag, value string, source meta.Entry, cap meta.Certainty) []meta.Observation {
	if value == "" {
		return nil
	}
	return []meta.Observation{{
		Field:     field,
		Value:     value,
		Certainty: meta.Min(source.Certainty, cap),
		Origin:    source.Origin,
	}}
}

func repositoryFromHomepage(a *Aggregator, ctx context.Context, record *meta.Record) []meta.Observation {
	source, _ := record.Get(meta.FieldHomepage)
	repo := vcs.GuessRepoFromURL(ctx, source.Value, a.prober)
	return capped(meta.FieldRepository, repo, source, meta.Likely)
}

// Hosting-site trees are commonly used as the project homepage, but only
// on forges where that convention holds.
func homepageFromRepositoryBrowse(a *Aggregator, ctx context.Context, record *meta.Record) []meta.Observation {
	source, _ := record.Get(meta.FieldRepositoryBrowse)
	u, err := url.Parse(source.Value)
	if err != nil {
		return nil
	}
	f, ok := forge.Find(ctx, u, a.prober)
	if !ok || !f.RepositoryBrowseCanBeHomepage {
		return nil
	}
	return capped(meta.FieldHomepage, source.Value, source, meta.Possible)
}

func repositoryFromBugDatabase(a *Aggregator, ctx context.Context, record *meta.Record) []meta.Observation {
	source, _ := record.Get(meta.FieldBugDatabase)
	repo := vcs.GuessRepoFromURL(ctx, source.Value, a.prober)
	return capped(meta.FieldRepository, repo, source, meta.Likely)
}

func repositoryBrowseFromRepository(a *Aggregator, ctx context.Context, record *meta.Record) []meta.Observation {
	source, _ := record.Get(meta.FieldRepository)
	browse := vcs.BrowseURLFromRepoURL(source.Value, "", "")
	return capped(meta.FieldRepositoryBrowse, browse, source, meta.Confirmed)
}

func repositoryFromRepositoryBrowse(a *Aggregator, ctx context.Context, record *meta.Record) []meta.Observation {
	source, _ := record.Get(meta.FieldRepositoryBrowse)
	repo := vcs.GuessRepoFromURL(ctx, source.Value, a.prober)
	return capped(meta.FieldRepository, repo, source, meta.Confirmed)
}

func bugDatabaseFromRepository(a *Aggregator, ctx context.Context, record *meta.Record) []meta.Observation {
	source, _ := record.Get(meta.FieldRepository)
	db := vcs.GuessBugDatabaseURLFromRepoURL(ctx, source.Value, a.prober)
	return capped(meta.FieldBugDatabase, db, source, meta.Likely)
}

func bugSubmitFromBugDatabase(a *Aggregator, ctx context.Context, record *meta.Record) []meta.Observation {
	source, _ := record.Get(meta.FieldBugDatabase)
	submit := vcs.BugSubmitURLFromBugDatabaseURL(ctx, source.Value, a.prober)
	return capped(meta.FieldBugSubmit, submit, source, meta.Confirmed)
}

func bugDatabaseFromBugSubmit(a *Aggregator, ctx context.Context, record *meta.Record) []meta.Observation {
	source, _ := record.Get(meta.FieldBugSubmit)
	db := vcs.BugDatabaseURLFromBugSubmitURL(ctx, source.Value, a.prober)
	return capped(meta.FieldBugDatabase, db, source, meta.Confirmed)
}

func repositoryFromDownload(a *Aggregator, ctx context.Context, record *meta.Record) []meta.Observation {
	source, _ := record.Get(meta.FieldDownload)
	repo := vcs.GuessRepoFromURL(ctx, source.Value, a.prober)
	return capped(meta.FieldRepository, repo, source, meta.Likely)
}

// nameFromRepository takes the last path segment of the repository URL.
func nameFromRepository(a *Aggregator, ctx context.Context, record *meta.Record) []meta.Observation {
	source, _ := record.Get(meta.FieldRepository)
	u, err := url.Parse(source.Value)
	if err != nil {
		return nil
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	name := strings.TrimSuffix(segments[len(segments)-1], ".git")
	return capped(meta.FieldName, name, source, meta.Likely)
}

func contactFromMaintainer(a *Aggregator, ctx context.Context, record *meta.Record) []meta.Observation {
	source, _ := record.Get(meta.FieldMaintainer)
	return capped(meta.FieldContact, source.Value, source, meta.Confirmed)
}
