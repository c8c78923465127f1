package forge

import (
	"context"
	"net/url"
	"time"

	"github.com/matzehuels/metaforge/pkg/cache"
	"github.com/matzehuels/metaforge/pkg/integrations/launchpad"
	"github.com/matzehuels/metaforge/pkg/integrations/sourceforge"
	"github.com/matzehuels/metaforge/pkg/meta"
)

// Extender fetches additional metadata from a forge's own API for projects
// hosted there. Only forges whose API exposes project records beyond the
// repository itself participate; the others yield no observations.
type Extender struct {
	sourceforge *sourceforge.Client
	launchpad   *launchpad.Client
}

// NewExtender creates an Extender whose API clients share the given cache.
func NewExtender(store cache.Cache, ttl time.Duration) *Extender {
	return &Extender{
		sourceforge: sourceforge.NewClient(store, ttl),
		launchpad:   launchpad.NewClient(store, ttl),
	}
}

// SourceForgeClient returns the underlying SourceForge client, for tests.
func (e *Extender) SourceForgeClient() *sourceforge.Client { return e.sourceforge }

// LaunchpadClient returns the underlying Launchpad client, for tests.
func (e *Extender) LaunchpadClient() *launchpad.Client { return e.launchpad }

// Extend queries f's API for the project that owns u and returns the
// observations the record supports. Every returned observation is capped
// at the max certainty, so forge-derived data never outranks the evidence
// that led to it. Lookup failures are returned to the caller, who treats
// them as best-effort.
func (e *Extender) Extend(ctx context.Context, f *Forge, u *url.URL, max meta.Certainty) ([]meta.Observation, error) {
	if f == nil || f.ProjectID == nil {
		return nil, nil
	}
	project := f.ProjectID(u)
	if project == "" {
		return nil, nil
	}

	switch f.Kind {
	case KindSourceForge:
		return e.extendSourceForge(ctx, project, max)
	case KindLaunchpad:
		return e.extendLaunchpad(ctx, project, max)
	default:
		return nil, nil
	}
}

func (e *Extender) extendSourceForge(ctx context.Context, project string, max meta.Certainty) ([]meta.Observation, error) {
	p, err := e.sourceforge.Project(ctx, project)
	if err != nil {
		return nil, err
	}

	certainty := meta.Min(meta.Likely, max)
	origin := "sourceforge:" + project
	var out []meta.Observation
	add := func(field meta.FieldTag, value string) {
		if value != "" {
			out = append(out, meta.Observation{Field: field, Value: value, Certainty: certainty, Origin: origin})
		}
	}
	add(meta.FieldName, p.Name)
	add(meta.FieldSummary, p.ShortDescription)
	add(meta.FieldHomepage, p.ExternalHomepage)
	add(meta.FieldRepository, p.GitRepoURL())
	add(meta.FieldBugDatabase, p.BugDatabaseURL())
	return out, nil
}

func (e *Extender) extendLaunchpad(ctx context.Context, project string, max meta.Certainty) ([]meta.Observation, error) {
	p, err := e.launchpad.Project(ctx, project)
	if err != nil {
		return nil, err
	}

	certainty := meta.Min(meta.Likely, max)
	origin := "launchpad:" + project
	var out []meta.Observation
	add := func(field meta.FieldTag, value string) {
		if value != "" {
			out = append(out, meta.Observation{Field: field, Value: value, Certainty: certainty, Origin: origin})
		}
	}
	add(meta.FieldName, p.DisplayName)
	add(meta.FieldSummary, p.Summary)
	add(meta.FieldDescription, p.Description)
	add(meta.FieldHomepage, p.HomepageURL)
	add(meta.FieldRepository, p.RepositoryURL())
	add(meta.FieldBugDatabase, p.BugDatabaseURL())
	return out, nil
}
