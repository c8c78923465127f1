// Package aggregate folds a stream of raw metadata observations into one
// canonical record.
//
// A run works in four stages: denylist filtering, certainty-based merge,
// URL normalization, and forge-derived backfill, followed by repeated
// extrapolation passes that fill still-missing fields from the ones
// already won. For identical input and identical network access the
// result is bit-identical across runs; the only state shared between runs
// is the probe cache.
package aggregate

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/metaforge/pkg/cache"
	"github.com/matzehuels/metaforge/pkg/errors"
	"github.com/matzehuels/metaforge/pkg/forge"
	"github.com/matzehuels/metaforge/pkg/meta"
	"github.com/matzehuels/metaforge/pkg/observability"
	"github.com/matzehuels/metaforge/pkg/probe"
	"github.com/matzehuels/metaforge/pkg/vcs"
)

// DefaultIterationLimit bounds the extrapolation loop. Mutually-derived
// fields (Repository and Repository-Browse, Bug-Database and Bug-Submit)
// reach a fixed point well before this.
const DefaultIterationLimit = 10

// Config configures an Aggregator.
type Config struct {
	// Prober carries the network access policy and probe cache. Required;
	// use probe.Offline() for network-free aggregation.
	Prober *probe.Prober

	// Cache backs the forge API clients. Nil disables cross-run caching.
	Cache cache.Cache

	// Tokens for authenticated verification requests.
	Checker vcs.CheckerConfig

	// IterationLimit overrides DefaultIterationLimit when positive.
	IterationLimit int

	Logger *log.Logger
}

// Aggregator merges observation streams into canonical records. One
// Aggregator can serve many runs; each run gets its own accumulator and
// run ID.
type Aggregator struct {
	prober   *probe.Prober
	checker  *vcs.Checker
	extender *forge.Extender
	limit    int
	logger   *log.Logger
}

// New creates an Aggregator.
func New(cfg Config) *Aggregator {
	p := cfg.Prober
	if p == nil {
		p = probe.Offline()
	}
	limit := cfg.IterationLimit
	if limit <= 0 {
		limit = DefaultIterationLimit
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Aggregator{
		prober:   p,
		checker:  vcs.NewChecker(p, cfg.Cache, cfg.Checker),
		extender: forge.NewExtender(cfg.Cache, p.Options().CacheTTL),
		limit:    limit,
		logger:   logger,
	}
}

// Checker returns the underlying URL checker, for tests.
func (a *Aggregator) Checker() *vcs.Checker { return a.checker }

// Extender returns the underlying forge extender, for tests.
func (a *Aggregator) Extender() *forge.Extender { return a.extender }

// Run folds observations, in caller-supplied priority order, into one
// canonical record. Network trouble on best-effort paths degrades
// silently; only malformed input aborts the run.
func (a *Aggregator) Run(ctx context.Context, observations []meta.Observation) (*meta.Record, error) {
	runID := uuid.NewString()
	logger := a.logger.With("run", runID)
	start := time.Now()
	observability.Aggregation().OnRunStart(ctx, runID, len(observations))

	record := meta.NewRecord()
	if err := a.merge(record, observations, logger); err != nil {
		observability.Aggregation().OnRunComplete(ctx, runID, 0, time.Since(start), err)
		return nil, err
	}
	a.normalizeURLs(ctx, record, logger)
	a.forgeBackfill(ctx, record, logger)
	if err := a.extrapolate(ctx, record, logger); err != nil {
		observability.Aggregation().OnRunComplete(ctx, runID, record.Len(), time.Since(start), err)
		return nil, err
	}

	logger.Debug("aggregation finished", "fields", record.Len(), "duration", time.Since(start))
	observability.Aggregation().OnRunComplete(ctx, runID, record.Len(), time.Since(start), nil)
	return record, nil
}

// merge is stages 1 and 2: drop denylisted placeholders, then fold each
// observation in with the certainty-based merge rule.
func (a *Aggregator) merge(record *meta.Record, observations []meta.Observation, logger *log.Logger) error {
	for _, o := range observations {
		if err := o.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "bad observation for %s from %s", o.Field, o.Origin)
		}
		if o.Empty() {
			continue
		}
		if meta.KnownBadGuess(o) {
			logger.Debug("dropping denylisted value", "field", o.Field, "value", o.Value, "origin", o.Origin)
			continue
		}
		fold(record, o)
	}
	return nil
}

// fold applies the stream merge rule for one observation: a strictly
// greater certainty always wins; on a tie, prefer-last fields take the
// newcomer and all other fields keep the first value seen.
func fold(record *meta.Record, o meta.Observation) bool {
	entry := meta.Entry{Value: o.Value, Values: o.Values, Certainty: o.Certainty, Origin: o.Origin}
	current, ok := record.Get(o.Field)
	switch {
	case !ok:
		record.Set(o.Field, entry)
		return true
	case o.Certainty > current.Certainty:
		record.Set(o.Field, entry)
		return true
	case o.Certainty == current.Certainty && o.Field.PreferLast():
		record.Set(o.Field, entry)
		return true
	}
	return false
}

// Update folds derived observations (forge backfill, extrapolation) into
// an existing record. Unlike the stream merge it never replaces on a
// certainty tie, so mutually-derived fields settle instead of rewriting
// each other forever. It reports which fields changed.
func Update(record *meta.Record, observations []meta.Observation) []meta.FieldTag {
	var changed []meta.FieldTag
	for _, o := range observations {
		if o.Empty() || meta.KnownBadGuess(o) {
			continue
		}
		entry := meta.Entry{Value: o.Value, Values: o.Values, Certainty: o.Certainty, Origin: o.Origin}
		current, ok := record.Get(o.Field)
		if ok && o.Certainty <= current.Certainty {
			continue
		}
		record.Set(o.Field, entry)
		changed = append(changed, o.Field)
	}
	return changed
}

// normalizeURLs is stage 3: every URL-valued winner is rewritten to its
// canonical form in place, keeping certainty and origin.
func (a *Aggregator) normalizeURLs(ctx context.Context, record *meta.Record, logger *log.Logger) {
	for _, field := range meta.URLFields() {
		entry, ok := record.Get(field)
		if !ok || entry.Value == "" {
			continue
		}
		var canonical string
		switch field {
		case meta.FieldRepository:
			canonical = a.checker.CanonicalRepoURL(ctx, entry.Value)
		default:
			canonical = vcs.SanitizeURL(entry.Value)
		}
		if canonical == "" || canonical == entry.Value {
			continue
		}
		logger.Debug("normalized URL", "field", field, "from", entry.Value, "to", canonical)
		entry.Value = canonical
		record.Replace(field, entry)
	}
}

// forgeBackfill is stage 4: once Repository is canonical, ask its forge
// for additional project metadata and fold the result back through the
// merge rule. Lookup failures are best-effort.
func (a *Aggregator) forgeBackfill(ctx context.Context, record *meta.Record, logger *log.Logger) {
	entry, ok := record.Get(meta.FieldRepository)
	if !ok || entry.Value == "" {
		return
	}
	u, err := url.Parse(entry.Value)
	if err != nil {
		return
	}
	f, ok := forge.Find(ctx, u, a.prober)
	if !ok {
		return
	}
	derived, err := a.extender.Extend(ctx, f, u, entry.Certainty)
	if err != nil {
		logger.Debug("forge metadata lookup failed", "forge", f.Name, "err", err)
		return
	}
	if changed := Update(record, derived); len(changed) > 0 {
		logger.Debug("backfilled from forge", "forge", f.Name, "fields", changed)
	}
}
