package meta

// Entry is one winning value in a canonical record, together with the
// certainty and origin of the observation that produced it.
type Entry struct {
	Value     string    `json:"value,omitempty" yaml:"value,omitempty"`
	Values    []string  `json:"values,omitempty" yaml:"values,omitempty"`
	Certainty Certainty `json:"certainty" yaml:"certainty"`
	Origin    string    `json:"origin,omitempty" yaml:"origin,omitempty"`
}

// Record is the canonical metadata produced by one aggregation run: a
// mapping from field to exactly one winning entry. It optionally retains
// discarded alternates for audit. A Record is mutable only while the
// aggregator builds it; callers receiving one must treat it as immutable.
type Record struct {
	entries    map[FieldTag]Entry
	alternates map[FieldTag][]Entry
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{
		entries:    make(map[FieldTag]Entry),
		alternates: make(map[FieldTag][]Entry),
	}
}

// Get returns the winning entry for field, if any.
func (r *Record) Get(field FieldTag) (Entry, bool) {
	e, ok := r.entries[field]
	return e, ok
}

// Has reports whether field has a winning entry.
func (r *Record) Has(field FieldTag) bool {
	_, ok := r.entries[field]
	return ok
}

// Value returns the scalar value for field, or empty if absent.
func (r *Record) Value(field FieldTag) string {
	return r.entries[field].Value
}

// Certainty returns the certainty of the winning entry for field.
// Returns Unknown if the field is absent.
func (r *Record) Certainty(field FieldTag) Certainty {
	return r.entries[field].Certainty
}

// Set installs entry as the winner for field. Any previous winner is
// retained as an alternate.
func (r *Record) Set(field FieldTag, entry Entry) {
	if prev, ok := r.entries[field]; ok {
		r.alternates[field] = append(r.alternates[field], prev)
	}
	r.entries[field] = entry
}

// Replace installs entry as the winner for field without retaining the
// previous winner. The normalization pass uses it to rewrite a winner's
// value in place.
func (r *Record) Replace(field FieldTag, entry Entry) {
	r.entries[field] = entry
}

// Alternates returns the discarded entries for field, most recent last.
func (r *Record) Alternates(field FieldTag) []Entry {
	return r.alternates[field]
}

// Len returns the number of fields with a winning entry.
func (r *Record) Len() int {
	return len(r.entries)
}

// Fields returns the fields with a winning entry, in the stable order of
// AllFields. Iteration through Fields keeps output deterministic.
func (r *Record) Fields() []FieldTag {
	out := make([]FieldTag, 0, len(r.entries))
	for _, f := range AllFields() {
		if _, ok := r.entries[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Observations converts the record back into observations, one per field, in
// stable field order. Useful for renderers and for feeding one record into
// another aggregation run.
func (r *Record) Observations() []Observation {
	out := make([]Observation, 0, len(r.entries))
	for _, f := range r.Fields() {
		e := r.entries[f]
		out = append(out, Observation{
			Field:     f,
			Value:     e.Value,
			Values:    e.Values,
			Certainty: e.Certainty,
			Origin:    e.Origin,
		})
	}
	return out
}
