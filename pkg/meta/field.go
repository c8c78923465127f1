package meta

import "sort"

// FieldTag identifies a metadata field in the shared vocabulary.
// Collectors for individual formats map their native field names onto
// these tags; the aggregator and renderers only ever see FieldTags.
type FieldTag string

// The shared field vocabulary. Field names follow DEP-12 conventions.
const (
	FieldName             FieldTag = "Name"
	FieldVersion          FieldTag = "Version"
	FieldSummary          FieldTag = "Summary"
	FieldDescription      FieldTag = "Description"
	FieldHomepage         FieldTag = "Homepage"
	FieldRepository       FieldTag = "Repository"
	FieldRepositoryBrowse FieldTag = "Repository-Browse"
	FieldBugDatabase      FieldTag = "Bug-Database"
	FieldBugSubmit        FieldTag = "Bug-Submit"
	FieldLicense          FieldTag = "License"
	FieldAuthor           FieldTag = "Author"
	FieldMaintainer       FieldTag = "Maintainer"
	FieldContact          FieldTag = "Contact"
	FieldDownload         FieldTag = "Download"
	FieldDocumentation    FieldTag = "Documentation"
	FieldWiki             FieldTag = "Wiki"
	FieldMailingList      FieldTag = "MailingList"
	FieldSecurityContact  FieldTag = "Security-Contact"
	FieldKeywords         FieldTag = "Keywords"
	FieldScreenshots      FieldTag = "Screenshots"
)

// fieldInfo describes the fixed properties of a field: whether its value is
// a list, whether it holds a URL the canonicalizer should process, and
// whether a later observation of equal certainty replaces an earlier one.
type fieldInfo struct {
	list       bool
	url        bool
	preferLast bool
}

// Local, more specific sources should override generic earlier ones for the
// descriptive fields; URL fields are first-seen-wins on equal certainty.
var fields = map[FieldTag]fieldInfo{
	FieldName:             {preferLast: true},
	FieldVersion:          {preferLast: true},
	FieldSummary:          {preferLast: true},
	FieldDescription:      {preferLast: true},
	FieldHomepage:         {url: true},
	FieldRepository:       {url: true},
	FieldRepositoryBrowse: {url: true},
	FieldBugDatabase:      {url: true},
	FieldBugSubmit:        {url: true},
	FieldLicense:          {},
	FieldAuthor:           {list: true},
	FieldMaintainer:       {},
	FieldContact:          {},
	FieldDownload:         {url: true},
	FieldDocumentation:    {url: true},
	FieldWiki:             {url: true},
	FieldMailingList:      {},
	FieldSecurityContact:  {},
	FieldKeywords:         {list: true},
	FieldScreenshots:      {list: true},
}

// Known reports whether tag is part of the shared vocabulary.
func (f FieldTag) Known() bool {
	_, ok := fields[f]
	return ok
}

// List reports whether the field's value shape is an ordered list of strings
// rather than a scalar. The shape is fixed per field and must not vary
// across observations.
func (f FieldTag) List() bool {
	return fields[f].list
}

// URL reports whether the field holds a URL that the canonicalizer
// normalizes during aggregation.
func (f FieldTag) URL() bool {
	return fields[f].url
}

// PreferLast reports whether a later observation of equal certainty replaces
// the current winner for this field.
func (f FieldTag) PreferLast() bool {
	return fields[f].preferLast
}

// URLFields returns the URL-valued fields that the normalization pass
// processes, in a fixed order: Repository first so forge matching can feed
// the derived fields.
func URLFields() []FieldTag {
	return []FieldTag{
		FieldRepository,
		FieldRepositoryBrowse,
		FieldBugDatabase,
		FieldBugSubmit,
		FieldHomepage,
		FieldDownload,
		FieldDocumentation,
		FieldWiki,
	}
}

// AllFields returns every known field tag in sorted order.
// The order is stable across runs.
func AllFields() []FieldTag {
	out := make([]FieldTag, 0, len(fields))
	for f := range fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
