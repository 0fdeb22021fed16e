package prefix

import (
	"compatgen/internal/datasource"
	"compatgen/internal/version"
)

// RowFilter drops rows of Construct for Browser at or above Since.
type RowFilter struct {
	Construct string
	Browser   string
	Since     version.Version
}

// RowAddition appends synthetic rows to a construct.
type RowAddition struct {
	Construct string
	Rows      []string
}

// Corrections are curated fixes applied to the prefix table before
// compilation.
type Corrections struct {
	Filters   []RowFilter
	Additions []RowAddition
	// PrefixOverrides replaces a resolved prefix for one construct:
	// construct → resolved prefix → replacement.
	PrefixOverrides map[string]map[string]string
}

// DefaultCorrections returns the fixes known to be needed for current data.
func DefaultCorrections() Corrections {
	return Corrections{
		// Unprefixed clip-path works from Safari 9.1 / iOS 9.3; the prefix
		// table still lists later releases.
		Filters: []RowFilter{
			{Construct: "clip-path", Browser: "safari", Since: version.New(9, 1, 0)},
			{Construct: "clip-path", Browser: "ios_saf", Since: version.New(9, 3, 0)},
		},
		// background-clip: text keeps the -webkit- prefix through Safari 13.
		Additions: []RowAddition{
			{Construct: "background-clip", Rows: []string{"safari 13", "ios_saf 4", "ios_saf 13"}},
		},
		// Edge and IE never shipped -ms-backdrop-filter.
		PrefixOverrides: map[string]map[string]string{
			"backdrop-filter": {"ms": "webkit"},
		},
	}
}

// Apply returns a corrected copy of table. Rows whose version cannot be
// decoded are kept so the compiler reports them.
func (c Corrections) Apply(table datasource.PrefixTable) datasource.PrefixTable {
	out := table.Clone()
	for _, f := range c.Filters {
		i := out.Index(f.Construct)
		if i < 0 {
			continue
		}
		kept := out[i].Browsers[:0]
		for _, raw := range out[i].Browsers {
			row, ok := datasource.ParseRow(raw)
			if ok && row.Browser == f.Browser {
				if v, err := version.Parse(row.Version); err == nil && v >= f.Since {
					continue
				}
			}
			kept = append(kept, raw)
		}
		out[i].Browsers = kept
	}
	for _, a := range c.Additions {
		i := out.Index(a.Construct)
		if i < 0 {
			out = append(out, datasource.PrefixEntry{Name: a.Construct})
			i = len(out) - 1
		}
		out[i].Browsers = append(out[i].Browsers, a.Rows...)
	}
	return out
}

func (c Corrections) overridePrefix(construct, prefix string) string {
	if m, ok := c.PrefixOverrides[construct]; ok {
		if p, ok := m[prefix]; ok {
			return p
		}
	}
	return prefix
}
