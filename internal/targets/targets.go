// Package targets evaluates compiled prefix and compatibility predicates
// against a set of target browsers. Generated lookup code mirrors these
// semantics one to one.
package targets

import (
	"sort"

	"compatgen/internal/browser"
	"compatgen/internal/version"
)

// Browsers maps each targeted browser to its minimum version. Browsers that
// are not targeted are absent.
type Browsers map[browser.Browser]version.Version

// Sorted returns the targeted browsers in canonical order.
func (b Browsers) Sorted() []browser.Browser {
	out := make([]browser.Browser, 0, len(b))
	for k := range b {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Interval is an inclusive version range. A nil bound is unresolved and
// matches everything on that side.
type Interval struct {
	Min *version.Version `json:"min"`
	Max *version.Version `json:"max"`
}

func Ptr(v version.Version) *version.Version { return &v }

// Closed builds [min, max].
func Closed(lo, hi version.Version) Interval { return Interval{Min: Ptr(lo), Max: Ptr(hi)} }

// Unconditional reports whether both bounds are unresolved.
func (i Interval) Unconditional() bool { return i.Min == nil && i.Max == nil }

func (i Interval) Contains(v version.Version) bool {
	if i.Min != nil && v < *i.Min {
		return false
	}
	if i.Max != nil && v > *i.Max {
		return false
	}
	return true
}

// VendorPrefix is a bit set of vendor prefix markers.
type VendorPrefix uint8

const (
	PrefixNone   VendorPrefix = 0
	PrefixWebKit VendorPrefix = 1
	PrefixMoz    VendorPrefix = 2
	PrefixMs     VendorPrefix = 4
	PrefixO      VendorPrefix = 8
)

// Markers maps dataset prefix names to marker names and bits, in emission
// order.
var Markers = []struct {
	Prefix string
	Name   string
	Bit    VendorPrefix
}{
	{"webkit", "WebKit", PrefixWebKit},
	{"moz", "Moz", PrefixMoz},
	{"ms", "Ms", PrefixMs},
	{"o", "O", PrefixO},
}

// Marker resolves a dataset prefix such as "webkit".
func Marker(prefix string) (VendorPrefix, string, bool) {
	for _, m := range Markers {
		if m.Prefix == prefix {
			return m.Bit, m.Name, true
		}
	}
	return PrefixNone, "", false
}

// PrefixRange says prefix is required while the target version lies in
// Interval.
type PrefixRange struct {
	Prefix   string   `json:"prefix"`
	Interval Interval `json:"interval"`
}

// BrowserPrefixes holds the prefix ranges of one browser.
type BrowserPrefixes struct {
	Browser  browser.Browser `json:"browser"`
	Prefixes []PrefixRange   `json:"prefixes"`
}

// NeedsVersion is false when every range is unconditional, in which case
// only the presence of the browser matters.
func (b BrowserPrefixes) NeedsVersion() bool {
	for _, p := range b.Prefixes {
		if !p.Interval.Unconditional() {
			return true
		}
	}
	return false
}

// PrefixPredicate is the compiled prefix data of one construct.
type PrefixPredicate []BrowserPrefixes

// PrefixesFor returns the prefixes the targets need.
func (p PrefixPredicate) PrefixesFor(t Browsers) VendorPrefix {
	out := PrefixNone
	for _, bp := range p {
		v, ok := t[bp.Browser]
		if !ok {
			continue
		}
		for _, r := range bp.Prefixes {
			if !r.Interval.Contains(v) {
				continue
			}
			if bit, _, ok := Marker(r.Prefix); ok {
				out |= bit
			}
		}
	}
	return out
}

// BrowserRange is a closed range for one browser.
type BrowserRange struct {
	Browser browser.Browser `json:"browser"`
	Min     version.Version `json:"min"`
	Max     version.Version `json:"max"`
}

// LegacyRanges tracks where a legacy syntax variant applies.
type LegacyRanges []BrowserRange

// Matches reports whether any targeted browser falls inside its range.
func (r LegacyRanges) Matches(t Browsers) bool {
	for _, br := range r {
		if v, ok := t[br.Browser]; ok && v >= br.Min && v <= br.Max {
			return true
		}
	}
	return false
}

// MinVersion is the first version of a browser with unconditional support.
type MinVersion struct {
	Browser browser.Browser `json:"browser"`
	Min     version.Version `json:"min"`
}

// CompatPredicate lists minimum versions sorted by browser. An empty
// predicate means the feature is never supported.
type CompatPredicate []MinVersion

func (p CompatPredicate) Lookup(b browser.Browser) (version.Version, bool) {
	for _, m := range p {
		if m.Browser == b {
			return m.Min, true
		}
	}
	return 0, false
}

// IsCompatible fails closed: a targeted browser without data makes the
// feature incompatible.
func (p CompatPredicate) IsCompatible(t Browsers) bool {
	if len(p) == 0 {
		return false
	}
	for b, v := range t {
		floor, ok := p.Lookup(b)
		if !ok || v < floor {
			return false
		}
	}
	return true
}

// IsPartiallyCompatible reports whether at least one targeted browser
// supports the feature on its own.
func (p CompatPredicate) IsPartiallyCompatible(t Browsers) bool {
	for _, b := range t.Sorted() {
		if p.IsCompatible(Browsers{b: t[b]}) {
			return true
		}
	}
	return false
}

// NewCompatPredicate builds a sorted predicate from a browser → min map.
func NewCompatPredicate(m map[browser.Browser]version.Version) CompatPredicate {
	out := make(CompatPredicate, 0, len(m))
	for b, v := range m {
		out = append(out, MinVersion{Browser: b, Min: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Browser < out[j].Browser })
	return out
}
