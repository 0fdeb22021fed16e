// Package browser maps each dataset's browser vocabulary onto one canonical
// set of browser ids.
package browser

import (
	"sort"
	"strings"
)

// Browser is a canonical browser id such as "chrome" or "ios_saf".
type Browser string

// Normalizer resolves a dataset-specific browser id. ok is false when the
// id has no canonical equivalent and must be dropped.
type Normalizer interface {
	Canonical(sourceID string) (Browser, bool)
}

// Mapping is a per-source table. An empty value marks an id that is
// explicitly untracked; ids not present pass through unchanged.
type Mapping map[string]string

func (m Mapping) Canonical(sourceID string) (Browser, bool) {
	id := strings.TrimSpace(sourceID)
	if id == "" {
		return "", false
	}
	mapped, listed := m[id]
	if !listed {
		return Browser(id), true
	}
	if mapped == "" {
		return "", false
	}
	return Browser(mapped), true
}

// Listed reports whether id appears in the table at all, mapped or dropped.
func (m Mapping) Listed(id string) bool {
	_, ok := m[id]
	return ok
}

// Caniuse covers the caniuse agents vocabulary.
var Caniuse = Mapping{
	"and_chr": "chrome",
	"and_ff":  "firefox",
	"ie_mob":  "ie",
	"op_mob":  "opera",
	"and_qq":  "",
	"and_uc":  "",
	"baidu":   "",
	"bb":      "",
	"kaios":   "",
	"op_mini": "",
	"oculus":  "",
}

// Prefixes covers the vendor-prefix table, which reuses caniuse agent ids.
var Prefixes = Caniuse

// MDN covers browser-compat-data support keys.
var MDN = Mapping{
	"chrome_android":          "chrome",
	"firefox_android":         "firefox",
	"opera_android":           "opera",
	"safari_ios":              "ios_saf",
	"webview_ios":             "ios_saf",
	"samsunginternet_android": "samsung",
	"webview_android":         "android",
	"oculus":                  "",
	"deno":                    "",
	"nodejs":                  "",
}

// Set is the sorted canonical enumeration.
type Set []Browser

// CanonicalSet derives the enumeration from agent ids: every agent not
// listed in the caniuse mapping table, sorted.
func CanonicalSet(agentIDs []string) Set {
	out := make(Set, 0, len(agentIDs))
	for _, id := range agentIDs {
		if Caniuse.Listed(id) {
			continue
		}
		out = append(out, Browser(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s Set) Contains(b Browser) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= b })
	return i < len(s) && s[i] == b
}

// Resolve normalizes id with n and additionally drops browsers outside s.
func (s Set) Resolve(n Normalizer, id string) (Browser, bool) {
	b, ok := n.Canonical(id)
	if !ok || !s.Contains(b) {
		return "", false
	}
	return b, true
}

// Ident turns "ios_saf" into "IosSaf" for generated identifiers.
func (b Browser) Ident() string {
	var sb strings.Builder
	upper := true
	for _, r := range string(b) {
		if r == '_' || r == '-' {
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		upper = false
		sb.WriteRune(r)
	}
	return sb.String()
}
