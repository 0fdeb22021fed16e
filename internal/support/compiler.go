// Package support computes, per feature, the first version of each browser
// with unconditional support.
package support

import (
	"sort"
	"strings"

	"compatgen/internal/browser"
	"compatgen/internal/datasource"
	"compatgen/internal/dedup"
	"compatgen/internal/logging"
	"compatgen/internal/targets"
	"compatgen/internal/version"
)

// Result is the compiled compatibility table.
type Result struct {
	Groups []dedup.Group[targets.CompatPredicate]
}

// Names lists every feature across groups.
func (r *Result) Names() []string {
	var out []string
	for _, g := range r.Groups {
		out = append(out, g.Names...)
	}
	return out
}

// Compiler turns caniuse and browser-compat-data records into
// CompatPredicates.
type Compiler struct {
	Codec    *version.Codec
	Caniuse  browser.Normalizer
	MDN      browser.Normalizer
	Browsers browser.Set
	Tables   Tables
	Logger   *logging.Logger
}

// CaniuseName is the feature name a caniuse id is published under.
func (t Tables) CaniuseName(id string) string {
	if name, ok := t.CaniuseNames[id]; ok {
		return name
	}
	return strings.TrimPrefix(id, "css-")
}

// Compile builds the table in a fixed order: caniuse features, the
// literals following them, MDN features, then the trailing literals.
func (c *Compiler) Compile(ciu *datasource.Caniuse, bcd *datasource.Node) (*Result, error) {
	if c.Logger == nil {
		c.Logger = logging.Discard()
	}
	set := dedup.New[targets.CompatPredicate]()

	for _, id := range c.Tables.CaniuseFeatures {
		stats, err := ciu.FeatureStats(id)
		if err != nil {
			return nil, err
		}
		if err := set.Add(c.Tables.CaniuseName(id), c.fromCaniuse(id, stats)); err != nil {
			return nil, err
		}
	}
	if err := addLiterals(set, c.Tables.AfterCaniuse); err != nil {
		return nil, err
	}

	features, err := c.Tables.mdnFeatures(bcd)
	if err != nil {
		return nil, err
	}
	for _, f := range features.items {
		if err := set.Add(f.name, c.fromMDN(f.name, f.support)); err != nil {
			return nil, err
		}
	}
	if err := addLiterals(set, c.Tables.Trailing); err != nil {
		return nil, err
	}
	return &Result{Groups: set.Groups()}, nil
}

func addLiterals(set *dedup.Set[targets.CompatPredicate], lits []Literal) error {
	for _, l := range lits {
		m := make(map[browser.Browser]version.Version, len(l.Min))
		for b, v := range l.Min {
			m[browser.Browser(b)] = v
		}
		if err := set.Add(l.Name, targets.NewCompatPredicate(m)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) resolve(n browser.Normalizer, feature, id string) (browser.Browser, bool) {
	b, ok := n.Canonical(id)
	if !ok {
		return "", false
	}
	if !c.Browsers.Contains(b) {
		c.Logger.Debug("browser outside canonical set", "feature", feature, "browser", id)
		return "", false
	}
	return b, true
}

// fromCaniuse takes, per browser, the lowest version whose code is exactly
// "y" after overrides. Partial ("a"), prefixed ("x") and annotated codes do
// not count.
func (c *Compiler) fromCaniuse(id string, stats map[string]map[string]string) targets.CompatPredicate {
	overrides := c.Tables.CaniuseOverrides[id]
	mins := make(map[browser.Browser]version.Version)
	for _, agent := range sortedKeys(stats) {
		b, ok := c.resolve(c.Caniuse, id, agent)
		if !ok {
			continue
		}
		codes := stats[agent]
		for _, raw := range sortedKeys(codes) {
			code := codes[raw]
			if repl, ok := overrides[string(b)][code]; ok {
				code = repl
			}
			if code != "y" {
				continue
			}
			v, ok := c.Codec.Parse(id, string(b), raw)
			if !ok {
				continue
			}
			if cur, seen := mins[b]; !seen || v < cur {
				mins[b] = v
			}
		}
	}
	return targets.NewCompatPredicate(mins)
}

// fromMDN takes, per browser key, the earliest version_added among
// statements that are neither prefixed, flagged nor alternative names.
// When several keys map to one browser the latest of their minimums wins.
func (c *Compiler) fromMDN(name string, s datasource.Support) targets.CompatPredicate {
	mins := make(map[browser.Browser]version.Version)
	for _, e := range s {
		b, ok := c.resolve(c.MDN, name, e.Browser)
		if !ok {
			continue
		}
		v, ok := c.earliest(name, b, e)
		if !ok {
			continue
		}
		if cur, seen := mins[b]; !seen || v > cur {
			mins[b] = v
		}
	}
	return targets.NewCompatPredicate(mins)
}

func (c *Compiler) earliest(name string, b browser.Browser, e datasource.SupportEntry) (version.Version, bool) {
	var (
		best  version.Version
		found bool
	)
	for _, st := range e.Statements {
		if !st.Plain() {
			continue
		}
		raw, ok := st.Added()
		if !ok {
			continue
		}
		v, ok := c.Codec.Parse(name, string(b), raw)
		if !ok {
			continue
		}
		if !found || v < best {
			best, found = v, true
		}
	}
	return best, found
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
