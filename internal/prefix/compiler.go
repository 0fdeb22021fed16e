// Package prefix compiles the vendor-prefix table into per-browser version
// intervals describing when each prefix is required.
package prefix

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"compatgen/internal/browser"
	"compatgen/internal/datasource"
	"compatgen/internal/dedup"
	"compatgen/internal/logging"
	"compatgen/internal/targets"
	"compatgen/internal/version"
)

var ErrUnknownPrefix = errors.New("prefix has no vendor marker")

const (
	variantFlex2009    = "2009"
	variantOldGradient = "old"
)

// Result is the compiled prefix table.
type Result struct {
	Groups      []dedup.Group[targets.PrefixPredicate]
	Flex2009    targets.LegacyRanges
	OldGradient targets.LegacyRanges
}

// Names lists every construct across groups.
func (r *Result) Names() []string {
	var out []string
	for _, g := range r.Groups {
		out = append(out, g.Names...)
	}
	return out
}

// Compiler turns prefix rows into PrefixPredicates.
type Compiler struct {
	Codec       *version.Codec
	Normalizer  browser.Normalizer
	Browsers    browser.Set
	Agents      map[string]datasource.Agent
	Latest      map[string]string
	Corrections Corrections
	Logger      *logging.Logger
}

// Compile applies corrections, compiles every construct in table order and
// groups identical predicates.
func (c *Compiler) Compile(table datasource.PrefixTable) (*Result, error) {
	if c.Logger == nil {
		c.Logger = logging.Discard()
	}
	table = c.Corrections.Apply(table)

	set := dedup.New[targets.PrefixPredicate]()
	flex := newLegacyAcc()
	gradient := newLegacyAcc()
	for _, entry := range table {
		pred, err := c.compileConstruct(entry, flex, gradient)
		if err != nil {
			return nil, err
		}
		if err := set.Add(entry.Name, pred); err != nil {
			return nil, err
		}
	}
	return &Result{
		Groups:      set.Groups(),
		Flex2009:    flex.ranges(),
		OldGradient: gradient.ranges(),
	}, nil
}

type rangeAcc struct {
	prefix   string
	interval targets.Interval
}

type browserAcc struct {
	browser  browser.Browser
	prefixes []*rangeAcc
}

func (b *browserAcc) find(prefix string) *rangeAcc {
	for _, r := range b.prefixes {
		if r.prefix == prefix {
			return r
		}
	}
	return nil
}

type resolvedRow struct {
	row       datasource.Row
	canonical browser.Browser
}

func (c *Compiler) compileConstruct(entry datasource.PrefixEntry, flex, gradient *legacyAcc) (targets.PrefixPredicate, error) {
	rows := make([]resolvedRow, 0, len(entry.Browsers))
	counts := make(map[browser.Browser]int)
	for _, raw := range entry.Browsers {
		row, ok := datasource.ParseRow(raw)
		if !ok {
			c.Logger.Warn("malformed prefix row", "construct", entry.Name, "row", raw)
			continue
		}
		canonical, ok := c.Normalizer.Canonical(row.Browser)
		if !ok {
			continue
		}
		counts[canonical]++
		rows = append(rows, resolvedRow{row: row, canonical: canonical})
	}

	var accs []*browserAcc
	byBrowser := make(map[browser.Browser]*browserAcc)
	for _, rr := range rows {
		row := rr.row
		if !c.Browsers.Contains(rr.canonical) {
			c.Logger.Debug("browser outside canonical set", "construct", entry.Name, "browser", rr.canonical)
			continue
		}
		agent, ok := c.Agents[row.Browser]
		if !ok {
			return nil, &datasource.SchemaError{Source: "caniuse", Path: "agents." + row.Browser, Reason: "no agent for prefix row of " + entry.Name}
		}
		prefix := c.Corrections.overridePrefix(entry.Name, agent.PrefixFor(row.Version))
		if _, _, ok := targets.Marker(prefix); !ok {
			return nil, fmt.Errorf("%w: %q (%s, %s)", ErrUnknownPrefix, prefix, entry.Name, row.Browser)
		}
		isCurrent := row.Version == c.Latest[row.Browser]
		v, ok := c.Codec.Parse(entry.Name, string(rr.canonical), row.Version)
		if !ok {
			continue
		}

		b := byBrowser[rr.canonical]
		if b == nil {
			b = &browserAcc{browser: rr.canonical}
			byBrowser[rr.canonical] = b
			accs = append(accs, b)
		}
		if r := b.find(prefix); r == nil {
			b.prefixes = append(b.prefixes, &rangeAcc{prefix: prefix, interval: firstInterval(v, isCurrent, counts[rr.canonical] == 1)})
		} else {
			widen(&r.interval, v, isCurrent)
		}

		switch {
		case row.Variant == variantFlex2009:
			flex.observe(rr.canonical, v)
		case row.Variant == variantOldGradient && strings.Contains(entry.Name, "gradient"):
			gradient.observe(rr.canonical, v)
		}
	}
	return buildPredicate(accs), nil
}

// firstInterval seeds the interval of a (browser, prefix) pair. A browser
// with a single row cannot show a trend: at the current release the prefix
// is unconditional, otherwise it is required up to that one version.
func firstInterval(v version.Version, isCurrent, single bool) targets.Interval {
	switch {
	case single && isCurrent:
		return targets.Interval{}
	case single:
		return targets.Interval{Max: targets.Ptr(v)}
	case isCurrent:
		return targets.Interval{Min: targets.Ptr(v)}
	default:
		return targets.Closed(v, v)
	}
}

// widen folds another observation into iv. Reaching the current release
// opens the upper bound for good.
func widen(iv *targets.Interval, v version.Version, isCurrent bool) {
	if iv.Min != nil && v < *iv.Min {
		iv.Min = targets.Ptr(v)
	}
	if isCurrent && iv.Min != nil {
		iv.Max = nil
	} else if iv.Max != nil && v > *iv.Max {
		iv.Max = targets.Ptr(v)
	}
}

func buildPredicate(accs []*browserAcc) targets.PrefixPredicate {
	out := make(targets.PrefixPredicate, 0, len(accs))
	for _, b := range accs {
		bp := targets.BrowserPrefixes{Browser: b.browser}
		for _, r := range b.prefixes {
			bp.Prefixes = append(bp.Prefixes, targets.PrefixRange{Prefix: r.prefix, Interval: r.interval})
		}
		sort.Slice(bp.Prefixes, func(i, j int) bool { return bp.Prefixes[i].Prefix < bp.Prefixes[j].Prefix })
		out = append(out, bp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Browser < out[j].Browser })
	return out
}

type legacyAcc struct {
	order []browser.Browser
	byKey map[browser.Browser]*targets.BrowserRange
}

func newLegacyAcc() *legacyAcc {
	return &legacyAcc{byKey: make(map[browser.Browser]*targets.BrowserRange)}
}

func (a *legacyAcc) observe(b browser.Browser, v version.Version) {
	r, ok := a.byKey[b]
	if !ok {
		a.byKey[b] = &targets.BrowserRange{Browser: b, Min: v, Max: v}
		a.order = append(a.order, b)
		return
	}
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}

func (a *legacyAcc) ranges() targets.LegacyRanges {
	out := make(targets.LegacyRanges, 0, len(a.order))
	for _, b := range a.order {
		out = append(out, *a.byKey[b])
	}
	return out
}
