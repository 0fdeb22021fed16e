package emit

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"compatgen/internal/browser"
	"compatgen/internal/flags"
	"compatgen/internal/prefix"
	"compatgen/internal/support"
	"compatgen/internal/targets"
	"compatgen/internal/version"
)

var ErrIdentifierClash = errors.New("generated identifiers clash")

// Input is everything the emitters render.
type Input struct {
	Package  string
	Browsers browser.Set
	Flags    *flags.Table
	Prefixes *prefix.Result
	Compat   *support.Result
}

type browserField struct {
	Field string
	JSON  string
}

type markerView struct {
	Name  string
	Value targets.VendorPrefix
}

type flagView struct {
	Name  string
	Value uint32
	Bit   int
	Of    []string
}

type prefixCheck struct {
	Marker string
	Cond   string
}

type prefixBrowser struct {
	Field        string
	NeedsVersion bool
	Checks       []prefixCheck
}

type prefixArm struct {
	Cases    []string
	Browsers []prefixBrowser
}

type legacyView struct {
	Field string
	Min   string
	Max   string
}

type compatCheck struct {
	Field   string
	Min     string
	Missing bool
}

type compatArm struct {
	Cases  []string
	Never  bool
	Checks []compatCheck
}

type model struct {
	Package     string
	Browsers    []browserField
	Markers     []markerView
	Flags       []flagView
	PrefixEnum  []string
	PrefixArms  []prefixArm
	Flex2009    []legacyView
	OldGradient []legacyView
	CompatEnum  []string
	CompatArms  []compatArm
}

func hex(v version.Version) string { return fmt.Sprintf("0x%06x", uint32(v)) }

func buildModel(in Input) (*model, error) {
	m := &model{Package: in.Package}
	fields := make(map[browser.Browser]string, len(in.Browsers))
	for _, b := range in.Browsers {
		f := b.Ident()
		fields[b] = f
		m.Browsers = append(m.Browsers, browserField{Field: f, JSON: string(b)})
	}
	for _, mk := range targets.Markers {
		m.Markers = append(m.Markers, markerView{Name: mk.Name, Value: mk.Bit})
	}
	if in.Flags != nil {
		for _, f := range in.Flags.Flags {
			m.Flags = append(m.Flags, flagView{Name: f.Name, Value: f.Value, Bit: f.Bit, Of: f.Of})
		}
	}

	if in.Prefixes != nil {
		idents := newIdentSet("Prefix")
		for _, g := range in.Prefixes.Groups {
			arm := prefixArm{}
			for _, n := range g.Names {
				id, err := idents.add(n)
				if err != nil {
					return nil, err
				}
				arm.Cases = append(arm.Cases, id)
			}
			for _, bp := range g.Predicate {
				field, ok := fields[bp.Browser]
				if !ok {
					continue
				}
				pb := prefixBrowser{Field: field, NeedsVersion: bp.NeedsVersion()}
				for _, r := range bp.Prefixes {
					_, name, _ := targets.Marker(r.Prefix)
					pb.Checks = append(pb.Checks, prefixCheck{Marker: name, Cond: intervalCond(r.Interval)})
				}
				arm.Browsers = append(arm.Browsers, pb)
			}
			m.PrefixArms = append(m.PrefixArms, arm)
		}
		m.PrefixEnum = idents.sorted()
		m.Flex2009 = legacyViews(in.Prefixes.Flex2009, fields)
		m.OldGradient = legacyViews(in.Prefixes.OldGradient, fields)
	}

	if in.Compat != nil {
		idents := newIdentSet("Feature")
		for _, g := range in.Compat.Groups {
			arm := compatArm{Never: len(g.Predicate) == 0}
			for _, n := range g.Names {
				id, err := idents.add(n)
				if err != nil {
					return nil, err
				}
				arm.Cases = append(arm.Cases, id)
			}
			if !arm.Never {
				for _, b := range in.Browsers {
					c := compatCheck{Field: fields[b]}
					if floor, ok := g.Predicate.Lookup(b); ok {
						c.Min = hex(floor)
					} else {
						c.Missing = true
					}
					arm.Checks = append(arm.Checks, c)
				}
			}
			m.CompatArms = append(m.CompatArms, arm)
		}
		m.CompatEnum = idents.sorted()
	}
	return m, nil
}

// intervalCond renders the version test of an interval; "" means the
// prefix applies whenever the browser is targeted.
func intervalCond(iv targets.Interval) string {
	var parts []string
	if iv.Min != nil {
		parts = append(parts, "version >= "+hex(*iv.Min))
	}
	if iv.Max != nil {
		parts = append(parts, "version <= "+hex(*iv.Max))
	}
	return strings.Join(parts, " && ")
}

func legacyViews(r targets.LegacyRanges, fields map[browser.Browser]string) []legacyView {
	out := make([]legacyView, 0, len(r))
	for _, br := range r {
		field, ok := fields[br.Browser]
		if !ok {
			continue
		}
		out = append(out, legacyView{Field: field, Min: hex(br.Min), Max: hex(br.Max)})
	}
	return out
}

type identSet struct {
	prefix string
	byID   map[string]string
}

func newIdentSet(prefix string) *identSet {
	return &identSet{prefix: prefix, byID: make(map[string]string)}
}

func (s *identSet) add(name string) (string, error) {
	id := s.prefix + Enumify(name)
	if prev, ok := s.byID[id]; ok {
		return "", fmt.Errorf("%w: %q and %q both become %s", ErrIdentifierClash, prev, name, id)
	}
	s.byID[id] = name
	return id, nil
}

func (s *identSet) sorted() []string {
	out := make([]string, 0, len(s.byID))
	for id := range s.byID {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
