package support

import (
	"strings"

	"compatgen/internal/datasource"
)

type feature struct {
	name    string
	support datasource.Support
}

// featureList keeps MDN features in insertion order. Re-adding a name
// replaces its support in place.
type featureList struct {
	items []feature
	index map[string]int
}

func newFeatureList() *featureList {
	return &featureList{index: make(map[string]int)}
}

func (l *featureList) put(name string, s datasource.Support) {
	if i, ok := l.index[name]; ok {
		l.items[i].support = s
		return
	}
	l.index[name] = len(l.items)
	l.items = append(l.items, feature{name: name, support: s})
}

// merge sets one browser entry, creating the feature when needed.
func (l *featureList) merge(name string, e datasource.SupportEntry) {
	i, ok := l.index[name]
	if !ok {
		l.put(name, datasource.Support{e})
		return
	}
	l.items[i].support = l.items[i].support.Set(e)
}

// mdnFeatures resolves every curated path and generated family.
func (t Tables) mdnFeatures(root *datasource.Node) (*featureList, error) {
	out := newFeatureList()
	for _, p := range t.MDNPaths {
		var (
			s   datasource.Support
			err error
		)
		switch p.Name {
		case MediaIntervalSyntax:
			s, err = root.LookupSupport(rangeSyntaxPath)
			s = intervalSyntax(s)
		case AnyPseudo:
			s, err = root.LookupSupport(isSelectorPath)
			s = anyPseudo(s)
		default:
			s, err = root.LookupSupport(p.Path)
		}
		if err != nil {
			return nil, err
		}
		out.put(p.Name, s)
	}

	families := []struct {
		path string
		name func(key string, s datasource.Support) (string, bool)
	}{
		{lengthPath, lengthUnitName},
		{gradientPath, func(key string, _ datasource.Support) (string, bool) {
			return camel(key, "-"), true
		}},
		{listStylePath, t.listStyleName},
		{widthPath, widthName},
	}
	for _, f := range families {
		parent, err := root.Lookup(f.path)
		if err != nil {
			return nil, err
		}
		for _, key := range datasource.ChildKeys(parent) {
			child, err := parent.Child(key)
			if err != nil {
				return nil, err
			}
			s, err := datasource.CompatSupport(child)
			if err != nil {
				return nil, err
			}
			if name, ok := f.name(key, s); ok {
				out.put(name, s)
			}
		}
	}

	stretch, err := root.LookupSupport(widthPath + "." + stretchKey)
	if err != nil {
		return nil, err
	}
	for _, alt := range stretchAlternatives(stretch) {
		out.merge(alt.name, alt.entry)
	}
	return out, nil
}

// intervalSyntax drops partial implementations: Firefox shipped ranges
// before intervals.
func intervalSyntax(s datasource.Support) datasource.Support {
	return s.Map(func(e datasource.SupportEntry) (datasource.SupportEntry, bool) {
		kept := make([]datasource.Statement, 0, len(e.Statements))
		for _, st := range e.Statements {
			if !st.PartialImplementation {
				kept = append(kept, st)
			}
		}
		if !e.Array && len(kept) == 0 {
			return e, false
		}
		e.Statements = kept
		return e, true
	})
}

// anyPseudo keeps only the :-webkit-any() / :-moz-any() statements,
// renamed to the standard name so they count as plain support.
func anyPseudo(s datasource.Support) datasource.Support {
	return s.Map(func(e datasource.SupportEntry) (datasource.SupportEntry, bool) {
		var kept []datasource.Statement
		if e.Array {
			for _, st := range e.Statements {
				if strings.Contains(st.AlternativeName, "-any") {
					st.AlternativeName = ""
					kept = append(kept, st)
				}
			}
		}
		if len(kept) == 0 {
			return datasource.SupportEntry{Browser: e.Browser, Statements: []datasource.Statement{datasource.NotSupported}}, true
		}
		e.Statements = kept
		return e, true
	})
}

// lengthUnitName maps "cap" to "capUnit" and "viewport_percentage_units_small"
// to "viewportPercentageUnitsSmall".
func lengthUnitName(key string, _ datasource.Support) (string, bool) {
	if strings.Contains(key, "_") {
		return camel(key, "_"), true
	}
	return key + "Unit", true
}

func (t Tables) listStyleName(key string, s datasource.Support) (string, bool) {
	for _, k := range t.NonStandardListStyleType {
		if k == key {
			return "", false
		}
	}
	if chrome, ok := s.Get("chrome"); ok && len(chrome.Statements) > 0 && chrome.Statements[0].Removed() {
		return "", false
	}
	return pascal(camel(key, "-")) + "ListStyleType", true
}

func widthName(key string, _ datasource.Support) (string, bool) {
	if key == animatableKey {
		return "", false
	}
	return pascal(camel(key, "-_")) + "Size", true
}

type alternative struct {
	name  string
	entry datasource.SupportEntry
}

// stretchAlternatives turns alternative names of width: stretch, such as
// -webkit-fill-available, into features of their own.
func stretchAlternatives(s datasource.Support) []alternative {
	var out []alternative
	for _, e := range s {
		seen := make(map[string]bool)
		for _, st := range e.Statements {
			if st.AlternativeName == "" {
				continue
			}
			name := camel(strings.TrimPrefix(st.AlternativeName, "-"), "-_") + "Size"
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, alternative{
				name:  name,
				entry: datasource.SupportEntry{Browser: e.Browser, Statements: []datasource.Statement{{VersionAdded: st.VersionAdded}}},
			})
		}
	}
	return out
}

// camel uppercases every lowercase ASCII letter that follows one of seps
// and removes the separator.
func camel(s, seps string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(seps, c) >= 0 && i+1 < len(s) && s[i+1] >= 'a' && s[i+1] <= 'z' {
			sb.WriteByte(s[i+1] - 'a' + 'A')
			i++
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func pascal(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
