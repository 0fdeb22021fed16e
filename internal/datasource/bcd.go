package datasource

import (
	"bytes"
	"encoding/json"
)

// Statement is one MDN support statement.
type Statement struct {
	VersionAdded          json.RawMessage   `json:"version_added,omitempty"`
	VersionRemoved        json.RawMessage   `json:"version_removed,omitempty"`
	Prefix                string            `json:"prefix,omitempty"`
	AlternativeName       string            `json:"alternative_name,omitempty"`
	Flags                 []json.RawMessage `json:"flags,omitempty"`
	PartialImplementation bool              `json:"partial_implementation,omitempty"`
}

// Added returns version_added when it is a string. true, false and null all
// mean there is no usable version.
func (s Statement) Added() (string, bool) {
	return rawString(s.VersionAdded)
}

// Removed reports whether version_removed carries a version or true.
func (s Statement) Removed() bool {
	if v, ok := rawString(s.VersionRemoved); ok && v != "" {
		return true
	}
	return bytes.Equal(bytes.TrimSpace(s.VersionRemoved), []byte("true"))
}

func (s Statement) Flagged() bool { return len(s.Flags) > 0 }

// Plain reports unconditional, unprefixed support under the standard name.
func (s Statement) Plain() bool {
	return s.AlternativeName == "" && s.Prefix == "" && !s.Flagged()
}

// WithAdded returns a statement carrying only version_added.
func WithAdded(version string) Statement {
	raw, _ := json.Marshal(version)
	return Statement{VersionAdded: raw}
}

// NotSupported is {"version_added": false}.
var NotSupported = Statement{VersionAdded: json.RawMessage("false")}

func rawString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// SupportEntry is the support data of one MDN browser key. Array is true when
// the dataset recorded a list of historical states rather than one
// statement.
type SupportEntry struct {
	Browser    string
	Array      bool
	Statements []Statement
}

// Support is the ordered content of a __compat.support object.
type Support []SupportEntry

// Get returns the entry for browser.
func (s Support) Get(browser string) (SupportEntry, bool) {
	for _, e := range s {
		if e.Browser == browser {
			return e, true
		}
	}
	return SupportEntry{}, false
}

// Set replaces or appends the entry for e.Browser.
func (s Support) Set(e SupportEntry) Support {
	for i := range s {
		if s[i].Browser == e.Browser {
			s[i] = e
			return s
		}
	}
	return append(s, e)
}

// Map applies fn to every entry, dropping entries for which fn returns false.
func (s Support) Map(fn func(SupportEntry) (SupportEntry, bool)) Support {
	out := make(Support, 0, len(s))
	for _, e := range s {
		if m, ok := fn(e); ok {
			out = append(out, m)
		}
	}
	return out
}

// CompatSupport decodes n.__compat.support.
func CompatSupport(n *Node) (Support, error) {
	compat, err := n.Child("__compat")
	if err != nil {
		return nil, err
	}
	support, err := compat.Child("support")
	if err != nil {
		return nil, err
	}
	out := make(Support, 0, len(support.keys))
	for _, browser := range support.keys {
		entry, err := decodeEntry(browser, support.raw[browser])
		if err != nil {
			return nil, schemaErr("bcd", support.join(browser), "%v", err)
		}
		out = append(out, entry)
	}
	return out, nil
}

// LookupSupport is Lookup followed by CompatSupport.
func (n *Node) LookupSupport(path string) (Support, error) {
	target, err := n.Lookup(path)
	if err != nil {
		return nil, err
	}
	return CompatSupport(target)
}

func decodeEntry(browser string, raw json.RawMessage) (SupportEntry, error) {
	raw = bytes.TrimSpace(raw)
	e := SupportEntry{Browser: browser}
	if len(raw) > 0 && raw[0] == '[' {
		e.Array = true
		if err := json.Unmarshal(raw, &e.Statements); err != nil {
			return e, err
		}
		return e, nil
	}
	var st Statement
	if err := json.Unmarshal(raw, &st); err != nil {
		return e, err
	}
	e.Statements = []Statement{st}
	return e, nil
}

// ChildKeys lists n's keys except the __compat metadata key.
func ChildKeys(n *Node, skip ...string) []string {
	out := make([]string, 0, len(n.keys))
	for _, k := range n.keys {
		if k == "__compat" || containsString(skip, k) {
			continue
		}
		out = append(out, k)
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
