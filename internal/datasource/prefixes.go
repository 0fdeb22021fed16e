package datasource

import (
	"encoding/json"
	"strings"
)

// PrefixEntry is one construct of the vendor-prefix table together with its
// "<browser> <version> [variant]" rows.
type PrefixEntry struct {
	Name     string
	Browsers []string
}

// PrefixTable keeps constructs in document order.
type PrefixTable []PrefixEntry

// Row is a decoded prefix table row.
type Row struct {
	Browser string
	Version string
	Variant string
}

// ParseRow splits "safari 3.1 2009" into its fields.
func ParseRow(s string) (Row, bool) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Row{}, false
	}
	r := Row{Browser: fields[0], Version: fields[1]}
	if len(fields) > 2 {
		r.Variant = fields[2]
	}
	return r, true
}

func (r Row) String() string {
	if r.Variant == "" {
		return r.Browser + " " + r.Version
	}
	return r.Browser + " " + r.Version + " " + r.Variant
}

// ParsePrefixTable decodes {"construct": {"browsers": [...]}, ...}.
func ParsePrefixTable(b []byte) (PrefixTable, error) {
	root, err := ParseNode(b)
	if err != nil {
		return nil, schemaErr("prefixes", "", "not an object: %v", err)
	}
	out := make(PrefixTable, 0, len(root.keys))
	for _, name := range root.keys {
		var entry struct {
			Browsers *[]string `json:"browsers"`
		}
		if err := json.Unmarshal(root.raw[name], &entry); err != nil {
			return nil, schemaErr("prefixes", name, "decode: %v", err)
		}
		if entry.Browsers == nil {
			return nil, schemaErr("prefixes", name, "missing browsers list")
		}
		out = append(out, PrefixEntry{Name: name, Browsers: *entry.Browsers})
	}
	return out, nil
}

// Index returns the position of name, or -1.
func (t PrefixTable) Index(name string) int {
	for i := range t {
		if t[i].Name == name {
			return i
		}
	}
	return -1
}

// Clone deep-copies the table so corrections never touch loaded data.
func (t PrefixTable) Clone() PrefixTable {
	out := make(PrefixTable, len(t))
	for i, e := range t {
		out[i] = PrefixEntry{Name: e.Name, Browsers: append([]string(nil), e.Browsers...)}
	}
	return out
}
