package emit

const header = "// Code generated by compatgen. DO NOT EDIT.\n"

const targetsTmpl = header + `
package {{.Package}}

// Browsers holds the oldest targeted version of each browser, encoded as
// major<<16 | minor<<8 | patch. A nil field means the browser is not
// targeted.
type Browsers struct {
{{- range .Browsers}}
	{{.Field}} *uint32 ` + "`json:\"{{.JSON}},omitempty\"`" + `
{{- end}}
}

// split returns one single-browser target set per targeted browser.
func (b Browsers) split() []Browsers {
	var out []Browsers
{{- range .Browsers}}
	if b.{{.Field}} != nil {
		out = append(out, Browsers{ {{- .Field}}: b.{{.Field}}})
	}
{{- end}}
	return out
}

// Features is a bit set of syntax every target handles natively.
type Features uint32

const (
{{- range .Flags}}
{{- if lt .Bit 0}}
	Flag{{.Name}} Features = {{range $i, $d := .Of}}{{if $i}} | {{end}}Flag{{$d}}{{end}}
{{- else}}
	Flag{{.Name}} Features = 1 << {{.Bit}}
{{- end}}
{{- end}}
)

// VendorPrefix is a bit set of vendor prefixes.
type VendorPrefix uint8

const (
	VendorPrefixNone VendorPrefix = 0
{{- range .Markers}}
	VendorPrefix{{.Name}} VendorPrefix = {{printf "%d" .Value}}
{{- end}}
)
`

const prefixesTmpl = header + `
package {{.Package}}

// PrefixFeature is a construct that may need vendor prefixes.
type PrefixFeature int

const (
{{- range $i, $id := .PrefixEnum}}
	{{$id}}{{if eq $i 0}} PrefixFeature = iota{{end}}
{{- end}}
)

// PrefixesFor returns the vendor prefixes f needs so every browser in
// browsers understands it.
func (f PrefixFeature) PrefixesFor(browsers Browsers) VendorPrefix {
	prefixes := VendorPrefixNone
	switch f {
{{- range .PrefixArms}}
	case {{join .Cases ", "}}:
{{- range .Browsers}}
		if browsers.{{.Field}} != nil {
{{- if .NeedsVersion}}
			version := *browsers.{{.Field}}
{{- end}}
{{- range .Checks}}
{{- if .Cond}}
			if {{.Cond}} {
				prefixes |= VendorPrefix{{.Marker}}
			}
{{- else}}
			prefixes |= VendorPrefix{{.Marker}}
{{- end}}
{{- end}}
		}
{{- end}}
{{- end}}
	}
	return prefixes
}

// IsFlex2009 reports whether a target still needs the 2009 flexbox syntax.
func IsFlex2009(browsers Browsers) bool {
{{- range .Flex2009}}
	if browsers.{{.Field}} != nil && *browsers.{{.Field}} >= {{.Min}} && *browsers.{{.Field}} <= {{.Max}} {
		return true
	}
{{- end}}
	return false
}

// IsWebkitGradient reports whether a target still needs -webkit-gradient().
func IsWebkitGradient(browsers Browsers) bool {
{{- range .OldGradient}}
	if browsers.{{.Field}} != nil && *browsers.{{.Field}} >= {{.Min}} && *browsers.{{.Field}} <= {{.Max}} {
		return true
	}
{{- end}}
	return false
}
`

const compatTmpl = header + `
package {{.Package}}

// Feature is a piece of syntax with known browser support.
type Feature int

const (
{{- range $i, $id := .CompatEnum}}
	{{$id}}{{if eq $i 0}} Feature = iota{{end}}
{{- end}}
)

// IsCompatible reports whether every browser in browsers supports f.
// A targeted browser without support data makes f incompatible.
func (f Feature) IsCompatible(browsers Browsers) bool {
	switch f {
{{- range .CompatArms}}
	case {{join .Cases ", "}}:
{{- if .Never}}
		return false
{{- else}}
{{- range .Checks}}
{{- if .Missing}}
		if browsers.{{.Field}} != nil {
			return false
		}
{{- else}}
		if browsers.{{.Field}} != nil && *browsers.{{.Field}} < {{.Min}} {
			return false
		}
{{- end}}
{{- end}}
		return true
{{- end}}
{{- end}}
	}
	return false
}

// IsPartiallyCompatible reports whether at least one browser in browsers
// supports f.
func (f Feature) IsPartiallyCompatible(browsers Browsers) bool {
	for _, b := range browsers.split() {
		if f.IsCompatible(b) {
			return true
		}
	}
	return false
}
`

const targetsDTSTmpl = header + `
export interface Targets {
{{- range .Browsers}}
  {{.JSON}}?: number,
{{- end}}
}

export const Features: {
{{- range .Flags}}
  {{.Name}}: {{.Value}},
{{- end}}
};
`

const flagsJSTmpl = header + `
exports.Features = {
{{- range .Flags}}
  {{.Name}}: {{.Value}},
{{- end}}
};
`
