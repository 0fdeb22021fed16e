package emit

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compatgen/internal/artifact"
	"compatgen/internal/browser"
	"compatgen/internal/dedup"
	"compatgen/internal/flags"
	"compatgen/internal/prefix"
	"compatgen/internal/support"
	"compatgen/internal/targets"
	"compatgen/internal/version"
)

func v(s string) version.Version { return version.MustParse(s) }

func fixtureInput(t *testing.T) Input {
	t.Helper()
	table, err := flags.Assign(flags.DefaultDecls())
	require.NoError(t, err)

	webkitRadius := targets.PrefixPredicate{
		{Browser: "chrome", Prefixes: []targets.PrefixRange{{Prefix: "webkit", Interval: targets.Closed(v("4"), v("20"))}}},
		{Browser: "firefox", Prefixes: []targets.PrefixRange{{Prefix: "moz", Interval: targets.Interval{Max: targets.Ptr(v("3.6"))}}}},
	}
	placeholder := targets.PrefixPredicate{
		{Browser: "chrome", Prefixes: []targets.PrefixRange{{Prefix: "webkit", Interval: targets.Interval{Min: targets.Ptr(v("57"))}}}},
		{Browser: "safari", Prefixes: []targets.PrefixRange{{Prefix: "webkit", Interval: targets.Interval{}}}},
	}
	ps := dedup.New[targets.PrefixPredicate]()
	require.NoError(t, ps.Add("border-radius", webkitRadius))
	require.NoError(t, ps.Add("::placeholder", placeholder))
	require.NoError(t, ps.Add("@keyframes", webkitRadius))

	cs := dedup.New[targets.CompatPredicate]()
	require.NoError(t, cs.Add("clampFunction", targets.NewCompatPredicate(map[browser.Browser]version.Version{
		"chrome": v("79"), "firefox": v("75"), "safari": v("13.1"),
	})))
	require.NoError(t, cs.Add("custom-media-queries", targets.NewCompatPredicate(nil)))
	require.NoError(t, cs.Add("p3Colors", targets.NewCompatPredicate(map[browser.Browser]version.Version{
		"safari": v("10.1"), "ios_saf": v("10.3"),
	})))

	return Input{
		Package:  "compat",
		Browsers: browser.Set{"chrome", "firefox", "ios_saf", "safari"},
		Flags:    table,
		Prefixes: &prefix.Result{
			Groups:   ps.Groups(),
			Flex2009: targets.LegacyRanges{{Browser: "safari", Min: v("3.1"), Max: v("6")}},
		},
		Compat: &support.Result{Groups: cs.Groups()},
	}
}

func renderFormatted(t *testing.T, in Input) map[string]string {
	t.Helper()
	files, err := Render(in)
	require.NoError(t, err)
	out := make(map[string]string, len(files))
	for _, f := range files {
		content := f.Content
		if f.Go {
			content, err = Builtin{}.Format(context.Background(), f.Name, content)
			require.NoError(t, err, "%s:\n%s", f.Name, f.Content)
		}
		out[f.Name] = string(content)
	}
	return out
}

func TestRenderedGoTypeChecks(t *testing.T) {
	files := renderFormatted(t, fixtureInput(t))

	fset := token.NewFileSet()
	var parsed []*ast.File
	for _, name := range []string{"targets.go", "prefixes.go", "compat.go"} {
		f, err := parser.ParseFile(fset, name, files[name], parser.ParseComments)
		require.NoError(t, err, name)
		parsed = append(parsed, f)
	}
	_, err := (&types.Config{}).Check("compat", fset, parsed, nil)
	assert.NoError(t, err)
}

func TestRenderedTargets(t *testing.T) {
	src := renderFormatted(t, fixtureInput(t))["targets.go"]

	assert.Contains(t, src, "// Code generated by compatgen. DO NOT EDIT.")
	assert.Contains(t, src, "IosSaf  *uint32 `json:\"ios_saf,omitempty\"`")
	assert.Regexp(t, `FlagNesting\s+Features = 1 << 0\n`, src)
	assert.Regexp(t, `FlagSelectors\s+Features = FlagNesting \| FlagNotSelectorList \| FlagDirSelector \| FlagLangSelectorList \| FlagIsSelector\n`, src)
	assert.Regexp(t, `VendorPrefixWebKit\s+VendorPrefix = 1\n`, src)
	assert.Regexp(t, `VendorPrefixO\s+VendorPrefix = 8\n`, src)
}

func TestRenderedPrefixes(t *testing.T) {
	src := renderFormatted(t, fixtureInput(t))["prefixes.go"]

	assert.Contains(t, src, "PrefixAtKeyframes PrefixFeature = iota")
	assert.Contains(t, src, "case PrefixBorderRadius, PrefixAtKeyframes:")
	assert.Contains(t, src, "if version >= 0x040000 && version <= 0x140000 {")
	assert.Contains(t, src, "if version <= 0x030600 {")
	assert.Contains(t, src, "case PrefixPseudoElementPlaceholder:")
	assert.Contains(t, src, "if browsers.Safari != nil {\n\t\t\tprefixes |= VendorPrefixWebKit\n\t\t}")
	assert.Contains(t, src, "*browsers.Safari >= 0x030100 && *browsers.Safari <= 0x060000")
	assert.Equal(t, 3, strings.Count(src, "version := *browsers."), "only versioned browsers read the version")
}

func TestRenderedCompat(t *testing.T) {
	src := renderFormatted(t, fixtureInput(t))["compat.go"]

	assert.Contains(t, src, "FeatureClampFunction Feature = iota")
	assert.Contains(t, src, "case FeatureCustomMediaQueries:\n\t\treturn false")
	assert.Contains(t, src, "if browsers.Chrome != nil && *browsers.Chrome < 0x4f0000 {")
	assert.Contains(t, src, "if browsers.IosSaf != nil {\n\t\t\treturn false\n\t\t}", "clampFunction has no ios_saf data")
	assert.Contains(t, src, "if browsers.Safari != nil && *browsers.Safari < 0x0a0100 {")
}

func TestRenderedJavaScript(t *testing.T) {
	files := renderFormatted(t, fixtureInput(t))

	assert.Contains(t, files["targets.d.ts"], "  ios_saf?: number,")
	assert.Contains(t, files["targets.d.ts"], "export const Features: {\n  Nesting: 1,")
	assert.Contains(t, files["flags.js"], "exports.Features = {\n  Nesting: 1,")
	assert.Contains(t, files["flags.js"], "  Selectors: 31,")
	assert.NotContains(t, files["flags.js"], "export const")
}

func TestIdentifierClash(t *testing.T) {
	in := fixtureInput(t)
	cs := dedup.New[targets.CompatPredicate]()
	require.NoError(t, cs.Add("form-validation", targets.CompatPredicate{}))
	require.NoError(t, cs.Add("formValidation", targets.CompatPredicate{}))
	in.Compat = &support.Result{Groups: cs.Groups()}

	_, err := Render(in)
	assert.ErrorIs(t, err, ErrIdentifierClash)
}

func TestEnumify(t *testing.T) {
	for in, want := range map[string]string{
		"@keyframes":       "AtKeyframes",
		"::placeholder":    "PseudoElementPlaceholder",
		":fullscreen":      "PseudoClassFullscreen",
		"::-moz-selection": "MozSelection",
		"border-radius":    "BorderRadius",
		"p3Colors":         "P3Colors",
		"Selectors2":       "Selectors2",
		"css3-tabsize":     "Css3Tabsize",
		"grid-row-1":       "GridRow1",
	} {
		assert.Equal(t, want, Enumify(in), in)
	}
}

type failOn string

func (f failOn) Format(_ context.Context, name string, src []byte) ([]byte, error) {
	if name == string(f) {
		return nil, fmt.Errorf("%w: exit status 2", ErrFormat)
	}
	return src, nil
}

func TestEmitStoresEveryArtifact(t *testing.T) {
	store := artifact.NewMemoryStore()
	e := &Emitter{Store: store, Formatter: Builtin{}}
	written, err := e.Emit(context.Background(), fixtureInput(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"targets.go", "prefixes.go", "compat.go", "targets.d.ts", "flags.js"}, written)

	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, names, 5)
}

func TestEmitStopsOnFormatterFailure(t *testing.T) {
	store := artifact.NewMemoryStore()
	e := &Emitter{Store: store, Formatter: failOn("compat.go")}
	written, err := e.Emit(context.Background(), fixtureInput(t))
	require.True(t, errors.Is(err, ErrFormat))
	assert.Equal(t, []string{"targets.go", "prefixes.go"}, written)

	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"prefixes.go", "targets.go"}, names, "earlier artifacts stay")
}

func TestFormatters(t *testing.T) {
	f, err := NewFormatter("", "")
	require.NoError(t, err)
	assert.IsType(t, Gofmt{}, f)
	f, err = NewFormatter("builtin", "")
	require.NoError(t, err)
	assert.IsType(t, Builtin{}, f)
	_, err = NewFormatter("prettier", "")
	assert.Error(t, err)

	_, err = Builtin{}.Format(context.Background(), "x.go", []byte("package x\nfunc {"))
	assert.ErrorIs(t, err, ErrFormat)

	_, err = Gofmt{Path: "/nonexistent/gofmt"}.Format(context.Background(), "x.go", []byte("package x\n"))
	assert.ErrorIs(t, err, ErrFormat)
}
