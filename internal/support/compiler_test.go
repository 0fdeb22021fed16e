package support

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compatgen/internal/browser"
	"compatgen/internal/datasource"
	"compatgen/internal/targets"
	"compatgen/internal/version"
)

const bcdFixture = `{"css": {
  "at-rules": {"media": {"range_syntax": {"__compat": {"support": {
    "chrome": {"version_added": "104"},
    "firefox": [{"version_added": "102"}, {"version_added": "63", "partial_implementation": true}],
    "safari": {"version_added": "16.4", "partial_implementation": true}
  }}}}},
  "selectors": {"is": {"__compat": {"support": {
    "chrome": [{"version_added": "88"}, {"version_added": "12", "alternative_name": ":-webkit-any()"}],
    "firefox": [{"version_added": "78"}, {"version_added": "4", "alternative_name": ":-moz-any()"}],
    "safari": {"version_added": "14"}
  }}}},
  "types": {
    "clamp": {"__compat": {"support": {
      "chrome": {"version_added": "79"},
      "chrome_android": {"version_added": "80"},
      "firefox": [{"version_added": "75"}, {"version_added": "60", "flags": [{"type": "preference"}]}],
      "safari": {"version_added": "13.1"},
      "safari_ios": {"version_added": "≤13.4"},
      "edge": {"version_added": "preview"},
      "ie": {"version_added": false},
      "deno": {"version_added": "1.0"}
    }}},
    "length": {
      "__compat": {"support": {}},
      "cap": {"__compat": {"support": {"chrome": {"version_added": "118"}}}},
      "viewport_percentage_units_small": {"__compat": {"support": {"chrome": {"version_added": "108"}}}}
    },
    "gradient": {
      "__compat": {"support": {}},
      "linear-gradient": {"__compat": {"support": {"chrome": {"version_added": "26"}}}}
    }
  },
  "properties": {
    "list-style-type": {
      "__compat": {"support": {}},
      "lower-alpha": {"__compat": {"support": {"chrome": {"version_added": "1"}}}},
      "hangul": {"__compat": {"support": {"chrome": {"version_added": "1"}}}},
      "khmer": {"__compat": {"support": {"chrome": {"version_added": "1", "version_removed": "6"}}}}
    },
    "width": {
      "__compat": {"support": {}},
      "animatable": {"__compat": {"support": {"chrome": {"version_added": "1"}}}},
      "fit-content": {"__compat": {"support": {"chrome": {"version_added": "46"}}}},
      "stretch": {"__compat": {"support": {
        "chrome": [{"version_added": "138"}, {"version_added": "1", "alternative_name": "-webkit-fill-available"}],
        "firefox": {"version_added": "3", "alternative_name": "-moz-available"}
      }}}
    }
  }
}}`

func fixtureCaniuse() *datasource.Caniuse {
	stats := func(m map[string]map[string]string) datasource.Feature { return datasource.Feature{Stats: m} }
	return &datasource.Caniuse{Data: map[string]datasource.Feature{
		"css-sel2": stats(map[string]map[string]string{
			"chrome":  {"2": "a x", "4": "y", "TP": "n"},
			"and_chr": {"120": "y"},
			"op_mini": {"all": "y"},
			"safari":  {"3.1": "y"},
		}),
		"css-marker-pseudo": stats(map[string]map[string]string{
			"safari": {"11.1": "a #1", "14.1": "y #1", "17": "y"},
			"chrome": {"86": "y"},
		}),
		"form-validation": stats(map[string]map[string]string{
			"chrome": {"4": "y", "10": "y"},
			"safari": {"3.1": "y"},
		}),
	}}
}

func fixtureTables() Tables {
	t := DefaultTables()
	t.CaniuseFeatures = []string{"css-sel2", "css-marker-pseudo", "form-validation"}
	t.MDNPaths = []MDNPath{
		{"clampFunction", "css.types.clamp"},
		{MediaIntervalSyntax, ""},
		{AnyPseudo, ""},
	}
	return t
}

func newCompiler(t *testing.T, tables Tables) *Compiler {
	t.Helper()
	codec, err := version.NewCodec(64, nil)
	require.NoError(t, err)
	return &Compiler{
		Codec:    codec,
		Caniuse:  browser.Caniuse,
		MDN:      browser.MDN,
		Browsers: browser.Set{"android", "chrome", "edge", "firefox", "ie", "ios_saf", "opera", "safari", "samsung"},
		Tables:   tables,
	}
}

func compileFixture(t *testing.T) *Result {
	t.Helper()
	root, err := datasource.ParseNode([]byte(bcdFixture))
	require.NoError(t, err)
	res, err := newCompiler(t, fixtureTables()).Compile(fixtureCaniuse(), root)
	require.NoError(t, err)
	return res
}

func predicate(t *testing.T, res *Result, name string) targets.CompatPredicate {
	t.Helper()
	for _, g := range res.Groups {
		for _, n := range g.Names {
			if n == name {
				return g.Predicate
			}
		}
	}
	t.Fatalf("feature %s not compiled", name)
	return nil
}

func mins(t *testing.T, p targets.CompatPredicate) map[browser.Browser]string {
	t.Helper()
	out := make(map[browser.Browser]string, len(p))
	for _, m := range p {
		out[m.Browser] = m.Min.String()
	}
	return out
}

func TestCaniuseFeatures(t *testing.T) {
	res := compileFixture(t)

	assert.Equal(t, map[browser.Browser]string{"chrome": "4.0.0", "safari": "3.1.0"},
		mins(t, predicate(t, res, "Selectors2")))
	assert.Equal(t, map[browser.Browser]string{"chrome": "86.0.0", "safari": "14.1.0"},
		mins(t, predicate(t, res, "marker-pseudo")), "override turns y #1 into y")
}

func TestMDNSelection(t *testing.T) {
	res := compileFixture(t)

	assert.Equal(t, map[browser.Browser]string{
		"chrome":  "80.0.0",
		"firefox": "75.0.0",
		"safari":  "13.1.0",
		"ios_saf": "13.4.0",
	}, mins(t, predicate(t, res, "clampFunction")))

	assert.Equal(t, map[browser.Browser]string{"chrome": "104.0.0", "firefox": "102.0.0"},
		mins(t, predicate(t, res, MediaIntervalSyntax)))
	assert.Equal(t, map[browser.Browser]string{"chrome": "12.0.0", "firefox": "4.0.0"},
		mins(t, predicate(t, res, AnyPseudo)))
}

func TestPrefixedRecordsDoNotCount(t *testing.T) {
	node, err := datasource.ParseNode([]byte(`{"__compat": {"support": {
	  "chrome": [{"version_added": "113"}, {"version_added": "21", "prefix": "-webkit-"}],
	  "safari": {"version_added": "6", "prefix": "-webkit-"}
	}}}`))
	require.NoError(t, err)
	s, err := datasource.CompatSupport(node)
	require.NoError(t, err)

	pred := newCompiler(t, Tables{}).fromMDN("imageSet", s)
	assert.Equal(t, map[browser.Browser]string{"chrome": "113.0.0"}, mins(t, pred),
		"only unprefixed support sets the minimum")
}

func TestGeneratedFamilies(t *testing.T) {
	res := compileFixture(t)

	for name, want := range map[string]string{
		"capUnit":                      "118.0.0",
		"viewportPercentageUnitsSmall": "108.0.0",
		"linearGradient":               "26.0.0",
		"LowerAlphaListStyleType":      "1.0.0",
		"FitContentSize":               "46.0.0",
		"StretchSize":                  "138.0.0",
		"webkitFillAvailableSize":      "1.0.0",
	} {
		assert.Equal(t, map[browser.Browser]string{"chrome": want}, mins(t, predicate(t, res, name)), name)
	}
	assert.Equal(t, map[browser.Browser]string{"firefox": "3.0.0"}, mins(t, predicate(t, res, "mozAvailableSize")))

	names := res.Names()
	assert.NotContains(t, names, "HangulListStyleType")
	assert.NotContains(t, names, "KhmerListStyleType")
	assert.NotContains(t, names, "AnimatableSize")
}

func TestLiteralsAndGrouping(t *testing.T) {
	res := compileFixture(t)

	assert.Empty(t, predicate(t, res, "custom-media-queries"))
	assert.False(t, predicate(t, res, "custom-media-queries").IsCompatible(targets.Browsers{}))
	assert.Equal(t, map[browser.Browser]string{"safari": "10.1.0", "ios_saf": "10.3.0"},
		mins(t, predicate(t, res, "LangSelectorList")))

	var grouped [][]string
	for _, g := range res.Groups {
		if len(g.Names) > 1 {
			grouped = append(grouped, g.Names)
		}
	}
	assert.Equal(t, [][]string{
		{"Selectors2", "form-validation"},
		{"LowerAlphaListStyleType", "webkitFillAvailableSize"},
		{"p3Colors", "LangSelectorList"},
	}, grouped)
}

func TestCompileIsReproducible(t *testing.T) {
	assert.Equal(t, compileFixture(t).Groups, compileFixture(t).Groups)
}

func TestMissingPathIsSchemaError(t *testing.T) {
	root, err := datasource.ParseNode([]byte(bcdFixture))
	require.NoError(t, err)
	tables := fixtureTables()
	tables.MDNPaths = append(tables.MDNPaths, MDNPath{"nope", "css.types.nope"})

	_, err = newCompiler(t, tables).Compile(fixtureCaniuse(), root)
	var se *datasource.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "css.types.nope", se.Path)
}

func TestMissingCaniuseFeatureIsSchemaError(t *testing.T) {
	root, err := datasource.ParseNode([]byte(bcdFixture))
	require.NoError(t, err)
	tables := fixtureTables()
	tables.CaniuseFeatures = append(tables.CaniuseFeatures, "css-nope")

	_, err = newCompiler(t, tables).Compile(fixtureCaniuse(), root)
	var se *datasource.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "data.css-nope", se.Path)
}

func TestEndToEndFailClosed(t *testing.T) {
	p := targets.NewCompatPredicate(map[browser.Browser]version.Version{
		"chrome":  version.New(80, 0, 0),
		"firefox": version.New(75, 0, 0),
	})
	assert.False(t, p.IsCompatible(targets.Browsers{"chrome": version.New(90, 0, 0), "safari": version.New(14, 0, 0)}))
	assert.True(t, p.IsCompatible(targets.Browsers{"chrome": version.New(90, 0, 0)}))
}

func TestNameTransforms(t *testing.T) {
	tables := DefaultTables()
	assert.Equal(t, "gencontent", tables.CaniuseName("css-gencontent"))
	assert.Equal(t, "IsSelector", tables.CaniuseName("css-matches-pseudo"))
	assert.Equal(t, "form-validation", tables.CaniuseName("form-validation"))

	name, _ := lengthUnitName("viewport_percentage_units_dynamic", nil)
	assert.Equal(t, "viewportPercentageUnitsDynamic", name)
	name, _ = lengthUnitName("rem", nil)
	assert.Equal(t, "remUnit", name)

	name, ok := tables.listStyleName("upper-greek", nil)
	assert.False(t, ok)
	name, ok = tables.listStyleName("disclosure-open", nil)
	assert.True(t, ok)
	assert.Equal(t, "DisclosureOpenListStyleType", name)

	name, _ = widthName("min_content", nil)
	assert.Equal(t, "MinContentSize", name)
}
