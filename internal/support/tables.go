package support

import "compatgen/internal/version"

// MDNPath binds a feature name to a browser-compat-data path whose
// __compat.support is read verbatim.
type MDNPath struct {
	Name string
	Path string
}

// Literal is a feature with no dataset coverage.
type Literal struct {
	Name string
	Min  map[string]version.Version
}

// Tables is the curated configuration of the support compiler.
type Tables struct {
	// CaniuseFeatures are caniuse feature ids, in output order.
	CaniuseFeatures []string
	// CaniuseNames renames features; other ids only lose a "css-" prefix.
	CaniuseNames map[string]string
	// CaniuseOverrides rewrites support codes: feature → browser → code →
	// replacement.
	CaniuseOverrides map[string]map[string]map[string]string
	// AfterCaniuse are literals emitted between the caniuse and MDN blocks.
	AfterCaniuse []Literal
	MDNPaths     []MDNPath
	// NonStandardListStyleType keywords are not turned into features.
	NonStandardListStyleType []string
	// Trailing literals close the table.
	Trailing []Literal
}

// DefaultTables returns the feature set the generated matcher is expected
// to know about.
func DefaultTables() Tables {
	return Tables{
		CaniuseFeatures: []string{
			"css-sel2",
			"css-sel3",
			"css-gencontent",
			"css-first-letter",
			"css-first-line",
			"css-in-out-of-range",
			"form-validation",
			"css-any-link",
			"css-default-pseudo",
			"css-dir-pseudo",
			"css-focus-within",
			"css-focus-visible",
			"css-indeterminate-pseudo",
			"css-matches-pseudo",
			"css-optional-pseudo",
			"css-placeholder-shown",
			"dialog",
			"fullscreen",
			"css-marker-pseudo",
			"css-placeholder",
			"css-selection",
			"css-case-insensitive",
			"css-read-only-write",
			"css-autofill",
			"css-namespaces",
			"shadowdomv1",
			"css-rrggbbaa",
			"css-nesting",
			"css-not-sel-list",
			"css-has",
			"font-family-system-ui",
			"extended-system-fonts",
			"calc",
		},
		CaniuseNames: map[string]string{
			"css-dir-pseudo":     "DirSelector",
			"css-rrggbbaa":       "HexAlphaColors",
			"css-not-sel-list":   "NotSelectorList",
			"css-has":            "HasSelector",
			"css-matches-pseudo": "IsSelector",
			"css-sel2":           "Selectors2",
			"css-sel3":           "Selectors3",
			"calc":               "CalcFunction",
		},
		CaniuseOverrides: map[string]map[string]map[string]string{
			// ::marker only styles some properties in Safari, but the
			// selector itself parses.
			"css-marker-pseudo": {"safari": {"y #1": "y"}},
		},
		AfterCaniuse: []Literal{
			{Name: "custom-media-queries"},
		},
		MDNPaths: []MDNPath{
			{"doublePositionGradients", "css.types.gradient.radial-gradient.doubleposition"},
			{"clampFunction", "css.types.clamp"},
			{"placeSelf", "css.properties.place-self"},
			{"placeContent", "css.properties.place-content"},
			{"placeItems", "css.properties.place-items"},
			{"overflowShorthand", "css.properties.overflow.multiple_keywords"},
			{"mediaRangeSyntax", "css.at-rules.media.range_syntax"},
			{MediaIntervalSyntax, ""},
			{"logicalBorders", "css.properties.border-inline-start"},
			{"logicalBorderShorthand", "css.properties.border-inline"},
			{"logicalBorderRadius", "css.properties.border-start-start-radius"},
			{"logicalMargin", "css.properties.margin-inline-start"},
			{"logicalMarginShorthand", "css.properties.margin-inline"},
			{"logicalPadding", "css.properties.padding-inline-start"},
			{"logicalPaddingShorthand", "css.properties.padding-inline"},
			{"logicalInset", "css.properties.inset-inline-start"},
			{"logicalSize", "css.properties.inline-size"},
			{"logicalTextAlign", "css.properties.text-align.start"},
			{"labColors", "css.types.color.lab"},
			{"oklabColors", "css.types.color.oklab"},
			{"colorFunction", "css.types.color.color"},
			{"spaceSeparatedColorNotation", "css.types.color.rgb.space_separated_parameters"},
			{"textDecorationThicknessPercent", "css.properties.text-decoration-thickness.percentage"},
			{"textDecorationThicknessShorthand", "css.properties.text-decoration.includes_thickness"},
			{"cue", "css.selectors.cue"},
			{"cueFunction", "css.selectors.cue.selector_argument"},
			{AnyPseudo, ""},
			{"partPseudo", "css.selectors.part"},
			{"imageSet", "css.types.image.image-set"},
			{"xResolutionUnit", "css.types.resolution.x"},
			{"nthChildOf", "css.selectors.nth-child.of_syntax"},
			{"minFunction", "css.types.min"},
			{"maxFunction", "css.types.max"},
			{"roundFunction", "css.types.round"},
			{"remFunction", "css.types.rem"},
			{"modFunction", "css.types.mod"},
			{"absFunction", "css.types.abs"},
			{"signFunction", "css.types.sign"},
			{"hypotFunction", "css.types.hypot"},
			{"gradientInterpolationHints", "css.types.gradient.linear-gradient.interpolation_hints"},
			{"borderImageRepeatRound", "css.properties.border-image-repeat.round"},
			{"borderImageRepeatSpace", "css.properties.border-image-repeat.space"},
			{"fontSizeRem", "css.properties.font-size.rem_values"},
			{"fontSizeXXXLarge", "css.properties.font-size.xxx-large"},
			{"fontStyleObliqueAngle", "css.properties.font-style.oblique-angle"},
			{"fontWeightNumber", "css.properties.font-weight.number"},
			{"fontStretchPercentage", "css.properties.font-stretch.percentage"},
			{"lightDark", "css.types.color.light-dark"},
			{"accentSystemColor", "css.types.color.system-color.accentcolor_accentcolortext"},
			{"animationTimelineShorthand", "css.properties.animation.animation-timeline_included"},
			{"viewTransition", "css.selectors.view-transition"},
			{"detailsContent", "css.selectors.details-content"},
			{"targetText", "css.selectors.target-text"},
			{"picker", "css.selectors.picker"},
			{"pickerIcon", "css.selectors.picker-icon"},
			{"checkmark", "css.selectors.checkmark"},
		},
		NonStandardListStyleType: []string{
			"ethiopic-halehame",
			"ethiopic-halehame-am",
			"ethiopic-halehame-ti-er",
			"ethiopic-halehame-ti-et",
			"hangul",
			"hangul-consonant",
			"urdu",
			"cjk-ideographic",
			// Dropped from the standard, see csswg-drafts#135.
			"upper-greek",
		},
		Trailing: []Literal{
			{Name: "p3Colors", Min: map[string]version.Version{
				"safari":  version.New(10, 1, 0),
				"ios_saf": version.New(10, 3, 0),
			}},
			// WebKit commit baed0d8b0abf.
			{Name: "LangSelectorList", Min: map[string]version.Version{
				"safari":  version.New(10, 1, 0),
				"ios_saf": version.New(10, 3, 0),
			}},
		},
	}
}

// Paths whose support is derived rather than read verbatim.
const (
	MediaIntervalSyntax = "mediaIntervalSyntax"
	AnyPseudo           = "anyPseudo"

	rangeSyntaxPath = "css.at-rules.media.range_syntax"
	isSelectorPath  = "css.selectors.is"
	lengthPath      = "css.types.length"
	gradientPath    = "css.types.gradient"
	listStylePath   = "css.properties.list-style-type"
	widthPath       = "css.properties.width"
	stretchKey      = "stretch"
	animatableKey   = "animatable"
)
