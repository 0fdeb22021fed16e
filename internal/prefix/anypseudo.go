package prefix

import (
	"strconv"
	"strings"

	"compatgen/internal/browser"
	"compatgen/internal/datasource"
	"compatgen/internal/logging"
)

// AnyPseudoConstruct is the synthesized construct covering :-webkit-any()
// and :-moz-any().
const AnyPseudoConstruct = "any-pseudo"

// AnyPseudoEntry derives prefix rows for :is() from its MDN support data.
// A browser qualifies when it records both a "-any" alternative name and a
// plain supported statement; the prefix is then required from the
// alternative's version up to the major release before unprefixed support.
func AnyPseudoEntry(support datasource.Support, mdn browser.Normalizer, logger *logging.Logger) datasource.PrefixEntry {
	if logger == nil {
		logger = logging.Discard()
	}
	entry := datasource.PrefixEntry{Name: AnyPseudoConstruct, Browsers: []string{}}
	for _, e := range support {
		if !e.Array {
			continue
		}
		key, ok := mdn.Canonical(e.Browser)
		if !ok {
			continue
		}
		var anyVersion, supported string
		for _, st := range e.Statements {
			v, ok := st.Added()
			if !ok {
				continue
			}
			if anyVersion == "" && strings.Contains(st.AlternativeName, "-any") {
				anyVersion = v
			}
			if supported == "" && st.AlternativeName == "" {
				supported = v
			}
		}
		if anyVersion == "" || supported == "" {
			continue
		}
		last, ok := decrementMajor(supported)
		if !ok {
			logger.BadVersion(AnyPseudoConstruct, string(key), supported)
			continue
		}
		entry.Browsers = append(entry.Browsers, string(key)+" "+anyVersion, string(key)+" "+last)
	}
	return entry
}

// decrementMajor turns "88" into "87" and "9.1" into "8.1".
func decrementMajor(v string) (string, bool) {
	parts := strings.Split(strings.ReplaceAll(v, "≤", ""), ".")
	major, err := strconv.Atoi(parts[0])
	if err != nil || major <= 0 {
		return "", false
	}
	parts[0] = strconv.Itoa(major - 1)
	return strings.Join(parts, "."), true
}
