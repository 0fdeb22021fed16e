package version

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"compatgen/internal/logging"
)

type parsed struct {
	v  Version
	ok bool
}

// Codec memoises Parse and reports each distinct malformed string once.
// Datasets repeat the same few hundred version strings across thousands of
// records.
type Codec struct {
	cache  *lru.Cache[string, parsed]
	logger *logging.Logger
}

func NewCodec(size int, logger *logging.Logger) (*Codec, error) {
	if size <= 0 {
		size = 4096
	}
	if logger == nil {
		logger = logging.Discard()
	}
	cache, err := lru.New[string, parsed](size)
	if err != nil {
		return nil, err
	}
	return &Codec{cache: cache, logger: logger}, nil
}

// Parse returns the decoded version, or ok=false for malformed text.
// feature and browser only label the diagnostic.
func (c *Codec) Parse(feature, browser, text string) (Version, bool) {
	if p, hit := c.cache.Get(text); hit {
		if !p.ok {
			c.logger.Debug("bad version (cached)", "feature", feature, "browser", browser, "version", text)
		}
		return p.v, p.ok
	}
	v, err := Parse(text)
	p := parsed{v: v, ok: err == nil}
	c.cache.Add(text, p)
	if err != nil {
		c.logger.BadVersion(feature, browser, text)
	}
	return p.v, p.ok
}
