// Package version encodes dotted browser version strings into comparable
// integers.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Version packs major, minor and patch as major<<16 | minor<<8 | patch.
// Integer order equals semantic version order for those three fields.
type Version uint32

var ErrInvalidVersion = errors.New("invalid version")

const maxComponent = 0xff

// New builds a Version from its components. Minor and patch are truncated
// to 8 bits.
func New(major, minor, patch uint32) Version {
	return Version(major<<16 | (minor&maxComponent)<<8 | patch&maxComponent)
}

func (v Version) Major() uint32 { return uint32(v) >> 16 }
func (v Version) Minor() uint32 { return uint32(v) >> 8 & maxComponent }
func (v Version) Patch() uint32 { return uint32(v) & maxComponent }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// Parse decodes text such as "15", "10.1", "≤18" or "4.2-4.3".
// The "≤" marker is stripped and anything after the first "-" is ignored.
func Parse(text string) (Version, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), "≤", "")
	if i := strings.IndexByte(s, '-'); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q has more than three components", ErrInvalidVersion, text)
	}
	var nums [3]uint32
	for i, p := range parts {
		n, err := parseComponent(p)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, text, err)
		}
		if i > 0 && n > maxComponent {
			return 0, fmt.Errorf("%w: %q: component %d out of range", ErrInvalidVersion, text, n)
		}
		nums[i] = n
	}
	if nums[0] > 0xffff {
		return 0, fmt.Errorf("%w: %q: major out of range", ErrInvalidVersion, text)
	}
	return New(nums[0], nums[1], nums[2]), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

func parseComponent(p string) (uint32, error) {
	if p == "" {
		return 0, errors.New("empty component")
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-numeric component %q", p)
		}
	}
	n, err := strconv.ParseUint(p, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}
