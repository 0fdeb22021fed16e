// Package flags assigns bit positions to named boolean capabilities.
package flags

import (
	"errors"
	"fmt"
)

var (
	ErrUnassignedDependency = errors.New("composite references unassigned flag")
	ErrCompositeDependency  = errors.New("composite references another composite")
	ErrDuplicateFlag        = errors.New("duplicate flag")
	ErrTooManyFlags         = errors.New("too many flags")
)

// MaxBits is the width of the generated flag type.
const MaxBits = 32

// Decl declares a leaf flag (Of empty) or a composite of previously declared
// leaves.
type Decl struct {
	Name string
	Of   []string
}

func Leaf(name string) Decl { return Decl{Name: name} }
func Composite(name string, of ...string) Decl { return Decl{Name: name, Of: of} }

// Flag is an assigned flag.
type Flag struct {
	Name  string
	Value uint32
	// Bit is the leaf position; -1 for composites.
	Bit int
	Of  []string
}

func (f Flag) IsComposite() bool { return f.Bit < 0 }

// Table holds flags in declaration order.
type Table struct {
	Flags  []Flag
	byName map[string]int
}

func (t *Table) Lookup(name string) (Flag, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Flag{}, false
	}
	return t.Flags[i], true
}

// Assign walks decls in order. Leaves take the next unused bit; composites
// OR together leaves that must already be assigned.
func Assign(decls []Decl) (*Table, error) {
	t := &Table{byName: make(map[string]int, len(decls))}
	next := 0
	for _, d := range decls {
		if _, dup := t.byName[d.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFlag, d.Name)
		}
		f := Flag{Name: d.Name, Bit: -1}
		if len(d.Of) == 0 {
			if next >= MaxBits {
				return nil, fmt.Errorf("%w: %s needs bit %d", ErrTooManyFlags, d.Name, next)
			}
			f.Bit = next
			f.Value = 1 << next
			next++
		} else {
			f.Of = append([]string(nil), d.Of...)
			for _, dep := range d.Of {
				i, ok := t.byName[dep]
				if !ok {
					return nil, fmt.Errorf("%w: %s uses %s", ErrUnassignedDependency, d.Name, dep)
				}
				if t.Flags[i].IsComposite() {
					return nil, fmt.Errorf("%w: %s uses %s", ErrCompositeDependency, d.Name, dep)
				}
				f.Value |= t.Flags[i].Value
			}
		}
		t.byName[d.Name] = len(t.Flags)
		t.Flags = append(t.Flags, f)
	}
	return t, nil
}

// DefaultDecls is the curated capability list exposed to consumers.
func DefaultDecls() []Decl {
	return []Decl{
		Leaf("Nesting"),
		Leaf("NotSelectorList"),
		Leaf("DirSelector"),
		Leaf("LangSelectorList"),
		Leaf("IsSelector"),
		Leaf("TextDecorationThicknessPercent"),
		Leaf("MediaIntervalSyntax"),
		Leaf("MediaRangeSyntax"),
		Leaf("CustomMediaQueries"),
		Leaf("ClampFunction"),
		Leaf("ColorFunction"),
		Leaf("OklabColors"),
		Leaf("LabColors"),
		Leaf("P3Colors"),
		Leaf("HexAlphaColors"),
		Leaf("SpaceSeparatedColorNotation"),
		Leaf("FontFamilySystemUi"),
		Leaf("DoublePositionGradients"),
		Leaf("VendorPrefixes"),
		Leaf("LogicalProperties"),
		Leaf("LightDark"),
		Composite("Selectors", "Nesting", "NotSelectorList", "DirSelector", "LangSelectorList", "IsSelector"),
		Composite("MediaQueries", "MediaIntervalSyntax", "MediaRangeSyntax", "CustomMediaQueries"),
		Composite("Colors", "ColorFunction", "OklabColors", "LabColors", "P3Colors", "HexAlphaColors", "SpaceSeparatedColorNotation", "LightDark"),
	}
}
