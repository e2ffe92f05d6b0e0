package meta

import (
	"fmt"

	"github.com/glybio/glytrait/internal/glycan"
)

// Mode selects which glycan variant an analysis run works on.
type Mode int

const (
	// ModeStructure computes meta-properties from residue graphs.
	ModeStructure Mode = iota

	// ModeComposition computes meta-properties from letter counts.
	ModeComposition
)

// String returns the mode name used in configuration files.
func (m Mode) String() string {
	if m == ModeComposition {
		return "composition"
	}
	return "structure"
}

// ParseMode resolves a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "structure":
		return ModeStructure, nil
	case "composition":
		return ModeComposition, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want \"structure\" or \"composition\")", s)
	}
}

type structureCalc func(ctx *Context, s *glycan.Structure) (Value, error)

type compositionCalc func(c glycan.Composition) (Value, error)

// Property is one registered meta-property: a named mapping from one
// glycan to one scalar. A property supports the structure variant, the
// composition variant, or both, depending on which calculation
// functions are set.
type Property struct {
	// Name is the column name in the meta-property table.
	Name string

	// SiaLinkage marks properties that require sialic-acid linkage
	// information; they are excluded when linkage analysis is off.
	SiaLinkage bool

	structure   structureCalc
	composition compositionCalc
}

// Supports reports whether the property applies in the given mode.
func (p *Property) Supports(m Mode) bool {
	if m == ModeComposition {
		return p.composition != nil
	}
	return p.structure != nil
}

// Calculate evaluates the property for a single glycan, dispatching
// over the glycan variant.
func (p *Property) Calculate(ctx *Context, g glycan.Glycan) (Value, error) {
	switch x := g.(type) {
	case *glycan.Structure:
		if p.structure == nil {
			return nil, p.unsupported("structure")
		}
		return p.structure(ctx, x)
	case glycan.Composition:
		if p.composition == nil {
			return nil, p.unsupported("composition")
		}
		return p.composition(x)
	default:
		return nil, &EvalError{
			Code:     ErrCodeUnsupportedMode,
			Property: p.Name,
			Message:  fmt.Sprintf("unknown glycan variant %T", g),
		}
	}
}

func (p *Property) unsupported(variant string) error {
	return &EvalError{
		Code:     ErrCodeUnsupportedMode,
		Property: p.Name,
		Message:  fmt.Sprintf("property does not support the %s variant", variant),
	}
}

// registry is the fixed meta-property catalogue in registration order.
// The order determines the meta-property table's column order.
var registry = []*Property{
	{Name: "type", structure: structureType},
	{Name: "isComplex", structure: structureIsType(TypeComplex)},
	{Name: "isHighMannose", structure: structureIsType(TypeHighMannose)},
	{Name: "isHybrid", structure: structureIsType(TypeHybrid)},
	{Name: "isBisecting", structure: structureIsBisecting},
	{Name: "nAnt", structure: structureAntennae},
	{Name: "is1Antennary", structure: structureIsAntennary(1)},
	{Name: "is2Antennary", structure: structureIsAntennary(2)},
	{Name: "is3Antennary", structure: structureIsAntennary(3)},
	{Name: "is4Antennary", structure: structureIsAntennary(4)},
	{
		Name:        "nF",
		structure:   structureCount(glycan.Fuc),
		composition: compositionLetter(glycan.LetterF),
	},
	{Name: "nFc", structure: structureCoreFucoses},
	{Name: "nFa", structure: structureAntennaryFucoses},
	{
		Name:        "isFucosylated",
		structure:   structureHas(glycan.Fuc),
		composition: compositionLetterPresent(glycan.LetterF),
	},
	{Name: "isCoreFucosylated", structure: structureIsCoreFucosylated},
	{Name: "isAntennaryFucosylated", structure: structureIsAntennaryFucosylated},
	{
		Name:        "nS",
		structure:   structureSialicCount,
		composition: compositionSialicCount,
	},
	{
		Name:        "isSialylated",
		structure:   structureIsSialylated,
		composition: compositionIsSialylated,
	},
	{
		Name:        "nL",
		SiaLinkage:  true,
		structure:   structureLinkedSialicCount(3, false),
		composition: compositionLetter(glycan.LetterL),
	},
	{
		Name:        "nE",
		SiaLinkage:  true,
		structure:   structureLinkedSialicCount(6, false),
		composition: compositionLetter(glycan.LetterE),
	},
	{
		Name:        "hasa23Sia",
		SiaLinkage:  true,
		structure:   structureLinkedSialicCount(3, true),
		composition: compositionLetterPresent(glycan.LetterL),
	},
	{
		Name:        "hasa26Sia",
		SiaLinkage:  true,
		structure:   structureLinkedSialicCount(6, true),
		composition: compositionLetterPresent(glycan.LetterE),
	},
	{
		Name:        "nM",
		structure:   structureCount(glycan.Man),
		composition: compositionMannoses,
	},
	{
		Name:        "nG",
		structure:   structureCount(glycan.Gal),
		composition: compositionGalactoses,
	},
	{
		Name:        "nN",
		structure:   structureCount(glycan.GlcNAc),
		composition: compositionLetter(glycan.LetterN),
	},
	{Name: "hasPolyLacNAc", structure: structureHasPolyLacNAc},
}

// byName indexes the registry; registration order does not matter for
// lookups.
var byName = func() map[string]*Property {
	m := make(map[string]*Property, len(registry))
	for _, p := range registry {
		if _, dup := m[p.Name]; dup {
			panic(fmt.Sprintf("meta: duplicate property name %q", p.Name))
		}
		m[p.Name] = p
	}
	return m
}()

// Lookup returns the registered property with the given name.
func Lookup(name string) (*Property, bool) {
	p, ok := byName[name]
	return p, ok
}

// IsSiaLinkageProperty reports whether name is a registered property
// that requires sialic-acid linkage information. Unregistered names
// report false.
func IsSiaLinkageProperty(name string) bool {
	p, ok := byName[name]
	return ok && p.SiaLinkage
}

// Properties returns the registered properties applicable to the given
// mode, in registration order. Linkage-dependent properties are
// included only when siaLinkage is set.
func Properties(mode Mode, siaLinkage bool) []*Property {
	var out []*Property
	for _, p := range registry {
		if !p.Supports(mode) {
			continue
		}
		if p.SiaLinkage && !siaLinkage {
			continue
		}
		out = append(out, p)
	}
	return out
}
