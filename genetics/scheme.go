package genetics

import (
	"github.com/pkg/errors"

	"github.com/gaul-go/gaul"
)

// AdaptPolicy governs whether local search (adapt) is applied to a
// group of entities, and whether the adapted genotype replaces the
// original (Lamarckian) or only its fitness does (Baldwinian).
type AdaptPolicy int

const (
	// AdaptNone means no local search is applied to this group.
	AdaptNone AdaptPolicy = iota
	// AdaptBaldwin applies local search but only keeps the improved
	// fitness; the entity's chromosomes are unchanged.
	AdaptBaldwin
	// AdaptLamarck applies local search and keeps both the improved
	// fitness and the adapted chromosomes.
	AdaptLamarck
)

func (p AdaptPolicy) String() string {
	switch p {
	case AdaptNone:
		return "none"
	case AdaptBaldwin:
		return "baldwin"
	case AdaptLamarck:
		return "lamarck"
	default:
		return "unknown"
	}
}

// Scheme pairs the adapt policy applied to parents with the one applied
// to children. "Darwin" is Scheme{AdaptNone, AdaptNone}.
type Scheme struct {
	Parent AdaptPolicy
	Child  AdaptPolicy
}

// DarwinScheme evaluates children only; no local search is applied.
var DarwinScheme = Scheme{Parent: AdaptNone, Child: AdaptNone}

// legacyBits maps one AdaptPolicy, in one group, to its legacy bitfield
// value: the parent group uses bits {1, 4}, the child group uses bits
// {2, 8}, so that Lamarck-all is 1|2=3 and Baldwin-all is 4|8=12.
func (policy AdaptPolicy) legacyBits(parentGroup bool) int {
	switch {
	case policy == AdaptNone:
		return 0
	case policy == AdaptLamarck && parentGroup:
		return 1
	case policy == AdaptLamarck && !parentGroup:
		return 2
	case policy == AdaptBaldwin && parentGroup:
		return 4
	case policy == AdaptBaldwin && !parentGroup:
		return 8
	default:
		return 0
	}
}

// Legacy returns the scheme's value as the legacy integer bitfield, for
// diagnostic logging and round-tripping numeric legacy config. The
// engine itself never branches on this value, only on Parent/Child.
func (s Scheme) Legacy() int {
	return s.Parent.legacyBits(true) | s.Child.legacyBits(false)
}

// Elitism governs whether parents persist into the next generation.
type Elitism int

const (
	// ElitismParentsSurvive is the default: parents are kept in place.
	ElitismParentsSurvive Elitism = iota
	// ElitismParentsDie discards every parent.
	ElitismParentsDie
	// ElitismOneParentSurvives keeps only the single highest-fitness
	// parent; every other parent is discarded.
	ElitismOneParentSurvives
)

func (e Elitism) String() string {
	switch e {
	case ElitismParentsSurvive:
		return "parents-survive"
	case ElitismParentsDie:
		return "parents-die"
	case ElitismOneParentSurvives:
		return "one-parent-survives"
	default:
		return "unknown"
	}
}

// ParseAdaptPolicy maps a policy name ("none", "baldwin", "lamarck") to
// its AdaptPolicy value.
func ParseAdaptPolicy(name string) (AdaptPolicy, error) {
	switch name {
	case "", "none":
		return AdaptNone, nil
	case "baldwin":
		return AdaptBaldwin, nil
	case "lamarck":
		return AdaptLamarck, nil
	default:
		return AdaptNone, errors.Wrapf(gaul.ErrMisconfigured, "unknown adapt policy: %q", name)
	}
}

// ParseScheme maps a scheme name to its Scheme value. Accepted names are
// "darwin" plus the parent/child policy pairs the legacy bitfield could
// express ("lamarck-parents", "lamarck-children", "lamarck-all",
// "baldwin-parents", "baldwin-children", "baldwin-all").
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "", "darwin":
		return DarwinScheme, nil
	case "lamarck-parents":
		return Scheme{Parent: AdaptLamarck}, nil
	case "lamarck-children":
		return Scheme{Child: AdaptLamarck}, nil
	case "lamarck-all":
		return Scheme{Parent: AdaptLamarck, Child: AdaptLamarck}, nil
	case "baldwin-parents":
		return Scheme{Parent: AdaptBaldwin}, nil
	case "baldwin-children":
		return Scheme{Child: AdaptBaldwin}, nil
	case "baldwin-all":
		return Scheme{Parent: AdaptBaldwin, Child: AdaptBaldwin}, nil
	default:
		return DarwinScheme, errors.Wrapf(gaul.ErrMisconfigured, "unknown scheme: %q", name)
	}
}

// ParseElitism maps an elitism name to its Elitism value plus the
// rescore-parents modifier flag. "rescore-parents" selects the default
// survival policy with rescoring enabled; the other names select their
// policy with rescoring off.
func ParseElitism(name string) (Elitism, bool, error) {
	switch name {
	case "", "parents-survive":
		return ElitismParentsSurvive, false, nil
	case "parents-die":
		return ElitismParentsDie, false, nil
	case "one-parent-survives":
		return ElitismOneParentSurvives, false, nil
	case "rescore-parents":
		return ElitismParentsSurvive, true, nil
	default:
		return ElitismParentsSurvive, false, errors.Wrapf(gaul.ErrMisconfigured, "unknown elitism: %q", name)
	}
}
