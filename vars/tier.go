package vars

import "strconv"

// Tier is one of the three variable namespaces.
type Tier int

const (
	// TierFixed holds built-in values. Only [Store.SetFixedValue] writes it.
	TierFixed Tier = iota
	// TierGlobal holds project-wide values.
	TierGlobal
	// TierLocal holds values of the current script.
	TierLocal
	numTiers
)

func (t Tier) String() string {
	switch t {
	case TierFixed:
		return "Fixed"
	case TierGlobal:
		return "Global"
	case TierLocal:
		return "Local"
	default:
		return "Tier(" + strconv.Itoa(int(t)) + ")"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (t *Tier) UnmarshalText(text []byte) error {
	for v := range numTiers {
		if equalFold(v.String(), string(text)) {
			*t = v

			return nil
		}
	}

	return ErrInvalidEnum.With(slogString("tier", string(text)))
}

func (t Tier) valid() bool { return t >= 0 && t < numTiers }

// Precedence is the order in which tiers are searched during expansion.
type Precedence int

const (
	// PrecedenceLocalFirst searches local, global, then fixed. Fixed values
	// can be shadowed by script variables, as legacy builders allow.
	PrecedenceLocalFirst Precedence = iota
	// PrecedenceGlobalFirst searches global, local, then fixed.
	PrecedenceGlobalFirst
	// PrecedenceFixedFirst searches fixed, local, then global.
	PrecedenceFixedFirst
)

var precedenceOrder = [...][numTiers]Tier{
	PrecedenceLocalFirst:  {TierLocal, TierGlobal, TierFixed},
	PrecedenceGlobalFirst: {TierGlobal, TierLocal, TierFixed},
	PrecedenceFixedFirst:  {TierFixed, TierLocal, TierGlobal},
}

func (p Precedence) String() string {
	switch p {
	case PrecedenceLocalFirst:
		return "LocalFirst"
	case PrecedenceGlobalFirst:
		return "GlobalFirst"
	case PrecedenceFixedFirst:
		return "FixedFirst"
	default:
		return "Precedence(" + strconv.Itoa(int(p)) + ")"
	}
}

// ParsePrecedence parses a precedence name, ignoring case.
func ParsePrecedence(s string) (Precedence, error) {
	for p := range precedenceOrder {
		if equalFold(Precedence(p).String(), s) {
			return Precedence(p), nil
		}
	}

	return 0, ErrInvalidEnum.With(slogString("precedence", s))
}

func (p Precedence) order() [numTiers]Tier {
	if p < 0 || int(p) >= len(precedenceOrder) {
		return precedenceOrder[PrecedenceLocalFirst]
	}

	return precedenceOrder[p]
}
