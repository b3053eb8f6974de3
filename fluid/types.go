// Package fluid: compositions, thermodynamic states, and backend errors.
package fluid

import (
	"errors"
	"sort"
)

// ErrUnknownSpecies is returned when a composition names a species the
// backend has no data for.
var ErrUnknownSpecies = errors.New("fluid: unknown species")

// RUniversal is the universal gas constant in J/(kmol·K).
const RUniversal = 8314.462618

// Composition holds species mass fractions. The zero value is empty and
// invalid for property queries; build one with Pure or NewComposition.
type Composition struct {
	fractions map[string]float64
}

// Pure returns a single-species composition.
func Pure(species string) Composition {
	return Composition{fractions: map[string]float64{species: 1.0}}
}

// NewComposition builds a composition from species mass fractions.
// Fractions are normalized to sum to one; non-positive entries are dropped.
func NewComposition(fractions map[string]float64) Composition {
	total := 0.0
	for _, f := range fractions {
		if f > 0 {
			total += f
		}
	}
	out := make(map[string]float64, len(fractions))
	if total > 0 {
		for sp, f := range fractions {
			if f > 0 {
				out[sp] = f / total
			}
		}
	}

	return Composition{fractions: out}
}

// Species returns the species names in sorted order.
func (c Composition) Species() []string {
	names := make([]string, 0, len(c.fractions))
	for sp := range c.fractions {
		names = append(names, sp)
	}
	sort.Strings(names)

	return names
}

// Fraction returns the mass fraction of the named species (0 if absent).
func (c Composition) Fraction(species string) float64 {
	return c.fractions[species]
}

// Empty reports whether the composition holds no species.
func (c Composition) Empty() bool {
	return len(c.fractions) == 0
}

// ThermoState is an immutable thermodynamic snapshot produced by a backend.
// Pressure in Pa, temperature in K, specific enthalpy in J/kg.
type ThermoState struct {
	p, t, h float64
	comp    Composition
}

// NewState constructs a ThermoState. Intended for backend implementations;
// solver code obtains states from Model.StateFromPT / StateFromPH only.
func NewState(p, t, h float64, comp Composition) ThermoState {
	return ThermoState{p: p, t: t, h: h, comp: comp}
}

// Pressure returns the state pressure in Pa.
func (s ThermoState) Pressure() float64 { return s.p }

// Temperature returns the state temperature in K.
func (s ThermoState) Temperature() float64 { return s.t }

// Enthalpy returns the specific enthalpy in J/kg.
func (s ThermoState) Enthalpy() float64 { return s.h }

// Composition returns the state composition.
func (s ThermoState) Composition() Composition { return s.comp }
