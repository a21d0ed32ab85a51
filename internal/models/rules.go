package models

import (
	"fmt"
	"math"
	"math/big"
	"sort"
)

// Rules holds the advantage table and terrain multipliers used to resolve
// engagements. A Rules value is never mutated after construction and is safe
// for concurrent use.
type Rules struct {
	advantages  map[UnitType]map[UnitType]bool
	multipliers map[TerrainType]map[UnitType]float64
}

// DefaultAdvantages returns the built-in advantage table
func DefaultAdvantages() map[UnitType][]UnitType {
	return map[UnitType][]UnitType{
		Militia:       {Spearmen, LightCavalry},
		Spearmen:      {LightCavalry, HeavyCavalry},
		LightCavalry:  {FootArcher, CavalryArcher},
		HeavyCavalry:  {Militia, FootArcher, LightCavalry},
		CavalryArcher: {Spearmen, HeavyCavalry},
		FootArcher:    {Militia, CavalryArcher},
	}
}

// DefaultMultipliers returns the built-in terrain multipliers.
// Unit types missing from a terrain fight at x1.
func DefaultMultipliers() map[TerrainType]map[UnitType]float64 {
	return map[TerrainType]map[UnitType]float64{
		Default: {},
		Hill: {
			CavalryArcher: 2,
			FootArcher:    2,
			Militia:       0.5,
			HeavyCavalry:  0.5,
			LightCavalry:  0.5,
			Spearmen:      0.5,
		},
		Plains: {
			CavalryArcher: 2,
			HeavyCavalry:  2,
			LightCavalry:  2,
		},
		Muddy: {
			FootArcher: 2,
			Militia:    2,
			Spearmen:   2,
		},
	}
}

var defaultRules = mustRules(DefaultAdvantages(), DefaultMultipliers())

// DefaultRules returns the built-in rules. The value is shared and read-only.
func DefaultRules() *Rules {
	return defaultRules
}

func mustRules(adv map[UnitType][]UnitType, mult map[TerrainType]map[UnitType]float64) *Rules {
	r, err := NewRules(adv, mult)
	if err != nil {
		panic(err)
	}
	return r
}

// NewRules copies the given tables into an immutable Rules value.
// Multipliers must be positive and keyed by known terrain types.
func NewRules(adv map[UnitType][]UnitType, mult map[TerrainType]map[UnitType]float64) (*Rules, error) {
	r := &Rules{
		advantages:  make(map[UnitType]map[UnitType]bool, len(adv)),
		multipliers: make(map[TerrainType]map[UnitType]float64, len(mult)),
	}

	// Every known unit type has an entry, possibly empty
	for _, ut := range AllUnitTypes() {
		r.advantages[ut] = map[UnitType]bool{}
	}
	for ut, over := range adv {
		if ut == "" {
			return nil, fmt.Errorf("advantage table has an empty unit type")
		}
		set, ok := r.advantages[ut]
		if !ok {
			set = map[UnitType]bool{}
			r.advantages[ut] = set
		}
		for _, o := range over {
			set[o] = true
		}
	}

	for terrain, byUnit := range mult {
		if _, ok := ParseTerrainType(string(terrain)); !ok {
			return nil, fmt.Errorf("invalid terrain type: %s", terrain)
		}
		m := make(map[UnitType]float64, len(byUnit))
		for ut, factor := range byUnit {
			if !(factor > 0) || math.IsInf(factor, 1) {
				return nil, fmt.Errorf("multiplier for %s on %s must be positive and finite, got %v", ut, terrain, factor)
			}
			m[ut] = factor
		}
		r.multipliers[terrain] = m
	}

	return r, nil
}

// HasAdvantage reports whether unit type a is advantaged over unit type b
func (r *Rules) HasAdvantage(a, b UnitType) bool {
	return r.advantages[a][b]
}

// AdvantagesOf returns the unit types u is advantaged over, sorted by name
func (r *Rules) AdvantagesOf(u UnitType) []UnitType {
	set := r.advantages[u]
	out := make([]UnitType, 0, len(set))
	for o := range set {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})
	return out
}

// UnitTypes returns every unit type named by the advantage table or the terrain
// multipliers, sorted with the built-in types first in their canonical order
func (r *Rules) UnitTypes() []UnitType {
	out := AllUnitTypes()
	seen := make(map[UnitType]bool)
	var extra []UnitType
	add := func(ut UnitType) {
		if !ut.Known() && !seen[ut] {
			seen[ut] = true
			extra = append(extra, ut)
		}
	}
	for ut := range r.advantages {
		add(ut)
	}
	for _, byUnit := range r.multipliers {
		for ut := range byUnit {
			add(ut)
		}
	}
	sort.Slice(extra, func(i, j int) bool {
		return extra[i] < extra[j]
	})
	return append(out, extra...)
}

// Multiplier returns the terrain factor applied to a unit type
func (r *Rules) Multiplier(t TerrainType, u UnitType) float64 {
	if f, ok := r.multipliers[t][u]; ok {
		return f
	}
	return 1
}

// Effective returns the platoon's troop count scaled by the terrain, rounded
// to the nearest float64. Use Strength to compare platoons.
func (r *Rules) Effective(t TerrainType, p Platoon) float64 {
	f, _ := r.Strength(t, p).Float64()
	return f
}

// Strength returns the platoon's troop count scaled by the terrain, exactly
func (r *Rules) Strength(t TerrainType, p Platoon) *big.Rat {
	s := new(big.Rat).SetFloat64(r.Multiplier(t, p.Type))
	return s.Mul(s, new(big.Rat).SetInt64(int64(p.Units)))
}
