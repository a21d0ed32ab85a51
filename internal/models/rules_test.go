package models

import (
	"math"
	"math/big"
	"testing"
)

func TestDefaultAdvantageTable(t *testing.T) {
	// Advantage table from the game rules
	expected := map[UnitType][]UnitType{
		Militia:       {LightCavalry, Spearmen},
		Spearmen:      {HeavyCavalry, LightCavalry},
		LightCavalry:  {CavalryArcher, FootArcher},
		HeavyCavalry:  {FootArcher, LightCavalry, Militia},
		CavalryArcher: {HeavyCavalry, Spearmen},
		FootArcher:    {CavalryArcher, Militia},
	}

	rules := DefaultRules()
	for _, ut := range AllUnitTypes() {
		got := rules.AdvantagesOf(ut)
		want := expected[ut]
		if len(got) != len(want) {
			t.Errorf("%s: expected advantages %v, got %v", ut, want, got)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s: expected advantages %v, got %v", ut, want, got)
				break
			}
		}
	}
}

func TestAdvantageIsDirected(t *testing.T) {
	rules := DefaultRules()

	if !rules.HasAdvantage(Militia, Spearmen) {
		t.Error("Militia should be advantaged over Spearmen")
	}
	if rules.HasAdvantage(Spearmen, Militia) {
		t.Error("Spearmen should not be advantaged over Militia")
	}
	// Cycle: HeavyCavalry > LightCavalry > CavalryArcher > HeavyCavalry
	if !rules.HasAdvantage(HeavyCavalry, LightCavalry) ||
		!rules.HasAdvantage(LightCavalry, CavalryArcher) ||
		!rules.HasAdvantage(CavalryArcher, HeavyCavalry) {
		t.Error("expected advantage cycle between cavalry types")
	}
}

func TestUnknownUnitTypeHasNoAdvantages(t *testing.T) {
	rules := DefaultRules()
	unknown := UnitType("Catapult")

	if unknown.Known() {
		t.Fatal("Catapult should not be a known unit type")
	}
	if len(rules.AdvantagesOf(unknown)) != 0 {
		t.Errorf("unknown unit type should have no advantages, got %v", rules.AdvantagesOf(unknown))
	}
	for _, ut := range AllUnitTypes() {
		if rules.HasAdvantage(ut, unknown) || rules.HasAdvantage(unknown, ut) {
			t.Errorf("no advantage expected between %s and %s", ut, unknown)
		}
	}
}

func TestTerrainMultipliers(t *testing.T) {
	tests := []struct {
		terrain TerrainType
		unit    UnitType
		want    float64
	}{
		{Default, Militia, 1},
		{Default, FootArcher, 1},
		{Hill, CavalryArcher, 2},
		{Hill, FootArcher, 2},
		{Hill, Militia, 0.5},
		{Hill, HeavyCavalry, 0.5},
		{Hill, LightCavalry, 0.5},
		{Hill, Spearmen, 0.5},
		{Plains, CavalryArcher, 2},
		{Plains, HeavyCavalry, 2},
		{Plains, LightCavalry, 2},
		{Plains, Militia, 1},
		{Plains, FootArcher, 1},
		{Muddy, FootArcher, 2},
		{Muddy, Militia, 2},
		{Muddy, Spearmen, 2},
		{Muddy, HeavyCavalry, 1},
		{Muddy, UnitType("Catapult"), 1},
	}

	rules := DefaultRules()
	for _, tt := range tests {
		t.Run(string(tt.terrain)+"/"+string(tt.unit), func(t *testing.T) {
			if got := rules.Multiplier(tt.terrain, tt.unit); got != tt.want {
				t.Errorf("Multiplier(%s, %s) = %v, want %v", tt.terrain, tt.unit, got, tt.want)
			}
		})
	}
}

func TestEffectiveIsFractional(t *testing.T) {
	rules := DefaultRules()
	got := rules.Effective(Hill, Platoon{Type: Militia, Units: 51})
	if got != 25.5 {
		t.Errorf("Militia#51 on Hill: expected 25.5, got %v", got)
	}
}

func TestNewRulesRejectsBadInput(t *testing.T) {
	if _, err := NewRules(nil, map[TerrainType]map[UnitType]float64{"Swamp": {}}); err == nil {
		t.Error("expected error for unknown terrain")
	}
	if _, err := NewRules(nil, map[TerrainType]map[UnitType]float64{Hill: {Militia: 0}}); err == nil {
		t.Error("expected error for zero multiplier")
	}
	if _, err := NewRules(map[UnitType][]UnitType{"": {Militia}}, nil); err == nil {
		t.Error("expected error for empty unit type")
	}
}

func TestNewRulesCopiesInput(t *testing.T) {
	adv := map[UnitType][]UnitType{Militia: {Spearmen}}
	rules, err := NewRules(adv, nil)
	if err != nil {
		t.Fatalf("NewRules failed: %v", err)
	}

	adv[Militia] = append(adv[Militia], FootArcher)
	if rules.HasAdvantage(Militia, FootArcher) {
		t.Error("rules changed after the input table was mutated")
	}
	// Known types always have an entry
	if got := rules.AdvantagesOf(FootArcher); len(got) != 0 {
		t.Errorf("FootArcher should have an empty entry, got %v", got)
	}
}

func TestRulesUnitTypesIncludesCustom(t *testing.T) {
	rules, err := NewRules(map[UnitType][]UnitType{"Catapult": {Militia}}, nil)
	if err != nil {
		t.Fatalf("NewRules failed: %v", err)
	}
	types := rules.UnitTypes()
	if len(types) != len(AllUnitTypes())+1 {
		t.Fatalf("expected %d unit types, got %v", len(AllUnitTypes())+1, types)
	}
	if types[len(types)-1] != "Catapult" {
		t.Errorf("expected custom type last, got %v", types)
	}
}

func TestRulesUnitTypesIncludesMultiplierOnlyTypes(t *testing.T) {
	rules, err := NewRules(
		map[UnitType][]UnitType{"Catapult": {Militia}},
		map[TerrainType]map[UnitType]float64{
			Hill:   {"Ballista": 2, "Catapult": 0.5},
			Plains: {"Ballista": 0.5},
		},
	)
	if err != nil {
		t.Fatalf("NewRules failed: %v", err)
	}

	types := rules.UnitTypes()
	want := append(AllUnitTypes(), "Ballista", "Catapult")
	if len(types) != len(want) {
		t.Fatalf("expected %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("UnitTypes()[%d] = %s, want %s", i, types[i], want[i])
		}
	}
}

func TestNewRulesRejectsNonFiniteMultipliers(t *testing.T) {
	for _, factor := range []float64{math.NaN(), math.Inf(1), -1} {
		if _, err := NewRules(nil, map[TerrainType]map[UnitType]float64{Hill: {Militia: factor}}); err == nil {
			t.Errorf("expected error for multiplier %v", factor)
		}
	}
}

func TestStrengthIsExactForHugeCounts(t *testing.T) {
	rules := DefaultRules()

	// 2^53+1 has no float64 representation
	p := Platoon{Type: Militia, Units: 9007199254740993}
	if got := rules.Strength(Default, p); got.Cmp(new(big.Rat).SetInt64(9007199254740993)) != 0 {
		t.Errorf("Strength on Default = %s, want 9007199254740993", got.RatString())
	}
	if got := rules.Strength(Hill, p); got.Cmp(big.NewRat(9007199254740993, 2)) != 0 {
		t.Errorf("Strength on Hill = %s, want 9007199254740993/2", got.RatString())
	}

	maxUnits := Platoon{Type: FootArcher, Units: math.MaxInt}
	want := new(big.Rat).Mul(new(big.Rat).SetInt64(math.MaxInt), big.NewRat(2, 1))
	if got := rules.Strength(Muddy, maxUnits); got.Cmp(want) != 0 {
		t.Errorf("Strength of max count on Muddy = %s, want %s", got.RatString(), want.RatString())
	}
}
