package models

import (
	"errors"
	"math"
	"testing"
)

func TestParseArmy(t *testing.T) {
	army, skipped := ParseArmy("Militia#100;Spearmen#100;LightCavalry#100;HeavyCavalry#100;FootArcher#100")

	if len(skipped) != 0 {
		t.Fatalf("expected no skipped tokens, got %v", skipped)
	}
	want := Army{
		{Militia, 100}, {Spearmen, 100}, {LightCavalry, 100}, {HeavyCavalry, 100}, {FootArcher, 100},
	}
	if len(army) != len(want) {
		t.Fatalf("expected %d platoons, got %d", len(want), len(army))
	}
	for i := range want {
		if army[i] != want[i] {
			t.Errorf("platoon %d: expected %v, got %v", i, want[i], army[i])
		}
	}
}

func TestParseArmySkipsMalformedTokens(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Army
		skipped int
	}{
		{"missing count", "Militia;Spearmen#10", Army{{Spearmen, 10}}, 1},
		{"two separators", "Militia#1#2;Spearmen#10", Army{{Spearmen, 10}}, 1},
		{"not a number", "Militia#ten;Spearmen#10", Army{{Spearmen, 10}}, 1},
		{"negative count", "Militia#-5;Spearmen#10", Army{{Spearmen, 10}}, 1},
		{"empty name", "#5;Spearmen#10", Army{{Spearmen, 10}}, 1},
		{"trailing separator", "Militia#5;", Army{{Militia, 5}}, 0},
		{"whitespace", " Militia # 5 ; Spearmen#10 ", Army{{Militia, 5}, {Spearmen, 10}}, 0},
		{"zero units", "Militia#0", Army{{Militia, 0}}, 0},
		{"empty input", "", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			army, skipped := ParseArmy(tt.input)
			if len(skipped) != tt.skipped {
				t.Errorf("expected %d skipped, got %d (%v)", tt.skipped, len(skipped), skipped)
			}
			if len(army) != len(tt.want) {
				t.Fatalf("expected army %v, got %v", tt.want, army)
			}
			for i := range tt.want {
				if army[i] != tt.want[i] {
					t.Errorf("platoon %d: expected %v, got %v", i, tt.want[i], army[i])
				}
			}
		})
	}
}

func TestParseArmyKeepsUnknownUnitTypes(t *testing.T) {
	army, skipped := ParseArmy("Catapult#3;Militia#4")
	if len(skipped) != 0 {
		t.Fatalf("unknown unit types must not be skipped: %v", skipped)
	}
	if len(army) != 2 || army[0].Type != "Catapult" || army[0].Units != 3 {
		t.Fatalf("expected Catapult#3 first, got %v", army)
	}
}

func TestParseArmySkippedAreTokenErrors(t *testing.T) {
	_, skipped := ParseArmy("Militia#x")
	if len(skipped) != 1 {
		t.Fatalf("expected 1 skipped token, got %d", len(skipped))
	}
	var tokErr *TokenError
	if !errors.As(skipped[0], &tokErr) {
		t.Fatalf("expected *TokenError, got %T", skipped[0])
	}
	if tokErr.Token != "Militia#x" {
		t.Errorf("expected token Militia#x, got %q", tokErr.Token)
	}
}

func TestArmyString(t *testing.T) {
	input := "Militia#100;Spearmen#0;Catapult#7"
	army, _ := ParseArmy(input)
	if got := army.String(); got != input {
		t.Errorf("expected %q, got %q", input, got)
	}
	if got := army.TotalUnits(); got != 107 {
		t.Errorf("expected 107 units, got %d", got)
	}
}

func TestArmyCloneIsIndependent(t *testing.T) {
	army := Army{{Militia, 1}}
	c := army.Clone()
	c[0].Units = 99
	if army[0].Units != 1 {
		t.Error("Clone shares storage with the original")
	}
}

func TestParseTerrains(t *testing.T) {
	terrains, skipped := ParseTerrains("Muddy;Default;Swamp;Hill;Plains")
	if len(skipped) != 1 {
		t.Errorf("expected 1 skipped terrain, got %v", skipped)
	}
	want := Terrains{Muddy, Default, Hill, Plains}
	if len(terrains) != len(want) {
		t.Fatalf("expected %v, got %v", want, terrains)
	}
	for i := range want {
		if terrains[i] != want[i] {
			t.Errorf("lane %d: expected %s, got %s", i, want[i], terrains[i])
		}
	}
	if terrains.String() != "Muddy;Default;Hill;Plains" {
		t.Errorf("unexpected String(): %s", terrains.String())
	}
}

func TestTerrainsAtDefaultsPastEnd(t *testing.T) {
	terrains := Terrains{Muddy}
	if terrains.At(0) != Muddy {
		t.Errorf("lane 0: expected Muddy, got %s", terrains.At(0))
	}
	if terrains.At(4) != Default {
		t.Errorf("lane 4: expected Default, got %s", terrains.At(4))
	}
	var none Terrains
	if none.At(0) != Default {
		t.Errorf("nil terrains: expected Default, got %s", none.At(0))
	}
}

func TestParsePlatoonCountLimits(t *testing.T) {
	p, err := ParsePlatoon("Militia#9223372036854775807")
	if err != nil {
		t.Fatalf("largest count rejected: %v", err)
	}
	if p.Units != math.MaxInt || p.String() != "Militia#9223372036854775807" {
		t.Errorf("expected Militia#9223372036854775807, got %v", p)
	}

	tests := []struct {
		token  string
		reason string
	}{
		{"Militia#99999999999999999999", "count exceeds the maximum of 9223372036854775807"},
		{"Militia#9223372036854775808", "count exceeds the maximum of 9223372036854775807"},
		{"Militia#-99999999999999999999", "count is negative"},
	}
	for _, tt := range tests {
		_, err := ParsePlatoon(tt.token)
		var tokenErr *TokenError
		if !errors.As(err, &tokenErr) {
			t.Fatalf("%s: expected *TokenError, got %v", tt.token, err)
		}
		if tokenErr.Reason != tt.reason {
			t.Errorf("%s: reason = %q, want %q", tt.token, tokenErr.Reason, tt.reason)
		}
	}
}

func TestParseArmyReportsOversizedCount(t *testing.T) {
	army, skipped := ParseArmy("Militia#99999999999999999999;Spearmen#1")
	if len(army) != 1 || army[0] != (Platoon{Spearmen, 1}) {
		t.Fatalf("expected only Spearmen#1, got %v", army)
	}
	if len(skipped) != 1 {
		t.Fatalf("expected the oversized token to be reported, got %v", skipped)
	}
	var tokenErr *TokenError
	if !errors.As(skipped[0], &tokenErr) || tokenErr.Token != "Militia#99999999999999999999" {
		t.Errorf("unexpected skipped error: %v", skipped[0])
	}
}
