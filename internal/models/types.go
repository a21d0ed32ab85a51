package models

// UnitType represents the kind of troops a platoon holds.
// Names outside the known set are kept as-is: they parse, fight, and hold no advantages.
type UnitType string

const (
	Militia       UnitType = "Militia"
	Spearmen      UnitType = "Spearmen"
	LightCavalry  UnitType = "LightCavalry"
	HeavyCavalry  UnitType = "HeavyCavalry"
	CavalryArcher UnitType = "CavalryArcher"
	FootArcher    UnitType = "FootArcher"
)

// AllUnitTypes returns all known unit types in deterministic order
func AllUnitTypes() []UnitType {
	return []UnitType{
		Militia, Spearmen, LightCavalry,
		HeavyCavalry, CavalryArcher, FootArcher,
	}
}

// Known reports whether the unit type belongs to the built-in set
func (u UnitType) Known() bool {
	switch u {
	case Militia, Spearmen, LightCavalry, HeavyCavalry, CavalryArcher, FootArcher:
		return true
	}
	return false
}

func (u UnitType) String() string {
	return string(u)
}

// TerrainType represents the ground a lane is fought on
type TerrainType string

const (
	Default TerrainType = "Default"
	Hill    TerrainType = "Hill"
	Plains  TerrainType = "Plains"
	Muddy   TerrainType = "Muddy"
)

// AllTerrainTypes returns all terrain types in deterministic order
func AllTerrainTypes() []TerrainType {
	return []TerrainType{Default, Hill, Plains, Muddy}
}

// ParseTerrainType returns the terrain for a name, or false if the name is unknown
func ParseTerrainType(name string) (TerrainType, bool) {
	switch t := TerrainType(name); t {
	case Default, Hill, Plains, Muddy:
		return t, true
	}
	return "", false
}

func (t TerrainType) String() string {
	return string(t)
}

// Terrains holds one terrain per lane
type Terrains []TerrainType

// At returns the terrain of lane i. Lanes past the end are Default.
func (ts Terrains) At(i int) TerrainType {
	if i < 0 || i >= len(ts) {
		return Default
	}
	return ts[i]
}
