package models

// Scenario is a battle described by its raw input strings
type Scenario struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Mine        string `yaml:"mine" json:"mine"`
	Opponent    string `yaml:"opponent" json:"opponent"`
	Terrain     string `yaml:"terrain,omitempty" json:"terrain,omitempty"`
}

// Sample battle used when no input is given
const (
	SampleMine     = "Militia#100;Spearmen#100;LightCavalry#100;HeavyCavalry#100;FootArcher#100"
	SampleOpponent = "Militia#99;Spearmen#100;LightCavalry#100;HeavyCavalry#100;FootArcher#100"
	SampleTerrain  = "Muddy;Default;Default;Default;Default"
)

// SampleScenario returns the built-in sample battle
func SampleScenario() Scenario {
	return Scenario{
		Name:     "sample",
		Mine:     SampleMine,
		Opponent: SampleOpponent,
		Terrain:  SampleTerrain,
	}
}

// WithDefaults fills empty inputs from the sample battle
func (s Scenario) WithDefaults() Scenario {
	if s.Mine == "" {
		s.Mine = SampleMine
	}
	if s.Opponent == "" {
		s.Opponent = SampleOpponent
	}
	if s.Terrain == "" {
		s.Terrain = SampleTerrain
	}
	return s
}

// Parsed is a scenario turned into armies and terrains
type Parsed struct {
	Mine     Army
	Opponent Army
	Terrains Terrains
	Skipped  []error
}

// Parse parses all three inputs, collecting every skipped token
func (s Scenario) Parse() Parsed {
	var p Parsed
	var skipped []error

	p.Mine, skipped = ParseArmy(s.Mine)
	p.Skipped = append(p.Skipped, skipped...)
	p.Opponent, skipped = ParseArmy(s.Opponent)
	p.Skipped = append(p.Skipped, skipped...)
	p.Terrains, skipped = ParseTerrains(s.Terrain)
	p.Skipped = append(p.Skipped, skipped...)

	return p
}
