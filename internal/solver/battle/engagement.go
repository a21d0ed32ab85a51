package battle

import (
	"math/big"

	"github.com/napolitain/battle-solver/internal/models"
)

// Advantage tells which side of an engagement holds the type advantage
type Advantage int

const (
	AdvantageNone Advantage = iota
	AdvantageAttacker
	AdvantageDefender
)

func (a Advantage) String() string {
	switch a {
	case AdvantageAttacker:
		return "attacker"
	case AdvantageDefender:
		return "defender"
	}
	return "none"
}

// AdvantageFactor is how many times its own strength an advantaged platoon can beat
const AdvantageFactor = 2

// Lane is one resolved engagement between an attacker and a defender platoon.
// The strengths are for display; the outcome is decided on exact values.
type Lane struct {
	Index            int
	Terrain          models.TerrainType
	Attacker         models.Platoon
	Defender         models.Platoon
	AttackerStrength float64
	DefenderStrength float64
	Advantage        Advantage
	Won              bool
}

// Resolve fights one engagement on the given terrain.
// The attacker's advantage is checked first, so a table with mutual advantage
// resolves in the attacker's favour. Ties are losses for the attacker.
func Resolve(rules *models.Rules, attacker, defender models.Platoon, terrain models.TerrainType) Lane {
	a := rules.Strength(terrain, attacker)
	d := rules.Strength(terrain, defender)

	lane := Lane{
		Terrain:  terrain,
		Attacker: attacker,
		Defender: defender,
	}
	lane.AttackerStrength, _ = a.Float64()
	lane.DefenderStrength, _ = d.Float64()

	switch {
	case rules.HasAdvantage(attacker.Type, defender.Type):
		lane.Advantage = AdvantageAttacker
		a.Mul(a, big.NewRat(AdvantageFactor, 1))
	case rules.HasAdvantage(defender.Type, attacker.Type):
		lane.Advantage = AdvantageDefender
		d.Mul(d, big.NewRat(AdvantageFactor, 1))
	}
	lane.Won = a.Cmp(d) > 0

	return lane
}

// Engage reports whether the attacker wins the engagement
func Engage(rules *models.Rules, attacker, defender models.Platoon, terrain models.TerrainType) bool {
	return Resolve(rules, attacker, defender, terrain).Won
}
