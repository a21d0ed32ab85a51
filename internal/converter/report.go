// Package converter provides conversions between solver results and their wire/report forms
package converter

import (
	"github.com/napolitain/battle-solver/internal/models"
	"github.com/napolitain/battle-solver/internal/solver/battle"
)

// LaneReport is one engagement of the winning arrangement
type LaneReport struct {
	Lane             int     `json:"lane"`
	Terrain          string  `json:"terrain"`
	Attacker         string  `json:"attacker"`
	Defender         string  `json:"defender"`
	AttackerStrength float64 `json:"attacker_strength"`
	DefenderStrength float64 `json:"defender_strength"`
	Advantage        string  `json:"advantage"`
	Won              bool    `json:"won"`
}

// Report is the serializable form of a search result
type Report struct {
	Outcome     string       `json:"outcome"`
	Message     string       `json:"message"`
	Arrangement []string     `json:"arrangement,omitempty"`
	Order       []int        `json:"order,omitempty"`
	Wins        int          `json:"wins"`
	Threshold   int          `json:"threshold"`
	Lanes       []LaneReport `json:"lanes,omitempty"`
	Visited     int64        `json:"visited"`
	Skipped     []string     `json:"skipped,omitempty"`
}

// LaneToReport converts a resolved lane
func LaneToReport(l battle.Lane) LaneReport {
	return LaneReport{
		Lane:             l.Index,
		Terrain:          string(l.Terrain),
		Attacker:         l.Attacker.String(),
		Defender:         l.Defender.String(),
		AttackerStrength: l.AttackerStrength,
		DefenderStrength: l.DefenderStrength,
		Advantage:        l.Advantage.String(),
		Won:              l.Won,
	}
}

// ResultToReport converts a search result and the tokens skipped while parsing its input
func ResultToReport(r *battle.Result, skipped []error) *Report {
	report := &Report{
		Outcome:   r.Outcome.String(),
		Message:   r.String(),
		Wins:      r.Wins,
		Threshold: r.Threshold,
		Visited:   r.Visited,
		Order:     r.Order,
	}

	for _, p := range r.Arrangement {
		report.Arrangement = append(report.Arrangement, p.String())
	}
	for _, l := range r.Engagements {
		report.Lanes = append(report.Lanes, LaneToReport(l))
	}
	for _, err := range skipped {
		report.Skipped = append(report.Skipped, err.Error())
	}

	return report
}

// RulesReport is the serializable form of the rules in use
type RulesReport struct {
	Advantages  map[string][]string           `json:"advantages"`
	Multipliers map[string]map[string]float64 `json:"multipliers"`
}

// RulesToReport lists every advantage and every multiplier other than x1
func RulesToReport(rules *models.Rules) *RulesReport {
	report := &RulesReport{
		Advantages:  make(map[string][]string),
		Multipliers: make(map[string]map[string]float64),
	}

	units := rules.UnitTypes()
	for _, u := range units {
		over := rules.AdvantagesOf(u)
		names := make([]string, len(over))
		for i, o := range over {
			names[i] = string(o)
		}
		report.Advantages[string(u)] = names
	}

	for _, terrain := range models.AllTerrainTypes() {
		m := make(map[string]float64)
		for _, u := range units {
			if f := rules.Multiplier(terrain, u); f != 1 {
				m[string(u)] = f
			}
		}
		report.Multipliers[string(terrain)] = m
	}

	return report
}
