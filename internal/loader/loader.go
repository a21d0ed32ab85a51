package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/battle-solver/internal/models"
)

// RulesYAML represents the YAML structure for a rules file
type RulesYAML struct {
	Advantages  map[string][]string           `yaml:"advantages"`
	Multipliers map[string]map[string]float64 `yaml:"multipliers"`
}

// ScenarioFileYAML represents a scenario file holding one or more battles
type ScenarioFileYAML struct {
	Scenarios []models.Scenario `yaml:"scenarios"`
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// LoadRules loads an advantage table and terrain multipliers from a YAML file.
// Sections left out of the file keep the built-in values.
func LoadRules(path string) (*models.Rules, error) {
	var raw RulesYAML
	if err := loadYAML(path, &raw); err != nil {
		return nil, err
	}
	return RulesFromYAML(raw)
}

// RulesFromYAML converts the raw YAML structure to Rules
func RulesFromYAML(raw RulesYAML) (*models.Rules, error) {
	advantages := models.DefaultAdvantages()
	if raw.Advantages != nil {
		advantages = make(map[models.UnitType][]models.UnitType, len(raw.Advantages))
		for unit, over := range raw.Advantages {
			list := make([]models.UnitType, 0, len(over))
			for _, o := range over {
				list = append(list, models.UnitType(o))
			}
			advantages[models.UnitType(unit)] = list
		}
	}

	multipliers := models.DefaultMultipliers()
	if raw.Multipliers != nil {
		multipliers = make(map[models.TerrainType]map[models.UnitType]float64, len(raw.Multipliers))
		for terrain, byUnit := range raw.Multipliers {
			m := make(map[models.UnitType]float64, len(byUnit))
			for unit, factor := range byUnit {
				m[models.UnitType(unit)] = factor
			}
			multipliers[models.TerrainType(terrain)] = m
		}
	}

	rules, err := models.NewRules(advantages, multipliers)
	if err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	return rules, nil
}

// LoadScenarios loads every scenario of a YAML file.
// Unnamed scenarios are named after the file and their position.
func LoadScenarios(path string) ([]models.Scenario, error) {
	var raw ScenarioFileYAML
	if err := loadYAML(path, &raw); err != nil {
		return nil, err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i := range raw.Scenarios {
		if raw.Scenarios[i].Name == "" {
			raw.Scenarios[i].Name = fmt.Sprintf("%s-%d", base, i+1)
		}
	}
	return raw.Scenarios, nil
}

// LoadScenarioDir loads the scenarios of every .yaml/.yml file in dir, in file name order
func LoadScenarioDir(dir string) ([]models.Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var all []models.Scenario
	for _, name := range names {
		scenarios, err := LoadScenarios(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		all = append(all, scenarios...)
	}
	return all, nil
}

// FindScenario returns the scenario with the given name
func FindScenario(scenarios []models.Scenario, name string) (models.Scenario, bool) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return models.Scenario{}, false
}
