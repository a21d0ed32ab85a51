package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/battle-solver/internal/converter"
	"github.com/napolitain/battle-solver/internal/loader"
	"github.com/napolitain/battle-solver/internal/models"
	"github.com/napolitain/battle-solver/internal/solver/battle"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the advantage table and terrain multipliers",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := loadRules()
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(converter.RulesToReport(rules))
			}
			printRules(rules)
			return nil
		},
	}
	cmd.Flags().StringVarP(&rulesFile, "rules", "r", "", "Path to YAML rules file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the rules as JSON")
	return cmd
}

func printRules(rules *models.Rules) {
	fmt.Println("📋 Advantages:")
	advTable := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Unit", "Advantaged Over"}),
	)
	for _, u := range rules.UnitTypes() {
		over := rules.AdvantagesOf(u)
		names := make([]string, len(over))
		for i, o := range over {
			names[i] = string(o)
		}
		_ = advTable.Append([]string{string(u), strings.Join(names, ", ")})
	}
	_ = advTable.Render()

	fmt.Println("\n🏔️  Terrain multipliers:")
	header := []string{"Unit"}
	for _, t := range models.AllTerrainTypes() {
		header = append(header, string(t))
	}
	terrainTable := tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(header))
	for _, u := range rules.UnitTypes() {
		row := []string{string(u)}
		for _, t := range models.AllTerrainTypes() {
			row = append(row, fmt.Sprintf("×%g", rules.Multiplier(t, u)))
		}
		_ = terrainTable.Append(row)
	}
	_ = terrainTable.Render()
}

func newScenariosCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Solve every scenario in a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := loadRules()
			if err != nil {
				return err
			}
			scenarios, err := loader.LoadScenarioDir(dir)
			if err != nil {
				return err
			}
			return runScenarios(cmd.Context(), rules, scenarios)
		},
	}
	cmd.Flags().StringVarP(&dir, "data", "d", "data/scenarios", "Path to scenario directory")
	cmd.Flags().StringVarP(&rulesFile, "rules", "r", "", "Path to YAML rules file")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Goroutines used for each search")
	return cmd
}

func runScenarios(ctx context.Context, rules *models.Rules, scenarios []models.Scenario) error {
	if ctx == nil {
		ctx = context.Background()
	}
	successColor := color.New(color.FgGreen)
	errorColor := color.New(color.FgRed)

	solver := battle.NewSolver(battle.WithRules(rules), battle.WithWorkers(workers))

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Scenario", "Outcome", "Wins", "Skipped", "Result"}),
	)

	found := 0
	for i, s := range scenarios {
		parsed := s.WithDefaults().Parse()
		result, err := solver.Solve(ctx, parsed.Mine, parsed.Opponent, parsed.Terrains)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		if result.Found() {
			found++
		}
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			s.Name,
			result.Outcome.String(),
			fmt.Sprintf("%d/%d", result.Wins, result.Threshold),
			fmt.Sprintf("%d", len(parsed.Skipped)),
			result.String(),
		})
	}
	_ = table.Render()

	if found == len(scenarios) {
		successColor.Printf("\n✅ %d/%d scenarios winnable\n", found, len(scenarios))
	} else {
		errorColor.Printf("\n❌ %d/%d scenarios winnable\n", found, len(scenarios))
	}
	return nil
}
