package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/napolitain/battle-solver/internal/converter"
	"github.com/napolitain/battle-solver/internal/loader"
	"github.com/napolitain/battle-solver/internal/models"
	"github.com/napolitain/battle-solver/internal/solver/battle"
)

var (
	mineFlag     string
	opponentFlag string
	terrainFlag  string
	scenarioFile string
	scenarioName string
	rulesFile    string
	workers      int
	threshold    int
	timeout      time.Duration
	jsonOutput   bool
	quiet        bool
	verbose      bool
	interactive  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "battle",
		Short: "Five-lane battle arrangement solver",
		Long: `Finds an ordering of your platoons that wins the majority of lanes
against a fixed opponent line-up, taking unit advantages and lane terrain into account.

Armies are written as Name#count tokens joined by ';', terrains as names joined by ';'.`,
		PersistentPreRun: setupLogging,
		RunE:             runSolver,
		SilenceUsage:     true,
	}

	rootCmd.Flags().StringVarP(&mineFlag, "mine", "m", "", "Your platoons (default: sample battle)")
	rootCmd.Flags().StringVarP(&opponentFlag, "opponent", "o", "", "Opponent platoons, in lane order")
	rootCmd.Flags().StringVarP(&terrainFlag, "terrain", "t", "", "Lane terrains (Default, Hill, Plains, Muddy)")
	rootCmd.Flags().StringVarP(&scenarioFile, "scenario", "s", "", "Path to YAML scenario file")
	rootCmd.Flags().StringVar(&scenarioName, "name", "", "Scenario to run from the scenario file (default: first)")
	rootCmd.Flags().StringVarP(&rulesFile, "rules", "r", "", "Path to YAML rules file")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 1, "Goroutines used for the search")
	rootCmd.Flags().IntVar(&threshold, "threshold", 0, "Lane wins needed (default: majority)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort the search after this long (0 = never)")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only the result line")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for the armies and terrains")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every engagement")

	rootCmd.AddCommand(newRulesCmd(), newScenariosCmd())

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	switch {
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case quiet || jsonOutput:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

func loadRules() (*models.Rules, error) {
	if rulesFile == "" {
		return models.DefaultRules(), nil
	}
	rules, err := loader.LoadRules(rulesFile)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	return rules, nil
}

// resolveScenario picks the battle to solve: scenario file, then prompt, then flags.
// Empty inputs fall back to the sample battle.
func resolveScenario() (models.Scenario, error) {
	s := models.Scenario{Name: "command line", Mine: mineFlag, Opponent: opponentFlag, Terrain: terrainFlag}

	if scenarioFile != "" {
		scenarios, err := loader.LoadScenarios(scenarioFile)
		if err != nil {
			return s, fmt.Errorf("loading scenario: %w", err)
		}
		if len(scenarios) == 0 {
			return s, fmt.Errorf("no scenarios in %s", scenarioFile)
		}
		s = scenarios[0]
		if scenarioName != "" {
			found, ok := loader.FindScenario(scenarios, scenarioName)
			if !ok {
				return s, fmt.Errorf("scenario %q not found in %s", scenarioName, scenarioFile)
			}
			s = found
		}
	}

	if interactive {
		answered, err := promptScenario(s)
		if err != nil {
			return s, err
		}
		s = answered
	}

	return s.WithDefaults(), nil
}

func runSolver(cmd *cobra.Command, args []string) error {
	titleColor := color.New(color.FgCyan, color.Bold)
	infoColor := color.New(color.FgYellow)

	rules, err := loadRules()
	if err != nil {
		return err
	}

	scenario, err := resolveScenario()
	if err != nil {
		return err
	}

	if !quiet && !jsonOutput {
		fmt.Println(bannerStyle.Render("Five-Lane Battle Solver"))
		fmt.Println()
	}

	parsed := scenario.Parse()

	if !quiet && !jsonOutput {
		titleColor.Printf("⚔️  %s\n", scenario.Name)
		fmt.Printf("   Mine:     %s\n", parsed.Mine)
		fmt.Printf("   Opponent: %s\n", parsed.Opponent)
		fmt.Printf("   Terrain:  %s\n", parsed.Terrains)
		for _, skipped := range parsed.Skipped {
			infoColor.Printf("   ⚠ %v\n", skipped)
		}
		fmt.Println()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	solver := battle.NewSolver(
		battle.WithRules(rules),
		battle.WithWorkers(workers),
		battle.WithThreshold(threshold),
	)

	start := time.Now()
	result, err := solver.Solve(ctx, parsed.Mine, parsed.Opponent, parsed.Terrains)
	if err != nil {
		return fmt.Errorf("search aborted: %w", err)
	}
	elapsed := time.Since(start)

	log.Info().
		Str("outcome", result.Outcome.String()).
		Int64("visited", result.Visited).
		Dur("elapsed", elapsed).
		Msg("search complete")

	switch {
	case jsonOutput:
		return printJSON(converter.ResultToReport(result, parsed.Skipped))
	case quiet:
		fmt.Println(result)
	default:
		printResult(result, elapsed)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResult(result *battle.Result, elapsed time.Duration) {
	successColor := color.New(color.FgGreen, color.Bold)
	errorColor := color.New(color.FgRed, color.Bold)

	switch result.Outcome {
	case battle.OutcomeSizeMismatch:
		errorColor.Printf("✗ %s\n", result)
		return
	case battle.OutcomeNoSolution:
		errorColor.Printf("✗ %s\n", result)
		fmt.Printf("   Needed %d of %d lanes, searched %d nodes in %s\n",
			result.Threshold, result.Lanes, result.Visited, elapsed.Round(time.Microsecond))
		return
	}

	successColor.Println("✓ Winning arrangement found!")
	fmt.Println()
	printLanes(result.Engagements)

	fmt.Println("\n📊 Summary:")
	fmt.Printf("   Lanes won: %d / %d (needed %d)\n", result.Wins, result.Lanes, result.Threshold)
	fmt.Printf("   Search nodes: %d in %s\n", result.Visited, elapsed.Round(time.Microsecond))
	fmt.Printf("\n%s\n", result)
}

func printLanes(lanes []battle.Lane) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Lane", "Terrain", "Mine", "Opponent", "Strength", "Advantage", "Result"}),
	)

	for _, l := range lanes {
		outcome := "lost"
		if l.Won {
			outcome = "won"
		}
		row := []string{
			fmt.Sprintf("%d", l.Index+1),
			string(l.Terrain),
			l.Attacker.String(),
			l.Defender.String(),
			fmt.Sprintf("%s vs %s", formatStrength(l.AttackerStrength), formatStrength(l.DefenderStrength)),
			l.Advantage.String(),
			outcome,
		}
		_ = table.Append(row)
	}
	_ = table.Render()
}

func formatStrength(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}
