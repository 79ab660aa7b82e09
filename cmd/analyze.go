package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/graph"
)

var (
	analyzeJSON              bool
	analyzeTopN              int
	analyzeProlificThreshold int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze family structure: families, generations, consistency, health score",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		g, err := loadGraph(d)
		if err != nil {
			return err
		}

		config := &graph.AnalyzerConfig{
			ProlificThreshold: appConfig.Analysis.ProlificThreshold,
			TopN:              appConfig.Analysis.TopN,
			Validation:        validatorConfig(),
		}
		if cmd.Flags().Changed("top-n") {
			config.TopN = analyzeTopN
		}
		if cmd.Flags().Changed("prolific-threshold") {
			config.ProlificThreshold = analyzeProlificThreshold
		}

		report := graph.Analyze(g, config)

		if analyzeJSON {
			return printJSON(report)
		}

		printHumanReadable(report, g)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output as JSON")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top-n", 10, "Number of top items to show per section")
	analyzeCmd.Flags().IntVar(&analyzeProlificThreshold, "prolific-threshold", 6, "Children above which a parent is listed as prolific")
	rootCmd.AddCommand(analyzeCmd)
}

func printHumanReadable(report *graph.AnalysisReport, g *graph.Graph) {
	// Health bar
	barLen := min(int(report.HealthScore*20), 20)
	bar := strings.Repeat("█", barLen) + strings.Repeat("░", 20-barLen)
	fmt.Printf("\n  Tree Health: %.0f%%  [%s]\n", report.HealthScore*100, bar)
	fmt.Printf("  breakdown: connectivity=%.2f cohesion=%.2f consistency=%.2f\n\n",
		report.HealthBreakdown.Connectivity,
		report.HealthBreakdown.Cohesion,
		report.HealthBreakdown.Consistency)

	// Topology
	t := report.Topology
	fmt.Println("  FAMILIES")
	fmt.Println("  ────────────────────────────────────────")
	fmt.Printf("  Persons: %d  Parent links: %d  Marriages: %d\n", t.TotalPersons, t.ParentLinks, t.SpouseLinks)
	fmt.Printf("  Families: %d  Largest: %d  Smallest: %d\n", t.NumFamilies, t.LargestFamily, t.SmallestFamily)
	fmt.Printf("  Founders: %d  Deepest line: %d generations\n", t.Founders, t.MaxGenerations)

	if t.IsolatedCount > 0 {
		fmt.Printf("  Isolated: %d persons with no recorded relatives\n", t.IsolatedCount)
		limit := min(len(t.IsolatedIDs), 5)
		for _, id := range t.IsolatedIDs[:limit] {
			fmt.Printf("    - %s (%s)\n", truncID(id), truncTitle(nameOf(g, id), 50))
		}
		if t.IsolatedCount > 5 {
			fmt.Printf("    ... and %d more\n", t.IsolatedCount-5)
		}
	}

	// Children distribution
	fmt.Println("\n  Children per person:")
	for _, b := range t.ChildHistogram {
		if b.Count > 0 {
			barWidth := max(int(math.Log2(float64(b.Count)))+2, 1)
			fmt.Printf("    %5s: %4d  %s\n", b.Label, b.Count, strings.Repeat("=", barWidth))
		}
	}

	if len(t.ProlificParents) > 0 {
		fmt.Println("\n  Prolific parents:")
		for _, p := range t.ProlificParents {
			fmt.Printf("    %s children=%d spouses=%d  %s\n",
				truncID(p.ID), p.Children, p.Spouses, truncTitle(p.DisplayName, 40))
		}
	}

	printViolations(report.Validation)
	fmt.Println()
}

func printViolations(v *graph.ValidationResult) {
	if len(v.Violations) == 0 {
		return
	}
	fmt.Println("\n  CONSISTENCY")
	fmt.Println("  ────────────────────────────────────────")
	errs, warns := v.Errors(), v.Warnings()
	if len(errs) > 0 {
		fmt.Printf("  %d errors:\n", len(errs))
		for _, e := range errs[:min(len(errs), 10)] {
			fmt.Printf("    [%s] %s\n", e.Kind, e.Message)
		}
	}
	if len(warns) > 0 {
		fmt.Printf("  %d warnings:\n", len(warns))
		for _, w := range warns[:min(len(warns), 10)] {
			fmt.Printf("    [%s] %s\n", w.Kind, w.Message)
		}
	}
}
