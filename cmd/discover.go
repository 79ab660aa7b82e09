package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/discovery"
)

var (
	discoverJSON     bool
	discoverLimit    int
	discoverMinScore float64
)

var discoverCmd = &cobra.Command{
	Use:   "discover <person>",
	Short: "Suggest probable relatives not yet linked to a person",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		focal, err := ResolvePerson(d, args[0])
		if err != nil {
			return err
		}
		g, err := loadGraph(d)
		if err != nil {
			return err
		}

		cfg := appConfig.Discovery
		cfg.Limit = discoverLimit
		if cmd.Flags().Changed("min-score") {
			cfg.MinScore = discoverMinScore
		}

		matches, err := discovery.FindCandidates(cmd.Context(), g, focal.ID, nil, cfg)
		if err != nil {
			return err
		}

		if discoverJSON {
			return printJSON(matches)
		}

		if len(matches) == 0 {
			fmt.Printf("  no candidates for %s\n", focal.DisplayName)
			return nil
		}
		fmt.Printf("\n  Probable relatives of %s:\n", focal.DisplayName)
		for _, m := range matches {
			matched := make([]string, len(m.Matched))
			for i, a := range m.Matched {
				matched[i] = string(a)
			}
			fmt.Printf("    %.2f  %s %s  [%s]\n",
				m.Score, truncID(m.CandidateID), truncTitle(m.DisplayName, 40), strings.Join(matched, ", "))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "Output as JSON")
	discoverCmd.Flags().IntVar(&discoverLimit, "limit", 20, "Maximum candidates to show (0 = all)")
	discoverCmd.Flags().Float64Var(&discoverMinScore, "min-score", 0, "Only show candidates scoring above this")
	rootCmd.AddCommand(discoverCmd)
}
