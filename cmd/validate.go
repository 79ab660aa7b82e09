package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/graph"
)

var (
	validateJSON     bool
	validateSexRoles bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the stored tree for parent cycles and inconsistent records",
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

		cfg := validatorConfig()
		if cmd.Flags().Changed("sex-roles") {
			cfg.CheckSexRoles = validateSexRoles
		}
		res := graph.Validate(g, cfg)

		if validateJSON {
			if err := printJSON(res); err != nil {
				return err
			}
		} else {
			if len(res.Violations) == 0 {
				fmt.Printf("  %d persons, no problems found\n", g.Len())
			}
			printViolations(res)
		}

		if !res.OK {
			return fmt.Errorf("%d errors: %w", len(res.Errors()), errValidationFailed)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output as JSON")
	validateCmd.Flags().BoolVar(&validateSexRoles, "sex-roles", true, "Warn when a father is recorded female or a mother male")
	rootCmd.AddCommand(validateCmd)
}
