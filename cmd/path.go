package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/kinship"
)

var pathJSON bool

var pathCmd = &cobra.Command{
	Use:   "path <from> <to>",
	Short: "Show how two persons are related",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		from, err := ResolvePerson(d, args[0])
		if err != nil {
			return err
		}
		to, err := ResolvePerson(d, args[1])
		if err != nil {
			return err
		}

		g, err := loadGraph(d)
		if err != nil {
			return err
		}

		path, err := kinship.Resolve(g, from.ID, to.ID)
		if err != nil {
			return err
		}

		if pathJSON {
			return printJSON(path)
		}

		fmt.Printf("\n  %s is %s's %s", to.DisplayName, from.DisplayName, path.Term)
		if path.Term != path.Label {
			fmt.Printf(" (%s)", path.Label)
		}
		fmt.Printf("\n  distance: %d\n\n", path.Distance)
		fmt.Printf("    %s\n", from.DisplayName)
		for _, s := range path.Steps {
			fmt.Printf("    -%s-> %s\n", s.Kind, nameOf(g, s.To))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	pathCmd.Flags().BoolVar(&pathJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(pathCmd)
}
