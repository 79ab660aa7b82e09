package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/db"
	"github.com/WarBros01113/Kin-Konnect-sub001/internal/graph"
)

var linkCmd = &cobra.Command{
	Use:   "link <a> <b>",
	Short: "Record two persons as spouses",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		a, err := ResolvePerson(d, args[0])
		if err != nil {
			return err
		}
		b, err := ResolvePerson(d, args[1])
		if err != nil {
			return err
		}
		if err := linkSpouses(d, a.ID, b.ID); err != nil {
			return err
		}
		appLog.Info("Linked spouses", "a", a.DisplayName, "b", b.DisplayName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
}

func linkSpouses(d *db.DB, a, b string) error {
	if a == b {
		return fmt.Errorf("%w: %s cannot be their own spouse", graph.ErrInvalidPerson, a)
	}
	return d.LinkSpouses(a, b)
}
