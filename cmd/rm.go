package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/db"
)

var rmForce bool

var errStillReferenced = errors.New("person is still referenced")

var rmCmd = &cobra.Command{
	Use:   "rm <person>",
	Short: "Remove a person",
	Long: `Remove deletes a person. It refuses while other persons name it as
father, mother or spouse; --force clears those references first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		p, err := ResolvePerson(d, args[0])
		if err != nil {
			return err
		}
		detached, err := removePerson(d, p.ID, rmForce)
		if err != nil {
			return err
		}
		appLog.Info("Removed person", "id", p.ID, "name", p.DisplayName, "detached", len(detached))
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolVar(&rmForce, "force", false, "Clear references held by other persons and remove")
	rootCmd.AddCommand(rmCmd)
}

// removePerson deletes id and returns the persons whose references to it
// were cleared. Without force it refuses while any reference remains.
func removePerson(d *db.DB, id string, force bool) ([]string, error) {
	refs, err := d.ReferencesTo(id)
	if err != nil {
		return nil, err
	}
	if len(refs) > 0 && !force {
		return nil, fmt.Errorf("%w by %s (use --force to detach)", errStillReferenced, strings.Join(refs, ", "))
	}
	if err := d.DeletePerson(id, force); err != nil {
		return nil, err
	}
	return refs, nil
}
