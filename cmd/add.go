package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/cobra"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/db"
	"github.com/WarBros01113/Kin-Konnect-sub001/internal/graph"
)

var (
	addID         string
	addName       string
	addSurname    string
	addSex        string
	addFather     string
	addMother     string
	addSpouses    []string
	addBirthDate  string
	addBirthPlace string
	addRegion     string
	addForce      bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update one person",
	Long: `Add writes a single person. Father, mother and spouse references accept
an id, id prefix or name. Spouse links are recorded in both directions.
The resulting tree is validated first; errors abort unless --force.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenOrCreateDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		p := db.Person{
			ID:          addID,
			DisplayName: addName,
			Sex:         string(graph.ParseSex(addSex)),
			Surname:     optional(addSurname),
			BirthDate:   optional(addBirthDate),
			BirthPlace:  optional(addBirthPlace),
			Region:      optional(addRegion),
		}
		if p.FatherID, err = resolveOptional(d, addFather); err != nil {
			return fmt.Errorf("father: %w", err)
		}
		if p.MotherID, err = resolveOptional(d, addMother); err != nil {
			return fmt.Errorf("mother: %w", err)
		}
		for _, ref := range addSpouses {
			s, err := ResolvePerson(d, ref)
			if err != nil {
				return fmt.Errorf("spouse: %w", err)
			}
			p.SpouseIDs = append(p.SpouseIDs, s.ID)
		}

		saved, err := addPerson(d, p, validatorConfig(), appLog, addForce)
		if err != nil {
			return err
		}
		appLog.Info("Saved person", "id", saved.ID, "name", saved.DisplayName)
		fmt.Println(saved.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addID, "id", "", "Person id (generated when empty)")
	addCmd.Flags().StringVar(&addName, "name", "", "Display name")
	addCmd.Flags().StringVar(&addSurname, "surname", "", "Surname")
	addCmd.Flags().StringVar(&addSex, "sex", "", "male, female or unspecified")
	addCmd.Flags().StringVar(&addFather, "father", "", "Father reference")
	addCmd.Flags().StringVar(&addMother, "mother", "", "Mother reference")
	addCmd.Flags().StringSliceVar(&addSpouses, "spouse", nil, "Spouse reference (repeatable)")
	addCmd.Flags().StringVar(&addBirthDate, "birth-date", "", "Birth date")
	addCmd.Flags().StringVar(&addBirthPlace, "birth-place", "", "Birth place")
	addCmd.Flags().StringVar(&addRegion, "region", "", "Region")
	addCmd.Flags().BoolVar(&addForce, "force", false, "Write even if validation reports errors")
	addCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(addCmd)
}

// addPerson validates the tree with p written over the store, then upserts p
// and links each of its spouses back to it.
func addPerson(d *db.DB, p db.Person, vcfg graph.ValidatorConfig, logger *log.Logger, force bool) (*db.Person, error) {
	if p.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("generating id: %w", err)
		}
		p.ID = id
	}

	existing, err := d.AllPersons()
	if err != nil {
		return nil, fmt.Errorf("reading existing persons: %w", err)
	}
	if _, err := checkMerged(existing, []db.Person{p}, vcfg, logger, force); err != nil {
		return nil, fmt.Errorf("person %s rejected: %w", p.ID, err)
	}

	if err := d.UpsertPerson(p); err != nil {
		return nil, err
	}
	for _, s := range p.SpouseIDs {
		if s == p.ID {
			continue
		}
		if err := d.LinkSpouses(p.ID, s); err != nil {
			return nil, err
		}
	}
	return d.GetPerson(p.ID)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func resolveOptional(d *db.DB, ref string) (*string, error) {
	if ref == "" {
		return nil, nil
	}
	p, err := ResolvePerson(d, ref)
	if err != nil {
		return nil, err
	}
	return &p.ID, nil
}
