package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/db"
	"github.com/WarBros01113/Kin-Konnect-sub001/internal/graph"
)

var importForce bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import persons from a JSON or YAML list",
	Long: `Import upserts every person in the file in one transaction. The merged
tree is built and validated first; structural errors abort the import
unless --force is given. Records without an id get a generated one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		persons, err := readPersons(args[0])
		if err != nil {
			return err
		}

		d, err := OpenOrCreateDatabase()
		if err != nil {
			return err
		}
		defer d.Close()

		existing, err := d.AllPersons()
		if err != nil {
			return fmt.Errorf("reading existing persons: %w", err)
		}

		g, err := checkMerged(existing, persons, validatorConfig(), appLog, importForce)
		if err != nil {
			return fmt.Errorf("import rejected: %w", err)
		}

		n, err := d.ImportPersons(persons)
		if err != nil {
			return err
		}
		appLog.Info("Imported persons", "count", n, "total", g.Len())
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importForce, "force", false, "Import even if validation reports errors")
	rootCmd.AddCommand(importCmd)
}

// readPersons decodes a .json file with encoding/json and anything else as
// YAML. Ids are generated for records that lack one.
func readPersons(path string) ([]db.Person, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var persons []db.Person
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &persons)
	} else {
		err = yaml.Unmarshal(data, &persons)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for i := range persons {
		if persons[i].ID != "" {
			continue
		}
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("generating id: %w", err)
		}
		persons[i].ID = id
	}
	return persons, nil
}

// checkMerged builds and validates the tree that writing incoming over
// existing would produce. Validation errors are logged and returned unless
// force is set; build errors are always returned.
func checkMerged(existing, incoming []db.Person, vcfg graph.ValidatorConfig, logger *log.Logger, force bool) (*graph.Graph, error) {
	merged, err := mergeForCheck(existing, incoming)
	if err != nil {
		return nil, err
	}
	g, err := graph.Build(merged)
	if err != nil {
		return nil, err
	}
	res := graph.Validate(g, vcfg)
	for _, w := range res.Warnings() {
		logger.Warn(w.Message, "kind", w.Kind)
	}
	if !res.OK {
		for _, e := range res.Errors() {
			logger.Error(e.Message, "kind", e.Kind)
		}
		if !force {
			return nil, fmt.Errorf("%d errors (use --force to write anyway): %w",
				len(res.Errors()), errValidationFailed)
		}
	}
	return g, nil
}

// mergeForCheck overlays incoming rows on the stored ones by id. An id
// repeated within incoming is rejected rather than resolved by last write.
func mergeForCheck(existing, incoming []db.Person) ([]graph.Person, error) {
	seen := make(map[string]bool, len(incoming))
	for _, p := range incoming {
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: %s appears more than once", graph.ErrDuplicatePerson, p.ID)
		}
		seen[p.ID] = true
	}

	byID := make(map[string]db.Person, len(existing)+len(incoming))
	var order []string
	for _, list := range [][]db.Person{existing, incoming} {
		for _, p := range list {
			if _, ok := byID[p.ID]; !ok {
				order = append(order, p.ID)
			}
			byID[p.ID] = p
		}
	}
	out := make([]graph.Person, 0, len(order))
	for _, id := range order {
		out = append(out, graph.PersonFromRow(byID[id]))
	}
	return out, nil
}
