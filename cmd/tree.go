package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/tree"
)

var (
	treeJSON bool
	treeUp   int
	treeDown int
)

var treeCmd = &cobra.Command{
	Use:   "tree <person>",
	Short: "Project ancestors, descendants and spouses around a person",
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

		opts := tree.Options{
			MaxAncestorGenerations:   appConfig.Tree.MaxAncestorGenerations,
			MaxDescendantGenerations: appConfig.Tree.MaxDescendantGenerations,
			Validation:               validatorConfig(),
		}
		if cmd.Flags().Changed("up") {
			opts.MaxAncestorGenerations = treeUp
		}
		if cmd.Flags().Changed("down") {
			opts.MaxDescendantGenerations = treeDown
		}

		pr, err := tree.Project(g, focal.ID, opts)
		if err != nil {
			return err
		}

		if treeJSON {
			return printJSON(pr)
		}
		printProjection(pr)
		return nil
	},
}

func init() {
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "Output as JSON")
	treeCmd.Flags().IntVar(&treeUp, "up", 3, "Ancestor generations to include")
	treeCmd.Flags().IntVar(&treeDown, "down", 2, "Descendant generations to include")
	rootCmd.AddCommand(treeCmd)
}

func printProjection(pr *tree.Projection) {
	spousesOf := map[string][]string{}
	names := map[string]string{}
	for _, n := range pr.Nodes {
		names[n.PersonID] = n.DisplayName
	}
	for _, e := range pr.Edges {
		if e.Kind == tree.EdgeSpouse {
			spousesOf[e.From] = append(spousesOf[e.From], names[e.To])
			spousesOf[e.To] = append(spousesOf[e.To], names[e.From])
		}
	}

	fmt.Println()
	gen, started := 0, false
	for _, n := range pr.Nodes {
		if n.Role == tree.RoleSpouse {
			continue
		}
		if !started || n.Generation != gen {
			gen, started = n.Generation, true
			fmt.Printf("  generation %+d\n", gen)
		}
		line := fmt.Sprintf("    %s %s", truncID(n.PersonID), truncTitle(n.DisplayName, 40))
		if s := spousesOf[n.PersonID]; len(s) > 0 {
			line += "  = " + strings.Join(s, ", ")
		}
		if n.Role == tree.RoleFocal {
			line += "  *"
		}
		fmt.Println(line)
	}

	for _, w := range pr.Warnings {
		fmt.Printf("\n  warning [%s] %s", w.Kind, w.Message)
	}
	fmt.Println()
}
