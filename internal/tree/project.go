// Package tree derives the bounded view around a focal person that a
// renderer lays out: ancestor and descendant lattices with spouses attached.
package tree

import (
	"sort"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/graph"
)

// Role of a node within a projection.
type Role string

const (
	RoleFocal      Role = "focal"
	RoleAncestor   Role = "ancestor"
	RoleDescendant Role = "descendant"
	RoleSpouse     Role = "spouse"
)

// EdgeKind of a projected link.
type EdgeKind string

const (
	EdgeParent EdgeKind = "parent" // From is the parent of To
	EdgeSpouse EdgeKind = "spouse" // From < To
)

// Options bound a projection. Zero bounds yield the focal person and
// their spouses only.
type Options struct {
	MaxAncestorGenerations   int                   `json:"max_ancestor_generations"`
	MaxDescendantGenerations int                   `json:"max_descendant_generations"`
	Validation               graph.ValidatorConfig `json:"-"`
}

// Node is one person in the projection. Generation is relative to the
// focal person: parents are -1, children +1, spouses share their partner's.
type Node struct {
	PersonID    string    `json:"person_id"`
	DisplayName string    `json:"display_name"`
	Sex         graph.Sex `json:"sex"`
	Generation  int       `json:"generation"`
	Role        Role      `json:"role"`
}

// Edge links two projected persons.
type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind EdgeKind `json:"kind"`
}

// Projection is an immutable rooted view. Ancestors[0] holds the parents,
// Descendants[0] the children.
type Projection struct {
	FocalID                  string            `json:"focal_id"`
	MaxAncestorGenerations   int               `json:"max_ancestor_generations"`
	MaxDescendantGenerations int               `json:"max_descendant_generations"`
	Nodes                    []Node            `json:"nodes"`
	Edges                    []Edge            `json:"edges"`
	Ancestors                [][]string        `json:"ancestors"`
	Descendants              [][]string        `json:"descendants"`
	Warnings                 []graph.Violation `json:"warnings"`
}

// Project builds the projection around focalID. It fails with
// *graph.InconsistentGraphError when a parent cycle is reachable from the
// focal person up or down, since neither lattice would be well defined.
func Project(g *graph.Graph, focalID string, opts Options) (*Projection, error) {
	if opts.MaxAncestorGenerations < 0 {
		return nil, &graph.ConfigurationError{
			Param: "max_ancestor_generations", Value: opts.MaxAncestorGenerations, Reason: "must be >= 0"}
	}
	if opts.MaxDescendantGenerations < 0 {
		return nil, &graph.ConfigurationError{
			Param: "max_descendant_generations", Value: opts.MaxDescendantGenerations, Reason: "must be >= 0"}
	}
	if !g.Has(focalID) {
		return nil, &graph.NotFoundError{ID: focalID}
	}
	if err := checkCycles(g, focalID); err != nil {
		return nil, err
	}

	ancestors := g.Ancestors(focalID, opts.MaxAncestorGenerations)
	descendants := g.Descendants(focalID, opts.MaxDescendantGenerations)

	generation := map[string]int{focalID: 0}
	role := map[string]Role{focalID: RoleFocal}
	for id, gen := range ancestors {
		generation[id] = -gen
		role[id] = RoleAncestor
	}
	for id, gen := range descendants {
		generation[id] = gen
		role[id] = RoleDescendant
	}

	// spouses hang off lattice members in (generation, id) order, so the
	// nearest partner decides a shared spouse's generation
	for _, id := range sortedByGeneration(generation) {
		for _, s := range g.SpousesOf(id) {
			if _, ok := generation[s]; ok {
				continue
			}
			generation[s] = generation[id]
			role[s] = RoleSpouse
		}
	}

	ids := sortedByGeneration(generation)
	nodes := make([]Node, 0, len(ids))
	included := make(map[string]bool, len(ids))
	for _, id := range ids {
		p, _ := g.Person(id)
		nodes = append(nodes, Node{
			PersonID:    id,
			DisplayName: p.DisplayName,
			Sex:         p.Sex,
			Generation:  generation[id],
			Role:        role[id],
		})
		included[id] = true
	}

	var edges []Edge
	for _, id := range ids {
		for _, parent := range g.ParentsOf(id) {
			if included[parent] {
				edges = append(edges, Edge{From: parent, To: id, Kind: EdgeParent})
			}
		}
		for _, s := range g.SpousesOf(id) {
			if id < s && included[s] {
				edges = append(edges, Edge{From: id, To: s, Kind: EdgeSpouse})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Kind != edges[j].Kind {
			return edges[i].Kind < edges[j].Kind
		}
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})

	return &Projection{
		FocalID:                  focalID,
		MaxAncestorGenerations:   opts.MaxAncestorGenerations,
		MaxDescendantGenerations: opts.MaxDescendantGenerations,
		Nodes:                    nodes,
		Edges:                    edges,
		Ancestors:                lattice(ancestors),
		Descendants:              lattice(descendants),
		Warnings:                 graph.Validate(g, opts.Validation).Touching(included),
	}, nil
}

func checkCycles(g *graph.Graph, focalID string) error {
	cycles := g.Cycles()
	if len(cycles) == 0 {
		return nil
	}
	reach := map[string]bool{focalID: true}
	for id := range g.Ancestors(focalID, g.Len()) {
		reach[id] = true
	}
	for id := range g.Descendants(focalID, g.Len()) {
		reach[id] = true
	}
	for _, c := range cycles {
		for _, id := range c.Members() {
			if reach[id] {
				return &graph.InconsistentGraphError{FocalID: focalID, Cycle: c}
			}
		}
	}
	return nil
}

// lattice groups ids by generation. Its length is the deepest generation
// present, never the requested bound.
func lattice(gens map[string]int) [][]string {
	deepest := 0
	for _, gen := range gens {
		deepest = max(deepest, gen)
	}
	out := make([][]string, deepest)
	for id, gen := range gens {
		out[gen-1] = append(out[gen-1], id)
	}
	for _, level := range out {
		sort.Strings(level)
	}
	return out
}

func sortedByGeneration(gen map[string]int) []string {
	ids := make([]string, 0, len(gen))
	for id := range gen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if gen[ids[i]] != gen[ids[j]] {
			return gen[ids[i]] < gen[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}
