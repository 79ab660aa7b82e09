package graph

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Graph is an immutable arena of persons addressed by id, with precomputed
// adjacency. Safe for concurrent readers once returned by Build.
type Graph struct {
	persons  map[string]*Person
	ids      []string            // sorted
	parents  map[string][]string // child -> [father, mother], absent entries skipped
	children map[string][]string // parent -> children, sorted
	spouses  map[string][]string // symmetric, sorted

	cyclesOnce sync.Once
	cycles     []*CycleError
}

// Build constructs a Graph from raw person records. Ids must be unique and
// non-empty, and every father/mother/spouse reference must resolve inside
// the input set.
func Build(persons []Person) (*Graph, error) {
	g := &Graph{
		persons:  make(map[string]*Person, len(persons)),
		parents:  make(map[string][]string, len(persons)),
		children: make(map[string][]string),
		spouses:  make(map[string][]string),
	}

	for i := range persons {
		p := &persons[i]
		if p.ID == "" {
			return nil, fmt.Errorf("%w: record %d has an empty id", ErrInvalidPerson, i)
		}
		if _, dup := g.persons[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePerson, p.ID)
		}
		g.persons[p.ID] = p.clone()
		g.ids = append(g.ids, p.ID)
	}
	sort.Strings(g.ids)

	spouseSet := make(map[string]map[string]bool)
	link := func(a, b string) {
		if spouseSet[a] == nil {
			spouseSet[a] = make(map[string]bool)
		}
		spouseSet[a][b] = true
	}

	for _, id := range g.ids {
		p := g.persons[id]
		for _, ref := range []struct {
			field, id string
		}{{"father", p.Father()}, {"mother", p.Mother()}} {
			if ref.id == "" {
				continue
			}
			if _, ok := g.persons[ref.id]; !ok {
				return nil, &DanglingReferenceError{PersonID: id, Field: ref.field, Ref: ref.id}
			}
			if !slices.Contains(g.parents[id], ref.id) {
				g.parents[id] = append(g.parents[id], ref.id)
				g.children[ref.id] = append(g.children[ref.id], id)
			}
		}
		for _, s := range p.SpouseIDs {
			if _, ok := g.persons[s]; !ok {
				return nil, &DanglingReferenceError{PersonID: id, Field: "spouse", Ref: s}
			}
			link(id, s)
			link(s, id)
		}
	}

	// ids were visited in sorted order, so children lists are already sorted
	for id, set := range spouseSet {
		list := make([]string, 0, len(set))
		for s := range set {
			list = append(list, s)
		}
		sort.Strings(list)
		g.spouses[id] = list
	}

	return g, nil
}

// Len returns the number of persons.
func (g *Graph) Len() int { return len(g.ids) }

// Has reports whether id is in the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.persons[id]
	return ok
}

// Person returns a copy of the record for id.
func (g *Graph) Person(id string) (Person, bool) {
	p, ok := g.persons[id]
	if !ok {
		return Person{}, false
	}
	return *p.clone(), true
}

// IDs returns all person ids in ascending order.
func (g *Graph) IDs() []string { return slices.Clone(g.ids) }

// ParentsOf returns the recorded parents of id (father first).
func (g *Graph) ParentsOf(id string) []string { return slices.Clone(g.parents[id]) }

// ChildrenOf returns every person whose father or mother is id, sorted.
func (g *Graph) ChildrenOf(id string) []string { return slices.Clone(g.children[id]) }

// SpousesOf returns the symmetrized spouse set of id, sorted.
func (g *Graph) SpousesOf(id string) []string { return slices.Clone(g.spouses[id]) }

// IsDirectlyLinked reports a parent, child or spouse edge between a and b.
func (g *Graph) IsDirectlyLinked(a, b string) bool {
	return slices.Contains(g.parents[a], b) ||
		slices.Contains(g.parents[b], a) ||
		slices.Contains(g.spouses[a], b)
}

// Ancestors returns every ancestor of id within maxGenerations parent steps,
// mapped to its nearest generation (parents = 1). The walk is cycle safe.
func (g *Graph) Ancestors(id string, maxGenerations int) map[string]int {
	return g.walk(id, maxGenerations, g.parents)
}

// Descendants mirrors Ancestors over child edges.
func (g *Graph) Descendants(id string, maxGenerations int) map[string]int {
	return g.walk(id, maxGenerations, g.children)
}

func (g *Graph) walk(id string, maxGenerations int, next map[string][]string) map[string]int {
	seen := map[string]int{}
	frontier := []string{id}
	for gen := 1; gen <= maxGenerations && len(frontier) > 0; gen++ {
		var nextFrontier []string
		for _, cur := range frontier {
			for _, n := range next[cur] {
				if _, ok := seen[n]; ok || n == id {
					continue
				}
				seen[n] = gen
				nextFrontier = append(nextFrontier, n)
			}
		}
		frontier = nextFrontier
	}
	return seen
}
