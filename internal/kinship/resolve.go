package kinship

import (
	"sort"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/graph"
)

type edge struct {
	to   string
	kind StepKind
}

func blood(k StepKind) bool { return k != StepSpouse }

// neighbors lists the undirected neighbourhood of id, blood edges before
// spouse edges, then by id. A person linked twice keeps its blood edge.
func neighbors(g *graph.Graph, id string) []edge {
	best := make(map[string]StepKind)
	add := func(to string, k StepKind) {
		if to == id {
			return
		}
		if cur, ok := best[to]; ok && (blood(cur) || !blood(k)) {
			return
		}
		best[to] = k
	}
	for _, p := range g.ParentsOf(id) {
		add(p, StepParent)
	}
	for _, c := range g.ChildrenOf(id) {
		add(c, StepChild)
	}
	for _, s := range g.SpousesOf(id) {
		add(s, StepSpouse)
	}

	out := make([]edge, 0, len(best))
	for to, k := range best {
		out = append(out, edge{to, k})
	}
	sort.Slice(out, func(i, j int) bool {
		bi, bj := blood(out[i].kind), blood(out[j].kind)
		if bi != bj {
			return bi
		}
		return out[i].to < out[j].to
	})
	return out
}

// Resolve returns the canonical shortest relationship path from one person
// to another. Resolve(g, b, a) is always the step-wise inverse of
// Resolve(g, a, b).
func Resolve(g *graph.Graph, from, to string) (*RelationshipPath, error) {
	for _, id := range []string{from, to} {
		if !g.Has(id) {
			return nil, &graph.NotFoundError{ID: id}
		}
	}
	if from == to {
		return &RelationshipPath{From: from, To: to, Steps: []Step{}, Label: "self", Term: "self"}, nil
	}

	src, dst := from, to
	if dst < src {
		src, dst = dst, src
	}
	steps := canonicalSteps(g, src, dst)
	if steps == nil {
		return nil, &graph.NotFoundError{From: from, To: to}
	}
	if src != from {
		steps = reverseSteps(src, steps)
	}

	target, _ := g.Person(to)
	return &RelationshipPath{
		From:     from,
		To:       to,
		Steps:    steps,
		Label:    Label(steps),
		Term:     Term(steps, target.Sex),
		Distance: len(steps),
	}, nil
}

// canonicalSteps runs a bidirectional BFS, rebuilds the layers of the
// shortest-path DAG and walks it greedily from src. Nil when disconnected.
func canonicalSteps(g *graph.Graph, src, dst string) []Step {
	ds := map[string]int{src: 0}
	dt := map[string]int{dst: 0}
	fs, ft := []string{src}, []string{dst}
	a, b := 0, 0
	met := false

	expand := func(frontier []string, mine, other map[string]int, depth int) []string {
		var next []string
		for _, u := range frontier {
			for _, e := range neighbors(g, u) {
				if _, seen := mine[e.to]; seen {
					continue
				}
				mine[e.to] = depth
				next = append(next, e.to)
				if _, ok := other[e.to]; ok {
					met = true
				}
			}
		}
		return next
	}

	for !met {
		if len(fs) == 0 || len(ft) == 0 {
			return nil
		}
		if len(fs) <= len(ft) {
			a++
			fs = expand(fs, ds, dt, a)
		} else {
			b++
			ft = expand(ft, dt, ds, b)
		}
	}

	d := a + b
	layers := make([]map[string]bool, d+1)
	layers[a] = map[string]bool{}
	for v, dv := range ds {
		if dtv, ok := dt[v]; ok && dv == a && dtv == b {
			layers[a][v] = true
		}
	}
	for i := a; i > 0; i-- {
		layers[i-1] = map[string]bool{}
		for v := range layers[i] {
			for _, e := range neighbors(g, v) {
				if du, ok := ds[e.to]; ok && du == i-1 {
					layers[i-1][e.to] = true
				}
			}
		}
	}
	for i := a; i < d; i++ {
		layers[i+1] = map[string]bool{}
		for v := range layers[i] {
			for _, e := range neighbors(g, v) {
				if dw, ok := dt[e.to]; ok && dw == d-i-1 {
					layers[i+1][e.to] = true
				}
			}
		}
	}

	steps := make([]Step, 0, d)
	cur := src
	for i := 0; i < d; i++ {
		for _, e := range neighbors(g, cur) {
			if layers[i+1][e.to] {
				steps = append(steps, Step{Kind: e.kind, To: e.to})
				cur = e.to
				break
			}
		}
	}
	return steps
}

// Within returns every person reachable from id in at most maxSteps
// parent, child or spouse steps, mapped to its distance. id maps to 0.
func Within(g *graph.Graph, id string, maxSteps int) map[string]int {
	dist := map[string]int{}
	if !g.Has(id) {
		return dist
	}
	dist[id] = 0
	frontier := []string{id}
	for depth := 1; depth <= maxSteps && len(frontier) > 0; depth++ {
		var next []string
		for _, u := range frontier {
			for _, e := range neighbors(g, u) {
				if _, seen := dist[e.to]; seen {
					continue
				}
				dist[e.to] = depth
				next = append(next, e.to)
			}
		}
		frontier = next
	}
	return dist
}
