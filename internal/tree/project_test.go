package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/graph"
)

func p(id, father, mother string, spouses ...string) graph.Person {
	out := graph.Person{ID: id, DisplayName: "Person " + id, SpouseIDs: spouses}
	if father != "" {
		out.FatherID = &father
	}
	if mother != "" {
		out.MotherID = &mother
	}
	return out
}

// four generations on the paternal line:
//
//	GGF
//	 GF = GM        (GM's father GMF)
//	  F = Mo        (Mo's father MoF)
//	  Me = W
//	   Kid
//	    GKid
func lineage(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Build([]graph.Person{
		p("GGF", "", ""),
		p("GMF", "", ""),
		p("GF", "GGF", "", "GM"),
		p("GM", "GMF", "", "GF"),
		p("MoF", "", ""),
		p("F", "GF", "GM", "Mo"),
		p("Mo", "MoF", "", "F"),
		p("Me", "F", "Mo", "W"),
		p("WF", "", ""),
		p("W", "WF", "", "Me"),
		p("Kid", "Me", "W"),
		p("GKid", "Kid", ""),
	})
	require.NoError(t, err)
	return g
}

func nodeIDs(pr *Projection) map[string]Node {
	out := map[string]Node{}
	for _, n := range pr.Nodes {
		out[n.PersonID] = n
	}
	return out
}

func TestProject_DepthBound(t *testing.T) {
	g := lineage(t)
	pr, err := Project(g, "Me", Options{MaxAncestorGenerations: 2, MaxDescendantGenerations: 0})
	require.NoError(t, err)

	nodes := nodeIDs(pr)
	for _, id := range []string{"Me", "F", "Mo", "GF", "GM", "MoF", "W"} {
		assert.Contains(t, nodes, id)
	}
	for _, id := range []string{"GGF", "GMF", "Kid", "GKid", "WF"} {
		assert.NotContains(t, nodes, id)
	}

	anc := g.Ancestors("Me", 100)
	for _, n := range pr.Nodes {
		if n.Role == RoleAncestor {
			assert.LessOrEqual(t, anc[n.PersonID], 2, n.PersonID)
		}
	}

	assert.Equal(t, [][]string{{"F", "Mo"}, {"GF", "GM", "MoF"}}, pr.Ancestors)
	assert.Empty(t, pr.Descendants)
}

func TestProject_HugeBoundSizedByExistingGenerations(t *testing.T) {
	g := lineage(t)
	pr, err := Project(g, "Me", Options{MaxAncestorGenerations: 1 << 40, MaxDescendantGenerations: 1 << 40})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"F", "Mo"}, {"GF", "GM", "MoF"}, {"GGF", "GMF"}}, pr.Ancestors)
	assert.Equal(t, [][]string{{"Kid"}, {"GKid"}}, pr.Descendants)
}

func TestProject_GenerationsAndRoles(t *testing.T) {
	pr, err := Project(lineage(t), "Me", Options{MaxAncestorGenerations: 1, MaxDescendantGenerations: 2})
	require.NoError(t, err)

	nodes := nodeIDs(pr)
	assert.Equal(t, Node{PersonID: "Me", DisplayName: "Person Me", Sex: graph.SexUnspecified, Generation: 0, Role: RoleFocal}, nodes["Me"])
	assert.Equal(t, -1, nodes["F"].Generation)
	assert.Equal(t, RoleAncestor, nodes["F"].Role)
	assert.Equal(t, 2, nodes["GKid"].Generation)
	assert.Equal(t, RoleDescendant, nodes["GKid"].Role)
	assert.Equal(t, RoleSpouse, nodes["W"].Role)
	assert.Equal(t, 0, nodes["W"].Generation)
	assert.Equal(t, [][]string{{"Kid"}, {"GKid"}}, pr.Descendants)

	// nodes are ordered by generation then id
	for i := 1; i < len(pr.Nodes); i++ {
		a, b := pr.Nodes[i-1], pr.Nodes[i]
		assert.True(t, a.Generation < b.Generation || (a.Generation == b.Generation && a.PersonID < b.PersonID))
	}
}

func TestProject_SpousesAreLeaves(t *testing.T) {
	pr, err := Project(lineage(t), "Me", Options{MaxAncestorGenerations: 0, MaxDescendantGenerations: 0})
	require.NoError(t, err)

	nodes := nodeIDs(pr)
	assert.Len(t, nodes, 2)
	assert.Contains(t, nodes, "W")
	assert.NotContains(t, nodes, "WF", "spouse's parents must not be pulled in")
	assert.Equal(t, []Edge{{From: "Me", To: "W", Kind: EdgeSpouse}}, pr.Edges)
}

func TestProject_Edges(t *testing.T) {
	pr, err := Project(lineage(t), "Me", Options{MaxAncestorGenerations: 1, MaxDescendantGenerations: 1})
	require.NoError(t, err)

	assert.Equal(t, []Edge{
		{From: "F", To: "Me", Kind: EdgeParent},
		{From: "Me", To: "Kid", Kind: EdgeParent},
		{From: "Mo", To: "Me", Kind: EdgeParent},
		{From: "W", To: "Kid", Kind: EdgeParent},
		{From: "F", To: "Mo", Kind: EdgeSpouse},
		{From: "Me", To: "W", Kind: EdgeSpouse},
	}, pr.Edges)
}

func TestProject_Idempotent(t *testing.T) {
	g := lineage(t)
	opts := Options{MaxAncestorGenerations: 3, MaxDescendantGenerations: 3}
	first, err := Project(g, "F", opts)
	require.NoError(t, err)
	second, err := Project(g, "F", opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// mutating a returned projection never leaks into the next one
	first.Nodes[0].DisplayName = "changed"
	third, err := Project(g, "F", opts)
	require.NoError(t, err)
	assert.Equal(t, second, third)
}

func TestProject_CycleGuard(t *testing.T) {
	g, err := graph.Build([]graph.Person{
		p("X", "Y", ""),
		p("Y", "X", ""),
		p("Z", "X", ""),
		p("Far", "", ""),
	})
	require.NoError(t, err)

	_, err = Project(g, "Z", Options{MaxAncestorGenerations: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrInconsistentGraph)
	assert.ErrorIs(t, err, graph.ErrCycle)

	var ie *graph.InconsistentGraphError
	require.ErrorAs(t, err, &ie)
	assert.ElementsMatch(t, []string{"X", "Y"}, ie.Cycle.Members())

	// an unrelated person still projects
	_, err = Project(g, "Far", Options{MaxAncestorGenerations: 3})
	assert.NoError(t, err)
}

func TestProject_Errors(t *testing.T) {
	g := lineage(t)

	_, err := Project(g, "Me", Options{MaxAncestorGenerations: -1})
	assert.ErrorIs(t, err, graph.ErrConfiguration)

	_, err = Project(g, "Me", Options{MaxDescendantGenerations: -2})
	var ce *graph.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "max_descendant_generations", ce.Param)

	_, err = Project(g, "nobody", Options{})
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestProject_AttachesWarnings(t *testing.T) {
	g, err := graph.Build([]graph.Person{
		{ID: "F", DisplayName: "F", Sex: graph.SexFemale},
		p("C", "F", ""),
		p("Other", "", ""),
	})
	require.NoError(t, err)

	pr, err := Project(g, "C", Options{MaxAncestorGenerations: 1, Validation: graph.ValidatorConfig{CheckSexRoles: true}})
	require.NoError(t, err)
	require.Len(t, pr.Warnings, 1)
	assert.Equal(t, graph.ViolationSexRole, pr.Warnings[0].Kind)

	pr, err = Project(g, "Other", Options{Validation: graph.ValidatorConfig{CheckSexRoles: true}})
	require.NoError(t, err)
	assert.Empty(t, pr.Warnings)
}
