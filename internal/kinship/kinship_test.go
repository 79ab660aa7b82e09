package kinship

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/graph"
)

type rec struct {
	id, father, mother string
	sex                graph.Sex
	spouses            []string
}

func build(t *testing.T, recs ...rec) *graph.Graph {
	t.Helper()
	persons := make([]graph.Person, 0, len(recs))
	for _, r := range recs {
		p := graph.Person{ID: r.id, DisplayName: r.id, Sex: r.sex, SpouseIDs: r.spouses}
		if r.father != "" {
			f := r.father
			p.FatherID = &f
		}
		if r.mother != "" {
			m := r.mother
			p.MotherID = &m
		}
		persons = append(persons, p)
	}
	g, err := graph.Build(persons)
	require.NoError(t, err)
	return g
}

// extended family used by several tests:
//
//	GF = GM
//	  |-- A = M        |-- U
//	  |   |-- B        |   |-- K (cousin of B)
//	  |   |-- C            |-- KK
//	  S (married to C)
func extended(t *testing.T) *graph.Graph {
	return build(t,
		rec{id: "GF", sex: graph.SexMale, spouses: []string{"GM"}},
		rec{id: "GM", sex: graph.SexFemale, spouses: []string{"GF"}},
		rec{id: "A", father: "GF", mother: "GM", sex: graph.SexMale, spouses: []string{"M"}},
		rec{id: "M", sex: graph.SexFemale, spouses: []string{"A"}},
		rec{id: "U", father: "GF", mother: "GM", sex: graph.SexFemale},
		rec{id: "B", father: "A", mother: "M", sex: graph.SexMale},
		rec{id: "C", father: "A", mother: "M", sex: graph.SexFemale, spouses: []string{"S"}},
		rec{id: "S", sex: graph.SexMale, spouses: []string{"C"}},
		rec{id: "K", mother: "U"},
		rec{id: "KK", father: "K"},
	)
}

func TestResolve_Self(t *testing.T) {
	g := extended(t)
	for _, id := range g.IDs() {
		p, err := Resolve(g, id, id)
		require.NoError(t, err)
		assert.Empty(t, p.Steps)
		assert.Equal(t, "self", p.Label)
		assert.Equal(t, 0, p.Distance)
	}
}

func TestResolve_SharedParentsAreSiblings(t *testing.T) {
	g := build(t, rec{id: "A"}, rec{id: "B", father: "A"}, rec{id: "C", father: "A"})

	p, err := Resolve(g, "B", "C")
	require.NoError(t, err)
	assert.Equal(t, []Step{{StepParent, "A"}, {StepChild, "C"}}, p.Steps)
	assert.Equal(t, "sibling", p.Label)
	assert.Equal(t, 2, p.Distance)
}

func TestResolve_ParentsSpouse(t *testing.T) {
	g := build(t,
		rec{id: "A", spouses: []string{"B"}},
		rec{id: "B", sex: graph.SexFemale, spouses: []string{"A"}},
		rec{id: "C", father: "A"},
	)

	p, err := Resolve(g, "C", "B")
	require.NoError(t, err)
	assert.Equal(t, []Step{{StepParent, "A"}, {StepSpouse, "B"}}, p.Steps)
	assert.Equal(t, "parent's spouse", p.Label)
	assert.Equal(t, "parent's wife", p.Term)
}

func TestResolve_Symmetry(t *testing.T) {
	g := extended(t)
	ids := g.IDs()
	for _, a := range ids {
		for _, b := range ids {
			ab, err := Resolve(g, a, b)
			require.NoError(t, err)
			ba, err := Resolve(g, b, a)
			require.NoError(t, err)

			assert.Equal(t, reverseSteps(a, ab.Steps), ba.Steps, "%s -> %s", a, b)
			assert.True(t, ab.IsCanonical(), "%s -> %s not canonical: %v", a, b, ab.Steps)
		}
	}
}

func TestResolve_PrefersBloodOverSpouse(t *testing.T) {
	// X and Y share father P; Y's mother W is also X's spouse. Both routes
	// have two steps and the one through P must win in either direction.
	g := build(t,
		rec{id: "P"},
		rec{id: "W", sex: graph.SexFemale, spouses: []string{"X"}},
		rec{id: "X", father: "P", spouses: []string{"W"}},
		rec{id: "Y", father: "P", mother: "W"},
	)

	p, err := Resolve(g, "X", "Y")
	require.NoError(t, err)
	assert.Equal(t, []Step{{StepParent, "P"}, {StepChild, "Y"}}, p.Steps)
	assert.Equal(t, "sibling", p.Label)

	p, err = Resolve(g, "Y", "X")
	require.NoError(t, err)
	assert.Equal(t, []Step{{StepParent, "P"}, {StepChild, "X"}}, p.Steps)
}

func TestResolve_LexicographicTieBreak(t *testing.T) {
	// X and Y share both parents; the path goes through the smaller id.
	g := build(t,
		rec{id: "P2"}, rec{id: "P1"},
		rec{id: "X", father: "P2", mother: "P1"},
		rec{id: "Y", father: "P2", mother: "P1"},
	)
	p, err := Resolve(g, "X", "Y")
	require.NoError(t, err)
	assert.Equal(t, "P1", p.Steps[0].To)

	p, err = Resolve(g, "Y", "X")
	require.NoError(t, err)
	assert.Equal(t, "P1", p.Steps[0].To)
}

func TestResolve_Labels(t *testing.T) {
	g := extended(t)
	cases := []struct {
		from, to, label, term string
	}{
		{"B", "A", "parent", "father"},
		{"A", "B", "child", "son"},
		{"B", "GF", "grandparent", "grandfather"},
		{"KK", "GM", "great-grandparent", "great-grandmother"},
		{"B", "C", "sibling", "sister"},
		{"B", "U", "aunt or uncle", "aunt"},
		{"U", "B", "niece or nephew", "nephew"},
		{"B", "K", "first cousin", "first cousin"},
		{"B", "KK", "first cousin once removed", "first cousin once removed"},
		{"C", "S", "spouse", "husband"},
		{"S", "A", "parent-in-law", "father-in-law"},
		{"A", "S", "child-in-law", "son-in-law"},
		{"B", "S", "sibling-in-law", "brother-in-law"},
		{"GF", "M", "child-in-law", "daughter-in-law"},
		{"A", "GM", "parent", "mother"},
		{"M", "GM", "parent-in-law", "mother-in-law"},
		{"S", "B", "sibling-in-law", "brother-in-law"},
	}
	for _, tc := range cases {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			p, err := Resolve(g, tc.from, tc.to)
			require.NoError(t, err)
			assert.Equal(t, tc.label, p.Label)
			assert.Equal(t, tc.term, p.Term)
		})
	}
}

func TestResolve_NotFound(t *testing.T) {
	g := build(t, rec{id: "A"}, rec{id: "B"})

	_, err := Resolve(g, "A", "B")
	assert.ErrorIs(t, err, graph.ErrNotFound)
	var nf *graph.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "A", nf.From)
	assert.Equal(t, "B", nf.To)

	_, err = Resolve(g, "A", "nobody")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nobody", nf.ID)
}

func TestResolve_TerminatesOnCycle(t *testing.T) {
	g := build(t, rec{id: "X", father: "Y"}, rec{id: "Y", father: "X"}, rec{id: "Z", father: "Y"})
	p, err := Resolve(g, "Z", "X")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Distance)
}

func TestLabel_Patterns(t *testing.T) {
	steps := func(pat string) []Step {
		var out []Step
		for _, c := range pat {
			switch c {
			case 'P':
				out = append(out, Step{Kind: StepParent})
			case 'C':
				out = append(out, Step{Kind: StepChild})
			case 'S':
				out = append(out, Step{Kind: StepSpouse})
			}
		}
		return out
	}
	cases := map[string]string{
		"":        "self",
		"PPPP":    "great-great-grandparent",
		"CCC":     "great-grandchild",
		"PCC":     "niece or nephew",
		"PCCC":    "grandniece or grandnephew",
		"PCCCC":   "great-grandniece or great-grandnephew",
		"PPPC":    "great-aunt or great-uncle",
		"PPPCCC":  "second cousin",
		"PPPPCC":  "first cousin twice removed",
		"PPPPPCC": "first cousin 3 times removed",
		"PPS":     "grandparent's spouse",
		"SC":      "spouse's child",
		"SPPC":    "spouse's aunt or uncle",
		"PSC":     "stepsibling",
		"CP":      "co-parent",
		"CSCPS":   "5th-degree relative",
	}
	for pat, want := range cases {
		assert.Equal(t, want, Label(steps(pat)), pat)
	}
}

func TestTerm_Sexed(t *testing.T) {
	psc := []Step{{Kind: StepParent}, {Kind: StepSpouse}, {Kind: StepChild}}
	assert.Equal(t, "stepbrother", Term(psc, graph.SexMale))
	assert.Equal(t, "stepsister", Term(psc, graph.SexFemale))
	assert.Equal(t, "stepsibling", Term(psc, graph.SexUnspecified))
}

func TestRelationshipPath_IsCanonical(t *testing.T) {
	p := &RelationshipPath{From: "B", Steps: []Step{{StepParent, "A"}, {StepChild, "B"}}}
	assert.False(t, p.IsCanonical())

	p = &RelationshipPath{From: "B", Steps: []Step{{StepParent, "A"}, {StepChild, "C"}}}
	assert.True(t, p.IsCanonical())
	assert.Equal(t, "PC", p.Pattern())
}

func TestWithin(t *testing.T) {
	g := extended(t)
	got := Within(g, "B", 2)
	assert.Equal(t, 0, got["B"])
	assert.Equal(t, 1, got["A"])
	assert.Equal(t, 2, got["C"])
	assert.Equal(t, 2, got["GF"])
	_, far := got["K"]
	assert.False(t, far, "K is four steps away")

	assert.Empty(t, Within(g, "nobody", 3))
}
