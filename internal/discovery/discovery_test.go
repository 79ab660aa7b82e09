package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/graph"
)

type rec struct {
	id, father, surname, birthplace, region string
	spouses                                 []string
}

func build(t *testing.T, recs ...rec) *graph.Graph {
	t.Helper()
	var persons []graph.Person
	for _, r := range recs {
		p := graph.Person{
			ID: r.id, DisplayName: r.id, Surname: r.surname,
			BirthPlace: r.birthplace, Region: r.region, SpouseIDs: r.spouses,
		}
		if r.father != "" {
			f := r.father
			p.FatherID = &f
		}
		persons = append(persons, p)
	}
	g, err := graph.Build(persons)
	require.NoError(t, err)
	return g
}

// F descends from G through P; X is F's cousin through Q. S is F's spouse,
// K F's child and F2 F's sibling. Y, W1, W2 and Z are unrelated.
func village(t *testing.T) *graph.Graph {
	return build(t,
		rec{id: "G"},
		rec{id: "P", father: "G"},
		rec{id: "Q", father: "G"},
		rec{id: "F", father: "P", surname: "Rao", birthplace: "Pune", region: "MH", spouses: []string{"S"}},
		rec{id: "S", spouses: []string{"F"}, surname: "Rao"},
		rec{id: "K", father: "F", surname: "Rao"},
		rec{id: "F2", father: "P", surname: "Rao"},
		rec{id: "X", father: "Q", surname: "Rao"},
		rec{id: "Y", surname: "rao", birthplace: " pune "},
		rec{id: "W2", region: "MH"},
		rec{id: "W1", region: "mh"},
		rec{id: "Z", surname: "Iyer"},
	)
}

func TestJaccard(t *testing.T) {
	a := map[string]bool{"x": true, "y": true}
	b := map[string]bool{"y": true, "z": true}
	assert.InDelta(t, 1.0/3.0, Jaccard(a, b), 1e-9)
	assert.Equal(t, 0.0, Jaccard(nil, nil))
	assert.Equal(t, 1.0, Jaccard(a, a))
}

func TestFindCandidates_RankingAndExclusion(t *testing.T) {
	g := village(t)
	got, err := FindCandidates(context.Background(), g, "F", nil, DefaultConfig())
	require.NoError(t, err)

	var ids []string
	for _, m := range got {
		ids = append(ids, m.CandidateID)
	}
	// F, S, K, P, F2 and G are all within two steps
	assert.Equal(t, []string{"X", "Y", "Q", "W1", "W2"}, ids)

	x := got[0]
	assert.Equal(t, "F", x.PersonID)
	assert.InDelta(t, 0.5/3.0+0.3, x.Score, 1e-9)
	assert.Equal(t, []Attribute{AttrSharedAncestor, AttrSurname}, x.Matched)
	assert.Equal(t, []string{"G"}, x.SharedAncestors)

	y := got[1]
	assert.InDelta(t, 0.4, y.Score, 1e-9)
	assert.Equal(t, []Attribute{AttrSurname, AttrBirthplace}, y.Matched)
	assert.Empty(t, y.SharedAncestors)

	assert.Equal(t, got[3].Score, got[4].Score, "W1 and W2 tie and are ordered by id")
}

func TestFindCandidates_NeverReturnsDirectLinks(t *testing.T) {
	g := village(t)
	cfg := DefaultConfig()
	cfg.ExclusionDistance = 1
	cfg.Weights.Surname = 1

	got, err := FindCandidates(context.Background(), g, "F", nil, cfg)
	require.NoError(t, err)
	for _, m := range got {
		assert.False(t, g.IsDirectlyLinked("F", m.CandidateID), m.CandidateID)
		assert.NotEqual(t, "F", m.CandidateID)
	}
	// with an exclusion distance of 1 the sibling, two steps away, is a candidate
	var ids []string
	for _, m := range got {
		ids = append(ids, m.CandidateID)
	}
	assert.Contains(t, ids, "F2")
}

func TestFindCandidates_PoolAndLimit(t *testing.T) {
	g := village(t)
	cfg := DefaultConfig()
	cfg.Limit = 1

	got, err := FindCandidates(context.Background(), g, "F", []string{"W2", "Y", "Y", "S"}, cfg)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Y", got[0].CandidateID)

	_, err = FindCandidates(context.Background(), g, "F", []string{"ghost"}, cfg)
	assert.ErrorIs(t, err, graph.ErrNotFound)

	_, err = FindCandidates(context.Background(), g, "ghost", nil, cfg)
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestFindCandidates_ChunkingIsDeterministic(t *testing.T) {
	g := village(t)
	whole, err := FindCandidates(context.Background(), g, "F", nil, DefaultConfig())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.ChunkSize = 1
	chunked, err := FindCandidates(context.Background(), g, "F", nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, whole, chunked)
}

func TestFindCandidates_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindCandidates(ctx, village(t), "F", nil, DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindCandidates_InvalidConfig(t *testing.T) {
	g := village(t)
	for name, mutate := range map[string]func(*Config){
		"depth":     func(c *Config) { c.FingerprintDepth = 0 },
		"exclusion": func(c *Config) { c.ExclusionDistance = 0 },
		"chunk":     func(c *Config) { c.ChunkSize = 0 },
		"limit":     func(c *Config) { c.Limit = -1 },
		"weight":    func(c *Config) { c.Weights.Region = -0.1 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			_, err := FindCandidates(context.Background(), g, "F", nil, cfg)
			assert.ErrorIs(t, err, graph.ErrConfiguration)
		})
	}
}
