// Package discovery surfaces probable relatives that are not yet linked to
// a person, scored on shared ancestry and matching record fields.
package discovery

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/graph"
	"github.com/WarBros01113/Kin-Konnect-sub001/internal/kinship"
)

// Attribute names a matched property of a candidate.
type Attribute string

const (
	AttrSharedAncestor Attribute = "shared_ancestor"
	AttrSurname        Attribute = "surname"
	AttrBirthplace     Attribute = "birthplace"
	AttrRegion         Attribute = "region"
)

// Weights of each signal in the score.
type Weights struct {
	Ancestors  float64 `yaml:"ancestors" json:"ancestors" validate:"gte=0"`
	Surname    float64 `yaml:"surname" json:"surname" validate:"gte=0"`
	Birthplace float64 `yaml:"birthplace" json:"birthplace" validate:"gte=0"`
	Region     float64 `yaml:"region" json:"region" validate:"gte=0"`
}

// Config holds matcher parameters.
type Config struct {
	Weights           Weights `yaml:"weights" json:"weights"`
	FingerprintDepth  int     `yaml:"fingerprint_depth" json:"fingerprint_depth" validate:"gte=1"`
	ExclusionDistance int     `yaml:"exclusion_distance" json:"exclusion_distance" validate:"gte=1"`
	MinScore          float64 `yaml:"min_score" json:"min_score" validate:"gte=0"`
	Limit             int     `yaml:"limit" json:"limit" validate:"gte=0"` // 0 = no limit
	ChunkSize         int     `yaml:"chunk_size" json:"chunk_size" validate:"gte=1"`
}

// DefaultConfig returns the standard weights: ancestry dominates, surname
// next, place fields as weak hints.
func DefaultConfig() Config {
	return Config{
		Weights:           Weights{Ancestors: 0.5, Surname: 0.3, Birthplace: 0.1, Region: 0.1},
		FingerprintDepth:  4,
		ExclusionDistance: 2,
		ChunkSize:         256,
	}
}

func (c Config) check() error {
	switch {
	case c.FingerprintDepth < 1:
		return &graph.ConfigurationError{Param: "fingerprint_depth", Value: c.FingerprintDepth, Reason: "must be >= 1"}
	case c.ExclusionDistance < 1:
		return &graph.ConfigurationError{Param: "exclusion_distance", Value: c.ExclusionDistance, Reason: "must be >= 1"}
	case c.ChunkSize < 1:
		return &graph.ConfigurationError{Param: "chunk_size", Value: c.ChunkSize, Reason: "must be >= 1"}
	case c.Limit < 0:
		return &graph.ConfigurationError{Param: "limit", Value: c.Limit, Reason: "must be >= 0"}
	case c.MinScore < 0:
		return &graph.ConfigurationError{Param: "min_score", Value: c.MinScore, Reason: "must be >= 0"}
	}
	w := c.Weights
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"weights.ancestors", w.Ancestors}, {"weights.surname", w.Surname},
		{"weights.birthplace", w.Birthplace}, {"weights.region", w.Region},
	} {
		if f.v < 0 {
			return &graph.ConfigurationError{Param: f.name, Value: f.v, Reason: "must be >= 0"}
		}
	}
	return nil
}

// CandidateMatch is one scored probable relative.
type CandidateMatch struct {
	PersonID        string      `json:"person_id"`
	CandidateID     string      `json:"candidate_id"`
	DisplayName     string      `json:"display_name"`
	Score           float64     `json:"score"`
	Matched         []Attribute `json:"matched"`
	SharedAncestors []string    `json:"shared_ancestors,omitempty"`
	AncestorOverlap float64     `json:"ancestor_overlap"`
}

// Fingerprint is the set of ancestor ids within depth generations.
func Fingerprint(g *graph.Graph, id string, depth int) map[string]bool {
	fp := make(map[string]bool)
	for a := range g.Ancestors(id, depth) {
		fp[a] = true
	}
	return fp
}

// Jaccard computes |a ∩ b| / |a ∪ b|. Two empty sets score 0.
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.0
	}
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// FindCandidates scores every pool member against forID, highest score
// first and ties by candidate id. A nil pool means every person. The
// person itself, its direct links and anyone within cfg.ExclusionDistance
// steps never appear. Pools are scored in chunks; cancelling ctx stops
// the remaining chunks.
func FindCandidates(ctx context.Context, g *graph.Graph, forID string, pool []string, cfg Config) ([]CandidateMatch, error) {
	if err := cfg.check(); err != nil {
		return nil, err
	}
	if !g.Has(forID) {
		return nil, &graph.NotFoundError{ID: forID}
	}
	if pool == nil {
		pool = g.IDs()
	}

	near := kinship.Within(g, forID, cfg.ExclusionDistance)
	seen := make(map[string]bool, len(pool))
	var candidates []string
	for _, id := range pool {
		if !g.Has(id) {
			return nil, &graph.NotFoundError{ID: id}
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, nearby := near[id]; nearby || id == forID || g.IsDirectlyLinked(forID, id) {
			continue
		}
		candidates = append(candidates, id)
	}

	focal, _ := g.Person(forID)
	focalFP := Fingerprint(g, forID, cfg.FingerprintDepth)

	chunks := (len(candidates) + cfg.ChunkSize - 1) / cfg.ChunkSize
	scored := make([][]CandidateMatch, chunks)

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < chunks; i++ {
		lo := i * cfg.ChunkSize
		hi := min(lo+cfg.ChunkSize, len(candidates))
		eg.Go(func() error {
			if err := ectx.Err(); err != nil {
				return err
			}
			for _, id := range candidates[lo:hi] {
				if m, ok := score(g, &focal, focalFP, id, cfg); ok {
					scored[i] = append(scored[i], m)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := []CandidateMatch{}
	for _, chunk := range scored {
		out = append(out, chunk...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CandidateID < out[j].CandidateID
	})
	if cfg.Limit > 0 && len(out) > cfg.Limit {
		out = out[:cfg.Limit]
	}
	return out, nil
}

func score(g *graph.Graph, focal *graph.Person, focalFP map[string]bool, id string, cfg Config) (CandidateMatch, bool) {
	cand, _ := g.Person(id)
	fp := Fingerprint(g, id, cfg.FingerprintDepth)

	m := CandidateMatch{
		PersonID:        focal.ID,
		CandidateID:     id,
		DisplayName:     cand.DisplayName,
		AncestorOverlap: Jaccard(focalFP, fp),
		Matched:         []Attribute{},
	}
	for a := range fp {
		if focalFP[a] {
			m.SharedAncestors = append(m.SharedAncestors, a)
		}
	}
	sort.Strings(m.SharedAncestors)

	w := cfg.Weights
	if m.AncestorOverlap > 0 {
		m.Score += w.Ancestors * m.AncestorOverlap
		m.Matched = append(m.Matched, AttrSharedAncestor)
	}
	if sameField(focal.Surname, cand.Surname) {
		m.Score += w.Surname
		m.Matched = append(m.Matched, AttrSurname)
	}
	if sameField(focal.BirthPlace, cand.BirthPlace) {
		m.Score += w.Birthplace
		m.Matched = append(m.Matched, AttrBirthplace)
	}
	if sameField(focal.Region, cand.Region) {
		m.Score += w.Region
		m.Matched = append(m.Matched, AttrRegion)
	}
	return m, m.Score > cfg.MinScore
}

func sameField(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
