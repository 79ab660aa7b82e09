package graph

import (
	"fmt"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/db"
)

// Fetcher is the read contract of the person store.
type Fetcher interface {
	FetchPersons(ids []string) ([]db.Person, error)
}

// FromStore loads every person from the store and builds a fresh graph
// snapshot. Store failures are returned unchanged apart from wrapping.
func FromStore(f Fetcher) (*Graph, error) {
	rows, err := f.FetchPersons(nil)
	if err != nil {
		return nil, fmt.Errorf("fetching persons: %w", err)
	}

	persons := make([]Person, 0, len(rows))
	for _, r := range rows {
		persons = append(persons, PersonFromRow(r))
	}
	return Build(persons)
}

// PersonFromRow converts a store row into a graph person.
func PersonFromRow(r db.Person) Person {
	var father, mother *string
	if r.FatherID != nil && *r.FatherID != "" {
		f := *r.FatherID
		father = &f
	}
	if r.MotherID != nil && *r.MotherID != "" {
		m := *r.MotherID
		mother = &m
	}
	return Person{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		Surname:     deref(r.Surname),
		Sex:         ParseSex(r.Sex),
		FatherID:    father,
		MotherID:    mother,
		SpouseIDs:   append([]string(nil), r.SpouseIDs...),
		BirthDate:   deref(r.BirthDate),
		DeathDate:   deref(r.DeathDate),
		BirthPlace:  deref(r.BirthPlace),
		Region:      deref(r.Region),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
