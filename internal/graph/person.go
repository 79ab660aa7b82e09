package graph

import "strings"

// Sex of a person. Unknown or free-form values collapse to SexUnspecified.
type Sex string

const (
	SexUnspecified Sex = "unspecified"
	SexMale        Sex = "male"
	SexFemale      Sex = "female"
)

// ParseSex normalizes a stored or user supplied value.
func ParseSex(s string) Sex {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return SexMale
	case "female", "f":
		return SexFemale
	default:
		return SexUnspecified
	}
}

// Person is the graph-domain person record, decoupled from store rows.
// Birth and death fields are opaque to the core.
type Person struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Surname     string   `json:"surname,omitempty"`
	Sex         Sex      `json:"sex"`
	FatherID    *string  `json:"father_id,omitempty"`
	MotherID    *string  `json:"mother_id,omitempty"`
	SpouseIDs   []string `json:"spouse_ids,omitempty"`
	BirthDate   string   `json:"birth_date,omitempty"`
	DeathDate   string   `json:"death_date,omitempty"`
	BirthPlace  string   `json:"birth_place,omitempty"`
	Region      string   `json:"region,omitempty"`
}

// Father returns the father id or "" when absent.
func (p *Person) Father() string {
	if p.FatherID == nil {
		return ""
	}
	return *p.FatherID
}

// Mother returns the mother id or "" when absent.
func (p *Person) Mother() string {
	if p.MotherID == nil {
		return ""
	}
	return *p.MotherID
}

func (p *Person) clone() *Person {
	c := *p
	if p.FatherID != nil {
		f := *p.FatherID
		c.FatherID = &f
	}
	if p.MotherID != nil {
		m := *p.MotherID
		c.MotherID = &m
	}
	if p.SpouseIDs != nil {
		c.SpouseIDs = append([]string(nil), p.SpouseIDs...)
	}
	c.Sex = ParseSex(string(c.Sex))
	return &c
}
