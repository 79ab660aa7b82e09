package db

import (
	"strings"
	"unicode"
)

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "and": true,
	"mr": true, "mrs": true, "ms": true, "dr": true,
}

// BuildSearchTerms preprocesses a name query.
// Splits on whitespace, trims punctuation, drops stopwords and words < 2 chars.
func BuildSearchTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(query) {
		trimmed := strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '\''
		})
		if len([]rune(trimmed)) < 2 {
			continue
		}
		if stopwords[strings.ToLower(trimmed)] {
			continue
		}
		terms = append(terms, trimmed)
	}
	return terms
}

// SearchPersons returns persons whose display name or surname contains
// every search term, ordered by display name. Empty queries match nothing.
func (d *DB) SearchPersons(query string) ([]Person, error) {
	terms := BuildSearchTerms(query)
	if len(terms) == 0 {
		return []Person{}, nil
	}

	var where []string
	var args []any
	for _, t := range terms {
		like := "%" + escapeLike(strings.ToLower(t)) + "%"
		where = append(where, `(lower(display_name) LIKE ? ESCAPE '\' OR lower(coalesce(surname, '')) LIKE ? ESCAPE '\')`)
		args = append(args, like, like)
	}

	persons, err := queryPersons(d.conn,
		`SELECT `+personColumns+` FROM persons WHERE `+strings.Join(where, " AND ")+` ORDER BY display_name, id`,
		args...)
	if err != nil {
		return nil, err
	}
	if persons == nil {
		persons = []Person{}
	}
	if err := attachSpouses(d.conn, persons); err != nil {
		return nil, err
	}
	return persons, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
