package db

import (
	"database/sql"
	"strings"
)

const personColumns = `id, display_name, surname, sex, father_id, mother_id,
	       birth_date, death_date, birth_place, region, owner_id,
	       created_at, updated_at`

// scanPerson scans a row into a Person. The row must have all 13 columns in standard order.
func scanPerson(scanner interface{ Scan(dest ...any) error }) (Person, error) {
	var p Person
	err := scanner.Scan(
		&p.ID, &p.DisplayName, &p.Surname, &p.Sex, &p.FatherID, &p.MotherID,
		&p.BirthDate, &p.DeathDate, &p.BirthPlace, &p.Region, &p.OwnerID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func queryPersons(q querier, query string, args ...any) ([]Person, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var persons []Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return persons, nil
}

// AllPersons returns every person with spouse links, ordered by id
func (d *DB) AllPersons() ([]Person, error) {
	return d.FetchPersons(nil)
}

// FetchPersons returns the persons with the given ids, or every person when
// ids is empty. Rows and spouse links are read in one transaction so the
// snapshot is consistent.
func (d *DB) FetchPersons(ids []string) ([]Person, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var persons []Person
	if len(ids) == 0 {
		persons, err = queryPersons(tx, `SELECT `+personColumns+` FROM persons ORDER BY id`)
	} else {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
		args := make([]any, len(ids))
		for i, id := range ids {
			args[i] = id
		}
		persons, err = queryPersons(tx,
			`SELECT `+personColumns+` FROM persons WHERE id IN (`+placeholders+`) ORDER BY id`, args...)
	}
	if err != nil {
		return nil, err
	}
	if err := attachSpouses(tx, persons); err != nil {
		return nil, err
	}
	return persons, tx.Commit()
}

// GetPerson returns a single person by ID. Missing ids yield sql.ErrNoRows.
func (d *DB) GetPerson(id string) (*Person, error) {
	row := d.conn.QueryRow(`SELECT `+personColumns+` FROM persons WHERE id = ?`, id)
	p, err := scanPerson(row)
	if err != nil {
		return nil, err
	}
	one := []Person{p}
	if err := attachSpouses(d.conn, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// PersonByOwner maps an identity-provider user id to its person record.
func (d *DB) PersonByOwner(ownerID string) (*Person, error) {
	var id string
	err := d.conn.QueryRow(`SELECT id FROM persons WHERE owner_id = ?`, ownerID).Scan(&id)
	if err != nil {
		return nil, err
	}
	return d.GetPerson(id)
}

// SearchByIDPrefix finds persons whose ID starts with the given prefix.
// The match is literal and case-sensitive: '_' and '%' are ordinary id
// characters.
func (d *DB) SearchByIDPrefix(prefix string, limit int) ([]Person, error) {
	persons, err := queryPersons(d.conn,
		`SELECT `+personColumns+` FROM persons
		 WHERE id LIKE ? ESCAPE '\' AND substr(id, 1, length(?)) = ?
		 ORDER BY id LIMIT ?`,
		escapeLike(prefix)+"%", prefix, prefix, limit)
	if err != nil {
		return nil, err
	}
	if err := attachSpouses(d.conn, persons); err != nil {
		return nil, err
	}
	return persons, nil
}

// attachSpouses fills SpouseIDs for the given persons in place.
func attachSpouses(q querier, persons []Person) error {
	if len(persons) == 0 {
		return nil
	}
	index := make(map[string]int, len(persons))
	for i, p := range persons {
		index[p.ID] = i
	}

	var rows *sql.Rows
	var err error
	if len(persons) == 1 {
		rows, err = q.Query(
			`SELECT person_id, spouse_id FROM spouses WHERE person_id = ? ORDER BY spouse_id`, persons[0].ID)
	} else {
		rows, err = q.Query(`SELECT person_id, spouse_id FROM spouses ORDER BY person_id, spouse_id`)
	}
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var personID, spouseID string
		if err := rows.Scan(&personID, &spouseID); err != nil {
			return err
		}
		if i, ok := index[personID]; ok {
			persons[i].SpouseIDs = append(persons[i].SpouseIDs, spouseID)
		}
	}
	return rows.Err()
}
