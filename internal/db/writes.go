package db

import (
	"database/sql"
	"fmt"
	"time"
)

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// UpsertPerson inserts or replaces a person and its recorded spouse list.
func (d *DB) UpsertPerson(p Person) error {
	_, err := d.ImportPersons([]Person{p})
	return err
}

// ImportPersons upserts every person in a single transaction and returns
// the number written. Nothing is written if any row fails.
func (d *DB) ImportPersons(persons []Person) (int, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	for _, p := range persons {
		if err := upsertPerson(tx, p, now); err != nil {
			return 0, fmt.Errorf("writing person %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return len(persons), nil
}

func upsertPerson(x execer, p Person, now int64) error {
	if p.ID == "" {
		return fmt.Errorf("empty id")
	}
	if p.DisplayName == "" {
		return fmt.Errorf("empty display_name")
	}
	sex := p.Sex
	if sex == "" {
		sex = "unspecified"
	}

	_, err := x.Exec(`
		INSERT INTO persons (id, display_name, surname, sex, father_id, mother_id,
		                     birth_date, death_date, birth_place, region, owner_id,
		                     created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			surname = excluded.surname,
			sex = excluded.sex,
			father_id = excluded.father_id,
			mother_id = excluded.mother_id,
			birth_date = excluded.birth_date,
			death_date = excluded.death_date,
			birth_place = excluded.birth_place,
			region = excluded.region,
			owner_id = excluded.owner_id,
			updated_at = excluded.updated_at
	`, p.ID, p.DisplayName, p.Surname, sex, p.FatherID, p.MotherID,
		p.BirthDate, p.DeathDate, p.BirthPlace, p.Region, p.OwnerID, now, now)
	if err != nil {
		return err
	}

	if _, err := x.Exec(`DELETE FROM spouses WHERE person_id = ?`, p.ID); err != nil {
		return err
	}
	for _, s := range p.SpouseIDs {
		if _, err := x.Exec(
			`INSERT OR IGNORE INTO spouses (person_id, spouse_id) VALUES (?, ?)`, p.ID, s); err != nil {
			return err
		}
	}
	return nil
}

// LinkSpouses records a marriage in both directions.
func (d *DB) LinkSpouses(a, b string) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, pair := range [][2]string{{a, b}, {b, a}} {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO spouses (person_id, spouse_id) VALUES (?, ?)`, pair[0], pair[1]); err != nil {
			return fmt.Errorf("linking %s and %s: %w", a, b, err)
		}
	}
	return tx.Commit()
}

// ReferencesTo returns the ids of persons that name id as father, mother
// or spouse, sorted.
func (d *DB) ReferencesTo(id string) ([]string, error) {
	rows, err := d.conn.Query(`
		SELECT id FROM persons WHERE (father_id = ? OR mother_id = ?) AND id != ?
		UNION
		SELECT person_id FROM spouses WHERE spouse_id = ? AND person_id != ?
		ORDER BY 1`, id, id, id, id, id)
	if err != nil {
		return nil, fmt.Errorf("finding references to %s: %w", id, err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// DeletePerson removes a person and its own spouse rows. With detach, every
// father, mother and spouse reference other persons hold to id is cleared in
// the same transaction; without it, references are left in place.
func (d *DB) DeletePerson(id string, detach bool) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if detach {
		for _, q := range []string{
			`UPDATE persons SET father_id = NULL WHERE father_id = ?`,
			`UPDATE persons SET mother_id = NULL WHERE mother_id = ?`,
			`DELETE FROM spouses WHERE spouse_id = ?`,
		} {
			if _, err := tx.Exec(q, id); err != nil {
				return fmt.Errorf("detaching person %s: %w", id, err)
			}
		}
	}

	if _, err := tx.Exec(`DELETE FROM spouses WHERE person_id = ?`, id); err != nil {
		return fmt.Errorf("deleting person %s: %w", id, err)
	}
	res, err := tx.Exec(`DELETE FROM persons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting person %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting person %s: %w", id, sql.ErrNoRows)
	}
	return tx.Commit()
}
