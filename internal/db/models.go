package db

// Person represents a row in the persons table plus its recorded spouse links
type Person struct {
	ID          string   `json:"id" yaml:"id"`
	DisplayName string   `json:"display_name" yaml:"display_name"`
	Surname     *string  `json:"surname" yaml:"surname"`
	Sex         string   `json:"sex" yaml:"sex"` // "male", "female", "unspecified"
	FatherID    *string  `json:"father_id" yaml:"father_id"`
	MotherID    *string  `json:"mother_id" yaml:"mother_id"`
	SpouseIDs   []string `json:"spouse_ids" yaml:"spouse_ids"` // as recorded, may be asymmetric
	BirthDate   *string  `json:"birth_date" yaml:"birth_date"`
	DeathDate   *string  `json:"death_date" yaml:"death_date"`
	BirthPlace  *string  `json:"birth_place" yaml:"birth_place"`
	Region      *string  `json:"region" yaml:"region"`
	OwnerID     *string  `json:"owner_id" yaml:"owner_id"` // identity-provider user bound to this person
	CreatedAt   int64    `json:"created_at" yaml:"-"`      // Unix millis
	UpdatedAt   int64    `json:"updated_at" yaml:"-"`      // Unix millis
}
