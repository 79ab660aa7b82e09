package db

import (
	"reflect"
	"testing"
)

func TestBuildSearchTerms_StopwordRemoval(t *testing.T) {
	got := BuildSearchTerms("Mrs. Anita of the Sharma family")
	want := []string{"Anita", "Sharma", "family"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildSearchTerms_ShortWords(t *testing.T) {
	got := BuildSearchTerms("J R Rao")
	want := []string{"Rao"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildSearchTerms_KeepsHyphenAndApostrophe(t *testing.T) {
	got := BuildSearchTerms("(O'Brien-Smith),")
	want := []string{"O'Brien-Smith"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildSearchTerms_Empty(t *testing.T) {
	if got := BuildSearchTerms(""); len(got) != 0 {
		t.Errorf("expected no terms, got %q", got)
	}
}

func TestSearchPersons(t *testing.T) {
	d := setupTestDB(t)
	insertPerson(t, d, Person{ID: "p1", DisplayName: "Anita Sharma", Surname: strPtr("Sharma")})
	insertPerson(t, d, Person{ID: "p2", DisplayName: "Ravi Sharma", Surname: strPtr("Sharma")})
	insertPerson(t, d, Person{ID: "p3", DisplayName: "Meera Iyer", Surname: strPtr("Iyer")})

	got, err := d.SearchPersons("sharma")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "p1" || got[1].ID != "p2" {
		t.Errorf("expected p1,p2 got %+v", got)
	}

	got, err = d.SearchPersons("ravi sharma")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "p2" {
		t.Errorf("expected only p2, got %+v", got)
	}

	got, err = d.SearchPersons("the")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("stopword-only query should match nothing, got %d", len(got))
	}
}

func TestSearchPersons_LikeWildcardsAreLiteral(t *testing.T) {
	d := setupTestDB(t)
	insertPerson(t, d, Person{ID: "p1", DisplayName: "Anita Sharma"})

	got, err := d.SearchPersons("An_ta")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("wildcards must not match everything, got %d", len(got))
	}
}

func TestSearchPersons_AttachesSpouses(t *testing.T) {
	d := setupTestDB(t)
	insertPerson(t, d, Person{ID: "p1", DisplayName: "Anita Sharma", SpouseIDs: []string{"p2"}})
	insertPerson(t, d, Person{ID: "p2", DisplayName: "Ravi Sharma", SpouseIDs: []string{"p1"}})

	got, err := d.SearchPersons("anita")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if len(got[0].SpouseIDs) != 1 || got[0].SpouseIDs[0] != "p2" {
		t.Errorf("expected spouse p2, got %v", got[0].SpouseIDs)
	}
}
