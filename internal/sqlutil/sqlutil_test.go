package sqlutil

import (
	"database/sql"
	"testing"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"
)

func TestInClause(t *testing.T) {
	ph, args := InClause(nil)
	if ph != "NULL" || args != nil {
		t.Errorf("InClause(nil) = %q, %v", ph, args)
	}

	ph, args = InClause([]string{"a.wiki", "b.wiki", "c.wiki"})
	if ph != "?, ?, ?" {
		t.Errorf("placeholders = %q", ph)
	}
	if diff := cmp.Diff([]any{"a.wiki", "b.wiki", "c.wiki"}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectStrings(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE pages (file_path TEXT); INSERT INTO pages VALUES ('b'), ('a'), ('c')`); err != nil {
		t.Fatal(err)
	}

	ph, args := InClause([]string{"a", "c"})
	rows, err := db.Query(`SELECT file_path FROM pages WHERE file_path IN (`+ph+`) ORDER BY file_path`, args...)
	if err != nil {
		t.Fatal(err)
	}
	got, err := CollectStrings(rows)
	if err != nil {
		t.Fatalf("CollectStrings: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	rows, err = db.Query(`SELECT file_path FROM pages WHERE file_path IN (NULL)`)
	if err != nil {
		t.Fatal(err)
	}
	got, err = CollectStrings(rows)
	if err != nil || len(got) != 0 {
		t.Errorf("empty IN = %v, %v", got, err)
	}
}
