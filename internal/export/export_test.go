package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"econsult/internal/database"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestToCSVWritesNonEmptyTables(t *testing.T) {
	db := openTestDB(t)
	desc := "A draft."
	if _, err := db.InsertDraft("Draft One", &desc); err != nil {
		t.Fatalf("InsertDraft() error = %v", err)
	}
	if _, err := db.InsertDraft("Draft Two", nil); err != nil {
		t.Fatalf("InsertDraft() error = %v", err)
	}

	dir := t.TempDir()
	written, err := ToCSV(db, dir)
	if err != nil {
		t.Fatalf("ToCSV() error = %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("wrote %d files, want only the non-empty drafts table: %v", len(written), written)
	}
	if filepath.Base(written[0]) != "drafts.csv" {
		t.Errorf("file = %s, want drafts.csv", written[0])
	}

	f, err := os.Open(written[0])
	if err != nil {
		t.Fatalf("opening export: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header plus two rows", len(records))
	}
	header := strings.Join(records[0], ",")
	if !strings.Contains(header, "title") || !strings.Contains(header, "draft_ai_summary") {
		t.Errorf("header = %q, want column names", header)
	}
	if records[1][1] != "Draft One" {
		t.Errorf("first row title = %q", records[1][1])
	}
	// NULL description renders empty
	if records[2][2] != "" {
		t.Errorf("second row description = %q, want empty", records[2][2])
	}
}

func TestToCSVEmptyDatabase(t *testing.T) {
	db := openTestDB(t)
	dir := t.TempDir()
	written, err := ToCSV(db, dir)
	if err != nil {
		t.Fatalf("ToCSV() error = %v", err)
	}
	if len(written) != 0 {
		t.Errorf("wrote %v for an empty database, want nothing", written)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("export dir has %d entries, want 0", len(entries))
	}
}
