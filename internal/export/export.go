// Package export writes database tables to CSV files for offline analysis.
package export

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"econsult/internal/database"
)

// ToCSV writes one CSV file per non-empty table into dir, with a header
// row of column names. It returns the paths of the files written.
func ToCSV(db *database.DB, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	tables, err := db.TableNames()
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	var written []string
	for _, table := range tables {
		cols, rows, err := db.ReadTable(table)
		if err != nil {
			return written, fmt.Errorf("reading table %s: %w", table, err)
		}
		if len(rows) == 0 {
			log.Printf("Skipping empty table %s", table)
			continue
		}

		path := filepath.Join(dir, table+".csv")
		if err := writeCSV(path, cols, rows); err != nil {
			return written, err
		}
		written = append(written, path)
		log.Printf("Exported %d rows from %s to %s", len(rows), table, path)
	}
	return written, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header to %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing rows to %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}
