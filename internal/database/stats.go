package database

import "fmt"

// GetStats returns aggregate counts for the status command.
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM drafts`, &stats.Drafts},
		{`SELECT COUNT(*) FROM sections`, &stats.Sections},
		{`SELECT COUNT(*) FROM users`, &stats.Users},
		{`SELECT COUNT(*) FROM submissions`, &stats.Submissions},
		{`SELECT COUNT(*) FROM comments`, &stats.Comments},
		{`SELECT COUNT(*) FROM comments WHERE sentiment_label IS NOT NULL`, &stats.ScoredComments},
		{`SELECT COUNT(*) FROM comments WHERE ai_summary IS NOT NULL`, &stats.SummarizedComments},
		{`SELECT COUNT(*) FROM sections WHERE section_ai_summary IS NOT NULL`, &stats.SummarizedSections},
		{`SELECT COUNT(*) FROM drafts WHERE draft_ai_summary IS NOT NULL`, &stats.SummarizedDrafts},
		{`SELECT COUNT(*) FROM comments WHERE word_cloud_image_path IS NOT NULL`, &stats.RenderedComments},
		{`SELECT COUNT(*) FROM sections WHERE word_cloud_image_path IS NOT NULL`, &stats.RenderedSections},
		{`SELECT COUNT(*) FROM drafts WHERE word_cloud_image_path IS NOT NULL`, &stats.RenderedDrafts},
	}

	for _, c := range counts {
		if err := db.conn.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("counting: %w", err)
		}
	}
	return stats, nil
}

// TableNames returns the user tables in the database, for CSV export.
func (db *DB) TableNames() ([]string, error) {
	rows, err := db.conn.Query(
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ReadTable returns a table's column names and all of its rows as strings,
// with NULLs rendered empty. Table names come from TableNames, never from
// user input.
func (db *DB) ReadTable(table string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(fmt.Sprintf(`SELECT * FROM %q`, table))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var records [][]string
	for rows.Next() {
		values := make([]any, len(cols))
		for i := range values {
			values[i] = new(*string)
		}
		if err := rows.Scan(values...); err != nil {
			return nil, nil, err
		}
		record := make([]string, len(cols))
		for i, v := range values {
			if s := *(v.(**string)); s != nil {
				record[i] = *s
			}
		}
		records = append(records, record)
	}
	return cols, records, rows.Err()
}
