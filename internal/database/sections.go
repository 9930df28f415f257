package database

import "database/sql"

const sectionColumns = `section_id, draft_id, section_title, section_content,
	section_ai_summary, section_ai_key_points, summary_positive, summary_negative, summary_neutral,
	word_cloud_image_path, wordcloud_positive_path, wordcloud_negative_path, wordcloud_neutral_path`

// InsertSection inserts a section and returns its ID.
func (db *DB) InsertSection(draftID int64, title string, content *string) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO sections (draft_id, section_title, section_content) VALUES (?, ?, ?)`,
		draftID, title, content,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetSectionsForDraft returns all sections of a draft, ordered by ID.
func (db *DB) GetSectionsForDraft(draftID int64) ([]Section, error) {
	rows, err := db.conn.Query(
		`SELECT `+sectionColumns+` FROM sections WHERE draft_id = ? ORDER BY section_id`, draftID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSections(rows)
}

// GetSectionByID returns a single section, or nil if it does not exist.
func (db *DB) GetSectionByID(sectionID int64) (*Section, error) {
	row := db.conn.QueryRow(
		`SELECT `+sectionColumns+` FROM sections WHERE section_id = ?`, sectionID,
	)
	var s Section
	if err := scanSection(row, &s); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// GetSectionsPendingSummary returns sections whose roll-up has not run yet
// (section_ai_summary is the processed sentinel).
func (db *DB) GetSectionsPendingSummary() ([]Section, error) {
	rows, err := db.conn.Query(
		`SELECT ` + sectionColumns + ` FROM sections WHERE section_ai_summary IS NULL ORDER BY section_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSections(rows)
}

// GetSummarizedSections returns a draft's sections that already carry an
// overall summary, the inputs for the draft-level roll-up.
func (db *DB) GetSummarizedSections(draftID int64) ([]Section, error) {
	rows, err := db.conn.Query(
		`SELECT `+sectionColumns+` FROM sections
		WHERE draft_id = ? AND section_ai_summary IS NOT NULL AND section_ai_summary != ''
		ORDER BY section_id`, draftID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSections(rows)
}

// UpdateSectionAnalysis writes a section's overall summary, key points, and
// per-sentiment sub-summaries in a single statement.
func (db *DB) UpdateSectionAnalysis(sectionID int64, overall, keyPoints, positive, negative, neutral *string) error {
	_, err := db.conn.Exec(
		`UPDATE sections SET
			section_ai_summary = ?,
			section_ai_key_points = ?,
			summary_positive = ?,
			summary_negative = ?,
			summary_neutral = ?
		WHERE section_id = ?`,
		overall, keyPoints, positive, negative, neutral, sectionID,
	)
	return err
}

// GetSectionsPendingWordCloud returns sections with no rendered word cloud yet.
func (db *DB) GetSectionsPendingWordCloud() ([]Section, error) {
	rows, err := db.conn.Query(
		`SELECT ` + sectionColumns + ` FROM sections WHERE word_cloud_image_path IS NULL ORDER BY section_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSections(rows)
}

// UpdateSectionWordClouds writes the four word-cloud image paths for a section.
func (db *DB) UpdateSectionWordClouds(sectionID int64, overall, positive, negative, neutral *string) error {
	_, err := db.conn.Exec(
		`UPDATE sections SET
			word_cloud_image_path = ?,
			wordcloud_positive_path = ?,
			wordcloud_negative_path = ?,
			wordcloud_neutral_path = ?
		WHERE section_id = ?`,
		overall, positive, negative, neutral, sectionID,
	)
	return err
}

func scanSection(row rowScanner, s *Section) error {
	return row.Scan(&s.ID, &s.DraftID, &s.Title, &s.Content,
		&s.AISummary, &s.KeyPoints, &s.SummaryPositive, &s.SummaryNegative, &s.SummaryNeutral,
		&s.WordCloudPath, &s.WordCloudPositivePath, &s.WordCloudNegativePath, &s.WordCloudNeutralPath)
}

func scanSections(rows *sql.Rows) ([]Section, error) {
	var sections []Section
	for rows.Next() {
		var s Section
		if err := scanSection(rows, &s); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}
