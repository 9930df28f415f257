package database

import "database/sql"

const draftColumns = `draft_id, title, description, created_at,
	draft_ai_summary, summary_positive, summary_negative, summary_neutral,
	word_cloud_image_path, wordcloud_positive_path, wordcloud_negative_path, wordcloud_neutral_path`

// InsertDraft inserts a draft and returns its ID.
func (db *DB) InsertDraft(title string, description *string) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO drafts (title, description) VALUES (?, ?)`,
		title, description,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetAllDrafts returns every draft, ordered by ID.
func (db *DB) GetAllDrafts() ([]Draft, error) {
	rows, err := db.conn.Query(
		`SELECT ` + draftColumns + ` FROM drafts ORDER BY draft_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDrafts(rows)
}

// GetDraftByID returns a single draft, or nil if it does not exist.
func (db *DB) GetDraftByID(draftID int64) (*Draft, error) {
	row := db.conn.QueryRow(
		`SELECT `+draftColumns+` FROM drafts WHERE draft_id = ?`, draftID,
	)
	var d Draft
	if err := scanDraft(row, &d); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// GetDraftsPendingSummary returns drafts whose roll-up summary has not been
// computed yet (draft_ai_summary is the processed sentinel).
func (db *DB) GetDraftsPendingSummary() ([]Draft, error) {
	rows, err := db.conn.Query(
		`SELECT ` + draftColumns + ` FROM drafts WHERE draft_ai_summary IS NULL ORDER BY draft_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDrafts(rows)
}

// UpdateDraftSummaries writes the overall and per-sentiment roll-up summaries
// for a draft in a single statement.
func (db *DB) UpdateDraftSummaries(draftID int64, overall, positive, negative, neutral *string) error {
	_, err := db.conn.Exec(
		`UPDATE drafts SET
			draft_ai_summary = ?,
			summary_positive = ?,
			summary_negative = ?,
			summary_neutral = ?
		WHERE draft_id = ?`,
		overall, positive, negative, neutral, draftID,
	)
	return err
}

// GetDraftsPendingWordCloud returns drafts with no rendered word cloud yet.
func (db *DB) GetDraftsPendingWordCloud() ([]Draft, error) {
	rows, err := db.conn.Query(
		`SELECT ` + draftColumns + ` FROM drafts WHERE word_cloud_image_path IS NULL ORDER BY draft_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDrafts(rows)
}

// UpdateDraftWordClouds writes the four word-cloud image paths for a draft.
func (db *DB) UpdateDraftWordClouds(draftID int64, overall, positive, negative, neutral *string) error {
	_, err := db.conn.Exec(
		`UPDATE drafts SET
			word_cloud_image_path = ?,
			wordcloud_positive_path = ?,
			wordcloud_negative_path = ?,
			wordcloud_neutral_path = ?
		WHERE draft_id = ?`,
		overall, positive, negative, neutral, draftID,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner, d *Draft) error {
	return row.Scan(&d.ID, &d.Title, &d.Description, &d.CreatedAt,
		&d.AISummary, &d.SummaryPositive, &d.SummaryNegative, &d.SummaryNeutral,
		&d.WordCloudPath, &d.WordCloudPositivePath, &d.WordCloudNegativePath, &d.WordCloudNeutralPath)
}

func scanDrafts(rows *sql.Rows) ([]Draft, error) {
	var drafts []Draft
	for rows.Next() {
		var d Draft
		if err := scanDraft(rows, &d); err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}
