package database

// Maintenance resets. Each scope nulls exactly the derived columns it names,
// returning the affected rows to the unprocessed state so the pipeline
// recomputes them on the next run. Source rows are never touched.

// ResetSentiment nulls all five sentiment columns in the comments table.
func (db *DB) ResetSentiment() error {
	_, err := db.conn.Exec(
		`UPDATE comments SET
			sentiment_label = NULL,
			sentiment_score = NULL,
			score_positive = NULL,
			score_negative = NULL,
			score_neutral = NULL`,
	)
	return err
}

// ResetSummaries nulls all summary and key-point columns in comments,
// sections, and drafts.
func (db *DB) ResetSummaries() error {
	statements := []string{
		`UPDATE comments SET ai_summary = NULL`,
		`UPDATE sections SET section_ai_summary = NULL, section_ai_key_points = NULL,
			summary_positive = NULL, summary_negative = NULL, summary_neutral = NULL`,
		`UPDATE drafts SET draft_ai_summary = NULL,
			summary_positive = NULL, summary_negative = NULL, summary_neutral = NULL`,
	}
	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ResetWordClouds nulls all word-cloud path columns in comments, sections,
// and drafts. Image files on disk are left in place and overwritten on the
// next render.
func (db *DB) ResetWordClouds() error {
	statements := []string{
		`UPDATE comments SET word_cloud_image_path = NULL`,
		`UPDATE sections SET word_cloud_image_path = NULL, wordcloud_positive_path = NULL,
			wordcloud_negative_path = NULL, wordcloud_neutral_path = NULL`,
		`UPDATE drafts SET word_cloud_image_path = NULL, wordcloud_positive_path = NULL,
			wordcloud_negative_path = NULL, wordcloud_neutral_path = NULL`,
	}
	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ResetAll clears every AI-derived column.
func (db *DB) ResetAll() error {
	if err := db.ResetSentiment(); err != nil {
		return err
	}
	if err := db.ResetSummaries(); err != nil {
		return err
	}
	return db.ResetWordClouds()
}
