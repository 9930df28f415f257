package database

import "database/sql"

const commentColumns = `comment_id, submission_id, section_id, action_type, comment_text,
	created_at, updated_at, sentiment_label, sentiment_score,
	score_positive, score_negative, score_neutral, ai_summary, word_cloud_image_path`

// minSummarizableLength is the minimum comment text length considered
// meaningful input for summarization and roll-up aggregation.
const minSummarizableLength = 20

// InsertComment inserts a comment and returns its ID.
func (db *DB) InsertComment(submissionID, sectionID int64, actionType string, text *string) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO comments (submission_id, section_id, action_type, comment_text)
		VALUES (?, ?, ?, ?)`,
		submissionID, sectionID, actionType, text,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetCommentByID returns a single comment, or nil if it does not exist.
func (db *DB) GetCommentByID(commentID int64) (*Comment, error) {
	row := db.conn.QueryRow(
		`SELECT `+commentColumns+` FROM comments WHERE comment_id = ?`, commentID,
	)
	var c Comment
	if err := scanComment(row, &c); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ApplySentimentRules settles the deterministic sentiment cases in bulk:
// 'Suggest removal' is always Negative, and 'In Agreement' with no text is
// always Positive. Returns how many rows each rule updated.
func (db *DB) ApplySentimentRules() (removal, agreement int64, err error) {
	res, err := db.conn.Exec(
		`UPDATE comments
		SET sentiment_label = ?, sentiment_score = 1.0
		WHERE action_type = ? AND sentiment_label IS NULL`,
		LabelNegative, ActionSuggestRemoval,
	)
	if err != nil {
		return 0, 0, err
	}
	removal, _ = res.RowsAffected()

	res, err = db.conn.Exec(
		`UPDATE comments
		SET sentiment_label = ?, sentiment_score = 1.0
		WHERE action_type = ? AND (comment_text IS NULL OR comment_text = '') AND sentiment_label IS NULL`,
		LabelPositive, ActionInAgreement,
	)
	if err != nil {
		return removal, 0, err
	}
	agreement, _ = res.RowsAffected()
	return removal, agreement, nil
}

// GetCommentsPendingSentiment returns unscored comments with non-empty text,
// the rows that need model inference after the rule pass.
func (db *DB) GetCommentsPendingSentiment() ([]Comment, error) {
	rows, err := db.conn.Query(
		`SELECT ` + commentColumns + ` FROM comments
		WHERE sentiment_label IS NULL AND comment_text IS NOT NULL AND comment_text != ''
		ORDER BY comment_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

// UpdateCommentSentiment writes the label, signed score, and per-class
// probabilities for one comment.
func (db *DB) UpdateCommentSentiment(commentID int64, label string, score, positive, negative, neutral float64) error {
	_, err := db.conn.Exec(
		`UPDATE comments SET
			sentiment_label = ?,
			sentiment_score = ?,
			score_positive = ?,
			score_negative = ?,
			score_neutral = ?
		WHERE comment_id = ?`,
		label, score, positive, negative, neutral, commentID,
	)
	return err
}

// GetCommentsPendingSummary returns comments that still need an individual
// summary: long enough to summarize, and either never processed or left with
// the error sentinel by a failed run.
func (db *DB) GetCommentsPendingSummary(errorSentinel string) ([]CommentForSummary, error) {
	rows, err := db.conn.Query(
		`SELECT c.comment_id, c.comment_text, s.section_title
		FROM comments c
		JOIN sections s ON c.section_id = s.section_id
		WHERE (c.ai_summary IS NULL OR c.ai_summary = ?)
		AND c.comment_text IS NOT NULL AND LENGTH(c.comment_text) > ?
		ORDER BY c.comment_id`,
		errorSentinel, minSummarizableLength,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []CommentForSummary
	for rows.Next() {
		var c CommentForSummary
		if err := rows.Scan(&c.ID, &c.Text, &c.SectionTitle); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// UpdateCommentSummary writes the AI summary for one comment.
func (db *DB) UpdateCommentSummary(commentID int64, summary string) error {
	_, err := db.conn.Exec(
		`UPDATE comments SET ai_summary = ? WHERE comment_id = ?`, summary, commentID,
	)
	return err
}

// GetQualifyingComments returns a section's comments whose text is long
// enough to contribute to the section roll-up.
func (db *DB) GetQualifyingComments(sectionID int64) ([]Comment, error) {
	rows, err := db.conn.Query(
		`SELECT `+commentColumns+` FROM comments
		WHERE section_id = ? AND comment_text IS NOT NULL AND LENGTH(comment_text) > ?
		ORDER BY comment_id`,
		sectionID, minSummarizableLength,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

// GetCommentsWithTextForSection returns a section's comments with any text,
// used for word-cloud input.
func (db *DB) GetCommentsWithTextForSection(sectionID int64) ([]Comment, error) {
	rows, err := db.conn.Query(
		`SELECT `+commentColumns+` FROM comments
		WHERE section_id = ? AND comment_text IS NOT NULL
		ORDER BY comment_id`, sectionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

// GetCommentsWithTextForDraft returns all commented text reachable from a
// draft through its submissions, used for draft-level word clouds.
func (db *DB) GetCommentsWithTextForDraft(draftID int64) ([]Comment, error) {
	rows, err := db.conn.Query(
		`SELECT c.comment_id, c.submission_id, c.section_id, c.action_type, c.comment_text,
			c.created_at, c.updated_at, c.sentiment_label, c.sentiment_score,
			c.score_positive, c.score_negative, c.score_neutral, c.ai_summary, c.word_cloud_image_path
		FROM comments c
		JOIN submissions s ON c.submission_id = s.submission_id
		WHERE s.draft_id = ? AND c.comment_text IS NOT NULL
		ORDER BY c.comment_id`, draftID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

// GetCommentsPendingWordCloud returns comments with text but no rendered
// word cloud yet.
func (db *DB) GetCommentsPendingWordCloud() ([]Comment, error) {
	rows, err := db.conn.Query(
		`SELECT ` + commentColumns + ` FROM comments
		WHERE word_cloud_image_path IS NULL AND comment_text IS NOT NULL
		ORDER BY comment_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

// UpdateCommentWordCloud writes the word-cloud image path for one comment.
func (db *DB) UpdateCommentWordCloud(commentID int64, path string) error {
	_, err := db.conn.Exec(
		`UPDATE comments SET word_cloud_image_path = ? WHERE comment_id = ?`, path, commentID,
	)
	return err
}

// GetCommentOverviewsForDraft returns a draft's comments joined with section
// title and submitter context, the dashboard's primary query. A commenter
// with no industry is reported as 'Individual'.
func (db *DB) GetCommentOverviewsForDraft(draftID int64) ([]CommentOverview, error) {
	rows, err := db.conn.Query(
		`SELECT c.comment_id, c.submission_id, c.section_id, c.action_type, c.comment_text,
			c.created_at, c.updated_at, c.sentiment_label, c.sentiment_score,
			c.score_positive, c.score_negative, c.score_neutral, c.ai_summary, c.word_cloud_image_path,
			sec.section_title,
			u.state,
			CASE WHEN u.industry IS NULL OR u.industry = '' THEN 'Individual' ELSE u.industry END,
			u.is_organization
		FROM comments c
		JOIN submissions s ON c.submission_id = s.submission_id
		JOIN sections sec ON c.section_id = sec.section_id
		JOIN users u ON s.user_id = u.user_id
		WHERE s.draft_id = ?
		ORDER BY c.comment_id`, draftID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overviews []CommentOverview
	for rows.Next() {
		var o CommentOverview
		var isOrg int
		if err := rows.Scan(&o.ID, &o.SubmissionID, &o.SectionID, &o.ActionType, &o.Text,
			&o.CreatedAt, &o.UpdatedAt, &o.SentimentLabel, &o.SentimentScore,
			&o.ScorePositive, &o.ScoreNegative, &o.ScoreNeutral, &o.AISummary, &o.WordCloudPath,
			&o.SectionTitle, &o.State, &o.Industry, &isOrg); err != nil {
			return nil, err
		}
		o.IsOrganization = isOrg != 0
		overviews = append(overviews, o)
	}
	return overviews, rows.Err()
}

// GetCommentsWithCommenter returns a section's comments joined with the
// commenter's name, used in the nested single-draft response.
func (db *DB) GetCommentsWithCommenter(sectionID int64) ([]CommentWithCommenter, error) {
	rows, err := db.conn.Query(
		`SELECT c.comment_id, c.submission_id, c.section_id, c.action_type, c.comment_text,
			c.created_at, c.updated_at, c.sentiment_label, c.sentiment_score,
			c.score_positive, c.score_negative, c.score_neutral, c.ai_summary, c.word_cloud_image_path,
			u.first_name, u.last_name, u.organization_name
		FROM comments c
		JOIN submissions s ON c.submission_id = s.submission_id
		JOIN users u ON s.user_id = u.user_id
		WHERE c.section_id = ?
		ORDER BY c.comment_id`, sectionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []CommentWithCommenter
	for rows.Next() {
		var c CommentWithCommenter
		if err := rows.Scan(&c.ID, &c.SubmissionID, &c.SectionID, &c.ActionType, &c.Text,
			&c.CreatedAt, &c.UpdatedAt, &c.SentimentLabel, &c.SentimentScore,
			&c.ScorePositive, &c.ScoreNegative, &c.ScoreNeutral, &c.AISummary, &c.WordCloudPath,
			&c.FirstName, &c.LastName, &c.OrganizationName); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func scanComment(row rowScanner, c *Comment) error {
	return row.Scan(&c.ID, &c.SubmissionID, &c.SectionID, &c.ActionType, &c.Text,
		&c.CreatedAt, &c.UpdatedAt, &c.SentimentLabel, &c.SentimentScore,
		&c.ScorePositive, &c.ScoreNegative, &c.ScoreNeutral, &c.AISummary, &c.WordCloudPath)
}

func scanComments(rows *sql.Rows) ([]Comment, error) {
	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := scanComment(rows, &c); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
