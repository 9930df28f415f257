package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS drafts (
    draft_id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT,
    created_at TEXT DEFAULT (datetime('now')),
    draft_ai_summary TEXT,
    summary_positive TEXT,
    summary_negative TEXT,
    summary_neutral TEXT,
    word_cloud_image_path TEXT,
    wordcloud_positive_path TEXT,
    wordcloud_negative_path TEXT,
    wordcloud_neutral_path TEXT
);

CREATE TABLE IF NOT EXISTS sections (
    section_id INTEGER PRIMARY KEY AUTOINCREMENT,
    draft_id INTEGER NOT NULL REFERENCES drafts(draft_id),
    section_title TEXT NOT NULL UNIQUE,
    section_content TEXT,
    section_ai_summary TEXT,
    section_ai_key_points TEXT,
    summary_positive TEXT,
    summary_negative TEXT,
    summary_neutral TEXT,
    word_cloud_image_path TEXT,
    wordcloud_positive_path TEXT,
    wordcloud_negative_path TEXT,
    wordcloud_neutral_path TEXT
);

CREATE TABLE IF NOT EXISTS users (
    user_id INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    phone TEXT,
    address TEXT,
    country TEXT,
    state TEXT,
    is_organization INTEGER DEFAULT 0,
    organization_name TEXT,
    industry TEXT CHECK(industry IN ('Education', 'Healthcare', 'Finance', 'Technology', 'Government', 'Non-Profit', 'Other')),
    created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS submissions (
    submission_id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(user_id),
    draft_id INTEGER NOT NULL REFERENCES drafts(draft_id),
    otp_verified INTEGER DEFAULT 0,
    submission_status TEXT NOT NULL DEFAULT 'completed',
    submitted_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS comments (
    comment_id INTEGER PRIMARY KEY AUTOINCREMENT,
    submission_id INTEGER NOT NULL REFERENCES submissions(submission_id),
    section_id INTEGER NOT NULL REFERENCES sections(section_id),
    action_type TEXT NOT NULL CHECK(action_type IN ('In Agreement', 'Suggest removal', 'Suggest modification', 'Implicit Agreement')),
    comment_text TEXT,
    created_at TEXT DEFAULT (datetime('now')),
    updated_at TEXT,
    sentiment_label TEXT,
    sentiment_score REAL,
    score_positive REAL,
    score_negative REAL,
    score_neutral REAL,
    ai_summary TEXT,
    word_cloud_image_path TEXT
);

CREATE INDEX IF NOT EXISTS idx_sections_draft ON sections(draft_id);
CREATE INDEX IF NOT EXISTS idx_submissions_draft ON submissions(draft_id);
CREATE INDEX IF NOT EXISTS idx_comments_submission ON comments(submission_id);
CREATE INDEX IF NOT EXISTS idx_comments_section ON comments(section_id);
CREATE INDEX IF NOT EXISTS idx_comments_sentiment ON comments(sentiment_label);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
