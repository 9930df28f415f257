package database

import "database/sql"

// InsertUser inserts a user and returns its ID.
func (db *DB) InsertUser(u User) (int64, error) {
	isOrg := 0
	if u.IsOrganization {
		isOrg = 1
	}
	result, err := db.conn.Exec(
		`INSERT INTO users (first_name, last_name, email, phone, address, country, state,
			is_organization, organization_name, industry)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.FirstName, u.LastName, u.Email, u.Phone, u.Address, u.Country, u.State,
		isOrg, u.OrganizationName, u.Industry,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetUserByID returns a single user, or nil if it does not exist.
func (db *DB) GetUserByID(userID int64) (*User, error) {
	row := db.conn.QueryRow(
		`SELECT user_id, first_name, last_name, email, phone, address, country, state,
			is_organization, organization_name, industry, created_at
		FROM users WHERE user_id = ?`, userID,
	)
	var u User
	var isOrg int
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Address,
		&u.Country, &u.State, &isOrg, &u.OrganizationName, &u.Industry, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.IsOrganization = isOrg != 0
	return &u, nil
}

// InsertSubmission inserts a submission and returns its ID.
func (db *DB) InsertSubmission(userID, draftID int64) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO submissions (user_id, draft_id) VALUES (?, ?)`,
		userID, draftID,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetSubmissionByID returns a single submission, or nil if it does not exist.
func (db *DB) GetSubmissionByID(submissionID int64) (*Submission, error) {
	row := db.conn.QueryRow(
		`SELECT submission_id, user_id, draft_id, otp_verified, submission_status, submitted_at
		FROM submissions WHERE submission_id = ?`, submissionID,
	)
	var s Submission
	var verified int
	err := row.Scan(&s.ID, &s.UserID, &s.DraftID, &verified, &s.Status, &s.SubmittedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.OTPVerified = verified != 0
	return &s, nil
}
