package database

import "testing"

// populateDerived fills every derived column so resets can be checked
// against exactly the columns they claim to clear.
func populateDerived(t *testing.T, db *DB) (draftID, sectionID, commentID int64) {
	t.Helper()
	draftID, sectionID, submissionID := seedDraft(t, db, "Draft R")
	commentID, _ = db.InsertComment(submissionID, sectionID, ActionSuggestModify,
		ptr("A comment with enough text to be processed end to end."))

	db.UpdateCommentSentiment(commentID, LabelPositive, 0.9, 0.9, 0.05, 0.05)
	db.UpdateCommentSummary(commentID, "Comment summary.")
	db.UpdateCommentWordCloud(commentID, "static/wordclouds/comments/comment_1.png")
	db.UpdateSectionAnalysis(sectionID, ptr("Sec."), ptr("- kp"), ptr("P."), ptr("N."), ptr("Nu."))
	db.UpdateSectionWordClouds(sectionID, ptr("s.png"), ptr("sp.png"), ptr("sn.png"), ptr("su.png"))
	db.UpdateDraftSummaries(draftID, ptr("Draft."), ptr("P."), ptr("N."), ptr("Nu."))
	db.UpdateDraftWordClouds(draftID, ptr("d.png"), ptr("dp.png"), ptr("dn.png"), ptr("du.png"))
	return draftID, sectionID, commentID
}

func TestResetSentimentScopesOnlySentimentColumns(t *testing.T) {
	db := openTestDB(t)
	draftID, sectionID, commentID := populateDerived(t, db)

	if err := db.ResetSentiment(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, _ := db.GetCommentByID(commentID)
	if c.SentimentLabel != nil || c.SentimentScore != nil ||
		c.ScorePositive != nil || c.ScoreNegative != nil || c.ScoreNeutral != nil {
		t.Error("expected all five sentiment columns cleared")
	}
	if c.AISummary == nil || c.WordCloudPath == nil {
		t.Error("expected summary and word-cloud columns untouched")
	}

	s, _ := db.GetSectionByID(sectionID)
	if s.AISummary == nil {
		t.Error("expected section summaries untouched by sentiment reset")
	}
	d, _ := db.GetDraftByID(draftID)
	if d.AISummary == nil {
		t.Error("expected draft summaries untouched by sentiment reset")
	}
}

func TestResetSummariesScopesSummaryColumns(t *testing.T) {
	db := openTestDB(t)
	draftID, sectionID, commentID := populateDerived(t, db)

	if err := db.ResetSummaries(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, _ := db.GetCommentByID(commentID)
	if c.AISummary != nil {
		t.Error("expected comment summary cleared")
	}
	if c.SentimentLabel == nil || c.WordCloudPath == nil {
		t.Error("expected sentiment and word-cloud columns untouched")
	}

	s, _ := db.GetSectionByID(sectionID)
	if s.AISummary != nil || s.KeyPoints != nil ||
		s.SummaryPositive != nil || s.SummaryNegative != nil || s.SummaryNeutral != nil {
		t.Error("expected section summary columns cleared")
	}
	if s.WordCloudPath == nil {
		t.Error("expected section word-cloud columns untouched")
	}

	d, _ := db.GetDraftByID(draftID)
	if d.AISummary != nil || d.SummaryPositive != nil || d.SummaryNegative != nil || d.SummaryNeutral != nil {
		t.Error("expected draft summary columns cleared")
	}
	if d.WordCloudPath == nil {
		t.Error("expected draft word-cloud columns untouched")
	}
}

func TestResetWordCloudsScopesPathColumns(t *testing.T) {
	db := openTestDB(t)
	draftID, sectionID, commentID := populateDerived(t, db)

	if err := db.ResetWordClouds(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, _ := db.GetCommentByID(commentID)
	if c.WordCloudPath != nil {
		t.Error("expected comment word-cloud path cleared")
	}
	if c.AISummary == nil || c.SentimentLabel == nil {
		t.Error("expected summary and sentiment columns untouched")
	}

	s, _ := db.GetSectionByID(sectionID)
	if s.WordCloudPath != nil || s.WordCloudPositivePath != nil ||
		s.WordCloudNegativePath != nil || s.WordCloudNeutralPath != nil {
		t.Error("expected section word-cloud paths cleared")
	}

	d, _ := db.GetDraftByID(draftID)
	if d.WordCloudPath != nil || d.WordCloudPositivePath != nil ||
		d.WordCloudNegativePath != nil || d.WordCloudNeutralPath != nil {
		t.Error("expected draft word-cloud paths cleared")
	}
	if d.AISummary == nil {
		t.Error("expected draft summaries untouched")
	}
}

func TestResetAllClearsEverything(t *testing.T) {
	db := openTestDB(t)
	_, _, commentID := populateDerived(t, db)

	if err := db.ResetAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, _ := db.GetCommentByID(commentID)
	if c.SentimentLabel != nil || c.AISummary != nil || c.WordCloudPath != nil {
		t.Error("expected all derived comment columns cleared")
	}

	stats, _ := db.GetStats()
	if stats.ScoredComments != 0 || stats.SummarizedSections != 0 || stats.RenderedDrafts != 0 {
		t.Errorf("expected zeroed derived stats, got %+v", stats)
	}
}
