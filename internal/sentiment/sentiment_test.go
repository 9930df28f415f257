package sentiment

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"econsult/internal/database"
	"econsult/internal/nlp"
)

type mockClassifier struct {
	scores map[string]nlp.Scores
	err    error
	calls  int
}

func (m *mockClassifier) Classify(ctx context.Context, text string) (nlp.Scores, error) {
	m.calls++
	if m.err != nil {
		return nlp.Scores{}, m.err
	}
	return m.scores[text], nil
}

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedComment(t *testing.T, db *database.DB, actionType, text string) int64 {
	t.Helper()
	body := "Body"
	draftID, err := db.InsertDraft("Draft "+actionType+" "+text, &body)
	if err != nil {
		t.Fatalf("InsertDraft() error = %v", err)
	}
	sectionID, err := db.InsertSection(draftID, "Section "+actionType+" "+text, &body)
	if err != nil {
		t.Fatalf("InsertSection() error = %v", err)
	}
	userID, err := db.InsertUser(database.User{FirstName: "A", LastName: "B", Email: actionType + text + "@example.com"})
	if err != nil {
		t.Fatalf("InsertUser() error = %v", err)
	}
	submissionID, err := db.InsertSubmission(userID, draftID)
	if err != nil {
		t.Fatalf("InsertSubmission() error = %v", err)
	}
	var textPtr *string
	if text != "" {
		textPtr = &text
	}
	commentID, err := db.InsertComment(submissionID, sectionID, actionType, textPtr)
	if err != nil {
		t.Fatalf("InsertComment() error = %v", err)
	}
	return commentID
}

func getComment(t *testing.T, db *database.DB, id int64) database.Comment {
	t.Helper()
	c, err := db.GetCommentByID(id)
	if err != nil {
		t.Fatalf("GetCommentByID() error = %v", err)
	}
	if c == nil {
		t.Fatalf("comment %d not found", id)
	}
	return *c
}

func TestAnalyzeCommentsRulesBeforeModel(t *testing.T) {
	db := openTestDB(t)
	removalID := seedComment(t, db, database.ActionSuggestRemoval, "This clause should go entirely.")
	modelID := seedComment(t, db, database.ActionSuggestModify, "needs work")

	mock := &mockClassifier{scores: map[string]nlp.Scores{
		"needs work": {Positive: 0.1, Negative: 0.8, Neutral: 0.1},
	}}
	res := NewAnalyzer(db, mock).AnalyzeComments(context.Background())

	if res.RuleRemoval != 1 || res.Scored != 1 || res.Errors != 0 {
		t.Fatalf("Result = %+v, want 1 rule removal, 1 scored", res)
	}
	if mock.calls != 1 {
		t.Errorf("classifier called %d times, want 1: rule rows must not reach the model", mock.calls)
	}

	removal := getComment(t, db, removalID)
	if *removal.SentimentLabel != database.LabelNegative || *removal.SentimentScore != 1.0 {
		t.Errorf("removal comment = %q/%v, want Negative/1.0", *removal.SentimentLabel, *removal.SentimentScore)
	}
	scored := getComment(t, db, modelID)
	if *scored.SentimentLabel != database.LabelNegative {
		t.Errorf("model comment label = %q, want Negative", *scored.SentimentLabel)
	}
	if *scored.SentimentScore != -0.8 {
		t.Errorf("model comment score = %v, want -0.8", *scored.SentimentScore)
	}
}

func TestAnalyzeCommentsEmptyAgreementRule(t *testing.T) {
	db := openTestDB(t)
	id := seedComment(t, db, database.ActionInAgreement, "")

	mock := &mockClassifier{}
	res := NewAnalyzer(db, mock).AnalyzeComments(context.Background())

	if res.RuleAgreement != 1 {
		t.Fatalf("RuleAgreement = %d, want 1", res.RuleAgreement)
	}
	if mock.calls != 0 {
		t.Errorf("classifier called %d times, want 0", mock.calls)
	}
	c := getComment(t, db, id)
	if *c.SentimentLabel != database.LabelPositive || *c.SentimentScore != 1.0 {
		t.Errorf("agreement comment = %q/%v, want Positive/1.0", *c.SentimentLabel, *c.SentimentScore)
	}
}

func TestAnalyzeCommentsAgreementWithTextUsesModel(t *testing.T) {
	db := openTestDB(t)
	id := seedComment(t, db, database.ActionInAgreement, "strongly support this")

	mock := &mockClassifier{scores: map[string]nlp.Scores{
		"strongly support this": {Positive: 0.9, Negative: 0.05, Neutral: 0.05},
	}}
	res := NewAnalyzer(db, mock).AnalyzeComments(context.Background())

	if res.RuleAgreement != 0 || res.Scored != 1 {
		t.Fatalf("Result = %+v, want the non-empty agreement comment scored by the model", res)
	}
	c := getComment(t, db, id)
	if *c.SentimentLabel != database.LabelPositive || *c.SentimentScore != 0.9 {
		t.Errorf("comment = %q/%v, want Positive/0.9", *c.SentimentLabel, *c.SentimentScore)
	}
}

func TestAnalyzeCommentsTieIsNeutral(t *testing.T) {
	db := openTestDB(t)
	id := seedComment(t, db, database.ActionSuggestModify, "ambivalent text")

	mock := &mockClassifier{scores: map[string]nlp.Scores{
		"ambivalent text": {Positive: 0.4, Negative: 0.4, Neutral: 0.2},
	}}
	NewAnalyzer(db, mock).AnalyzeComments(context.Background())

	c := getComment(t, db, id)
	if *c.SentimentLabel != database.LabelNeutral {
		t.Errorf("tied scores label = %q, want Neutral", *c.SentimentLabel)
	}
	if *c.SentimentScore != 0.0 {
		t.Errorf("neutral score = %v, want 0.0", *c.SentimentScore)
	}
}

func TestAnalyzeCommentsClassifierErrorMarksRow(t *testing.T) {
	db := openTestDB(t)
	failID := seedComment(t, db, database.ActionSuggestModify, "will fail")

	mock := &mockClassifier{err: errors.New("model server down")}
	res := NewAnalyzer(db, mock).AnalyzeComments(context.Background())

	if res.Errors != 1 || res.Scored != 0 {
		t.Fatalf("Result = %+v, want 1 error, 0 scored", res)
	}
	c := getComment(t, db, failID)
	if c.SentimentLabel == nil || *c.SentimentLabel != database.LabelError {
		t.Errorf("failed comment label = %v, want Error", c.SentimentLabel)
	}
}

func TestAnalyzeCommentsSkipsProcessed(t *testing.T) {
	db := openTestDB(t)
	id := seedComment(t, db, database.ActionSuggestModify, "already scored")
	if err := db.UpdateCommentSentiment(id, database.LabelPositive, 0.7, 0.7, 0.2, 0.1); err != nil {
		t.Fatalf("UpdateCommentSentiment() error = %v", err)
	}

	mock := &mockClassifier{}
	res := NewAnalyzer(db, mock).AnalyzeComments(context.Background())

	if mock.calls != 0 {
		t.Errorf("classifier called %d times on a fully processed table, want 0", mock.calls)
	}
	if res.Scored != 0 || res.Errors != 0 {
		t.Errorf("Result = %+v, want nothing done", res)
	}
}

func TestAnalyzeCommentsNilClassifier(t *testing.T) {
	db := openTestDB(t)
	seedComment(t, db, database.ActionSuggestModify, "pending text")

	res := NewAnalyzer(db, nil).AnalyzeComments(context.Background())
	if res.Errors != 1 {
		t.Errorf("Errors = %d, want 1 for nil classifier", res.Errors)
	}
}

func TestResolveSignedEncoding(t *testing.T) {
	tests := []struct {
		name   string
		scores nlp.Scores
		label  string
		score  float64
	}{
		{"positive wins", nlp.Scores{Positive: 0.7, Negative: 0.2, Neutral: 0.1}, database.LabelPositive, 0.7},
		{"negative wins", nlp.Scores{Positive: 0.1, Negative: 0.6, Neutral: 0.3}, database.LabelNegative, -0.6},
		{"neutral wins", nlp.Scores{Positive: 0.2, Negative: 0.2, Neutral: 0.6}, database.LabelNeutral, 0.0},
		{"three-way tie", nlp.Scores{Positive: 1.0 / 3, Negative: 1.0 / 3, Neutral: 1.0 / 3}, database.LabelNeutral, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, score := resolve(tt.scores)
			if label != tt.label || score != tt.score {
				t.Errorf("resolve() = %q/%v, want %q/%v", label, score, tt.label, tt.score)
			}
		})
	}
}
