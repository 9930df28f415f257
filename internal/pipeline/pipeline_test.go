package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"econsult/internal/config"
	"econsult/internal/database"
)

// modelServer fakes the external model server for an end-to-end run.
func modelServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sentiment", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"scores": map[string]float64{"positive": 0.1, "negative": 0.8, "neutral": 0.1},
		})
	})
	mux.HandleFunc("/v1/summarize", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"summary": "A summary."})
	})
	mux.HandleFunc("/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "- a key point"})
	})
	mux.HandleFunc("/v1/wordcloud", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func seed(t *testing.T, db *database.DB) {
	t.Helper()
	body := "Body"
	draftID, err := db.InsertDraft("Draft", &body)
	if err != nil {
		t.Fatalf("InsertDraft() error = %v", err)
	}
	sectionID, err := db.InsertSection(draftID, "Section 1", &body)
	if err != nil {
		t.Fatalf("InsertSection() error = %v", err)
	}
	userID, err := db.InsertUser(database.User{FirstName: "A", LastName: "B", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("InsertUser() error = %v", err)
	}
	submissionID, err := db.InsertSubmission(userID, draftID)
	if err != nil {
		t.Fatalf("InsertSubmission() error = %v", err)
	}
	texts := []string{
		"The compliance timeline in this provision is unrealistic for smaller firms.",
		"Enforcement powers here need independent oversight and a clear appeal path.",
	}
	for _, text := range texts {
		text := text
		if _, err := db.InsertComment(submissionID, sectionID, database.ActionSuggestModify, &text); err != nil {
			t.Fatalf("InsertComment() error = %v", err)
		}
	}
}

func newPipeline(t *testing.T) (*Pipeline, *database.DB) {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	srv := modelServer(t)
	cfg := &config.Config{}
	cfg.Models.BaseURL = srv.URL
	cfg.Models.Renderer = srv.URL
	cfg.Models.Classifier = "classifier"
	cfg.Models.Summarizer = "summarizer"
	cfg.Models.KeyPoints = "generator"
	cfg.Output.DataDir = dir
	return New(cfg, db), db
}

func TestRunProcessesAllStages(t *testing.T) {
	p, db := newPipeline(t)
	seed(t, db)

	res := p.Run(context.Background(), false)
	if got := res.Errors(); got != 0 {
		t.Fatalf("Errors() = %d, steps %+v", got, res.Steps)
	}
	if len(res.Steps) != 5 {
		t.Fatalf("len(Steps) = %d, want 5", len(res.Steps))
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.ScoredComments != 2 || stats.SummarizedComments != 2 {
		t.Errorf("stats = %+v, want both comments scored and summarized", stats)
	}
	if stats.SummarizedSections != 1 || stats.SummarizedDrafts != 1 {
		t.Errorf("stats = %+v, want section and draft summarized", stats)
	}
	if stats.RenderedSections != 1 || stats.RenderedDrafts != 1 || stats.RenderedComments != 2 {
		t.Errorf("stats = %+v, want clouds rendered at all levels", stats)
	}
}

func TestRunSkipWordClouds(t *testing.T) {
	p, db := newPipeline(t)
	seed(t, db)

	res := p.Run(context.Background(), true)
	if len(res.Steps) != 4 {
		t.Fatalf("len(Steps) = %d, want 4 with word clouds skipped", len(res.Steps))
	}
	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.RenderedComments != 0 || stats.RenderedSections != 0 {
		t.Errorf("stats = %+v, want no clouds rendered", stats)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	p, db := newPipeline(t)
	seed(t, db)

	p.Run(context.Background(), false)
	pending, err := p.DryRun()
	if err != nil {
		t.Fatalf("DryRun() error = %v", err)
	}
	if pending.Sentiment != 0 || pending.CommentSummaries != 0 || pending.Sections != 0 ||
		pending.Drafts != 0 || pending.WordClouds != 0 {
		t.Errorf("Pending after a full run = %+v, want all zero", pending)
	}

	res := p.Run(context.Background(), false)
	for _, step := range res.Steps {
		if step.Processed != 0 {
			t.Errorf("step %q processed %d rows on the second run, want 0", step.Name, step.Processed)
		}
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.ScoredComments != 2 {
		t.Errorf("ScoredComments = %d after two runs, want 2", stats.ScoredComments)
	}
}

func TestDryRunReportsPendingWork(t *testing.T) {
	p, db := newPipeline(t)
	seed(t, db)

	pending, err := p.DryRun()
	if err != nil {
		t.Fatalf("DryRun() error = %v", err)
	}
	if pending.Sentiment != 2 {
		t.Errorf("Pending.Sentiment = %d, want 2", pending.Sentiment)
	}
	if pending.CommentSummaries != 2 {
		t.Errorf("Pending.CommentSummaries = %d, want 2", pending.CommentSummaries)
	}
	if pending.Sections != 1 || pending.Drafts != 1 {
		t.Errorf("Pending = %+v, want one section and one draft", pending)
	}
	if pending.WordClouds != 4 {
		t.Errorf("Pending.WordClouds = %d, want 4 (section, draft, two comments)", pending.WordClouds)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.ScoredComments != 0 {
		t.Errorf("DryRun scored %d comments, want no writes", stats.ScoredComments)
	}
}
