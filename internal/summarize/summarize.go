package summarize

import (
	"context"
	"fmt"
	"log"

	"econsult/internal/database"
	"econsult/internal/nlp"
)

// ErrorSentinel is stored in ai_summary when the model call fails so the
// row is visible as failed and gets retried on the next run.
const ErrorSentinel = "Error generating summary."

const (
	maxSummaryLength = 80
	minSummaryLength = 15
)

// Result holds the counts of a comment summarization run.
type Result struct {
	Summarized int
	Errors     int
}

// Summarizer produces per-comment summaries for long comments.
type Summarizer struct {
	db    *database.DB
	model nlp.Summarizer
}

// NewSummarizer creates a comment summarizer.
func NewSummarizer(db *database.DB, model nlp.Summarizer) *Summarizer {
	return &Summarizer{db: db, model: model}
}

// SummarizeComments processes every comment long enough to warrant a summary
// whose ai_summary is NULL or holds the error sentinel from a prior run.
func (s *Summarizer) SummarizeComments(ctx context.Context) *Result {
	r := &Result{}

	if s.model == nil {
		log.Println("No summarizer available for comment summaries")
		r.Errors++
		return r
	}

	comments, err := s.db.GetCommentsPendingSummary(ErrorSentinel)
	if err != nil {
		log.Printf("Error getting comments pending summary: %v", err)
		r.Errors++
		return r
	}
	if len(comments) == 0 {
		log.Println("No comments pending summarization")
		return r
	}

	log.Printf("Summarizing %d comments", len(comments))
	for _, comment := range comments {
		prompt := fmt.Sprintf("Summarize the following user comment regarding the law section '%s':\n\n\"%s\"",
			comment.SectionTitle, comment.Text)
		raw, err := s.model.Summarize(ctx, []string{prompt}, maxSummaryLength, minSummaryLength)
		if err != nil {
			log.Printf("Error summarizing comment %d: %v", comment.ID, err)
			if err := s.db.UpdateCommentSummary(comment.ID, ErrorSentinel); err != nil {
				log.Printf("Error marking comment %d: %v", comment.ID, err)
			}
			r.Errors++
			continue
		}

		if err := s.db.UpdateCommentSummary(comment.ID, CleanSummary(raw)); err != nil {
			log.Printf("Error saving summary for comment %d: %v", comment.ID, err)
			r.Errors++
			continue
		}
		r.Summarized++
	}

	log.Printf("Comment summarization complete: %d summarized, %d errors", r.Summarized, r.Errors)
	return r
}
