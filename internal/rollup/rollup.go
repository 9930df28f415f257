package rollup

import (
	"context"
	"fmt"
	"log"
	"strings"

	"econsult/internal/database"
	"econsult/internal/nlp"
)

const (
	// At least this many qualifying comments before a section is worth
	// summarizing at all.
	minComments = 2

	sectionMaxLength = 256
	sectionMinLength = 64
	draftMaxLength   = 400
	draftMinLength   = 100
	keyPointsMax     = 256

	keyPointsPrompt = "Extract the key points as a bulleted list from the following text:\n%s"
)

// Result holds the counts of a roll-up run.
type Result struct {
	SectionsSummarized int
	SectionsSkipped    int
	DraftsSummarized   int
	DraftsSkipped      int
	Errors             int
}

// Aggregator rolls comment text up into section summaries and section
// summaries up into draft summaries, split by sentiment.
type Aggregator struct {
	db         *database.DB
	summarizer nlp.Summarizer
	generator  nlp.Generator
}

// NewAggregator creates a roll-up aggregator.
func NewAggregator(db *database.DB, summarizer nlp.Summarizer, generator nlp.Generator) *Aggregator {
	return &Aggregator{db: db, summarizer: summarizer, generator: generator}
}

// groups partitions comment texts by sentiment label. Every text lands in
// overall; only cleanly labeled texts land in a sentiment bucket, so Error
// and unlabeled rows still contribute to the overall summary.
type groups struct {
	overall  []string
	positive []string
	negative []string
	neutral  []string
}

func partition(comments []database.Comment) groups {
	var g groups
	for _, c := range comments {
		if c.Text == nil || *c.Text == "" {
			continue
		}
		g.overall = append(g.overall, *c.Text)
		if c.SentimentLabel == nil {
			continue
		}
		switch *c.SentimentLabel {
		case database.LabelPositive:
			g.positive = append(g.positive, *c.Text)
		case database.LabelNegative:
			g.negative = append(g.negative, *c.Text)
		case database.LabelNeutral:
			g.neutral = append(g.neutral, *c.Text)
		}
	}
	return g
}

// Run executes both roll-up phases in order: sections first, then drafts,
// so that this run's section summaries feed this run's draft summaries.
func (a *Aggregator) Run(ctx context.Context) *Result {
	r := &Result{}
	if a.summarizer == nil {
		log.Println("No summarizer available for roll-up aggregation")
		r.Errors++
		return r
	}
	a.runSections(ctx, r)
	a.runDrafts(ctx, r)
	return r
}

func (a *Aggregator) runSections(ctx context.Context, r *Result) {
	sections, err := a.db.GetSectionsPendingSummary()
	if err != nil {
		log.Printf("Error getting sections pending summary: %v", err)
		r.Errors++
		return
	}
	if len(sections) == 0 {
		log.Println("No sections pending summarization")
		return
	}

	log.Printf("Rolling up %d sections", len(sections))
	for _, section := range sections {
		comments, err := a.db.GetQualifyingComments(section.ID)
		if err != nil {
			log.Printf("Error getting comments for section %d: %v", section.ID, err)
			r.Errors++
			continue
		}
		if len(comments) < minComments {
			r.SectionsSkipped++
			continue
		}

		g := partition(comments)

		overall, err := a.summarizeGroup(ctx, g.overall, sectionMaxLength, sectionMinLength)
		if err != nil {
			// Leave the row untouched so the next run retries it.
			log.Printf("Error summarizing section %d: %v", section.ID, err)
			r.Errors++
			continue
		}

		keyPoints := a.extractKeyPoints(ctx, section.ID, overall)
		positive := a.summarizeGroupOrNil(ctx, section.ID, "positive", g.positive, sectionMaxLength, sectionMinLength)
		negative := a.summarizeGroupOrNil(ctx, section.ID, "negative", g.negative, sectionMaxLength, sectionMinLength)
		neutral := a.summarizeGroupOrNil(ctx, section.ID, "neutral", g.neutral, sectionMaxLength, sectionMinLength)

		if err := a.db.UpdateSectionAnalysis(section.ID, overall, keyPoints, positive, negative, neutral); err != nil {
			log.Printf("Error saving analysis for section %d: %v", section.ID, err)
			r.Errors++
			continue
		}
		r.SectionsSummarized++
	}
	log.Printf("Section roll-up complete: %d summarized, %d skipped", r.SectionsSummarized, r.SectionsSkipped)
}

func (a *Aggregator) runDrafts(ctx context.Context, r *Result) {
	drafts, err := a.db.GetDraftsPendingSummary()
	if err != nil {
		log.Printf("Error getting drafts pending summary: %v", err)
		r.Errors++
		return
	}
	if len(drafts) == 0 {
		log.Println("No drafts pending summarization")
		return
	}

	log.Printf("Rolling up %d drafts", len(drafts))
	for _, draft := range drafts {
		sections, err := a.db.GetSummarizedSections(draft.ID)
		if err != nil {
			log.Printf("Error getting summarized sections for draft %d: %v", draft.ID, err)
			r.Errors++
			continue
		}
		if len(sections) == 0 {
			r.DraftsSkipped++
			continue
		}

		var g groups
		for _, s := range sections {
			if s.AISummary != nil && *s.AISummary != "" {
				g.overall = append(g.overall, *s.AISummary)
			}
			if s.SummaryPositive != nil && *s.SummaryPositive != "" {
				g.positive = append(g.positive, *s.SummaryPositive)
			}
			if s.SummaryNegative != nil && *s.SummaryNegative != "" {
				g.negative = append(g.negative, *s.SummaryNegative)
			}
			if s.SummaryNeutral != nil && *s.SummaryNeutral != "" {
				g.neutral = append(g.neutral, *s.SummaryNeutral)
			}
		}

		overall, err := a.summarizeGroup(ctx, g.overall, draftMaxLength, draftMinLength)
		if err != nil {
			log.Printf("Error summarizing draft %d: %v", draft.ID, err)
			r.Errors++
			continue
		}
		positive := a.summarizeGroupOrNil(ctx, draft.ID, "positive", g.positive, draftMaxLength, draftMinLength)
		negative := a.summarizeGroupOrNil(ctx, draft.ID, "negative", g.negative, draftMaxLength, draftMinLength)
		neutral := a.summarizeGroupOrNil(ctx, draft.ID, "neutral", g.neutral, draftMaxLength, draftMinLength)

		if err := a.db.UpdateDraftSummaries(draft.ID, overall, positive, negative, neutral); err != nil {
			log.Printf("Error saving summaries for draft %d: %v", draft.ID, err)
			r.Errors++
			continue
		}
		r.DraftsSummarized++
	}
	log.Printf("Draft roll-up complete: %d summarized, %d skipped", r.DraftsSummarized, r.DraftsSkipped)
}

// summarizeGroup summarizes a non-empty group and returns the text, or an
// error that the caller must treat as "retry the whole row".
func (a *Aggregator) summarizeGroup(ctx context.Context, texts []string, maxLength, minLength int) (*string, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to summarize")
	}
	summary, err := a.summarizer.Summarize(ctx, texts, maxLength, minLength)
	if err != nil {
		return nil, err
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, fmt.Errorf("summarizer returned empty text")
	}
	return &summary, nil
}

// summarizeGroupOrNil summarizes a sentiment group, degrading to NULL when
// the group is empty or the adapter fails. The overall summary already
// succeeded at this point, so a sub-summary failure must not block the row.
func (a *Aggregator) summarizeGroupOrNil(ctx context.Context, id int64, group string, texts []string, maxLength, minLength int) *string {
	if len(texts) == 0 {
		return nil
	}
	summary, err := a.summarizeGroup(ctx, texts, maxLength, minLength)
	if err != nil {
		log.Printf("Error summarizing %s group for row %d: %v", group, id, err)
		return nil
	}
	return summary
}

func (a *Aggregator) extractKeyPoints(ctx context.Context, sectionID int64, overall *string) *string {
	if a.generator == nil || overall == nil {
		return nil
	}
	text, err := a.generator.Generate(ctx, fmt.Sprintf(keyPointsPrompt, *overall), keyPointsMax)
	if err != nil {
		log.Printf("Error extracting key points for section %d: %v", sectionID, err)
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &text
}
