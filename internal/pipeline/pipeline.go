package pipeline

import (
	"context"
	"fmt"
	"log"

	"econsult/internal/config"
	"econsult/internal/database"
	"econsult/internal/nlp"
	"econsult/internal/rollup"
	"econsult/internal/sentiment"
	"econsult/internal/summarize"
	"econsult/internal/wordcloud"
)

// StepResult summarizes one pipeline step.
type StepResult struct {
	Name      string
	Processed int
	Skipped   int
	Errors    int
}

// Result summarizes a full pipeline run.
type Result struct {
	Steps []StepResult
}

// Errors sums the error counts across steps.
func (r *Result) Errors() int {
	total := 0
	for _, s := range r.Steps {
		total += s.Errors
	}
	return total
}

// Pending holds the row counts DryRun reports.
type Pending struct {
	Sentiment        int
	CommentSummaries int
	Sections         int
	Drafts           int
	WordClouds       int
}

// Pipeline wires the analysis stages together and runs them in order.
// Each stage's sentinel columns make reruns resume where the last run
// stopped, so the pipeline itself carries no state.
type Pipeline struct {
	db       *database.DB
	client   *nlp.Client
	renderer wordcloud.Renderer
	dataDir  string
}

// New builds a pipeline from the configuration.
func New(cfg *config.Config, db *database.DB) *Pipeline {
	client := nlp.NewClient(cfg.Models.BaseURL, cfg.Models.Classifier, cfg.Models.Summarizer, cfg.Models.KeyPoints)
	return &Pipeline{
		db:       db,
		client:   client,
		renderer: wordcloud.NewHTTPRenderer(cfg.Models.Renderer),
		dataDir:  cfg.GetDataDir(),
	}
}

// Run executes all stages sequentially. A stage's failures never stop the
// following stages; downstream sentinels simply stay unset and get picked
// up by the next run.
func (p *Pipeline) Run(ctx context.Context, skipWordClouds bool) *Result {
	r := &Result{}

	log.Println("Step 1/5: sentiment analysis")
	sr := sentiment.NewAnalyzer(p.db, p.client).AnalyzeComments(ctx)
	r.Steps = append(r.Steps, StepResult{
		Name:      "sentiment",
		Processed: sr.RuleRemoval + sr.RuleAgreement + sr.Scored,
		Errors:    sr.Errors,
	})

	log.Println("Step 2/5: comment summaries")
	cs := summarize.NewSummarizer(p.db, p.client).SummarizeComments(ctx)
	r.Steps = append(r.Steps, StepResult{
		Name:      "comment summaries",
		Processed: cs.Summarized,
		Errors:    cs.Errors,
	})

	log.Println("Step 3/5 and 4/5: section and draft roll-up")
	ar := rollup.NewAggregator(p.db, p.client, p.client).Run(ctx)
	r.Steps = append(r.Steps, StepResult{
		Name:      "section roll-up",
		Processed: ar.SectionsSummarized,
		Skipped:   ar.SectionsSkipped,
		Errors:    ar.Errors,
	}, StepResult{
		Name:      "draft roll-up",
		Processed: ar.DraftsSummarized,
		Skipped:   ar.DraftsSkipped,
	})

	if skipWordClouds {
		log.Println("Step 5/5: word clouds (skipped)")
		return r
	}
	log.Println("Step 5/5: word clouds")
	wr := wordcloud.NewGenerator(p.db, p.renderer, p.dataDir).Run(ctx)
	r.Steps = append(r.Steps, StepResult{
		Name:      "word clouds",
		Processed: wr.Sections + wr.Drafts + wr.Comments,
		Skipped:   wr.Skipped,
		Errors:    wr.Errors,
	})
	return r
}

// DryRun reports how many rows each stage would touch, without any model
// calls or writes.
func (p *Pipeline) DryRun() (*Pending, error) {
	pending := &Pending{}

	comments, err := p.db.GetCommentsPendingSentiment()
	if err != nil {
		return nil, fmt.Errorf("counting pending sentiment: %w", err)
	}
	pending.Sentiment = len(comments)

	forSummary, err := p.db.GetCommentsPendingSummary(summarize.ErrorSentinel)
	if err != nil {
		return nil, fmt.Errorf("counting pending comment summaries: %w", err)
	}
	pending.CommentSummaries = len(forSummary)

	sections, err := p.db.GetSectionsPendingSummary()
	if err != nil {
		return nil, fmt.Errorf("counting pending sections: %w", err)
	}
	pending.Sections = len(sections)

	drafts, err := p.db.GetDraftsPendingSummary()
	if err != nil {
		return nil, fmt.Errorf("counting pending drafts: %w", err)
	}
	pending.Drafts = len(drafts)

	cloudSections, err := p.db.GetSectionsPendingWordCloud()
	if err != nil {
		return nil, fmt.Errorf("counting pending word clouds: %w", err)
	}
	cloudDrafts, err := p.db.GetDraftsPendingWordCloud()
	if err != nil {
		return nil, fmt.Errorf("counting pending word clouds: %w", err)
	}
	cloudComments, err := p.db.GetCommentsPendingWordCloud()
	if err != nil {
		return nil, fmt.Errorf("counting pending word clouds: %w", err)
	}
	pending.WordClouds = len(cloudSections) + len(cloudDrafts) + len(cloudComments)

	return pending, nil
}
