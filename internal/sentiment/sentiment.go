package sentiment

import (
	"context"
	"log"

	"econsult/internal/database"
	"econsult/internal/nlp"
)

// Result holds the counts of a sentiment assignment run.
type Result struct {
	RuleRemoval   int
	RuleAgreement int
	Scored        int
	Errors        int
}

// Analyzer assigns sentiment labels to comments: deterministic rules first,
// then the classifier for everything still unscored.
type Analyzer struct {
	db         *database.DB
	classifier nlp.Classifier
}

// NewAnalyzer creates a sentiment analyzer.
func NewAnalyzer(db *database.DB, classifier nlp.Classifier) *Analyzer {
	return &Analyzer{db: db, classifier: classifier}
}

// AnalyzeComments processes every comment whose sentiment_label is NULL.
// The rule pass is committed before the model pass, so a crash between the
// two leaves rule rows settled and model rows still pending for the rerun.
func (a *Analyzer) AnalyzeComments(ctx context.Context) *Result {
	r := &Result{}

	removal, agreement, err := a.db.ApplySentimentRules()
	if err != nil {
		log.Printf("Error applying sentiment rules: %v", err)
		r.Errors++
		return r
	}
	r.RuleRemoval = int(removal)
	r.RuleAgreement = int(agreement)
	if removal+agreement > 0 {
		log.Printf("Rule pass settled %d 'Suggest removal' and %d empty 'In Agreement' comments", removal, agreement)
	}

	if a.classifier == nil {
		log.Println("No classifier available for sentiment analysis")
		r.Errors++
		return r
	}

	comments, err := a.db.GetCommentsPendingSentiment()
	if err != nil {
		log.Printf("Error getting unscored comments: %v", err)
		r.Errors++
		return r
	}
	if len(comments) == 0 {
		log.Println("No comments pending sentiment analysis")
		return r
	}

	log.Printf("Scoring %d comments with the classifier", len(comments))
	for _, comment := range comments {
		scores, err := a.classifier.Classify(ctx, *comment.Text)
		if err != nil {
			log.Printf("Error classifying comment %d: %v", comment.ID, err)
			if err := a.db.UpdateCommentSentiment(comment.ID, database.LabelError, 0, 0, 0, 0); err != nil {
				log.Printf("Error marking comment %d: %v", comment.ID, err)
			}
			r.Errors++
			continue
		}

		label, score := resolve(scores)
		if err := a.db.UpdateCommentSentiment(comment.ID, label,
			score, scores.Positive, scores.Negative, scores.Neutral); err != nil {
			log.Printf("Error updating comment %d: %v", comment.ID, err)
			r.Errors++
			continue
		}
		r.Scored++
	}

	log.Printf("Sentiment analysis complete: %d scored, %d errors", r.Scored, r.Errors)
	return r
}

// resolve picks the label with the strictly highest probability and encodes
// the stored scalar as +p for Positive, -p for Negative, 0 for Neutral.
// Exact ties fall through to Neutral.
func resolve(s nlp.Scores) (string, float64) {
	switch {
	case s.Positive > s.Negative && s.Positive > s.Neutral:
		return database.LabelPositive, s.Positive
	case s.Negative > s.Positive && s.Negative > s.Neutral:
		return database.LabelNegative, -s.Negative
	default:
		return database.LabelNeutral, 0.0
	}
}
