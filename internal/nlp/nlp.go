package nlp

import "context"

// Scores holds the per-class probabilities returned by the sentiment
// classifier. The three values sum to roughly 1.
type Scores struct {
	Positive float64
	Negative float64
	Neutral  float64
}

// Classifier scores the sentiment of a single text.
type Classifier interface {
	Classify(ctx context.Context, text string) (Scores, error)
}

// Summarizer produces one abstractive summary from one or more input texts.
// Callers must not invoke it with an empty input list.
type Summarizer interface {
	Summarize(ctx context.Context, texts []string, maxLength, minLength int) (string, error)
}

// Generator is an instruction-following text model, used for key-point
// extraction prompts.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxLength int) (string, error)
}
