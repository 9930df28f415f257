package wordcloud

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"econsult/internal/database"
)

// Colormap per sentiment partition.
const (
	colormapOverall  = "viridis"
	colormapPositive = "Greens"
	colormapNegative = "Reds"
	colormapNeutral  = "Blues"
)

const cloudDir = "static/wordclouds"

// Result holds the counts of a word cloud generation run.
type Result struct {
	Sections int
	Drafts   int
	Comments int
	Skipped  int
	Errors   int
}

// Generator renders word clouds for sections, drafts and comments that do
// not have one yet, writing PNGs under the data directory and storing
// relative paths in the database.
type Generator struct {
	db       *database.DB
	renderer Renderer
	dataDir  string
}

// NewGenerator creates a word cloud generator rooted at dataDir.
func NewGenerator(db *database.DB, renderer Renderer, dataDir string) *Generator {
	return &Generator{db: db, renderer: renderer, dataDir: dataDir}
}

// Run executes the three generation passes: sections, drafts, comments.
func (g *Generator) Run(ctx context.Context) *Result {
	r := &Result{}
	if g.renderer == nil {
		log.Println("No renderer available for word clouds")
		r.Errors++
		return r
	}
	g.runSections(ctx, r)
	g.runDrafts(ctx, r)
	g.runComments(ctx, r)
	log.Printf("Word cloud generation complete: %d sections, %d drafts, %d comments, %d skipped, %d errors",
		r.Sections, r.Drafts, r.Comments, r.Skipped, r.Errors)
	return r
}

// textGroups partitions comment texts by sentiment label the same way the
// summary roll-up does: everything in overall, labeled rows in their bucket.
type textGroups struct {
	overall  []string
	positive []string
	negative []string
	neutral  []string
}

func groupComments(comments []database.Comment) textGroups {
	var g textGroups
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

func (g *Generator) runSections(ctx context.Context, r *Result) {
	sections, err := g.db.GetSectionsPendingWordCloud()
	if err != nil {
		log.Printf("Error getting sections pending word clouds: %v", err)
		r.Errors++
		return
	}
	for _, section := range sections {
		comments, err := g.db.GetCommentsWithTextForSection(section.ID)
		if err != nil {
			log.Printf("Error getting comments for section %d: %v", section.ID, err)
			r.Errors++
			continue
		}
		grp := groupComments(comments)

		overall, err := g.renderCloud(ctx, "sections", fmt.Sprintf("section_%d_overall", section.ID), grp.overall, colormapOverall)
		if err != nil {
			log.Printf("Error rendering word cloud for section %d: %v", section.ID, err)
			r.Errors++
			continue
		}
		if overall == nil {
			r.Skipped++
			continue
		}
		positive := g.renderCloudOrNil(ctx, "sections", fmt.Sprintf("section_%d_positive", section.ID), grp.positive, colormapPositive)
		negative := g.renderCloudOrNil(ctx, "sections", fmt.Sprintf("section_%d_negative", section.ID), grp.negative, colormapNegative)
		neutral := g.renderCloudOrNil(ctx, "sections", fmt.Sprintf("section_%d_neutral", section.ID), grp.neutral, colormapNeutral)

		if err := g.db.UpdateSectionWordClouds(section.ID, overall, positive, negative, neutral); err != nil {
			log.Printf("Error saving word cloud paths for section %d: %v", section.ID, err)
			r.Errors++
			continue
		}
		r.Sections++
	}
}

func (g *Generator) runDrafts(ctx context.Context, r *Result) {
	drafts, err := g.db.GetDraftsPendingWordCloud()
	if err != nil {
		log.Printf("Error getting drafts pending word clouds: %v", err)
		r.Errors++
		return
	}
	for _, draft := range drafts {
		comments, err := g.db.GetCommentsWithTextForDraft(draft.ID)
		if err != nil {
			log.Printf("Error getting comments for draft %d: %v", draft.ID, err)
			r.Errors++
			continue
		}
		grp := groupComments(comments)

		overall, err := g.renderCloud(ctx, "drafts", fmt.Sprintf("draft_%d_overall", draft.ID), grp.overall, colormapOverall)
		if err != nil {
			log.Printf("Error rendering word cloud for draft %d: %v", draft.ID, err)
			r.Errors++
			continue
		}
		if overall == nil {
			r.Skipped++
			continue
		}
		positive := g.renderCloudOrNil(ctx, "drafts", fmt.Sprintf("draft_%d_positive", draft.ID), grp.positive, colormapPositive)
		negative := g.renderCloudOrNil(ctx, "drafts", fmt.Sprintf("draft_%d_negative", draft.ID), grp.negative, colormapNegative)
		neutral := g.renderCloudOrNil(ctx, "drafts", fmt.Sprintf("draft_%d_neutral", draft.ID), grp.neutral, colormapNeutral)

		if err := g.db.UpdateDraftWordClouds(draft.ID, overall, positive, negative, neutral); err != nil {
			log.Printf("Error saving word cloud paths for draft %d: %v", draft.ID, err)
			r.Errors++
			continue
		}
		r.Drafts++
	}
}

func (g *Generator) runComments(ctx context.Context, r *Result) {
	comments, err := g.db.GetCommentsPendingWordCloud()
	if err != nil {
		log.Printf("Error getting comments pending word clouds: %v", err)
		r.Errors++
		return
	}
	for _, comment := range comments {
		path, err := g.renderCloud(ctx, "comments", fmt.Sprintf("comment_%d", comment.ID), []string{*comment.Text}, colormapOverall)
		if err != nil {
			log.Printf("Error rendering word cloud for comment %d: %v", comment.ID, err)
			r.Errors++
			continue
		}
		if path == nil {
			r.Skipped++
			continue
		}
		if err := g.db.UpdateCommentWordCloud(comment.ID, *path); err != nil {
			log.Printf("Error saving word cloud path for comment %d: %v", comment.ID, err)
			r.Errors++
			continue
		}
		r.Comments++
	}
}

// renderCloud builds frequencies, renders, and writes the PNG. A nil path
// with nil error means there was too little text for a cloud.
func (g *Generator) renderCloud(ctx context.Context, subdir, name string, texts []string, colormap string) (*string, error) {
	freqs := BuildFrequencies(texts)
	if freqs == nil {
		return nil, nil
	}
	png, err := g.renderer.Render(ctx, freqs, colormap)
	if err != nil {
		return nil, err
	}

	relPath := filepath.ToSlash(filepath.Join(cloudDir, subdir, name+".png"))
	absPath := filepath.Join(g.dataDir, cloudDir, subdir, name+".png")
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating word cloud directory: %w", err)
	}
	if err := os.WriteFile(absPath, png, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", absPath, err)
	}
	return &relPath, nil
}

// renderCloudOrNil degrades render failures of sentiment sub-clouds to a
// NULL path instead of blocking the row.
func (g *Generator) renderCloudOrNil(ctx context.Context, subdir, name string, texts []string, colormap string) *string {
	path, err := g.renderCloud(ctx, subdir, name, texts, colormap)
	if err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		return nil
	}
	return path
}
