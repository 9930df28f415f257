package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"econsult/internal/database"
)

// Response shapes for the JSON API. Field names follow the column names
// clients already consume.

type draftResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	CreatedAt   *string `json:"created_at"`

	AISummary       *string `json:"draft_ai_summary"`
	SummaryPositive *string `json:"summary_positive"`
	SummaryNegative *string `json:"summary_negative"`
	SummaryNeutral  *string `json:"summary_neutral"`

	WordCloudPath         *string `json:"word_cloud_image_path"`
	WordCloudPositivePath *string `json:"wordcloud_positive_path"`
	WordCloudNegativePath *string `json:"wordcloud_negative_path"`
	WordCloudNeutralPath  *string `json:"wordcloud_neutral_path"`
}

type sectionResponse struct {
	ID      int64   `json:"id"`
	DraftID int64   `json:"draft_id"`
	Title   string  `json:"section_title"`
	Content *string `json:"section_content"`

	AISummary       *string `json:"section_ai_summary"`
	KeyPoints       *string `json:"section_ai_key_points"`
	SummaryPositive *string `json:"summary_positive"`
	SummaryNegative *string `json:"summary_negative"`
	SummaryNeutral  *string `json:"summary_neutral"`

	WordCloudPath         *string `json:"word_cloud_image_path"`
	WordCloudPositivePath *string `json:"wordcloud_positive_path"`
	WordCloudNegativePath *string `json:"wordcloud_negative_path"`
	WordCloudNeutralPath  *string `json:"wordcloud_neutral_path"`
}

type commentResponse struct {
	ID           int64   `json:"id"`
	SubmissionID int64   `json:"submission_id"`
	SectionID    int64   `json:"section_id"`
	ActionType   string  `json:"action_type"`
	Text         *string `json:"comment_text"`
	CreatedAt    *string `json:"created_at"`

	SentimentLabel *string  `json:"sentiment_label"`
	SentimentScore *float64 `json:"sentiment_score"`
	ScorePositive  *float64 `json:"score_positive"`
	ScoreNegative  *float64 `json:"score_negative"`
	ScoreNeutral   *float64 `json:"score_neutral"`

	AISummary     *string `json:"ai_summary"`
	WordCloudPath *string `json:"word_cloud_image_path"`
}

type commentOverviewResponse struct {
	commentResponse
	SectionTitle   string  `json:"section_title"`
	State          *string `json:"state"`
	Industry       string  `json:"industry"`
	IsOrganization bool    `json:"is_organization"`
}

type nestedCommentResponse struct {
	commentResponse
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	OrganizationName *string `json:"organization_name"`
}

type nestedSectionResponse struct {
	sectionResponse
	Comments []nestedCommentResponse `json:"comments"`
}

type nestedDraftResponse struct {
	draftResponse
	Sections []nestedSectionResponse `json:"sections"`
}

func toDraftResponse(d database.Draft) draftResponse {
	return draftResponse{
		ID:                    d.ID,
		Title:                 d.Title,
		Description:           d.Description,
		CreatedAt:             d.CreatedAt,
		AISummary:             d.AISummary,
		SummaryPositive:       d.SummaryPositive,
		SummaryNegative:       d.SummaryNegative,
		SummaryNeutral:        d.SummaryNeutral,
		WordCloudPath:         d.WordCloudPath,
		WordCloudPositivePath: d.WordCloudPositivePath,
		WordCloudNegativePath: d.WordCloudNegativePath,
		WordCloudNeutralPath:  d.WordCloudNeutralPath,
	}
}

func toSectionResponse(s database.Section) sectionResponse {
	return sectionResponse{
		ID:                    s.ID,
		DraftID:               s.DraftID,
		Title:                 s.Title,
		Content:               s.Content,
		AISummary:             s.AISummary,
		KeyPoints:             s.KeyPoints,
		SummaryPositive:       s.SummaryPositive,
		SummaryNegative:       s.SummaryNegative,
		SummaryNeutral:        s.SummaryNeutral,
		WordCloudPath:         s.WordCloudPath,
		WordCloudPositivePath: s.WordCloudPositivePath,
		WordCloudNegativePath: s.WordCloudNegativePath,
		WordCloudNeutralPath:  s.WordCloudNeutralPath,
	}
}

func toCommentResponse(c database.Comment) commentResponse {
	return commentResponse{
		ID:             c.ID,
		SubmissionID:   c.SubmissionID,
		SectionID:      c.SectionID,
		ActionType:     c.ActionType,
		Text:           c.Text,
		CreatedAt:      c.CreatedAt,
		SentimentLabel: c.SentimentLabel,
		SentimentScore: c.SentimentScore,
		ScorePositive:  c.ScorePositive,
		ScoreNegative:  c.ScoreNegative,
		ScoreNeutral:   c.ScoreNeutral,
		AISummary:      c.AISummary,
		WordCloudPath:  c.WordCloudPath,
	}
}

func (s *Server) handleAPIDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := s.db.GetAllDrafts()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	out := make([]draftResponse, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, toDraftResponse(d))
	}
	writeJSON(w, out)
}

func (s *Server) handleAPISections(w http.ResponseWriter, r *http.Request) {
	draftID, ok := pathID(w, r.URL.Path, "/api/sections/")
	if !ok {
		return
	}
	sections, err := s.db.GetSectionsForDraft(draftID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	out := make([]sectionResponse, 0, len(sections))
	for _, sec := range sections {
		out = append(out, toSectionResponse(sec))
	}
	writeJSON(w, out)
}

func (s *Server) handleAPIComments(w http.ResponseWriter, r *http.Request) {
	draftID, ok := pathID(w, r.URL.Path, "/api/comments/")
	if !ok {
		return
	}
	comments, err := s.db.GetCommentOverviewsForDraft(draftID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	out := make([]commentOverviewResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentOverviewResponse{
			commentResponse: toCommentResponse(c.Comment),
			SectionTitle:    c.SectionTitle,
			State:           c.State,
			Industry:        c.Industry,
			IsOrganization:  c.IsOrganization,
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleAPIDraft(w http.ResponseWriter, r *http.Request) {
	draftID, ok := pathID(w, r.URL.Path, "/api/drafts/")
	if !ok {
		return
	}
	draft, err := s.db.GetDraftByID(draftID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if draft == nil {
		writeJSONError(w, http.StatusNotFound, "Draft not found")
		return
	}

	sections, err := s.db.GetSectionsForDraft(draftID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := nestedDraftResponse{
		draftResponse: toDraftResponse(*draft),
		Sections:      make([]nestedSectionResponse, 0, len(sections)),
	}
	for _, sec := range sections {
		comments, err := s.db.GetCommentsWithCommenter(sec.ID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		nested := nestedSectionResponse{
			sectionResponse: toSectionResponse(sec),
			Comments:        make([]nestedCommentResponse, 0, len(comments)),
		}
		for _, c := range comments {
			nested.Comments = append(nested.Comments, nestedCommentResponse{
				commentResponse:  toCommentResponse(c.Comment),
				FirstName:        c.FirstName,
				LastName:         c.LastName,
				OrganizationName: c.OrganizationName,
			})
		}
		out.Sections = append(out.Sections, nested)
	}
	writeJSON(w, out)
}

// pathID parses the trailing numeric ID of an API path, writing a 404 on
// malformed input.
func pathID(w http.ResponseWriter, path, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(path, prefix)
	raw = strings.TrimSuffix(raw, "/")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "Not found")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": message})
}
