package database

// Sentiment labels stored in comments.sentiment_label. NULL means not yet scored.
const (
	LabelPositive = "Positive"
	LabelNegative = "Negative"
	LabelNeutral  = "Neutral"
	LabelError    = "Error"
)

// Comment action types, matching the schema CHECK constraint.
const (
	ActionInAgreement       = "In Agreement"
	ActionSuggestRemoval    = "Suggest removal"
	ActionSuggestModify     = "Suggest modification"
	ActionImplicitAgreement = "Implicit Agreement"
)

// Draft represents a piece of draft legislation open for public comment.
// Derived fields are NULL until the analysis pipeline computes them.
type Draft struct {
	ID          int64
	Title       string
	Description *string
	CreatedAt   *string

	AISummary       *string
	SummaryPositive *string
	SummaryNegative *string
	SummaryNeutral  *string

	WordCloudPath         *string
	WordCloudPositivePath *string
	WordCloudNegativePath *string
	WordCloudNeutralPath  *string
}

// Section is a numbered clause within a draft.
type Section struct {
	ID      int64
	DraftID int64
	Title   string
	Content *string

	AISummary       *string
	KeyPoints       *string
	SummaryPositive *string
	SummaryNegative *string
	SummaryNeutral  *string

	WordCloudPath         *string
	WordCloudPositivePath *string
	WordCloudNegativePath *string
	WordCloudNeutralPath  *string
}

// User is a registered commenter, individual or organization.
type User struct {
	ID               int64
	FirstName        string
	LastName         string
	Email            string
	Phone            *string
	Address          *string
	Country          *string
	State            *string
	IsOrganization   bool
	OrganizationName *string
	Industry         *string
	CreatedAt        *string
}

// Submission links one user's comment session to a draft.
type Submission struct {
	ID          int64
	UserID      int64
	DraftID     int64
	OTPVerified bool
	Status      string
	SubmittedAt *string
}

// Comment is one user's remark on one section within a submission.
type Comment struct {
	ID           int64
	SubmissionID int64
	SectionID    int64
	ActionType   string
	Text         *string
	CreatedAt    *string
	UpdatedAt    *string

	SentimentLabel *string
	SentimentScore *float64
	ScorePositive  *float64
	ScoreNegative  *float64
	ScoreNeutral   *float64

	AISummary     *string
	WordCloudPath *string
}

// CommentForSummary is a comment joined with its section title, used to
// build the per-comment summarization prompt.
type CommentForSummary struct {
	ID           int64
	Text         string
	SectionTitle string
}

// CommentOverview is a comment joined with section and submitter context,
// as served by the comments-by-draft endpoint.
type CommentOverview struct {
	Comment
	SectionTitle   string
	State          *string
	Industry       string
	IsOrganization bool
}

// CommentWithCommenter is a comment joined with the commenter's identity,
// used in the nested single-draft response.
type CommentWithCommenter struct {
	Comment
	FirstName        string
	LastName         string
	OrganizationName *string
}

// Stats contains aggregate database statistics.
type Stats struct {
	Drafts             int
	Sections           int
	Users              int
	Submissions        int
	Comments           int
	ScoredComments     int
	SummarizedComments int
	SummarizedSections int
	SummarizedDrafts   int
	RenderedComments   int
	RenderedSections   int
	RenderedDrafts     int
}
