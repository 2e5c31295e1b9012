package models

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	MultipleSelect QuestionType = "multiple_select"
	FillInBlank    QuestionType = "fill_blank"
	Matching       QuestionType = "matching"
	ShortAnswer    QuestionType = "short_answer"
	Essay          QuestionType = "essay"
)

// IsChoice reports whether answers for this type are indexes into Options.
func (t QuestionType) IsChoice() bool {
	return t == MultipleChoice || t == TrueFalse || t == MultipleSelect
}

func (t QuestionType) IsText() bool {
	return t == ShortAnswer || t == Essay
}

// Blank is one fill-in slot with its own option list.
type Blank struct {
	Label   string   `json:"label,omitempty"`
	Options []string `json:"options"`
}

// QuestionMetadata carries the type-specific part of a question payload.
// Only the fields matching the question type are expected to be set.
type QuestionMetadata struct {
	Blanks      []Blank  `json:"blanks,omitempty"`
	LeftItems   []string `json:"left_items,omitempty"`
	RightItems  []string `json:"right_items,omitempty"`
	Description string   `json:"description,omitempty"`
}

// QuestionPayload is the raw question shape delivered by the assessment
// backend, either at session bootstrap or inside a submission response.
type QuestionPayload struct {
	ID             string            `json:"id" validate:"required"`
	Text           string            `json:"text" validate:"required"`
	Type           QuestionType      `json:"type" validate:"required,question_type"`
	Options        []string          `json:"options,omitempty"`
	Metadata       *QuestionMetadata `json:"metadata,omitempty"`
	QuestionNumber int               `json:"question_number"`
	TotalQuestions int               `json:"total_questions"`
}

// Question is the normalized internal representation. Immutable once
// delivered to the session controller.
type Question struct {
	ID             string       `json:"id"`
	Text           string       `json:"text"` // may embed rich markup
	Type           QuestionType `json:"type"`
	Options        []string     `json:"options,omitempty"`
	Blanks         []Blank      `json:"blanks,omitempty"`
	LeftItems      []string     `json:"left_items,omitempty"`
	RightItems     []string     `json:"right_items,omitempty"`
	Description    string       `json:"description,omitempty"`
	QuestionNumber int          `json:"question_number"`
	TotalQuestions int          `json:"total_questions"`

	// Unanswerable is set when the payload metadata was malformed and the
	// question is rendered as an inline diagnostic instead of an input.
	Unanswerable bool   `json:"unanswerable,omitempty"`
	Diagnostic   string `json:"diagnostic,omitempty"`
}
