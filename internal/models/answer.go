package models

// Answer is the wire shape submitted to the grading backend. Exactly one
// field group is set, matching the question type:
//
//	MultipleChoice / TrueFalse -> SelectedIndex
//	MultipleSelect             -> SelectedIndexes (insertion order preserved)
//	FillInBlank                -> BlankSelections (one per blank, in order)
//	Matching                   -> MatchSelections (right index per left item)
//	ShortAnswer / Essay        -> Text
type Answer struct {
	SelectedIndex   *int    `json:"selected_index,omitempty"`
	SelectedIndexes []int   `json:"selected_indexes,omitempty"`
	BlankSelections []int   `json:"blank_selections,omitempty"`
	MatchSelections []int   `json:"match_selections,omitempty"`
	Text            *string `json:"text,omitempty"`
}

// AnswerState is the UI-facing copy of the in-progress answer container,
// included in session snapshots so a re-attaching client can restore its
// input state. Nil entries are blanks/matches not yet filled.
type AnswerState struct {
	SelectedIndex   *int   `json:"selected_index,omitempty"`
	SelectedIndexes []int  `json:"selected_indexes,omitempty"`
	BlankSelections []*int `json:"blank_selections,omitempty"`
	MatchSelections []*int `json:"match_selections,omitempty"`
	Text            string `json:"text,omitempty"`
	WordCount       int    `json:"word_count,omitempty"`
}

// Feedback is the transient, mode-gated correctness notice. It is only ever
// populated in adaptive sessions; standard sessions never surface
// correctness mid-session.
type Feedback struct {
	IsCorrect bool `json:"is_correct"`
	Visible   bool `json:"visible"`
}
