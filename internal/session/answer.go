package session

import (
	"strings"

	"github.com/SAP-F-2025/session-service/internal/models"
)

// ShortAnswerWordLimit is the hard submission cap for short answers.
// Exceeding it blocks submission entirely, it is not just a warning.
const ShortAnswerWordLimit = 100

// AnswerDraft is the type-specific answer container for the current
// question. Capture operations mutate only the draft; completeness is a
// separate pure predicate so the submit affordance can be re-evaluated on
// every change.
type AnswerDraft struct {
	qtype models.QuestionType

	selectedIndex   *int
	selectedIndexes []int
	blankSelections []*int
	matchSelections []*int
	text            string
	wordCount       int
}

// newDraft builds a fresh, empty container sized to the question shape.
func newDraft(q *models.Question) *AnswerDraft {
	d := &AnswerDraft{qtype: q.Type}
	switch q.Type {
	case models.MultipleSelect:
		d.selectedIndexes = make([]int, 0, len(q.Options))
	case models.FillInBlank:
		d.blankSelections = make([]*int, len(q.Blanks))
	case models.Matching:
		d.matchSelections = make([]*int, len(q.LeftItems))
	}
	return d
}

// Select records the single choice for MCQ/TrueFalse questions.
func (d *AnswerDraft) Select(q *models.Question, option int) error {
	if d.qtype != models.MultipleChoice && d.qtype != models.TrueFalse {
		return ErrCaptureMismatch
	}
	if option < 0 || option >= len(q.Options) {
		return ErrOptionOutOfRange
	}
	d.selectedIndex = &option
	return nil
}

// Toggle adds or removes an option for MultipleSelect questions. Insertion
// order is preserved for display; order is irrelevant for correctness.
func (d *AnswerDraft) Toggle(q *models.Question, option int) error {
	if d.qtype != models.MultipleSelect {
		return ErrCaptureMismatch
	}
	if option < 0 || option >= len(q.Options) {
		return ErrOptionOutOfRange
	}
	for i, existing := range d.selectedIndexes {
		if existing == option {
			d.selectedIndexes = append(d.selectedIndexes[:i], d.selectedIndexes[i+1:]...)
			return nil
		}
	}
	d.selectedIndexes = append(d.selectedIndexes, option)
	return nil
}

// SetBlank fills one slot of a FillInBlank question. Each blank is checked
// against its own option list.
func (d *AnswerDraft) SetBlank(q *models.Question, slot, option int) error {
	if d.qtype != models.FillInBlank {
		return ErrCaptureMismatch
	}
	if slot < 0 || slot >= len(d.blankSelections) {
		return ErrSlotOutOfRange
	}
	if option < 0 || option >= len(q.Blanks[slot].Options) {
		return ErrOptionOutOfRange
	}
	d.blankSelections[slot] = &option
	return nil
}

// SetMatch assigns a right-column item to one left-column item.
func (d *AnswerDraft) SetMatch(q *models.Question, left, right int) error {
	if d.qtype != models.Matching {
		return ErrCaptureMismatch
	}
	if left < 0 || left >= len(d.matchSelections) {
		return ErrSlotOutOfRange
	}
	if right < 0 || right >= len(q.RightItems) {
		return ErrOptionOutOfRange
	}
	d.matchSelections[left] = &right
	return nil
}

// SetText replaces the free-text answer and refreshes the live word count.
func (d *AnswerDraft) SetText(text string) error {
	if !d.qtype.IsText() {
		return ErrCaptureMismatch
	}
	d.text = text
	d.wordCount = countWords(text)
	return nil
}

// Complete is the per-type completeness predicate gating submission. It is
// pure and safe to call on every keystroke or selection change.
func (d *AnswerDraft) Complete(q *models.Question) bool {
	if q == nil || q.Unanswerable {
		return false
	}
	switch q.Type {
	case models.MultipleChoice, models.TrueFalse:
		return d.selectedIndex != nil
	case models.MultipleSelect:
		return len(d.selectedIndexes) > 0
	case models.FillInBlank:
		if len(d.blankSelections) != len(q.Blanks) {
			return false
		}
		for i, sel := range d.blankSelections {
			if sel == nil || *sel < 0 || *sel >= len(q.Blanks[i].Options) {
				return false
			}
		}
		return len(d.blankSelections) > 0
	case models.Matching:
		if len(d.matchSelections) != len(q.LeftItems) {
			return false
		}
		for _, sel := range d.matchSelections {
			if sel == nil || *sel < 0 || *sel >= len(q.RightItems) {
				return false
			}
		}
		return len(d.matchSelections) > 0
	case models.ShortAnswer:
		trimmed := strings.TrimSpace(d.text)
		return trimmed != "" && d.wordCount <= ShortAnswerWordLimit
	case models.Essay:
		return strings.TrimSpace(d.text) != ""
	default:
		return false
	}
}

// WordCount exposes the live word count for text answers.
func (d *AnswerDraft) WordCount() int {
	return d.wordCount
}

// State returns a UI-facing copy of the draft for snapshots.
func (d *AnswerDraft) State() models.AnswerState {
	state := models.AnswerState{
		Text:      d.text,
		WordCount: d.wordCount,
	}
	if d.selectedIndex != nil {
		idx := *d.selectedIndex
		state.SelectedIndex = &idx
	}
	if d.selectedIndexes != nil {
		state.SelectedIndexes = append([]int(nil), d.selectedIndexes...)
	}
	state.BlankSelections = copyOptionalInts(d.blankSelections)
	state.MatchSelections = copyOptionalInts(d.matchSelections)
	return state
}

func copyOptionalInts(src []*int) []*int {
	if src == nil {
		return nil
	}
	out := make([]*int, len(src))
	for i, v := range src {
		if v != nil {
			val := *v
			out[i] = &val
		}
	}
	return out
}

// countWords counts whitespace-delimited tokens of the trimmed text.
func countWords(text string) int {
	return len(strings.Fields(text))
}
