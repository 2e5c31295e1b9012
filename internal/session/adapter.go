package session

import (
	"fmt"

	"github.com/SAP-F-2025/session-service/internal/models"
)

// Normalize converts a raw question payload into the internal Question plus
// a freshly-initialized, type-appropriate answer container.
//
// Malformed type-specific metadata (missing blanks, missing matching items)
// does not fail the session: the question comes back marked unanswerable
// with an inline diagnostic, and the typed *MetadataError is returned
// alongside it for logging. Callers must treat a non-nil question with a
// non-nil error as the error-state rendering path, not a failure.
func Normalize(payload *models.QuestionPayload) (*models.Question, *AnswerDraft, error) {
	if payload == nil {
		return nil, nil, fmt.Errorf("question payload is nil")
	}

	q := &models.Question{
		ID:             payload.ID,
		Text:           payload.Text,
		Type:           payload.Type,
		Options:        append([]string(nil), payload.Options...),
		QuestionNumber: payload.QuestionNumber,
		TotalQuestions: payload.TotalQuestions,
	}

	var metaErr *MetadataError
	switch payload.Type {
	case models.MultipleChoice, models.TrueFalse, models.MultipleSelect:
		if len(q.Options) == 0 {
			metaErr = NewMetadataError(q.ID, string(q.Type), "options list is empty")
		}

	case models.FillInBlank:
		switch {
		case payload.Metadata == nil:
			metaErr = NewMetadataError(q.ID, string(q.Type), "metadata is absent")
		case len(payload.Metadata.Blanks) == 0:
			metaErr = NewMetadataError(q.ID, string(q.Type), "blanks list is empty")
		default:
			q.Blanks = make([]models.Blank, len(payload.Metadata.Blanks))
			copy(q.Blanks, payload.Metadata.Blanks)
			for i, blank := range q.Blanks {
				if len(blank.Options) == 0 {
					metaErr = NewMetadataError(q.ID, string(q.Type),
						fmt.Sprintf("blank %d has no options", i))
					break
				}
			}
		}

	case models.Matching:
		switch {
		case payload.Metadata == nil:
			metaErr = NewMetadataError(q.ID, string(q.Type), "metadata is absent")
		case len(payload.Metadata.LeftItems) == 0:
			metaErr = NewMetadataError(q.ID, string(q.Type), "left items list is empty")
		case len(payload.Metadata.RightItems) == 0:
			metaErr = NewMetadataError(q.ID, string(q.Type), "right items list is empty")
		default:
			q.LeftItems = append([]string(nil), payload.Metadata.LeftItems...)
			q.RightItems = append([]string(nil), payload.Metadata.RightItems...)
		}

	case models.ShortAnswer, models.Essay:
		if payload.Metadata != nil {
			q.Description = payload.Metadata.Description
		}

	default:
		metaErr = NewMetadataError(q.ID, string(payload.Type), "unsupported question type")
	}

	if metaErr != nil {
		// Do not guess a shape; render the question as a diagnostic instead.
		q.Unanswerable = true
		q.Diagnostic = metaErr.Error()
		q.Blanks = nil
		q.LeftItems = nil
		q.RightItems = nil
		return q, newDraft(q), metaErr
	}

	return q, newDraft(q), nil
}
