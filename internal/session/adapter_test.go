package session

import (
	"errors"
	"testing"

	"github.com/SAP-F-2025/session-service/internal/models"
)

func TestNormalize_ChoiceQuestion(t *testing.T) {
	payload := &models.QuestionPayload{
		ID:             "q1",
		Text:           "Pick one",
		Type:           models.MultipleChoice,
		Options:        []string{"a", "b", "c"},
		QuestionNumber: 1,
		TotalQuestions: 10,
	}

	q, draft, err := Normalize(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Unanswerable {
		t.Error("well-formed question marked unanswerable")
	}
	if draft == nil {
		t.Fatal("missing answer draft")
	}
	if len(q.Options) != 3 || q.QuestionNumber != 1 || q.TotalQuestions != 10 {
		t.Errorf("payload fields not carried over: %+v", q)
	}
}

func TestNormalize_FillInBlank(t *testing.T) {
	t.Run("valid metadata", func(t *testing.T) {
		payload := &models.QuestionPayload{
			ID:   "q1",
			Text: "Fill in",
			Type: models.FillInBlank,
			Metadata: &models.QuestionMetadata{
				Blanks: []models.Blank{
					{Label: "first", Options: []string{"x", "y"}},
					{Options: []string{"p"}},
				},
			},
		}
		q, draft, err := Normalize(payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(q.Blanks) != 2 {
			t.Fatalf("expected 2 blanks, got %d", len(q.Blanks))
		}
		if draft.Complete(q) {
			t.Error("fresh draft must be incomplete")
		}
	})

	t.Run("missing metadata", func(t *testing.T) {
		payload := &models.QuestionPayload{ID: "q1", Text: "Fill in", Type: models.FillInBlank}
		q, draft, err := Normalize(payload)

		var metaErr *MetadataError
		if !errors.As(err, &metaErr) {
			t.Fatalf("expected *MetadataError, got %v", err)
		}
		if q == nil || !q.Unanswerable {
			t.Fatal("question must come back marked unanswerable")
		}
		if q.Diagnostic == "" {
			t.Error("missing inline diagnostic")
		}
		if draft == nil {
			t.Error("error-state question still needs a draft for snapshots")
		}
	})

	t.Run("blank without options", func(t *testing.T) {
		payload := &models.QuestionPayload{
			ID:   "q1",
			Text: "Fill in",
			Type: models.FillInBlank,
			Metadata: &models.QuestionMetadata{
				Blanks: []models.Blank{{Options: []string{"x"}}, {Options: nil}},
			},
		}
		q, _, err := Normalize(payload)
		var metaErr *MetadataError
		if !errors.As(err, &metaErr) {
			t.Fatalf("expected *MetadataError, got %v", err)
		}
		if len(q.Blanks) != 0 {
			t.Error("malformed metadata must not leak a partial shape")
		}
	})
}

func TestNormalize_Matching(t *testing.T) {
	t.Run("valid metadata", func(t *testing.T) {
		payload := &models.QuestionPayload{
			ID:   "q1",
			Text: "Match",
			Type: models.Matching,
			Metadata: &models.QuestionMetadata{
				LeftItems:  []string{"l1", "l2"},
				RightItems: []string{"r1", "r2"},
			},
		}
		q, _, err := Normalize(payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(q.LeftItems) != 2 || len(q.RightItems) != 2 {
			t.Errorf("items not carried over: %+v", q)
		}
	})

	t.Run("missing right items", func(t *testing.T) {
		payload := &models.QuestionPayload{
			ID:       "q1",
			Text:     "Match",
			Type:     models.Matching,
			Metadata: &models.QuestionMetadata{LeftItems: []string{"l1"}},
		}
		q, _, err := Normalize(payload)
		var metaErr *MetadataError
		if !errors.As(err, &metaErr) {
			t.Fatalf("expected *MetadataError, got %v", err)
		}
		if !q.Unanswerable {
			t.Error("question must be unanswerable")
		}
	})
}

func TestNormalize_ChoiceWithoutOptions(t *testing.T) {
	payload := &models.QuestionPayload{ID: "q1", Text: "Pick", Type: models.TrueFalse}
	q, _, err := Normalize(payload)
	var metaErr *MetadataError
	if !errors.As(err, &metaErr) {
		t.Fatalf("expected *MetadataError, got %v", err)
	}
	if !q.Unanswerable {
		t.Error("choice question without options must be unanswerable")
	}
}

func TestNormalize_TextQuestionDescription(t *testing.T) {
	payload := &models.QuestionPayload{
		ID:       "q1",
		Text:     "Explain",
		Type:     models.Essay,
		Metadata: &models.QuestionMetadata{Description: "cite two sources"},
	}
	q, _, err := Normalize(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Description != "cite two sources" {
		t.Errorf("description not carried over: %q", q.Description)
	}
}

func TestNormalize_UnknownType(t *testing.T) {
	payload := &models.QuestionPayload{ID: "q1", Text: "?", Type: "ranking"}
	q, _, err := Normalize(payload)
	var metaErr *MetadataError
	if !errors.As(err, &metaErr) {
		t.Fatalf("expected *MetadataError, got %v", err)
	}
	if !q.Unanswerable {
		t.Error("unknown type must render as error state")
	}
}

func TestNormalize_NilPayload(t *testing.T) {
	if _, _, err := Normalize(nil); err == nil {
		t.Fatal("expected error for nil payload")
	}
}
