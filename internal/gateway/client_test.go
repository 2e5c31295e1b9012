package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/session-service/internal/models"
	"github.com/SAP-F-2025/session-service/internal/utils"
)

func TestClient_StartStandardAssignment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/assignments/start-standard" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["assignment_id"] != "assign-1" {
			t.Errorf("unexpected request body: %v", body)
		}
		_ = json.NewEncoder(w).Encode(models.StartResult{
			AssessmentID:     "assess-1",
			TimeLimitMinutes: 10,
			AllQuestions: []models.QuestionPayload{
				{ID: "q1", Text: "pick", Type: models.MultipleChoice, Options: []string{"a", "b"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, utils.NewDevelopmentLogger())
	result, err := client.StartStandardAssignment(context.Background(), "assign-1")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if result.Mode != models.ModeStandard {
		t.Errorf("standard bootstrap must force standard mode, got %s", result.Mode)
	}
	if result.AssessmentID != "assess-1" || len(result.AllQuestions) != 1 {
		t.Errorf("response not decoded: %+v", result)
	}
}

func TestClient_SubmitAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["answer"]; !ok {
			t.Error("request missing answer field")
		}
		correct := true
		_ = json.NewEncoder(w).Encode(models.SubmissionResult{IsCorrect: &correct, Completed: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, utils.NewDevelopmentLogger())
	idx := 1
	result, err := client.SubmitAnswer(context.Background(), "q1", models.Answer{SelectedIndex: &idx}, "assess-1")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.IsCorrect == nil || !*result.IsCorrect || !result.Completed {
		t.Errorf("response not decoded: %+v", result)
	}
}

func TestClient_BackendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "assessment not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, utils.NewDevelopmentLogger())
	_, err := client.GetDetailedResults(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestClient_HungRequestTimesOut(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, 50*time.Millisecond, utils.NewDevelopmentLogger())
	_, err := client.SubmitAnswer(context.Background(), "q1", models.Answer{}, "assess-1")
	if !errors.Is(err, ErrGatewayTimeout) {
		t.Errorf("expected ErrGatewayTimeout, got %v", err)
	}
}
