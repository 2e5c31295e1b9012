package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SAP-F-2025/session-service/internal/models"
	"github.com/SAP-F-2025/session-service/internal/utils"
)

// DefaultRequestTimeout bounds every backend call. A hung grading request
// surfaces as a visible timeout error instead of leaving the session in
// Submitting indefinitely; the caller retries manually.
const DefaultRequestTimeout = 15 * time.Second

var ErrGatewayTimeout = errors.New("assessment backend request timed out")

// Client talks to the external assessment backend: session bootstrap, the
// grading oracle and the one-shot detailed results fetch.
type Client struct {
	baseURL string
	http    *http.Client
	logger  utils.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger utils.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ===== BOOTSTRAP =====

type startAssessmentRequest struct {
	SubjectID string `json:"subject_id"`
	Period    string `json:"period"`
}

// StartAssessment bootstraps an adaptive session directly from a subject.
func (c *Client) StartAssessment(ctx context.Context, subjectID, period string) (*models.StartResult, error) {
	var result models.StartResult
	err := c.postJSON(ctx, "/api/v1/assessments/start", startAssessmentRequest{
		SubjectID: subjectID,
		Period:    period,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to start assessment: %w", err)
	}
	if result.Mode == "" {
		result.Mode = models.ModeAdaptive
	}
	return &result, nil
}

type startAssignmentRequest struct {
	AssignmentID string `json:"assignment_id"`
}

// StartStandardAssignment bootstraps a standard-mode assignment session.
// The response carries the full pre-loaded question list.
func (c *Client) StartStandardAssignment(ctx context.Context, assignmentID string) (*models.StartResult, error) {
	var result models.StartResult
	err := c.postJSON(ctx, "/api/v1/assignments/start-standard", startAssignmentRequest{
		AssignmentID: assignmentID,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to start standard assignment: %w", err)
	}
	result.Mode = models.ModeStandard
	return &result, nil
}

// StartAdaptiveAssignment bootstraps an adaptive-mode assignment session.
func (c *Client) StartAdaptiveAssignment(ctx context.Context, assignmentID string) (*models.StartResult, error) {
	var result models.StartResult
	err := c.postJSON(ctx, "/api/v1/assignments/start-adaptive", startAssignmentRequest{
		AssignmentID: assignmentID,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to start adaptive assignment: %w", err)
	}
	result.Mode = models.ModeAdaptive
	return &result, nil
}

// ===== GRADING =====

type submitAnswerRequest struct {
	QuestionID   string        `json:"question_id"`
	Answer       models.Answer `json:"answer"`
	AssessmentID string        `json:"assessment_id"`
}

// SubmitAnswer sends one graded answer to the grading oracle.
func (c *Client) SubmitAnswer(ctx context.Context, questionID string, answer models.Answer, assessmentID string) (*models.SubmissionResult, error) {
	var result models.SubmissionResult
	err := c.postJSON(ctx, "/api/v1/answers/submit", submitAnswerRequest{
		QuestionID:   questionID,
		Answer:       answer,
		AssessmentID: assessmentID,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to submit answer: %w", err)
	}
	return &result, nil
}

// GetDetailedResults fetches the final results for the hand-off to the
// results view.
func (c *Client) GetDetailedResults(ctx context.Context, assessmentID string) (*models.DetailedResults, error) {
	var result models.DetailedResults
	err := c.getJSON(ctx, "/api/v1/assessments/"+assessmentID+"/results", &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get detailed results: %w", err)
	}
	return &result, nil
}

// ===== TRANSPORT =====

func (c *Client) postJSON(ctx context.Context, path string, body, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, dest)
}

func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrGatewayTimeout
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ErrGatewayTimeout
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("Assessment backend returned an error",
			"path", req.URL.Path,
			"status_code", resp.StatusCode)
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, string(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
