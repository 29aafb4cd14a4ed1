package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/food-guardian/pkg/session"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner plays scripted sessions against a running food-guardian API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 30 * time.Second},
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite plays a complete test suite on a fresh session
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	st, err := CreateSession(ctx, r.Client, r.BaseURL, suite.Player)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.SessionID = st.ID

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, &result.SessionID, suite.Player, step)
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// runStep performs one action and checks its expectations. A restart step
// replaces *sessionID with a new session.
func (r *Runner) runStep(ctx context.Context, sessionID *uuid.UUID, player string, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}

	wantStatus := http.StatusOK
	if step.Expectations.Status != nil {
		wantStatus = *step.Expectations.Status
	}

	st, feedback, err := r.act(ctx, sessionID, player, step)
	result.IsRestart = step.Action == ActionRestart

	var apiErr *APIError
	switch {
	case err == nil:
		result.Status = http.StatusOK
	case errors.As(err, &apiErr):
		result.Status = apiErr.Status
	default:
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	if result.Status != wantStatus {
		result.Error = fmt.Errorf("expected status %d, got %d: %v", wantStatus, result.Status, err)
		result.Duration = time.Since(start)
		return result
	}

	// A rejected action returns no state, so read it back.
	if st == nil {
		st, err = GetSession(ctx, r.Client, r.BaseURL, *sessionID)
		if err != nil {
			result.Error = err
			result.Duration = time.Since(start)
			return result
		}
	}
	if feedback == "" && st.PendingFeedback != nil {
		feedback = *st.PendingFeedback
	}
	result.Feedback = feedback

	if err := checkExpectations(step.Expectations, st, feedback); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

// act sends the request for a step. It returns the session state from the
// response and, for choices, the resolved feedback.
func (r *Runner) act(ctx context.Context, sessionID *uuid.UUID, player string, step TestStep) (*session.State, string, error) {
	switch step.Action {
	case ActionChoose:
		if step.Index == nil {
			return nil, "", fmt.Errorf("choose step requires an index")
		}
		resp, err := SelectChoice(ctx, r.Client, r.BaseURL, *sessionID, *step.Index)
		if err != nil {
			return nil, "", err
		}
		return &resp.State, resp.Result.Feedback, nil
	case ActionContinue, ActionResults:
		st, err := PostAction(ctx, r.Client, r.BaseURL, *sessionID, step.Action)
		return st, "", err
	case ActionMediaEnded:
		st, err := PostMediaEvent(ctx, r.Client, r.BaseURL, *sessionID, "ended", "")
		return st, "", err
	case ActionMediaError:
		st, err := PostMediaEvent(ctx, r.Client, r.BaseURL, *sessionID, "error", "integration test playback failure")
		return st, "", err
	case ActionRestart:
		st, err := CreateSession(ctx, r.Client, r.BaseURL, player)
		if err != nil {
			return nil, "", err
		}
		*sessionID = st.ID
		return st, "", nil
	default:
		return nil, "", fmt.Errorf("unknown step action %q", step.Action)
	}
}

// checkExpectations validates the expectations against the session state
// after a step
func checkExpectations(exp Expectations, st *session.State, feedback string) error {
	if exp.Phase != nil && st.Phase != *exp.Phase {
		return fmt.Errorf("expected phase %s, got %s", *exp.Phase, st.Phase)
	}

	if exp.NodeID != nil && st.CurrentNodeID != *exp.NodeID {
		return fmt.Errorf("expected node %q, got %q", *exp.NodeID, st.CurrentNodeID)
	}

	for attr, want := range exp.Stats {
		if !attr.Valid() {
			return fmt.Errorf("expectation names unknown stat %q", attr)
		}
		if got := st.Stats.Get(attr); got != want {
			return fmt.Errorf("expected %s to be %d, got %d", attr, want, got)
		}
	}

	if exp.Mood != nil && st.Mood != *exp.Mood {
		return fmt.Errorf("expected mood %q, got %q", *exp.Mood, st.Mood)
	}

	if exp.HistoryLen != nil && len(st.History) != *exp.HistoryLen {
		return fmt.Errorf("expected %d history entries, got %d", *exp.HistoryLen, len(st.History))
	}

	if exp.MediaPending != nil {
		if pending := st.Media != nil; pending != *exp.MediaPending {
			return fmt.Errorf("expected media pending to be %t, got %t", *exp.MediaPending, pending)
		}
	}

	for _, text := range exp.FeedbackContains {
		if !strings.Contains(feedback, text) {
			return fmt.Errorf("expected feedback to contain %q, got %q", text, feedback)
		}
	}

	for _, text := range exp.FeedbackNotContains {
		if strings.Contains(feedback, text) {
			return fmt.Errorf("expected feedback to NOT contain %q, got %q", text, feedback)
		}
	}

	if exp.FeedbackRegex != "" {
		matched, err := regexp.MatchString(exp.FeedbackRegex, feedback)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("feedback didn't match regex pattern: %s", exp.FeedbackRegex)
		}
	}

	return nil
}
