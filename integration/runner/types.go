package runner

import (
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/food-guardian/pkg/resolver"
	"github.com/jwebster45206/food-guardian/pkg/session"
	"github.com/jwebster45206/food-guardian/pkg/stats"
	"github.com/jwebster45206/food-guardian/pkg/story"
)

// Step actions. Each maps to one session endpoint, except ActionRestart which
// starts a fresh session for the rest of the suite.
const (
	ActionChoose     = "choose"
	ActionContinue   = "continue"
	ActionResults    = "results"
	ActionMediaEnded = "media_ended"
	ActionMediaError = "media_error"
	ActionRestart    = "restart"
)

// TestSuite defines a scripted playthrough
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name   string     `json:"name"`
	Player string     `json:"player,omitempty"` // Used for regular tests
	Steps  []TestStep `json:"steps,omitempty"`  // Used for regular tests
	Cases  []string   `json:"cases,omitempty"`  // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep is one player action and its expected outcome
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	Action       string       `json:"action"`
	Index        *int         `json:"index,omitempty"` // choice index for "choose"
	Expectations Expectations `json:"expect"`
}

// Expectations defines what to check after a step executes. Unset fields
// are not checked.
type Expectations struct {
	Status *int `json:"status,omitempty"` // HTTP status of the action, 200 when unset

	// Session state - aligned with pkg/session/state.go
	Phase        *session.Phase          `json:"phase,omitempty"`
	NodeID       *story.NodeID           `json:"node_id,omitempty"`
	Stats        map[stats.Attribute]int `json:"stats,omitempty"` // only the listed attributes
	Mood         *resolver.Mood          `json:"mood,omitempty"`
	HistoryLen   *int                    `json:"history_len,omitempty"`
	MediaPending *bool                   `json:"media_pending,omitempty"`

	// Feedback analysis, against the pending feedback after the step
	FeedbackContains    []string `json:"feedback_contains,omitempty"`
	FeedbackNotContains []string `json:"feedback_not_contains,omitempty"`
	FeedbackRegex       string   `json:"feedback_regex,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	StepName  string
	Success   bool
	Error     error
	Duration  time.Duration
	Status    int
	Feedback  string
	IsRestart bool // True for restart steps, which only set up state
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job       TestJob
	Results   []TestResult
	Error     error
	Duration  time.Duration
	SessionID uuid.UUID // ID of the last session used for this test
}
