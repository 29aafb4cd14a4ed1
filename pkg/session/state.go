package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/food-guardian/pkg/history"
	"github.com/jwebster45206/food-guardian/pkg/resolver"
	"github.com/jwebster45206/food-guardian/pkg/stats"
	"github.com/jwebster45206/food-guardian/pkg/story"
)

// Phase is where a session is in its state machine.
type Phase string

const (
	// PhasePlaying shows the current node and waits for a choice, or for
	// ViewResults when the node has no choices.
	PhasePlaying Phase = "playing"
	// PhaseAwaitingContinue shows feedback for a resolved choice.
	PhaseAwaitingContinue Phase = "awaiting_continue"
	// PhaseEnded is terminal.
	PhaseEnded Phase = "ended"
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhasePlaying, PhaseAwaitingContinue, PhaseEnded:
		return true
	}
	return false
}

// MediaKind names a media command.
type MediaKind string

const MediaPlayIntro MediaKind = "play_intro"

// MediaCommand asks the front-end to play media. The front-end reports back
// with HandleMediaEnd or HandleMediaError.
type MediaCommand struct {
	Kind     MediaKind    `json:"kind"`
	NodeID   story.NodeID `json:"node_id"`
	VideoURL string       `json:"video_url,omitempty"`
	AudioURL string       `json:"audio_url,omitempty"`
}

// State is the externally visible snapshot of a session. It is also what
// gets stored between HTTP requests.
type State struct {
	ID              uuid.UUID       `json:"id"`
	PlayerName      string          `json:"player_name,omitempty"`
	Phase           Phase           `json:"phase"`
	CurrentNodeID   story.NodeID    `json:"current_node_id"`
	Node            *story.Node     `json:"node,omitempty"` // content to render; nil once ended
	Stats           stats.Stats     `json:"stats"`
	Mood            resolver.Mood   `json:"mood"`
	History         []history.Entry `json:"history"`
	PendingFeedback *string         `json:"pending_feedback,omitempty"`
	PendingNextID   *story.NodeID   `json:"pending_next_id,omitempty"`
	Media           *MediaCommand   `json:"media,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Ended reports whether the session reached its terminal phase.
func (s *State) Ended() bool {
	return s.Phase == PhaseEnded
}
