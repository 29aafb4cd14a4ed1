// Package session drives one playthrough of a story graph.
//
// A Session moves between three phases:
//
//	playing --SelectChoice--> awaiting_continue --Continue--> playing | ended
//	playing (no choices) --ViewResults--> ended
//
// Every other action is rejected with ErrIllegalTransition and leaves the
// session untouched. A Session is not safe for concurrent use; callers
// serialize actions per session.
package session

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/food-guardian/pkg/history"
	"github.com/jwebster45206/food-guardian/pkg/resolver"
	"github.com/jwebster45206/food-guardian/pkg/stats"
	"github.com/jwebster45206/food-guardian/pkg/story"
)

// Session holds the mutable state of one playthrough.
type Session struct {
	graph  *story.Graph
	logger *slog.Logger

	id         uuid.UUID
	playerName string
	phase      Phase
	nodeID     story.NodeID
	stats      stats.Stats
	history    *history.Recorder

	pendingFeedback string
	pendingNextID   story.NodeID
	media           *MediaCommand

	createdAt time.Time
	updatedAt time.Time
}

// New starts a session at the graph's start node with default stats.
func New(graph *story.Graph, playerName string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now()
	s := &Session{
		graph:      graph,
		logger:     logger,
		id:         uuid.New(),
		playerName: playerName,
		stats:      stats.Defaults(),
		history:    history.NewRecorder(),
		createdAt:  now,
		updatedAt:  now,
	}
	s.enter(graph.Start())
	s.logger.Debug("Session started", "session_id", s.id, "node", s.nodeID, "phase", s.phase)
	return s
}

// Restore rebuilds a session from a stored State.
func Restore(graph *story.Graph, st State, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !st.Phase.Valid() {
		return nil, fmt.Errorf("unknown session phase %q", st.Phase)
	}
	if st.Phase != PhaseEnded {
		if _, ok := graph.Lookup(st.CurrentNodeID); !ok {
			return nil, fmt.Errorf("session node %q is not in the story graph", st.CurrentNodeID)
		}
	}
	if st.Phase == PhaseAwaitingContinue && (st.PendingFeedback == nil || st.PendingNextID == nil) {
		return nil, fmt.Errorf("session awaiting continue without pending feedback")
	}
	if st.PendingNextID != nil && *st.PendingNextID != story.End {
		if _, ok := graph.Lookup(*st.PendingNextID); !ok {
			return nil, fmt.Errorf("pending next node %q is not in the story graph", *st.PendingNextID)
		}
	}

	s := &Session{
		graph:      graph,
		logger:     logger,
		id:         st.ID,
		playerName: st.PlayerName,
		phase:      st.Phase,
		nodeID:     st.CurrentNodeID,
		stats:      st.Stats,
		history:    history.NewRecorder(st.History...),
		createdAt:  st.CreatedAt,
		updatedAt:  st.UpdatedAt,
	}
	if st.PendingFeedback != nil {
		s.pendingFeedback = *st.PendingFeedback
	}
	if st.PendingNextID != nil {
		s.pendingNextID = *st.PendingNextID
	}
	if st.Media != nil {
		m := *st.Media
		s.media = &m
	}
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Stats returns the current stats.
func (s *Session) Stats() stats.Stats {
	return s.stats
}

// Current returns the node being shown. It returns false once the session
// has ended.
func (s *Session) Current() (story.Node, bool) {
	if s.phase == PhaseEnded {
		return story.Node{}, false
	}
	return s.graph.Lookup(s.nodeID)
}

// SelectChoice resolves choice index i of the current node. The node does
// not change until Continue is called.
func (s *Session) SelectChoice(i int) (resolver.Result, error) {
	const action = "select a choice"
	if s.phase != PhasePlaying {
		return resolver.Result{}, s.reject(action, ErrIllegalTransition)
	}
	node, ok := s.graph.Lookup(s.nodeID)
	if !ok {
		return resolver.Result{}, s.reject(action, ErrIllegalTransition)
	}
	if i < 0 || i >= len(node.Choices) {
		return resolver.Result{}, s.reject(action,
			fmt.Errorf("%w: index %d, node %q has %d choices", ErrChoiceOutOfRange, i, s.nodeID, len(node.Choices)))
	}

	choice := node.Choices[i]
	res := resolver.Resolve(s.stats, choice)

	s.stats = res.Stats
	s.history.Append(history.Entry{
		Scenario: node.ScenarioText,
		Choice:   choice.Label(),
		Effects:  res.Descriptions,
	})
	s.pendingFeedback = res.Feedback
	s.pendingNextID = choice.NextID
	s.media = nil
	s.phase = PhaseAwaitingContinue
	s.touch()

	s.logger.Debug("Choice resolved",
		"session_id", s.id,
		"node", s.nodeID,
		"choice", i,
		"next", choice.NextID,
		"mood", res.Mood,
		"health", s.stats.Health)
	return res, nil
}

// Continue acknowledges the pending feedback and moves to the next node, or
// ends the session when the next node does not exist.
func (s *Session) Continue() error {
	if s.phase != PhaseAwaitingContinue {
		return s.reject("continue", ErrIllegalTransition)
	}
	next := s.pendingNextID
	s.pendingFeedback = ""
	s.pendingNextID = story.End

	if _, ok := s.graph.Lookup(next); ok {
		s.enter(next)
		s.logger.Debug("Advanced to node", "session_id", s.id, "node", next)
	} else {
		s.end()
	}
	s.touch()
	return nil
}

// ViewResults ends the session from a node that offers no choices. No
// history entry is recorded.
func (s *Session) ViewResults() error {
	const action = "view results"
	if s.phase != PhasePlaying {
		return s.reject(action, ErrIllegalTransition)
	}
	if node, ok := s.graph.Lookup(s.nodeID); ok && !node.Terminal() {
		return s.reject(action, ErrIllegalTransition)
	}
	s.end()
	s.touch()
	return nil
}

// HandleMediaEnd reports that the intro media finished playing.
func (s *Session) HandleMediaEnd() {
	if s.media == nil {
		return
	}
	s.logger.Debug("Intro media finished", "session_id", s.id, "node", s.media.NodeID)
	s.media = nil
	s.touch()
}

// HandleMediaError reports that the intro media could not be played. The
// session skips straight to the choices.
func (s *Session) HandleMediaError(err error) {
	if s.media == nil {
		return
	}
	s.logger.Warn("Intro media failed, skipping to choices",
		"session_id", s.id,
		"node", s.media.NodeID,
		"video_url", s.media.VideoURL,
		"error", err)
	s.media = nil
	s.touch()
}

// State returns a snapshot of the session. Mutating it does not affect the
// session.
func (s *Session) State() State {
	st := State{
		ID:            s.id,
		PlayerName:    s.playerName,
		Phase:         s.phase,
		CurrentNodeID: s.nodeID,
		Stats:         s.stats,
		Mood:          resolver.MoodFor(s.stats.Health),
		History:       s.history.Entries(),
		CreatedAt:     s.createdAt,
		UpdatedAt:     s.updatedAt,
	}
	if node, ok := s.Current(); ok {
		st.Node = &node
	}
	if s.phase == PhaseAwaitingContinue {
		feedback := s.pendingFeedback
		next := s.pendingNextID
		st.PendingFeedback = &feedback
		st.PendingNextID = &next
	}
	if s.media != nil {
		m := *s.media
		st.Media = &m
	}
	return st
}

// Summary renders the results screen text.
func (s *Session) Summary() string {
	var b strings.Builder
	if s.phase == PhaseEnded {
		b.WriteString("Game over!\n")
	}
	if s.playerName != "" {
		fmt.Fprintf(&b, "Thanks for playing, %s.\n", s.playerName)
	}
	b.WriteString("Final stats:\n")
	for _, a := range []stats.Attribute{stats.Health, stats.Knowledge, stats.Obesity, stats.Beauty} {
		fmt.Fprintf(&b, "  %s: %d\n", stats.Label(a), s.stats.Get(a))
	}
	fmt.Fprintf(&b, "Mascot: %s\n", resolver.MoodFor(s.stats.Health))

	entries := s.history.Entries()
	if len(entries) > 0 {
		b.WriteString("Your choices:\n")
		for i, e := range entries {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, e)
		}
	}
	return b.String()
}

func (s *Session) enter(id story.NodeID) {
	s.nodeID = id
	s.phase = PhasePlaying
	s.media = nil

	node, ok := s.graph.Lookup(id)
	if !ok {
		s.end()
		return
	}
	if !node.IntroMedia.Empty() {
		s.media = &MediaCommand{
			Kind:     MediaPlayIntro,
			NodeID:   id,
			VideoURL: node.IntroMedia.VideoURL,
			AudioURL: node.IntroMedia.AudioURL,
		}
	}
}

func (s *Session) end() {
	s.phase = PhaseEnded
	s.media = nil
	s.logger.Info("Session ended",
		"session_id", s.id,
		"choices", s.history.Len(),
		"health", s.stats.Health,
		"knowledge", s.stats.Knowledge,
		"obesity", s.stats.Obesity,
		"beauty", s.stats.Beauty)
}

func (s *Session) reject(action string, err error) error {
	s.logger.Debug("Rejected session action", "session_id", s.id, "action", action, "phase", s.phase, "error", err)
	return &TransitionError{Action: action, Phase: s.phase, Err: err}
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}
