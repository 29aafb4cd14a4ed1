// Package resolver computes the consequences of a single player choice.
//
// Resolve is a pure function: it reads the current stats and the chosen
// edge and returns new stats, one description line per changed attribute
// and the feedback text shown before the story moves on.
package resolver

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/food-guardian/pkg/stats"
	"github.com/jwebster45206/food-guardian/pkg/story"
)

// Mood is the mascot's condition, derived from health.
type Mood string

const (
	MoodThriving    Mood = "thriving"
	MoodSlightlySad Mood = "slightly sad"
	MoodVeryWeak    Mood = "very weak"
)

// Health breakpoints for the mascot mood.
const (
	ThrivingHealth = 100 // health >= ThrivingHealth
	WeakHealth     = 80  // health <= WeakHealth
)

// MoodFor maps a health value to the mascot mood.
func MoodFor(health int) Mood {
	switch {
	case health >= ThrivingHealth:
		return MoodThriving
	case health > WeakHealth:
		return MoodSlightlySad
	default:
		return MoodVeryWeak
	}
}

// Image returns the mascot image hint for the mood.
func (m Mood) Image() string {
	switch m {
	case MoodThriving:
		return "/images/masco/state1.png"
	case MoodSlightlySad:
		return "/images/masco/state2.png"
	default:
		return "/images/masco/state3.png"
	}
}

// Sentence is the paragraph appended to choice feedback.
func (m Mood) Sentence() string {
	return fmt.Sprintf("Your mascot is %s.", m)
}

// Result is the outcome of resolving one choice.
type Result struct {
	Stats        stats.Stats `json:"stats"`
	Descriptions []string    `json:"descriptions"`
	Feedback     string      `json:"feedback"`
	Mood         Mood        `json:"mood"`
}

// Resolve applies the choice's effects to s and builds the feedback text.
// s is passed by value and never modified.
func Resolve(s stats.Stats, c story.Choice) Result {
	next := s
	var descriptions []string

	for _, a := range stats.DisplayOrder {
		delta := c.Effects[a]
		if delta == 0 {
			continue
		}
		old := next.Get(a)
		next = next.Add(a, delta)
		descriptions = append(descriptions, Describe(a, old, delta))
	}

	mood := MoodFor(next.Health)

	paragraphs := []string{c.Feedback, mood.Sentence()}
	if len(descriptions) > 0 {
		paragraphs = append(paragraphs, strings.Join(descriptions, "\n"))
	}

	return Result{
		Stats:        next,
		Descriptions: descriptions,
		Feedback:     strings.Join(paragraphs, "\n\n"),
		Mood:         mood,
	}
}

// Describe formats one stat change as "health: 100 - 20 = 80".
// The operator follows the sign of delta for every attribute.
func Describe(a stats.Attribute, old, delta int) string {
	op := "+"
	magnitude := delta
	if delta < 0 {
		op = "-"
		magnitude = -delta
	}
	return fmt.Sprintf("%s: %d %s %d = %d", a, old, op, magnitude, old+delta)
}
