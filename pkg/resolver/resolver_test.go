package resolver

import (
	"testing"

	"github.com/jwebster45206/food-guardian/pkg/stats"
	"github.com/jwebster45206/food-guardian/pkg/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_SkippedLunch(t *testing.T) {
	start := stats.Defaults()
	choice := story.Choice{
		AltText:  "Skip lunch",
		Effects:  map[stats.Attribute]int{stats.Health: -20, stats.Beauty: -5},
		Feedback: "Skipping meals wears you down.",
	}

	res := Resolve(start, choice)

	assert.Equal(t, stats.Stats{Health: 80, Knowledge: 0, Obesity: 0, Beauty: 45}, res.Stats)
	assert.Equal(t, []string{"health: 100 - 20 = 80", "beauty: 50 - 5 = 45"}, res.Descriptions)
	assert.Equal(t, MoodVeryWeak, res.Mood)
	assert.Equal(t,
		"Skipping meals wears you down.\n\nYour mascot is very weak.\n\nhealth: 100 - 20 = 80\nbeauty: 50 - 5 = 45",
		res.Feedback)
}

func TestResolve_DisplayOrder(t *testing.T) {
	choice := story.Choice{
		Effects: map[stats.Attribute]int{
			stats.Knowledge: 3,
			stats.Beauty:    1,
			stats.Obesity:   2,
			stats.Health:    10,
		},
	}

	res := Resolve(stats.Defaults(), choice)

	assert.Equal(t, []string{
		"health: 100 + 10 = 110",
		"obesity: 0 + 2 = 2",
		"beauty: 50 + 1 = 51",
		"knowledge: 0 + 3 = 3",
	}, res.Descriptions)
	assert.Equal(t, MoodThriving, res.Mood)
}

func TestResolve_NoEffects(t *testing.T) {
	choice := story.Choice{
		Effects:  map[stats.Attribute]int{stats.Health: 0},
		Feedback: "Nothing happens.",
	}

	res := Resolve(stats.Defaults(), choice)

	assert.Equal(t, stats.Defaults(), res.Stats)
	assert.Empty(t, res.Descriptions)
	assert.Equal(t, "Nothing happens.\n\nYour mascot is thriving.", res.Feedback)
}

func TestResolve_NegativeKnowledgeShowsMinus(t *testing.T) {
	res := Resolve(stats.Stats{Health: 100, Knowledge: 10}, story.Choice{
		Effects: map[stats.Attribute]int{stats.Knowledge: -4},
	})
	require.Len(t, res.Descriptions, 1)
	assert.Equal(t, "knowledge: 10 - 4 = 6", res.Descriptions[0])
	assert.Equal(t, 6, res.Stats.Knowledge)
}

func TestResolve_IgnoresUnknownAttributes(t *testing.T) {
	res := Resolve(stats.Defaults(), story.Choice{
		Effects: map[stats.Attribute]int{"charisma": 7},
	})
	assert.Equal(t, stats.Defaults(), res.Stats)
	assert.Empty(t, res.Descriptions)
}

func TestResolve_Additivity(t *testing.T) {
	starts := []stats.Stats{
		stats.Defaults(),
		{Health: -5, Knowledge: 7, Obesity: 100, Beauty: 0},
		{Health: 81, Knowledge: -3, Obesity: -2, Beauty: 99},
	}
	deltas := []map[stats.Attribute]int{
		{},
		{stats.Health: 1},
		{stats.Health: -1, stats.Knowledge: 2, stats.Obesity: -3, stats.Beauty: 4},
		{stats.Obesity: 50},
	}

	for _, s := range starts {
		for _, d := range deltas {
			res := Resolve(s, story.Choice{Effects: d})
			want := stats.Stats{
				Health:    s.Health + d[stats.Health],
				Knowledge: s.Knowledge + d[stats.Knowledge],
				Obesity:   s.Obesity + d[stats.Obesity],
				Beauty:    s.Beauty + d[stats.Beauty],
			}
			assert.Equal(t, want, res.Stats)
		}
	}
}

func TestResolve_NonMutationAndDeterminism(t *testing.T) {
	s := stats.Defaults()
	c := story.Choice{
		Effects:  map[stats.Attribute]int{stats.Health: -15, stats.Obesity: 5},
		Feedback: "Fried chicken again.",
	}

	first := Resolve(s, c)
	second := Resolve(s, c)

	assert.Equal(t, stats.Defaults(), s)
	assert.Equal(t, first, second)
	assert.Equal(t, map[stats.Attribute]int{stats.Health: -15, stats.Obesity: 5}, c.Effects)
}

func TestMoodFor_Breakpoints(t *testing.T) {
	tests := []struct {
		health int
		want   Mood
	}{
		{150, MoodThriving},
		{100, MoodThriving},
		{99, MoodSlightlySad},
		{81, MoodSlightlySad},
		{80, MoodVeryWeak},
		{0, MoodVeryWeak},
		{-10, MoodVeryWeak},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MoodFor(tt.health), "health %d", tt.health)
	}

	assert.NotEqual(t, MoodFor(99), MoodFor(100))
	assert.NotEqual(t, MoodFor(81), MoodFor(80))
}

func TestMood_Image(t *testing.T) {
	assert.Equal(t, "/images/masco/state1.png", MoodThriving.Image())
	assert.Equal(t, "/images/masco/state2.png", MoodSlightlySad.Image())
	assert.Equal(t, "/images/masco/state3.png", MoodVeryWeak.Image())
}
