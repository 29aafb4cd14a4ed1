package handlers

import (
	"log/slog"
	"os"
	"testing"

	"github.com/jwebster45206/food-guardian/pkg/stats"
	"github.com/jwebster45206/food-guardian/pkg/story"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func testGraph(t *testing.T) *story.Graph {
	t.Helper()
	g, err := story.New("breakfast", map[story.NodeID]story.Node{
		"breakfast": {
			ScenarioText: "It is morning. What do you eat?",
			IntroMedia:   &story.Media{VideoURL: "/videos/breakfast.mp4"},
			Choices: []story.Choice{
				{
					ImageURL: "/images/pho.png",
					AltText:  "A bowl of pho",
					NextID:   "done",
					Effects:  map[stats.Attribute]int{stats.Health: 10},
					Feedback: "A warm start.",
				},
				{
					ImageURL: "/images/skip.png",
					AltText:  "Skip breakfast",
					NextID:   story.End,
					Effects:  map[stats.Attribute]int{stats.Health: -20, stats.Beauty: -5},
					Feedback: "Your stomach growls.",
				},
			},
		},
		"done": {ScenarioText: "The day is over."},
	})
	require.NoError(t, err)
	return g
}
