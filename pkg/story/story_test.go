package story

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/food-guardian/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const breakfastJSON = `{
	"startNodeId": "breakfast",
	"nodes": {
		"breakfast": {
			"introVideoUrl": "/videos/breakfast.mp4",
			"scenarioText": "It is morning. What do you eat?",
			"choices": [
				{
					"imageUrl": "/images/pho.png",
					"altText": "A bowl of pho",
					"nextId": "lunch",
					"effects": {"health": 10, "knowledge": 5},
					"feedback": "A warm, balanced start."
				},
				{
					"imageUrl": "/images/donut.png",
					"altText": "Three donuts",
					"nextId": "",
					"effects": {"health": -20, "obesity": 10},
					"feedback": "Too much sugar."
				}
			]
		},
		"lunch": {
			"scenarioText": "Lunch time.",
			"introMedia": {"audioUrl": "/audio/lunch.mp3"},
			"choices": []
		}
	}
}`

func TestParse_JSON(t *testing.T) {
	g, err := Parse([]byte(breakfastJSON), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, NodeID("breakfast"), g.Start())
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []NodeID{"breakfast", "lunch"}, g.NodeIDs())

	n, ok := g.Lookup("breakfast")
	require.True(t, ok)
	require.NotNil(t, n.IntroMedia)
	assert.Equal(t, "/videos/breakfast.mp4", n.IntroMedia.VideoURL)
	require.Len(t, n.Choices, 2)
	assert.Equal(t, "A bowl of pho", n.Choices[0].Label())
	assert.Equal(t, 10, n.Choices[0].Effects[stats.Health])
	assert.True(t, n.Choices[1].Ends())
	assert.False(t, n.Terminal())

	lunch, ok := g.Lookup("lunch")
	require.True(t, ok)
	assert.True(t, lunch.Terminal())
	assert.Equal(t, "/audio/lunch.mp3", lunch.IntroMedia.AudioURL)
}

func TestParse_YAML(t *testing.T) {
	data := `
startNodeId: gym
nodes:
  gym:
    scenarioText: Do you work out today?
    choices:
      - altText: Yes
        nextId: rest
        effects:
          health: 5
          beauty: 2
        feedback: Good job.
  rest:
    scenarioText: Time to rest.
    choices: []
`
	g, err := Parse([]byte(data), FormatYAML)
	require.NoError(t, err)

	n, ok := g.Lookup("gym")
	require.True(t, ok)
	assert.Nil(t, n.IntroMedia)
	require.Len(t, n.Choices, 1)
	assert.Equal(t, map[stats.Attribute]int{stats.Health: 5, stats.Beauty: 2}, n.Choices[0].Effects)
	assert.Equal(t, NodeID("rest"), n.Choices[0].NextID)
}

func TestLookup_MissingIsTerminal(t *testing.T) {
	g, err := Parse([]byte(breakfastJSON), FormatJSON)
	require.NoError(t, err)

	_, ok := g.Lookup(End)
	assert.False(t, ok)
	_, ok = g.Lookup("dinner")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		start    NodeID
		nodes    map[NodeID]Node
		problems []string
	}{
		{
			name:  "valid graph",
			start: "a",
			nodes: map[NodeID]Node{
				"a": {ScenarioText: "a", Choices: []Choice{{NextID: "b"}, {NextID: End}}},
				"b": {ScenarioText: "b"},
			},
		},
		{
			name:     "empty start",
			start:    "",
			nodes:    map[NodeID]Node{"a": {}},
			problems: []string{"startNodeId is empty"},
		},
		{
			name:     "missing start",
			start:    "nowhere",
			nodes:    map[NodeID]Node{"a": {}},
			problems: []string{`startNodeId "nowhere" does not match any node`},
		},
		{
			name:  "dangling next id",
			start: "a",
			nodes: map[NodeID]Node{
				"a": {Choices: []Choice{{NextID: "b"}, {NextID: "ghost"}}},
				"b": {},
			},
			problems: []string{`node "a" choice 1: nextId "ghost" does not match any node`},
		},
		{
			name:  "unknown attribute",
			start: "a",
			nodes: map[NodeID]Node{
				"a": {Choices: []Choice{{Effects: map[stats.Attribute]int{"charisma": 1, stats.Health: 1}}}},
			},
			problems: []string{`node "a" choice 0: unknown effect attribute "charisma" (known: health, obesity, beauty, knowledge)`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.start, tt.nodes)
			if len(tt.problems) == 0 {
				require.NoError(t, err)
				assert.NotNil(t, g)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.problems, verr.Problems)
		})
	}
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte(`{"startNodeId":"a","nodes":{"a":{"scenarioText":"x","choices":[],"bogus":1}}}`), FormatJSON)
	assert.Error(t, err)

	_, err = Parse([]byte("startNodeId: a\nnodes:\n  a:\n    bogus: 1\n"), FormatYAML)
	assert.Error(t, err)
}

func TestImageURLs(t *testing.T) {
	g, err := New("a", map[NodeID]Node{
		"a": {Choices: []Choice{{ImageURL: "/x.png", NextID: "b"}, {ImageURL: "/y.png"}}},
		"b": {Choices: []Choice{{ImageURL: "/x.png"}, {}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/x.png", "/y.png"}, g.ImageURLs())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "story.json")
	require.NoError(t, os.WriteFile(path, []byte(breakfastJSON), 0o644))
	g, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, NodeID("breakfast"), g.Start())

	_, err = Load(filepath.Join(dir, "story.txt"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestNew_CopiesNodes(t *testing.T) {
	nodes := map[NodeID]Node{"a": {ScenarioText: "a"}}
	g, err := New("a", nodes)
	require.NoError(t, err)

	nodes["b"] = Node{}
	assert.Equal(t, 1, g.Len())
}

func TestUnreachable(t *testing.T) {
	g, err := New("a", map[NodeID]Node{
		"a":      {Choices: []Choice{{NextID: "b"}, {NextID: End}}},
		"b":      {Choices: []Choice{{NextID: "a"}}},
		"orphan": {Choices: []Choice{{NextID: "b"}}},
		"island": {},
	})
	require.NoError(t, err)
	assert.Equal(t, []NodeID{"island", "orphan"}, g.Unreachable())

	full, err := Parse([]byte(breakfastJSON), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, full.Unreachable())
}

func TestLoad_BundledStories(t *testing.T) {
	g, err := Load(filepath.Join("..", "..", "data", "story.json"))
	require.NoError(t, err)
	assert.Equal(t, NodeID("scene1"), g.Start())
	assert.Empty(t, g.Unreachable())

	first, ok := g.Lookup("scene1")
	require.True(t, ok)
	require.NotNil(t, first.IntroMedia)
	assert.Equal(t, "/videos/scene1.mp4", first.IntroMedia.VideoURL)

	last, ok := g.Lookup("scene5")
	require.True(t, ok)
	assert.True(t, last.Terminal())

	g, err = Load(filepath.Join("..", "..", "data", "snack_break.yaml"))
	require.NoError(t, err)
	assert.Equal(t, NodeID("snack"), g.Start())
	assert.Equal(t, 2, g.Len())
}
