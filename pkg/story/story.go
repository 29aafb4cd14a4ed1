package story

import (
	"slices"

	"github.com/jwebster45206/food-guardian/pkg/stats"
)

// NodeID identifies a node in the story graph.
type NodeID string

// End is the NextID of a choice that finishes the story.
const End NodeID = ""

// Media holds intro presentation hints for a node. The engine only passes
// these through.
type Media struct {
	VideoURL string `json:"videoUrl,omitempty" yaml:"videoUrl,omitempty"`
	AudioURL string `json:"audioUrl,omitempty" yaml:"audioUrl,omitempty"`
}

// Empty reports whether m carries no media at all.
func (m *Media) Empty() bool {
	return m == nil || (m.VideoURL == "" && m.AudioURL == "")
}

// Choice is an edge of the graph: a player option with its consequences.
type Choice struct {
	ImageURL string                  `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	AltText  string                  `json:"altText" yaml:"altText"` // also used as the choice label
	NextID   NodeID                  `json:"nextId" yaml:"nextId"`
	Effects  map[stats.Attribute]int `json:"effects,omitempty" yaml:"effects,omitempty"`
	Feedback string                  `json:"feedback" yaml:"feedback"`
}

// Label is the text the player sees for the choice.
func (c Choice) Label() string {
	return c.AltText
}

// Ends reports whether taking the choice finishes the story.
func (c Choice) Ends() bool {
	return c.NextID == End
}

// Node is one scenario in the story.
type Node struct {
	ScenarioText string   `json:"scenarioText" yaml:"scenarioText"`
	IntroMedia   *Media   `json:"introMedia,omitempty" yaml:"introMedia,omitempty"`
	Choices      []Choice `json:"choices" yaml:"choices"`
}

// Terminal reports whether the node offers no choices, leaving only
// "view results" as the next step.
func (n Node) Terminal() bool {
	return len(n.Choices) == 0
}

// Graph is the immutable story graph. It is safe for concurrent reads.
type Graph struct {
	start NodeID
	nodes map[NodeID]Node
}

// New builds a graph and validates it. The nodes map is copied.
func New(start NodeID, nodes map[NodeID]Node) (*Graph, error) {
	g := &Graph{
		start: start,
		nodes: make(map[NodeID]Node, len(nodes)),
	}
	for id, n := range nodes {
		g.nodes[id] = n
	}
	if err := Validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Start returns the entry node id.
func (g *Graph) Start() NodeID {
	return g.start
}

// Lookup returns the node for id. A false result means there is no such
// node, which callers treat as the end of the story.
func (g *Graph) Lookup(id NodeID) (Node, bool) {
	if id == End {
		return Node{}, false
	}
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// NodeIDs returns all node ids, sorted.
func (g *Graph) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ImageURLs lists the distinct choice image URLs, ordered by node id and
// then choice order, so a front-end can preload them.
func (g *Graph) ImageURLs() []string {
	seen := make(map[string]bool)
	var urls []string
	for _, id := range g.NodeIDs() {
		for _, c := range g.nodes[id].Choices {
			if c.ImageURL == "" || seen[c.ImageURL] {
				continue
			}
			seen[c.ImageURL] = true
			urls = append(urls, c.ImageURL)
		}
	}
	return urls
}

// Unreachable returns the ids of nodes that cannot be reached from the start
// node, sorted. Unreachable nodes are legal but usually an authoring mistake.
func (g *Graph) Unreachable() []NodeID {
	seen := map[NodeID]bool{g.start: true}
	queue := []NodeID{g.start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range g.nodes[id].Choices {
			if c.NextID == End || seen[c.NextID] {
				continue
			}
			seen[c.NextID] = true
			queue = append(queue, c.NextID)
		}
	}

	var out []NodeID
	for _, id := range g.NodeIDs() {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}
