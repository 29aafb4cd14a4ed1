package story

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jwebster45206/food-guardian/pkg/stats"
)

// ValidationError collects every integrity problem found in a story graph.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid story graph:\n  - " + strings.Join(e.Problems, "\n  - ")
}

// Validate checks that the start node exists, that every choice points at a
// real node or at End, and that effects only name known attributes.
func Validate(g *Graph) error {
	var problems []string

	if g.start == End {
		problems = append(problems, "startNodeId is empty")
	} else if _, ok := g.nodes[g.start]; !ok {
		problems = append(problems, fmt.Sprintf("startNodeId %q does not match any node", g.start))
	}

	for _, id := range g.NodeIDs() {
		if id == End {
			problems = append(problems, "node with empty id")
			continue
		}
		for i, c := range g.nodes[id].Choices {
			where := fmt.Sprintf("node %q choice %d", id, i)
			if c.NextID != End {
				if _, ok := g.nodes[c.NextID]; !ok {
					problems = append(problems, fmt.Sprintf("%s: nextId %q does not match any node", where, c.NextID))
				}
			}

			var unknown []string
			for a := range c.Effects {
				if !a.Valid() {
					unknown = append(unknown, string(a))
				}
			}
			sort.Strings(unknown)
			for _, a := range unknown {
				problems = append(problems, fmt.Sprintf("%s: unknown effect attribute %q (known: %s)", where, a, knownAttributes()))
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func knownAttributes() string {
	names := make([]string, 0, len(stats.DisplayOrder))
	for _, a := range stats.DisplayOrder {
		names = append(names, string(a))
	}
	return strings.Join(names, ", ")
}
