package stats

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Attribute names one of the player stats a choice can affect.
type Attribute string

const (
	Health    Attribute = "health"
	Knowledge Attribute = "knowledge"
	Obesity   Attribute = "obesity"
	Beauty    Attribute = "beauty"
)

// DisplayOrder is the order effect descriptions are produced in.
var DisplayOrder = []Attribute{Health, Obesity, Beauty, Knowledge}

// Starting values for a new playthrough.
const (
	DefaultHealth    = 100
	DefaultKnowledge = 0
	DefaultObesity   = 0
	DefaultBeauty    = 50
)

// Stats holds the player's accumulated attributes. Values are unbounded.
type Stats struct {
	Health    int `json:"health" yaml:"health"`
	Knowledge int `json:"knowledge" yaml:"knowledge"`
	Obesity   int `json:"obesity" yaml:"obesity"`
	Beauty    int `json:"beauty" yaml:"beauty"`
}

// Defaults returns the stats every session starts with.
func Defaults() Stats {
	return Stats{
		Health:    DefaultHealth,
		Knowledge: DefaultKnowledge,
		Obesity:   DefaultObesity,
		Beauty:    DefaultBeauty,
	}
}

// Valid reports whether a is one of the known attributes.
func (a Attribute) Valid() bool {
	switch a {
	case Health, Knowledge, Obesity, Beauty:
		return true
	}
	return false
}

// Label returns the display label for an attribute, e.g. "Health".
func Label(a Attribute) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Title(language.English).String(string(a))
}

// Get returns the value of attribute a. Unknown attributes read as zero.
func (s Stats) Get(a Attribute) int {
	switch a {
	case Health:
		return s.Health
	case Knowledge:
		return s.Knowledge
	case Obesity:
		return s.Obesity
	case Beauty:
		return s.Beauty
	}
	return 0
}

// Add returns a copy of s with delta added to attribute a.
// Unknown attributes are ignored.
func (s Stats) Add(a Attribute, delta int) Stats {
	switch a {
	case Health:
		s.Health += delta
	case Knowledge:
		s.Knowledge += delta
	case Obesity:
		s.Obesity += delta
	case Beauty:
		s.Beauty += delta
	}
	return s
}

// Apply returns a copy of s with every delta in effects added.
// The receiver is a value, so the caller's stats are never modified.
func (s Stats) Apply(effects map[Attribute]int) Stats {
	for a, delta := range effects {
		s = s.Add(a, delta)
	}
	return s
}
