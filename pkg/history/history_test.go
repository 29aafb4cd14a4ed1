package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_AppendIsMonotonic(t *testing.T) {
	r := NewRecorder()
	assert.Equal(t, 0, r.Len())

	r.Append(Entry{Scenario: "Breakfast", Choice: "Pho"})
	r.Append(Entry{Scenario: "Lunch", Choice: "Salad", Effects: []string{"health: 100 + 5 = 105"}})

	require.Equal(t, 2, r.Len())
	entries := r.Entries()
	assert.Equal(t, "Breakfast", entries[0].Scenario)
	assert.Equal(t, "Lunch", entries[1].Scenario)
}

func TestRecorder_EntriesAreCopies(t *testing.T) {
	effects := []string{"health: 100 - 5 = 95"}
	r := NewRecorder(Entry{Scenario: "Snack", Choice: "Chips", Effects: effects})

	effects[0] = "tampered"
	got := r.Entries()
	assert.Equal(t, "health: 100 - 5 = 95", got[0].Effects[0])

	got[0].Choice = "tampered"
	got[0].Effects[0] = "tampered"
	again := r.Entries()
	assert.Equal(t, "Chips", again[0].Choice)
	assert.Equal(t, "health: 100 - 5 = 95", again[0].Effects[0])
}

func TestEntry_String(t *testing.T) {
	assert.Equal(t, "Dinner -> Soup", Entry{Scenario: "Dinner", Choice: "Soup"}.String())
	assert.Equal(t,
		"Dinner -> Pizza (health: 90 - 10 = 80, obesity: 0 + 5 = 5)",
		Entry{Scenario: "Dinner", Choice: "Pizza", Effects: []string{"health: 90 - 10 = 80", "obesity: 0 + 5 = 5"}}.String())
}
