package livequery

import (
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func genEvent() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf(Added, Modified, Removed),
		gen.IntRange(0, 9),
	).Map(func(values []interface{}) Event {
		id := fmt.Sprintf("doc%v", values[1].(int))
		return Event{Kind: values[0].(string), ID: id, Doc: id}
	})
}

// The materialized list must equal the set of IDs whose most recent event was
// an add or modify, for any event sequence.
func TestViewMatchesEventHistory(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("view equals last-event-wins set", prop.ForAll(
		func(events []Event) bool {
			view := NewView(nil, nil)
			expected := map[string]bool{}

			for _, event := range events {
				view.Apply(event)
				switch event.Kind {
				case Added, Modified:
					expected[event.ID] = true
				case Removed:
					delete(expected, event.ID)
				}
			}

			items := view.Items()
			if len(items) != len(expected) {
				return false
			}
			for _, item := range items {
				if !expected[item.ID] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genEvent()),
	))

	properties.TestingRun(t)
}

func TestViewReset(t *testing.T) {
	view := NewView(nil, nil)
	view.Apply(Event{Kind: Added, ID: "a", Doc: 1})
	view.Apply(Event{Kind: Added, ID: "b", Doc: 2})

	view.Reset([]Item{{ID: "c", Doc: 3}})

	items := view.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, "c", items[0].ID)

	// modify of an unknown ID behaves as an add
	view.Apply(Event{Kind: Modified, ID: "d", Doc: 4})
	assert.Equal(t, 2, view.Len())
}

func TestViewOnChangeCallback(t *testing.T) {
	var calls int
	view := NewView(func(items []Item) { calls++ }, nil)

	view.Apply(Event{Kind: Added, ID: "a", Doc: 1})
	view.Apply(Event{Kind: Removed, ID: "a"})

	assert.Equal(t, 2, calls)
}

func TestViewFailSurfacesOnce(t *testing.T) {
	var seen []error
	view := NewView(nil, func(err error) { seen = append(seen, err) })

	view.Apply(Event{Kind: Added, ID: "a", Doc: 1})
	view.Fail(errors.New("permission denied"))
	view.Fail(errors.New("permission denied"))

	assert.Len(t, seen, 1)

	// a failed view no longer applies events
	view.Apply(Event{Kind: Added, ID: "b", Doc: 2})
	assert.Equal(t, 1, view.Len())
}

func TestViewClose(t *testing.T) {
	view := NewView(nil, nil)
	view.Apply(Event{Kind: Added, ID: "a", Doc: 1})
	view.Close()
	view.Apply(Event{Kind: Added, ID: "b", Doc: 2})

	assert.Equal(t, 0, view.Len())
}
