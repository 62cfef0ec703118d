package livequery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifierSuppressesFirstDelivery(t *testing.T) {
	var emitted []Item
	notifier := NewNotifier(func(item Item) { emitted = append(emitted, item) })

	// pre-existing feed on mount, no notification storm
	notifier.Observe([]Item{{ID: "a2"}, {ID: "a1"}})
	assert.Empty(t, emitted)

	// unchanged head, nothing fires
	notifier.Observe([]Item{{ID: "a2"}, {ID: "a1"}})
	assert.Empty(t, emitted)

	// new head, exactly one notification
	notifier.Observe([]Item{{ID: "a3"}, {ID: "a2"}, {ID: "a1"}})
	assert.Len(t, emitted, 1)
	assert.Equal(t, "a3", emitted[0].ID)

	notifier.Observe([]Item{{ID: "a3"}, {ID: "a2"}, {ID: "a1"}})
	assert.Len(t, emitted, 1)
}

func TestNotifierEmptyFeed(t *testing.T) {
	var emitted []Item
	notifier := NewNotifier(func(item Item) { emitted = append(emitted, item) })

	// empty first delivery does not count as the first observation
	notifier.Observe(nil)
	notifier.Observe([]Item{{ID: "a1"}})
	assert.Empty(t, emitted)

	// feed drains, nothing fires and the first-seen flag survives
	notifier.Observe(nil)
	assert.Empty(t, emitted)

	notifier.Observe([]Item{{ID: "a2"}})
	assert.Len(t, emitted, 1)
	assert.Equal(t, "a2", emitted[0].ID)
}

func TestNotifierStartsEmpty(t *testing.T) {
	var emitted []Item
	notifier := NewNotifier(func(item Item) { emitted = append(emitted, item) })

	notifier.Observe(nil)
	notifier.Observe(nil)
	assert.Empty(t, emitted)

	// the very first non-empty delivery is still the suppressed one
	notifier.Observe([]Item{{ID: "a1"}})
	assert.Empty(t, emitted)
}
