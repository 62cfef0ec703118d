package livequery

import (
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func genItems() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, 99)).Map(func(numbers []int) []Item {
		items := make([]Item, len(numbers))
		for i, n := range numbers {
			items[i] = Item{ID: fmt.Sprintf("id%v-%v", i, n), Doc: n}
		}
		return items
	})
}

func lessByDoc(a, b Item) bool {
	return a.Doc.(int) < b.Doc.(int)
}

func evenOnly(item Item) bool {
	return item.Doc.(int)%2 == 0
}

// Re-running the projector on identical inputs must yield identical output,
// and the page index must only move the slice boundaries, never change the
// underlying filtered and sorted set.
func TestProjectorIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("identical inputs give identical outputs", prop.ForAll(
		func(items []Item, page int, pageSize int) bool {
			first, firstPages := Project(items, evenOnly, lessByDoc, page, pageSize)
			second, secondPages := Project(items, evenOnly, lessByDoc, page, pageSize)
			return firstPages == secondPages && cmp.Equal(first, second)
		},
		genItems(),
		gen.IntRange(0, 5),
		gen.IntRange(1, 10),
	))

	properties.Property("page index only moves slice boundaries", prop.ForAll(
		func(items []Item, pageSize int) bool {
			full, _ := Project(items, evenOnly, lessByDoc, 0, 0)

			_, pageCount := Project(items, evenOnly, lessByDoc, 0, pageSize)
			var joined []Item
			for page := 0; page < pageCount; page++ {
				slice, _ := Project(items, evenOnly, lessByDoc, page, pageSize)
				joined = append(joined, slice...)
			}

			return cmp.Equal(full, joined) || (len(full) == 0 && len(joined) == 0)
		},
		genItems(),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}

func TestProjectorDoesNotReorderInput(t *testing.T) {
	items := []Item{{ID: "b", Doc: 2}, {ID: "a", Doc: 1}, {ID: "c", Doc: 3}}

	_, _ = Project(items, nil, lessByDoc, 0, 10)

	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
	assert.Equal(t, "c", items[2].ID)
}

func TestNaturalLess(t *testing.T) {
	names := []string{"Group 2", "Group 10", "Group 1"}
	sort.Slice(names, func(i, j int) bool { return NaturalLess(names[i], names[j]) })
	assert.Equal(t, []string{"Group 1", "Group 2", "Group 10"}, names)

	assert.True(t, NaturalLess("Group 2", "Group 10"))
	assert.False(t, NaturalLess("Group 10", "Group 2"))
	assert.True(t, NaturalLess("alpha", "beta"))
	assert.True(t, NaturalLess("Group", "Group 1"))
	assert.False(t, NaturalLess("Group 1", "Group 1"))
}

func TestByArea(t *testing.T) {
	station := func(area string, manned bool, name string) Item {
		return Item{ID: name, Doc: []interface{}{area, manned, name}}
	}
	area := func(i Item) string { return i.Doc.([]interface{})[0].(string) }
	manned := func(i Item) bool { return i.Doc.([]interface{})[1].(bool) }
	name := func(i Item) string { return i.Doc.([]interface{})[2].(string) }

	items := []Item{
		station("B", true, "Station 1"),
		station("A", false, "Station 3"),
		station("A", true, "Station 10"),
		station("A", true, "Station 2"),
	}

	sorted, _ := Project(items, nil, ByArea(area, manned, name), 0, 0)

	var order []string
	for _, item := range sorted {
		order = append(order, item.ID)
	}
	assert.Equal(t, []string{"Station 2", "Station 10", "Station 3", "Station 1"}, order)
}

func TestByPoints(t *testing.T) {
	points := func(i Item) int { return i.Doc.(int) }
	name := func(i Item) string { return i.ID }

	items := []Item{{ID: "low", Doc: 5}, {ID: "high", Doc: 50}, {ID: "mid", Doc: 20}}
	sorted, _ := Project(items, nil, ByPoints(points, name), 0, 0)

	assert.Equal(t, "high", sorted[0].ID)
	assert.Equal(t, "mid", sorted[1].ID)
	assert.Equal(t, "low", sorted[2].ID)
}

func TestProjectorPastLastPage(t *testing.T) {
	items := []Item{{ID: "a", Doc: 1}, {ID: "b", Doc: 2}, {ID: "c", Doc: 3}}

	slice, pageCount := Project(items, nil, lessByDoc, 5, 2)
	assert.Empty(t, slice)
	assert.Equal(t, 2, pageCount)

	slice, pageCount = Project(nil, nil, lessByDoc, 0, 2)
	assert.Empty(t, slice)
	assert.Equal(t, 1, pageCount)
}
