package livequery

import (
	"sort"
	"strings"
	"unicode"
)

//Project Applies filter, sort and pagination to a materialized list. Pure:
//identical inputs give identical outputs and the input slice is never
//reordered in place. Returns the visible slice and the total page count.
//Pages are zero-based; a page index past the end yields an empty slice.
func Project(items []Item, filter func(Item) bool, less func(a, b Item) bool, page int, pageSize int) ([]Item, int) {
	selected := make([]Item, 0, len(items))
	for _, item := range items {
		if filter == nil || filter(item) {
			selected = append(selected, item)
		}
	}

	if less != nil {
		sort.SliceStable(selected, func(i, j int) bool {
			return less(selected[i], selected[j])
		})
	}

	if pageSize <= 0 {
		return selected, 1
	}

	pageCount := (len(selected) + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	start := page * pageSize
	if start >= len(selected) {
		return []Item{}, pageCount
	}
	end := start + pageSize
	if end > len(selected) {
		end = len(selected)
	}

	return selected[start:end], pageCount
}

//NaturalLess Numeric-aware string ordering, so "Group 2" sorts before
//"Group 10". Case-insensitive on the non-numeric runs.
func NaturalLess(a, b string) bool {
	return naturalCompare(a, b) < 0
}

func naturalCompare(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			aNum, aRest := leadingNumber(a)
			bNum, bRest := leadingNumber(b)
			if aNum != bNum {
				if aNum < bNum {
					return -1
				}
				return 1
			}
			a, b = aRest, bRest
			continue
		}

		aRune := unicode.ToLower(rune(a[0]))
		bRune := unicode.ToLower(rune(b[0]))
		if aRune != bRune {
			if aRune < bRune {
				return -1
			}
			return 1
		}
		a, b = a[1:], b[1:]
	}

	return len(a) - len(b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func leadingNumber(s string) (int64, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	var n int64
	for _, c := range s[:i] {
		n = n*10 + int64(c-'0')
	}
	return n, s[i:]
}

//ByName Orders items naturally by the name the accessor extracts.
func ByName(name func(Item) string) func(a, b Item) bool {
	return func(a, b Item) bool {
		return NaturalLess(name(a), name(b))
	}
}

//ByArea Multi-key station ordering: area first, manned before unmanned within
//an area, natural name last.
func ByArea(area func(Item) string, manned func(Item) bool, name func(Item) string) func(a, b Item) bool {
	return func(a, b Item) bool {
		if c := strings.Compare(area(a), area(b)); c != 0 {
			return c < 0
		}
		if manned(a) != manned(b) {
			return manned(a)
		}
		return NaturalLess(name(a), name(b))
	}
}

//ByPoints Orders items by descending points, natural name as the tie break.
func ByPoints(points func(Item) int, name func(Item) string) func(a, b Item) bool {
	return func(a, b Item) bool {
		if points(a) != points(b) {
			return points(a) > points(b)
		}
		return NaturalLess(name(a), name(b))
	}
}
