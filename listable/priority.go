package listable

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sortable is anything ordered by a per-user priority and a name.
type Sortable interface {
	SortName() string
	SortPriority() *int
}

// ComparePriority orders a before b by priority, falling back to a
// locale-aware name comparison when both have the same defined priority.
// A missing priority counts as zero.
func ComparePriority(a, b Sortable) int {
	return comparePriority(newCollator(), a, b)
}

// SortByPriorityAndName sorts in place with ComparePriority. Equal elements
// keep their relative order.
func SortByPriorityAndName[T Sortable](values []T) {
	collator := newCollator()
	sort.SliceStable(values, func(i, j int) bool {
		return comparePriority(collator, values[i], values[j]) < 0
	})
}

func comparePriority(collator *collate.Collator, a, b Sortable) int {
	pa, pb := a.SortPriority(), b.SortPriority()
	if pa != nil && pb != nil && *pa == *pb {
		return collator.CompareString(a.SortName(), b.SortName())
	}
	return priorityOrZero(pa) - priorityOrZero(pb)
}

func priorityOrZero(priority *int) int {
	if priority == nil {
		return 0
	}
	return *priority
}

func newCollator() *collate.Collator {
	return collate.New(language.English)
}
