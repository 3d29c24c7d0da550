package selection

// Mode controls how a collection's items combine with a target set.
type Mode int

const (
	// Merge keeps the target's items in place and appends collection items
	// not already selected, in the collection's order.
	Merge Mode = iota
	// Replace discards the target's items in favor of the collection's.
	Replace
)

func (m Mode) String() string {
	if m == Replace {
		return "replace"
	}
	return "merge"
}

// Apply combines the given items into the target set according to mode and
// returns the resulting sequence plus the number of items the collection
// actually contributed (entries not present in the pre-apply target). The
// target is set to exactly the returned sequence via ReplaceAll, so the
// persisted id string and any rendering derived from the set stay in step.
func Apply(target *Set, items []Item, mode Mode) ([]Item, int) {
	var final []Item
	var added int
	switch mode {
	case Replace:
		added = countNew(target.Items(), items)
		final = dedupe(items)
	default:
		final, added = MergeItems(target.Items(), items)
	}
	target.ReplaceAll(final)
	return target.Items(), added
}

// MergeItems unions two ordered sequences: every existing item in its original
// position, then each incoming item whose normalized id is not yet present,
// in incoming order. Returns the merged sequence and the number of incoming
// items that were appended. Shared by the collection applicator and the
// alert-group registry, which merges server-backed lists the same way.
func MergeItems(existing, incoming []Item) ([]Item, int) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]Item, 0, len(existing)+len(incoming))
	for _, item := range existing {
		key := NormalizeID(item.ID)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	added := 0
	for _, item := range incoming {
		key := NormalizeID(item.ID)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
		added++
	}
	return out, added
}

func dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, item := range items {
		key := NormalizeID(item.ID)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func countNew(existing, incoming []Item) int {
	have := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		have[NormalizeID(item.ID)] = struct{}{}
	}
	added := 0
	for _, item := range dedupe(incoming) {
		if _, ok := have[NormalizeID(item.ID)]; !ok {
			added++
		}
	}
	return added
}
