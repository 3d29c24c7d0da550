package selection

// Set is the live, insertion-ordered, duplicate-free list of items chosen in
// one widget. Membership is keyed on NormalizeID(item.ID). Mutation happens
// only through Add, Remove, ReplaceAll and PopLast; rendering and the
// persisted id string are always derived from the resulting state.
type Set struct {
	index map[string]struct{}
	items []Item
}

// NewSet creates an empty selection set.
func NewSet() *Set {
	return &Set{index: make(map[string]struct{})}
}

// Add appends the item unless its normalized id is already present.
// Returns false (and leaves the set untouched) on a duplicate.
func (s *Set) Add(item Item) bool {
	key := NormalizeID(item.ID)
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.items = append(s.items, item)
	return true
}

// Remove deletes the item with the given id. Removing an absent id is a no-op.
func (s *Set) Remove(id string) bool {
	key := NormalizeID(id)
	if _, ok := s.index[key]; !ok {
		return false
	}
	delete(s.index, key)
	for i, item := range s.items {
		if NormalizeID(item.ID) == key {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

// ReplaceAll discards the current contents and copies the given sequence,
// deduplicating by normalized id with the first occurrence winning.
func (s *Set) ReplaceAll(items []Item) {
	s.index = make(map[string]struct{}, len(items))
	s.items = s.items[:0]
	for _, item := range items {
		key := NormalizeID(item.ID)
		if _, ok := s.index[key]; ok {
			continue
		}
		s.index[key] = struct{}{}
		s.items = append(s.items, item)
	}
}

// PopLast removes and returns the most recently added item.
func (s *Set) PopLast() (Item, bool) {
	if len(s.items) == 0 {
		return Item{}, false
	}
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	delete(s.index, NormalizeID(last.ID))
	return last, true
}

// Contains reports whether an item with the given id is selected.
func (s *Set) Contains(id string) bool {
	_, ok := s.index[NormalizeID(id)]
	return ok
}

// Items returns a copy of the selected items in insertion order.
func (s *Set) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of selected items.
func (s *Set) Len() int {
	return len(s.items)
}

// IDString renders the comma-joined id list submitted with alert forms.
// It is recomputed from the current contents on every call so it can never
// drift from the set itself.
func (s *Set) IDString() string {
	if len(s.items) == 0 {
		return ""
	}
	out := make([]byte, 0, len(s.items)*8)
	for i, item := range s.items {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, NormalizeID(item.ID)...)
	}
	return string(out)
}
