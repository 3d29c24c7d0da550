package selection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAddRejectsDuplicates(t *testing.T) {
	s := NewSet()
	assert.True(t, s.Add(Item{ID: "1", Name: "Coal"}))
	assert.False(t, s.Add(Item{ID: "1", Name: "Coal"}))
	assert.False(t, s.Add(Item{ID: " 1 ", Name: "Coal (spaced id)"}))
	assert.Equal(t, 1, s.Len())
}

func TestSetPreservesInsertionOrder(t *testing.T) {
	s := NewSet()
	s.Add(Item{ID: "3", Name: "Iron"})
	s.Add(Item{ID: "1", Name: "Coal"})
	s.Add(Item{ID: "2", Name: "Wood"})

	items := s.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "Iron", items[0].Name)
	assert.Equal(t, "Coal", items[1].Name)
	assert.Equal(t, "Wood", items[2].Name)
}

func TestSetRemoveAbsentIsNoop(t *testing.T) {
	s := NewSet()
	s.Add(Item{ID: "1", Name: "Coal"})
	assert.False(t, s.Remove("99"))
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Remove("1"))
	assert.Equal(t, 0, s.Len())
}

func TestSetReplaceAllDedupesKeepingFirst(t *testing.T) {
	s := NewSet()
	s.Add(Item{ID: "9", Name: "Old"})
	s.ReplaceAll([]Item{
		{ID: "1", Name: "Coal"},
		{ID: "2", Name: "Iron"},
		{ID: "1", Name: "Coal again"},
	})

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Coal", items[0].Name)
	assert.Equal(t, "Iron", items[1].Name)
	assert.False(t, s.Contains("9"))
}

func TestSetPopLast(t *testing.T) {
	s := NewSet()
	_, ok := s.PopLast()
	assert.False(t, ok)

	s.Add(Item{ID: "1", Name: "Coal"})
	s.Add(Item{ID: "2", Name: "Iron"})
	item, ok := s.PopLast()
	require.True(t, ok)
	assert.Equal(t, "Iron", item.Name)
	assert.False(t, s.Contains("2"))
	assert.True(t, s.Contains("1"))
}

func TestSetIDStringDerivedFromContents(t *testing.T) {
	s := NewSet()
	assert.Equal(t, "", s.IDString())
	s.Add(Item{ID: "1", Name: "Coal"})
	s.Add(Item{ID: "7", Name: "Iron"})
	assert.Equal(t, "1,7", s.IDString())
	s.Remove("1")
	assert.Equal(t, "7", s.IDString())
}

func TestSetNeverHoldsDuplicateIDs(t *testing.T) {
	// Arbitrary mixed op sequence; the uniqueness invariant must survive it.
	s := NewSet()
	for i := 0; i < 40; i++ {
		switch i % 4 {
		case 0:
			s.Add(Item{ID: fmt.Sprintf("%d", i%7), Name: "x"})
		case 1:
			s.Add(Item{ID: fmt.Sprintf(" %d", i%5), Name: "y"})
		case 2:
			s.Remove(fmt.Sprintf("%d", i%3))
		default:
			s.ReplaceAll(append(s.Items(), Item{ID: fmt.Sprintf("%d", i%6), Name: "z"}))
		}
		seen := map[string]bool{}
		for _, item := range s.Items() {
			key := NormalizeID(item.ID)
			require.False(t, seen[key], "duplicate id %q after op %d", key, i)
			seen[key] = true
		}
	}
}
