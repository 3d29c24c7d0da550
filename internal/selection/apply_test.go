package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setOf(items ...Item) *Set {
	s := NewSet()
	for _, item := range items {
		s.Add(item)
	}
	return s
}

func TestApplyReplaceIgnoresPriorContents(t *testing.T) {
	target := setOf(Item{ID: "1", Name: "Coal"})

	final, added := Apply(target, []Item{{ID: "2", Name: "Iron"}}, Replace)

	require.Len(t, final, 1)
	assert.Equal(t, "Iron", final[0].Name)
	assert.Equal(t, 1, added)
	assert.Equal(t, "2", target.IDString())
}

func TestApplyReplaceDedupesCollection(t *testing.T) {
	target := setOf(Item{ID: "9", Name: "Old"})

	final, _ := Apply(target, []Item{
		{ID: "2", Name: "Iron"},
		{ID: "2", Name: "Iron dup"},
		{ID: "3", Name: "Wood"},
	}, Replace)

	require.Len(t, final, 2)
	assert.Equal(t, "Iron", final[0].Name)
	assert.Equal(t, "Wood", final[1].Name)
}

func TestApplyMergeKeepsTargetPrefix(t *testing.T) {
	target := setOf(
		Item{ID: "1", Name: "Coal"},
		Item{ID: "2", Name: "Iron"},
	)

	final, added := Apply(target, []Item{
		{ID: "3", Name: "Wood"},
		{ID: "4", Name: "Stone"},
	}, Merge)

	require.Len(t, final, 4)
	assert.Equal(t, "Coal", final[0].Name)
	assert.Equal(t, "Iron", final[1].Name)
	assert.Equal(t, "Wood", final[2].Name)
	assert.Equal(t, "Stone", final[3].Name)
	assert.Equal(t, 2, added)
}

func TestApplyMergeSkipsOverlapPreservingOrder(t *testing.T) {
	// Target [Coal] merged with [Iron, Coal] -> [Coal, Iron].
	target := setOf(Item{ID: "1", Name: "Coal"})

	final, added := Apply(target, []Item{
		{ID: "2", Name: "Iron"},
		{ID: "1", Name: "Coal"},
	}, Merge)

	require.Len(t, final, 2)
	assert.Equal(t, "Coal", final[0].Name)
	assert.Equal(t, "Iron", final[1].Name)
	assert.Equal(t, 1, added)
}

func TestApplyEmptyCollection(t *testing.T) {
	replaceTarget := setOf(Item{ID: "1", Name: "Coal"})
	final, added := Apply(replaceTarget, nil, Replace)
	assert.Empty(t, final)
	assert.Equal(t, 0, added)
	assert.Equal(t, 0, replaceTarget.Len())

	mergeTarget := setOf(Item{ID: "1", Name: "Coal"})
	final, added = Apply(mergeTarget, nil, Merge)
	require.Len(t, final, 1)
	assert.Equal(t, "Coal", final[0].Name)
	assert.Equal(t, 0, added)
}

func TestApplyNormalizesIDsAcrossSources(t *testing.T) {
	// Same item arriving with whitespace-padded id must not duplicate.
	target := setOf(Item{ID: "1", Name: "Coal"})

	final, added := Apply(target, []Item{{ID: " 1", Name: "Coal"}}, Merge)

	assert.Len(t, final, 1)
	assert.Equal(t, 0, added)
}

func TestApplyAddedCountsOnlyNewEntries(t *testing.T) {
	target := setOf(Item{ID: "1", Name: "Coal"}, Item{ID: "2", Name: "Iron"})

	_, added := Apply(target, []Item{
		{ID: "2", Name: "Iron"},
		{ID: "3", Name: "Wood"},
		{ID: "3", Name: "Wood dup"},
	}, Replace)

	assert.Equal(t, 1, added)
}

func TestMergeItemsPure(t *testing.T) {
	existing := []Item{{ID: "a", Name: "A"}}
	incoming := []Item{{ID: "b", Name: "B"}, {ID: "a", Name: "A2"}}

	out, added := MergeItems(existing, incoming)

	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0].Name)
	assert.Equal(t, "B", out[1].Name)
	assert.Equal(t, 1, added)
	// inputs untouched
	assert.Len(t, existing, 1)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "merge", Merge.String())
	assert.Equal(t, "replace", Replace.String())
}
