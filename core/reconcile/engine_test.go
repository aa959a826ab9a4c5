package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRecord is a minimal record shape for exercising the engine.
type testRecord struct {
	ID    string
	Value string
}

// testAdapter keys records by ID and fingerprints them by Value.
type testAdapter struct{}

func (testAdapter) Name() string { return "test" }

func (testAdapter) Key(r *testRecord) (string, bool) {
	if r.ID == "" {
		return "", false
	}
	return r.ID, true
}

func (testAdapter) Signature(r *testRecord) string {
	return "sig:" + r.Value
}

func sig(v string) string { return "sig:" + v }

func TestMerge_CreatedAndUnchanged(t *testing.T) {
	prev := []*testRecord{{ID: "1", Value: "a"}}
	prevSigs := map[string]string{"1": sig("a")}
	current := []*testRecord{{ID: "1", Value: "a"}, {ID: "2", Value: "b"}}

	final, sigs, stats := Merge[*testRecord](testAdapter{}, current, prev, prevSigs)

	require.Len(t, final, 2)
	assert.Equal(t, Stats{Created: 1, Updated: 0, Unchanged: 1, Total: 2}, stats)

	// The unchanged entry must be the exact previous object, not the fresh copy.
	assert.Same(t, prev[0], final[0])
	assert.NotSame(t, current[0], final[0])

	assert.Equal(t, map[string]string{"1": sig("a"), "2": sig("b")}, sigs)
}

func TestMerge_AllCreatedFromEmpty(t *testing.T) {
	current := []*testRecord{{ID: "5", Value: "x"}}

	final, sigs, stats := Merge[*testRecord](testAdapter{}, current, nil, map[string]string{})

	assert.Equal(t, Stats{Created: 1, Updated: 0, Unchanged: 0, Total: 1}, stats)
	require.Len(t, final, 1)
	assert.Same(t, current[0], final[0])
	assert.Equal(t, map[string]string{"5": sig("x")}, sigs)
}

func TestMerge_Updated(t *testing.T) {
	prev := []*testRecord{{ID: "3", Value: "old"}}
	prevSigs := map[string]string{"3": sig("old")}
	current := []*testRecord{{ID: "3", Value: "new"}}

	final, sigs, stats := Merge[*testRecord](testAdapter{}, current, prev, prevSigs)

	assert.Equal(t, Stats{Created: 0, Updated: 1, Unchanged: 0, Total: 1}, stats)
	require.Len(t, final, 1)
	assert.Equal(t, "new", final[0].Value)
	assert.Equal(t, sig("new"), sigs["3"])
}

func TestMerge_KeylessRecordsDropped(t *testing.T) {
	current := []*testRecord{
		{ID: "", Value: "nokey"},
		{ID: "1", Value: "a"},
		{ID: "", Value: "alsonokey"},
	}

	final, sigs, stats := Merge[*testRecord](testAdapter{}, current, nil, map[string]string{})

	require.Len(t, final, 1)
	assert.Equal(t, "1", final[0].ID)
	assert.Equal(t, Stats{Created: 1, Updated: 0, Unchanged: 0, Total: 1}, stats)
	assert.Len(t, sigs, 1)
}

func TestMerge_Idempotence(t *testing.T) {
	current := []*testRecord{
		{ID: "1", Value: "a"},
		{ID: "2", Value: "b"},
		{ID: "3", Value: "c"},
	}

	first, firstSigs, _ := Merge[*testRecord](testAdapter{}, current, nil, map[string]string{})
	second, secondSigs, stats := Merge[*testRecord](testAdapter{}, current, first, firstSigs)

	assert.Equal(t, Stats{Created: 0, Updated: 0, Unchanged: 3, Total: 3}, stats)
	assert.Equal(t, firstSigs, secondSigs)
	for i := range second {
		assert.Same(t, first[i], second[i])
	}
}

func TestMerge_OutputFollowsCurrentOrder(t *testing.T) {
	prev := []*testRecord{{ID: "2", Value: "b"}, {ID: "1", Value: "a"}}
	prevSigs := map[string]string{"1": sig("a"), "2": sig("b")}
	current := []*testRecord{{ID: "1", Value: "a"}, {ID: "3", Value: "c"}, {ID: "2", Value: "b"}}

	final, _, _ := Merge[*testRecord](testAdapter{}, current, prev, prevSigs)

	require.Len(t, final, 3)
	assert.Equal(t, "1", final[0].ID)
	assert.Equal(t, "3", final[1].ID)
	assert.Equal(t, "2", final[2].ID)
}

func TestMerge_AbsentRecordsDroppedSilently(t *testing.T) {
	prev := []*testRecord{{ID: "1", Value: "a"}, {ID: "2", Value: "b"}}
	prevSigs := map[string]string{"1": sig("a"), "2": sig("b")}
	current := []*testRecord{{ID: "1", Value: "a"}}

	final, sigs, stats := Merge[*testRecord](testAdapter{}, current, prev, prevSigs)

	require.Len(t, final, 1)
	assert.Equal(t, "1", final[0].ID)
	assert.Equal(t, Stats{Created: 0, Updated: 0, Unchanged: 1, Total: 1}, stats)
	// No tombstones: the dropped key simply vanishes from the signature map.
	assert.NotContains(t, sigs, "2")
}

func TestMerge_DuplicateKeysProcessedIndependently(t *testing.T) {
	current := []*testRecord{
		{ID: "1", Value: "a"},
		{ID: "1", Value: "a"},
	}

	final, sigs, stats := Merge[*testRecord](testAdapter{}, current, nil, map[string]string{})

	// Both copies survive and are double-counted.
	require.Len(t, final, 2)
	assert.Equal(t, 2, stats.Created)
	assert.Equal(t, 2, stats.Total)
	assert.Len(t, sigs, 1)
}

func TestMerge_DuplicateKeysInPrevious_LastWins(t *testing.T) {
	prev := []*testRecord{
		{ID: "1", Value: "first"},
		{ID: "1", Value: "second"},
	}
	prevSigs := map[string]string{"1": sig("second")}
	current := []*testRecord{{ID: "1", Value: "second"}}

	final, _, stats := Merge[*testRecord](testAdapter{}, current, prev, prevSigs)

	require.Len(t, final, 1)
	assert.Equal(t, 1, stats.Unchanged)
	assert.Same(t, prev[1], final[0])
}

func TestMerge_DivergedStateFallsBackToCurrent(t *testing.T) {
	// Signature map says unchanged, but the records snapshot lost the key.
	prevSigs := map[string]string{"7": sig("v")}
	current := []*testRecord{{ID: "7", Value: "v"}}

	final, sigs, stats := Merge[*testRecord](testAdapter{}, current, nil, prevSigs)

	require.Len(t, final, 1)
	assert.Same(t, current[0], final[0])
	// Classified as updated: the key was known, only the snapshot is gone.
	assert.Equal(t, Stats{Created: 0, Updated: 1, Unchanged: 0, Total: 1}, stats)
	assert.Equal(t, sig("v"), sigs["7"])
}

func TestMerge_StatsPartition(t *testing.T) {
	prev := []*testRecord{
		{ID: "1", Value: "a"},
		{ID: "2", Value: "b"},
		{ID: "3", Value: "c"},
	}
	prevSigs := map[string]string{"1": sig("a"), "2": sig("b"), "3": sig("c")}
	current := []*testRecord{
		{ID: "1", Value: "a"},   // unchanged
		{ID: "2", Value: "b2"},  // updated
		{ID: "4", Value: "d"},   // created
		{ID: "", Value: "skip"}, // dropped
	}

	final, _, stats := Merge[*testRecord](testAdapter{}, current, prev, prevSigs)

	assert.Equal(t, stats.Total, len(final))
	assert.Equal(t, stats.Total, stats.Created+stats.Updated+stats.Unchanged)
	assert.Equal(t, Stats{Created: 1, Updated: 1, Unchanged: 1, Total: 3}, stats)
}
