package vehicle

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_FirstObservationWins(t *testing.T) {
	c := NewCache()
	assert.True(t, c.Add("Straße", "/a.wag"))
	assert.False(t, c.Add("STRASSE", "/b.wag"))
	assert.False(t, c.Add("  ", "/c.wag"))

	path, ok := c.Lookup(" strasse ")
	require.True(t, ok)
	assert.Equal(t, "/a.wag", path)
	assert.Equal(t, 1, c.Len())

	c.Remove("straße")
	_, ok = c.Lookup("Straße")
	assert.False(t, ok)
}

func TestIndex_RoundTripsThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicles.idx")

	empty, err := ReadIndex(path)
	require.NoError(t, err)
	assert.Empty(t, empty.Wagons)

	want := &Index{
		Engines: map[string]string{"Loco": "/t/loco.eng"},
		Wagons:  map[string]string{"Loco": "/t/loco.eng", "Coach": "/t/coach.wag"},
	}
	require.NoError(t, WriteIndex(path, want))

	got, err := ReadIndex(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}
}

func TestIndex_RejectsUnknownVersion(t *testing.T) {
	data, err := indexEncMode.Marshal(&Index{Version: 99})
	require.NoError(t, err)

	var ix Index
	assert.Error(t, ix.UnmarshalBinary(data))
}

func TestIndex_MergeKeepsExistingSpelling(t *testing.T) {
	ix := &Index{Engines: map[string]string{"Loco": "/t/loco.eng"}}
	ix.Merge(&Index{
		Engines: map[string]string{"LOCO": "/u/loco.eng", "Shunter": "/t/shunter.eng"},
		Wagons:  map[string]string{"Coach": "/t/coach.wag"},
	})

	assert.Equal(t, map[string]string{"Loco": "/t/loco.eng", "Shunter": "/t/shunter.eng"}, ix.Engines)
	assert.Equal(t, map[string]string{"Coach": "/t/coach.wag"}, ix.Wagons)

	clone := ix.Clone()
	clone.Wagons["Box"] = "/t/box.wag"
	assert.NotContains(t, ix.Wagons, "Box")
}
