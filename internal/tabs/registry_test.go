package tabs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func windows(r *Registry) []Window {
	var out []Window
	for _, c := range r.Clients() {
		out = append(out, c.Window)
	}
	return out
}

func TestRegistryInsert(t *testing.T) {
	var r Registry
	for _, tc := range []struct {
		w     Window
		index int
		want  int
	}{
		{1, 5, 0},
		{2, 0, 0},
		{3, 1, 1},
		{4, -3, 0},
		{5, 4, 4},
	} {
		got, err := r.Insert(&Client{Window: tc.w}, tc.index)
		require.NoError(t, err, "Insert(%d, %d)", tc.w, tc.index)
		assert.Equal(t, tc.want, got, "Insert(%d, %d)", tc.w, tc.index)
	}
	assert.Equal(t, []Window{4, 2, 3, 1, 5}, windows(&r))

	_, err := r.Insert(&Client{Window: 3}, 0)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 5, r.Len())
}

func TestRegistryRemove(t *testing.T) {
	var r Registry
	for i := Window(1); i <= 3; i++ {
		r.Insert(&Client{Window: i}, r.Len())
	}

	assert.Nil(t, r.Remove(3))
	assert.Nil(t, r.Remove(-1))
	c := r.Remove(1)
	require.NotNil(t, c)
	assert.Equal(t, Window(2), c.Window)

	assert.Equal(t, []Window{1, 3}, windows(&r))
	assert.Equal(t, -1, r.Find(2))
	assert.Equal(t, 1, r.Find(3))
	assert.Nil(t, r.At(2), "At past the end")
}

func TestRegistryMoveRelative(t *testing.T) {
	tests := []struct {
		src, delta int
		want       []Window
		wantIndex  int
	}{
		{2, +1, []Window{1, 2, 4, 3}, 3},
		{3, +1, []Window{4, 1, 2, 3}, 0},
		{0, -1, []Window{2, 3, 4, 1}, 3},
		{1, -1, []Window{2, 1, 3, 4}, 0},
		{1, 4, []Window{1, 2, 3, 4}, 1},
		{0, 6, []Window{2, 3, 1, 4}, 2},
	}
	for _, tt := range tests {
		var r Registry
		for i := Window(1); i <= 4; i++ {
			r.Insert(&Client{Window: i}, r.Len())
		}
		got := r.MoveRelative(tt.src, tt.delta)
		assert.Equal(t, tt.wantIndex, got, "MoveRelative(%d, %d)", tt.src, tt.delta)
		assert.Equal(t, tt.want, windows(&r), "MoveRelative(%d, %d)", tt.src, tt.delta)
	}
}

func TestInsertIndex(t *testing.T) {
	tests := []struct {
		name                     string
		selected, size, position int
		relative                 bool
		want                     int
	}{
		{"empty absolute", NoSelection, 0, 5, false, 0},
		{"absolute zero", 2, 4, 0, false, 0},
		{"absolute middle", 0, 4, 2, false, 2},
		{"append", 1, 3, -1, false, 3},
		{"after selection", 1, 3, 1, true, 2},
		{"after last", 2, 3, 1, true, 3},
		{"before selection", 1, 3, 0, true, 1},
		{"relative underflow", 0, 3, -4, true, 0},
		{"relative on empty", NoSelection, 0, 1, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InsertIndex(tt.selected, tt.size, tt.position, tt.relative))
		})
	}
}

func TestRegistryCountsRandomOps(t *testing.T) {
	var r Registry
	rng := rand.New(rand.NewSource(7))
	inserted, removed := 0, 0

	for i := 0; i < 5000; i++ {
		w := Window(rng.Intn(64))
		if rng.Intn(2) == 0 {
			if _, err := r.Insert(&Client{Window: w}, rng.Intn(r.Len()+3)-1); err == nil {
				inserted++
			}
		} else if r.Remove(rng.Intn(r.Len()+2)-1) != nil {
			removed++
		}

		require.Equal(t, inserted-removed, r.Len(), "step %d", i)
		seen := map[Window]bool{}
		for _, c := range r.Clients() {
			require.NotNil(t, c, "step %d: hole in registry", i)
			require.False(t, seen[c.Window], "step %d: duplicate window %d", i, c.Window)
			seen[c.Window] = true
		}
	}
}

func TestTruncateTitle(t *testing.T) {
	long := ""
	for len(long) < 300 {
		long += "ä"
	}
	got := truncateTitle(long)
	assert.LessOrEqual(t, len(got), maxTitleLen)
	assert.Len(t, got, 254, "no split rune")
	assert.Equal(t, "c", Basename("a/b/c"))
	assert.Equal(t, "plain", Basename("plain"))
}
