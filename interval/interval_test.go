package interval

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEntryFromClosed(t *testing.T) {
	require.Equal(t, Entry{Start0: 99, End: 200}, EntryFromClosed(100, 200))
	// Reversed pairs are normalized.
	require.Equal(t, Entry{Start0: 99, End: 200}, EntryFromClosed(200, 100))
	require.Equal(t, PosType(101), EntryFromClosed(100, 200).Len())
}

func TestNewUnion(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    []Entry
		covered PosType
	}{
		{
			name: "empty",
		},
		{
			name:    "merge_unsorted",
			entries: []Entry{{20, 25}, {5, 15}, {7, 17}},
			want:    []Entry{{5, 17}, {20, 25}},
			covered: 17,
		},
		{
			name:    "touching",
			entries: []Entry{{0, 10}, {10, 12}, {12, 12}},
			want:    []Entry{{0, 12}},
			covered: 12,
		},
		{
			name:    "contained",
			entries: []Entry{{0, 100}, {10, 20}, {30, 40}},
			want:    []Entry{{0, 100}},
			covered: 100,
		},
	}
	for _, tt := range tests {
		u, err := NewUnion(tt.entries)
		require.NoError(t, err, tt.name)
		require.Equal(t, len(tt.want), u.NIntervals(), tt.name)
		if len(tt.want) > 0 {
			require.Equal(t, tt.want, u.Entries(), tt.name)
		}
		require.Equal(t, tt.covered, u.Covered(), tt.name)
	}

	_, err := NewUnion([]Entry{{10, 5}})
	require.Error(t, err)
}

func TestUnionContains(t *testing.T) {
	u, err := NewUnion([]Entry{{5, 15}, {20, 25}})
	require.NoError(t, err)
	require.False(t, u.Contains(4))
	require.True(t, u.Contains(5))
	require.True(t, u.Contains(14))
	require.False(t, u.Contains(15))
	require.True(t, u.Contains(24))
	require.False(t, u.Contains(25))
}

func TestIndex(t *testing.T) {
	var x Index
	require.NoError(t, x.Insert(0, Entry{0, 100}))
	require.NoError(t, x.Insert(1, Entry{50, 150}))
	require.NoError(t, x.Insert(2, Entry{200, 300}))
	require.NoError(t, x.Insert(3, Entry{10, 20}))
	require.Equal(t, 4, x.Len())

	require.Equal(t, []int{0, 1, 3}, x.Overlapping(Entry{15, 60}))
	require.Equal(t, []int{1}, x.Overlapping(Entry{100, 200}))
	require.Equal(t, []int{2}, x.Overlapping(Entry{299, 1000}))
	require.Empty(t, x.Overlapping(Entry{300, 1000}))
	require.Empty(t, x.Overlapping(Entry{40, 40}))
}
