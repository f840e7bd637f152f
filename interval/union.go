// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"fmt"
	"sort"
)

// PosType is the coordinate type.  Annotation coordinates are not bound by
// the BAM int32 limit, so this is a plain int.
type PosType int

// Entry represents a single interval, with 0-based coordinates.
type Entry struct {
	Start0 PosType
	End    PosType
}

// EntryFromClosed converts a 1-based closed [from, to] pair to an Entry.  The
// pair is not required to be ordered; annotation tools occasionally report
// reverse-strand hits as (to, from).
func EntryFromClosed(from, to int) Entry {
	if from > to {
		from, to = to, from
	}
	return Entry{Start0: PosType(from - 1), End: PosType(to)}
}

// Len returns the number of positions covered by e.
func (e Entry) Len() PosType {
	return e.End - e.Start0
}

// searchPosType returns the index of x in a[], or the position where x would
// be inserted if x isn't in a (this could be len(a)).  It's exactly the same
// as sort.SearchInts(), except for PosType.
func searchPosType(a []PosType, x PosType) int {
	return sort.Search(len(a), func(i int) bool { return a[i] >= x })
}

// Union is an interval-union represented as a length-2N sequence of
// endpoints, where the start position of interval #k (numbering from zero)
// is in element [2k] and the end position is in element [2k+1], and the
// intervals are stored in increasing order.  Touching intervals are merged.
type Union struct {
	endpoints []PosType
}

// NewUnion builds a Union from entries in any order.  Empty entries are
// skipped; inverted ones are an error.
func NewUnion(entries []Entry) (Union, error) {
	sorted := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.End < e.Start0 {
			return Union{}, fmt.Errorf("interval.NewUnion: invalid coordinate pair [%d, %d)", e.Start0, e.End)
		}
		if e.End == e.Start0 {
			continue
		}
		sorted = append(sorted, e)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start0 < sorted[j].Start0
	})
	var u Union
	if len(sorted) == 0 {
		return u, nil
	}
	prevStart, prevEnd := sorted[0].Start0, sorted[0].End
	for _, e := range sorted[1:] {
		if e.Start0 > prevEnd {
			// New interval doesn't overlap previous one, so we can save the
			// previous one.
			u.endpoints = append(u.endpoints, prevStart, prevEnd)
			prevStart, prevEnd = e.Start0, e.End
			continue
		}
		// Intervals overlap, merge them.
		if e.End > prevEnd {
			prevEnd = e.End
		}
	}
	u.endpoints = append(u.endpoints, prevStart, prevEnd)
	return u, nil
}

// NIntervals returns the number of disjoint intervals in the union.
func (u Union) NIntervals() int {
	return len(u.endpoints) / 2
}

// Covered returns the total number of positions in the union.
func (u Union) Covered() PosType {
	var total PosType
	for i := 0; i < len(u.endpoints); i += 2 {
		total += u.endpoints[i+1] - u.endpoints[i]
	}
	return total
}

// Contains checks whether the (0-based) interval [pos, pos+1) is contained
// within the union.
func (u Union) Contains(pos PosType) bool {
	return searchPosType(u.endpoints, pos+1)&1 == 1
}

// Entries returns the disjoint intervals of the union in increasing order.
func (u Union) Entries() []Entry {
	entries := make([]Entry, 0, u.NIntervals())
	for i := 0; i < len(u.endpoints); i += 2 {
		entries = append(entries, Entry{Start0: u.endpoints[i], End: u.endpoints[i+1]})
	}
	return entries
}
