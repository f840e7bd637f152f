// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package interval

import (
	"sort"

	"github.com/biogo/store/interval"
)

// indexEntry adapts an Entry to the biogo interval tree.
type indexEntry struct {
	Entry
	id int
}

func (e indexEntry) Overlap(b interval.IntRange) bool {
	return int(e.End) > b.Start && int(e.Start0) < b.End
}

func (e indexEntry) ID() uintptr { return uintptr(e.id) }

func (e indexEntry) Range() interval.IntRange {
	return interval.IntRange{Start: int(e.Start0), End: int(e.End)}
}

type query Entry

func (q query) Overlap(b interval.IntRange) bool {
	return int(q.End) > b.Start && int(q.Start0) < b.End
}

// Index is a set of possibly-overlapping intervals, each tagged with a
// caller-supplied non-negative id.  Unlike Union, entries are never merged.
type Index struct {
	tree interval.IntTree
}

// Insert adds e under id.  ids must be unique within the Index.  Empty and
// inverted entries are rejected by the underlying tree.
func (x *Index) Insert(id int, e Entry) error {
	return x.tree.Insert(indexEntry{Entry: e, id: id}, false)
}

// Len returns the number of entries in the index.
func (x *Index) Len() int {
	return x.tree.Len()
}

// Overlapping returns the ids of all entries sharing at least one position
// with e, in increasing id order.
func (x *Index) Overlapping(e Entry) []int {
	if e.End <= e.Start0 {
		return nil
	}
	var ids []int
	for _, hit := range x.tree.Get(query(e)) {
		ids = append(ids, hit.(indexEntry).id)
	}
	sort.Ints(ids)
	return ids
}
