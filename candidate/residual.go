// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package candidate

import (
	"github.com/grailbio/tecandidates/interval"
)

// ResidualOverlaps returns the pairs of surviving candidates of g that
// Compare would still resolve, i.e. the pairs Resolve's early exit skipped.
// Pairs are ordered by the position of their first member in g.  It does not
// modify g.
func ResidualOverlaps(tool Tool, g *SequenceGroup, fraction float64) ([]ResidualOverlap, error) {
	finals := g.Finals()
	if len(finals) < 2 {
		return nil, nil
	}
	var idx interval.Index
	for i, c := range finals {
		if err := idx.Insert(i, c.Entry()); err != nil {
			return nil, err
		}
	}
	var pairs []ResidualOverlap
	for i, x := range finals {
		for _, j := range idx.Overlapping(x.Entry()) {
			if j <= i {
				continue
			}
			y := finals[j]
			if out := Compare(tool, x, y, fraction); out == FirstWins || out == SecondWins {
				pairs = append(pairs, ResidualOverlap{First: x, Second: y})
			}
		}
	}
	return pairs, nil
}
