// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package candidate

import (
	"github.com/grailbio/tecandidates/interval"
)

// Candidate is a merged run of same-strand predictions of one label on one
// sequence.
type Candidate struct {
	SeqID  string
	Label  string
	Strand string
	// Start and End are the minimum member start and the maximum member end
	// seen so far.
	Start int
	End   int
	// BestMetric is the best member metric under the tool's polarity.
	BestMetric float64
	// Length is End - Start + 1, not the sum of member lengths.
	Length  int
	Members []Prediction
	// Index is the 1-based rank of the candidate among all candidates of its
	// label, assigned when the candidate is finalized.
	Index int
	// Eliminated is set by Resolve when another candidate wins an overlap.
	Eliminated bool
}

func newCandidate(seqID string, p Prediction) *Candidate {
	c := &Candidate{
		SeqID:      seqID,
		Label:      p.Label,
		Strand:     p.Strand,
		Start:      p.Start,
		End:        p.End,
		BestMetric: p.Metric,
		Members:    []Prediction{p},
	}
	c.Length = c.End - c.Start + 1
	return c
}

// extend absorbs p into c.
func (c *Candidate) extend(tool Tool, p Prediction) {
	if p.Start < c.Start {
		c.Start = p.Start
	}
	if p.End > c.End {
		c.End = p.End
	}
	if tool.better(p.Metric, c.BestMetric) {
		c.BestMetric = p.Metric
	}
	c.Length = c.End - c.Start + 1
	c.Members = append(c.Members, p)
}

// Entry returns the 0-based half-open interval spanned by c.
func (c *Candidate) Entry() interval.Entry {
	return interval.EntryFromClosed(c.Start, c.End)
}
