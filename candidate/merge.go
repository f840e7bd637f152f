// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package candidate

import (
	"sort"
)

// SequenceGroup pools the candidates of every label for one sequence.
type SequenceGroup struct {
	SeqID string
	// Candidates are sorted by Start.  Candidates with equal starts keep the
	// order in which their labels were processed.
	Candidates []*Candidate
}

// Finals returns the candidates that survived resolution, in sorted order.
func (g *SequenceGroup) Finals() []*Candidate {
	var finals []*Candidate
	for _, c := range g.Candidates {
		if !c.Eliminated {
			finals = append(finals, c)
		}
	}
	return finals
}

// MergeLabels builds one SequenceGroup per sequence id across labels.  labels
// must be in processing order.  Groups are returned in order of first
// appearance; sequences without any candidate are dropped.
func MergeLabels(labels []*LabelCandidates) []*SequenceGroup {
	var (
		groups []*SequenceGroup
		byID   = map[string]*SequenceGroup{}
	)
	for _, lc := range labels {
		for _, seqID := range lc.SeqIDs {
			cands := lc.BySeq[seqID]
			if len(cands) == 0 {
				continue
			}
			g, ok := byID[seqID]
			if !ok {
				g = &SequenceGroup{SeqID: seqID}
				byID[seqID] = g
				groups = append(groups, g)
			}
			g.Candidates = append(g.Candidates, cands...)
		}
	}
	for _, g := range groups {
		sort.SliceStable(g.Candidates, func(i, j int) bool {
			return g.Candidates[i].Start < g.Candidates[j].Start
		})
	}
	return groups
}
