// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package candidate

// Outcome is the result of comparing two candidates of one sequence.
type Outcome int

const (
	// StrandsDiffer: candidates on different strands never compete.
	StrandsDiffer Outcome = iota
	// NoOverlap: same strand, but not overlapping enough to compete.
	NoOverlap
	// FirstWins: the candidates overlap and the earlier one survives.
	FirstWins
	// SecondWins: the candidates overlap and the later one survives.
	SecondWins
)

func (o Outcome) String() string {
	switch o {
	case StrandsDiffer:
		return "strands-differ"
	case NoOverlap:
		return "no-overlap"
	case FirstWins:
		return "first-wins"
	case SecondWins:
		return "second-wins"
	}
	return "unknown"
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Overlaps reports whether same-strand candidates x and y compete for the
// same region.  They must intersect, and then either one contains the other
// or their starts or ends differ by at most fraction times the smaller
// length.
func Overlaps(x, y *Candidate, fraction float64) bool {
	if !(x.End > y.Start && y.End > x.Start) {
		return false
	}
	smaller := x.Length
	if y.Length < smaller {
		smaller = y.Length
	}
	maxOutside := fraction * float64(smaller)
	switch {
	case x.Start <= y.Start && y.End <= x.End:
		return true
	case y.Start <= x.Start && x.End <= y.End:
		return true
	case float64(absInt(x.Start-y.Start)) <= maxOutside:
		return true
	case float64(absInt(x.End-y.End)) <= maxOutside:
		return true
	}
	return false
}

// Compare decides between candidate x and a later (by start) candidate y.
// Of two overlapping candidates the one with the strictly better metric
// wins; then the longer one; then x.
func Compare(tool Tool, x, y *Candidate, fraction float64) Outcome {
	if x.Strand != y.Strand {
		return StrandsDiffer
	}
	if !Overlaps(x, y, fraction) {
		return NoOverlap
	}
	switch {
	case tool.better(x.BestMetric, y.BestMetric):
		return FirstWins
	case tool.better(y.BestMetric, x.BestMetric):
		return SecondWins
	case y.Length > x.Length:
		return SecondWins
	}
	return FirstWins
}

// Resolve flags the losers of every competing pair in cands, which must be
// sorted by Start, and returns the number of candidates eliminated.
//
// The scan is greedy: each surviving candidate i is compared with the
// candidates after it until i loses, or until a same-strand candidate does
// not overlap it.  The second exit assumes that no later candidate can
// overlap i either, which holds for the start/end-distance clauses but not
// always for containment by a candidate with a far-reaching end; see
// ResidualOverlaps.  Already-eliminated candidates are skipped.
func Resolve(tool Tool, cands []*Candidate, fraction float64) int {
	n := 0
	for i, ci := range cands {
		if ci.Eliminated {
			continue
		}
	scan:
		for _, cj := range cands[i+1:] {
			if cj.Eliminated {
				continue
			}
			switch Compare(tool, ci, cj, fraction) {
			case FirstWins:
				cj.Eliminated = true
				n++
			case SecondWins:
				ci.Eliminated = true
				n++
				break scan
			case StrandsDiffer:
			case NoOverlap:
				break scan
			}
		}
	}
	return n
}

// ResidualOverlap is a pair of surviving candidates that still compete
// after Resolve.
type ResidualOverlap struct {
	First, Second *Candidate
}
