// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package candidate

import (
	"regexp"
)

// filter decides which predictions take part in aggregation.
type filter struct {
	tool  Tool
	opts  ToolOpts
	ltrRe *regexp.Regexp // nil when LTRs are included
}

// newFilter compiles the prediction filter for opts.  opts must have passed
// Validate.
func newFilter(opts *Opts) filter {
	f := filter{tool: opts.Tool, opts: opts.Selected()}
	if opts.Tool == RepeatMasker && !opts.IncludeLTRs {
		f.ltrRe = regexp.MustCompile(opts.LTRPattern)
	}
	return f
}

func (f filter) keep(p Prediction) bool {
	if p.Length < f.opts.MinLength {
		return false
	}
	if f.tool == HMMER {
		return p.Metric <= f.opts.Threshold
	}
	if p.Metric < f.opts.Threshold {
		return false
	}
	return f.ltrRe == nil || !f.ltrRe.MatchString(p.RepeatName)
}

// Builder aggregates the predictions of one label into candidates.  It is a
// two-state machine: either no candidate is open, or open accumulates the
// current run.  Predictions are fed in input order with Add; EndSequence
// marks a block boundary.  Candidate indexes run across all sequences fed to
// the same Builder.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	label  string
	filter filter
	seqID  string
	open   *Candidate
	nDone  int
	// out holds the finalized candidates of each sequence, keyed by id;
	// seqs records first-seen order.
	out  map[string][]*Candidate
	seqs []string
	// nFiltered counts predictions rejected by the filter.
	nFiltered int
}

// NewBuilder returns a Builder for label.  opts must have passed Validate.
func NewBuilder(opts *Opts, label string) *Builder {
	return &Builder{
		label:  label,
		filter: newFilter(opts),
		out:    map[string][]*Candidate{},
	}
}

// StartSequence begins the block of seqID, closing any open candidate of the
// previous block.
func (b *Builder) StartSequence(seqID string) {
	b.EndSequence()
	b.seqID = seqID
	if _, ok := b.out[seqID]; !ok {
		b.out[seqID] = nil
		b.seqs = append(b.seqs, seqID)
	}
}

// EndSequence forces finalization of the open candidate, if any.
func (b *Builder) EndSequence() {
	b.finalize()
}

// Add feeds the next prediction of the current sequence.  Filtered
// predictions leave the open candidate untouched, so the distance check
// keeps measuring from the last kept prediction.
func (b *Builder) Add(p Prediction) {
	if !b.filter.keep(p) {
		b.nFiltered++
		return
	}
	p.Label = b.label
	if b.open != nil && p.Strand == b.open.Strand && p.Start-b.open.End <= b.filter.opts.MaxDistance {
		b.open.extend(b.filter.tool, p)
		return
	}
	b.finalize()
	b.open = newCandidate(b.seqID, p)
}

func (b *Builder) finalize() {
	if b.open == nil {
		return
	}
	b.nDone++
	b.open.Index = b.nDone
	b.out[b.open.SeqID] = append(b.out[b.open.SeqID], b.open)
	b.open = nil
}

// Finish closes any open candidate and returns everything built so far.
func (b *Builder) Finish() *LabelCandidates {
	b.finalize()
	return &LabelCandidates{
		Label:     b.label,
		SeqIDs:    b.seqs,
		BySeq:     b.out,
		NFiltered: b.nFiltered,
	}
}

// LabelCandidates is the output of one Builder run.
type LabelCandidates struct {
	Label string
	// SeqIDs lists every sequence seen in the label's input, in input order,
	// including those without candidates.
	SeqIDs []string
	BySeq  map[string][]*Candidate
	// NFiltered and NInert count predictions rejected by the filter and
	// input lines ignored by the parser.
	NFiltered int
	NInert    int
}

// NCandidates returns the total number of candidates over all sequences.
func (lc *LabelCandidates) NCandidates() int {
	n := 0
	for _, cands := range lc.BySeq {
		n += len(cands)
	}
	return n
}

// BuildCandidates runs a Builder over the predictions of a single sequence.
func BuildCandidates(opts *Opts, label, seqID string, preds []Prediction) []*Candidate {
	b := NewBuilder(opts, label)
	b.StartSequence(seqID)
	for _, p := range preds {
		b.Add(p)
	}
	return b.Finish().BySeq[seqID]
}
