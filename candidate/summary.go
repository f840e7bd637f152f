// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package candidate

import (
	"io"
	"strconv"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/tecandidates/interval"
	"gonum.org/v1/gonum/stat"
)

// SequenceStats summarizes the resolution of one sequence group.
type SequenceStats struct {
	SeqID      string
	Candidates int
	Finals     int
	Eliminated int
	// CoveredBases is the number of positions covered by at least one final
	// candidate.
	CoveredBases int
	// MeanLength and SDLength describe final candidate lengths.  SDLength is
	// 0 with fewer than two finals.
	MeanLength float64
	SDLength   float64
}

// Summarize computes the stats of a resolved group.
func Summarize(g *SequenceGroup) (SequenceStats, error) {
	finals := g.Finals()
	s := SequenceStats{
		SeqID:      g.SeqID,
		Candidates: len(g.Candidates),
		Finals:     len(finals),
		Eliminated: len(g.Candidates) - len(finals),
	}
	if len(finals) == 0 {
		return s, nil
	}
	entries := make([]interval.Entry, len(finals))
	lengths := make([]float64, len(finals))
	for i, c := range finals {
		entries[i] = c.Entry()
		lengths[i] = float64(c.Length)
	}
	u, err := interval.NewUnion(entries)
	if err != nil {
		return s, err
	}
	s.CoveredBases = int(u.Covered())
	if len(lengths) == 1 {
		s.MeanLength = lengths[0]
	} else {
		s.MeanLength, s.SDLength = stat.MeanStdDev(lengths, nil)
	}
	return s, nil
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

var summaryColumns = []string{
	"#SEQUENCE", "CANDIDATES", "FINAL", "ELIMINATED", "COVERED_BASES", "MEAN_LENGTH", "SD_LENGTH",
}

// WriteSummary writes one TSV row per sequence group.
func WriteSummary(w io.Writer, stats []SequenceStats) error {
	tw := tsv.NewWriter(w)
	for _, col := range summaryColumns {
		tw.WriteString(col)
	}
	if err := tw.EndLine(); err != nil {
		return err
	}
	for _, s := range stats {
		tw.WriteString(s.SeqID)
		tw.WriteInt64(int64(s.Candidates))
		tw.WriteInt64(int64(s.Finals))
		tw.WriteInt64(int64(s.Eliminated))
		tw.WriteInt64(int64(s.CoveredBases))
		tw.WriteString(formatStat(s.MeanLength))
		tw.WriteString(formatStat(s.SDLength))
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteBED writes the final candidates of groups as BED6: 0-based half-open
// coordinates, name <label>_<index>, the best metric in the score column.
func WriteBED(w io.Writer, groups []*SequenceGroup) error {
	tw := tsv.NewWriter(w)
	for _, g := range groups {
		for _, c := range g.Finals() {
			e := c.Entry()
			tw.WriteString(g.SeqID)
			tw.WriteInt64(int64(e.Start0))
			tw.WriteInt64(int64(e.End))
			tw.WriteString(c.Label + "_" + strconv.Itoa(c.Index))
			tw.WriteString(formatMetric(c.BestMetric))
			tw.WriteString(c.Strand)
			if err := tw.EndLine(); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}
