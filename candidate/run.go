// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package candidate

import (
	"context"
	"io"
	"path/filepath"
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// Result is everything a Run produced, in report order.
type Result struct {
	Labels []*LabelCandidates
	Groups []*SequenceGroup
	Stats  []SequenceStats
	// Residual lists surviving pairs that still compete; see
	// ResidualOverlaps.
	Residual []ResidualOverlap
}

// LabelReportPath returns the path of label's report.
func LabelReportPath(opts *Opts, label string) string {
	return filepath.Join(opts.OutputDir, label+"."+opts.Tool.String()+".candidates")
}

// FinalReportPath returns the path of the final report.
func FinalReportPath(opts *Opts) string {
	return filepath.Join(opts.OutputDir, "final."+opts.Tool.String()+".candidates")
}

// BEDPath returns the path of the final candidates BED.
func BEDPath(opts *Opts) string {
	return filepath.Join(opts.OutputDir, "final."+opts.Tool.String()+".bed")
}

// SummaryPath returns the path of the per-sequence summary TSV.
func SummaryPath(opts *Opts) string {
	return filepath.Join(opts.OutputDir, "final."+opts.Tool.String()+".summary.tsv")
}

// parallelFor runs fn(i) for i in [0, n), with at most parallelism calls in
// flight.  Job j handles i = j, j + parallelism, ...
func parallelFor(parallelism, n int, fn func(i int) error) error {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > n {
		parallelism = n
	}
	if parallelism == 0 {
		return nil
	}
	return traverse.Each(parallelism, func(jobIdx int) error {
		for i := jobIdx; i < n; i += parallelism {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeFile creates path and fills it with write.
func writeFile(ctx context.Context, path string, write func(w io.Writer) error) (err error) {
	var out file.File
	if out, err = file.Create(ctx, path); err != nil {
		return errors.E(err, "create:", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	if err = write(out.Writer(ctx)); err != nil {
		return errors.E(err, "write:", path)
	}
	return nil
}

// Run consolidates the predictions of every configured label for
// opts.Tool.  It writes one report per label, then the final report, BED
// and summary under opts.OutputDir.  If stream is non-nil, the final report
// is also copied to it.
//
// Every label file must be readable; otherwise Run fails before writing any
// final output.
func Run(ctx context.Context, opts *Opts, stream io.Writer) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	res := &Result{Labels: make([]*LabelCandidates, len(opts.Labels))}

	log.Printf("candidate.Run: reading %d label(s) for %s from %s", len(opts.Labels), opts.Tool, opts.InputDir)
	err := parallelFor(opts.Parallelism, len(opts.Labels), func(i int) error {
		lc, err := ReadLabel(ctx, opts, opts.Labels[i])
		if err != nil {
			return err
		}
		res.Labels[i] = lc
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, lc := range res.Labels {
		lc := lc
		if err := writeFile(ctx, LabelReportPath(opts, lc.Label), func(w io.Writer) error {
			return WriteLabelReport(w, opts, lc)
		}); err != nil {
			return nil, err
		}
		log.Printf("candidate.Run: %s: %d candidate(s)", lc.Label, lc.NCandidates())
	}

	res.Groups = MergeLabels(res.Labels)
	res.Stats = make([]SequenceStats, len(res.Groups))
	residual := make([][]ResidualOverlap, len(res.Groups))
	err = parallelFor(opts.Parallelism, len(res.Groups), func(i int) error {
		g := res.Groups[i]
		Resolve(opts.Tool, g.Candidates, opts.OverlapFraction)
		var err error
		if residual[i], err = ResidualOverlaps(opts.Tool, g, opts.OverlapFraction); err != nil {
			return errors.E(err, "sequence", g.SeqID)
		}
		res.Stats[i], err = Summarize(g)
		return err
	})
	if err != nil {
		return nil, err
	}
	nFinal := 0
	for i, pairs := range residual {
		nFinal += res.Stats[i].Finals
		for _, p := range pairs {
			log.Error.Printf("candidate.Run: %s: surviving candidates still overlap: %s and %s",
				res.Groups[i].SeqID, CandidateLine(opts.Tool, p.First), CandidateLine(opts.Tool, p.Second))
		}
		res.Residual = append(res.Residual, pairs...)
	}
	log.Printf("candidate.Run: %d sequence(s), %d final candidate(s)", len(res.Groups), nFinal)

	err = writeFile(ctx, FinalReportPath(opts), func(w io.Writer) error {
		if stream != nil {
			w = io.MultiWriter(w, stream)
		}
		return WriteFinalReport(w, opts, res.Groups)
	})
	if err != nil {
		return nil, err
	}
	if err = writeFile(ctx, BEDPath(opts), func(w io.Writer) error {
		return WriteBED(w, res.Groups)
	}); err != nil {
		return nil, err
	}
	if err = writeFile(ctx, SummaryPath(opts), func(w io.Writer) error {
		return WriteSummary(w, res.Stats)
	}); err != nil {
		return nil, err
	}
	return res, nil
}
