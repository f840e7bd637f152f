// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package candidate

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Tool identifies the annotation tool that produced a prediction file.  The
// tool fixes the input grammar and the polarity of the metric.
type Tool int

const (
	// HMMER predictions carry an e-value; lower is better.
	HMMER Tool = iota + 1
	// RepeatMasker predictions carry a similarity score; higher is better.
	RepeatMasker
)

// String returns the fixed token used for t in file names and flags.
func (t Tool) String() string {
	switch t {
	case HMMER:
		return "hmmer"
	case RepeatMasker:
		return "repeatmasker"
	}
	return "unknown"
}

// MetricName is the key of the metric field in the tool's records and
// reports.
func (t Tool) MetricName() string {
	if t == HMMER {
		return "EVALUE"
	}
	return "SCORE"
}

// better reports whether metric a is strictly better than b.
func (t Tool) better(a, b float64) bool {
	if t == HMMER {
		return a < b
	}
	return a > b
}

// ParseTool maps a tool token to a Tool.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(s) {
	case "hmmer":
		return HMMER, nil
	case "repeatmasker":
		return RepeatMasker, nil
	}
	return 0, errors.Errorf("unsupported tool %q (want hmmer or repeatmasker)", s)
}

// ToolOpts holds the per-tool prediction filter and merge distance.
type ToolOpts struct {
	// Threshold is the metric cutoff.  HMMER keeps evalue <= Threshold;
	// RepeatMasker keeps score >= Threshold.
	Threshold float64
	// MinLength is the minimum supplied prediction length.
	MinLength int
	// MaxDistance is the largest gap between a prediction's start and the
	// open candidate's end that still extends the candidate.
	MaxDistance int
}

type Opts struct {
	Tool Tool
	// Labels are the classification labels (TE types), in processing order.
	// Each label has one input file per tool.
	Labels []string

	InputDir string
	// InputSuffix is appended to "<label>.<tool>" to form an input file
	// name.  A suffix ending in ".gz" selects gzip decoding.
	InputSuffix string
	OutputDir   string

	HMMER        ToolOpts
	RepeatMasker ToolOpts

	// OverlapFraction bounds how much of the smaller of two candidates may
	// lie outside the shared region while still being declared overlapping.
	OverlapFraction float64

	// IncludeLTRs disables LTRPattern filtering of RepeatMasker predictions.
	IncludeLTRs bool
	// LTRPattern is matched against RepeatMasker's matching repeat name.
	LTRPattern string

	// Parallelism is the maximum number of label files read, or sequence
	// groups resolved, at once.  0 = runtime.NumCPU().
	Parallelism int
}

var DefaultOpts = Opts{
	Tool:        HMMER,
	Labels:      []string{"DNA", "LINE", "LTR", "RC", "SINE"},
	InputDir:    ".",
	InputSuffix: ".predictions",
	OutputDir:   ".",
	HMMER: ToolOpts{
		Threshold:   1e-3,
		MinLength:   50,
		MaxDistance: 300,
	},
	RepeatMasker: ToolOpts{
		Threshold:   300,
		MinLength:   80,
		MaxDistance: 300,
	},
	OverlapFraction: 0.5,
	IncludeLTRs:     false,
	LTRPattern:      `(?i)LTR|ERV`,
}

// Selected returns the filter settings of the configured tool.
func (o *Opts) Selected() ToolOpts {
	if o.Tool == RepeatMasker {
		return o.RepeatMasker
	}
	return o.HMMER
}

// Validate checks o for settings no run could succeed with.
func (o *Opts) Validate() error {
	if o.Tool != HMMER && o.Tool != RepeatMasker {
		return errors.Errorf("unsupported tool %d", int(o.Tool))
	}
	if len(o.Labels) == 0 {
		return errors.New("at least one classification label is required")
	}
	seen := make(map[string]bool, len(o.Labels))
	for _, label := range o.Labels {
		if label == "" {
			return errors.New("empty classification label")
		}
		if seen[label] {
			return errors.Errorf("duplicate classification label %q", label)
		}
		seen[label] = true
	}
	if o.OverlapFraction < 0 || o.OverlapFraction > 1 {
		return errors.Errorf("overlap fraction %v outside [0, 1]", o.OverlapFraction)
	}
	to := o.Selected()
	if to.MaxDistance < 0 {
		return errors.Errorf("negative maximum distance %d", to.MaxDistance)
	}
	if o.Tool == RepeatMasker && !o.IncludeLTRs {
		if _, err := regexp.Compile(o.LTRPattern); err != nil {
			return errors.Wrapf(err, "LTR pattern %q", o.LTRPattern)
		}
	}
	return nil
}
