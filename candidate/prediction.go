// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package candidate

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// SequenceStartPrefix introduces a sequence block; the rest of the line
	// is the sequence id.
	SequenceStartPrefix = ">>>SEQUENCE: "
	// SequenceEnd terminates a sequence block, both in prediction files and
	// in reports.
	SequenceEnd = "//"
)

// Prediction is one raw annotation hit.  Start and End are kept exactly as
// supplied; Start <= End is not guaranteed.
type Prediction struct {
	Start  int
	End    int
	Length int
	// Metric is the e-value for HMMER, the score for RepeatMasker.
	Metric float64
	Strand string
	// RepeatName is RepeatMasker's matching repeat; empty for HMMER.
	RepeatName string
	Label      string
	// Line is the verbatim input line, echoed in reports.
	Line string
}

// LineKind classifies an input line.
type LineKind int

const (
	// Inert lines are ignored: blank, malformed, or otherwise unrecognized.
	Inert LineKind = iota
	SequenceStartLine
	SequenceEndLine
	PredictionLine
)

// ParseLine classifies line and extracts its payload: the sequence id for a
// SequenceStartLine, the prediction for a PredictionLine.  It never fails;
// lines that match neither a marker nor the tool's record grammar are Inert.
// The returned prediction's Label is left empty.
func ParseLine(tool Tool, line string) (LineKind, string, Prediction) {
	line = strings.TrimRight(line, "\r\n")
	trimmed := strings.TrimSpace(line)
	if trimmed == SequenceEnd {
		return SequenceEndLine, "", Prediction{}
	}
	if strings.HasPrefix(trimmed, SequenceStartPrefix) {
		id := strings.TrimSpace(trimmed[len(SequenceStartPrefix):])
		if id == "" {
			return Inert, "", Prediction{}
		}
		return SequenceStartLine, id, Prediction{}
	}
	p, ok := parsePrediction(tool, trimmed)
	if !ok {
		return Inert, "", Prediction{}
	}
	p.Line = line
	return PredictionLine, "", p
}

const (
	haveFrom = 1 << iota
	haveTo
	haveLength
	haveMetric
	haveStrand
	haveRepeat
)

// keyRe matches a field key.  Keys are upper case and follow either the
// start of the line or the " - " separator, so a "-" strand value followed
// by the separator is not mistaken for an empty field.
var keyRe = regexp.MustCompile(`(?:^| - )([A-Z]+):(?: |$)`)

// parsePrediction parses a " - "-joined sequence of "KEY: value" fields.
// Unknown keys are skipped.  REPEAT consumes the rest of the line, since
// repeat names are free text.
func parsePrediction(tool Tool, line string) (p Prediction, ok bool) {
	keys := keyRe.FindAllStringSubmatchIndex(line, -1)
	if len(keys) == 0 || keys[0][0] != 0 {
		return p, false
	}
	required := haveFrom | haveTo | haveLength | haveMetric | haveStrand
	if tool == RepeatMasker {
		required |= haveRepeat
	}
	metricKey := tool.MetricName()
	var (
		seen int
		err  error
	)
	for i, m := range keys {
		key := line[m[2]:m[3]]
		valueEnd := len(line)
		if i+1 < len(keys) && key != "REPEAT" {
			valueEnd = keys[i+1][0]
		}
		value := strings.TrimSpace(line[m[1]:valueEnd])
		switch key {
		case "FROM":
			p.Start, err = strconv.Atoi(value)
			seen |= haveFrom
		case "TO":
			p.End, err = strconv.Atoi(value)
			seen |= haveTo
		case "LENGTH":
			p.Length, err = strconv.Atoi(value)
			seen |= haveLength
		case metricKey:
			p.Metric, err = strconv.ParseFloat(value, 64)
			seen |= haveMetric
		case "SENSE":
			if value == "" {
				return p, false
			}
			p.Strand = value
			seen |= haveStrand
		case "REPEAT":
			if tool != RepeatMasker {
				continue
			}
			p.RepeatName = value
			seen |= haveRepeat
		}
		if err != nil {
			return p, false
		}
		if key == "REPEAT" {
			break
		}
	}
	return p, seen&required == required
}
