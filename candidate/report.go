// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package candidate

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Report layout.  Both reports open with "# " header lines describing the
// thresholds in effect, followed by a blank line and one block per sequence:
//
//   >>>SEQUENCE: <id>
//   <candidate blocks, each followed by a blank line>
//   //
//   <blank line>
//
// A label report candidate block is the candidate line followed by the
// member prediction lines verbatim.  A final report candidate block prefixes
// that with a CANDIDATE_<k> line carrying the final rank.
const (
	labelCandidatePrefix = "Candidate_"
	finalCandidatePrefix = "CANDIDATE_"
	headerPrefix         = "# "
)

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteHeader writes the report header for opts.  label selects a label
// report header; an empty label selects the final report header.
func WriteHeader(w io.Writer, opts *Opts, label string) error {
	bw := bufio.NewWriter(w)
	writeHeader(bw, opts, label)
	return bw.Flush()
}

func writeHeader(w *bufio.Writer, opts *Opts, label string) {
	to := opts.Selected()
	fmt.Fprintf(w, "%sTOOL: %s\n", headerPrefix, opts.Tool)
	if label != "" {
		fmt.Fprintf(w, "%sCLASSIFICATION: %s\n", headerPrefix, label)
	} else {
		fmt.Fprintf(w, "%sCLASSIFICATIONS: %s\n", headerPrefix, strings.Join(opts.Labels, ","))
	}
	cmp := "<="
	if opts.Tool == RepeatMasker {
		cmp = ">="
	}
	fmt.Fprintf(w, "%s%s THRESHOLD: %s %s\n", headerPrefix, opts.Tool.MetricName(), cmp, formatMetric(to.Threshold))
	fmt.Fprintf(w, "%sMINIMUM LENGTH: %d\n", headerPrefix, to.MinLength)
	fmt.Fprintf(w, "%sMAXIMUM DISTANCE: %d\n", headerPrefix, to.MaxDistance)
	if opts.Tool == RepeatMasker {
		fmt.Fprintf(w, "%sINCLUDE LTRS: %t\n", headerPrefix, opts.IncludeLTRs)
		if !opts.IncludeLTRs {
			fmt.Fprintf(w, "%sLTR PATTERN: %s\n", headerPrefix, opts.LTRPattern)
		}
	}
	if label == "" {
		fmt.Fprintf(w, "%sOVERLAP FRACTION: %s\n", headerPrefix, formatMetric(opts.OverlapFraction))
	}
	w.WriteByte('\n')
}

// CandidateLine renders the label report line of c.
func CandidateLine(tool Tool, c *Candidate) string {
	return fmt.Sprintf("%s%d - FROM: %d - TO: %d - LENGTH: %d - %s: %s - SENSE: %s - CLASSIFICATION: %s",
		labelCandidatePrefix, c.Index, c.Start, c.End, c.Length,
		tool.MetricName(), formatMetric(c.BestMetric), c.Strand, c.Label)
}

func writeCandidateBody(w *bufio.Writer, tool Tool, c *Candidate) {
	w.WriteString(CandidateLine(tool, c))
	w.WriteByte('\n')
	for _, p := range c.Members {
		w.WriteString(p.Line)
		w.WriteByte('\n')
	}
	w.WriteByte('\n')
}

func writeSequenceEnd(w *bufio.Writer) {
	w.WriteString(SequenceEnd + "\n\n")
}

// WriteLabelReport writes the candidates of one label, every sequence with
// at least one candidate in input order.
func WriteLabelReport(w io.Writer, opts *Opts, lc *LabelCandidates) error {
	bw := bufio.NewWriter(w)
	writeHeader(bw, opts, lc.Label)
	for _, seqID := range lc.SeqIDs {
		cands := lc.BySeq[seqID]
		if len(cands) == 0 {
			continue
		}
		bw.WriteString(SequenceStartPrefix + seqID + "\n")
		for _, c := range cands {
			writeCandidateBody(bw, opts.Tool, c)
		}
		writeSequenceEnd(bw)
	}
	return bw.Flush()
}

// WriteFinalReport writes the surviving candidates of resolved groups,
// numbered 1..K within each sequence.  Groups without survivors are omitted.
func WriteFinalReport(w io.Writer, opts *Opts, groups []*SequenceGroup) error {
	bw := bufio.NewWriter(w)
	writeHeader(bw, opts, "")
	for _, g := range groups {
		finals := g.Finals()
		if len(finals) == 0 {
			continue
		}
		bw.WriteString(SequenceStartPrefix + g.SeqID + "\n")
		for k, c := range finals {
			fmt.Fprintf(bw, "%s%d - FROM: %d - TO: %d - LENGTH: %d - SENSE: %s\n",
				finalCandidatePrefix, k+1, c.Start, c.End, c.Length, c.Strand)
			writeCandidateBody(bw, opts.Tool, c)
		}
		writeSequenceEnd(bw)
	}
	return bw.Flush()
}

// FinalCandidate is one candidate read back from a final report.
type FinalCandidate struct {
	Rank   int
	Start  int
	End    int
	Length int
	Strand string
	Label  string
	// Index is the candidate's index within its label report.
	Index  int
	Metric float64
	// Members are the member prediction lines, verbatim.
	Members []string
}

// FinalSequence is one sequence block of a final report.
type FinalSequence struct {
	SeqID      string
	Candidates []FinalCandidate
}

// reportFields splits a report line into its leading token and its
// "KEY: value" fields.
func reportFields(line string) (string, map[string]string) {
	keys := keyRe.FindAllStringSubmatchIndex(line, -1)
	if len(keys) == 0 {
		return line, nil
	}
	fields := make(map[string]string, len(keys))
	for i, m := range keys {
		valueEnd := len(line)
		if i+1 < len(keys) {
			valueEnd = keys[i+1][0]
		}
		fields[line[m[2]:m[3]]] = strings.TrimSpace(line[m[1]:valueEnd])
	}
	return line[:keys[0][0]], fields
}

func atoiField(fields map[string]string, key string, lineNo int) (int, error) {
	v, err := strconv.Atoi(fields[key])
	if err != nil {
		return 0, fmt.Errorf("final report line %d: bad %s: %v", lineNo, key, err)
	}
	return v, nil
}

// ReadFinalReport parses a report written by WriteFinalReport.  Unlike the
// prediction parser it is strict: a report is produced by this package, so
// any deviation is an error.
func ReadFinalReport(r io.Reader, tool Tool) ([]FinalSequence, error) {
	var (
		seqs    []FinalSequence
		cur     *FinalSequence
		cand    *FinalCandidate
		sawBody bool // true once cand's Candidate_ line has been read
		lineNo  int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), maxLineLen)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		switch {
		case cur == nil && (line == "" || strings.HasPrefix(line, headerPrefix)):
		case cur == nil && strings.HasPrefix(line, SequenceStartPrefix):
			seqs = append(seqs, FinalSequence{SeqID: line[len(SequenceStartPrefix):]})
			cur = &seqs[len(seqs)-1]
		case cur == nil:
			return nil, fmt.Errorf("final report line %d: unexpected %q outside a sequence block", lineNo, line)
		case line == SequenceEnd:
			cur, cand = nil, nil
		case strings.HasPrefix(line, finalCandidatePrefix):
			head, fields := reportFields(line)
			var (
				fc  FinalCandidate
				err error
			)
			if fc.Rank, err = strconv.Atoi(head[len(finalCandidatePrefix):]); err != nil {
				return nil, fmt.Errorf("final report line %d: bad rank: %v", lineNo, err)
			}
			if fc.Start, err = atoiField(fields, "FROM", lineNo); err != nil {
				return nil, err
			}
			if fc.End, err = atoiField(fields, "TO", lineNo); err != nil {
				return nil, err
			}
			if fc.Length, err = atoiField(fields, "LENGTH", lineNo); err != nil {
				return nil, err
			}
			fc.Strand = fields["SENSE"]
			cur.Candidates = append(cur.Candidates, fc)
			cand = &cur.Candidates[len(cur.Candidates)-1]
			sawBody = false
		case cand != nil && !sawBody:
			head, fields := reportFields(line)
			if !strings.HasPrefix(head, labelCandidatePrefix) {
				return nil, fmt.Errorf("final report line %d: want %s line, got %q", lineNo, labelCandidatePrefix, line)
			}
			var err error
			if cand.Index, err = strconv.Atoi(head[len(labelCandidatePrefix):]); err != nil {
				return nil, fmt.Errorf("final report line %d: bad index: %v", lineNo, err)
			}
			if cand.Metric, err = strconv.ParseFloat(fields[tool.MetricName()], 64); err != nil {
				return nil, fmt.Errorf("final report line %d: bad %s: %v", lineNo, tool.MetricName(), err)
			}
			cand.Label = fields["CLASSIFICATION"]
			sawBody = true
		case line == "":
			cand = nil
		case cand != nil:
			cand.Members = append(cand.Members, line)
		default:
			return nil, fmt.Errorf("final report line %d: unexpected %q", lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if cur != nil {
		return nil, fmt.Errorf("final report: sequence %s not terminated", cur.SeqID)
	}
	return seqs, nil
}
