// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package candidate

import (
	"bufio"
	"context"
	"io"
	"path/filepath"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
)

// maxLineLen bounds a single input line.  Longer prediction lines are inert.
const maxLineLen = 1 << 20

// InputPath returns the prediction file of label for the configured tool.
func InputPath(opts *Opts, label string) string {
	return filepath.Join(opts.InputDir, label+"."+opts.Tool.String()+opts.InputSuffix)
}

// forEachLine calls fn with every line of r, without the line terminator.
// Lines longer than maxLineLen are dropped and counted instead.
func forEachLine(r io.Reader, fn func(line string)) (nLong int, err error) {
	br := bufio.NewReaderSize(r, 64<<10)
	var (
		line    []byte
		tooLong bool
	)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			return nLong, nil
		}
		if err != nil {
			return nLong, err
		}
		if !tooLong {
			line = append(line, chunk...)
			if len(line) > maxLineLen {
				tooLong = true
			}
		}
		if isPrefix {
			continue
		}
		if tooLong {
			nLong++
		} else {
			fn(string(line))
		}
		line, tooLong = line[:0], false
	}
}

// ScanLabel reads one label's prediction stream and builds its candidates.
// Malformed or oversized lines, and predictions outside a sequence block,
// are ignored.
func ScanLabel(r io.Reader, opts *Opts, label string) (*LabelCandidates, error) {
	b := NewBuilder(opts, label)
	var (
		inSeq  bool
		nInert int
	)
	nLong, err := forEachLine(r, func(line string) {
		kind, seqID, p := ParseLine(opts.Tool, line)
		switch kind {
		case SequenceStartLine:
			b.StartSequence(seqID)
			inSeq = true
		case SequenceEndLine:
			b.EndSequence()
			inSeq = false
		case PredictionLine:
			if !inSeq {
				nInert++
				return
			}
			b.Add(p)
		default:
			if line != "" {
				nInert++
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if nLong > 0 {
		log.Debug.Printf("%s: skipped %d line(s) longer than %d bytes", label, nLong, maxLineLen)
	}
	lc := b.Finish()
	lc.NInert = nInert + nLong
	return lc, nil
}

// ReadLabel opens the label's prediction file and scans it.  Any failure to
// open or read the file is returned with the path attached; a missing label
// is never skipped.
func ReadLabel(ctx context.Context, opts *Opts, label string) (lc *LabelCandidates, err error) {
	path := InputPath(opts, label)
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open predictions:", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	r := io.Reader(in.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		gz, gerr := gzip.NewReader(r)
		if gerr != nil {
			return nil, errors.E(gerr, "open predictions:", path)
		}
		defer gz.Close() // nolint: errcheck
		r = gz
	}
	if lc, err = ScanLabel(r, opts, label); err != nil {
		return nil, errors.E(err, "read predictions:", path)
	}
	log.Debug.Printf("%s: %d sequence(s), %d candidate(s), %d filtered prediction(s), %d inert line(s)",
		path, len(lc.SeqIDs), lc.NCandidates(), lc.NFiltered, lc.NInert)
	return lc, nil
}
