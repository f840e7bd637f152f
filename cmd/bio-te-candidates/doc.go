// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
bio-te-candidates consolidates transposable-element predictions made by
HMMER or RepeatMasker, one prediction file per classification label, into a
single set of non-overlapping final candidates per sequence.

Input files are named <input-dir>/<label>.<tool><input-suffix>.  Outputs are
written to -output-dir:

  <label>.<tool>.candidates        candidates of each label
  final.<tool>.candidates          final candidates after overlap resolution
  final.<tool>.bed                 final candidates as BED6
  final.<tool>.summary.tsv         per-sequence counts and coverage

The final report is also written to stdout unless -quiet is given.

Sample usage:
bio-te-candidates run \
    -tool repeatmasker \
    -labels DNA,LINE,SINE \
    -input-dir predictions \
    -output-dir out
*/
package main
