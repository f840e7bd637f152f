// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package candidate consolidates transposable-element predictions into a
  single non-overlapping set of final candidates per sequence.

  Predictions come from one of two annotation tools, run once per
  classification label (TE type).  For each label, a Builder merges
  consecutive same-strand predictions that pass the tool's filter and lie
  within the tool's maximum distance into Candidates.  MergeLabels then pools
  the candidates of every label by sequence, and Resolve eliminates the
  weaker of every pair of same-strand candidates competing for the same
  region.  The survivors are the final candidates.

  Resolve is a greedy left-to-right scan over candidates sorted by start,
  with a fixed tie-break (better metric, then longer, then earlier).  It is
  not an optimal interval scheduling; downstream consumers depend on its
  exact output, so it must not be replaced by one.

  Run drives the whole pipeline for one tool and writes the reports.
*/
package candidate
