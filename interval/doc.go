// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package interval implements the interval primitives used when consolidating
  annotation candidates along a sequence.

  Union is an interval-union (overlapping intervals are merged, not tracked
  separately) stored as a sorted endpoint sequence, which is what coverage
  summaries need.  Index keeps intervals separate, backed by an interval
  tree, for the cases where individual overlapping entries must be
  recovered.

  All coordinates are 0-based and half-open.  Callers with 1-based closed
  [from, to] coordinates should use EntryFromClosed.
*/
package interval
