package candidate

import (
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func newTestCandidate(start, end int, metric float64, strand, label string) *Candidate {
	return &Candidate{
		SeqID:      "seq1",
		Label:      label,
		Strand:     strand,
		Start:      start,
		End:        end,
		Length:     end - start + 1,
		BestMetric: metric,
	}
}

func eliminated(cands []*Candidate) []bool {
	e := make([]bool, len(cands))
	for i, c := range cands {
		e[i] = c.Eliminated
	}
	return e
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name       string
		xs, xe     int
		ys, ye     int
		fraction   float64
		overlapped bool
	}{
		{"start_within_fraction", 100, 200, 150, 250, 0.5, true},
		{"start_outside_fraction", 100, 200, 160, 260, 0.5, false},
		{"end_within_fraction", 100, 300, 180, 310, 0.1, true},
		{"contained", 100, 1000, 400, 500, 0, true},
		{"containing", 400, 500, 100, 1000, 0, true},
		{"identical", 100, 200, 100, 200, 0, true},
		{"disjoint", 100, 200, 400, 500, 0.5, false},
		{"touching", 100, 200, 200, 300, 1, false},
	}
	for _, tt := range tests {
		x := newTestCandidate(tt.xs, tt.xe, 0, "+", "DNA")
		y := newTestCandidate(tt.ys, tt.ye, 0, "+", "DNA")
		expect.EQ(t, Overlaps(x, y, tt.fraction), tt.overlapped, tt.name)
		expect.EQ(t, Overlaps(y, x, tt.fraction), tt.overlapped, tt.name)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		tool Tool
		x, y *Candidate
		want Outcome
	}{
		{
			name: "lower_evalue_wins",
			tool: HMMER,
			x:    newTestCandidate(100, 200, 1e-5, "+", "DNA"),
			y:    newTestCandidate(150, 250, 1e-3, "+", "LINE"),
			want: FirstWins,
		},
		{
			name: "lower_evalue_wins_second",
			tool: HMMER,
			x:    newTestCandidate(100, 200, 1e-3, "+", "DNA"),
			y:    newTestCandidate(150, 250, 1e-5, "+", "LINE"),
			want: SecondWins,
		},
		{
			name: "score_tie_longer_wins",
			tool: RepeatMasker,
			x:    newTestCandidate(100, 179, 300, "C", "DNA"),
			y:    newTestCandidate(110, 169, 300, "C", "LINE"),
			want: FirstWins,
		},
		{
			name: "score_tie_longer_second_wins",
			tool: RepeatMasker,
			x:    newTestCandidate(100, 159, 300, "C", "DNA"),
			y:    newTestCandidate(100, 179, 300, "C", "LINE"),
			want: SecondWins,
		},
		{
			name: "higher_score_wins_over_length",
			tool: RepeatMasker,
			x:    newTestCandidate(100, 159, 400, "+", "DNA"),
			y:    newTestCandidate(100, 179, 300, "+", "LINE"),
			want: FirstWins,
		},
		{
			name: "full_tie_first_wins",
			tool: HMMER,
			x:    newTestCandidate(100, 200, 1e-5, "+", "DNA"),
			y:    newTestCandidate(100, 200, 1e-5, "+", "LINE"),
			want: FirstWins,
		},
		{
			name: "strands_differ",
			tool: HMMER,
			x:    newTestCandidate(100, 200, 1e-5, "+", "DNA"),
			y:    newTestCandidate(120, 220, 1e-9, "-", "LINE"),
			want: StrandsDiffer,
		},
		{
			name: "gap_too_large",
			tool: HMMER,
			x:    newTestCandidate(100, 200, 1e-5, "+", "DNA"),
			y:    newTestCandidate(400, 500, 1e-9, "+", "LINE"),
			want: NoOverlap,
		},
	}
	for _, tt := range tests {
		got := Compare(tt.tool, tt.x, tt.y, 0.5)
		expect.EQ(t, got, tt.want, tt.name)
	}
}

func TestResolve(t *testing.T) {
	t.Run("overlap", func(t *testing.T) {
		cands := []*Candidate{
			newTestCandidate(100, 200, 1e-5, "+", "DNA"),
			newTestCandidate(150, 250, 1e-3, "+", "LINE"),
		}
		expect.EQ(t, Resolve(HMMER, cands, 0.5), 1)
		expect.EQ(t, eliminated(cands), []bool{false, true})
		// Resolving the survivors again changes nothing.
		g := &SequenceGroup{SeqID: "seq1", Candidates: cands}
		expect.EQ(t, Resolve(HMMER, g.Finals(), 0.5), 0)
	})

	t.Run("strands_differ_keeps_scanning", func(t *testing.T) {
		cands := []*Candidate{
			newTestCandidate(100, 200, 1e-5, "+", "DNA"),
			newTestCandidate(120, 220, 1e-9, "-", "LINE"),
			newTestCandidate(130, 210, 1e-3, "+", "SINE"),
		}
		expect.EQ(t, Resolve(HMMER, cands, 0.5), 1)
		expect.EQ(t, eliminated(cands), []bool{false, false, true})
	})

	t.Run("winner_eliminates_several", func(t *testing.T) {
		cands := []*Candidate{
			newTestCandidate(100, 1000, 1e-9, "+", "DNA"),
			newTestCandidate(150, 400, 1e-5, "+", "LINE"),
			newTestCandidate(200, 900, 1e-6, "+", "SINE"),
		}
		expect.EQ(t, Resolve(HMMER, cands, 0.5), 2)
		expect.EQ(t, eliminated(cands), []bool{false, true, true})
	})

	t.Run("loser_stops_its_scan", func(t *testing.T) {
		cands := []*Candidate{
			newTestCandidate(100, 200, 1e-3, "+", "DNA"),
			newTestCandidate(120, 220, 1e-6, "+", "LINE"),
			newTestCandidate(130, 230, 1e-4, "+", "SINE"),
		}
		// The first loses to the second, which then eliminates the third.
		expect.EQ(t, Resolve(HMMER, cands, 0.5), 2)
		expect.EQ(t, eliminated(cands), []bool{true, false, true})
	})

	t.Run("no_overlap_stops_scan", func(t *testing.T) {
		cands := []*Candidate{
			newTestCandidate(100, 200, 1e-5, "+", "DNA"),
			newTestCandidate(400, 500, 1e-6, "+", "LINE"),
		}
		expect.EQ(t, Resolve(HMMER, cands, 0.5), 0)
		expect.EQ(t, eliminated(cands), []bool{false, false})
	})

	t.Run("equal_starts_in_either_order", func(t *testing.T) {
		// Only a full tie depends on the order of equal starts.
		short := newTestCandidate(100, 200, 300, "+", "DNA")
		long := newTestCandidate(100, 300, 300, "+", "LINE")
		expect.EQ(t, Resolve(RepeatMasker, []*Candidate{short, long}, 0.5), 1)
		expect.EQ(t, []bool{short.Eliminated, long.Eliminated}, []bool{true, false})

		short = newTestCandidate(100, 200, 300, "+", "DNA")
		long = newTestCandidate(100, 300, 300, "+", "LINE")
		expect.EQ(t, Resolve(RepeatMasker, []*Candidate{long, short}, 0.5), 1)
		expect.EQ(t, []bool{short.Eliminated, long.Eliminated}, []bool{true, false})
	})

	t.Run("full_tie_keeps_first", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			dna := newTestCandidate(100, 200, 1e-5, "+", "DNA")
			line := newTestCandidate(100, 200, 1e-5, "+", "LINE")
			Resolve(HMMER, []*Candidate{dna, line}, 0.5)
			expect.EQ(t, []bool{dna.Eliminated, line.Eliminated}, []bool{false, true})

			dna = newTestCandidate(100, 200, 1e-5, "+", "DNA")
			line = newTestCandidate(100, 200, 1e-5, "+", "LINE")
			Resolve(HMMER, []*Candidate{line, dna}, 0.5)
			expect.EQ(t, []bool{dna.Eliminated, line.Eliminated}, []bool{true, false})
		}
	})

	t.Run("survivors_do_not_compete", func(t *testing.T) {
		cands := []*Candidate{
			newTestCandidate(100, 300, 1e-6, "+", "DNA"),
			newTestCandidate(120, 260, 1e-4, "-", "LINE"),
			newTestCandidate(150, 350, 1e-5, "+", "LINE"),
			newTestCandidate(200, 500, 1e-7, "-", "SINE"),
			newTestCandidate(400, 600, 1e-3, "+", "SINE"),
			newTestCandidate(450, 550, 1e-8, "-", "DNA"),
			newTestCandidate(1000, 1100, 1e-5, "+", "RC"),
		}
		expect.EQ(t, Resolve(HMMER, cands, 0.5), 2)
		expect.EQ(t, eliminated(cands), []bool{false, false, true, true, false, false, false})

		g := &SequenceGroup{SeqID: "seq1", Candidates: cands}
		finals := g.Finals()
		for i, x := range finals {
			for _, y := range finals[i+1:] {
				if x.Strand == y.Strand {
					expect.False(t, Overlaps(x, y, 0.5), x.Label, y.Label)
				}
			}
		}
		pairs, err := ResidualOverlaps(HMMER, g, 0.5)
		assert.NoError(t, err)
		expect.EQ(t, len(pairs), 0)
	})
}

func TestResidualOverlaps(t *testing.T) {
	// a and b do not compete, so a's scan stops before reaching c, which a
	// contains.  b then loses to c and both a and c survive.
	a := newTestCandidate(100, 1000, 1e-10, "+", "DNA")
	b := newTestCandidate(700, 3000, 1e-5, "+", "LINE")
	c := newTestCandidate(800, 900, 1e-8, "+", "SINE")
	g := &SequenceGroup{SeqID: "seq1", Candidates: []*Candidate{a, b, c}}
	expect.EQ(t, Resolve(HMMER, g.Candidates, 0.5), 1)
	expect.EQ(t, eliminated(g.Candidates), []bool{false, true, false})

	pairs, err := ResidualOverlaps(HMMER, g, 0.5)
	assert.NoError(t, err)
	assert.EQ(t, len(pairs), 1)
	expect.True(t, pairs[0].First == a)
	expect.True(t, pairs[0].Second == c)

	// With b on the other strand, a's scan reaches c and nothing is left over.
	a = newTestCandidate(100, 1000, 1e-10, "+", "DNA")
	b = newTestCandidate(700, 3000, 1e-5, "-", "LINE")
	c = newTestCandidate(800, 900, 1e-8, "+", "SINE")
	g = &SequenceGroup{SeqID: "seq1", Candidates: []*Candidate{a, b, c}}
	expect.EQ(t, Resolve(HMMER, g.Candidates, 0.5), 1)
	expect.EQ(t, eliminated(g.Candidates), []bool{false, false, true})
	pairs, err = ResidualOverlaps(HMMER, g, 0.5)
	assert.NoError(t, err)
	expect.EQ(t, len(pairs), 0)
}
