package fluidsim

import "testing"

func TestBitonicStagesCount(t *testing.T) {
	stages := bitonicStages(16)
	// log2(16)=4, so 4*(4+1)/2 = 10 stages.
	if len(stages) != 10 {
		t.Fatalf("expected 10 stages for n=16, got %d", len(stages))
	}
}

func TestBitonicStagesOrderingWithinEachK(t *testing.T) {
	stages := bitonicStages(16)
	// j must strictly halve down to 1 within each k block, and k must be
	// non-decreasing across the whole sequence.
	prevK := uint32(0)
	prevJ := uint32(0)
	for i, s := range stages {
		j, k := s[0], s[1]
		if k < prevK {
			t.Fatalf("stage %d: k decreased from %d to %d", i, prevK, k)
		}
		if j == 0 || j > k/2 {
			t.Fatalf("stage %d: j=%d out of range for k=%d", i, j, k)
		}
		if k == prevK && j != prevJ/2 {
			t.Fatalf("stage %d: j=%d does not halve previous j=%d within k=%d", i, j, prevJ, k)
		}
		if k != prevK && (j != k/2 || (prevK != 0 && prevJ != 1)) {
			t.Fatalf("stage %d: k block %d must start at j=k/2 after the previous block ended at j=1 (j=%d, previous j=%d)", i, k, j, prevJ)
		}
		prevK = k
		prevJ = j
	}
	if prevJ != 1 {
		t.Fatalf("last k block ended at j=%d, expected 1", prevJ)
	}
}

func TestBitonicStagesPowerOfTwoSizes(t *testing.T) {
	for _, n := range []uint32{2, 4, 8, 16384} {
		stages := bitonicStages(n)
		if len(stages) == 0 {
			t.Fatalf("expected stages for n=%d", n)
		}
		last := stages[len(stages)-1]
		if last[1] != n {
			t.Fatalf("expected final k to equal n=%d, got %d", n, last[1])
		}
	}
}

func TestSortParamsStructToBytesRoundTrips(t *testing.T) {
	p := sortParams{J: 4, K: 8, N: N}
	b := structToBytes(p)
	if len(b) != 16 {
		t.Fatalf("expected 16-byte sortParams, got %d bytes", len(b))
	}
}
