package ledger

import (
	"testing"
)

func TestComputeInitialSplit(t *testing.T) {
	// totalPrice 1000.00 -> 460.00 chef, 40.00 platform, 500.00 escrow.
	split := ComputeInitialSplit(100000)

	if split.ImmediateChefCents != 46000 {
		t.Errorf("chef share = %d, want 46000", split.ImmediateChefCents)
	}
	if split.ImmediatePlatformCents != 4000 {
		t.Errorf("platform share = %d, want 4000", split.ImmediatePlatformCents)
	}
	if split.HeldEscrowCents != 50000 {
		t.Errorf("escrow share = %d, want 50000", split.HeldEscrowCents)
	}
}

func TestComputeInitialSplitConservation(t *testing.T) {
	// The three components must sum exactly to the total for every input;
	// the escrow share absorbs any rounding residual.
	totals := []int64{0, 1, 2, 3, 49, 50, 51, 99, 100, 101, 12345, 99999, 100000, 7777777, 999999999}

	for _, total := range totals {
		split := ComputeInitialSplit(total)

		sum := split.ImmediateChefCents + split.ImmediatePlatformCents + split.HeldEscrowCents
		if sum != total {
			t.Errorf("total=%d: components sum to %d", total, sum)
		}
		if split.ImmediateChefCents < 0 || split.ImmediatePlatformCents < 0 || split.HeldEscrowCents < 0 {
			t.Errorf("total=%d: negative component in %+v", total, split)
		}
	}
}

func TestComputeInitialSplitResidualGoesToEscrow(t *testing.T) {
	// 101 cents: chef 46.46 -> 46, platform 4.04 -> 4, escrow picks up 51.
	split := ComputeInitialSplit(101)

	if split.ImmediateChefCents != 46 {
		t.Errorf("chef share = %d, want 46", split.ImmediateChefCents)
	}
	if split.ImmediatePlatformCents != 4 {
		t.Errorf("platform share = %d, want 4", split.ImmediatePlatformCents)
	}
	if split.HeldEscrowCents != 51 {
		t.Errorf("escrow share = %d, want 51", split.HeldEscrowCents)
	}
}
