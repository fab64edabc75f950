package tensor

import (
	"testing"

	"github.com/pacosako/engine/internal/paco"
)

func TestEncodeStartingPositionHasThirtyTwoPieceSlots(t *testing.T) {
	idx := Encode(paco.NewBoard())
	seen := map[uint32]bool{}
	for i := 0; i <= 31; i++ {
		if idx[i] >= 24*64 {
			t.Fatalf("piece slot %d out of range: %d", i, idx[i])
		}
		seen[idx[i]] = true
	}
	if len(seen) != 32 {
		t.Fatalf("expected 32 distinct occupied tensor cells, got %d", len(seen))
	}
}

func TestExpandSetsHalfMoveClockPlane(t *testing.T) {
	idx := Encode(paco.NewBoard())
	var dense [Size]float32
	Expand(idx, &dense)
	for j := 0; j < 64; j++ {
		if dense[29*64+j] != 0 {
			t.Fatalf("expected zero half-move clock at game start, got %f", dense[29*64+j])
		}
	}
}

func TestPolicySlotRoundTrip(t *testing.T) {
	for _, a := range []paco.Action{paco.Lift(paco.E2), paco.Place(paco.E4), paco.PromoteTo(paco.Queen)} {
		slot := PolicySlot(a)
		back, ok := ActionFromPolicySlot(slot)
		if !ok || back != a {
			t.Fatalf("round trip failed for %v: slot %d -> %v (ok=%v)", a, slot, back, ok)
		}
	}
}
