package tensor

import "github.com/pacosako/engine/internal/paco"

// PolicySlot returns the network's flat policy-head index for action,
// 0..132 (spec §4.8 invariant #7). The value head itself occupies slot 0
// and is never returned by paco.ActionIndex, which this wraps.
func PolicySlot(a paco.Action) int {
	return paco.ActionIndex(a)
}

// ActionFromPolicySlot is the inverse of PolicySlot.
func ActionFromPolicySlot(slot int) (paco.Action, bool) {
	return paco.ActionFromIndex(slot)
}
