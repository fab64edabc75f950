package replay

import "github.com/pacosako/engine/internal/paco"

// classifyOpening recognizes named openings played from the default
// starting position, grounded on analysis/opening.rs. It never fails: any
// action that doesn't apply just ends the search for that opening early.
func classifyOpening(initial *paco.Board, actions []paco.Action) string {
	if !isDefaultStartingPosition(initial) {
		return ""
	}
	if isSwedishKnights(initial, actions) {
		return "Swedish Knights"
	}
	return ""
}

func isDefaultStartingPosition(b *paco.Board) bool {
	standard := paco.NewBoard()
	return b.Substrate.Hash == standard.Substrate.Hash
}

// isSwedishKnights recognizes the opening where White develops both knights
// to c3 and f4 within the first few moves.
func isSwedishKnights(initial *paco.Board, actions []paco.Action) bool {
	if !isDefaultStartingPosition(initial) {
		return false
	}

	board := initial.Clone()
	lifts := 0
	for _, action := range actions {
		if err := board.Execute(action); err != nil {
			return false
		}

		if board.Substrate.PieceAt(paco.White, paco.C3) == paco.Knight &&
			board.Substrate.PieceAt(paco.White, paco.F4) == paco.Knight {
			return true
		}

		if action.Kind == paco.ActionLift {
			lifts++
			if lifts > 10 {
				return false
			}
		}
	}

	return false
}
