package sako

import "github.com/pacosako/engine/internal/paco"

// LegalActions returns board's legal actions with any castling move whose
// king transit squares are threatened removed (spec §4.1 "Castling": "the
// squares the king traverses... are not threatened by the opponent, the
// Ŝako detector is the oracle"). paco.Actions itself cannot apply this
// filter - it would need to import this package, which imports paco,
// making a cycle - so callers that need fully legal actions (rather than
// paco.Actions' pseudo-legal set) call this instead.
func LegalActions(board *paco.Board) ([]paco.Action, error) {
	actions := paco.Actions(board)
	if board.Hand.State != paco.HandSingle || board.Hand.Piece != paco.King {
		return actions, nil
	}

	mover := board.ControllingPlayer()
	origin := board.Hand.Origin

	filtered := make([]paco.Action, 0, len(actions))
	for _, action := range actions {
		geom, isCastle := castlingGeometryFor(mover, origin, action)
		if !isCastle {
			filtered = append(filtered, action)
			continue
		}
		threatened, err := anySquareThreatened(board, mover, geom.KingTransitSquares())
		if err != nil {
			return nil, err
		}
		if !threatened {
			filtered = append(filtered, action)
		}
	}
	return filtered, nil
}

// castlingGeometryFor reports whether action is the Place half of a
// castling move for mover starting at origin, and if so its geometry.
func castlingGeometryFor(mover paco.Color, origin paco.Square, action paco.Action) (paco.CastlingGeometry, bool) {
	if action.Kind != paco.ActionPlace {
		return paco.CastlingGeometry{}, false
	}
	for _, kingSide := range [2]bool{true, false} {
		geom := paco.StandardCastlingGeometry(mover, kingSide)
		if geom.KingFrom == origin && geom.KingTo == action.Square {
			return geom, true
		}
	}
	return paco.CastlingGeometry{}, false
}

func anySquareThreatened(board *paco.Board, mover paco.Color, squares []paco.Square) (bool, error) {
	for _, sq := range squares {
		threatened, err := squareThreatened(board, mover, sq)
		if err != nil {
			return false, err
		}
		if threatened {
			return true, nil
		}
	}
	return false, nil
}

// squareThreatened reports whether the opponent could capture a mover king
// standing at sq, by placing one there on a clone of board (which currently
// holds the real king lifted, mid-castle) and asking the reverse-amazon
// search whether the opponent can deliver Ŝako immediately.
func squareThreatened(board *paco.Board, mover paco.Color, sq paco.Square) (bool, error) {
	test := board.Clone()
	test.Substrate.Place(mover, paco.King, sq)
	test.Hand = paco.EmptyHand
	test.CurrentPlayer = mover.Other()
	return IsŜako(test, mover.Other())
}
