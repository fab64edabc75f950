package sako

import (
	"github.com/pacosako/engine/internal/chain"
	"github.com/pacosako/engine/internal/paco"
)

// ChasingResult is one confirmed chasing-Paco-in-2: attacker plays some
// sequence (Trace) that settles into AttackBoard, which delivers Ŝako, and
// every one of the opponent's defensive replies still leaves them in Ŝako -
// there is no escape, only a choice of which piece gets captured next turn.
type ChasingResult struct {
	AttackBoard *paco.Board
	Trace       []paco.Action
}

// IsChasingPacoIn2 finds every way attacker can force a Ŝako that the
// opponent cannot escape from within their own turn (spec §4 "chasing Paco
// in n", the n=2 case). Grounded on the original engine's
// is_chasing_paco_in_2: enumerate all of attacker's settled replies; a
// direct Paco win here is chasing-in-1 and disqualifies the position (it
// isn't a chase, it's already over); for every settled reply that delivers
// Ŝako without itself being answerable by an immediate counter-Ŝako, make
// sure every one of the opponent's own settled replies is still Ŝako for
// attacker - if even one reply escapes, that attack doesn't count.
func IsChasingPacoIn2(board *paco.Board, attacker paco.Color) ([]ChasingResult, error) {
	if !board.IsSettled() {
		return nil, &paco.SearchNotAllowedError{Reason: "board must be settled to determine chasing Paco in 2"}
	}

	root := board.Clone()
	root.CurrentPlayer = attacker

	attacks := chain.ExploreMoves(root)
	for hash := range attacks.Settled {
		if attacks.Boards[hash].Victory.Kind == paco.PacoVictory && attacks.Boards[hash].Victory.Color == attacker {
			return nil, nil
		}
	}

	var results []ChasingResult
attacks:
	for hash := range attacks.Settled {
		attackBoard := attacks.Boards[hash]

		isŜako, err := IsŜako(attackBoard, attacker)
		if err != nil {
			return nil, err
		}
		if !isŜako {
			continue
		}

		counterŜako, err := IsŜako(attackBoard, attacker.Other())
		if err != nil {
			return nil, err
		}
		if counterŜako {
			continue
		}

		defenses := chain.ExploreMoves(attackBoard)
		for defenseHash := range defenses.Settled {
			defenseBoard := defenses.Boards[defenseHash]
			stillŜako, err := IsŜako(defenseBoard, attacker)
			if err != nil {
				return nil, err
			}
			if !stillŜako {
				continue attacks
			}
		}

		results = append(results, ChasingResult{
			AttackBoard: attackBoard,
			Trace:       traceFirstMove(hash, attacks.EdgesIn),
		})
	}

	return results, nil
}

// traceFirstMove walks edgesIn back from hash to the root (the node with no
// recorded incoming edge), returning the actions in forward order. Grounded
// on the original engine's trace_first_move.
func traceFirstMove(hash uint64, edgesIn map[uint64]chain.Edge) []paco.Action {
	var reversed []paco.Action
	for {
		edge, ok := edgesIn[hash]
		if !ok {
			break
		}
		reversed = append(reversed, edge.Action)
		hash = edge.FromHash
	}
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	return reversed
}
