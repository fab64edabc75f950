// Package uciwire drives the engine without a live match server: a
// stdin/stdout line protocol (grounded on the teacher's internal/uci, which
// drives its alpha-beta engine the same way) that projects a position and
// runs the driven MCTS to pick a move, using a material-count heuristic in
// place of a trained neural-network evaluator.
package uciwire

import (
	"log"

	"github.com/pacosako/engine/internal/mcts"
	"github.com/pacosako/engine/internal/paco"
	"github.com/pacosako/engine/internal/sako"
	"github.com/pacosako/engine/internal/tensor"
)

// pieceValue mirrors conventional chess material weights; each piece counts
// for its own color, whether it stands alone or in a union.
var pieceValue = map[paco.PieceType]float32{
	paco.Pawn:   1,
	paco.Knight: 3,
	paco.Bishop: 3,
	paco.Rook:   5,
	paco.Queen:  9,
	paco.King:   0, // kings are never captured; they unite instead
}

// HeuristicEvaluator is a stand-in for a trained neural network: it scores
// a leaf by material balance from White's perspective and spreads a
// uniform prior over the legal actions, so the driven MCTS can still be
// exercised end to end without any model weights on disk.
type HeuristicEvaluator struct{}

// Evaluate implements the evaluator boundary the offline driver's Poll/
// SubmitEvaluation loop calls at every expansion.
func (HeuristicEvaluator) Evaluate(board *paco.Board) mcts.ModelEvaluation {
	var eval mcts.ModelEvaluation
	eval.Value = materialValue(board)

	legal, err := sako.LegalActions(board)
	if err != nil {
		log.Printf("[uciwire] legal action filter failed, falling back to pseudo-legal actions: %v", err)
		legal = paco.Actions(board)
	}
	if len(legal) == 0 {
		return eval
	}
	share := float32(1) / float32(len(legal))
	for _, action := range legal {
		slot := tensor.PolicySlot(action)
		if slot >= 0 {
			eval.Policy[slot] = share
		}
	}
	return eval
}

func materialValue(board *paco.Board) float32 {
	var total float32
	for sq := paco.Square(0); sq < 64; sq++ {
		if board.Substrate.HasPiece(paco.White, sq) {
			total += signedValue(board.Substrate.PieceAt(paco.White, sq), paco.White)
		}
		if board.Substrate.HasPiece(paco.Black, sq) {
			total += signedValue(board.Substrate.PieceAt(paco.Black, sq), paco.Black)
		}
	}
	switch board.Hand.State {
	case paco.HandSingle:
		total += signedValue(board.Hand.Piece, board.CurrentPlayer)
	case paco.HandPair:
		total += signedValue(board.Hand.Piece, board.CurrentPlayer)
		total += signedValue(board.Hand.Partner, board.CurrentPlayer.Other())
	}
	// Squash into roughly [-1, 1] the way a trained value head would.
	return total / 40
}

func signedValue(pt paco.PieceType, color paco.Color) float32 {
	v := pieceValue[pt]
	if color == paco.Black {
		return -v
	}
	return v
}
