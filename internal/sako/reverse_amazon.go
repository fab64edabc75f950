// Package sako implements the Ŝako detector: is the opponent's king
// capturable this turn, and if so, by which action sequences. Grounded on
// the original engine's analysis/reverse_amazon_search.rs, which poses the
// question as a reachability search from the king's square using a fairy
// "amazon" piece (queen + knight combined) moving backwards - any square an
// amazon standing on the king could reach is a square some real piece could
// chain its way to the king from.
package sako

import "github.com/pacosako/engine/internal/paco"

// SearchResult holds the two square sets the amazon search produces:
// StartingTiles (squares a move could legally begin a Ŝako-delivering
// chain from) and ChainingTiles (every square a chain could pass through
// or finish on, including the king's own square).
type SearchResult struct {
	ChainingTiles [64]bool
	StartingTiles [64]bool
}

func (r *SearchResult) containsAction(a paco.Action) bool {
	switch a.Kind {
	case paco.ActionLift:
		return r.StartingTiles[a.Square]
	case paco.ActionPlace:
		return r.ChainingTiles[a.Square]
	default:
		return true
	}
}

// amazonContext carries the mutable search state across one
// ReverseAmazonSquares call, mirroring the original's AmazonContext.
type amazonContext struct {
	board           *paco.Board
	attacker        paco.Color
	tilesSeen       [64]bool
	todo            []paco.Square
	queued          [64]bool
	result          SearchResult
	enPassantTile   paco.Square
	enPassantFrom   paco.Square
	liftedTile      paco.Square
	liftedType      paco.PieceType
	hasLifted       bool
}

func newAmazonContext(board *paco.Board, attacker paco.Color) *amazonContext {
	ctx := &amazonContext{
		board:         board,
		attacker:      attacker,
		enPassantTile: paco.NoSquare,
		enPassantFrom: paco.NoSquare,
		liftedTile:    paco.NoSquare,
	}

	if board.EnPassant != paco.NoSquare {
		from, ok := board.EnPassant.Offset(0, attacker.Other().ForwardDirection())
		if ok && board.Substrate.HasPiece(attacker, from) {
			ctx.enPassantTile = board.EnPassant
			ctx.enPassantFrom = from
		}
	}

	if !board.Hand.IsEmpty() {
		ctx.liftedTile = board.Hand.Origin
		ctx.liftedType = board.Hand.Piece
		ctx.hasLifted = true
	}

	if king, ok := board.Substrate.FindKing(attacker.Other()); ok {
		ctx.enqueue(king)
	}
	return ctx
}

func (ctx *amazonContext) enqueue(sq paco.Square) {
	if !ctx.queued[sq] {
		ctx.queued[sq] = true
		ctx.todo = append(ctx.todo, sq)
	}
}

// popTodo pulls an unvisited square from the todo list, marking it as a
// chaining tile (every square actually popped is one a chain could reach or
// finish on).
func (ctx *amazonContext) popTodo() (paco.Square, bool) {
	for len(ctx.todo) > 0 {
		sq := ctx.todo[0]
		ctx.todo = ctx.todo[1:]
		if !ctx.tilesSeen[sq] {
			ctx.tilesSeen[sq] = true
			ctx.result.ChainingTiles[sq] = true
			return sq, true
		}
	}
	return paco.NoSquare, false
}

// ReverseAmazonSquares finds every square relevant to a Ŝako search for
// attacker: squares reachable from the opponent king by a fairy amazon
// (queen + knight) moving in reverse, pruned to where a real Paco Ŝako
// piece could actually have started (spec's Ŝako component §4, grounded on
// reverse_amazon_squares).
func ReverseAmazonSquares(board *paco.Board, attacker paco.Color) (SearchResult, error) {
	ctx := newAmazonContext(board, attacker)
	for {
		from, ok := ctx.popTodo()
		if !ok {
			break
		}
		ctx.knightTargets(from)
		ctx.slideTargets(from)
	}
	return ctx.result, nil
}

func (ctx *amazonContext) knightTargets(from paco.Square) {
	for _, target := range from.KnightTargets() {
		isUnion := ctx.board.Substrate.HasPiece(ctx.attacker, target) && ctx.board.Substrate.HasPiece(ctx.attacker.Other(), target)
		isEnPassant := target == ctx.enPassantTile
		if isUnion || isEnPassant {
			ctx.enqueue(target)
			continue
		}

		hasAttacker := ctx.board.Substrate.HasPiece(ctx.attacker, target)
		hasDefender := ctx.board.Substrate.HasPiece(ctx.attacker.Other(), target)
		if !hasAttacker || hasDefender {
			continue
		}
		if ctx.hasLifted {
			if target == ctx.liftedTile && ctx.liftedType == paco.Knight {
				ctx.result.StartingTiles[target] = true
			}
			continue
		}
		if ctx.board.Substrate.PieceAt(ctx.attacker, target) == paco.Knight {
			ctx.result.StartingTiles[target] = true
		}
	}
}

func (ctx *amazonContext) slideTargets(from paco.Square) {
	for _, d := range paco.QueenDeltas {
		current := from
		distance := 0
		slippedThroughStarter := ctx.hasLifted

		for {
			distance++
			next, ok := current.Offset(d[0], d[1])
			if !ok {
				break
			}
			current = next

			if current == ctx.enPassantTile || current == ctx.enPassantFrom {
				ctx.enqueue(current)
				break
			}

			if current == ctx.liftedTile && ctx.hasLifted && weCanStartFromHere(ctx.attacker, ctx.liftedType, d, distance) {
				ctx.result.StartingTiles[current] = true
			}

			hasAttacker := ctx.board.Substrate.HasPiece(ctx.attacker, current)
			hasDefender := ctx.board.Substrate.HasPiece(ctx.attacker.Other(), current)

			switch {
			case !hasAttacker && !hasDefender:
				// Empty square, keep sliding.
			case !hasAttacker && hasDefender:
				// Lone enemy piece: stop, nothing to chain through here.
				return
			case hasAttacker && !hasDefender:
				attackerPiece := ctx.board.Substrate.PieceAt(ctx.attacker, current)
				if slippedThroughStarter {
					return
				}
				if weCanStartFromHere(ctx.attacker, attackerPiece, d, distance) {
					ctx.result.StartingTiles[current] = true
				}
				slippedThroughStarter = true
			default:
				// A union: chaining can change the piece here, so any piece
				// type may continue the search through it.
				ctx.enqueue(current)
				return
			}
		}
	}
}

// weCanStartFromHere reports whether a piece of type attacker, standing
// distance squares away from the king along direction d, could be the
// start of a real (forward) chain that ends on the king - the reverse of
// the amazon's rook/bishop/pawn movement rules.
func weCanStartFromHere(attacker paco.Color, pieceType paco.PieceType, d [2]int, distance int) bool {
	isRookMove := d[0] == 0 || d[1] == 0
	if isRookMove {
		return pieceType == paco.Rook || pieceType == paco.Queen
	}
	if pieceType == paco.Bishop || pieceType == paco.Queen {
		return true
	}
	if pieceType == paco.Pawn && distance == 1 {
		pawnDirection := -1
		if attacker == paco.Black {
			pawnDirection = 1
		}
		return d[1] == pawnDirection
	}
	return false
}
