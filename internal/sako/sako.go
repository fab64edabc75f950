package sako

import (
	"github.com/pacosako/engine/internal/chain"
	"github.com/pacosako/engine/internal/paco"
)

// IsŜako reports whether attacker can capture the opponent king this turn
// (spec §4 "Ŝako"), using the reverse-amazon squares to prune a breadth-
// first search over the turn's chain graph down to just the actions that
// could plausibly reach the king.
func IsŜako(board *paco.Board, attacker paco.Color) (bool, error) {
	normalized, err := normalizeForSearch(board, attacker)
	if err != nil {
		return false, err
	}
	graph, err := exploreForKingCapture(normalized)
	if err != nil {
		return false, err
	}
	return len(graph.Marked) > 0, nil
}

// FindŜakoSequences returns every distinct action sequence that captures
// the opponent king this turn, one per Paco-delivering leaf the search
// found (spec §4 "witness chains").
func FindŜakoSequences(board *paco.Board, attacker paco.Color) ([][]paco.Action, error) {
	normalized, err := normalizeForSearch(board, attacker)
	if err != nil {
		return nil, err
	}
	graph, err := exploreForKingCapture(normalized)
	if err != nil {
		return nil, err
	}

	sequences := make([][]paco.Action, 0, len(graph.Marked))
	for hash := range graph.Marked {
		sequences = append(sequences, chain.PathTo(graph, hash))
	}
	return sequences, nil
}

// normalizeForSearch clones board into the shape the reverse-amazon search
// expects: a settled-or-attacker-controlled position with any pending
// promotion resolved to a Queen (spec's search doesn't care which piece the
// promotion chooses, so it always picks the strongest one), reassigning
// ControllingPlayer to attacker so the same search code answers "could
// attacker deliver Ŝako here" regardless of whose turn it really is.
func normalizeForSearch(board *paco.Board, attacker paco.Color) (*paco.Board, error) {
	b := board.Clone()
	if !b.IsSettled() && b.ControllingPlayer() != attacker {
		return nil, &paco.SearchNotAllowedError{
			Reason: "board is not settled but attacker is not in control",
		}
	}
	if b.Required().IsPromotion() && !b.Victory.IsOver() {
		if err := b.Execute(paco.PromoteTo(paco.Queen)); err != nil {
			return nil, err
		}
	}
	b.CurrentPlayer = attacker
	return b, nil
}

func exploreForKingCapture(board *paco.Board) (*chain.Graph[struct{}], error) {
	search, err := ReverseAmazonSquares(board, board.ControllingPlayer())
	if err != nil {
		return nil, err
	}
	if !anyChainingTile(search) {
		return &chain.Graph[struct{}]{Marked: map[uint64]struct{}{}, EdgesIn: map[uint64]chain.Edge{}}, nil
	}

	kingSquare, ok := board.Substrate.FindKing(board.ControllingPlayer().Other())
	if !ok {
		return nil, &paco.NoKingOnBoardError{Color: board.ControllingPlayer().Other()}
	}
	kingCapture := paco.Place(kingSquare)

	graph := chain.Explore(board, func(b *paco.Board, hash uint64, g *chain.Graph[struct{}]) (struct{}, bool) {
		edge, ok := g.EdgesIn[hash]
		if ok && edge.Action == kingCapture {
			return struct{}{}, true
		}
		return struct{}{}, false
	}, func(a paco.Action) bool {
		return search.containsAction(a)
	})

	return graph, nil
}

func anyChainingTile(r SearchResult) bool {
	for _, set := range r.ChainingTiles {
		if set {
			return true
		}
	}
	return false
}
