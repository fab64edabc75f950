// Package chain implements the generic breadth-first explorer that walks
// every board state reachable within a single player's turn (one chain),
// hash-interning nodes so transpositions are only ever visited once.
//
// Grounded on the original engine's analysis/graph.rs, which unifies what
// used to be two bespoke search structures (an amazon-search visited-set and
// a per-state-type explored-set) into one Graph[Marker, EdgeData] type and a
// single breadth_first_search function. The Go port keeps that shape: a
// generic Graph over a caller-chosen node marker, and an Explore function
// taking a marker callback and an action filter - the Ŝako detector
// (internal/sako) supplies both to prune the search and tag king-adjacent
// nodes without this package knowing anything about Ŝako itself.
package chain

import "github.com/pacosako/engine/internal/paco"

// Edge records how a node was first reached: which action, from which
// hash. The original's FirstEdge keeps only the first edge found per node;
// this package does the same, since the callers (reverse-amazon search,
// chasing-in-n) only ever need one witness path, not every path.
type Edge struct {
	Action   paco.Action
	FromHash uint64
}

// Graph is the result of one Explore call: every node marked by the
// caller's marker function, and the first edge that reached every node
// discovered (including unmarked ones, so callers can walk a path back to
// the root after the fact).
type Graph[M any] struct {
	Marked  map[uint64]M
	EdgesIn map[uint64]Edge
}

func newGraph[M any]() *Graph[M] {
	return &Graph[M]{
		Marked:  make(map[uint64]M),
		EdgesIn: make(map[uint64]Edge),
	}
}

// MarkerFunc inspects a node before its actions are expanded and optionally
// returns a marker to attach to it (e.g. "this node's opponent king is in
// Ŝako"). Returning ok=false leaves the node unmarked.
type MarkerFunc[M any] func(b *paco.Board, hash uint64, g *Graph[M]) (M, bool)

// ActionFilter decides whether an action is worth expanding at all. The
// Ŝako detector uses this to prune, e.g., actions that could not possibly
// contribute to threatening the king.
type ActionFilter func(paco.Action) bool

// Explore performs the breadth-first walk described in spec's Chain
// Explorer component: starting from b, it repeatedly lifts/places/promotes
// every considered action, marking and recording an edge into every node it
// discovers, and only continuing the search from nodes still controlled by
// the player who owns the turn (the original's
// `next.controlling_player == search_player` guard) - once a chain-ending
// Place flips control to the opponent, that branch is not expanded further.
func Explore[M any](b *paco.Board, marker MarkerFunc[M], considered ActionFilter) *Graph[M] {
	start := b.Clone()
	searchPlayer := start.ControllingPlayer()
	start.ResetDrawTracking()

	result := newGraph[M]()
	if m, ok := marker(start, start.InterningHash(), result); ok {
		result.Marked[start.InterningHash()] = m
	}
	todo := []*paco.Board{start}

	for len(todo) > 0 {
		current := todo[0]
		todo = todo[1:]
		currentHash := current.InterningHash()

		for _, action := range paco.Actions(current) {
			if considered != nil && !considered(action) {
				continue
			}

			next := current.Clone()
			if err := next.Execute(action); err != nil {
				continue
			}
			nextHash := next.InterningHash()

			if _, seen := result.EdgesIn[nextHash]; !seen {
				result.EdgesIn[nextHash] = Edge{Action: action, FromHash: currentHash}
				if m, ok := marker(next, nextHash, result); ok {
					result.Marked[nextHash] = m
				}
				if next.ControllingPlayer() == searchPlayer {
					todo = append(todo, next)
				}
			}
		}
	}

	return result
}

// PathTo reconstructs the action sequence from the explored root to the
// node identified by hash, by walking EdgesIn backwards. Returns nil if
// hash was never reached.
func PathTo[M any](g *Graph[M], hash uint64) []paco.Action {
	var reversed []paco.Action
	for {
		edge, ok := g.EdgesIn[hash]
		if !ok {
			break
		}
		reversed = append(reversed, edge.Action)
		hash = edge.FromHash
	}
	// reverse in place
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	return reversed
}
