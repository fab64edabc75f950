package chain

import "github.com/pacosako/engine/internal/paco"

// MoveGraph is the result of ExploreMoves: every board state reachable
// within one turn, keyed by interning hash, with the settled end states
// called out separately so callers don't have to re-derive IsSettled.
type MoveGraph struct {
	Boards  map[uint64]*paco.Board
	Settled map[uint64]bool
	EdgesIn map[uint64]Edge
}

// ExploreMoves enumerates every board reachable from board by any legal
// action sequence within the current turn, stopping each branch once it
// reaches a settled state (hand empty and no promotion pending - spec §3,
// invariant #4). A pending promotion keeps the branch open: Actions already
// restricts it to the four Promote options, so the walk continues through
// them until the promotion resolves and the branch actually settles.
// Grounded on the original engine's determine_all_moves: unlike Explore,
// which keeps walking until control passes to the other player, this stops
// as soon as a branch settles, since callers like chasing-Paco-in-2 need
// the settled states as first-class results, not just the terminal hash.
func ExploreMoves(board *paco.Board) *MoveGraph {
	root := board.Clone()
	rootHash := root.InterningHash()

	result := &MoveGraph{
		Boards:  map[uint64]*paco.Board{rootHash: root},
		Settled: map[uint64]bool{},
		EdgesIn: map[uint64]Edge{},
	}

	todo := []*paco.Board{root}
	for len(todo) > 0 {
		current := todo[0]
		todo = todo[1:]
		currentHash := current.InterningHash()

		for _, action := range paco.Actions(current) {
			next := current.Clone()
			if err := next.Execute(action); err != nil {
				continue
			}
			nextHash := next.InterningHash()

			if _, seen := result.Boards[nextHash]; seen {
				continue
			}
			result.Boards[nextHash] = next
			result.EdgesIn[nextHash] = Edge{Action: action, FromHash: currentHash}

			if next.IsSettled() {
				result.Settled[nextHash] = true
			} else {
				todo = append(todo, next)
			}
		}
	}

	return result
}
