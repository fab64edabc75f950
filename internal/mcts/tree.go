// Package mcts implements the externally driven PUCT search (spec §4.5):
// a graph-based tree where node expansion is suspended at every evaluation
// boundary, so the caller can plug in a synchronous, asynchronous, or
// heuristic evaluator without the search ever blocking on it directly.
// Grounded on the original engine's ai/mcts.rs (petgraph-based PUCT with
// expand/backpropagate/descend_to_leaf), reshaped into the teacher's
// worker-pool idiom (internal/engine/worker.go's flat, index-addressed
// state rather than petgraph's StableGraph, since this module does not
// carry a graph library dependency).
package mcts

import (
	"log"
	"math"
	"math/rand"

	"github.com/pacosako/engine/internal/paco"
	"github.com/pacosako/engine/internal/sako"
	"github.com/pacosako/engine/internal/tensor"
)

// ExplorationConstant is PUCT's c (spec §4.5 "Selection").
const ExplorationConstant = 1.41

// nodeKind tags the three-state node sum type (spec §4.5).
type nodeKind uint8

const (
	nodeUnexpanded nodeKind = iota
	nodeExpanded
	nodeGameOver
)

type node struct {
	kind     nodeKind
	player   paco.Color // valid for Expanded: whose turn it was here
	value    float32    // white-centric, valid for Expanded/GameOver
	hasValue bool
	children []int // edge indices into tree.edges, empty until Expanded
}

type edge struct {
	action      paco.Action
	player      paco.Color // who made this move
	visits      float32
	totalReward float32
	prior       float32
	child       int
}

// ModelEvaluation is what an external evaluator supplies for one leaf board:
// a scalar value estimate (white-centric, in [-1, 1]) and a policy vector
// indexed the way tensor.PolicySlot produces (spec §4.8).
type ModelEvaluation struct {
	Value  float32
	Policy [tensor.ActionSlots]float32
}

// PollKind tags the four possible Poll() outcomes (spec §4.5 state machine).
type PollKind uint8

const (
	// SelectNodeToExpand reports a full selection/backprop cycle completed
	// without needing an evaluation (the leaf was already GameOver) -
	// call Poll again to keep making progress.
	SelectNodeToExpand PollKind = iota
	// Evaluate means a leaf needing expansion was found; call
	// SubmitEvaluation with the result for Board before polling again.
	Evaluate
	// AtMaxSize means the tree has reached its node budget.
	AtMaxSize
	// OutOfFreeBackpropagations is a safety stop against runaway search.
	OutOfFreeBackpropagations
)

// PollResult is Poll()'s return value.
type PollResult struct {
	Kind  PollKind
	Board *paco.Board // only set when Kind == Evaluate
}

// Tree is one PUCT search in progress. It owns a flat node/edge arena so
// the whole tree can be reparented (subtree reuse) by just slicing and
// relabeling indices, without walking pointer graphs.
type Tree struct {
	root  *paco.Board
	nodes []node
	edges []edge

	rootIdx int
	maxSize int

	freeBackprops int

	pendingLeaf  int
	pendingPath  []int // edge indices from root to pendingLeaf, in descent order
	pendingTrace []paco.Action
	awaiting     bool

	rng *rand.Rand

	// RootNoiseSigma scales the logit-normal noise added only at the root's
	// expansion (spec §4.5 "Add small logit-normal noise at the root for
	// exploration"). Zero disables it entirely.
	RootNoiseSigma float64
}

// defaultRootNoiseSigma is the logit-normal noise scale New installs by
// default; small enough to break symmetry between equally-good root moves
// without meaningfully distorting the prior.
const defaultRootNoiseSigma = 0.3

// New starts a fresh search rooted at board. maxSize bounds the number of
// nodes the tree may grow to; freeBackprops bounds the number of
// backpropagations from game-over leaves (the ones that need no evaluation)
// taken before Poll reports OutOfFreeBackpropagations (spec §4.5's named
// safety stop).
func New(board *paco.Board, maxSize, freeBackprops int) *Tree {
	t := &Tree{
		root:           board.Clone(),
		maxSize:        maxSize,
		freeBackprops:  freeBackprops,
		rng:            rand.New(rand.NewSource(1)),
		RootNoiseSigma: defaultRootNoiseSigma,
	}
	t.nodes = append(t.nodes, node{kind: nodeUnexpanded})
	t.rootIdx = 0
	return t
}

// Poll advances the search one step and reports what the caller must do
// next (spec §4.5 "poll() contract").
func (t *Tree) Poll() PollResult {
	if t.awaiting {
		return PollResult{Kind: Evaluate, Board: t.boardAtTrace(t.pendingTrace)}
	}
	if len(t.nodes) >= t.maxSize {
		return PollResult{Kind: AtMaxSize}
	}
	if t.freeBackprops <= 0 {
		return PollResult{Kind: OutOfFreeBackpropagations}
	}

	leaf, path, trace := t.descendToLeaf()
	n := &t.nodes[leaf]

	if n.kind == nodeGameOver {
		t.backpropagate(path, n.value)
		t.freeBackprops--
		return PollResult{Kind: SelectNodeToExpand}
	}

	t.pendingLeaf = leaf
	t.pendingPath = path
	t.pendingTrace = trace
	t.awaiting = true
	return PollResult{Kind: Evaluate, Board: t.boardAtTrace(trace)}
}

// SubmitEvaluation completes the Evaluate step Poll last returned: it
// expands the pending leaf using eval, installs one child edge per legal
// action with the normalized policy as prior, and backpropagates the
// resulting value to the root (spec §4.5 "Expansion"/"Backpropagation").
func (t *Tree) SubmitEvaluation(eval ModelEvaluation) {
	if !t.awaiting {
		log.Printf("[mcts] SubmitEvaluation called with no pending leaf, ignoring")
		return
	}
	t.awaiting = false

	board := t.boardAtTrace(t.pendingTrace)
	leaf := t.pendingLeaf
	path := t.pendingPath

	if board.Victory.IsOver() {
		value := gameOverValue(board)
		t.nodes[leaf] = node{kind: nodeGameOver, value: value, hasValue: true}
		t.backpropagate(path, value)
		t.freeBackprops--
		return
	}

	// sako.LegalActions rather than paco.Actions directly so a node never
	// expands a child for castling through an attacked square (spec §4.1
	// "Castling").
	actions, err := sako.LegalActions(board)
	if err != nil {
		log.Printf("[mcts] legal action filter failed, falling back to pseudo-legal actions: %v", err)
		actions = paco.Actions(board)
	}
	player := board.ControllingPlayer()
	if len(actions) == 0 {
		value := colorSignedValue(-1.0, player)
		t.nodes[leaf] = node{kind: nodeGameOver, value: value, hasValue: true}
		t.backpropagate(path, value)
		t.freeBackprops--
		return
	}

	const epsilon = 1e-6
	sigma := 0.0
	if leaf == t.rootIdx {
		sigma = t.RootNoiseSigma
	}
	noise := logitNormalNoise(len(actions), sigma, t.rng)
	policySum := float32(epsilon)
	for i, a := range actions {
		slot := tensor.PolicySlot(a)
		policySum += eval.Policy[slot] + noise[i]
	}

	children := make([]int, 0, len(actions))
	for i, a := range actions {
		slot := tensor.PolicySlot(a)
		symmetryNoise := t.rng.Float32() * epsilon
		prior := (eval.Policy[slot]+noise[i])/policySum + symmetryNoise

		childIdx := len(t.nodes)
		t.nodes = append(t.nodes, node{kind: nodeUnexpanded})
		t.edges = append(t.edges, edge{action: a, player: player, prior: prior, child: childIdx})
		children = append(children, len(t.edges)-1)
	}

	value := eval.Value
	t.nodes[leaf] = node{kind: nodeExpanded, player: player, value: value, hasValue: true, children: children}
	t.backpropagate(path, value)
}

func gameOverValue(board *paco.Board) float32 {
	if board.Victory.Kind == paco.PacoVictory || board.Victory.Kind == paco.TimeoutVictory {
		return colorSignedValue(1.0, board.Victory.Color)
	}
	return 0.0 // draws
}

// colorSignedValue turns a value as seen by player into the white-centric
// value the tree stores (spec §4.5 "Rewards are stored as white-centric
// floats ... sign-flipped per node owner when read").
func colorSignedValue(v float64, player paco.Color) float32 {
	if player == paco.Black {
		return float32(-v)
	}
	return float32(v)
}

// valueFor reads a white-centric value from player's perspective.
func valueFor(v float32, player paco.Color) float32 {
	if player == paco.Black {
		return -v
	}
	return v
}

func (t *Tree) boardAtTrace(trace []paco.Action) *paco.Board {
	b := t.root.Clone()
	for _, a := range trace {
		if err := b.Execute(a); err != nil {
			log.Printf("[mcts] replaying trace action %s failed: %v", a, err)
			break
		}
	}
	return b
}

// descendToLeaf walks from root following the PUCT-maximal edge at every
// Expanded node, returning the node index it lands on, the edges taken (for
// backpropagation) and the actions taken (to replay against the board).
func (t *Tree) descendToLeaf() (int, []int, []paco.Action) {
	idx := t.rootIdx
	var path []int
	var trace []paco.Action
	for {
		n := &t.nodes[idx]
		if n.kind != nodeExpanded {
			return idx, path, trace
		}
		edgeIdx := t.bestEdge(n.children)
		e := &t.edges[edgeIdx]
		path = append(path, edgeIdx)
		trace = append(trace, e.action)
		idx = e.child
	}
}

// bestEdge picks the PUCT-maximal child: Q + c*prior*sqrt(sum visits)/(1+visits).
func (t *Tree) bestEdge(children []int) int {
	const epsilon = 1e-6
	var visitSum float32
	for _, ei := range children {
		visitSum += t.edges[ei].visits
	}
	explorationWeight := ExplorationConstant*float32(math.Sqrt(float64(visitSum))) + epsilon

	best := children[0]
	bestPuct := float32(math.Inf(-1))
	for _, ei := range children {
		e := &t.edges[ei]
		q := e.totalReward / (1 + e.visits)
		explore := explorationWeight * e.prior / (1 + e.visits)
		puct := q + explore
		if puct > bestPuct {
			bestPuct = puct
			best = ei
		}
	}
	return best
}

// backpropagate walks path (root-to-leaf edge indices) in reverse,
// incrementing visit counts and adding the node's value as seen from each
// edge's mover.
func (t *Tree) backpropagate(path []int, value float32) {
	for i := len(path) - 1; i >= 0; i-- {
		e := &t.edges[path[i]]
		e.visits++
		e.totalReward += valueFor(value, e.player)
	}
}

// BestAction returns the root's highest-visit-count child action, the
// "externally" chosen move once enough Poll/SubmitEvaluation cycles have
// run (spec §4.5 "Action selection externally").
func (t *Tree) BestAction() (paco.Action, bool) {
	root := &t.nodes[t.rootIdx]
	if root.kind != nodeExpanded || len(root.children) == 0 {
		return paco.Action{}, false
	}

	var best int = -1
	var bestVisits float32 = -1
	for _, ei := range root.children {
		v := t.edges[ei].visits
		if v > bestVisits {
			bestVisits = v
			best = ei
		} else if v == bestVisits && t.rng.Intn(2) == 0 {
			best = ei
		}
	}
	return t.edges[best].action, true
}

// ApplyAction commits action at the root and reuses the surviving subtree
// (spec §4.5 "Subtree reuse"): the chosen child becomes the new root, every
// unreachable node is discarded, and indices are compacted. If the chosen
// child was never expanded, the tree resets to a single unexpanded root.
func (t *Tree) ApplyAction(action paco.Action) error {
	if err := t.root.Execute(action); err != nil {
		return err
	}

	root := &t.nodes[t.rootIdx]
	var chosenEdge *edge
	if root.kind == nodeExpanded {
		for _, ei := range root.children {
			if t.edges[ei].action == action {
				chosenEdge = &t.edges[ei]
				break
			}
		}
	}

	if chosenEdge == nil || t.nodes[chosenEdge.child].kind == nodeUnexpanded {
		t.nodes = []node{{kind: nodeUnexpanded}}
		t.edges = nil
		t.rootIdx = 0
		return nil
	}

	t.compactFrom(chosenEdge.child)
	return nil
}

// compactFrom rebuilds the arena keeping only the subtree reachable from
// newRoot, relabeling every index.
func (t *Tree) compactFrom(newRoot int) {
	var newNodes []node
	var newEdges []edge
	remap := map[int]int{}

	var walk func(oldIdx int) int
	walk = func(oldIdx int) int {
		if mapped, ok := remap[oldIdx]; ok {
			return mapped
		}
		old := t.nodes[oldIdx]
		newIdx := len(newNodes)
		newNodes = append(newNodes, node{kind: old.kind, player: old.player, value: old.value, hasValue: old.hasValue})
		remap[oldIdx] = newIdx

		newChildren := make([]int, 0, len(old.children))
		for _, ei := range old.children {
			oldEdge := t.edges[ei]
			childIdx := walk(oldEdge.child)
			newEdges = append(newEdges, edge{
				action:      oldEdge.action,
				player:      oldEdge.player,
				visits:      oldEdge.visits,
				totalReward: oldEdge.totalReward,
				prior:       oldEdge.prior,
				child:       childIdx,
			})
			newChildren = append(newChildren, len(newEdges)-1)
		}
		newNodes[newIdx].children = newChildren
		return newIdx
	}

	t.rootIdx = walk(newRoot)
	t.nodes = newNodes
	t.edges = newEdges
}

// Size returns the current node count, useful for logging search progress.
func (t *Tree) Size() int {
	return len(t.nodes)
}

// logitNormalNoise draws n samples from a logit-normal distribution scaled
// by sigma, used to break symmetry at the root (spec §4.5 "Expansion").
// Grounded on the original engine's ai/math.rs logit_normal, re-derived
// from the standard Box-Muller transform since the exact RNG internals
// were not part of the retrieved corpus.
func logitNormalNoise(n int, sigma float64, rng *rand.Rand) []float32 {
	out := make([]float32, n)
	if sigma <= 0 {
		return out
	}
	for i := 0; i < n; i++ {
		z := rng.NormFloat64() * sigma
		out[i] = float32(1.0 / (1.0 + math.Exp(-z)))
	}
	return out
}
