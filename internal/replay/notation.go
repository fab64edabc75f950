// Package replay turns a recorded action history into annotated, human
// readable notation, grounded on the original engine's analysis/mod.rs and
// analysis/incremental_replay.rs: split the action stream into half moves,
// render each into a compact notation string, then annotate every half move
// with Ŝako and chasing-Paco-in-2 metadata.
package replay

import (
	"fmt"

	"github.com/pacosako/engine/internal/paco"
	"github.com/pacosako/engine/internal/sako"
)

// HalfMoveSection is one rendered fragment of a half move's notation, e.g.
// "g2>Pf3" or ">e4", tagged with the action index it corresponds to so a UI
// can jump the board to that point.
type HalfMoveSection struct {
	ActionIndex int
	Label       string
}

// HalfMoveMetadata carries the annotations incremental_replay.rs adds on top
// of the bare notation.
type HalfMoveMetadata struct {
	GivesŜako                   bool
	MissedPaco                  bool
	GivesOpponentPacoOpportunity bool
	PacoIn2Found                bool
	PacoIn2Missed               bool
}

// HalfMove is one player's turn: every action they took, rendered into
// notation sections, plus the metadata annotations for that turn.
type HalfMove struct {
	MoveNumber    int
	CurrentPlayer paco.Color
	Actions       []HalfMoveSection
	PacoActions   []paco.Action
	Metadata      HalfMoveMetadata
}

// Data is the full annotated replay of a game.
type Data struct {
	Notation []HalfMove
	Opening  string
}

// notationAtomKind tags notationAtom, mirroring the original's NotationAtom
// enum (spec §7 "annotated replay").
type notationAtomKind uint8

const (
	atomStartSingle notationAtomKind = iota
	atomStartUnion
	atomContinueChain
	atomEndCalm
	atomEndFormUnion
	atomPromote
)

type notationAtom struct {
	kind    notationAtomKind
	mover   paco.PieceType
	partner paco.PieceType
	at      paco.Square
}

func (a notationAtom) isPlace() bool {
	return a.kind == atomContinueChain || a.kind == atomEndCalm || a.kind == atomEndFormUnion
}

func (a notationAtom) isLift() bool {
	return a.kind == atomStartSingle || a.kind == atomStartUnion
}

func letter(pt paco.PieceType) string {
	if pt == paco.Pawn {
		return ""
	}
	return string(pt.Char())
}

func forceLetter(pt paco.PieceType) string {
	if pt == paco.Pawn {
		return "P"
	}
	return string(pt.Char())
}

func (a notationAtom) String() string {
	switch a.kind {
	case atomStartSingle:
		return fmt.Sprintf("%s%s", letter(a.mover), a.at)
	case atomStartUnion:
		return fmt.Sprintf("%s%s%s", forceLetter(a.mover), forceLetter(a.partner), a.at)
	case atomContinueChain:
		return fmt.Sprintf(">%s%s", forceLetter(a.mover), a.at)
	case atomEndCalm:
		return fmt.Sprintf(">%s", a.at)
	case atomEndFormUnion:
		return fmt.Sprintf("x%s%s", letter(a.partner), a.at)
	case atomPromote:
		return fmt.Sprintf("=%s", letter(a.mover))
	default:
		return "?"
	}
}

// applyActionSemantically executes action on board and reports what kind of
// notation atom it produced, inspecting the hand before/after the way the
// original's apply_action_semantically does.
func applyActionSemantically(board *paco.Board, action paco.Action) (notationAtom, error) {
	switch action.Kind {
	case paco.ActionLift:
		if err := board.Execute(action); err != nil {
			return notationAtom{}, err
		}
		switch board.Hand.State {
		case paco.HandSingle:
			return notationAtom{kind: atomStartSingle, mover: board.Hand.Piece, at: board.Hand.Origin}, nil
		case paco.HandPair:
			return notationAtom{kind: atomStartUnion, mover: board.Hand.Piece, partner: board.Hand.Partner, at: board.Hand.Origin}, nil
		default:
			return notationAtom{}, fmt.Errorf("replay: lift produced an empty hand")
		}
	case paco.ActionPlace:
		mover := board.ControllingPlayer()
		opponentPiece := board.Substrate.PieceAt(mover.Other(), action.Square)
		if err := board.Execute(action); err != nil {
			return notationAtom{}, err
		}
		switch board.Hand.State {
		case paco.HandEmpty:
			if opponentPiece != paco.NoPieceType {
				return notationAtom{kind: atomEndFormUnion, partner: opponentPiece, at: action.Square}, nil
			}
			return notationAtom{kind: atomEndCalm, at: action.Square}, nil
		case paco.HandSingle:
			return notationAtom{kind: atomContinueChain, mover: board.Hand.Piece, at: action.Square}, nil
		default:
			return notationAtom{}, fmt.Errorf("replay: place left a pair in hand")
		}
	case paco.ActionPromote:
		if err := board.Execute(action); err != nil {
			return notationAtom{}, err
		}
		return notationAtom{kind: atomPromote, mover: action.Promote}, nil
	default:
		return notationAtom{}, fmt.Errorf("replay: unknown action kind")
	}
}

// squashNotationAtoms collapses a half move's raw atoms into display
// sections, merging the lift+place pair that starts a move into one section,
// detecting castling, and giving mid-chain continuations their own section.
func squashNotationAtoms(initialIndex int, atoms []notationAtom) []HalfMoveSection {
	var result []HalfMoveSection
	alreadySquashed := false
	potentiallyCastling := paco.NoSquare

	for i, atom := range atoms {
		if atom.kind == atomStartSingle && atom.mover == paco.King {
			potentiallyCastling = atom.at
		}

		if potentiallyCastling != paco.NoSquare && atom.isPlace() {
			if atom.kind == atomEndCalm {
				last := &result[len(result)-1]
				from := int(potentiallyCastling)
				to := int(atom.at)
				if to-from == 2 {
					last.Label = "0-0"
					last.ActionIndex = i + initialIndex + 1
					alreadySquashed = true
					continue
				}
				if to-from == -2 {
					last.Label = "0-0-0"
					last.ActionIndex = i + initialIndex + 1
					alreadySquashed = true
					continue
				}
			}
		}

		switch {
		case !alreadySquashed && atom.isPlace():
			last := &result[len(result)-1]
			last.Label += atom.String()
			last.ActionIndex = i + initialIndex + 1
			alreadySquashed = true
		case atom.isLift() && i >= 1:
			result = append(result, HalfMoveSection{ActionIndex: i + initialIndex + 1, Label: ":" + atom.String()})
		default:
			result = append(result, HalfMoveSection{ActionIndex: i + initialIndex + 1, Label: atom.String()})
		}
	}

	return result
}

// sortActionsIntoHalfMoves splits a flat action list into per-player turns,
// a turn ending whenever ControllingPlayer changes.
func sortActionsIntoHalfMoves(initial *paco.Board, actions []paco.Action) ([][]paco.Action, error) {
	var halfMoves [][]paco.Action
	board := initial.Clone()
	currentPlayer := board.ControllingPlayer()
	i := 0

	for i < len(actions) {
		var halfMove []paco.Action
		for i < len(actions) {
			if err := board.Execute(actions[i]); err != nil {
				return nil, err
			}
			halfMove = append(halfMove, actions[i])
			i++
			if board.ControllingPlayer() != currentPlayer {
				currentPlayer = board.ControllingPlayer()
				break
			}
		}
		halfMoves = append(halfMoves, halfMove)
	}

	return halfMoves, nil
}

func deriveNotation(initial *paco.Board, rawHalfMoves [][]paco.Action) ([]HalfMove, error) {
	board := initial.Clone()
	halfMoves := make([]HalfMove, 0, len(rawHalfMoves))
	initialIndex := 0
	moveNumber := 0
	if board.ControllingPlayer() == paco.Black {
		moveNumber = 1
	}

	for _, actions := range rawHalfMoves {
		currentPlayer := board.ControllingPlayer()
		if currentPlayer == paco.White {
			moveNumber++
		}

		atoms := make([]notationAtom, 0, len(actions))
		for _, action := range actions {
			atom, err := applyActionSemantically(board, action)
			if err != nil {
				return nil, err
			}
			atoms = append(atoms, atom)
		}
		sections := squashNotationAtoms(initialIndex, atoms)
		initialIndex += len(actions)

		halfMoves = append(halfMoves, HalfMove{
			MoveNumber:    moveNumber,
			CurrentPlayer: currentPlayer,
			Actions:       sections,
			PacoActions:   actions,
		})
	}

	return halfMoves, nil
}

// annotateŜako fills in GivesŜako, MissedPaco, and GivesOpponentPacoOpportunity
// for every half move, mirroring annotate_sako.
func annotateŜako(initial *paco.Board, halfMoves []HalfMove) error {
	board := initial.Clone()
	currentPlayer := board.ControllingPlayer()
	givingŜakoBefore, err := sako.IsŜako(board, currentPlayer)
	if err != nil {
		return err
	}
	inŜakoBefore, err := sako.IsŜako(board, currentPlayer.Other())
	if err != nil {
		return err
	}

	for i := range halfMoves {
		hm := &halfMoves[i]
		for _, action := range hm.PacoActions {
			if err := board.Execute(action); err != nil {
				return err
			}
		}

		givingŜakoAfter, err := sako.IsŜako(board, currentPlayer)
		if err != nil {
			return err
		}
		inŜakoAfter, err := sako.IsŜako(board, currentPlayer.Other())
		if err != nil {
			return err
		}

		hm.Metadata.GivesŜako = givingŜakoAfter
		hm.Metadata.MissedPaco = givingŜakoBefore && !board.Victory.IsOver()
		hm.Metadata.GivesOpponentPacoOpportunity = inŜakoAfter && !inŜakoBefore

		givingŜakoBefore = inŜakoAfter
		inŜakoBefore = givingŜakoAfter
		currentPlayer = board.ControllingPlayer()
	}

	return nil
}

// annotateChasingPacoIn2 fills in PacoIn2Found/PacoIn2Missed for every half
// move: before a player moves, check whether any chasing-Paco-in-2 attack
// was available to them; after they move, flag whether they actually landed
// on one of those attacking positions.
func annotateChasingPacoIn2(initial *paco.Board, halfMoves []HalfMove) error {
	board := initial.Clone()

	for i := range halfMoves {
		hm := &halfMoves[i]
		if !board.IsSettled() {
			continue
		}

		candidates, err := sako.IsChasingPacoIn2(board, board.ControllingPlayer())
		if err != nil {
			return err
		}

		for _, action := range hm.PacoActions {
			if err := board.Execute(action); err != nil {
				return err
			}
		}

		if len(candidates) == 0 {
			continue
		}
		found := false
		for _, candidate := range candidates {
			if candidate.AttackBoard.InterningHash() == board.InterningHash() {
				found = true
				break
			}
		}
		if found {
			hm.Metadata.PacoIn2Found = true
		} else {
			hm.Metadata.PacoIn2Missed = true
		}
	}

	return nil
}

// Analyze turns a full action history into an annotated replay (spec §7
// "replay analysis"), grounded on history_to_replay_notation /
// history_to_replay_notation_incremental. Unlike the original's incremental,
// progress-reporting variant (built for a WASM UI that streams results to
// the page as they become available), this computes everything in one pass
// since nothing here drives a progressive browser render.
func Analyze(initial *paco.Board, actions []paco.Action) (*Data, error) {
	raw, err := sortActionsIntoHalfMoves(initial, actions)
	if err != nil {
		return nil, err
	}
	halfMoves, err := deriveNotation(initial, raw)
	if err != nil {
		return nil, err
	}
	if err := annotateŜako(initial, halfMoves); err != nil {
		return nil, err
	}
	if err := annotateChasingPacoIn2(initial, halfMoves); err != nil {
		return nil, err
	}

	return &Data{
		Notation: halfMoves,
		Opening:  classifyOpening(initial, actions),
	}, nil
}
