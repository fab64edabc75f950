package paco

import (
	"encoding/json"
	"fmt"
)

// ActionKind tags the Action sum type.
type ActionKind uint8

const (
	ActionLift ActionKind = iota
	ActionPlace
	ActionPromote
)

// Action is the atomic unit the move generator advertises and executes:
// Lift(square) | Place(square) | Promote(PieceType).
type Action struct {
	Kind    ActionKind
	Square  Square    // valid for Lift/Place
	Promote PieceType // valid for Promote
}

// Lift builds a Lift action.
func Lift(sq Square) Action { return Action{Kind: ActionLift, Square: sq} }

// Place builds a Place action.
func Place(sq Square) Action { return Action{Kind: ActionPlace, Square: sq} }

// PromoteTo builds a Promote action.
func PromoteTo(pt PieceType) Action { return Action{Kind: ActionPromote, Promote: pt} }

// String renders the action for logs and error messages.
func (a Action) String() string {
	switch a.Kind {
	case ActionLift:
		return fmt.Sprintf("Lift(%s)", a.Square)
	case ActionPlace:
		return fmt.Sprintf("Place(%s)", a.Square)
	case ActionPromote:
		return fmt.Sprintf("Promote(%s)", a.Promote)
	default:
		return "Action(?)"
	}
}

// ActionIndex maps an action to its neural-net policy slot (spec §4.8):
// Lift -> 1+square, Place -> 65+square, Promote -> 129..132. Index 0 is
// reserved for the value head and is never returned here.
func ActionIndex(a Action) int {
	switch a.Kind {
	case ActionLift:
		return 1 + int(a.Square)
	case ActionPlace:
		return 65 + int(a.Square)
	case ActionPromote:
		for i, pt := range PromotionPieceTypes {
			if pt == a.Promote {
				return 129 + i
			}
		}
	}
	return -1
}

// ActionFromIndex is the inverse of ActionIndex (spec §8 invariant #7).
func ActionFromIndex(idx int) (Action, bool) {
	switch {
	case idx >= 1 && idx <= 64:
		return Lift(Square(idx - 1)), true
	case idx >= 65 && idx <= 128:
		return Place(Square(idx - 65)), true
	case idx >= 129 && idx <= 132:
		return PromoteTo(PromotionPieceTypes[idx-129]), true
	default:
		return Action{}, false
	}
}

// MarshalJSON renders the action as the wire's tagged union: {"Lift": N},
// {"Place": N}, {"Promote": "Rook"|"Knight"|"Bishop"|"Queen"} (spec §6
// "Action wire format").
func (a Action) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case ActionLift:
		return json.Marshal(struct {
			Lift Square `json:"Lift"`
		}{a.Square})
	case ActionPlace:
		return json.Marshal(struct {
			Place Square `json:"Place"`
		}{a.Square})
	case ActionPromote:
		return json.Marshal(struct {
			Promote string `json:"Promote"`
		}{a.Promote.String()})
	default:
		return nil, fmt.Errorf("cannot marshal action with unknown kind %d", a.Kind)
	}
}

// UnmarshalJSON parses the wire's tagged union back into an Action.
func (a *Action) UnmarshalJSON(data []byte) error {
	var tagged struct {
		Lift    *Square `json:"Lift"`
		Place   *Square `json:"Place"`
		Promote *string `json:"Promote"`
	}
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	switch {
	case tagged.Lift != nil:
		*a = Lift(*tagged.Lift)
	case tagged.Place != nil:
		*a = Place(*tagged.Place)
	case tagged.Promote != nil:
		pt, ok := PieceTypeFromName(*tagged.Promote)
		if !ok {
			return fmt.Errorf("unknown promotion piece type %q", *tagged.Promote)
		}
		*a = PromoteTo(pt)
	default:
		return fmt.Errorf("action JSON must have exactly one of Lift/Place/Promote")
	}
	return nil
}

// RequiredActionState is what atomic action must come next (spec §3
// "Required action"). It is never stored directly: Board derives it on
// demand from three independent fields (Hand, the pending-promotion square,
// and whether the game has already ended), mirroring the original engine's
// DenseBoard, which likewise has no RequiredAction field — only
// `lifted_piece`, `promotion: Option<BoardPosition>`, and `current_player`,
// with `controlling_player()` differing from `current_player()` only while
// a promotion is pending. See Board.Required and Board.ControllingPlayer.
type RequiredActionState uint8

const (
	RequireLift RequiredActionState = iota
	RequirePlace
	RequirePromoteThenLift
	RequirePromoteThenPlace
	RequirePromoteThenFinish
)

// String renders the state for logs.
func (r RequiredActionState) String() string {
	switch r {
	case RequireLift:
		return "Lift"
	case RequirePlace:
		return "Place"
	case RequirePromoteThenLift:
		return "PromoteThenLift"
	case RequirePromoteThenPlace:
		return "PromoteThenPlace"
	case RequirePromoteThenFinish:
		return "PromoteThenFinish"
	default:
		return "?"
	}
}

// IsPromotion reports whether the next action must be a Promote.
func (r RequiredActionState) IsPromotion() bool {
	return r == RequirePromoteThenLift || r == RequirePromoteThenPlace || r == RequirePromoteThenFinish
}

// VictoryState is the terminal/non-terminal game outcome (spec §3).
type VictoryState struct {
	Kind  VictoryKind
	Color Color // valid for PacoVictory/TimeoutVictory
}

// VictoryKind tags VictoryState.
type VictoryKind uint8

const (
	Running VictoryKind = iota
	PacoVictory
	TimeoutVictory
	NoProgressDraw
	RepetitionDraw
)

// IsOver reports whether the game has ended.
func (v VictoryState) IsOver() bool {
	return v.Kind != Running
}

// String renders the victory state for logs/UI.
func (v VictoryState) String() string {
	switch v.Kind {
	case Running:
		return "Running"
	case PacoVictory:
		return fmt.Sprintf("PacoVictory(%s)", v.Color)
	case TimeoutVictory:
		return fmt.Sprintf("TimeoutVictory(%s)", v.Color)
	case NoProgressDraw:
		return "NoProgressDraw"
	case RepetitionDraw:
		return "RepetitionDraw"
	default:
		return "?"
	}
}
