package uciwire

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/pacosako/engine/internal/mcts"
	"github.com/pacosako/engine/internal/paco"
	"github.com/pacosako/engine/internal/sako"
)

// Evaluator is the boundary the driven MCTS suspends at; HeuristicEvaluator
// is the only implementation shipped in this module, but the driver only
// depends on the interface so a trained-network evaluator can be dropped in
// without touching the command loop.
type Evaluator interface {
	Evaluate(board *paco.Board) mcts.ModelEvaluation
}

// Driver reads line commands from stdin and prints results to stdout,
// mirroring the teacher's internal/uci.UCI command loop shape (a
// bufio.Scanner line loop dispatching on the first whitespace-separated
// token) but speaking a Paco Ŝako-native protocol instead of UCI, since
// Paco Ŝako's Lift/Place/Promote actions have no UCI equivalent.
type Driver struct {
	evaluator Evaluator
	board     *paco.Board
	maxNodes  int
}

// New creates a driver over a fresh starting position.
func New(evaluator Evaluator, maxNodes int) *Driver {
	return &Driver{evaluator: evaluator, board: paco.NewBoard(), maxNodes: maxNodes}
}

// Run reads commands from in and writes responses to out until EOF or
// "quit".
func (d *Driver) Run(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd := fields[0]
		args := fields[1:]

		switch cmd {
		case "uci":
			fmt.Fprintln(out, "id name pacosako-engine")
			fmt.Fprintln(out, "pacosakoready")
		case "isready":
			fmt.Fprintln(out, "readyok")
		case "position":
			d.handlePosition(args, out)
		case "legalactions":
			d.handleLegalActions(out)
		case "go":
			d.handleGo(args, out)
		case "quit":
			return
		default:
			fmt.Fprintf(out, "info string unknown command %q\n", cmd)
		}
	}
}

func (d *Driver) handlePosition(args []string, out io.Writer) {
	if len(args) == 0 {
		fmt.Fprintln(out, "info string position requires an argument")
		return
	}
	if args[0] == "startpos" {
		d.board = paco.NewBoard()
		return
	}
	if args[0] == "fen" {
		fen := strings.Join(args[1:], " ")
		board, err := paco.ParseFEN(fen)
		if err != nil {
			fmt.Fprintf(out, "info string bad fen: %v\n", err)
			return
		}
		d.board = board
		return
	}
	fmt.Fprintf(out, "info string unknown position form %q\n", args[0])
}

func (d *Driver) handleLegalActions(out io.Writer) {
	actions, err := sako.LegalActions(d.board)
	if err != nil {
		fmt.Fprintf(out, "info string legal action filter failed: %v\n", err)
		actions = paco.Actions(d.board)
	}
	for _, action := range actions {
		fmt.Fprintln(out, action.String())
	}
}

// handleGo runs the driven MCTS to completion (tree-size bound) and prints
// the chosen best action, logging progress the way the teacher's engine
// logs search info lines.
func (d *Driver) handleGo(args []string, out io.Writer) {
	maxNodes := d.maxNodes
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == "maxnodes" {
			if n, err := strconv.Atoi(args[i+1]); err == nil {
				maxNodes = n
			}
		}
	}

	tree := mcts.New(d.board, maxNodes, maxNodes*4)
	for {
		result := tree.Poll()
		switch result.Kind {
		case mcts.Evaluate:
			tree.SubmitEvaluation(d.evaluator.Evaluate(result.Board))
		case mcts.AtMaxSize, mcts.OutOfFreeBackpropagations:
			log.Printf("[offline] search stopped: %v, tree size %d", result.Kind, tree.Size())
			action, ok := tree.BestAction()
			if !ok {
				fmt.Fprintln(out, "bestaction none")
				return
			}
			fmt.Fprintf(out, "bestaction %s\n", action.String())
			return
		}
	}
}
