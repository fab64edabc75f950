package mcts

import (
	"testing"

	"github.com/pacosako/engine/internal/paco"
	"github.com/pacosako/engine/internal/tensor"
)

func uniformEvaluation() ModelEvaluation {
	var eval ModelEvaluation
	for i := range eval.Policy {
		eval.Policy[i] = 1.0
	}
	return eval
}

func TestPollEvaluateExpandBestAction(t *testing.T) {
	tr := New(paco.NewBoard(), 2000, 500)

	for i := 0; i < 50; i++ {
		result := tr.Poll()
		switch result.Kind {
		case Evaluate:
			tr.SubmitEvaluation(uniformEvaluation())
		case AtMaxSize, OutOfFreeBackpropagations:
			t.Fatalf("search ended too early at iteration %d: %v", i, result.Kind)
		}
	}

	action, ok := tr.BestAction()
	if !ok {
		t.Fatalf("expected a best action after expansion")
	}
	if tensor.PolicySlot(action) < 0 {
		t.Fatalf("best action %v did not map to a valid policy slot", action)
	}
}

// TestRootNoiseOnlyPerturbsRootPriors checks spec §4.5's "add small
// logit-normal noise at the root for exploration": the root's first
// expansion should use a non-zero RootNoiseSigma, while every other node's
// expansion must still get exactly zero noise.
func TestRootNoiseOnlyPerturbsRootPriors(t *testing.T) {
	tr := New(paco.NewBoard(), 200, 500)
	if tr.RootNoiseSigma <= 0 {
		t.Fatalf("expected a non-zero default RootNoiseSigma, got %v", tr.RootNoiseSigma)
	}

	sawNonRootExpansion := false
	for i := 0; i < 80; i++ {
		result := tr.Poll()
		if result.Kind != Evaluate {
			continue
		}
		leaf := tr.pendingLeaf
		tr.SubmitEvaluation(uniformEvaluation())
		if leaf != tr.rootIdx {
			sawNonRootExpansion = true
			children := tr.nodes[leaf].children
			for _, ei := range children {
				want := float32(1) / float32(len(children))
				if diff := tr.edges[ei].prior - want; diff > 1e-4 || diff < -1e-4 {
					t.Fatalf("non-root prior %v, want noise-free uniform %v", tr.edges[ei].prior, want)
				}
			}
		}
	}
	if !sawNonRootExpansion {
		t.Fatalf("expected at least one non-root expansion in this search")
	}
}

func TestApplyActionReusesSubtree(t *testing.T) {
	tr := New(paco.NewBoard(), 200, 500)
	for i := 0; i < 30; i++ {
		if result := tr.Poll(); result.Kind == Evaluate {
			tr.SubmitEvaluation(uniformEvaluation())
		}
	}

	action, ok := tr.BestAction()
	if !ok {
		t.Fatalf("expected a best action")
	}
	if err := tr.ApplyAction(action); err != nil {
		t.Fatalf("ApplyAction: %v", err)
	}
	if tr.Size() == 0 {
		t.Fatalf("expected a non-empty tree after subtree reuse")
	}
}
