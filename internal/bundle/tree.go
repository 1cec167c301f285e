package bundle

import (
	"context"
	"fmt"
)

// treeNode is one node of a regression tree in flat array form. A node with
// Leaf set carries Value, otherwise it splits on Feature: vector[Feature] <
// Threshold goes to Left, everything else to Right.
type treeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value"`
}

type treeEnsemble struct {
	baseScore float64
	trees     [][]treeNode
	width     int
}

func newTreeEnsemble(baseScore float64, specs []treeSpec, width int) (*treeEnsemble, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("invalid artifact: tree ensemble has no trees")
	}

	trees := make([][]treeNode, 0, len(specs))
	for t, spec := range specs {
		if len(spec.Nodes) == 0 {
			return nil, fmt.Errorf("invalid artifact: tree %d has no nodes", t)
		}
		for i, n := range spec.Nodes {
			if n.Leaf {
				continue
			}
			if n.Feature < 0 || n.Feature >= width {
				return nil, fmt.Errorf("invalid artifact: tree %d node %d splits on feature %d of %d", t, i, n.Feature, width)
			}
			// children always point forward, which also rules out cycles
			if n.Left <= i || n.Left >= len(spec.Nodes) || n.Right <= i || n.Right >= len(spec.Nodes) {
				return nil, fmt.Errorf("invalid artifact: tree %d node %d has invalid children", t, i)
			}
		}
		trees = append(trees, spec.Nodes)
	}

	return &treeEnsemble{baseScore: baseScore, trees: trees, width: width}, nil
}

func (e *treeEnsemble) Predict(_ context.Context, vector []float64) (float64, error) {
	if len(vector) != e.width {
		return 0, fmt.Errorf("tree ensemble expects %d features, got %d", e.width, len(vector))
	}

	sum := e.baseScore
	for _, nodes := range e.trees {
		i := 0
		for !nodes[i].Leaf {
			if vector[nodes[i].Feature] < nodes[i].Threshold {
				i = nodes[i].Left
			} else {
				i = nodes[i].Right
			}
		}
		sum += nodes[i].Value
	}

	return sum, nil
}
