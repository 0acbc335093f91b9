package forest

import (
	"fmt"

	"github.com/ekisa-team/perfpredict/internal/backend"
)

// Forest is a loaded, immutable random forest classifier. It is safe for
// concurrent use.
type Forest struct {
	features []string
	classes  []int
	trees    [][]Node
}

// New builds a Forest from a checked artifact. Leaf weights are normalized so
// each tree contributes a probability distribution.
func New(a *Artifact) *Forest {
	f := &Forest{
		features: append([]string(nil), a.Features...),
		classes:  append([]int(nil), a.Classes...),
		trees:    make([][]Node, len(a.Trees)),
	}

	for t, tree := range a.Trees {
		nodes := make([]Node, len(tree.Nodes))
		for i, n := range tree.Nodes {
			if n.isLeaf() {
				var total float64
				for _, w := range n.Value {
					total += w
				}
				probs := make([]float64, len(n.Value))
				for c, w := range n.Value {
					probs[c] = w / total
				}
				n.Value = probs
			}
			nodes[i] = n
		}
		f.trees[t] = nodes
	}

	return f
}

// Features returns the column names the forest expects, in order.
func (f *Forest) Features() []string {
	return append([]string(nil), f.features...)
}

// Classes returns the class codes the forest can predict.
func (f *Forest) Classes() []int {
	return append([]int(nil), f.classes...)
}

// Proba averages the per-tree class distributions for one row.
func (f *Forest) Proba(row []float64) ([]float64, error) {
	if len(row) != len(f.features) {
		return nil, fmt.Errorf("%w: got %d, want %d", backend.ErrFeatureCount, len(row), len(f.features))
	}

	sum := make([]float64, len(f.classes))
	for _, nodes := range f.trees {
		n := nodes[0]
		for !n.isLeaf() {
			if row[n.Feature] <= n.Threshold {
				n = nodes[n.Left]
			} else {
				n = nodes[n.Right]
			}
		}
		for c, p := range n.Value {
			sum[c] += p
		}
	}

	for c := range sum {
		sum[c] /= float64(len(f.trees))
	}

	return sum, nil
}

// Predict returns the most probable class code for each row. Ties go to the
// class listed first.
func (f *Forest) Predict(rows [][]float64) ([]int, error) {
	if err := backend.CheckMatrix(rows, len(f.features)); err != nil {
		return nil, err
	}

	codes := make([]int, len(rows))
	for r, row := range rows {
		proba, err := f.Proba(row)
		if err != nil {
			return nil, err
		}

		best := 0
		for c := 1; c < len(proba); c++ {
			if proba[c] > proba[best] {
				best = c
			}
		}
		codes[r] = f.classes[best]
	}

	return codes, nil
}
