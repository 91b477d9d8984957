package regression

import "fmt"

type forest struct {
	trees [][]Node
}

func newForest(trees []TreeArtifact, features int) (*forest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: forest without trees", ErrInvalidModel)
	}
	f := &forest{trees: make([][]Node, len(trees))}
	for t, tree := range trees {
		if err := checkTree(tree.Nodes, features); err != nil {
			return nil, fmt.Errorf("%w: tree %d: %w", ErrInvalidModel, t, err)
		}
		f.trees[t] = append([]Node(nil), tree.Nodes...)
	}
	return f, nil
}

// checkTree rejects trees that could index out of range or loop. Children
// must come after their parent, so every walk terminates.
func checkTree(nodes []Node, features int) error {
	if len(nodes) == 0 {
		return fmt.Errorf("no nodes")
	}
	for i, n := range nodes {
		if n.leaf() {
			continue
		}
		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		for _, c := range []int{n.Left, n.Right} {
			if c <= i || c >= len(nodes) {
				return fmt.Errorf("node %d: child %d out of range", i, c)
			}
		}
	}
	return nil
}

// predict averages the leaf values reached in every tree.
func (f *forest) predict(x []float64) float64 {
	var sum float64
	for _, nodes := range f.trees {
		sum += walk(nodes, x)
	}
	return sum / float64(len(f.trees))
}

func walk(nodes []Node, x []float64) float64 {
	i := 0
	for {
		n := nodes[i]
		if n.leaf() {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

type linear struct {
	coef      []float64
	intercept float64
}

func (l *linear) predict(x []float64) float64 {
	y := l.intercept
	for i, c := range l.coef {
		y += c * x[i]
	}
	return y
}
