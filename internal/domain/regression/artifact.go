package regression

import (
	"github.com/okian/salarypredict/internal/domain/encoding"
)

// Supported model kinds.
const (
	KindRandomForest = "random_forest"
	KindLinear       = "linear"
)

// Artifact is the on-disk form of a trained regressor.
type Artifact struct {
	Kind         string         `json:"kind"`
	Version      string         `json:"version"`
	Target       string         `json:"target,omitempty"`
	FeatureNames []string       `json:"feature_names"`
	Trees        []TreeArtifact `json:"trees,omitempty"`
	Coefficients []float64      `json:"coefficients,omitempty"`
	Intercept    float64        `json:"intercept,omitempty"`
	Encoding     *encoding.Spec `json:"encoding,omitempty"`
}

// TreeArtifact is one regression tree stored as a flat node array; node 0 is
// the root.
type TreeArtifact struct {
	Nodes []Node `json:"nodes"`
}

// Node is a split or a leaf. Leaves have Left == Right == -1 and carry Value.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

func (n Node) leaf() bool { return n.Left == -1 && n.Right == -1 }
