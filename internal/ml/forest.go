package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// leafIndex marks an absent child in the flat node array.
const leafIndex = -1

var (
	// ErrFeatureCount is returned when a record does not match the trained arity.
	ErrFeatureCount = errors.New("feature count mismatch")
	// ErrInvalidForest is returned when a decoded artifact fails structural checks.
	ErrInvalidForest = errors.New("invalid forest")
)

// Node is a single split or leaf in a tree.
// Samples with features[Feature] <= Threshold go to Left.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value"`
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool {
	return n.Left == leafIndex && n.Right == leafIndex
}

// Tree is a decision tree stored as a flat node array rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Forest is a random forest classifier. Its probability vector is the mean of
// the normalized leaf class distributions of all trees.
type Forest struct {
	Version   string `json:"version"`
	NFeatures int    `json:"n_features"`
	Classes   []int  `json:"classes"`
	Trees     []Tree `json:"trees"`

	nClasses  int
	validated bool
}

// LoadForest reads and validates a forest artifact from disk.
func LoadForest(path string) (*Forest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer file.Close()

	forest, err := DecodeForest(file)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return forest, nil
}

// DecodeForest decodes a JSON forest artifact and validates its structure.
func DecodeForest(r io.Reader) (*Forest, error) {
	var f Forest
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// NumFeatures implements Classifier.
func (f *Forest) NumFeatures() int {
	return f.NFeatures
}

// PredictProba implements Classifier.
func (f *Forest) PredictProba(features []float64) ([]float64, error) {
	if f == nil || !f.validated {
		return nil, fmt.Errorf("%w: model not initialized", ErrInvalidForest)
	}
	if len(features) != f.NFeatures {
		return nil, fmt.Errorf("%w: expected %d features, got %d", ErrFeatureCount, f.NFeatures, len(features))
	}

	proba := make([]float64, f.nClasses)
	for i := range f.Trees {
		leaf := f.Trees[i].leaf(features)
		total := 0.0
		for _, v := range leaf.Value {
			total += v
		}
		for c, v := range leaf.Value {
			proba[c] += v / total
		}
	}

	n := float64(len(f.Trees))
	for c := range proba {
		proba[c] /= n
	}
	return proba, nil
}

func (t *Tree) leaf(features []float64) Node {
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.IsLeaf() {
			return node
		}
		if features[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}

// validate checks everything PredictProba relies on so scoring never indexes
// out of range or loops. Children always point forward in the node array.
func (f *Forest) validate() error {
	if f.NFeatures <= 0 {
		return fmt.Errorf("%w: n_features must be positive, got %d", ErrInvalidForest, f.NFeatures)
	}
	if len(f.Classes) < 2 {
		return fmt.Errorf("%w: expected at least 2 classes, got %d", ErrInvalidForest, len(f.Classes))
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("%w: no trees", ErrInvalidForest)
	}

	for ti, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("%w: tree %d has no nodes", ErrInvalidForest, ti)
		}
		for ni, node := range tree.Nodes {
			if node.IsLeaf() {
				if len(node.Value) != len(f.Classes) {
					return fmt.Errorf("%w: tree %d node %d has %d values for %d classes",
						ErrInvalidForest, ti, ni, len(node.Value), len(f.Classes))
				}
				total := 0.0
				for _, v := range node.Value {
					if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
						return fmt.Errorf("%w: tree %d node %d has invalid value %v", ErrInvalidForest, ti, ni, v)
					}
					total += v
				}
				if total == 0 {
					return fmt.Errorf("%w: tree %d node %d is an empty leaf", ErrInvalidForest, ti, ni)
				}
				continue
			}
			if node.Feature < 0 || node.Feature >= f.NFeatures {
				return fmt.Errorf("%w: tree %d node %d feature %d out of range", ErrInvalidForest, ti, ni, node.Feature)
			}
			if node.Left <= ni || node.Left >= len(tree.Nodes) || node.Right <= ni || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("%w: tree %d node %d has invalid children (%d, %d)",
					ErrInvalidForest, ti, ni, node.Left, node.Right)
			}
		}
	}

	f.nClasses = len(f.Classes)
	f.validated = true
	return nil
}
