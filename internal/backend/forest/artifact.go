package forest

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"
)

// Format is the only artifact format this package reads.
const Format = "perfpredict.forest/v1"

// leaf marks a missing child, following scikit-learn's tree_.children_left convention.
const leaf = -1

//go:embed schema.json
var artifactSchema string

const artifactSchemaURL = "perfpredict.forest.v1.schema.json"

// ErrInvalidArtifact is returned when the artifact cannot be used as a model.
var ErrInvalidArtifact = errors.New("invalid forest artifact")

// Artifact is the serialized form of a random forest classifier.
type Artifact struct {
	Format   string   `json:"format"   yaml:"format"`
	Features []string `json:"features" yaml:"features"`
	Classes  []int    `json:"classes"  yaml:"classes"`
	Trees    []Tree   `json:"trees"    yaml:"trees"`
}

// Tree is a single decision tree stored as a flat node array; node 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
}

// Node is an internal split (x[Feature] <= Threshold goes Left) or a leaf
// (Left and Right are -1) holding per-class weights in Value.
type Node struct {
	Value     []float64 `json:"value,omitempty"     yaml:"value,omitempty"`
	Threshold float64   `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Feature   int       `json:"feature,omitempty"   yaml:"feature,omitempty"`
	Left      int       `json:"left"                yaml:"left"`
	Right     int       `json:"right"               yaml:"right"`
}

func (n Node) isLeaf() bool {
	return n.Left == leaf && n.Right == leaf
}

// ReadArtifact reads, schema-validates and structurally checks an artifact file.
// JSON and YAML encodings are both accepted.
func ReadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("forest: failed to read artifact: %w", err)
	}

	return ParseArtifact(data)
}

// ParseArtifact decodes and checks an artifact.
func ParseArtifact(data []byte) (*Artifact, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(artifactSchemaURL, strings.NewReader(artifactSchema)); err != nil {
		return nil, fmt.Errorf("forest: failed to load schema: %w", err)
	}
	schema, err := compiler.Compile(artifactSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("forest: failed to compile schema: %w", err)
	}

	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	var a Artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	if err := a.check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	return &a, nil
}

// check enforces what the schema cannot: children point forward (so every walk
// terminates), split features exist, and leaves carry one weight per class.
func (a *Artifact) check() error {
	for t, tree := range a.Trees {
		for i, n := range tree.Nodes {
			if n.isLeaf() {
				if len(n.Value) != len(a.Classes) {
					return fmt.Errorf("tree %d node %d: leaf has %d weights, want %d", t, i, len(n.Value), len(a.Classes))
				}
				var total float64
				for _, w := range n.Value {
					total += w
				}
				if total == 0 {
					return fmt.Errorf("tree %d node %d: leaf weights sum to zero", t, i)
				}
				continue
			}

			if n.Left <= i || n.Right <= i || n.Left >= len(tree.Nodes) || n.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d: children %d/%d out of order or range", t, i, n.Left, n.Right)
			}
			if n.Feature >= len(a.Features) {
				return fmt.Errorf("tree %d node %d: feature index %d out of range", t, i, n.Feature)
			}
		}
	}

	return nil
}
