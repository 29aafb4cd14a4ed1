package story

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a story file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported story file extension: %s", filepath.Ext(path))
	}
}

// document is the on-disk shape of a story file.
type document struct {
	StartNodeID NodeID                  `json:"startNodeId" yaml:"startNodeId"`
	Nodes       map[NodeID]documentNode `json:"nodes" yaml:"nodes"`
}

type documentNode struct {
	Node `yaml:",inline"`
	// Older story files carry a flat intro video field.
	IntroVideoURL string `json:"introVideoUrl,omitempty" yaml:"introVideoUrl,omitempty"`
}

// Load reads, decodes and validates the story file at path.
func Load(path string) (*Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story file: %w", err)
	}
	g, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse decodes and validates story data. Unknown fields are rejected.
func Parse(data []byte, format Format) (*Graph, error) {
	var doc document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode story JSON: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode story YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported story format: %q", format)
	}

	nodes := make(map[NodeID]Node, len(doc.Nodes))
	for id, dn := range doc.Nodes {
		n := dn.Node
		if n.IntroMedia == nil && dn.IntroVideoURL != "" {
			n.IntroMedia = &Media{VideoURL: dn.IntroVideoURL}
		}
		if n.IntroMedia.Empty() {
			n.IntroMedia = nil
		}
		nodes[id] = n
	}
	return New(doc.StartNodeID, nodes)
}
