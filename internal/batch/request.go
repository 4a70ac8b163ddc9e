package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Request is one extraction job from a batch file. Name may be empty for an
// analysis-only request.
type Request struct {
	ID             string `yaml:"id" json:"id"`
	File           string `yaml:"file" json:"file"`
	Lines          string `yaml:"lines" json:"lines"`
	Name           string `yaml:"name" json:"name,omitempty"`
	TransformBreak *bool  `yaml:"transform_break" json:"transformBreak,omitempty"`
	Placement      string `yaml:"placement" json:"placement,omitempty"`
}

type requestFile struct {
	Requests []Request `yaml:"requests"`
}

// ParseRequests decodes a YAML request list. Both a bare sequence and a
// mapping with a requests key are accepted.
func ParseRequests(data []byte) ([]Request, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	var reqs []Request
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&reqs); err != nil {
			return nil, fmt.Errorf("failed to decode batch requests: %w", err)
		}
	case yaml.MappingNode:
		var file requestFile
		if err := root.Decode(&file); err != nil {
			return nil, fmt.Errorf("failed to decode batch requests: %w", err)
		}
		reqs = file.Requests
	default:
		return nil, fmt.Errorf("batch file must be a list of requests")
	}

	for i, r := range reqs {
		if r.File == "" {
			return nil, fmt.Errorf("request %d: file is required", i+1)
		}
		if r.Lines == "" {
			return nil, fmt.Errorf("request %d: lines is required", i+1)
		}
	}
	return reqs, nil
}

// LoadRequests reads a batch file. Relative file paths in requests are
// resolved against the batch file's directory.
func LoadRequests(path string) ([]Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	reqs, err := ParseRequests(data)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for i := range reqs {
		if !filepath.IsAbs(reqs[i].File) {
			reqs[i].File = filepath.Join(dir, reqs[i].File)
		}
	}
	return reqs, nil
}
