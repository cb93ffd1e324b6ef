package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// RepoMetadata describes the scanned repository as reported by the scanner.
type RepoMetadata struct {
	Name          string `json:"name" yaml:"name" validate:"required"`
	Owner         string `json:"owner" yaml:"owner"`
	Description   string `json:"description" yaml:"description"`
	Stars         int    `json:"stars" yaml:"stars" validate:"gte=0"`
	Forks         int    `json:"forks" yaml:"forks" validate:"gte=0"`
	DefaultBranch string `json:"default_branch" yaml:"default_branch"`
	URL           string `json:"url" yaml:"url" validate:"omitempty,url"`
}

// FileTreeSummary describes the shape of the repository file tree.
// TopLevelStructure keeps scan order.
type FileTreeSummary struct {
	TotalFiles        int      `json:"total_files" yaml:"total_files" validate:"gte=0"`
	TotalDirs         int      `json:"total_dirs" yaml:"total_dirs" validate:"gte=0"`
	MaxDepth          int      `json:"max_depth" yaml:"max_depth" validate:"gte=0"`
	TopLevelStructure []string `json:"top_level_structure" yaml:"top_level_structure"`
}

// LanguageShare is one entry of the language breakdown.
type LanguageShare struct {
	Name    string  `validate:"required"`
	Percent float64 `validate:"gte=0"`
}

// Languages is an insertion-ordered mapping from language name to percentage.
// It is encoded as a JSON/YAML object; decoding keeps the key order of the
// source document and rejects duplicate keys.
type Languages []LanguageShare

// AnalysisResult is the aggregate produced by the repository scanner and
// consumed read-only by README generation.
type AnalysisResult struct {
	RepoMeta         RepoMetadata    `json:"repo_meta" yaml:"repo_meta"`
	Languages        Languages       `json:"languages" yaml:"languages" validate:"dive"`
	DetectedStack    []string        `json:"detected_stack" yaml:"detected_stack"`
	PackageManifests []string        `json:"package_manifests" yaml:"package_manifests"`
	FileTreeSummary  FileTreeSummary `json:"file_tree_summary" yaml:"file_tree_summary"`
	Hints            []string        `json:"hints" yaml:"hints"`
}

// Top returns the n languages with the highest percentage, descending.
// Ties keep their original insertion order.
func (l Languages) Top(n int) Languages {
	sorted := make(Languages, len(l))
	copy(sorted, l)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Percent > sorted[j].Percent
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Get returns the percentage for name.
func (l Languages) Get(name string) (float64, bool) {
	for _, s := range l {
		if s.Name == name {
			return s.Percent, true
		}
	}
	return 0, false
}

func (l Languages) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.Percent)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (l *Languages) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("languages: expected object, got %v", tok)
	}

	out := Languages{}
	seen := make(map[string]bool)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("languages: invalid key %v", keyTok)
		}
		var pct float64
		if err := dec.Decode(&pct); err != nil {
			return fmt.Errorf("languages: value for %q: %w", key, err)
		}
		if seen[key] {
			return fmt.Errorf("languages: duplicate key %q", key)
		}
		seen[key] = true
		out = append(out, LanguageShare{Name: key, Percent: pct})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*l = out
	return nil
}

func (l Languages) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, s := range l {
		var key, val yaml.Node
		if err := key.Encode(s.Name); err != nil {
			return nil, err
		}
		if err := val.Encode(s.Percent); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &val)
	}
	return node, nil
}

func (l *Languages) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("languages: expected mapping at line %d", node.Line)
	}

	out := Languages{}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		var pct float64
		if err := node.Content[i+1].Decode(&pct); err != nil {
			return fmt.Errorf("languages: value for %q: %w", key, err)
		}
		if seen[key] {
			return fmt.Errorf("languages: duplicate key %q", key)
		}
		seen[key] = true
		out = append(out, LanguageShare{Name: key, Percent: pct})
	}

	*l = out
	return nil
}
