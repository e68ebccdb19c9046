package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/holdgraph/holdgraph/internal/model"
)

// ParseGroup parses a YAML group-structure file. The entities section is
// optional; edges are required (an explicitly empty list is accepted and
// yields an empty report).
func ParseGroup(data []byte) (*model.GroupInput, error) {
	var input model.GroupInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("parse group file: %w", err)
	}

	for _, e := range input.Entities {
		if e.Name == "" {
			return nil, fmt.Errorf("entity with empty name")
		}
		if e.PriorityClass != "" && !e.PriorityClass.Valid() {
			return nil, fmt.Errorf("entity %q: unknown priority class %q", e.Name, e.PriorityClass)
		}
	}
	for i, e := range input.Edges {
		if e.Owner == "" || e.Owned == "" {
			return nil, fmt.Errorf("edge %d: owner and owned are required", i)
		}
	}
	return &input, nil
}

// GroupName returns the group name, falling back to the source filename
func GroupName(input *model.GroupInput, sourcePath string) string {
	if input.Group != "" {
		return input.Group
	}
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
