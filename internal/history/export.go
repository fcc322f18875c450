// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

// exportDocument is the on-disk shape of a history export.
type exportDocument struct {
	ExportedAt  string  `yaml:"exported_at"`
	Count       int     `yaml:"count"`
	Invocations []Entry `yaml:"invocations"`
}

// ExportYAML writes the filtered history to HistoryDir/export.yaml,
// newest-first, and returns the path written.
func (s *Store) ExportYAML(ctx context.Context, opts ListOptions) (string, error) {
	entries, err := s.List(ctx, opts)
	if err != nil {
		return "", err
	}

	doc := exportDocument{
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
		Count:       len(entries),
		Invocations: entries,
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling history export: %w", err)
	}

	path := filepath.Join(s.dir, exportFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
