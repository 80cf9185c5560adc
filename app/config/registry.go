package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

const starterRegistry = `minimax:
  display_name: MiniMax
  sources:
    - name: MiniMax Official Blog
      url: https://www.minimax.space/feed
      kind: feed
`

// LoadRegistry reads the followee registry from a YAML file. A missing
// file is not an error: a starter registry is written in its place and
// loaded, so a fresh checkout works out of the box.
func LoadRegistry(path string) (*Registry, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create registry directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(starterRegistry), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write starter registry: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %s: %w", path, err)
	}

	raw := make(map[string]Followee)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", path, err)
	}

	followees := make(map[string]Followee, len(raw))
	for id, followee := range raw {
		followee.ID = id
		if followee.DisplayName == "" {
			followee.DisplayName = id
		}
		for i, source := range followee.Sources {
			if source.Name == "" || source.URL == "" || source.Kind == "" {
				return nil, fmt.Errorf("registry %s: followee %q source %d is missing name, url or kind", path, id, i)
			}
		}
		followees[id] = followee
	}

	return &Registry{Followees: followees}, nil
}

// FolloweeIDs returns the followee ids in sorted order so that ingestion
// runs are deterministic.
func (r *Registry) FolloweeIDs() []string {
	ids := make([]string, 0, len(r.Followees))
	for id := range r.Followees {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Get returns the followee with the given id.
func (r *Registry) Get(id string) (Followee, bool) {
	followee, ok := r.Followees[id]
	return followee, ok
}
