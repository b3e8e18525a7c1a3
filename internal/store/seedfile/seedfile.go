package seedfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/todoapp/internal/model"
)

// Seed files hold the items the mock store starts with. JSON or YAML,
// picked by extension. The file is only ever read; the store itself keeps
// no state past the process lifetime.

// ErrNoSeed is returned when the file does not exist.
var ErrNoSeed = errors.New("seed file not found")

func Load(path string) ([]model.Item, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNoSeed)
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(filepath.Ext(path), b)
}

// Parse decodes b according to ext (".json", ".yaml" or ".yml").
func Parse(ext string, b []byte) ([]model.Item, error) {
	var items []model.Item
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(b, &items); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &items); err != nil {
			return nil, fmt.Errorf("yaml unmarshal: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported seed format %q", ext)
	}
	if err := check(items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func check(items []model.Item) error {
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		if strings.TrimSpace(it.ID) == "" {
			return fmt.Errorf("item %d: missing id", i)
		}
		if seen[it.ID] {
			return fmt.Errorf("item %d: duplicate id %q", i, it.ID)
		}
		seen[it.ID] = true
		if strings.TrimSpace(it.Title) == "" {
			return fmt.Errorf("item %q: missing title", it.ID)
		}
	}
	return nil
}
