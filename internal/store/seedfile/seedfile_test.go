package seedfile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoapp/internal/store/seedfile"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		file    string
		content string
		expErr  bool
		expLen  int
	}{
		"A JSON seed should load.": {
			file:    "seed.json",
			content: `[{"id":"1","title":"a","completed":true,"createdAt":"2026-03-01T10:00:00Z","updatedAt":"2026-03-01T10:00:00Z"},{"id":"2","title":"b"}]`,
			expLen:  2,
		},
		"A YAML seed should load.": {
			file: "seed.yaml",
			content: `
- id: "1"
  title: a
  completed: true
  createdAt: 2026-03-01T10:00:00Z
  updatedAt: 2026-03-01T10:00:00Z
`,
			expLen: 1,
		},
		"An empty list is a valid seed.": {
			file:    "seed.yml",
			content: `[]`,
			expLen:  0,
		},
		"Duplicate ids should be rejected.": {
			file:    "seed.json",
			content: `[{"id":"1","title":"a"},{"id":"1","title":"b"}]`,
			expErr:  true,
		},
		"Missing titles should be rejected.": {
			file:    "seed.json",
			content: `[{"id":"1"}]`,
			expErr:  true,
		},
		"Unknown extensions should be rejected.": {
			file:    "seed.toml",
			content: `x = 1`,
			expErr:  true,
		},
		"Broken JSON should fail.": {
			file:    "seed.json",
			content: `[{`,
			expErr:  true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			items, err := seedfile.Load(write(t, test.file, test.content))
			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, items, test.expLen)
			if test.expLen > 0 {
				assert.Equal(t, "1", items[0].ID)
				assert.True(t, items[0].Completed)
				assert.True(t, created.Equal(items[0].CreatedAt))
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := seedfile.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, seedfile.ErrNoSeed)
}
