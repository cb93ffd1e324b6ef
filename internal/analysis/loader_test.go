package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/readmegen/internal/errors"
	"github.com/thomas-vilte/readmegen/internal/models"
)

const jsonAnalysis = `{
	"repo_meta": {"name": "fullstack-app", "owner": "testuser", "stars": 250, "forks": 45,
		"url": "https://github.com/testuser/fullstack-app"},
	"languages": {"JavaScript": 40.0, "TypeScript": 25.0, "Python": 15.0},
	"detected_stack": ["React", "Node.js"],
	"package_manifests": ["package.json"],
	"file_tree_summary": {"total_files": 120, "total_dirs": 25, "max_depth": 6,
		"top_level_structure": ["frontend/", "backend/"]}
}`

const yamlAnalysis = `repo_meta:
  name: cli-tool
  owner: someone
languages:
  Go: 90
  Shell: 10
detected_stack: [Go, Docker]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadFile(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		result, err := LoadFile(writeFile(t, "analysis.json", jsonAnalysis))

		require.NoError(t, err)
		assert.Equal(t, "fullstack-app", result.RepoMeta.Name)
		assert.Equal(t, "JavaScript", result.Languages[0].Name)
		assert.Equal(t, []string{"React", "Node.js"}, result.DetectedStack)
	})

	t.Run("yaml keeps language order", func(t *testing.T) {
		result, err := LoadFile(writeFile(t, "analysis.yml", yamlAnalysis))

		require.NoError(t, err)
		assert.Equal(t, "cli-tool", result.RepoMeta.Name)
		assert.Equal(t, models.Languages{{Name: "Go", Percent: 90}, {Name: "Shell", Percent: 10}}, result.Languages)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))

		require.Error(t, err)
		assert.Equal(t, errors.TypeInvalidInput, errors.TypeOf(err))
	})

	t.Run("invalid file carries its path", func(t *testing.T) {
		path := writeFile(t, "broken.json", `{"repo_meta": `)

		_, err := LoadFile(path)

		var appErr *errors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, errors.TypeInvalidInput, appErr.Type)
		assert.Equal(t, path, appErr.Context["file"])
	})
}

func TestDecode_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "missing repository name",
			input:   `{"repo_meta": {"owner": "x"}}`,
			wantMsg: "Name",
		},
		{
			name:    "negative percentage",
			input:   `{"repo_meta": {"name": "x"}, "languages": {"Go": -5}}`,
			wantMsg: "Percent",
		},
		{
			name:    "negative stars",
			input:   `{"repo_meta": {"name": "x", "stars": -1}}`,
			wantMsg: "Stars",
		},
		{
			name:    "bad url",
			input:   `{"repo_meta": {"name": "x", "url": "not a url"}}`,
			wantMsg: "URL",
		},
		{
			name:    "duplicate language",
			input:   `{"repo_meta": {"name": "x"}, "languages": {"Go": 1, "Go": 2}}`,
			wantMsg: "duplicate key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), FormatJSON)

			require.Error(t, err)
			assert.Equal(t, errors.TypeInvalidInput, errors.TypeOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("a/b.YAML"))
	assert.Equal(t, FormatYAML, FormatFromPath("x.yml"))
	assert.Equal(t, FormatJSON, FormatFromPath("x.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("x"))
}
