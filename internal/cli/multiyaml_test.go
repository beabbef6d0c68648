package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tansive/megaplan/pkg/megaplan"
)

func TestParseMultiYAML(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		expected []megaplan.TaskModel
		wantErr  bool
	}{
		{
			name: "several tasks",
			content: `---
name: Quarterly report
responsible: 1000005
executors: [1000006, 1000007]
---
name: Annual report
superTask: p1000001`,
			expected: []megaplan.TaskModel{
				{Name: "Quarterly report", Responsible: 1000005, Executors: []int64{1000006, 1000007}},
				{Name: "Annual report", SuperTask: "p1000001"},
			},
		},
		{
			name:     "single document without separators",
			content:  "name: Single\nstatement: |\n  line one\n  line two\n",
			expected: []megaplan.TaskModel{{Name: "Single", Statement: "line one\nline two\n"}},
		},
		{
			name: "empty documents are skipped",
			content: `---
name: first
---
---
name: second
---`,
			expected: []megaplan.TaskModel{{Name: "first"}, {Name: "second"}},
		},
		{
			name:     "tabs are tolerated",
			content:  "name: tabbed\nexecutors:\n\t- 1000006\n",
			expected: []megaplan.TaskModel{{Name: "tabbed", Executors: []int64{1000006}}},
		},
		{
			name:     "completely empty file",
			content:  ``,
			expected: []megaplan.TaskModel{},
		},
		{
			name:     "only separators",
			content:  "---\n---\n---",
			expected: []megaplan.TaskModel{},
		},
		{
			name:    "unknown field",
			content: "name: x\ncolour: red",
			wantErr: true,
		},
		{
			name:    "invalid YAML",
			content: `invalid: yaml: content:`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := filepath.Join(tmpDir, "tasks.yaml")
			require.NoError(t, os.WriteFile(tmpFile, []byte(tt.content), 0644))

			result, err := ParseMultiYAML[megaplan.TaskModel](tmpFile)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}

	t.Run("file not found", func(t *testing.T) {
		result, err := ParseMultiYAML[megaplan.TaskModel]("nonexistent.yaml")
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestParseMultiYAMLExpandsEnv(t *testing.T) {
	t.Setenv("MP_RESPONSIBLE_NAME", "Weekly sync")
	models, err := ParseMultiYAMLFromBytes[megaplan.CommentModel]([]byte("text: done\nwork: 30\n"))
	require.NoError(t, err)
	assert.Equal(t, []megaplan.CommentModel{{Text: "done", Work: 30}}, models)

	path := filepath.Join(t.TempDir(), "task.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: {{ .ENV.MP_RESPONSIBLE_NAME }}\n"), 0600))
	tasks, err := ParseMultiYAML[megaplan.TaskModel](path)
	require.NoError(t, err)
	assert.Equal(t, []megaplan.TaskModel{{Name: "Weekly sync"}}, tasks)
}
