package routine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rutina.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantRaw string
		isEmpty bool
	}{
		{
			name:    "valid array",
			path:    func(t *testing.T) string { return writeFile(t, `[{"dia":"lunes","ejercicios":["sentadilla"]}]`) },
			wantRaw: `[{"dia":"lunes","ejercicios":["sentadilla"]}]`,
		},
		{
			name:    "object is passed through",
			path:    func(t *testing.T) string { return writeFile(t, `{"nombre": "fuerza"}`) },
			wantRaw: `{"nombre": "fuerza"}`,
		},
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
			wantRaw: `[]`,
			isEmpty: true,
		},
		{
			name:    "corrupt file",
			path:    func(t *testing.T) string { return writeFile(t, `[{"dia":`) },
			wantRaw: `[]`,
			isEmpty: true,
		},
		{
			name:    "directory instead of file",
			path:    func(t *testing.T) string { return t.TempDir() },
			wantRaw: `[]`,
			isEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Load(context.Background(), tt.path(t))
			require.NotNil(t, r)
			assert.Equal(t, tt.wantRaw, string(r.Raw()))
			if tt.isEmpty {
				assert.Equal(t, "[]", r.Pretty())
			}
		})
	}
}

func TestPretty(t *testing.T) {
	r := Load(context.Background(), writeFile(t, `{"a":[1,2]}`))
	assert.Equal(t, "{\n  \"a\": [\n    1,\n    2\n  ]\n}", r.Pretty())
	assert.Equal(t, "[]", Empty().Pretty())
}
