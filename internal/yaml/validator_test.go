package yaml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSyntax(t *testing.T) {
	tests := map[string]struct {
		content string
		wantErr bool
	}{
		"valid mapping":      {content: "a: 1\nb:\n  - x\n"},
		"empty document":     {content: ""},
		"multiple documents": {content: "a: 1\n---\nb: 2\n"},
		"unclosed flow":      {content: "a: [1, 2\n", wantErr: true},
		"bad indentation":    {content: "a:\n  b: 1\n c: 2\n", wantErr: true},
		"tab indentation":    {content: "a:\n\tb: 1\n", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidateSyntax(strings.NewReader(tt.content))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("a: [broken\n"), 0o644))

	err := ValidateFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestValidateFile_Missing(t *testing.T) {
	err := ValidateFile(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")
}
