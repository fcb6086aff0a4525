package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/evo-warden/internal/core"
)

func TestLoadProjectConfig(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		noFile    bool
		wantErr   error
		checkFunc func(t *testing.T, cfg *core.ProjectConfig)
	}{
		{
			name: "full config",
			yaml: "exclude_dirs:\n  - dist\n  - node_modules\nexclude_exts:\n  - .md\n  - lock\ncomplexity_threshold: 15\n",
			checkFunc: func(t *testing.T, cfg *core.ProjectConfig) {
				assert.Equal(t, []string{"dist", "node_modules"}, cfg.ExcludeDirs)
				assert.Equal(t, []string{".md", "lock"}, cfg.ExcludeExts)
				assert.Equal(t, 15, cfg.ComplexityThreshold)
			},
		},
		{
			name: "empty file keeps defaults",
			yaml: "",
			checkFunc: func(t *testing.T, cfg *core.ProjectConfig) {
				assert.Empty(t, cfg.ExcludeDirs)
				assert.Zero(t, cfg.ComplexityThreshold)
			},
		},
		{
			name:    "missing file returns defaults and sentinel",
			noFile:  true,
			wantErr: ErrConfigNotFound,
			checkFunc: func(t *testing.T, cfg *core.ProjectConfig) {
				assert.NotNil(t, cfg)
				assert.Empty(t, cfg.ExcludeDirs)
			},
		},
		{
			name:    "malformed yaml",
			yaml:    "exclude_dirs: [unclosed\n",
			wantErr: ErrConfigParsing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if !tt.noFile {
				path := filepath.Join(dir, ".evo-warden.yml")
				require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))
			}

			cfg, err := LoadProjectConfig(dir)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
			}
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}
