package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultViewerConfig(t *testing.T) {
	cfg := DefaultViewerConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, "particlefx", cfg.Storage.AppName)
	assert.Equal(t, color.RGBA{R: 0x19, G: 0x19, B: 0x2a, A: 255}, cfg.BackgroundColor())
}

func TestParseViewerConfig(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *ViewerConfig)
	}{
		{
			name: "覆盖部分字段",
			text: `
[window]
width = 800
title = Sparks Lab

[viewer]
effect = smoke
`,
			validate: func(t *testing.T, cfg *ViewerConfig) {
				assert.Equal(t, 800, cfg.Window.Width)
				assert.Equal(t, 768, cfg.Window.Height, "未设置的字段保留默认值")
				assert.Equal(t, "Sparks Lab", cfg.Window.Title)
				assert.Equal(t, "smoke", cfg.Viewer.Effect)
				assert.Equal(t, 32, cfg.Viewer.MaxEmitters)
			},
		},
		{
			name: "背景色",
			text: "[window]\nbackground = \"#ff0000\"\n",
			validate: func(t *testing.T, cfg *ViewerConfig) {
				assert.Equal(t, color.RGBA{R: 255, A: 255}, cfg.BackgroundColor())
			},
		},
		{
			name: "省略井号",
			text: "[window]\nbackground = 00ff00\n",
			validate: func(t *testing.T, cfg *ViewerConfig) {
				assert.Equal(t, color.RGBA{G: 255, A: 255}, cfg.BackgroundColor())
			},
		},
		{
			name:        "非法背景色",
			text:        "[window]\nbackground = red\n",
			wantErr:     true,
			errContains: "background",
		},
		{
			name:        "窗口尺寸为 0",
			text:        "[window]\nheight = 0\n",
			wantErr:     true,
			errContains: "window size",
		},
		{
			name:        "未知字段",
			text:        "[window]\ndepth = 3\n",
			wantErr:     true,
			errContains: "parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseViewerConfig(tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestViewerConfigValidate(t *testing.T) {
	cfg := DefaultViewerConfig()
	cfg.Storage.AppName = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "appName")

	cfg = DefaultViewerConfig()
	cfg.Viewer.MaxEmitters = -1
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxEmitters")
}

func TestLoadViewerConfig(t *testing.T) {
	cfg, err := LoadViewerConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultViewerConfig(), cfg)

	dir := t.TempDir()
	path := filepath.Join(dir, "viewer.gcfg")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\nappName = lab\n"), 0o644))

	cfg, err = LoadViewerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "lab", cfg.Storage.AppName)

	_, err = LoadViewerConfig(filepath.Join(dir, "missing.gcfg"))
	assert.Error(t, err)
}
