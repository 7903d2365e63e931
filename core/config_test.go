package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
debug = true
clear = [0.1, 0.2, 0.3, 1.0]

[window]
width = 640
title = "box"

[camera]
position = [1.0, 2.0, 3.0]

[skybox]
pos_x = "px.png"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, "box", cfg.Window.Title)
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Camera.Position)
	assert.Equal(t, float32(60), cfg.Projection.FovY)
	assert.True(t, cfg.Skybox.Enabled())
	assert.Equal(t, 512, cfg.Skybox.Size)
	assert.Equal(t, Color{0.1, 0.2, 0.3, 1}, cfg.ClearColor())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigUnknownField(t *testing.T) {
	path := writeConfig(t, "[window]\nwidht = 10\n")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := writeConfig(t, "[projection]\nnear = 10.0\nfar = 5.0\n")
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "far")
}

func TestColorHelpers(t *testing.T) {
	assert.Equal(t, Color{1, 0, 0, 1}, RGB8(255, 0, 0))
	mid := ColorBlack.Lerp(ColorWhite, 0.5)
	assert.InDelta(t, 0.5, mid.R, 1e-6)
	assert.Equal(t, ColorWhite, ColorBlack.Lerp(ColorWhite, 2))
	assert.Equal(t, float32(1), ColorRed.Vec3()[0])
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\nwindow:\n  title: yaml\n  width: 800\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "yaml", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
}

func TestLoadConfigYAMLUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  colour: red\n"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigEmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
