package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// WindowConfig describes the native window the playground opens.
type WindowConfig struct {
	Width     int    `toml:"width" yaml:"width"`
	Height    int    `toml:"height" yaml:"height"`
	Title     string `toml:"title" yaml:"title"`
	Resizable bool   `toml:"resizable" yaml:"resizable"`
	VSync     bool   `toml:"vsync" yaml:"vsync"`
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1280,
		Height:    720,
		Title:     "Toy Engine",
		Resizable: true,
		VSync:     true,
	}
}

// ProjectionConfig holds perspective parameters; FovY is in degrees.
type ProjectionConfig struct {
	FovY float32 `toml:"fovy" yaml:"fovy"`
	Near float32 `toml:"near" yaml:"near"`
	Far  float32 `toml:"far" yaml:"far"`
}

type CameraConfig struct {
	Position [3]float32 `toml:"position" yaml:"position"`
	Target   [3]float32 `toml:"target" yaml:"target"`
}

// SkyboxConfig lists the six cube faces. An empty PosX disables the sky.
type SkyboxConfig struct {
	PosX string `toml:"pos_x" yaml:"pos_x"`
	NegX string `toml:"neg_x" yaml:"neg_x"`
	PosY string `toml:"pos_y" yaml:"pos_y"`
	NegY string `toml:"neg_y" yaml:"neg_y"`
	PosZ string `toml:"pos_z" yaml:"pos_z"`
	NegZ string `toml:"neg_z" yaml:"neg_z"`
	Size int    `toml:"size" yaml:"size"`
}

func (s SkyboxConfig) Enabled() bool { return s.PosX != "" }

type Config struct {
	Window     WindowConfig     `toml:"window" yaml:"window"`
	Projection ProjectionConfig `toml:"projection" yaml:"projection"`
	Camera     CameraConfig     `toml:"camera" yaml:"camera"`
	Skybox     SkyboxConfig     `toml:"skybox" yaml:"skybox"`
	Clear      [4]float32       `toml:"clear" yaml:"clear"`
	Debug      bool             `toml:"debug" yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Window: DefaultWindowConfig(),
		Projection: ProjectionConfig{
			FovY: 60,
			Near: 1,
			Far:  10000,
		},
		Camera: CameraConfig{
			Position: [3]float32{0, 400, 800},
			Target:   [3]float32{0, 0, 0},
		},
		Skybox: SkyboxConfig{Size: 512},
	}
}

// ClearColor returns the configured clear color.
func (c Config) ClearColor() Color {
	return Color{c.Clear[0], c.Clear[1], c.Clear[2], c.Clear[3]}
}

// Validate rejects values the renderer cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Projection.FovY <= 0 || c.Projection.FovY >= 180 {
		errs = append(errs, fmt.Errorf("projection fovy %v out of range", c.Projection.FovY))
	}
	if c.Projection.Near <= 0 || c.Projection.Far <= c.Projection.Near {
		errs = append(errs, fmt.Errorf("projection near %v / far %v invalid", c.Projection.Near, c.Projection.Far))
	}
	if c.Skybox.Enabled() && c.Skybox.Size <= 0 {
		errs = append(errs, fmt.Errorf("skybox size %d must be positive", c.Skybox.Size))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a config file over DefaultConfig. Files ending in
// .yaml or .yml are YAML, anything else is TOML. An empty path returns
// the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := decodeConfig(f, filepath.Ext(path), &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfig(r io.Reader, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		return toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg)
	}
}
