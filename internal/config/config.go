package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"battery-arbitrage/internal/model"
)

// EnvPrefix marks environment overrides: ARB_SERVER__PORT=9090 sets server.port.
const EnvPrefix = "ARB_"

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`

	// Optional: load device parameters from a separate YAML (e.g. examples/devices/*.yaml).
	// If both DeviceFile and Device are provided, Device overrides DeviceFile.
	DeviceFile string       `yaml:"device_file"`
	Device     DeviceConfig `yaml:"device"`

	Store     StoreConfig     `yaml:"store"`
	Generator GeneratorConfig `yaml:"generator"`
}

type ServerConfig struct {
	Port      int    `yaml:"port"`
	Env       string `yaml:"env"`
	StaticDir string `yaml:"static_dir"`
	DeviceDir string `yaml:"device_dir"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type DeviceConfig struct {
	Name         string  `yaml:"name"`
	CapacityMWh  float64 `yaml:"capacity_mwh"`
	PowerLimitMW float64 `yaml:"power_limit_mw"`
	Efficiency   float64 `yaml:"efficiency"`
}

type StoreConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type GeneratorConfig struct {
	Seed int64 `yaml:"seed"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	d := model.DefaultDevice()
	return &Config{
		Server: ServerConfig{
			Port:      8080,
			Env:       "development",
			StaticDir: "./web/dist",
			DeviceDir: "./examples/devices",
		},
		Logging: LoggingConfig{Level: "info"},
		Device: DeviceConfig{
			Name:         d.Name,
			CapacityMWh:  d.CapacityMWh,
			PowerLimitMW: d.PowerLimitMW,
			Efficiency:   d.Efficiency,
		},
		Store: StoreConfig{TTL: time.Hour},
	}
}

// Load reads path (optional), applies ARB_ environment overrides, merges the
// device file, fills defaults and validates.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), koanfyaml.Parser()); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}

	var fromFile Config
	if err := k.UnmarshalWithConf("", &fromFile, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, err
	}

	c := Default()
	c.merge(fromFile)

	// If device_file is set, load it and merge in any explicit overrides from the config.
	if fromFile.DeviceFile != "" {
		devicePath := fromFile.DeviceFile
		if !filepath.IsAbs(devicePath) && path != "" {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), devicePath)
			if _, err := os.Stat(cand); err == nil {
				devicePath = cand
			}
		}
		loaded, err := LoadDeviceFile(devicePath)
		if err != nil {
			return nil, err
		}
		c.Device = MergeDevice(MergeDevice(Default().Device, loaded), fromFile.Device)
	}
	return c, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) merge(o Config) {
	if o.Server.Port != 0 {
		c.Server.Port = o.Server.Port
	}
	if o.Server.Env != "" {
		c.Server.Env = o.Server.Env
	}
	if o.Server.StaticDir != "" {
		c.Server.StaticDir = o.Server.StaticDir
	}
	if o.Server.DeviceDir != "" {
		c.Server.DeviceDir = o.Server.DeviceDir
	}
	if o.Logging.Level != "" {
		c.Logging.Level = o.Logging.Level
	}
	c.DeviceFile = o.DeviceFile
	c.Device = MergeDevice(c.Device, o.Device)
	if o.Store.TTL != 0 {
		c.Store.TTL = o.Store.TTL
	}
	if o.Generator.Seed != 0 {
		c.Generator.Seed = o.Generator.Seed
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Store.TTL < 0 {
		return errors.New("store.ttl must be >= 0")
	}
	if err := c.Device.ToModel().Validate(); err != nil {
		return fmt.Errorf("device config invalid: %w", err)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

func (d DeviceConfig) ToModel() model.DeviceSpec {
	return model.DeviceSpec{
		Name:         d.Name,
		CapacityMWh:  d.CapacityMWh,
		PowerLimitMW: d.PowerLimitMW,
		Efficiency:   d.Efficiency,
	}
}

// MergeDevice overlays non-zero fields from override onto base.
// This is used when loading a device file and then applying overrides from config or a request.
func MergeDevice(base, override DeviceConfig) DeviceConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CapacityMWh != 0 {
		out.CapacityMWh = override.CapacityMWh
	}
	if override.PowerLimitMW != 0 {
		out.PowerLimitMW = override.PowerLimitMW
	}
	if override.Efficiency != 0 {
		out.Efficiency = override.Efficiency
	}
	return out
}

type deviceFileWrapper struct {
	Device DeviceConfig `yaml:"device"`
}

// LoadDeviceFile reads a preset of the form `device: {...}`.
func LoadDeviceFile(path string) (DeviceConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return DeviceConfig{}, err
	}
	var w deviceFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return DeviceConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Device, nil
}
