package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"battery-arbitrage/internal/model"
)

// DevicePreset is a named device file in the presets directory.
type DevicePreset struct {
	ID     string // file name without .yaml, e.g. "2_utility_4h"
	File   string
	Device model.DeviceSpec
}

// ListDevices loads every *.yaml in dir. Invalid files are skipped and
// reported through skipped so callers can log them.
func ListDevices(dir string) (presets []DevicePreset, skipped map[string]error, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	skipped = map[string]error{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		dc, err := LoadDeviceFile(path)
		if err != nil {
			skipped[e.Name()] = err
			continue
		}
		dev := dc.ToModel()
		if err := dev.Validate(); err != nil {
			skipped[e.Name()] = err
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".yaml")
		if dev.Name == "" {
			dev.Name = id
		}
		presets = append(presets, DevicePreset{ID: id, File: path, Device: dev})
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })
	return presets, skipped, nil
}

// LoadPreset resolves a preset id (file name without .yaml) inside dir.
func LoadPreset(dir, id string) (DeviceConfig, error) {
	return LoadDeviceFile(filepath.Join(dir, filepath.Base(id)+".yaml"))
}
