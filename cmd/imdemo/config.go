// cmd/imdemo/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/mmp/imrender/log"
	"github.com/mmp/imrender/platform"
	"github.com/mmp/imrender/util"
)

const CurrentConfigVersion = 1

type Config struct {
	platform.Config

	Version        int
	ImGuiSettings  string
	FontScale      float32
	ClearColor     [3]float32
	ShowDemoWindow bool
	// Images registered as textures at startup.
	ImageFiles []string
}

func configFilePath(lg *log.Logger) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		lg.Errorf("Unable to find user config dir: %v", err)
		dir = "."
	}

	dir = filepath.Join(dir, "imrender")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		lg.Errorf("%s: unable to make directory for config file: %v", dir, err)
	}

	return filepath.Join(dir, "config.json")
}

func getDefaultConfig() *Config {
	return &Config{
		Config:         platform.DefaultConfig(),
		Version:        CurrentConfigVersion,
		FontScale:      1,
		ClearColor:     [3]float32{0.1, 0.1, 0.12},
		ShowDemoWindow: true,
	}
}

func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}

func (c *Config) Save(lg *log.Logger) error {
	return c.saveTo(configFilePath(lg), lg)
}

func (c *Config) saveTo(fn string, lg *log.Logger) error {
	lg.Infof("Saving config to: %s", fn)
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	return c.Encode(f)
}

// Validate reports problems with the configuration to e and resets the
// offending fields to their defaults.
func (c *Config) Validate(e *util.ErrorLogger) {
	def := getDefaultConfig()

	e.Push("Config")
	defer e.Pop()

	if c.FontScale <= 0 || c.FontScale > 8 {
		e.ErrorString("font scale %.2f must be in (0, 8]", c.FontScale)
		c.FontScale = def.FontScale
	}
	for i, v := range c.ClearColor {
		if v < 0 || v > 1 {
			e.ErrorString("clear color component %d (%.2f) must be between 0 and 1", i, v)
			c.ClearColor = def.ClearColor
			break
		}
	}
	if c.InitialWindowSize[0] < 0 || c.InitialWindowSize[1] < 0 {
		e.ErrorString("invalid window size %v", c.InitialWindowSize)
		c.InitialWindowSize = def.InitialWindowSize
	}
	for _, fn := range c.ImageFiles {
		if _, err := os.Stat(fn); err != nil {
			e.Error(err)
		}
	}
}

func LoadOrMakeDefaultConfig(lg *log.Logger) (*Config, error) {
	return loadConfig(configFilePath(lg), lg)
}

// loadConfig returns the default configuration if fn doesn't exist. If
// it exists but can't be decoded, the default configuration is returned
// along with the decoding error.
func loadConfig(fn string, lg *log.Logger) (*Config, error) {
	lg.Infof("Loading config from: %s", fn)

	contents, err := os.ReadFile(fn)
	if err != nil {
		if !os.IsNotExist(err) {
			lg.Warnf("%s: %v", fn, err)
		}
		return getDefaultConfig(), nil
	}

	config := getDefaultConfig()
	config.Version = 0
	if err := json.NewDecoder(bytes.NewReader(contents)).Decode(config); err != nil {
		return getDefaultConfig(), err
	}

	if config.Version < CurrentConfigVersion {
		// Version 0 files predate sRGB support.
		config.SRGB = true
		config.Version = CurrentConfigVersion
	}

	var e util.ErrorLogger
	config.Validate(&e)
	if e.HaveErrors() {
		e.PrintErrors(lg)
	}

	return config, nil
}
