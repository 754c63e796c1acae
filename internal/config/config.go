// seehuhn.de/go/lineart - trace the vector graphics of PDF pages
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package config reads the optional configuration file of the lineart
// command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/lineart"
)

// Config holds the settings which can be given in a configuration file.
// Command line flags take precedence.
type Config struct {
	Mode         string `yaml:"mode,omitempty" toml:"mode"`
	Clips        bool   `yaml:"clips,omitempty" toml:"clips"`
	Layers       bool   `yaml:"layers,omitempty" toml:"layers"`
	Strict       bool   `yaml:"strict,omitempty" toml:"strict"`
	Stream       bool   `yaml:"stream,omitempty" toml:"stream"`
	Workers      int    `yaml:"workers,omitempty" toml:"workers"`
	PNG          string `yaml:"png,omitempty" toml:"png"`
	MaxFormDepth int    `yaml:"max_form_depth,omitempty" toml:"max_form_depth"`
}

// DefaultNames lists the file names tried by [LoadOptional], in order.
var DefaultNames = []string{"lineart.yaml", "lineart.yml", "lineart.toml"}

// Load reads a configuration file.  The format is chosen by the file
// name extension: ".yaml" and ".yml" for YAML, ".toml" for TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		_, err = toml.Decode(string(data), &cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOptional reads the first of the [DefaultNames] present in dir.
// If there is no such file, an empty configuration is returned.
func LoadOptional(dir string) (*Config, error) {
	for _, name := range DefaultNames {
		path := filepath.Join(dir, name)
		_, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return Load(path)
	}
	return &Config{}, nil
}

func (cfg *Config) validate() error {
	if cfg.Mode != "" {
		if _, err := lineart.ParseMode(cfg.Mode); err != nil {
			return err
		}
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("negative number of workers %d", cfg.Workers)
	}
	if cfg.MaxFormDepth < 0 {
		return fmt.Errorf("negative form depth %d", cfg.MaxFormDepth)
	}
	return nil
}
