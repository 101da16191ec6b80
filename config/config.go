// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"code.vegaprotocol.io/vamm/api"
	"code.vegaprotocol.io/vamm/broker"
	"code.vegaprotocol.io/vamm/core/amm"
	"code.vegaprotocol.io/vamm/core/markets"
	"code.vegaprotocol.io/vamm/core/snapshot"
	"code.vegaprotocol.io/vamm/logging"
	"code.vegaprotocol.io/vamm/metrics"

	"github.com/BurntSushi/toml"
)

const configFileName = "config.toml"

var ErrConfigExists = errors.New("configuration file already exists")

// Config ties together all other application configuration types.
type Config struct {
	Logging  logging.Config  `group:"Logging"  namespace:"logging"`
	AMM      amm.Config      `group:"AMM"      namespace:"amm"`
	Markets  markets.Config  `group:"Markets"  namespace:"markets"`
	Snapshot snapshot.Config `group:"Snapshot" namespace:"snapshot"`
	Broker   broker.Config   `group:"Broker"   namespace:"broker"`
	Metrics  metrics.Config  `group:"Metrics"  namespace:"metrics"`
	API      api.Config      `group:"API"      namespace:"api"`
}

// NewDefaultConfig returns a set of default configs for all vamm packages.
func NewDefaultConfig() Config {
	return Config{
		Logging:  logging.NewDefaultConfig(),
		AMM:      amm.NewDefaultConfig(),
		Markets:  markets.NewDefaultConfig(),
		Snapshot: snapshot.NewDefaultConfig(),
		Broker:   broker.NewDefaultConfig(),
		Metrics:  metrics.NewDefaultConfig(),
		API:      api.NewDefaultConfig(),
	}
}

// Validate checks every package configuration.
func (c Config) Validate() error {
	if err := c.AMM.Validate(); err != nil {
		return fmt.Errorf("amm: %w", err)
	}
	if err := c.Markets.Validate(); err != nil {
		return fmt.Errorf("markets: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

// Path returns the path of the configuration file in rootPath.
func Path(rootPath string) string {
	return filepath.Join(rootPath, configFileName)
}

// Read loads the configuration from rootPath, every value missing from the
// file keeps its default.
func Read(rootPath string) (*Config, error) {
	cfg := NewDefaultConfig()
	if _, err := toml.DecodeFile(Path(rootPath), &cfg); err != nil {
		return nil, fmt.Errorf("could not read configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to rootPath, an existing file is only
// replaced when overwrite is set.
func Save(rootPath string, cfg Config, overwrite bool) error {
	if err := os.MkdirAll(rootPath, 0o700); err != nil {
		return fmt.Errorf("could not create %s: %w", rootPath, err)
	}
	path := Path(rootPath)
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("could not write configuration: %w", err)
	}
	return nil
}
