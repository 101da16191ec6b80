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

package metrics

import (
	"errors"

	"code.vegaprotocol.io/vamm/config/encoding"
)

// Config represents the configuration of the metric package.
type Config struct {
	Port    int           `description:"Port to listen on for metrics" long:"port"`
	Path    string        `description:"Path to serve metrics on"      long:"path"`
	Enabled encoding.Bool `description:"Enable metrics collection"     long:"enabled"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Port:    2112,
		Path:    "/metrics",
		Enabled: false,
	}
}

func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("metrics port out of range")
	}
	if len(c.Path) == 0 || c.Path[0] != '/' {
		return errors.New("metrics path must start with /")
	}
	return nil
}
