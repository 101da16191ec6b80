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

package markets

import (
	"errors"

	"code.vegaprotocol.io/vamm/config/encoding"
	"code.vegaprotocol.io/vamm/logging"
)

const namedLogger = "markets"

// Config represents the configuration of the markets.
type Config struct {
	Level               encoding.LogLevel `description:"Logging level (default: info)"                          long:"log-level"`
	RejectInvalidOracle encoding.Bool     `description:"Reject oracle samples that are stale or thin"          long:"reject-invalid-oracle"`
	MaxOracleDelay      int64             `description:"Largest oracle delay accepted when rejecting samples" long:"max-oracle-delay"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:               encoding.LogLevel{Level: logging.InfoLevel},
		RejectInvalidOracle: true,
		MaxOracleDelay:      10,
	}
}

func (c Config) Validate() error {
	if c.MaxOracleDelay < 0 {
		return errors.New("max oracle delay cannot be negative")
	}
	return nil
}
