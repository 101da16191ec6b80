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

package broker

import (
	"code.vegaprotocol.io/vamm/config/encoding"
	"code.vegaprotocol.io/vamm/logging"
)

const namedLogger = "broker"

// Config represents the configuration of the broker.
type Config struct {
	Level     encoding.LogLevel `description:"Logging level (default: info)"                 long:"log-level"`
	LogEvents encoding.Bool     `description:"Log every event sent through the broker"        long:"log-events"`
	EventFile string            `description:"Append events as JSON lines to the given file" long:"event-file"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level:     encoding.LogLevel{Level: logging.InfoLevel},
		LogEvents: true,
	}
}
