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

package api

import (
	"errors"
	"time"

	"code.vegaprotocol.io/vamm/config/encoding"
	"code.vegaprotocol.io/vamm/logging"
)

// namedLogger is the identifier for package and should ideally match the package name
// this is simply emitted as a hierarchical label e.g. 'api.rest'.
const namedLogger = "api.rest"

// Config represents the configuration of the api package.
type Config struct {
	Level          encoding.LogLevel `long:"log-level"`
	Timeout        encoding.Duration `long:"timeout"         description:"Read and write timeout of a request"`
	Port           int               `long:"port"            description:"Listen for connection on port <port>"`
	IP             string            `long:"ip"              description:"Bind to address <ip>"`
	AllowedOrigins []string          `long:"allowed-origins" description:"Origins allowed by CORS, * allows all"`
	ServeMetrics   encoding.Bool     `long:"serve-metrics"   description:"Also serve the prometheus metrics on /metrics"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:          encoding.LogLevel{Level: logging.InfoLevel},
		Timeout:        encoding.Duration{Duration: 5 * time.Second},
		IP:             "127.0.0.1",
		Port:           3008,
		AllowedOrigins: []string{"*"},
		ServeMetrics:   true,
	}
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("api port out of range")
	}
	return nil
}
