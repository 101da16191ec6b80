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

package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"code.vegaprotocol.io/vamm/config/encoding"
	"code.vegaprotocol.io/vamm/logging"
)

const (
	namedLogger = "snapshot"
	goLevelDB   = "GOLevelDB"
	memDB       = "memory"

	defaultDBDir = "snapshots"
)

var ErrInvalidSnapshotStorageMethod = errors.New("invalid snapshot storage method")

type Config struct {
	Level       encoding.LogLevel `choice:"debug"                                  choice:"info" choice:"warning" choice:"error" choice:"panic" choice:"fatal" description:"Logging level (default: info)" long:"log-level"`
	Storage     string            `choice:"GOLevelDB"                              choice:"memory" description:"Storage type to use" long:"storage"`
	DBPath      string            `description:"Path to database"                  long:"db-path"`
	CacheSize   int               `description:"Number of decoded market snapshots to cache" long:"cache-size"`
	OpenTimeout encoding.Duration `description:"How long to wait for a locked database"     long:"open-timeout"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:       encoding.LogLevel{Level: logging.InfoLevel},
		Storage:     goLevelDB,
		CacheSize:   128,
		OpenTimeout: encoding.Duration{Duration: 5 * time.Second},
	}
}

func NewTestConfig() Config {
	cfg := NewDefaultConfig()
	cfg.Storage = memDB
	return cfg
}

// validate checks the values in the config file are sensible, and returns the path
// which is create/load the snapshots from.
func (c *Config) validate(home string) (string, error) {
	if len(c.DBPath) != 0 && c.Storage == memDB {
		return "", errors.New("dbpath cannot be set when storage method is in-memory")
	}
	if c.CacheSize < 0 {
		return "", errors.New("cache size cannot be negative")
	}

	switch c.Storage {
	case memDB:
		return "", nil
	case goLevelDB:
		if len(c.DBPath) == 0 {
			return filepath.Join(home, defaultDBDir), nil
		}

		stat, err := os.Stat(c.DBPath)
		if err != nil {
			if os.IsNotExist(err) {
				return c.DBPath, nil
			}
			return "", err
		}

		if !stat.IsDir() {
			return "", errors.New("snapshot DB path is not a directory")
		}

		return c.DBPath, nil
	default:
		return "", ErrInvalidSnapshotStorageMethod
	}
}
