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

package logging

// Config contains the configurable items for the root logger.
type Config struct {
	Environment string `long:"env" choice:"dev" choice:"prod" description:"logging environment, dev is human readable and prod is json"`
	Level       Level  `long:"level" description:"root log level"`
}

// NewDefaultConfig creates an instance of the package-specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Environment: "dev",
		Level:       DebugLevel,
	}
}

// UnmarshalText lets levels be written as strings in the configuration.
func (l *Level) UnmarshalText(text []byte) error {
	lvl, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

func (l *Level) UnmarshalFlag(s string) error {
	return l.UnmarshalText([]byte(s))
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}
