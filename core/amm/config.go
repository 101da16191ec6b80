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

package amm

import (
	"fmt"

	"code.vegaprotocol.io/vamm/config/encoding"
	"code.vegaprotocol.io/vamm/core/types"
	"code.vegaprotocol.io/vamm/logging"
)

const (
	// namedLogger is the identifier for package and should ideally match the package name
	// this is simply emitted as a hierarchical label e.g. 'api.grpc'.
	namedLogger = "amm"
)

const (
	// ClampModeTWAPBand bounds a step to |twap| / BandDenominator.
	ClampModeTWAPBand = "twap-band"
	// ClampModeVolatility bounds a step to StdMultiplier * std plus the
	// elapsed share of |twap| / BandDenominator.
	ClampModeVolatility = "volatility"
	// ClampModeNone lets every sample through.
	ClampModeNone = "none"
)

// ClampConfig describes how far a single sample may move a TWAP.
type ClampConfig struct {
	Mode            encoding.Choice `long:"mode" choice:"twap-band" choice:"volatility" choice:"none" description:"how a single sample is bounded against the current TWAP"`
	BandDenominator uint64          `long:"band-denominator" description:"the band is |twap| divided by this value, 0 disables the band"`
	StdMultiplier   uint64          `long:"std-multiplier" description:"number of standard deviations allowed in volatility mode"`
}

func (c ClampConfig) Validate() error {
	return c.Mode.OneOf(ClampModeTWAPBand, ClampModeVolatility, ClampModeNone)
}

// Config is the configuration of the amm package.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	OracleClamp ClampConfig `group:"OracleClamp" namespace:"oracleclamp"`
	MarkClamp   ClampConfig `group:"MarkClamp"   namespace:"markclamp"`

	MinMarkElapsed  int64         `long:"min-mark-elapsed" description:"minimum number of seconds a mark update is weighted with"`
	NormaliseOracle encoding.Bool `long:"normalise-oracle" description:"pull oracle samples toward the reserve price by at most their confidence"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
		OracleClamp: ClampConfig{
			Mode:            ClampModeTWAPBand,
			BandDenominator: types.DefaultMaxTWAPUpdatePriceBandDenominator,
			StdMultiplier:   3,
		},
		MarkClamp: ClampConfig{
			Mode:            ClampModeTWAPBand,
			BandDenominator: types.DefaultMaxTWAPUpdatePriceBandDenominator,
			StdMultiplier:   3,
		},
		MinMarkElapsed:  1,
		NormaliseOracle: true,
	}
}

func (c Config) Validate() error {
	if err := c.OracleClamp.Validate(); err != nil {
		return fmt.Errorf("oracle clamp: %w", err)
	}
	if err := c.MarkClamp.Validate(); err != nil {
		return fmt.Errorf("mark clamp: %w", err)
	}
	if c.MinMarkElapsed < 0 {
		return fmt.Errorf("min mark elapsed cannot be negative: %d", c.MinMarkElapsed)
	}
	return nil
}
