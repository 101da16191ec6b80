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

package amm_test

import (
	"testing"

	"code.vegaprotocol.io/vamm/core/amm"
	"code.vegaprotocol.io/vamm/core/types"
	"code.vegaprotocol.io/vamm/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReloadConf(t *testing.T) {
	e := getTestEngine(t)

	jump := func() *types.AMM {
		a := balancedAMM(40_000_000)
		a.FundingPeriod = 3600
		require.NoError(t, a.SeedTWAPs(40_000_000, 0))
		return a
	}

	a := jump()
	_, err := e.UpdateOraclePriceTWAP(a, 3600, types.OraclePriceData{Price: 100_000_000})
	require.NoError(t, err)
	// capped at a third above the twap
	assert.Equal(t, int64(53_333_333), a.LastOracleNormalisedPrice)

	cfg := amm.NewDefaultConfig()
	cfg.OracleClamp.Mode = amm.ClampModeNone
	cfg.NormaliseOracle = false
	cfg.Level.Level = logging.WarnLevel
	e.ReloadConf(cfg)

	a = jump()
	_, err = e.UpdateOraclePriceTWAP(a, 3600, types.OraclePriceData{Price: 100_000_000})
	require.NoError(t, err)
	assert.Equal(t, int64(100_000_000), a.LastOracleNormalisedPrice)
	assert.Equal(t, int64(100_000_000), a.LastOraclePriceTWAP)
}

func TestConfigValidate(t *testing.T) {
	cfg := amm.NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.MarkClamp.Mode = "sometimes"
	assert.Error(t, cfg.Validate())

	cfg = amm.NewDefaultConfig()
	cfg.MinMarkElapsed = -1
	assert.Error(t, cfg.Validate())
}
