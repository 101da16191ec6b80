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
	"code.vegaprotocol.io/vamm/libs/num"
	"code.vegaprotocol.io/vamm/logging"
)

const (
	pricePrecision   = int64(types.PricePrecision)
	reservePrecision = uint64(types.AMMReservePrecision)
	quotePrecision   = uint64(types.QuotePrecision)
)

func getTestEngine(t *testing.T) *amm.Engine {
	t.Helper()
	return amm.New(logging.NewTestLogger(), amm.NewDefaultConfig())
}

func getTestEngineWithConfig(t *testing.T, update func(*amm.Config)) *amm.Engine {
	t.Helper()
	cfg := amm.NewDefaultConfig()
	update(&cfg)
	return amm.New(logging.NewTestLogger(), cfg)
}

// balancedAMM returns reserves of 2 units each, the reserve price equals the
// peg.
func balancedAMM(peg uint64) *types.AMM {
	return &types.AMM{
		BaseAssetReserve:       num.NewUint(2 * reservePrecision),
		QuoteAssetReserve:      num.NewUint(2 * reservePrecision),
		SqrtK:                  num.NewUint(2 * reservePrecision),
		PegMultiplier:          num.NewUint(peg),
		BaseAssetAmountWithAMM: num.IntZero(),
		QuoteAssetAmount:       num.IntZero(),
	}
}

// btcAMM is a skewed market where traders are net long or short 12.295 BTC.
func btcAMM(net, quote int64) *types.AMM {
	return &types.AMM{
		BaseAssetReserve:       num.NewUint(512_295_081_967),
		QuoteAssetReserve:      num.NewUint(488 * reservePrecision),
		SqrtK:                  num.NewUint(500 * reservePrecision),
		PegMultiplier:          num.NewUint(22_100_000_000),
		BaseAssetAmountWithAMM: num.NewInt(net),
		QuoteAssetAmount:       num.NewInt(quote),
		MaxSpread:              1000,
		FundingPeriod:          3600,
		HistoricalOracleData: types.HistoricalOracleData{
			LastOraclePrice:       22_050 * pricePrecision,
			LastOraclePriceTWAPTs: 1_656_682_258,
		},
	}
}
