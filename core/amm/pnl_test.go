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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateNetUserPnL(t *testing.T) {
	t.Run("flat market has no pnl", func(t *testing.T) {
		a := balancedAMM(1_000_000)
		a.FundingPeriod = 3600
		a.MarkStd = uint64(pricePrecision)
		a.LastOraclePriceTWAP = 32 * pricePrecision

		for _, price := range []int64{1, 32 * pricePrecision, 34 * pricePrecision, 1 << 40} {
			pnl, err := amm.CalculateNetUserPnL(a, price)
			require.NoError(t, err)
			assert.True(t, pnl.IsZero())
		}
	})

	t.Run("longs in profit", func(t *testing.T) {
		// 12.295 long entered at $16,866.66
		a := btcAMM(12_295_081_967, -103_688_524_588*2)
		pnl, err := amm.CalculateNetUserPnL(a, 22_050*pricePrecision)
		require.NoError(t, err)
		// 12295081967 * 22050000000 / 1e9 - 207377049176
		assert.Equal(t, "63729508196", pnl.String())
	})

	t.Run("shorts marked at their entry price break even", func(t *testing.T) {
		a := btcAMM(-12_295_081_967, 153_688_524_588*2)
		pnl, err := amm.CalculateNetUserPnL(a, 25_000*pricePrecision)
		require.NoError(t, err)
		// -12295081967 * 25000000000 / 1e9 + 307377049176, truncated toward zero,
		// leaves one unit of rounding dust
		assert.Equal(t, "1", pnl.String())
	})

	t.Run("non positive prices are rejected", func(t *testing.T) {
		a := balancedAMM(1_000_000)
		for _, price := range []int64{0, -1} {
			_, err := amm.CalculateNetUserPnL(a, price)
			assert.ErrorIs(t, err, amm.ErrNonPositivePrice)
			assert.ErrorIs(t, err, amm.ErrMathError)
		}
	})

	t.Run("state is not modified", func(t *testing.T) {
		a := btcAMM(12_295_081_967, -103_688_524_588*2)
		_, err := amm.CalculateNetUserPnL(a, 22_050*pricePrecision)
		require.NoError(t, err)
		assert.Equal(t, int64(12_295_081_967), a.BaseAssetAmountWithAMM.Int64())
		assert.Equal(t, int64(-207_377_049_176), a.QuoteAssetAmount.Int64())
	})
}

func TestCalculatePositionPnL(t *testing.T) {
	positions := []*types.Position{
		{Party: "alice", BaseAssetAmount: num.NewInt(2_000_000_000), QuoteAssetAmount: num.NewInt(-40_000_000)},
		{Party: "bob", BaseAssetAmount: num.NewInt(-500_000_000), QuoteAssetAmount: num.NewInt(21_000_000)},
	}
	price := 22 * pricePrecision

	alice, err := amm.CalculatePositionPnL(positions[0], price)
	require.NoError(t, err)
	assert.Equal(t, int64(4_000_000), alice.Int64())

	bob, err := amm.CalculatePositionPnL(positions[1], price)
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_000), bob.Int64())

	// the net of all positions values the same as the positions summed
	base, quote := types.NetPositions(positions)
	a := balancedAMM(1_000_000)
	a.BaseAssetAmountWithAMM = base
	a.QuoteAssetAmount = quote
	net, err := amm.CalculateNetUserPnL(a, price)
	require.NoError(t, err)
	assert.Equal(t, int64(14_000_000), net.Int64())
}
