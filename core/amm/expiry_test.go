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
	"code.vegaprotocol.io/vamm/libs/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateExpiryPrice(t *testing.T) {
	oracle := 22_050 * pricePrecision
	budgets := []*num.Uint{
		num.UintZero(),
		num.NewUint(111_111_110),
		num.NewUint(1_111_111_110),
		num.NewUint(111_111_110 * quotePrecision),
	}

	data := []struct {
		name     string
		net      int64
		quote    int64
		expected []int64
	}{
		{
			name:     "traders net long",
			net:      12_295_081_967,
			quote:    -103_688_524_588 * 2,
			expected: []int64{16_866_666_665, 16_875_703_702, 16_957_037_035, 22_049_999_999},
		},
		{
			name:     "traders net long at a loss",
			net:      12_295_081_967,
			quote:    -193_688_524_588 * 2,
			expected: []int64{22_049_999_999, 22_049_999_999, 22_049_999_999, 22_049_999_999},
		},
		{
			name:     "traders net short",
			net:      -12_295_081_967,
			quote:    153_688_524_588 * 2,
			expected: []int64{25_000_000_001, 24_990_962_964, 24_909_629_630, 22_050_000_001},
		},
	}

	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			a := btcAMM(d.net, d.quote)
			for i, budget := range budgets {
				price, err := amm.CalculateExpiryPrice(a, oracle, budget)
				require.NoError(t, err)
				assert.Equal(t, d.expected[i], price, "budget %s", budget)
			}
		})
	}
}

func TestCalculateExpiryPriceBTCFixture(t *testing.T) {
	a := btcAMM(12_295_081_967, -193_688_524_588*2)

	rp, err := amm.ReservePrice(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(21_051_929_600), rp)

	terminal, _, _, err := amm.TerminalPriceAndReserves(a)
	require.NoError(t, err)
	assert.Equal(t, uint64(20_076_684_570), terminal)

	oracle := a.LastOraclePrice
	for _, budget := range []*num.Uint{nil, num.UintZero(), num.NewUint(111_111_110 * quotePrecision)} {
		price, err := amm.CalculateExpiryPrice(a, oracle, budget)
		require.NoError(t, err)
		assert.Equal(t, oracle-1, price)
	}
}

func TestCalculateExpiryPriceFlat(t *testing.T) {
	a := balancedAMM(1_000_000)
	a.QuoteAssetAmount = num.NewInt(-5_000_000)
	for _, oracle := range []int64{1, 32 * pricePrecision, 22_050 * pricePrecision} {
		for _, budget := range []uint64{0, 1, 1_000_000_000} {
			price, err := amm.CalculateExpiryPrice(a, oracle, num.NewUint(budget))
			require.NoError(t, err)
			assert.Equal(t, oracle, price)
		}
	}
}

func TestCalculateExpiryPriceMonotonic(t *testing.T) {
	oracle := 22_050 * pricePrecision

	t.Run("long imbalance rises toward the bound", func(t *testing.T) {
		a := btcAMM(12_295_081_967, -103_688_524_588*2)
		prev := int64(0)
		for budget := uint64(0); budget <= 100_000*quotePrecision; budget += 1_000 * quotePrecision {
			price, err := amm.CalculateExpiryPrice(a, oracle, num.NewUint(budget))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, price, prev)
			assert.LessOrEqual(t, price, oracle-1)
			prev = price
		}
		assert.Equal(t, oracle-1, prev)
	})

	t.Run("short imbalance falls toward the bound", func(t *testing.T) {
		a := btcAMM(-12_295_081_967, 153_688_524_588*2)
		prev := int64(1) << 62
		for budget := uint64(0); budget <= 100_000*quotePrecision; budget += 1_000 * quotePrecision {
			price, err := amm.CalculateExpiryPrice(a, oracle, num.NewUint(budget))
			require.NoError(t, err)
			assert.LessOrEqual(t, price, prev)
			assert.GreaterOrEqual(t, price, oracle+1)
			prev = price
		}
		assert.Equal(t, oracle+1, prev)
	})
}

func TestCalculateExpiryPriceOverflow(t *testing.T) {
	a := btcAMM(1, -1)
	a.QuoteAssetAmount = num.MustIntFromString("-100000000000000000000000000000", 10)
	_, err := amm.CalculateExpiryPrice(a, 22_050*pricePrecision, nil)
	assert.ErrorIs(t, err, amm.ErrOverflow)
}
