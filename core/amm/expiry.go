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
	"math"

	"code.vegaprotocol.io/vamm/core/types"
	"code.vegaprotocol.io/vamm/libs/num"
)

var priceTimesAMMToQuote = num.NewInt(int64(types.PriceTimesAMMToQuotePrecisionRatio))

// CalculateExpiryPrice returns the price a market winding down settles at.
// With no net position this is the oracle price. Otherwise it is the price at
// which the settlement budget covers the traders' net position, and never
// better for the imbalanced side than one unit past the oracle price.
//
// best = -(quoteAssetAmount - budget) * PriceTimesAMMToQuotePrecisionRatio / baseAssetAmountWithAMM
// long:  min(best, oracle) - 1
// short: max(best, oracle) + 1.
func CalculateExpiryPrice(a *types.AMM, oraclePrice int64, settlementBudget *num.Uint) (int64, error) {
	net := a.BaseAssetAmountWithAMM
	if net == nil || net.IsZero() {
		return oraclePrice, nil
	}

	budget := num.UintZero()
	if settlementBudget != nil {
		budget = settlementBudget
	}

	best := num.IntZero()
	if a.QuoteAssetAmount != nil {
		best.Copy(a.QuoteAssetAmount)
	}
	if _, overflow := best.AddOverflow(num.IntFromUint(budget, false)); overflow {
		return 0, ErrOverflow
	}
	if _, overflow := best.MulOverflow(priceTimesAMMToQuote); overflow {
		return 0, ErrOverflow
	}
	best.Div(net).FlipSign()

	bestPrice, overflow := best.Int64WithOverflow()
	if overflow {
		return 0, ErrOverflow
	}

	if net.IsPositive() {
		p := num.MinV(bestPrice, oraclePrice)
		if p == math.MinInt64 {
			return 0, ErrUnderflow
		}
		return p - 1, nil
	}
	p := num.MaxV(bestPrice, oraclePrice)
	if p == math.MaxInt64 {
		return 0, ErrOverflow
	}
	return p + 1, nil
}
