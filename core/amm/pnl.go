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
	"code.vegaprotocol.io/vamm/core/types"
	"code.vegaprotocol.io/vamm/libs/num"
)

// CalculateNetUserPnL values the traders' net position at the oracle price
// and adds the quote they have recorded against it. Positive means traders
// are owed money, negative that they owe it.
//
// pnl = baseAssetAmountWithAMM * oracle / PriceTimesAMMToQuotePrecisionRatio + quoteAssetAmount.
func CalculateNetUserPnL(a *types.AMM, oraclePrice int64) (*num.Int, error) {
	return positionPnL(a.BaseAssetAmountWithAMM, a.QuoteAssetAmount, oraclePrice)
}

// CalculatePositionPnL is the same valuation for a single trader.
func CalculatePositionPnL(p *types.Position, oraclePrice int64) (*num.Int, error) {
	return positionPnL(p.BaseAssetAmount, p.QuoteAssetAmount, oraclePrice)
}

func positionPnL(base, quote *num.Int, oraclePrice int64) (*num.Int, error) {
	if oraclePrice <= 0 {
		return nil, ErrNonPositivePrice
	}

	pnl := num.IntZero()
	if base != nil {
		pnl.Copy(base)
	}
	if _, overflow := pnl.MulOverflow(num.NewInt(oraclePrice)); overflow {
		return nil, ErrOverflow
	}
	pnl.Div(priceTimesAMMToQuote)

	if quote != nil {
		if _, overflow := pnl.AddOverflow(quote); overflow {
			return nil, ErrOverflow
		}
	}
	return pnl, nil
}
