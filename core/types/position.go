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

package types

import (
	"code.vegaprotocol.io/vamm/libs/num"
)

// Position is a trader's exposure in a market, owned by the caller.
type Position struct {
	Party            string   `json:"party"`
	MarketID         string   `json:"market_id"`
	BaseAssetAmount  *num.Int `json:"base_asset_amount"`
	QuoteAssetAmount *num.Int `json:"quote_asset_amount"`
}

func (p Position) Clone() *Position {
	cpy := p
	if p.BaseAssetAmount != nil {
		cpy.BaseAssetAmount = p.BaseAssetAmount.Clone()
	}
	if p.QuoteAssetAmount != nil {
		cpy.QuoteAssetAmount = p.QuoteAssetAmount.Clone()
	}
	return &cpy
}

// NetPositions sums base and quote amounts over all positions, nil amounts
// count as zero.
func NetPositions(positions []*Position) (base, quote *num.Int) {
	base, quote = num.IntZero(), num.IntZero()
	for _, p := range positions {
		if p == nil {
			continue
		}
		if p.BaseAssetAmount != nil {
			base.Add(p.BaseAssetAmount)
		}
		if p.QuoteAssetAmount != nil {
			quote.Add(p.QuoteAssetAmount)
		}
	}
	return base, quote
}
