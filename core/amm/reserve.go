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

var (
	pricePrecisionRatio = num.NewUint(types.PricePrecision / types.PegPrecision)
	spreadPrecision     = num.NewUint(types.BidAskSpreadPrecision)
)

// ReservePrice returns the price implied by the reserves at price precision.
//
// p = quote * peg * (PricePrecision / PegPrecision) / base.
func ReservePrice(a *types.AMM) (uint64, error) {
	return reservePrice(a.QuoteAssetReserve, a.BaseAssetReserve, a.PegMultiplier)
}

func reservePrice(quote, base, peg *num.Uint) (uint64, error) {
	if base == nil || base.IsZero() {
		return 0, ErrDivisionByZero
	}
	p, overflow := num.UintZero().MulOverflow(quote, peg)
	if overflow {
		return 0, ErrOverflow
	}
	if _, overflow = p.MulOverflow(p, pricePrecisionRatio); overflow {
		return 0, ErrOverflow
	}
	p.Div(p, base)
	res, overflow := p.Uint64WithOverflow()
	if overflow {
		return 0, ErrOverflow
	}
	return res, nil
}

// TerminalPriceAndReserves returns the price and reserves the AMM would be
// left with once the traders' net position is closed against it, k being
// held constant.
func TerminalPriceAndReserves(a *types.AMM) (uint64, *num.Uint, *num.Uint, error) {
	k, overflow := num.UintZero().MulOverflow(a.SqrtK, a.SqrtK)
	if overflow {
		return 0, nil, nil, ErrOverflow
	}

	net := a.BaseAssetAmountWithAMM
	base := a.BaseAssetReserve.Clone()
	switch {
	case net.IsPositive():
		// traders are long, closing hands base back to the AMM
		if _, overflow = base.AddOverflow(base, net.U); overflow {
			return 0, nil, nil, ErrOverflow
		}
	case net.IsNegative():
		if net.U.GTE(base) {
			return 0, nil, nil, ErrInsufficientReserves
		}
		base.Sub(base, net.U)
	}

	if base.IsZero() {
		return 0, nil, nil, ErrDivisionByZero
	}
	quote := num.UintZero().Div(k, base)

	price, err := reservePrice(quote, base, a.PegMultiplier)
	if err != nil {
		return 0, nil, nil, err
	}
	return price, quote, base, nil
}

// BidAskPrice shifts the reserve price by half of the short spread for the
// bid and half of the long spread for the ask.
func BidAskPrice(a *types.AMM, reservePrice uint64) (uint64, uint64, error) {
	rp := num.NewUint(reservePrice)

	bidDiscount, err := spreadOffset(rp, a.ShortSpread/2)
	if err != nil {
		return 0, 0, err
	}
	askPremium, err := spreadOffset(rp, a.LongSpread/2)
	if err != nil {
		return 0, 0, err
	}

	if bidDiscount.GT(rp) {
		return 0, 0, ErrUnderflow
	}
	bid := num.UintZero().Sub(rp, bidDiscount)
	ask, overflow := num.UintZero().AddOverflow(rp, askPremium)
	if overflow {
		return 0, 0, ErrOverflow
	}

	askU, overflow := ask.Uint64WithOverflow()
	if overflow {
		return 0, 0, ErrOverflow
	}
	return bid.Uint64(), askU, nil
}

// spreadOffset = price * spread / BidAskSpreadPrecision.
func spreadOffset(price *num.Uint, spread uint32) (*num.Uint, error) {
	off, overflow := num.UintZero().MulOverflow(price, num.NewUint(uint64(spread)))
	if overflow {
		return nil, ErrOverflow
	}
	return off.Div(off, spreadPrecision), nil
}
