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
	"code.vegaprotocol.io/vamm/logging"
)

// UpdateMarkTWAP derives a bid and an ask from a trade price and the last
// oracle price, folds them into the bid and ask TWAPs and sets the mark TWAP
// to their midpoint. Nothing is written to the AMM unless every step
// succeeds.
func (e *Engine) UpdateMarkTWAP(a *types.AMM, now int64, tradePrice uint64, direction types.PositionDirection) (uint64, error) {
	if !direction.IsValid() {
		return 0, ErrInvalidDirection
	}
	cfg := e.config()

	price, err := toInt64(tradePrice)
	if err != nil {
		return 0, err
	}
	since := num.MaxV(cfg.MinMarkElapsed, now-a.LastMarkPriceTWAPTs)

	bid, ask, err := markSamples(a, price, direction)
	if err != nil {
		return 0, err
	}

	bidTWAP, err := toInt64(a.LastBidPriceTWAP)
	if err != nil {
		return 0, err
	}
	askTWAP, err := toInt64(a.LastAskPriceTWAP)
	if err != nil {
		return 0, err
	}
	markTWAP, err := toInt64(a.LastMarkPriceTWAP)
	if err != nil {
		return 0, err
	}
	markTWAP5min, err := toInt64(a.LastMarkPriceTWAP5Min)
	if err != nil {
		return 0, err
	}

	bid, bidMoved, err := clampToTWAP(cfg.MarkClamp, bid, bidTWAP, a.MarkStd, since, a.FundingPeriod)
	if err != nil {
		return 0, err
	}
	ask, askMoved, err := clampToTWAP(cfg.MarkClamp, ask, askTWAP, a.MarkStd, since, a.FundingPeriod)
	if err != nil {
		return 0, err
	}
	if bidMoved || askMoved {
		e.log.Warn("mark sample clamped",
			logging.Uint64("trade-price", tradePrice),
			logging.Int64("bid", bid),
			logging.Int64("ask", ask),
		)
	}
	if bid, ask, err = uncross(bid, ask); err != nil {
		return 0, err
	}

	newBidTWAP, err := calculateNewTWAP(bid, bidTWAP, since, a.FundingPeriod)
	if err != nil {
		return 0, err
	}
	newAskTWAP, err := calculateNewTWAP(ask, askTWAP, since, a.FundingPeriod)
	if err != nil {
		return 0, err
	}
	if newBidTWAP, newAskTWAP, err = uncross(newBidTWAP, newAskTWAP); err != nil {
		return 0, err
	}
	newMarkTWAP, err := midpoint(newBidTWAP, newAskTWAP)
	if err != nil {
		return 0, err
	}

	sampleMid, err := midpoint(bid, ask)
	if err != nil {
		return 0, err
	}
	newMarkTWAP5min, err := calculateNewTWAP(sampleMid, markTWAP5min, since, types.FiveMinute)
	if err != nil {
		return 0, err
	}

	delta, err := absDiff(price, markTWAP)
	if err != nil {
		return 0, err
	}
	std, err := updateStd(a.MarkStd, delta, since, a.FundingPeriod)
	if err != nil {
		return 0, err
	}

	out := make([]uint64, 0, 4)
	for _, v := range []int64{newBidTWAP, newAskTWAP, newMarkTWAP, newMarkTWAP5min} {
		u, err := toUint64(v)
		if err != nil {
			return 0, err
		}
		out = append(out, u)
	}

	a.LastBidPriceTWAP = out[0]
	a.LastAskPriceTWAP = out[1]
	a.LastMarkPriceTWAP = out[2]
	a.LastMarkPriceTWAP5Min = out[3]
	a.MarkStd = std
	a.LastMarkPriceTWAPTs = num.MaxV(a.LastMarkPriceTWAPTs, now)

	if e.log.IsDebug() {
		e.log.Debug("mark twap updated",
			logging.Uint64("trade-price", tradePrice),
			logging.String("direction", direction.String()),
			logging.Uint64("bid-twap", out[0]),
			logging.Uint64("ask-twap", out[1]),
			logging.Uint64("mark-twap", out[2]),
			logging.Uint64("std", std),
			logging.Timestamp("at", now),
		)
	}
	return out[2], nil
}

// markSamples estimates both sides of the book from a trade: a trade at or
// above the last oracle price is the ask and the bid sits below the oracle by
// the bid discount, a trade at or below the oracle is the bid and the ask
// sits above it by the ask premium. Without an oracle price the trade is
// used as the anchor.
func markSamples(a *types.AMM, price int64, direction types.PositionDirection) (int64, int64, error) {
	anchor := a.LastOraclePrice
	if anchor <= 0 {
		anchor = price
	}

	askSpread, bidSpread := a.BaseSpread/2, a.BaseSpread/2
	if direction != types.PositionDirectionUnspecified {
		askSpread, bidSpread = a.LongSpread/2, a.ShortSpread/2
	}

	p, err := spreadOffsetInt64(anchor, askSpread)
	if err != nil {
		return 0, 0, err
	}
	d, err := spreadOffsetInt64(anchor, bidSpread)
	if err != nil {
		return 0, 0, err
	}

	bid, ask := price, price
	if price >= anchor {
		if bid, err = checkedSub(anchor, d); err != nil {
			return 0, 0, err
		}
	}
	if price <= anchor {
		if ask, err = checkedAdd(anchor, p); err != nil {
			return 0, 0, err
		}
	}
	return bid, ask, nil
}

func spreadOffsetInt64(price int64, spread uint32) (int64, error) {
	off, err := spreadOffset(num.NewUint(uint64(price)), spread)
	if err != nil {
		return 0, err
	}
	u, overflow := off.Uint64WithOverflow()
	if overflow {
		return 0, ErrOverflow
	}
	return toInt64(u)
}

// uncross collapses a crossed pair onto its midpoint.
func uncross(bid, ask int64) (int64, int64, error) {
	if bid <= ask {
		return bid, ask, nil
	}
	mid, err := midpoint(bid, ask)
	if err != nil {
		return 0, 0, err
	}
	return mid, mid, nil
}

// midpoint = (a + b) / 2.
func midpoint(a, b int64) (int64, error) {
	sum, err := checkedAdd(a, b)
	if err != nil {
		return 0, err
	}
	return sum / 2, nil
}

// UpdateAMMMarkStd folds |price - referenceTWAP| into the mark volatility
// estimate, weighted by the time elapsed since the last mark update.
func UpdateAMMMarkStd(a *types.AMM, now int64, price, referenceTWAP uint64) error {
	p, err := toInt64(price)
	if err != nil {
		return err
	}
	ref, err := toInt64(referenceTWAP)
	if err != nil {
		return err
	}
	since := num.MaxV(1, now-a.LastMarkPriceTWAPTs)
	delta, err := absDiff(p, ref)
	if err != nil {
		return err
	}
	std, err := updateStd(a.MarkStd, delta, since, a.FundingPeriod)
	if err != nil {
		return err
	}
	a.MarkStd = std
	return nil
}
