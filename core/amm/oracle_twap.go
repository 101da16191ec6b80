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

// a sample is never moved further than 2.5bps around the reserve price.
const normalisationBandDenominator = 4000

// UpdateOraclePriceTWAP folds an oracle sample into the funding window and
// five minute oracle TWAPs and the oracle volatility estimate. A call at or
// before the last update time leaves the AMM untouched. Nothing is written
// to the AMM unless every step succeeds.
func (e *Engine) UpdateOraclePriceTWAP(a *types.AMM, now int64, sample types.OraclePriceData) (int64, error) {
	cfg := e.config()

	since := now - a.LastOraclePriceTWAPTs
	if since <= 0 {
		return a.LastOraclePriceTWAP, nil
	}

	if sample.Price <= 0 {
		e.log.Debug("ignoring non positive oracle price", logging.Int64("price", sample.Price))
		return a.LastOraclePriceTWAP, nil
	}

	reserve, err := ReservePrice(a)
	if err != nil {
		return 0, err
	}

	price := sample.Price
	if cfg.NormaliseOracle {
		if price, err = normaliseOraclePrice(reserve, sample); err != nil {
			return 0, err
		}
		if price <= 0 {
			e.log.Debug("ignoring non positive normalised oracle price",
				logging.Int64("price", sample.Price),
				logging.Int64("normalised", price),
			)
			return a.LastOraclePriceTWAP, nil
		}
	}

	clamped, moved, err := clampToTWAP(cfg.OracleClamp, price, a.LastOraclePriceTWAP, a.OracleStd, since, a.FundingPeriod)
	if err != nil {
		return 0, err
	}
	if moved {
		e.log.Warn("oracle price clamped",
			logging.Int64("price", price),
			logging.Int64("clamped", clamped),
			logging.Int64("twap", a.LastOraclePriceTWAP),
		)
	}

	twap, err := oracleWindowTWAP(a, clamped, since, a.FundingPeriod, a.LastMarkPriceTWAP, a.LastOraclePriceTWAP)
	if err != nil {
		return 0, err
	}
	twap5min, err := oracleWindowTWAP(a, clamped, since, types.FiveMinute, a.LastMarkPriceTWAP5Min, a.LastOraclePriceTWAP5Min)
	if err != nil {
		return 0, err
	}

	delta, err := absDiff(clamped, a.LastOraclePriceTWAP)
	if err != nil {
		return 0, err
	}
	std, err := updateStd(a.OracleStd, delta, since, a.FundingPeriod)
	if err != nil {
		return 0, err
	}

	confPct, err := confidencePct(sample.Confidence, reserve)
	if err != nil {
		return 0, err
	}
	spreadPct, err := reserveSpreadPct(reserve, sample.Price)
	if err != nil {
		return 0, err
	}

	a.LastOraclePriceTWAP = twap
	a.LastOraclePriceTWAP5Min = twap5min
	a.OracleStd = std
	a.LastOracleNormalisedPrice = clamped
	a.LastOracleConfPct = confPct
	a.LastOracleReservePriceSpreadPct = spreadPct
	a.LastOraclePrice = sample.Price
	a.LastOracleConf = sample.Confidence
	a.LastOracleDelay = sample.Delay
	a.LastOraclePriceTWAPTs = now

	if e.log.IsDebug() {
		e.log.Debug("oracle twap updated",
			logging.Int64("price", sample.Price),
			logging.Int64("normalised", clamped),
			logging.Int64("twap", twap),
			logging.Int64("twap-5min", twap5min),
			logging.Uint64("std", std),
			logging.Timestamp("at", now),
		)
	}
	return twap, nil
}

// oracleWindowTWAP updates one oracle window. When trades were recorded more
// recently than the last oracle sample the sample is first blended with the
// mark TWAP of the same window, weighted by how stale the oracle was.
func oracleWindowTWAP(a *types.AMM, price, since, period int64, markTWAP uint64, twap int64) (int64, error) {
	interpolated := price
	if a.LastMarkPriceTWAPTs > a.LastOraclePriceTWAPTs {
		mark, err := toInt64(markTWAP)
		if err != nil {
			return 0, err
		}
		sinceLastValid := a.LastMarkPriceTWAPTs - a.LastOraclePriceTWAPTs
		fromStartValid := num.MaxV(1, period-sinceLastValid)
		if interpolated, err = weightedAverage(mark, price, sinceLastValid, fromStartValid); err != nil {
			return 0, err
		}
	}
	return calculateNewTWAP(interpolated, twap, since, period)
}

// normaliseOraclePrice moves the sample toward the reserve price by at most
// its confidence, without crossing 2.5bps of the reserve price.
func normaliseOraclePrice(reserve uint64, sample types.OraclePriceData) (int64, error) {
	rp, err := toInt64(reserve)
	if err != nil {
		return 0, err
	}
	conf, err := toInt64(sample.Confidence)
	if err != nil {
		return 0, err
	}
	band := rp / normalisationBandDenominator
	price := sample.Price

	if rp > price {
		lower, err := checkedSub(rp, band)
		if err != nil {
			return 0, err
		}
		upper, err := checkedAdd(price, conf)
		if err != nil {
			return 0, err
		}
		return num.MinV(num.MaxV(lower, price), upper), nil
	}

	upper, err := checkedAdd(rp, band)
	if err != nil {
		return 0, err
	}
	lower, err := checkedSub(price, conf)
	if err != nil {
		return 0, err
	}
	return num.MaxV(num.MinV(upper, price), lower), nil
}

// confidencePct = confidence * BidAskSpreadPrecision / reserve.
func confidencePct(confidence, reserve uint64) (uint64, error) {
	if reserve == 0 {
		return 0, ErrDivisionByZero
	}
	pct, overflow := num.UintZero().MulOverflow(num.NewUint(confidence), spreadPrecision)
	if overflow {
		return 0, ErrOverflow
	}
	res, overflow := pct.Div(pct, num.NewUint(reserve)).Uint64WithOverflow()
	if overflow {
		return 0, ErrOverflow
	}
	return res, nil
}

// reserveSpreadPct = (reserve - oracle) * BidAskSpreadPrecision / oracle.
func reserveSpreadPct(reserve uint64, oracle int64) (int64, error) {
	if oracle <= 0 {
		return 0, ErrNonPositivePrice
	}
	gap := num.IntFromUint(num.NewUint(reserve), true).Sub(num.NewInt(oracle))
	if _, overflow := gap.MulOverflow(num.NewInt(int64(types.BidAskSpreadPrecision))); overflow {
		return 0, ErrOverflow
	}
	res, overflow := gap.Div(num.NewInt(oracle)).Int64WithOverflow()
	if overflow {
		return 0, ErrOverflow
	}
	return res, nil
}

// UpdateAMMOracleStd folds |price - referenceTWAP| into the oracle volatility
// estimate, weighted by the time elapsed since the last oracle update.
func UpdateAMMOracleStd(a *types.AMM, now, price, referenceTWAP int64) error {
	since := num.MaxV(1, now-a.LastOraclePriceTWAPTs)
	delta, err := absDiff(price, referenceTWAP)
	if err != nil {
		return err
	}
	std, err := updateStd(a.OracleStd, delta, since, a.FundingPeriod)
	if err != nil {
		return err
	}
	a.OracleStd = std
	return nil
}
