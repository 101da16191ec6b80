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

	"code.vegaprotocol.io/vamm/libs/num"
)

func checkedAdd(a, b int64) (int64, error) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, ErrOverflow
	}
	return c, nil
}

func checkedSub(a, b int64) (int64, error) {
	c := a - b
	if (c < a) != (b > 0) {
		return 0, ErrUnderflow
	}
	return c, nil
}

func checkedMul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, ErrOverflow
	}
	return c, nil
}

// checkedDiv truncates toward zero.
func checkedDiv(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	if a == math.MinInt64 && b == -1 {
		return 0, ErrOverflow
	}
	return a / b, nil
}

func toInt64(u uint64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, ErrOverflow
	}
	return int64(u), nil
}

func toUint64(i int64) (uint64, error) {
	if i < 0 {
		return 0, ErrUnderflow
	}
	return uint64(i), nil
}

// absDiff = |a - b|.
func absDiff(a, b int64) (uint64, error) {
	if a >= b {
		d, err := checkedSub(a, b)
		if err != nil {
			return 0, err
		}
		return uint64(d), nil
	}
	d, err := checkedSub(b, a)
	if err != nil {
		return 0, err
	}
	return uint64(d), nil
}

// weightedAverage averages data1 and data2 with the given weights and nudges
// the truncated result one unit toward the heavier move so a TWAP keeps
// converging on small deltas.
//
// (d1 * w1 + d2 * w2) / (w1 + w2) + sign(d2 * w2 - d1 * w1).
func weightedAverage(data1, data2, weight1, weight2 int64) (int64, error) {
	if weight1 == 0 {
		return data2, nil
	}
	if weight2 == 0 {
		return data1, nil
	}

	denominator, err := checkedAdd(weight1, weight2)
	if err != nil {
		return 0, err
	}
	prev, err := checkedMul(data1, weight1)
	if err != nil {
		return 0, err
	}
	next, err := checkedMul(data2, weight2)
	if err != nil {
		return 0, err
	}

	var bias int64
	if weight2 > 1 {
		switch {
		case next < prev:
			bias = -1
		case next > prev:
			bias = 1
		}
	}

	sum, err := checkedAdd(prev, next)
	if err != nil {
		return 0, err
	}
	twap, err := checkedDiv(sum, denominator)
	if err != nil {
		return 0, err
	}
	if twap == 0 && bias < 0 {
		return twap, nil
	}
	return checkedAdd(twap, bias)
}

// calculateNewTWAP decays twap toward price over period, the weight of the
// sample is min(since / period, 1).
func calculateNewTWAP(price, twap, since, period int64) (int64, error) {
	fromStart := num.MaxV(0, period-since)
	return weightedAverage(price, twap, since, fromStart)
}

// updateStd folds delta into std with weight min(since / period, 1). The
// average floors so a run of zero deltas drives std down to zero.
func updateStd(std, delta uint64, since, period int64) (uint64, error) {
	since = num.MaxV(since, 1)
	fromStart := num.MaxV(0, period-since)
	if fromStart == 0 {
		return delta, nil
	}

	s, err := toInt64(std)
	if err != nil {
		return 0, err
	}
	d, err := toInt64(delta)
	if err != nil {
		return 0, err
	}
	prev, err := checkedMul(s, fromStart)
	if err != nil {
		return 0, err
	}
	next, err := checkedMul(d, since)
	if err != nil {
		return 0, err
	}
	sum, err := checkedAdd(prev, next)
	if err != nil {
		return 0, err
	}
	// since + fromStart == max(since, period) > 0
	res, err := checkedDiv(sum, since+fromStart)
	if err != nil {
		return 0, err
	}
	return uint64(res), nil
}

// clampToTWAP bounds price to twap plus or minus the bound derived from cfg,
// the second value reports whether the sample was moved.
func clampToTWAP(cfg ClampConfig, price, twap int64, std uint64, since, period int64) (int64, bool, error) {
	if twap == 0 {
		return price, false, nil
	}

	var (
		bound int64
		err   error
	)
	switch string(cfg.Mode) {
	case ClampModeNone:
		return price, false, nil
	case ClampModeVolatility:
		bound, err = volatilityBound(cfg, twap, std, since, period)
	default:
		if cfg.BandDenominator == 0 {
			return price, false, nil
		}
		bound, err = bandBound(cfg, twap)
	}
	if err != nil {
		return 0, false, err
	}

	delta, err := absDiff(price, twap)
	if err != nil {
		return 0, false, err
	}
	if delta <= uint64(bound) {
		return price, false, nil
	}
	if price > twap {
		res, err := checkedAdd(twap, bound)
		return res, true, err
	}
	res, err := checkedSub(twap, bound)
	return res, true, err
}

// bandBound = |twap / denominator|.
func bandBound(cfg ClampConfig, twap int64) (int64, error) {
	den, err := toInt64(cfg.BandDenominator)
	if err != nil {
		return 0, err
	}
	band, err := checkedDiv(twap, den)
	if err != nil {
		return 0, err
	}
	return num.AbsV(band), nil
}

// volatilityBound = stdMultiplier * std + |twap| / denominator * min(since, period) / period.
func volatilityBound(cfg ClampConfig, twap int64, std uint64, since, period int64) (int64, error) {
	s, err := toInt64(std)
	if err != nil {
		return 0, err
	}
	mult, err := toInt64(cfg.StdMultiplier)
	if err != nil {
		return 0, err
	}
	bound, err := checkedMul(s, mult)
	if err != nil {
		return 0, err
	}
	if cfg.BandDenominator == 0 {
		return bound, nil
	}

	band, err := bandBound(cfg, twap)
	if err != nil {
		return 0, err
	}
	if period > 0 {
		elapsed := num.MinV(num.MaxV(since, 0), period)
		if band, err = checkedMul(band, elapsed); err != nil {
			return 0, err
		}
		if band, err = checkedDiv(band, period); err != nil {
			return 0, err
		}
	}
	return checkedAdd(bound, band)
}
