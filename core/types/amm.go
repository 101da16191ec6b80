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
	"errors"
	"fmt"
	"math"

	"code.vegaprotocol.io/vamm/libs/num"
)

const (
	// PricePrecision is the scale of prices, TWAPs and std values.
	PricePrecision uint64 = 1_000_000
	// AMMReservePrecision is the scale of reserves, sqrt(k) and base amounts.
	AMMReservePrecision uint64 = 1_000_000_000
	PegPrecision        uint64 = 1_000_000
	QuotePrecision      uint64 = 1_000_000
	// AMMToQuotePrecisionRatio converts reserve precision to quote precision.
	AMMToQuotePrecisionRatio uint64 = AMMReservePrecision / QuotePrecision
	// PriceTimesAMMToQuotePrecisionRatio converts base * price into quote.
	PriceTimesAMMToQuotePrecisionRatio uint64 = PricePrecision * AMMToQuotePrecisionRatio
	// BidAskSpreadPrecision is the scale of spreads, 1e6 is 100%.
	BidAskSpreadPrecision uint64 = 1_000_000
	// FiveMinute is the length in seconds of the short TWAP window.
	FiveMinute int64 = 300
	// DefaultMaxTWAPUpdatePriceBandDenominator bounds a TWAP update to a
	// third of the current TWAP.
	DefaultMaxTWAPUpdatePriceBandDenominator uint64 = 3
)

var (
	ErrZeroBaseAssetReserve  = errors.New("base asset reserve must be positive")
	ErrZeroQuoteAssetReserve = errors.New("quote asset reserve must be positive")
	ErrZeroPegMultiplier     = errors.New("peg multiplier must be positive")
	ErrZeroSqrtK             = errors.New("sqrt k must be positive")
	ErrSpreadAboveMax        = errors.New("spread above max spread")
	ErrNegativeFundingPeriod = errors.New("funding period cannot be negative")
	ErrSeedPriceOverflow     = errors.New("seed price does not fit a signed tracker")
)

// HistoricalOracleData is what the AMM remembers about the oracle feed.
type HistoricalOracleData struct {
	LastOraclePrice         int64  `json:"last_oracle_price"`
	LastOracleConf          uint64 `json:"last_oracle_conf"`
	LastOracleDelay         int64  `json:"last_oracle_delay"`
	LastOraclePriceTWAP     int64  `json:"last_oracle_price_twap"`
	LastOraclePriceTWAP5Min int64  `json:"last_oracle_price_twap_5min"`
	LastOraclePriceTWAPTs   int64  `json:"last_oracle_price_twap_ts"`
}

// AMM holds the virtual reserves of a market together with the price and
// volatility trackers derived from trades and oracle samples.
type AMM struct {
	BaseAssetReserve  *num.Uint `json:"base_asset_reserve"`
	QuoteAssetReserve *num.Uint `json:"quote_asset_reserve"`
	SqrtK             *num.Uint `json:"sqrt_k"`
	PegMultiplier     *num.Uint `json:"peg_multiplier"`

	// BaseAssetAmountWithAMM is the traders' net base position, positive
	// when traders are net long and the AMM is net short.
	BaseAssetAmountWithAMM *num.Int `json:"base_asset_amount_with_amm"`
	// QuoteAssetAmount is the quote flow recorded against that position.
	QuoteAssetAmount *num.Int `json:"quote_asset_amount"`

	BaseSpread  uint32 `json:"base_spread"`
	LongSpread  uint32 `json:"long_spread"`
	ShortSpread uint32 `json:"short_spread"`
	MaxSpread   uint32 `json:"max_spread"`

	LastMarkPriceTWAP     uint64 `json:"last_mark_price_twap"`
	LastMarkPriceTWAP5Min uint64 `json:"last_mark_price_twap_5min"`
	LastBidPriceTWAP      uint64 `json:"last_bid_price_twap"`
	LastAskPriceTWAP      uint64 `json:"last_ask_price_twap"`
	LastMarkPriceTWAPTs   int64  `json:"last_mark_price_twap_ts"`
	MarkStd               uint64 `json:"mark_std"`
	FundingPeriod         int64  `json:"funding_period"`

	OracleStd                       uint64 `json:"oracle_std"`
	LastOracleNormalisedPrice       int64  `json:"last_oracle_normalised_price"`
	LastOracleConfPct               uint64 `json:"last_oracle_conf_pct"`
	LastOracleReservePriceSpreadPct int64  `json:"last_oracle_reserve_price_spread_pct"`

	HistoricalOracleData `json:"historical_oracle_data"`
}

// NewAMM returns a balanced AMM with sqrt(k) derived from the reserves and
// every tracker seeded with the reserve price.
func NewAMM(base, quote, peg *num.Uint, fundingPeriod int64) (*AMM, error) {
	a := &AMM{
		BaseAssetReserve:       base.Clone(),
		QuoteAssetReserve:      quote.Clone(),
		PegMultiplier:          peg.Clone(),
		SqrtK:                  num.UintZero(),
		BaseAssetAmountWithAMM: num.IntZero(),
		QuoteAssetAmount:       num.IntZero(),
		FundingPeriod:          fundingPeriod,
	}
	k, overflow := num.UintZero().MulOverflow(base, quote)
	if overflow {
		return nil, fmt.Errorf("reserves too large: %s * %s", base, quote)
	}
	a.SqrtK.Sqrt(k)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the reserves and spreads are usable.
func (a *AMM) Validate() error {
	if a.BaseAssetReserve == nil || a.BaseAssetReserve.IsZero() {
		return ErrZeroBaseAssetReserve
	}
	if a.QuoteAssetReserve == nil || a.QuoteAssetReserve.IsZero() {
		return ErrZeroQuoteAssetReserve
	}
	if a.PegMultiplier == nil || a.PegMultiplier.IsZero() {
		return ErrZeroPegMultiplier
	}
	if a.SqrtK == nil || a.SqrtK.IsZero() {
		return ErrZeroSqrtK
	}
	if a.FundingPeriod < 0 {
		return ErrNegativeFundingPeriod
	}
	spreads := []struct {
		name  string
		value uint32
	}{
		{"base", a.BaseSpread},
		{"long", a.LongSpread},
		{"short", a.ShortSpread},
	}
	for _, s := range spreads {
		if s.value > a.MaxSpread {
			return fmt.Errorf("%s spread %d above %d: %w", s.name, s.value, a.MaxSpread, ErrSpreadAboveMax)
		}
	}
	return nil
}

// SeedTWAPs sets every mark and oracle tracker to price at ts. The AMM is
// left untouched if price cannot be carried by the signed oracle trackers.
func (a *AMM) SeedTWAPs(price uint64, ts int64) error {
	if price > math.MaxInt64 {
		return fmt.Errorf("%w: %d", ErrSeedPriceOverflow, price)
	}
	a.LastMarkPriceTWAP = price
	a.LastMarkPriceTWAP5Min = price
	a.LastBidPriceTWAP = price
	a.LastAskPriceTWAP = price
	a.LastMarkPriceTWAPTs = ts
	a.LastOraclePrice = int64(price)
	a.LastOracleNormalisedPrice = int64(price)
	a.LastOraclePriceTWAP = int64(price)
	a.LastOraclePriceTWAP5Min = int64(price)
	a.LastOraclePriceTWAPTs = ts
	return nil
}

func (a AMM) Clone() *AMM {
	cpy := a
	if a.BaseAssetReserve != nil {
		cpy.BaseAssetReserve = a.BaseAssetReserve.Clone()
	}
	if a.QuoteAssetReserve != nil {
		cpy.QuoteAssetReserve = a.QuoteAssetReserve.Clone()
	}
	if a.SqrtK != nil {
		cpy.SqrtK = a.SqrtK.Clone()
	}
	if a.PegMultiplier != nil {
		cpy.PegMultiplier = a.PegMultiplier.Clone()
	}
	if a.BaseAssetAmountWithAMM != nil {
		cpy.BaseAssetAmountWithAMM = a.BaseAssetAmountWithAMM.Clone()
	}
	if a.QuoteAssetAmount != nil {
		cpy.QuoteAssetAmount = a.QuoteAssetAmount.Clone()
	}
	return &cpy
}

func (a AMM) String() string {
	return fmt.Sprintf(
		"baseAssetReserve(%s) quoteAssetReserve(%s) sqrtK(%s) pegMultiplier(%s) baseAssetAmountWithAMM(%s) quoteAssetAmount(%s) markTWAP(%d) oracleTWAP(%d)",
		uintString(a.BaseAssetReserve),
		uintString(a.QuoteAssetReserve),
		uintString(a.SqrtK),
		uintString(a.PegMultiplier),
		intString(a.BaseAssetAmountWithAMM),
		intString(a.QuoteAssetAmount),
		a.LastMarkPriceTWAP,
		a.LastOraclePriceTWAP,
	)
}

func uintString(u *num.Uint) string {
	if u == nil {
		return "nil"
	}
	return u.String()
}

func intString(i *num.Int) string {
	if i == nil {
		return "nil"
	}
	return i.String()
}
