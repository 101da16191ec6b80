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

package markets_test

import (
	"context"
	"testing"

	"code.vegaprotocol.io/vamm/core/amm"
	"code.vegaprotocol.io/vamm/core/events"
	"code.vegaprotocol.io/vamm/core/markets"
	"code.vegaprotocol.io/vamm/core/markets/mocks"
	"code.vegaprotocol.io/vamm/core/types"
	"code.vegaprotocol.io/vamm/libs/num"
	"code.vegaprotocol.io/vamm/logging"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	marketID  = "btc-perp"
	startTime = int64(1_656_682_258)
)

type testMarket struct {
	*markets.Market
	broker *mocks.MockBroker
	sent   []events.Event
	engine *amm.Engine
}

func balancedAMM(t *testing.T) *types.AMM {
	t.Helper()
	a, err := types.NewAMM(num.NewUint(2_000_000_000), num.NewUint(2_000_000_000), num.NewUint(40_000_000), 3600)
	require.NoError(t, err)
	a.MaxSpread = 1000
	require.NoError(t, a.SeedTWAPs(40_000_000, startTime))
	return a
}

func btcAMM() *types.AMM {
	return &types.AMM{
		BaseAssetReserve:       num.NewUint(512_295_081_967),
		QuoteAssetReserve:      num.NewUint(488_000_000_000),
		SqrtK:                  num.NewUint(500_000_000_000),
		PegMultiplier:          num.NewUint(22_100_000_000),
		BaseAssetAmountWithAMM: num.NewInt(12_295_081_967),
		QuoteAssetAmount:       num.NewInt(-193_688_524_588 * 2),
		MaxSpread:              1000,
		FundingPeriod:          3600,
		HistoricalOracleData: types.HistoricalOracleData{
			LastOraclePrice:       22_050_000_000,
			LastOraclePriceTWAPTs: startTime,
		},
	}
}

func getTestMarket(t *testing.T, state *types.AMM) *testMarket {
	t.Helper()
	ctrl := gomock.NewController(t)
	tm := &testMarket{
		broker: mocks.NewMockBroker(ctrl),
		engine: amm.New(logging.NewTestLogger(), amm.NewDefaultConfig()),
	}
	tm.broker.EXPECT().Send(gomock.Any()).AnyTimes().Do(func(e events.Event) {
		tm.sent = append(tm.sent, e)
	})

	mkt, err := markets.NewMarket(context.Background(), logging.NewTestLogger(), markets.NewDefaultConfig(), marketID, state, tm.engine, tm.broker)
	require.NoError(t, err)
	tm.Market = mkt
	return tm
}

func (tm *testMarket) lastEvent(t *testing.T) events.Event {
	t.Helper()
	require.NotEmpty(t, tm.sent)
	return tm.sent[len(tm.sent)-1]
}

func validSample(price int64) types.OraclePriceData {
	return types.OraclePriceData{
		Price:                           price,
		Confidence:                      1_000,
		Delay:                           1,
		HasSufficientNumberOfDataPoints: true,
	}
}

func TestNewMarket(t *testing.T) {
	t.Run("announces the market", func(t *testing.T) {
		tm := getTestMarket(t, balancedAMM(t))
		require.Len(t, tm.sent, 1)
		assert.Equal(t, events.MarketCreatedEvent, tm.sent[0].Type())
		assert.Equal(t, marketID, tm.ID())
		assert.Equal(t, uint64(40_000_000), tm.MarkPrice())
		assert.Equal(t, int64(40_000_000), tm.OraclePrice())
	})

	t.Run("invalid state", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		a := balancedAMM(t)
		a.PegMultiplier = num.UintZero()
		_, err := markets.NewMarket(context.Background(), logging.NewTestLogger(), markets.NewDefaultConfig(), marketID, a, nil, mocks.NewMockBroker(ctrl))
		assert.ErrorIs(t, err, types.ErrZeroPegMultiplier)
	})

	t.Run("empty ID", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		_, err := markets.NewMarket(context.Background(), logging.NewTestLogger(), markets.NewDefaultConfig(), "", balancedAMM(t), nil, mocks.NewMockBroker(ctrl))
		assert.ErrorIs(t, err, markets.ErrEmptyMarketID)
	})

	t.Run("state is copied", func(t *testing.T) {
		a := balancedAMM(t)
		tm := getTestMarket(t, a)
		a.LastMarkPriceTWAP = 1
		assert.Equal(t, uint64(40_000_000), tm.MarkPrice())
	})
}

func TestOnOracleUpdate(t *testing.T) {
	t.Run("commits the tracker update", func(t *testing.T) {
		tm := getTestMarket(t, balancedAMM(t))
		now := startTime + 60

		expected := tm.State()
		_, err := tm.engine.UpdateOraclePriceTWAP(expected, now, validSample(40_500_000))
		require.NoError(t, err)

		require.NoError(t, tm.OnOracleUpdate(context.Background(), now, validSample(40_500_000)))
		assert.Equal(t, expected, tm.State())
		assert.Equal(t, now, tm.State().LastOraclePriceTWAPTs)

		evt, ok := tm.lastEvent(t).(*events.AMMStateUpdated)
		require.True(t, ok)
		assert.Equal(t, "oracle", evt.Trigger())
		assert.Equal(t, now, evt.Timestamp())
		assert.Equal(t, expected, evt.AMM())
	})

	t.Run("rejects invalid samples", func(t *testing.T) {
		tm := getTestMarket(t, balancedAMM(t))
		before := tm.State()

		stale := validSample(40_500_000)
		stale.Delay = 11
		thin := validSample(40_500_000)
		thin.HasSufficientNumberOfDataPoints = false

		for _, s := range []types.OraclePriceData{stale, thin, validSample(0)} {
			err := tm.OnOracleUpdate(context.Background(), startTime+60, s)
			assert.ErrorIs(t, err, markets.ErrOracleSampleRejected)
		}
		assert.Equal(t, before, tm.State())
		assert.Len(t, tm.sent, 1)
	})

	t.Run("validation can be disabled", func(t *testing.T) {
		tm := getTestMarket(t, balancedAMM(t))
		cfg := markets.NewDefaultConfig()
		cfg.RejectInvalidOracle = false
		tm.ReloadConf(cfg)

		stale := validSample(40_500_000)
		stale.Delay = 100
		require.NoError(t, tm.OnOracleUpdate(context.Background(), startTime+60, stale))
		assert.Equal(t, startTime+60, tm.State().LastOraclePriceTWAPTs)
	})
}

func TestOnTrade(t *testing.T) {
	tm := getTestMarket(t, balancedAMM(t))
	now := startTime
	for i, price := range []uint64{40_100_000, 39_900_000, 40_050_000, 41_000_000} {
		now += 30
		direction := types.PositionDirectionLong
		if i%2 == 1 {
			direction = types.PositionDirectionShort
		}
		require.NoError(t, tm.OnTrade(context.Background(), now, price, direction))

		s := tm.State()
		assert.LessOrEqual(t, s.LastBidPriceTWAP, s.LastMarkPriceTWAP)
		assert.LessOrEqual(t, s.LastMarkPriceTWAP, s.LastAskPriceTWAP)
		assert.Equal(t, now, s.LastMarkPriceTWAPTs)
		assert.Equal(t, s.LastMarkPriceTWAP, tm.MarkPrice())

		evt, ok := tm.lastEvent(t).(*events.AMMStateUpdated)
		require.True(t, ok)
		assert.Equal(t, "trade", evt.Trigger())
	}

	err := tm.OnTrade(context.Background(), now+1, 40_000_000, types.PositionDirection(7))
	assert.ErrorIs(t, err, amm.ErrInvalidDirection)
}

func TestFailedUpdatesAreDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	broker := mocks.NewMockBroker(ctrl)
	engine := mocks.NewMockAMMEngine(ctrl)

	broker.EXPECT().Send(gomock.Any()).Times(1)
	mkt, err := markets.NewMarket(context.Background(), logging.NewTestLogger(), markets.NewDefaultConfig(), marketID, balancedAMM(t), engine, broker)
	require.NoError(t, err)
	before := mkt.State()

	engine.EXPECT().UpdateMarkTWAP(gomock.Any(), startTime+10, uint64(40_000_000), types.PositionDirectionLong).
		DoAndReturn(func(a *types.AMM, _ int64, _ uint64, _ types.PositionDirection) (uint64, error) {
			a.LastMarkPriceTWAP = 1
			a.LastMarkPriceTWAPTs = startTime + 10
			return 0, amm.ErrOverflow
		})
	err = mkt.OnTrade(context.Background(), startTime+10, 40_000_000, types.PositionDirectionLong)
	assert.ErrorIs(t, err, amm.ErrMathError)

	engine.EXPECT().UpdateOraclePriceTWAP(gomock.Any(), startTime+10, gomock.Any()).
		DoAndReturn(func(a *types.AMM, _ int64, _ types.OraclePriceData) (int64, error) {
			a.LastOraclePriceTWAP = 1
			return 0, amm.ErrDivisionByZero
		})
	err = mkt.OnOracleUpdate(context.Background(), startTime+10, validSample(40_000_000))
	assert.ErrorIs(t, err, amm.ErrMathError)

	assert.Equal(t, before, mkt.State())
}

func TestUpdatePositions(t *testing.T) {
	tm := getTestMarket(t, balancedAMM(t))

	positions := []*types.Position{
		{Party: "alice", MarketID: marketID, BaseAssetAmount: num.NewInt(3_000_000_000), QuoteAssetAmount: num.NewInt(-120_000_000)},
		{Party: "bob", BaseAssetAmount: num.NewInt(-1_000_000_000), QuoteAssetAmount: num.NewInt(41_000_000)},
	}
	require.NoError(t, tm.UpdatePositions(context.Background(), positions))

	s := tm.State()
	assert.Equal(t, "2000000000", s.BaseAssetAmountWithAMM.String())
	assert.Equal(t, "-79000000", s.QuoteAssetAmount.String())

	evt, ok := tm.lastEvent(t).(*events.PositionsUpdated)
	require.True(t, ok)
	assert.Equal(t, 2, evt.Positions())
	assert.Equal(t, "2000000000", evt.NetBase().String())

	wrong := []*types.Position{{Party: "carol", MarketID: "eth-perp", BaseAssetAmount: num.NewInt(1)}}
	err := tm.UpdatePositions(context.Background(), wrong)
	assert.ErrorIs(t, err, markets.ErrPositionMarketInvalid)
	assert.Equal(t, s, tm.State())

	withNil := []*types.Position{positions[0], nil}
	assert.NotPanics(t, func() {
		err = tm.UpdatePositions(context.Background(), withNil)
	})
	assert.ErrorIs(t, err, markets.ErrNilPosition)
	assert.Equal(t, s, tm.State())
}

func TestSettle(t *testing.T) {
	t.Run("btc market", func(t *testing.T) {
		tm := getTestMarket(t, btcAMM())

		summary, err := tm.Settle(context.Background(), 22_050_000_000, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(22_049_999_999), summary.ExpiryPrice)
		assert.Equal(t, uint64(20_076_684_570), summary.TerminalPrice)
		assert.Equal(t, uint64(21_051_929_600), summary.ReservePrice)
		assert.Equal(t, "-116270491804", summary.NetUserPnLAtOracle.String())
		assert.Equal(t, "-116270491816", summary.NetUserPnLAtExpiry.String())
		assert.True(t, summary.Budget.IsZero())

		evt, ok := tm.lastEvent(t).(*events.MarketSettled)
		require.True(t, ok)
		assert.Equal(t, int64(22_049_999_999), evt.ExpiryPrice())
		assert.Equal(t, "-116270491816", evt.NetUserPnL().String())

		assert.True(t, tm.IsSettled())
		assert.Equal(t, summary, tm.Settlement())
	})

	t.Run("settled markets are read only", func(t *testing.T) {
		tm := getTestMarket(t, balancedAMM(t))
		assert.Nil(t, tm.Settlement())
		_, err := tm.Settle(context.Background(), 40_000_000, num.NewUint(1_000))
		require.NoError(t, err)

		_, err = tm.Settle(context.Background(), 40_000_000, nil)
		assert.ErrorIs(t, err, markets.ErrMarketSettled)
		assert.ErrorIs(t, tm.OnTrade(context.Background(), startTime+1, 40_000_000, types.PositionDirectionLong), markets.ErrMarketSettled)
		assert.ErrorIs(t, tm.OnOracleUpdate(context.Background(), startTime+1, validSample(40_000_000)), markets.ErrMarketSettled)
		assert.ErrorIs(t, tm.UpdatePositions(context.Background(), nil), markets.ErrMarketSettled)
	})

	t.Run("flat market settles at the oracle price", func(t *testing.T) {
		tm := getTestMarket(t, balancedAMM(t))
		summary, err := tm.Settle(context.Background(), 39_000_000, num.NewUint(1_000))
		require.NoError(t, err)
		assert.Equal(t, int64(39_000_000), summary.ExpiryPrice)
		assert.True(t, summary.NetUserPnLAtExpiry.IsZero())
	})

	t.Run("failed settlement leaves the market open", func(t *testing.T) {
		tm := getTestMarket(t, btcAMM())
		_, err := tm.Settle(context.Background(), 0, nil)
		assert.ErrorIs(t, err, amm.ErrMathError)
		assert.False(t, tm.IsSettled())
	})
}

func TestSnapshotRestore(t *testing.T) {
	tm := getTestMarket(t, btcAMM())
	_, err := tm.Settle(context.Background(), 22_050_000_000, nil)
	require.NoError(t, err)

	snap := tm.Snapshot()
	ctrl := gomock.NewController(t)
	// restoring does not announce the market again
	restored, err := markets.NewMarketFromSnapshot(logging.NewTestLogger(), markets.NewDefaultConfig(), snap, tm.engine, mocks.NewMockBroker(ctrl))
	require.NoError(t, err)

	assert.Equal(t, marketID, restored.ID())
	assert.Equal(t, tm.State(), restored.State())
	assert.Equal(t, tm.Settlement(), restored.Settlement())
	assert.True(t, restored.IsSettled())

	_, err = markets.NewMarketFromSnapshot(logging.NewTestLogger(), markets.NewDefaultConfig(), &markets.Snapshot{ID: marketID}, tm.engine, nil)
	assert.Error(t, err)
}

func TestQuotes(t *testing.T) {
	a := balancedAMM(t)
	a.LongSpread = 500
	a.ShortSpread = 500
	tm := getTestMarket(t, a)

	rp, err := tm.ReservePrice()
	require.NoError(t, err)
	assert.Equal(t, uint64(40_000_000), rp)

	bid, ask, err := tm.BidAsk()
	require.NoError(t, err)
	assert.Equal(t, uint64(39_990_000), bid)
	assert.Equal(t, uint64(40_010_000), ask)
}
