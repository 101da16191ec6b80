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

package markets

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"code.vegaprotocol.io/vamm/core/amm"
	"code.vegaprotocol.io/vamm/core/events"
	"code.vegaprotocol.io/vamm/core/types"
	"code.vegaprotocol.io/vamm/libs/num"
	"code.vegaprotocol.io/vamm/logging"
	"code.vegaprotocol.io/vamm/metrics"
)

var (
	ErrMarketSettled         = errors.New("market is settled")
	ErrOracleSampleRejected  = errors.New("oracle sample rejected")
	ErrPositionMarketInvalid = errors.New("position does not belong to the market")
	ErrEmptyMarketID         = errors.New("market ID cannot be empty")
	ErrNilPosition           = errors.New("nil position")
)

const (
	triggerOracle    = "oracle"
	triggerTrade     = "trade"
	triggerPositions = "positions"
	triggerSettle    = "settle"

	resultOK       = "ok"
	resultError    = "error"
	resultRejected = "rejected"
)

// priceDecimals is the number of decimals of PricePrecision.
const priceDecimals = 6

// Broker is the event sink of a market.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/mocks.go -package mocks code.vegaprotocol.io/vamm/core/markets Broker,AMMEngine
type Broker interface {
	Send(event events.Event)
}

// AMMEngine updates the TWAP trackers of an AMM in place.
type AMMEngine interface {
	UpdateOraclePriceTWAP(a *types.AMM, now int64, sample types.OraclePriceData) (int64, error)
	UpdateMarkTWAP(a *types.AMM, now int64, tradePrice uint64, direction types.PositionDirection) (uint64, error)
}

// Market owns the AMM state of a single market. Every update is applied to a
// copy of the state which replaces it only once the update succeeded.
type Market struct {
	log    *logging.Logger
	id     string
	engine AMMEngine
	broker Broker

	mu         sync.RWMutex
	cfg        Config
	amm        *types.AMM
	settlement *SettlementSummary
}

// NewMarket creates a market from an initial AMM state and announces it.
func NewMarket(
	ctx context.Context,
	log *logging.Logger,
	cfg Config,
	id string,
	state *types.AMM,
	engine AMMEngine,
	broker Broker,
) (*Market, error) {
	m, err := newMarket(log, cfg, id, state, engine, broker)
	if err != nil {
		return nil, err
	}
	m.broker.Send(events.NewMarketCreated(ctx, m.id, m.amm))
	m.updateGauges()
	return m, nil
}

// NewMarketFromSnapshot restores a market, no event is emitted.
func NewMarketFromSnapshot(
	log *logging.Logger,
	cfg Config,
	snap *Snapshot,
	engine AMMEngine,
	broker Broker,
) (*Market, error) {
	if snap == nil || snap.AMM == nil {
		return nil, errors.New("empty market snapshot")
	}
	m, err := newMarket(log, cfg, snap.ID, snap.AMM, engine, broker)
	if err != nil {
		return nil, err
	}
	if snap.Settlement != nil {
		m.settlement = snap.Settlement.Clone()
	}
	m.updateGauges()
	return m, nil
}

func newMarket(log *logging.Logger, cfg Config, id string, state *types.AMM, engine AMMEngine, broker Broker) (*Market, error) {
	if len(id) == 0 {
		return nil, ErrEmptyMarketID
	}
	if state == nil {
		return nil, errors.New("missing AMM state")
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AMM state for market %s: %w", id, err)
	}
	log = log.Named(namedLogger).With(logging.MarketID(id))
	log.SetLevel(cfg.Level.Get())

	return &Market{
		log:    log,
		id:     id,
		engine: engine,
		broker: broker,
		cfg:    cfg,
		amm:    state.Clone(),
	}, nil
}

// ReloadConf updates the market configuration.
func (m *Market) ReloadConf(cfg Config) {
	m.log.Info("reloading configuration")
	if m.log.GetLevel() != cfg.Level.Get() {
		m.log.Info("updating log level",
			logging.String("old", m.log.GetLevelString()),
			logging.String("new", cfg.Level.String()),
		)
		m.log.SetLevel(cfg.Level.Get())
	}
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
}

func (m *Market) ID() string {
	return m.id
}

// OnOracleUpdate feeds an oracle sample observed at now to the oracle trackers.
func (m *Market) OnOracleUpdate(ctx context.Context, now int64, sample types.OraclePriceData) error {
	defer metrics.StartUpdateTimer(triggerOracle)()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settlement != nil {
		return ErrMarketSettled
	}
	if bool(m.cfg.RejectInvalidOracle) && !sample.IsValid(m.cfg.MaxOracleDelay) {
		metrics.UpdateCounterInc(m.id, triggerOracle, resultRejected)
		m.log.Debug("oracle sample rejected",
			logging.String("sample", sample.String()),
			logging.Int64("max-delay", m.cfg.MaxOracleDelay),
		)
		return ErrOracleSampleRejected
	}

	a := m.amm.Clone()
	twap, err := m.engine.UpdateOraclePriceTWAP(a, now, sample)
	if err != nil {
		metrics.UpdateCounterInc(m.id, triggerOracle, resultError)
		m.log.Error("could not update oracle twap",
			logging.Int64("now", now),
			logging.Error(err),
		)
		return err
	}
	m.commit(ctx, triggerOracle, now, a)
	m.log.Debug("oracle twap updated", logging.Int64("oracle-twap", twap))
	return nil
}

// OnTrade feeds a fill at price in the given direction to the mark trackers.
func (m *Market) OnTrade(ctx context.Context, now int64, price uint64, direction types.PositionDirection) error {
	defer metrics.StartUpdateTimer(triggerTrade)()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settlement != nil {
		return ErrMarketSettled
	}

	a := m.amm.Clone()
	twap, err := m.engine.UpdateMarkTWAP(a, now, price, direction)
	if err != nil {
		metrics.UpdateCounterInc(m.id, triggerTrade, resultError)
		m.log.Error("could not update mark twap",
			logging.Int64("now", now),
			logging.Uint64("price", price),
			logging.String("direction", direction.String()),
			logging.Error(err),
		)
		return err
	}
	m.commit(ctx, triggerTrade, now, a)
	m.log.Debug("mark twap updated", logging.Uint64("mark-twap", twap))
	return nil
}

// UpdatePositions replaces the net amounts of the AMM with the sum of the
// given trader positions.
func (m *Market) UpdatePositions(ctx context.Context, positions []*types.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settlement != nil {
		return ErrMarketSettled
	}
	for i, p := range positions {
		if p == nil {
			return fmt.Errorf("%w at index %d", ErrNilPosition, i)
		}
		if len(p.MarketID) > 0 && p.MarketID != m.id {
			return fmt.Errorf("%w: party %s, market %s", ErrPositionMarketInvalid, p.Party, p.MarketID)
		}
	}

	base, quote := types.NetPositions(positions)
	a := m.amm.Clone()
	a.BaseAssetAmountWithAMM = base
	a.QuoteAssetAmount = quote
	m.amm = a

	metrics.UpdateCounterInc(m.id, triggerPositions, resultOK)
	m.broker.Send(events.NewPositionsUpdated(ctx, m.id, len(positions), base, quote))
	return nil
}

// Settle computes the expiry price of the market from the final oracle price
// and the settlement budget, and closes the market.
func (m *Market) Settle(ctx context.Context, oraclePrice int64, budget *num.Uint) (*SettlementSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settlement != nil {
		return nil, ErrMarketSettled
	}
	if budget == nil {
		budget = num.UintZero()
	}

	s, err := m.settlementSummary(oraclePrice, budget)
	if err != nil {
		metrics.UpdateCounterInc(m.id, triggerSettle, resultError)
		m.log.Error("could not settle market",
			logging.Int64("oracle-price", oraclePrice),
			logging.BigUint("budget", budget),
			logging.Error(err),
		)
		return nil, err
	}
	m.settlement = s

	metrics.UpdateCounterInc(m.id, triggerSettle, resultOK)
	metrics.SettledMarketsInc()
	metrics.PriceGaugeSet(m.id, "expiry", priceFloat(s.ExpiryPrice))
	m.broker.Send(events.NewMarketSettled(ctx, m.id, oraclePrice, s.ExpiryPrice, s.TerminalPrice, budget, s.NetUserPnLAtExpiry))
	m.log.Info("market settled",
		logging.Int64("expiry-price", s.ExpiryPrice),
		logging.Uint64("terminal-price", s.TerminalPrice),
		logging.BigInt("net-user-pnl", s.NetUserPnLAtExpiry),
	)
	return s.Clone(), nil
}

func (m *Market) settlementSummary(oraclePrice int64, budget *num.Uint) (*SettlementSummary, error) {
	a := m.amm
	reserve, err := amm.ReservePrice(a)
	if err != nil {
		return nil, err
	}
	terminal, _, _, err := amm.TerminalPriceAndReserves(a)
	if err != nil {
		return nil, err
	}
	expiry, err := amm.CalculateExpiryPrice(a, oraclePrice, budget)
	if err != nil {
		return nil, err
	}
	pnlAtOracle, err := amm.CalculateNetUserPnL(a, oraclePrice)
	if err != nil {
		return nil, err
	}
	pnlAtExpiry, err := amm.CalculateNetUserPnL(a, expiry)
	if err != nil {
		return nil, err
	}
	return &SettlementSummary{
		MarketID:           m.id,
		OraclePrice:        oraclePrice,
		Budget:             budget.Clone(),
		ExpiryPrice:        expiry,
		TerminalPrice:      terminal,
		ReservePrice:       reserve,
		NetUserPnLAtOracle: pnlAtOracle,
		NetUserPnLAtExpiry: pnlAtExpiry,
	}, nil
}

func (m *Market) commit(ctx context.Context, trigger string, now int64, a *types.AMM) {
	m.amm = a
	metrics.UpdateCounterInc(m.id, trigger, resultOK)
	m.updateGauges()
	m.broker.Send(events.NewAMMStateUpdated(ctx, m.id, trigger, now, a))
}

func (m *Market) updateGauges() {
	a := m.amm
	metrics.PriceGaugeSet(m.id, "mark_twap", priceFloat(int64(a.LastMarkPriceTWAP)))
	metrics.PriceGaugeSet(m.id, "mark_twap_5min", priceFloat(int64(a.LastMarkPriceTWAP5Min)))
	metrics.PriceGaugeSet(m.id, "bid_twap", priceFloat(int64(a.LastBidPriceTWAP)))
	metrics.PriceGaugeSet(m.id, "ask_twap", priceFloat(int64(a.LastAskPriceTWAP)))
	metrics.PriceGaugeSet(m.id, "oracle_twap", priceFloat(a.LastOraclePriceTWAP))
	metrics.PriceGaugeSet(m.id, "oracle_twap_5min", priceFloat(a.LastOraclePriceTWAP5Min))
	if rp, err := amm.ReservePrice(a); err == nil {
		metrics.PriceGaugeSet(m.id, "reserve", priceFloat(int64(rp)))
	}
	metrics.VolatilityGaugeSet(m.id, "mark", priceFloat(int64(a.MarkStd)))
	metrics.VolatilityGaugeSet(m.id, "oracle", priceFloat(int64(a.OracleStd)))
}

// State returns a copy of the current AMM state.
func (m *Market) State() *types.AMM {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.amm.Clone()
}

// MarkPrice is the latest mark TWAP of the market.
func (m *Market) MarkPrice() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.amm.LastMarkPriceTWAP
}

// OraclePrice is the latest oracle TWAP of the market.
func (m *Market) OraclePrice() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.amm.LastOraclePriceTWAP
}

func (m *Market) ReservePrice() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return amm.ReservePrice(m.amm)
}

// BidAsk returns the spread quotes around the reserve price.
func (m *Market) BidAsk() (uint64, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rp, err := amm.ReservePrice(m.amm)
	if err != nil {
		return 0, 0, err
	}
	return amm.BidAskPrice(m.amm, rp)
}

func (m *Market) IsSettled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settlement != nil
}

// Settlement returns the settlement of the market, nil until it is settled.
func (m *Market) Settlement() *SettlementSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settlement == nil {
		return nil
	}
	return m.settlement.Clone()
}

// Snapshot returns the persistable state of the market.
func (m *Market) Snapshot() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := &Snapshot{
		ID:  m.id,
		AMM: m.amm.Clone(),
	}
	if m.settlement != nil {
		snap.Settlement = m.settlement.Clone()
	}
	return snap
}

func priceFloat(v int64) float64 {
	return num.DecimalFromFixed(v, priceDecimals).InexactFloat64()
}
