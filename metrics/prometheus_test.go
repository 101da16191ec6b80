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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddInstrument(t *testing.T) {
	reg := prometheus.NewRegistry()

	t.Run("plain gauge is not a vector", func(t *testing.T) {
		h, err := AddInstrument(reg, Gauge, "plain", Namespace("test"))
		require.NoError(t, err)
		_, err = h.Gauge()
		assert.NoError(t, err)
		_, err = h.GaugeVec()
		assert.ErrorIs(t, err, ErrInstrumentTypeMismatch)
		_, err = h.Counter()
		assert.ErrorIs(t, err, ErrInstrumentTypeMismatch)
	})

	t.Run("vector counter", func(t *testing.T) {
		h, err := AddInstrument(reg, Counter, "vec_total", Namespace("test"), Vectors("a"))
		require.NoError(t, err)
		_, err = h.CounterVec()
		assert.NoError(t, err)
		_, err = h.HistogramVec()
		assert.ErrorIs(t, err, ErrInstrumentTypeMismatch)
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		_, err := AddInstrument(reg, Gauge, "plain", Namespace("test"))
		assert.Error(t, err)
	})

	t.Run("unknown instrument", func(t *testing.T) {
		_, err := AddInstrument(reg, instrument(42), "nope")
		assert.ErrorIs(t, err, ErrInstrumentNotSupported)
	})
}

func TestSettersAreNoopBeforeSetup(t *testing.T) {
	if priceGauge != nil {
		t.Skip("metrics already set up")
	}
	assert.NotPanics(t, func() {
		PriceGaugeSet("m", "mark_twap", 1)
		VolatilityGaugeSet("m", "mark", 1)
		UpdateCounterInc("m", "trade", "ok")
		SettledMarketsInc()
		StartUpdateTimer("trade")()
	})
}

func TestSetupAndRecord(t *testing.T) {
	require.NoError(t, Setup())
	// second call is a no-op
	require.NoError(t, Setup())

	PriceGaugeSet("btc", "mark_twap", 21051.9296)
	assert.Equal(t, 21051.9296, testutil.ToFloat64(priceGauge.WithLabelValues("btc", "mark_twap")))

	VolatilityGaugeSet("btc", "oracle", 2.5)
	assert.Equal(t, 2.5, testutil.ToFloat64(volatilityGauge.WithLabelValues("btc", "oracle")))

	UpdateCounterInc("btc", "oracle", "ok")
	UpdateCounterInc("btc", "oracle", "ok")
	assert.Equal(t, 2.0, testutil.ToFloat64(updateCounter.WithLabelValues("btc", "oracle", "ok")))

	before := testutil.ToFloat64(settledCounter)
	SettledMarketsInc()
	assert.Equal(t, before+1, testutil.ToFloat64(settledCounter))
}

func TestConfigValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Enabled = true
	assert.NoError(t, cfg.Validate())

	cfg.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Port = 2112
	cfg.Path = "metrics"
	assert.Error(t, cfg.Validate())
}
