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

package events_test

import (
	"context"
	"testing"

	"code.vegaprotocol.io/vamm/core/events"
	"code.vegaprotocol.io/vamm/core/types"
	vgcontext "code.vegaprotocol.io/vamm/libs/context"
	"code.vegaprotocol.io/vamm/libs/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAMM(t *testing.T) *types.AMM {
	t.Helper()
	a, err := types.NewAMM(num.NewUint(2_000_000_000), num.NewUint(2_000_000_000), num.NewUint(40_000_000), 3600)
	require.NoError(t, err)
	require.NoError(t, a.SeedTWAPs(40_000_000, 1_000))
	return a
}

func TestEventTypes(t *testing.T) {
	ctx := vgcontext.WithTraceID(context.Background(), "trace")
	a := testAMM(t)

	evts := []events.Event{
		events.NewMarketCreated(ctx, "m1", a),
		events.NewAMMStateUpdated(ctx, "m1", "oracle", 10, a),
		events.NewPositionsUpdated(ctx, "m1", 2, num.NewInt(5), num.NewInt(-5)),
		events.NewMarketSettled(ctx, "m1", 40_000_000, 40_000_000, 40_000_000, num.UintZero(), num.IntZero()),
	}
	expected := []events.Type{
		events.MarketCreatedEvent,
		events.AMMStateUpdatedEvent,
		events.PositionsUpdatedEvent,
		events.MarketSettledEvent,
	}
	for i, e := range evts {
		assert.Equal(t, expected[i], e.Type())
		assert.Equal(t, "trace", e.TraceID())
		assert.Equal(t, "m1", e.MarketID())
		assert.NotEmpty(t, e.MarketEvent())
	}
}

func TestEventsKeepACopyOfTheState(t *testing.T) {
	a := testAMM(t)
	e := events.NewAMMStateUpdated(context.Background(), "m1", "trade", 10, a)
	a.LastMarkPriceTWAP = 1
	assert.Equal(t, uint64(40_000_000), e.AMM().LastMarkPriceTWAP)

	got := e.AMM()
	got.LastMarkPriceTWAP = 2
	assert.Equal(t, uint64(40_000_000), e.AMM().LastMarkPriceTWAP)
}

func TestSequenceIsSetOnce(t *testing.T) {
	e := events.NewMarketCreated(context.Background(), "m1", testAMM(t))
	assert.NotEmpty(t, e.TraceID())
	e.SetSequenceID(3)
	e.SetSequenceID(4)
	assert.Equal(t, uint64(3), e.Sequence())
}

func TestTypeFromString(t *testing.T) {
	tp, ok := events.TryFromString("MarketSettled")
	require.True(t, ok)
	assert.Equal(t, events.MarketSettledEvent, *tp)

	tp, ok = events.TryFromString("ammstateupdatedevent")
	require.True(t, ok)
	assert.Equal(t, events.AMMStateUpdatedEvent, *tp)

	tp, ok = events.TryFromString("PositionsUpdatedEVENT")
	require.True(t, ok)
	assert.Equal(t, events.PositionsUpdatedEvent, *tp)

	tp, ok = events.TryFromString("all")
	require.True(t, ok)
	assert.Equal(t, events.All, *tp)

	_, ok = events.TryFromString("nope")
	assert.False(t, ok)
	assert.Equal(t, "UNKNOWN EVENT", events.Type(99).String())
}

func TestMarketIDFilter(t *testing.T) {
	f := events.GetMarketIDFilter("m1")
	assert.True(t, f(events.NewMarketCreated(context.Background(), "m1", testAMM(t))))
	assert.False(t, f(events.NewMarketCreated(context.Background(), "m2", testAMM(t))))
}
