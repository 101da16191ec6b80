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

package broker_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"code.vegaprotocol.io/vamm/broker"
	"code.vegaprotocol.io/vamm/core/events"
	"code.vegaprotocol.io/vamm/core/types"
	"code.vegaprotocol.io/vamm/libs/num"
	"code.vegaprotocol.io/vamm/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	id    int
	types []events.Type
	got   []events.Event
}

func (c *collector) Push(evts ...events.Event) { c.got = append(c.got, evts...) }
func (c *collector) Types() []events.Type      { return c.types }
func (c *collector) SetID(id int)              { c.id = id }
func (c *collector) ID() int                   { return c.id }

func getTestBroker(t *testing.T) *broker.Broker {
	t.Helper()
	return broker.New(logging.NewTestLogger(), broker.NewDefaultConfig())
}

func created(t *testing.T, id string) events.Event {
	t.Helper()
	a, err := types.NewAMM(num.NewUint(1_000_000_000), num.NewUint(1_000_000_000), num.NewUint(1_000_000), 3600)
	require.NoError(t, err)
	return events.NewMarketCreated(context.Background(), id, a)
}

func settled(id string) events.Event {
	return events.NewMarketSettled(context.Background(), id, 1, 1, 1, num.UintZero(), num.IntZero())
}

func TestBrokerDispatchByType(t *testing.T) {
	b := getTestBroker(t)
	all := &collector{}
	onlySettled := &collector{types: []events.Type{events.MarketSettledEvent}}
	mixed := &collector{types: []events.Type{events.MarketSettledEvent, events.All}}

	assert.Equal(t, 1, b.Subscribe(all))
	assert.Equal(t, 2, b.Subscribe(onlySettled))
	assert.Equal(t, 3, b.Subscribe(mixed))
	assert.Equal(t, 2, onlySettled.ID())

	b.SendBatch([]events.Event{created(t, "m1"), settled("m1")})

	assert.Len(t, all.got, 2)
	assert.Len(t, mixed.got, 2)
	require.Len(t, onlySettled.got, 1)
	assert.Equal(t, events.MarketSettledEvent, onlySettled.got[0].Type())
}

func TestBrokerSequence(t *testing.T) {
	b := getTestBroker(t)
	all := &collector{}
	b.Subscribe(all)

	b.Send(created(t, "m1"))
	b.Send(created(t, "m2"))
	b.SendBatch(nil)

	require.Len(t, all.got, 2)
	assert.Equal(t, uint64(1), all.got[0].Sequence())
	assert.Equal(t, uint64(2), all.got[1].Sequence())
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := getTestBroker(t)
	first, second := &collector{}, &collector{}
	k := b.Subscribe(first)
	b.Subscribe(second)

	b.Unsubscribe(k)
	// unknown keys are ignored
	b.Unsubscribe(42)
	b.Send(created(t, "m1"))

	assert.Empty(t, first.got)
	assert.Len(t, second.got, 1)

	// the key is reused
	third := &collector{}
	assert.Equal(t, k, b.Subscribe(third))
}

func TestJSONSubscriber(t *testing.T) {
	b := getTestBroker(t)
	var buf bytes.Buffer
	b.Subscribe(broker.NewJSONSubscriber(logging.NewTestLogger(), &buf, events.MarketSettledEvent))
	b.Subscribe(broker.NewLogSubscriber(logging.NewTestLogger()))

	b.Send(created(t, "m1"))
	b.Send(settled("m1"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, "MarketSettledEvent", got["type"])
	assert.Equal(t, "m1", got["market_id"])
	assert.Equal(t, float64(2), got["seq"])
}
