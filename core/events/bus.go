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

package events

import (
	"context"
	"fmt"
	"strings"

	vgcontext "code.vegaprotocol.io/vamm/libs/context"
)

var ErrInvalidEventType = fmt.Errorf("invalid event type")

type Type int

// Base common denominator all events share.
type Base struct {
	ctx     context.Context
	traceID string
	seq     uint64
	et      Type
}

// Event - the base event interface type.
type Event interface {
	Type() Type
	Context() context.Context
	TraceID() string
	Sequence() uint64
	SetSequenceID(s uint64)
	MarketID() string
	// MarketEvent returns a human readable description of the event.
	MarketEvent() string
}

const (
	// All event type -> used by subscribers to just receive all events, has no actual corresponding event payload.
	All Type = iota
	MarketCreatedEvent
	AMMStateUpdatedEvent
	PositionsUpdatedEvent
	MarketSettledEvent
)

var eventStrings = map[Type]string{
	All:                   "ALL",
	MarketCreatedEvent:    "MarketCreatedEvent",
	AMMStateUpdatedEvent:  "AMMStateUpdatedEvent",
	PositionsUpdatedEvent: "PositionsUpdatedEvent",
	MarketSettledEvent:    "MarketSettledEvent",
}

func newBase(ctx context.Context, t Type) *Base {
	ctx, tID := vgcontext.TraceIDFromContext(ctx)
	return &Base{
		ctx:     ctx,
		traceID: tID,
		et:      t,
	}
}

func (b Base) TraceID() string {
	return b.traceID
}

// SetSequenceID sets the sequence ID, only the first call has an effect.
func (b *Base) SetSequenceID(s uint64) {
	if b.seq != 0 {
		return
	}
	b.seq = s
}

func (b Base) Sequence() uint64 {
	return b.seq
}

func (b Base) Context() context.Context {
	return b.ctx
}

func (b Base) Type() Type {
	return b.et
}

func (t Type) String() string {
	s, ok := eventStrings[t]
	if !ok {
		return "UNKNOWN EVENT"
	}
	return s
}

// TryFromString tries to parse a raw string into an event type, false indicates that.
func TryFromString(s string) (*Type, bool) {
	s = trimEventSuffix(s)
	for k, v := range eventStrings {
		if strings.EqualFold(trimEventSuffix(v), s) {
			return &k, true
		}
	}
	return nil, false
}

// trimEventSuffix removes a trailing "event" whatever its case.
func trimEventSuffix(s string) string {
	const suffix = "event"
	if len(s) > len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix) {
		return s[:len(s)-len(suffix)]
	}
	return s
}

// GetMarketIDFilter returns a filter keeping the events of a single market.
func GetMarketIDFilter(mID string) func(Event) bool {
	return func(e Event) bool {
		return e.MarketID() == mID
	}
}
