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

package broker

import (
	"encoding/json"
	"io"
	"sync"

	"code.vegaprotocol.io/vamm/core/events"
	"code.vegaprotocol.io/vamm/logging"
)

type subscriberBase struct {
	id    int
	types []events.Type
}

func (s *subscriberBase) SetID(id int) {
	s.id = id
}

func (s *subscriberBase) ID() int {
	return s.id
}

func (s *subscriberBase) Types() []events.Type {
	return s.types
}

// LogSubscriber logs every event it receives.
type LogSubscriber struct {
	subscriberBase
	log *logging.Logger
}

func NewLogSubscriber(log *logging.Logger, types ...events.Type) *LogSubscriber {
	return &LogSubscriber{
		subscriberBase: subscriberBase{types: types},
		log:            log.Named("events"),
	}
}

func (l *LogSubscriber) Push(evts ...events.Event) {
	for _, e := range evts {
		l.log.Info(e.MarketEvent(),
			logging.String("event", e.Type().String()),
			logging.Uint64("seq", e.Sequence()),
			logging.String("trace-id", e.TraceID()),
			logging.MarketID(e.MarketID()),
		)
	}
}

type eventLine struct {
	Seq      uint64 `json:"seq"`
	Type     string `json:"type"`
	TraceID  string `json:"trace_id"`
	MarketID string `json:"market_id"`
	Message  string `json:"message"`
}

// JSONSubscriber writes every event it receives as a JSON line.
type JSONSubscriber struct {
	subscriberBase
	log *logging.Logger

	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONSubscriber(log *logging.Logger, w io.Writer, types ...events.Type) *JSONSubscriber {
	return &JSONSubscriber{
		subscriberBase: subscriberBase{types: types},
		log:            log,
		enc:            json.NewEncoder(w),
	}
}

func (j *JSONSubscriber) Push(evts ...events.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, e := range evts {
		line := eventLine{
			Seq:      e.Sequence(),
			Type:     e.Type().String(),
			TraceID:  e.TraceID(),
			MarketID: e.MarketID(),
			Message:  e.MarketEvent(),
		}
		if err := j.enc.Encode(line); err != nil {
			j.log.Error("could not write event", logging.Error(err))
		}
	}
}
