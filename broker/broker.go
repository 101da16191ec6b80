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
	"sort"
	"sync"

	"code.vegaprotocol.io/vamm/core/events"
	"code.vegaprotocol.io/vamm/logging"
)

// Subscriber interface allows pushing events to subscribers.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/subscriber_mock.go -package mocks code.vegaprotocol.io/vamm/broker Subscriber
type Subscriber interface {
	Push(val ...events.Event)
	Types() []events.Type
	SetID(id int)
	ID() int
}

// Broker dispatches events synchronously to its subscribers, in subscription order.
type Broker struct {
	log *logging.Logger

	mu    sync.Mutex
	seq   uint64
	subs  map[int]Subscriber
	tSubs map[events.Type]map[int]struct{}
	keys  []int
}

// New creates a new broker.
func New(log *logging.Logger, config Config) *Broker {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	return &Broker{
		log:   log,
		subs:  map[int]Subscriber{},
		tSubs: map[events.Type]map[int]struct{}{},
	}
}

// Send assigns the next sequence ID to the event and pushes it to
// every subscriber interested in its type.
func (b *Broker) Send(event events.Event) {
	b.SendBatch([]events.Event{event})
}

func (b *Broker) SendBatch(evts []events.Event) {
	if len(evts) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, e := range evts {
		b.seq++
		e.SetSequenceID(b.seq)
		for _, k := range b.getSubsByType(e.Type()) {
			b.subs[k].Push(e)
		}
	}
}

func (b *Broker) getSubsByType(t events.Type) []int {
	keys := make([]int, 0, len(b.tSubs[t])+len(b.tSubs[events.All]))
	for k := range b.tSubs[t] {
		keys = append(keys, k)
	}
	if t != events.All {
		for k := range b.tSubs[events.All] {
			keys = append(keys, k)
		}
	}
	sort.Ints(keys)
	return keys
}

// Subscribe registers a new subscriber, returning the key.
func (b *Broker) Subscribe(s Subscriber) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := b.getKey()
	s.SetID(k)
	b.subs[k] = s

	types := s.Types()
	// subscribing to All as well as specific types is the same as All
	for _, t := range types {
		if t == events.All {
			types = nil
			break
		}
	}
	if len(types) == 0 {
		types = []events.Type{events.All}
	}
	for _, t := range types {
		if _, ok := b.tSubs[t]; !ok {
			b.tSubs[t] = map[int]struct{}{}
		}
		b.tSubs[t][k] = struct{}{}
	}
	b.log.Debug("new subscriber", logging.Int("id", k))
	return k
}

// Unsubscribe removes subscriber from broker
// this does not change the state of the subscriber.
func (b *Broker) Unsubscribe(k int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[k]; !ok {
		return
	}
	delete(b.subs, k)
	for t, subs := range b.tSubs {
		delete(subs, k)
		if len(subs) == 0 {
			delete(b.tSubs, t)
		}
	}
	b.keys = append(b.keys, k)
}

func (b *Broker) getKey() int {
	if len(b.keys) > 0 {
		k := b.keys[0]
		b.keys = b.keys[1:] // pop first element
		return k
	}
	return len(b.subs) + 1 // add  1 to avoid zero value
}
