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

	"code.vegaprotocol.io/vamm/libs/num"
)

type PositionsUpdated struct {
	*Base
	marketID  string
	netBase   *num.Int
	netQuote  *num.Int
	positions int
}

func NewPositionsUpdated(ctx context.Context, marketID string, positions int, netBase, netQuote *num.Int) *PositionsUpdated {
	return &PositionsUpdated{
		Base:      newBase(ctx, PositionsUpdatedEvent),
		marketID:  marketID,
		netBase:   netBase.Clone(),
		netQuote:  netQuote.Clone(),
		positions: positions,
	}
}

func (p PositionsUpdated) MarketID() string {
	return p.marketID
}

func (p PositionsUpdated) NetBase() *num.Int {
	return p.netBase.Clone()
}

func (p PositionsUpdated) NetQuote() *num.Int {
	return p.netQuote.Clone()
}

func (p PositionsUpdated) Positions() int {
	return p.positions
}

func (p PositionsUpdated) MarketEvent() string {
	return fmt.Sprintf("Market %s net position updated from %d positions: base %s, quote %s",
		p.marketID, p.positions, p.netBase.String(), p.netQuote.String())
}
