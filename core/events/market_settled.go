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

type MarketSettled struct {
	*Base
	marketID      string
	oraclePrice   int64
	expiryPrice   int64
	terminalPrice uint64
	budget        *num.Uint
	netUserPnL    *num.Int
}

func NewMarketSettled(ctx context.Context, marketID string, oraclePrice, expiryPrice int64, terminalPrice uint64, budget *num.Uint, netUserPnL *num.Int) *MarketSettled {
	return &MarketSettled{
		Base:          newBase(ctx, MarketSettledEvent),
		marketID:      marketID,
		oraclePrice:   oraclePrice,
		expiryPrice:   expiryPrice,
		terminalPrice: terminalPrice,
		budget:        budget.Clone(),
		netUserPnL:    netUserPnL.Clone(),
	}
}

func (m MarketSettled) MarketID() string {
	return m.marketID
}

func (m MarketSettled) OraclePrice() int64 {
	return m.oraclePrice
}

func (m MarketSettled) ExpiryPrice() int64 {
	return m.expiryPrice
}

func (m MarketSettled) TerminalPrice() uint64 {
	return m.terminalPrice
}

func (m MarketSettled) Budget() *num.Uint {
	return m.budget.Clone()
}

// NetUserPnL is the net PnL of all traders valued at the expiry price.
func (m MarketSettled) NetUserPnL() *num.Int {
	return m.netUserPnL.Clone()
}

func (m MarketSettled) MarketEvent() string {
	return fmt.Sprintf("Market %s settled at %d (oracle %d, terminal %d)",
		m.marketID, m.expiryPrice, m.oraclePrice, m.terminalPrice)
}
