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
	"fmt"

	"code.vegaprotocol.io/vamm/core/types"
	"code.vegaprotocol.io/vamm/libs/num"
)

// SettlementSummary is the outcome of settling a market.
type SettlementSummary struct {
	MarketID      string    `json:"market_id"`
	OraclePrice   int64     `json:"oracle_price"`
	Budget        *num.Uint `json:"budget"`
	ExpiryPrice   int64     `json:"expiry_price"`
	TerminalPrice uint64    `json:"terminal_price"`
	ReservePrice  uint64    `json:"reserve_price"`
	// positive when traders are owed money
	NetUserPnLAtOracle *num.Int `json:"net_user_pnl_at_oracle"`
	NetUserPnLAtExpiry *num.Int `json:"net_user_pnl_at_expiry"`
}

func (s SettlementSummary) Clone() *SettlementSummary {
	cpy := s
	if s.Budget != nil {
		cpy.Budget = s.Budget.Clone()
	}
	if s.NetUserPnLAtOracle != nil {
		cpy.NetUserPnLAtOracle = s.NetUserPnLAtOracle.Clone()
	}
	if s.NetUserPnLAtExpiry != nil {
		cpy.NetUserPnLAtExpiry = s.NetUserPnLAtExpiry.Clone()
	}
	return &cpy
}

func (s SettlementSummary) String() string {
	return fmt.Sprintf(
		"marketID(%s) oraclePrice(%d) expiryPrice(%d) terminalPrice(%d) reservePrice(%d)",
		s.MarketID, s.OraclePrice, s.ExpiryPrice, s.TerminalPrice, s.ReservePrice,
	)
}

// Snapshot is the persisted form of a market.
type Snapshot struct {
	ID         string             `json:"id"`
	AMM        *types.AMM         `json:"amm"`
	Settlement *SettlementSummary `json:"settlement,omitempty"`
}
