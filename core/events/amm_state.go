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

	"code.vegaprotocol.io/vamm/core/types"
)

// AMMStateUpdated is emitted every time a market commits a new AMM state.
type AMMStateUpdated struct {
	*Base
	marketID string
	trigger  string
	ts       int64
	amm      *types.AMM
}

func NewAMMStateUpdated(ctx context.Context, marketID, trigger string, ts int64, amm *types.AMM) *AMMStateUpdated {
	return &AMMStateUpdated{
		Base:     newBase(ctx, AMMStateUpdatedEvent),
		marketID: marketID,
		trigger:  trigger,
		ts:       ts,
		amm:      amm.Clone(),
	}
}

func (a AMMStateUpdated) MarketID() string {
	return a.marketID
}

// Trigger is the kind of update which produced the state: oracle or trade.
func (a AMMStateUpdated) Trigger() string {
	return a.trigger
}

func (a AMMStateUpdated) Timestamp() int64 {
	return a.ts
}

func (a AMMStateUpdated) AMM() *types.AMM {
	return a.amm.Clone()
}

func (a AMMStateUpdated) MarketEvent() string {
	return fmt.Sprintf("Market %s AMM updated by %s at %d: mark twap %d, oracle twap %d",
		a.marketID, a.trigger, a.ts, a.amm.LastMarkPriceTWAP, a.amm.LastOraclePriceTWAP)
}
