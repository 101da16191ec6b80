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

type MarketCreated struct {
	*Base
	marketID string
	amm      *types.AMM
}

func NewMarketCreated(ctx context.Context, marketID string, amm *types.AMM) *MarketCreated {
	return &MarketCreated{
		Base:     newBase(ctx, MarketCreatedEvent),
		marketID: marketID,
		amm:      amm.Clone(),
	}
}

func (m MarketCreated) MarketID() string {
	return m.marketID
}

func (m MarketCreated) AMM() *types.AMM {
	return m.amm.Clone()
}

func (m MarketCreated) MarketEvent() string {
	return fmt.Sprintf("Market %s created with peg %s and sqrt k %s",
		m.marketID, m.amm.PegMultiplier.String(), m.amm.SqrtK.String())
}
