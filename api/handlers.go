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

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"code.vegaprotocol.io/vamm/core/amm"
	"code.vegaprotocol.io/vamm/core/markets"
	"code.vegaprotocol.io/vamm/core/snapshot"
	"code.vegaprotocol.io/vamm/core/types"
	"code.vegaprotocol.io/vamm/libs/num"
	"code.vegaprotocol.io/vamm/logging"

	"github.com/gorilla/mux"
)

// priceDecimals is the number of decimals of PricePrecision.
const priceDecimals = 6

type marketView struct {
	ID           string                     `json:"id"`
	Settled      bool                       `json:"settled"`
	MarkPrice    string                     `json:"mark_price"`
	OraclePrice  string                     `json:"oracle_price"`
	ReservePrice string                     `json:"reserve_price"`
	BidPrice     string                     `json:"bid_price"`
	AskPrice     string                     `json:"ask_price"`
	AMM          *types.AMM                 `json:"amm"`
	Settlement   *markets.SettlementSummary `json:"settlement,omitempty"`
}

type settlementPreview struct {
	MarketID    string   `json:"market_id"`
	OraclePrice int64    `json:"oracle_price"`
	ExpiryPrice int64    `json:"expiry_price"`
	NetUserPnL  *num.Int `json:"net_user_pnl"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func formatPrice(v int64) string {
	return num.DecimalFromFixed(v, priceDecimals).String()
}

func (s *Server) listMarkets(w http.ResponseWriter, _ *http.Request) {
	ids, err := s.store.MarketIDs()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Markets []string `json:"markets"`
	}{Markets: ids})
}

func (s *Server) loadMarket(w http.ResponseWriter, r *http.Request) (*markets.Snapshot, bool) {
	id := mux.Vars(r)["id"]
	snap, err := s.store.LoadMarket(id)
	if errors.Is(err, snapshot.ErrMarketNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return snap, true
}

func (s *Server) getMarket(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadMarket(w, r)
	if !ok {
		return
	}

	a := snap.AMM
	rp, err := amm.ReservePrice(a)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	bid, ask, err := amm.BidAskPrice(a, rp)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.writeJSON(w, http.StatusOK, marketView{
		ID:           snap.ID,
		Settled:      snap.Settlement != nil,
		MarkPrice:    formatPrice(int64(a.LastMarkPriceTWAP)),
		OraclePrice:  formatPrice(a.LastOraclePriceTWAP),
		ReservePrice: formatPrice(int64(rp)),
		BidPrice:     formatPrice(int64(bid)),
		AskPrice:     formatPrice(int64(ask)),
		AMM:          a,
		Settlement:   snap.Settlement,
	})
}

// previewSettlement computes the expiry price the market would settle at,
// nothing is stored.
func (s *Server) previewSettlement(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.loadMarket(w, r)
	if !ok {
		return
	}
	if snap.Settlement != nil {
		s.writeError(w, http.StatusConflict, markets.ErrMarketSettled)
		return
	}

	q := r.URL.Query()
	oracle, err := strconv.ParseInt(q.Get("oracle"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid oracle price"))
		return
	}
	budget := num.UintZero()
	if raw := q.Get("budget"); len(raw) > 0 {
		var overflow bool
		if budget, overflow = num.UintFromString(raw, 10); overflow {
			s.writeError(w, http.StatusBadRequest, errors.New("invalid budget"))
			return
		}
	}

	expiry, err := amm.CalculateExpiryPrice(snap.AMM, oracle, budget)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	pnl, err := amm.CalculateNetUserPnL(snap.AMM, expiry)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeJSON(w, http.StatusOK, settlementPreview{
		MarketID:    snap.ID,
		OraclePrice: oracle,
		ExpiryPrice: expiry,
		NetUserPnL:  pnl,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("could not write response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
