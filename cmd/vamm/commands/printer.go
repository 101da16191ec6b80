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

package commands

import (
	"fmt"
	"io"
	"os"

	"code.vegaprotocol.io/vamm/core/markets"
	"code.vegaprotocol.io/vamm/libs/num"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const priceDecimals = 6

// printer writes human readable reports, colours are only used on a
// terminal.
type printer struct {
	w io.Writer

	title *color.Color
	label *color.Color
	gain  *color.Color
	loss  *color.Color
	warn  *color.Color
}

func newPrinter(w io.Writer, noColor bool) *printer {
	p := &printer{
		w:     w,
		title: color.New(color.FgCyan, color.Bold),
		label: color.New(color.Faint),
		gain:  color.New(color.FgGreen),
		loss:  color.New(color.FgRed),
		warn:  color.New(color.FgYellow, color.Bold),
	}
	if noColor || !isTerminal(w) {
		for _, c := range []*color.Color{p.title, p.label, p.gain, p.loss, p.warn} {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *printer) Title(format string, args ...interface{}) {
	p.title.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Field(name string, value interface{}) {
	p.label.Fprintf(p.w, "  %-24s", name)
	fmt.Fprintf(p.w, "%v\n", value)
}

func (p *printer) Warn(format string, args ...interface{}) {
	p.warn.Fprintf(p.w, format+"\n", args...)
}

// Signed prints a signed quote amount in green when traders gain and red
// when they lose.
func (p *printer) Signed(name string, v *num.Int) {
	p.label.Fprintf(p.w, "  %-24s", name)
	c := p.gain
	if v.IsNegative() {
		c = p.loss
	}
	c.Fprintf(p.w, "%s\n", v.String())
}

func formatPrice(v int64) string {
	return num.DecimalFromFixed(v, priceDecimals).String()
}

func formatUPrice(v uint64) string {
	return num.DecimalFromUint(num.NewUint(v)).Shift(-priceDecimals).String()
}

func (p *printer) Market(m *markets.Market) {
	state := m.State()
	p.Title("market %s", m.ID())
	p.Field("base asset reserve", state.BaseAssetReserve)
	p.Field("quote asset reserve", state.QuoteAssetReserve)
	p.Field("sqrt k", state.SqrtK)
	p.Field("peg multiplier", state.PegMultiplier)
	if reserve, err := m.ReservePrice(); err != nil {
		p.Warn("  reserve price unavailable: %v", err)
	} else {
		p.Field("reserve price", formatUPrice(reserve))
	}
	if bid, ask, err := m.BidAsk(); err != nil {
		p.Warn("  bid/ask unavailable: %v", err)
	} else {
		p.Field("bid", formatUPrice(bid))
		p.Field("ask", formatUPrice(ask))
	}
	p.Field("mark twap", formatUPrice(state.LastMarkPriceTWAP))
	p.Field("mark twap 5min", formatUPrice(state.LastMarkPriceTWAP5Min))
	p.Field("mark std", formatUPrice(state.MarkStd))
	p.Field("oracle price", formatPrice(state.LastOraclePrice))
	p.Field("oracle twap", formatPrice(state.LastOraclePriceTWAP))
	p.Field("oracle twap 5min", formatPrice(state.LastOraclePriceTWAP5Min))
	p.Field("oracle std", formatUPrice(state.OracleStd))
	p.Field("net base position", state.BaseAssetAmountWithAMM)
	p.Field("net quote amount", state.QuoteAssetAmount)
	if s := m.Settlement(); s != nil {
		p.Settlement(s)
	}
}

func (p *printer) Settlement(s *markets.SettlementSummary) {
	p.Title("settlement of %s", s.MarketID)
	p.Field("oracle price", formatPrice(s.OraclePrice))
	p.Field("budget", s.Budget)
	p.Field("reserve price", formatUPrice(s.ReservePrice))
	p.Field("terminal price", formatUPrice(s.TerminalPrice))
	p.Field("expiry price", formatPrice(s.ExpiryPrice))
	p.Signed("net user pnl at oracle", s.NetUserPnLAtOracle)
	p.Signed("net user pnl at expiry", s.NetUserPnLAtExpiry)
}
