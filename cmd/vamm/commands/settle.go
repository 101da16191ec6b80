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
	"context"
	"os"

	vgcontext "code.vegaprotocol.io/vamm/libs/context"
	vgjson "code.vegaprotocol.io/vamm/libs/json"

	"github.com/jessevdk/go-flags"
)

type SettleCmd struct {
	RootPathFlag
	ctx context.Context

	ID          string `long:"id"           required:"true" description:"ID of the market"`
	OraclePrice int64  `long:"oracle-price" required:"true" description:"Final oracle price, 6 decimals"`
	Budget      string `long:"budget"       default:"0"     description:"Settlement budget in quote, 6 decimals"`
	DryRun      bool   `long:"dry-run"      description:"Compute the settlement without closing the market"`
	NoColor     bool   `long:"no-color"     description:"Disable coloured output"`
	JSON        bool   `long:"json"         description:"Print the settlement as JSON"`
	Help        bool   `short:"h" long:"help" description:"Show this help message"`
}

var settleCmd SettleCmd

func Settle(ctx context.Context, parser *flags.Parser) error {
	settleCmd = SettleCmd{ctx: ctx}

	_, err := parser.AddCommand("settle", "Settle a market", "Compute the expiry price of a market and close it", &settleCmd)
	return err
}

func (opts *SettleCmd) Execute(_ []string) error {
	if opts.Help {
		return &flags.Error{
			Type:    flags.ErrHelp,
			Message: "vamm settle subcommand help",
		}
	}

	budget, err := parseUint("budget", opts.Budget)
	if err != nil {
		return err
	}

	n, err := newNode(opts.RootPathFlag)
	if err != nil {
		return err
	}
	defer n.Close()

	m, err := n.loadMarket(opts.ID)
	if err != nil {
		return err
	}

	ctx := opts.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, _ = vgcontext.TraceIDFromContext(ctx)
	summary, err := m.Settle(ctx, opts.OraclePrice, budget)
	if err != nil {
		return err
	}

	if opts.JSON {
		if err := vgjson.PrettyPrint(os.Stdout, summary); err != nil {
			return err
		}
	} else {
		p := newPrinter(os.Stdout, opts.NoColor)
		p.Settlement(summary)
		if opts.DryRun {
			p.Warn("dry run, the market was not closed")
		}
	}
	if opts.DryRun {
		return nil
	}
	return n.saveMarket(m)
}
