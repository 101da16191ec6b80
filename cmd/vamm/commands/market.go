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
	"errors"
	"fmt"
	"os"
	"time"

	"code.vegaprotocol.io/vamm/core/amm"
	"code.vegaprotocol.io/vamm/core/markets"
	"code.vegaprotocol.io/vamm/core/types"
	vgcontext "code.vegaprotocol.io/vamm/libs/context"
	vgjson "code.vegaprotocol.io/vamm/libs/json"
	"code.vegaprotocol.io/vamm/libs/num"
	"code.vegaprotocol.io/vamm/logging"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
)

var ErrMarketExists = errors.New("market already exists")

type MarketCmd struct {
	Create marketCreateCmd `command:"create" description:"Create a market from its initial reserves"`
	Show   marketShowCmd   `command:"show"   description:"Show the state of a market"`
	List   marketListCmd   `command:"list"   description:"List the stored markets"`
	Delete marketDeleteCmd `command:"delete" description:"Delete a stored market"`
}

var marketCmd MarketCmd

func Market(ctx context.Context, parser *flags.Parser) error {
	marketCmd = MarketCmd{
		Create: marketCreateCmd{ctx: ctx},
	}

	_, err := parser.AddCommand("market", "Manage markets", "Create, inspect and delete the markets stored in the vamm home", &marketCmd)
	return err
}

type marketCreateCmd struct {
	RootPathFlag
	ctx context.Context

	ID            string `long:"id"             description:"ID of the market, a random one is generated when empty"`
	Base          string `long:"base"           required:"true" description:"Base asset reserve, 9 decimals"`
	Quote         string `long:"quote"          required:"true" description:"Quote asset reserve, 9 decimals"`
	Peg           string `long:"peg"            required:"true" description:"Peg multiplier, 6 decimals"`
	FundingPeriod int64  `long:"funding-period" default:"3600"  description:"Funding period in seconds"`
	BaseSpread    uint32 `long:"base-spread"    description:"Base spread, 1000000 is 100%"`
	LongSpread    uint32 `long:"long-spread"    description:"Long spread, 1000000 is 100%"`
	ShortSpread   uint32 `long:"short-spread"   description:"Short spread, 1000000 is 100%"`
	MaxSpread     uint32 `long:"max-spread"     default:"100000" description:"Max spread, 1000000 is 100%"`
	Now           int64  `long:"now"            description:"Unix timestamp the trackers are seeded at (default: current time)"`
}

func parseUint(name, s string) (*num.Uint, error) {
	u, overflow := num.UintFromString(s, 10)
	if overflow {
		return nil, fmt.Errorf("invalid %s: %q", name, s)
	}
	return u, nil
}

func (opts *marketCreateCmd) Execute(_ []string) error {
	base, err := parseUint("base", opts.Base)
	if err != nil {
		return err
	}
	quote, err := parseUint("quote", opts.Quote)
	if err != nil {
		return err
	}
	peg, err := parseUint("peg", opts.Peg)
	if err != nil {
		return err
	}

	state, err := types.NewAMM(base, quote, peg, opts.FundingPeriod)
	if err != nil {
		return err
	}
	state.BaseSpread = opts.BaseSpread
	state.LongSpread = opts.LongSpread
	state.ShortSpread = opts.ShortSpread
	state.MaxSpread = opts.MaxSpread
	if err := state.Validate(); err != nil {
		return err
	}
	reserve, err := amm.ReservePrice(state)
	if err != nil {
		return err
	}
	now := opts.Now
	if now == 0 {
		now = time.Now().Unix()
	}
	if err := state.SeedTWAPs(reserve, now); err != nil {
		return err
	}

	n, err := newNode(opts.RootPathFlag)
	if err != nil {
		return err
	}
	defer n.Close()

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	exists, err := n.store.HasMarket(id)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrMarketExists, id)
	}

	ctx := opts.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, _ = vgcontext.TraceIDFromContext(ctx)
	m, err := markets.NewMarket(ctx, n.log, n.cfg.Markets, id, state, n.engine, n.broker)
	if err != nil {
		return err
	}
	if err := n.saveMarket(m); err != nil {
		return err
	}

	n.log.Info("market created",
		logging.MarketID(id),
		logging.Uint64("reserve-price", reserve),
	)
	fmt.Println(id)
	return nil
}

type marketShowCmd struct {
	RootPathFlag

	ID      string `long:"id"       required:"true" description:"ID of the market"`
	NoColor bool   `long:"no-color" description:"Disable coloured output"`
	JSON    bool   `long:"json"     description:"Print the market snapshot as JSON"`
}

func (opts *marketShowCmd) Execute(_ []string) error {
	n, err := newNode(opts.RootPathFlag)
	if err != nil {
		return err
	}
	defer n.Close()

	m, err := n.loadMarket(opts.ID)
	if err != nil {
		return err
	}
	if opts.JSON {
		return vgjson.PrettyPrint(os.Stdout, m.Snapshot())
	}
	newPrinter(os.Stdout, opts.NoColor).Market(m)
	return nil
}

type marketListCmd struct {
	RootPathFlag
}

func (opts *marketListCmd) Execute(_ []string) error {
	n, err := newNode(opts.RootPathFlag)
	if err != nil {
		return err
	}
	defer n.Close()

	ids, err := n.store.MarketIDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

type marketDeleteCmd struct {
	RootPathFlag

	ID string `long:"id" required:"true" description:"ID of the market"`
}

func (opts *marketDeleteCmd) Execute(_ []string) error {
	n, err := newNode(opts.RootPathFlag)
	if err != nil {
		return err
	}
	defer n.Close()

	if err := n.store.DeleteMarket(opts.ID); err != nil {
		return err
	}
	n.log.Info("market deleted", logging.MarketID(opts.ID))
	return nil
}
