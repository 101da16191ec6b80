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
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"code.vegaprotocol.io/vamm/config"
	"code.vegaprotocol.io/vamm/core/markets"
	"code.vegaprotocol.io/vamm/core/types"
	vgcontext "code.vegaprotocol.io/vamm/libs/context"
	"code.vegaprotocol.io/vamm/logging"

	"github.com/jessevdk/go-flags"
)

const (
	recordOracle    = "oracle"
	recordTrade     = "trade"
	recordPositions = "positions"
)

// record is a single line of a replay file.
type record struct {
	Kind string `json:"kind"`
	Ts   int64  `json:"ts"`

	Oracle *types.OraclePriceData `json:"oracle,omitempty"`

	Price     uint64                  `json:"price,omitempty"`
	Direction types.PositionDirection `json:"direction,omitempty"`

	Positions []*types.Position `json:"positions,omitempty"`
}

type ReplayCmd struct {
	RootPathFlag
	ctx context.Context

	ID          string `long:"id"           required:"true" description:"ID of the market"`
	File        string `long:"file"         default:"-"     description:"JSON lines file of oracle, trade and positions records, - reads stdin"`
	WatchConfig bool   `long:"watch-config" description:"Apply configuration changes while replaying"`
	Help        bool   `short:"h" long:"help" description:"Show this help message"`
}

var replayCmd ReplayCmd

func Replay(ctx context.Context, parser *flags.Parser) error {
	replayCmd = ReplayCmd{ctx: ctx}

	_, err := parser.AddCommand("replay", "Replay updates on a market", "Apply a JSON lines file of oracle samples, trades and positions to a stored market", &replayCmd)
	return err
}

func (opts *ReplayCmd) Execute(_ []string) error {
	if opts.Help {
		return &flags.Error{
			Type:    flags.ErrHelp,
			Message: "vamm replay subcommand help",
		}
	}

	ctx := opts.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	n, err := newNode(opts.RootPathFlag)
	if err != nil {
		return err
	}
	defer n.Close()

	m, err := n.loadMarket(opts.ID)
	if err != nil {
		return err
	}

	r := &replayer{log: n.log.Named("replay"), market: m}
	if opts.WatchConfig {
		w, err := config.NewFromFile(ctx, n.log, n.home)
		if err != nil {
			return err
		}
		w.OnConfigUpdate(
			func(cfg config.Config) { n.engine.ReloadConf(cfg.AMM) },
			func(cfg config.Config) { m.ReloadConf(cfg.Markets) },
		)
		r.onTime = w.OnTimeUpdate
	}

	in := io.Reader(os.Stdin)
	if opts.File != "-" {
		f, err := os.Open(opts.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	ctx, traceID := vgcontext.TraceIDFromContext(ctx)
	r.log = r.log.With(logging.String("trace-id", traceID))
	replayErr := r.run(ctx, in)

	// whatever was applied before a failure is kept
	if err := n.saveMarket(m); err != nil {
		return err
	}
	if replayErr != nil {
		return replayErr
	}
	r.log.Info("replay done",
		logging.MarketID(m.ID()),
		logging.Int("applied", r.applied),
		logging.Int("skipped", r.skipped),
	)
	return nil
}

type replayer struct {
	log    *logging.Logger
	market *markets.Market
	onTime func(context.Context, time.Time)

	applied int
	skipped int
}

func (r *replayer) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if r.onTime != nil {
			r.onTime(ctx, time.Unix(rec.Ts, 0))
		}
		err := r.apply(ctx, rec)
		switch {
		case err == nil:
			r.applied++
		case errors.Is(err, markets.ErrMarketSettled):
			return fmt.Errorf("line %d: %w", line, err)
		default:
			r.skipped++
			r.log.Warn("record skipped",
				logging.Int("line", line),
				logging.String("kind", rec.Kind),
				logging.Error(err),
			)
		}
	}
	return scanner.Err()
}

func (r *replayer) apply(ctx context.Context, rec record) error {
	switch rec.Kind {
	case recordOracle:
		if rec.Oracle == nil {
			return errors.New("missing oracle sample")
		}
		return r.market.OnOracleUpdate(ctx, rec.Ts, *rec.Oracle)
	case recordTrade:
		return r.market.OnTrade(ctx, rec.Ts, rec.Price, rec.Direction)
	case recordPositions:
		return r.market.UpdatePositions(ctx, rec.Positions)
	default:
		return fmt.Errorf("unknown record kind %q", rec.Kind)
	}
}
