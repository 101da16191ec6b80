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
	"os/signal"
	"syscall"

	"code.vegaprotocol.io/vamm/api"
	"code.vegaprotocol.io/vamm/metrics"

	"github.com/jessevdk/go-flags"
)

type ServeCmd struct {
	RootPathFlag
	ctx context.Context

	Help bool `short:"h" long:"help" description:"Show this help message"`
}

var serveCmd ServeCmd

func Serve(ctx context.Context, parser *flags.Parser) error {
	serveCmd = ServeCmd{ctx: ctx}

	_, err := parser.AddCommand("serve", "Serve the REST api", "Serve the stored markets and the metrics over HTTP", &serveCmd)
	return err
}

func (opts *ServeCmd) Execute(_ []string) error {
	if opts.Help {
		return &flags.Error{
			Type:    flags.ErrHelp,
			Message: "vamm serve subcommand help",
		}
	}

	ctx := opts.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	n, err := newNode(opts.RootPathFlag)
	if err != nil {
		return err
	}
	defer n.Close()

	if err := metrics.Start(n.log, n.cfg.Metrics); err != nil {
		return err
	}
	if n.cfg.API.ServeMetrics {
		if err := metrics.Setup(); err != nil {
			return err
		}
	}

	srv := api.New(n.log, n.cfg.API, n.store)
	return srv.Start(ctx)
}
