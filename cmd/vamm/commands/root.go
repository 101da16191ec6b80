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
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
)

var (
	// CLIVersionHash specifies the git commit used to build the application.
	// See VERSION_HASH in Makefile for details.
	CLIVersionHash = ""

	// CLIVersion specifies the version used to build the application.
	// See VERSION in Makefile for details.
	CLIVersion = "v0.1.0"
)

// Empty is the root of the command tree, every option lives on the
// subcommands.
type Empty struct{}

type Subcommand func(context.Context, *flags.Parser) error

func Register(ctx context.Context, parser *flags.Parser, cmds ...Subcommand) error {
	for _, fn := range cmds {
		if err := fn(ctx, parser); err != nil {
			return err
		}
	}
	return nil
}

func Main(ctx context.Context) error {
	parser := flags.NewParser(&Empty{}, flags.Default)

	if err := Register(ctx, parser,
		Init,
		Market,
		Replay,
		Settle,
		Serve,
		Version,
	); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return err
	}

	if _, err := parser.Parse(); err != nil {
		return err
	}
	return nil
}
