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

	"code.vegaprotocol.io/vamm/config"
	"code.vegaprotocol.io/vamm/logging"

	"github.com/jessevdk/go-flags"
)

type InitCmd struct {
	RootPathFlag

	Force   bool   `short:"f" long:"force" description:"Erase an existing vamm configuration at the specified path"`
	Storage string `long:"storage" choice:"GOLevelDB" choice:"memory" default:"GOLevelDB" description:"Storage used for the market snapshots"`
	Help    bool   `short:"h" long:"help" description:"Show this help message"`
}

var initCmd InitCmd

func Init(ctx context.Context, parser *flags.Parser) error {
	initCmd = InitCmd{}

	_, err := parser.AddCommand("init", "Initialise a vamm home", "Generate the default configuration of a vamm home directory", &initCmd)
	return err
}

func (opts *InitCmd) Execute(_ []string) error {
	if opts.Help {
		return &flags.Error{
			Type:    flags.ErrHelp,
			Message: "vamm init subcommand help",
		}
	}

	log := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer log.AtExit()

	home, err := opts.path()
	if err != nil {
		return err
	}

	cfg := config.NewDefaultConfig()
	cfg.Snapshot.Storage = opts.Storage
	if err := config.Save(home, cfg, opts.Force); err != nil {
		return fmt.Errorf("%w, re-run using -f to overwrite it", err)
	}

	log.Info("configuration generated successfully", logging.String("path", config.Path(home)))
	return nil
}
