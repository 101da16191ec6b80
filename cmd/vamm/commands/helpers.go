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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"code.vegaprotocol.io/vamm/broker"
	"code.vegaprotocol.io/vamm/config"
	"code.vegaprotocol.io/vamm/core/amm"
	"code.vegaprotocol.io/vamm/core/events"
	"code.vegaprotocol.io/vamm/core/markets"
	"code.vegaprotocol.io/vamm/core/snapshot"
	"code.vegaprotocol.io/vamm/logging"
)

const homeEnv = "VAMM_HOME"

// RootPathFlag points every command at the vamm home directory.
type RootPathFlag struct {
	RootPath string `long:"home" description:"Path of the vamm home directory (default: $VAMM_HOME or ~/.vamm)"`
}

func (r RootPathFlag) path() (string, error) {
	if r.RootPath != "" {
		return r.RootPath, nil
	}
	if home := os.Getenv(homeEnv); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user home directory: %w", err)
	}
	return filepath.Join(home, ".vamm"), nil
}

// node holds everything a command needs to work on stored markets.
type node struct {
	home   string
	cfg    *config.Config
	log    *logging.Logger
	store  *snapshot.Engine
	engine *amm.Engine
	broker *broker.Broker

	closers []func() error
}

func newNode(root RootPathFlag) (*node, error) {
	home, err := root.path()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Read(home)
	if err != nil {
		return nil, fmt.Errorf("%w, did you run `vamm init`?", err)
	}
	log := logging.NewLoggerFromConfig(cfg.Logging)

	store, err := snapshot.New(log, cfg.Snapshot, home)
	if err != nil {
		log.AtExit()
		return nil, err
	}

	n := &node{
		home:    home,
		cfg:     cfg,
		log:     log,
		store:   store,
		engine:  amm.New(log, cfg.AMM),
		broker:  broker.New(log, cfg.Broker),
		closers: []func() error{store.Close},
	}
	if err := n.subscribe(); err != nil {
		n.Close()
		return nil, err
	}
	return n, nil
}

func (n *node) subscribe() error {
	if n.cfg.Broker.LogEvents {
		n.broker.Subscribe(broker.NewLogSubscriber(n.log, events.All))
	}
	if n.cfg.Broker.EventFile == "" {
		return nil
	}
	path := n.cfg.Broker.EventFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(n.home, path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("could not open event file: %w", err)
	}
	n.closers = append(n.closers, f.Close)
	n.broker.Subscribe(broker.NewJSONSubscriber(n.log, f, events.All))
	return nil
}

func (n *node) loadMarket(id string) (*markets.Market, error) {
	snap, err := n.store.LoadMarket(id)
	if err != nil {
		return nil, err
	}
	return markets.NewMarketFromSnapshot(n.log, n.cfg.Markets, snap, n.engine, n.broker)
}

func (n *node) saveMarket(m *markets.Market) error {
	return n.store.SaveMarket(m.Snapshot())
}

func (n *node) Close() {
	var errs []error
	for i := len(n.closers) - 1; i >= 0; i-- {
		if err := n.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		n.log.Error("could not close resources", logging.Error(err))
	}
	n.log.AtExit()
}
