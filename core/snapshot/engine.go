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

package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"code.vegaprotocol.io/vamm/core/markets"
	"code.vegaprotocol.io/vamm/core/snapshot/databases"
	"code.vegaprotocol.io/vamm/logging"

	lru "github.com/hashicorp/golang-lru"
)

const (
	marketPrefix    = "market/"
	snapshotVersion = 1
)

var (
	ErrMarketNotFound     = errors.New("no snapshot for market")
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

type payload struct {
	Version int               `json:"version"`
	Market  *markets.Snapshot `json:"market"`
}

// Engine persists market snapshots.
type Engine struct {
	log   *logging.Logger
	db    databases.Database
	cache *lru.Cache
}

// New opens the snapshot database described by the configuration, home is
// used to derive the database path when none is configured.
func New(log *logging.Logger, cfg Config, home string) (*Engine, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	dbPath, err := cfg.validate(home)
	if err != nil {
		return nil, err
	}

	var db databases.Database
	switch cfg.Storage {
	case memDB:
		db = databases.NewInMemoryDatabase()
	case goLevelDB:
		if db, err = databases.NewLevelDBDatabase(dbPath, cfg.OpenTimeout.Get()); err != nil {
			return nil, err
		}
	}
	log.Debug("snapshot database opened",
		logging.String("storage", cfg.Storage),
		logging.String("path", dbPath),
	)
	return NewWithDatabase(log, db, cfg.CacheSize)
}

// NewWithDatabase creates an engine on top of an already opened database.
func NewWithDatabase(log *logging.Logger, db databases.Database, cacheSize int) (*Engine, error) {
	e := &Engine{
		log: log,
		db:  db,
	}
	if cacheSize > 0 {
		c, err := lru.New(cacheSize)
		if err != nil {
			return nil, err
		}
		e.cache = c
	}
	return e, nil
}

func marketKey(id string) []byte {
	return []byte(marketPrefix + id)
}

// SaveMarket stores the snapshot of a market, replacing the previous one.
func (e *Engine) SaveMarket(snap *markets.Snapshot) error {
	if snap == nil || len(snap.ID) == 0 {
		return markets.ErrEmptyMarketID
	}
	data, err := json.Marshal(payload{Version: snapshotVersion, Market: snap})
	if err != nil {
		return fmt.Errorf("could not encode snapshot of market %s: %w", snap.ID, err)
	}
	if err := e.db.Set(marketKey(snap.ID), data); err != nil {
		return fmt.Errorf("could not save snapshot of market %s: %w", snap.ID, err)
	}
	if e.cache != nil {
		e.cache.Add(snap.ID, data)
	}
	e.log.Debug("market snapshot saved", logging.MarketID(snap.ID))
	return nil
}

// LoadMarket returns the latest snapshot of a market.
func (e *Engine) LoadMarket(id string) (*markets.Snapshot, error) {
	data, err := e.get(id)
	if err != nil {
		return nil, err
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("could not decode snapshot of market %s: %w", id, err)
	}
	if p.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, p.Version)
	}
	if p.Market == nil || p.Market.ID != id {
		return nil, fmt.Errorf("corrupted snapshot for market %s", id)
	}
	return p.Market, nil
}

func (e *Engine) get(id string) ([]byte, error) {
	if e.cache != nil {
		if v, ok := e.cache.Get(id); ok {
			return v.([]byte), nil
		}
	}
	data, err := e.db.Get(marketKey(id))
	if errors.Is(err, databases.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrMarketNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Add(id, data)
	}
	return data, nil
}

// MarketIDs lists the stored markets in ascending order.
func (e *Engine) MarketIDs() ([]string, error) {
	keys, err := e.db.Keys([]byte(marketPrefix))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(string(k), marketPrefix))
	}
	return ids, nil
}

func (e *Engine) HasMarket(id string) (bool, error) {
	_, err := e.get(id)
	if errors.Is(err, ErrMarketNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (e *Engine) DeleteMarket(id string) error {
	if e.cache != nil {
		e.cache.Remove(id)
	}
	return e.db.Delete(marketKey(id))
}

func (e *Engine) Close() error {
	if e.cache != nil {
		e.cache.Purge()
	}
	return e.db.Close()
}
