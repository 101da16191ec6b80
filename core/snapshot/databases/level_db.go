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

package databases

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

type LevelDBDatabase struct {
	db       *leveldb.DB
	filePath string
}

// NewLevelDBDatabase opens, or creates, the database at filePath. While
// another process holds the database the opening is retried until
// openTimeout elapsed.
func NewLevelDBDatabase(filePath string, openTimeout time.Duration) (*LevelDBDatabase, error) {
	if err := os.MkdirAll(filePath, 0o700); err != nil {
		return nil, fmt.Errorf("could not create the database directory: %w", err)
	}

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(50*time.Millisecond),
		backoff.WithMaxInterval(time.Second),
		backoff.WithMaxElapsedTime(openTimeout),
	)
	db, err := backoff.RetryWithData(func() (*leveldb.DB, error) {
		db, err := leveldb.OpenFile(filePath, &opt.Options{
			Filter:          filter.NewBloomFilter(10),
			BlockCacher:     opt.NoCacher,
			OpenFilesCacher: opt.NoCacher,
		})
		if err != nil && !isLocked(err) {
			return nil, backoff.Permanent(err)
		}
		return db, err
	}, b)
	if err != nil {
		return nil, fmt.Errorf("could not open LevelDB database: %w", err)
	}

	return &LevelDBDatabase{
		db:       db,
		filePath: filePath,
	}, nil
}

// isLocked reports whether the database lock is held, by another process
// or by another handle of this one.
func isLocked(err error) bool {
	return errors.Is(err, storage.ErrLocked) ||
		errors.Is(err, syscall.EWOULDBLOCK) ||
		errors.Is(err, syscall.EAGAIN)
}

func (d *LevelDBDatabase) Get(key []byte) ([]byte, error) {
	v, err := d.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrKeyNotFound
	}
	return v, err
}

func (d *LevelDBDatabase) Set(key, value []byte) error {
	return d.db.Put(key, value, &opt.WriteOptions{Sync: true})
}

func (d *LevelDBDatabase) Delete(key []byte) error {
	return d.db.Delete(key, &opt.WriteOptions{Sync: true})
}

func (d *LevelDBDatabase) Keys(prefix []byte) ([][]byte, error) {
	it := d.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()

	keys := [][]byte{}
	for it.Next() {
		k := make([]byte, len(it.Key()))
		copy(k, it.Key())
		keys = append(keys, k)
	}
	return keys, it.Error()
}

func (d *LevelDBDatabase) Close() error {
	return d.db.Close()
}
