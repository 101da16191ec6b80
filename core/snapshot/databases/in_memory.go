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
	"bytes"
	"sync"

	"github.com/google/btree"
)

const btreeDegree = 32

type kv struct {
	key   []byte
	value []byte
}

func lessKV(a, b kv) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// InMemoryDatabase keeps everything in an ordered tree, nothing survives Close.
type InMemoryDatabase struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[kv]
}

func NewInMemoryDatabase() *InMemoryDatabase {
	return &InMemoryDatabase{
		tree: btree.NewG[kv](btreeDegree, lessKV),
	}
}

func (d *InMemoryDatabase) Get(key []byte) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	item, ok := d.tree.Get(kv{key: key})
	if !ok {
		return nil, ErrKeyNotFound
	}
	return bytes.Clone(item.value), nil
}

func (d *InMemoryDatabase) Set(key, value []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tree.ReplaceOrInsert(kv{key: bytes.Clone(key), value: bytes.Clone(value)})
	return nil
}

func (d *InMemoryDatabase) Delete(key []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tree.Delete(kv{key: key})
	return nil
}

func (d *InMemoryDatabase) Keys(prefix []byte) ([][]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	keys := [][]byte{}
	d.tree.AscendGreaterOrEqual(kv{key: prefix}, func(item kv) bool {
		if !bytes.HasPrefix(item.key, prefix) {
			return false
		}
		keys = append(keys, bytes.Clone(item.key))
		return true
	})
	return keys, nil
}

func (d *InMemoryDatabase) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tree.Clear(false)
	return nil
}
