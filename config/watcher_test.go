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

package config_test

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"code.vegaprotocol.io/vamm/config"
	"code.vegaprotocol.io/vamm/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherNotifiesOnTimeUpdate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	home := t.TempDir()
	cfg := config.NewDefaultConfig()
	require.NoError(t, config.Save(home, cfg, false))

	w, err := config.NewFromFile(ctx, logging.NewTestLogger(), home)
	require.NoError(t, err)
	assert.Equal(t, cfg.API.Port, w.Get().API.Port)

	var port atomic.Int64
	w.OnConfigUpdate(func(c config.Config) {
		port.Store(int64(c.API.Port))
	})

	// nothing changed yet
	w.OnTimeUpdate(ctx, time.Now())
	assert.Equal(t, int64(0), port.Load())

	cfg.API.Port = 4242
	require.NoError(t, config.Save(home, cfg, true))

	require.Eventually(t, func() bool {
		w.OnTimeUpdate(ctx, time.Now())
		return port.Load() == 4242
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 4242, w.Get().API.Port)
}

func TestWatcherKeepsLastValidConfig(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	home := t.TempDir()
	require.NoError(t, config.Save(home, config.NewDefaultConfig(), false))

	w, err := config.NewFromFile(ctx, logging.NewTestLogger(), home)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(config.Path(home), []byte("[API]\nPort = -5\n"), 0o600))
	// give the watcher a chance to see the broken file
	time.Sleep(200 * time.Millisecond)
	w.OnTimeUpdate(ctx, time.Now())

	assert.Equal(t, config.NewDefaultConfig().API.Port, w.Get().API.Port)
}

func TestWatcherFailsWithoutFile(t *testing.T) {
	_, err := config.NewFromFile(context.Background(), logging.NewTestLogger(), t.TempDir())
	assert.Error(t, err)
}
