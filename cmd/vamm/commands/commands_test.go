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
	"path/filepath"
	"strings"
	"testing"
	"time"

	"code.vegaprotocol.io/vamm/config"
	"code.vegaprotocol.io/vamm/core/markets"
	"code.vegaprotocol.io/vamm/core/snapshot"
	"code.vegaprotocol.io/vamm/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMarketID = "eth-perp"
	startTime    = int64(1_656_682_258)
)

const replayFile = `{"kind":"trade","ts":1656682318,"price":40000000,"direction":"long"}
{"kind":"oracle","ts":1656682378,"oracle":{"price":40000000,"confidence":1000,"delay":1,"has_sufficient_number_of_data_points":true}}
{"kind":"oracle","ts":1656682379,"oracle":{"price":0,"confidence":1000,"delay":1,"has_sufficient_number_of_data_points":true}}

{"kind":"funding","ts":1656682380}
{"kind":"positions","ts":1656682380,"positions":[null]}
{"kind":"positions","ts":1656682381,"positions":[{"party":"a","market_id":"eth-perp","base_asset_amount":"1000000000","quote_asset_amount":"-40000000"},{"party":"b","base_asset_amount":"-1000000000","quote_asset_amount":"40000000"}]}
`

func initHome(t *testing.T) RootPathFlag {
	t.Helper()
	root := RootPathFlag{RootPath: t.TempDir()}
	cmd := InitCmd{RootPathFlag: root, Storage: "GOLevelDB"}
	require.NoError(t, cmd.Execute(nil))
	return root
}

func createMarket(t *testing.T, root RootPathFlag) {
	t.Helper()
	cmd := marketCreateCmd{
		RootPathFlag:  root,
		ID:            testMarketID,
		Base:          "2000000000",
		Quote:         "2000000000",
		Peg:           "40000000",
		FundingPeriod: 3600,
		MaxSpread:     1000,
		Now:           startTime,
	}
	require.NoError(t, cmd.Execute(nil))
}

func loadSnapshot(t *testing.T, root RootPathFlag) *markets.Snapshot {
	t.Helper()
	cfg, err := config.Read(root.RootPath)
	require.NoError(t, err)
	store, err := snapshot.New(logging.NewTestLogger(), cfg.Snapshot, root.RootPath)
	require.NoError(t, err)
	defer store.Close()
	snap, err := store.LoadMarket(testMarketID)
	require.NoError(t, err)
	return snap
}

func TestInit(t *testing.T) {
	root := initHome(t)
	_, err := os.Stat(config.Path(root.RootPath))
	require.NoError(t, err)

	// a second init needs the force flag
	cmd := InitCmd{RootPathFlag: root, Storage: "GOLevelDB"}
	assert.ErrorIs(t, cmd.Execute(nil), config.ErrConfigExists)
	cmd.Force = true
	assert.NoError(t, cmd.Execute(nil))
}

func TestRootPathFromEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv(homeEnv, home)
	path, err := RootPathFlag{}.path()
	require.NoError(t, err)
	assert.Equal(t, home, path)

	path, err = RootPathFlag{RootPath: "/somewhere"}.path()
	require.NoError(t, err)
	assert.Equal(t, "/somewhere", path)
}

func TestMarketCreate(t *testing.T) {
	root := initHome(t)
	createMarket(t, root)

	snap := loadSnapshot(t, root)
	assert.Equal(t, testMarketID, snap.ID)
	assert.Equal(t, uint64(40_000_000), snap.AMM.LastMarkPriceTWAP)
	assert.Equal(t, int64(40_000_000), snap.AMM.LastOraclePriceTWAP)
	assert.Equal(t, startTime, snap.AMM.LastMarkPriceTWAPTs)
	assert.Nil(t, snap.Settlement)

	t.Run("same ID twice fails", func(t *testing.T) {
		cmd := marketCreateCmd{
			RootPathFlag: root,
			ID:           testMarketID,
			Base:         "2000000000",
			Quote:        "2000000000",
			Peg:          "40000000",
			MaxSpread:    1000,
		}
		assert.ErrorIs(t, cmd.Execute(nil), ErrMarketExists)
	})

	t.Run("invalid reserves fail", func(t *testing.T) {
		cmd := marketCreateCmd{
			RootPathFlag: root,
			ID:           "other",
			Base:         "-1",
			Quote:        "2000000000",
			Peg:          "40000000",
		}
		assert.Error(t, cmd.Execute(nil))
	})
}

func TestReplayAndSettle(t *testing.T) {
	root := initHome(t)
	createMarket(t, root)

	file := filepath.Join(t.TempDir(), "replay.jsonl")
	require.NoError(t, os.WriteFile(file, []byte(replayFile), 0o600))

	replay := ReplayCmd{RootPathFlag: root, ID: testMarketID, File: file}
	require.NoError(t, replay.Execute(nil))

	snap := loadSnapshot(t, root)
	assert.Equal(t, int64(1_656_682_318), snap.AMM.LastMarkPriceTWAPTs)
	assert.Equal(t, int64(1_656_682_378), snap.AMM.LastOraclePriceTWAPTs)
	assert.True(t, snap.AMM.BaseAssetAmountWithAMM.IsZero())
	assert.True(t, snap.AMM.QuoteAssetAmount.IsZero())

	dry := SettleCmd{RootPathFlag: root, ID: testMarketID, OraclePrice: 40_000_000, Budget: "0", DryRun: true, NoColor: true, JSON: true}
	require.NoError(t, dry.Execute(nil))
	assert.Nil(t, loadSnapshot(t, root).Settlement)

	settle := dry
	settle.DryRun = false
	require.NoError(t, settle.Execute(nil))
	settled := loadSnapshot(t, root).Settlement
	require.NotNil(t, settled)
	assert.Equal(t, int64(40_000_000), settled.OraclePrice)

	// a settled market takes no more updates
	err := replay.Execute(nil)
	assert.ErrorIs(t, err, markets.ErrMarketSettled)
	assert.ErrorIs(t, settle.Execute(nil), markets.ErrMarketSettled)
}

func TestReplayerSkipsBadRecords(t *testing.T) {
	root := initHome(t)
	createMarket(t, root)

	n, err := newNode(root)
	require.NoError(t, err)
	defer n.Close()
	m, err := n.loadMarket(testMarketID)
	require.NoError(t, err)

	var ticks int
	r := &replayer{
		log:    logging.NewTestLogger(),
		market: m,
		onTime: func(context.Context, time.Time) { ticks++ },
	}
	require.NoError(t, r.run(context.Background(), strings.NewReader(replayFile)))
	assert.Equal(t, 3, r.applied)
	// the zero price oracle sample, the unknown kind and the null position
	assert.Equal(t, 3, r.skipped)
	assert.Equal(t, 6, ticks)

	err = r.run(context.Background(), strings.NewReader("{not json}\n"))
	assert.Error(t, err)
}
