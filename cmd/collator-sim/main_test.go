// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/parastaking/genesis"
	"github.com/vechain/parastaking/metrics"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range []cli.Flag{genesisFlag, dataDirFlag, cacheFlag, blocksFlag, verbosityFlag, logFormatFlag, logFileFlag, logFileMaxSizeFlag} {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("COLLATOR_SIM_TEST_VAR=42\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("COLLATOR_SIM_TEST_VAR") })

	require.NoError(t, loadEnv(path))
	assert.Equal(t, "42", os.Getenv("COLLATOR_SIM_TEST_VAR"))

	assert.Error(t, loadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestSelectGenesis(t *testing.T) {
	gen, name, err := selectGenesis(newContext(t))
	require.NoError(t, err)
	assert.Equal(t, "devnet", name)
	assert.Equal(t, genesis.NewDevnet(), gen)

	path := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"potBalance": 10}`), 0o600))
	gen, name, err = selectGenesis(newContext(t, "--genesis", path))
	require.NoError(t, err)
	assert.Equal(t, path, name)
	assert.Equal(t, int64(10), gen.PotBalance.Big().Int64())

	_, _, err = selectGenesis(newContext(t, "--genesis", filepath.Join(t.TempDir(), "missing.json")))
	assert.Error(t, err)
}

func TestSimulateAndReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := newContext(t, "--data-dir", dir)

	db, instanceDir, err := openDB(ctx)
	require.NoError(t, err)
	assert.Equal(t, dir, instanceDir)

	n, _, err := openNode(ctx, db)
	require.NoError(t, err)
	require.NoError(t, simulate(context.Background(), n, 12, false))
	assert.Equal(t, uint32(12), n.Head())
	require.NoError(t, simulate(context.Background(), n, 12, false))
	require.NoError(t, db.Close())

	db, _, err = openDB(ctx)
	require.NoError(t, err)
	defer db.Close()
	n, _, err = openNode(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, uint32(12), n.Head())
}

func TestDump(t *testing.T) {
	ctx := newContext(t)
	db, instanceDir, err := openDB(ctx)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "Memory", instanceDir)

	n, _, err := openNode(ctx, db)
	require.NoError(t, err)

	d, err := collectState(n)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), d.Era.Current)
	assert.Len(t, d.Pool, 6)
	assert.Len(t, d.Candidates, 6)
	assert.Len(t, d.Nominators, 4)
	// candidates, nominators and the reward pot
	assert.Len(t, d.Accounts, 11)

	var buf bytes.Buffer
	require.NoError(t, dump(&buf, n))
	assert.Contains(t, buf.String(), "stateDump")
	assert.Contains(t, buf.String(), genesis.DevAccounts()[0].Address.String())
}

func TestMetricsServer(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	srv, err := startMetricsServer("localhost:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve() }()

	res, err := http.Get(srv.url) //#nosec G107
	require.NoError(t, err)
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, <-done)
}

func TestNormalizeCacheSize(t *testing.T) {
	assert.Equal(t, 16, normalizeCacheSize(1))
	assert.LessOrEqual(t, normalizeCacheSize(1<<30), 1<<30)
	assert.Positive(t, suggestFDCache())
}
