// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/parastaking/genesis"
	"github.com/vechain/parastaking/log"
	"github.com/vechain/parastaking/lvldb"
	"github.com/vechain/parastaking/node"
)

// loadEnv loads variables from path, or from ./.env when path is empty and the file exists.
// Variables already set in the environment win.
func loadEnv(path string) error {
	if path == "" {
		path = ".env"
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil
		}
	}
	return errors.Wrapf(godotenv.Load(path), "load env file %v", path)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// initLogger installs the root handler and returns a func releasing the log file, if any.
func initLogger(ctx *cli.Context) (func() error, error) {
	var (
		w        io.Writer = os.Stderr
		useColor           = isTerminal(os.Stderr)
		closer             = func() error { return nil }
	)
	if path := ctx.String(logFileFlag.Name); path != "" {
		lj := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    ctx.Int(logFileMaxSizeFlag.Name),
			MaxBackups: 3,
			Compress:   true,
		}
		w = io.MultiWriter(os.Stderr, lj)
		useColor = false
		closer = lj.Close
	}

	h, err := log.NewHandler(ctx.String(logFormatFlag.Name), w, log.FromVerbosity(ctx.Int(verbosityFlag.Name)), useColor)
	if err != nil {
		return nil, err
	}
	log.Install(h)
	return closer, nil
}

// openDB opens the persistent database under the data dir, or an in-memory one.
func openDB(ctx *cli.Context) (*lvldb.LevelDB, string, error) {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		db, err := lvldb.NewMem()
		return db, "Memory", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", errors.Wrapf(err, "create data dir [%v]", dir)
	}
	path := filepath.Join(dir, "state.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              normalizeCacheSize(ctx.Int(cacheFlag.Name)),
		OpenFilesCacheCapacity: suggestFDCache(),
	})
	if err != nil {
		return nil, "", errors.Wrapf(err, "open state database [%v]", path)
	}
	return db, dir, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			log.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		log.Warn("failed to get fd limit:", "err", err)
		return 64
	}
	if limit <= 1024 {
		log.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

// selectGenesis returns the genesis named by the flag, or the dev genesis.
func selectGenesis(ctx *cli.Context) (*genesis.CustomGenesis, string, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), "devnet", nil
	}
	gen, err := genesis.Load(path)
	if err != nil {
		return nil, "", err
	}
	return gen, path, nil
}

func openNode(ctx *cli.Context, db *lvldb.LevelDB) (*node.Node, string, error) {
	gen, name, err := selectGenesis(ctx)
	if err != nil {
		return nil, "", err
	}
	builder, err := gen.Builder()
	if err != nil {
		return nil, "", errors.WithMessage(err, "genesis")
	}
	n, genBlock, err := node.Open(db, builder.Build)
	if err != nil {
		return nil, "", err
	}
	if genBlock != nil {
		logEvents(genBlock)
	}
	return n, name, nil
}

func logEvents(blk *node.Block) {
	for _, ev := range blk.Events {
		log.Debug("event", "block", blk.Number, "name", ev.Name())
	}
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(exitSignalCh)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printStartupMessage(genesisName string, head uint32, dataDir, apiURL, metricsURL string) {
	orDisabled := func(s string) string {
		if s == "" {
			return "disabled"
		}
		return s
	}
	fmt.Printf(`Starting %v
    Genesis      [ %v ]
    Head block   [ #%v ]
    Instance dir [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
`,
		fullVersion(),
		genesisName,
		head,
		dataDir,
		orDisabled(apiURL),
		orDisabled(metricsURL))
}
