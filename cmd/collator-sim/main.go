// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/parastaking/api"
	"github.com/vechain/parastaking/log"
	"github.com/vechain/parastaking/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("collator-sim %s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	if err := loadEnv(os.Getenv("COLLATOR_SIM_ENV_FILE")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := cli.App{
		Version:   fullVersion(),
		Name:      "collator-sim",
		Usage:     "Block by block simulator of the parachain collator staking engine",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Commands: []cli.Command{
			{
				Name:  "run",
				Usage: "simulate blocks and serve the staking API",
				Flags: []cli.Flag{
					genesisFlag,
					dataDirFlag,
					cacheFlag,
					blocksFlag,
					keepAliveFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiBacklogFlag,
					enableAPILogsFlag,
					apiSlowQueriesThresholdFlag,
					apiLog5xxErrorsFlag,
					pprofFlag,
					metricsAddrFlag,
					verbosityFlag,
					logFormatFlag,
					logFileFlag,
					logFileMaxSizeFlag,
					noProgressFlag,
					shutdownTimeoutFlag,
				},
				Action: runAction,
			},
			{
				Name:  "dump",
				Usage: "print the staking state",
				Flags: []cli.Flag{
					genesisFlag,
					dataDirFlag,
					cacheFlag,
					verbosityFlag,
				},
				Action: dumpAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAction(ctx *cli.Context) error {
	closeLog, err := initLogger(ctx)
	if err != nil {
		return err
	}
	defer closeLog()
	defer func() { log.Info("exited") }()

	exitCtx := handleExitSignal()

	// must run before any meter is used
	metricsAddr := ctx.String(metricsAddrFlag.Name)
	if metricsAddr != "" {
		metrics.InitializePrometheusMetrics()
	}

	db, instanceDir, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing state database..."); db.Close() }()

	n, genesisName, err := openNode(ctx, db)
	if err != nil {
		return err
	}

	var metricsSrv *httpServer
	if metricsAddr != "" {
		if metricsSrv, err = startMetricsServer(metricsAddr); err != nil {
			return err
		}
	}

	var apiSrv *httpServer
	closeSubs := func() {}
	if addr := ctx.String(apiAddrFlag.Name); addr != "" {
		enableReqLogger := &atomic.Bool{}
		enableReqLogger.Store(ctx.Bool(enableAPILogsFlag.Name))
		handler, closeFn := api.New(n, n, api.Options{
			AllowedOrigins:       ctx.String(apiCorsFlag.Name),
			PprofOn:              ctx.Bool(pprofFlag.Name),
			EnableReqLogger:      enableReqLogger,
			SlowQueriesThreshold: ctx.Duration(apiSlowQueriesThresholdFlag.Name),
			Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
			EnableMetrics:        metricsSrv != nil,
			SubscriptionBacklog:  ctx.Int(apiBacklogFlag.Name),
		})
		if apiSrv, err = startAPIServer(addr, handler); err != nil {
			closeFn()
			if metricsSrv != nil {
				metricsSrv.listener.Close()
			}
			return err
		}
		closeSubs = closeFn
	}

	head := n.Head()
	var apiURL, metricsURL string
	if apiSrv != nil {
		apiURL = apiSrv.url
	}
	if metricsSrv != nil {
		metricsURL = metricsSrv.url
	}
	printStartupMessage(genesisName, head, instanceDir, apiURL, metricsURL)

	runCtx, cancel := context.WithCancel(exitCtx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	for _, srv := range []*httpServer{apiSrv, metricsSrv} {
		if srv != nil {
			g.Go(srv.Serve)
		}
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ctx.Duration(shutdownTimeoutFlag.Name))
		defer cancel()
		closeSubs()
		for _, srv := range []*httpServer{apiSrv, metricsSrv} {
			if srv != nil {
				srv.Shutdown(shutdownCtx)
			}
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		target := head + uint32(ctx.Uint64(blocksFlag.Name))
		showProgress := !ctx.Bool(noProgressFlag.Name) && isTerminal(os.Stdout)
		if err := simulate(gctx, n, target, showProgress); err != nil {
			if exitCtx.Err() != nil {
				return nil
			}
			return err
		}
		if ctx.Bool(keepAliveFlag.Name) && apiSrv != nil {
			log.Info("simulation done, serving API until interrupted", "head", n.Head())
			<-gctx.Done()
		}
		return nil
	})
	return g.Wait()
}
