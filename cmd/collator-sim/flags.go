// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/parastaking/log"
)

var (
	genesisFlag = cli.StringFlag{
		Name:   "genesis",
		Usage:  "path to a genesis file (.json, .yaml or .toml), the dev genesis is used if not set",
		EnvVar: "COLLATOR_SIM_GENESIS",
	}
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Usage:  "directory for the state database, state is kept in memory if not set",
		EnvVar: "COLLATOR_SIM_DATA_DIR",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 128,
		Usage: "megabytes of ram allocated to the state database cache",
	}
	blocksFlag = cli.Uint64Flag{
		Name:   "blocks",
		Value:  100,
		Usage:  "number of blocks to simulate",
		EnvVar: "COLLATOR_SIM_BLOCKS",
	}
	keepAliveFlag = cli.BoolFlag{
		Name:   "keep-alive",
		Usage:  "keep serving the API once the simulation is done",
		EnvVar: "COLLATOR_SIM_KEEP_ALIVE",
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8669",
		Usage:  "API service listening address, disabled if empty",
		EnvVar: "COLLATOR_SIM_API_ADDR",
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
		EnvVar: "COLLATOR_SIM_API_CORS",
	}
	apiBacklogFlag = cli.IntFlag{
		Name:  "api-subscription-backlog",
		Value: 64,
		Usage: "blocks buffered per websocket subscriber before blocks are dropped",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.DurationFlag{
		Name:  "api-slow-queries-threshold",
		Value: 0,
		Usage: "all queries with duration longer than this value will be logged (0 disables)",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log all requests answered with a 5xx status code",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		Value:  "",
		Usage:  "metrics service listening address, disabled if empty",
		EnvVar: "COLLATOR_SIM_METRICS_ADDR",
	}
	verbosityFlag = cli.IntFlag{
		Name:   "verbosity",
		Value:  3,
		Usage:  "log verbosity (0-5)",
		EnvVar: "COLLATOR_SIM_VERBOSITY",
	}
	logFormatFlag = cli.StringFlag{
		Name:  "log-format",
		Value: log.FormatTerminal,
		Usage: "log output format (terminal|json|logfmt)",
	}
	logFileFlag = cli.StringFlag{
		Name:   "log-file",
		Usage:  "also write logs to this file, rotated by size",
		EnvVar: "COLLATOR_SIM_LOG_FILE",
	}
	logFileMaxSizeFlag = cli.IntFlag{
		Name:  "log-file-max-size",
		Value: 100,
		Usage: "size in megabytes at which the log file is rotated",
	}
	noProgressFlag = cli.BoolFlag{
		Name:  "no-progress",
		Usage: "never show the progress bar",
	}
	shutdownTimeoutFlag = cli.DurationFlag{
		Name:  "shutdown-timeout",
		Value: 5 * time.Second,
		Usage: "time allowed for the servers to drain on exit",
	}
)
