// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"fmt"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Output formats.
const (
	FormatTerminal = "terminal"
	FormatJSON     = "json"
	FormatLogfmt   = "logfmt"
)

// FromVerbosity maps the cli verbosity (0=crit .. 5=trace) to a level.
func FromVerbosity(verbosity int) slog.Level {
	if verbosity < 0 {
		verbosity = 0
	}
	if verbosity > 5 {
		verbosity = 5
	}
	return ethlog.FromLegacyLevel(verbosity)
}

// NewHandler creates a handler writing records at or above level in the given format.
// Colors are only applied to the terminal format.
func NewHandler(format string, w io.Writer, level slog.Level, useColor bool) (slog.Handler, error) {
	switch format {
	case "", FormatTerminal:
		return ethlog.NewTerminalHandlerWithLevel(w, level, useColor), nil
	case FormatJSON:
		return ethlog.JSONHandlerWithLevel(w, level), nil
	case FormatLogfmt:
		return ethlog.LogfmtHandlerWithLevel(w, level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Install makes h the handler of the root logger.
func Install(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}
