// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import "github.com/vechain/parastaking/metrics"

var (
	metricBlockCount  = metrics.LazyLoadCounter("node_block_count")
	metricBlockWeight = metrics.LazyLoadHistogram("node_block_weight", metrics.BucketHookWeight)
	metricEventCount  = metrics.LazyLoadCounter("node_event_count")
)
