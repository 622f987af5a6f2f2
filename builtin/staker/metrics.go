// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import "github.com/vechain/parastaking/metrics"

var (
	metricCallCount         = metrics.LazyLoadCounterVec("staker_call_count", []string{"op", "result"})
	metricEraTransitions    = metrics.LazyLoadCounter("staker_era_transitions_count")
	metricSelectedCollators = metrics.LazyLoadGauge("staker_selected_collators")
	metricTotalStaked       = metrics.LazyLoadGauge("staker_total_staked")
	metricRewardsPaid       = metrics.LazyLoadCounterVec("staker_rewards_paid", []string{"role"})
	metricRewardsFailed     = metrics.LazyLoadCounter("staker_rewards_failed_count")
	metricHookWeight        = metrics.LazyLoadHistogram("staker_hook_weight", metrics.BucketHookWeight)
)
