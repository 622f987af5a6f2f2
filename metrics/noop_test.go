// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runs before TestPromMetrics swaps the singleton
func TestNoopMetrics(t *testing.T) {
	_, ok := metrics.(*noopMetrics)
	require.True(t, ok, "metrics must default to noop")

	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	callCount := LazyLoadCounterVec("staker_call_count", []string{"op", "result"})
	eraTransitions := LazyLoadCounter("staker_era_transitions_count")
	selected := LazyLoadGauge("staker_selected_collators")
	hookWeight := LazyLoadHistogram("staker_hook_weight", BucketHookWeight)
	activeSockets := LazyLoadGaugeVec("api_active_websocket_count", []string{"subject"})
	reqDuration := LazyLoadHistogramVec("api_duration_ms", []string{"name", "code", "method"}, BucketHTTPReqs)

	assert.Same(t, callCount(), callCount())
	for era := range 10 {
		callCount().AddWithLabel(1, map[string]string{"op": "on_initialize", "result": "ok"})
		// unknown labels are ignored
		callCount().AddWithLabel(1, map[string]string{"nonsense": "ignored"})
		eraTransitions().Add(1)
		selected().Set(int64(era))
		selected().Add(-1)
		hookWeight().Observe(int64(era) * 1_000)
		activeSockets().AddWithLabel(1, map[string]string{"subject": "events"})
		activeSockets().SetWithLabel(0, map[string]string{"subject": "events"})
		reqDuration().ObserveWithLabels(int64(era), map[string]string{"name": "staker_era", "code": "200", "method": "GET"})
	}

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
