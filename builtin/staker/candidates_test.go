// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/parastaking/builtin/staker/candidate"
	"github.com/vechain/parastaking/builtin/staker/reverts"
)

func TestJoinCandidates(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)

	require.NoError(t, ts.JoinCandidates(acc(1), amt(10), 0))

	pool, err := ts.CandidatePool()
	require.NoError(t, err)
	require.Len(t, pool, 1)
	assert.Equal(t, acc(1), pool[0].Owner)
	assert.Equal(t, int64(10), pool[0].Amount.Int64())
	assert.Equal(t, int64(10), ts.total().Int64())
	assert.Equal(t, int64(10), ts.locked(acc(1)).Int64())

	joined := eventsOf[JoinedCollatorCandidates](ts)
	require.Len(t, joined, 1)
	assert.Equal(t, int64(10), joined[0].NewTotalAmtLocked.Int64())
	ts.AssertInvariants()
}

func TestJoinCandidatesErrors(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(10), 0))
	require.NoError(t, ts.Nominate(acc(2), acc(1), amt(10), 0, 0))

	tests := []struct {
		name  string
		acc   byte
		bond  int64
		count uint32
		err   error
	}{
		{"already candidate", 1, 10, 10, reverts.ErrCandidateExists},
		{"nominator", 2, 10, 10, reverts.ErrNominatorExists},
		{"bond below min", 3, 9, 10, reverts.ErrCandidateBondBelowMin},
		{"low count hint", 3, 10, 0, reverts.ErrTooLowCandidateCountWeightHintJoinCandidates},
		{"insufficient balance", 3, initialBalance + 1, 10, reverts.ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ts.JoinCandidates(acc(tt.acc), amt(tt.bond), tt.count)
			assert.ErrorIs(t, err, tt.err)
		})
	}
	ts.AssertInvariants()
	assert.Equal(t, int64(20), ts.total().Int64())
}

func TestCandidateBondLessDelay(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(30), 0))

	require.NoError(t, ts.ScheduleCandidateBondLess(acc(1), amt(10)))
	info, err := ts.CandidateInfo(acc(1))
	require.NoError(t, err)
	require.NotNil(t, info.Request)
	assert.Equal(t, uint32(3), info.Request.WhenExecutable)

	ts.rollToEra(2)
	assert.ErrorIs(t, ts.ExecuteCandidateBondLess(acc(1)), reverts.ErrPendingCandidateRequestNotDueYet)

	ts.rollToEra(3)
	require.NoError(t, ts.ExecuteCandidateBondLess(acc(1)))
	AssertCandidate(ts, acc(1)).Bond(20).TotalCounted(20).InPool(true).Assert(t)
	assert.Equal(t, int64(20), ts.locked(acc(1)).Int64())
	assert.Equal(t, int64(20), ts.total().Int64())
	ts.AssertInvariants()
}

func TestCandidateBondLessRules(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(20), 0))

	assert.ErrorIs(t, ts.ScheduleCandidateBondLess(acc(1), amt(20)), reverts.ErrCandidateBondBelowMin)
	assert.ErrorIs(t, ts.ScheduleCandidateBondLess(acc(1), amt(11)), reverts.ErrCandidateBondBelowMin)
	assert.ErrorIs(t, ts.ScheduleCandidateBondLess(acc(2), amt(1)), reverts.ErrCandidateDNE)

	require.NoError(t, ts.ScheduleCandidateBondLess(acc(1), amt(10)))
	assert.ErrorIs(t, ts.ScheduleCandidateBondLess(acc(1), amt(1)), reverts.ErrPendingCandidateRequestAlreadyExists)

	require.NoError(t, ts.CancelCandidateBondLess(acc(1)))
	assert.ErrorIs(t, ts.CancelCandidateBondLess(acc(1)), reverts.ErrPendingCandidateRequestDNE)
	assert.ErrorIs(t, ts.ExecuteCandidateBondLess(acc(1)), reverts.ErrPendingCandidateRequestDNE)
	AssertCandidate(ts, acc(1)).Bond(20).Assert(t)
}

func TestCandidateBondMore(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(20), 0))

	require.NoError(t, ts.CandidateBondMore(acc(1), amt(15)))
	AssertCandidate(ts, acc(1)).Bond(35).TotalCounted(35).InPool(true).Assert(t)
	assert.Equal(t, int64(35), ts.locked(acc(1)).Int64())

	assert.ErrorIs(t, ts.CandidateBondMore(acc(1), amt(initialBalance)), reverts.ErrInsufficientBalance)
	assert.ErrorIs(t, ts.CandidateBondMore(acc(2), amt(1)), reverts.ErrCandidateDNE)
	ts.AssertInvariants()
}

func TestCandidateOfflineOnline(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(20), 0))

	require.NoError(t, ts.GoOffline(acc(1)))
	AssertCandidate(ts, acc(1)).InPool(false).Assert(t)
	assert.ErrorIs(t, ts.GoOffline(acc(1)), reverts.ErrAlreadyOffline)

	require.NoError(t, ts.GoOnline(acc(1)))
	AssertCandidate(ts, acc(1)).InPool(true).Assert(t)
	assert.ErrorIs(t, ts.GoOnline(acc(1)), reverts.ErrAlreadyActive)

	require.NoError(t, ts.ScheduleLeaveCandidates(acc(1), 1))
	assert.ErrorIs(t, ts.GoOnline(acc(1)), reverts.ErrCannotGoOnlineIfLeaving)

	evs := ts.TakeEvents()
	names := make([]string, 0, len(evs))
	for _, ev := range evs {
		names = append(names, ev.Name())
	}
	assert.Equal(t, []string{"JoinedCollatorCandidates", "CandidateWentOffline", "CandidateBackOnline", "CandidateScheduledExit"}, names)
}

func TestLeaveCandidates(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(20), 0))
	require.NoError(t, ts.JoinCandidates(acc(2), amt(20), 1))
	require.NoError(t, ts.Nominate(acc(3), acc(1), amt(10), 0, 0))
	require.NoError(t, ts.Nominate(acc(3), acc(2), amt(10), 0, 1))
	require.NoError(t, ts.Nominate(acc(4), acc(1), amt(10), 1, 0))

	assert.ErrorIs(t, ts.ScheduleLeaveCandidates(acc(1), 1), reverts.ErrTooLowCandidateCountToLeaveCandidates)
	require.NoError(t, ts.ScheduleLeaveCandidates(acc(1), 2))
	assert.ErrorIs(t, ts.ScheduleLeaveCandidates(acc(1), 2), reverts.ErrCandidateAlreadyLeaving)
	AssertCandidate(ts, acc(1)).InPool(false).Assert(t)

	info, err := ts.CandidateInfo(acc(1))
	require.NoError(t, err)
	assert.Equal(t, candidate.StatusLeaving, info.Status)
	assert.Equal(t, uint32(3), info.ExitEra)

	ts.rollToEra(2)
	assert.ErrorIs(t, ts.ExecuteLeaveCandidates(acc(1), 2), reverts.ErrCandidateCannotLeaveYet)

	ts.rollToEra(3)
	assert.ErrorIs(t, ts.ExecuteLeaveCandidates(acc(1), 1), reverts.ErrTooLowCandidateNominationCountToLeaveCandidates)
	require.NoError(t, ts.ExecuteLeaveCandidates(acc(1), 2))

	isCandidate, err := ts.IsCandidate(acc(1))
	require.NoError(t, err)
	assert.False(t, isCandidate)
	top, err := ts.TopNominations(acc(1))
	require.NoError(t, err)
	assert.Equal(t, 0, top.Len())

	// acc(3) keeps its other nomination, acc(4) is gone
	n3, err := ts.NominatorState(acc(3))
	require.NoError(t, err)
	require.NotNil(t, n3)
	assert.Equal(t, 1, n3.Count())
	assert.Equal(t, int64(10), ts.locked(acc(3)).Int64())
	isNominator, err := ts.IsNominator(acc(4))
	require.NoError(t, err)
	assert.False(t, isNominator)
	assert.Equal(t, int64(0), ts.locked(acc(4)).Int64())
	assert.Equal(t, int64(0), ts.locked(acc(1)).Int64())
	assert.Equal(t, int64(30), ts.total().Int64())

	left := eventsOf[CandidateLeft](ts)
	require.Len(t, left, 1)
	assert.Equal(t, int64(40), left[0].UnlockedAmount.Int64())
	assert.Equal(t, int64(30), left[0].NewTotalAmtLocked.Int64())
	ts.AssertInvariants()
}

func TestCancelLeaveCandidates(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(20), 0))

	assert.ErrorIs(t, ts.CancelLeaveCandidates(acc(1), 1), reverts.ErrCandidateNotLeaving)
	require.NoError(t, ts.ScheduleLeaveCandidates(acc(1), 1))
	assert.ErrorIs(t, ts.ExecuteLeaveCandidates(acc(1), 0), reverts.ErrCandidateCannotLeaveYet)
	require.NoError(t, ts.CancelLeaveCandidates(acc(1), 0))
	AssertCandidate(ts, acc(1)).InPool(true).Bond(20).Assert(t)
	assert.ErrorIs(t, ts.ExecuteLeaveCandidates(acc(1), 0), reverts.ErrCandidateNotLeaving)
}

func TestFailedCallRevertsState(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(10), 0))
	ts.TakeEvents()

	// pool insert happens before the balance check
	err := ts.JoinCandidates(acc(2), amt(initialBalance+1), 1)
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)

	pool, err := ts.CandidatePool()
	require.NoError(t, err)
	assert.Len(t, pool, 1)
	assert.Empty(t, ts.TakeEvents())
	ts.AssertInvariants()
}
