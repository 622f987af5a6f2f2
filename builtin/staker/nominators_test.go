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
	"github.com/vechain/parastaking/builtin/staker/requests"
	"github.com/vechain/parastaking/builtin/staker/reverts"
)

func TestNominateErrors(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(20), 0))
	require.NoError(t, ts.JoinCandidates(acc(2), amt(20), 1))
	require.NoError(t, ts.Nominate(acc(3), acc(1), amt(10), 0, 0))

	tests := []struct {
		name      string
		nominator byte
		cand      byte
		amount    int64
		candHint  uint32
		nomHint   uint32
		err       error
	}{
		{"insufficient balance", 4, 1, initialBalance + 1, 10, 10, reverts.ErrInsufficientBalance},
		{"new nominator below min", 4, 1, 4, 10, 10, reverts.ErrNominatorBondBelowMin},
		{"candidate cannot nominate", 2, 1, 10, 10, 10, reverts.ErrCandidateExists},
		{"unknown candidate", 4, 9, 10, 10, 10, reverts.ErrCandidateDNE},
		{"low candidate hint", 4, 1, 10, 0, 10, reverts.ErrTooLowCandidateNominationCountToNominate},
		{"nomination below min", 3, 2, 2, 10, 10, reverts.ErrNominationBelowMin},
		{"low nominator hint", 3, 2, 10, 10, 0, reverts.ErrTooLowNominationCountToNominate},
		{"already nominated", 3, 1, 10, 10, 10, reverts.ErrAlreadyNominatedCandidate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ts.Nominate(acc(tt.nominator), acc(tt.cand), amt(tt.amount), tt.candHint, tt.nomHint)
			assert.ErrorIs(t, err, tt.err)
		})
	}
	ts.AssertInvariants()
	assert.Equal(t, int64(50), ts.total().Int64())
}

func TestNominateMaxNominations(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	for i := byte(1); i <= 5; i++ {
		require.NoError(t, ts.JoinCandidates(acc(i), amt(20), 10))
	}
	for i := byte(1); i <= 4; i++ {
		require.NoError(t, ts.Nominate(acc(10), acc(i), amt(5), 10, 10))
	}
	assert.ErrorIs(t, ts.Nominate(acc(10), acc(5), amt(5), 10, 10), reverts.ErrExceedMaxNominationsPerNominator)

	n, err := ts.NominatorState(acc(10))
	require.NoError(t, err)
	assert.Equal(t, 4, n.Count())
	assert.Equal(t, int64(20), n.Total.Int64())
	assert.Equal(t, int64(20), ts.locked(acc(10)).Int64())
	ts.AssertInvariants()
}

func TestNominationKickedFromFullBottom(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(20), 0))
	require.NoError(t, ts.JoinCandidates(acc(2), amt(20), 1))

	// 4 fill top, 4 fill bottom
	for i := byte(10); i < 18; i++ {
		require.NoError(t, ts.Nominate(acc(i), acc(1), amt(10), 100, 100))
	}
	// the last bottom nominator also backs another candidate
	require.NoError(t, ts.Nominate(acc(17), acc(2), amt(10), 100, 100))
	AssertCandidate(ts, acc(1)).NominationCount(8).TotalCounted(60).Assert(t)
	ts.TakeEvents()

	assert.ErrorIs(t, ts.Nominate(acc(20), acc(1), amt(10), 100, 100),
		reverts.ErrCannotNominateLessThanOrEqualToLowestBottomWhenFull)

	require.NoError(t, ts.Nominate(acc(20), acc(1), amt(11), 100, 100))
	AssertCandidate(ts, acc(1)).NominationCount(8).TotalCounted(61).Assert(t)

	top, err := ts.TopNominations(acc(1))
	require.NoError(t, err)
	assert.Equal(t, acc(20), top.Nominations[0].Owner)
	bottom, err := ts.BottomNominations(acc(1))
	require.NoError(t, err)
	assert.Equal(t, 4, bottom.Len())
	assert.Equal(t, -1, bottom.Find(acc(17)))
	assert.GreaterOrEqual(t, bottom.Find(acc(13)), 0)

	kicked := eventsOf[NominationKicked](ts)
	require.Len(t, kicked, 1)
	assert.Equal(t, acc(17), kicked[0].Nominator)
	assert.Equal(t, int64(10), kicked[0].UnstakedAmount.Int64())

	// acc(17) keeps its other nomination
	n17, err := ts.NominatorState(acc(17))
	require.NoError(t, err)
	require.NotNil(t, n17)
	assert.Equal(t, 1, n17.Count())
	assert.Equal(t, int64(10), ts.locked(acc(17)).Int64())
	ts.AssertInvariants()
}

func TestNominationKickedRemovesNominator(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(20), 0))
	for i := byte(10); i < 18; i++ {
		require.NoError(t, ts.Nominate(acc(i), acc(1), amt(10), 100, 100))
	}
	require.NoError(t, ts.ScheduleRevokeNomination(acc(17), acc(1)))
	ts.TakeEvents()

	require.NoError(t, ts.Nominate(acc(20), acc(1), amt(11), 100, 100))

	evs := ts.TakeEvents()
	var names []string
	for _, ev := range evs {
		names = append(names, ev.Name())
	}
	assert.Equal(t, []string{"NominationKicked", "NominatorLeft", "Nomination"}, names)
	nom := evs[2].(Nomination)
	assert.Equal(t, candidate.AddedToTop, nom.NominatorPosition)
	assert.Equal(t, int64(61), nom.NewTotal.Int64())

	isNominator, err := ts.IsNominator(acc(17))
	require.NoError(t, err)
	assert.False(t, isNominator)
	assert.Equal(t, int64(0), ts.locked(acc(17)).Int64())
	assert.Equal(t, initialBalance, int(ts.free(acc(17)).Int64()))

	queue, err := ts.NominationScheduledRequests(acc(1))
	require.NoError(t, err)
	assert.Empty(t, queue)
	ts.AssertInvariants()
}

func TestRevokeNomination(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(20), 0))
	require.NoError(t, ts.JoinCandidates(acc(2), amt(20), 1))
	require.NoError(t, ts.Nominate(acc(3), acc(1), amt(10), 0, 0))
	require.NoError(t, ts.Nominate(acc(3), acc(2), amt(10), 0, 1))

	assert.ErrorIs(t, ts.ScheduleRevokeNomination(acc(4), acc(1)), reverts.ErrNominatorDNE)
	assert.ErrorIs(t, ts.ScheduleRevokeNomination(acc(3), acc(5)), reverts.ErrNominationDNE)
	require.NoError(t, ts.ScheduleRevokeNomination(acc(3), acc(1)))
	assert.ErrorIs(t, ts.ScheduleRevokeNomination(acc(3), acc(1)), reverts.ErrPendingNominationRequestAlreadyExists)
	assert.ErrorIs(t, ts.NominatorBondMore(acc(3), acc(1), amt(1)), reverts.ErrPendingNominationRevoke)

	queue, err := ts.NominationScheduledRequests(acc(1))
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, requests.ActionRevoke, queue[0].Action)
	assert.Equal(t, uint32(3), queue[0].WhenExecutable)

	n, err := ts.NominatorState(acc(3))
	require.NoError(t, err)
	assert.Equal(t, int64(10), n.LessTotal.Int64())

	ts.rollToEra(2)
	assert.ErrorIs(t, ts.ExecuteNominationRequest(acc(3), acc(1)), reverts.ErrPendingNominationRequestNotDueYet)

	ts.rollToEra(3)
	ts.TakeEvents()
	require.NoError(t, ts.ExecuteNominationRequest(acc(3), acc(1)))
	assert.ErrorIs(t, ts.ExecuteNominationRequest(acc(3), acc(1)), reverts.ErrPendingNominationRequestDNE)

	n, err = ts.NominatorState(acc(3))
	require.NoError(t, err)
	assert.Equal(t, 1, n.Count())
	assert.Equal(t, int64(10), n.Total.Int64())
	assert.Equal(t, int64(0), n.LessTotal.Int64())
	assert.Equal(t, int64(10), ts.locked(acc(3)).Int64())
	AssertCandidate(ts, acc(1)).NominationCount(0).TotalCounted(20).Assert(t)

	left := eventsOf[NominatorLeftCandidate](ts)
	require.Len(t, left, 1)
	assert.Equal(t, int64(20), left[0].TotalCandidateStaked.Int64())
	ts.AssertInvariants()
}

func TestRevokeLastNominationRemovesNominator(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(20), 0))
	require.NoError(t, ts.Nominate(acc(3), acc(1), amt(10), 0, 0))

	require.NoError(t, ts.ScheduleRevokeNomination(acc(3), acc(1)))
	ts.rollToEra(3)
	ts.TakeEvents()
	require.NoError(t, ts.ExecuteNominationRequest(acc(3), acc(1)))

	isNominator, err := ts.IsNominator(acc(3))
	require.NoError(t, err)
	assert.False(t, isNominator)
	assert.Equal(t, int64(0), ts.locked(acc(3)).Int64())

	left := eventsOf[NominatorLeft](ts)
	require.Len(t, left, 1)
	assert.Equal(t, int64(10), left[0].UnstakedAmount.Int64())
	ts.AssertInvariants()
}

func TestNominatorBondLess(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(20), 0))
	require.NoError(t, ts.Nominate(acc(3), acc(1), amt(20), 0, 0))

	tests := []struct {
		name string
		less int64
		err  error
	}{
		{"whole bond", 20, reverts.ErrNominatorBondBelowMin},
		{"below min nomination", 18, reverts.ErrNominationBelowMin},
		{"below min nominator stake", 16, reverts.ErrNominatorBondBelowMin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ts.ScheduleNominatorBondLess(acc(3), acc(1), amt(tt.less)), tt.err)
		})
	}

	require.NoError(t, ts.ScheduleNominatorBondLess(acc(3), acc(1), amt(15)))
	assert.ErrorIs(t, ts.ScheduleNominatorBondLess(acc(3), acc(1), amt(1)), reverts.ErrPendingNominationRequestAlreadyExists)

	// bond more is allowed while a decrease is pending
	require.NoError(t, ts.NominatorBondMore(acc(3), acc(1), amt(5)))
	AssertCandidate(ts, acc(1)).TotalCounted(45).Assert(t)

	ts.rollToEra(3)
	ts.TakeEvents()
	require.NoError(t, ts.ExecuteNominationRequest(acc(3), acc(1)))

	n, err := ts.NominatorState(acc(3))
	require.NoError(t, err)
	assert.Equal(t, int64(10), n.Total.Int64())
	assert.Equal(t, int64(0), n.LessTotal.Int64())
	assert.Equal(t, int64(10), ts.locked(acc(3)).Int64())
	AssertCandidate(ts, acc(1)).TotalCounted(30).Assert(t)

	decreased := eventsOf[NominationDecreased](ts)
	require.Len(t, decreased, 1)
	assert.True(t, decreased[0].InTop)
	assert.Equal(t, int64(15), decreased[0].Amount.Int64())
	ts.AssertInvariants()
}

func TestCancelNominationRequest(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(20), 0))
	require.NoError(t, ts.Nominate(acc(3), acc(1), amt(20), 0, 0))

	assert.ErrorIs(t, ts.CancelNominationRequest(acc(4), acc(1)), reverts.ErrNominatorDNE)
	assert.ErrorIs(t, ts.CancelNominationRequest(acc(3), acc(1)), reverts.ErrPendingNominationRequestDNE)

	require.NoError(t, ts.ScheduleNominatorBondLess(acc(3), acc(1), amt(5)))
	ts.TakeEvents()
	require.NoError(t, ts.CancelNominationRequest(acc(3), acc(1)))

	cancelled := eventsOf[CancelledNominationRequest](ts)
	require.Len(t, cancelled, 1)
	assert.Equal(t, requests.ActionDecrease, cancelled[0].CancelledRequest.Action)
	assert.Equal(t, int64(5), cancelled[0].CancelledRequest.Amount.Int64())

	n, err := ts.NominatorState(acc(3))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n.LessTotal.Int64())
	queue, err := ts.NominationScheduledRequests(acc(1))
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestNominatorBondMorePromotesFromBottom(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(20), 0))
	for i := byte(10); i < 15; i++ {
		require.NoError(t, ts.Nominate(acc(i), acc(1), amt(10), 100, 100))
	}
	bottom, err := ts.BottomNominations(acc(1))
	require.NoError(t, err)
	require.Equal(t, 1, bottom.Len())
	assert.Equal(t, acc(14), bottom.Nominations[0].Owner)
	ts.TakeEvents()

	require.NoError(t, ts.NominatorBondMore(acc(14), acc(1), amt(5)))
	increased := eventsOf[NominationIncreased](ts)
	require.Len(t, increased, 1)
	assert.True(t, increased[0].InTop)

	top, err := ts.TopNominations(acc(1))
	require.NoError(t, err)
	assert.Equal(t, acc(14), top.Nominations[0].Owner)
	AssertCandidate(ts, acc(1)).TotalCounted(65).NominationCount(5).Assert(t)
	ts.AssertInvariants()
}

func TestCandidateExitPurgesPendingRequests(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)

	NewSequence(ts).
		JoinCandidates(acc(1), 20).
		Nominate(acc(3), acc(1), 10).
		ScheduleRevoke(acc(3), acc(1)).
		ScheduleLeave(acc(1)).
		RollToEra(3).
		AddFunc(func(t *testing.T) {
			require.NoError(t, ts.ExecuteLeaveCandidates(acc(1), 1))
		}).
		Run(t)

	isNominator, err := ts.IsNominator(acc(3))
	require.NoError(t, err)
	assert.False(t, isNominator)
	assert.Equal(t, int64(0), ts.locked(acc(3)).Int64())
	assert.Equal(t, int64(initialBalance), ts.free(acc(3)).Int64())

	queue, err := ts.NominationScheduledRequests(acc(1))
	require.NoError(t, err)
	assert.Empty(t, queue)
	assert.ErrorIs(t, ts.ExecuteNominationRequest(acc(3), acc(1)), reverts.ErrNominatorDNE)
	assert.Equal(t, int64(0), ts.total().Int64())
}

func TestLeaveNominators(t *testing.T) {
	ts := newTest(t).genesis(nil, nil)
	require.NoError(t, ts.JoinCandidates(acc(1), amt(20), 0))
	require.NoError(t, ts.JoinCandidates(acc(2), amt(20), 1))
	require.NoError(t, ts.Nominate(acc(3), acc(1), amt(10), 0, 0))
	require.NoError(t, ts.Nominate(acc(3), acc(2), amt(10), 0, 1))
	require.NoError(t, ts.ScheduleNominatorBondLess(acc(3), acc(2), amt(3)))

	assert.ErrorIs(t, ts.CancelLeaveNominators(acc(3)), reverts.ErrNominatorNotLeaving)
	require.NoError(t, ts.ScheduleLeaveNominators(acc(3)))
	assert.ErrorIs(t, ts.ScheduleLeaveNominators(acc(3)), reverts.ErrNominatorAlreadyLeaving)

	// the pending decrease became a revoke
	queue, err := ts.NominationScheduledRequests(acc(2))
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, requests.ActionRevoke, queue[0].Action)
	n, err := ts.NominatorState(acc(3))
	require.NoError(t, err)
	assert.Equal(t, int64(20), n.LessTotal.Int64())

	require.NoError(t, ts.CancelLeaveNominators(acc(3)))
	n, err = ts.NominatorState(acc(3))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n.LessTotal.Int64())

	require.NoError(t, ts.ScheduleLeaveNominators(acc(3)))
	ts.rollToEra(2)
	assert.ErrorIs(t, ts.ExecuteLeaveNominators(acc(3), 2), reverts.ErrNominatorCannotLeaveYet)
	ts.rollToEra(3)
	assert.ErrorIs(t, ts.ExecuteLeaveNominators(acc(3), 1), reverts.ErrTooLowNominationCountToLeaveNominators)
	ts.TakeEvents()
	require.NoError(t, ts.ExecuteLeaveNominators(acc(3), 2))

	left := eventsOf[NominatorLeft](ts)
	require.Len(t, left, 1)
	assert.Equal(t, int64(20), left[0].UnstakedAmount.Int64())
	isNominator, err := ts.IsNominator(acc(3))
	require.NoError(t, err)
	assert.False(t, isNominator)
	assert.Equal(t, int64(40), ts.total().Int64())
	ts.AssertInvariants()
}
