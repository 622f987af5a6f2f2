// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	"github.com/vechain/parastaking/builtin/staker/reverts"
)

type randomOp struct {
	Kind   uint8
	Who    uint8
	Target uint8
	Amount uint16
	Blocks uint8
}

func (op randomOp) apply(ts *StakerTest) error {
	who := acc(op.Who%12 + 1)
	target := acc(op.Target%12 + 1)
	amount := amt(int64(op.Amount % 60))
	switch op.Kind % 16 {
	case 0:
		return ts.JoinCandidates(who, amount, 100)
	case 1:
		return ts.Nominate(who, target, amount, 100, 100)
	case 2:
		return ts.CandidateBondMore(who, amount)
	case 3:
		return ts.ScheduleCandidateBondLess(who, amount)
	case 4:
		return ts.ExecuteCandidateBondLess(who)
	case 5:
		return ts.ScheduleLeaveCandidates(who, 100)
	case 6:
		return ts.ExecuteLeaveCandidates(who, 100)
	case 7:
		return ts.CancelLeaveCandidates(who, 100)
	case 8:
		return ts.GoOffline(who)
	case 9:
		return ts.GoOnline(who)
	case 10:
		return ts.ScheduleRevokeNomination(who, target)
	case 11:
		return ts.ScheduleNominatorBondLess(who, target, amount)
	case 12:
		return ts.ExecuteNominationRequest(who, target)
	case 13:
		return ts.NominatorBondMore(who, target, amount)
	case 14:
		return ts.NoteBlockAuthored(target)
	default:
		ts.rollTo(ts.block + uint32(op.Blocks%7) + 1)
		return nil
	}
}

// TestRandomOperationsKeepInvariants runs random call sequences and checks that every
// failure is a revert and that stake accounting stays consistent after each step.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		ts := newTest(t).genesis([]GenesisCandidate{
			{Account: acc(1), Bond: amt(30)},
			{Account: acc(2), Bond: amt(20)},
		}, []GenesisNomination{
			{Nominator: acc(3), Candidate: acc(1), Amount: amt(10)},
		})
		ts.fund(RewardPot, 500)

		f := fuzz.NewWithSeed(seed).NilChance(0)
		for step := 0; step < 200; step++ {
			var op randomOp
			f.Fuzz(&op)
			if err := op.apply(ts); err != nil {
				require.True(t, reverts.IsRevertErr(err), "seed %d step %d op %+v: %v", seed, step, op, err)
			}
			ts.AssertInvariants()
		}
		ts.TakeEvents()
	}
}
