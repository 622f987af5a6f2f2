// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/vechain/parastaking/builtin/staker/candidate"
	"github.com/vechain/parastaking/builtin/staker/requests"
	"github.com/vechain/parastaking/thor"
)

// Event is a state change notification of the engine.
type Event interface {
	Name() string
}

func (s *Staker) emit(ev Event) {
	logger.Trace("event", "name", ev.Name())
	s.events = append(s.events, ev)
}

// TakeEvents drains the buffered events.
func (s *Staker) TakeEvents() []Event {
	evs := s.events
	s.events = nil
	return evs
}

//
// Era and selection
//

type NewEra struct {
	StartingBlock           uint32
	Era                     uint32
	SelectedCollatorsNumber uint32
	TotalBalance            *big.Int
}

type CollatorChosen struct {
	Era                uint32
	CollatorAccount    thor.Address
	TotalExposedAmount *big.Int
}

type TotalSelectedSet struct {
	Old uint32
	New uint32
}

type BlocksPerEraSet struct {
	CurrentEra uint32
	FirstBlock uint32
	Old        uint32
	New        uint32
}

//
// Candidates
//

type JoinedCollatorCandidates struct {
	Account           thor.Address
	AmountLocked      *big.Int
	NewTotalAmtLocked *big.Int
}

type CandidateScheduledExit struct {
	ExitAllowedEra uint32
	Candidate      thor.Address
	ScheduledExit  uint32
}

type CancelledCandidateExit struct {
	Candidate thor.Address
}

type CandidateLeft struct {
	ExCandidate       thor.Address
	UnlockedAmount    *big.Int
	NewTotalAmtLocked *big.Int
}

type CandidateWentOffline struct {
	Candidate thor.Address
}

type CandidateBackOnline struct {
	Candidate thor.Address
}

type CandidateBondedMore struct {
	Candidate    thor.Address
	Amount       *big.Int
	NewTotalBond *big.Int
}

type CandidateBondLessRequested struct {
	Candidate        thor.Address
	AmountToDecrease *big.Int
	ExecuteEra       uint32
}

type CandidateBondedLess struct {
	Candidate thor.Address
	Amount    *big.Int
	NewBond   *big.Int
}

type CancelledCandidateBondLess struct {
	Candidate  thor.Address
	Amount     *big.Int
	ExecuteEra uint32
}

//
// Nominators
//

type Nomination struct {
	Nominator         thor.Address
	LockedAmount      *big.Int
	Candidate         thor.Address
	NominatorPosition candidate.Position
	// NewTotal is the candidate's counted total, set when added to top.
	NewTotal *big.Int
}

type NominationKicked struct {
	Nominator      thor.Address
	Candidate      thor.Address
	UnstakedAmount *big.Int
}

type NominatorLeft struct {
	Nominator      thor.Address
	UnstakedAmount *big.Int
}

type NominatorLeftCandidate struct {
	Nominator            thor.Address
	Candidate            thor.Address
	UnstakedAmount       *big.Int
	TotalCandidateStaked *big.Int
}

type NominationRevocationScheduled struct {
	Era           uint32
	Nominator     thor.Address
	Candidate     thor.Address
	ScheduledExit uint32
}

type NominationDecreaseScheduled struct {
	Nominator        thor.Address
	Candidate        thor.Address
	AmountToDecrease *big.Int
	ExecuteEra       uint32
}

type NominationRevoked struct {
	Nominator      thor.Address
	Candidate      thor.Address
	UnstakedAmount *big.Int
}

type NominationDecreased struct {
	Nominator thor.Address
	Candidate thor.Address
	Amount    *big.Int
	InTop     bool
}

type NominationIncreased struct {
	Nominator thor.Address
	Candidate thor.Address
	Amount    *big.Int
	InTop     bool
}

type CancelledNominationRequest struct {
	Nominator        thor.Address
	Collator         thor.Address
	CancelledRequest requests.ScheduledRequest
}

type NominatorExitScheduled struct {
	Era           uint32
	Nominator     thor.Address
	ScheduledExit uint32
}

type NominatorExitCancelled struct {
	Nominator thor.Address
}

//
// Rewards
//

type Rewarded struct {
	Account thor.Address
	Rewards *big.Int
}

type ErrorPayingStakingReward struct {
	Payee   thor.Address
	Rewards *big.Int
}

type NotEnoughFundsForEraPayment struct {
	RewardPotBalance *big.Int
}

func (NewEra) Name() string                        { return "NewEra" }
func (CollatorChosen) Name() string                { return "CollatorChosen" }
func (TotalSelectedSet) Name() string              { return "TotalSelectedSet" }
func (BlocksPerEraSet) Name() string               { return "BlocksPerEraSet" }
func (JoinedCollatorCandidates) Name() string      { return "JoinedCollatorCandidates" }
func (CandidateScheduledExit) Name() string        { return "CandidateScheduledExit" }
func (CancelledCandidateExit) Name() string        { return "CancelledCandidateExit" }
func (CandidateLeft) Name() string                 { return "CandidateLeft" }
func (CandidateWentOffline) Name() string          { return "CandidateWentOffline" }
func (CandidateBackOnline) Name() string           { return "CandidateBackOnline" }
func (CandidateBondedMore) Name() string           { return "CandidateBondedMore" }
func (CandidateBondLessRequested) Name() string    { return "CandidateBondLessRequested" }
func (CandidateBondedLess) Name() string           { return "CandidateBondedLess" }
func (CancelledCandidateBondLess) Name() string    { return "CancelledCandidateBondLess" }
func (Nomination) Name() string                    { return "Nomination" }
func (NominationKicked) Name() string              { return "NominationKicked" }
func (NominatorLeft) Name() string                 { return "NominatorLeft" }
func (NominatorLeftCandidate) Name() string        { return "NominatorLeftCandidate" }
func (NominationRevocationScheduled) Name() string { return "NominationRevocationScheduled" }
func (NominationDecreaseScheduled) Name() string   { return "NominationDecreaseScheduled" }
func (NominationRevoked) Name() string             { return "NominationRevoked" }
func (NominationDecreased) Name() string           { return "NominationDecreased" }
func (NominationIncreased) Name() string           { return "NominationIncreased" }
func (CancelledNominationRequest) Name() string    { return "CancelledNominationRequest" }
func (NominatorExitScheduled) Name() string        { return "NominatorExitScheduled" }
func (NominatorExitCancelled) Name() string        { return "NominatorExitCancelled" }
func (Rewarded) Name() string                      { return "Rewarded" }
func (ErrorPayingStakingReward) Name() string      { return "ErrorPayingStakingReward" }
func (NotEnoughFundsForEraPayment) Name() string   { return "NotEnoughFundsForEraPayment" }
