// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/vechain/parastaking/builtin/staker/candidate"
	"github.com/vechain/parastaking/builtin/staker/era"
	"github.com/vechain/parastaking/builtin/staker/nomination"
	"github.com/vechain/parastaking/builtin/staker/orderedset"
	"github.com/vechain/parastaking/builtin/staker/requests"
	"github.com/vechain/parastaking/builtin/staker/rewards"
	"github.com/vechain/parastaking/thor"
)

// Read-only accessors. They charge the current weight charger but never write.

func (s *Staker) CandidateInfo(acc thor.Address) (*candidate.Candidate, error) {
	return s.candidateService.Get(acc)
}

func (s *Staker) TopNominations(acc thor.Address) (*nomination.Nominations, error) {
	return s.candidateService.GetTop(acc)
}

func (s *Staker) BottomNominations(acc thor.Address) (*nomination.Nominations, error) {
	return s.candidateService.GetBottom(acc)
}

// CandidatePool returns the candidates eligible for selection, sorted by account.
func (s *Staker) CandidatePool() (orderedset.Set, error) {
	return s.candidateService.Pool()
}

func (s *Staker) NominatorState(acc thor.Address) (*nomination.Nominator, error) {
	return s.nominatorService.Get(acc)
}

// NominationScheduledRequests returns the pending requests against a candidate in insertion order.
func (s *Staker) NominationScheduledRequests(cand thor.Address) (requests.Requests, error) {
	return s.requestService.Get(cand)
}

func (s *Staker) Era() (*era.Info, error) {
	return s.eraService.Era()
}

func (s *Staker) TotalSelected() (uint32, error) {
	return s.eraService.TotalSelected()
}

func (s *Staker) SelectedCandidates() ([]thor.Address, error) {
	return s.eraService.Selected()
}

// Total returns the amount locked across every candidate and nomination.
func (s *Staker) Total() (*big.Int, error) {
	return s.globalStatsService.Total()
}

func (s *Staker) Staked(eraIndex uint32) (*big.Int, error) {
	return s.eraService.Staked(eraIndex)
}

func (s *Staker) AtStake(eraIndex uint32, acc thor.Address) (*rewards.CollatorSnapshot, error) {
	return s.rewardService.AtStake(eraIndex, acc)
}

func (s *Staker) AwardedPoints(eraIndex uint32, acc thor.Address) (uint32, error) {
	return s.rewardService.AwardedPoints(eraIndex, acc)
}

func (s *Staker) Points(eraIndex uint32) (uint32, error) {
	return s.rewardService.Points(eraIndex)
}

func (s *Staker) DelayedPayout(eraIndex uint32) (*rewards.DelayedPayout, error) {
	return s.rewardService.DelayedPayout(eraIndex)
}

func (s *Staker) LockedEraPayout() (*big.Int, error) {
	return s.rewardService.LockedEraPayout()
}

func (s *Staker) IsCandidate(acc thor.Address) (bool, error) {
	return s.candidateService.Exists(acc)
}

func (s *Staker) IsNominator(acc thor.Address) (bool, error) {
	return s.nominatorService.Exists(acc)
}

func (s *Staker) IsSelectedCandidate(acc thor.Address) (bool, error) {
	selected, err := s.eraService.Selected()
	if err != nil {
		return false, err
	}
	for _, a := range selected {
		if a == acc {
			return true, nil
		}
	}
	return false, nil
}

// ComputeTopCandidates returns the collators that would be chosen if the era changed now.
func (s *Staker) ComputeTopCandidates() ([]thor.Address, error) {
	return s.computeTopCandidates()
}
