// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/vechain/parastaking/builtin/staker/reverts"
	"github.com/vechain/parastaking/thor"
)

// SetTotalSelected sets how many collators are chosen each era. Root only.
func (s *Staker) SetTotalSelected(n uint32) error {
	logger.Debug("setting total selected", "new", n)
	if err := s.call("set_total_selected", func() error {
		if n < thor.MinSelectedCandidates() {
			return reverts.ErrCannotSetBelowMin
		}
		old, err := s.eraService.TotalSelected()
		if err != nil {
			return err
		}
		if old == n {
			return reverts.ErrNoWritingSameValue
		}
		info, err := s.eraService.Era()
		if err != nil {
			return err
		}
		if n > info.Length {
			return reverts.ErrEraLengthMustBeAtLeastTotalSelectedCollators
		}
		if err := s.eraService.SetTotalSelected(n); err != nil {
			return err
		}
		s.emit(TotalSelectedSet{Old: old, New: n})
		return nil
	}); err != nil {
		logger.Info("set total selected failed", "new", n, "error", err)
		return err
	}
	logger.Info("set total selected", "new", n)
	return nil
}

// SetBlocksPerEra sets the length of the current and following eras. Root only.
func (s *Staker) SetBlocksPerEra(n uint32) error {
	logger.Debug("setting blocks per era", "new", n)
	if err := s.call("set_blocks_per_era", func() error {
		if n < thor.MinBlocksPerEra() {
			return reverts.ErrCannotSetBelowMin
		}
		info, err := s.eraService.Era()
		if err != nil {
			return err
		}
		old := info.Length
		if old == n {
			return reverts.ErrNoWritingSameValue
		}
		totalSelected, err := s.eraService.TotalSelected()
		if err != nil {
			return err
		}
		if n < totalSelected {
			return reverts.ErrEraLengthMustBeAtLeastTotalSelectedCollators
		}
		info.Length = n
		if err := s.eraService.SetEra(info); err != nil {
			return err
		}
		s.emit(BlocksPerEraSet{CurrentEra: info.Current, FirstBlock: info.First, Old: old, New: n})
		return nil
	}); err != nil {
		logger.Info("set blocks per era failed", "new", n, "error", err)
		return err
	}
	logger.Info("set blocks per era", "new", n)
	return nil
}

// HotfixRemoveNominationRequestsExitedCandidates clears the request queues left behind by candidates
// that already exited. Root only.
func (s *Staker) HotfixRemoveNominationRequestsExitedCandidates(candidates []thor.Address) error {
	logger.Debug("removing nomination requests", "candidates", len(candidates))
	if err := s.call("hotfix_remove_nomination_requests", func() error {
		if uint32(len(candidates)) >= thor.MaxHotfixCandidates() {
			return reverts.ErrTooManyCandidates
		}
		for _, acc := range candidates {
			isCandidate, err := s.candidateService.Exists(acc)
			if err != nil {
				return err
			}
			queue, err := s.requestService.Get(acc)
			if err != nil {
				return err
			}
			if isCandidate || len(queue) > 0 {
				return reverts.ErrCandidateNotLeaving
			}
		}
		for _, acc := range candidates {
			s.requestService.Delete(acc)
		}
		return nil
	}); err != nil {
		logger.Info("remove nomination requests failed", "error", err)
		return err
	}
	logger.Info("removed nomination requests", "candidates", len(candidates))
	return nil
}
