// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"sort"

	"github.com/vechain/parastaking/builtin/staker/orderedset"
	"github.com/vechain/parastaking/builtin/staker/rewards"
	"github.com/vechain/parastaking/thor"
)

// computeTopCandidates returns the accounts that would be selected now, sorted ascending.
func (s *Staker) computeTopCandidates() ([]thor.Address, error) {
	pool, err := s.candidateService.Pool()
	if err != nil {
		return nil, err
	}
	totalSelected, err := s.eraService.TotalSelected()
	if err != nil {
		return nil, err
	}

	ranked := make(orderedset.Set, len(pool))
	copy(ranked, pool)
	// pool is sorted by owner; ties rank the greater owner first
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.Cmp(ranked[j].Amount) > 0 ||
			(ranked[i].Amount.Cmp(ranked[j].Amount) == 0 && ranked[i].Owner.Compare(ranked[j].Owner) > 0)
	})
	if uint32(len(ranked)) > totalSelected {
		ranked = ranked[:totalSelected]
	}

	minStk := new(big.Int).SetUint64(thor.MinCollatorStk())
	selected := make([]thor.Address, 0, len(ranked))
	for _, b := range ranked {
		if b.Amount.Cmp(minStk) >= 0 {
			selected = append(selected, b.Owner)
		}
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Compare(selected[j]) < 0
	})
	return selected, nil
}

// selectTopCandidates snapshots the exposure of the collators chosen for era now.
// It returns the number of collators, the number of counted nominations and the total exposure.
func (s *Staker) selectTopCandidates(now uint32) (uint32, uint32, *big.Int, error) {
	selected, err := s.computeTopCandidates()
	if err != nil {
		return 0, 0, nil, err
	}
	if len(selected) == 0 {
		return s.keepPreviousSelection(now)
	}

	var (
		nominationCount uint32
		total           = new(big.Int)
	)
	for _, acc := range selected {
		ledger, err := s.candidateService.GetLedger(acc)
		if err != nil {
			return 0, 0, nil, err
		}
		queue, err := s.requestService.Get(acc)
		if err != nil {
			return 0, 0, nil, err
		}

		uncounted := new(big.Int)
		noms := make([]orderedset.Bond, 0, ledger.Top.Len())
		for _, b := range ledger.Top.Nominations {
			left, pending := queue.Adjust(b.Owner, b.Amount)
			if pending {
				logger.Warn("pending nomination request not counted for rewards",
					"collator", acc, "nominator", b.Owner, "era", now)
				uncounted.Add(uncounted, new(big.Int).Sub(b.Amount, left))
			}
			noms = append(noms, orderedset.NewBond(b.Owner, left))
		}

		snap := &rewards.CollatorSnapshot{
			Bond:        new(big.Int).Set(ledger.Info.Bond),
			Nominations: noms,
			Total:       saturatingSub(ledger.Info.TotalCounted, uncounted),
		}
		if err := s.rewardService.SetAtStake(now, acc, snap); err != nil {
			return 0, 0, nil, err
		}
		nominationCount += uint32(len(noms))
		total.Add(total, ledger.Info.TotalCounted)
		s.emit(CollatorChosen{Era: now, CollatorAccount: acc, TotalExposedAmount: new(big.Int).Set(ledger.Info.TotalCounted)})
	}
	if err := s.eraService.SetSelected(selected); err != nil {
		return 0, 0, nil, err
	}
	return uint32(len(selected)), nominationCount, total, nil
}

// keepPreviousSelection carries the previous era's snapshots over when nobody qualifies.
func (s *Staker) keepPreviousSelection(now uint32) (uint32, uint32, *big.Int, error) {
	selected, err := s.eraService.Selected()
	if err != nil {
		return 0, 0, nil, err
	}
	var (
		count           uint32
		nominationCount uint32
		total           = new(big.Int)
	)
	for _, acc := range selected {
		if now == 0 {
			break
		}
		prev, err := s.rewardService.AtStake(now-1, acc)
		if err != nil {
			return 0, 0, nil, err
		}
		if prev == nil {
			continue
		}
		if err := s.rewardService.SetAtStake(now, acc, prev.Clone()); err != nil {
			return 0, 0, nil, err
		}
		count++
		nominationCount += uint32(len(prev.Nominations))
		total.Add(total, prev.Total)
		s.emit(CollatorChosen{Era: now, CollatorAccount: acc, TotalExposedAmount: new(big.Int).Set(prev.Total)})
	}
	return count, nominationCount, total, nil
}
