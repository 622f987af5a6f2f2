// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/vechain/parastaking/builtin/staker/candidate"
	"github.com/vechain/parastaking/builtin/staker/nomination"
	"github.com/vechain/parastaking/builtin/staker/orderedset"
	"github.com/vechain/parastaking/builtin/staker/reverts"
	"github.com/vechain/parastaking/thor"
)

// JoinCandidates registers acc as a collator candidate bonding bond.
// candidateCount must be at least the current pool size.
func (s *Staker) JoinCandidates(acc thor.Address, bond *big.Int, candidateCount uint32) error {
	logger.Debug("joining candidates", "account", acc, "bond", bond, "candidateCount", candidateCount)
	if err := s.call("join_candidates", func() error {
		return s.joinCandidates(acc, bond, candidateCount)
	}); err != nil {
		logger.Info("join candidates failed", "account", acc, "error", err)
		return err
	}
	logger.Info("joined candidates", "account", acc, "bond", bond)
	return nil
}

func (s *Staker) joinCandidates(acc thor.Address, bond *big.Int, candidateCount uint32) error {
	if err := checkAmount(bond); err != nil {
		return err
	}
	if exists, err := s.candidateService.Exists(acc); err != nil {
		return err
	} else if exists {
		return reverts.ErrCandidateExists
	}
	if exists, err := s.nominatorService.Exists(acc); err != nil {
		return err
	} else if exists {
		return reverts.ErrNominatorExists
	}
	if bond.Cmp(new(big.Int).SetUint64(thor.MinCandidateStk())) < 0 {
		return reverts.ErrCandidateBondBelowMin
	}
	pool, err := s.candidateService.Pool()
	if err != nil {
		return err
	}
	if uint32(len(pool)) > candidateCount {
		return reverts.ErrTooLowCandidateCountWeightHintJoinCandidates
	}
	if !pool.Insert(orderedset.NewBond(acc, bond)) {
		return reverts.ErrCandidateExists
	}
	if err := s.candidateService.SetPool(pool); err != nil {
		return err
	}
	if err := s.ensureStakable(acc, bond); err != nil {
		return err
	}
	if err := s.setLock(acc, bond); err != nil {
		return err
	}

	ledger := &candidate.Ledger{
		Info:   candidate.NewCandidate(bond),
		Top:    nomination.NewNominations(),
		Bottom: nomination.NewNominations(),
	}
	if err := s.candidateService.SetLedger(acc, ledger); err != nil {
		return err
	}
	if err := s.globalStatsService.Lock(bond); err != nil {
		return err
	}
	total, err := s.globalStatsService.Total()
	if err != nil {
		return err
	}
	s.emit(JoinedCollatorCandidates{
		Account:           acc,
		AmountLocked:      new(big.Int).Set(bond),
		NewTotalAmtLocked: total,
	})
	return nil
}

// ScheduleLeaveCandidates requests acc to leave the candidate set. The candidate
// is removed from the pool immediately and may exit after LeaveCandidatesDelay eras.
func (s *Staker) ScheduleLeaveCandidates(acc thor.Address, candidateCount uint32) error {
	logger.Debug("scheduling leave candidates", "account", acc, "candidateCount", candidateCount)
	if err := s.call("schedule_leave_candidates", func() error {
		return s.scheduleLeaveCandidates(acc, candidateCount)
	}); err != nil {
		logger.Info("schedule leave candidates failed", "account", acc, "error", err)
		return err
	}
	logger.Info("scheduled leave candidates", "account", acc)
	return nil
}

func (s *Staker) scheduleLeaveCandidates(acc thor.Address, candidateCount uint32) error {
	info, err := s.candidateService.GetExisting(acc)
	if err != nil {
		return err
	}
	now, err := s.currentEra()
	if err != nil {
		return err
	}
	when, err := info.ScheduleLeave(now)
	if err != nil {
		return err
	}
	pool, err := s.candidateService.Pool()
	if err != nil {
		return err
	}
	if uint32(len(pool)) > candidateCount {
		return reverts.ErrTooLowCandidateCountToLeaveCandidates
	}
	if _, ok := pool.Remove(acc); ok {
		if err := s.candidateService.SetPool(pool); err != nil {
			return err
		}
	}
	if err := s.candidateService.Set(acc, info); err != nil {
		return err
	}
	s.emit(CandidateScheduledExit{ExitAllowedEra: now, Candidate: acc, ScheduledExit: when})
	return nil
}

// ExecuteLeaveCandidates removes a leaving candidate whose exit era has come,
// returning the self bond and every nomination to their owners. Callable by anyone.
func (s *Staker) ExecuteLeaveCandidates(cand thor.Address, nominationCount uint32) error {
	logger.Debug("executing leave candidates", "candidate", cand, "nominationCount", nominationCount)
	if err := s.call("execute_leave_candidates", func() error {
		return s.executeLeaveCandidates(cand, nominationCount)
	}); err != nil {
		logger.Info("execute leave candidates failed", "candidate", cand, "error", err)
		return err
	}
	logger.Info("executed leave candidates", "candidate", cand)
	return nil
}

func (s *Staker) executeLeaveCandidates(cand thor.Address, nominationCount uint32) error {
	ledger, err := s.candidateService.GetLedger(cand)
	if err != nil {
		return err
	}
	if ledger.Info.NominationCount > nominationCount {
		return reverts.ErrTooLowCandidateNominationCountToLeaveCandidates
	}
	now, err := s.currentEra()
	if err != nil {
		return err
	}
	if err := ledger.Info.CanLeave(now); err != nil {
		return err
	}
	queue, err := s.requestService.Get(cand)
	if err != nil {
		return err
	}

	returnStake := func(b nomination.Bond) error {
		n, err := s.nominatorService.Get(b.Owner)
		if err != nil {
			return err
		}
		if n == nil {
			logger.Error("nomination without nominator state", "nominator", b.Owner, "candidate", cand)
			return s.removeLock(b.Owner)
		}
		if _, ok := n.RmNomination(cand); !ok {
			logger.Error("nominator state misses nomination", "nominator", b.Owner, "candidate", cand)
		}
		if r, ok := queue.Remove(b.Owner); ok {
			n.SubLessTotal(r.Amount)
		}
		if n.Count() == 0 {
			s.nominatorService.Delete(b.Owner)
			return s.removeLock(b.Owner)
		}
		if err := s.nominatorService.Set(n); err != nil {
			return err
		}
		return s.setLock(b.Owner, n.Total)
	}

	totalBacking := new(big.Int).Set(ledger.Info.Bond)
	for _, b := range ledger.Top.Nominations {
		if err := returnStake(b); err != nil {
			return err
		}
	}
	totalBacking.Add(totalBacking, ledger.Top.Total)
	for _, b := range ledger.Bottom.Nominations {
		if err := returnStake(b); err != nil {
			return err
		}
	}
	totalBacking.Add(totalBacking, ledger.Bottom.Total)

	if err := s.removeLock(cand); err != nil {
		return err
	}
	s.candidateService.Delete(cand)
	s.requestService.Delete(cand)
	if err := s.candidateService.RemovePool(cand); err != nil {
		return err
	}
	if err := s.globalStatsService.Unlock(totalBacking); err != nil {
		return err
	}
	total, err := s.globalStatsService.Total()
	if err != nil {
		return err
	}
	s.emit(CandidateLeft{ExCandidate: cand, UnlockedAmount: totalBacking, NewTotalAmtLocked: total})
	return nil
}

// CancelLeaveCandidates returns a leaving candidate to the pool.
func (s *Staker) CancelLeaveCandidates(acc thor.Address, candidateCount uint32) error {
	logger.Debug("cancelling leave candidates", "account", acc, "candidateCount", candidateCount)
	if err := s.call("cancel_leave_candidates", func() error {
		return s.cancelLeaveCandidates(acc, candidateCount)
	}); err != nil {
		logger.Info("cancel leave candidates failed", "account", acc, "error", err)
		return err
	}
	logger.Info("cancelled leave candidates", "account", acc)
	return nil
}

func (s *Staker) cancelLeaveCandidates(acc thor.Address, candidateCount uint32) error {
	info, err := s.candidateService.GetExisting(acc)
	if err != nil {
		return err
	}
	if err := info.CancelLeave(); err != nil {
		return err
	}
	pool, err := s.candidateService.Pool()
	if err != nil {
		return err
	}
	if uint32(len(pool)) > candidateCount {
		return reverts.ErrTooLowCandidateCountWeightHintCancelLeaveCandidates
	}
	if !pool.Insert(orderedset.NewBond(acc, info.TotalCounted)) {
		return reverts.ErrAlreadyActive
	}
	if err := s.candidateService.SetPool(pool); err != nil {
		return err
	}
	if err := s.candidateService.Set(acc, info); err != nil {
		return err
	}
	s.emit(CancelledCandidateExit{Candidate: acc})
	return nil
}

// GoOffline makes an active candidate idle. It keeps its bond but is not selectable.
func (s *Staker) GoOffline(acc thor.Address) error {
	logger.Debug("going offline", "account", acc)
	if err := s.call("go_offline", func() error {
		info, err := s.candidateService.GetExisting(acc)
		if err != nil {
			return err
		}
		if err := info.GoOffline(); err != nil {
			return err
		}
		if err := s.candidateService.RemovePool(acc); err != nil {
			return err
		}
		if err := s.candidateService.Set(acc, info); err != nil {
			return err
		}
		s.emit(CandidateWentOffline{Candidate: acc})
		return nil
	}); err != nil {
		logger.Info("go offline failed", "account", acc, "error", err)
		return err
	}
	logger.Info("went offline", "account", acc)
	return nil
}

// GoOnline returns an idle candidate to the pool.
func (s *Staker) GoOnline(acc thor.Address) error {
	logger.Debug("going online", "account", acc)
	if err := s.call("go_online", func() error {
		info, err := s.candidateService.GetExisting(acc)
		if err != nil {
			return err
		}
		if err := info.GoOnline(); err != nil {
			return err
		}
		inserted, err := s.candidateService.InsertPool(acc, info.TotalCounted)
		if err != nil {
			return err
		}
		if !inserted {
			return reverts.ErrAlreadyActive
		}
		if err := s.candidateService.Set(acc, info); err != nil {
			return err
		}
		s.emit(CandidateBackOnline{Candidate: acc})
		return nil
	}); err != nil {
		logger.Info("go online failed", "account", acc, "error", err)
		return err
	}
	logger.Info("went online", "account", acc)
	return nil
}

// CandidateBondMore increases the self bond immediately.
func (s *Staker) CandidateBondMore(acc thor.Address, more *big.Int) error {
	logger.Debug("candidate bonding more", "account", acc, "more", more)
	if err := s.call("candidate_bond_more", func() error {
		if err := checkAmount(more); err != nil {
			return err
		}
		info, err := s.candidateService.GetExisting(acc)
		if err != nil {
			return err
		}
		if err := s.ensureStakable(acc, more); err != nil {
			return err
		}
		info.BondMore(more)
		if err := s.globalStatsService.Lock(more); err != nil {
			return err
		}
		if err := s.setLock(acc, info.Bond); err != nil {
			return err
		}
		if err := s.candidateService.Set(acc, info); err != nil {
			return err
		}
		if info.IsActive() {
			if err := s.candidateService.UpdatePool(acc, info.TotalCounted); err != nil {
				return err
			}
		}
		s.emit(CandidateBondedMore{Candidate: acc, Amount: new(big.Int).Set(more), NewTotalBond: new(big.Int).Set(info.Bond)})
		return nil
	}); err != nil {
		logger.Info("candidate bond more failed", "account", acc, "error", err)
		return err
	}
	logger.Info("candidate bonded more", "account", acc)
	return nil
}

// ScheduleCandidateBondLess requests a self bond decrease, executable after CandidateBondLessDelay eras.
func (s *Staker) ScheduleCandidateBondLess(acc thor.Address, less *big.Int) error {
	logger.Debug("scheduling candidate bond less", "account", acc, "less", less)
	if err := s.call("schedule_candidate_bond_less", func() error {
		if err := checkAmount(less); err != nil {
			return err
		}
		info, err := s.candidateService.GetExisting(acc)
		if err != nil {
			return err
		}
		now, err := s.currentEra()
		if err != nil {
			return err
		}
		when, err := info.ScheduleBondLess(less, now)
		if err != nil {
			return err
		}
		if err := s.candidateService.Set(acc, info); err != nil {
			return err
		}
		s.emit(CandidateBondLessRequested{Candidate: acc, AmountToDecrease: new(big.Int).Set(less), ExecuteEra: when})
		return nil
	}); err != nil {
		logger.Info("schedule candidate bond less failed", "account", acc, "error", err)
		return err
	}
	logger.Info("scheduled candidate bond less", "account", acc)
	return nil
}

// ExecuteCandidateBondLess applies a due self bond decrease. Callable by anyone.
func (s *Staker) ExecuteCandidateBondLess(cand thor.Address) error {
	logger.Debug("executing candidate bond less", "candidate", cand)
	if err := s.call("execute_candidate_bond_less", func() error {
		info, err := s.candidateService.GetExisting(cand)
		if err != nil {
			return err
		}
		now, err := s.currentEra()
		if err != nil {
			return err
		}
		amount, err := info.ExecuteBondLess(now)
		if err != nil {
			return err
		}
		if err := s.globalStatsService.Unlock(amount); err != nil {
			return err
		}
		if err := s.setLock(cand, info.Bond); err != nil {
			return err
		}
		if err := s.candidateService.Set(cand, info); err != nil {
			return err
		}
		if info.IsActive() {
			if err := s.candidateService.UpdatePool(cand, info.TotalCounted); err != nil {
				return err
			}
		}
		s.emit(CandidateBondedLess{Candidate: cand, Amount: amount, NewBond: new(big.Int).Set(info.Bond)})
		return nil
	}); err != nil {
		logger.Info("execute candidate bond less failed", "candidate", cand, "error", err)
		return err
	}
	logger.Info("executed candidate bond less", "candidate", cand)
	return nil
}

// CancelCandidateBondLess drops the pending self bond decrease.
func (s *Staker) CancelCandidateBondLess(acc thor.Address) error {
	logger.Debug("cancelling candidate bond less", "account", acc)
	if err := s.call("cancel_candidate_bond_less", func() error {
		info, err := s.candidateService.GetExisting(acc)
		if err != nil {
			return err
		}
		req, err := info.CancelBondLess()
		if err != nil {
			return err
		}
		if err := s.candidateService.Set(acc, info); err != nil {
			return err
		}
		s.emit(CancelledCandidateBondLess{Candidate: acc, Amount: req.Amount, ExecuteEra: req.WhenExecutable})
		return nil
	}); err != nil {
		logger.Info("cancel candidate bond less failed", "account", acc, "error", err)
		return err
	}
	logger.Info("cancelled candidate bond less", "account", acc)
	return nil
}
