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
	"github.com/vechain/parastaking/builtin/staker/requests"
	"github.com/vechain/parastaking/builtin/staker/reverts"
	"github.com/vechain/parastaking/thor"
)

// Nominate backs cand with amount from nominator. candidateNominationCount must be at least
// the candidate's nomination count and nominationCount at least the nominator's.
func (s *Staker) Nominate(
	nominator thor.Address,
	cand thor.Address,
	amount *big.Int,
	candidateNominationCount uint32,
	nominationCount uint32,
) error {
	logger.Debug("nominating", "nominator", nominator, "candidate", cand, "amount", amount,
		"candidateNominationCount", candidateNominationCount, "nominationCount", nominationCount)
	if err := s.call("nominate", func() error {
		return s.nominate(nominator, cand, amount, candidateNominationCount, nominationCount)
	}); err != nil {
		logger.Info("nominate failed", "nominator", nominator, "candidate", cand, "error", err)
		return err
	}
	logger.Info("nominated", "nominator", nominator, "candidate", cand, "amount", amount)
	return nil
}

func (s *Staker) nominate(
	nominator thor.Address,
	cand thor.Address,
	amount *big.Int,
	candidateNominationCount uint32,
	nominationCount uint32,
) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if err := s.ensureStakable(nominator, amount); err != nil {
		return err
	}

	state, err := s.nominatorService.Get(nominator)
	if err != nil {
		return err
	}
	if state != nil {
		if amount.Cmp(new(big.Int).SetUint64(thor.MinNomination())) < 0 {
			return reverts.ErrNominationBelowMin
		}
		count := uint32(state.Count())
		if count > nominationCount {
			return reverts.ErrTooLowNominationCountToNominate
		}
		if count >= thor.MaxNominationsPerNominator() {
			return reverts.ErrExceedMaxNominationsPerNominator
		}
		if !state.AddNomination(orderedset.NewBond(cand, amount)) {
			return reverts.ErrAlreadyNominatedCandidate
		}
	} else {
		if amount.Cmp(new(big.Int).SetUint64(thor.MinNominatorStk())) < 0 {
			return reverts.ErrNominatorBondBelowMin
		}
		if isCandidate, err := s.candidateService.Exists(nominator); err != nil {
			return err
		} else if isCandidate {
			return reverts.ErrCandidateExists
		}
		state = nomination.NewNominator(nominator, cand, amount)
	}

	ledger, err := s.candidateService.GetLedger(cand)
	if err != nil {
		return err
	}
	if ledger.Info.NominationCount > candidateNominationCount {
		return reverts.ErrTooLowCandidateNominationCountToNominate
	}
	before := new(big.Int).Set(ledger.Info.TotalCounted)
	added, err := ledger.AddNomination(orderedset.NewBond(nominator, amount))
	if err != nil {
		return err
	}
	if added.Kicked != nil {
		if err := s.kickNomination(cand, *added.Kicked); err != nil {
			return err
		}
		if err := s.globalStatsService.Unlock(added.Kicked.Amount); err != nil {
			return err
		}
	}
	if err := s.saveLedger(cand, ledger, before); err != nil {
		return err
	}
	if err := s.globalStatsService.Lock(amount); err != nil {
		return err
	}
	if err := s.setLock(nominator, state.Total); err != nil {
		return err
	}
	if err := s.nominatorService.Set(state); err != nil {
		return err
	}

	ev := Nomination{
		Nominator:         nominator,
		LockedAmount:      new(big.Int).Set(amount),
		Candidate:         cand,
		NominatorPosition: added.Position,
	}
	if added.Position == candidate.AddedToTop {
		ev.NewTotal = new(big.Int).Set(ledger.Info.TotalCounted)
	}
	s.emit(ev)
	return nil
}

// kickNomination returns the stake of a nomination evicted from a full bottom list.
func (s *Staker) kickNomination(cand thor.Address, kicked nomination.Bond) error {
	state, err := s.nominatorService.Get(kicked.Owner)
	if err != nil {
		return err
	}
	if state == nil {
		logger.Error("kicked nomination without nominator state", "nominator", kicked.Owner, "candidate", cand)
		return s.removeLock(kicked.Owner)
	}
	leaving := state.Count() == 1
	state.RmNomination(cand)
	if err := s.dropRequest(cand, state); err != nil {
		return err
	}
	s.emit(NominationKicked{Nominator: kicked.Owner, Candidate: cand, UnstakedAmount: new(big.Int).Set(kicked.Amount)})

	if leaving {
		s.nominatorService.Delete(kicked.Owner)
		if err := s.removeLock(kicked.Owner); err != nil {
			return err
		}
		s.emit(NominatorLeft{Nominator: kicked.Owner, UnstakedAmount: new(big.Int).Set(kicked.Amount)})
		return nil
	}
	if err := s.nominatorService.Set(state); err != nil {
		return err
	}
	return s.setLock(kicked.Owner, state.Total)
}

// dropRequest removes the nominator's pending request against cand, if any.
func (s *Staker) dropRequest(cand thor.Address, state *nomination.Nominator) error {
	queue, err := s.requestService.Get(cand)
	if err != nil {
		return err
	}
	r, ok := queue.Remove(state.ID)
	if !ok {
		return nil
	}
	state.SubLessTotal(r.Amount)
	return s.requestService.Set(cand, queue)
}

// saveLedger stores a candidate ledger and moves it in the pool when its counted total changed.
func (s *Staker) saveLedger(cand thor.Address, ledger *candidate.Ledger, before *big.Int) error {
	if err := s.candidateService.SetLedger(cand, ledger); err != nil {
		return err
	}
	if ledger.Info.IsActive() && ledger.Info.TotalCounted.Cmp(before) != 0 {
		return s.candidateService.UpdatePool(cand, ledger.Info.TotalCounted)
	}
	return nil
}

// nominatorLeavesCandidate removes a nomination from the candidate side.
func (s *Staker) nominatorLeavesCandidate(cand, nominator thor.Address, amount *big.Int) error {
	ledger, err := s.candidateService.GetLedger(cand)
	if err != nil {
		return err
	}
	before := new(big.Int).Set(ledger.Info.TotalCounted)
	if _, err := ledger.RemoveNomination(nominator); err != nil {
		return err
	}
	if err := s.saveLedger(cand, ledger, before); err != nil {
		return err
	}
	if err := s.globalStatsService.Unlock(amount); err != nil {
		return err
	}
	s.emit(NominatorLeftCandidate{
		Nominator:            nominator,
		Candidate:            cand,
		UnstakedAmount:       new(big.Int).Set(amount),
		TotalCandidateStaked: new(big.Int).Set(ledger.Info.TotalCounted),
	})
	return nil
}

func (s *Staker) getExistingNominator(id thor.Address) (*nomination.Nominator, error) {
	state, err := s.nominatorService.Get(id)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, reverts.ErrNominatorDNE
	}
	return state, nil
}

// ScheduleRevokeNomination requests the removal of the nomination to cand,
// executable after RevokeNominationDelay eras.
func (s *Staker) ScheduleRevokeNomination(nominator, cand thor.Address) error {
	logger.Debug("scheduling revoke nomination", "nominator", nominator, "candidate", cand)
	if err := s.call("schedule_revoke_nomination", func() error {
		state, err := s.getExistingNominator(nominator)
		if err != nil {
			return err
		}
		queue, err := s.requestService.Get(cand)
		if err != nil {
			return err
		}
		if queue.Find(nominator) >= 0 {
			return reverts.ErrPendingNominationRequestAlreadyExists
		}
		amount, ok := state.Amount(cand)
		if !ok {
			return reverts.ErrNominationDNE
		}
		now, err := s.currentEra()
		if err != nil {
			return err
		}
		when := now + thor.RevokeNominationDelay()
		queue.Push(requests.ScheduledRequest{
			Nominator:      nominator,
			WhenExecutable: when,
			Action:         requests.ActionRevoke,
			Amount:         amount,
		})
		state.AddLessTotal(amount)
		if err := s.requestService.Set(cand, queue); err != nil {
			return err
		}
		if err := s.nominatorService.Set(state); err != nil {
			return err
		}
		s.emit(NominationRevocationScheduled{Era: now, Nominator: nominator, Candidate: cand, ScheduledExit: when})
		return nil
	}); err != nil {
		logger.Info("schedule revoke nomination failed", "nominator", nominator, "candidate", cand, "error", err)
		return err
	}
	logger.Info("scheduled revoke nomination", "nominator", nominator, "candidate", cand)
	return nil
}

// ScheduleNominatorBondLess requests a decrease of the nomination to cand,
// executable after NominationBondLessDelay eras.
func (s *Staker) ScheduleNominatorBondLess(nominator, cand thor.Address, less *big.Int) error {
	logger.Debug("scheduling nominator bond less", "nominator", nominator, "candidate", cand, "less", less)
	if err := s.call("schedule_nominator_bond_less", func() error {
		return s.scheduleNominatorBondLess(nominator, cand, less)
	}); err != nil {
		logger.Info("schedule nominator bond less failed", "nominator", nominator, "candidate", cand, "error", err)
		return err
	}
	logger.Info("scheduled nominator bond less", "nominator", nominator, "candidate", cand)
	return nil
}

func (s *Staker) scheduleNominatorBondLess(nominator, cand thor.Address, less *big.Int) error {
	if err := checkAmount(less); err != nil {
		return err
	}
	state, err := s.getExistingNominator(nominator)
	if err != nil {
		return err
	}
	queue, err := s.requestService.Get(cand)
	if err != nil {
		return err
	}
	if queue.Find(nominator) >= 0 {
		return reverts.ErrPendingNominationRequestAlreadyExists
	}
	bond, ok := state.Amount(cand)
	if !ok {
		return reverts.ErrNominationDNE
	}
	if less.Cmp(bond) >= 0 {
		return reverts.ErrNominatorBondBelowMin
	}
	if new(big.Int).Sub(bond, less).Cmp(new(big.Int).SetUint64(thor.MinNomination())) < 0 {
		return reverts.ErrNominationBelowMin
	}
	net := saturatingSub(state.Total, state.LessTotal)
	maxLess := saturatingSub(net, new(big.Int).SetUint64(thor.MinNominatorStk()))
	if less.Cmp(maxLess) > 0 {
		return reverts.ErrNominatorBondBelowMin
	}

	now, err := s.currentEra()
	if err != nil {
		return err
	}
	when := now + thor.NominationBondLessDelay()
	queue.Push(requests.ScheduledRequest{
		Nominator:      nominator,
		WhenExecutable: when,
		Action:         requests.ActionDecrease,
		Amount:         new(big.Int).Set(less),
	})
	state.AddLessTotal(less)
	if err := s.requestService.Set(cand, queue); err != nil {
		return err
	}
	if err := s.nominatorService.Set(state); err != nil {
		return err
	}
	s.emit(NominationDecreaseScheduled{
		Nominator:        nominator,
		Candidate:        cand,
		AmountToDecrease: new(big.Int).Set(less),
		ExecuteEra:       when,
	})
	return nil
}

// ExecuteNominationRequest applies a due revoke or decrease. Callable by anyone.
func (s *Staker) ExecuteNominationRequest(nominator, cand thor.Address) error {
	logger.Debug("executing nomination request", "nominator", nominator, "candidate", cand)
	if err := s.call("execute_nomination_request", func() error {
		return s.executeNominationRequest(nominator, cand)
	}); err != nil {
		logger.Info("execute nomination request failed", "nominator", nominator, "candidate", cand, "error", err)
		return err
	}
	logger.Info("executed nomination request", "nominator", nominator, "candidate", cand)
	return nil
}

func (s *Staker) executeNominationRequest(nominator, cand thor.Address) error {
	state, err := s.getExistingNominator(nominator)
	if err != nil {
		return err
	}
	queue, err := s.requestService.Get(cand)
	if err != nil {
		return err
	}
	req, ok := queue.Get(nominator)
	if !ok {
		return reverts.ErrPendingNominationRequestDNE
	}
	now, err := s.currentEra()
	if err != nil {
		return err
	}
	if req.WhenExecutable > now {
		return reverts.ErrPendingNominationRequestNotDueYet
	}

	if req.IsRevoke() {
		return s.executeRevoke(state, cand, queue, req)
	}
	return s.executeDecrease(state, cand, queue, req)
}

func (s *Staker) executeRevoke(state *nomination.Nominator, cand thor.Address, queue requests.Requests, req requests.ScheduledRequest) error {
	leaving := state.Count() == 1
	if !leaving {
		spare := saturatingSub(state.Total, new(big.Int).SetUint64(thor.MinNominatorStk()))
		if spare.Cmp(req.Amount) < 0 {
			return reverts.ErrNominatorBondBelowMin
		}
	}
	queue.Remove(state.ID)
	state.SubLessTotal(req.Amount)
	amount, ok := state.RmNomination(cand)
	if !ok {
		return reverts.ErrNominationDNE
	}
	if err := s.nominatorLeavesCandidate(cand, state.ID, amount); err != nil {
		return err
	}
	s.emit(NominationRevoked{Nominator: state.ID, Candidate: cand, UnstakedAmount: new(big.Int).Set(amount)})
	if err := s.requestService.Set(cand, queue); err != nil {
		return err
	}

	if leaving {
		s.nominatorService.Delete(state.ID)
		if err := s.removeLock(state.ID); err != nil {
			return err
		}
		s.emit(NominatorLeft{Nominator: state.ID, UnstakedAmount: new(big.Int).Set(amount)})
		return nil
	}
	if err := s.nominatorService.Set(state); err != nil {
		return err
	}
	return s.setLock(state.ID, state.Total)
}

func (s *Staker) executeDecrease(state *nomination.Nominator, cand thor.Address, queue requests.Requests, req requests.ScheduledRequest) error {
	queue.Remove(state.ID)
	state.SubLessTotal(req.Amount)
	bond, ok := state.Amount(cand)
	if !ok {
		return reverts.ErrNominationDNE
	}
	if bond.Cmp(req.Amount) <= 0 {
		return reverts.ErrNominationBelowMin
	}
	state.Decrease(cand, req.Amount)
	if state.Total.Cmp(new(big.Int).SetUint64(thor.MinNomination())) < 0 {
		return reverts.ErrNominationBelowMin
	}
	if state.Total.Cmp(new(big.Int).SetUint64(thor.MinNominatorStk())) < 0 {
		return reverts.ErrNominatorBondBelowMin
	}

	ledger, err := s.candidateService.GetLedger(cand)
	if err != nil {
		return err
	}
	before := new(big.Int).Set(ledger.Info.TotalCounted)
	inTop, err := ledger.DecreaseNomination(state.ID, req.Amount)
	if err != nil {
		return err
	}
	if err := s.saveLedger(cand, ledger, before); err != nil {
		return err
	}
	if err := s.globalStatsService.Unlock(req.Amount); err != nil {
		return err
	}
	if err := s.requestService.Set(cand, queue); err != nil {
		return err
	}
	if err := s.nominatorService.Set(state); err != nil {
		return err
	}
	if err := s.setLock(state.ID, state.Total); err != nil {
		return err
	}
	s.emit(NominationDecreased{Nominator: state.ID, Candidate: cand, Amount: new(big.Int).Set(req.Amount), InTop: inTop})
	return nil
}

// CancelNominationRequest drops the pending request of nominator against cand.
func (s *Staker) CancelNominationRequest(nominator, cand thor.Address) error {
	logger.Debug("cancelling nomination request", "nominator", nominator, "candidate", cand)
	if err := s.call("cancel_nomination_request", func() error {
		state, err := s.getExistingNominator(nominator)
		if err != nil {
			return err
		}
		queue, err := s.requestService.Get(cand)
		if err != nil {
			return err
		}
		req, ok := queue.Remove(nominator)
		if !ok {
			return reverts.ErrPendingNominationRequestDNE
		}
		state.SubLessTotal(req.Amount)
		if err := s.requestService.Set(cand, queue); err != nil {
			return err
		}
		if err := s.nominatorService.Set(state); err != nil {
			return err
		}
		s.emit(CancelledNominationRequest{Nominator: nominator, Collator: cand, CancelledRequest: req})
		return nil
	}); err != nil {
		logger.Info("cancel nomination request failed", "nominator", nominator, "candidate", cand, "error", err)
		return err
	}
	logger.Info("cancelled nomination request", "nominator", nominator, "candidate", cand)
	return nil
}

// NominatorBondMore increases the nomination to cand immediately.
func (s *Staker) NominatorBondMore(nominator, cand thor.Address, more *big.Int) error {
	logger.Debug("nominator bonding more", "nominator", nominator, "candidate", cand, "more", more)
	if err := s.call("nominator_bond_more", func() error {
		return s.nominatorBondMore(nominator, cand, more)
	}); err != nil {
		logger.Info("nominator bond more failed", "nominator", nominator, "candidate", cand, "error", err)
		return err
	}
	logger.Info("nominator bonded more", "nominator", nominator, "candidate", cand)
	return nil
}

func (s *Staker) nominatorBondMore(nominator, cand thor.Address, more *big.Int) error {
	if err := checkAmount(more); err != nil {
		return err
	}
	queue, err := s.requestService.Get(cand)
	if err != nil {
		return err
	}
	if req, ok := queue.Get(nominator); ok && req.IsRevoke() {
		return reverts.ErrPendingNominationRevoke
	}
	state, err := s.getExistingNominator(nominator)
	if err != nil {
		return err
	}
	if err := s.ensureStakable(nominator, more); err != nil {
		return err
	}
	if !state.Increase(cand, more) {
		return reverts.ErrNominationDNE
	}

	ledger, err := s.candidateService.GetLedger(cand)
	if err != nil {
		return err
	}
	before := new(big.Int).Set(ledger.Info.TotalCounted)
	inTop, err := ledger.IncreaseNomination(nominator, more)
	if err != nil {
		return err
	}
	if err := s.saveLedger(cand, ledger, before); err != nil {
		return err
	}
	if err := s.globalStatsService.Lock(more); err != nil {
		return err
	}
	if err := s.nominatorService.Set(state); err != nil {
		return err
	}
	if err := s.setLock(nominator, state.Total); err != nil {
		return err
	}
	s.emit(NominationIncreased{Nominator: nominator, Candidate: cand, Amount: new(big.Int).Set(more), InTop: inTop})
	return nil
}

//
// Deprecated leave-nominators entry points, composed over per-candidate revoke requests.
//

// ScheduleLeaveNominators schedules a revoke of every nomination of nominator.
// Pending decreases are replaced; pending revokes are kept.
//
// Deprecated: schedule a revoke per candidate with ScheduleRevokeNomination.
func (s *Staker) ScheduleLeaveNominators(nominator thor.Address) error {
	logger.Debug("scheduling leave nominators", "nominator", nominator)
	if err := s.call("schedule_leave_nominators", func() error {
		return s.scheduleLeaveNominators(nominator)
	}); err != nil {
		logger.Info("schedule leave nominators failed", "nominator", nominator, "error", err)
		return err
	}
	logger.Info("scheduled leave nominators", "nominator", nominator)
	return nil
}

type queueUpdate struct {
	candidate thor.Address
	queue     requests.Requests
}

func (s *Staker) scheduleLeaveNominators(nominator thor.Address) error {
	state, err := s.getExistingNominator(nominator)
	if err != nil {
		return err
	}
	now, err := s.currentEra()
	if err != nil {
		return err
	}
	when := now + thor.LeaveNominatorsDelay()

	existingRevokes := 0
	updates := make([]queueUpdate, 0, state.Count())
	for _, b := range state.Nominations {
		queue, err := s.requestService.Get(b.Owner)
		if err != nil {
			return err
		}
		req := requests.ScheduledRequest{
			Nominator:      nominator,
			WhenExecutable: when,
			Action:         requests.ActionRevoke,
			Amount:         new(big.Int).Set(b.Amount),
		}
		if existing, ok := queue.Remove(nominator); ok {
			state.SubLessTotal(existing.Amount)
			if existing.IsRevoke() {
				existingRevokes++
				req = existing
			}
		}
		queue.Push(req)
		state.AddLessTotal(b.Amount)
		updates = append(updates, queueUpdate{candidate: b.Owner, queue: queue})
	}
	if existingRevokes == state.Count() {
		return reverts.ErrNominatorAlreadyLeaving
	}

	for _, u := range updates {
		if err := s.requestService.Set(u.candidate, u.queue); err != nil {
			return err
		}
	}
	if err := s.nominatorService.Set(state); err != nil {
		return err
	}
	s.emit(NominatorExitScheduled{Era: now, Nominator: nominator, ScheduledExit: when})
	return nil
}

// CancelLeaveNominators cancels the revoke of every nomination of nominator.
//
// Deprecated: cancel per candidate with CancelNominationRequest.
func (s *Staker) CancelLeaveNominators(nominator thor.Address) error {
	logger.Debug("cancelling leave nominators", "nominator", nominator)
	if err := s.call("cancel_leave_nominators", func() error {
		state, err := s.getExistingNominator(nominator)
		if err != nil {
			return err
		}
		updates := make([]queueUpdate, 0, state.Count())
		for _, b := range state.Nominations {
			queue, err := s.requestService.Get(b.Owner)
			if err != nil {
				return err
			}
			if req, ok := queue.Get(nominator); !ok || !req.IsRevoke() {
				return reverts.ErrNominatorNotLeaving
			}
			updates = append(updates, queueUpdate{candidate: b.Owner, queue: queue})
		}
		for _, u := range updates {
			req, _ := u.queue.Remove(nominator)
			state.SubLessTotal(req.Amount)
			if err := s.requestService.Set(u.candidate, u.queue); err != nil {
				return err
			}
		}
		if err := s.nominatorService.Set(state); err != nil {
			return err
		}
		s.emit(NominatorExitCancelled{Nominator: nominator})
		return nil
	}); err != nil {
		logger.Info("cancel leave nominators failed", "nominator", nominator, "error", err)
		return err
	}
	logger.Info("cancelled leave nominators", "nominator", nominator)
	return nil
}

// ExecuteLeaveNominators removes every nomination of nominator once all of them
// carry a due revoke. Callable by anyone.
//
// Deprecated: execute per candidate with ExecuteNominationRequest.
func (s *Staker) ExecuteLeaveNominators(nominator thor.Address, nominationCount uint32) error {
	logger.Debug("executing leave nominators", "nominator", nominator, "nominationCount", nominationCount)
	if err := s.call("execute_leave_nominators", func() error {
		return s.executeLeaveNominators(nominator, nominationCount)
	}); err != nil {
		logger.Info("execute leave nominators failed", "nominator", nominator, "error", err)
		return err
	}
	logger.Info("executed leave nominators", "nominator", nominator)
	return nil
}

func (s *Staker) executeLeaveNominators(nominator thor.Address, nominationCount uint32) error {
	state, err := s.getExistingNominator(nominator)
	if err != nil {
		return err
	}
	if uint32(state.Count()) > nominationCount {
		return reverts.ErrTooLowNominationCountToLeaveNominators
	}
	now, err := s.currentEra()
	if err != nil {
		return err
	}

	updates := make([]queueUpdate, 0, state.Count())
	for _, b := range state.Nominations {
		queue, err := s.requestService.Get(b.Owner)
		if err != nil {
			return err
		}
		req, ok := queue.Get(nominator)
		if !ok || !req.IsRevoke() {
			return reverts.ErrNominatorNotLeaving
		}
		if req.WhenExecutable > now {
			return reverts.ErrNominatorCannotLeaveYet
		}
		updates = append(updates, queueUpdate{candidate: b.Owner, queue: queue})
	}

	for i, b := range state.Nominations {
		if err := s.nominatorLeavesCandidate(b.Owner, nominator, b.Amount); err != nil {
			return err
		}
		updates[i].queue.Remove(nominator)
		if err := s.requestService.Set(b.Owner, updates[i].queue); err != nil {
			return err
		}
	}

	unstaked := new(big.Int).Set(state.Total)
	s.nominatorService.Delete(nominator)
	if err := s.removeLock(nominator); err != nil {
		return err
	}
	s.emit(NominatorLeft{Nominator: nominator, UnstakedAmount: unstaked})
	return nil
}
