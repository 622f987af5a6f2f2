// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"math/big"

	"github.com/vechain/parastaking/builtin/staker/reverts"
	"github.com/vechain/parastaking/thor"
)

type Status uint8

const (
	StatusActive Status = iota
	StatusIdle
	StatusLeaving
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusIdle:
		return "idle"
	case StatusLeaving:
		return "leaving"
	default:
		return "unknown"
	}
}

// Capacity describes how full a nomination list is.
type Capacity uint8

const (
	CapacityEmpty Capacity = iota
	CapacityPartial
	CapacityFull
)

func (c Capacity) String() string {
	switch c {
	case CapacityEmpty:
		return "empty"
	case CapacityPartial:
		return "partial"
	case CapacityFull:
		return "full"
	default:
		return "unknown"
	}
}

func capacityOf(length int, limit uint32) Capacity {
	switch {
	case length == 0:
		return CapacityEmpty
	case uint32(length) >= limit:
		return CapacityFull
	default:
		return CapacityPartial
	}
}

// BondLessRequest is a pending decrease of the self bond.
type BondLessRequest struct {
	Amount         *big.Int
	WhenExecutable uint32
}

// Candidate is the metadata of a collator candidate.
type Candidate struct {
	Bond                          *big.Int
	NominationCount               uint32
	TotalCounted                  *big.Int // self bond plus top nominations
	LowestTopNominationAmount     *big.Int
	HighestBottomNominationAmount *big.Int
	LowestBottomNominationAmount  *big.Int
	TopCapacity                   Capacity
	BottomCapacity                Capacity
	Request                       *BondLessRequest `rlp:"nil"`
	Status                        Status
	ExitEra                       uint32 // set while leaving
}

func NewCandidate(bond *big.Int) *Candidate {
	return &Candidate{
		Bond:                          new(big.Int).Set(bond),
		TotalCounted:                  new(big.Int).Set(bond),
		LowestTopNominationAmount:     new(big.Int),
		HighestBottomNominationAmount: new(big.Int),
		LowestBottomNominationAmount:  new(big.Int),
		TopCapacity:                   CapacityEmpty,
		BottomCapacity:                CapacityEmpty,
		Status:                        StatusActive,
	}
}

func (c *Candidate) IsActive() bool {
	return c.Status == StatusActive
}

func (c *Candidate) IsLeaving() bool {
	return c.Status == StatusLeaving
}

// ScheduleLeave moves the candidate to leaving and returns the exit era.
func (c *Candidate) ScheduleLeave(now uint32) (uint32, error) {
	if c.IsLeaving() {
		return 0, reverts.ErrCandidateAlreadyLeaving
	}
	when := now + thor.LeaveCandidatesDelay()
	c.Status = StatusLeaving
	c.ExitEra = when
	return when, nil
}

// CancelLeave moves a leaving candidate back to active.
func (c *Candidate) CancelLeave() error {
	if !c.IsLeaving() {
		return reverts.ErrCandidateNotLeaving
	}
	c.Status = StatusActive
	c.ExitEra = 0
	return nil
}

// CanLeave checks the exit era has been reached.
func (c *Candidate) CanLeave(now uint32) error {
	if !c.IsLeaving() {
		return reverts.ErrCandidateNotLeaving
	}
	if now < c.ExitEra {
		return reverts.ErrCandidateCannotLeaveYet
	}
	return nil
}

func (c *Candidate) GoOffline() error {
	if !c.IsActive() {
		return reverts.ErrAlreadyOffline
	}
	c.Status = StatusIdle
	return nil
}

func (c *Candidate) GoOnline() error {
	if c.IsActive() {
		return reverts.ErrAlreadyActive
	}
	if c.IsLeaving() {
		return reverts.ErrCannotGoOnlineIfLeaving
	}
	c.Status = StatusActive
	return nil
}

// BondMore raises the self bond. The stakable balance is checked by the caller.
func (c *Candidate) BondMore(more *big.Int) {
	c.Bond = new(big.Int).Add(c.Bond, more)
	c.TotalCounted = new(big.Int).Add(c.TotalCounted, more)
}

// ScheduleBondLess records a self bond decrease executable after the delay.
func (c *Candidate) ScheduleBondLess(less *big.Int, now uint32) (uint32, error) {
	if c.Request != nil {
		return 0, reverts.ErrPendingCandidateRequestAlreadyExists
	}
	if c.Bond.Cmp(less) <= 0 {
		return 0, reverts.ErrCandidateBondBelowMin
	}
	remaining := new(big.Int).Sub(c.Bond, less)
	if remaining.Cmp(new(big.Int).SetUint64(thor.MinCandidateStk())) < 0 {
		return 0, reverts.ErrCandidateBondBelowMin
	}
	when := now + thor.CandidateBondLessDelay()
	c.Request = &BondLessRequest{Amount: new(big.Int).Set(less), WhenExecutable: when}
	return when, nil
}

// ExecuteBondLess applies a due self bond decrease and returns its amount.
func (c *Candidate) ExecuteBondLess(now uint32) (*big.Int, error) {
	if c.Request == nil {
		return nil, reverts.ErrPendingCandidateRequestDNE
	}
	if c.Request.WhenExecutable > now {
		return nil, reverts.ErrPendingCandidateRequestNotDueYet
	}
	amount := c.Request.Amount
	c.Bond = saturatingSub(c.Bond, amount)
	c.TotalCounted = saturatingSub(c.TotalCounted, amount)
	c.Request = nil
	return amount, nil
}

// CancelBondLess drops the pending self bond decrease and returns it.
func (c *Candidate) CancelBondLess() (*BondLessRequest, error) {
	if c.Request == nil {
		return nil, reverts.ErrPendingCandidateRequestDNE
	}
	r := c.Request
	c.Request = nil
	return r, nil
}

func saturatingSub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	if r.Sign() < 0 {
		r.SetUint64(0)
	}
	return r
}
