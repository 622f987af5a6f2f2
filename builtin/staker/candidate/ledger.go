// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"math/big"

	"github.com/vechain/parastaking/builtin/staker/nomination"
	"github.com/vechain/parastaking/builtin/staker/orderedset"
	"github.com/vechain/parastaking/builtin/staker/reverts"
	"github.com/vechain/parastaking/thor"
)

// Position tells whether a new nomination is counted.
type Position uint8

const (
	AddedToTop Position = iota
	AddedToBottom
)

func (p Position) String() string {
	if p == AddedToTop {
		return "top"
	}
	return "bottom"
}

// Ledger is a candidate together with its top and bottom nominations.
// Every mutation keeps the cached metadata of Info in line with the lists.
type Ledger struct {
	Info   *Candidate
	Top    *nomination.Nominations
	Bottom *nomination.Nominations
}

// AddResult describes the effect of AddNomination.
type AddResult struct {
	Position Position
	// Kicked is the bottom nomination evicted to make room, if any.
	Kicked *nomination.Bond
}

// AddNomination inserts b into top when it beats the lowest top amount or top has room,
// otherwise into bottom. A full bottom evicts its lowest entry.
func (l *Ledger) AddNomination(b nomination.Bond) (*AddResult, error) {
	b = orderedset.NewBond(b.Owner, b.Amount)
	if l.Info.TopCapacity == CapacityFull && l.Info.LowestTopNominationAmount.Cmp(b.Amount) >= 0 {
		if l.Info.BottomCapacity == CapacityFull && b.Amount.Cmp(l.Info.LowestBottomNominationAmount) <= 0 {
			return nil, reverts.ErrCannotNominateLessThanOrEqualToLowestBottomWhenFull
		}
		kicked := l.addBottom(false, b)
		return &AddResult{Position: AddedToBottom, Kicked: kicked}, nil
	}
	return &AddResult{Position: AddedToTop, Kicked: l.addTop(b)}, nil
}

func (l *Ledger) addTop(b nomination.Bond) *nomination.Bond {
	var kicked *nomination.Bond
	if uint32(l.Top.Len()) >= thor.MaxTopNominationsPerCandidate() {
		demoted := l.Top.PopLowest()
		kicked = l.addBottom(true, demoted)
	}
	l.Top.Insert(b)
	l.resetTopData()
	if kicked == nil {
		l.Info.NominationCount++
	}
	return kicked
}

func (l *Ledger) addBottom(bumpedFromTop bool, b nomination.Bond) *nomination.Bond {
	var kicked *nomination.Bond
	if uint32(l.Bottom.Len()) >= thor.MaxBottomNominationsPerCandidate() {
		lowest := l.Bottom.PopLowest()
		kicked = &lowest
	} else if !bumpedFromTop {
		l.Info.NominationCount++
	}
	l.Bottom.Insert(b)
	l.resetBottomData()
	return kicked
}

// RemoveNomination drops the nomination of owner. A slot freed in top is
// refilled with the highest bottom nomination. It returns the removed amount.
func (l *Ledger) RemoveNomination(owner thor.Address) (*big.Int, error) {
	if i := l.Top.Find(owner); i >= 0 {
		removed := l.Top.RemoveAt(i)
		if l.Bottom.Len() > 0 {
			l.Top.Insert(l.Bottom.PopHighest())
			l.resetBottomData()
		}
		l.resetTopData()
		l.decCount()
		return removed.Amount, nil
	}
	if i := l.Bottom.Find(owner); i >= 0 {
		removed := l.Bottom.RemoveAt(i)
		l.resetBottomData()
		l.decCount()
		return removed.Amount, nil
	}
	return nil, reverts.ErrNominationDNE
}

// IncreaseNomination adds more to the nomination of owner and returns whether it ends up in top.
// A bottom nomination overtaking the lowest top swaps places with it.
func (l *Ledger) IncreaseNomination(owner thor.Address, more *big.Int) (bool, error) {
	if i := l.Top.Find(owner); i >= 0 {
		l.Top.Increase(i, more)
		l.resetTopData()
		return true, nil
	}
	i := l.Bottom.Find(owner)
	if i < 0 {
		return false, reverts.ErrNominationDNE
	}

	after := new(big.Int).Add(l.Bottom.Nominations[i].Amount, more)
	if after.Cmp(l.Info.LowestTopNominationAmount) <= 0 {
		l.Bottom.Increase(i, more)
		l.resetBottomData()
		return false, nil
	}

	promoted := l.Bottom.RemoveAt(i)
	if l.Info.TopCapacity == CapacityFull {
		l.Bottom.Insert(l.Top.PopLowest())
	}
	l.Top.Insert(orderedset.NewBond(promoted.Owner, after))
	l.resetTopData()
	l.resetBottomData()
	return true, nil
}

// DecreaseNomination subtracts less from the nomination of owner and returns whether it stays in top.
// A top nomination falling below the highest bottom swaps places with it when top is full.
func (l *Ledger) DecreaseNomination(owner thor.Address, less *big.Int) (bool, error) {
	if i := l.Top.Find(owner); i >= 0 {
		after := saturatingSub(l.Top.Nominations[i].Amount, less)
		if after.Cmp(l.Info.HighestBottomNominationAmount) < 0 &&
			l.Info.TopCapacity == CapacityFull && l.Info.BottomCapacity != CapacityEmpty {
			demoted := l.Top.RemoveAt(i)
			l.Top.Insert(l.Bottom.PopHighest())
			l.Bottom.Insert(orderedset.NewBond(demoted.Owner, after))
			l.resetBottomData()
			l.resetTopData()
			return false, nil
		}
		l.Top.Decrease(i, less)
		l.resetTopData()
		return true, nil
	}
	if i := l.Bottom.Find(owner); i >= 0 {
		l.Bottom.Decrease(i, less)
		l.resetBottomData()
		return false, nil
	}
	return false, reverts.ErrNominationDNE
}

func (l *Ledger) decCount() {
	if l.Info.NominationCount > 0 {
		l.Info.NominationCount--
	}
}

func (l *Ledger) resetTopData() {
	l.Info.LowestTopNominationAmount = l.Top.Lowest()
	l.Info.TopCapacity = capacityOf(l.Top.Len(), thor.MaxTopNominationsPerCandidate())
	l.Info.TotalCounted = new(big.Int).Add(l.Info.Bond, l.Top.Total)
}

func (l *Ledger) resetBottomData() {
	l.Info.LowestBottomNominationAmount = l.Bottom.Lowest()
	l.Info.HighestBottomNominationAmount = l.Bottom.Highest()
	l.Info.BottomCapacity = capacityOf(l.Bottom.Len(), thor.MaxBottomNominationsPerCandidate())
}
