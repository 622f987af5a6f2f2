// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nomination

import (
	"math/big"

	"github.com/vechain/parastaking/builtin/staker/orderedset"
	"github.com/vechain/parastaking/thor"
)

// Nominator is the aggregate state of an account backing candidates.
type Nominator struct {
	ID          thor.Address
	Nominations orderedset.Set // one bond per candidate
	Total       *big.Int       // locked amount
	LessTotal   *big.Int       // sum of pending revoke and decrease amounts
}

func NewNominator(id, candidate thor.Address, amount *big.Int) *Nominator {
	n := &Nominator{
		ID:        id,
		Total:     new(big.Int).Set(amount),
		LessTotal: new(big.Int),
	}
	n.Nominations.Insert(orderedset.NewBond(candidate, amount))
	return n
}

func (n *Nominator) Count() int {
	return len(n.Nominations)
}

// AddNomination records a new bond and returns false if the candidate is already nominated.
func (n *Nominator) AddNomination(b Bond) bool {
	if !n.Nominations.Insert(orderedset.NewBond(b.Owner, b.Amount)) {
		return false
	}
	n.Total = new(big.Int).Add(n.Total, b.Amount)
	return true
}

// RmNomination drops the bond on candidate and returns its amount.
func (n *Nominator) RmNomination(candidate thor.Address) (*big.Int, bool) {
	b, ok := n.Nominations.Remove(candidate)
	if !ok {
		return nil, false
	}
	n.Total = saturatingSub(n.Total, b.Amount)
	return b.Amount, true
}

// Amount returns the bond on candidate.
func (n *Nominator) Amount(candidate thor.Address) (*big.Int, bool) {
	b, ok := n.Nominations.Get(candidate)
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(b.Amount), true
}

// Increase adds more to the bond on candidate.
func (n *Nominator) Increase(candidate thor.Address, more *big.Int) bool {
	b, ok := n.Nominations.Get(candidate)
	if !ok {
		return false
	}
	n.Nominations.Update(candidate, new(big.Int).Add(b.Amount, more))
	n.Total = new(big.Int).Add(n.Total, more)
	return true
}

// Decrease subtracts less from the bond on candidate.
func (n *Nominator) Decrease(candidate thor.Address, less *big.Int) bool {
	b, ok := n.Nominations.Get(candidate)
	if !ok {
		return false
	}
	n.Nominations.Update(candidate, saturatingSub(b.Amount, less))
	n.Total = saturatingSub(n.Total, less)
	return true
}

func (n *Nominator) AddLessTotal(amount *big.Int) {
	n.LessTotal = new(big.Int).Add(n.lessTotal(), amount)
}

func (n *Nominator) SubLessTotal(amount *big.Int) {
	n.LessTotal = saturatingSub(n.lessTotal(), amount)
}

func (n *Nominator) lessTotal() *big.Int {
	if n.LessTotal == nil {
		return new(big.Int)
	}
	return n.LessTotal
}

func saturatingSub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	if r.Sign() < 0 {
		r.SetUint64(0)
	}
	return r
}
