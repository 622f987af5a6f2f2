// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nomination

import (
	"math/big"
	"sort"

	"github.com/vechain/parastaking/builtin/staker/orderedset"
	"github.com/vechain/parastaking/thor"
)

type Bond = orderedset.Bond

// Nominations is a list of bonds sorted by amount, greatest first, with a cached total.
type Nominations struct {
	Nominations []Bond
	Total       *big.Int
}

func NewNominations() *Nominations {
	return &Nominations{Total: new(big.Int)}
}

func (n *Nominations) Len() int {
	return len(n.Nominations)
}

func (n *Nominations) addTotal(amount *big.Int) {
	if n.Total == nil {
		n.Total = new(big.Int)
	}
	n.Total = new(big.Int).Add(n.Total, amount)
}

func (n *Nominations) subTotal(amount *big.Int) {
	if n.Total == nil {
		n.Total = new(big.Int)
	}
	t := new(big.Int).Sub(n.Total, amount)
	if t.Sign() < 0 {
		t.SetUint64(0)
	}
	n.Total = t
}

// Insert places b after every bond with an amount greater than or equal to its own,
// so equal amounts keep arrival order.
func (n *Nominations) Insert(b Bond) {
	n.addTotal(b.Amount)
	i := sort.Search(len(n.Nominations), func(i int) bool {
		return n.Nominations[i].Amount.Cmp(b.Amount) < 0
	})
	n.Nominations = append(n.Nominations, Bond{})
	copy(n.Nominations[i+1:], n.Nominations[i:])
	n.Nominations[i] = b
}

// Lowest returns the smallest amount, zero when empty.
func (n *Nominations) Lowest() *big.Int {
	if len(n.Nominations) == 0 {
		return new(big.Int)
	}
	return new(big.Int).Set(n.Nominations[len(n.Nominations)-1].Amount)
}

// Highest returns the greatest amount, zero when empty.
func (n *Nominations) Highest() *big.Int {
	if len(n.Nominations) == 0 {
		return new(big.Int)
	}
	return new(big.Int).Set(n.Nominations[0].Amount)
}

// Find returns the index of the bond owned by owner, or -1.
func (n *Nominations) Find(owner thor.Address) int {
	for i, b := range n.Nominations {
		if b.Owner == owner {
			return i
		}
	}
	return -1
}

// RemoveAt deletes the bond at index i and returns it.
func (n *Nominations) RemoveAt(i int) Bond {
	b := n.Nominations[i]
	n.Nominations = append(n.Nominations[:i], n.Nominations[i+1:]...)
	n.subTotal(b.Amount)
	return b
}

// PopLowest removes the last bond.
func (n *Nominations) PopLowest() Bond {
	return n.RemoveAt(len(n.Nominations) - 1)
}

// PopHighest removes the first bond.
func (n *Nominations) PopHighest() Bond {
	return n.RemoveAt(0)
}

// Increase adds more to the bond at index i and restores the order.
func (n *Nominations) Increase(i int, more *big.Int) {
	n.Nominations[i].Amount = new(big.Int).Add(n.Nominations[i].Amount, more)
	n.addTotal(more)
	n.sortGreatestToLeast()
}

// Decrease subtracts less from the bond at index i and restores the order.
func (n *Nominations) Decrease(i int, less *big.Int) {
	n.Nominations[i].Amount = new(big.Int).Sub(n.Nominations[i].Amount, less)
	n.subTotal(less)
	n.sortGreatestToLeast()
}

func (n *Nominations) sortGreatestToLeast() {
	sort.SliceStable(n.Nominations, func(i, j int) bool {
		return n.Nominations[i].Amount.Cmp(n.Nominations[j].Amount) > 0
	})
}
