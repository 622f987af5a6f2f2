// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package orderedset

import (
	"math/big"
	"sort"

	"github.com/vechain/parastaking/thor"
)

// Bond is an amount staked by an owner.
type Bond struct {
	Owner  thor.Address
	Amount *big.Int
}

// NewBond returns a bond holding a copy of amount.
func NewBond(owner thor.Address, amount *big.Int) Bond {
	return Bond{Owner: owner, Amount: new(big.Int).Set(amount)}
}

// Set is a set of bonds kept sorted by owner. Two bonds are the same
// element when their owners match, whatever the amounts.
type Set []Bond

func (s Set) search(owner thor.Address) (int, bool) {
	i := sort.Search(len(s), func(i int) bool {
		return s[i].Owner.Compare(owner) >= 0
	})
	return i, i < len(s) && s[i].Owner == owner
}

// Insert adds b unless a bond with the same owner is present.
// It returns whether the set changed.
func (s *Set) Insert(b Bond) bool {
	i, found := s.search(b.Owner)
	if found {
		return false
	}
	*s = append(*s, Bond{})
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = b
	return true
}

// Remove deletes the bond owned by owner and returns it.
func (s *Set) Remove(owner thor.Address) (Bond, bool) {
	i, found := s.search(owner)
	if !found {
		return Bond{}, false
	}
	b := (*s)[i]
	*s = append((*s)[:i], (*s)[i+1:]...)
	return b, true
}

// Get returns the bond owned by owner.
func (s Set) Get(owner thor.Address) (Bond, bool) {
	i, found := s.search(owner)
	if !found {
		return Bond{}, false
	}
	return s[i], true
}

func (s Set) Contains(owner thor.Address) bool {
	_, found := s.search(owner)
	return found
}

// Update replaces the amount of an existing bond.
func (s Set) Update(owner thor.Address, amount *big.Int) bool {
	i, found := s.search(owner)
	if !found {
		return false
	}
	s[i].Amount = new(big.Int).Set(amount)
	return true
}
