// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package era

import (
	"encoding/binary"

	"github.com/vechain/parastaking/thor"
)

// Info is the era clock.
type Info struct {
	Current uint32 // era index
	First   uint32 // first block of the current era
	Length  uint32 // blocks per era
}

func New(current, first, length uint32) *Info {
	return &Info{Current: current, First: first, Length: length}
}

// ShouldUpdate reports whether block n starts a new era.
func (i *Info) ShouldUpdate(n uint32) bool {
	return n >= i.First && n-i.First >= i.Length
}

// Update starts the next era at block n.
func (i *Info) Update(n uint32) {
	i.Current++
	i.First = n
}

// Key is a storage key of a per-era item.
type Key uint32

func (k Key) Bytes() []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(k))
	return b[:]
}

// AccountKey is a storage key of a per-era, per-account item.
type AccountKey struct {
	Era     uint32
	Account thor.Address
}

func (k AccountKey) Bytes() []byte {
	return append(Key(k.Era).Bytes(), k.Account.Bytes()...)
}
