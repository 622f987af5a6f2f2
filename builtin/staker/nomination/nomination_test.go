// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nomination

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/parastaking/builtin/staker/orderedset"
	"github.com/vechain/parastaking/builtin/storage"
	"github.com/vechain/parastaking/lvldb"
	"github.com/vechain/parastaking/state"
	"github.com/vechain/parastaking/thor"
)

func bond(owner byte, amount int64) Bond {
	return orderedset.NewBond(thor.Address{owner}, big.NewInt(amount))
}

func ownerBytes(n *Nominations) []byte {
	out := make([]byte, 0, n.Len())
	for _, b := range n.Nominations {
		out = append(out, b.Owner[0])
	}
	return out
}

func TestNominationsInsert(t *testing.T) {
	n := NewNominations()

	n.Insert(bond(1, 10))
	n.Insert(bond(2, 20))
	n.Insert(bond(3, 10))
	n.Insert(bond(4, 15))
	n.Insert(bond(5, 20))
	n.Insert(bond(6, 5))

	// equal amounts keep arrival order
	assert.Equal(t, []byte{2, 5, 4, 1, 3, 6}, ownerBytes(n))
	assert.Equal(t, big.NewInt(80), n.Total)
	assert.Equal(t, big.NewInt(20), n.Highest())
	assert.Equal(t, big.NewInt(5), n.Lowest())
}

func TestNominationsRemoveAndPop(t *testing.T) {
	n := NewNominations()
	for i, amt := range []int64{40, 30, 20, 10} {
		n.Insert(bond(byte(i+1), amt))
	}

	assert.Equal(t, 2, n.Find(thor.Address{3}))
	assert.Equal(t, -1, n.Find(thor.Address{9}))

	b := n.RemoveAt(1)
	assert.Equal(t, thor.Address{2}, b.Owner)
	assert.Equal(t, big.NewInt(70), n.Total)

	low := n.PopLowest()
	assert.Equal(t, thor.Address{4}, low.Owner)
	high := n.PopHighest()
	assert.Equal(t, thor.Address{1}, high.Owner)
	assert.Equal(t, big.NewInt(20), n.Total)
	assert.Equal(t, 1, n.Len())

	empty := NewNominations()
	assert.Equal(t, 0, empty.Lowest().Sign())
	assert.Equal(t, 0, empty.Highest().Sign())
}

func TestNominationsIncreaseDecrease(t *testing.T) {
	n := NewNominations()
	n.Insert(bond(1, 30))
	n.Insert(bond(2, 20))
	n.Insert(bond(3, 20))

	n.Increase(2, big.NewInt(15))
	assert.Equal(t, []byte{3, 1, 2}, ownerBytes(n))
	assert.Equal(t, big.NewInt(85), n.Total)

	n.Decrease(0, big.NewInt(25))
	assert.Equal(t, []byte{1, 2, 3}, ownerBytes(n))
	assert.Equal(t, big.NewInt(60), n.Total)
}

func TestNominator(t *testing.T) {
	n := NewNominator(thor.Address{9}, thor.Address{1}, big.NewInt(10))
	assert.Equal(t, 1, n.Count())

	assert.True(t, n.AddNomination(bond(2, 5)))
	assert.False(t, n.AddNomination(bond(2, 7)))
	assert.Equal(t, big.NewInt(15), n.Total)

	assert.True(t, n.Increase(thor.Address{2}, big.NewInt(3)))
	amt, ok := n.Amount(thor.Address{2})
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(8), amt)

	assert.True(t, n.Decrease(thor.Address{1}, big.NewInt(4)))
	assert.Equal(t, big.NewInt(14), n.Total)
	assert.False(t, n.Decrease(thor.Address{7}, big.NewInt(1)))

	n.AddLessTotal(big.NewInt(6))
	n.SubLessTotal(big.NewInt(2))
	assert.Equal(t, big.NewInt(4), n.LessTotal)
	n.SubLessTotal(big.NewInt(10))
	assert.Equal(t, 0, n.LessTotal.Sign())

	removed, ok := n.RmNomination(thor.Address{1})
	assert.True(t, ok)
	assert.Equal(t, big.NewInt(6), removed)
	assert.Equal(t, big.NewInt(8), n.Total)
	_, ok = n.RmNomination(thor.Address{1})
	assert.False(t, ok)
}

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	svc := New(storage.NewContext(thor.Address{0xAA}, state.New(db), nil))
	id := thor.Address{9}

	got, err := svc.Get(id)
	assert.NoError(t, err)
	assert.Nil(t, got)
	ok, err := svc.Exists(id)
	assert.NoError(t, err)
	assert.False(t, ok)

	n := NewNominator(id, thor.Address{1}, big.NewInt(10))
	require.NoError(t, svc.Set(n))

	got, err = svc.Get(id)
	assert.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, big.NewInt(10), got.Total)
	assert.Equal(t, 1, got.Count())

	svc.Delete(id)
	ok, err = svc.Exists(id)
	assert.NoError(t, err)
	assert.False(t, ok)
}
