// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/parastaking/lvldb"
	"github.com/vechain/parastaking/thor"
)

func newMemState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestStateReadWrite(t *testing.T) {
	st, _ := newMemState(t)

	addr := thor.BytesToAddress([]byte("account"))
	storageKey := thor.BytesToBytes32([]byte("storageKey"))

	storage, err := st.GetStorage(addr, storageKey)
	assert.NoError(t, err)
	assert.True(t, storage.IsZero())

	st.SetStorage(addr, storageKey, thor.BytesToBytes32([]byte("storageValue")))
	storage, err = st.GetStorage(addr, storageKey)
	assert.NoError(t, err)
	assert.Equal(t, thor.BytesToBytes32([]byte("storageValue")), storage)

	st.SetStorage(addr, storageKey, thor.Bytes32{})
	raw, err := st.GetRawStorage(addr, storageKey)
	assert.NoError(t, err)
	assert.Empty(t, raw)
}

func TestStateRevert(t *testing.T) {
	st, _ := newMemState(t)

	addr := thor.BytesToAddress([]byte("account"))
	storageKey := thor.BytesToBytes32([]byte("storageKey"))

	values := []thor.Bytes32{
		thor.BytesToBytes32([]byte("v1")),
		thor.BytesToBytes32([]byte("v2")),
		thor.BytesToBytes32([]byte("v3")),
	}

	revisions := make([]int, 0, len(values))
	for _, v := range values {
		revisions = append(revisions, st.NewCheckpoint())
		st.SetStorage(addr, storageKey, v)
	}

	for i := len(values) - 1; i >= 0; i-- {
		st.RevertTo(revisions[i])
		storage, err := st.GetStorage(addr, storageKey)
		assert.NoError(t, err)
		if i > 0 {
			assert.Equal(t, values[i-1], storage)
		} else {
			assert.True(t, storage.IsZero())
		}
	}

	// revert to zero keeps the state usable
	st.RevertTo(0)
	st.SetStorage(addr, storageKey, values[0])
	storage, err := st.GetStorage(addr, storageKey)
	assert.NoError(t, err)
	assert.Equal(t, values[0], storage)
}

func TestStateCommit(t *testing.T) {
	st, db := newMemState(t)

	addr := thor.BytesToAddress([]byte("account"))
	k1 := thor.BytesToBytes32([]byte("k1"))
	k2 := thor.BytesToBytes32([]byte("k2"))

	st.SetStorage(addr, k1, thor.BytesToBytes32([]byte("v1")))
	st.SetStorage(addr, k2, thor.BytesToBytes32([]byte("v2")))
	st.SetStorage(addr, k2, thor.BytesToBytes32([]byte("v2'")))

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	require.NoError(t, stage.Commit())

	// a fresh state over the same store sees committed values
	reopened := New(db)
	v, err := reopened.GetStorage(addr, k2)
	assert.NoError(t, err)
	assert.Equal(t, thor.BytesToBytes32([]byte("v2'")), v)

	// delete reaches the store
	st.SetStorage(addr, k1, thor.Bytes32{})
	require.NoError(t, st.Commit())
	reopened = New(db)
	v, err = reopened.GetStorage(addr, k1)
	assert.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestStateEncodeDecode(t *testing.T) {
	st, _ := newMemState(t)

	addr := thor.BytesToAddress([]byte("account"))
	key := thor.BytesToBytes32([]byte("list"))

	type item struct {
		A uint64
		B []byte
	}
	want := item{A: 7, B: []byte("x")}

	err := st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&want)
	})
	assert.NoError(t, err)

	var got item
	err = st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &got)
	})
	assert.NoError(t, err)
	assert.Equal(t, want, got)

	// list values hash to a storage word
	word, err := st.GetStorage(addr, key)
	assert.NoError(t, err)
	assert.False(t, word.IsZero())

	boom := errors.New("boom")
	err = st.EncodeStorage(addr, key, func() ([]byte, error) { return nil, boom })
	var stateErr *Error
	assert.ErrorAs(t, err, &stateErr)
	assert.ErrorIs(t, err, boom)

	err = st.DecodeStorage(addr, key, func([]byte) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestStateInvalidRaw(t *testing.T) {
	st, _ := newMemState(t)

	addr := thor.BytesToAddress([]byte("account"))
	key := thor.BytesToBytes32([]byte("bad"))
	st.SetRawStorage(addr, key, rlp.RawValue{0xFF})

	_, err := st.GetStorage(addr, key)
	assert.Error(t, err)
}
