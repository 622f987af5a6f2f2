// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/parastaking/thor"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction, similar to the mapping in Solidity.
// Values are RLP encoded; an absent key reads as the zero value of V.
type Mapping[K Key, V any] struct {
	context *Context
	basePos thor.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) thor.Bytes32 {
	return thor.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		m.context.useSlots(len(raw), thor.StorageReadWeight)
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Has reports whether a value is stored under key.
func (m *Mapping[K, V]) Has(key K) (bool, error) {
	raw, err := m.context.state.GetRawStorage(m.context.address, m.position(key))
	if err != nil {
		return false, err
	}
	m.context.UseWeight(thor.StorageReadWeight)
	return len(raw) > 0, nil
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return setRLP(m.context, m.position(key), value)
}

func (m *Mapping[K, V]) Delete(key K) {
	m.context.UseWeight(thor.StorageWriteWeight)
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}

func setRLP(ctx *Context, pos thor.Bytes32, value any) error {
	// the prior value decides set vs reset weight, reading it is not charged
	prior, err := ctx.state.GetRawStorage(ctx.address, pos)
	if err != nil {
		return err
	}
	return ctx.state.EncodeStorage(ctx.address, pos, func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		if len(prior) == 0 {
			ctx.useSlots(len(val), thor.StorageWriteNewWeight)
		} else {
			ctx.useSlots(len(val), thor.StorageWriteWeight)
		}
		return val, nil
	})
}
