// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math/big"

	"github.com/vechain/parastaking/thor"
)

// Uint is a big integer stored in a single word.
// Values exceeding 256 bits are truncated to fit into thor.Bytes32.
type Uint struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint(context *Context, pos thor.Bytes32) *Uint {
	return &Uint{context: context, pos: pos}
}

func (u *Uint) Get() (*big.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	u.context.UseWeight(thor.StorageReadWeight)
	return new(big.Int).SetBytes(storage.Bytes()), nil
}

func (u *Uint) Set(value *big.Int) {
	u.context.UseWeight(thor.StorageWriteWeight)
	u.context.state.SetStorage(u.context.address, u.pos, thor.BytesToBytes32(value.Bytes()))
}

func (u *Uint) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	u.Set(storage.Add(storage, value))
	return nil
}

// Sub subtracts value, saturating at zero.
func (u *Uint) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	storage.Sub(storage, value)
	if storage.Sign() < 0 {
		storage.SetUint64(0)
	}
	u.Set(storage)
	return nil
}
