// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/vechain/parastaking/state"
	"github.com/vechain/parastaking/thor"
)

type UseWeightFunc func(w uint64)

// Context binds storage slots to an address inside a state.
type Context struct {
	address thor.Address
	state   *state.State
	charger UseWeightFunc
}

func NewContext(address thor.Address, state *state.State, charger UseWeightFunc) *Context {
	return &Context{
		address: address,
		state:   state,
		charger: charger,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// SetCharger replaces the weight sink.
func (c *Context) SetCharger(charger UseWeightFunc) {
	c.charger = charger
}

func (c *Context) UseWeight(w uint64) {
	if c.charger != nil {
		c.charger(w)
	}
}

// useSlots charges w once per 32-byte word of a raw value.
func (c *Context) useSlots(length int, w uint64) {
	slots := (length + 31) / 32
	if slots == 0 {
		slots = 1
	}
	for range slots {
		c.UseWeight(w)
	}
}
