// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Perbill is a fixed point fraction in parts per billion.
type Perbill uint32

// OnePerbill is the whole.
const OnePerbill Perbill = 1_000_000_000

var billion = uint256.NewInt(uint64(OnePerbill))

// FromRational returns floor(p * 10^9 / q) clamped to the whole. A zero q yields zero.
func FromRational(p, q *big.Int) Perbill {
	if q == nil || q.Sign() <= 0 || p == nil || p.Sign() <= 0 {
		return 0
	}
	if p.Cmp(q) >= 0 {
		return OnePerbill
	}
	up, pOverflow := uint256.FromBig(p)
	uq, qOverflow := uint256.FromBig(q)
	if !pOverflow && !qOverflow {
		if z, overflow := new(uint256.Int).MulDivOverflow(up, billion, uq); !overflow {
			return Perbill(z.Uint64())
		}
	}
	z := new(big.Int).Mul(p, billion.ToBig())
	return Perbill(z.Quo(z, q).Uint64())
}

// Mul returns floor(x * p / 10^9). It never rounds to nearest, so shares split
// from one amount never add up to more than that amount.
func (p Perbill) Mul(x *big.Int) *big.Int {
	if x == nil || x.Sign() <= 0 || p == 0 {
		return new(big.Int)
	}
	parts := uint256.NewInt(uint64(p))
	if ux, overflow := uint256.FromBig(x); !overflow {
		if z, overflow := new(uint256.Int).MulDivOverflow(ux, parts, billion); !overflow {
			return z.ToBig()
		}
	}
	z := new(big.Int).Mul(x, parts.ToBig())
	return z.Quo(z, billion.ToBig())
}
