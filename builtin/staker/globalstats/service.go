// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package globalstats

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/parastaking/builtin/storage"
	"github.com/vechain/parastaking/thor"
)

var slotTotal = thor.BytesToBytes32([]byte("total-locked"))

// Service manages the engine-wide locked total.
// Total equals the sum over all candidates of bond plus top and bottom nomination totals.
type Service struct {
	total *storage.Uint
}

func New(sctx *storage.Context) *Service {
	return &Service{
		total: storage.NewUint(sctx, slotTotal),
	}
}

// Total returns the locked total.
func (s *Service) Total() (*big.Int, error) {
	total, err := s.total.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total")
	}
	return total, nil
}

// Lock adds amount to the locked total.
func (s *Service) Lock(amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	return s.total.Add(amount)
}

// Unlock subtracts amount from the locked total, saturating at zero.
func (s *Service) Unlock(amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	return s.total.Sub(amount)
}
