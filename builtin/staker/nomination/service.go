// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nomination

import (
	"github.com/pkg/errors"

	"github.com/vechain/parastaking/builtin/storage"
	"github.com/vechain/parastaking/thor"
)

var slotNominatorState = thor.BytesToBytes32([]byte("nominator-state"))

// Service stores nominator aggregate state.
type Service struct {
	nominators *storage.Mapping[thor.Address, *Nominator]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		nominators: storage.NewMapping[thor.Address, *Nominator](sctx, slotNominatorState),
	}
}

// Get returns the nominator state, nil if absent.
func (s *Service) Get(id thor.Address) (*Nominator, error) {
	n, err := s.nominators.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get nominator")
	}
	return n, nil
}

func (s *Service) Exists(id thor.Address) (bool, error) {
	ok, err := s.nominators.Has(id)
	if err != nil {
		return false, errors.Wrap(err, "failed to check nominator")
	}
	return ok, nil
}

func (s *Service) Set(n *Nominator) error {
	if err := s.nominators.Set(n.ID, n); err != nil {
		return errors.Wrap(err, "failed to set nominator")
	}
	return nil
}

func (s *Service) Delete(id thor.Address) {
	s.nominators.Delete(id)
}
