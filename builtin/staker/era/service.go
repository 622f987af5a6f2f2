// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package era

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/parastaking/builtin/storage"
	"github.com/vechain/parastaking/thor"
)

var (
	slotEra                = thor.BytesToBytes32([]byte("era"))
	slotTotalSelected      = thor.BytesToBytes32([]byte("total-selected"))
	slotSelectedCandidates = thor.BytesToBytes32([]byte("selected-candidates"))
	slotStaked             = thor.BytesToBytes32([]byte("staked"))
)

// Service stores the era clock, the selected set and per-era staked totals.
type Service struct {
	era           *storage.Value[*Info]
	totalSelected *storage.Value[uint32]
	selected      *storage.Value[[]thor.Address]
	staked        *storage.Mapping[Key, *big.Int]
}

func NewService(sctx *storage.Context) *Service {
	return &Service{
		era:           storage.NewValue[*Info](sctx, slotEra),
		totalSelected: storage.NewValue[uint32](sctx, slotTotalSelected),
		selected:      storage.NewValue[[]thor.Address](sctx, slotSelectedCandidates),
		staked:        storage.NewMapping[Key, *big.Int](sctx, slotStaked),
	}
}

// Era returns the era clock. Before genesis it is the zero clock.
func (s *Service) Era() (*Info, error) {
	i, err := s.era.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get era")
	}
	if i == nil {
		i = &Info{}
	}
	return i, nil
}

func (s *Service) SetEra(i *Info) error {
	if err := s.era.Set(i); err != nil {
		return errors.Wrap(err, "failed to set era")
	}
	return nil
}

func (s *Service) TotalSelected() (uint32, error) {
	n, err := s.totalSelected.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get total selected")
	}
	return n, nil
}

func (s *Service) SetTotalSelected(n uint32) error {
	if err := s.totalSelected.Set(n); err != nil {
		return errors.Wrap(err, "failed to set total selected")
	}
	return nil
}

// Selected returns the selected candidates sorted by account.
func (s *Service) Selected() ([]thor.Address, error) {
	sel, err := s.selected.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get selected candidates")
	}
	return sel, nil
}

func (s *Service) SetSelected(sel []thor.Address) error {
	if sel == nil {
		sel = []thor.Address{}
	}
	if err := s.selected.Set(sel); err != nil {
		return errors.Wrap(err, "failed to set selected candidates")
	}
	return nil
}

// Staked returns the total locked amount snapshotted at the start of era, nil if absent.
func (s *Service) Staked(era uint32) (*big.Int, error) {
	v, err := s.staked.Get(Key(era))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staked")
	}
	return v, nil
}

func (s *Service) SetStaked(era uint32, total *big.Int) error {
	if err := s.staked.Set(Key(era), new(big.Int).Set(total)); err != nil {
		return errors.Wrap(err, "failed to set staked")
	}
	return nil
}

func (s *Service) DeleteStaked(era uint32) {
	s.staked.Delete(Key(era))
}
