// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package candidate

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/parastaking/builtin/staker/nomination"
	"github.com/vechain/parastaking/builtin/staker/orderedset"
	"github.com/vechain/parastaking/builtin/staker/reverts"
	"github.com/vechain/parastaking/builtin/storage"
	"github.com/vechain/parastaking/thor"
)

var (
	slotCandidateInfo     = thor.BytesToBytes32([]byte("candidate-info"))
	slotTopNominations    = thor.BytesToBytes32([]byte("top-nominations"))
	slotBottomNominations = thor.BytesToBytes32([]byte("bottom-nominations"))
	slotCandidatePool     = thor.BytesToBytes32([]byte("candidate-pool"))
)

// Service stores candidate metadata, nomination lists and the candidate pool.
type Service struct {
	info   *storage.Mapping[thor.Address, *Candidate]
	top    *storage.Mapping[thor.Address, *nomination.Nominations]
	bottom *storage.Mapping[thor.Address, *nomination.Nominations]
	pool   *storage.Value[orderedset.Set]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		info:   storage.NewMapping[thor.Address, *Candidate](sctx, slotCandidateInfo),
		top:    storage.NewMapping[thor.Address, *nomination.Nominations](sctx, slotTopNominations),
		bottom: storage.NewMapping[thor.Address, *nomination.Nominations](sctx, slotBottomNominations),
		pool:   storage.NewValue[orderedset.Set](sctx, slotCandidatePool),
	}
}

// Get returns the candidate metadata, nil if absent.
func (s *Service) Get(id thor.Address) (*Candidate, error) {
	c, err := s.info.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get candidate")
	}
	return c, nil
}

// GetExisting returns the candidate metadata or CandidateDNE.
func (s *Service) GetExisting(id thor.Address) (*Candidate, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, reverts.ErrCandidateDNE
	}
	return c, nil
}

func (s *Service) Exists(id thor.Address) (bool, error) {
	ok, err := s.info.Has(id)
	if err != nil {
		return false, errors.Wrap(err, "failed to check candidate")
	}
	return ok, nil
}

func (s *Service) Set(id thor.Address, c *Candidate) error {
	if err := s.info.Set(id, c); err != nil {
		return errors.Wrap(err, "failed to set candidate")
	}
	return nil
}

func (s *Service) GetTop(id thor.Address) (*nomination.Nominations, error) {
	return s.getNominations(s.top, id)
}

func (s *Service) GetBottom(id thor.Address) (*nomination.Nominations, error) {
	return s.getNominations(s.bottom, id)
}

func (s *Service) getNominations(m *storage.Mapping[thor.Address, *nomination.Nominations], id thor.Address) (*nomination.Nominations, error) {
	n, err := m.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get nominations")
	}
	if n == nil {
		n = nomination.NewNominations()
	}
	if n.Total == nil {
		n.Total = new(big.Int)
	}
	return n, nil
}

// GetLedger loads an existing candidate with both nomination lists.
func (s *Service) GetLedger(id thor.Address) (*Ledger, error) {
	info, err := s.GetExisting(id)
	if err != nil {
		return nil, err
	}
	top, err := s.GetTop(id)
	if err != nil {
		return nil, err
	}
	bottom, err := s.GetBottom(id)
	if err != nil {
		return nil, err
	}
	return &Ledger{Info: info, Top: top, Bottom: bottom}, nil
}

// SetLedger stores the candidate and both lists.
func (s *Service) SetLedger(id thor.Address, l *Ledger) error {
	if err := s.Set(id, l.Info); err != nil {
		return err
	}
	if err := s.top.Set(id, l.Top); err != nil {
		return errors.Wrap(err, "failed to set top nominations")
	}
	if err := s.bottom.Set(id, l.Bottom); err != nil {
		return errors.Wrap(err, "failed to set bottom nominations")
	}
	return nil
}

// Delete removes the candidate and both lists.
func (s *Service) Delete(id thor.Address) {
	s.info.Delete(id)
	s.top.Delete(id)
	s.bottom.Delete(id)
}

// Pool returns the candidates eligible for selection.
func (s *Service) Pool() (orderedset.Set, error) {
	p, err := s.pool.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get candidate pool")
	}
	return p, nil
}

func (s *Service) SetPool(p orderedset.Set) error {
	if p == nil {
		p = orderedset.Set{}
	}
	if err := s.pool.Set(p); err != nil {
		return errors.Wrap(err, "failed to set candidate pool")
	}
	return nil
}

// InsertPool adds id to the pool and returns false if it was already present.
func (s *Service) InsertPool(id thor.Address, amount *big.Int) (bool, error) {
	p, err := s.Pool()
	if err != nil {
		return false, err
	}
	if !p.Insert(orderedset.NewBond(id, amount)) {
		return false, nil
	}
	return true, s.SetPool(p)
}

// RemovePool drops id from the pool.
func (s *Service) RemovePool(id thor.Address) error {
	p, err := s.Pool()
	if err != nil {
		return err
	}
	if _, ok := p.Remove(id); !ok {
		return nil
	}
	return s.SetPool(p)
}

// UpdatePool replaces the amount of id, inserting it if missing.
func (s *Service) UpdatePool(id thor.Address, amount *big.Int) error {
	p, err := s.Pool()
	if err != nil {
		return err
	}
	p.Remove(id)
	p.Insert(orderedset.NewBond(id, amount))
	return s.SetPool(p)
}
