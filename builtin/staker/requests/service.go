// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package requests

import (
	"github.com/pkg/errors"

	"github.com/vechain/parastaking/builtin/storage"
	"github.com/vechain/parastaking/thor"
)

var slotScheduledRequests = thor.BytesToBytes32([]byte("nomination-scheduled-requests"))

// Service stores the per-candidate request queues.
type Service struct {
	queues *storage.Mapping[thor.Address, Requests]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		queues: storage.NewMapping[thor.Address, Requests](sctx, slotScheduledRequests),
	}
}

// Get returns the queue of candidate. An absent queue is empty.
func (s *Service) Get(candidate thor.Address) (Requests, error) {
	q, err := s.queues.Get(candidate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get scheduled requests")
	}
	return q, nil
}

// Exists reports whether a queue entry, even an empty one, is stored for candidate.
func (s *Service) Exists(candidate thor.Address) (bool, error) {
	ok, err := s.queues.Has(candidate)
	if err != nil {
		return false, errors.Wrap(err, "failed to check scheduled requests")
	}
	return ok, nil
}

func (s *Service) Set(candidate thor.Address, q Requests) error {
	if q == nil {
		q = Requests{}
	}
	if err := s.queues.Set(candidate, q); err != nil {
		return errors.Wrap(err, "failed to set scheduled requests")
	}
	return nil
}

func (s *Service) Delete(candidate thor.Address) {
	s.queues.Delete(candidate)
}
