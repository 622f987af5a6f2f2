// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/parastaking/api/restutil"
	"github.com/vechain/parastaking/builtin/ledger"
	"github.com/vechain/parastaking/builtin/staker"
	"github.com/vechain/parastaking/thor"
)

type Staker struct {
	backend restutil.Backend
}

func New(backend restutil.Backend) *Staker {
	return &Staker{backend}
}

func (s *Staker) handleGetEra(w http.ResponseWriter, _ *http.Request) error {
	var out *Era
	if err := s.backend.Read(func(stk *staker.Staker, _ *ledger.Ledger) error {
		info, err := stk.Era()
		if err != nil {
			return err
		}
		totalSelected, err := stk.TotalSelected()
		if err != nil {
			return err
		}
		total, err := stk.Total()
		if err != nil {
			return err
		}
		out = convertEra(info, totalSelected, total)
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, out)
}

func (s *Staker) handleGetCandidates(w http.ResponseWriter, _ *http.Request) error {
	var out []Bond
	if err := s.backend.Read(func(stk *staker.Staker, _ *ledger.Ledger) error {
		pool, err := stk.CandidatePool()
		if err != nil {
			return err
		}
		out = convertBonds(pool)
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, out)
}

func (s *Staker) handleGetSelected(w http.ResponseWriter, _ *http.Request) error {
	var out []thor.Address
	if err := s.backend.Read(func(stk *staker.Staker, _ *ledger.Ledger) error {
		selected, err := stk.SelectedCandidates()
		if err != nil {
			return err
		}
		out = append([]thor.Address{}, selected...)
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, out)
}

func (s *Staker) handleGetCandidate(w http.ResponseWriter, req *http.Request) error {
	acc, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}

	var out struct {
		*Candidate
		Top      *Nominations       `json:"top"`
		Bottom   *Nominations       `json:"bottom"`
		Requests []ScheduledRequest `json:"requests"`
	}
	if err := s.backend.Read(func(stk *staker.Staker, _ *ledger.Ledger) error {
		info, err := stk.CandidateInfo(acc)
		if err != nil {
			return err
		}
		if info == nil {
			return restutil.NotFound(errors.New("candidate not found"))
		}
		selected, err := stk.IsSelectedCandidate(acc)
		if err != nil {
			return err
		}
		top, err := stk.TopNominations(acc)
		if err != nil {
			return err
		}
		bottom, err := stk.BottomNominations(acc)
		if err != nil {
			return err
		}
		q, err := stk.NominationScheduledRequests(acc)
		if err != nil {
			return err
		}
		out.Candidate = convertCandidate(acc, info, selected)
		out.Top = convertNominations(top)
		out.Bottom = convertNominations(bottom)
		out.Requests = convertRequests(q)
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, out)
}

func (s *Staker) handleGetNominator(w http.ResponseWriter, req *http.Request) error {
	acc, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}

	var out *Nominator
	if err := s.backend.Read(func(stk *staker.Staker, _ *ledger.Ledger) error {
		n, err := stk.NominatorState(acc)
		if err != nil {
			return err
		}
		if n == nil {
			return restutil.NotFound(errors.New("nominator not found"))
		}
		out = convertNominator(n)
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, out)
}

func (s *Staker) handleGetSnapshot(w http.ResponseWriter, req *http.Request) error {
	eraIndex, err := restutil.Uint32Var(req, "era")
	if err != nil {
		return err
	}
	acc, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}

	var out *Snapshot
	if err := s.backend.Read(func(stk *staker.Staker, _ *ledger.Ledger) error {
		snap, err := stk.AtStake(eraIndex, acc)
		if err != nil {
			return err
		}
		if snap == nil {
			return restutil.NotFound(errors.New("snapshot not found"))
		}
		points, err := stk.AwardedPoints(eraIndex, acc)
		if err != nil {
			return err
		}
		out = convertSnapshot(snap, points)
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, out)
}

func (s *Staker) handleGetEraPoints(w http.ResponseWriter, req *http.Request) error {
	eraIndex, err := restutil.Uint32Var(req, "era")
	if err != nil {
		return err
	}

	out := &EraPoints{Era: eraIndex}
	if err := s.backend.Read(func(stk *staker.Staker, _ *ledger.Ledger) error {
		points, err := stk.Points(eraIndex)
		if err != nil {
			return err
		}
		staked, err := stk.Staked(eraIndex)
		if err != nil {
			return err
		}
		payout, err := stk.DelayedPayout(eraIndex)
		if err != nil {
			return err
		}
		out.Points = points
		out.Staked = amount(staked)
		if payout != nil {
			out.Payout = &Payout{
				EraIssuance:        amount(payout.EraIssuance),
				TotalStakingReward: amount(payout.TotalStakingReward),
			}
		}
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, out)
}

func (s *Staker) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/era").
		Methods(http.MethodGet).
		Name("GET /staker/era").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetEra))
	sub.Path("/candidates").
		Methods(http.MethodGet).
		Name("GET /staker/candidates").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetCandidates))
	sub.Path("/candidates/{address}").
		Methods(http.MethodGet).
		Name("GET /staker/candidates/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetCandidate))
	sub.Path("/selected").
		Methods(http.MethodGet).
		Name("GET /staker/selected").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetSelected))
	sub.Path("/nominators/{address}").
		Methods(http.MethodGet).
		Name("GET /staker/nominators/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetNominator))
	sub.Path("/eras/{era}/snapshots/{address}").
		Methods(http.MethodGet).
		Name("GET /staker/eras/{era}/snapshots/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetSnapshot))
	sub.Path("/eras/{era}/points").
		Methods(http.MethodGet).
		Name("GET /staker/eras/{era}/points").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetEraPoints))
}
