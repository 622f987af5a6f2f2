// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/parastaking/builtin/staker/era"
	"github.com/vechain/parastaking/thor"
)

// GenesisCandidate is a candidate joined at genesis.
type GenesisCandidate struct {
	Account thor.Address
	Bond    *big.Int
}

// GenesisNomination is a nomination applied at genesis.
type GenesisNomination struct {
	Nominator thor.Address
	Candidate thor.Address
	Amount    *big.Int
}

// ApplyGenesis joins the genesis candidates and nominations, then starts era 1 at block 0.
// Entries rejected by the engine are logged and skipped. An account lacking the
// stakable balance for its entry fails the whole genesis.
func (s *Staker) ApplyGenesis(candidates []GenesisCandidate, nominations []GenesisNomination) error {
	var candidateCount uint32
	for _, c := range candidates {
		stakable, err := s.currency.Stakable(c.Account)
		if err != nil {
			return err
		}
		if stakable.Cmp(c.Bond) < 0 {
			return errors.Errorf("account %v does not have enough balance to bond as candidate", c.Account)
		}
		if err := s.JoinCandidates(c.Account, c.Bond, candidateCount); err != nil {
			logger.Warn("join candidates failed in genesis", "account", c.Account, "error", err)
			continue
		}
		candidateCount++
	}

	var (
		candidateNominations = make(map[thor.Address]uint32)
		nominatorNominations = make(map[thor.Address]uint32)
	)
	for _, n := range nominations {
		stakable, err := s.currency.Stakable(n.Nominator)
		if err != nil {
			return err
		}
		if stakable.Cmp(n.Amount) < 0 {
			return errors.Errorf("account %v does not have enough balance to place nomination", n.Nominator)
		}
		candCount := candidateNominations[n.Candidate]
		nomCount := nominatorNominations[n.Nominator]
		if err := s.Nominate(n.Nominator, n.Candidate, n.Amount, candCount, nomCount); err != nil {
			logger.Warn("nominate failed in genesis", "nominator", n.Nominator, "candidate", n.Candidate, "error", err)
			continue
		}
		candidateNominations[n.Candidate] = candCount + 1
		nominatorNominations[n.Nominator] = nomCount + 1
	}

	return s.call("genesis", func() error {
		if err := s.eraService.SetTotalSelected(thor.MinSelectedCandidates()); err != nil {
			return err
		}
		count, _, exposed, err := s.selectTopCandidates(1)
		if err != nil {
			return errors.WithMessage(err, "select genesis candidates")
		}
		if err := s.eraService.SetEra(era.New(1, 0, thor.DefaultBlocksPerEra())); err != nil {
			return err
		}
		total, err := s.globalStatsService.Total()
		if err != nil {
			return err
		}
		if err := s.eraService.SetStaked(1, total); err != nil {
			return err
		}
		s.emit(NewEra{StartingBlock: 0, Era: 1, SelectedCollatorsNumber: count, TotalBalance: exposed})
		logger.Info("genesis applied", "collators", count, "exposed", exposed, "total", total)
		return nil
	})
}
