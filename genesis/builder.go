// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/parastaking/builtin/ledger"
	"github.com/vechain/parastaking/builtin/staker"
	"github.com/vechain/parastaking/log"
	"github.com/vechain/parastaking/state"
	"github.com/vechain/parastaking/thor"
)

var logger = log.WithContext("pkg", "genesis")

// Builder helper to build genesis state.
type Builder struct {
	config      *thor.Config
	rewardPot   thor.Address
	stateProcs  []func(ldg *ledger.Ledger) error
	candidates  []staker.GenesisCandidate
	nominations []staker.GenesisNomination
}

// Config overrides the staking constants before anything is applied.
func (b *Builder) Config(cfg thor.Config) *Builder {
	b.config = &cfg
	return b
}

// RewardPot set the account rewards are paid from.
func (b *Builder) RewardPot(addr thor.Address) *Builder {
	b.rewardPot = addr
	return b
}

// State add a ledger process
func (b *Builder) State(proc func(ldg *ledger.Ledger) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Fund deposits amount to acc.
func (b *Builder) Fund(acc thor.Address, amount *big.Int) *Builder {
	return b.State(func(ldg *ledger.Ledger) error {
		return ldg.Deposit(acc, amount)
	})
}

// Candidate add a genesis candidate.
func (b *Builder) Candidate(acc thor.Address, bond *big.Int) *Builder {
	b.candidates = append(b.candidates, staker.GenesisCandidate{Account: acc, Bond: bond})
	return b
}

// Nomination add a genesis nomination.
func (b *Builder) Nomination(nominator, candidate thor.Address, amount *big.Int) *Builder {
	b.nominations = append(b.nominations, staker.GenesisNomination{
		Nominator: nominator,
		Candidate: candidate,
		Amount:    amount,
	})
	return b
}

// Build applies the genesis onto st, commits it and returns the staking engine.
// Events emitted by the genesis stay buffered in the engine.
func (b *Builder) Build(st *state.State) (*staker.Staker, error) {
	if b.config != nil {
		thor.SetConfig(*b.config)
	}

	ldg := ledger.New(st)
	for _, proc := range b.stateProcs {
		if err := proc(ldg); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}

	pot := b.rewardPot
	if pot.IsZero() {
		pot = staker.RewardPot
	}
	stk := staker.New(staker.Address, st, ldg, pot)
	if err := stk.ApplyGenesis(b.candidates, b.nominations); err != nil {
		return nil, errors.WithMessage(err, "apply staker genesis")
	}
	if err := st.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	logger.Info("genesis built", "candidates", len(b.candidates), "nominations", len(b.nominations), "rewardPot", pot)
	return stk, nil
}
