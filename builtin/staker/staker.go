// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/parastaking/builtin/staker/candidate"
	"github.com/vechain/parastaking/builtin/staker/era"
	"github.com/vechain/parastaking/builtin/staker/globalstats"
	"github.com/vechain/parastaking/builtin/staker/nomination"
	"github.com/vechain/parastaking/builtin/staker/requests"
	"github.com/vechain/parastaking/builtin/staker/reverts"
	"github.com/vechain/parastaking/builtin/staker/rewards"
	"github.com/vechain/parastaking/builtin/storage"
	"github.com/vechain/parastaking/builtin/weight"
	"github.com/vechain/parastaking/log"
	"github.com/vechain/parastaking/state"
	"github.com/vechain/parastaking/thor"
)

var (
	logger = log.WithContext("pkg", "staker")

	// Address is the default storage address of the staking engine.
	Address = thor.BytesToAddress([]byte("ParaStaking"))
	// RewardPot is the default account rewards are paid from.
	RewardPot = thor.BytesToAddress([]byte("RewardPot"))

	errInvalidAmount = errors.New("invalid amount")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Currency is the ledger the engine locks stake in and pays rewards from.
type Currency interface {
	FreeBalance(acc thor.Address) (*big.Int, error)
	Locked(acc thor.Address) (*big.Int, error)
	// Stakable returns free balance minus the staking lock.
	Stakable(acc thor.Address) (*big.Int, error)
	SetLock(acc thor.Address, amount *big.Int) error
	RemoveLock(acc thor.Address) error
	// Transfer moves funds keeping the sender alive.
	Transfer(from, to thor.Address, amount *big.Int) error
	MinimumBalance() *big.Int
}

// Hooks are optional callbacks run from OnInitialize. Each returns the weight it consumed,
// which is added to the weight of the block hook.
type Hooks struct {
	// OnNewEra runs when an era starts, before payouts are prepared.
	OnNewEra func(era uint32) uint64
	// OnCollatorPayout runs after a collator received its own share of an era's reward.
	OnCollatorPayout func(era uint32, collator thor.Address, amount *big.Int) uint64
}

// Staker is the collator staking engine.
type Staker struct {
	addr      thor.Address
	state     *state.State
	currency  Currency
	rewardPot thor.Address

	candidateService   *candidate.Service
	nominatorService   *nomination.Service
	requestService     *requests.Service
	eraService         *era.Service
	rewardService      *rewards.Service
	globalStatsService *globalstats.Service

	hooks   Hooks
	charger *weight.Charger
	events  []Event
}

// New create a new instance.
func New(addr thor.Address, state *state.State, currency Currency, rewardPot thor.Address) *Staker {
	s := &Staker{
		addr:      addr,
		state:     state,
		currency:  currency,
		rewardPot: rewardPot,
		charger:   weight.New(),
	}
	sctx := storage.NewContext(addr, state, func(w uint64) { s.charger.Charge(w) })

	s.candidateService = candidate.New(sctx)
	s.nominatorService = nomination.New(sctx)
	s.requestService = requests.New(sctx)
	s.eraService = era.NewService(sctx)
	s.rewardService = rewards.New(sctx)
	s.globalStatsService = globalstats.New(sctx)
	return s
}

func (s *Staker) Address() thor.Address {
	return s.addr
}

func (s *Staker) RewardPot() thor.Address {
	return s.rewardPot
}

// SetHooks installs the callbacks run by the block hook.
func (s *Staker) SetHooks(h Hooks) {
	s.hooks = h
}

// Weight returns the weight charged by the last call or hook.
func (s *Staker) Weight() *weight.Charger {
	return s.charger
}

// call runs fn atomically. On error every state write and event of fn is discarded.
func (s *Staker) call(op string, fn func() error) (err error) {
	checkpoint := s.state.NewCheckpoint()
	mark := len(s.events)
	s.charger = weight.New()

	defer func() {
		result := "ok"
		if err != nil {
			s.state.RevertTo(checkpoint)
			s.events = s.events[:mark]
			result = "failed"
		}
		metricCallCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
	}()
	return fn()
}

//
// Currency helpers
//

func (s *Staker) stakable(acc thor.Address) (*big.Int, error) {
	s.charger.Charge(thor.BalanceWeight)
	return s.currency.Stakable(acc)
}

func (s *Staker) setLock(acc thor.Address, amount *big.Int) error {
	s.charger.Charge(thor.BalanceWeight)
	if amount.Sign() == 0 {
		return s.currency.RemoveLock(acc)
	}
	return s.currency.SetLock(acc, amount)
}

func (s *Staker) removeLock(acc thor.Address) error {
	s.charger.Charge(thor.BalanceWeight)
	return s.currency.RemoveLock(acc)
}

func (s *Staker) ensureStakable(acc thor.Address, amount *big.Int) error {
	stakable, err := s.stakable(acc)
	if err != nil {
		return err
	}
	if stakable.Cmp(amount) < 0 {
		return reverts.ErrInsufficientBalance
	}
	return nil
}

func saturatingSub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	if r.Sign() < 0 {
		r.SetUint64(0)
	}
	return r
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errInvalidAmount
	}
	return nil
}

func (s *Staker) currentEra() (uint32, error) {
	info, err := s.eraService.Era()
	if err != nil {
		return 0, err
	}
	return info.Current, nil
}
