// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger is the currency collaborator of the staking engine.
// It keeps balances and a single staking lock per account in the same
// state as the engine, so reverting a call also reverts ledger effects.
package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/parastaking/builtin/storage"
	"github.com/vechain/parastaking/log"
	"github.com/vechain/parastaking/state"
	"github.com/vechain/parastaking/thor"
)

var (
	// Address is the storage address of the ledger.
	Address = thor.BytesToAddress([]byte("Ledger"))

	slotBalances = thor.BytesToBytes32([]byte("balances"))
	slotLocks    = thor.BytesToBytes32([]byte("locks"))
	slotIssuance = thor.BytesToBytes32([]byte("issuance"))

	ErrInsufficientBalance = errors.New("ledger: insufficient balance")
	ErrLiquidityRestricted = errors.New("ledger: transfer would spend locked funds")
	ErrKeepAlive           = errors.New("ledger: transfer would kill the sender")
	ErrExistentialDeposit  = errors.New("ledger: amount below existential deposit")

	logger = log.WithContext("pkg", "ledger")
)

// Ledger stores free balances and staking locks.
type Ledger struct {
	balances *storage.Mapping[thor.Address, *big.Int]
	locks    *storage.Mapping[thor.Address, *big.Int]
	issuance *storage.Uint
}

func New(st *state.State) *Ledger {
	ctx := storage.NewContext(Address, st, nil)
	return &Ledger{
		balances: storage.NewMapping[thor.Address, *big.Int](ctx, slotBalances),
		locks:    storage.NewMapping[thor.Address, *big.Int](ctx, slotLocks),
		issuance: storage.NewUint(ctx, slotIssuance),
	}
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// MinimumBalance returns the existential deposit.
func (l *Ledger) MinimumBalance() *big.Int {
	return new(big.Int).SetUint64(thor.ExistentialDeposit())
}

// FreeBalance returns the free balance of acc, locked funds included.
func (l *Ledger) FreeBalance(acc thor.Address) (*big.Int, error) {
	b, err := l.balances.Get(acc)
	if err != nil {
		return nil, errors.Wrap(err, "get balance")
	}
	return orZero(b), nil
}

// Locked returns the staking lock of acc.
func (l *Ledger) Locked(acc thor.Address) (*big.Int, error) {
	b, err := l.locks.Get(acc)
	if err != nil {
		return nil, errors.Wrap(err, "get lock")
	}
	return orZero(b), nil
}

// Stakable returns free balance minus the staking lock, saturating at zero.
func (l *Ledger) Stakable(acc thor.Address) (*big.Int, error) {
	free, err := l.FreeBalance(acc)
	if err != nil {
		return nil, err
	}
	locked, err := l.Locked(acc)
	if err != nil {
		return nil, err
	}
	free.Sub(free, locked)
	if free.Sign() < 0 {
		free.SetUint64(0)
	}
	return free, nil
}

// SetLock sets the staking lock of acc. A zero amount removes it.
func (l *Ledger) SetLock(acc thor.Address, amount *big.Int) error {
	if amount.Sign() <= 0 {
		l.locks.Delete(acc)
		return nil
	}
	return l.locks.Set(acc, new(big.Int).Set(amount))
}

// RemoveLock drops the staking lock of acc.
func (l *Ledger) RemoveLock(acc thor.Address) error {
	l.locks.Delete(acc)
	return nil
}

func (l *Ledger) setBalance(acc thor.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		l.balances.Delete(acc)
		return nil
	}
	return l.balances.Set(acc, amount)
}

// Deposit mints amount into acc.
func (l *Ledger) Deposit(acc thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("ledger: negative deposit")
	}
	free, err := l.FreeBalance(acc)
	if err != nil {
		return err
	}
	if err := l.setBalance(acc, free.Add(free, amount)); err != nil {
		return err
	}
	return l.issuance.Add(amount)
}

// Withdraw burns amount from the unlocked funds of acc.
func (l *Ledger) Withdraw(acc thor.Address, amount *big.Int) error {
	stakable, err := l.Stakable(acc)
	if err != nil {
		return err
	}
	if stakable.Cmp(amount) < 0 {
		return ErrLiquidityRestricted
	}
	free, err := l.FreeBalance(acc)
	if err != nil {
		return err
	}
	if err := l.setBalance(acc, free.Sub(free, amount)); err != nil {
		return err
	}
	return l.issuance.Sub(amount)
}

// TotalIssuance returns the sum of all deposits minus withdrawals.
func (l *Ledger) TotalIssuance() (*big.Int, error) {
	return l.issuance.Get()
}

// Transfer moves amount from one account to another, keeping the sender alive.
func (l *Ledger) Transfer(from, to thor.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("ledger: negative transfer")
	}
	fromFree, err := l.FreeBalance(from)
	if err != nil {
		return err
	}
	if fromFree.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	locked, err := l.Locked(from)
	if err != nil {
		return err
	}
	remaining := new(big.Int).Sub(fromFree, amount)
	if remaining.Cmp(locked) < 0 {
		return ErrLiquidityRestricted
	}
	ed := l.MinimumBalance()
	if remaining.Cmp(ed) < 0 {
		return ErrKeepAlive
	}
	if from == to {
		return nil
	}
	toFree, err := l.FreeBalance(to)
	if err != nil {
		return err
	}
	toFree.Add(toFree, amount)
	if toFree.Cmp(ed) < 0 {
		return ErrExistentialDeposit
	}

	if err := l.setBalance(from, remaining); err != nil {
		return err
	}
	if err := l.setBalance(to, toFree); err != nil {
		return err
	}
	logger.Trace("transfer", "from", from, "to", to, "amount", amount)
	return nil
}
