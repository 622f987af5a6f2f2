// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package requests

import (
	"math/big"

	"github.com/vechain/parastaking/thor"
)

// Action is the kind of change a nominator scheduled.
type Action uint8

const (
	ActionRevoke Action = iota
	ActionDecrease
)

func (a Action) String() string {
	switch a {
	case ActionRevoke:
		return "revoke"
	case ActionDecrease:
		return "decrease"
	default:
		return "unknown"
	}
}

// ScheduledRequest is a pending revoke or decrease of one nomination.
type ScheduledRequest struct {
	Nominator      thor.Address
	WhenExecutable uint32
	Action         Action
	Amount         *big.Int
}

// IsRevoke reports whether the request revokes the whole nomination.
func (r *ScheduledRequest) IsRevoke() bool {
	return r.Action == ActionRevoke
}

// Requests is the queue of one candidate, kept in insertion order.
// A nominator has at most one entry.
type Requests []ScheduledRequest

// Find returns the index of the request made by nominator, or -1.
func (q Requests) Find(nominator thor.Address) int {
	for i := range q {
		if q[i].Nominator == nominator {
			return i
		}
	}
	return -1
}

// Get returns a copy of the request made by nominator.
func (q Requests) Get(nominator thor.Address) (ScheduledRequest, bool) {
	i := q.Find(nominator)
	if i < 0 {
		return ScheduledRequest{}, false
	}
	return q[i], true
}

// Remove deletes the request made by nominator and returns it.
func (q *Requests) Remove(nominator thor.Address) (ScheduledRequest, bool) {
	i := q.Find(nominator)
	if i < 0 {
		return ScheduledRequest{}, false
	}
	r := (*q)[i]
	*q = append((*q)[:i], (*q)[i+1:]...)
	return r, true
}

// Push appends r. The caller guarantees no request by the same nominator exists.
func (q *Requests) Push(r ScheduledRequest) {
	*q = append(*q, r)
}

// Adjust returns what is left of a bond once the pending request of nominator applies,
// and whether such a request exists. A revoke leaves nothing.
func (q Requests) Adjust(nominator thor.Address, amount *big.Int) (*big.Int, bool) {
	r, ok := q.Get(nominator)
	if !ok {
		return new(big.Int).Set(amount), false
	}
	if r.IsRevoke() {
		return new(big.Int), true
	}
	left := new(big.Int).Sub(amount, r.Amount)
	if left.Sign() < 0 {
		left.SetUint64(0)
	}
	return left, true
}
