// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/parastaking/builtin/staker/candidate"
	"github.com/vechain/parastaking/builtin/staker/era"
	"github.com/vechain/parastaking/builtin/staker/nomination"
	"github.com/vechain/parastaking/builtin/staker/orderedset"
	"github.com/vechain/parastaking/builtin/staker/requests"
	"github.com/vechain/parastaking/builtin/staker/rewards"
	"github.com/vechain/parastaking/thor"
)

func amount(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(v))
}

type Era struct {
	Current       uint32                `json:"current"`
	First         uint32                `json:"first"`
	Length        uint32                `json:"length"`
	TotalSelected uint32                `json:"totalSelected"`
	Total         *math.HexOrDecimal256 `json:"total"`
}

func convertEra(info *era.Info, totalSelected uint32, total *big.Int) *Era {
	return &Era{
		Current:       info.Current,
		First:         info.First,
		Length:        info.Length,
		TotalSelected: totalSelected,
		Total:         amount(total),
	}
}

type Bond struct {
	Owner  thor.Address          `json:"owner"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func convertBonds(bonds []orderedset.Bond) []Bond {
	out := make([]Bond, 0, len(bonds))
	for _, b := range bonds {
		out = append(out, Bond{Owner: b.Owner, Amount: amount(b.Amount)})
	}
	return out
}

type BondLessRequest struct {
	Amount         *math.HexOrDecimal256 `json:"amount"`
	WhenExecutable uint32                `json:"whenExecutable"`
}

type Candidate struct {
	Account                       thor.Address          `json:"account"`
	Bond                          *math.HexOrDecimal256 `json:"bond"`
	NominationCount               uint32                `json:"nominationCount"`
	TotalCounted                  *math.HexOrDecimal256 `json:"totalCounted"`
	LowestTopNominationAmount     *math.HexOrDecimal256 `json:"lowestTopNominationAmount"`
	HighestBottomNominationAmount *math.HexOrDecimal256 `json:"highestBottomNominationAmount"`
	LowestBottomNominationAmount  *math.HexOrDecimal256 `json:"lowestBottomNominationAmount"`
	TopCapacity                   string                `json:"topCapacity"`
	BottomCapacity                string                `json:"bottomCapacity"`
	Request                       *BondLessRequest      `json:"request"`
	Status                        string                `json:"status"`
	ExitEra                       uint32                `json:"exitEra,omitempty"`
	Selected                      bool                  `json:"selected"`
}

func convertCandidate(acc thor.Address, c *candidate.Candidate, selected bool) *Candidate {
	out := &Candidate{
		Account:                       acc,
		Bond:                          amount(c.Bond),
		NominationCount:               c.NominationCount,
		TotalCounted:                  amount(c.TotalCounted),
		LowestTopNominationAmount:     amount(c.LowestTopNominationAmount),
		HighestBottomNominationAmount: amount(c.HighestBottomNominationAmount),
		LowestBottomNominationAmount:  amount(c.LowestBottomNominationAmount),
		TopCapacity:                   c.TopCapacity.String(),
		BottomCapacity:                c.BottomCapacity.String(),
		Status:                        c.Status.String(),
		ExitEra:                       c.ExitEra,
		Selected:                      selected,
	}
	if c.Request != nil {
		out.Request = &BondLessRequest{
			Amount:         amount(c.Request.Amount),
			WhenExecutable: c.Request.WhenExecutable,
		}
	}
	return out
}

type Nominations struct {
	Total       *math.HexOrDecimal256 `json:"total"`
	Nominations []Bond                `json:"nominations"`
}

func convertNominations(n *nomination.Nominations) *Nominations {
	if n == nil {
		return &Nominations{Total: amount(nil), Nominations: []Bond{}}
	}
	return &Nominations{Total: amount(n.Total), Nominations: convertBonds(n.Nominations)}
}

type ScheduledRequest struct {
	Nominator      thor.Address          `json:"nominator"`
	WhenExecutable uint32                `json:"whenExecutable"`
	Action         string                `json:"action"`
	Amount         *math.HexOrDecimal256 `json:"amount"`
}

func convertRequests(q requests.Requests) []ScheduledRequest {
	out := make([]ScheduledRequest, 0, len(q))
	for _, r := range q {
		out = append(out, ScheduledRequest{
			Nominator:      r.Nominator,
			WhenExecutable: r.WhenExecutable,
			Action:         r.Action.String(),
			Amount:         amount(r.Amount),
		})
	}
	return out
}

type Nominator struct {
	ID          thor.Address          `json:"id"`
	Total       *math.HexOrDecimal256 `json:"total"`
	LessTotal   *math.HexOrDecimal256 `json:"lessTotal"`
	Nominations []Bond                `json:"nominations"`
}

func convertNominator(n *nomination.Nominator) *Nominator {
	return &Nominator{
		ID:          n.ID,
		Total:       amount(n.Total),
		LessTotal:   amount(n.LessTotal),
		Nominations: convertBonds(n.Nominations),
	}
}

type Snapshot struct {
	Bond        *math.HexOrDecimal256 `json:"bond"`
	Total       *math.HexOrDecimal256 `json:"total"`
	Nominations []Bond                `json:"nominations"`
	Points      uint32                `json:"points"`
}

func convertSnapshot(s *rewards.CollatorSnapshot, points uint32) *Snapshot {
	return &Snapshot{
		Bond:        amount(s.Bond),
		Total:       amount(s.Total),
		Nominations: convertBonds(s.Nominations),
		Points:      points,
	}
}

type EraPoints struct {
	Era    uint32                `json:"era"`
	Points uint32                `json:"points"`
	Staked *math.HexOrDecimal256 `json:"staked"`
	// set once the era's payout is released
	Payout *Payout `json:"payout,omitempty"`
}

type Payout struct {
	EraIssuance        *math.HexOrDecimal256 `json:"eraIssuance"`
	TotalStakingReward *math.HexOrDecimal256 `json:"totalStakingReward"`
}
