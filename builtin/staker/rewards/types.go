// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/vechain/parastaking/builtin/staker/orderedset"
)

// CollatorSnapshot is a collator's counted exposure frozen at selection.
type CollatorSnapshot struct {
	Bond        *big.Int
	Nominations []orderedset.Bond
	Total       *big.Int
}

// Clone returns a deep copy.
func (c *CollatorSnapshot) Clone() *CollatorSnapshot {
	noms := make([]orderedset.Bond, 0, len(c.Nominations))
	for _, n := range c.Nominations {
		noms = append(noms, orderedset.NewBond(n.Owner, n.Amount))
	}
	return &CollatorSnapshot{
		Bond:        new(big.Int).Set(c.Bond),
		Nominations: noms,
		Total:       new(big.Int).Set(c.Total),
	}
}

// DelayedPayout is the reward released for an era, paid out one collator per block.
type DelayedPayout struct {
	EraIssuance        *big.Int
	TotalStakingReward *big.Int
}
