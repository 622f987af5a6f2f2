// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package weight

import (
	"fmt"

	"github.com/vechain/parastaking/thor"
)

// Charger tallies the weight consumed by a single call or block hook.
type Charger struct {
	readOps     uint64
	writeNewOps uint64
	writeOps    uint64
	balanceOps  uint64
	customW     uint64
	total       uint64
}

func New() *Charger {
	return &Charger{}
}

func (c *Charger) Charge(w uint64) {
	if c == nil {
		return
	}
	c.total += w

	switch {
	case w%thor.StorageWriteNewWeight == 0 && w > 0:
		c.writeNewOps += w / thor.StorageWriteNewWeight

	case w%thor.StorageWriteWeight == 0 && w > 0:
		c.writeOps += w / thor.StorageWriteWeight

	case w%thor.BalanceWeight == 0 && w > 0:
		c.balanceOps += w / thor.BalanceWeight

	case w%thor.StorageReadWeight == 0 && w > 0:
		c.readOps += w / thor.StorageReadWeight

	default:
		c.customW += w
	}
}

func (c *Charger) Breakdown() string {
	return fmt.Sprintf(
		"READ: %d ops (%d) | WRITE_NEW: %d ops (%d) | WRITE: %d ops (%d) | BALANCE: %d ops (%d) | CUSTOM: %d | TOTAL: %d",
		c.readOps,
		c.readOps*thor.StorageReadWeight,
		c.writeNewOps,
		c.writeNewOps*thor.StorageWriteNewWeight,
		c.writeOps,
		c.writeOps*thor.StorageWriteWeight,
		c.balanceOps,
		c.balanceOps*thor.BalanceWeight,
		c.customW,
		c.total,
	)
}

// Total returns the accumulated weight.
func (c *Charger) Total() uint64 {
	if c == nil {
		return 0
	}
	return c.total
}

// Reset clears all counters.
func (c *Charger) Reset() {
	*c = Charger{}
}
