// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// Weight units charged for storage and ledger access.
const (
	StorageReadWeight     uint64 = 200
	StorageWriteNewWeight uint64 = 20000
	StorageWriteWeight    uint64 = 5000
	BalanceWeight         uint64 = 400

	BlockHookBaseWeight  uint64 = 10_000
	EraTransitionWeight  uint64 = 100_000
	PayoutCollatorWeight uint64 = 20_000
)
