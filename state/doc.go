// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state provides journaled key/value storage partitioned by address.
// Every mutation is recorded on a stacked map, so a checkpoint can be reverted
// without touching the backing store. Changes reach the store only on Commit.
package state
