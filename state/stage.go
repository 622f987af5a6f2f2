// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
)

// Stage abstracts changes on the backing store.
type Stage struct {
	state   *State
	changes map[storageKey]rlp.RawValue
}

// Len returns the number of changed keys.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit commits all changes into the backing store in a single batch.
func (s *Stage) Commit() error {
	bulk := s.state.store.Bulk()
	for k, v := range s.changes {
		if len(v) == 0 {
			if err := bulk.Delete(k.dbKey()); err != nil {
				return &Error{err}
			}
		} else {
			if err := bulk.Put(k.dbKey(), v); err != nil {
				return &Error{err}
			}
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}
	for k, v := range s.changes {
		s.state.cache.Add(k, v)
	}
	s.state.reset()
	metricCommittedKeys().AddWithLabel(int64(len(s.changes)), map[string]string{"op": "commit"})
	return nil
}
