// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import "sync"

type feed struct {
	listeners map[chan *Block]struct{}
	mu        sync.RWMutex
}

func newFeed() *feed {
	return &feed{listeners: make(map[chan *Block]struct{})}
}

func (f *feed) subscribe(ch chan *Block) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listeners[ch] = struct{}{}
}

func (f *feed) unsubscribe(ch chan *Block) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.listeners, ch)
}

func (f *feed) dispatch(blk *Block) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for lsn := range f.listeners {
		select {
		case lsn <- blk:
		default: // broadcast in a non-blocking manner, so there's no guarantee that all subscriber receives it
		}
	}
}
