// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node drives the staking engine block by block over a persistent state.
package node

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/parastaking/builtin/ledger"
	"github.com/vechain/parastaking/builtin/staker"
	"github.com/vechain/parastaking/builtin/storage"
	"github.com/vechain/parastaking/co"
	"github.com/vechain/parastaking/kv"
	"github.com/vechain/parastaking/log"
	"github.com/vechain/parastaking/state"
	"github.com/vechain/parastaking/thor"
)

var (
	logger = log.WithContext("pkg", "node")

	// Address is where the node keeps its own bookkeeping inside the state.
	Address  = thor.BytesToAddress([]byte("Node"))
	slotHead = thor.BytesToBytes32([]byte("head"))
)

// BuildFunc builds the genesis state and returns the engine. It must commit the state.
type BuildFunc func(st *state.State) (*staker.Staker, error)

type head struct {
	Number    uint32
	RewardPot thor.Address
}

// Block is the outcome of one processed block.
type Block struct {
	Number uint32
	Author thor.Address
	Weight uint64
	Events []staker.Event
}

// Node owns the state and serializes every access to the engine.
type Node struct {
	mu     sync.Mutex
	state  *state.State
	ledger *ledger.Ledger
	staker *staker.Staker
	head   *storage.Value[*head]
	number uint32

	feed     *feed
	newBlock co.Signal
}

// Open loads the node kept in store, or builds it with build when store holds no state yet.
// Events of a fresh genesis are returned as block 0.
func Open(store kv.Store, build BuildFunc) (*Node, *Block, error) {
	st := state.New(store)
	headValue := storage.NewValue[*head](storage.NewContext(Address, st, nil), slotHead)

	h, err := headValue.Get()
	if err != nil {
		return nil, nil, errors.WithMessage(err, "read head")
	}
	if h != nil {
		n := newNode(st, headValue, staker.New(staker.Address, st, ledger.New(st), h.RewardPot), h.Number)
		logger.Info("node loaded", "head", h.Number, "rewardPot", h.RewardPot)
		return n, nil, nil
	}

	stk, err := build(st)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "build genesis")
	}
	n := newNode(st, headValue, stk, 0)
	if err := n.commit(); err != nil {
		return nil, nil, err
	}
	logger.Info("node initialized", "rewardPot", stk.RewardPot())
	return n, &Block{Number: 0, Events: stk.TakeEvents()}, nil
}

func newNode(st *state.State, headValue *storage.Value[*head], stk *staker.Staker, number uint32) *Node {
	return &Node{
		state:  st,
		ledger: ledger.New(st),
		staker: stk,
		head:   headValue,
		number: number,
		feed:   newFeed(),
	}
}

func (n *Node) commit() error {
	if err := n.head.Set(&head{Number: n.number, RewardPot: n.staker.RewardPot()}); err != nil {
		return err
	}
	return errors.Wrap(n.state.Commit(), "commit state")
}

// Head returns the number of the last processed block.
func (n *Node) Head() uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.number
}

// Read runs fn with exclusive access to the engine and its ledger. fn must not mutate them.
func (n *Node) Read(fn func(stk *staker.Staker, ldg *ledger.Ledger) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return fn(n.staker, n.ledger)
}

// Step processes the next block: the engine hook runs, one selected collator
// authors the block round-robin, and the state is committed.
func (n *Node) Step() (*Block, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	number := n.number + 1
	weight, err := n.staker.OnInitialize(number)
	if err != nil {
		return nil, errors.WithMessagef(err, "initialize block %d", number)
	}

	selected, err := n.staker.SelectedCandidates()
	if err != nil {
		return nil, err
	}
	var author thor.Address
	if len(selected) > 0 {
		author = selected[int(number)%len(selected)]
		if err := n.staker.NoteBlockAuthored(author); err != nil {
			return nil, errors.WithMessagef(err, "note author of block %d", number)
		}
	}

	n.number = number
	if err := n.commit(); err != nil {
		n.number--
		return nil, err
	}

	blk := &Block{Number: number, Author: author, Weight: weight, Events: n.staker.TakeEvents()}
	metricBlockCount().Add(1)
	metricBlockWeight().Observe(int64(weight))
	metricEventCount().Add(int64(len(blk.Events)))

	n.feed.dispatch(blk)
	n.newBlock.Broadcast()
	return blk, nil
}

// Run steps until head reaches target or ctx is done. onBlock is called after each block.
func (n *Node) Run(ctx context.Context, target uint32, onBlock func(*Block)) error {
	for n.Head() < target {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		blk, err := n.Step()
		if err != nil {
			return err
		}
		for _, ev := range blk.Events {
			logger.Debug("event", "block", blk.Number, "name", ev.Name())
			if newEra, ok := ev.(staker.NewEra); ok {
				logger.Info("new era", "block", blk.Number, "era", newEra.Era,
					"collators", newEra.SelectedCollatorsNumber, "exposed", newEra.TotalBalance)
			}
		}
		if onBlock != nil {
			onBlock(blk)
		}
	}
	return nil
}

// SubscribeBlocks registers ch for every processed block. Slow listeners miss blocks.
func (n *Node) SubscribeBlocks(ch chan *Block) {
	n.feed.subscribe(ch)
}

func (n *Node) UnsubscribeBlocks(ch chan *Block) {
	n.feed.unsubscribe(ch)
}

// NewBlockWaiter returns a waiter woken after the next processed block.
func (n *Node) NewBlockWaiter() co.Waiter {
	return n.newBlock.NewWaiter()
}
