// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/parastaking/builtin/ledger"
	"github.com/vechain/parastaking/lvldb"
	"github.com/vechain/parastaking/state"
	"github.com/vechain/parastaking/thor"
)

const initialBalance = 1000

type StakerTest struct {
	*Staker
	t        *testing.T
	state    *state.State
	ledger   *ledger.Ledger
	block    uint32
	accounts []thor.Address
}

func acc(i byte) thor.Address {
	return thor.BytesToAddress([]byte{i})
}

func amt(v int64) *big.Int {
	return big.NewInt(v)
}

// newTest funds accounts 1..32 and returns an engine without genesis applied.
func newTest(t *testing.T) *StakerTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	ldg := ledger.New(st)
	ts := &StakerTest{
		Staker: New(thor.BytesToAddress([]byte("stkr")), st, ldg, RewardPot),
		t:      t,
		state:  st,
		ledger: ldg,
	}
	for i := byte(1); i <= 32; i++ {
		ts.accounts = append(ts.accounts, acc(i))
		require.NoError(t, ldg.Deposit(acc(i), amt(initialBalance)))
	}
	return ts
}

// genesis applies the given candidates and nominations and starts era 1.
func (ts *StakerTest) genesis(candidates []GenesisCandidate, nominations []GenesisNomination) *StakerTest {
	require.NoError(ts.t, ts.ApplyGenesis(candidates, nominations))
	ts.TakeEvents()
	return ts
}

// rollTo runs the block hook for every block up to and including n.
func (ts *StakerTest) rollTo(n uint32) *StakerTest {
	for ts.block < n {
		ts.block++
		w, err := ts.OnInitialize(ts.block)
		require.NoError(ts.t, err, "block %d", ts.block)
		assert.GreaterOrEqual(ts.t, w, thor.BlockHookBaseWeight)
	}
	return ts
}

// rollToEra rolls to the first block of era e, with the default era length.
func (ts *StakerTest) rollToEra(e uint32) *StakerTest {
	return ts.rollTo((e - 1) * thor.DefaultBlocksPerEra())
}

func (ts *StakerTest) fund(addr thor.Address, v int64) *StakerTest {
	require.NoError(ts.t, ts.ledger.Deposit(addr, amt(v)))
	return ts
}

func (ts *StakerTest) currentEra() uint32 {
	info, err := ts.Era()
	require.NoError(ts.t, err)
	return info.Current
}

func (ts *StakerTest) free(addr thor.Address) *big.Int {
	v, err := ts.ledger.FreeBalance(addr)
	require.NoError(ts.t, err)
	return v
}

func (ts *StakerTest) locked(addr thor.Address) *big.Int {
	v, err := ts.ledger.Locked(addr)
	require.NoError(ts.t, err)
	return v
}

func (ts *StakerTest) total() *big.Int {
	v, err := ts.Total()
	require.NoError(ts.t, err)
	return v
}

// AssertInvariants checks conservation of locked stake, the top/bottom split
// and the one pending request per nominator rule across every known account.
func (ts *StakerTest) AssertInvariants() {
	t := ts.t
	backing := new(big.Int)
	locks := new(big.Int)
	for _, a := range ts.accounts {
		locks.Add(locks, ts.locked(a))

		info, err := ts.CandidateInfo(a)
		require.NoError(t, err)
		if info != nil {
			top, err := ts.TopNominations(a)
			require.NoError(t, err)
			bottom, err := ts.BottomNominations(a)
			require.NoError(t, err)
			backing.Add(backing, info.Bond)
			backing.Add(backing, top.Total)
			backing.Add(backing, bottom.Total)

			assert.LessOrEqual(t, top.Len(), int(thor.MaxTopNominationsPerCandidate()))
			assert.LessOrEqual(t, bottom.Len(), int(thor.MaxBottomNominationsPerCandidate()))
			if top.Len() > 0 && bottom.Len() > 0 {
				assert.True(t, top.Lowest().Cmp(bottom.Highest()) >= 0,
					"candidate %v: lowest top %v below highest bottom %v", a, top.Lowest(), bottom.Highest())
			}
			assert.Equal(t, uint32(top.Len()+bottom.Len()), info.NominationCount, "candidate %v nomination count", a)
		}

		queue, err := ts.NominationScheduledRequests(a)
		require.NoError(t, err)
		seen := make(map[thor.Address]bool)
		for _, r := range queue {
			assert.False(t, seen[r.Nominator], "duplicate request of %v on %v", r.Nominator, a)
			seen[r.Nominator] = true
		}
	}
	assert.Equal(t, 0, backing.Cmp(ts.total()), "backing %v total %v", backing, ts.total())
	assert.Equal(t, 0, locks.Cmp(ts.total()), "locks %v total %v", locks, ts.total())
}

// eventsOf returns the buffered events of type T and drains the buffer.
func eventsOf[T Event](ts *StakerTest) []T {
	var out []T
	for _, ev := range ts.TakeEvents() {
		if e, ok := ev.(T); ok {
			out = append(out, e)
		}
	}
	return out
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	ts *StakerTest

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(ts *StakerTest) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), ts: ts}
}

func (sq *TestSequence) AddFunc(f TestFunc) *TestSequence {
	sq.mu.Lock()
	defer sq.mu.Unlock()

	sq.funcs = append(sq.funcs, f)
	return sq
}

func (sq *TestSequence) JoinCandidates(addr thor.Address, bond int64) *TestSequence {
	return sq.AddFunc(func(t *testing.T) {
		if err := sq.ts.JoinCandidates(addr, amt(bond), 100); err != nil {
			t.Fatalf("failed to join candidates %s: %v", addr, err)
		}
		t.Logf("joined candidates %s", addr.String())
	})
}

func (sq *TestSequence) Nominate(nominator, cand thor.Address, amount int64) *TestSequence {
	return sq.AddFunc(func(t *testing.T) {
		if err := sq.ts.Nominate(nominator, cand, amt(amount), 100, 100); err != nil {
			t.Fatalf("failed to nominate %s from %s: %v", cand, nominator, err)
		}
		t.Logf("nominated %s from %s", cand.String(), nominator.String())
	})
}

func (sq *TestSequence) ScheduleRevoke(nominator, cand thor.Address) *TestSequence {
	return sq.AddFunc(func(t *testing.T) {
		if err := sq.ts.ScheduleRevokeNomination(nominator, cand); err != nil {
			t.Fatalf("failed to schedule revoke of %s from %s: %v", cand, nominator, err)
		}
	})
}

func (sq *TestSequence) ScheduleLeave(cand thor.Address) *TestSequence {
	return sq.AddFunc(func(t *testing.T) {
		if err := sq.ts.ScheduleLeaveCandidates(cand, 100); err != nil {
			t.Fatalf("failed to schedule leave of %s: %v", cand, err)
		}
	})
}

func (sq *TestSequence) RollToEra(e uint32) *TestSequence {
	return sq.AddFunc(func(t *testing.T) {
		sq.ts.rollToEra(e)
		t.Logf("rolled to era %d at block %d", e, sq.ts.block)
	})
}

func (sq *TestSequence) Author(addr thor.Address, blocks int) *TestSequence {
	return sq.AddFunc(func(t *testing.T) {
		for range blocks {
			if err := sq.ts.NoteBlockAuthored(addr); err != nil {
				t.Fatalf("failed to note author %s: %v", addr, err)
			}
		}
	})
}

func (sq *TestSequence) Run(t *testing.T) {
	sq.mu.Lock()
	defer sq.mu.Unlock()

	for _, f := range sq.funcs {
		f(t)
		sq.ts.AssertInvariants()
	}
}

type CandidateAssertions struct {
	ts   *StakerTest
	addr thor.Address

	bond         *big.Int
	totalCounted *big.Int
	count        *uint32
	inPool       *bool
}

func AssertCandidate(ts *StakerTest, addr thor.Address) *CandidateAssertions {
	return &CandidateAssertions{ts: ts, addr: addr}
}

func (ca *CandidateAssertions) Bond(expected int64) *CandidateAssertions {
	ca.bond = amt(expected)
	return ca
}

func (ca *CandidateAssertions) TotalCounted(expected int64) *CandidateAssertions {
	ca.totalCounted = amt(expected)
	return ca
}

func (ca *CandidateAssertions) NominationCount(expected uint32) *CandidateAssertions {
	ca.count = &expected
	return ca
}

func (ca *CandidateAssertions) InPool(expected bool) *CandidateAssertions {
	ca.inPool = &expected
	return ca
}

func (ca *CandidateAssertions) Assert(t *testing.T) {
	info, err := ca.ts.CandidateInfo(ca.addr)
	require.NoError(t, err)
	require.NotNil(t, info, "candidate %s missing", ca.addr)

	if ca.bond != nil {
		assert.Equal(t, 0, ca.bond.Cmp(info.Bond), "candidate %s bond: got %v, want %v", ca.addr, info.Bond, ca.bond)
	}
	if ca.totalCounted != nil {
		assert.Equal(t, 0, ca.totalCounted.Cmp(info.TotalCounted),
			"candidate %s total counted: got %v, want %v", ca.addr, info.TotalCounted, ca.totalCounted)
	}
	if ca.count != nil {
		assert.Equal(t, *ca.count, info.NominationCount, "candidate %s nomination count", ca.addr)
	}
	if ca.inPool != nil {
		pool, err := ca.ts.CandidatePool()
		require.NoError(t, err)
		assert.Equal(t, *ca.inPool, pool.Contains(ca.addr), "candidate %s pool membership", ca.addr)
	}
}
