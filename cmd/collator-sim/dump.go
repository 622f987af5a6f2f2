// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"io"
	"math/big"
	"os"

	"github.com/davecgh/go-spew/spew"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/parastaking/builtin/ledger"
	"github.com/vechain/parastaking/builtin/staker"
	"github.com/vechain/parastaking/builtin/staker/candidate"
	"github.com/vechain/parastaking/builtin/staker/era"
	"github.com/vechain/parastaking/builtin/staker/nomination"
	"github.com/vechain/parastaking/builtin/staker/orderedset"
	"github.com/vechain/parastaking/builtin/staker/requests"
	"github.com/vechain/parastaking/node"
	"github.com/vechain/parastaking/thor"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

type accountDump struct {
	Free   *big.Int
	Locked *big.Int
}

type candidateDump struct {
	Info     *candidate.Candidate
	Top      *nomination.Nominations
	Bottom   *nomination.Nominations
	Requests requests.Requests
}

type stateDump struct {
	Head            uint32
	Era             *era.Info
	TotalSelected   uint32
	Selected        []thor.Address
	Total           *big.Int
	LockedEraPayout *big.Int
	Pool            orderedset.Set
	Candidates      map[thor.Address]*candidateDump
	Nominators      map[thor.Address]*nomination.Nominator
	Accounts        map[thor.Address]*accountDump
}

// collectState reads everything reachable from the candidate pool.
func collectState(n *node.Node) (*stateDump, error) {
	d := &stateDump{
		Head:       n.Head(),
		Candidates: make(map[thor.Address]*candidateDump),
		Nominators: make(map[thor.Address]*nomination.Nominator),
		Accounts:   make(map[thor.Address]*accountDump),
	}
	err := n.Read(func(stk *staker.Staker, ldg *ledger.Ledger) error {
		var err error
		if d.Era, err = stk.Era(); err != nil {
			return err
		}
		if d.TotalSelected, err = stk.TotalSelected(); err != nil {
			return err
		}
		if d.Selected, err = stk.SelectedCandidates(); err != nil {
			return err
		}
		if d.Total, err = stk.Total(); err != nil {
			return err
		}
		if d.LockedEraPayout, err = stk.LockedEraPayout(); err != nil {
			return err
		}
		if d.Pool, err = stk.CandidatePool(); err != nil {
			return err
		}

		accounts := []thor.Address{stk.RewardPot()}
		addNominator := func(acc thor.Address) error {
			if _, ok := d.Nominators[acc]; ok {
				return nil
			}
			nom, err := stk.NominatorState(acc)
			if err != nil || nom == nil {
				return err
			}
			d.Nominators[acc] = nom
			accounts = append(accounts, acc)
			return nil
		}

		for _, b := range d.Pool {
			cd := &candidateDump{}
			if cd.Info, err = stk.CandidateInfo(b.Owner); err != nil {
				return err
			}
			if cd.Top, err = stk.TopNominations(b.Owner); err != nil {
				return err
			}
			if cd.Bottom, err = stk.BottomNominations(b.Owner); err != nil {
				return err
			}
			if cd.Requests, err = stk.NominationScheduledRequests(b.Owner); err != nil {
				return err
			}
			d.Candidates[b.Owner] = cd
			accounts = append(accounts, b.Owner)

			for _, list := range []*nomination.Nominations{cd.Top, cd.Bottom} {
				for _, nb := range list.Nominations {
					if err := addNominator(nb.Owner); err != nil {
						return err
					}
				}
			}
		}

		for _, acc := range accounts {
			free, err := ldg.FreeBalance(acc)
			if err != nil {
				return err
			}
			locked, err := ldg.Locked(acc)
			if err != nil {
				return err
			}
			d.Accounts[acc] = &accountDump{Free: free, Locked: locked}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func dump(w io.Writer, n *node.Node) error {
	d, err := collectState(n)
	if err != nil {
		return err
	}
	dumpConfig.Fdump(w, d)
	return nil
}

func dumpAction(ctx *cli.Context) error {
	closeLog, err := initLogger(ctx)
	if err != nil {
		return err
	}
	defer closeLog()

	db, _, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	n, _, err := openNode(ctx, db)
	if err != nil {
		return err
	}
	return dump(os.Stdout, n)
}
