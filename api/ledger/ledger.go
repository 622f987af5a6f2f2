// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/parastaking/api/restutil"
	"github.com/vechain/parastaking/builtin/ledger"
	"github.com/vechain/parastaking/builtin/staker"
)

// Account is the balance view of one account.
type Account struct {
	Free     *math.HexOrDecimal256 `json:"free"`
	Locked   *math.HexOrDecimal256 `json:"locked"`
	Stakable *math.HexOrDecimal256 `json:"stakable"`
}

type Ledger struct {
	backend restutil.Backend
}

func New(backend restutil.Backend) *Ledger {
	return &Ledger{backend}
}

func (l *Ledger) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	acc, err := restutil.AddressVar(req, "address")
	if err != nil {
		return err
	}

	var out Account
	if err := l.backend.Read(func(_ *staker.Staker, ldg *ledger.Ledger) error {
		free, err := ldg.FreeBalance(acc)
		if err != nil {
			return err
		}
		locked, err := ldg.Locked(acc)
		if err != nil {
			return err
		}
		stakable, err := ldg.Stakable(acc)
		if err != nil {
			return err
		}
		out = Account{
			Free:     (*math.HexOrDecimal256)(new(big.Int).Set(free)),
			Locked:   (*math.HexOrDecimal256)(new(big.Int).Set(locked)),
			Stakable: (*math.HexOrDecimal256)(new(big.Int).Set(stakable)),
		}
		return nil
	}); err != nil {
		return err
	}
	return restutil.WriteJSON(w, &out)
}

func (l *Ledger) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /ledger/accounts/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(l.handleGetAccount))
}
