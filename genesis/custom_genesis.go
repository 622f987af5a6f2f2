// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/parastaking/thor"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	Config      *thor.Config     `json:"config" yaml:"config" toml:"config"`
	RewardPot   *thor.Address    `json:"rewardPot" yaml:"rewardPot" toml:"rewardPot"`
	PotBalance  *HexOrDecimal256 `json:"potBalance" yaml:"potBalance" toml:"potBalance"`
	Accounts    []Account        `json:"accounts" yaml:"accounts" toml:"accounts"`
	Candidates  []Candidate      `json:"candidates" yaml:"candidates" toml:"candidates"`
	Nominations []Nomination     `json:"nominations" yaml:"nominations" toml:"nominations"`
}

// Account is the account will be funded at genesis
type Account struct {
	Address thor.Address     `json:"address" yaml:"address" toml:"address"`
	Balance *HexOrDecimal256 `json:"balance" yaml:"balance" toml:"balance"`
}

// Candidate joins the candidate pool at genesis
type Candidate struct {
	Account thor.Address     `json:"account" yaml:"account" toml:"account"`
	Bond    *HexOrDecimal256 `json:"bond" yaml:"bond" toml:"bond"`
}

// Nomination is placed at genesis, after every candidate joined
type Nomination struct {
	Nominator thor.Address     `json:"nominator" yaml:"nominator" toml:"nominator"`
	Candidate thor.Address     `json:"candidate" yaml:"candidate" toml:"candidate"`
	Amount    *HexOrDecimal256 `json:"amount" yaml:"amount" toml:"amount"`
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
// Copied from go-ethereum/common/math and implement json. Marshaler
type HexOrDecimal256 math.HexOrDecimal256

// NewHexOrDecimal256 wraps v.
func NewHexOrDecimal256(v *big.Int) *HexOrDecimal256 {
	return (*HexOrDecimal256)(new(big.Int).Set(v))
}

// Big returns the value, nil stays nil.
func (i *HexOrDecimal256) Big() *big.Int {
	if i == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(i))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalJSON(input []byte) error {
	var hex string
	if err := json.Unmarshal(input, &hex); err != nil {
		if err = (*big.Int)(i).UnmarshalJSON(input); err != nil {
			return err
		}
		return nil
	}
	return i.UnmarshalText([]byte(hex))
}

// UnmarshalText implements encoding.TextUnmarshaler, used by the yaml and toml decoders.
func (i *HexOrDecimal256) UnmarshalText(input []byte) error {
	bigint, ok := math.ParseBig256(string(input))
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", input)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (i HexOrDecimal256) MarshalText() ([]byte, error) {
	decimal256 := math.HexOrDecimal256(i)
	return decimal256.MarshalText()
}

// MarshalJSON implements the json.Marshaler interface.
func (i HexOrDecimal256) MarshalJSON() ([]byte, error) {
	text, err := i.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}
