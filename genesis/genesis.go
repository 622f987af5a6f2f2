// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis loads genesis documents and builds the initial ledger and staking state.
package genesis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/parastaking/builtin/staker"
	"github.com/vechain/parastaking/thor"
)

// Format is the encoding of a genesis document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf guesses the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown genesis file extension %q", filepath.Ext(path))
	}
}

// Load reads and decodes the genesis file at path.
func Load(path string) (*CustomGenesis, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	gen, err := Decode(data, format)
	if err != nil {
		return nil, errors.WithMessagef(err, "decode genesis file %s", path)
	}
	return gen, nil
}

// Decode decodes a genesis document. Unknown fields are rejected.
func Decode(data []byte, format Format) (*CustomGenesis, error) {
	var gen CustomGenesis
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&gen); err != nil {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&gen); err != nil {
			return nil, err
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &gen)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown genesis fields %v", undecoded)
		}
	default:
		return nil, fmt.Errorf("unsupported genesis format %q", format)
	}
	return &gen, nil
}

// Builder validates the document and returns a builder for it.
func (gen *CustomGenesis) Builder() (*Builder, error) {
	builder := new(Builder)
	if gen.Config != nil {
		builder.Config(*gen.Config)
	}
	pot := staker.RewardPot
	if gen.RewardPot != nil {
		pot = *gen.RewardPot
	}
	builder.RewardPot(pot)

	seen := make(map[thor.Address]bool)
	for _, a := range gen.Accounts {
		if a.Balance == nil {
			return nil, fmt.Errorf("%s: balance must be set", a.Address)
		}
		if a.Balance.Big().Sign() < 1 {
			return nil, fmt.Errorf("%s: balance must be a non-zero integer", a.Address)
		}
		if seen[a.Address] {
			return nil, fmt.Errorf("%s: duplicated account", a.Address)
		}
		seen[a.Address] = true
		builder.Fund(a.Address, a.Balance.Big())
	}
	if gen.PotBalance != nil {
		if gen.PotBalance.Big().Sign() < 0 {
			return nil, errors.New("potBalance must be a non-negative integer")
		}
		builder.Fund(pot, gen.PotBalance.Big())
	}

	for _, c := range gen.Candidates {
		if c.Bond == nil {
			return nil, fmt.Errorf("%s: candidate bond must be set", c.Account)
		}
		builder.Candidate(c.Account, c.Bond.Big())
	}
	for _, n := range gen.Nominations {
		if n.Amount == nil {
			return nil, fmt.Errorf("%s: nomination amount must be set", n.Nominator)
		}
		builder.Nomination(n.Nominator, n.Candidate, n.Amount.Big())
	}
	return builder, nil
}
