// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// Config is the configurable parameters of the staking engine. Every parameter has a default value and
// is 'locked' for production networks. For testing purposes or custom networks, the parameters can be updated.

var (
	minBlocksPerEra     uint32 = 3
	defaultBlocksPerEra uint32 = 5

	leaveCandidatesDelay    uint32 = 2 // eras
	candidateBondLessDelay  uint32 = 2 // eras
	leaveNominatorsDelay    uint32 = 2 // eras
	revokeNominationDelay   uint32 = 2 // eras
	nominationBondLessDelay uint32 = 2 // eras
	rewardPaymentDelay      uint32 = 2 // eras

	minSelectedCandidates            uint32 = 5
	maxTopNominationsPerCandidate    uint32 = 4
	maxBottomNominationsPerCandidate uint32 = 4
	maxNominationsPerNominator       uint32 = 4

	minCollatorStk     uint64 = 10
	minCandidateStk    uint64 = 10
	minNominatorStk    uint64 = 5
	minNomination      uint64 = 3
	existentialDeposit uint64 = 0

	pointsPerBlock      uint32 = 20
	maxHotfixCandidates uint32 = 100

	locked bool
)

type Config struct {
	MinBlocksPerEra     uint32 `json:"minBlocksPerEra" yaml:"minBlocksPerEra" toml:"minBlocksPerEra"`
	DefaultBlocksPerEra uint32 `json:"defaultBlocksPerEra" yaml:"defaultBlocksPerEra" toml:"defaultBlocksPerEra"`

	LeaveCandidatesDelay    uint32 `json:"leaveCandidatesDelay" yaml:"leaveCandidatesDelay" toml:"leaveCandidatesDelay"`
	CandidateBondLessDelay  uint32 `json:"candidateBondLessDelay" yaml:"candidateBondLessDelay" toml:"candidateBondLessDelay"`
	LeaveNominatorsDelay    uint32 `json:"leaveNominatorsDelay" yaml:"leaveNominatorsDelay" toml:"leaveNominatorsDelay"`
	RevokeNominationDelay   uint32 `json:"revokeNominationDelay" yaml:"revokeNominationDelay" toml:"revokeNominationDelay"`
	NominationBondLessDelay uint32 `json:"nominationBondLessDelay" yaml:"nominationBondLessDelay" toml:"nominationBondLessDelay"`
	RewardPaymentDelay      uint32 `json:"rewardPaymentDelay" yaml:"rewardPaymentDelay" toml:"rewardPaymentDelay"`

	MinSelectedCandidates            uint32 `json:"minSelectedCandidates" yaml:"minSelectedCandidates" toml:"minSelectedCandidates"`
	MaxTopNominationsPerCandidate    uint32 `json:"maxTopNominationsPerCandidate" yaml:"maxTopNominationsPerCandidate" toml:"maxTopNominationsPerCandidate"`
	MaxBottomNominationsPerCandidate uint32 `json:"maxBottomNominationsPerCandidate" yaml:"maxBottomNominationsPerCandidate" toml:"maxBottomNominationsPerCandidate"`
	MaxNominationsPerNominator       uint32 `json:"maxNominationsPerNominator" yaml:"maxNominationsPerNominator" toml:"maxNominationsPerNominator"`

	MinCollatorStk     uint64 `json:"minCollatorStk" yaml:"minCollatorStk" toml:"minCollatorStk"`
	MinCandidateStk    uint64 `json:"minCandidateStk" yaml:"minCandidateStk" toml:"minCandidateStk"`
	MinNominatorStk    uint64 `json:"minNominatorStk" yaml:"minNominatorStk" toml:"minNominatorStk"`
	MinNomination      uint64 `json:"minNomination" yaml:"minNomination" toml:"minNomination"`
	ExistentialDeposit uint64 `json:"existentialDeposit" yaml:"existentialDeposit" toml:"existentialDeposit"`
}

// SetConfig sets the config.
// Zero fields keep their current values.
// If the config is locked, will panic.
func SetConfig(cfg Config) {
	if locked {
		panic("config is locked, cannot be set")
	}

	setIfNonZero(&minBlocksPerEra, cfg.MinBlocksPerEra)
	setIfNonZero(&defaultBlocksPerEra, cfg.DefaultBlocksPerEra)

	setIfNonZero(&leaveCandidatesDelay, cfg.LeaveCandidatesDelay)
	setIfNonZero(&candidateBondLessDelay, cfg.CandidateBondLessDelay)
	setIfNonZero(&leaveNominatorsDelay, cfg.LeaveNominatorsDelay)
	setIfNonZero(&revokeNominationDelay, cfg.RevokeNominationDelay)
	setIfNonZero(&nominationBondLessDelay, cfg.NominationBondLessDelay)
	setIfNonZero(&rewardPaymentDelay, cfg.RewardPaymentDelay)

	setIfNonZero(&minSelectedCandidates, cfg.MinSelectedCandidates)
	setIfNonZero(&maxTopNominationsPerCandidate, cfg.MaxTopNominationsPerCandidate)
	setIfNonZero(&maxBottomNominationsPerCandidate, cfg.MaxBottomNominationsPerCandidate)
	setIfNonZero(&maxNominationsPerNominator, cfg.MaxNominationsPerNominator)

	setIfNonZero(&minCollatorStk, cfg.MinCollatorStk)
	setIfNonZero(&minCandidateStk, cfg.MinCandidateStk)
	setIfNonZero(&minNominatorStk, cfg.MinNominatorStk)
	setIfNonZero(&minNomination, cfg.MinNomination)
	setIfNonZero(&existentialDeposit, cfg.ExistentialDeposit)
}

func setIfNonZero[T uint32 | uint64](dst *T, v T) {
	if v != 0 {
		*dst = v
	}
}

// LockConfig locks the config, preventing any further changes.
// Required for production networks.
func LockConfig() {
	locked = true
}

// CurrentConfig returns the config in effect.
func CurrentConfig() Config {
	return Config{
		MinBlocksPerEra:                  minBlocksPerEra,
		DefaultBlocksPerEra:              defaultBlocksPerEra,
		LeaveCandidatesDelay:             leaveCandidatesDelay,
		CandidateBondLessDelay:           candidateBondLessDelay,
		LeaveNominatorsDelay:             leaveNominatorsDelay,
		RevokeNominationDelay:            revokeNominationDelay,
		NominationBondLessDelay:          nominationBondLessDelay,
		RewardPaymentDelay:               rewardPaymentDelay,
		MinSelectedCandidates:            minSelectedCandidates,
		MaxTopNominationsPerCandidate:    maxTopNominationsPerCandidate,
		MaxBottomNominationsPerCandidate: maxBottomNominationsPerCandidate,
		MaxNominationsPerNominator:       maxNominationsPerNominator,
		MinCollatorStk:                   minCollatorStk,
		MinCandidateStk:                  minCandidateStk,
		MinNominatorStk:                  minNominatorStk,
		MinNomination:                    minNomination,
		ExistentialDeposit:               existentialDeposit,
	}
}

func MinBlocksPerEra() uint32 {
	return minBlocksPerEra
}

func DefaultBlocksPerEra() uint32 {
	return defaultBlocksPerEra
}

func LeaveCandidatesDelay() uint32 {
	return leaveCandidatesDelay
}

func CandidateBondLessDelay() uint32 {
	return candidateBondLessDelay
}

func LeaveNominatorsDelay() uint32 {
	return leaveNominatorsDelay
}

func RevokeNominationDelay() uint32 {
	return revokeNominationDelay
}

func NominationBondLessDelay() uint32 {
	return nominationBondLessDelay
}

func RewardPaymentDelay() uint32 {
	return rewardPaymentDelay
}

func MinSelectedCandidates() uint32 {
	return minSelectedCandidates
}

func MaxTopNominationsPerCandidate() uint32 {
	return maxTopNominationsPerCandidate
}

func MaxBottomNominationsPerCandidate() uint32 {
	return maxBottomNominationsPerCandidate
}

func MaxNominationsPerNominator() uint32 {
	return maxNominationsPerNominator
}

func MinCollatorStk() uint64 {
	return minCollatorStk
}

func MinCandidateStk() uint64 {
	return minCandidateStk
}

func MinNominatorStk() uint64 {
	return minNominatorStk
}

func MinNomination() uint64 {
	return minNomination
}

func ExistentialDeposit() uint64 {
	return existentialDeposit
}

// PointsPerBlock is the award credit for authoring one block.
func PointsPerBlock() uint32 {
	return pointsPerBlock
}

func MaxHotfixCandidates() uint32 {
	return maxHotfixCandidates
}
