// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// ErrRevert is a user-facing failure of a staking call.
// The message is the stable error name.
type ErrRevert struct {
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Name returns the stable error name.
func (e *ErrRevert) Name() string {
	return e.message
}

// Is matches reverts by name.
func (e *ErrRevert) Is(target error) bool {
	var t *ErrRevert
	if !errors.As(target, &t) {
		return false
	}
	return t.message == e.message
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// not found
var (
	ErrCandidateDNE                = New("CandidateDNE")
	ErrNominatorDNE                = New("NominatorDNE")
	ErrNominationDNE               = New("NominationDNE")
	ErrPendingCandidateRequestDNE  = New("PendingCandidateRequestDNE")
	ErrPendingNominationRequestDNE = New("PendingNominationRequestDNE")
)

// conflicts
var (
	ErrCandidateExists                       = New("CandidateExists")
	ErrNominatorExists                       = New("NominatorExists")
	ErrAlreadyNominatedCandidate             = New("AlreadyNominatedCandidate")
	ErrPendingNominationRequestAlreadyExists = New("PendingNominationRequestAlreadyExists")
	ErrPendingCandidateRequestAlreadyExists  = New("PendingCandidateRequestAlreadyExists")
	ErrCandidateAlreadyLeaving               = New("CandidateAlreadyLeaving")
	ErrNominatorAlreadyLeaving               = New("NominatorAlreadyLeaving")
	ErrCandidateNotLeaving                   = New("CandidateNotLeaving")
	ErrNominatorNotLeaving                   = New("NominatorNotLeaving")
	ErrAlreadyOffline                        = New("AlreadyOffline")
	ErrAlreadyActive                         = New("AlreadyActive")
	ErrCannotGoOnlineIfLeaving               = New("CannotGoOnlineIfLeaving")
	ErrPendingNominationRevoke               = New("PendingNominationRevoke")
)

// timing
var (
	ErrCandidateCannotLeaveYet           = New("CandidateCannotLeaveYet")
	ErrNominatorCannotLeaveYet           = New("NominatorCannotLeaveYet")
	ErrPendingCandidateRequestNotDueYet  = New("PendingCandidateRequestNotDueYet")
	ErrPendingNominationRequestNotDueYet = New("PendingNominationRequestNotDueYet")
)

// thresholds
var (
	ErrCandidateBondBelowMin                               = New("CandidateBondBelowMin")
	ErrNominatorBondBelowMin                               = New("NominatorBondBelowMin")
	ErrNominationBelowMin                                  = New("NominationBelowMin")
	ErrCannotSetBelowMin                                   = New("CannotSetBelowMin")
	ErrCannotNominateLessThanOrEqualToLowestBottomWhenFull = New("CannotNominateLessThanOrEqualToLowestBottomWhenFull")
	ErrExceedMaxNominationsPerNominator                    = New("ExceedMaxNominationsPerNominator")
)

// weight hints
var (
	ErrTooLowCandidateCountWeightHintJoinCandidates        = New("TooLowCandidateCountWeightHintJoinCandidates")
	ErrTooLowCandidateCountWeightHintCancelLeaveCandidates = New("TooLowCandidateCountWeightHintCancelLeaveCandidates")
	ErrTooLowCandidateCountToLeaveCandidates               = New("TooLowCandidateCountToLeaveCandidates")
	ErrTooLowCandidateNominationCountToNominate            = New("TooLowCandidateNominationCountToNominate")
	ErrTooLowCandidateNominationCountToLeaveCandidates     = New("TooLowCandidateNominationCountToLeaveCandidates")
	ErrTooLowNominationCountToNominate                     = New("TooLowNominationCountToNominate")
	ErrTooLowNominationCountToLeaveNominators              = New("TooLowNominationCountToLeaveNominators")
	ErrTooManyCandidates                                   = New("TooManyCandidates")
)

// resources and configuration
var (
	ErrInsufficientBalance                          = New("InsufficientBalance")
	ErrNoWritingSameValue                           = New("NoWritingSameValue")
	ErrEraLengthMustBeAtLeastTotalSelectedCollators = New("EraLengthMustBeAtLeastTotalSelectedCollators")
)
