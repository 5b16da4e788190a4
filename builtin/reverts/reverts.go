// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind discriminates the reason an operation was rejected.
type Kind uint8

const (
	ZeroAmount Kind = iota + 1
	InsufficientStake
	BelowMinimumStake
	NothingToWithdraw
	Unauthorized
	IdentifierInUse
	InvalidProof
	NotYetClosable
	NotActive
	AlreadyClosed
	NotFinalized
	RewardExceedsSlash
	ZeroBeneficiary
	InsufficientShares
	ZeroShares
	ZeroDelegation
	CooldownActive
	OutOfBounds
	InsufficientBalance
)

var kindNames = map[Kind]string{
	ZeroAmount:          "ZeroAmount",
	InsufficientStake:   "InsufficientStake",
	BelowMinimumStake:   "BelowMinimumStake",
	NothingToWithdraw:   "NothingToWithdraw",
	Unauthorized:        "Unauthorized",
	IdentifierInUse:     "IdentifierInUse",
	InvalidProof:        "InvalidProof",
	NotYetClosable:      "NotYetClosable",
	NotActive:           "NotActive",
	AlreadyClosed:       "AlreadyClosed",
	NotFinalized:        "NotFinalized",
	RewardExceedsSlash:  "RewardExceedsSlash",
	ZeroBeneficiary:     "ZeroBeneficiary",
	InsufficientShares:  "InsufficientShares",
	ZeroShares:          "ZeroShares",
	ZeroDelegation:      "ZeroDelegation",
	CooldownActive:      "CooldownActive",
	OutOfBounds:         "OutOfBounds",
	InsufficientBalance: "InsufficientBalance",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ErrRevert is a rejected operation. It never leaves partial state behind.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
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

// Is reports whether err, or any error it wraps, is a revert of the given kind.
func Is(err error, kind Kind) bool {
	var ve *ErrRevert
	if !errors.As(err, &ve) {
		return false
	}
	return ve.kind == kind
}

// KindOf returns the revert kind of err, or zero if err is not a revert.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if !errors.As(err, &ve) {
		return 0
	}
	return ve.kind
}
