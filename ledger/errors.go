package ledger

import (
	"errors"
)

// change request validation rejections,
// refused before any chain or state mutation
var (
	ErrUnknownRequestType    = errors.New("unknown change request type")
	ErrMessageMismatch       = errors.New("change request message does not match request type")
	ErrInvalidSigner         = errors.New("invalid signer account number")
	ErrInvalidSignature      = errors.New("change request signature mismatch")
	ErrInvalidNetworkAddress = errors.New("invalid network address")
	ErrInvalidFeeAccount     = errors.New("invalid fee account number")
	ErrNoTransactions        = errors.New("coin transfer has no transactions")
	ErrInvalidAmount         = errors.New("transfer amount must be positive")
	ErrInvalidRecipient      = errors.New("invalid recipient account number")
	ErrInvalidBalanceLock    = errors.New("invalid balance lock")
)

// admission rejections checked against the materialized state
var (
	ErrUnknownSender       = errors.New("sender account not found")
	ErrBalanceLockMismatch = errors.New("balance lock mismatch")
	ErrInsufficientFunds   = errors.New("transfer amount exceeds account balance")
)

// chain linkage violations, fatal at load time
var (
	ErrMissingRequest             = errors.New("block has no change request")
	ErrNonContiguousNumber        = errors.New("non contiguous block number")
	ErrPreviousIdentifierMismatch = errors.New("previous block identifier mismatch")
	ErrIdentifierMismatch         = errors.New("block identifier mismatch")
	ErrBadValidatorSignature      = errors.New("validator signature mismatch")
	ErrTimestampOutOfOrder        = errors.New("block timestamp out of order")
	ErrRootHashMismatch           = errors.New("state root hash mismatch")
)

// ledger status errors
var (
	ErrChainCorrupted     = errors.New("blockchain is corrupted")
	ErrNotLoaded          = errors.New("blockchain not loaded")
	ErrNoGenesisSnapshot  = errors.New("genesis snapshot not found")
	ErrSnapshotBeyondHead = errors.New("snapshot beyond chain head")
	ErrSnapshotMismatch   = errors.New("snapshot artifact does not match its address")
	ErrNotFound           = errors.New("not found")
)

// IsValidationRejection reports whether err is a recoverable rejection of a
// change request (as opposed to a linkage violation or an I/O failure).
func IsValidationRejection(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrUnknownRequestType),
		errors.Is(err, ErrMessageMismatch),
		errors.Is(err, ErrInvalidSigner),
		errors.Is(err, ErrInvalidSignature),
		errors.Is(err, ErrInvalidNetworkAddress),
		errors.Is(err, ErrInvalidFeeAccount),
		errors.Is(err, ErrNoTransactions),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidRecipient),
		errors.Is(err, ErrInvalidBalanceLock),
		errors.Is(err, ErrUnknownSender),
		errors.Is(err, ErrBalanceLockMismatch),
		errors.Is(err, ErrInsufficientFunds):
		return true
	}
	return false
}

// IsLinkageViolation reports whether err indicates a broken or tampered
// chain, which is fatal when detected on persisted blocks.
func IsLinkageViolation(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrMissingRequest),
		errors.Is(err, ErrNonContiguousNumber),
		errors.Is(err, ErrPreviousIdentifierMismatch),
		errors.Is(err, ErrIdentifierMismatch),
		errors.Is(err, ErrBadValidatorSignature),
		errors.Is(err, ErrTimestampOutOfOrder),
		errors.Is(err, ErrRootHashMismatch):
		return true
	}
	return false
}
