// Package crypto provides the Ed25519 signing primitives and the hex key
// representations used across the ledger.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/nishp77/thenewboston-node/common"
)

// hex encoded lengths of keys and signatures
const (
	AccountNumberLength = 2 * ed25519.PublicKeySize
	SigningKeyLength    = 2 * ed25519.SeedSize
	SignatureLength     = 2 * ed25519.SignatureSize
)

var (
	// ErrInvalidSigningKey is returned when a signing key is not a valid hex Ed25519 seed
	ErrInvalidSigningKey = errors.New("invalid signing key")
	// ErrInvalidAccountNumber is returned when an account number is not a valid hex Ed25519 public key
	ErrInvalidAccountNumber = errors.New("invalid account number")
)

// GenerateKey creates a random signing key and its account number.
func GenerateKey() (signingKey, accountNumber string, err error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", err
	}
	return hex.EncodeToString(priv.Seed()), hex.EncodeToString(pub), nil
}

// PrivateKeyFromSigningKey converts a hex seed to an Ed25519 private key.
func PrivateKeyFromSigningKey(signingKey string) (ed25519.PrivateKey, error) {
	if !common.IsHexString(signingKey, SigningKeyLength) {
		return nil, ErrInvalidSigningKey
	}
	seed, err := hex.DecodeString(signingKey)
	if err != nil {
		return nil, ErrInvalidSigningKey
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// AccountFromSigningKey derives the account number of a hex signing key.
func AccountFromSigningKey(signingKey string) (string, error) {
	priv, err := PrivateKeyFromSigningKey(signingKey)
	if err != nil {
		return "", err
	}
	pub := priv.Public().(ed25519.PublicKey)
	return hex.EncodeToString(pub), nil
}

// IsValidAccountNumber checks accountNumber is a well formed hex public key.
func IsValidAccountNumber(accountNumber string) bool {
	return common.IsHexString(accountNumber, AccountNumberLength)
}

// IsValidSignature checks signature is a well formed hex Ed25519 signature.
func IsValidSignature(signature string) bool {
	return common.IsHexString(signature, SignatureLength)
}

// Sign signs message with a hex signing key and returns the hex signature.
func Sign(signingKey string, message []byte) (string, error) {
	priv, err := PrivateKeyFromSigningKey(signingKey)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(ed25519.Sign(priv, message)), nil
}

// Verify checks a hex signature over message against a hex account number.
func Verify(accountNumber string, message []byte, signature string) bool {
	if !IsValidAccountNumber(accountNumber) || !IsValidSignature(signature) {
		return false
	}
	pub, err := hex.DecodeString(accountNumber)
	if err != nil {
		return false
	}
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, sig)
}
