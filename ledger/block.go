package ledger

import (
	"encoding/json"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/nishp77/thenewboston-node/common"
	"github.com/nishp77/thenewboston-node/tools/crypto"
)

// GenesisPreviousIdentifier is the well known sentinel carried by block 0
// in place of a predecessor identifier.
var GenesisPreviousIdentifier = strings.Repeat("0", common.HexHashLength)

// Block binds one validated change request to a position in the chain.
// Identifier is the SHA3-256 hash of the canonical block serialization and
// ValidatorSignature is the validator's Ed25519 signature over it. Blocks
// are immutable once created.
type Block struct {
	Number                  int64                `json:"number" msgpack:"number"`
	Identifier              string               `json:"identifier" msgpack:"identifier"`
	PreviousBlockIdentifier string               `json:"previous_block_identifier" msgpack:"previous_block_identifier"`
	Timestamp               int64                `json:"timestamp" msgpack:"timestamp"`
	Validator               string               `json:"validator" msgpack:"validator"`
	ValidatorSignature      string               `json:"validator_signature" msgpack:"validator_signature"`
	Request                 *SignedChangeRequest `json:"change_request" msgpack:"change_request"`
}

// blockDigest is the identifier preimage: every field a reader needs to
// reproduce the identifier, and nothing derived from it.
type blockDigest struct {
	Number                  int64                `json:"number"`
	PreviousBlockIdentifier string               `json:"previous_block_identifier"`
	Timestamp               int64                `json:"timestamp"`
	Request                 *SignedChangeRequest `json:"change_request"`
}

// ComputeIdentifier returns the block identifier derived from the block's
// own fields.
func (b *Block) ComputeIdentifier() (string, error) {
	data, err := json.Marshal(&blockDigest{
		Number:                  b.Number,
		PreviousBlockIdentifier: b.PreviousBlockIdentifier,
		Timestamp:               b.Timestamp,
		Request:                 b.Request,
	})
	if err != nil {
		return "", err
	}
	return common.Sha3Hash(data), nil
}

// CreateBlock builds, hashes and signs the next block after head from an
// already validated change request. A nil head produces block 0 linked to
// the genesis sentinel. The timestamp is the current unix time in
// milliseconds, clamped so it never decreases across the chain.
func CreateBlock(head *Block, req *SignedChangeRequest, signingKey string) (*Block, error) {
	validator, err := crypto.AccountFromSigningKey(signingKey)
	if err != nil {
		return nil, err
	}
	b := &Block{
		Number:                  0,
		PreviousBlockIdentifier: GenesisPreviousIdentifier,
		Timestamp:               common.NowMilli(),
		Validator:               validator,
		Request:                 req,
	}
	if head != nil {
		b.Number = head.Number + 1
		b.PreviousBlockIdentifier = head.Identifier
		if b.Timestamp < head.Timestamp {
			b.Timestamp = head.Timestamp
		}
	}
	identifier, err := b.ComputeIdentifier()
	if err != nil {
		return nil, err
	}
	b.Identifier = identifier
	signature, err := crypto.Sign(signingKey, []byte(identifier))
	if err != nil {
		return nil, err
	}
	b.ValidatorSignature = signature
	return b, nil
}

// ValidateBlock checks a block against its expected predecessor: contiguous
// numbering, previous identifier linkage, timestamp ordering, identifier
// recomputation and the validator signature. expectedPrev is nil for block
// 0. The same validation runs on freshly created blocks and on every block
// loaded from durable storage.
func ValidateBlock(b *Block, expectedPrev *Block) error {
	if b.Request == nil {
		return ErrMissingRequest
	}
	if expectedPrev == nil {
		if b.Number != 0 {
			return ErrNonContiguousNumber
		}
		if b.PreviousBlockIdentifier != GenesisPreviousIdentifier {
			return ErrPreviousIdentifierMismatch
		}
	} else {
		if b.Number != expectedPrev.Number+1 {
			return ErrNonContiguousNumber
		}
		if b.PreviousBlockIdentifier != expectedPrev.Identifier {
			return ErrPreviousIdentifierMismatch
		}
		if b.Timestamp < expectedPrev.Timestamp {
			return ErrTimestampOutOfOrder
		}
	}
	identifier, err := b.ComputeIdentifier()
	if err != nil {
		return err
	}
	if identifier != b.Identifier {
		return ErrIdentifierMismatch
	}
	if !crypto.IsValidAccountNumber(b.Validator) {
		return ErrBadValidatorSignature
	}
	if !crypto.Verify(b.Validator, []byte(b.Identifier), b.ValidatorSignature) {
		return ErrBadValidatorSignature
	}
	return nil
}

// Encode serializes the block for durable storage. A block is all struct
// fields, no maps, so the default encoding is already deterministic.
func (b *Block) Encode() ([]byte, error) {
	return msgpack.Marshal(b)
}

// DecodeBlock deserializes a block artifact.
func DecodeBlock(data []byte) (*Block, error) {
	b := new(Block)
	if err := msgpack.Unmarshal(data, b); err != nil {
		return nil, err
	}
	return b, nil
}
