package ledger

import (
	"encoding/json"
	"net/url"

	"github.com/nishp77/thenewboston-node/common"
	"github.com/nishp77/thenewboston-node/tools/crypto"
)

// RequestType discriminates the payload carried by a SignedChangeRequest.
type RequestType string

// supported change request types
const (
	RequestNodeDeclaration RequestType = "node-declaration"
	RequestCoinTransfer    RequestType = "coin-transfer"
)

// NodeDeclarationMessage registers or updates the signer's node record.
type NodeDeclarationMessage struct {
	NetworkAddresses []string `json:"network_addresses" msgpack:"network_addresses"`
	FeeAmount        uint64   `json:"fee_amount" msgpack:"fee_amount"`
	FeeAccount       string   `json:"fee_account,omitempty" msgpack:"fee_account,omitempty"`
}

// Transaction is a single output of a coin transfer.
type Transaction struct {
	Recipient string `json:"recipient" msgpack:"recipient"`
	Amount    uint64 `json:"amount" msgpack:"amount"`
	IsFee     bool   `json:"is_fee,omitempty" msgpack:"is_fee,omitempty"`
	Memo      string `json:"memo,omitempty" msgpack:"memo,omitempty"`
}

// CoinTransferMessage moves coins from the signer to one or more recipients.
// BalanceLock must equal the signer's current lock for the transfer to be
// admitted, and admitting it rotates the lock to the message hash.
type CoinTransferMessage struct {
	BalanceLock  string        `json:"balance_lock" msgpack:"balance_lock"`
	Transactions []Transaction `json:"transactions" msgpack:"transactions"`
}

// TotalAmount returns the sum of all transaction amounts.
func (m *CoinTransferMessage) TotalAmount() uint64 {
	var total uint64
	for _, tx := range m.Transactions {
		total += tx.Amount
	}
	return total
}

// SignedChangeRequest is the unit of mutation accepted by the blockchain.
// Exactly one of NodeDeclaration and CoinTransfer is set, matching
// RequestType, and Signature covers the canonical message bytes.
type SignedChangeRequest struct {
	Signer          string                  `json:"signer" msgpack:"signer"`
	RequestType     RequestType             `json:"request_type" msgpack:"request_type"`
	NodeDeclaration *NodeDeclarationMessage `json:"node_declaration,omitempty" msgpack:"node_declaration,omitempty"`
	CoinTransfer    *CoinTransferMessage    `json:"coin_transfer,omitempty" msgpack:"coin_transfer,omitempty"`
	Signature       string                  `json:"signature" msgpack:"signature"`
}

// signedPayload is the portion of a request covered by its signature.
type signedPayload struct {
	RequestType     RequestType             `json:"request_type"`
	NodeDeclaration *NodeDeclarationMessage `json:"node_declaration,omitempty"`
	CoinTransfer    *CoinTransferMessage    `json:"coin_transfer,omitempty"`
}

// CanonicalMessage returns the deterministic byte serialization of the
// request type and payload. The same bytes are signed by the requester and
// hashed for balance lock rotation.
func (r *SignedChangeRequest) CanonicalMessage() ([]byte, error) {
	return json.Marshal(&signedPayload{
		RequestType:     r.RequestType,
		NodeDeclaration: r.NodeDeclaration,
		CoinTransfer:    r.CoinTransfer,
	})
}

// MessageHash returns the SHA3-256 hash of the canonical message bytes.
func (r *SignedChangeRequest) MessageHash() (string, error) {
	message, err := r.CanonicalMessage()
	if err != nil {
		return "", err
	}
	return common.Sha3Hash(message), nil
}

// Sign computes and stores the signature of the canonical message with the
// given signing key, setting Signer to the derived account number.
func (r *SignedChangeRequest) Sign(signingKey string) error {
	account, err := crypto.AccountFromSigningKey(signingKey)
	if err != nil {
		return err
	}
	r.Signer = account
	message, err := r.CanonicalMessage()
	if err != nil {
		return err
	}
	signature, err := crypto.Sign(signingKey, message)
	if err != nil {
		return err
	}
	r.Signature = signature
	return nil
}

// NewNodeDeclarationRequest builds and signs a node declaration request.
func NewNodeDeclarationRequest(signingKey string, networkAddresses []string, feeAmount uint64, feeAccount string) (*SignedChangeRequest, error) {
	if networkAddresses == nil {
		networkAddresses = []string{}
	}
	req := &SignedChangeRequest{
		RequestType: RequestNodeDeclaration,
		NodeDeclaration: &NodeDeclarationMessage{
			NetworkAddresses: networkAddresses,
			FeeAmount:        feeAmount,
			FeeAccount:       feeAccount,
		},
	}
	if err := req.Sign(signingKey); err != nil {
		return nil, err
	}
	if err := ValidateChangeRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// NewCoinTransferRequest builds and signs a coin transfer request carrying
// the given balance lock.
func NewCoinTransferRequest(signingKey, balanceLock string, transactions []Transaction) (*SignedChangeRequest, error) {
	req := &SignedChangeRequest{
		RequestType: RequestCoinTransfer,
		CoinTransfer: &CoinTransferMessage{
			BalanceLock:  balanceLock,
			Transactions: transactions,
		},
	}
	if err := req.Sign(signingKey); err != nil {
		return nil, err
	}
	if err := ValidateChangeRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// ValidateChangeRequest checks everything about a request that does not
// depend on ledger state: type and payload shape, field formats and the
// signature. State dependent admission rules are checked separately by
// State.ValidateRequest.
func ValidateChangeRequest(r *SignedChangeRequest) error {
	switch r.RequestType {
	case RequestNodeDeclaration:
		if r.NodeDeclaration == nil || r.CoinTransfer != nil {
			return ErrMessageMismatch
		}
		if err := validateNodeDeclaration(r.NodeDeclaration); err != nil {
			return err
		}
	case RequestCoinTransfer:
		if r.CoinTransfer == nil || r.NodeDeclaration != nil {
			return ErrMessageMismatch
		}
		if err := validateCoinTransfer(r.CoinTransfer); err != nil {
			return err
		}
	default:
		return ErrUnknownRequestType
	}
	if !crypto.IsValidAccountNumber(r.Signer) {
		return ErrInvalidSigner
	}
	message, err := r.CanonicalMessage()
	if err != nil {
		return err
	}
	if !crypto.Verify(r.Signer, message, r.Signature) {
		return ErrInvalidSignature
	}
	return nil
}

func validateNodeDeclaration(m *NodeDeclarationMessage) error {
	for _, addr := range m.NetworkAddresses {
		if !isValidNetworkAddress(addr) {
			return ErrInvalidNetworkAddress
		}
	}
	if m.FeeAccount != "" && !crypto.IsValidAccountNumber(m.FeeAccount) {
		return ErrInvalidFeeAccount
	}
	return nil
}

func validateCoinTransfer(m *CoinTransferMessage) error {
	if len(m.Transactions) == 0 {
		return ErrNoTransactions
	}
	for _, tx := range m.Transactions {
		if tx.Amount == 0 {
			return ErrInvalidAmount
		}
		if !crypto.IsValidAccountNumber(tx.Recipient) {
			return ErrInvalidRecipient
		}
	}
	if !common.IsHexString(m.BalanceLock, common.HexHashLength) {
		return ErrInvalidBalanceLock
	}
	return nil
}

func isValidNetworkAddress(addr string) bool {
	u, err := url.Parse(addr)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
