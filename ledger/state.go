package ledger

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/nishp77/thenewboston-node/common"
	"github.com/nishp77/thenewboston-node/tools/crypto"
)

// GenesisBlockNumber is the virtual block number carried by the genesis
// state, one less than the first real block.
const GenesisBlockNumber int64 = -1

// AccountState is the balance and balance lock of a single account.
type AccountState struct {
	Balance     uint64 `json:"balance" msgpack:"balance"`
	BalanceLock string `json:"balance_lock" msgpack:"balance_lock"`
}

// Node is a validator node record declared through a node declaration
// change request, keyed in State.Nodes by the declaring account number.
type Node struct {
	NetworkAddresses []string `json:"network_addresses" msgpack:"network_addresses"`
	FeeAmount        uint64   `json:"fee_amount" msgpack:"fee_amount"`
	FeeAccount       string   `json:"fee_account,omitempty" msgpack:"fee_account,omitempty"`
}

// State is the materialized ledger state after applying all blocks up to
// and including LastBlockNumber. RootHash summarizes the whole state and is
// resealed after every mutation.
type State struct {
	LastBlockNumber int64                    `json:"last_block_number" msgpack:"last_block_number"`
	Accounts        map[string]*AccountState `json:"accounts" msgpack:"accounts"`
	Nodes           map[string]*Node         `json:"nodes" msgpack:"nodes"`
	RootHash        string                   `json:"root_hash" msgpack:"root_hash"`
}

// stateDigest is the root hash preimage, everything but the hash itself.
type stateDigest struct {
	LastBlockNumber int64                    `json:"last_block_number"`
	Accounts        map[string]*AccountState `json:"accounts"`
	Nodes           map[string]*Node         `json:"nodes"`
}

// NewGenesisState builds the initial state funding the treasury account.
func NewGenesisState(treasuryAccount string, treasuryBalance uint64) (*State, error) {
	if !crypto.IsValidAccountNumber(treasuryAccount) {
		return nil, crypto.ErrInvalidAccountNumber
	}
	s := &State{
		LastBlockNumber: GenesisBlockNumber,
		Accounts: map[string]*AccountState{
			treasuryAccount: {
				Balance:     treasuryBalance,
				BalanceLock: treasuryAccount,
			},
		},
		Nodes: make(map[string]*Node),
	}
	if err := s.SealRootHash(); err != nil {
		return nil, err
	}
	return s, nil
}

// ComputeRootHash returns the SHA3-256 hash of the canonical serialization
// of the state without its RootHash field.
func (s *State) ComputeRootHash() (string, error) {
	data, err := json.Marshal(&stateDigest{
		LastBlockNumber: s.LastBlockNumber,
		Accounts:        s.Accounts,
		Nodes:           s.Nodes,
	})
	if err != nil {
		return "", err
	}
	return common.Sha3Hash(data), nil
}

// SealRootHash recomputes and stores the root hash.
func (s *State) SealRootHash() error {
	hash, err := s.ComputeRootHash()
	if err != nil {
		return err
	}
	s.RootHash = hash
	return nil
}

// VerifyRootHash recomputes the root hash and compares it with the stored
// value, returning ErrRootHashMismatch on divergence.
func (s *State) VerifyRootHash() error {
	hash, err := s.ComputeRootHash()
	if err != nil {
		return err
	}
	if hash != s.RootHash {
		return ErrRootHashMismatch
	}
	return nil
}

// AccountBalance returns the balance of the given account, zero when the
// account does not exist.
func (s *State) AccountBalance(account string) uint64 {
	if as, ok := s.Accounts[account]; ok {
		return as.Balance
	}
	return 0
}

// AccountBalanceLock returns the effective balance lock of the given
// account. An account that has never appeared in the state is locked by its
// own account number.
func (s *State) AccountBalanceLock(account string) string {
	if as, ok := s.Accounts[account]; ok && as.BalanceLock != "" {
		return as.BalanceLock
	}
	return account
}

// ValidateRequest checks the state dependent admission rules for a change
// request that already passed ValidateChangeRequest.
func (s *State) ValidateRequest(r *SignedChangeRequest) error {
	switch r.RequestType {
	case RequestNodeDeclaration:
		return nil
	case RequestCoinTransfer:
		acct, ok := s.Accounts[r.Signer]
		if !ok {
			return ErrUnknownSender
		}
		if r.CoinTransfer.BalanceLock != s.AccountBalanceLock(r.Signer) {
			return ErrBalanceLockMismatch
		}
		var total uint64
		for _, tx := range r.CoinTransfer.Transactions {
			if tx.Amount > math.MaxUint64-total {
				return ErrInvalidAmount
			}
			total += tx.Amount
		}
		if total > acct.Balance {
			return ErrInsufficientFunds
		}
		return nil
	}
	return ErrUnknownRequestType
}

// ApplyBlock transitions the state by one block. The block's request must
// already be admissible; admission is re-checked so a bad block can never
// leave the state half mutated.
func (s *State) ApplyBlock(b *Block) error {
	if b.Number != s.LastBlockNumber+1 {
		return ErrNonContiguousNumber
	}
	req := b.Request
	if err := s.ValidateRequest(req); err != nil {
		return err
	}
	switch req.RequestType {
	case RequestNodeDeclaration:
		m := req.NodeDeclaration
		addresses := make([]string, len(m.NetworkAddresses))
		copy(addresses, m.NetworkAddresses)
		s.Nodes[req.Signer] = &Node{
			NetworkAddresses: addresses,
			FeeAmount:        m.FeeAmount,
			FeeAccount:       m.FeeAccount,
		}
	case RequestCoinTransfer:
		m := req.CoinTransfer
		lock, err := req.MessageHash()
		if err != nil {
			return err
		}
		sender := s.Accounts[req.Signer]
		sender.Balance -= m.TotalAmount()
		sender.BalanceLock = lock
		for _, tx := range m.Transactions {
			recipient, ok := s.Accounts[tx.Recipient]
			if !ok {
				recipient = &AccountState{BalanceLock: tx.Recipient}
				s.Accounts[tx.Recipient] = recipient
			}
			recipient.Balance += tx.Amount
		}
	}
	s.LastBlockNumber = b.Number
	return s.SealRootHash()
}

// Copy returns a deep copy safe to mutate independently.
func (s *State) Copy() *State {
	c := &State{
		LastBlockNumber: s.LastBlockNumber,
		Accounts:        make(map[string]*AccountState, len(s.Accounts)),
		Nodes:           make(map[string]*Node, len(s.Nodes)),
		RootHash:        s.RootHash,
	}
	for account, as := range s.Accounts {
		dup := *as
		c.Accounts[account] = &dup
	}
	for id, n := range s.Nodes {
		addresses := make([]string, len(n.NetworkAddresses))
		copy(addresses, n.NetworkAddresses)
		c.Nodes[id] = &Node{
			NetworkAddresses: addresses,
			FeeAmount:        n.FeeAmount,
			FeeAccount:       n.FeeAccount,
		}
	}
	return c
}

// Encode serializes the state with deterministic map ordering so that
// snapshots of the same state are byte identical.
func (s *State) Encode() ([]byte, error) {
	return msgpack.Marshal(s)
}

// EncodeMsgpack implements msgpack.CustomEncoder. The account and node
// maps are written in sorted key order; the library's SetSortMapKeys only
// covers untyped string maps, so typed maps would otherwise serialize in
// Go's randomized iteration order and break snapshot idempotence.
func (s *State) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(4); err != nil {
		return err
	}
	if err := enc.EncodeString("last_block_number"); err != nil {
		return err
	}
	if err := enc.EncodeInt(s.LastBlockNumber); err != nil {
		return err
	}
	if err := enc.EncodeString("accounts"); err != nil {
		return err
	}
	if err := enc.EncodeMapLen(len(s.Accounts)); err != nil {
		return err
	}
	accounts := make([]string, 0, len(s.Accounts))
	for account := range s.Accounts {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)
	for _, account := range accounts {
		if err := enc.EncodeString(account); err != nil {
			return err
		}
		if err := enc.Encode(s.Accounts[account]); err != nil {
			return err
		}
	}
	if err := enc.EncodeString("nodes"); err != nil {
		return err
	}
	if err := enc.EncodeMapLen(len(s.Nodes)); err != nil {
		return err
	}
	nodes := make([]string, 0, len(s.Nodes))
	for id := range s.Nodes {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)
	for _, id := range nodes {
		if err := enc.EncodeString(id); err != nil {
			return err
		}
		if err := enc.Encode(s.Nodes[id]); err != nil {
			return err
		}
	}
	if err := enc.EncodeString("root_hash"); err != nil {
		return err
	}
	return enc.EncodeString(s.RootHash)
}

// DecodeMsgpack implements msgpack.CustomDecoder, accepting the fields in
// any order so artifacts stay readable however they were produced.
func (s *State) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return err
		}
		switch key {
		case "last_block_number":
			s.LastBlockNumber, err = dec.DecodeInt64()
		case "accounts":
			err = dec.Decode(&s.Accounts)
		case "nodes":
			err = dec.Decode(&s.Nodes)
		case "root_hash":
			s.RootHash, err = dec.DecodeString()
		default:
			err = dec.Skip()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// DecodeState deserializes a state artifact.
func DecodeState(data []byte) (*State, error) {
	s := new(State)
	if err := msgpack.Unmarshal(data, s); err != nil {
		return nil, err
	}
	if s.Accounts == nil {
		s.Accounts = make(map[string]*AccountState)
	}
	if s.Nodes == nil {
		s.Nodes = make(map[string]*Node)
	}
	return s, nil
}
