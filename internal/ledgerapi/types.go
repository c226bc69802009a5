package ledgerapi

import (
	"github.com/nishp77/thenewboston-node/filestore"
	"github.com/nishp77/thenewboston-node/ledger"
)

// StateMeta type alias
type StateMeta = filestore.StateMeta

// Block type alias
type Block = ledger.Block

// SignedChangeRequest type alias
type SignedChangeRequest = ledger.SignedChangeRequest

// ServerInfo server info
type ServerInfo struct {
	Identifier      string  `json:"identifier"`
	Validator       string  `json:"validator"`
	ChainStatus     string  `json:"chain_status"`
	LastBlockNumber int64   `json:"last_block_number"`
	Snapshots       []int64 `json:"snapshots"`
	Version         string  `json:"version"`
}

// HeadInfo head block info
type HeadInfo struct {
	LastBlockNumber int64  `json:"last_block_number"`
	Identifier      string `json:"identifier,omitempty"`
	RootHash        string `json:"root_hash"`
	ChainStatus     string `json:"chain_status"`
}

// AccountInfo account info
type AccountInfo struct {
	AccountNumber string       `json:"account_number"`
	Balance       uint64       `json:"balance"`
	BalanceLock   string       `json:"balance_lock"`
	Node          *ledger.Node `json:"node,omitempty"`
}

// PostResult post result
type PostResult string

// SuccessPostResult success post result
var SuccessPostResult PostResult = "Success"
