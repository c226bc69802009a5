// Package ledgerapi is the service facade between the transport layers
// (REST and JSON-RPC) and the chain engine. Handlers stay thin; every
// operation funnels through here so the engine is wired exactly once.
package ledgerapi

import (
	rpcjson "github.com/gorilla/rpc/v2/json2"

	"github.com/nishp77/thenewboston-node/ledger"
	"github.com/nishp77/thenewboston-node/log"
	"github.com/nishp77/thenewboston-node/params"
	"github.com/nishp77/thenewboston-node/tools/crypto"
)

var (
	blockchain *ledger.Blockchain
	signingKey string
	validator  string

	errNotInitialized = newRPCError(-32099, "ledger api is not initialized")
)

func newRPCError(ec rpcjson.ErrorCode, message string) error {
	return &rpcjson.Error{
		Code:    ec,
		Message: message,
	}
}

// Init wires the chain engine and the validator signing key into the api.
func Init(bc *ledger.Blockchain, validatorSigningKey string) error {
	account, err := crypto.AccountFromSigningKey(validatorSigningKey)
	if err != nil {
		return err
	}
	blockchain = bc
	signingKey = validatorSigningKey
	validator = account
	return nil
}

// GetServerInfo api
func GetServerInfo() (*ServerInfo, error) {
	log.Debug("[api] receive GetServerInfo")
	if blockchain == nil {
		return nil, errNotInitialized
	}
	return &ServerInfo{
		Identifier:      params.GetIdentifier(),
		Validator:       validator,
		ChainStatus:     blockchain.Status().String(),
		LastBlockNumber: blockchain.GetLastBlockNumber(),
		Snapshots:       blockchain.SnapshotNumbers(),
		Version:         params.VersionWithMeta,
	}, nil
}

// GetStateMeta api
func GetStateMeta(reference string) (*StateMeta, error) {
	log.Debug("[api] receive GetStateMeta", "reference", reference)
	if blockchain == nil {
		return nil, errNotInitialized
	}
	return blockchain.ResolveStateReference(reference)
}

// SubmitChangeRequest api
func SubmitChangeRequest(req *SignedChangeRequest) (*Block, error) {
	log.Debug("[api] receive SubmitChangeRequest", "signer", req.Signer, "requestType", string(req.RequestType))
	if blockchain == nil {
		return nil, errNotInitialized
	}
	block, err := blockchain.AddBlock(req, signingKey)
	if err != nil {
		return nil, err
	}
	log.Info("[api] change request accepted", "number", block.Number, "signer", req.Signer)
	return block, nil
}

// GetBlock api
func GetBlock(number int64) (*Block, error) {
	log.Debug("[api] receive GetBlock", "number", number)
	if blockchain == nil {
		return nil, errNotInitialized
	}
	return blockchain.GetBlock(number)
}

// GetHeadInfo api
func GetHeadInfo() (*HeadInfo, error) {
	log.Debug("[api] receive GetHeadInfo")
	if blockchain == nil {
		return nil, errNotInitialized
	}
	info := &HeadInfo{
		LastBlockNumber: blockchain.GetLastBlockNumber(),
		ChainStatus:     blockchain.Status().String(),
	}
	if head := blockchain.HeadBlock(); head != nil {
		info.Identifier = head.Identifier
	}
	if state := blockchain.CopyState(); state != nil {
		info.RootHash = state.RootHash
	}
	return info, nil
}

// GetAccountInfo api
func GetAccountInfo(account string) (*AccountInfo, error) {
	log.Debug("[api] receive GetAccountInfo", "account", account)
	if blockchain == nil {
		return nil, errNotInitialized
	}
	if !crypto.IsValidAccountNumber(account) {
		return nil, crypto.ErrInvalidAccountNumber
	}
	return &AccountInfo{
		AccountNumber: account,
		Balance:       blockchain.AccountBalance(account),
		BalanceLock:   blockchain.AccountBalanceLock(account),
		Node:          blockchain.NodeRecord(account),
	}, nil
}

// Snapshot api
func Snapshot() (*StateMeta, error) {
	log.Debug("[api] receive Snapshot")
	if blockchain == nil {
		return nil, errNotInitialized
	}
	return blockchain.SnapshotState()
}

// VerifyChain api
func VerifyChain() (*PostResult, error) {
	log.Debug("[api] receive VerifyChain")
	if blockchain == nil {
		return nil, errNotInitialized
	}
	if err := blockchain.VerifyChain(); err != nil {
		return nil, err
	}
	return &SuccessPostResult, nil
}
