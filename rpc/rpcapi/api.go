package rpcapi

import (
	"net/http"

	"github.com/nishp77/thenewboston-node/internal/ledgerapi"
	"github.com/nishp77/thenewboston-node/params"
)

// RPCAPI rpc api handler
type RPCAPI struct{}

// RPCNullArgs null args
type RPCNullArgs struct{}

// GetVersionInfo api
func (s *RPCAPI) GetVersionInfo(r *http.Request, args *RPCNullArgs, result *string) error {
	version := params.VersionWithMeta
	*result = version
	return nil
}

// GetServerInfo api
func (s *RPCAPI) GetServerInfo(r *http.Request, args *RPCNullArgs, result *ledgerapi.ServerInfo) error {
	res, err := ledgerapi.GetServerInfo()
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// GetStateMeta api
func (s *RPCAPI) GetStateMeta(r *http.Request, reference *string, result *ledgerapi.StateMeta) error {
	res, err := ledgerapi.GetStateMeta(*reference)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// SubmitChangeRequest api
func (s *RPCAPI) SubmitChangeRequest(r *http.Request, req *ledgerapi.SignedChangeRequest, result *ledgerapi.Block) error {
	res, err := ledgerapi.SubmitChangeRequest(req)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// GetBlock api
func (s *RPCAPI) GetBlock(r *http.Request, number *int64, result *ledgerapi.Block) error {
	res, err := ledgerapi.GetBlock(*number)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// GetHeadNumber api
func (s *RPCAPI) GetHeadNumber(r *http.Request, args *RPCNullArgs, result *int64) error {
	res, err := ledgerapi.GetHeadInfo()
	if err == nil && res != nil {
		*result = res.LastBlockNumber
	}
	return err
}

// GetHeadInfo api
func (s *RPCAPI) GetHeadInfo(r *http.Request, args *RPCNullArgs, result *ledgerapi.HeadInfo) error {
	res, err := ledgerapi.GetHeadInfo()
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// GetAccountInfo api
func (s *RPCAPI) GetAccountInfo(r *http.Request, account *string, result *ledgerapi.AccountInfo) error {
	res, err := ledgerapi.GetAccountInfo(*account)
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// Snapshot api
func (s *RPCAPI) Snapshot(r *http.Request, args *RPCNullArgs, result *ledgerapi.StateMeta) error {
	res, err := ledgerapi.Snapshot()
	if err == nil && res != nil {
		*result = *res
	}
	return err
}

// VerifyChain api
func (s *RPCAPI) VerifyChain(r *http.Request, args *RPCNullArgs, result *ledgerapi.PostResult) error {
	res, err := ledgerapi.VerifyChain()
	if err == nil && res != nil {
		*result = *res
	}
	return err
}
