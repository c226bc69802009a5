package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nishp77/thenewboston-node/chainindex"
	"github.com/nishp77/thenewboston-node/filestore"
	"github.com/nishp77/thenewboston-node/internal/ledgerapi"
	"github.com/nishp77/thenewboston-node/ledger"
	"github.com/nishp77/thenewboston-node/params"
	"github.com/nishp77/thenewboston-node/tools/crypto"
)

const genesisStatePath = "/blockchain/blockchain-states/0/0/0/0/0/0/0/0/000000000!-blockchain-state.msgpack"

type testNode struct {
	router       http.Handler
	bc           *ledger.Blockchain
	treasuryKey  string
	treasury     string
	validatorKey string
}

func newTestNode(t *testing.T) *testNode {
	t.Helper()
	dataDir := t.TempDir()
	params.SetConfig(&params.NodeConfig{
		Identifier: "test-node",
		APIServer:  &params.APIServerConfig{Port: 8555},
	})
	params.SetDataDir(dataDir)

	store, err := filestore.NewStore(params.GetBlockchainDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	index, err := chainindex.Open(params.GetChainIndexDir(), 16, 16)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { _ = index.Close() })

	mirrors := filestore.NewMirrorRegistry([]string{"http://localhost:8555"})
	bc := ledger.NewBlockchain(store, index, mirrors)

	treasuryKey, treasury, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate treasury key: %v", err)
	}
	genesis, err := ledger.NewGenesisState(treasury, 1000)
	if err != nil {
		t.Fatalf("genesis state: %v", err)
	}
	if err := bc.Load(genesis); err != nil {
		t.Fatalf("load blockchain: %v", err)
	}

	validatorKey, _, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate validator key: %v", err)
	}
	if err := ledgerapi.Init(bc, validatorKey); err != nil {
		t.Fatalf("init ledgerapi: %v", err)
	}

	return &testNode{
		router:       initRouter(),
		bc:           bc,
		treasuryKey:  treasuryKey,
		treasury:     treasury,
		validatorKey: validatorKey,
	}
}

func (n *testNode) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	n.router.ServeHTTP(rec, req)
	return rec
}

func (n *testNode) submitTransfer(t *testing.T, recipient string, amount uint64) *ledger.Block {
	t.Helper()
	lock := n.bc.AccountBalanceLock(n.treasury)
	req, err := ledger.NewCoinTransferRequest(n.treasuryKey, lock, []ledger.Transaction{
		{Recipient: recipient, Amount: amount},
	})
	if err != nil {
		t.Fatalf("build transfer: %v", err)
	}
	rec := n.do(t, "POST", "/api/v1/signed-change-requests/", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit transfer: status %v body %v", rec.Code, rec.Body.String())
	}
	var block ledger.Block
	if err := json.Unmarshal(rec.Body.Bytes(), &block); err != nil {
		t.Fatalf("decode block response: %v", err)
	}
	return &block
}

func TestStateMetaContract(t *testing.T) {
	node := newTestNode(t)

	wantMeta := map[string]interface{}{
		"last_block_number": float64(-1),
		"url_path":          genesisStatePath,
		"urls":              []interface{}{"http://localhost:8555" + genesisStatePath},
	}

	for _, reference := range []string{"-1", "null", "genesis"} {
		rec := node.do(t, "GET", "/api/v1/blockchain-states-meta/"+reference+"/", nil)
		assert.Equal(t, http.StatusOK, rec.Code, "reference %q", reference)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var got map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, wantMeta, got, "reference %q", reference)
	}

	for _, reference := range []string{"-2", "0", "999", "NULL", "Genesis", "invalid_id", "0x1"} {
		rec := node.do(t, "GET", "/api/v1/blockchain-states-meta/"+reference+"/", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "reference %q", reference)
	}
}

func TestStateMetaResolvesLatestSnapshot(t *testing.T) {
	node := newTestNode(t)

	_, account, err := crypto.GenerateKey()
	assert.NoError(t, err)
	node.submitTransfer(t, account, 10)

	_, err = node.bc.SnapshotState()
	assert.NoError(t, err)

	rec := node.do(t, "GET", "/api/v1/blockchain-states-meta/0/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var meta filestore.StateMeta
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	assert.Equal(t, int64(0), meta.LastBlockNumber)
	assert.Equal(t, "/blockchain/blockchain-states/0/0/0/0/0/0/0/0/000000001!-blockchain-state.msgpack", meta.URLPath)

	// beyond the head is unresolvable even as a plain integer
	rec = node.do(t, "GET", "/api/v1/blockchain-states-meta/1/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitChangeRequest(t *testing.T) {
	node := newTestNode(t)

	_, account, err := crypto.GenerateKey()
	assert.NoError(t, err)

	block := node.submitTransfer(t, account, 250)
	assert.Equal(t, int64(0), block.Number)
	assert.NotEmpty(t, block.Identifier)
	assert.Equal(t, uint64(250), node.bc.AccountBalance(account))
	assert.Equal(t, uint64(750), node.bc.AccountBalance(node.treasury))

	// replaying the same request must be refused with a client error
	lock := node.treasury
	replay, err := ledger.NewCoinTransferRequest(node.treasuryKey, lock, []ledger.Transaction{
		{Recipient: account, Amount: 250},
	})
	assert.NoError(t, err)
	rec := node.do(t, "POST", "/api/v1/signed-change-requests/", replay)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "balance lock")

	rec = node.do(t, "POST", "/api/v1/signed-change-requests/", map[string]string{"signer": "junk"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest("POST", "/api/v1/signed-change-requests/", bytes.NewReader([]byte("{not json")))
	rec2 := httptest.NewRecorder()
	node.router.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestGetBlockAndHead(t *testing.T) {
	node := newTestNode(t)

	rec := node.do(t, "GET", "/api/v1/head/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var head ledgerapi.HeadInfo
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &head))
	assert.Equal(t, int64(-1), head.LastBlockNumber)
	assert.Equal(t, "empty", head.ChainStatus)

	_, account, err := crypto.GenerateKey()
	assert.NoError(t, err)
	appended := node.submitTransfer(t, account, 40)

	rec = node.do(t, "GET", "/api/v1/blocks/0/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var block ledger.Block
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &block))
	assert.Equal(t, appended.Identifier, block.Identifier)

	for _, path := range []string{"/api/v1/blocks/1/", "/api/v1/blocks/-1/", "/api/v1/blocks/abc/"} {
		rec = node.do(t, "GET", path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "path %q", path)
	}

	rec = node.do(t, "GET", "/api/v1/head/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &head))
	assert.Equal(t, int64(0), head.LastBlockNumber)
	assert.Equal(t, appended.Identifier, head.Identifier)
}

func TestServerAndAccountInfo(t *testing.T) {
	node := newTestNode(t)

	rec := node.do(t, "GET", "/serverinfo", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var info ledgerapi.ServerInfo
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "test-node", info.Identifier)
	assert.Equal(t, []int64{-1}, info.Snapshots)

	rec = node.do(t, "GET", "/versioninfo", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = node.do(t, "GET", "/api/v1/accounts/"+node.treasury+"/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var acct ledgerapi.AccountInfo
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &acct))
	assert.Equal(t, uint64(1000), acct.Balance)
	assert.Equal(t, node.treasury, acct.BalanceLock)

	rec = node.do(t, "GET", "/api/v1/accounts/zz/", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// wrong method answers with the warn text instead of a rest result
	rec = node.do(t, "POST", "/serverinfo", nil)
	assert.Contains(t, rec.Body.String(), "Forbid")
}

func TestStaticArtifactServing(t *testing.T) {
	node := newTestNode(t)

	rec := node.do(t, "GET", genesisStatePath, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	state, err := ledger.DecodeState(rec.Body.Bytes())
	assert.NoError(t, err)
	assert.Equal(t, int64(-1), state.LastBlockNumber)
	assert.NoError(t, state.VerifyRootHash())
	assert.Equal(t, uint64(1000), state.AccountBalance(node.treasury))

	rec = node.do(t, "GET", "/blockchain/blockchain-states/0/0/0/0/0/0/0/0/000000009!-blockchain-state.msgpack", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJSONRPCMirror(t *testing.T) {
	node := newTestNode(t)

	call := func(method string, paramsObj interface{}) map[string]interface{} {
		body := map[string]interface{}{
			"jsonrpc": "2.0",
			"method":  method,
			"id":      1,
		}
		if paramsObj != nil {
			body["params"] = paramsObj
		}
		rec := node.do(t, "POST", "/rpc", body)
		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	resp := call("tnb.GetServerInfo", map[string]interface{}{})
	result, ok := resp["result"].(map[string]interface{})
	if assert.True(t, ok, "rpc response: %v", resp) {
		assert.Equal(t, "test-node", result["identifier"])
	}

	resp = call("tnb.GetStateMeta", "genesis")
	result, ok = resp["result"].(map[string]interface{})
	if assert.True(t, ok, "rpc response: %v", resp) {
		assert.Equal(t, genesisStatePath, result["url_path"])
	}

	resp = call("tnb.GetStateMeta", "nope")
	assert.NotNil(t, resp["error"], "unresolvable reference must error")

	resp = call("tnb.GetHeadNumber", map[string]interface{}{})
	assert.Equal(t, float64(-1), resp["result"])
}

func TestValidatorSignsAppendedBlocks(t *testing.T) {
	node := newTestNode(t)

	_, account, err := crypto.GenerateKey()
	assert.NoError(t, err)
	block := node.submitTransfer(t, account, 5)

	validator, err := crypto.AccountFromSigningKey(node.validatorKey)
	assert.NoError(t, err)
	assert.Equal(t, validator, block.Validator)
	assert.True(t, crypto.Verify(validator, []byte(block.Identifier), block.ValidatorSignature))
}
