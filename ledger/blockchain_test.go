package ledger

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nishp77/thenewboston-node/chainindex"
	"github.com/nishp77/thenewboston-node/filestore"
	"github.com/nishp77/thenewboston-node/tools/crypto"
)

type chainFixture struct {
	bc              *Blockchain
	store           *filestore.Store
	index           *chainindex.Index
	dir             string
	treasuryKey     string
	treasuryAccount string
	validatorKey    string
}

func newChainFixture(t *testing.T) *chainFixture {
	t.Helper()
	dir := t.TempDir()
	treasuryKey, treasuryAccount, err := crypto.GenerateKey()
	assert.Nil(t, err)
	validatorKey, _, err := crypto.GenerateKey()
	assert.Nil(t, err)
	f := &chainFixture{
		dir:             dir,
		treasuryKey:     treasuryKey,
		treasuryAccount: treasuryAccount,
		validatorKey:    validatorKey,
	}
	f.open(t)
	return f
}

// open loads a blockchain over the fixture directory, reusable to simulate
// process restarts.
func (f *chainFixture) open(t *testing.T) {
	t.Helper()
	if f.index != nil {
		assert.Nil(t, f.index.Close())
	}
	store, err := filestore.NewStore(filepath.Join(f.dir, "blockchain"))
	assert.Nil(t, err)
	index, err := chainindex.Open(filepath.Join(f.dir, "chainindex"), 16, 16)
	assert.Nil(t, err)
	t.Cleanup(func() { index.Close() })
	f.store = store
	f.index = index
	f.bc = NewBlockchain(store, index, filestore.NewMirrorRegistry([]string{"http://localhost:8555"}))
}

func (f *chainFixture) genesis(t *testing.T) *State {
	t.Helper()
	state, err := NewGenesisState(f.treasuryAccount, 1000000)
	assert.Nil(t, err)
	return state
}

func (f *chainFixture) load(t *testing.T) {
	t.Helper()
	assert.Nil(t, f.bc.Load(f.genesis(t)))
}

func (f *chainFixture) transfer(t *testing.T, amount uint64, recipient string) *Block {
	t.Helper()
	req, err := NewCoinTransferRequest(f.treasuryKey, f.bc.AccountBalanceLock(f.treasuryAccount),
		[]Transaction{{Recipient: recipient, Amount: amount}})
	assert.Nil(t, err)
	block, err := f.bc.AddBlock(req, f.validatorKey)
	assert.Nil(t, err)
	return block
}

func TestLoadInitializesEmptyChain(t *testing.T) {
	f := newChainFixture(t)
	f.load(t)

	assert.Equal(t, StatusEmpty, f.bc.Status())
	assert.Equal(t, GenesisBlockNumber, f.bc.GetLastBlockNumber())
	assert.Nil(t, f.bc.HeadBlock())
	assert.Equal(t, []int64{-1}, f.bc.SnapshotNumbers())

	// the mandatory genesis snapshot is durable immediately
	p, err := filestore.SnapshotPath(GenesisBlockNumber)
	assert.Nil(t, err)
	assert.True(t, f.store.Has(p))
}

func TestAddBlockGrowsContiguousChain(t *testing.T) {
	f := newChainFixture(t)
	f.load(t)
	_, recipient, err := crypto.GenerateKey()
	assert.Nil(t, err)

	declaration, err := NewNodeDeclarationRequest(f.treasuryKey, []string{"https://node.example.com"}, 3, "")
	assert.Nil(t, err)
	b0, err := f.bc.AddBlock(declaration, f.validatorKey)
	assert.Nil(t, err)
	b1 := f.transfer(t, 100, recipient)
	b2 := f.transfer(t, 50, recipient)

	assert.Equal(t, StatusGrowing, f.bc.Status())
	assert.Equal(t, int64(2), f.bc.GetLastBlockNumber())
	assert.Equal(t, int64(0), b0.Number)
	assert.Equal(t, int64(1), b1.Number)
	assert.Equal(t, int64(2), b2.Number)
	assert.Equal(t, GenesisPreviousIdentifier, b0.PreviousBlockIdentifier)
	assert.Equal(t, b0.Identifier, b1.PreviousBlockIdentifier)
	assert.Equal(t, b1.Identifier, b2.PreviousBlockIdentifier)
	assert.True(t, b1.Timestamp >= b0.Timestamp)
	assert.True(t, b2.Timestamp >= b1.Timestamp)

	assert.Equal(t, uint64(150), f.bc.AccountBalance(recipient))
	assert.Equal(t, uint64(999850), f.bc.AccountBalance(f.treasuryAccount))
	node := f.bc.NodeRecord(f.treasuryAccount)
	assert.NotNil(t, node)
	assert.Equal(t, uint64(3), node.FeeAmount)

	got, err := f.bc.GetBlock(1)
	assert.Nil(t, err)
	assert.Equal(t, b1.Identifier, got.Identifier)

	identifier, err := f.bc.GetBlockIdentifier(2)
	assert.Nil(t, err)
	assert.Equal(t, b2.Identifier, identifier)

	_, err = f.bc.GetBlock(3)
	assert.Equal(t, ErrNotFound, err)
}

func TestAddBlockRejectsReplay(t *testing.T) {
	f := newChainFixture(t)
	f.load(t)
	_, recipient, err := crypto.GenerateKey()
	assert.Nil(t, err)

	req, err := NewCoinTransferRequest(f.treasuryKey, f.bc.AccountBalanceLock(f.treasuryAccount),
		[]Transaction{{Recipient: recipient, Amount: 10}})
	assert.Nil(t, err)

	_, err = f.bc.AddBlock(req, f.validatorKey)
	assert.Nil(t, err)

	// the lock rotated, replaying the same request must fail
	_, err = f.bc.AddBlock(req, f.validatorKey)
	assert.Equal(t, ErrBalanceLockMismatch, err)
	assert.Equal(t, int64(0), f.bc.GetLastBlockNumber())
	assert.Equal(t, uint64(10), f.bc.AccountBalance(recipient))
}

func TestRejectedRequestLeavesChainUntouched(t *testing.T) {
	f := newChainFixture(t)
	f.load(t)
	_, recipient, err := crypto.GenerateKey()
	assert.Nil(t, err)

	rootBefore := f.bc.CopyState().RootHash
	req, err := NewCoinTransferRequest(f.treasuryKey, f.bc.AccountBalanceLock(f.treasuryAccount),
		[]Transaction{{Recipient: recipient, Amount: 2000000}})
	assert.Nil(t, err)

	_, err = f.bc.AddBlock(req, f.validatorKey)
	assert.Equal(t, ErrInsufficientFunds, err)
	assert.Equal(t, GenesisBlockNumber, f.bc.GetLastBlockNumber())
	assert.Equal(t, StatusEmpty, f.bc.Status())
	assert.Equal(t, rootBefore, f.bc.CopyState().RootHash)
}

func TestSnapshotStateIsIdempotent(t *testing.T) {
	f := newChainFixture(t)
	f.load(t)
	_, recipient, err := crypto.GenerateKey()
	assert.Nil(t, err)
	f.transfer(t, 10, recipient)

	meta1, err := f.bc.SnapshotState()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), meta1.LastBlockNumber)

	p, err := filestore.SnapshotPath(0)
	assert.Nil(t, err)
	first, err := f.store.Read(p)
	assert.Nil(t, err)

	meta2, err := f.bc.SnapshotState()
	assert.Nil(t, err)
	assert.Equal(t, meta1, meta2)

	second, err := f.store.Read(p)
	assert.Nil(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, []int64{-1, 0}, f.bc.SnapshotNumbers())
}

func TestResolveStateReference(t *testing.T) {
	f := newChainFixture(t)
	f.load(t)

	// the genesis aliases, including surrounding whitespace
	for _, reference := range []string{"-1", "null", "genesis", " null "} {
		meta, err := f.bc.ResolveStateReference(reference)
		assert.Nil(t, err, "reference %q", reference)
		assert.Equal(t, GenesisBlockNumber, meta.LastBlockNumber)
		assert.Equal(t, "/blockchain/blockchain-states/0/0/0/0/0/0/0/0/000000000!-blockchain-state.msgpack", meta.URLPath)
		assert.Equal(t, []string{"http://localhost:8555/blockchain/blockchain-states/0/0/0/0/0/0/0/0/000000000!-blockchain-state.msgpack"}, meta.URLs)
	}

	// case variants of the aliases do not resolve
	for _, reference := range []string{"-2", "invalid_id", "0", "999", "NULL", "Genesis"} {
		_, err := f.bc.ResolveStateReference(reference)
		assert.Equal(t, ErrNotFound, err, "reference %q", reference)
	}

	// a snapshot at the head resolves by its exact last block number
	_, recipient, err := crypto.GenerateKey()
	assert.Nil(t, err)
	f.transfer(t, 10, recipient)
	_, err = f.bc.SnapshotState()
	assert.Nil(t, err)

	head := f.bc.GetLastBlockNumber()
	meta, err := f.bc.ResolveStateReference(strconv.FormatInt(head, 10))
	assert.Nil(t, err)
	assert.Equal(t, head, meta.LastBlockNumber)
	assert.Equal(t, "/blockchain/blockchain-states/0/0/0/0/0/0/0/0/000000001!-blockchain-state.msgpack", meta.URLPath)

	// beyond the head stays unresolvable
	_, err = f.bc.ResolveStateReference(strconv.FormatInt(head+1, 10))
	assert.Equal(t, ErrNotFound, err)
}

func TestGenesisMetaEndToEnd(t *testing.T) {
	f := newChainFixture(t)
	f.load(t)

	meta, err := f.bc.SnapshotState()
	assert.Nil(t, err)
	assert.Equal(t, GenesisBlockNumber, meta.LastBlockNumber)
	assert.Equal(t, "/blockchain/blockchain-states/0/0/0/0/0/0/0/0/000000000!-blockchain-state.msgpack", meta.URLPath)

	// one declaration with no addresses and fee 3, then a snapshot
	declaration, err := NewNodeDeclarationRequest(f.treasuryKey, nil, 3, "")
	assert.Nil(t, err)
	block, err := f.bc.AddBlock(declaration, f.validatorKey)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), block.Number)

	published, err := f.bc.SnapshotState()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), published.LastBlockNumber)

	resolved, err := f.bc.ResolveStateReference("0")
	assert.Nil(t, err)
	assert.Equal(t, published, resolved)
}

func TestReloadReproducesState(t *testing.T) {
	f := newChainFixture(t)
	f.load(t)
	_, recipient, err := crypto.GenerateKey()
	assert.Nil(t, err)

	declaration, err := NewNodeDeclarationRequest(f.treasuryKey, []string{"https://node.example.com"}, 3, "")
	assert.Nil(t, err)
	_, err = f.bc.AddBlock(declaration, f.validatorKey)
	assert.Nil(t, err)
	f.transfer(t, 100, recipient)
	_, err = f.bc.SnapshotState()
	assert.Nil(t, err)
	f.transfer(t, 50, recipient)

	rootBefore := f.bc.CopyState().RootHash
	headBefore := f.bc.HeadBlock().Identifier

	// applying the same ordered blocks on a fresh process yields an
	// identical state
	f.open(t)
	f.load(t)

	assert.Equal(t, StatusGrowing, f.bc.Status())
	assert.Equal(t, int64(2), f.bc.GetLastBlockNumber())
	assert.Equal(t, rootBefore, f.bc.CopyState().RootHash)
	assert.Equal(t, headBefore, f.bc.HeadBlock().Identifier)
	assert.Equal(t, uint64(150), f.bc.AccountBalance(recipient))
	assert.Equal(t, []int64{-1, 1}, f.bc.SnapshotNumbers())
	assert.Nil(t, f.bc.VerifyChain())
}

func TestLoadDetectsTamperedBlock(t *testing.T) {
	f := newChainFixture(t)
	f.load(t)
	_, recipient, err := crypto.GenerateKey()
	assert.Nil(t, err)
	f.transfer(t, 10, recipient)
	f.transfer(t, 20, recipient)

	// rewrite block 1 with a shifted timestamp, breaking its identifier
	p, err := filestore.BlockPath(1)
	assert.Nil(t, err)
	data, err := f.store.Read(p)
	assert.Nil(t, err)
	block, err := DecodeBlock(data)
	assert.Nil(t, err)
	block.Timestamp += 1
	tampered, err := block.Encode()
	assert.Nil(t, err)
	assert.Nil(t, f.store.Write(p, tampered))

	f.open(t)
	err = f.bc.Load(f.genesis(t))
	assert.NotNil(t, err)
	assert.ErrorIs(t, err, ErrIdentifierMismatch)
	assert.Equal(t, StatusCorrupted, f.bc.Status())

	// a corrupted chain refuses writes
	req, err := NewNodeDeclarationRequest(f.treasuryKey, nil, 1, "")
	assert.Nil(t, err)
	_, err = f.bc.AddBlock(req, f.validatorKey)
	assert.Equal(t, ErrChainCorrupted, err)
	_, err = f.bc.SnapshotState()
	assert.Equal(t, ErrChainCorrupted, err)
}

func TestLoadDetectsMissingBlock(t *testing.T) {
	f := newChainFixture(t)
	f.load(t)
	_, recipient, err := crypto.GenerateKey()
	assert.Nil(t, err)
	f.transfer(t, 10, recipient)
	f.transfer(t, 20, recipient)

	p, err := filestore.BlockPath(1)
	assert.Nil(t, err)
	assert.Nil(t, os.Remove(filepath.Join(f.store.Root(), filepath.FromSlash(p))))

	f.open(t)
	err = f.bc.Load(f.genesis(t))
	assert.ErrorIs(t, err, ErrNonContiguousNumber)
	assert.Equal(t, StatusCorrupted, f.bc.Status())
}

func TestVerifyChainDetectsTamperedSnapshot(t *testing.T) {
	f := newChainFixture(t)
	f.load(t)
	_, recipient, err := crypto.GenerateKey()
	assert.Nil(t, err)
	f.transfer(t, 10, recipient)
	_, err = f.bc.SnapshotState()
	assert.Nil(t, err)
	f.transfer(t, 20, recipient)

	assert.Nil(t, f.bc.VerifyChain())

	// corrupt the mid-chain snapshot artifact
	p, err := filestore.SnapshotPath(0)
	assert.Nil(t, err)
	data, err := f.store.Read(p)
	assert.Nil(t, err)
	state, err := DecodeState(data)
	assert.Nil(t, err)
	state.Accounts[recipient].Balance += 1
	assert.Nil(t, state.SealRootHash())
	forged, err := state.Encode()
	assert.Nil(t, err)
	assert.Nil(t, f.store.Write(p, forged))

	err = f.bc.VerifyChain()
	assert.ErrorIs(t, err, ErrRootHashMismatch)

	f.bc.MarkCorrupted(err)
	assert.Equal(t, StatusCorrupted, f.bc.Status())
	_, err = f.bc.AddBlock(&SignedChangeRequest{}, f.validatorKey)
	assert.Equal(t, ErrChainCorrupted, err)
}
