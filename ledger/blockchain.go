// Package ledger implements the validator operated blockchain: signed
// change requests, hash linked blocks, the materialized ledger state and
// the durable artifact lifecycle around them.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set"

	"github.com/nishp77/thenewboston-node/chainindex"
	"github.com/nishp77/thenewboston-node/filestore"
	"github.com/nishp77/thenewboston-node/log"
)

// Status is the lifecycle state of a Blockchain.
type Status uint32

// blockchain lifecycle states
const (
	StatusEmpty Status = iota
	StatusGrowing
	StatusCorrupted
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusGrowing:
		return "growing"
	case StatusCorrupted:
		return "corrupted"
	}
	return "unknown"
}

// Blockchain owns the chain of blocks and the state they materialize to.
// All mutations go through a single writer lock; readers always observe a
// consistent head, state and snapshot registry. Once a load or audit
// detects corruption the chain refuses writes until externally repaired.
type Blockchain struct {
	mu      sync.RWMutex
	store   *filestore.Store
	index   *chainindex.Index
	mirrors *filestore.MirrorRegistry

	state     *State
	head      *Block
	status    Status
	snapshots mapset.Set // last block numbers having a durable snapshot
}

// NewBlockchain wires a blockchain over its artifact store, chain index and
// mirror registry. Load must be called before any other operation.
func NewBlockchain(store *filestore.Store, index *chainindex.Index, mirrors *filestore.MirrorRegistry) *Blockchain {
	return &Blockchain{
		store:     store,
		index:     index,
		mirrors:   mirrors,
		status:    StatusEmpty,
		snapshots: mapset.NewSet(),
	}
}

// Load boots the chain from durable storage. A virgin store is initialized
// with the given genesis state and its mandatory genesis snapshot;
// otherwise the latest snapshot is loaded (root hash verified by
// recomputation) and every later block is fully validated and applied. Any
// integrity failure leaves the chain Corrupted.
func (bc *Blockchain) Load(genesis *State) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if err := bc.load(genesis); err != nil {
		bc.status = StatusCorrupted
		log.Error("blockchain load failed", "err", err)
		return err
	}
	return nil
}

func (bc *Blockchain) load(genesis *State) error {
	if genesis == nil || genesis.LastBlockNumber != GenesisBlockNumber {
		return fmt.Errorf("%w: genesis state required", ErrNotLoaded)
	}
	snapshotFiles, err := bc.store.ScanFileNumbers(filestore.KindBlockchainState)
	if err != nil {
		return err
	}
	blockNumbers, err := bc.store.ScanFileNumbers(filestore.KindBlockChunk)
	if err != nil {
		return err
	}
	for i, n := range blockNumbers {
		if n != int64(i) {
			return fmt.Errorf("%w: block %d missing", ErrNonContiguousNumber, i)
		}
	}
	head := int64(len(blockNumbers)) - 1

	if len(snapshotFiles) == 0 {
		if head >= 0 {
			return ErrNoGenesisSnapshot
		}
		return bc.initializeEmpty(genesis)
	}
	if snapshotFiles[0] != 0 {
		return ErrNoGenesisSnapshot
	}

	latest := snapshotFiles[len(snapshotFiles)-1] - 1
	if latest > head {
		return fmt.Errorf("%w: snapshot %d, head %d", ErrSnapshotBeyondHead, latest, head)
	}
	state, err := bc.readSnapshot(latest)
	if err != nil {
		return err
	}

	var prev *Block
	if latest >= 0 {
		prev, err = bc.readBlock(latest)
		if err != nil {
			return err
		}
		if err := verifyBlockIdentifier(prev); err != nil {
			return fmt.Errorf("block %d: %w", latest, err)
		}
	}
	for n := latest + 1; n <= head; n++ {
		b, err := bc.readBlock(n)
		if err != nil {
			return err
		}
		if err := ValidateBlock(b, prev); err != nil {
			return fmt.Errorf("block %d: %w", n, err)
		}
		if err := state.ApplyBlock(b); err != nil {
			return fmt.Errorf("block %d: %w", n, err)
		}
		if err := bc.index.PutIdentifier(b.Number, b.Identifier); err != nil {
			log.Warn("chain index update failed", "number", b.Number, "err", err)
		}
		prev = b
	}

	bc.state = state
	bc.head = prev
	for _, fileNumber := range snapshotFiles {
		bc.snapshots.Add(fileNumber - 1)
	}
	if head >= 0 {
		bc.status = StatusGrowing
	} else {
		bc.status = StatusEmpty
	}
	log.Info("blockchain loaded",
		"status", bc.status.String(),
		"lastBlockNumber", state.LastBlockNumber,
		"accounts", len(state.Accounts),
		"nodes", len(state.Nodes),
		"snapshots", bc.snapshots.Cardinality(),
		"rootHash", state.RootHash)
	return nil
}

func (bc *Blockchain) initializeEmpty(genesis *State) error {
	state := genesis.Copy()
	if err := state.VerifyRootHash(); err != nil {
		return err
	}
	data, err := state.Encode()
	if err != nil {
		return err
	}
	artifactPath, err := filestore.SnapshotPath(GenesisBlockNumber)
	if err != nil {
		return err
	}
	if err := bc.store.Write(artifactPath, data); err != nil {
		return err
	}
	bc.state = state
	bc.head = nil
	bc.snapshots.Add(GenesisBlockNumber)
	bc.status = StatusEmpty
	log.Info("initialized empty blockchain",
		"accounts", len(state.Accounts),
		"rootHash", state.RootHash)
	return nil
}

func (bc *Blockchain) readSnapshot(lastBlockNumber int64) (*State, error) {
	artifactPath, err := filestore.SnapshotPath(lastBlockNumber)
	if err != nil {
		return nil, err
	}
	data, err := bc.store.Read(artifactPath)
	if err != nil {
		return nil, err
	}
	state, err := DecodeState(data)
	if err != nil {
		return nil, err
	}
	if state.LastBlockNumber != lastBlockNumber {
		return nil, fmt.Errorf("%w: declares %d, addressed %d",
			ErrSnapshotMismatch, state.LastBlockNumber, lastBlockNumber)
	}
	if err := state.VerifyRootHash(); err != nil {
		return nil, fmt.Errorf("snapshot %d: %w", lastBlockNumber, err)
	}
	return state, nil
}

func (bc *Blockchain) readBlock(n int64) (*Block, error) {
	artifactPath, err := filestore.BlockPath(n)
	if err != nil {
		return nil, err
	}
	data, err := bc.store.Read(artifactPath)
	if err != nil {
		return nil, err
	}
	return DecodeBlock(data)
}

func verifyBlockIdentifier(b *Block) error {
	identifier, err := b.ComputeIdentifier()
	if err != nil {
		return err
	}
	if identifier != b.Identifier {
		return ErrIdentifierMismatch
	}
	return nil
}

// AddBlock validates a change request, builds the next block from it and
// durably appends it, then publishes the post-apply state. Any failure
// leaves both the chain and the state untouched.
func (bc *Blockchain) AddBlock(req *SignedChangeRequest, signingKey string) (*Block, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.status == StatusCorrupted {
		return nil, ErrChainCorrupted
	}
	if bc.state == nil {
		return nil, ErrNotLoaded
	}
	if err := ValidateChangeRequest(req); err != nil {
		return nil, err
	}
	if err := bc.state.ValidateRequest(req); err != nil {
		return nil, err
	}
	block, err := CreateBlock(bc.head, req, signingKey)
	if err != nil {
		return nil, err
	}
	if err := ValidateBlock(block, bc.head); err != nil {
		return nil, err
	}
	next := bc.state.Copy()
	if err := next.ApplyBlock(block); err != nil {
		return nil, err
	}
	data, err := block.Encode()
	if err != nil {
		return nil, err
	}
	artifactPath, err := filestore.BlockPath(block.Number)
	if err != nil {
		return nil, err
	}
	// the artifact write is the commit point: a crash after it is healed
	// by replay on the next load
	if err := bc.store.Write(artifactPath, data); err != nil {
		return nil, err
	}
	if err := bc.index.PutIdentifier(block.Number, block.Identifier); err != nil {
		log.Warn("chain index update failed", "number", block.Number, "err", err)
	}
	bc.state = next
	bc.head = block
	bc.status = StatusGrowing
	log.Info("block appended",
		"number", block.Number,
		"identifier", block.Identifier,
		"requestType", string(req.RequestType),
		"signer", req.Signer)
	return block, nil
}

// SnapshotState durably publishes the current state as a snapshot artifact.
// Snapshotting the same last block number twice is idempotent: the bytes
// are identical and the existing artifact short-circuits the write.
func (bc *Blockchain) SnapshotState() (*filestore.StateMeta, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.status == StatusCorrupted {
		return nil, ErrChainCorrupted
	}
	if bc.state == nil {
		return nil, ErrNotLoaded
	}
	last := bc.state.LastBlockNumber
	data, err := bc.state.Encode()
	if err != nil {
		return nil, err
	}
	artifactPath, err := filestore.SnapshotPath(last)
	if err != nil {
		return nil, err
	}
	written, err := bc.store.WriteIfAbsent(artifactPath, data)
	if err != nil {
		return nil, err
	}
	bc.snapshots.Add(last)
	meta, err := filestore.NewStateMeta(last, bc.mirrors.BaseURLs())
	if err != nil {
		return nil, err
	}
	if written {
		log.Info("blockchain state snapshot published",
			"lastBlockNumber", last, "urlPath", meta.URLPath)
	}
	return meta, nil
}

// ResolveStateReference maps a caller supplied snapshot reference to the
// addressing metadata of an existing snapshot. Surrounding whitespace is
// ignored; the exact literals "-1", "null" and "genesis" alias the genesis
// snapshot; anything else must be a base 10 non-negative integer naming a
// snapshot that exists and does not exceed the chain head. Unresolvable
// references return ErrNotFound.
func (bc *Blockchain) ResolveStateReference(reference string) (*filestore.StateMeta, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	if bc.state == nil {
		return nil, ErrNotLoaded
	}
	var last int64
	switch ref := strings.TrimSpace(reference); ref {
	case "-1", "null", "genesis":
		last = GenesisBlockNumber
	default:
		n, err := strconv.ParseInt(ref, 10, 64)
		if err != nil || n < 0 {
			return nil, ErrNotFound
		}
		last = n
	}
	if last > bc.state.LastBlockNumber {
		return nil, ErrNotFound
	}
	if !bc.snapshots.Contains(last) {
		return nil, ErrNotFound
	}
	return filestore.NewStateMeta(last, bc.mirrors.BaseURLs())
}

// GetBlock returns block number n from durable storage, verifying its
// identifier so a tampered artifact is never served.
func (bc *Blockchain) GetBlock(n int64) (*Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.getBlock(n)
}

func (bc *Blockchain) getBlock(n int64) (*Block, error) {
	if n < 0 || bc.head == nil || n > bc.head.Number {
		return nil, ErrNotFound
	}
	b, err := bc.readBlock(n)
	if err != nil {
		return nil, err
	}
	if err := verifyBlockIdentifier(b); err != nil {
		return nil, fmt.Errorf("block %d: %w", n, err)
	}
	return b, nil
}

// GetBlockIdentifier returns the identifier of block n, preferring the
// chain index and falling back to (and backfilling from) the artifact.
func (bc *Blockchain) GetBlockIdentifier(n int64) (string, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	if n < 0 || bc.head == nil || n > bc.head.Number {
		return "", ErrNotFound
	}
	identifier, err := bc.index.GetIdentifier(n)
	if err == nil {
		return identifier, nil
	}
	if !errors.Is(err, chainindex.ErrNotFound) {
		log.Warn("chain index read failed", "number", n, "err", err)
	}
	b, err := bc.getBlock(n)
	if err != nil {
		return "", err
	}
	if err := bc.index.PutIdentifier(n, b.Identifier); err != nil {
		log.Warn("chain index backfill failed", "number", n, "err", err)
	}
	return b.Identifier, nil
}

// Status returns the lifecycle state of the chain.
func (bc *Blockchain) Status() Status {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.status
}

// GetLastBlockNumber returns the head block number, or the genesis marker
// when the chain has no blocks.
func (bc *Blockchain) GetLastBlockNumber() int64 {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	if bc.state == nil {
		return GenesisBlockNumber
	}
	return bc.state.LastBlockNumber
}

// HeadBlock returns the current head block, nil when the chain is empty.
// The returned block must not be mutated.
func (bc *Blockchain) HeadBlock() *Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.head
}

// CopyState returns a deep copy of the current state, nil before Load.
func (bc *Blockchain) CopyState() *State {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	if bc.state == nil {
		return nil
	}
	return bc.state.Copy()
}

// AccountBalance returns the balance of the given account at the head.
func (bc *Blockchain) AccountBalance(account string) uint64 {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	if bc.state == nil {
		return 0
	}
	return bc.state.AccountBalance(account)
}

// AccountBalanceLock returns the effective balance lock of the given
// account at the head.
func (bc *Blockchain) AccountBalanceLock(account string) string {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	if bc.state == nil {
		return account
	}
	return bc.state.AccountBalanceLock(account)
}

// NodeRecord returns a copy of the declared node record for the given
// account, nil when the account never declared one.
func (bc *Blockchain) NodeRecord(account string) *Node {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	if bc.state == nil {
		return nil
	}
	n, ok := bc.state.Nodes[account]
	if !ok {
		return nil
	}
	addresses := make([]string, len(n.NetworkAddresses))
	copy(addresses, n.NetworkAddresses)
	return &Node{
		NetworkAddresses: addresses,
		FeeAmount:        n.FeeAmount,
		FeeAccount:       n.FeeAccount,
	}
}

// GetSnapshotState reads the durable snapshot taken after the given last
// block number, verifying its address and root hash.
func (bc *Blockchain) GetSnapshotState(lastBlockNumber int64) (*State, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	if !bc.snapshots.Contains(lastBlockNumber) {
		return nil, ErrNotFound
	}
	return bc.readSnapshot(lastBlockNumber)
}

// SnapshotNumbers returns the sorted last block numbers of all durable
// snapshots.
func (bc *Blockchain) SnapshotNumbers() []int64 {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	numbers := make([]int64, 0, bc.snapshots.Cardinality())
	for _, v := range bc.snapshots.ToSlice() {
		numbers = append(numbers, v.(int64))
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return numbers
}

// VerifyChain re-derives the whole chain from the genesis snapshot: every
// block is fully validated and applied, every snapshot artifact on the way
// is compared against the recomputed state, and the final root hash must
// match the live state. It does not mutate the chain; callers decide what
// to do on failure.
func (bc *Blockchain) VerifyChain() error {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	if bc.state == nil {
		return ErrNotLoaded
	}
	state, err := bc.readSnapshot(GenesisBlockNumber)
	if err != nil {
		return err
	}
	head := bc.state.LastBlockNumber
	var prev *Block
	for n := int64(0); n <= head; n++ {
		b, err := bc.readBlock(n)
		if err != nil {
			return err
		}
		if err := ValidateBlock(b, prev); err != nil {
			return fmt.Errorf("block %d: %w", n, err)
		}
		if err := state.ApplyBlock(b); err != nil {
			return fmt.Errorf("block %d: %w", n, err)
		}
		if bc.snapshots.Contains(n) {
			stored, err := bc.readSnapshot(n)
			if err != nil {
				return err
			}
			if stored.RootHash != state.RootHash {
				return fmt.Errorf("snapshot %d: %w", n, ErrRootHashMismatch)
			}
		}
		prev = b
	}
	if state.RootHash != bc.state.RootHash {
		return fmt.Errorf("live state: %w", ErrRootHashMismatch)
	}
	return nil
}

// MarkCorrupted moves the chain to the terminal Corrupted status, after
// which writes are refused until external repair.
func (bc *Blockchain) MarkCorrupted(reason error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.status == StatusCorrupted {
		return
	}
	bc.status = StatusCorrupted
	log.Error("blockchain marked corrupted", "err", reason)
}
