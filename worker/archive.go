package worker

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nishp77/thenewboston-node/ledger"
	"github.com/nishp77/thenewboston-node/mongodb"
)

var archiveStarter sync.Once

// StartArchiveJob archive backfill job, mirrors appended blocks and
// published snapshots into mongodb for the query surface
func StartArchiveJob() {
	archiveStarter.Do(func() {
		if !mongodb.HasClient() {
			logWorker("archive", "mongodb is not configured, skip archive job")
			return
		}
		logWorker("archive", "start archive job")
		for {
			archiveBlocksOnce()
			archiveSnapshotsOnce()
			restInJob(restIntervalInArchiveJob)
		}
	})
}

func archiveBlocksOnce() {
	head := blockchain.GetLastBlockNumber()
	next := int64(0)
	latest, err := mongodb.FindLatestBlock()
	switch {
	case err == nil:
		next = latest.Number + 1
	case errors.Is(err, mongodb.ErrItemNotFound):
	default:
		logWorkerError("archive", "query latest archived block failed", err)
		return
	}
	if next > head {
		return
	}
	logWorkerTrace("archive", "backfill blocks", "from", next, "to", head)
	for n := next; n <= head; n++ {
		block, err := blockchain.GetBlock(n)
		if err != nil {
			logWorkerError("archive", "read block failed", err, "number", n)
			return
		}
		err = mongodb.AddBlock(convertBlock(block))
		if err != nil && !errors.Is(err, mongodb.ErrItemIsDup) {
			logWorkerError("archive", "archive block failed", err, "number", n)
			return
		}
	}
}

func archiveSnapshotsOnce() {
	archived := int64(ledger.GenesisBlockNumber) - 1
	latest, err := mongodb.FindLatestSnapshot()
	switch {
	case err == nil:
		archived = latest.LastBlockNumber
	case errors.Is(err, mongodb.ErrItemNotFound):
	default:
		logWorkerError("archive", "query latest archived snapshot failed", err)
		return
	}
	for _, n := range blockchain.SnapshotNumbers() {
		if n <= archived {
			continue
		}
		if err := archiveSnapshot(n); err != nil && !errors.Is(err, mongodb.ErrItemIsDup) {
			logWorkerError("archive", "archive snapshot failed", err, "lastBlockNumber", n)
			return
		}
	}
}

func archiveSnapshot(lastBlockNumber int64) error {
	state, err := blockchain.GetSnapshotState(lastBlockNumber)
	if err != nil {
		return err
	}
	meta, err := blockchain.ResolveStateReference(fmt.Sprintf("%d", lastBlockNumber))
	if err != nil {
		return err
	}
	return mongodb.AddSnapshot(&mongodb.MgoSnapshot{
		LastBlockNumber: lastBlockNumber,
		RootHash:        state.RootHash,
		URLPath:         meta.URLPath,
		Accounts:        len(state.Accounts),
		Nodes:           len(state.Nodes),
	})
}

func convertBlock(b *ledger.Block) *mongodb.MgoBlock {
	mb := &mongodb.MgoBlock{
		Number:             b.Number,
		Identifier:         b.Identifier,
		PreviousIdentifier: b.PreviousBlockIdentifier,
		Timestamp:          b.Timestamp,
		Validator:          b.Validator,
	}
	if req := b.Request; req != nil {
		mb.RequestType = string(req.RequestType)
		mb.Signer = req.Signer
		if req.CoinTransfer != nil {
			mb.TotalAmount = req.CoinTransfer.TotalAmount()
		}
	}
	return mb
}
