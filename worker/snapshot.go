package worker

import (
	"sync"

	"github.com/nishp77/thenewboston-node/ledger"
	"github.com/nishp77/thenewboston-node/params"
)

var snapshotStarter sync.Once

// StartSnapshotJob snapshot job
func StartSnapshotJob() {
	snapshotStarter.Do(func() {
		logWorker("snapshot", "start snapshot job", "snapshotPeriod", params.GetSnapshotPeriod())
		for {
			snapshotOnce()
			restInJob(restIntervalInSnapshotJob)
		}
	})
}

func snapshotOnce() {
	if blockchain.Status() != ledger.StatusGrowing {
		return
	}
	head := blockchain.GetLastBlockNumber()
	latest := latestSnapshotNumber()
	if head-latest < int64(params.GetSnapshotPeriod()) {
		return
	}
	meta, err := blockchain.SnapshotState()
	if err != nil {
		logWorkerError("snapshot", "publish snapshot failed", err, "lastBlockNumber", head)
		return
	}
	logWorker("snapshot", "published periodic snapshot",
		"lastBlockNumber", meta.LastBlockNumber, "urlPath", meta.URLPath)
}

func latestSnapshotNumber() int64 {
	numbers := blockchain.SnapshotNumbers()
	if len(numbers) == 0 {
		return ledger.GenesisBlockNumber
	}
	return numbers[len(numbers)-1]
}
