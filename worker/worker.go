// Package worker runs the node's background jobs: periodic state
// snapshots, archive backfill into mongodb, chain audits and dynamic
// mirror registration.
package worker

import (
	"time"

	"github.com/nishp77/thenewboston-node/filestore"
	"github.com/nishp77/thenewboston-node/ledger"
)

const interval = 10 * time.Millisecond

var (
	blockchain *ledger.Blockchain
	mirrors    *filestore.MirrorRegistry
)

// StartWork start node background jobs
func StartWork(bc *ledger.Blockchain, registry *filestore.MirrorRegistry) {
	logWorker("worker", "start node worker")

	blockchain = bc
	mirrors = registry

	go StartSnapshotJob()
	time.Sleep(interval)

	go StartArchiveJob()
	time.Sleep(interval)

	go StartAuditJob()
	time.Sleep(interval)

	go AddMirrorDynamically()
}
