package worker

import (
	"time"

	"github.com/nishp77/thenewboston-node/log"
)

var (
	restIntervalInSnapshotJob = 3 * time.Second
	restIntervalInArchiveJob  = 3 * time.Second
	restIntervalInAuditJob    = 10 * time.Minute
)

func logWorker(job, subject string, context ...interface{}) {
	log.Info("["+job+"] "+subject, context...)
}

func logWorkerError(job, subject string, err error, context ...interface{}) {
	fields := []interface{}{"err", err}
	fields = append(fields, context...)
	log.Error("["+job+"] "+subject, fields...)
}

func logWorkerTrace(job, subject string, context ...interface{}) {
	log.Trace("["+job+"] "+subject, context...)
}

func restInJob(duration time.Duration) {
	time.Sleep(duration)
}
