package worker

import (
	"fmt"
	"sync"
	"time"

	"github.com/nishp77/thenewboston-node/ledger"
	"github.com/nishp77/thenewboston-node/params"
	"github.com/nishp77/thenewboston-node/tools"
)

var (
	auditStarter sync.Once

	prevSendAuditEmailTimestamp int64
	minSendAuditEmailInterval   int64 = 1800 // unit seconds
)

// StartAuditJob chain audit job, periodically replays the whole chain from
// the genesis state and freezes writes when verification fails
func StartAuditJob() {
	auditStarter.Do(func() {
		logWorker("audit", "start audit job")
		for {
			auditOnce()
			restInJob(restIntervalInAuditJob)
		}
	})
}

func auditOnce() {
	if blockchain.Status() != ledger.StatusGrowing {
		return
	}
	head := blockchain.GetLastBlockNumber()
	err := blockchain.VerifyChain()
	if err == nil {
		logWorker("audit", "chain verified", "lastBlockNumber", head)
		return
	}
	logWorkerError("audit", "chain verification failed", err, "lastBlockNumber", head)
	blockchain.MarkCorrupted(err)
	subject := fmt.Sprintf("[audit] chain corrupted on %v", params.GetIdentifier())
	content := fmt.Sprintf("chain verification failed at block height %v\n\nreason: %v\n", head, err)
	_ = sendAuditEmail(subject, content)
}

func sendAuditEmail(subject, content string) error {
	emailConfig := params.GetEmailConfig()
	if emailConfig == nil {
		return nil
	}
	now := time.Now().Unix()
	if prevSendAuditEmailTimestamp+minSendAuditEmailInterval > now {
		return nil // too frequently
	}
	prevSendAuditEmailTimestamp = now
	err := tools.SendEmail(emailConfig.To, nil, subject, content)
	if err != nil {
		logWorkerError("audit", "send alert email failed", err, "subject", subject)
	} else {
		logWorker("audit", "send alert email success", "subject", subject)
	}
	return err
}
