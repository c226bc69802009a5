package utils

import (
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/nishp77/thenewboston-node/log"
	"github.com/nishp77/thenewboston-node/params"
)

var (
	clientIdentifier string
	gitCommit        string
	gitDate          string

	// TopWaitGroup is waited on at exit, background jobs register with it
	TopWaitGroup = new(sync.WaitGroup)
	// CleanupChan is closed at exit to tell background jobs to stop
	CleanupChan = make(chan struct{})
)

// NewApp creates an app with sane defaults.
func NewApp(identifier, gitcommit, gitdate, usage string) *cli.App {
	clientIdentifier = identifier
	gitCommit = gitcommit
	gitDate = gitdate
	app := cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Version = params.VersionWithCommit(gitCommit, gitDate)
	app.Usage = usage
	return app
}

// WaitAndCleanup blocks until a terminating signal arrives, then closes
// CleanupChan, waits for registered jobs and finally runs doCleanup.
func WaitAndCleanup(doCleanup func()) {
	waitExitSignal()
	close(CleanupChan)
	TopWaitGroup.Wait()
	doCleanup()
}

func waitExitSignal() {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	sig := <-signalChan
	log.Info("receive exit signal", "signal", sig.String())
}
