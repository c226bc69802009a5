package main

import (
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/nishp77/thenewboston-node/cmd/utils"
	"github.com/nishp77/thenewboston-node/log"
)

var (
	clientIdentifier = "tnbtools"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(clientIdentifier, gitCommit, gitDate, "the thenewboston node tools command line interface")
)

func initApp() {
	// Initialize the CLI app and start action
	app.HideVersion = true // we have a command to print the version
	app.Copyright = "Copyright 2021 The thenewboston-node Authors"
	app.Commands = []*cli.Command{
		genKeyCommand,
		statusCommand,
		verifyChainCommand,
		snapshotCommand,
		fetchStateCommand,
		utils.LicenseCommand,
		utils.VersionCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
}

func main() {
	initApp()
	if err := app.Run(os.Args); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
