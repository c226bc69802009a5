package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nishp77/thenewboston-node/chainindex"
	"github.com/nishp77/thenewboston-node/cmd/utils"
	"github.com/nishp77/thenewboston-node/docs"
	"github.com/nishp77/thenewboston-node/filestore"
	"github.com/nishp77/thenewboston-node/internal/ledgerapi"
	"github.com/nishp77/thenewboston-node/ledger"
	"github.com/nishp77/thenewboston-node/log"
	"github.com/nishp77/thenewboston-node/mongodb"
	"github.com/nishp77/thenewboston-node/params"
	rpcserver "github.com/nishp77/thenewboston-node/rpc/server"
	"github.com/nishp77/thenewboston-node/tools"
	"github.com/nishp77/thenewboston-node/worker"
)

const (
	chainIndexCache   = 16
	chainIndexHandles = 16
)

var (
	clientIdentifier = "tnbserver"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(clientIdentifier, gitCommit, gitDate, "the thenewboston validator node command line interface")
)

func initApp() {
	// Initialize the CLI app and start action
	app.Action = tnbserver
	app.HideVersion = true // we have a command to print the version
	app.Copyright = "Copyright 2021 The thenewboston-node Authors"
	app.Commands = []*cli.Command{
		utils.LicenseCommand,
		utils.VersionCommand,
	}
	app.Flags = []cli.Flag{
		utils.ConfigFileFlag,
		utils.DataDirFlag,
		utils.LogFileFlag,
		utils.LogRotationFlag,
		utils.LogMaxAgeFlag,
		utils.VerbosityFlag,
		utils.JSONFormatFlag,
		utils.ColorFormatFlag,
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

func tnbserver(ctx *cli.Context) error {
	utils.SetLogger(ctx)
	if ctx.NArg() > 0 {
		return fmt.Errorf("invalid command: %q", ctx.Args().Get(0))
	}
	configFile := utils.GetConfigFilePath(ctx)
	params.LoadConfig(configFile)
	params.SetDataDir(utils.GetDataDir(ctx))

	signingKey, err := loadSigningKey()
	if err != nil {
		log.Fatal("load validator signing key failed", "err", err)
	}

	store, err := filestore.NewStore(params.GetBlockchainDir())
	if err != nil {
		log.Fatal("open artifact store failed", "dir", params.GetBlockchainDir(), "err", err)
	}
	index, err := chainindex.Open(params.GetChainIndexDir(), chainIndexCache, chainIndexHandles)
	if err != nil {
		log.Fatal("open chain index failed", "dir", params.GetChainIndexDir(), "err", err)
	}
	mirrors := filestore.NewMirrorRegistry(params.GetBaseURLs())

	genesisConfig := params.GetGenesisConfig()
	genesis, err := ledger.NewGenesisState(genesisConfig.TreasuryAccount, params.GetTreasuryBalance())
	if err != nil {
		log.Fatal("build genesis state failed", "err", err)
	}

	blockchain := ledger.NewBlockchain(store, index, mirrors)
	if err := blockchain.Load(genesis); err != nil {
		log.Fatal("load blockchain failed", "err", err)
	}
	log.Info("blockchain is loaded",
		"status", blockchain.Status().String(),
		"lastBlockNumber", blockchain.GetLastBlockNumber(),
		"snapshots", len(blockchain.SnapshotNumbers()),
	)

	docs.Init()
	if err := ledgerapi.Init(blockchain, signingKey); err != nil {
		log.Fatal("init ledger api failed", "err", err)
	}

	if dbConfig := params.GetMongoDBConfig(); dbConfig != nil {
		mongodb.MongoServerInit(
			clientIdentifier,
			dbConfig.GetHosts(),
			dbConfig.DBName,
			dbConfig.UserName,
			dbConfig.Password,
		)
	}
	if emailConfig := params.GetEmailConfig(); emailConfig != nil {
		tools.InitEmailConfig(
			emailConfig.Server,
			emailConfig.Port,
			emailConfig.From,
			emailConfig.FromName,
			emailConfig.Password,
		)
	}

	worker.StartWork(blockchain, mirrors)
	time.Sleep(100 * time.Millisecond)
	rpcserver.StartAPIServer()

	utils.WaitAndCleanup(func() {
		if err := index.Close(); err != nil {
			log.Error("close chain index failed", "err", err)
		}
	})
	return nil
}

func loadSigningKey() (string, error) {
	validatorConfig := params.GetValidatorConfig()
	if validatorConfig.KeyFile != "" {
		return tools.LoadSigningKey(validatorConfig.KeyFile)
	}
	// inline signing key, only accepted in test mode (checked by config)
	return validatorConfig.SigningKey, nil
}
