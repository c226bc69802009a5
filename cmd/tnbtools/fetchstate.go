package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nishp77/thenewboston-node/ledger"
	"github.com/nishp77/thenewboston-node/log"
	"github.com/nishp77/thenewboston-node/rpc/client"
)

var (
	fetchStateCommand = &cli.Command{
		Action:    fetchState,
		Name:      "fetchstate",
		Usage:     "download and verify a published blockchain state",
		ArgsUsage: "<reference>",
		Description: `
Resolve a blockchain state reference ('genesis', 'null', '-1' or a
block number) on a running node, download the state artifact from its
published urls and verify the embedded root hash. With '--output' the
raw artifact is also written to the given file.
`,
		Flags: append([]cli.Flag{outputFlag}, commonFlags...),
	}

	outputFlag = &cli.StringFlag{
		Name:  "output",
		Usage: "write the raw state artifact to this file",
	}
)

func fetchState(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		_ = cli.ShowCommandHelp(ctx, "fetchstate")
		fmt.Println()
		return fmt.Errorf("invalid arguments: %q", ctx.Args())
	}
	if err := prepare(ctx); err != nil {
		return err
	}
	reference := ctx.Args().Get(0)

	meta, err := client.GetStateMeta(nodeServer, reference)
	if err != nil {
		return err
	}
	log.Info("state reference is resolved",
		"reference", reference,
		"lastBlockNumber", meta.LastBlockNumber,
		"urls", len(meta.URLs),
	)

	var data []byte
	for _, url := range meta.URLs {
		data, err = client.FetchArtifact(url)
		if err == nil {
			log.Info("state artifact is downloaded", "url", url, "bytes", len(data))
			break
		}
		log.Warn("download state artifact failed", "url", url, "err", err)
	}
	if err != nil {
		return fmt.Errorf("all %v urls failed, last error: %v", len(meta.URLs), err)
	}

	state, err := ledger.DecodeState(data)
	if err != nil {
		return err
	}
	if err := state.VerifyRootHash(); err != nil {
		return err
	}
	log.Info("state artifact is verified",
		"lastBlockNumber", state.LastBlockNumber,
		"rootHash", state.RootHash,
		"accounts", len(state.Accounts),
		"nodes", len(state.Nodes),
	)

	if output := ctx.String(outputFlag.Name); output != "" {
		if err := os.WriteFile(output, data, 0644); err != nil {
			return err
		}
		log.Printf("state artifact is written to '%v'", output)
	}
	return nil
}
