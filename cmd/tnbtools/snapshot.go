package main

import (
	"github.com/urfave/cli/v2"

	"github.com/nishp77/thenewboston-node/internal/ledgerapi"
	"github.com/nishp77/thenewboston-node/log"
	"github.com/nishp77/thenewboston-node/rpc/client"
)

var (
	snapshotCommand = &cli.Command{
		Action:    snapshot,
		Name:      "snapshot",
		Usage:     "publish a blockchain state snapshot on a running node",
		ArgsUsage: " ",
		Flags:     commonFlags,
	}
)

func snapshot(ctx *cli.Context) error {
	if err := prepare(ctx); err != nil {
		return err
	}
	var meta ledgerapi.StateMeta
	if err := client.RPCPost(&meta, rpcURL(), "tnb.Snapshot"); err != nil {
		return err
	}
	log.Info("snapshot is published",
		"lastBlockNumber", meta.LastBlockNumber,
		"urlPath", meta.URLPath,
	)
	return nil
}
