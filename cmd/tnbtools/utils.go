package main

import (
	"errors"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/nishp77/thenewboston-node/cmd/utils"
)

var nodeServer string

var commonFlags = []cli.Flag{
	utils.NodeServerFlag,
	utils.VerbosityFlag,
	utils.JSONFormatFlag,
	utils.ColorFormatFlag,
}

func prepare(ctx *cli.Context) error {
	utils.SetLogger(ctx)
	nodeServer = strings.TrimRight(ctx.String(utils.NodeServerFlag.Name), "/")
	if nodeServer == "" {
		return errors.New("must specify '--server' of a running node")
	}
	return nil
}

func rpcURL() string {
	return nodeServer + "/rpc"
}
