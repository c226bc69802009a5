package main

import (
	"github.com/urfave/cli/v2"

	"github.com/nishp77/thenewboston-node/log"
	"github.com/nishp77/thenewboston-node/rpc/client"
)

var (
	verifyChainCommand = &cli.Command{
		Action:    verifyChain,
		Name:      "verify",
		Usage:     "replay and verify the whole chain on a running node",
		ArgsUsage: " ",
		Description: `
Ask the node to replay every block from the genesis state and compare
the result with its current account state.
`,
		Flags: commonFlags,
	}
)

func verifyChain(ctx *cli.Context) error {
	if err := prepare(ctx); err != nil {
		return err
	}
	var result string
	if err := client.RPCPost(&result, rpcURL(), "tnb.VerifyChain"); err != nil {
		return err
	}
	log.Printf("verify result is '%v'", result)
	return nil
}
