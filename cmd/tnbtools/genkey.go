package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nishp77/thenewboston-node/common"
	"github.com/nishp77/thenewboston-node/tools/crypto"
)

var (
	genKeyCommand = &cli.Command{
		Action:    genKey,
		Name:      "genkey",
		Usage:     "generate a validator signing key",
		ArgsUsage: " ",
		Description: `
Generate a random Ed25519 signing key and print the derived account
number. With '--keyfile' the signing key is written to the given file
instead of being printed.
`,
		Flags: []cli.Flag{
			keyfileFlag,
		},
	}

	keyfileFlag = &cli.StringFlag{
		Name:  "keyfile",
		Usage: "write the signing key to this file",
	}
)

func genKey(ctx *cli.Context) error {
	signingKey, accountNumber, err := crypto.GenerateKey()
	if err != nil {
		return err
	}
	fmt.Println("account number:", accountNumber)

	keyfile := ctx.String(keyfileFlag.Name)
	if keyfile == "" {
		fmt.Println("signing key:", signingKey)
		return nil
	}
	if common.FileExist(keyfile) {
		return fmt.Errorf("keyfile '%v' already exists", keyfile)
	}
	if err := os.WriteFile(keyfile, []byte(signingKey+"\n"), 0600); err != nil {
		return err
	}
	fmt.Println("signing key is written to", keyfile)
	return nil
}
