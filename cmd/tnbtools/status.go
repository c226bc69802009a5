package main

import (
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nishp77/thenewboston-node/internal/ledgerapi"
	"github.com/nishp77/thenewboston-node/rpc/client"
)

var (
	statusCommand = &cli.Command{
		Action:    status,
		Name:      "status",
		Usage:     "print the status of a running node",
		ArgsUsage: " ",
		Flags:     commonFlags,
	}

	labelStyle     = color.New(color.FgWhite)
	growingStyle   = color.New(color.FgGreen)
	emptyStyle     = color.New(color.FgYellow)
	corruptedStyle = color.New(color.FgRed, color.Bold)
)

func status(ctx *cli.Context) error {
	if err := prepare(ctx); err != nil {
		return err
	}
	var info ledgerapi.ServerInfo
	if err := client.RPCGet(&info, nodeServer+"/serverinfo"); err != nil {
		return err
	}

	labelStyle.Printf("%-18s %v\n", "identifier:", info.Identifier)
	labelStyle.Printf("%-18s %v\n", "validator:", info.Validator)
	labelStyle.Printf("%-18s %v\n", "version:", info.Version)
	labelStyle.Printf("%-18s ", "chain status:")
	statusStyle(info.ChainStatus).Println(info.ChainStatus)
	labelStyle.Printf("%-18s %v\n", "last block:", info.LastBlockNumber)
	labelStyle.Printf("%-18s %v\n", "snapshots:", info.Snapshots)
	return nil
}

func statusStyle(chainStatus string) *color.Color {
	switch chainStatus {
	case "growing":
		return growingStyle
	case "empty":
		return emptyStyle
	default:
		return corruptedStyle
	}
}
