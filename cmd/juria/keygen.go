// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package main

import (
	"crypto/rand"
	"fmt"
	"path"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/node"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	flagKey      = "key"
	clientKeyFile = "client.key"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate the nodekey and a client key",
	Run: func(cmd *cobra.Command, args []string) {
		datadir, err := cmd.Flags().GetString(flagDataDir)
		check(err)
		keyFile, err := cmd.Flags().GetString(flagKey)
		check(err)

		nodeKey := core.GenerateKey(rand.Reader)
		check(node.WriteNodeKey(datadir, nodeKey))
		clientKey := core.GenerateKey(rand.Reader)
		check(node.WriteKeyFile(keyFile, clientKey))

		bold := color.New(color.Bold)
		bold.Print("nodekey:    ")
		fmt.Printf("%s (%s)\n", nodeKey.PublicKey(), path.Join(datadir, node.NodekeyFile))
		bold.Print("client key: ")
		fmt.Printf("%s (%s)\n", clientKey.PublicKey(), keyFile)
	},
}

func init() {
	keygenCmd.Flags().StringP(flagDataDir, "d", node.DefaultConfig.Datadir, "blockchain data directory")
	keygenCmd.Flags().String(flagKey, clientKeyFile, "client key file")
}
