// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package main

import (
	"log"

	"github.com/aungmawjj/juria-cfhello/node"
	"github.com/spf13/cobra"
)

const (
	flagDebug   = "debug"
	flagDataDir = "datadir"
	flagPort    = "port"
	flagConfig  = "config"
)

var rootCmd = &cobra.Command{
	Use:   "juria",
	Short: "Juria single node chain hosting the cfhello chaincode",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := loadNodeConfig(cmd)
		check(err)
		node.Run(config)
	},
}

func main() {
	check(rootCmd.Execute())
}

func init() {
	rootCmd.Flags().Bool(flagDebug, false, "debug mode")
	rootCmd.Flags().StringP(flagDataDir, "d", node.DefaultConfig.Datadir, "blockchain data directory")
	rootCmd.Flags().IntP(flagPort, "p", node.DefaultConfig.APIPort, "api port")
	rootCmd.Flags().StringP(flagConfig, "c", "config.yaml", "config file")

	rootCmd.AddCommand(keygenCmd, deployCmd, greetCmd, cfdCmd)
}

// loadNodeConfig applies the flags set by the user over the config file and env
func loadNodeConfig(cmd *cobra.Command) (node.Config, error) {
	file, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return node.Config{}, err
	}
	config, err := node.LoadConfig(file)
	if err != nil {
		return config, err
	}
	flags := cmd.Flags()
	if flags.Changed(flagDebug) {
		config.Debug, _ = flags.GetBool(flagDebug)
	}
	if flags.Changed(flagDataDir) {
		config.Datadir, _ = flags.GetString(flagDataDir)
	}
	if flags.Changed(flagPort) {
		config.APIPort, _ = flags.GetInt(flagPort)
	}
	return config, nil
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
