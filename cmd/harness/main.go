// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path"
	"strings"
	"time"

	"github.com/aungmawjj/juria-cfhello/harness"
	"github.com/aungmawjj/juria-cfhello/node"
	"github.com/spf13/cobra"
)

const (
	flagWorkDir = "workdir"
	flagJuria   = "juria"
	flagBuild   = "build"
	flagPort    = "port"
	flagDebug   = "debug"
	flagTimeout = "timeout"
)

var rootCmd = &cobra.Command{
	Use:   "harness",
	Short: "Run the cfhello experiments against a local juria node",
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		workDir, err := flags.GetString(flagWorkDir)
		check(err)
		juriaPath, err := flags.GetString(flagJuria)
		check(err)
		build, err := flags.GetBool(flagBuild)
		check(err)
		port, err := flags.GetInt(flagPort)
		check(err)
		debug, err := flags.GetBool(flagDebug)
		check(err)
		timeout, err := flags.GetDuration(flagTimeout)
		check(err)

		if build {
			buildJuria(juriaPath)
		}
		nodeDir := path.Join(workDir, "node")
		check(os.RemoveAll(nodeDir)) // no error if path not exist

		config := node.DefaultConfig
		config.Datadir = nodeDir
		config.APIPort = port
		config.Debug = debug

		r := &harness.Runner{
			Experiments: harness.DefaultExperiments(),
			Node:        harness.NewLocalNode(juriaPath, config),
			Timeout:     timeout,
		}
		pass, fail, err := r.Run()
		fmt.Printf("\nTotal: %d  |  Pass: %d  |  Fail: %d\n", len(r.Experiments), pass, fail)
		check(err)
		if fail > 0 {
			os.Exit(1)
		}
	},
}

func buildJuria(out string) {
	cmd := exec.Command("go", "build", "-o", out, "./cmd/juria")
	fmt.Printf("\n$ %s\n\n", strings.Join(cmd.Args, " "))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	check(cmd.Run())
}

func main() {
	check(rootCmd.Execute())
}

func init() {
	rootCmd.Flags().String(flagWorkDir, "./workdir", "working directory for node data and logs")
	rootCmd.Flags().String(flagJuria, "./juria", "path of the juria binary")
	rootCmd.Flags().Bool(flagBuild, false, "build the juria binary first (run from the module root)")
	rootCmd.Flags().IntP(flagPort, "p", 9140, "api port of the node")
	rootCmd.Flags().Bool(flagDebug, false, "debug logs for the node")
	rootCmd.Flags().Duration(flagTimeout, 30*time.Second, "wait timeout of each tx")
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
