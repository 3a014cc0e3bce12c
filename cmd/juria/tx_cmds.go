// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aungmawjj/juria-cfhello/client"
	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/execution"
	"github.com/aungmawjj/juria-cfhello/execution/bincc"
	"github.com/aungmawjj/juria-cfhello/node"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	flagEndpoint = "endpoint"
	flagCode     = "code"
	flagUser     = "user"
	flagData     = "data"
	flagHex      = "hex"
	flagTimeout  = "timeout"
	flagBinFile  = "bincc-file"
	flagBinURL   = "bincc-url"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy cfhello, native or as a binary, and print its address",
	Run: func(cmd *cobra.Command, args []string) {
		cli, builder, err := setupTxCmd(cmd, false)
		check(err)
		tx, err := makeDeployTx(cmd, builder)
		check(err)
		txc := submitAndWait(cmd, cli, tx)
		if txc.Error() == "" {
			color.New(color.Bold).Print("code address: ")
			fmt.Println(hex.EncodeToString(execution.CodeAddress(tx.Hash(), 0)))
		}
	},
}

var greetCmd = &cobra.Command{
	Use:   "greet",
	Short: "Send the normal action of cfhello",
	Run: func(cmd *cobra.Command, args []string) {
		cli, builder, err := setupTxCmd(cmd, true)
		check(err)
		userStr, err := cmd.Flags().GetString(flagUser)
		check(err)
		user, err := core.NewName(userStr)
		check(err)
		submitAndWait(cmd, cli, builder.Greet(user))
	},
}

var cfdCmd = &cobra.Command{
	Use:   "cfd",
	Short: "Send the contextfree action of cfhello with context free data",
	Run: func(cmd *cobra.Command, args []string) {
		cli, builder, err := setupTxCmd(cmd, true)
		check(err)
		data, err := cmd.Flags().GetStringArray(flagData)
		check(err)
		isHex, err := cmd.Flags().GetBool(flagHex)
		check(err)
		segments, err := parseSegments(data, isHex)
		check(err)
		submitAndWait(cmd, cli, builder.DumpContextFree(segments))
	},
}

func init() {
	for _, cmd := range []*cobra.Command{deployCmd, greetCmd, cfdCmd} {
		cmd.Flags().StringP(flagEndpoint, "e",
			fmt.Sprintf("http://localhost:%d", node.DefaultConfig.APIPort), "node api endpoint")
		cmd.Flags().String(flagKey, clientKeyFile, "client key file")
		cmd.Flags().Duration(flagTimeout, 30*time.Second, "commit wait timeout")
	}
	for _, cmd := range []*cobra.Command{greetCmd, cfdCmd} {
		cmd.Flags().String(flagCode, "", "cfhello code address (hex)")
		cmd.MarkFlagRequired(flagCode)
	}
	deployCmd.Flags().String(flagBinFile, "", "deploy a cfhello binary instead of the native one")
	deployCmd.Flags().String(flagBinURL, "", "url the node downloads the binary from (default file:// of bincc-file)")

	greetCmd.Flags().StringP(flagUser, "u", "", "account name to greet")
	greetCmd.MarkFlagRequired(flagUser)

	cfdCmd.Flags().StringArray(flagData, nil, "context free data segment, repeat for more")
	cfdCmd.Flags().Bool(flagHex, false, "segments are hex encoded")
}

func setupTxCmd(cmd *cobra.Command, needCode bool) (*client.Client, *client.TxBuilder, error) {
	endpoint, err := cmd.Flags().GetString(flagEndpoint)
	if err != nil {
		return nil, nil, err
	}
	keyFile, err := cmd.Flags().GetString(flagKey)
	if err != nil {
		return nil, nil, err
	}
	key, err := readOrCreateKey(keyFile)
	if err != nil {
		return nil, nil, err
	}
	builder := client.NewTxBuilder(key)
	if needCode {
		codeHex, err := cmd.Flags().GetString(flagCode)
		if err != nil {
			return nil, nil, err
		}
		codeAddr, err := hex.DecodeString(codeHex)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid code address, %w", err)
		}
		builder.SetCodeAddr(codeAddr)
	}
	return client.New(endpoint), builder, nil
}

func makeDeployTx(cmd *cobra.Command, builder *client.TxBuilder) (*core.Transaction, error) {
	binFile, err := cmd.Flags().GetString(flagBinFile)
	if err != nil {
		return nil, err
	}
	if binFile == "" {
		return builder.Deploy(), nil
	}
	url, err := cmd.Flags().GetString(flagBinURL)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(binFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	codeID, err := bincc.CodeID(f)
	if err != nil {
		return nil, err
	}
	if url == "" {
		abs, err := filepath.Abs(binFile)
		if err != nil {
			return nil, err
		}
		url = "file://" + abs
	}
	return builder.DeployBincc(codeID, url), nil
}

func readOrCreateKey(file string) (*core.PrivateKey, error) {
	key, err := node.ReadKeyFile(file)
	if errors.Is(err, os.ErrNotExist) {
		key = core.GenerateKey(nil)
		err = node.WriteKeyFile(file, key)
	}
	return key, err
}

func submitAndWait(cmd *cobra.Command, cli *client.Client, tx *core.Transaction) *core.TxCommit {
	timeout, err := cmd.Flags().GetDuration(flagTimeout)
	check(err)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	bold := color.New(color.Bold)
	bold.Print("tx: ")
	fmt.Println(hex.EncodeToString(tx.Hash()))

	txc, err := cli.SubmitTxAndWait(ctx, tx)
	check(err)
	printTxCommit(txc)
	return txc
}

func printTxCommit(txc *core.TxCommit) {
	bold := color.New(color.Bold)
	boldGreen := color.New(color.Bold, color.FgGreen)
	boldRed := color.New(color.Bold, color.FgRed)

	bold.Printf("committed at block %d\n", txc.BlockHeight())
	for _, trace := range txc.Traces() {
		kind := "action"
		if trace.ContextFree {
			kind = "context free action"
		}
		bold.Printf("%s %d\n", kind, trace.Index)
		for _, line := range trace.Console {
			fmt.Printf("  %s\n", line)
		}
		if trace.Error != "" {
			boldRed.Printf("  error: %s\n", trace.Error)
		}
	}
	if txc.Error() != "" {
		boldRed.Printf("FAILED %s\n", txc.Error())
	} else {
		boldGreen.Println("OK")
	}
}

func parseSegments(data []string, isHex bool) ([][]byte, error) {
	segments := make([][]byte, len(data))
	for i, d := range data {
		if !isHex {
			segments[i] = []byte(d)
			continue
		}
		b, err := hex.DecodeString(d)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segments[i] = b
	}
	return segments, nil
}
