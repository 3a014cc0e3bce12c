// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/aungmawjj/juria-cfhello/client"
	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/execution"
	"github.com/aungmawjj/juria-cfhello/execution/bincc"
	"github.com/aungmawjj/juria-cfhello/node"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestParseSegments(t *testing.T) {
	assert := assert.New(t)

	segs, err := parseSegments([]string{"test", "testdata"}, false)
	assert.NoError(err)
	assert.Equal([][]byte{[]byte("test"), []byte("testdata")}, segs)

	segs, err = parseSegments([]string{"74657374", "7465737464617461"}, true)
	assert.NoError(err)
	assert.Equal([][]byte{[]byte("test"), []byte("testdata")}, segs)

	_, err = parseSegments([]string{"zz"}, true)
	assert.Error(err)

	segs, err = parseSegments(nil, false)
	assert.NoError(err)
	assert.Empty(segs)
}

func newRootTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "juria"}
	cmd.Flags().Bool(flagDebug, false, "")
	cmd.Flags().StringP(flagDataDir, "d", node.DefaultConfig.Datadir, "")
	cmd.Flags().IntP(flagPort, "p", node.DefaultConfig.APIPort, "")
	cmd.Flags().StringP(flagConfig, "c", "", "")
	return cmd
}

func TestLoadNodeConfig(t *testing.T) {
	assert := assert.New(t)

	file := path.Join(t.TempDir(), "config.yaml")
	os.WriteFile(file, []byte("apiPort: 9100\ndatadir: fromfile\n"), 0644)

	cmd := newRootTestCmd()
	assert.NoError(cmd.Flags().Parse([]string{"-c", file, "-p", "9300", "--debug"}))

	config, err := loadNodeConfig(cmd)
	assert.NoError(err)
	assert.Equal(9300, config.APIPort, "flag overrides file")
	assert.Equal("fromfile", config.Datadir, "unset flag keeps file value")
	assert.True(config.Debug)
}

func TestReadOrCreateKey(t *testing.T) {
	assert := assert.New(t)

	file := path.Join(t.TempDir(), "client.key")
	key, err := readOrCreateKey(file)
	assert.NoError(err)

	again, err := readOrCreateKey(file)
	assert.NoError(err)
	assert.Equal(key.Bytes(), again.Bytes())
}

func TestMakeDeployTx(t *testing.T) {
	assert := assert.New(t)

	builder := client.NewTxBuilder(core.GenerateKey(nil))
	newCmd := func(args ...string) *cobra.Command {
		cmd := &cobra.Command{Use: "deploy"}
		cmd.Flags().String(flagBinFile, "", "")
		cmd.Flags().String(flagBinURL, "", "")
		assert.NoError(cmd.Flags().Parse(args))
		return cmd
	}

	tx, err := makeDeployTx(newCmd(), builder)
	assert.NoError(err)
	input := new(execution.DeploymentInput)
	assert.NoError(json.Unmarshal(tx.Actions()[0].Input, input))
	assert.Equal(execution.DriverTypeNative, input.CodeInfo.DriverType)

	binFile := path.Join(t.TempDir(), "cfhello")
	os.WriteFile(binFile, []byte("binary"), 0755)

	tx, err = makeDeployTx(newCmd("--bincc-file", binFile), builder)
	assert.NoError(err)
	input = new(execution.DeploymentInput)
	assert.NoError(json.Unmarshal(tx.Actions()[0].Input, input))
	assert.Equal(execution.DriverTypeBincc, input.CodeInfo.DriverType)
	assert.Equal("file://"+binFile, string(input.InstallData))
	codeID, _ := bincc.CodeID(bytes.NewReader([]byte("binary")))
	assert.Equal(codeID, input.CodeInfo.CodeID)

	tx, err = makeDeployTx(newCmd("--bincc-file", binFile, "--bincc-url", "http://host/cc"), builder)
	assert.NoError(err)
	input = new(execution.DeploymentInput)
	assert.NoError(json.Unmarshal(tx.Actions()[0].Input, input))
	assert.Equal("http://host/cc", string(input.InstallData))

	_, err = makeDeployTx(newCmd("--bincc-file", "/not/exist"), builder)
	assert.Error(err)
}
