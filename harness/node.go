// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package harness

import (
	"fmt"
	"os"
	"os/exec"
	"path"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/aungmawjj/juria-cfhello/node"
)

// Node is a running juria node the experiments talk to
type Node interface {
	Start() error
	Stop()
	IsRunning() bool
	GetEndpoint() string
}

// LocalNode runs the juria binary as a child process
type LocalNode struct {
	juriaPath string
	config    node.Config

	running bool
	mtxRun  sync.RWMutex

	cmd     *exec.Cmd
	logFile *os.File
}

var _ Node = (*LocalNode)(nil)

func NewLocalNode(juriaPath string, config node.Config) *LocalNode {
	return &LocalNode{
		juriaPath: juriaPath,
		config:    config,
	}
}

func (nd *LocalNode) Start() error {
	if nd.IsRunning() {
		return nil
	}
	if err := os.MkdirAll(nd.config.Datadir, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path.Join(nd.config.Datadir, "log.txt"),
		os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}
	nd.logFile = f
	nd.cmd = exec.Command(nd.juriaPath,
		"-d", nd.config.Datadir,
		"-p", strconv.Itoa(nd.config.APIPort),
		"--debug="+strconv.FormatBool(nd.config.Debug),
	)
	nd.cmd.Env = append(os.Environ(), juriaEnv(&nd.config)...)
	nd.cmd.Stderr = nd.logFile
	nd.cmd.Stdout = nd.logFile
	if err := nd.cmd.Start(); err != nil {
		nd.logFile.Close()
		return err
	}
	nd.setRunning(true)
	return nil
}

func (nd *LocalNode) Stop() {
	if !nd.IsRunning() {
		return
	}
	nd.setRunning(false)
	syscall.Kill(nd.cmd.Process.Pid, syscall.SIGTERM)
	nd.cmd.Wait()
	nd.logFile.Close()
}

func (nd *LocalNode) IsRunning() bool {
	nd.mtxRun.RLock()
	defer nd.mtxRun.RUnlock()
	return nd.running
}

func (nd *LocalNode) setRunning(val bool) {
	nd.mtxRun.Lock()
	defer nd.mtxRun.Unlock()
	nd.running = val
}

func (nd *LocalNode) GetEndpoint() string {
	return fmt.Sprintf("http://127.0.0.1:%d", nd.config.APIPort)
}

// juriaEnv passes the settings without command flags as JURIA_ env vars
func juriaEnv(config *node.Config) []string {
	p := node.EnvPrefix
	return []string{
		p + "STORAGE_SYNC_WRITES=" + strconv.FormatBool(config.StorageConfig.SyncWrites),
		p + "EXECUTION_TX_EXEC_TIMEOUT=" + config.ExecutionConfig.TxExecTimeout.String(),
		p + "EXECUTION_CONCURRENT_LIMIT=" + strconv.Itoa(config.ExecutionConfig.ConcurrentLimit),
		p + "CONSENSUS_CHAIN_ID=" + strconv.FormatInt(config.ConsensusConfig.ChainID, 10),
		p + "CONSENSUS_BLOCK_TX_LIMIT=" + strconv.Itoa(config.ConsensusConfig.BlockTxLimit),
		p + "CONSENSUS_TX_WAIT_TIME=" + config.ConsensusConfig.TxWaitTime.String(),
		p + "CONSENSUS_BLOCK_DELAY=" + config.ConsensusConfig.BlockDelay.String(),
	}
}

// Sleep prints the duration and sleeps
func Sleep(d time.Duration) {
	fmt.Printf("Wait for %s\n", d)
	time.Sleep(d)
}
