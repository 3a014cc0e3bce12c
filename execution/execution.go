// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package execution

import (
	"fmt"
	"time"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/execution/bincc"
)

type Config struct {
	BinccDir        string        `yaml:"binccDir" env:"BINCC_DIR"`
	TxExecTimeout   time.Duration `yaml:"txExecTimeout" env:"TX_EXEC_TIMEOUT"`
	ConcurrentLimit int           `yaml:"concurrentLimit" env:"CONCURRENT_LIMIT"`
}

var DefaultConfig = Config{
	TxExecTimeout:   10 * time.Second,
	ConcurrentLimit: 20,
}

type Execution struct {
	stateStore StateRO
	config     Config

	codeRegistry *codeRegistry
}

func New(stateStore StateRO, config Config) *Execution {
	exec := &Execution{
		stateStore: stateStore,
		config:     config,
	}
	exec.codeRegistry = newCodeRegistry()
	exec.codeRegistry.registerDriver(DriverTypeNative, newNativeCodeDriver())
	exec.codeRegistry.registerDriver(DriverTypeBincc,
		bincc.NewCodeDriver(exec.config.BinccDir, exec.config.TxExecTimeout))
	return exec
}

func (exec *Execution) Execute(blk *core.Block, txs []*core.Transaction) (
	*core.BlockCommit, []*core.TxCommit,
) {
	bexe := &blkExecutor{
		txTimeout:       exec.config.TxExecTimeout,
		concurrentLimit: exec.config.ConcurrentLimit,
		codeRegistry:    exec.codeRegistry,
		state:           exec.stateStore,
		blk:             blk,
		txs:             txs,
	}
	return bexe.execute()
}

type QueryData struct {
	CodeAddr []byte `json:"codeAddr"`
	Input    []byte `json:"input"`
}

// Query calls the chaincode's Query with the committed state
func (exec *Execution) Query(query *QueryData) (val []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	cc, err := exec.codeRegistry.getInstance(
		query.CodeAddr, newStateReader(exec.stateStore, codeRegistryAddr))
	if err != nil {
		return nil, err
	}
	return cc.Query(&callContextQuery{
		input:   query.Input,
		StateRO: newStateReader(exec.stateStore, query.CodeAddr),
	})
}

// VerifyTx checks the deployments of tx before it's accepted to the pool.
// The code of each deployment is installed by its driver.
func (exec *Execution) VerifyTx(tx *core.Transaction) error {
	for i, act := range tx.ContextFreeActions() {
		if act.IsDeployment() {
			return fmt.Errorf("context free action %d: %w", i, ErrContextFreeDeployment)
		}
	}
	for i, act := range tx.Actions() {
		if !act.IsDeployment() {
			continue
		}
		input, err := parseDeploymentInput(act.Input)
		if err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		if err := exec.codeRegistry.install(input); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
	}
	return nil
}
