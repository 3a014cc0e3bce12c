// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package execution

import (
	"errors"
	"fmt"
	"time"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/execution/chaincode"
)

var (
	ErrExecTimeout           = errors.New("action execution timeout")
	ErrContextFreeDeployment = errors.New("deployment in context free action")
	ErrNotContextFree        = errors.New("chaincode does not accept context free actions")
)

type txExecutor struct {
	codeRegistry *codeRegistry

	timeout time.Duration
	rootTrk *stateTracker

	blk *core.Block
	tx  *core.Transaction

	// results of context free actions
	cfTraces  []*core.ActionTrace
	cfErr     error
	cfElapsed time.Duration
}

// executeContextFree runs the context free actions of the tx.
// They don't touch the state, so it's safe to run different txs concurrently.
// It stops at the first failed action.
func (txe *txExecutor) executeContextFree() {
	start := time.Now()
	defer func() { txe.cfElapsed = time.Since(start) }()

	for i, act := range txe.tx.ContextFreeActions() {
		cons := newConsole(txe.tx.Hash())
		err := txe.runWithTimeout(func() error {
			return txe.invokeContextFree(act, cons)
		})
		observeAction(kindContextFree, err)
		trace := &core.ActionTrace{
			Index:       i,
			CodeAddr:    act.CodeAddr,
			ContextFree: true,
			Console:     cons.getLines(),
		}
		txe.cfTraces = append(txe.cfTraces, trace)
		if err != nil {
			trace.Error = err.Error()
			txe.cfErr = fmt.Errorf("context free action %d: %w", i, err)
			return
		}
	}
}

// execute runs the regular actions after context free actions.
// State changes of the tx are merged to the block only if all actions succeed.
func (txe *txExecutor) execute() *core.TxCommit {
	start := time.Now()
	txc := core.NewTxCommit().
		SetHash(txe.tx.Hash()).
		SetBlockHash(txe.blk.Hash()).
		SetBlockHeight(txe.blk.Height())

	for _, trace := range txe.cfTraces {
		txc.AddTrace(trace)
	}
	err := txe.cfErr
	if err == nil {
		err = txe.executeActions(txc)
	}
	if err != nil {
		txc.SetError(err.Error())
	}
	elapsed := time.Since(start) + txe.cfElapsed
	txc.SetElapsed(elapsed.Seconds())
	txDuration.Observe(elapsed.Seconds())
	return txc
}

func (txe *txExecutor) executeActions(txc *core.TxCommit) error {
	txTrk := txe.rootTrk.spawn(nil)
	for i, act := range txe.tx.Actions() {
		cons := newConsole(txe.tx.Hash())
		actTrk := txTrk.spawn(nil)
		err := txe.runWithTimeout(func() error {
			return txe.executeAction(i, act, actTrk, cons)
		})
		kind := kindRegular
		if act.IsDeployment() {
			kind = kindDeploy
		}
		observeAction(kind, err)
		trace := &core.ActionTrace{
			Index:    i,
			CodeAddr: act.CodeAddr,
			Console:  cons.getLines(),
		}
		txc.AddTrace(trace)
		if err != nil {
			trace.Error = err.Error()
			return fmt.Errorf("action %d: %w", i, err)
		}
		txTrk.merge(actTrk)
	}
	txe.rootTrk.merge(txTrk)
	return nil
}

func (txe *txExecutor) runWithTimeout(fn func() error) error {
	exeError := make(chan error, 1)
	go func() {
		exeError <- runRecover(fn)
	}()

	timer := time.NewTimer(txe.timeout)
	defer timer.Stop()

	select {
	case err := <-exeError:
		return err

	case <-timer.C:
		return ErrExecTimeout
	}
}

func runRecover(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%+v", r)
		}
	}()
	return fn()
}

func (txe *txExecutor) invokeContextFree(act *core.Action, cons *console) error {
	if act.IsDeployment() {
		return ErrContextFreeDeployment
	}
	cc, err := txe.codeRegistry.getInstance(act.CodeAddr,
		newStateReader(txe.rootTrk, codeRegistryAddr))
	if err != nil {
		return err
	}
	cfc, ok := cc.(chaincode.ContextFreeChaincode)
	if !ok {
		return ErrNotContextFree
	}
	return cfc.InvokeContextFree(&callContextFree{
		console: cons,
		tx:      txe.tx,
		input:   act.Input,
	})
}

func (txe *txExecutor) executeAction(
	idx int, act *core.Action, trk *stateTracker, cons *console,
) error {
	if act.IsDeployment() {
		return txe.executeDeployment(idx, act, trk, cons)
	}
	return txe.executeInvoke(act, trk, cons)
}

func (txe *txExecutor) executeDeployment(
	idx int, act *core.Action, trk *stateTracker, cons *console,
) error {
	input, err := parseDeploymentInput(act.Input)
	if err != nil {
		return err
	}
	codeAddr := CodeAddress(txe.tx.Hash(), idx)
	regTrk := trk.spawn(codeRegistryAddr)
	cc, err := txe.codeRegistry.deploy(codeAddr, input, regTrk)
	if err != nil {
		return err
	}

	initTrk := trk.spawn(codeAddr)
	err = cc.Init(txe.makeCallContext(initTrk, input.InitInput, cons))
	if err != nil {
		return err
	}
	trk.merge(regTrk)
	trk.merge(initTrk)
	return nil
}

func (txe *txExecutor) executeInvoke(act *core.Action, trk *stateTracker, cons *console) error {
	cc, err := txe.codeRegistry.getInstance(act.CodeAddr, newStateReader(trk, codeRegistryAddr))
	if err != nil {
		return err
	}
	invokeTrk := trk.spawn(act.CodeAddr)
	err = cc.Invoke(txe.makeCallContext(invokeTrk, act.Input, cons))
	if err != nil {
		return err
	}
	trk.merge(invokeTrk)
	return nil
}

func (txe *txExecutor) makeCallContext(
	state State, input []byte, cons *console,
) chaincode.CallContext {
	return &callContextTx{
		console: cons,
		blk:     txe.blk,
		tx:      txe.tx,
		input:   input,
		State:   state,
	}
}
