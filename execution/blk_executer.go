// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package execution

import (
	"sync"
	"time"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/logger"
)

type blkExecutor struct {
	txTimeout       time.Duration
	concurrentLimit int

	codeRegistry *codeRegistry
	state        StateRO
	blk          *core.Block
	txs          []*core.Transaction

	rootTrk *stateTracker
	txExes  []*txExecutor
}

/*
A block is executed in two phases.

Context free actions only read the context free data of their own tx.
In the first phase they are executed for all txs concurrently,
with at most concurrentLimit workers.
Chaincodes are looked up from the state before the block.

In the second phase the regular actions are executed tx by tx in block order.
The state changes of a tx are merged with the block's state changes
only if all of its actions succeed.
A tx with a failed context free action skips the second phase.
*/
func (bexe *blkExecutor) execute() (*core.BlockCommit, []*core.TxCommit) {
	start := time.Now()
	bexe.rootTrk = newStateTracker(bexe.state, nil)
	bexe.txExes = make([]*txExecutor, len(bexe.txs))
	for i, tx := range bexe.txs {
		bexe.txExes[i] = &txExecutor{
			codeRegistry: bexe.codeRegistry,
			timeout:      bexe.txTimeout,
			rootTrk:      bexe.rootTrk,
			blk:          bexe.blk,
			tx:           tx,
		}
	}
	bexe.executeContextFree()

	txCommits := make([]*core.TxCommit, len(bexe.txs))
	for i, texe := range bexe.txExes {
		txCommits[i] = texe.execute()
	}
	elapsed := time.Since(start)
	bcm := core.NewBlockCommit().
		SetHash(bexe.blk.Hash()).
		SetStateChanges(bexe.rootTrk.getStateChanges()).
		SetElapsedExec(elapsed.Seconds())

	if len(bexe.txs) > 0 {
		logger.I().Debugw("batch execution",
			"txs", len(bexe.txs), "elapsed", elapsed)
	}
	return bcm, txCommits
}

func (bexe *blkExecutor) executeContextFree() {
	workers := bexe.concurrentLimit
	if workers < 1 {
		workers = 1
	}
	if workers > len(bexe.txs) {
		workers = len(bexe.txs)
	}
	jobCh := make(chan *txExecutor, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bexe.worker(jobCh)
		}()
	}
	for _, texe := range bexe.txExes {
		if len(texe.tx.ContextFreeActions()) > 0 {
			jobCh <- texe
		}
	}
	close(jobCh)
	wg.Wait()
}

func (bexe *blkExecutor) worker(jobCh <-chan *txExecutor) {
	for texe := range jobCh {
		texe.executeContextFree()
	}
}
