// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package consensus

import (
	"fmt"
	"time"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/emitter"
	"github.com/aungmawjj/juria-cfhello/logger"
	"github.com/aungmawjj/juria-cfhello/storage"
)

// producer is the solo block maker, it proposes, executes and commits
// a block on every beat
type producer struct {
	resources *Resources
	state     *state
	emitter   *emitter.Emitter[*storage.CommitData]

	blockTxLimit int
	txWaitTime   time.Duration
	blockDelay   time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

func (prd *producer) start() {
	if prd.stopCh != nil {
		return
	}
	prd.stopCh = make(chan struct{})
	prd.doneCh = make(chan struct{})
	go prd.beatLoop()
	logger.I().Info("started producer")
}

func (prd *producer) stop() {
	if prd.stopCh == nil {
		return // not started yet
	}
	select {
	case <-prd.stopCh: // already stopped
		return
	default:
	}
	close(prd.stopCh)
	<-prd.doneCh
	logger.I().Info("stopped producer")
}

func (prd *producer) beatLoop() {
	defer close(prd.doneCh)

	for {
		blk, err := prd.onBeat()
		if err != nil {
			logger.I().Errorw("produce block failed", "error", err)
		}
		delay := prd.blockDelay
		if blk == nil {
			delay += prd.txWaitTime
		}
		select {
		case <-prd.stopCh:
			return
		case <-time.After(delay):
		}
	}
}

// onBeat produces one block, it returns nil block if the pool is empty
func (prd *producer) onBeat() (*core.Block, error) {
	txs := prd.resources.TxPool.PopTxsFromQueue(prd.blockTxLimit)
	if len(txs) == 0 {
		return nil, nil
	}
	hashes := make([][]byte, len(txs))
	for i, tx := range txs {
		hashes[i] = tx.Hash()
	}
	blk, err := prd.produce(txs, hashes)
	if err != nil {
		prd.resources.TxPool.PutTxsToQueue(hashes)
		return nil, err
	}
	prd.resources.TxPool.RemoveTxs(hashes)
	return blk, nil
}

func (prd *producer) produce(txs []*core.Transaction, hashes [][]byte) (*core.Block, error) {
	lastBlk := prd.state.getLastBlock()
	blk := core.NewBlock().
		SetHeight(lastBlk.Height() + 1).
		SetParentHash(lastBlk.Hash()).
		SetTimestamp(time.Now().UnixNano()).
		SetTransactions(hashes).
		Sign(prd.resources.Signer)

	bcm, txcs := prd.resources.Execution.Execute(blk, txs)
	data := &storage.CommitData{
		Block:        blk,
		Transactions: txs,
		BlockCommit:  bcm,
		TxCommits:    txcs,
	}
	if err := prd.resources.Storage.Commit(data); err != nil {
		return nil, fmt.Errorf("commit block %d failed, %w", blk.Height(), err)
	}
	prd.state.setLastBlock(blk)
	prd.state.addCommitedTxCount(len(txs))
	prd.emitter.Emit(data)

	blocksCommitted.Inc()
	blockTxs.Observe(float64(len(txs)))
	blockHeight.Set(float64(blk.Height()))

	logger.I().Infow("committed block",
		"height", blk.Height(),
		"txs", len(txs),
		"exec", bcm.ElapsedExec(),
	)
	return blk, nil
}
