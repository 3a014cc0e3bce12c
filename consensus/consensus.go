// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package consensus

import (
	"errors"
	"fmt"

	"github.com/aungmawjj/juria-cfhello/emitter"
	"github.com/aungmawjj/juria-cfhello/logger"
	"github.com/aungmawjj/juria-cfhello/storage"
)

type Consensus struct {
	resources *Resources
	config    Config

	state    *state
	emitter  *emitter.Emitter[*storage.CommitData]
	producer *producer
}

func New(resources *Resources, config Config) (*Consensus, error) {
	cons := &Consensus{
		resources: resources,
		config:    config,
		emitter:   emitter.New[*storage.CommitData](),
	}
	if cons.config.BlockTxLimit <= 0 {
		cons.config.BlockTxLimit = DefaultConfig.BlockTxLimit
	}
	if err := cons.start(); err != nil {
		return nil, err
	}
	return cons, nil
}

func (cons *Consensus) Stop() {
	cons.producer.stop()
}

func (cons *Consensus) GetStatus() Status {
	return cons.state.getStatus()
}

// SubscribeCommit receives every committed block with its txs and commits
func (cons *Consensus) SubscribeCommit(buffer int) *emitter.Subscription[*storage.CommitData] {
	return cons.emitter.Subscribe(buffer)
}

func (cons *Consensus) start() error {
	cons.state = newState()
	lastBlk, err := cons.resources.Storage.GetLastBlock()
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("cannot load last block, %w", err)
	}
	if lastBlk == nil {
		gns := &genesis{
			resources: cons.resources,
			chainID:   cons.config.ChainID,
		}
		lastBlk, err = gns.run()
		if err != nil {
			return fmt.Errorf("genesis failed, %w", err)
		}
	}
	cons.state.setLastBlock(lastBlk)
	blockHeight.Set(float64(lastBlk.Height()))
	logger.I().Infow("consensus starting", "height", lastBlk.Height())

	cons.producer = &producer{
		resources:    cons.resources,
		state:        cons.state,
		emitter:      cons.emitter,
		blockTxLimit: cons.config.BlockTxLimit,
		txWaitTime:   cons.config.TxWaitTime,
		blockDelay:   cons.config.BlockDelay,
	}
	cons.producer.start()
	return nil
}
