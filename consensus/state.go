// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package consensus

import (
	"sync"
	"time"

	"github.com/aungmawjj/juria-cfhello/core"
)

type state struct {
	lastBlk         *core.Block
	commitedTxCount int
	startTime       int64

	mtx sync.RWMutex
}

func newState() *state {
	return &state{
		startTime: time.Now().UnixNano(),
	}
}

func (s *state) setLastBlock(blk *core.Block) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.lastBlk = blk
}

func (s *state) getLastBlock() *core.Block {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.lastBlk
}

func (s *state) addCommitedTxCount(count int) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.commitedTxCount += count
}

func (s *state) getStatus() (status Status) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	status.StartTime = s.startTime
	status.CommitedTxCount = s.commitedTxCount
	if s.lastBlk != nil {
		status.BlockHeight = s.lastBlk.Height()
		status.LastBlockHash = s.lastBlk.Hash()
		if s.lastBlk.Proposer() != nil {
			status.Proposer = s.lastBlk.Proposer().String()
		}
	}
	return status
}
