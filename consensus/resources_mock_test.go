// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package consensus

import (
	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/storage"
	"github.com/aungmawjj/juria-cfhello/txpool"
	"github.com/stretchr/testify/mock"
)

type MockTxPool struct {
	mock.Mock
}

var _ TxPool = (*MockTxPool)(nil)

func (m *MockTxPool) PopTxsFromQueue(max int) []*core.Transaction {
	args := m.Called(max)
	return castTransactions(args.Get(0))
}

func (m *MockTxPool) RemoveTxs(hashes [][]byte) {
	m.Called(hashes)
}

func (m *MockTxPool) PutTxsToQueue(hashes [][]byte) {
	m.Called(hashes)
}

func (m *MockTxPool) GetStatus() txpool.Status {
	args := m.Called()
	return args.Get(0).(txpool.Status)
}

type MockStorage struct {
	mock.Mock
}

var _ Storage = (*MockStorage)(nil)

func (m *MockStorage) Commit(data *storage.CommitData) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockStorage) GetLastBlock() (*core.Block, error) {
	args := m.Called()
	return castBlock(args.Get(0)), args.Error(1)
}

type MockExecution struct {
	mock.Mock
}

var _ Execution = (*MockExecution)(nil)

func (m *MockExecution) Execute(
	blk *core.Block, txs []*core.Transaction,
) (*core.BlockCommit, []*core.TxCommit) {
	args := m.Called(blk, txs)
	return castBlockCommit(args.Get(0)), castTxCommits(args.Get(1))
}

func castBlock(val interface{}) *core.Block {
	if blk, ok := val.(*core.Block); ok {
		return blk
	}
	return nil
}

func castTransactions(val interface{}) []*core.Transaction {
	if txs, ok := val.([]*core.Transaction); ok {
		return txs
	}
	return nil
}

func castBlockCommit(val interface{}) *core.BlockCommit {
	if bcm, ok := val.(*core.BlockCommit); ok {
		return bcm
	}
	return nil
}

func castTxCommits(val interface{}) []*core.TxCommit {
	if txcs, ok := val.([]*core.TxCommit); ok {
		return txcs
	}
	return nil
}
