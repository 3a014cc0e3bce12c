// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package storage

import (
	"fmt"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/dgraph-io/badger/v3"
)

type CommitData struct {
	Block        *core.Block
	Transactions []*core.Transaction
	BlockCommit  *core.BlockCommit
	TxCommits    []*core.TxCommit
}

type Storage struct {
	db         *badger.DB
	chainStore *chainStore
	stateStore *stateStore
}

func New(db *badger.DB) *Storage {
	strg := new(Storage)
	strg.db = db
	getter := &badgerGetter{db}
	strg.chainStore = &chainStore{getter}
	strg.stateStore = &stateStore{getter}
	return strg
}

func (strg *Storage) Commit(data *CommitData) error {
	return strg.commit(data)
}

func (strg *Storage) GetBlock(hash []byte) (*core.Block, error) {
	return strg.chainStore.getBlock(hash)
}

func (strg *Storage) GetLastBlock() (*core.Block, error) {
	return strg.chainStore.getLastBlock()
}

func (strg *Storage) GetBlockHeight() (uint64, error) {
	return strg.chainStore.getBlockHeight()
}

func (strg *Storage) GetBlockByHeight(height uint64) (*core.Block, error) {
	return strg.chainStore.getBlockByHeight(height)
}

func (strg *Storage) GetBlockCommit(hash []byte) (*core.BlockCommit, error) {
	return strg.chainStore.getBlockCommit(hash)
}

func (strg *Storage) GetTx(hash []byte) (*core.Transaction, error) {
	return strg.chainStore.getTx(hash)
}

func (strg *Storage) HasTx(hash []byte) bool {
	return strg.chainStore.hasTx(hash)
}

func (strg *Storage) GetTxCommit(hash []byte) (*core.TxCommit, error) {
	return strg.chainStore.getTxCommit(hash)
}

func (strg *Storage) GetState(key []byte) []byte {
	return strg.stateStore.getState(key)
}

func (strg *Storage) Close() error {
	return strg.db.Close()
}

// commit writes the block height last,
// a block is only seen as committed when all of its data is stored
func (strg *Storage) commit(data *CommitData) error {
	if data.Block == nil || data.BlockCommit == nil {
		return fmt.Errorf("incomplete commit data")
	}
	if err := strg.storeChainData(data); err != nil {
		return fmt.Errorf("store chain data failed, %w", err)
	}
	if err := strg.storeBlockCommit(data); err != nil {
		return fmt.Errorf("store block commit failed, %w", err)
	}
	return strg.setCommitedBlockHeight(data.Block.Height())
}

func (strg *Storage) storeChainData(data *CommitData) error {
	updFns := make([]updateFunc, 0)
	updFns = append(updFns, strg.chainStore.setBlock(data.Block)...)
	updFns = append(updFns, strg.chainStore.setTxs(data.Transactions)...)
	updFns = append(updFns, strg.chainStore.setTxCommits(data.TxCommits)...)
	return updateBadgerDB(strg.db, updFns)
}

// commit block commit and state values in one transaction
func (strg *Storage) storeBlockCommit(data *CommitData) error {
	updFns := strg.stateStore.commitStateChanges(data.BlockCommit.StateChanges())
	updFns = append(updFns, strg.chainStore.setBlockCommit(data.BlockCommit))
	return updateBadgerDB(strg.db, updFns)
}

func (strg *Storage) setCommitedBlockHeight(height uint64) error {
	updFn := strg.chainStore.setBlockHeight(height)
	return updateBadgerDB(strg.db, []updateFunc{updFn})
}
