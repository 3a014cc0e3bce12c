// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package consensus

import (
	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/storage"
	"github.com/aungmawjj/juria-cfhello/txpool"
)

type TxPool interface {
	PopTxsFromQueue(max int) []*core.Transaction
	RemoveTxs(hashes [][]byte)
	PutTxsToQueue(hashes [][]byte)
	GetStatus() txpool.Status
}

type Storage interface {
	Commit(data *storage.CommitData) error
	GetLastBlock() (*core.Block, error)
}

type Execution interface {
	Execute(blk *core.Block, txs []*core.Transaction) (*core.BlockCommit, []*core.TxCommit)
}

type Resources struct {
	Signer    *core.PrivateKey
	Storage   Storage
	TxPool    TxPool
	Execution Execution
}
