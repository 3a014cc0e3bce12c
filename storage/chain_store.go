// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package storage

import (
	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/util"
	"github.com/dgraph-io/badger/v3"
)

type chainStore struct {
	getter getter
}

func (cs *chainStore) getBlock(hash []byte) (*core.Block, error) {
	b, err := cs.getter.Get(util.ConcatBytes([]byte{colBlockByHash}, hash))
	if err != nil {
		return nil, err
	}
	blk := core.NewBlock()
	if err := blk.Unmarshal(b); err != nil {
		return nil, err
	}
	return blk, nil
}

func (cs *chainStore) getLastBlock() (*core.Block, error) {
	height, err := cs.getBlockHeight()
	if err != nil {
		return nil, err
	}
	return cs.getBlockByHeight(height)
}

func (cs *chainStore) getBlockHeight() (uint64, error) {
	b, err := cs.getter.Get([]byte{colBlockHeight})
	if err != nil {
		return 0, err
	}
	return util.ByteOrder.Uint64(b), nil
}

func (cs *chainStore) getBlockByHeight(height uint64) (*core.Block, error) {
	hash, err := cs.getBlockHashByHeight(height)
	if err != nil {
		return nil, err
	}
	return cs.getBlock(hash)
}

func (cs *chainStore) getBlockHashByHeight(height uint64) ([]byte, error) {
	return cs.getter.Get(util.ConcatBytes([]byte{colBlockHashByHeight}, util.Uint64ToBytes(height)))
}

func (cs *chainStore) getBlockCommit(hash []byte) (*core.BlockCommit, error) {
	b, err := cs.getter.Get(util.ConcatBytes([]byte{colBlockCommitByHash}, hash))
	if err != nil {
		return nil, err
	}
	bcm := core.NewBlockCommit()
	if err := bcm.Unmarshal(b); err != nil {
		return nil, err
	}
	return bcm, nil
}

func (cs *chainStore) getTx(hash []byte) (*core.Transaction, error) {
	b, err := cs.getter.Get(util.ConcatBytes([]byte{colTxByHash}, hash))
	if err != nil {
		return nil, err
	}
	tx := core.NewTransaction()
	if err := tx.Unmarshal(b); err != nil {
		return nil, err
	}
	return tx, nil
}

func (cs *chainStore) hasTx(hash []byte) bool {
	return cs.getter.HasKey(util.ConcatBytes([]byte{colTxByHash}, hash))
}

func (cs *chainStore) getTxCommit(hash []byte) (*core.TxCommit, error) {
	b, err := cs.getter.Get(util.ConcatBytes([]byte{colTxCommitByHash}, hash))
	if err != nil {
		return nil, err
	}
	txc := core.NewTxCommit()
	if err := txc.Unmarshal(b); err != nil {
		return nil, err
	}
	return txc, nil
}

func (cs *chainStore) setBlockHeight(height uint64) updateFunc {
	return func(txn *badger.Txn) error {
		return txn.Set([]byte{colBlockHeight}, util.Uint64ToBytes(height))
	}
}

func (cs *chainStore) setBlock(blk *core.Block) []updateFunc {
	ret := make([]updateFunc, 0, 2)
	ret = append(ret, cs.setBlockByHash(blk))
	ret = append(ret, cs.setBlockHashByHeight(blk))
	return ret
}

func (cs *chainStore) setBlockByHash(blk *core.Block) updateFunc {
	return func(txn *badger.Txn) error {
		val, err := blk.Marshal()
		if err != nil {
			return err
		}
		return txn.Set(util.ConcatBytes([]byte{colBlockByHash}, blk.Hash()), val)
	}
}

func (cs *chainStore) setBlockHashByHeight(blk *core.Block) updateFunc {
	return func(txn *badger.Txn) error {
		key := util.ConcatBytes([]byte{colBlockHashByHeight}, util.Uint64ToBytes(blk.Height()))
		return txn.Set(key, blk.Hash())
	}
}

func (cs *chainStore) setBlockCommit(bcm *core.BlockCommit) updateFunc {
	return func(txn *badger.Txn) error {
		val, err := bcm.Marshal()
		if err != nil {
			return err
		}
		return txn.Set(util.ConcatBytes([]byte{colBlockCommitByHash}, bcm.Hash()), val)
	}
}

func (cs *chainStore) setTxs(txs []*core.Transaction) []updateFunc {
	ret := make([]updateFunc, len(txs))
	for i, tx := range txs {
		ret[i] = cs.setTx(tx)
	}
	return ret
}

func (cs *chainStore) setTx(tx *core.Transaction) updateFunc {
	return func(txn *badger.Txn) error {
		val, err := tx.Marshal()
		if err != nil {
			return err
		}
		return txn.Set(util.ConcatBytes([]byte{colTxByHash}, tx.Hash()), val)
	}
}

func (cs *chainStore) setTxCommits(txCommits []*core.TxCommit) []updateFunc {
	ret := make([]updateFunc, len(txCommits))
	for i, txc := range txCommits {
		ret[i] = cs.setTxCommit(txc)
	}
	return ret
}

func (cs *chainStore) setTxCommit(txc *core.TxCommit) updateFunc {
	return func(txn *badger.Txn) error {
		val, err := txc.Marshal()
		if err != nil {
			return err
		}
		return txn.Set(util.ConcatBytes([]byte{colTxCommitByHash}, txc.Hash()), val)
	}
}
