// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package storage

import (
	"testing"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
)

func createOnMemoryDB() *badger.DB {
	db, _ := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	return db
}

func newTestStorage() *Storage {
	return New(createOnMemoryDB())
}

func TestStorage_StateZero(t *testing.T) {
	assert := assert.New(t)

	strg := newTestStorage()
	defer strg.Close()

	_, err := strg.GetBlockHeight()
	assert.ErrorIs(err, ErrNotFound)
	_, err = strg.GetLastBlock()
	assert.Error(err)
	assert.Nil(strg.GetState([]byte("some key")))
	assert.False(strg.HasTx([]byte("some hash")))
}

func TestStorage_Commit(t *testing.T) {
	assert := assert.New(t)

	strg := newTestStorage()
	defer strg.Close()

	priv := core.GenerateKey(nil)
	b0 := core.NewBlock().SetHeight(0).Sign(priv)
	bcm0 := core.NewBlockCommit().
		SetHash(b0.Hash()).
		SetStateChanges([]*core.StateChange{
			core.NewStateChange().SetKey([]byte{1}).SetValue([]byte{10}),
			core.NewStateChange().SetKey([]byte{2}).SetValue([]byte{20}),
		})
	err := strg.Commit(&CommitData{
		Block:       b0,
		BlockCommit: bcm0,
	})
	assert.NoError(err)

	blkHeight, err := strg.GetBlockHeight()
	assert.NoError(err)
	assert.EqualValues(0, blkHeight)

	blk, err := strg.GetLastBlock()
	assert.NoError(err)
	assert.Equal(b0.Hash(), blk.Hash())

	blk, err = strg.GetBlock(b0.Hash())
	assert.NoError(err)
	assert.Equal(b0.Hash(), blk.Hash())
	assert.True(priv.PublicKey().Equal(blk.Proposer()))

	blk, err = strg.GetBlockByHeight(0)
	assert.NoError(err)
	assert.Equal(b0.Hash(), blk.Hash())

	bcm, err := strg.GetBlockCommit(b0.Hash())
	assert.NoError(err)
	assert.Len(bcm.StateChanges(), 2)

	assert.Equal([]byte{10}, strg.GetState([]byte{1}))
	assert.Equal([]byte{20}, strg.GetState([]byte{2}))

	b1 := core.NewBlock().
		SetHeight(1).
		SetParentHash(b0.Hash()).
		Sign(priv)

	tx1 := core.NewTransaction().
		SetNonce(1).
		AddAction(core.NewAction([]byte{1}, []byte("input"))).
		SetContextFreeData([][]byte{[]byte("test"), []byte("testdata")}).
		Sign(priv)
	tx2 := core.NewTransaction().
		SetNonce(2).
		AddAction(core.NewAction([]byte{1}, []byte("input"))).
		Sign(priv)

	txc1 := core.NewTxCommit().SetHash(tx1.Hash()).SetBlockHash(b1.Hash())
	txc2 := core.NewTxCommit().SetHash(tx2.Hash()).SetBlockHash(b1.Hash()).
		AddTrace(&core.ActionTrace{Console: []string{"Hi, alice"}})

	bcm1 := core.NewBlockCommit().
		SetHash(b1.Hash()).
		SetStateChanges([]*core.StateChange{
			core.NewStateChange().SetKey([]byte{1}).SetValue([]byte{20}),
			core.NewStateChange().SetKey([]byte{2}), // deleted
			core.NewStateChange().SetKey([]byte{3}).SetValue([]byte{50}),
		})
	err = strg.Commit(&CommitData{
		Block:        b1,
		Transactions: []*core.Transaction{tx1, tx2},
		BlockCommit:  bcm1,
		TxCommits:    []*core.TxCommit{txc1, txc2},
	})
	assert.NoError(err)

	blkHeight, err = strg.GetBlockHeight()
	assert.NoError(err)
	assert.EqualValues(1, blkHeight)

	blk, err = strg.GetLastBlock()
	assert.NoError(err)
	assert.Equal(b1.Hash(), blk.Hash())

	tx, err := strg.GetTx(tx1.Hash())
	assert.NoError(err)
	assert.Equal(tx1.Nonce(), tx.Nonce())
	assert.Equal(tx1.ContextFreeData(), tx.ContextFreeData())
	assert.NoError(tx.Validate())

	assert.True(strg.HasTx(tx2.Hash()))

	txc, err := strg.GetTxCommit(tx2.Hash())
	assert.NoError(err)
	assert.Equal(txc2.Hash(), txc.Hash())
	assert.Equal([]string{"Hi, alice"}, txc.Console())

	assert.Equal([]byte{20}, strg.GetState([]byte{1}))
	assert.Nil(strg.GetState([]byte{2}))
	assert.Equal([]byte{50}, strg.GetState([]byte{3}))
}

func TestStorage_IncompleteCommit(t *testing.T) {
	assert := assert.New(t)

	strg := newTestStorage()
	defer strg.Close()

	blk := core.NewBlock().SetHeight(0).Sign(core.GenerateKey(nil))
	assert.Error(strg.Commit(&CommitData{Block: blk}))

	_, err := strg.GetBlockHeight()
	assert.Error(err)
}
