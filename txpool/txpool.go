// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package txpool

import (
	"errors"
	"time"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/logger"
	"github.com/aungmawjj/juria-cfhello/util"
)

var ErrTxExpired = errors.New("tx expired")

type Status struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Queue   int `json:"queue"`
	Expired int `json:"expired"`
}

type Storage interface {
	HasTx(hash []byte) bool
}

type Execution interface {
	VerifyTx(tx *core.Transaction) error
}

type TxStatus uint8

const (
	TxStatusNotFound TxStatus = iota
	TxStatusQueue
	TxStatusPending
	TxStatusCommited
)

func (s TxStatus) String() string {
	switch s {
	case TxStatusQueue:
		return "queue"
	case TxStatusPending:
		return "pending"
	case TxStatusCommited:
		return "committed"
	default:
		return "notfound"
	}
}

type TxPool struct {
	storage   Storage
	execution Execution

	store *txStore
	now   func() time.Time
}

func New(storage Storage, execution Execution) *TxPool {
	return &TxPool{
		storage:   storage,
		execution: execution,
		store:     newTxStore(),
		now:       time.Now,
	}
}

// SubmitTx validates tx and adds it to the queue.
// A tx which is already committed is ignored.
func (pool *TxPool) SubmitTx(tx *core.Transaction) error {
	err := pool.submitTx(tx)
	if err != nil {
		txsSubmitted.WithLabelValues(resultRejected).Inc()
	}
	return err
}

// PopTxsFromQueue returns queued txs in received order and marks them pending
func (pool *TxPool) PopTxsFromQueue(max int) []*core.Transaction {
	return pool.store.popTxsFromQueue(max, pool.now())
}

// PutTxsToQueue puts pending txs back to the queue
func (pool *TxPool) PutTxsToQueue(hashes [][]byte) {
	pool.store.putTxsToQueue(hashes)
}

func (pool *TxPool) RemoveTxs(hashes [][]byte) {
	pool.store.removeTxs(hashes)
}

func (pool *TxPool) GetTx(hash []byte) *core.Transaction {
	return pool.store.getTx(hash)
}

func (pool *TxPool) GetTxStatus(hash []byte) TxStatus {
	return pool.getTxStatus(hash)
}

func (pool *TxPool) GetStatus() Status {
	return pool.store.getStatus()
}

func (pool *TxPool) submitTx(tx *core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	if tx.Expired(pool.now()) {
		return ErrTxExpired
	}
	if pool.storage.HasTx(tx.Hash()) || pool.store.getTx(tx.Hash()) != nil {
		txsSubmitted.WithLabelValues(resultDuplicate).Inc()
		return nil
	}
	if err := pool.execution.VerifyTx(tx); err != nil {
		return err
	}
	if !pool.store.addNewTx(tx) {
		// a concurrent submit of the same tx got in first
		txsSubmitted.WithLabelValues(resultDuplicate).Inc()
		return nil
	}
	txsSubmitted.WithLabelValues(resultAccepted).Inc()
	logger.I().Debugw("accepted tx", "tx", util.HexString(tx.Hash()),
		"actions", len(tx.Actions()), "cfActions", len(tx.ContextFreeActions()))
	return nil
}

func (pool *TxPool) getTxStatus(hash []byte) TxStatus {
	status := pool.store.getTxStatus(hash)
	if status != TxStatusNotFound {
		return status
	}
	if pool.storage.HasTx(hash) {
		return TxStatusCommited
	}
	return TxStatusNotFound
}
