// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package txpool

import (
	"container/heap"
	"sync"
	"time"

	"github.com/aungmawjj/juria-cfhello/core"
)

// txItem is a tx held by the store, seq is its arrival order
type txItem struct {
	tx    *core.Transaction
	seq   uint64
	index int // position in txQueue, -1 when pending
}

func (item *txItem) inQueue() bool {
	return item.index >= 0
}

// txQueue is a min heap on arrival order
type txQueue []*txItem

var _ heap.Interface = (*txQueue)(nil)

func (txq txQueue) Len() int           { return len(txq) }
func (txq txQueue) Less(i, j int) bool { return txq[i].seq < txq[j].seq }

func (txq txQueue) Swap(i, j int) {
	txq[i], txq[j] = txq[j], txq[i]
	txq[i].index, txq[j].index = i, j
}

func (txq *txQueue) Push(x interface{}) {
	item := x.(*txItem)
	item.index = len(*txq)
	*txq = append(*txq, item)
}

func (txq *txQueue) Pop() interface{} {
	last := len(*txq) - 1
	item := (*txq)[last]
	(*txq)[last] = nil
	item.index = -1
	*txq = (*txq)[:last]
	return item
}

// txStore keeps queued txs in received order and
// pending txs (popped for a block but not committed yet)
type txStore struct {
	txq     txQueue
	txItems map[string]*txItem
	nextSeq uint64
	expired int

	mtx sync.RWMutex
}

func newTxStore() *txStore {
	return &txStore{
		txItems: make(map[string]*txItem),
	}
}

// addNewTx queues tx, returns false if it's already in the store
func (store *txStore) addNewTx(tx *core.Transaction) bool {
	store.mtx.Lock()
	defer store.mtx.Unlock()

	if store.txItems[string(tx.Hash())] != nil {
		return false
	}
	item := &txItem{tx: tx, seq: store.nextSeq, index: -1}
	store.nextSeq++
	heap.Push(&store.txq, item)
	store.txItems[string(tx.Hash())] = item
	return true
}

// popTxsFromQueue returns up to max txs in received order,
// txs expired at now are dropped from the store
func (store *txStore) popTxsFromQueue(max int, now time.Time) []*core.Transaction {
	store.mtx.Lock()
	defer store.mtx.Unlock()

	ret := make([]*core.Transaction, 0)
	for len(ret) < max && store.txq.Len() > 0 {
		item := (heap.Pop(&store.txq)).(*txItem)
		if item.tx.Expired(now) {
			delete(store.txItems, string(item.tx.Hash()))
			store.expired++
			txsExpired.Inc()
			continue
		}
		ret = append(ret, item.tx)
	}
	if len(ret) == 0 {
		return nil
	}
	return ret
}

func (store *txStore) putTxsToQueue(hashes [][]byte) {
	store.mtx.Lock()
	defer store.mtx.Unlock()

	for _, hash := range hashes {
		if item, found := store.txItems[string(hash)]; found {
			if !item.inQueue() {
				heap.Push(&store.txq, item)
			}
		}
	}
}

func (store *txStore) removeTxs(hashes [][]byte) {
	store.mtx.Lock()
	defer store.mtx.Unlock()

	for _, hash := range hashes {
		if item, found := store.txItems[string(hash)]; found {
			if item.inQueue() {
				heap.Remove(&store.txq, item.index)
			}
			delete(store.txItems, string(hash))
		}
	}
}

func (store *txStore) getTx(hash []byte) *core.Transaction {
	store.mtx.RLock()
	defer store.mtx.RUnlock()

	item := store.txItems[string(hash)]
	if item == nil {
		return nil
	}
	return item.tx
}

func (store *txStore) getTxStatus(hash []byte) TxStatus {
	store.mtx.RLock()
	defer store.mtx.RUnlock()

	item := store.txItems[string(hash)]
	if item == nil {
		return TxStatusNotFound
	}
	if item.inQueue() {
		return TxStatusQueue
	}
	return TxStatusPending
}

func (store *txStore) getStatus() (status Status) {
	store.mtx.RLock()
	defer store.mtx.RUnlock()

	status.Total = len(store.txItems)
	status.Queue = store.txq.Len()
	status.Pending = status.Total - status.Queue
	status.Expired = store.expired
	return status
}
