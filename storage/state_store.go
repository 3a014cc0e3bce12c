// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package storage

import (
	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/util"
	"github.com/dgraph-io/badger/v3"
)

type stateStore struct {
	getter getter
}

// getState returns nil for missing keys
func (ss *stateStore) getState(key []byte) []byte {
	val, _ := ss.getter.Get(util.ConcatBytes([]byte{colStateValueByKey}, key))
	return val
}

func (ss *stateStore) commitStateChanges(scList []*core.StateChange) []updateFunc {
	ret := make([]updateFunc, len(scList))
	for i, sc := range scList {
		ret[i] = ss.commitStateChange(sc)
	}
	return ret
}

func (ss *stateStore) commitStateChange(sc *core.StateChange) updateFunc {
	return func(txn *badger.Txn) error {
		key := util.ConcatBytes([]byte{colStateValueByKey}, sc.Key())
		if sc.Deleted() {
			return txn.Delete(key)
		}
		return txn.Set(key, sc.Value())
	}
}
