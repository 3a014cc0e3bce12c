// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package execution

import (
	"sort"
	"sync"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/util"
)

type StateRO interface {
	GetState(key []byte) []byte
}

type State interface {
	StateRO
	SetState(key, value []byte)
}

// stateTracker tracks state changes in key order
// get latest changed state for each key
// get state from base state if no changes occured for a key
type stateTracker struct {
	keyPrefix []byte
	baseState StateRO

	changes map[string][]byte

	mtx sync.RWMutex
}

var _ State = (*stateTracker)(nil)

func newStateTracker(state StateRO, keyPrefix []byte) *stateTracker {
	return &stateTracker{
		keyPrefix: keyPrefix,
		baseState: state,

		changes: make(map[string][]byte),
	}
}

func (trk *stateTracker) GetState(key []byte) []byte {
	trk.mtx.RLock()
	defer trk.mtx.RUnlock()
	return trk.getState(key)
}

func (trk *stateTracker) SetState(key, value []byte) {
	trk.mtx.Lock()
	defer trk.mtx.Unlock()
	trk.setState(key, value)
}

// spawn creates a new tracker with current tracker as base state
func (trk *stateTracker) spawn(keyPrefix []byte) *stateTracker {
	return newStateTracker(trk, keyPrefix)
}

// merge applies the changes of a child tracker,
// child keys already include the child's prefix
func (trk *stateTracker) merge(trk1 *stateTracker) {
	trk.mtx.Lock()
	defer trk.mtx.Unlock()

	trk1.mtx.RLock()
	defer trk1.mtx.RUnlock()

	for key, value := range trk1.changes {
		trk.setState([]byte(key), value)
	}
}

func (trk *stateTracker) getStateChanges() []*core.StateChange {
	trk.mtx.RLock()
	defer trk.mtx.RUnlock()

	keys := make([]string, 0, len(trk.changes))
	for key := range trk.changes {
		keys = append(keys, key)
	}
	// sorted by keys to get the same commit for the same block
	sort.Strings(keys)
	scList := make([]*core.StateChange, len(keys))
	for i, key := range keys {
		value := trk.changes[key]
		scList[i] = core.NewStateChange().SetKey([]byte(key)).SetValue(value)
	}
	return scList
}

func (trk *stateTracker) getState(key []byte) []byte {
	key = util.ConcatBytes(trk.keyPrefix, key)
	if value, ok := trk.changes[string(key)]; ok {
		return value
	}
	return trk.baseState.GetState(key)
}

func (trk *stateTracker) setState(key, value []byte) {
	key = util.ConcatBytes(trk.keyPrefix, key)
	trk.changes[string(key)] = value
}

// stateReader reads committed state under a key prefix, used for queries
type stateReader struct {
	store     StateRO
	keyPrefix []byte
}

var _ StateRO = (*stateReader)(nil)

func newStateReader(store StateRO, prefix []byte) *stateReader {
	return &stateReader{
		store:     store,
		keyPrefix: prefix,
	}
}

func (sr *stateReader) GetState(key []byte) []byte {
	return sr.store.GetState(util.ConcatBytes(sr.keyPrefix, key))
}
