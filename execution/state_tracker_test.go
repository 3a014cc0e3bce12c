// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// mapStateStore stands in for committed state
type mapStateStore map[string][]byte

func newMapStateStore() *mapStateStore {
	ms := make(mapStateStore)
	return &ms
}

func (ms *mapStateStore) GetState(key []byte) []byte {
	return (*ms)[string(key)]
}

func (ms *mapStateStore) SetState(key, value []byte) {
	(*ms)[string(key)] = value
}

func TestStateTracker_ReadThrough(t *testing.T) {
	assert := assert.New(t)

	committed := newMapStateStore()
	committed.SetState([]byte("greeting"), []byte("Hi"))
	blkTrk := newStateTracker(committed, nil)
	txTrk := blkTrk.spawn(nil)

	assert.Equal([]byte("Hi"), txTrk.GetState([]byte("greeting")), "committed value")
	assert.Nil(txTrk.GetState([]byte("missing")))

	blkTrk.SetState([]byte("greeting"), []byte("Hello"))
	assert.Equal([]byte("Hello"), txTrk.GetState([]byte("greeting")),
		"earlier tx of the block wins over committed")
	assert.Equal([]byte("Hi"), committed.GetState([]byte("greeting")),
		"committed state untouched")
}

func TestStateTracker_LastWriteWins(t *testing.T) {
	assert := assert.New(t)

	trk := newStateTracker(newMapStateStore(), nil)
	for _, v := range []string{"a", "b", "c"} {
		trk.SetState([]byte("k"), []byte(v))
	}
	assert.Equal([]byte("c"), trk.GetState([]byte("k")))

	scList := trk.getStateChanges()
	if assert.Len(scList, 1) {
		assert.Equal([]byte("c"), scList[0].Value())
	}
}

func TestStateTracker_TxAllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		txOK    bool
		wantVal []byte
		changes int
	}{
		{"tx succeeded", true, []byte("tx"), 2},
		{"tx failed", false, []byte("blk"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)

			blkTrk := newStateTracker(newMapStateStore(), nil)
			blkTrk.SetState([]byte{1}, []byte("blk"))

			txTrk := blkTrk.spawn(nil)
			txTrk.SetState([]byte{1}, []byte("tx"))
			txTrk.SetState([]byte{2}, []byte("new"))
			assert.Equal([]byte("blk"), blkTrk.GetState([]byte{1}), "not visible before merge")

			if tt.txOK {
				blkTrk.merge(txTrk)
			}
			assert.Equal(tt.wantVal, blkTrk.GetState([]byte{1}))
			assert.Len(blkTrk.getStateChanges(), tt.changes)
		})
	}
}

func TestStateTracker_CodePrefix(t *testing.T) {
	assert := assert.New(t)

	codeAddr := []byte{0xcf}
	blkTrk := newStateTracker(newMapStateStore(), nil)
	blkTrk.SetState([]byte{0xcf, 1}, []byte("old"))

	codeTrk := blkTrk.spawn(codeAddr)
	assert.Equal([]byte("old"), codeTrk.GetState([]byte{1}))

	codeTrk.SetState([]byte{1}, []byte("new"))
	codeTrk.SetState([]byte{2}, []byte("more"))
	assert.Len(codeTrk.getStateChanges(), 2)

	blkTrk.merge(codeTrk)
	assert.Equal([]byte("new"), blkTrk.GetState([]byte{0xcf, 1}))
	assert.Equal([]byte("more"), blkTrk.GetState([]byte{0xcf, 2}))
	assert.Nil(blkTrk.GetState([]byte{2}), "unprefixed key not written")
}

func TestStateTracker_StateChangesSorted(t *testing.T) {
	assert := assert.New(t)

	trk := newStateTracker(newMapStateStore(), nil)
	trk.SetState([]byte{3}, []byte{30})
	trk.SetState([]byte{1}, []byte{10})
	trk.SetState([]byte{2}, nil)

	scList := trk.getStateChanges()
	if assert.Len(scList, 3) {
		assert.Equal([]byte{1}, scList[0].Key())
		assert.Equal([]byte{2}, scList[1].Key())
		assert.True(scList[1].Deleted())
		assert.Equal([]byte{3}, scList[2].Key())
	}
}

func TestStateReader(t *testing.T) {
	assert := assert.New(t)

	ms := newMapStateStore()
	ms.SetState([]byte{1, 2}, []byte{12})
	sr := newStateReader(ms, []byte{1})

	assert.Equal([]byte{12}, sr.GetState([]byte{2}))
	assert.Nil(sr.GetState([]byte{1}))
}
