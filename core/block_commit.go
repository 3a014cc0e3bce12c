// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"encoding/json"
)

type blockCommitData struct {
	Hash         []byte         `json:"hash"`
	ElapsedExec  float64        `json:"elapsedExec"`
	StateChanges []*StateChange `json:"stateChanges"`
}

type BlockCommit struct {
	data *blockCommitData
}

func NewBlockCommit() *BlockCommit {
	return &BlockCommit{
		data: new(blockCommitData),
	}
}

func (bcm *BlockCommit) SetHash(val []byte) *BlockCommit {
	bcm.data.Hash = val
	return bcm
}

func (bcm *BlockCommit) SetElapsedExec(val float64) *BlockCommit {
	bcm.data.ElapsedExec = val
	return bcm
}

func (bcm *BlockCommit) SetStateChanges(val []*StateChange) *BlockCommit {
	bcm.data.StateChanges = val
	return bcm
}

func (bcm *BlockCommit) Hash() []byte                 { return bcm.data.Hash }
func (bcm *BlockCommit) ElapsedExec() float64         { return bcm.data.ElapsedExec }
func (bcm *BlockCommit) StateChanges() []*StateChange { return bcm.data.StateChanges }

func (bcm *BlockCommit) Marshal() ([]byte, error) {
	w := new(wireWriter)
	w.bytes(1, bcm.data.Hash)
	w.double(2, bcm.data.ElapsedExec)
	for _, sc := range bcm.data.StateChanges {
		b, err := sc.Marshal()
		if err != nil {
			return nil, err
		}
		w.bytesAlways(3, b)
	}
	return w.b, nil
}

func (bcm *BlockCommit) Unmarshal(b []byte) error {
	data := new(blockCommitData)
	err := consumeFields(b, func(f wireField) (err error) {
		switch f.num {
		case 1:
			data.Hash, err = f.asBytes()
		case 2:
			data.ElapsedExec, err = f.asDouble()
		case 3:
			var scb []byte
			if scb, err = f.asBytes(); err != nil {
				return err
			}
			sc := NewStateChange()
			err = sc.Unmarshal(scb)
			data.StateChanges = append(data.StateChanges, sc)
		}
		return err
	})
	if err != nil {
		return err
	}
	bcm.data = data
	return nil
}

func (bcm *BlockCommit) MarshalJSON() ([]byte, error) {
	return json.Marshal(bcm.data)
}
