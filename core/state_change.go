// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"encoding/json"
)

type stateChangeData struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

type StateChange struct {
	data *stateChangeData
}

func NewStateChange() *StateChange {
	return &StateChange{
		data: new(stateChangeData),
	}
}

func (sc *StateChange) Key() []byte   { return sc.data.Key }
func (sc *StateChange) Value() []byte { return sc.data.Value }

func (sc *StateChange) SetKey(val []byte) *StateChange {
	sc.data.Key = val
	return sc
}

func (sc *StateChange) SetValue(val []byte) *StateChange {
	sc.data.Value = val
	return sc
}

// Deleted returns true if the change removes the key
func (sc *StateChange) Deleted() bool {
	return len(sc.Value()) == 0
}

func (sc *StateChange) Marshal() ([]byte, error) {
	w := new(wireWriter)
	w.bytes(1, sc.data.Key)
	w.bytes(2, sc.data.Value)
	return w.b, nil
}

func (sc *StateChange) Unmarshal(b []byte) error {
	data := new(stateChangeData)
	err := consumeFields(b, func(f wireField) (err error) {
		switch f.num {
		case 1:
			data.Key, err = f.asBytes()
		case 2:
			data.Value, err = f.asBytes()
		}
		return err
	})
	if err != nil {
		return err
	}
	sc.data = data
	return nil
}

func (sc *StateChange) MarshalJSON() ([]byte, error) {
	return json.Marshal(sc.data)
}
