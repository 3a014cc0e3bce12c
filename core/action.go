// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Action calls a chaincode at CodeAddr with Input.
// An action without CodeAddr deploys a new chaincode.
type Action struct {
	CodeAddr []byte `json:"codeAddr"`
	Input    []byte `json:"input"`
}

// NewAction creates an invoke action
func NewAction(codeAddr, input []byte) *Action {
	return &Action{CodeAddr: codeAddr, Input: input}
}

// IsDeployment returns true when the action deploys a chaincode
func (act *Action) IsDeployment() bool {
	return len(act.CodeAddr) == 0
}

func (act *Action) marshal() []byte {
	w := new(wireWriter)
	w.bytes(1, act.CodeAddr)
	w.bytes(2, act.Input)
	return w.b
}

func (act *Action) unmarshal(b []byte) error {
	return consumeFields(b, func(f wireField) (err error) {
		switch f.num {
		case 1:
			act.CodeAddr, err = f.asBytes()
		case 2:
			act.Input, err = f.asBytes()
		}
		return err
	})
}

func hasNilAction(actions []*Action) bool {
	for _, act := range actions {
		if act == nil {
			return true
		}
	}
	return false
}

func appendActions(w *wireWriter, num protowire.Number, actions []*Action) {
	for _, act := range actions {
		w.bytesAlways(num, act.marshal())
	}
}

func unmarshalAction(f wireField) (*Action, error) {
	b, err := f.asBytes()
	if err != nil {
		return nil, err
	}
	act := new(Action)
	return act, act.unmarshal(b)
}
