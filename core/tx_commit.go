// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"encoding/json"
)

// ActionTrace records the outcome of a single executed action
type ActionTrace struct {
	Index       int      `json:"index"`
	CodeAddr    []byte   `json:"codeAddr"`
	ContextFree bool     `json:"contextFree"`
	Console     []string `json:"console"`
	Error       string   `json:"error,omitempty"`
}

func (trace *ActionTrace) marshal() []byte {
	w := new(wireWriter)
	w.uint64(1, uint64(trace.Index))
	w.bytes(2, trace.CodeAddr)
	w.bool(3, trace.ContextFree)
	for _, line := range trace.Console {
		w.bytesAlways(4, []byte(line))
	}
	w.string(5, trace.Error)
	return w.b
}

func (trace *ActionTrace) unmarshal(b []byte) error {
	return consumeFields(b, func(f wireField) (err error) {
		switch f.num {
		case 1:
			var idx uint64
			idx, err = f.asUint64()
			trace.Index = int(idx)
		case 2:
			trace.CodeAddr, err = f.asBytes()
		case 3:
			trace.ContextFree, err = f.asBool()
		case 4:
			var line string
			line, err = f.asString()
			trace.Console = append(trace.Console, line)
		case 5:
			trace.Error, err = f.asString()
		}
		return err
	})
}

type txCommitData struct {
	Hash        []byte         `json:"hash"`
	BlockHash   []byte         `json:"blockHash"`
	BlockHeight uint64         `json:"blockHeight"`
	Elapsed     float64        `json:"elapsed"`
	Error       string         `json:"error,omitempty"`
	Traces      []*ActionTrace `json:"traces"`
}

// TxCommit is the execution result of a transaction
type TxCommit struct {
	data *txCommitData
}

func NewTxCommit() *TxCommit {
	return &TxCommit{
		data: new(txCommitData),
	}
}

func (txc *TxCommit) SetHash(val []byte) *TxCommit {
	txc.data.Hash = val
	return txc
}

func (txc *TxCommit) SetBlockHash(val []byte) *TxCommit {
	txc.data.BlockHash = val
	return txc
}

func (txc *TxCommit) SetBlockHeight(val uint64) *TxCommit {
	txc.data.BlockHeight = val
	return txc
}

func (txc *TxCommit) SetElapsed(val float64) *TxCommit {
	txc.data.Elapsed = val
	return txc
}

func (txc *TxCommit) SetError(val string) *TxCommit {
	txc.data.Error = val
	return txc
}

func (txc *TxCommit) AddTrace(trace *ActionTrace) *TxCommit {
	txc.data.Traces = append(txc.data.Traces, trace)
	return txc
}

func (txc *TxCommit) Hash() []byte           { return txc.data.Hash }
func (txc *TxCommit) BlockHash() []byte      { return txc.data.BlockHash }
func (txc *TxCommit) BlockHeight() uint64    { return txc.data.BlockHeight }
func (txc *TxCommit) Elapsed() float64       { return txc.data.Elapsed }
func (txc *TxCommit) Error() string          { return txc.data.Error }
func (txc *TxCommit) Traces() []*ActionTrace { return txc.data.Traces }

// Console returns console lines of all actions in execution order
func (txc *TxCommit) Console() []string {
	lines := make([]string, 0)
	for _, trace := range txc.data.Traces {
		lines = append(lines, trace.Console...)
	}
	return lines
}

func (txc *TxCommit) Marshal() ([]byte, error) {
	w := new(wireWriter)
	w.bytes(1, txc.data.Hash)
	w.bytes(2, txc.data.BlockHash)
	w.uint64(3, txc.data.BlockHeight)
	w.double(4, txc.data.Elapsed)
	w.string(5, txc.data.Error)
	for _, trace := range txc.data.Traces {
		w.bytesAlways(6, trace.marshal())
	}
	return w.b, nil
}

func (txc *TxCommit) Unmarshal(b []byte) error {
	data := new(txCommitData)
	err := consumeFields(b, func(f wireField) (err error) {
		switch f.num {
		case 1:
			data.Hash, err = f.asBytes()
		case 2:
			data.BlockHash, err = f.asBytes()
		case 3:
			data.BlockHeight, err = f.asUint64()
		case 4:
			data.Elapsed, err = f.asDouble()
		case 5:
			data.Error, err = f.asString()
		case 6:
			var tb []byte
			if tb, err = f.asBytes(); err != nil {
				return err
			}
			trace := new(ActionTrace)
			err = trace.unmarshal(tb)
			data.Traces = append(data.Traces, trace)
		}
		return err
	})
	if err != nil {
		return err
	}
	txc.data = data
	return nil
}

func (txc *TxCommit) MarshalJSON() ([]byte, error) {
	return json.Marshal(txc.data)
}

func (txc *TxCommit) UnmarshalJSON(b []byte) error {
	data := new(txCommitData)
	if err := json.Unmarshal(b, data); err != nil {
		return err
	}
	txc.data = data
	return nil
}
