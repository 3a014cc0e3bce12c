// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package bincc

import (
	jsoniter "github.com/json-iterator/go"
)

// messages on the pipe are encoded with json
var json = jsoniter.ConfigCompatibleWithStandardLibrary

type CallType int

const (
	CallTypeInit CallType = iota
	CallTypeInvoke
	CallTypeQuery
	CallTypeContextFree
)

type CallData struct {
	Input       []byte   `json:"input"`
	Sender      []byte   `json:"sender"`
	BlockHash   []byte   `json:"blockHash"`
	BlockHeight uint64   `json:"blockHeight"`
	CallType    CallType `json:"callType"`
}

type UpStreamType int

const (
	UpStreamGetState UpStreamType = iota
	UpStreamSetState
	UpStreamPrint
	UpStreamContextFreeData
	UpStreamResult
)

type UpStream struct {
	Key   []byte       `json:"key"`
	Value []byte       `json:"value"`
	Error string       `json:"error"`
	Index int          `json:"index"`
	Size  int          `json:"size"`
	Type  UpStreamType `json:"type"`
}

type DownStream struct {
	Value []byte `json:"value"`
	Size  int    `json:"size"`
	Error string `json:"error"`
}
