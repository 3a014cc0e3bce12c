// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package chaincode

// NotFound is returned by ContextFreeData when no segment exists at the index
const NotFound = -1

// Console collects the printed output of an action
type Console interface {
	// Print appends a line to the action's console output
	Print(line string)
}

// CallContext is given to regular actions, deployment and queries
type CallContext interface {
	Console

	Sender() []byte
	BlockHash() []byte
	BlockHeight() uint64
	Input() []byte

	GetState(key []byte) []byte
	SetState(key, value []byte)
}

// ContextFreeContext is given to context free actions.
// It has no state access, only the context free data attached to the tx.
type ContextFreeContext interface {
	Console

	Input() []byte

	// ContextFreeData copies up to len(buf) bytes of segment idx into buf
	// and returns the full segment size, or NotFound if there's no segment at idx.
	// Call with an empty buf to query the size only.
	ContextFreeData(idx int, buf []byte) (int, error)
}

// Chaincode is implemented by all chaincodes
type Chaincode interface {
	// Init is called when chaincode is deployed
	Init(ctx CallContext) error

	Invoke(ctx CallContext) error

	Query(ctx CallContext) ([]byte, error)
}

// ContextFreeChaincode is implemented by chaincodes accepting context free actions
type ContextFreeChaincode interface {
	Chaincode

	InvokeContextFree(ctx ContextFreeContext) error
}
