// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package execution

import (
	"sync"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/execution/chaincode"
	"github.com/aungmawjj/juria-cfhello/logger"
	"github.com/aungmawjj/juria-cfhello/util"
)

// console collects printed lines of an action.
// A timed out action may keep printing from its goroutine, so it's locked.
type console struct {
	txHash []byte
	lines  []string
	mtx    sync.Mutex
}

var _ chaincode.Console = (*console)(nil)

func newConsole(txHash []byte) *console {
	return &console{txHash: txHash}
}

func (c *console) Print(line string) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.lines = append(c.lines, line)
	consoleLines.Inc()
	logger.I().Debugw("chaincode console",
		"tx", util.HexString(c.txHash), "line", line)
}

func (c *console) getLines() []string {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	lines := make([]string, len(c.lines))
	copy(lines, c.lines)
	return lines
}

type callContextTx struct {
	*console
	blk   *core.Block
	tx    *core.Transaction
	input []byte
	State
}

var _ chaincode.CallContext = (*callContextTx)(nil)

func (ctx *callContextTx) Sender() []byte {
	if ctx.tx == nil {
		return nil
	}
	if ctx.tx.Sender() == nil {
		return nil
	}
	return ctx.tx.Sender().Bytes()
}

func (ctx *callContextTx) BlockHash() []byte {
	if ctx.blk == nil {
		return nil
	}
	return ctx.blk.Hash()
}

func (ctx *callContextTx) BlockHeight() uint64 {
	if ctx.blk == nil {
		return 0
	}
	return ctx.blk.Height()
}

func (ctx *callContextTx) Input() []byte {
	return ctx.input
}

// callContextFree only exposes the context free data of the tx
type callContextFree struct {
	*console
	tx    *core.Transaction
	input []byte
}

var _ chaincode.ContextFreeContext = (*callContextFree)(nil)

func (ctx *callContextFree) Input() []byte {
	return ctx.input
}

func (ctx *callContextFree) ContextFreeData(idx int, buf []byte) (int, error) {
	data := ctx.tx.ContextFreeData()
	if idx < 0 || idx >= len(data) {
		return chaincode.NotFound, nil
	}
	copy(buf, data[idx])
	return len(data[idx]), nil
}

type callContextQuery struct {
	input []byte
	StateRO
}

var _ chaincode.CallContext = (*callContextQuery)(nil)

func (ctx *callContextQuery) Input() []byte {
	return ctx.input
}

func (ctx *callContextQuery) Sender() []byte {
	return nil
}

func (ctx *callContextQuery) BlockHash() []byte {
	return nil
}

func (ctx *callContextQuery) BlockHeight() uint64 {
	return 0
}

func (ctx *callContextQuery) SetState(key, value []byte) {
	// do nothing
}

func (ctx *callContextQuery) Print(line string) {
	// queries have no console
}
