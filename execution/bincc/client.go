// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package bincc

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/aungmawjj/juria-cfhello/execution/chaincode"
)

// ChaincodeHardTimeout bounds the life of a chaincode process,
// the node kills it earlier with its own exec timeout
const ChaincodeHardTimeout = 10 * time.Second

var (
	errNoContextFree   = errors.New("chaincode does not accept context free actions")
	errUnknownCallType = errors.New("unknown call type")
)

// Client runs inside the chaincode process
// and serves both call contexts over the pipe with the node
type Client struct {
	rw       *readWriter
	cc       chaincode.Chaincode
	callData *CallData
}

var (
	_ chaincode.CallContext        = (*Client)(nil)
	_ chaincode.ContextFreeContext = (*Client)(nil)
)

// RunChaincode serves one call from the node on stdin/stderr and exits
func RunChaincode(cc chaincode.Chaincode) {
	ctx, cancel := context.WithTimeout(context.Background(), ChaincodeHardTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		serveCall(cc, os.Stdin, os.Stderr)
	}()
	select {
	case <-ctx.Done():
		os.Exit(1)
	case <-done:
		os.Exit(0)
	}
}

func serveCall(cc chaincode.Chaincode, r io.ReadCloser, w io.WriteCloser) {
	c := &Client{
		rw: &readWriter{reader: r, writer: w},
		cc: cc,
	}
	if err := c.loadCallData(); err != nil {
		return
	}
	c.sendResult(c.dispatch())
}

func (c *Client) loadCallData() error {
	b, err := c.rw.read()
	if err != nil {
		return err
	}
	c.callData = new(CallData)
	return json.Unmarshal(b, c.callData)
}

func (c *Client) dispatch() ([]byte, error) {
	switch c.callData.CallType {
	case CallTypeInit:
		return nil, c.cc.Init(c)
	case CallTypeInvoke:
		return nil, c.cc.Invoke(c)
	case CallTypeQuery:
		return c.cc.Query(c)
	case CallTypeContextFree:
		if cfc, ok := c.cc.(chaincode.ContextFreeChaincode); ok {
			return nil, cfc.InvokeContextFree(c)
		}
		return nil, errNoContextFree
	}
	return nil, errUnknownCallType
}

func (c *Client) Sender() []byte      { return c.callData.Sender }
func (c *Client) BlockHash() []byte   { return c.callData.BlockHash }
func (c *Client) BlockHeight() uint64 { return c.callData.BlockHeight }
func (c *Client) Input() []byte       { return c.callData.Input }

func (c *Client) GetState(key []byte) []byte {
	down, err := c.request(&UpStream{Type: UpStreamGetState, Key: key})
	if err != nil {
		return nil
	}
	return down.Value
}

func (c *Client) SetState(key, value []byte) {
	c.request(&UpStream{Type: UpStreamSetState, Key: key, Value: value})
}

func (c *Client) Print(line string) {
	c.request(&UpStream{Type: UpStreamPrint, Value: []byte(line)})
}

// ContextFreeData asks the node for at most len(buf) bytes of segment idx
func (c *Client) ContextFreeData(idx int, buf []byte) (int, error) {
	down, err := c.request(&UpStream{
		Type:  UpStreamContextFreeData,
		Index: idx,
		Size:  len(buf),
	})
	if err != nil {
		return 0, err
	}
	copy(buf, down.Value)
	return down.Size, nil
}

// request is one round trip, the node answers every upstream message
func (c *Client) request(up *UpStream) (*DownStream, error) {
	if err := c.send(up); err != nil {
		return nil, err
	}
	b, err := c.rw.read()
	if err != nil {
		return nil, err
	}
	down := new(DownStream)
	if err := json.Unmarshal(b, down); err != nil {
		return nil, err
	}
	if down.Error != "" {
		return nil, errors.New(down.Error)
	}
	return down, nil
}

func (c *Client) sendResult(value []byte, err error) {
	up := &UpStream{Type: UpStreamResult, Value: value}
	if err != nil {
		up.Error = err.Error()
	}
	c.send(up)
}

func (c *Client) send(up *UpStream) error {
	b, err := json.Marshal(up)
	if err != nil {
		return err
	}
	return c.rw.write(b)
}
