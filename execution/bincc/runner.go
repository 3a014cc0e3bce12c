// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package bincc

import (
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/aungmawjj/juria-cfhello/execution/chaincode"
	"github.com/aungmawjj/juria-cfhello/logger"
)

const MessageSizeLimit = 100 * 1000 * 1000

var errNoState = errors.New("no state access in context free call")

// Runner runs the chaincode binary for a single call
type Runner struct {
	codePath string
	timeout  time.Duration

	callContext chaincode.CallContext
	cfContext   chaincode.ContextFreeContext

	cmd   *exec.Cmd
	rw    *readWriter
	timer *time.Timer
}

var _ chaincode.ContextFreeChaincode = (*Runner)(nil)

func (r *Runner) Init(ctx chaincode.CallContext) error {
	r.callContext = ctx
	_, err := r.runCode(CallTypeInit)
	return err
}

func (r *Runner) Invoke(ctx chaincode.CallContext) error {
	r.callContext = ctx
	_, err := r.runCode(CallTypeInvoke)
	return err
}

func (r *Runner) Query(ctx chaincode.CallContext) ([]byte, error) {
	r.callContext = ctx
	return r.runCode(CallTypeQuery)
}

func (r *Runner) InvokeContextFree(ctx chaincode.ContextFreeContext) error {
	r.cfContext = ctx
	_, err := r.runCode(CallTypeContextFree)
	return err
}

func (r *Runner) runCode(callType CallType) ([]byte, error) {
	r.timer = time.NewTimer(r.timeout)
	defer r.timer.Stop()

	if err := r.startCode(); err != nil {
		return nil, err
	}
	defer r.cmd.Process.Kill()

	if err := r.sendCallData(callType); err != nil {
		return nil, err
	}
	res, err := r.serveStateAndGetResult()
	if err != nil {
		return nil, err
	}
	return res, r.cmd.Wait()
}

func (r *Runner) startCode() error {
	if err := r.setupCmd(); err != nil {
		return err
	}
	err := r.cmd.Start()
	if err == nil {
		return nil
	}
	logger.I().Warnw("start chaincode failed", "path", r.codePath, "error", err)
	select {
	case <-r.timer.C:
		return fmt.Errorf("chaincode start timeout")
	default:
	}
	time.Sleep(5 * time.Millisecond)
	return r.startCode()
}

func (r *Runner) setupCmd() error {
	r.cmd = exec.Command(r.codePath)
	var err error
	r.rw = new(readWriter)
	r.rw.writer, err = r.cmd.StdinPipe()
	if err != nil {
		return err
	}
	r.rw.reader, err = r.cmd.StderrPipe()
	return err
}

func (r *Runner) sendCallData(callType CallType) error {
	callData := &CallData{CallType: callType}
	if callType == CallTypeContextFree {
		callData.Input = r.cfContext.Input()
	} else {
		callData.Input = r.callContext.Input()
		callData.Sender = r.callContext.Sender()
		callData.BlockHash = r.callContext.BlockHash()
		callData.BlockHeight = r.callContext.BlockHeight()
	}
	b, _ := json.Marshal(callData)
	return r.rw.write(b)
}

func (r *Runner) serveStateAndGetResult() ([]byte, error) {
	for {
		select {
		case <-r.timer.C:
			return nil, fmt.Errorf("chaincode call timeout")
		default:
		}
		b, err := r.rw.read()
		if err != nil {
			return nil, fmt.Errorf("read upstream error %w", err)
		}
		up := new(UpStream)
		if err := json.Unmarshal(b, up); err != nil {
			return nil, fmt.Errorf("cannot parse upstream data")
		}
		if up.Type == UpStreamResult {
			if len(up.Error) > 0 {
				return nil, errors.New(up.Error)
			}
			return up.Value, nil
		}
		if err := r.serveState(up); err != nil {
			return nil, err
		}
	}
}

func (r *Runner) serveState(up *UpStream) error {
	down := new(DownStream)
	switch up.Type {

	case UpStreamGetState:
		if r.callContext == nil {
			down.Error = errNoState.Error()
			break
		}
		down.Value = r.callContext.GetState(up.Key)

	case UpStreamSetState:
		if r.callContext == nil {
			down.Error = errNoState.Error()
			break
		}
		r.callContext.SetState(up.Key, up.Value)

	case UpStreamPrint:
		r.console().Print(string(up.Value))

	case UpStreamContextFreeData:
		if r.cfContext == nil {
			down.Error = "no context free data in this call"
			break
		}
		r.serveContextFreeData(up, down)

	default:
		down.Error = fmt.Sprintf("unknown upstream type %d", up.Type)
	}

	b, _ := json.Marshal(down)
	return r.rw.write(b)
}

func (r *Runner) serveContextFreeData(up *UpStream, down *DownStream) {
	bufSize := up.Size
	if bufSize < 0 {
		bufSize = 0
	}
	size, err := r.cfContext.ContextFreeData(up.Index, nil)
	if err != nil {
		down.Error = err.Error()
		return
	}
	down.Size = size
	if size <= 0 || bufSize == 0 {
		return
	}
	if bufSize > size {
		bufSize = size
	}
	buf := make([]byte, bufSize)
	if _, err := r.cfContext.ContextFreeData(up.Index, buf); err != nil {
		down.Error = err.Error()
		return
	}
	down.Value = buf
}

func (r *Runner) console() chaincode.Console {
	if r.cfContext != nil {
		return r.cfContext
	}
	return r.callContext
}
