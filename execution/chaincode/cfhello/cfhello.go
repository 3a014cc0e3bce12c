// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package cfhello

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/execution/chaincode"
)

// methods
const (
	MethodNormal      = "normal"
	MethodContextFree = "contextfree"
	MethodGreeting    = "greeting"
)

const (
	greetPrefix = "Hi, "
	segPrefix   = "CFD "
	MsgNoCFData = "No context free data found"
)

type Input struct {
	Method string    `json:"method"`
	User   core.Name `json:"user"`
}

// CFHello chaincode greets users and dumps the context free data of its tx
type CFHello struct{}

var _ chaincode.ContextFreeChaincode = (*CFHello)(nil)

func (cfh *CFHello) Init(ctx chaincode.CallContext) error {
	return nil
}

func (cfh *CFHello) Invoke(ctx chaincode.CallContext) error {
	input, err := parseInput(ctx.Input())
	if err != nil {
		return err
	}
	switch input.Method {

	case MethodNormal:
		greet(ctx, input.User)
		return nil

	default:
		return errors.New("method not found")
	}
}

func (cfh *CFHello) InvokeContextFree(ctx chaincode.ContextFreeContext) error {
	input, err := parseInput(ctx.Input())
	if err != nil {
		return err
	}
	switch input.Method {

	case MethodContextFree:
		return dumpContextFree(ctx)

	default:
		return errors.New("method not found")
	}
}

func (cfh *CFHello) Query(ctx chaincode.CallContext) ([]byte, error) {
	input, err := parseInput(ctx.Input())
	if err != nil {
		return nil, err
	}
	switch input.Method {

	case MethodGreeting:
		return []byte(Greeting(input.User)), nil

	default:
		return nil, errors.New("method not found")
	}
}

// Greeting returns the line printed by the normal action
func Greeting(user core.Name) string {
	return greetPrefix + user.String()
}

// SegmentLine returns the line printed for a context free data segment
func SegmentLine(idx int, seg []byte) string {
	return segPrefix + strconv.Itoa(idx) + ": " + chaincode.SegmentText(seg)
}

func greet(console chaincode.Console, user core.Name) {
	console.Print(Greeting(user))
}

func dumpContextFree(ctx chaincode.ContextFreeContext) error {
	segs := chaincode.NewSegmentReader(ctx)
	for segs.Next() {
		ctx.Print(SegmentLine(segs.Index(), segs.Bytes()))
	}
	if err := segs.Err(); err != nil {
		return err
	}
	if segs.Index() == 0 {
		ctx.Print(MsgNoCFData)
	}
	return nil
}

func parseInput(b []byte) (*Input, error) {
	input := new(Input)
	err := json.Unmarshal(b, input)
	if err != nil {
		return nil, errors.New("failed to parse input: " + err.Error())
	}
	return input, nil
}
