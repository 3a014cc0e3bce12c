// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package execution

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/aungmawjj/juria-cfhello/execution/chaincode"
	"github.com/aungmawjj/juria-cfhello/execution/chaincode/cfhello"
)

const driverTypeTest DriverType = 100

var (
	testCodePanic = []byte("panic")
	testCodeSleep = []byte("sleep")
	testCodeWrite = []byte("write")
	testCodeFail  = []byte("fail")
)

// testCodeDriver serves chaincodes with faulty behaviours
type testCodeDriver struct{}

func (drv *testCodeDriver) Install(codeID, data []byte) error {
	_, err := drv.GetInstance(codeID)
	return err
}

func (drv *testCodeDriver) GetInstance(codeID []byte) (chaincode.Chaincode, error) {
	switch string(codeID) {
	case string(testCodePanic):
		return &testChaincode{invoke: func(ctx chaincode.CallContext) error {
			panic("chaincode panic")
		}}, nil

	case string(testCodeSleep):
		return &testChaincode{invoke: func(ctx chaincode.CallContext) error {
			time.Sleep(2 * time.Second)
			return nil
		}}, nil

	case string(testCodeWrite):
		return &testChaincode{invoke: func(ctx chaincode.CallContext) error {
			ctx.SetState([]byte("key"), ctx.Input())
			ctx.Print("wrote " + string(ctx.Input()))
			return nil
		}}, nil

	case string(testCodeFail):
		return &testChaincode{invoke: func(ctx chaincode.CallContext) error {
			ctx.SetState([]byte("key"), ctx.Input())
			ctx.Print("about to fail")
			return errors.New("chaincode failed")
		}}, nil
	}
	return nil, errors.New("unknown test code")
}

type testChaincode struct {
	invoke func(ctx chaincode.CallContext) error
}

func (cc *testChaincode) Init(ctx chaincode.CallContext) error {
	return nil
}

func (cc *testChaincode) Invoke(ctx chaincode.CallContext) error {
	return cc.invoke(ctx)
}

func (cc *testChaincode) Query(ctx chaincode.CallContext) ([]byte, error) {
	return ctx.GetState([]byte("key")), nil
}

func newTestCodeRegistry() *codeRegistry {
	reg := newCodeRegistry()
	reg.registerDriver(DriverTypeNative, newNativeCodeDriver())
	reg.registerDriver(driverTypeTest, new(testCodeDriver))
	return reg
}

func deploymentInput(driverType DriverType, codeID []byte) []byte {
	b, _ := json.Marshal(&DeploymentInput{
		CodeInfo: CodeInfo{
			DriverType: driverType,
			CodeID:     codeID,
		},
	})
	return b
}

func cfhelloInput(method, user string) []byte {
	b, _ := json.Marshal(map[string]string{
		"method": method,
		"user":   user,
	})
	return b
}

var (
	inputNormal      = cfhelloInput(cfhello.MethodNormal, "alice")
	inputContextFree = cfhelloInput(cfhello.MethodContextFree, "")
)
