// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package execution

import (
	"testing"
	"time"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/stretchr/testify/assert"
)

func newTestTxExecutor(reg *codeRegistry, trk *stateTracker, tx *core.Transaction) *txExecutor {
	priv := core.GenerateKey(nil)
	return &txExecutor{
		codeRegistry: reg,
		timeout:      1 * time.Second,
		rootTrk:      trk,
		blk:          core.NewBlock().SetHeight(10).Sign(priv),
		tx:           tx,
	}
}

func deployTestCode(
	assert *assert.Assertions, reg *codeRegistry, trk *stateTracker,
	driverType DriverType, codeID []byte,
) []byte {
	priv := core.GenerateKey(nil)
	txDep := core.NewTransaction().
		AddAction(core.NewAction(nil, deploymentInput(driverType, codeID))).
		Sign(priv)
	texe := newTestTxExecutor(reg, trk, txDep)
	texe.executeContextFree()
	txc := texe.execute()
	assert.Equal("", txc.Error())
	return CodeAddress(txDep.Hash(), 0)
}

func TestTxExecuter_Deploy(t *testing.T) {
	assert := assert.New(t)

	priv := core.GenerateKey(nil)
	txDep := core.NewTransaction().
		AddAction(core.NewAction(nil, deploymentInput(DriverTypeNative, NativeCodeIDCFHello))).
		Sign(priv)

	trk := newStateTracker(newMapStateStore(), nil)
	reg := newCodeRegistry()
	texe := newTestTxExecutor(reg, trk, txDep)
	txc := texe.execute()

	assert.NotEqual("", txc.Error(), "code driver not registered")
	assert.Empty(trk.getStateChanges(), "failed tx doesn't change state")

	reg.registerDriver(DriverTypeNative, newNativeCodeDriver())
	txc = texe.execute()

	assert.Equal("", txc.Error())
	assert.Equal(txDep.Hash(), txc.Hash())
	assert.Len(txc.Traces(), 1)

	// codeinfo must be saved by code address
	codeAddr := CodeAddress(txDep.Hash(), 0)
	cinfo, err := reg.getCodeInfo(codeAddr, trk.spawn(codeRegistryAddr))

	assert.NoError(err)
	assert.Equal(DriverTypeNative, cinfo.DriverType)
	assert.Equal(NativeCodeIDCFHello, cinfo.CodeID)
}

func TestTxExecuter_Actions(t *testing.T) {
	assert := assert.New(t)

	trk := newStateTracker(newMapStateStore(), nil)
	reg := newTestCodeRegistry()
	codeAddr := deployTestCode(assert, reg, trk, DriverTypeNative, NativeCodeIDCFHello)

	tx := core.NewTransaction().
		AddAction(core.NewAction(codeAddr, inputNormal)).
		AddContextFreeAction(core.NewAction(codeAddr, inputContextFree)).
		SetContextFreeData([][]byte{[]byte("test"), []byte("testdata")}).
		Sign(core.GenerateKey(nil))

	texe := newTestTxExecutor(reg, trk, tx)
	texe.executeContextFree()
	txc := texe.execute()

	assert.Equal("", txc.Error())
	assert.Equal([]string{"CFD 0: test", "CFD 1: testdata", "Hi, alice"}, txc.Console())
	if assert.Len(txc.Traces(), 2) {
		assert.True(txc.Traces()[0].ContextFree)
		assert.False(txc.Traces()[1].ContextFree)
		assert.Equal(codeAddr, txc.Traces()[1].CodeAddr)
	}
}

func TestTxExecuter_ContextFreeNoData(t *testing.T) {
	assert := assert.New(t)

	trk := newStateTracker(newMapStateStore(), nil)
	reg := newTestCodeRegistry()
	codeAddr := deployTestCode(assert, reg, trk, DriverTypeNative, NativeCodeIDCFHello)

	tx := core.NewTransaction().
		AddContextFreeAction(core.NewAction(codeAddr, inputContextFree)).
		Sign(core.GenerateKey(nil))

	texe := newTestTxExecutor(reg, trk, tx)
	texe.executeContextFree()
	txc := texe.execute()

	assert.Equal("", txc.Error())
	assert.Equal([]string{"No context free data found"}, txc.Console())
}

func TestTxExecuter_ContextFreeFailure(t *testing.T) {
	assert := assert.New(t)

	trk := newStateTracker(newMapStateStore(), nil)
	reg := newTestCodeRegistry()
	cfhAddr := deployTestCode(assert, reg, trk, DriverTypeNative, NativeCodeIDCFHello)
	writeAddr := deployTestCode(assert, reg, trk, driverTypeTest, testCodeWrite)
	scCount := len(trk.getStateChanges())

	tx := core.NewTransaction().
		AddAction(core.NewAction(writeAddr, []byte("value"))).
		AddContextFreeAction(core.NewAction(cfhAddr, inputNormal)). // wrong method
		Sign(core.GenerateKey(nil))

	texe := newTestTxExecutor(reg, trk, tx)
	texe.executeContextFree()
	txc := texe.execute()

	assert.Contains(txc.Error(), "context free action 0")
	assert.Len(txc.Traces(), 1, "regular actions are skipped")
	assert.Equal(scCount, len(trk.getStateChanges()))

	tx = core.NewTransaction().
		AddContextFreeAction(core.NewAction(writeAddr, []byte("value"))).
		Sign(core.GenerateKey(nil))
	texe = newTestTxExecutor(reg, trk, tx)
	texe.executeContextFree()
	txc = texe.execute()

	assert.Contains(txc.Error(), ErrNotContextFree.Error())

	tx = core.NewTransaction().
		AddContextFreeAction(core.NewAction(nil, deploymentInput(DriverTypeNative, NativeCodeIDCFHello))).
		Sign(core.GenerateKey(nil))
	texe = newTestTxExecutor(reg, trk, tx)
	texe.executeContextFree()
	txc = texe.execute()

	assert.Contains(txc.Error(), ErrContextFreeDeployment.Error())
}

func TestTxExecuter_AllOrNothing(t *testing.T) {
	assert := assert.New(t)

	trk := newStateTracker(newMapStateStore(), nil)
	reg := newTestCodeRegistry()
	writeAddr := deployTestCode(assert, reg, trk, driverTypeTest, testCodeWrite)
	failAddr := deployTestCode(assert, reg, trk, driverTypeTest, testCodeFail)
	cfhAddr := deployTestCode(assert, reg, trk, DriverTypeNative, NativeCodeIDCFHello)

	tx := core.NewTransaction().
		AddAction(core.NewAction(writeAddr, []byte("first"))).
		AddAction(core.NewAction(failAddr, []byte("second"))).
		AddAction(core.NewAction(cfhAddr, inputNormal)).
		Sign(core.GenerateKey(nil))

	texe := newTestTxExecutor(reg, trk, tx)
	texe.executeContextFree()
	txc := texe.execute()

	assert.Contains(txc.Error(), "action 1")
	assert.Equal([]string{"wrote first", "about to fail"}, txc.Console())
	if assert.Len(txc.Traces(), 2) {
		assert.Equal("", txc.Traces()[0].Error)
		assert.Equal("chaincode failed", txc.Traces()[1].Error)
	}
	assert.Nil(trk.spawn(writeAddr).GetState([]byte("key")), "first action is rolled back")
	assert.Nil(trk.spawn(failAddr).GetState([]byte("key")))

	tx = core.NewTransaction().
		AddAction(core.NewAction(writeAddr, []byte("only"))).
		Sign(core.GenerateKey(nil))
	texe = newTestTxExecutor(reg, trk, tx)
	txc = texe.execute()

	assert.Equal("", txc.Error())
	assert.Equal([]byte("only"), trk.spawn(writeAddr).GetState([]byte("key")))
}

func TestTxExecuter_PanicAndTimeout(t *testing.T) {
	assert := assert.New(t)

	trk := newStateTracker(newMapStateStore(), nil)
	reg := newTestCodeRegistry()
	panicAddr := deployTestCode(assert, reg, trk, driverTypeTest, testCodePanic)
	sleepAddr := deployTestCode(assert, reg, trk, driverTypeTest, testCodeSleep)

	tx := core.NewTransaction().
		AddAction(core.NewAction(panicAddr, nil)).
		Sign(core.GenerateKey(nil))
	texe := newTestTxExecutor(reg, trk, tx)
	txc := texe.execute()

	assert.Contains(txc.Error(), "chaincode panic")

	tx = core.NewTransaction().
		AddAction(core.NewAction(sleepAddr, nil)).
		Sign(core.GenerateKey(nil))
	texe = newTestTxExecutor(reg, trk, tx)
	texe.timeout = 50 * time.Millisecond
	txc = texe.execute()

	assert.Contains(txc.Error(), ErrExecTimeout.Error())
}
