// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/execution"
	"github.com/aungmawjj/juria-cfhello/execution/chaincode/cfhello"
	"github.com/stretchr/testify/assert"
)

func TestTxBuilder(t *testing.T) {
	assert := assert.New(t)

	priv := core.GenerateKey(nil)
	codeAddr := []byte{1, 2, 3}
	builder := NewTxBuilder(priv).SetCodeAddr(codeAddr)

	deploy := builder.Deploy()
	assert.NoError(deploy.Validate())
	if assert.Len(deploy.Actions(), 1) {
		assert.True(deploy.Actions()[0].IsDeployment())
		input := new(execution.DeploymentInput)
		assert.NoError(json.Unmarshal(deploy.Actions()[0].Input, input))
		assert.Equal(execution.DriverTypeNative, input.CodeInfo.DriverType)
		assert.Equal(execution.NativeCodeIDCFHello, input.CodeInfo.CodeID)
	}

	greet := builder.Greet(core.MustName("alice"))
	assert.NoError(greet.Validate())
	assert.Empty(greet.ContextFreeActions())
	if assert.Len(greet.Actions(), 1) {
		assert.Equal(codeAddr, greet.Actions()[0].CodeAddr)
		input := new(cfhello.Input)
		assert.NoError(json.Unmarshal(greet.Actions()[0].Input, input))
		assert.Equal(cfhello.MethodNormal, input.Method)
		assert.Equal("alice", input.User.String())
	}

	segs := [][]byte{[]byte("test"), []byte("testdata")}
	dump := builder.DumpContextFree(segs)
	assert.NoError(dump.Validate())
	assert.Empty(dump.Actions())
	assert.Equal(segs, dump.ContextFreeData())
	if assert.Len(dump.ContextFreeActions(), 1) {
		assert.Equal(codeAddr, dump.ContextFreeActions()[0].CodeAddr)
	}

	both := builder.GreetAndDump(core.MustName("cfactor"), segs)
	assert.Len(both.Actions(), 1)
	assert.Len(both.ContextFreeActions(), 1)

	assert.NotEqual(greet.Hash(), builder.Greet(core.MustName("alice")).Hash(),
		"nonce must differ")
}

func TestTxBuilder_ttl(t *testing.T) {
	assert := assert.New(t)

	now := time.Unix(1000, 0)
	builder := NewTxBuilder(core.GenerateKey(nil))
	builder.now = func() time.Time { return now }

	assert.Zero(builder.Deploy().Expiration())

	builder.SetTTL(time.Minute)
	tx := builder.Deploy()
	assert.EqualValues(1060, tx.Expiration())
	assert.False(tx.Expired(now))
	assert.True(tx.Expired(now.Add(2 * time.Minute)))
}

func TestTxBuilder_greetingQuery(t *testing.T) {
	assert := assert.New(t)

	builder := NewTxBuilder(core.GenerateKey(nil)).SetCodeAddr([]byte{9})
	query := builder.GreetingQuery(core.MustName("bob"))

	assert.Equal([]byte{9}, query.CodeAddr)
	assert.JSONEq(`{"method":"greeting","user":"bob"}`, string(query.Input))
}
