// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package client

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/execution"
	"github.com/aungmawjj/juria-cfhello/execution/chaincode/cfhello"
)

// TxBuilder makes signed cfhello transactions
type TxBuilder struct {
	signer   *core.PrivateKey
	codeAddr []byte
	ttl      time.Duration
	now      func() time.Time
	seq      atomic.Uint64
}

func NewTxBuilder(signer *core.PrivateKey) *TxBuilder {
	return &TxBuilder{
		signer: signer,
		now:    time.Now,
	}
}

// SetCodeAddr sets the deployed cfhello address for greet and dump txs
func (b *TxBuilder) SetCodeAddr(addr []byte) *TxBuilder {
	b.codeAddr = addr
	return b
}

// SetTTL makes built txs expire after ttl, zero means never
func (b *TxBuilder) SetTTL(ttl time.Duration) *TxBuilder {
	b.ttl = ttl
	return b
}

// Deploy makes a tx deploying the native cfhello,
// the code address is execution.CodeAddress(tx.Hash(), 0)
func (b *TxBuilder) Deploy() *core.Transaction {
	input, _ := json.Marshal(&execution.DeploymentInput{
		CodeInfo: execution.CodeInfo{
			DriverType: execution.DriverTypeNative,
			CodeID:     execution.NativeCodeIDCFHello,
		},
	})
	return b.newTx().AddAction(core.NewAction(nil, input)).Sign(b.signer)
}

// DeployBincc makes a tx deploying a cfhello binary downloaded from url
func (b *TxBuilder) DeployBincc(codeID []byte, url string) *core.Transaction {
	input, _ := json.Marshal(&execution.DeploymentInput{
		CodeInfo: execution.CodeInfo{
			DriverType: execution.DriverTypeBincc,
			CodeID:     codeID,
		},
		InstallData: []byte(url),
	})
	return b.newTx().AddAction(core.NewAction(nil, input)).Sign(b.signer)
}

// Greet makes a tx with the regular action normal
func (b *TxBuilder) Greet(user core.Name) *core.Transaction {
	return b.newTx().
		AddAction(core.NewAction(b.codeAddr, Input(cfhello.MethodNormal, user))).
		Sign(b.signer)
}

// DumpContextFree makes a tx with the context free action contextfree
// and segments as its context free data
func (b *TxBuilder) DumpContextFree(segments [][]byte) *core.Transaction {
	return b.newTx().
		AddContextFreeAction(core.NewAction(b.codeAddr, Input(cfhello.MethodContextFree, 0))).
		SetContextFreeData(segments).
		Sign(b.signer)
}

// GreetAndDump carries both actions in one tx
func (b *TxBuilder) GreetAndDump(user core.Name, segments [][]byte) *core.Transaction {
	return b.newTx().
		AddAction(core.NewAction(b.codeAddr, Input(cfhello.MethodNormal, user))).
		AddContextFreeAction(core.NewAction(b.codeAddr, Input(cfhello.MethodContextFree, 0))).
		SetContextFreeData(segments).
		Sign(b.signer)
}

// GreetingQuery makes query data for the greeting of user
func (b *TxBuilder) GreetingQuery(user core.Name) *execution.QueryData {
	return &execution.QueryData{
		CodeAddr: b.codeAddr,
		Input:    Input(cfhello.MethodGreeting, user),
	}
}

func (b *TxBuilder) newTx() *core.Transaction {
	// txs built at the same instant still get unique hashes
	nonce := uint64(b.now().UnixNano()) + b.seq.Add(1)
	tx := core.NewTransaction().SetNonce(nonce)
	if b.ttl > 0 {
		tx.SetExpiration(b.now().Add(b.ttl).Unix())
	}
	return tx
}

func Input(method string, user core.Name) []byte {
	b, _ := json.Marshal(&cfhello.Input{
		Method: method,
		User:   user,
	})
	return b
}
