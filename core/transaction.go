// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/aungmawjj/juria-cfhello/util"
	"golang.org/x/crypto/sha3"
)

// errors
var (
	ErrInvalidTxHash = errors.New("invalid tx hash")
	ErrNilTx         = errors.New("nil tx")
	ErrEmptyTx       = errors.New("tx without actions")
	ErrNilAction     = errors.New("nil action")
)

type txData struct {
	Nonce              uint64    `json:"nonce"`
	Expiration         int64     `json:"expiration"`
	Actions            []*Action `json:"actions"`
	ContextFreeActions []*Action `json:"contextFreeActions"`
	ContextFreeData    [][]byte  `json:"contextFreeData"`
	Sender             []byte    `json:"sender"`
	Hash               []byte    `json:"hash"`
	Signature          []byte    `json:"signature"`
}

// Transaction type
//
// Context free actions run without state access and can only read the
// context free data attached to the transaction.
type Transaction struct {
	data   *txData
	sender *PublicKey
}

func NewTransaction() *Transaction {
	return &Transaction{
		data: new(txData),
	}
}

// Sum returns sha3 sum of transaction
// context free data is included as its own sha3 sum
func (tx *Transaction) Sum() []byte {
	w := new(wireWriter)
	w.uint64(1, tx.data.Nonce)
	w.int64(2, tx.data.Expiration)
	appendActions(w, 3, tx.data.Actions)
	appendActions(w, 4, tx.data.ContextFreeActions)
	w.bytes(5, tx.contextFreeDataSum())
	w.bytes(6, tx.data.Sender)
	h := sha3.New256()
	h.Write(w.b)
	return h.Sum(nil)
}

func (tx *Transaction) contextFreeDataSum() []byte {
	if len(tx.data.ContextFreeData) == 0 {
		return nil
	}
	h := sha3.New256()
	for _, seg := range tx.data.ContextFreeData {
		h.Write(util.Uint64ToBytes(uint64(len(seg))))
		h.Write(seg)
	}
	return h.Sum(nil)
}

// Validate transaction
func (tx *Transaction) Validate() error {
	if tx.data == nil {
		return ErrNilTx
	}
	if len(tx.data.Actions) == 0 && len(tx.data.ContextFreeActions) == 0 {
		return ErrEmptyTx
	}
	if hasNilAction(tx.data.Actions) || hasNilAction(tx.data.ContextFreeActions) {
		return ErrNilAction
	}
	if !bytes.Equal(tx.Sum(), tx.data.Hash) {
		return ErrInvalidTxHash
	}
	sig, err := newSignature(tx.data.Sender, tx.data.Signature)
	if err != nil {
		return err
	}
	if !sig.Verify(tx.data.Hash) {
		return ErrInvalidSig
	}
	return nil
}

// Expired returns true if the expiration is set and passed at now
func (tx *Transaction) Expired(now time.Time) bool {
	return tx.data.Expiration > 0 && now.Unix() > tx.data.Expiration
}

func (tx *Transaction) setData(data *txData) *Transaction {
	tx.data = data
	tx.sender, _ = NewPublicKey(tx.data.Sender)
	return tx
}

func (tx *Transaction) SetNonce(val uint64) *Transaction {
	tx.data.Nonce = val
	return tx
}

func (tx *Transaction) SetExpiration(val int64) *Transaction {
	tx.data.Expiration = val
	return tx
}

func (tx *Transaction) AddAction(act *Action) *Transaction {
	tx.data.Actions = append(tx.data.Actions, act)
	return tx
}

func (tx *Transaction) AddContextFreeAction(act *Action) *Transaction {
	tx.data.ContextFreeActions = append(tx.data.ContextFreeActions, act)
	return tx
}

func (tx *Transaction) SetContextFreeData(val [][]byte) *Transaction {
	tx.data.ContextFreeData = val
	return tx
}

func (tx *Transaction) Sign(priv *PrivateKey) *Transaction {
	tx.sender = priv.PublicKey()
	tx.data.Sender = priv.PublicKey().key
	tx.data.Hash = tx.Sum()
	tx.data.Signature = priv.Sign(tx.data.Hash).value
	return tx
}

func (tx *Transaction) Hash() []byte                  { return tx.data.Hash }
func (tx *Transaction) Nonce() uint64                 { return tx.data.Nonce }
func (tx *Transaction) Expiration() int64             { return tx.data.Expiration }
func (tx *Transaction) Sender() *PublicKey            { return tx.sender }
func (tx *Transaction) Actions() []*Action            { return tx.data.Actions }
func (tx *Transaction) ContextFreeActions() []*Action { return tx.data.ContextFreeActions }
func (tx *Transaction) ContextFreeData() [][]byte     { return tx.data.ContextFreeData }

// Marshal encodes transaction as bytes
func (tx *Transaction) Marshal() ([]byte, error) {
	w := new(wireWriter)
	w.uint64(1, tx.data.Nonce)
	w.int64(2, tx.data.Expiration)
	appendActions(w, 3, tx.data.Actions)
	appendActions(w, 4, tx.data.ContextFreeActions)
	for _, seg := range tx.data.ContextFreeData {
		w.bytesAlways(5, seg)
	}
	w.bytes(6, tx.data.Sender)
	w.bytes(7, tx.data.Hash)
	w.bytes(8, tx.data.Signature)
	return w.b, nil
}

// Unmarshal decodes transaction from bytes
func (tx *Transaction) Unmarshal(b []byte) error {
	data := new(txData)
	err := consumeFields(b, func(f wireField) (err error) {
		var act *Action
		switch f.num {
		case 1:
			data.Nonce, err = f.asUint64()
		case 2:
			data.Expiration, err = f.asInt64()
		case 3:
			act, err = unmarshalAction(f)
			data.Actions = append(data.Actions, act)
		case 4:
			act, err = unmarshalAction(f)
			data.ContextFreeActions = append(data.ContextFreeActions, act)
		case 5:
			var seg []byte
			seg, err = f.asBytes()
			data.ContextFreeData = append(data.ContextFreeData, seg)
		case 6:
			data.Sender, err = f.asBytes()
		case 7:
			data.Hash, err = f.asBytes()
		case 8:
			data.Signature, err = f.asBytes()
		}
		return err
	})
	if err != nil {
		return err
	}
	tx.setData(data)
	return nil
}

// MarshalJSON encodes transaction as json
func (tx *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(tx.data)
}

// UnmarshalJSON decodes transaction from json
func (tx *Transaction) UnmarshalJSON(b []byte) error {
	data := new(txData)
	if err := json.Unmarshal(b, data); err != nil {
		return err
	}
	tx.setData(data)
	return nil
}

type TxList []*Transaction

func NewTxList() *TxList {
	return new(TxList)
}

// Marshal encodes tx list as bytes
func (txs *TxList) Marshal() ([]byte, error) {
	w := new(wireWriter)
	for _, tx := range *txs {
		b, err := tx.Marshal()
		if err != nil {
			return nil, err
		}
		w.bytesAlways(1, b)
	}
	return w.b, nil
}

// Unmarshal decodes tx list from bytes
func (txs *TxList) Unmarshal(b []byte) error {
	ret := make(TxList, 0)
	err := consumeFields(b, func(f wireField) error {
		if f.num != 1 {
			return nil
		}
		b, err := f.asBytes()
		if err != nil {
			return err
		}
		tx := NewTransaction()
		if err := tx.Unmarshal(b); err != nil {
			return err
		}
		ret = append(ret, tx)
		return nil
	})
	if err != nil {
		return err
	}
	*txs = ret
	return nil
}
