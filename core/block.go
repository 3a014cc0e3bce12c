// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/aungmawjj/juria-cfhello/util"
	"golang.org/x/crypto/sha3"
)

// errors
var (
	ErrInvalidBlockHash = errors.New("invalid block hash")
	ErrNilBlock         = errors.New("nil block")
)

type blockData struct {
	Height       uint64   `json:"height"`
	ParentHash   []byte   `json:"parentHash"`
	Timestamp    int64    `json:"timestamp"`
	Transactions [][]byte `json:"transactions"`
	Proposer     []byte   `json:"proposer"`
	Hash         []byte   `json:"hash"`
	Signature    []byte   `json:"signature"`
}

// Block type
type Block struct {
	data     *blockData
	proposer *PublicKey
}

func NewBlock() *Block {
	return &Block{
		data: new(blockData),
	}
}

// Sum returns sha3 sum of block
func (blk *Block) Sum() []byte {
	h := sha3.New256()
	h.Write(util.Uint64ToBytes(blk.data.Height))
	h.Write(blk.data.ParentHash)
	h.Write(util.Uint64ToBytes(uint64(blk.data.Timestamp)))
	for _, txHash := range blk.data.Transactions {
		h.Write(txHash)
	}
	h.Write(blk.data.Proposer)
	return h.Sum(nil)
}

// Validate block
func (blk *Block) Validate() error {
	if blk.data == nil {
		return ErrNilBlock
	}
	if !bytes.Equal(blk.Sum(), blk.data.Hash) {
		return ErrInvalidBlockHash
	}
	sig, err := newSignature(blk.data.Proposer, blk.data.Signature)
	if err != nil {
		return err
	}
	if !sig.Verify(blk.data.Hash) {
		return ErrInvalidSig
	}
	return nil
}

func (blk *Block) setData(data *blockData) *Block {
	blk.data = data
	blk.proposer, _ = NewPublicKey(blk.data.Proposer)
	return blk
}

func (blk *Block) SetHeight(val uint64) *Block {
	blk.data.Height = val
	return blk
}

func (blk *Block) SetParentHash(val []byte) *Block {
	blk.data.ParentHash = val
	return blk
}

func (blk *Block) SetTimestamp(val int64) *Block {
	blk.data.Timestamp = val
	return blk
}

func (blk *Block) SetTransactions(val [][]byte) *Block {
	blk.data.Transactions = val
	return blk
}

func (blk *Block) Sign(priv *PrivateKey) *Block {
	blk.proposer = priv.PublicKey()
	blk.data.Proposer = priv.PublicKey().key
	blk.data.Hash = blk.Sum()
	blk.data.Signature = priv.Sign(blk.data.Hash).value
	return blk
}

func (blk *Block) Hash() []byte           { return blk.data.Hash }
func (blk *Block) Height() uint64         { return blk.data.Height }
func (blk *Block) ParentHash() []byte     { return blk.data.ParentHash }
func (blk *Block) Timestamp() int64       { return blk.data.Timestamp }
func (blk *Block) Transactions() [][]byte { return blk.data.Transactions }
func (blk *Block) Proposer() *PublicKey   { return blk.proposer }

// Marshal encodes blk as bytes
func (blk *Block) Marshal() ([]byte, error) {
	w := new(wireWriter)
	w.uint64(1, blk.data.Height)
	w.bytes(2, blk.data.ParentHash)
	w.int64(3, blk.data.Timestamp)
	for _, txHash := range blk.data.Transactions {
		w.bytesAlways(4, txHash)
	}
	w.bytes(5, blk.data.Proposer)
	w.bytes(6, blk.data.Hash)
	w.bytes(7, blk.data.Signature)
	return w.b, nil
}

// Unmarshal decodes blk from bytes
func (blk *Block) Unmarshal(b []byte) error {
	data := new(blockData)
	err := consumeFields(b, func(f wireField) (err error) {
		switch f.num {
		case 1:
			data.Height, err = f.asUint64()
		case 2:
			data.ParentHash, err = f.asBytes()
		case 3:
			data.Timestamp, err = f.asInt64()
		case 4:
			var txHash []byte
			txHash, err = f.asBytes()
			data.Transactions = append(data.Transactions, txHash)
		case 5:
			data.Proposer, err = f.asBytes()
		case 6:
			data.Hash, err = f.asBytes()
		case 7:
			data.Signature, err = f.asBytes()
		}
		return err
	})
	if err != nil {
		return err
	}
	blk.setData(data)
	return nil
}

func (blk *Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(blk.data)
}

func (blk *Block) UnmarshalJSON(b []byte) error {
	data := new(blockData)
	if err := json.Unmarshal(b, data); err != nil {
		return err
	}
	blk.setData(data)
	return nil
}
