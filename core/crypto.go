// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// errors
var (
	ErrInvalidKeySize = errors.New("invalid key size")
	ErrNilSig         = errors.New("nil signature")
	ErrInvalidSig     = errors.New("invalid signature")
)

// PublicKey is an ed25519 public key, it identifies tx senders and block proposers
type PublicKey struct {
	key ed25519.PublicKey
}

// NewPublicKey creates PublicKey from bytes
func NewPublicKey(b []byte) (*PublicKey, error) {
	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: public key %d bytes", ErrInvalidKeySize, len(b))
	}
	return &PublicKey{key: ed25519.PublicKey(b)}, nil
}

// Equal checks whether pub and x has the same value
func (pub *PublicKey) Equal(x *PublicKey) bool {
	if pub == nil || x == nil {
		return pub == x
	}
	return pub.key.Equal(x.key)
}

func (pub *PublicKey) Bytes() []byte { return pub.key }

// String is the base64 form, used in status and logs
func (pub *PublicKey) String() string {
	return base64.StdEncoding.EncodeToString(pub.key)
}

// PrivateKey is the node or client signing key
type PrivateKey struct {
	key    ed25519.PrivateKey
	pubKey *PublicKey
}

// GenerateKey creates a new key pair, crypto/rand is used when rand is nil
func GenerateKey(rand io.Reader) *PrivateKey {
	_, key, err := ed25519.GenerateKey(rand)
	if err != nil {
		panic(err)
	}
	priv, _ := NewPrivateKey(key)
	return priv
}

// NewPrivateKey creates PrivateKey from bytes
func NewPrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: private key %d bytes", ErrInvalidKeySize, len(b))
	}
	key := ed25519.PrivateKey(b)
	return &PrivateKey{
		key:    key,
		pubKey: &PublicKey{key: key.Public().(ed25519.PublicKey)},
	}, nil
}

func (priv *PrivateKey) Bytes() []byte { return priv.key }

func (priv *PrivateKey) PublicKey() *PublicKey { return priv.pubKey }

func (priv *PrivateKey) Sign(msg []byte) *Signature {
	return &Signature{
		value:  ed25519.Sign(priv.key, msg),
		pubKey: priv.pubKey,
	}
}

// Signature is a signature value with the key that made it
type Signature struct {
	value  []byte
	pubKey *PublicKey
}

// newSignature restores a signature from the sender/proposer and signature fields
func newSignature(pubKey, value []byte) (*Signature, error) {
	if len(value) == 0 {
		return nil, ErrNilSig
	}
	pk, err := NewPublicKey(pubKey)
	if err != nil {
		return nil, err
	}
	return &Signature{value: value, pubKey: pk}, nil
}

func (sig *Signature) Verify(msg []byte) bool {
	return ed25519.Verify(sig.pubKey.key, msg, sig.value)
}

func (sig *Signature) PublicKey() *PublicKey { return sig.pubKey }

func (sig *Signature) Bytes() []byte { return sig.value }
