// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package util

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
)

// ByteOrder is used for all fixed size integers in keys and hashes
var ByteOrder binary.ByteOrder = binary.BigEndian

// ConcatBytes joins srcs into a newly allocated slice
func ConcatBytes(srcs ...[]byte) []byte {
	size := 0
	for _, src := range srcs {
		size += len(src)
	}
	buf := bytes.NewBuffer(make([]byte, 0, size))
	for _, src := range srcs {
		buf.Write(src)
	}
	return buf.Bytes()
}

func Uint64ToBytes(i uint64) []byte {
	b := make([]byte, 8)
	ByteOrder.PutUint64(b, i)
	return b
}

// HexString is used to print hashes and addresses in logs and api paths
func HexString(b []byte) string {
	return hex.EncodeToString(b)
}
