// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcatBytes(t *testing.T) {
	assert := assert.New(t)
	res := ConcatBytes([]byte{1, 2, 3}, []byte{4, 5, 6}, []byte{7, 8, 9})
	assert.Equal([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9}, res)

	src := []byte{1}
	res = ConcatBytes(src, nil)
	res[0] = 9
	assert.Equal([]byte{1}, src, "must not share memory with source")
}

func TestUint64ToBytes(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]byte{0, 0, 0, 0, 0, 0, 1, 2}, Uint64ToBytes(258))
}

func TestHexString(t *testing.T) {
	assert.Equal(t, "0a0b", HexString([]byte{10, 11}))
}
