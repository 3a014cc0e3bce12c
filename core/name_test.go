// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"encoding/json"
	"errors"
	"testing"

	"gotest.tools/assert"
)

func TestNewName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  uint64
	}{
		{"system account", "eosio", 0x5530EA0000000000},
		{"empty", "", 0},
		{"digits", "12345", 0x0886428000000000},
		{"single char", "a", 0x3000000000000000},
		{"inner dot", "eosio.token", 0x5530EA033482A600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewName(tt.input)
			assert.NilError(t, err)
			assert.Equal(t, tt.want, uint64(n))
			assert.Equal(t, tt.input, n.String())
		})
	}
}

func TestNewName_RoundTrip(t *testing.T) {
	for _, s := range []string{"alice", "cfactor", "cfhello", "test2", "zzzzzzzzzzzzj", "a.b.c", "111111111111"} {
		n, err := NewName(s)
		assert.NilError(t, err)
		assert.Equal(t, s, n.String())
	}
}

func TestNewName_Invalid(t *testing.T) {
	for _, s := range []string{
		"Alice",          // upper case
		"bob6",           // digit out of range
		"a b",            // space
		"abcdefghijklmn", // too long
		"zzzzzzzzzzzzk",  // 13th char out of range
		"alice.",         // trailing dot
	} {
		_, err := NewName(s)
		assert.Assert(t, errors.Is(err, ErrInvalidName), s)
	}
}

func TestName_JSON(t *testing.T) {
	var input struct {
		User Name `json:"user"`
	}
	err := json.Unmarshal([]byte(`{"user":"alice"}`), &input)
	assert.NilError(t, err)
	assert.Equal(t, "alice", input.User.String())

	b, err := json.Marshal(input)
	assert.NilError(t, err)
	assert.Equal(t, `{"user":"alice"}`, string(b))

	err = json.Unmarshal([]byte(`{"user":"Alice"}`), &input)
	assert.Assert(t, errors.Is(err, ErrInvalidName))
}
