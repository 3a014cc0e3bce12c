// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"errors"
	"fmt"
	"strings"
)

// errors
var (
	ErrInvalidName = errors.New("invalid account name")
)

const (
	nameMaxLen  = 13
	nameCharmap = ".12345abcdefghijklmnopqrstuvwxyz"
)

// Name is an account identifier packed into 64 bits.
// Up to 12 characters of [.1-5a-z] take 5 bits each,
// an optional 13th character of [.1-5a-j] takes the last 4 bits.
type Name uint64

// NewName validates and packs s, trailing dots are not allowed
func NewName(s string) (Name, error) {
	if len(s) > nameMaxLen {
		return 0, fmt.Errorf("%w: %q longer than %d", ErrInvalidName, s, nameMaxLen)
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		c, ok := charToSymbol(s[i])
		if !ok {
			return 0, fmt.Errorf("%w: %q has invalid char %q", ErrInvalidName, s, s[i])
		}
		if i < nameMaxLen-1 {
			v |= c << (64 - 5*(i+1))
			continue
		}
		if c > 0x0f {
			return 0, fmt.Errorf("%w: %q has invalid 13th char", ErrInvalidName, s)
		}
		v |= c
	}
	n := Name(v)
	if n.String() != s {
		return 0, fmt.Errorf("%w: %q is not normalized", ErrInvalidName, s)
	}
	return n, nil
}

// MustName is NewName for constants, panics on invalid input
func MustName(s string) Name {
	n, err := NewName(s)
	if err != nil {
		panic(err)
	}
	return n
}

func charToSymbol(c byte) (uint64, bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 6, true
	case c >= '1' && c <= '5':
		return uint64(c-'1') + 1, true
	case c == '.':
		return 0, true
	default:
		return 0, false
	}
}

func (n Name) String() string {
	buf := make([]byte, nameMaxLen)
	v := uint64(n)
	for i := 0; i < nameMaxLen; i++ {
		if i == 0 {
			buf[nameMaxLen-1] = nameCharmap[v&0x0f]
			v >>= 4
		} else {
			buf[nameMaxLen-1-i] = nameCharmap[v&0x1f]
			v >>= 5
		}
	}
	return strings.TrimRight(string(buf), ".")
}

// MarshalText encodes the name as its string form, used for json and yaml
func (n Name) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText decodes and validates the string form
func (n *Name) UnmarshalText(b []byte) error {
	v, err := NewName(string(b))
	if err != nil {
		return err
	}
	*n = v
	return nil
}
