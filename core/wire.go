// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package core

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// core types are encoded in protobuf wire format without generated code
// field numbers are fixed per type and must not be reused

var errWireType = errors.New("unexpected wire type")

type wireWriter struct {
	b []byte
}

func (w *wireWriter) bytes(num protowire.Number, v []byte) {
	if len(v) == 0 {
		return
	}
	w.bytesAlways(num, v)
}

// bytesAlways writes empty values too, required for repeated elements
func (w *wireWriter) bytesAlways(num protowire.Number, v []byte) {
	w.b = protowire.AppendTag(w.b, num, protowire.BytesType)
	w.b = protowire.AppendBytes(w.b, v)
}

func (w *wireWriter) string(num protowire.Number, v string) {
	if len(v) == 0 {
		return
	}
	w.b = protowire.AppendTag(w.b, num, protowire.BytesType)
	w.b = protowire.AppendString(w.b, v)
}

func (w *wireWriter) uint64(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	w.b = protowire.AppendTag(w.b, num, protowire.VarintType)
	w.b = protowire.AppendVarint(w.b, v)
}

func (w *wireWriter) int64(num protowire.Number, v int64) {
	w.uint64(num, uint64(v))
}

func (w *wireWriter) bool(num protowire.Number, v bool) {
	if v {
		w.uint64(num, 1)
	}
}

func (w *wireWriter) double(num protowire.Number, v float64) {
	if v == 0 {
		return
	}
	w.b = protowire.AppendTag(w.b, num, protowire.Fixed64Type)
	w.b = protowire.AppendFixed64(w.b, math.Float64bits(v))
}

type wireField struct {
	num    protowire.Number
	typ    protowire.Type
	varint uint64
	bytes  []byte
}

func (f wireField) asBytes() ([]byte, error) {
	if f.typ != protowire.BytesType {
		return nil, fmt.Errorf("field %d: %w", f.num, errWireType)
	}
	return f.bytes, nil
}

func (f wireField) asString() (string, error) {
	b, err := f.asBytes()
	return string(b), err
}

func (f wireField) asUint64() (uint64, error) {
	if f.typ != protowire.VarintType {
		return 0, fmt.Errorf("field %d: %w", f.num, errWireType)
	}
	return f.varint, nil
}

func (f wireField) asInt64() (int64, error) {
	v, err := f.asUint64()
	return int64(v), err
}

func (f wireField) asBool() (bool, error) {
	v, err := f.asUint64()
	return v != 0, err
}

func (f wireField) asDouble() (float64, error) {
	if f.typ != protowire.Fixed64Type {
		return 0, fmt.Errorf("field %d: %w", f.num, errWireType)
	}
	return math.Float64frombits(f.varint), nil
}

// consumeFields calls fn for each field in b, unknown fields are passed as well
// and should be skipped by fn
func consumeFields(b []byte, fn func(f wireField) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		f := wireField{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			f.varint, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			f.bytes = bytes.Clone(v)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
