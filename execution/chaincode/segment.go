// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package chaincode

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// SegmentReader reads context free data segments one by one in index order.
//
//	segs := chaincode.NewSegmentReader(ctx)
//	for segs.Next() {
//		use(segs.Index(), segs.Bytes())
//	}
//	if err := segs.Err(); err != nil {
//		return err
//	}
//
// Reading stops at the first index without a segment.
// A reader is used for a single pass, create a new one to read again.
type SegmentReader struct {
	ctx  ContextFreeContext
	idx  int
	buf  []byte
	err  error
	done bool
}

func NewSegmentReader(ctx ContextFreeContext) *SegmentReader {
	return &SegmentReader{
		ctx: ctx,
		idx: -1,
	}
}

// Next loads the next segment, it returns false when there are no more
// segments or an error occurred
func (r *SegmentReader) Next() bool {
	if r.done {
		return false
	}
	r.idx++
	r.buf = nil
	size, err := r.ctx.ContextFreeData(r.idx, nil)
	if err != nil {
		return r.fail(err)
	}
	if size == NotFound {
		r.done = true
		return false
	}
	if size < 0 {
		return r.fail(fmt.Errorf("invalid segment size %d at %d", size, r.idx))
	}
	buf := make([]byte, size)
	if size > 0 {
		if _, err := r.ctx.ContextFreeData(r.idx, buf); err != nil {
			return r.fail(err)
		}
	}
	r.buf = buf
	return true
}

func (r *SegmentReader) fail(err error) bool {
	r.err = err
	r.done = true
	r.buf = nil
	return false
}

// Index of the current segment
func (r *SegmentReader) Index() int {
	return r.idx
}

// Bytes of the current segment, owned by the caller
func (r *SegmentReader) Bytes() []byte {
	return r.buf
}

// Err returns the first error of the host
func (r *SegmentReader) Err() error {
	return r.err
}

// SegmentText renders segment bytes as text.
// Bytes are decoded as UTF-8, invalid sequences become U+FFFD.
// NUL bytes are kept, the segment length is known so nothing is truncated.
func SegmentText(b []byte) string {
	s, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(s)
}
