// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package bincc

import (
	"encoding/binary"
	"errors"
	"io"
)

const headerSize = 4

var errMessageTooBig = errors.New("pipe message too big")

// readWriter frames pipe messages with a 4 bytes big endian length prefix
type readWriter struct {
	reader io.ReadCloser
	writer io.WriteCloser
}

// write sends header and payload in a single write
func (rw *readWriter) write(b []byte) error {
	if len(b) > MessageSizeLimit {
		return errMessageTooBig
	}
	msg := binary.BigEndian.AppendUint32(make([]byte, 0, headerSize+len(b)), uint32(len(b)))
	_, err := rw.writer.Write(append(msg, b...))
	return err
}

func (rw *readWriter) read() ([]byte, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(rw.reader, header[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(header[:])
	if size > MessageSizeLimit {
		return nil, errMessageTooBig
	}
	b := make([]byte, size)
	if _, err := io.ReadFull(rw.reader, b); err != nil {
		return nil, err
	}
	return b, nil
}
