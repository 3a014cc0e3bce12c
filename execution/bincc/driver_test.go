// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package bincc

import (
	"bytes"
	"encoding/binary"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/sha3"
)

var testCode = []byte("#!/bin/sh\necho chaincode\n")

func testCodeID() []byte {
	sum := sha3.Sum256(testCode)
	return sum[:]
}

func TestCodeID(t *testing.T) {
	assert := assert.New(t)

	id, err := CodeID(bytes.NewReader(testCode))
	assert.NoError(err)
	assert.Equal(testCodeID(), id)
}

func TestCodeDriver_installFile(t *testing.T) {
	assert := assert.New(t)

	src := path.Join(t.TempDir(), "cfhello")
	assert.NoError(os.WriteFile(src, testCode, 0644))

	drv := NewCodeDriver(path.Join(t.TempDir(), "bincc"), time.Second)
	codeID := testCodeID()

	_, err := drv.GetInstance(codeID)
	assert.ErrorIs(err, ErrCodeNotInstalled)

	assert.ErrorIs(drv.Install(codeID[1:], []byte(fileScheme+src)), ErrInvalidCodeHash)
	assert.NoError(drv.Install(codeID, []byte(fileScheme+src)))

	cc, err := drv.GetInstance(codeID)
	assert.NoError(err)
	assert.NotNil(cc)

	info, err := os.Stat(drv.codePath(codeID))
	assert.NoError(err)
	assert.Equal(os.FileMode(0755), info.Mode().Perm())

	// already installed, source is not read again
	assert.NoError(drv.Install(codeID, []byte(fileScheme+"/not/exist")))

	entries, _ := os.ReadDir(drv.codeDir)
	assert.Len(entries, 1, "no temp file left")
}

func TestCodeDriver_installURL(t *testing.T) {
	assert := assert.New(t)

	var fails atomic.Int32
	fails.Store(2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fails.Add(-1) >= 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(testCode)
	}))
	defer srv.Close()

	drv := NewCodeDriver(t.TempDir(), time.Second)
	assert.NoError(drv.Install(testCodeID(), []byte(srv.URL+"/cfhello")))
	assert.True(drv.installed(testCodeID()))
}

func TestCodeDriver_installErrors(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	drv := NewCodeDriver(t.TempDir(), time.Second)
	drv.downloadRetry = 1

	assert.Error(drv.Install(testCodeID(), []byte(srv.URL)))
	assert.Error(drv.Install(testCodeID(), []byte("ftp://code")))
	assert.Error(drv.Install(testCodeID(), nil))
	assert.Error(drv.Install(testCodeID(), []byte(fileScheme+"/not/exist")))
}

func TestReadCode_tooBig(t *testing.T) {
	assert := assert.New(t)

	_, _, err := readCode(io.LimitReader(zeroReader{}, MaxCodeSize+10))
	assert.ErrorIs(err, ErrCodeTooBig)
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestReadWriter(t *testing.T) {
	assert := assert.New(t)

	r, w := io.Pipe()
	rw := &readWriter{reader: r, writer: w}

	go func() {
		rw.write([]byte("hello"))
		rw.write(nil)
	}()
	b, err := rw.read()
	assert.NoError(err)
	assert.Equal([]byte("hello"), b)

	b, err = rw.read()
	assert.NoError(err)
	assert.Empty(b)
}

func TestReadWriter_tooBig(t *testing.T) {
	assert := assert.New(t)

	header := binary.BigEndian.AppendUint32(nil, MessageSizeLimit+1)
	rw := &readWriter{reader: io.NopCloser(bytes.NewReader(header))}

	_, err := rw.read()
	assert.ErrorIs(err, errMessageTooBig)

	rw = &readWriter{reader: io.NopCloser(bytes.NewReader([]byte{0, 0})), writer: nopWriteCloser{}}
	_, err = rw.read()
	assert.Error(err, "short header")
}

type nopWriteCloser struct{}

func (nopWriteCloser) Write(p []byte) (int, error) { return len(p), nil }
func (nopWriteCloser) Close() error                { return nil }
