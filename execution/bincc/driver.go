// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package bincc

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aungmawjj/juria-cfhello/execution/chaincode"
	"github.com/aungmawjj/juria-cfhello/logger"
	"golang.org/x/crypto/sha3"
)

// MaxCodeSize limits the size of a chaincode binary
const MaxCodeSize = 64 << 20

const fileScheme = "file://"

var (
	ErrCodeNotInstalled = errors.New("chaincode binary not installed")
	ErrInvalidCodeHash  = errors.New("invalid code hash")
	ErrCodeTooBig       = errors.New("chaincode binary too big")
)

// CodeDriver runs chaincodes compiled as separate binaries.
// Code id is the sha3 of the binary. Install data is where to get it,
// a http(s) url or file:// path.
type CodeDriver struct {
	codeDir     string
	execTimeout time.Duration
	mtxInstall  sync.Mutex

	downloadRetry int
}

func NewCodeDriver(codeDir string, timeout time.Duration) *CodeDriver {
	return &CodeDriver{
		codeDir:       codeDir,
		execTimeout:   timeout,
		downloadRetry: 5,
	}
}

func (drv *CodeDriver) Install(codeID, data []byte) error {
	drv.mtxInstall.Lock()
	defer drv.mtxInstall.Unlock()

	if drv.installed(codeID) {
		return nil
	}
	src, err := drv.openSource(string(data))
	if err != nil {
		return err
	}
	defer src.Close()

	sum, buf, err := readCode(src)
	if err != nil {
		return err
	}
	if !bytes.Equal(codeID, sum) {
		return ErrInvalidCodeHash
	}
	if err := writeCodeFile(drv.codeDir, codeID, buf); err != nil {
		return err
	}
	logger.I().Infow("installed chaincode binary",
		"codeID", hex.EncodeToString(codeID), "size", buf.Len())
	return nil
}

func (drv *CodeDriver) GetInstance(codeID []byte) (chaincode.Chaincode, error) {
	if !drv.installed(codeID) {
		return nil, ErrCodeNotInstalled
	}
	return &Runner{
		codePath: drv.codePath(codeID),
		timeout:  drv.execTimeout,
	}, nil
}

func (drv *CodeDriver) codePath(codeID []byte) string {
	return path.Join(drv.codeDir, hex.EncodeToString(codeID))
}

func (drv *CodeDriver) installed(codeID []byte) bool {
	_, err := os.Stat(drv.codePath(codeID))
	return err == nil
}

func (drv *CodeDriver) openSource(src string) (io.ReadCloser, error) {
	if strings.HasPrefix(src, fileScheme) {
		return os.Open(strings.TrimPrefix(src, fileScheme))
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return drv.download(src)
	}
	return nil, fmt.Errorf("unsupported code source %q", src)
}

func (drv *CodeDriver) download(url string) (io.ReadCloser, error) {
	var err error
	for i := 0; i <= drv.downloadRetry; i++ {
		if i > 0 {
			time.Sleep(100 * time.Millisecond)
		}
		var resp *http.Response
		resp, err = http.Get(url)
		if err != nil {
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return resp.Body, nil
		}
		resp.Body.Close()
		err = fmt.Errorf("download code status %d", resp.StatusCode)
	}
	return nil, err
}

// readCode reads at most MaxCodeSize bytes and returns their sha3 sum
func readCode(r io.Reader) ([]byte, *bytes.Buffer, error) {
	buf := bytes.NewBuffer(nil)
	h := sha3.New256()
	n, err := io.Copy(buf, io.TeeReader(io.LimitReader(r, MaxCodeSize+1), h))
	if err != nil {
		return nil, nil, err
	}
	if n > MaxCodeSize {
		return nil, nil, ErrCodeTooBig
	}
	return h.Sum(nil), buf, nil
}

// writeCodeFile writes to a temp file first,
// a code file with the final name is always complete
func writeCodeFile(codeDir string, codeID []byte, r io.Reader) error {
	if err := os.MkdirAll(codeDir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(codeDir, "install-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(f.Name(), 0755); err != nil {
		return err
	}
	return os.Rename(f.Name(), path.Join(codeDir, hex.EncodeToString(codeID)))
}

// CodeID returns the code id of a chaincode binary
func CodeID(r io.Reader) ([]byte, error) {
	sum, _, err := readCode(r)
	return sum, err
}
