// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package execution

import (
	"bytes"
	"errors"

	"github.com/aungmawjj/juria-cfhello/execution/chaincode"
	"github.com/aungmawjj/juria-cfhello/execution/chaincode/cfhello"
)

var (
	NativeCodeIDCFHello = bytes.Repeat([]byte{1}, 32)
)

var ErrUnknownNativeCode = errors.New("unknown native chaincode id")

// nativeCodeDriver serves chaincodes compiled into the node,
// install data is ignored
type nativeCodeDriver struct {
	codes map[string]func() chaincode.Chaincode
}

var _ CodeDriver = (*nativeCodeDriver)(nil)

func newNativeCodeDriver() *nativeCodeDriver {
	return &nativeCodeDriver{
		codes: map[string]func() chaincode.Chaincode{
			string(NativeCodeIDCFHello): func() chaincode.Chaincode { return new(cfhello.CFHello) },
		},
	}
}

func (drv *nativeCodeDriver) Install(codeID, data []byte) error {
	if _, found := drv.codes[string(codeID)]; !found {
		return ErrUnknownNativeCode
	}
	return nil
}

func (drv *nativeCodeDriver) GetInstance(codeID []byte) (chaincode.Chaincode, error) {
	newCode, found := drv.codes[string(codeID)]
	if !found {
		return nil, ErrUnknownNativeCode
	}
	return newCode(), nil
}
