// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package execution

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeRegistry(t *testing.T) {
	assert := assert.New(t)

	trk := newStateTracker(newMapStateStore(), codeRegistryAddr)
	reg := newCodeRegistry()

	codeAddr := bytes.Repeat([]byte{1}, 32)
	dep := &DeploymentInput{
		CodeInfo: CodeInfo{
			DriverType: DriverTypeNative,
			CodeID:     NativeCodeIDCFHello,
		},
	}

	cc, err := reg.getInstance(codeAddr, trk)

	assert.ErrorIs(err, ErrCodeNotFound, "code not deployed yet")
	assert.Nil(cc)

	cc, err = reg.deploy(codeAddr, dep, trk)

	assert.ErrorIs(err, ErrUnknownDriverType, "native driver not registered yet")
	assert.Nil(cc)

	reg.registerDriver(DriverTypeNative, newNativeCodeDriver())
	cc, err = reg.deploy(codeAddr, dep, trk)

	assert.NoError(err)
	assert.NotNil(cc)

	err = reg.registerDriver(DriverTypeNative, newNativeCodeDriver())

	assert.Error(err, "registered driver twice")

	cc, err = reg.getInstance(codeAddr, trk)

	assert.NoError(err)
	assert.NotNil(cc)

	cc, err = reg.getInstance(bytes.Repeat([]byte{2}, 32), trk)

	assert.Error(err, "wrong code address")
	assert.Nil(cc)

	dep.CodeInfo.CodeID = []byte{2, 2, 2}
	assert.Error(reg.install(dep), "invalid native code id")
}

func TestCodeAddress(t *testing.T) {
	assert := assert.New(t)

	txHash := bytes.Repeat([]byte{5}, 32)

	assert.Len(CodeAddress(txHash, 0), 32)
	assert.Equal(CodeAddress(txHash, 0), CodeAddress(txHash, 0))
	assert.NotEqual(CodeAddress(txHash, 0), CodeAddress(txHash, 1))
	assert.NotEqual(CodeAddress(txHash, 0), CodeAddress(bytes.Repeat([]byte{6}, 32), 0))
}
