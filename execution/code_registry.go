// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package execution

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aungmawjj/juria-cfhello/execution/chaincode"
	"github.com/aungmawjj/juria-cfhello/util"
	"golang.org/x/crypto/sha3"
)

var codeRegistryAddr = bytes.Repeat([]byte{0}, 32)

var (
	ErrCodeNotFound      = errors.New("chaincode not found")
	ErrUnknownDriverType = errors.New("unknown chaincode driver type")
)

type CodeDriver interface {
	// Install is called when code deployment transaction is received
	// Example data field - download url for code binary
	// After successful Install, getInstance should give a Chaincode instance without error
	Install(codeID, data []byte) error
	GetInstance(codeID []byte) (chaincode.Chaincode, error)
}

type DriverType uint8

const (
	DriverTypeNative DriverType = iota + 1
	DriverTypeBincc
)

type CodeInfo struct {
	DriverType DriverType `json:"driverType"`
	CodeID     []byte     `json:"codeID"`
}

// DeploymentInput is the input of a deployment action
type DeploymentInput struct {
	CodeInfo    CodeInfo `json:"codeInfo"`
	InstallData []byte   `json:"installData"`
	InitInput   []byte   `json:"initInput"`
}

// CodeAddress returns the address of the chaincode
// deployed by the action at idx of a tx
func CodeAddress(txHash []byte, idx int) []byte {
	sum := sha3.Sum256(util.ConcatBytes(txHash, util.Uint64ToBytes(uint64(idx))))
	return sum[:]
}

func parseDeploymentInput(b []byte) (*DeploymentInput, error) {
	input := new(DeploymentInput)
	if err := json.Unmarshal(b, input); err != nil {
		return nil, fmt.Errorf("failed to parse deployment input: %w", err)
	}
	return input, nil
}

type codeRegistry struct {
	drivers map[DriverType]CodeDriver
}

func newCodeRegistry() *codeRegistry {
	reg := new(codeRegistry)
	reg.drivers = make(map[DriverType]CodeDriver)
	return reg
}

func (reg *codeRegistry) registerDriver(driverType DriverType, driver CodeDriver) error {
	if _, found := reg.drivers[driverType]; found {
		return errors.New("driver already registered")
	}
	reg.drivers[driverType] = driver
	return nil
}

func (reg *codeRegistry) install(input *DeploymentInput) error {
	driver, err := reg.getDriver(input.CodeInfo.DriverType)
	if err != nil {
		return err
	}
	return driver.Install(input.CodeInfo.CodeID, input.InstallData)
}

func (reg *codeRegistry) deploy(
	codeAddr []byte, input *DeploymentInput, state State,
) (chaincode.Chaincode, error) {
	if err := reg.install(input); err != nil {
		return nil, err
	}
	driver, err := reg.getDriver(input.CodeInfo.DriverType)
	if err != nil {
		return nil, err
	}
	cc, err := driver.GetInstance(input.CodeInfo.CodeID)
	if err != nil {
		return nil, err
	}
	if err := reg.setCodeInfo(codeAddr, &input.CodeInfo, state); err != nil {
		return nil, err
	}
	return cc, nil
}

func (reg *codeRegistry) getInstance(codeAddr []byte, state StateRO) (chaincode.Chaincode, error) {
	info, err := reg.getCodeInfo(codeAddr, state)
	if err != nil {
		return nil, err
	}
	driver, err := reg.getDriver(info.DriverType)
	if err != nil {
		return nil, err
	}
	return driver.GetInstance(info.CodeID)
}

func (reg *codeRegistry) getDriver(driverType DriverType) (CodeDriver, error) {
	driver, ok := reg.drivers[driverType]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownDriverType, driverType)
	}
	return driver, nil
}

func (reg *codeRegistry) setCodeInfo(codeAddr []byte, codeInfo *CodeInfo, state State) error {
	b, err := json.Marshal(codeInfo)
	if err != nil {
		return err
	}
	state.SetState(codeAddr, b)
	return nil
}

func (reg *codeRegistry) getCodeInfo(codeAddr []byte, state StateRO) (*CodeInfo, error) {
	b := state.GetState(codeAddr)
	if len(b) == 0 {
		return nil, fmt.Errorf("%w at %s", ErrCodeNotFound, util.HexString(codeAddr))
	}
	info := new(CodeInfo)
	if err := json.Unmarshal(b, info); err != nil {
		return nil, err
	}
	return info, nil
}
