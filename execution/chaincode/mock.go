// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package chaincode

type MockState struct {
	StateMap map[string][]byte
}

func NewMockState() *MockState {
	return &MockState{
		StateMap: make(map[string][]byte),
	}
}

func (ms *MockState) GetState(key []byte) []byte {
	return ms.StateMap[string(key)]
}

func (ms *MockState) SetState(key, value []byte) {
	ms.StateMap[string(key)] = value
}

// MockConsole records printed lines
type MockConsole struct {
	Lines []string
}

func (mc *MockConsole) Print(line string) {
	mc.Lines = append(mc.Lines, line)
}

type MockCallContext struct {
	MockConsole
	State           *MockState
	MockSender      []byte
	MockBlockHash   []byte
	MockBlockHeight uint64
	MockInput       []byte
}

var _ CallContext = (*MockCallContext)(nil)

func (m *MockCallContext) Sender() []byte {
	return m.MockSender
}

func (m *MockCallContext) BlockHash() []byte {
	return m.MockBlockHash
}

func (m *MockCallContext) BlockHeight() uint64 {
	return m.MockBlockHeight
}

func (m *MockCallContext) Input() []byte {
	return m.MockInput
}

func (m *MockCallContext) GetState(key []byte) []byte {
	return m.State.GetState(key)
}

func (m *MockCallContext) SetState(key, value []byte) {
	m.State.SetState(key, value)
}

type MockContextFreeContext struct {
	MockConsole
	MockInput []byte
	Segments  [][]byte

	// DataError is returned from ContextFreeData at DataErrorIndex
	DataError      error
	DataErrorIndex int

	// Queries records the index of each ContextFreeData call
	Queries []int
}

var _ ContextFreeContext = (*MockContextFreeContext)(nil)

func (m *MockContextFreeContext) Input() []byte {
	return m.MockInput
}

func (m *MockContextFreeContext) ContextFreeData(idx int, buf []byte) (int, error) {
	m.Queries = append(m.Queries, idx)
	if m.DataError != nil && idx == m.DataErrorIndex {
		return 0, m.DataError
	}
	if idx < 0 || idx >= len(m.Segments) {
		return NotFound, nil
	}
	seg := m.Segments[idx]
	copy(buf, seg)
	return len(seg), nil
}
