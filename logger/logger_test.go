// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultIsNop(t *testing.T) {
	assert := assert.New(t)

	assert.NotNil(I())
	assert.NotPanics(func() {
		I().Infow("hello", "key", "value", "key1", 1)
	})
}

func TestNew(t *testing.T) {
	assert := assert.New(t)

	l, err := New(Config{Debug: true})
	assert.NoError(err)
	assert.NotNil(l)

	l, err = New(Config{})
	assert.NoError(err)
	assert.NotNil(l)
}

func TestSet(t *testing.T) {
	assert := assert.New(t)

	prev := I()
	defer Set(prev)

	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core).Sugar())

	I().Infow("committed block", "height", 3)

	entries := logs.All()
	assert.Len(entries, 1)
	assert.Equal("committed block", entries[0].Message)
	assert.EqualValues(3, entries[0].ContextMap()["height"])
}
