// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package node

import (
	"fmt"
	"os"
	"path"

	"github.com/aungmawjj/juria-cfhello/core"
)

const NodekeyFile = "nodekey"

func ReadNodeKey(datadir string) (*core.PrivateKey, error) {
	return ReadKeyFile(path.Join(datadir, NodekeyFile))
}

func WriteNodeKey(datadir string, key *core.PrivateKey) error {
	return WriteKeyFile(path.Join(datadir, NodekeyFile), key)
}

func ReadKeyFile(file string) (*core.PrivateKey, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s, %w", file, err)
	}
	return core.NewPrivateKey(b)
}

func WriteKeyFile(file string, key *core.PrivateKey) error {
	if err := os.MkdirAll(path.Dir(file), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(file, key.Bytes(), 0600); err != nil {
		return fmt.Errorf("cannot write %s, %w", file, err)
	}
	return nil
}
