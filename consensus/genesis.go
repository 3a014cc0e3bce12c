// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package consensus

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/logger"
	"github.com/aungmawjj/juria-cfhello/storage"
	"golang.org/x/crypto/sha3"
)

type genesis struct {
	resources *Resources
	chainID   int64
}

// run creates and commits the genesis block,
// it has no transactions and its parent hash is the hash of the chain id
func (gns *genesis) run() (*core.Block, error) {
	logger.I().Info("creating genesis block...")
	b0 := core.NewBlock().
		SetHeight(0).
		SetParentHash(hashChainID(gns.chainID)).
		SetTimestamp(time.Now().UnixNano()).
		Sign(gns.resources.Signer)

	bcm, txcs := gns.resources.Execution.Execute(b0, nil)
	err := gns.resources.Storage.Commit(&storage.CommitData{
		Block:       b0,
		BlockCommit: bcm,
		TxCommits:   txcs,
	})
	if err != nil {
		return nil, fmt.Errorf("commit genesis block failed, %w", err)
	}
	logger.I().Infow("committed genesis block", "chainID", gns.chainID)
	return b0, nil
}

func hashChainID(chainID int64) []byte {
	h := sha3.New256()
	binary.Write(h, binary.BigEndian, chainID)
	return h.Sum(nil)
}
