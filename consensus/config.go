// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package consensus

import "time"

type Config struct {
	ChainID int64 `yaml:"chainID" env:"CHAIN_ID"`

	// maximum tx count in a block
	BlockTxLimit int `yaml:"blockTxLimit" env:"BLOCK_TX_LIMIT"`

	// additional delay to check the pool again if there are no transactions
	TxWaitTime time.Duration `yaml:"txWaitTime" env:"TX_WAIT_TIME"`

	// minimum delay between each block (i.e, it can define maximum block rate)
	BlockDelay time.Duration `yaml:"blockDelay" env:"BLOCK_DELAY"`
}

var DefaultConfig = Config{
	BlockTxLimit: 500,
	TxWaitTime:   1 * time.Second,
	BlockDelay:   50 * time.Millisecond, // maximum block rate = 20 blk per sec
}
