// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package consensus

type Status struct {
	StartTime int64 `json:"startTime"`

	// commited tx count since node is up
	CommitedTxCount int `json:"commitedTxCount"`

	BlockHeight   uint64 `json:"blockHeight"`
	LastBlockHash []byte `json:"lastBlockHash"`
	Proposer      string `json:"proposer"`
}
