// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package main

import (
	"github.com/aungmawjj/juria-cfhello/execution/bincc"
	"github.com/aungmawjj/juria-cfhello/execution/chaincode/cfhello"
)

// bincc version of cfhello. User can compile and deploy it separately to the running juria node

func main() {
	cfh := new(cfhello.CFHello)
	bincc.RunChaincode(cfh)
}
