// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package node

import (
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/execution"
	"github.com/aungmawjj/juria-cfhello/logger"
	"github.com/aungmawjj/juria-cfhello/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const hashKey = "hash"

var errBadRequest = errors.New("bad request")

type nodeAPI struct {
	node *Node
}

func newRouter(node *Node) *gin.Engine {
	api := &nodeAPI{node}

	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/consensus", func(c *gin.Context) {
		respond(c, node.consensus.GetStatus(), nil)
	})
	r.GET("/txpool", func(c *gin.Context) {
		respond(c, node.txpool.GetStatus(), nil)
	})

	txs := r.Group("/transactions")
	txs.POST("", api.submitTx)
	txs.GET("/:hash/status", parseHash, api.getTxStatus)
	txs.GET("/:hash/commit", parseHash, api.getTxCommit)

	r.GET("/blocks/:hash", parseHash, api.getBlock)
	r.GET("/blocksbyh/:height", api.getBlockByHeight)
	r.POST("/querystate", api.queryState)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// parseHash decodes the hex :hash param for the handlers after it
func parseHash(c *gin.Context) {
	hash, err := hex.DecodeString(c.Param("hash"))
	if err != nil || len(hash) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid hash"})
		return
	}
	c.Set(hashKey, hash)
}

func hashParam(c *gin.Context) []byte {
	return c.MustGet(hashKey).([]byte)
}

// respond writes v as json, or maps err to a status code
func respond(c *gin.Context, v interface{}, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, v)
	case errors.Is(err, errBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (api *nodeAPI) submitTx(c *gin.Context) {
	tx := core.NewTransaction()
	if err := c.ShouldBindJSON(tx); err != nil {
		respond(c, nil, errors.Join(errBadRequest, err))
		return
	}
	if err := api.node.txpool.SubmitTx(tx); err != nil {
		logger.I().Warnw("submit tx failed", "tx", tx.Hash(), "error", err)
		respond(c, nil, errors.Join(errBadRequest, err))
		return
	}
	respond(c, gin.H{"hash": tx.Hash()}, nil)
}

func (api *nodeAPI) queryState(c *gin.Context) {
	query := new(execution.QueryData)
	if err := c.ShouldBindJSON(query); err != nil {
		respond(c, nil, errors.Join(errBadRequest, err))
		return
	}
	result, err := api.node.execution.Query(query)
	respond(c, result, err)
}

func (api *nodeAPI) getTxStatus(c *gin.Context) {
	respond(c, api.node.txpool.GetTxStatus(hashParam(c)), nil)
}

func (api *nodeAPI) getTxCommit(c *gin.Context) {
	txc, err := api.node.storage.GetTxCommit(hashParam(c))
	respond(c, txc, err)
}

func (api *nodeAPI) getBlock(c *gin.Context) {
	blk, err := api.node.storage.GetBlock(hashParam(c))
	respond(c, blk, err)
}

func (api *nodeAPI) getBlockByHeight(c *gin.Context) {
	height, err := strconv.ParseUint(c.Param("height"), 10, 64)
	if err != nil {
		respond(c, nil, errors.Join(errBadRequest, err))
		return
	}
	blk, err := api.node.storage.GetBlockByHeight(height)
	respond(c, blk, err)
}
