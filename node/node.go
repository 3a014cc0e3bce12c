// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package node

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/aungmawjj/juria-cfhello/consensus"
	"github.com/aungmawjj/juria-cfhello/core"
	"github.com/aungmawjj/juria-cfhello/execution"
	"github.com/aungmawjj/juria-cfhello/logger"
	"github.com/aungmawjj/juria-cfhello/storage"
	"github.com/aungmawjj/juria-cfhello/txpool"
)

type Node struct {
	config Config

	privKey   *core.PrivateKey
	storage   *storage.Storage
	txpool    *txpool.TxPool
	execution *execution.Execution
	consensus *consensus.Consensus
	handler   http.Handler
	server    *http.Server
}

// Run starts the node and blocks until it gets SIGINT or SIGTERM
func Run(config Config) {
	setupLogger(config.Debug)
	defer logger.Sync()

	node, err := New(config)
	if err != nil {
		logger.I().Fatalw("node setup failed", "error", err)
	}
	node.serveAPI()
	status := node.consensus.GetStatus()
	logger.I().Infow("node started",
		"apiPort", config.APIPort, "height", status.BlockHeight)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.I().Info("stopping node...")
	if err := node.Stop(); err != nil {
		logger.I().Errorw("stop node failed", "error", err)
	}
}

func setupLogger(debug bool) {
	inst, err := logger.New(logger.Config{Debug: debug})
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	logger.Set(inst)
}

// New sets up the components and starts block production.
// The api is not served, use Handler or Run.
func New(config Config) (*Node, error) {
	node := new(Node)
	node.config = config
	if err := node.readKey(); err != nil {
		return nil, err
	}
	if err := node.setupComponents(); err != nil {
		return nil, err
	}
	node.handler = newRouter(node)
	return node, nil
}

func (node *Node) Stop() error {
	if node.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		node.server.Shutdown(ctx)
	}
	node.consensus.Stop()
	return node.storage.Close()
}

func (node *Node) Handler() http.Handler {
	return node.handler
}

func (node *Node) readKey() error {
	var err error
	node.privKey, err = ReadNodeKey(node.config.Datadir)
	if errors.Is(err, os.ErrNotExist) {
		node.privKey = core.GenerateKey(nil)
		err = WriteNodeKey(node.config.Datadir, node.privKey)
		logger.I().Infow("generated nodekey", "datadir", node.config.Datadir)
	}
	if err != nil {
		return fmt.Errorf("read key failed, %w", err)
	}
	logger.I().Infow("read nodekey", "pubkey", node.privKey.PublicKey())
	return nil
}

func (node *Node) setupComponents() error {
	if err := node.setupStorage(); err != nil {
		return fmt.Errorf("setup storage failed, %w", err)
	}
	execConfig := node.config.ExecutionConfig
	if execConfig.BinccDir == "" {
		execConfig.BinccDir = path.Join(node.config.Datadir, "bincc")
	}
	node.execution = execution.New(node.storage, execConfig)
	node.txpool = txpool.New(node.storage, node.execution)
	if err := node.setupConsensus(); err != nil {
		node.storage.Close()
		return fmt.Errorf("setup consensus failed, %w", err)
	}
	return nil
}

func (node *Node) setupStorage() error {
	db, err := storage.NewDB(path.Join(node.config.Datadir, "db"), node.config.StorageConfig)
	if err != nil {
		return fmt.Errorf("cannot create db %w", err)
	}
	node.storage = storage.New(db)
	return nil
}

func (node *Node) setupConsensus() error {
	var err error
	node.consensus, err = consensus.New(&consensus.Resources{
		Signer:    node.privKey,
		Storage:   node.storage,
		TxPool:    node.txpool,
		Execution: node.execution,
	}, node.config.ConsensusConfig)
	return err
}

func (node *Node) serveAPI() {
	node.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", node.config.APIPort),
		Handler: node.Handler(),
	}
	go func() {
		err := node.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.I().Fatalw("failed to start api", "error", err)
		}
	}()
}
