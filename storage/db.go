// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package storage

import (
	"errors"

	"github.com/aungmawjj/juria-cfhello/logger"
	"github.com/dgraph-io/badger/v3"
)

// data collection prefixes for different data collections
const (
	_                    byte = iota
	colBlockByHash            // block by hash
	colBlockHashByHeight      // block hash by height
	colBlockHeight            // last block height
	colBlockCommitByHash      // block commit by block hash
	colTxByHash               // tx by hash
	colTxCommitByHash         // tx commit info by tx hash
	colStateValueByKey        // state value by state key
)

var ErrNotFound = errors.New("not found")

type Config struct {
	SyncWrites bool `yaml:"syncWrites" env:"SYNC_WRITES"`
}

var DefaultConfig = Config{
	SyncWrites: true,
}

// NewDB opens a badger db at dir
func NewDB(dir string, config Config) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).
		WithSyncWrites(config.SyncWrites).
		WithLogger(&badgerLogger{})
	return badger.Open(opts)
}

type getter interface {
	Get(key []byte) ([]byte, error)
	HasKey(key []byte) bool
}

type updateFunc func(txn *badger.Txn) error

type badgerGetter struct {
	db *badger.DB
}

var _ getter = (*badgerGetter)(nil)

func (bg *badgerGetter) Get(key []byte) ([]byte, error) {
	var val []byte
	err := bg.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == nil {
			val, err = item.ValueCopy(nil)
		}
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return val, err
}

func (bg *badgerGetter) HasKey(key []byte) bool {
	err := bg.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	return err == nil
}

func updateBadgerDB(db *badger.DB, fns []updateFunc) error {
	return db.Update(func(txn *badger.Txn) error {
		for _, fn := range fns {
			if err := fn(txn); err != nil {
				return err
			}
		}
		return nil
	})
}

// badgerLogger forwards badger logs to the node logger
type badgerLogger struct{}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	logger.I().Errorf("badger: "+format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	logger.I().Warnf("badger: "+format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	logger.I().Debugf("badger: "+format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	logger.I().Debugf("badger: "+format, args...)
}
