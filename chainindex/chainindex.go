// Package chainindex maintains a leveldb backed index from block numbers to
// block identifiers, so linkage lookups over historical blocks do not need
// to read and decode the block artifacts themselves.
package chainindex

import (
	"encoding/binary"
	"errors"

	goleveldb "github.com/syndtr/goleveldb/leveldb"
	dberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/nishp77/thenewboston-node/log"
)

const (
	// minCache is the minimum amount of memory in megabytes to allocate to
	// leveldb read and write caching, split half and half.
	minCache = 16

	// minHandles is the minimum number of file handles to allocate to the
	// open database files.
	minHandles = 16
)

// ErrNotFound is returned when the index has no entry for the requested
// block number.
var ErrNotFound = errors.New("block number not indexed")

var (
	identifierKeyPrefix = []byte("block-identifier:")
	headKey             = []byte("chain-head")
)

// Index is a persistent block number to block identifier mapping with a
// head marker. It is a cache over the artifact store: every entry can be
// rebuilt from the block artifacts.
type Index struct {
	path  string
	lvldb *goleveldb.DB
}

// Open opens (creating if needed) the index at the given path. Corrupted
// databases are recovered rather than refused, since every entry can be
// rewritten from the chain.
func Open(path string, cache, handles int) (*Index, error) {
	if cache < minCache {
		cache = minCache
	}
	if handles < minHandles {
		handles = minHandles
	}
	options := &opt.Options{
		Filter:                 filter.NewBloomFilter(10),
		DisableSeeksCompaction: true,
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
	}
	log.Info("opening chain index", "path", path, "cache", cache, "handles", handles)

	db, err := goleveldb.OpenFile(path, options)
	if dberrors.IsCorrupted(err) {
		log.Warn("recovering corrupted chain index", "path", path)
		db, err = goleveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, err
	}
	return &Index{path: path, lvldb: db}, nil
}

// Close flushes pending data and closes the underlying store.
func (ix *Index) Close() error {
	return ix.lvldb.Close()
}

// Path returns the database directory.
func (ix *Index) Path() string {
	return ix.path
}

func identifierKey(number int64) []byte {
	key := make([]byte, len(identifierKeyPrefix)+8)
	copy(key, identifierKeyPrefix)
	binary.BigEndian.PutUint64(key[len(identifierKeyPrefix):], uint64(number))
	return key
}

// PutIdentifier records the identifier of the given block number and
// advances the head marker when the number is beyond it.
func (ix *Index) PutIdentifier(number int64, identifier string) error {
	if err := ix.lvldb.Put(identifierKey(number), []byte(identifier), nil); err != nil {
		return err
	}
	head, err := ix.Head()
	if err == nil && head >= number {
		return nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return ix.putHead(number)
}

// GetIdentifier returns the identifier recorded for the given block number.
func (ix *Index) GetIdentifier(number int64) (string, error) {
	value, err := ix.lvldb.Get(identifierKey(number), nil)
	if errors.Is(err, dberrors.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(value), nil
}

func (ix *Index) putHead(number int64) error {
	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, uint64(number))
	return ix.lvldb.Put(headKey, value, nil)
}

// Head returns the highest indexed block number.
func (ix *Index) Head() (int64, error) {
	value, err := ix.lvldb.Get(headKey, nil)
	if errors.Is(err, dberrors.ErrNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if len(value) != 8 {
		return 0, ErrNotFound
	}
	return int64(binary.BigEndian.Uint64(value)), nil
}
