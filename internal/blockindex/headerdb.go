// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockindex

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"github.com/vbits/vbitsd/internal/progresslog"
)

var (
	// headerKeyPrefix is the key prefix of all stored headers.  The prefix
	// is followed by the big endian height and the hash of the header, so
	// iterating the prefix yields the headers in height order.
	headerKeyPrefix = []byte("h")

	// bestTipKey is the key of the hash of the tip of the active chain.
	bestTipKey = []byte("besttip")
)

// headerKey returns the database key of the provided header.
func headerKey(height int64, hash *chainhash.Hash) []byte {
	key := make([]byte, len(headerKeyPrefix)+8+chainhash.HashSize)
	copy(key, headerKeyPrefix)
	binary.BigEndian.PutUint64(key[len(headerKeyPrefix):], uint64(height))
	copy(key[len(headerKeyPrefix)+8:], hash[:])
	return key
}

// convertLdbErr converts the passed leveldb error into a context error with an
// equivalent error kind and the passed description.  It also sets the passed
// error as the underlying error.
func convertLdbErr(ldbErr error, desc string) ContextError {
	// Use the general header database error kind by default.  The code below
	// will update this with the converted error if it's recognized.
	var kind = ErrHeaderDB

	switch {
	// Database corruption errors.
	case ldberrors.IsCorrupted(ldbErr):
		kind = ErrHeaderDBCorruption

	// Database open/create errors.
	case errors.Is(ldbErr, leveldb.ErrClosed):
		kind = ErrHeaderDBNotOpen
	}

	// Include the original error in description.
	desc = fmt.Sprintf("%s: %v", desc, ldbErr)

	err := contextError(kind, desc)
	err.RawErr = ldbErr
	return err
}

// HeaderDB stores block headers and the tip of the active chain in a leveldb
// database.
type HeaderDB struct {
	db *leveldb.DB
}

// headerDBOptions returns the options used to open header databases.
func headerDBOptions() *opt.Options {
	return &opt.Options{
		Strict:      opt.DefaultStrict,
		Compression: opt.NoCompression,
		Filter:      filter.NewBloomFilter(10),
	}
}

// OpenHeaderDB opens the header database at the provided path and creates it
// when it does not exist.
func OpenHeaderDB(dbPath string) (*HeaderDB, error) {
	log.Infof("Loading header database from '%s'", dbPath)
	db, err := leveldb.OpenFile(dbPath, headerDBOptions())
	if err != nil {
		return nil, convertLdbErr(err, "failed to open header database")
	}
	return &HeaderDB{db: db}, nil
}

// openHeaderDBStorage opens a header database backed by the provided storage.
func openHeaderDBStorage(stor storage.Storage) (*HeaderDB, error) {
	db, err := leveldb.Open(stor, headerDBOptions())
	if err != nil {
		return nil, convertLdbErr(err, "failed to open header database")
	}
	return &HeaderDB{db: db}, nil
}

// Close closes the database.
func (h *HeaderDB) Close() error {
	if err := h.db.Close(); err != nil {
		return convertLdbErr(err, "failed to close header database")
	}
	return nil
}

// PutHeaders stores the provided headers atomically.
func (h *HeaderDB) PutHeaders(headers []*wire.BlockHeader) error {
	var batch leveldb.Batch
	var buf bytes.Buffer
	for _, header := range headers {
		buf.Reset()
		if err := header.Serialize(&buf); err != nil {
			return err
		}
		hash := header.BlockHash()
		batch.Put(headerKey(int64(header.Height), &hash), buf.Bytes())
	}
	if err := h.db.Write(&batch, nil); err != nil {
		return convertLdbErr(err, "failed to store headers")
	}
	return nil
}

// PutBestTip stores the hash of the tip of the active chain.
func (h *HeaderDB) PutBestTip(hash *chainhash.Hash) error {
	if err := h.db.Put(bestTipKey, hash[:], nil); err != nil {
		return convertLdbErr(err, "failed to store best tip")
	}
	return nil
}

// BestTip returns the stored hash of the tip of the active chain and whether
// or not one is stored.
func (h *HeaderDB) BestTip() (chainhash.Hash, bool, error) {
	serialized, err := h.db.Get(bestTipKey, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return chainhash.Hash{}, false, nil
		}
		return chainhash.Hash{}, false, convertLdbErr(err,
			"failed to load best tip")
	}
	var hash chainhash.Hash
	if err := hash.SetBytes(serialized); err != nil {
		str := fmt.Sprintf("malformed best tip %x", serialized)
		return chainhash.Hash{}, false, contextError(ErrHeaderDBCorruption, str)
	}
	return hash, true, nil
}

// FetchHeader returns the stored header with the provided height and hash.
func (h *HeaderDB) FetchHeader(height int64, hash *chainhash.Hash) (*wire.BlockHeader, error) {
	serialized, err := h.db.Get(headerKey(height, hash), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			str := fmt.Sprintf("header %s at height %d is not stored", hash,
				height)
			return nil, contextError(ErrUnknownBlock, str)
		}
		return nil, convertLdbErr(err, "failed to load header")
	}
	var header wire.BlockHeader
	if err := header.Deserialize(bytes.NewReader(serialized)); err != nil {
		str := fmt.Sprintf("malformed header %s: %v", hash, err)
		return nil, contextError(ErrHeaderDBCorruption, str)
	}
	return &header, nil
}

// ForEachHeader invokes the provided function with every stored header in
// ascending height order.  Iteration stops when the function returns an error
// which is then returned.
func (h *HeaderDB) ForEachHeader(fn func(header *wire.BlockHeader) error) error {
	iter := h.db.NewIterator(util.BytesPrefix(headerKeyPrefix), nil)
	defer iter.Release()
	for iter.Next() {
		var header wire.BlockHeader
		if err := header.Deserialize(bytes.NewReader(iter.Value())); err != nil {
			str := fmt.Sprintf("malformed header for key %x: %v", iter.Key(),
				err)
			return contextError(ErrHeaderDBCorruption, str)
		}
		if err := fn(&header); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return convertLdbErr(err, "failed to iterate headers")
	}
	return nil
}

// LoadFrom adds all headers stored in the provided database to the index and
// then restores the stored tip of the active chain.  A stored genesis header
// must match the genesis block of the index.
func (idx *Index) LoadFrom(db *HeaderDB) error {
	progress := progresslog.New("Loaded", log)
	var loaded uint64
	err := db.ForEachHeader(func(header *wire.BlockHeader) error {
		if header.Height == 0 {
			hash := header.BlockHash()
			if hash != idx.params.GenesisHash {
				str := fmt.Sprintf("stored genesis block %s does not match "+
					"the %s genesis block %s", hash, idx.params.Name,
					idx.params.GenesisHash)
				return contextError(ErrGenesisMismatch, str)
			}
			return nil
		}
		if _, err := idx.AddHeader(header); err != nil {
			if errors.Is(err, ErrDuplicateBlock) {
				return nil
			}
			return err
		}
		loaded++
		progress.LogProgress(header, false)
		return nil
	})
	if err != nil {
		return err
	}

	tip, ok, err := db.BestTip()
	if err != nil {
		return err
	}
	if ok {
		if err := idx.SetBestTip(&tip); err != nil {
			return err
		}
	}
	tipHash, tipHeight := idx.Tip()
	log.Infof("Loaded %d headers (tip %s, height %d)", loaded, tipHash,
		tipHeight)
	return nil
}
