package chain

import (
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/zzhertzmon/veil/util"
)

// ErrIndexNotFound is returned by LevelChain.PrevIndex when the requested
// hash has no recorded index entry.
var ErrIndexNotFound = errors.New("chain: index not found")

// LevelChain is a minimal goleveldb-backed projection of the block index:
// just enough to answer PrevIndex/IsSerialConfirmed/IsPubcoinConfirmed.
// Full chain persistence (reorg handling, undo data, full validation
// state) is out of scope per spec.md's Non-goals; the rest of the Chain
// interface's write path is the consensus collaborator's responsibility,
// exercised only through tests here.
type LevelChain struct {
	mu  sync.Mutex
	db  *leveldb.DB
	tip *Index
}

// OpenLevelChain opens (or creates) a goleveldb store at dir.
func OpenLevelChain(dir string) (*LevelChain, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrap(err, "opening chain index store")
	}
	return &LevelChain{db: db}, nil
}

func (c *LevelChain) Close() error {
	return c.db.Close()
}

func (c *LevelChain) Lock()   { c.mu.Lock() }
func (c *LevelChain) Unlock() { c.mu.Unlock() }

// SetTip installs the current tip, normally called by the consensus
// collaborator after accepting a new block.
func (c *LevelChain) SetTip(idx *Index) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tip = idx
	return c.putIndex(idx)
}

func (c *LevelChain) Tip() *Index {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tip
}

func (c *LevelChain) putIndex(idx *Index) error {
	key := append([]byte("idx:"), idx.Hash[:]...)
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(idx.NetworkReserve))
	return c.db.Put(key, buf, nil)
}

func (c *LevelChain) PrevIndex(h util.Hash) (*Index, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := append([]byte("idx:"), h[:]...)
	val, err := c.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, ErrIndexNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading prev index")
	}
	// The height/time fields the assembler needs beyond the reserve
	// amount are carried by the consensus collaborator via richer
	// in-memory index records in production; this store only persists
	// the reserve amount used by §4.3 step 7.
	return &Index{Hash: h, NetworkReserve: util.Amount(binary.LittleEndian.Uint32(val))}, nil
}

func serialKey(serial util.Hash) []byte {
	return append([]byte("serial:"), serial[:]...)
}

func pubcoinKey(pubcoin util.Hash) []byte {
	return append([]byte("pubcoin:"), pubcoin[:]...)
}

// RecordSerial marks a zero-knowledge serial as confirmed at height,
// called by the consensus collaborator when a spend tx connects.
func (c *LevelChain) RecordSerial(serial util.Hash, height int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(height))
	return c.db.Put(serialKey(serial), buf, nil)
}

// RecordPubcoin marks a zero-knowledge pubcoin as confirmed at height.
func (c *LevelChain) RecordPubcoin(pubcoin util.Hash, height int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(height))
	return c.db.Put(pubcoinKey(pubcoin), buf, nil)
}

func (c *LevelChain) IsSerialConfirmed(serial util.Hash) (bool, int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, err := c.db.Get(serialKey(serial), nil)
	if err != nil {
		return false, 0
	}
	return true, int32(binary.LittleEndian.Uint32(val))
}

func (c *LevelChain) IsPubcoinConfirmed(pubcoin util.Hash) (bool, int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, err := c.db.Get(pubcoinKey(pubcoin), nil)
	if err != nil {
		return false, 0
	}
	return true, int32(binary.LittleEndian.Uint32(val))
}
