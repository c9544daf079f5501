// Package mirror keeps a local copy of a KeyVault account log in LevelDB.
//
// Entries are stored under the same keys the contract uses for them, so
// mirrored records can be matched with the contract storage items by key.
// Values are encoded differently: the mirror writes IV and ciphertext as two
// var-length byte strings instead of the serialized stack item kept on chain.
package mirror

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/nspcc-dev/keyvault-contract/client"
	"github.com/nspcc-dev/keyvault-contract/rpc/keyvault"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/syndtr/goleveldb/leveldb"
	ldbutil "github.com/syndtr/goleveldb/leveldb/util"
	"go.uber.org/zap"
)

const (
	countPrefix = 'n'
	entryPrefix = keyvault.EntryPrefix
)

// DefaultPageSize is the number of entries requested from Source at once.
const DefaultPageSize = 64

// ErrNotFound is returned for entries missing in the mirror.
var ErrNotFound = errors.New("entry not found")

// Source provides the remote account log. It is implemented by
// [client.Client].
type Source interface {
	Count() (uint32, error)
	Range(start, maxCount uint32) ([]client.Entry, error)
}

// SyncResult describes changes made by a single Sync.
type SyncResult struct {
	// Number of entries fetched from the source.
	Added int
	// True if the remote log was reset and the local copy was discarded.
	Reset bool
}

// Mirror is a local copy of a single account log.
type Mirror struct {
	db       *leveldb.DB
	account  util.Uint160
	log      *zap.Logger
	pageSize uint32

	mtx sync.Mutex
}

// Option configures Mirror.
type Option func(*Mirror)

// WithLogger sets the logger, zap.NewNop() is used by default.
func WithLogger(log *zap.Logger) Option {
	return func(m *Mirror) {
		m.log = log
	}
}

// WithPageSize sets the number of entries requested from Source at once.
func WithPageSize(n uint32) Option {
	return func(m *Mirror) {
		if n > 0 {
			m.pageSize = n
		}
	}
}

// Open opens (or creates) the mirror of the account log at path.
func Open(path string, account util.Uint160, opts ...Option) (*Mirror, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb mirror: %w", err)
	}

	m := &Mirror{
		db:       db,
		account:  account,
		log:      zap.NewNop(),
		pageSize: DefaultPageSize,
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// Close releases the underlying LevelDB resources.
func (m *Mirror) Close() error {
	return m.db.Close()
}

// Count returns the number of mirrored entries.
func (m *Mirror) Count() (uint32, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.count()
}

func (m *Mirror) count() (uint32, error) {
	v, err := m.db.Get(m.countKey(), nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("load entry count: %w", err)
	case len(v) != 4:
		return 0, fmt.Errorf("invalid entry count length %d", len(v))
	}
	return binary.LittleEndian.Uint32(v), nil
}

// Get returns the mirrored entry with the given index.
func (m *Mirror) Get(index uint32) (client.Entry, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	count, err := m.count()
	if err != nil {
		return client.Entry{}, err
	}
	if index >= count {
		return client.Entry{}, fmt.Errorf("%w: index %d, count %d", ErrNotFound, index, count)
	}
	return m.get(index)
}

func (m *Mirror) get(index uint32) (client.Entry, error) {
	v, err := m.db.Get(m.entryKey(index), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return client.Entry{}, fmt.Errorf("%w: index %d", ErrNotFound, index)
	}
	if err != nil {
		return client.Entry{}, fmt.Errorf("load entry %d: %w", index, err)
	}
	return decodeEntry(v)
}

// Entries returns all mirrored entries.
func (m *Mirror) Entries() ([]client.Entry, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	count, err := m.count()
	if err != nil {
		return nil, err
	}

	res := make([]client.Entry, count)
	for i := range res {
		res[i], err = m.get(uint32(i))
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Sync fetches entries appended to the remote log since the last Sync. If
// the remote log was reset, the local copy is discarded and fetched again.
func (m *Mirror) Sync(ctx context.Context, src Source) (SyncResult, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	var res SyncResult

	local, err := m.count()
	if err != nil {
		return res, err
	}
	remote, err := src.Count()
	if err != nil {
		return res, fmt.Errorf("get remote entry count: %w", err)
	}

	reset, err := m.diverged(src, local, remote)
	if err != nil {
		return res, err
	}
	if reset {
		m.log.Info("remote log was reset, discarding local copy",
			zap.Stringer("account", m.account), zap.Uint32("local", local), zap.Uint32("remote", remote))
		if err := m.discard(); err != nil {
			return res, err
		}
		res.Reset = true
		local = 0
	}

	for local < remote {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		page, err := src.Range(local, m.pageSize)
		if err != nil {
			return res, fmt.Errorf("get remote entries from %d: %w", local, err)
		}
		if len(page) == 0 {
			return res, fmt.Errorf("remote returned no entries from %d of %d", local, remote)
		}

		if err := m.store(local, page); err != nil {
			return res, err
		}
		local += uint32(len(page))
		res.Added += len(page)
	}

	m.log.Debug("account log synchronized",
		zap.Stringer("account", m.account), zap.Uint32("count", local), zap.Int("added", res.Added))
	return res, nil
}

// diverged reports whether the local copy is no longer a prefix of the remote
// log. Only the trailing page of local entries is compared with the remote
// ones, so a reset refilled with identical entries in this window but
// different ones before it goes unnoticed. Whole log comparison would cost
// the full download on every Sync.
func (m *Mirror) diverged(src Source, local, remote uint32) (bool, error) {
	if local == 0 {
		return false, nil
	}
	if remote < local {
		return true, nil
	}

	n := min(local, m.pageSize)
	start := local - n

	page, err := src.Range(start, n)
	if err != nil {
		return false, fmt.Errorf("get remote entries from %d: %w", start, err)
	}
	if uint32(len(page)) != n {
		return true, nil
	}

	for i := range page {
		e, err := m.get(start + uint32(i))
		if err != nil {
			return false, err
		}
		if !bytes.Equal(e.IV, page[i].IV) || !bytes.Equal(e.Ciphertext, page[i].Ciphertext) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Mirror) store(start uint32, es []client.Entry) error {
	var b leveldb.Batch
	for i := range es {
		v, err := encodeEntry(es[i])
		if err != nil {
			return err
		}
		b.Put(m.entryKey(start+uint32(i)), v)
	}
	b.Put(m.countKey(), countBytes(start+uint32(len(es))))

	if err := m.db.Write(&b, nil); err != nil {
		return fmt.Errorf("store entries from %d: %w", start, err)
	}
	return nil
}

func (m *Mirror) discard() error {
	var b leveldb.Batch

	prefix := append([]byte{entryPrefix}, m.account.BytesBE()...)
	it := m.db.NewIterator(ldbutil.BytesPrefix(prefix), nil)
	for it.Next() {
		b.Delete(bytes.Clone(it.Key()))
	}
	it.Release()
	if err := it.Error(); err != nil {
		return fmt.Errorf("iterate mirrored entries: %w", err)
	}
	b.Put(m.countKey(), countBytes(0))

	if err := m.db.Write(&b, nil); err != nil {
		return fmt.Errorf("discard mirrored entries: %w", err)
	}
	return nil
}

func (m *Mirror) countKey() []byte {
	return append([]byte{countPrefix}, m.account.BytesBE()...)
}

func (m *Mirror) entryKey(index uint32) []byte {
	return keyvault.StorageKey(m.account, index)
}

func countBytes(n uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, n)
	return b
}

func encodeEntry(e client.Entry) ([]byte, error) {
	w := io.NewBufBinWriter()
	w.WriteVarBytes(e.IV)
	w.WriteVarBytes(e.Ciphertext)
	if w.Err != nil {
		return nil, fmt.Errorf("encode entry: %w", w.Err)
	}
	return w.Bytes(), nil
}

func decodeEntry(data []byte) (client.Entry, error) {
	r := io.NewBinReaderFromBuf(data)

	var e client.Entry
	e.IV = r.ReadVarBytes()
	e.Ciphertext = r.ReadVarBytes()
	if r.Err != nil {
		return client.Entry{}, fmt.Errorf("decode entry: %w", r.Err)
	}
	return e, nil
}
