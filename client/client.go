// Package client provides a KeyVault account client which retries appends
// rejected because of concurrent writers.
package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/nspcc-dev/keyvault-contract/rpc/keyvault"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// DefaultMaxAttempts is the number of append attempts made by Client if
// Prm.MaxAttempts is not set.
const DefaultMaxAttempts = 5

// DefaultPageSize is the number of entries requested at once if
// Prm.PageSize is not set.
const DefaultPageSize = 64

// ErrTooManyConflicts is returned when every append attempt lost the race to
// another writer.
var ErrTooManyConflicts = errors.New("too many index conflicts")

// Entry is a single encrypted record of the account log.
type Entry struct {
	IV         []byte
	Ciphertext []byte
}

// Ledger is a KeyVault contract interface used by Client. It is implemented
// by [keyvault.Contract].
type Ledger interface {
	IsRegistered(account util.Uint160) (bool, error)
	EntryCount(account util.Uint160) (*big.Int, error)
	Entry(account util.Uint160, index *big.Int) (*keyvault.KeyvaultEncryptedEntry, error)
	Entries(account util.Uint160, start *big.Int, maxCount *big.Int) ([]*keyvault.KeyvaultEncryptedEntry, error)
	AddEntries(account util.Uint160, expectedIndex *big.Int, entries []*keyvault.KeyvaultEncryptedEntry) (util.Uint256, uint32, error)
	ResetAccount(account util.Uint160) (util.Uint256, uint32, error)
}

// Waiter waits for the sent transaction to be persisted. It is implemented
// by [actor.Actor].
type Waiter interface {
	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

// Prm groups Client parameters.
type Prm struct {
	// Contract bindings, required.
	Ledger Ledger

	// Waits for transactions, required.
	Waiter Waiter

	// Account the log belongs to, transactions must be signed by it.
	Account util.Uint160

	// Optional, zap.NewNop() is used if not set.
	Logger *zap.Logger

	// Optional, unregistered metrics are used if not set.
	Metrics *Metrics

	MaxAttempts int
	PageSize    int
}

// Client works with the log of a single account.
type Client struct {
	ledger      Ledger
	waiter      Waiter
	account     util.Uint160
	log         *zap.Logger
	metrics     *Metrics
	maxAttempts int
	pageSize    int

	// serializes count reading and submission of this process appends
	mtx sync.Mutex
}

// New creates Client from the given parameters.
func New(prm Prm) (*Client, error) {
	switch {
	case prm.Ledger == nil:
		return nil, errors.New("missing ledger")
	case prm.Waiter == nil:
		return nil, errors.New("missing waiter")
	case prm.MaxAttempts < 0:
		return nil, fmt.Errorf("invalid number of attempts %d", prm.MaxAttempts)
	case prm.PageSize < 0:
		return nil, fmt.Errorf("invalid page size %d", prm.PageSize)
	}

	c := &Client{
		ledger:      prm.Ledger,
		waiter:      prm.Waiter,
		account:     prm.Account,
		log:         prm.Logger,
		metrics:     prm.Metrics,
		maxAttempts: prm.MaxAttempts,
		pageSize:    prm.PageSize,
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
	}
	if c.maxAttempts == 0 {
		c.maxAttempts = DefaultMaxAttempts
	}
	if c.pageSize == 0 {
		c.pageSize = DefaultPageSize
	}
	return c, nil
}

// Account returns the account the client works with.
func (c *Client) Account() util.Uint160 {
	return c.account
}

// Registered checks whether the account has been created.
func (c *Client) Registered() (bool, error) {
	ok, err := c.ledger.IsRegistered(c.account)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return ok, nil
}

// Count returns the number of entries in the account log.
func (c *Client) Count() (uint32, error) {
	n, err := c.ledger.EntryCount(c.account)
	if err != nil {
		return 0, fmt.Errorf("get entry count: %w", keyvault.ParseError(err))
	}
	if !n.IsUint64() || n.Uint64() > keyvault.MaxEntries {
		return 0, fmt.Errorf("invalid entry count %s", n)
	}
	return uint32(n.Uint64()), nil
}

// Get returns the entry with the given index.
func (c *Client) Get(index uint32) (Entry, error) {
	e, err := c.ledger.Entry(c.account, new(big.Int).SetUint64(uint64(index)))
	if err != nil {
		return Entry{}, fmt.Errorf("get entry %d: %w", index, keyvault.ParseError(err))
	}
	return Entry{IV: e.IV, Ciphertext: e.Ciphertext}, nil
}

// Range returns at most maxCount entries starting from start.
func (c *Client) Range(start, maxCount uint32) ([]Entry, error) {
	es, err := c.ledger.Entries(c.account,
		new(big.Int).SetUint64(uint64(start)), new(big.Int).SetUint64(uint64(maxCount)))
	if err != nil {
		return nil, fmt.Errorf("get entries from %d: %w", start, keyvault.ParseError(err))
	}

	res := make([]Entry, len(es))
	for i := range es {
		res[i] = Entry{IV: es[i].IV, Ciphertext: es[i].Ciphertext}
	}
	return res, nil
}

// All reads the whole account log page by page. An empty log gives no
// entries.
func (c *Client) All(ctx context.Context) ([]Entry, error) {
	count, err := c.Count()
	if err != nil {
		return nil, err
	}

	res := make([]Entry, 0, count)
	for uint32(len(res)) < count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := c.Range(uint32(len(res)), uint32(c.pageSize))
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		res = append(res, page...)
	}
	return res, nil
}

// Append adds entry to the end of the account log and returns its index.
func (c *Client) Append(ctx context.Context, e Entry) (uint32, error) {
	return c.AppendBatch(ctx, []Entry{e})
}

// AppendBatch adds entries to the end of the account log as a single
// transaction and returns the index of the first one. If another writer
// appends first, the count is re-read and the batch is resent to the new
// end of the log, up to the configured number of attempts.
func (c *Client) AppendBatch(ctx context.Context, es []Entry) (uint32, error) {
	if len(es) == 0 {
		return 0, keyvault.ErrEmptyBatch
	}

	batch := toBatch(es)

	c.mtx.Lock()
	defer c.mtx.Unlock()

	var (
		index   uint32
		err     error
		attempt int
	)
	for attempt = 1; attempt <= c.maxAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			break
		}

		index, err = c.tryAppend(batch)
		if err == nil || !errors.Is(err, keyvault.ErrIndexMismatch) {
			break
		}

		c.metrics.observeConflict()
		c.log.Debug("entry index is outdated, retrying",
			zap.Stringer("account", c.account), zap.Uint32("index", index), zap.Int("attempt", attempt))
	}
	if attempt > c.maxAttempts {
		attempt = c.maxAttempts
		err = fmt.Errorf("%w: %d attempts: %w", ErrTooManyConflicts, attempt, err)
	}

	c.metrics.observeAppend(err, attempt)
	if err != nil {
		return 0, err
	}

	c.log.Info("entries appended",
		zap.Stringer("account", c.account), zap.Uint32("index", index), zap.Int("number", len(es)))
	return index, nil
}

// AppendAt adds entries to the account log only if it currently has exactly
// index entries. Unlike AppendBatch it never retries: if another writer has
// appended first, [keyvault.ErrIndexMismatch] is returned and the log is left
// untouched by this call.
func (c *Client) AppendAt(ctx context.Context, index uint32, es []Entry) error {
	if len(es) == 0 {
		return keyvault.ErrEmptyBatch
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if uint64(index)+uint64(len(es)) > keyvault.MaxEntries {
		return keyvault.ErrEntryLimit
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	err := c.await(c.ledger.AddEntries(c.account, new(big.Int).SetUint64(uint64(index)), toBatch(es)))
	if errors.Is(err, keyvault.ErrIndexMismatch) {
		c.metrics.observeConflict()
	}
	c.metrics.observeAppend(err, 1)
	if err != nil {
		return fmt.Errorf("append at %d: %w", index, err)
	}

	c.log.Info("entries appended",
		zap.Stringer("account", c.account), zap.Uint32("index", index), zap.Int("number", len(es)))
	return nil
}

func toBatch(es []Entry) []*keyvault.KeyvaultEncryptedEntry {
	batch := make([]*keyvault.KeyvaultEncryptedEntry, len(es))
	for i := range es {
		batch[i] = &keyvault.KeyvaultEncryptedEntry{IV: es[i].IV, Ciphertext: es[i].Ciphertext}
	}
	return batch
}

func (c *Client) tryAppend(batch []*keyvault.KeyvaultEncryptedEntry) (uint32, error) {
	count, err := c.Count()
	if err != nil {
		return 0, err
	}
	if uint64(count)+uint64(len(batch)) > keyvault.MaxEntries {
		return count, keyvault.ErrEntryLimit
	}

	err = c.await(c.ledger.AddEntries(c.account, new(big.Int).SetUint64(uint64(count)), batch))
	if err != nil {
		return count, fmt.Errorf("append at %d: %w", count, err)
	}
	return count, nil
}

// Reset discards all entries of the account log.
func (c *Client) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := c.await(c.ledger.ResetAccount(c.account)); err != nil {
		return fmt.Errorf("reset account: %w", err)
	}

	c.log.Info("account log reset", zap.Stringer("account", c.account))
	return nil
}

func (c *Client) await(h util.Uint256, vub uint32, err error) error {
	res, err := c.waiter.Wait(h, vub, err)
	if err != nil {
		return keyvault.ParseError(err)
	}
	return keyvault.CheckExecResult(res)
}
