package dump

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// ID is a unique identifier of the dump prepared according to the model
// described in the current package.
type ID struct {
	// Label of the dump source (e.g. testnet, mainnet). Must not contain
	// hyphens.
	Label string
	// Account the log belongs to.
	Account util.Uint160
}

// String returns hyphen-separated ID fields. Account is base58-encoded.
func (x ID) String() string {
	return x.Label + sep + base58.Encode(x.Account.BytesBE())
}

// decodes ID fields from the hyphen-separated string.
func (x *ID) decodeString(s string) error {
	ss := strings.Split(s, sep)
	if len(ss) < 2 {
		return fmt.Errorf("expected '%s'-separated string with at least 2 items", sep)
	}

	b, err := base58.Decode(ss[1])
	if err != nil {
		return fmt.Errorf("decode account from '%s': %w", ss[1], err)
	}

	x.Account, err = util.Uint160DecodeBytesBE(b)
	if err != nil {
		return fmt.Errorf("decode account from '%s': %w", ss[1], err)
	}
	x.Label = ss[0]

	return nil
}

// global encoding of binary values.
var _encoding = base64.StdEncoding

// AccountInfo is a JSON-encoded information about the dumped account.
type AccountInfo struct {
	// Contract the log was read from.
	Contract util.Uint160 `json:"contract"`
	// Blockchain height at which the log was read.
	Block uint32 `json:"block"`
	// Number of entries in the log.
	Count uint32 `json:"count"`
	// Key hash stored at account creation, if any.
	KeyHash []byte `json:"keyHash,omitempty"`
}

// dumpStreams groups data streams for account info and entries.
type dumpStreams struct {
	info, entries io.ReadWriteCloser
}

// close closes all streams.
func (x *dumpStreams) close() {
	_ = x.entries.Close()
	_ = x.info.Close()
}

const (
	// word separator used in dump file naming
	sep = "-"
	// suffix of file with account info
	infoFileSuffix = "account.json"
	// suffix of file with entries
	entriesFileSuffix = "entries.csv"
)

// initDumpStreams opens data streams for the dump files located in the
// specified directory. If read flag is set, streams are read-only. Otherwise,
// files must not exist, and streams are write only.
func initDumpStreams(d *dumpStreams, dir string, id ID, read bool) error {
	var err error

	pathEntries := filepath.Join(dir, strings.Join([]string{id.String(), entriesFileSuffix}, sep))
	pathInfo := filepath.Join(dir, strings.Join([]string{id.String(), infoFileSuffix}, sep))

	var flag int
	var perm os.FileMode

	if read {
		flag = os.O_RDONLY
	} else {
		// account dump is never overwritten, even partially
		for _, p := range []string{pathEntries, pathInfo} {
			if _, err = os.Stat(p); !errors.Is(err, os.ErrNotExist) {
				if err == nil {
					err = os.ErrExist
				}
				return fmt.Errorf("dump %s: file '%s' is in the way: %w", id, filepath.Base(p), err)
			}
		}
		flag = os.O_CREATE | os.O_EXCL | os.O_WRONLY
		perm = 0600
	}

	d.entries, err = os.OpenFile(pathEntries, flag, perm)
	if err != nil {
		return fmt.Errorf("open file with entries: %w", err)
	}

	d.info, err = os.OpenFile(pathInfo, flag, perm)
	if err != nil {
		_ = d.entries.Close()
		return fmt.Errorf("open file with account info: %w", err)
	}

	return nil
}
