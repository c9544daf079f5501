package dump

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nspcc-dev/keyvault-contract/client"
)

// IterateDumps iterates over all account logs collected by the Creator model
// in the specified directory, and passes ID and Reader of each dump into f.
// Iteration stops at the first error returned by f.
func IterateDumps(dir string, f func(ID, *Reader) error) error {
	var id ID
	var r Reader
	var streams dumpStreams

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, e error) error {
		if errors.Is(e, fs.ErrNotExist) {
			return nil
		}
		if e != nil {
			return e
		}

		if d.IsDir() {
			if path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()

		if !strings.HasSuffix(name, infoFileSuffix) {
			return nil
		}

		err := id.decodeString(name)
		if err != nil {
			return fmt.Errorf("decode dump ID from file name '%s': %w", d.Name(), err)
		}

		err = initDumpStreams(&streams, dir, id, true)
		if err != nil {
			return fmt.Errorf("init dump streams ('%s'): %w", name, err)
		}

		err = r.fromDumpStreams(streams.info, streams.entries)
		streams.close()
		if err != nil {
			return fmt.Errorf("init dump reader ('%s'): %w", name, err)
		}

		return f(id, &r)
	})
}

// Reader reads the account log collected in the superior dump.
type Reader struct {
	info    AccountInfo
	entries []client.Entry
}

func (x *Reader) fromDumpStreams(rInfo, rEntries io.Reader) error {
	x.info = AccountInfo{}
	err := json.NewDecoder(rInfo).Decode(&x.info)
	if err != nil {
		return fmt.Errorf("decode account info from JSON: %w", err)
	}

	var rec []string

	_csv := csv.NewReader(rEntries)
	_csv.FieldsPerRecord = 3
	_csv.ReuseRecord = true

	x.entries = make([]client.Entry, 0, x.info.Count)

	for {
		rec, err = _csv.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read next CSV record: %w", err)
		}

		// out-of-range safety guaranteed by csv settings
		index, err := strconv.ParseUint(rec[0], 10, 32)
		if err != nil {
			return fmt.Errorf("decode entry index: %w", err)
		}
		if index != uint64(len(x.entries)) {
			return fmt.Errorf("unexpected entry index %d, expected %d", index, len(x.entries))
		}

		var e client.Entry

		e.IV, err = _encoding.DecodeString(rec[1])
		if err != nil {
			return fmt.Errorf("decode entry IV: %w", err)
		}

		e.Ciphertext, err = _encoding.DecodeString(rec[2])
		if err != nil {
			return fmt.Errorf("decode entry ciphertext: %w", err)
		}

		x.entries = append(x.entries, e)
	}

	if uint32(len(x.entries)) != x.info.Count {
		return fmt.Errorf("%d entries found, %d expected", len(x.entries), x.info.Count)
	}
	return nil
}

// Info returns information about the dumped account.
func (x *Reader) Info() AccountInfo {
	return x.info
}

// Entries returns dumped entries in the log order.
func (x *Reader) Entries() []client.Entry {
	return x.entries
}

// IterateEntries passes dumped entries into f in the log order.
func (x *Reader) IterateEntries(f func(index uint32, e client.Entry)) {
	for i := range x.entries {
		f(uint32(i), x.entries[i])
	}
}
