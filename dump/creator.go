package dump

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nspcc-dev/keyvault-contract/client"
)

// Creator dumps the log of a KeyVault account. Output file format:
//
//	'<label>-<account>-account.json': JSON-encoded AccountInfo
//	'<label>-<account>-entries.csv': CSV of the log entries
//
// Entries CSV are 'index,iv,ciphertext' where binary values are
// base64-encoded.
//
// Use IterateDumps to access existing dumps.
type Creator struct {
	dumpStreams

	info AccountInfo
	next uint32

	entriesCSV *csv.Writer
}

// NewCreator returns Creator which dumps the account log into given
// directory. The dump is identified by specified ID. Resulting Creator should
// be closed when finished working with it.
//
// NewCreator fails if dump with provided ID already exists.
func NewCreator(dir string, id ID, info AccountInfo) (*Creator, error) {
	res := Creator{info: info}

	err := initDumpStreams(&res.dumpStreams, dir, id, false)
	if err != nil {
		return nil, err
	}

	res.entriesCSV = csv.NewWriter(res.dumpStreams.entries)

	return &res, nil
}

// Write saves the next entry of the log. Entries must be written in the log
// order.
func (x *Creator) Write(e client.Entry) error {
	err := x.entriesCSV.Write([]string{
		strconv.FormatUint(uint64(x.next), 10),
		_encoding.EncodeToString(e.IV),
		_encoding.EncodeToString(e.Ciphertext),
	})
	if err != nil {
		return fmt.Errorf("write entry as CSV data: %w", err)
	}

	x.next++

	return nil
}

// Flush flushes accumulated dump to the file system. The number of written
// entries must match AccountInfo.Count.
func (x *Creator) Flush() error {
	if x.next != x.info.Count {
		return fmt.Errorf("%d entries written, %d expected", x.next, x.info.Count)
	}

	jEnc := json.NewEncoder(x.dumpStreams.info)
	jEnc.SetIndent("", " ")

	err := jEnc.Encode(x.info)
	if err != nil {
		return fmt.Errorf("encode account info to JSON: %w", err)
	}

	x.entriesCSV.Flush()

	err = x.entriesCSV.Error()
	if err != nil {
		return fmt.Errorf("flush CSV data: %w", err)
	}

	return nil
}

// Close releases underlying resources of the Creator and makes it unusable.
func (x *Creator) Close() {
	x.close()
}
