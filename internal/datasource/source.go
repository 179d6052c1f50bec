// Package datasource resolves and loads technology stacks from their
// on-disk forms: JSON stack files and SQLite databases. Callers get a
// flat item list either way; format detection is by content, not just
// extension, so a renamed database still loads.
package datasource

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies the storage format of a data source.
type Kind int

const (
	KindUnknown Kind = iota
	KindJSON
	KindSQLite
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindSQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// sqliteMagic is the first 16 bytes of every SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// Detect classifies a data source file. The content check wins over
// the extension; extension is the tiebreak for files too short to
// carry the magic.
func Detect(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	header := make([]byte, len(sqliteMagic))
	n, _ := f.Read(header)
	if n >= len(sqliteMagic) && bytes.Equal(header[:len(sqliteMagic)], sqliteMagic) {
		return KindSQLite, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite, nil
	case ".json":
		return KindJSON, nil
	}

	// A JSON document starts with whitespace, '{' or '['.
	for _, b := range header[:n] {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{', '[':
			return KindJSON, nil
		default:
			return KindUnknown, fmt.Errorf("unrecognized data source format: %s", path)
		}
	}
	return KindUnknown, fmt.Errorf("unrecognized data source format: %s", path)
}

// DefaultStackFile is the conventional stack file name looked up when
// no path is given on the command line.
const DefaultStackFile = "orbital.json"

// Resolve picks the data source path: an explicit path wins, otherwise
// DefaultStackFile in the working directory.
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("data source %s: %w", explicit, err)
		}
		return explicit, nil
	}
	if _, err := os.Stat(DefaultStackFile); err == nil {
		return DefaultStackFile, nil
	}
	return "", fmt.Errorf("no data source: pass a stack file or create %s", DefaultStackFile)
}
