package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// FileKV keeps the whole namespace as one JSON object on disk, the same shape
// as a backup file. Every mutation rewrites the file through a temp file and
// rename, so a failed write leaves the previous contents intact.
type FileKV struct {
	path string
	data map[string]json.RawMessage
	log  zerolog.Logger
}

// OpenFile loads (or starts) a file-backed store at path. An unreadable file
// is logged and treated as empty rather than aborting the session.
func OpenFile(path string, log zerolog.Logger) (*FileKV, error) {
	kv := &FileKV{path: path, data: make(map[string]json.RawMessage), log: log}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return kv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store file: %w", err)
	}

	if err := json.Unmarshal(raw, &kv.data); err != nil {
		log.Warn().Str("path", path).Err(err).Msg("store file is malformed, starting empty")
		kv.data = make(map[string]json.RawMessage)
	}
	return kv, nil
}

// Get returns the stored value for key.
func (kv *FileKV) Get(key string) ([]byte, bool, error) {
	v, ok := kv.data[key]
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

// Set stores value under key and persists the namespace.
func (kv *FileKV) Set(key string, value []byte) error {
	prev, had := kv.data[key]
	kv.data[key] = json.RawMessage(value)
	if err := kv.persist(); err != nil {
		if had {
			kv.data[key] = prev
		} else {
			delete(kv.data, key)
		}
		return err
	}
	return nil
}

// Delete removes key and persists the namespace. Deleting a missing key is a
// no-op.
func (kv *FileKV) Delete(key string) error {
	prev, had := kv.data[key]
	if !had {
		return nil
	}
	delete(kv.data, key)
	if err := kv.persist(); err != nil {
		kv.data[key] = prev
		return err
	}
	return nil
}

// Keys returns all keys with the given prefix, ascending.
func (kv *FileKV) Keys(prefix string) ([]string, error) {
	var keys []string
	for k := range kv.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (kv *FileKV) persist() error {
	if err := os.MkdirAll(filepath.Dir(kv.path), 0o755); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}

	raw, err := json.MarshalIndent(kv.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(kv.path), ".samity-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp store file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing store file: %w", err)
	}

	if err := os.Rename(tmpName, kv.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing store file: %w", err)
	}
	return nil
}
