// Package backup reads and writes whole-namespace snapshots. A backup file
// is a single JSON object mapping namespaced keys to their stored values,
// so a restore is byte-faithful to what was exported.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/tech-hub161/samity/internal/store"
)

// Summary describes what a backup or restore touched.
type Summary struct {
	Keys       int
	Dates      int
	LatestDate string // most recent ledger date, "" when none
}

// Export writes every namespaced key as one indented JSON object.
func Export(st *store.Store, w io.Writer) (Summary, error) {
	data, err := st.ExportAll()
	if err != nil {
		return Summary{}, err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return Summary{}, fmt.Errorf("encoding backup: %w", err)
	}
	return summarize(st, data), nil
}

// ExportFile writes a backup to path, creating or truncating it.
func ExportFile(st *store.Store, path string) (Summary, error) {
	f, err := os.Create(path)
	if err != nil {
		return Summary{}, fmt.Errorf("creating backup file: %w", err)
	}
	sum, err := Export(st, f)
	if err != nil {
		f.Close()
		return Summary{}, err
	}
	return sum, f.Close()
}

// Restore replaces the store's namespace with the backup's contents and
// reports what was restored. Keys outside the namespace are ignored.
func Restore(st *store.Store, r io.Reader) (Summary, error) {
	var data map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return Summary{}, fmt.Errorf("parsing backup: %w", err)
	}
	if err := st.ImportAll(data); err != nil {
		return Summary{}, err
	}
	return summarize(st, data), nil
}

// RestoreFile restores a backup from path.
func RestoreFile(st *store.Store, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("opening backup file: %w", err)
	}
	defer f.Close()
	return Restore(st, f)
}

func summarize(st *store.Store, data map[string]json.RawMessage) Summary {
	sum := Summary{}
	dataPrefix := st.Prefix() + "data-"
	var dates []string
	for k := range data {
		if !strings.HasPrefix(k, st.Prefix()) {
			continue
		}
		sum.Keys++
		if strings.HasPrefix(k, dataPrefix) {
			dates = append(dates, strings.TrimPrefix(k, dataPrefix))
		}
	}
	sum.Dates = len(dates)
	if len(dates) > 0 {
		sort.Strings(dates)
		sum.LatestDate = dates[len(dates)-1]
	}
	return sum
}
