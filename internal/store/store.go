package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tech-hub161/samity/internal/model"
)

// Store is the typed adapter the engine talks to. Ledgers live under
// "<namespace>-data-<date>" and expense entries under
// "<namespace>-expense-<date>". A missing date reads as empty; a malformed
// stored value is logged and also reads as empty so one bad key cannot take
// down the session.
type Store struct {
	kv        KV
	namespace string
	log       zerolog.Logger
}

// DefaultNamespace is the key prefix used unless configured otherwise.
const DefaultNamespace = "samity"

// New wraps a KV backend in the ledger namespace.
func New(kv KV, namespace string, log zerolog.Logger) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Store{kv: kv, namespace: namespace, log: log}
}

func (s *Store) dataKey(date string) string {
	return s.namespace + "-data-" + date
}

func (s *Store) expenseKey(date string) string {
	return s.namespace + "-expense-" + date
}

// Prefix returns the namespace prefix shared by every key this store owns.
func (s *Store) Prefix() string {
	return s.namespace + "-"
}

// Ledger returns the saved records for a date, or nil if none are stored.
func (s *Store) Ledger(date string) ([]model.MemberRecord, error) {
	raw, ok, err := s.kv.Get(s.dataKey(date))
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", date, err)
	}
	if !ok {
		return nil, nil
	}

	var records []model.MemberRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		s.log.Warn().Str("date", date).Err(err).Msg("stored ledger is malformed, treating as empty")
		return nil, nil
	}
	return records, nil
}

// SetLedger overwrites the records stored under a date. An empty slice
// removes the date key instead of keeping an empty ledger around.
func (s *Store) SetLedger(date string, records []model.MemberRecord) error {
	if len(records) == 0 {
		return s.DeleteLedger(date)
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshaling ledger %s: %w", date, err)
	}
	if err := s.kv.Set(s.dataKey(date), raw); err != nil {
		return fmt.Errorf("writing ledger %s: %w", date, err)
	}
	return nil
}

// DeleteLedger removes one date's ledger.
func (s *Store) DeleteLedger(date string) error {
	if err := s.kv.Delete(s.dataKey(date)); err != nil {
		return fmt.Errorf("deleting ledger %s: %w", date, err)
	}
	return nil
}

// Dates returns every stored ledger date, ascending.
func (s *Store) Dates() ([]string, error) {
	prefix := s.dataKey("")
	keys, err := s.kv.Keys(prefix)
	if err != nil {
		return nil, fmt.Errorf("listing ledger dates: %w", err)
	}

	dates := make([]string, 0, len(keys))
	for _, k := range keys {
		dates = append(dates, strings.TrimPrefix(k, prefix))
	}
	return dates, nil
}

// Expense returns the expense entry for a date, or nil if none is stored.
func (s *Store) Expense(date string) (*model.ExpenseEntry, error) {
	raw, ok, err := s.kv.Get(s.expenseKey(date))
	if err != nil {
		return nil, fmt.Errorf("reading expense %s: %w", date, err)
	}
	if !ok {
		return nil, nil
	}

	var entry model.ExpenseEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		s.log.Warn().Str("date", date).Err(err).Msg("stored expense is malformed, treating as empty")
		return nil, nil
	}
	return &entry, nil
}

// SetExpense overwrites the expense entry stored under a date.
func (s *Store) SetExpense(date string, entry model.ExpenseEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling expense %s: %w", date, err)
	}
	if err := s.kv.Set(s.expenseKey(date), raw); err != nil {
		return fmt.Errorf("writing expense %s: %w", date, err)
	}
	return nil
}

// DeleteExpense removes one date's expense entry.
func (s *Store) DeleteExpense(date string) error {
	if err := s.kv.Delete(s.expenseKey(date)); err != nil {
		return fmt.Errorf("deleting expense %s: %w", date, err)
	}
	return nil
}

// ExportAll returns every namespaced key and its raw value, the backup
// format.
func (s *Store) ExportAll() (map[string]json.RawMessage, error) {
	keys, err := s.kv.Keys(s.Prefix())
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}

	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		raw, ok, err := s.kv.Get(k)
		if err != nil {
			return nil, fmt.Errorf("reading key %q: %w", k, err)
		}
		if ok {
			out[k] = json.RawMessage(raw)
		}
	}
	return out, nil
}

// ImportAll replaces the whole namespace with the given keys. Keys outside
// the namespace are skipped, so a restore never adopts foreign keys.
func (s *Store) ImportAll(data map[string]json.RawMessage) error {
	if err := s.ClearAll(); err != nil {
		return err
	}
	for k, v := range data {
		if !strings.HasPrefix(k, s.Prefix()) {
			continue
		}
		if err := s.kv.Set(k, v); err != nil {
			return fmt.Errorf("restoring key %q: %w", k, err)
		}
	}
	return nil
}

// ClearAll deletes every key in the namespace.
func (s *Store) ClearAll() error {
	keys, err := s.kv.Keys(s.Prefix())
	if err != nil {
		return fmt.Errorf("listing keys: %w", err)
	}
	for _, k := range keys {
		if err := s.kv.Delete(k); err != nil {
			return fmt.Errorf("deleting key %q: %w", k, err)
		}
	}
	return nil
}
