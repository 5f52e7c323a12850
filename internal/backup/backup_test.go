package backup

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tech-hub161/samity/internal/model"
	"github.com/tech-hub161/samity/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	kv, err := store.OpenFile(filepath.Join(t.TempDir(), "samity.json"), zerolog.Nop())
	require.NoError(t, err)
	return store.New(kv, "samity", zerolog.Nop())
}

func seed(t *testing.T, st *store.Store) {
	t.Helper()
	rec := model.MemberRecord{Name: "Asha", Deposit: decimal.NewFromInt(100), Total: decimal.NewFromInt(100)}
	require.NoError(t, st.SetLedger("2024-03-01", []model.MemberRecord{rec}))
	require.NoError(t, st.SetLedger("2024-03-08", []model.MemberRecord{rec}))
	require.NoError(t, st.SetExpense("2024-03-01", model.ExpenseEntry{Name: "tea", Amount: decimal.NewFromInt(20)}))
}

func TestExportRestoreRoundTrip(t *testing.T) {
	src := newTestStore(t)
	seed(t, src)

	var buf strings.Builder
	sum, err := Export(src, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Keys)
	assert.Equal(t, 2, sum.Dates)
	assert.Equal(t, "2024-03-08", sum.LatestDate)

	// Backup is a single JSON object keyed by namespaced keys.
	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &obj))
	assert.Contains(t, obj, "samity-data-2024-03-01")
	assert.Contains(t, obj, "samity-expense-2024-03-01")

	dst := newTestStore(t)
	require.NoError(t, dst.SetLedger("2020-01-01", []model.MemberRecord{{Name: "Stale"}}))

	restored, err := Restore(dst, strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", restored.LatestDate)

	dates, err := dst.Dates()
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-01", "2024-03-08"}, dates, "restore replaces, never merges")

	exp, err := dst.Expense("2024-03-01")
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.Equal(t, "tea", exp.Name)
}

func TestRestoreSkipsForeignKeys(t *testing.T) {
	st := newTestStore(t)
	in := `{"other-data-2024-01-01": [], "samity-data-2024-03-01": [{"name":"Asha","deposit":100,"total":100}]}`

	sum, err := Restore(st, strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Keys)
	assert.Equal(t, "2024-03-01", sum.LatestDate)

	records, err := st.Ledger("2024-03-01")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Asha", records[0].Name)
}

func TestRestoreRejectsMalformedJSON(t *testing.T) {
	st := newTestStore(t)
	seed(t, st)

	_, err := Restore(st, strings.NewReader("not json"))
	require.Error(t, err)

	// A failed parse must not have touched the store.
	dates, err := st.Dates()
	require.NoError(t, err)
	assert.Len(t, dates, 2)
}

func TestExportFile(t *testing.T) {
	st := newTestStore(t)
	seed(t, st)

	path := filepath.Join(t.TempDir(), "backup.json")
	sum, err := ExportFile(st, path)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Keys)

	dst := newTestStore(t)
	restored, err := RestoreFile(dst, path)
	require.NoError(t, err)
	assert.Equal(t, sum, restored)
}
