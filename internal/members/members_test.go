package members

import (
	"path/filepath"
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

func record(name, khata string, balance int64) model.MemberRecord {
	return model.MemberRecord{
		Name:        name,
		Khata:       khata,
		Deposit:     decimal.NewFromInt(100),
		Total:       decimal.NewFromInt(100),
		LoanBalance: decimal.NewFromInt(balance),
	}
}

func TestLoadBuildsRoster(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.SetLedger("2024-03-01", []model.MemberRecord{
		record("Asha", "", 500),
		record("Bithi", "7", 0),
	}))
	require.NoError(t, st.SetLedger("2024-03-08", []model.MemberRecord{
		record("ASHA", "12", 300),
	}))

	svc, err := Load(st)
	require.NoError(t, err)

	all := svc.All()
	require.Len(t, all, 2)

	asha, ok := svc.Get("asha")
	require.True(t, ok)
	assert.Equal(t, "ASHA", asha.Name, "latest spelling wins")
	assert.Equal(t, "12", asha.Khata)
	assert.Equal(t, "2024-03-01", asha.FirstSeen)
	assert.Equal(t, "2024-03-08", asha.LastSeen)
	assert.Equal(t, "300", asha.LoanBalance.String())
	assert.Equal(t, 2, asha.DaysRecorded)

	bithi, ok := svc.Get("Bithi")
	require.True(t, ok)
	assert.Equal(t, "7", bithi.Khata)
	assert.Equal(t, 1, bithi.DaysRecorded)

	assert.False(t, svc.Exists("Chaya"))
}

func TestKhataSurvivesBlankLaterRecord(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.SetLedger("2024-03-01", []model.MemberRecord{record("Asha", "12", 0)}))
	require.NoError(t, st.SetLedger("2024-03-08", []model.MemberRecord{record("Asha", "", 0)}))

	svc, err := Load(st)
	require.NoError(t, err)
	m, ok := svc.Get("Asha")
	require.True(t, ok)
	assert.Equal(t, "12", m.Khata)
}

func TestBorrowers(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.SetLedger("2024-03-01", []model.MemberRecord{
		record("Asha", "", 300),
		record("Bithi", "", 0),
		record("Chaya", "", 900),
	}))

	svc, err := Load(st)
	require.NoError(t, err)

	b := svc.Borrowers()
	require.Len(t, b, 2)
	assert.Equal(t, "Chaya", b[0].Name)
	assert.Equal(t, "Asha", b[1].Name)
}

func TestEmptyStore(t *testing.T) {
	svc, err := Load(newTestStore(t))
	require.NoError(t, err)
	assert.Empty(t, svc.All())
}
