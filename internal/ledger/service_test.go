package ledger

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

func newTestService(t *testing.T) *Service {
	t.Helper()
	kv, err := store.OpenFile(filepath.Join(t.TempDir(), "samity.json"), zerolog.Nop())
	require.NoError(t, err)
	st := store.New(kv, "samity", zerolog.Nop())
	return NewService(st, DefaultRules(), zerolog.Nop())
}

func TestSaveAndLoadVerbatim(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Save("2024-03-01", []model.MemberRecord{
		{Name: "Asha", Khata: "12", Deposit: amt(100), NewLoan: amt(500)},
	}, nil)
	require.NoError(t, err)

	view, err := svc.LoadForDate("2024-03-01")
	require.NoError(t, err)
	require.True(t, view.Saved)
	require.Len(t, view.Records, 1)

	got := view.Records[0]
	assert.True(t, got.Total.Equal(amt(100)))
	assert.True(t, got.LoanBalance.Equal(amt(500)))
	assert.Equal(t, "2024-03-01", got.LoanIssueDate)
}

func TestLoadForDateDraftCarryForward(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Save("2024-03-01", []model.MemberRecord{
		{Name: "Asha", Khata: "12", Deposit: amt(100), NewLoan: amt(500)},
		{Name: "Bithi", Deposit: amt(50), Fine: amt(10)},
	}, nil)
	require.NoError(t, err)

	// The next date with no saved ledger drafts from 2024-03-01 even though
	// it is not exactly 7 days later.
	view, err := svc.LoadForDate("2024-03-10")
	require.NoError(t, err)
	assert.False(t, view.Saved)
	require.Len(t, view.Records, 2)

	asha := view.Records[0]
	assert.True(t, asha.Deposit.Equal(amt(100)), "deposit carried for fast entry")
	assert.True(t, asha.NewLoan.IsZero())
	assert.True(t, asha.Fine.IsZero())
	assert.True(t, asha.Due.IsZero())
	assert.True(t, asha.Repayment.IsZero())
	assert.True(t, asha.Interest.IsZero())
	assert.True(t, asha.LoanBalance.Equal(amt(500)), "running balance carried unchanged")
	assert.Equal(t, "2024-03-01", asha.LoanIssueDate)
	assert.False(t, asha.WasPreviouslyAbsent)

	bithi := view.Records[1]
	assert.True(t, bithi.Fine.IsZero(), "fine reset in draft")
	assert.Equal(t, "12", asha.Khata)
}

func TestDraftFlagsPreviouslyAbsent(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Save("2024-03-01", []model.MemberRecord{
		{Name: "Asha", Deposit: amt(100)},
		{Name: "Bithi", Absent: true},
		{Name: "Chandana"}, // zero deposit counts as implicit absence
	}, nil)
	require.NoError(t, err)

	view, err := svc.LoadForDate("2024-03-08")
	require.NoError(t, err)
	require.Len(t, view.Records, 3)
	assert.False(t, view.Records[0].WasPreviouslyAbsent)
	assert.True(t, view.Records[1].WasPreviouslyAbsent)
	assert.True(t, view.Records[2].WasPreviouslyAbsent)
	assert.False(t, view.Records[1].Absent, "absence does not carry into the draft")
}

func TestLoadForDateNoHistory(t *testing.T) {
	svc := newTestService(t)

	view, err := svc.LoadForDate("2024-03-01")
	require.NoError(t, err)
	assert.False(t, view.Saved)
	assert.Empty(t, view.Records)
	assert.True(t, view.OpeningBalance.IsZero())
}

func TestLoadForDateMalformed(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.LoadForDate("03/01/2024")
	require.Error(t, err)
	var verr ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAshaScenario(t *testing.T) {
	svc := newTestService(t)

	// D1: first entry with a fresh loan.
	saved, err := svc.Save("2024-03-01", []model.MemberRecord{
		{Name: "Asha", Deposit: amt(100), NewLoan: amt(500)},
	}, nil)
	require.NoError(t, err)
	assert.True(t, saved[0].Interest.IsZero())
	assert.True(t, saved[0].Total.Equal(amt(100)))
	assert.True(t, saved[0].LoanBalance.Equal(amt(500)))
	assert.Equal(t, "2024-03-01", saved[0].LoanIssueDate)

	// D2: one week later the grace period has elapsed.
	sess, err := svc.NewSession("2024-03-08")
	require.NoError(t, err)
	saved, err = sess.Commit()
	require.NoError(t, err)
	assert.True(t, saved[0].Interest.Equal(amt(5)), "round(500*0.01)")
	assert.True(t, saved[0].Total.Equal(amt(105)))
	assert.True(t, saved[0].LoanBalance.Equal(amt(500)))

	// D3: a repayment against the carried balance.
	sess, err = svc.NewSession("2024-03-15")
	require.NoError(t, err)
	_, err = sess.Update("Asha", Amounts{Repayment: dptr(200)})
	require.NoError(t, err)
	saved, err = sess.Commit()
	require.NoError(t, err)
	assert.True(t, saved[0].Interest.Equal(amt(5)), "interest on the stale 500 balance")
	assert.True(t, saved[0].Total.Equal(amt(305)))
	assert.True(t, saved[0].LoanBalance.Equal(amt(300)))
}

func dptr(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func TestSaveRejectsDuplicateNames(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Save("2024-03-01", []model.MemberRecord{
		{Name: "Asha"},
		{Name: "asha"},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	view, err := svc.LoadForDate("2024-03-01")
	require.NoError(t, err)
	assert.False(t, view.Saved, "nothing persisted on validation failure")
}

func TestSaveIsOverwrite(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Save("2024-03-01", []model.MemberRecord{
		{Name: "Asha", Deposit: amt(100)},
		{Name: "Bithi", Deposit: amt(50)},
	}, nil)
	require.NoError(t, err)

	_, err = svc.Save("2024-03-01", []model.MemberRecord{
		{Name: "Asha", Deposit: amt(200)},
	}, nil)
	require.NoError(t, err)

	view, err := svc.LoadForDate("2024-03-01")
	require.NoError(t, err)
	require.Len(t, view.Records, 1, "save replaces, never merges")
	assert.True(t, view.Records[0].Deposit.Equal(amt(200)))
}

func TestOpeningBalanceAndOutstanding(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Save("2024-03-01", []model.MemberRecord{
		{Name: "Asha", Deposit: amt(100)},
		{Name: "Bithi", Deposit: amt(60)},
	}, &model.ExpenseEntry{Name: "tea", Amount: amt(30)})
	require.NoError(t, err)

	_, err = svc.Save("2024-03-08", []model.MemberRecord{
		{Name: "Asha", Deposit: amt(100)},
	}, nil)
	require.NoError(t, err)

	// Draft view: only the carried balance shows.
	view, err := svc.LoadForDate("2024-03-15")
	require.NoError(t, err)
	assert.True(t, view.OpeningBalance.Equal(amt(230)), "(160-30)+100")
	assert.True(t, view.Outstanding().Equal(amt(230)))

	// Saved view: the day's own net is included.
	view, err = svc.LoadForDate("2024-03-08")
	require.NoError(t, err)
	assert.True(t, view.OpeningBalance.Equal(amt(130)))
	assert.True(t, view.Outstanding().Equal(amt(230)))
}

func TestDeleteMember(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Save("2024-03-01", []model.MemberRecord{
		{Name: "Asha", Deposit: amt(100)},
		{Name: "Bithi", Deposit: amt(50)},
	}, nil)
	require.NoError(t, err)

	deleted, err := svc.DeleteMember("2024-03-01", "bithi")
	require.NoError(t, err)
	assert.True(t, deleted)

	view, err := svc.LoadForDate("2024-03-01")
	require.NoError(t, err)
	require.Len(t, view.Records, 1)

	deleted, err = svc.DeleteMember("2024-03-01", "Nobody")
	require.NoError(t, err)
	assert.False(t, deleted, "missing member is an empty result, not an error")
}

func TestDeleteLastMemberRemovesDate(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Save("2024-03-01", []model.MemberRecord{{Name: "Asha", Deposit: amt(100)}}, nil)
	require.NoError(t, err)

	deleted, err := svc.DeleteMember("2024-03-01", "Asha")
	require.NoError(t, err)
	require.True(t, deleted)

	dates, err := svc.Store().Dates()
	require.NoError(t, err)
	assert.Empty(t, dates, "emptied date key is removed entirely")
}

func TestPriorSkipsLaterDates(t *testing.T) {
	svc := newTestService(t)

	for _, d := range []string{"2024-03-01", "2024-03-08", "2024-03-22"} {
		_, err := svc.Save(d, []model.MemberRecord{{Name: "Asha", Deposit: amt(100)}}, nil)
		require.NoError(t, err)
	}

	_, priorDate, err := svc.Prior("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", priorDate, "most recent strictly earlier date")

	_, priorDate, err = svc.Prior("2024-03-01")
	require.NoError(t, err)
	assert.Empty(t, priorDate)
}
