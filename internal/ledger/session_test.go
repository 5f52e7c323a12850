package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tech-hub161/samity/internal/model"
)

func seededSession(t *testing.T) (*Service, *Session) {
	t.Helper()
	svc := newTestService(t)

	_, err := svc.Save("2024-03-01", []model.MemberRecord{
		{Name: "Asha", Khata: "12", Deposit: amt(100), NewLoan: amt(500)},
		{Name: "Bithi", Deposit: amt(50)},
	}, nil)
	require.NoError(t, err)

	sess, err := svc.NewSession("2024-03-08")
	require.NoError(t, err)
	return svc, sess
}

func TestSessionUpdateRecalculates(t *testing.T) {
	_, sess := seededSession(t)

	got, err := sess.Update("Asha", Amounts{Repayment: dptr(200)})
	require.NoError(t, err)

	assert.True(t, got.Interest.Equal(amt(5)))
	assert.True(t, got.Total.Equal(amt(305)))
	assert.True(t, got.LoanBalance.Equal(amt(300)))
}

func TestSessionUpdateRoundsInput(t *testing.T) {
	_, sess := seededSession(t)

	half := amt(99).Add(amt(1).Div(amt(2))) // 99.5
	got, err := sess.Update("Bithi", Amounts{Deposit: &half})
	require.NoError(t, err)
	assert.True(t, got.Deposit.Equal(amt(100)), "entered amounts round to whole units")
}

func TestSessionUpdateUnknownMember(t *testing.T) {
	_, sess := seededSession(t)

	_, err := sess.Update("Nobody", Amounts{Deposit: dptr(10)})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSessionUpdateNegative(t *testing.T) {
	_, sess := seededSession(t)

	_, err := sess.Update("Asha", Amounts{Fine: dptr(-5)})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "fine cannot be negative")
}

func TestSessionUpdateRejectedLeavesRowUntouched(t *testing.T) {
	_, sess := seededSession(t)

	i := model.FindRecord(sess.Records(), "Asha")
	require.GreaterOrEqual(t, i, 0)
	before := sess.Records()[i]

	// A mix of valid and invalid fields must not apply the valid ones.
	_, err := sess.Update("Asha", Amounts{Deposit: dptr(999), Fine: dptr(-5)})
	var verr ValidationError
	require.ErrorAs(t, err, &verr)

	after := sess.Records()[i]
	assert.True(t, after.Deposit.Equal(before.Deposit), "rejected edit must not change deposit")
	assert.True(t, after.Fine.Equal(before.Fine), "rejected edit must not change fine")
	assert.True(t, after.Total.Equal(before.Total))
}

func TestAddMemberContinuity(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Save("2024-03-01", []model.MemberRecord{
		{Name: "Asha", Khata: "12", Deposit: amt(100), NewLoan: amt(500)},
	}, nil)
	require.NoError(t, err)

	sess, err := svc.NewSession("2024-03-08")
	require.NoError(t, err)
	require.NoError(t, sess.RemoveMember("Asha"))

	// Re-adding a member who exists in the prior ledger restores continuity.
	got, err := sess.AddMember("asha", "")
	require.NoError(t, err)
	assert.Equal(t, "12", got.Khata)
	assert.True(t, got.LoanBalance.Equal(amt(500)))
	assert.Equal(t, "2024-03-01", got.LoanIssueDate)

	// A brand-new member starts from zero.
	fresh, err := sess.AddMember("Dipa", "44")
	require.NoError(t, err)
	assert.Equal(t, "44", fresh.Khata)
	assert.True(t, fresh.LoanBalance.IsZero())
	assert.Empty(t, fresh.LoanIssueDate)
}

func TestAddMemberDuplicate(t *testing.T) {
	_, sess := seededSession(t)

	_, err := sess.AddMember("ASHA", "")
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "duplicate member name")
	assert.Len(t, sess.Records(), 2, "ledger unchanged after rejected add")
}

func TestAddMemberEmptyName(t *testing.T) {
	_, sess := seededSession(t)

	_, err := sess.AddMember("   ", "")
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRename(t *testing.T) {
	svc, sess := seededSession(t)

	require.NoError(t, sess.Rename("Bithi", "Bithika"))
	assert.Equal(t, "Bithika", sess.Records()[1].Name)

	// Session-only until commit.
	view, err := svc.LoadForDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "Bithi", view.Records[1].Name)

	_, err = sess.Commit()
	require.NoError(t, err)

	view, err = svc.LoadForDate("2024-03-08")
	require.NoError(t, err)
	assert.Equal(t, "Bithika", view.Records[1].Name)
}

func TestRenameDuplicate(t *testing.T) {
	_, sess := seededSession(t)

	err := sess.Rename("Bithi", "asha")
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Bithi", sess.Records()[1].Name, "rename not applied")
}

func TestRenameToSelfDifferentCase(t *testing.T) {
	_, sess := seededSession(t)

	require.NoError(t, sess.Rename("Bithi", "BITHI"), "case change of own name is allowed")
	assert.Equal(t, "BITHI", sess.Records()[1].Name)
}

func TestMarkAbsentAndRestore(t *testing.T) {
	_, sess := seededSession(t)

	_, err := sess.Update("Asha", Amounts{Fine: dptr(10), Repayment: dptr(50)})
	require.NoError(t, err)

	require.NoError(t, sess.MarkAbsent("Asha"))
	got := sess.Records()[0]
	assert.True(t, got.Absent)
	assert.True(t, got.Deposit.IsZero())
	assert.True(t, got.Fine.IsZero())
	assert.True(t, got.Repayment.IsZero())
	assert.True(t, got.Interest.Equal(amt(5)), "absent rows still accrue interest")
	assert.True(t, got.Total.Equal(amt(5)))
	assert.True(t, got.LoanBalance.Equal(amt(500)), "balance still carried")

	require.NoError(t, sess.ClearAbsent("Asha"))
	got = sess.Records()[0]
	assert.False(t, got.Absent)
	assert.True(t, got.Deposit.Equal(amt(100)), "cached deposit restored")
	assert.True(t, got.Fine.IsZero(), "other fields stay zeroed")
}

func TestMarkAbsentTwiceKeepsCache(t *testing.T) {
	_, sess := seededSession(t)

	require.NoError(t, sess.MarkAbsent("Bithi"))
	require.NoError(t, sess.MarkAbsent("Bithi"))
	require.NoError(t, sess.ClearAbsent("Bithi"))
	assert.True(t, sess.Records()[1].Deposit.Equal(amt(50)))
}

func TestSessionExpense(t *testing.T) {
	svc, sess := seededSession(t)

	require.NoError(t, sess.SetExpense("snacks", amt(40)))
	_, err := sess.Commit()
	require.NoError(t, err)

	view, err := svc.LoadForDate("2024-03-08")
	require.NoError(t, err)
	require.NotNil(t, view.Expense)
	assert.Equal(t, "snacks", view.Expense.Name)
	assert.True(t, view.Expense.Amount.Equal(amt(40)))
}

func TestCarryForwardIdempotence(t *testing.T) {
	// Committing an untouched draft then drafting again yields identical
	// balances and issue dates.
	svc, sess := seededSession(t)

	first, err := sess.Commit()
	require.NoError(t, err)

	view, err := svc.LoadForDate("2024-03-20")
	require.NoError(t, err)
	require.Len(t, view.Records, len(first))
	for i, r := range view.Records {
		assert.True(t, r.LoanBalance.Equal(first[i].LoanBalance), "%s balance", r.Name)
		assert.Equal(t, first[i].LoanIssueDate, r.LoanIssueDate, "%s issue date", r.Name)
		assert.True(t, r.NewLoan.IsZero())
		assert.True(t, r.Interest.IsZero())
	}
}
