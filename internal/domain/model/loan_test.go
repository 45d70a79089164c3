package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iprofitlabs/lending-service/internal/domain/model"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
	"github.com/iprofitlabs/lending-service/pkg/testutil"
)

func newTestLoan(t *testing.T) model.Loan {
	t.Helper()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	loan, err := model.NewLoan(
		"user-001",
		decimal.NewFromInt(12000), "USD",
		1200, 12, 710,
		"home improvement", "employed",
		model.EmploymentDetails{CompanyName: "Acme"},
		model.FinancialDetails{MonthlyIncome: decimal.NewFromInt(8000)},
		"",
		nil,
		now,
	)
	require.NoError(t, err)
	return loan
}

func activeTestLoan(t *testing.T) model.Loan {
	t.Helper()
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	loan := newTestLoan(t)
	loan, err := loan.Approve("meets criteria", now)
	require.NoError(t, err)
	loan, err = loan.Disburse(now)
	require.NoError(t, err)
	return loan
}

func TestNewLoan(t *testing.T) {
	t.Run("starts pending with a full schedule", func(t *testing.T) {
		loan := newTestLoan(t)

		assert.True(t, loan.Status().Equal(valueobject.LoanStatusPending))
		assert.Len(t, loan.Schedule(), 12)
		assert.Equal(t, "1066.19", loan.EMIAmount().StringFixed(2))
		assert.True(t, loan.TotalPaid().IsZero())

		// Remaining covers principal plus every scheduled interest charge.
		expected := loan.Principal().Add(model.TotalInterest(loan.Schedule()))
		testutil.AssertDecimalEqual(t, expected, loan.RemainingAmount())

		events := loan.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "lending.loan.applied", events[0].EventType())
	})

	t.Run("rejects invalid arguments", func(t *testing.T) {
		now := time.Now().UTC()
		_, err := model.NewLoan("", decimal.NewFromInt(100), "USD", 1200, 12, 700,
			"", "", model.EmploymentDetails{}, model.FinancialDetails{}, "", nil, now)
		assert.Error(t, err)

		_, err = model.NewLoan("user-001", decimal.Zero, "USD", 1200, 12, 700,
			"", "", model.EmploymentDetails{}, model.FinancialDetails{}, "", nil, now)
		assert.Error(t, err)

		_, err = model.NewLoan("user-001", decimal.NewFromInt(100), "USD", 1200, 0, 700,
			"", "", model.EmploymentDetails{}, model.FinancialDetails{}, "", nil, now)
		assert.Error(t, err)
	})
}

func TestLoanStateMachine(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("pending to approved to active", func(t *testing.T) {
		loan := newTestLoan(t)

		approved, err := loan.Approve("meets criteria", now)
		require.NoError(t, err)
		assert.True(t, approved.Status().Equal(valueobject.LoanStatusApproved))
		assert.Equal(t, "meets criteria", approved.DecisionReason())

		active, err := approved.Disburse(now)
		require.NoError(t, err)
		assert.True(t, active.Status().Equal(valueobject.LoanStatusActive))
	})

	t.Run("pending to rejected is terminal", func(t *testing.T) {
		loan := newTestLoan(t)

		rejected, err := loan.Reject("score too low", now)
		require.NoError(t, err)
		assert.True(t, rejected.Status().Equal(valueobject.LoanStatusRejected))
		assert.True(t, rejected.Status().IsTerminal())

		_, err = rejected.Approve("changed my mind", now)
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})

	t.Run("disburse requires approval first", func(t *testing.T) {
		loan := newTestLoan(t)
		_, err := loan.Disburse(now)
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})

	t.Run("default requires an active loan", func(t *testing.T) {
		loan := newTestLoan(t)
		_, err := loan.MarkDefaulted(now)
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)

		active := activeTestLoan(t)
		defaulted, err := active.MarkDefaulted(now)
		require.NoError(t, err)
		assert.True(t, defaulted.Status().Equal(valueobject.LoanStatusDefaulted))
	})

	t.Run("transitions do not mutate the receiver", func(t *testing.T) {
		loan := newTestLoan(t)
		_, err := loan.Approve("ok", now)
		require.NoError(t, err)
		assert.True(t, loan.Status().Equal(valueobject.LoanStatusPending))
	})
}

func TestLoanApplyPayment(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("moves paid amount between the aggregates", func(t *testing.T) {
		loan := activeTestLoan(t)
		before := loan.RemainingAmount()

		paid := decimal.NewFromFloat(1066.19)
		next, err := loan.ApplyPayment(paid, decimal.Zero, false, now)
		require.NoError(t, err)

		testutil.AssertDecimalEqual(t, paid, next.TotalPaid())
		testutil.AssertDecimalEqual(t, before.Sub(paid), next.RemainingAmount())
		assert.True(t, next.Status().Equal(valueobject.LoanStatusActive))
	})

	t.Run("penalty paid does not count toward total paid", func(t *testing.T) {
		loan := activeTestLoan(t)
		loan, err := loan.AssessPenalty(decimal.NewFromInt(50), decimal.NewFromInt(1066), now)
		require.NoError(t, err)

		next, err := loan.ApplyPayment(decimal.Zero, decimal.NewFromInt(50), false, now)
		require.NoError(t, err)

		assert.True(t, next.TotalPaid().IsZero())
		assert.True(t, next.PenaltyAmount().IsZero())
	})

	t.Run("rejects penalty beyond the outstanding penalty", func(t *testing.T) {
		loan := activeTestLoan(t)
		_, err := loan.ApplyPayment(decimal.Zero, decimal.NewFromInt(10), false, now)
		assert.ErrorIs(t, err, valueobject.ErrPenaltyExceeded)
	})

	t.Run("settling everything completes the loan", func(t *testing.T) {
		loan := activeTestLoan(t)

		next, err := loan.ApplyPayment(loan.RemainingAmount(), decimal.Zero, true, now)
		require.NoError(t, err)

		assert.True(t, next.Status().Equal(valueobject.LoanStatusCompleted))
		assert.True(t, next.RemainingAmount().IsZero())
		require.NotNil(t, next.CompletedAt())
		assert.Equal(t, now, *next.CompletedAt())
	})

	t.Run("requires an active loan", func(t *testing.T) {
		loan := newTestLoan(t)
		_, err := loan.ApplyPayment(decimal.NewFromInt(100), decimal.Zero, false, now)
		assert.ErrorIs(t, err, valueobject.ErrLoanNotActive)
	})
}

func TestLoanNextPendingInstallment(t *testing.T) {
	loan := activeTestLoan(t)

	next, ok := loan.NextPendingInstallment()
	require.True(t, ok)
	assert.Equal(t, 1, next.Number)

	// Mark the first installment paid and reload the schedule.
	schedule := loan.Schedule()
	schedule[0].Status = valueobject.InstallmentStatusPaid
	loan = loan.WithSchedule(schedule)

	next, ok = loan.NextPendingInstallment()
	require.True(t, ok)
	assert.Equal(t, 2, next.Number)
}

func TestLoanClearEvents(t *testing.T) {
	loan := newTestLoan(t)
	require.NotEmpty(t, loan.DomainEvents())
	assert.Empty(t, loan.ClearEvents().DomainEvents())
}
