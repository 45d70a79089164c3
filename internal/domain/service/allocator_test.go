package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iprofitlabs/lending-service/internal/domain/model"
	"github.com/iprofitlabs/lending-service/internal/domain/service"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
)

// zero-rate loan so every installment is an even 100.00
func activeLoanForAllocation(t *testing.T) model.Loan {
	t.Helper()
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	loan, err := model.NewLoan(
		"user-042",
		decimal.NewFromInt(1200), "USD",
		0, 12, 720,
		"working capital", "self_employed",
		model.EmploymentDetails{},
		model.FinancialDetails{MonthlyIncome: decimal.NewFromInt(5000)},
		"",
		nil,
		now,
	)
	require.NoError(t, err)
	loan, err = loan.Approve("ok", now)
	require.NoError(t, err)
	loan, err = loan.Disburse(now)
	require.NoError(t, err)
	return loan
}

func pendingOf(loan model.Loan) []model.Installment {
	var pending []model.Installment
	for _, inst := range loan.Schedule() {
		if inst.Status.Equal(valueobject.InstallmentStatusPending) {
			pending = append(pending, inst)
		}
	}
	return pending
}

func TestPaymentAllocatorAllocate(t *testing.T) {
	allocator := service.NewPaymentAllocator()
	now := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	t.Run("fills installments oldest due first", func(t *testing.T) {
		loan := activeLoanForAllocation(t)
		pending := pendingOf(loan)

		// Shuffled input must not affect allocation order.
		pending[0], pending[3] = pending[3], pending[0]

		alloc, err := allocator.Allocate(loan, pending, decimal.NewFromInt(250),
			valueobject.PaymentTypePartial, now)
		require.NoError(t, err)

		assert.Equal(t, "250", alloc.PrincipalInterestPaid.String())
		assert.True(t, alloc.PenaltyPaid.IsZero())
		require.Len(t, alloc.Touched, 3)

		assert.Equal(t, 1, alloc.Touched[0].Number)
		assert.True(t, alloc.Touched[0].Status.Equal(valueobject.InstallmentStatusPaid))
		require.NotNil(t, alloc.Touched[0].PaidAt)
		assert.Equal(t, now, *alloc.Touched[0].PaidAt)

		assert.Equal(t, 2, alloc.Touched[1].Number)
		assert.True(t, alloc.Touched[1].Status.Equal(valueobject.InstallmentStatusPaid))

		// Third installment is only half covered and stays pending.
		assert.Equal(t, 3, alloc.Touched[2].Number)
		assert.True(t, alloc.Touched[2].Status.Equal(valueobject.InstallmentStatusPending))
		assert.Equal(t, "50", alloc.Touched[2].PaidAmount.String())
		assert.Nil(t, alloc.Touched[2].PaidAt)

		assert.False(t, alloc.SettledAll)
	})

	t.Run("pays penalty before installments", func(t *testing.T) {
		loan := activeLoanForAllocation(t)
		loan, err := loan.AssessPenalty(decimal.NewFromInt(50), decimal.NewFromInt(100), now)
		require.NoError(t, err)

		alloc, err := allocator.Allocate(loan, pendingOf(loan), decimal.NewFromInt(150),
			valueobject.PaymentTypeFullEMI, now)
		require.NoError(t, err)

		assert.Equal(t, "50", alloc.PenaltyPaid.String())
		assert.Equal(t, "100", alloc.PrincipalInterestPaid.String())
		require.Len(t, alloc.Touched, 1)
		assert.True(t, alloc.Touched[0].Status.Equal(valueobject.InstallmentStatusPaid))
	})

	t.Run("penalty only rejects any remainder", func(t *testing.T) {
		loan := activeLoanForAllocation(t)
		loan, err := loan.AssessPenalty(decimal.NewFromInt(50), decimal.Zero, now)
		require.NoError(t, err)

		alloc, err := allocator.Allocate(loan, pendingOf(loan), decimal.NewFromInt(50),
			valueobject.PaymentTypePenaltyOnly, now)
		require.NoError(t, err)
		assert.Equal(t, "50", alloc.PenaltyPaid.String())
		assert.Empty(t, alloc.Touched)

		_, err = allocator.Allocate(loan, pendingOf(loan), decimal.NewFromInt(80),
			valueobject.PaymentTypePenaltyOnly, now)
		assert.ErrorIs(t, err, valueobject.ErrPenaltyExceeded)
	})

	t.Run("settles the whole loan", func(t *testing.T) {
		loan := activeLoanForAllocation(t)

		alloc, err := allocator.Allocate(loan, pendingOf(loan), decimal.NewFromInt(1200),
			valueobject.PaymentTypeFullEMI, now)
		require.NoError(t, err)

		assert.True(t, alloc.SettledAll)
		assert.Len(t, alloc.Touched, 12)
		assert.Len(t, alloc.Breakdown, 12)
		for _, share := range alloc.Breakdown {
			assert.True(t, share.Settled)
		}
	})

	t.Run("rejects overpayment instead of absorbing it", func(t *testing.T) {
		loan := activeLoanForAllocation(t)

		_, err := allocator.Allocate(loan, pendingOf(loan), decimal.NewFromInt(1201),
			valueobject.PaymentTypeFullEMI, now)
		assert.ErrorIs(t, err, valueobject.ErrInvalidPaymentAmount)
	})

	t.Run("rejects prepayment", func(t *testing.T) {
		loan := activeLoanForAllocation(t)

		_, err := allocator.Allocate(loan, pendingOf(loan), decimal.NewFromInt(100),
			valueobject.PaymentTypePrepayment, now)
		assert.ErrorIs(t, err, valueobject.ErrPrepaymentUnsupported)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		loan := activeLoanForAllocation(t)

		_, err := allocator.Allocate(loan, pendingOf(loan), decimal.Zero,
			valueobject.PaymentTypeFullEMI, now)
		assert.ErrorIs(t, err, valueobject.ErrInvalidPaymentAmount)
	})

	t.Run("rejects loans that are not active", func(t *testing.T) {
		now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
		loan, err := model.NewLoan(
			"user-042", decimal.NewFromInt(1200), "USD", 0, 12, 720,
			"", "", model.EmploymentDetails{}, model.FinancialDetails{}, "", nil, now)
		require.NoError(t, err)

		_, err = allocator.Allocate(loan, pendingOf(loan), decimal.NewFromInt(100),
			valueobject.PaymentTypeFullEMI, now)
		assert.ErrorIs(t, err, valueobject.ErrLoanNotActive)
	})

	t.Run("rejects when nothing is outstanding", func(t *testing.T) {
		loan := activeLoanForAllocation(t)

		_, err := allocator.Allocate(loan, nil, decimal.NewFromInt(100),
			valueobject.PaymentTypeFullEMI, now)
		assert.ErrorIs(t, err, valueobject.ErrNoPendingInstallments)
	})
}
