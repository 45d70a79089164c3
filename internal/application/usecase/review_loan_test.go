package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iprofitlabs/lending-service/internal/application/dto"
	"github.com/iprofitlabs/lending-service/internal/application/usecase"
	"github.com/iprofitlabs/lending-service/internal/domain/model"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
	"github.com/iprofitlabs/lending-service/pkg/testutil"
)

func newPendingLoan(t *testing.T, userID string) model.Loan {
	t.Helper()
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	loan, err := model.NewLoan(
		userID, decimal.NewFromInt(12000), "USD", 1500, 12, 710,
		"education", "employed",
		model.EmploymentDetails{}, model.FinancialDetails{MonthlyIncome: decimal.NewFromInt(6000)},
		"", nil, now,
	)
	require.NoError(t, err)
	return loan.ClearEvents()
}

func TestReviewLoanUseCase(t *testing.T) {
	ctx := context.Background()

	newFixture := func(loan model.Loan) (*usecase.ReviewLoanUseCase, *mockLoanLedger, *mockNotifier, *mockAuditLogger) {
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(_ context.Context, _ string) (model.Loan, error) {
				return loan, nil
			},
		}
		ledger := &mockLoanLedger{}
		notifier := &mockNotifier{}
		auditor := &mockAuditLogger{}
		uc := usecase.NewReviewLoanUseCase(
			loanRepo, ledger, &mockEventPublisher{}, notifier, auditor, testLogger())
		return uc, ledger, notifier, auditor
	}

	t.Run("approves a pending loan", func(t *testing.T) {
		loan := newPendingLoan(t, testutil.TestUserID1)
		uc, ledger, notifier, auditor := newFixture(loan)

		resp, err := uc.Execute(ctx, dto.ReviewLoanRequest{
			LoanID:   loan.ID(),
			Reviewer: "admin-1",
			Approve:  true,
			Reason:   "meets criteria",
		})
		require.NoError(t, err)

		assert.Equal(t, "APPROVED", resp.Status)
		assert.Equal(t, "meets criteria", resp.DecisionReason)
		require.Len(t, ledger.savedLoans, 1)
		assert.True(t, ledger.savedLoans[0].Status().Equal(valueobject.LoanStatusApproved))
		assert.Equal(t, []string{"loan_approved"}, notifier.sent)
		require.Len(t, auditor.entries, 1)
		assert.Equal(t, "loan.approve", auditor.entries[0].Action)
		assert.Equal(t, "admin-1", auditor.entries[0].Actor)
	})

	t.Run("rejects a pending loan", func(t *testing.T) {
		loan := newPendingLoan(t, testutil.TestUserID1)
		uc, ledger, notifier, auditor := newFixture(loan)

		resp, err := uc.Execute(ctx, dto.ReviewLoanRequest{
			LoanID:   loan.ID(),
			Reviewer: "admin-1",
			Approve:  false,
			Reason:   "insufficient income",
		})
		require.NoError(t, err)

		assert.Equal(t, "REJECTED", resp.Status)
		require.Len(t, ledger.savedLoans, 1)
		assert.Equal(t, []string{"loan_rejected"}, notifier.sent)
		assert.Equal(t, "loan.reject", auditor.entries[0].Action)
	})

	t.Run("refuses to review a non-pending loan", func(t *testing.T) {
		loan := newActiveLoan(t, testutil.TestUserID1)
		uc, ledger, _, _ := newFixture(loan)

		_, err := uc.Execute(ctx, dto.ReviewLoanRequest{
			LoanID:   loan.ID(),
			Reviewer: "admin-1",
			Approve:  true,
		})
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
		assert.Empty(t, ledger.savedLoans)
	})

	t.Run("surfaces a missing loan", func(t *testing.T) {
		uc := usecase.NewReviewLoanUseCase(
			&mockLoanRepository{}, &mockLoanLedger{}, &mockEventPublisher{},
			&mockNotifier{}, &mockAuditLogger{}, testLogger())

		_, err := uc.Execute(ctx, dto.ReviewLoanRequest{LoanID: "missing", Approve: true})
		assert.ErrorIs(t, err, valueobject.ErrLoanNotFound)
	})
}
