package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iprofitlabs/lending-service/internal/application/dto"
	"github.com/iprofitlabs/lending-service/internal/application/usecase"
	"github.com/iprofitlabs/lending-service/internal/domain/model"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
	"github.com/iprofitlabs/lending-service/pkg/testutil"
)

func TestDisburseLoanUseCase(t *testing.T) {
	ctx := context.Background()

	newFixture := func(loan model.Loan) (*usecase.DisburseLoanUseCase, *mockLoanLedger, *mockNotifier) {
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(_ context.Context, _ string) (model.Loan, error) {
				return loan, nil
			},
		}
		ledger := &mockLoanLedger{}
		notifier := &mockNotifier{}
		uc := usecase.NewDisburseLoanUseCase(
			loanRepo, ledger, &mockEventPublisher{}, notifier, &mockAuditLogger{}, testLogger())
		return uc, ledger, notifier
	}

	t.Run("activates an approved loan", func(t *testing.T) {
		loan := newPendingLoan(t, testutil.TestUserID1)
		loan, err := loan.Approve("ok", time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		uc, ledger, notifier := newFixture(loan)

		resp, err := uc.Execute(ctx, dto.DisburseLoanRequest{LoanID: loan.ID(), Actor: "admin-1"})
		require.NoError(t, err)

		assert.Equal(t, "ACTIVE", resp.Status)
		assert.Len(t, resp.Schedule, 12)
		require.Len(t, ledger.savedLoans, 1)
		assert.True(t, ledger.savedLoans[0].Status().Equal(valueobject.LoanStatusActive))
		assert.Equal(t, []string{"loan_disbursed"}, notifier.sent)
	})

	t.Run("refuses to disburse before approval", func(t *testing.T) {
		loan := newPendingLoan(t, testutil.TestUserID1)
		uc, ledger, _ := newFixture(loan)

		_, err := uc.Execute(ctx, dto.DisburseLoanRequest{LoanID: loan.ID(), Actor: "admin-1"})
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
		assert.Empty(t, ledger.savedLoans)
	})
}

func TestMarkDefaultUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults an active loan", func(t *testing.T) {
		loan := newActiveLoan(t, testutil.TestUserID1)
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(_ context.Context, _ string) (model.Loan, error) {
				return loan, nil
			},
		}
		ledger := &mockLoanLedger{}
		notifier := &mockNotifier{}
		auditor := &mockAuditLogger{}
		uc := usecase.NewMarkDefaultUseCase(
			loanRepo, ledger, &mockEventPublisher{}, notifier, auditor, testLogger())

		resp, err := uc.Execute(ctx, dto.MarkDefaultRequest{
			LoanID: loan.ID(),
			Actor:  "collections",
			Reason: "90 days past due",
		})
		require.NoError(t, err)

		assert.Equal(t, "DEFAULTED", resp.Status)
		require.Len(t, ledger.savedLoans, 1)
		assert.Equal(t, []string{"loan_defaulted"}, notifier.sent)
		require.Len(t, auditor.entries, 1)
		assert.Equal(t, "loan.default", auditor.entries[0].Action)
	})

	t.Run("refuses loans that are not active", func(t *testing.T) {
		loan := newPendingLoan(t, testutil.TestUserID1)
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(_ context.Context, _ string) (model.Loan, error) {
				return loan, nil
			},
		}
		uc := usecase.NewMarkDefaultUseCase(
			loanRepo, &mockLoanLedger{}, &mockEventPublisher{},
			&mockNotifier{}, &mockAuditLogger{}, testLogger())

		_, err := uc.Execute(ctx, dto.MarkDefaultRequest{LoanID: loan.ID(), Actor: "collections"})
		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
	})
}
