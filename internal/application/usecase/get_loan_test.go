package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iprofitlabs/lending-service/internal/application/dto"
	"github.com/iprofitlabs/lending-service/internal/application/usecase"
	"github.com/iprofitlabs/lending-service/internal/domain/model"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
	"github.com/iprofitlabs/lending-service/pkg/testutil"
)

func TestGetLoanUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("returns one loan with its schedule", func(t *testing.T) {
		loan := newActiveLoan(t, testutil.TestUserID1)
		uc := usecase.NewGetLoanUseCase(&mockLoanRepository{
			findByIDFunc: func(_ context.Context, id string) (model.Loan, error) {
				assert.Equal(t, loan.ID(), id)
				return loan, nil
			},
		})

		resp, err := uc.Execute(ctx, dto.GetLoanRequest{LoanID: loan.ID()})
		require.NoError(t, err)

		assert.Equal(t, loan.ID(), resp.ID)
		assert.Equal(t, "ACTIVE", resp.Status)
		assert.Len(t, resp.Schedule, 12)
		assert.Equal(t, "100", resp.EMIAmount.String())
	})

	t.Run("lists a user's loans without schedules", func(t *testing.T) {
		first := newActiveLoan(t, testutil.TestUserID1)
		second := newPendingLoan(t, testutil.TestUserID1)
		uc := usecase.NewGetLoanUseCase(&mockLoanRepository{
			findByUserIDFunc: func(_ context.Context, _ string) ([]model.Loan, error) {
				return []model.Loan{first, second}, nil
			},
		})

		resp, err := uc.ListByUser(ctx, dto.ListLoansRequest{UserID: testutil.TestUserID1})
		require.NoError(t, err)

		require.Len(t, resp, 2)
		assert.Empty(t, resp[0].Schedule)
		assert.Empty(t, resp[1].Schedule)
	})

	t.Run("propagates not found", func(t *testing.T) {
		uc := usecase.NewGetLoanUseCase(&mockLoanRepository{})
		_, err := uc.Execute(ctx, dto.GetLoanRequest{LoanID: "missing"})
		assert.ErrorIs(t, err, valueobject.ErrLoanNotFound)
	})
}

func TestAssessPenaltyUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a late charge to an active loan", func(t *testing.T) {
		loan := newActiveLoan(t, testutil.TestUserID1)
		ledger := &mockLoanLedger{}
		auditor := &mockAuditLogger{}
		uc := usecase.NewAssessPenaltyUseCase(&mockLoanRepository{
			findByIDFunc: func(_ context.Context, _ string) (model.Loan, error) {
				return loan, nil
			},
		}, ledger, auditor, testLogger())

		resp, err := uc.Execute(ctx, dto.AssessPenaltyRequest{
			LoanID:        loan.ID(),
			PenaltyAmount: decimal.NewFromInt(25),
			OverdueAmount: decimal.NewFromInt(100),
			Actor:         "scheduler",
			Reason:        "installment 1 overdue",
		})
		require.NoError(t, err)

		assert.Equal(t, "25", resp.PenaltyAmount.String())
		assert.Equal(t, "100", resp.OverdueAmount.String())
		require.Len(t, ledger.savedLoans, 1)
		require.Len(t, auditor.entries, 1)
		assert.Equal(t, "loan.penalty", auditor.entries[0].Action)
	})

	t.Run("refuses loans that are not active", func(t *testing.T) {
		loan := newPendingLoan(t, testutil.TestUserID1)
		uc := usecase.NewAssessPenaltyUseCase(&mockLoanRepository{
			findByIDFunc: func(_ context.Context, _ string) (model.Loan, error) {
				return loan, nil
			},
		}, &mockLoanLedger{}, &mockAuditLogger{}, testLogger())

		_, err := uc.Execute(ctx, dto.AssessPenaltyRequest{
			LoanID:        loan.ID(),
			PenaltyAmount: decimal.NewFromInt(25),
			Actor:         "scheduler",
		})
		assert.ErrorIs(t, err, valueobject.ErrLoanNotActive)
	})
}
