package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iprofitlabs/lending-service/internal/application/dto"
	"github.com/iprofitlabs/lending-service/internal/application/usecase"
	"github.com/iprofitlabs/lending-service/internal/domain/event"
	"github.com/iprofitlabs/lending-service/internal/domain/model"
	"github.com/iprofitlabs/lending-service/internal/domain/port"
	"github.com/iprofitlabs/lending-service/internal/domain/service"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
	"github.com/iprofitlabs/lending-service/pkg/testutil"
)

type paymentFixture struct {
	uc        *usecase.MakePaymentUseCase
	loanRepo  *mockLoanRepository
	ledger    *mockLoanLedger
	publisher *mockEventPublisher
	notifier  *mockNotifier
	auditor   *mockAuditLogger
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		loanRepo:  &mockLoanRepository{},
		ledger:    &mockLoanLedger{},
		publisher: &mockEventPublisher{},
		notifier:  &mockNotifier{},
		auditor:   &mockAuditLogger{},
	}
	f.uc = usecase.NewMakePaymentUseCase(
		f.loanRepo, f.ledger, service.NewPaymentAllocator(),
		f.publisher, f.notifier, f.auditor, testLogger(),
	)
	return f
}

// ledgerBackedBy makes the mock ledger run the allocation closure against
// the given loan, the way the real ledger does under its row lock.
func (f *paymentFixture) ledgerBackedBy(loan model.Loan) *port.PaymentCommit {
	var committed port.PaymentCommit
	f.ledger.recordPaymentFunc = func(_ context.Context, _, _ string, fn port.AllocationFunc) (model.PaymentTransaction, bool, error) {
		var pending []model.Installment
		for _, inst := range loan.Schedule() {
			if inst.Status.Equal(valueobject.InstallmentStatusPending) {
				pending = append(pending, inst)
			}
		}
		commit, err := fn(loan, pending)
		if err != nil {
			return model.PaymentTransaction{}, false, err
		}
		committed = commit
		return commit.Transaction, false, nil
	}
	return &committed
}

func TestMakePaymentUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("records a balance payment", func(t *testing.T) {
		f := newPaymentFixture()
		loan := newActiveLoan(t, testutil.TestUserID1)
		committed := f.ledgerBackedBy(loan)

		resp, err := f.uc.Execute(ctx, dto.MakePaymentRequest{
			LoanID:         loan.ID(),
			UserID:         testutil.TestUserID1,
			Amount:         decimal.NewFromInt(100),
			PaymentType:    "FULL_EMI",
			PaymentMethod:  "BALANCE",
			IdempotencyKey: "key-1",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, resp.TransactionID)
		assert.Equal(t, "100", resp.TotalPaid.String())
		assert.False(t, resp.IsCompleted)
		assert.False(t, resp.Replayed)
		require.NotNil(t, resp.NextInstallment)
		assert.Equal(t, 2, resp.NextInstallment.Number)

		assert.Equal(t, "100", committed.DebitAmount.String())
		assert.Equal(t, "key-1", committed.Transaction.IdempotencyKey)
		require.Len(t, committed.Installments, 1)
		assert.True(t, committed.Installments[0].Status.Equal(valueobject.InstallmentStatusPaid))

		assert.NotEmpty(t, f.publisher.publishedEvents)
		assert.Equal(t, []string{"payment_received"}, f.notifier.sent)
		require.Len(t, f.auditor.entries, 1)
		assert.Equal(t, "loan.payment", f.auditor.entries[0].Action)
	})

	t.Run("card payments never touch the balance", func(t *testing.T) {
		f := newPaymentFixture()
		loan := newActiveLoan(t, testutil.TestUserID1)
		committed := f.ledgerBackedBy(loan)

		_, err := f.uc.Execute(ctx, dto.MakePaymentRequest{
			LoanID:        loan.ID(),
			UserID:        testutil.TestUserID1,
			Amount:        decimal.NewFromInt(100),
			PaymentType:   "FULL_EMI",
			PaymentMethod: "CARD",
		})
		require.NoError(t, err)
		assert.True(t, committed.DebitAmount.IsZero())
	})

	t.Run("final payment completes the loan", func(t *testing.T) {
		f := newPaymentFixture()
		loan := newActiveLoan(t, testutil.TestUserID1)
		f.ledgerBackedBy(loan)

		resp, err := f.uc.Execute(ctx, dto.MakePaymentRequest{
			LoanID:        loan.ID(),
			UserID:        testutil.TestUserID1,
			Amount:        decimal.NewFromInt(1200),
			PaymentType:   "FULL_EMI",
			PaymentMethod: "BALANCE",
		})
		require.NoError(t, err)

		assert.True(t, resp.IsCompleted)
		assert.True(t, resp.RemainingAmount.IsZero())
		assert.Nil(t, resp.NextInstallment)
		assert.Equal(t, []string{"loan_completed"}, f.notifier.sent)
	})

	t.Run("replayed key skips allocation and side channels", func(t *testing.T) {
		f := newPaymentFixture()
		loan := newActiveLoan(t, testutil.TestUserID1)

		stored := model.PaymentTransaction{ID: "tx-1", LoanID: loan.ID(), IdempotencyKey: "key-1"}
		f.ledger.recordPaymentFunc = func(_ context.Context, _, _ string, _ port.AllocationFunc) (model.PaymentTransaction, bool, error) {
			return stored, true, nil
		}
		f.loanRepo.findByIDFunc = func(_ context.Context, _ string) (model.Loan, error) {
			return loan, nil
		}

		resp, err := f.uc.Execute(ctx, dto.MakePaymentRequest{
			LoanID:         loan.ID(),
			UserID:         testutil.TestUserID1,
			Amount:         decimal.NewFromInt(100),
			PaymentType:    "FULL_EMI",
			PaymentMethod:  "BALANCE",
			IdempotencyKey: "key-1",
		})
		require.NoError(t, err)

		assert.True(t, resp.Replayed)
		assert.Equal(t, "tx-1", resp.TransactionID)
		assert.Empty(t, f.publisher.publishedEvents)
		assert.Empty(t, f.notifier.sent)
		assert.Empty(t, f.auditor.entries)
	})

	t.Run("rejects a payment against someone else's loan", func(t *testing.T) {
		f := newPaymentFixture()
		loan := newActiveLoan(t, testutil.TestUserID1)
		f.ledgerBackedBy(loan)

		_, err := f.uc.Execute(ctx, dto.MakePaymentRequest{
			LoanID:        loan.ID(),
			UserID:        testutil.TestUserID2,
			Amount:        decimal.NewFromInt(100),
			PaymentType:   "FULL_EMI",
			PaymentMethod: "BALANCE",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not belong to user")
	})

	t.Run("rejects prepayment before any write", func(t *testing.T) {
		f := newPaymentFixture()
		loan := newActiveLoan(t, testutil.TestUserID1)
		f.ledgerBackedBy(loan)

		_, err := f.uc.Execute(ctx, dto.MakePaymentRequest{
			LoanID:        loan.ID(),
			UserID:        testutil.TestUserID1,
			Amount:        decimal.NewFromInt(500),
			PaymentType:   "PREPAYMENT",
			PaymentMethod: "BALANCE",
		})
		assert.ErrorIs(t, err, valueobject.ErrPrepaymentUnsupported)
		assert.Empty(t, f.publisher.publishedEvents)
	})

	t.Run("surfaces an insufficient balance", func(t *testing.T) {
		f := newPaymentFixture()
		f.ledger.recordPaymentFunc = func(_ context.Context, _, _ string, _ port.AllocationFunc) (model.PaymentTransaction, bool, error) {
			return model.PaymentTransaction{}, false, valueobject.ErrInsufficientBalance
		}

		_, err := f.uc.Execute(ctx, dto.MakePaymentRequest{
			LoanID:        "loan-1",
			UserID:        testutil.TestUserID1,
			Amount:        decimal.NewFromInt(100),
			PaymentType:   "FULL_EMI",
			PaymentMethod: "BALANCE",
		})
		assert.ErrorIs(t, err, valueobject.ErrInsufficientBalance)
	})

	t.Run("side channel failures never fail the payment", func(t *testing.T) {
		f := newPaymentFixture()
		loan := newActiveLoan(t, testutil.TestUserID1)
		f.ledgerBackedBy(loan)
		f.publisher.publishFunc = func(_ context.Context, _ ...event.DomainEvent) error {
			return fmt.Errorf("broker down")
		}
		f.notifier.sendFunc = func(_ context.Context, _, _ string, _ map[string]string) error {
			return fmt.Errorf("smtp down")
		}
		f.auditor.appendFunc = func(_ context.Context, _ port.AuditEntry) error {
			return fmt.Errorf("audit topic down")
		}

		resp, err := f.uc.Execute(ctx, dto.MakePaymentRequest{
			LoanID:        loan.ID(),
			UserID:        testutil.TestUserID1,
			Amount:        decimal.NewFromInt(100),
			PaymentType:   "FULL_EMI",
			PaymentMethod: "BALANCE",
		})
		require.NoError(t, err)
		assert.Equal(t, "100", resp.TotalPaid.String())
	})

	t.Run("rejects malformed payment intents", func(t *testing.T) {
		f := newPaymentFixture()

		_, err := f.uc.Execute(ctx, dto.MakePaymentRequest{
			LoanID:        "loan-1",
			UserID:        testutil.TestUserID1,
			Amount:        decimal.NewFromInt(100),
			PaymentType:   "SOMETHING_ELSE",
			PaymentMethod: "BALANCE",
		})
		assert.ErrorIs(t, err, valueobject.ErrValidation)

		_, err = f.uc.Execute(ctx, dto.MakePaymentRequest{
			LoanID:        "loan-1",
			UserID:        testutil.TestUserID1,
			Amount:        decimal.Zero,
			PaymentType:   "FULL_EMI",
			PaymentMethod: "BALANCE",
		})
		assert.ErrorIs(t, err, valueobject.ErrInvalidPaymentAmount)
	})
}
