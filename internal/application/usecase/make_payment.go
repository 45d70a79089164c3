package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iprofitlabs/lending-service/internal/application/dto"
	"github.com/iprofitlabs/lending-service/internal/domain/model"
	"github.com/iprofitlabs/lending-service/internal/domain/port"
	"github.com/iprofitlabs/lending-service/internal/domain/service"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
)

// MakePaymentUseCase records a repayment: allocation, installment updates,
// loan aggregates, the transaction record and the balance debit commit as one
// unit through the ledger.
type MakePaymentUseCase struct {
	loanRepo  port.LoanRepository
	ledger    port.LoanLedger
	allocator *service.PaymentAllocator
	publisher port.EventPublisher
	notifier  port.Notifier
	auditor   port.AuditLogger
	logger    *slog.Logger
}

// NewMakePaymentUseCase wires dependencies.
func NewMakePaymentUseCase(
	loanRepo port.LoanRepository,
	ledger port.LoanLedger,
	allocator *service.PaymentAllocator,
	publisher port.EventPublisher,
	notifier port.Notifier,
	auditor port.AuditLogger,
	logger *slog.Logger,
) *MakePaymentUseCase {
	return &MakePaymentUseCase{
		loanRepo:  loanRepo,
		ledger:    ledger,
		allocator: allocator,
		publisher: publisher,
		notifier:  notifier,
		auditor:   auditor,
		logger:    logger,
	}
}

// Execute processes one payment. Replayed idempotency keys return the stored
// transaction without touching any balance. Failures from the event
// publisher, notifier and audit log are logged and swallowed; the committed
// financial write is never rolled back for them.
func (uc *MakePaymentUseCase) Execute(
	ctx context.Context,
	req dto.MakePaymentRequest,
) (dto.PaymentResponse, error) {
	now := time.Now().UTC()

	// 1. Parse the payment intent.
	paymentType, err := valueobject.NewPaymentType(req.PaymentType)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("%w: %v", valueobject.ErrValidation, err)
	}
	paymentMethod, err := valueobject.NewPaymentMethod(req.PaymentMethod)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("%w: %v", valueobject.ErrValidation, err)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return dto.PaymentResponse{}, valueobject.ErrInvalidPaymentAmount
	}

	// A request without a client key gets a fresh one: the write is still
	// recorded, it just cannot be replayed.
	idempotencyKey := req.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = uuid.New().String()
	}

	// 2. Run the allocation under the ledger's per-loan lock. The closure
	// sees the loan and its pending installments as of the locked read and
	// captures the updated aggregate for the response.
	var updated model.Loan
	tx, replayed, err := uc.ledger.RecordPayment(ctx, req.LoanID, idempotencyKey,
		func(loan model.Loan, pending []model.Installment) (port.PaymentCommit, error) {
			if loan.UserID() != req.UserID {
				return port.PaymentCommit{}, fmt.Errorf("loan %s does not belong to user %s", loan.ID(), req.UserID)
			}

			alloc, err := uc.allocator.Allocate(loan, pending, req.Amount, paymentType, now)
			if err != nil {
				return port.PaymentCommit{}, err
			}

			next, err := loan.ApplyPayment(alloc.PrincipalInterestPaid, alloc.PenaltyPaid, alloc.SettledAll, now)
			if err != nil {
				return port.PaymentCommit{}, err
			}
			next = next.WithSchedule(mergeSchedule(loan.Schedule(), alloc.Touched))

			record, err := model.NewPaymentTransaction(
				loan.ID(), loan.UserID(), req.Amount, loan.Currency(),
				paymentType, paymentMethod,
				alloc.PenaltyPaid, alloc.Breakdown,
				req.PaymentNote, idempotencyKey, now,
			)
			if err != nil {
				return port.PaymentCommit{}, err
			}

			debit := decimal.Zero
			if paymentMethod.Equal(valueobject.PaymentMethodBalance) {
				debit = req.Amount
			}

			updated = next
			return port.PaymentCommit{
				Loan:         next,
				Installments: alloc.Touched,
				Transaction:  record,
				DebitAmount:  debit,
			}, nil
		})
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("record payment: %w", err)
	}

	// 3. A replay means the allocation never ran; rebuild the response view
	// from the current state.
	if replayed {
		loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
		if err != nil {
			return dto.PaymentResponse{}, fmt.Errorf("find loan after replay: %w", err)
		}
		updated = loan
	}

	// 4. Side channels after the commit, skipped on replay.
	if !replayed {
		if err := uc.publisher.Publish(ctx, updated.DomainEvents()...); err != nil {
			uc.logger.Error("publish payment events", "loan_id", updated.ID(), "error", err)
		}
		if err := uc.auditor.Append(ctx, port.AuditEntry{
			Actor:  req.UserID,
			Action: "loan.payment",
			LoanID: updated.ID(),
			UserID: req.UserID,
			Detail: map[string]string{
				"transaction_id": tx.ID,
				"amount":         req.Amount.String(),
				"payment_type":   paymentType.String(),
			},
			OccurredAt: now,
		}); err != nil {
			uc.logger.Error("append audit entry", "action", "loan.payment", "error", err)
		}
		template := "payment_received"
		if updated.Status().Equal(valueobject.LoanStatusCompleted) {
			template = "loan_completed"
		}
		if err := uc.notifier.Send(ctx, req.UserID, template, map[string]string{
			"loan_id":   updated.ID(),
			"amount":    req.Amount.StringFixed(2),
			"remaining": updated.RemainingAmount().StringFixed(2),
		}); err != nil {
			uc.logger.Error("send notification", "template", template, "error", err)
		}
	}

	return dto.PaymentResponse{
		TransactionID:   tx.ID,
		LoanID:          updated.ID(),
		Status:          updated.Status().String(),
		TotalPaid:       updated.TotalPaid(),
		RemainingAmount: updated.RemainingAmount(),
		PenaltyAmount:   updated.PenaltyAmount(),
		IsCompleted:     updated.Status().Equal(valueobject.LoanStatusCompleted),
		Replayed:        replayed,
		NextInstallment: toNextInstallmentResponse(updated),
	}, nil
}

// mergeSchedule overlays the touched installment copies onto the full
// schedule, matching by installment number.
func mergeSchedule(schedule, touched []model.Installment) []model.Installment {
	byNumber := make(map[int]model.Installment, len(touched))
	for _, inst := range touched {
		byNumber[inst.Number] = inst
	}
	out := make([]model.Installment, len(schedule))
	copy(out, schedule)
	for i := range out {
		if inst, ok := byNumber[out[i].Number]; ok {
			out[i] = inst
		}
	}
	return out
}
