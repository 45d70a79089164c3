package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iprofitlabs/lending-service/internal/application/dto"
	"github.com/iprofitlabs/lending-service/internal/domain/port"
)

// DisburseLoanUseCase releases funds for an APPROVED loan and activates the
// repayment schedule.
type DisburseLoanUseCase struct {
	loanRepo  port.LoanRepository
	ledger    port.LoanLedger
	publisher port.EventPublisher
	notifier  port.Notifier
	auditor   port.AuditLogger
	logger    *slog.Logger
}

// NewDisburseLoanUseCase wires dependencies.
func NewDisburseLoanUseCase(
	loanRepo port.LoanRepository,
	ledger port.LoanLedger,
	publisher port.EventPublisher,
	notifier port.Notifier,
	auditor port.AuditLogger,
	logger *slog.Logger,
) *DisburseLoanUseCase {
	return &DisburseLoanUseCase{
		loanRepo:  loanRepo,
		ledger:    ledger,
		publisher: publisher,
		notifier:  notifier,
		auditor:   auditor,
		logger:    logger,
	}
}

// Execute transitions APPROVED -> ACTIVE. From the returned state on,
// payments are accepted against the schedule.
func (uc *DisburseLoanUseCase) Execute(
	ctx context.Context,
	req dto.DisburseLoanRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	// 1. Load the aggregate.
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 2. Activate.
	active, err := loan.Disburse(now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("disburse loan: %w", err)
	}

	// 3. Persist.
	if err := uc.ledger.SaveLoan(ctx, active); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 4. Side channels after the commit.
	if err := uc.publisher.Publish(ctx, active.DomainEvents()...); err != nil {
		uc.logger.Error("publish disbursal events", "loan_id", active.ID(), "error", err)
	}
	if err := uc.auditor.Append(ctx, port.AuditEntry{
		Actor:      req.Actor,
		Action:     "loan.disburse",
		LoanID:     active.ID(),
		UserID:     active.UserID(),
		OccurredAt: now,
	}); err != nil {
		uc.logger.Error("append audit entry", "action", "loan.disburse", "error", err)
	}
	vars := map[string]string{
		"loan_id": active.ID(),
		"amount":  active.Principal().StringFixed(2),
	}
	if next, ok := active.NextPendingInstallment(); ok {
		vars["first_due"] = next.DueDate.Format("2006-01-02")
	}
	if err := uc.notifier.Send(ctx, active.UserID(), "loan_disbursed", vars); err != nil {
		uc.logger.Error("send notification", "template", "loan_disbursed", "error", err)
	}

	return toLoanResponse(active, true), nil
}
