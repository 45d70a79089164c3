package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iprofitlabs/lending-service/internal/application/dto"
	"github.com/iprofitlabs/lending-service/internal/domain/model"
	"github.com/iprofitlabs/lending-service/internal/domain/port"
)

// ReviewLoanUseCase applies an admin approve/reject decision to a PENDING
// loan.
type ReviewLoanUseCase struct {
	loanRepo  port.LoanRepository
	ledger    port.LoanLedger
	publisher port.EventPublisher
	notifier  port.Notifier
	auditor   port.AuditLogger
	logger    *slog.Logger
}

// NewReviewLoanUseCase wires dependencies.
func NewReviewLoanUseCase(
	loanRepo port.LoanRepository,
	ledger port.LoanLedger,
	publisher port.EventPublisher,
	notifier port.Notifier,
	auditor port.AuditLogger,
	logger *slog.Logger,
) *ReviewLoanUseCase {
	return &ReviewLoanUseCase{
		loanRepo:  loanRepo,
		ledger:    ledger,
		publisher: publisher,
		notifier:  notifier,
		auditor:   auditor,
		logger:    logger,
	}
}

// Execute transitions the loan to APPROVED or REJECTED and records the
// decision reason.
func (uc *ReviewLoanUseCase) Execute(
	ctx context.Context,
	req dto.ReviewLoanRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	// 1. Load the aggregate.
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 2. Apply the decision.
	var decided model.Loan
	var action, template string
	if req.Approve {
		decided, err = loan.Approve(req.Reason, now)
		action, template = "loan.approve", "loan_approved"
	} else {
		decided, err = loan.Reject(req.Reason, now)
		action, template = "loan.reject", "loan_rejected"
	}
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("apply review decision: %w", err)
	}

	// 3. Persist with the optimistic version check.
	if err := uc.ledger.SaveLoan(ctx, decided); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 4. Side channels after the commit.
	if err := uc.publisher.Publish(ctx, decided.DomainEvents()...); err != nil {
		uc.logger.Error("publish review events", "loan_id", decided.ID(), "error", err)
	}
	if err := uc.auditor.Append(ctx, port.AuditEntry{
		Actor:      req.Reviewer,
		Action:     action,
		LoanID:     decided.ID(),
		UserID:     decided.UserID(),
		Detail:     map[string]string{"reason": req.Reason},
		OccurredAt: now,
	}); err != nil {
		uc.logger.Error("append audit entry", "action", action, "error", err)
	}
	if err := uc.notifier.Send(ctx, decided.UserID(), template, map[string]string{
		"loan_id": decided.ID(),
		"reason":  req.Reason,
	}); err != nil {
		uc.logger.Error("send notification", "template", template, "error", err)
	}

	return toLoanResponse(decided, false), nil
}
