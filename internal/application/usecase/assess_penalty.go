package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iprofitlabs/lending-service/internal/application/dto"
	"github.com/iprofitlabs/lending-service/internal/domain/port"
)

// AssessPenaltyUseCase records an externally computed late charge on an
// ACTIVE loan. Penalties accumulate until a payment clears them.
type AssessPenaltyUseCase struct {
	loanRepo port.LoanRepository
	ledger   port.LoanLedger
	auditor  port.AuditLogger
	logger   *slog.Logger
}

// NewAssessPenaltyUseCase wires dependencies.
func NewAssessPenaltyUseCase(
	loanRepo port.LoanRepository,
	ledger port.LoanLedger,
	auditor port.AuditLogger,
	logger *slog.Logger,
) *AssessPenaltyUseCase {
	return &AssessPenaltyUseCase{
		loanRepo: loanRepo,
		ledger:   ledger,
		auditor:  auditor,
		logger:   logger,
	}
}

// Execute adds the penalty to the loan's outstanding penalty balance.
func (uc *AssessPenaltyUseCase) Execute(
	ctx context.Context,
	req dto.AssessPenaltyRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	// 1. Load the aggregate.
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 2. Apply the charge.
	charged, err := loan.AssessPenalty(req.PenaltyAmount, req.OverdueAmount, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("assess penalty: %w", err)
	}

	// 3. Persist.
	if err := uc.ledger.SaveLoan(ctx, charged); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 4. Audit after the commit.
	if err := uc.auditor.Append(ctx, port.AuditEntry{
		Actor:  req.Actor,
		Action: "loan.penalty",
		LoanID: charged.ID(),
		UserID: charged.UserID(),
		Detail: map[string]string{
			"penalty": req.PenaltyAmount.String(),
			"overdue": req.OverdueAmount.String(),
			"reason":  req.Reason,
		},
		OccurredAt: now,
	}); err != nil {
		uc.logger.Error("append audit entry", "action", "loan.penalty", "error", err)
	}

	return toLoanResponse(charged, false), nil
}
