package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iprofitlabs/lending-service/internal/application/dto"
	"github.com/iprofitlabs/lending-service/internal/domain/port"
)

// MarkDefaultUseCase writes off an ACTIVE loan as DEFAULTED. The delinquency
// policy deciding when to invoke it lives outside this service.
type MarkDefaultUseCase struct {
	loanRepo  port.LoanRepository
	ledger    port.LoanLedger
	publisher port.EventPublisher
	notifier  port.Notifier
	auditor   port.AuditLogger
	logger    *slog.Logger
}

// NewMarkDefaultUseCase wires dependencies.
func NewMarkDefaultUseCase(
	loanRepo port.LoanRepository,
	ledger port.LoanLedger,
	publisher port.EventPublisher,
	notifier port.Notifier,
	auditor port.AuditLogger,
	logger *slog.Logger,
) *MarkDefaultUseCase {
	return &MarkDefaultUseCase{
		loanRepo:  loanRepo,
		ledger:    ledger,
		publisher: publisher,
		notifier:  notifier,
		auditor:   auditor,
		logger:    logger,
	}
}

// Execute transitions ACTIVE -> DEFAULTED.
func (uc *MarkDefaultUseCase) Execute(
	ctx context.Context,
	req dto.MarkDefaultRequest,
) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	// 1. Load the aggregate.
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 2. Default.
	defaulted, err := loan.MarkDefaulted(now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("mark defaulted: %w", err)
	}

	// 3. Persist.
	if err := uc.ledger.SaveLoan(ctx, defaulted); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 4. Side channels after the commit.
	if err := uc.publisher.Publish(ctx, defaulted.DomainEvents()...); err != nil {
		uc.logger.Error("publish default events", "loan_id", defaulted.ID(), "error", err)
	}
	if err := uc.auditor.Append(ctx, port.AuditEntry{
		Actor:      req.Actor,
		Action:     "loan.default",
		LoanID:     defaulted.ID(),
		UserID:     defaulted.UserID(),
		Detail:     map[string]string{"reason": req.Reason},
		OccurredAt: now,
	}); err != nil {
		uc.logger.Error("append audit entry", "action", "loan.default", "error", err)
	}
	if err := uc.notifier.Send(ctx, defaulted.UserID(), "loan_defaulted", map[string]string{
		"loan_id":   defaulted.ID(),
		"remaining": defaulted.RemainingAmount().StringFixed(2),
	}); err != nil {
		uc.logger.Error("send notification", "template", "loan_defaulted", "error", err)
	}

	return toLoanResponse(defaulted, false), nil
}
