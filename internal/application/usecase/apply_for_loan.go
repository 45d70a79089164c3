package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iprofitlabs/lending-service/internal/application/dto"
	"github.com/iprofitlabs/lending-service/internal/domain/model"
	"github.com/iprofitlabs/lending-service/internal/domain/port"
	"github.com/iprofitlabs/lending-service/internal/domain/service"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
)

const schedulePreviewLength = 3

// ApplyForLoanUseCase orchestrates a new loan application: KYC and profile
// lookups, credit scoring, eligibility evaluation, schedule generation and
// the initial ledger write.
type ApplyForLoanUseCase struct {
	loanRepo  port.LoanRepository
	ledger    port.LoanLedger
	publisher port.EventPublisher
	kyc       port.KYCClient
	directory port.ApplicantDirectory
	scorer    service.CreditScorer
	evaluator *service.EligibilityEvaluator
	notifier  port.Notifier
	auditor   port.AuditLogger
	logger    *slog.Logger
}

// NewApplyForLoanUseCase wires dependencies.
func NewApplyForLoanUseCase(
	loanRepo port.LoanRepository,
	ledger port.LoanLedger,
	publisher port.EventPublisher,
	kyc port.KYCClient,
	directory port.ApplicantDirectory,
	scorer service.CreditScorer,
	evaluator *service.EligibilityEvaluator,
	notifier port.Notifier,
	auditor port.AuditLogger,
	logger *slog.Logger,
) *ApplyForLoanUseCase {
	return &ApplyForLoanUseCase{
		loanRepo:  loanRepo,
		ledger:    ledger,
		publisher: publisher,
		kyc:       kyc,
		directory: directory,
		scorer:    scorer,
		evaluator: evaluator,
		notifier:  notifier,
		auditor:   auditor,
		logger:    logger,
	}
}

// Execute underwrites and persists a loan application. Eligibility failures
// are returned as errors wrapping the corresponding sentinel; no loan record
// is written for a rejected application.
func (uc *ApplyForLoanUseCase) Execute(
	ctx context.Context,
	req dto.ApplyLoanRequest,
) (dto.ApplyLoanResponse, error) {
	now := time.Now().UTC()

	// 1. Validate the request shape.
	if err := validateApplyRequest(req); err != nil {
		return dto.ApplyLoanResponse{}, err
	}

	// 2. Look up KYC status and applicant profile.
	kycStatus, err := uc.kyc.Status(ctx, req.UserID)
	if err != nil {
		return dto.ApplyLoanResponse{}, fmt.Errorf("fetch KYC status: %w", err)
	}
	profile, err := uc.directory.Profile(ctx, req.UserID)
	if err != nil {
		return dto.ApplyLoanResponse{}, fmt.Errorf("fetch applicant profile: %w", err)
	}

	// 3. One open loan per user.
	hasOpen, err := uc.loanRepo.HasOpenLoan(ctx, req.UserID)
	if err != nil {
		return dto.ApplyLoanResponse{}, fmt.Errorf("check open loans: %w", err)
	}

	// 4. Score the applicant.
	score := uc.scorer.Score(service.ScoreInput{
		MonthlyIncome:             req.MonthlyIncome,
		BankBalance:               req.FinancialDetails.BankBalance,
		ExistingLoans:             req.FinancialDetails.ExistingLoans,
		EmploymentStabilityMonths: stabilityMonths(req.EmploymentDetails.WorkingSince, now),
		PaymentHistory:            profile.PaymentHistory,
		Age:                       profile.Age,
	})

	// 5. Run the ordered eligibility checks.
	result, err := uc.evaluator.Evaluate(service.EligibilityInput{
		KYCStatus:       kycStatus,
		HasOpenLoan:     hasOpen,
		CreditScore:     score,
		RequestedAmount: req.Amount,
		TenureMonths:    req.TenureMonths,
		MonthlyIncome:   req.MonthlyIncome,
		ExistingLoans:   req.FinancialDetails.ExistingLoans,
	})
	if err != nil {
		uc.appendAudit(ctx, port.AuditEntry{
			Actor:      req.UserID,
			Action:     "loan.apply.rejected",
			UserID:     req.UserID,
			Detail:     map[string]string{"reason": err.Error()},
			OccurredAt: now,
		})
		return dto.ApplyLoanResponse{}, fmt.Errorf("eligibility check failed: %w", err)
	}

	// 6. Create the aggregate with its amortization schedule.
	financials := model.FinancialDetails{
		MonthlyIncome:   req.MonthlyIncome,
		BankBalance:     req.FinancialDetails.BankBalance,
		ExistingLoans:   req.FinancialDetails.ExistingLoans,
		MonthlyExpenses: req.FinancialDetails.MonthlyExpenses,
		OtherIncome:     req.FinancialDetails.OtherIncome,
	}
	employment := model.EmploymentDetails{
		CompanyName:    req.EmploymentDetails.CompanyName,
		Designation:    req.EmploymentDetails.Designation,
		WorkingSince:   req.EmploymentDetails.WorkingSince,
		CompanyAddress: req.EmploymentDetails.CompanyAddress,
	}
	loan, err := model.NewLoan(
		req.UserID, req.Amount, req.Currency,
		result.InterestRateBps, req.TenureMonths, result.CreditScore,
		req.Purpose, req.EmploymentStatus,
		employment, financials,
		req.Collateral, toDocuments(req.Documents),
		now,
	)
	if err != nil {
		return dto.ApplyLoanResponse{}, fmt.Errorf("create loan: %w", err)
	}

	// 7. Persist loan and schedule in one transaction.
	if err := uc.ledger.CreateLoan(ctx, loan); err != nil {
		return dto.ApplyLoanResponse{}, fmt.Errorf("create loan record: %w", err)
	}

	// 8. Side channels after the commit.
	uc.publishEvents(ctx, loan)
	uc.appendAudit(ctx, port.AuditEntry{
		Actor:  req.UserID,
		Action: "loan.apply",
		LoanID: loan.ID(),
		UserID: req.UserID,
		Detail: map[string]string{
			"amount":       req.Amount.String(),
			"credit_score": fmt.Sprintf("%d", result.CreditScore),
			"rate_bps":     fmt.Sprintf("%d", result.InterestRateBps),
		},
		OccurredAt: now,
	})
	uc.notify(ctx, req.UserID, "loan_applied", map[string]string{
		"loan_id": loan.ID(),
		"amount":  req.Amount.StringFixed(2),
		"emi":     loan.EMIAmount().StringFixed(2),
	})

	preview := loan.Schedule()
	if len(preview) > schedulePreviewLength {
		preview = preview[:schedulePreviewLength]
	}
	return dto.ApplyLoanResponse{
		LoanID:          loan.ID(),
		Status:          loan.Status().String(),
		InterestRate:    rateBpsToPercent(result.InterestRateBps),
		EMIAmount:       loan.EMIAmount(),
		CreditScore:     result.CreditScore,
		TenureMonths:    req.TenureMonths,
		SchedulePreview: toInstallmentResponses(preview),
	}, nil
}

func (uc *ApplyForLoanUseCase) publishEvents(ctx context.Context, loan model.Loan) {
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		uc.logger.Error("publish loan events", "loan_id", loan.ID(), "error", err)
	}
}

func (uc *ApplyForLoanUseCase) appendAudit(ctx context.Context, entry port.AuditEntry) {
	if err := uc.auditor.Append(ctx, entry); err != nil {
		uc.logger.Error("append audit entry", "action", entry.Action, "error", err)
	}
}

func (uc *ApplyForLoanUseCase) notify(ctx context.Context, userID, template string, vars map[string]string) {
	if err := uc.notifier.Send(ctx, userID, template, vars); err != nil {
		uc.logger.Error("send notification", "template", template, "user_id", userID, "error", err)
	}
}

func validateApplyRequest(req dto.ApplyLoanRequest) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: user ID is required", valueobject.ErrValidation)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", valueobject.ErrValidation)
	}
	if req.TenureMonths <= 0 {
		return fmt.Errorf("%w: tenure months must be positive", valueobject.ErrValidation)
	}
	if req.Currency == "" {
		return fmt.Errorf("%w: currency is required", valueobject.ErrValidation)
	}
	if !req.AgreeToTerms {
		return fmt.Errorf("%w: terms must be accepted", valueobject.ErrValidation)
	}
	return nil
}

func toDocuments(in []dto.DocumentPayload) []model.Document {
	if len(in) == 0 {
		return nil
	}
	out := make([]model.Document, 0, len(in))
	for _, d := range in {
		out = append(out, model.Document{Type: d.Type, URL: d.URL, Filename: d.Filename})
	}
	return out
}

// stabilityMonths derives employment tenure in months from the free-form
// working-since field. Unparseable input counts as zero tenure.
func stabilityMonths(workingSince string, now time.Time) int {
	var start time.Time
	var err error
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		start, err = time.Parse(layout, workingSince)
		if err == nil {
			break
		}
	}
	if err != nil || start.After(now) {
		return 0
	}
	months := int(now.Sub(start).Hours() / (24 * 30))
	return months
}
