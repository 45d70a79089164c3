package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iprofitlabs/lending-service/internal/domain/model"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// EligibilityEvaluator – ordered underwriting checks
// ---------------------------------------------------------------------------

// EligibilityConfig holds the configurable underwriting limits. The interest
// rate tiers themselves are fixed.
type EligibilityConfig struct {
	MinCreditScore int
	MaxDTIPercent  decimal.Decimal
}

// DefaultEligibilityConfig returns the production limits.
func DefaultEligibilityConfig() EligibilityConfig {
	return EligibilityConfig{
		MinCreditScore: 600,
		MaxDTIPercent:  decimal.NewFromInt(40),
	}
}

// EligibilityInput carries every fact the evaluator needs. KYC status and the
// open-loan fact are looked up by the caller; the evaluator itself performs
// no I/O and no writes.
type EligibilityInput struct {
	KYCStatus       valueobject.KYCStatus
	HasOpenLoan     bool
	CreditScore     int
	RequestedAmount decimal.Decimal
	TenureMonths    int
	MonthlyIncome   decimal.Decimal
	ExistingLoans   decimal.Decimal
}

// EligibilityResult is the successful underwriting outcome: the approved rate,
// the EMI at that rate, and the DTI that was accepted.
type EligibilityResult struct {
	CreditScore     int
	InterestRateBps int
	EMI             decimal.Decimal
	DTIPercent      decimal.Decimal
}

// EligibilityEvaluator applies the ordered underwriting checks. Each check
// short-circuits with a distinct rejection wrapping a sentinel error.
type EligibilityEvaluator struct {
	cfg EligibilityConfig
}

// NewEligibilityEvaluator creates an evaluator with the given limits.
func NewEligibilityEvaluator(cfg EligibilityConfig) *EligibilityEvaluator {
	return &EligibilityEvaluator{cfg: cfg}
}

// RateTierForScore maps a credit score onto the fixed interest-rate tiers:
//
//	score >= 750 -> 12.00% (1200 bps)
//	score >= 700 -> 15.00% (1500 bps)
//	score >= 650 -> 18.00% (1800 bps)
//	otherwise    -> 20.00% (2000 bps)
func RateTierForScore(score int) int {
	switch {
	case score >= 750:
		return 1200
	case score >= 700:
		return 1500
	case score >= 650:
		return 1800
	default:
		return 2000
	}
}

// Evaluate runs the checks in order: KYC, open loan, minimum score, rate
// tiering, then EMI/DTI. On success it returns the approved terms.
func (e *EligibilityEvaluator) Evaluate(in EligibilityInput) (EligibilityResult, error) {
	if !in.KYCStatus.IsApproved() {
		return EligibilityResult{}, fmt.Errorf("%w: status is %s",
			valueobject.ErrKYCNotApproved, in.KYCStatus)
	}

	if in.HasOpenLoan {
		return EligibilityResult{}, valueobject.ErrOpenLoanExists
	}

	if in.CreditScore < e.cfg.MinCreditScore {
		return EligibilityResult{}, fmt.Errorf("%w: required %d, got %d",
			valueobject.ErrScoreTooLow, e.cfg.MinCreditScore, in.CreditScore)
	}

	rateBps := RateTierForScore(in.CreditScore)

	emi := model.MonthlyInstallment(in.RequestedAmount, rateBps, in.TenureMonths)
	if emi.LessThanOrEqual(decimal.Zero) {
		return EligibilityResult{}, fmt.Errorf("cannot compute EMI for amount %s over %d months",
			in.RequestedAmount, in.TenureMonths)
	}

	if in.MonthlyIncome.LessThanOrEqual(decimal.Zero) {
		return EligibilityResult{}, fmt.Errorf("%w: monthly income must be positive",
			valueobject.ErrDTITooHigh)
	}

	// DTI = (existing obligations + new EMI) / monthly income, as a percent.
	dti := in.ExistingLoans.Add(emi).
		Div(in.MonthlyIncome).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	if dti.GreaterThan(e.cfg.MaxDTIPercent) {
		return EligibilityResult{}, fmt.Errorf("%w: limit %s%%, computed %s%%",
			valueobject.ErrDTITooHigh, e.cfg.MaxDTIPercent, dti)
	}

	return EligibilityResult{
		CreditScore:     in.CreditScore,
		InterestRateBps: rateBps,
		EMI:             emi,
		DTIPercent:      dti,
	}, nil
}
