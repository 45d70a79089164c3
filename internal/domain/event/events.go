package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iprofitlabs/lending-service/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Loan lifecycle events
// ---------------------------------------------------------------------------

// LoanApplied is raised when underwriting succeeds and a new loan enters the
// system in PENDING status.
type LoanApplied struct {
	events.BaseEvent
	UserID          string          `json:"user_id"`
	Principal       decimal.Decimal `json:"principal"`
	Currency        string          `json:"currency"`
	InterestRateBps int             `json:"interest_rate_bps"`
	TenureMonths    int             `json:"tenure_months"`
	CreditScore     int             `json:"credit_score"`
}

func NewLoanApplied(
	loanID, userID string,
	principal decimal.Decimal, currency string,
	rateBps, tenureMonths, creditScore int, _ time.Time,
) LoanApplied {
	return LoanApplied{
		BaseEvent:       events.NewBaseEvent("lending.loan.applied", loanID, "Loan"),
		UserID:          userID,
		Principal:       principal,
		Currency:        currency,
		InterestRateBps: rateBps,
		TenureMonths:    tenureMonths,
		CreditScore:     creditScore,
	}
}

// LoanApproved is raised when an admin approves a pending loan.
type LoanApproved struct {
	events.BaseEvent
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

func NewLoanApproved(loanID, userID, reason string, _ time.Time) LoanApproved {
	return LoanApproved{
		BaseEvent: events.NewBaseEvent("lending.loan.approved", loanID, "Loan"),
		UserID:    userID,
		Reason:    reason,
	}
}

// LoanRejected is raised when a pending loan is rejected.
type LoanRejected struct {
	events.BaseEvent
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

func NewLoanRejected(loanID, userID, reason string, _ time.Time) LoanRejected {
	return LoanRejected{
		BaseEvent: events.NewBaseEvent("lending.loan.rejected", loanID, "Loan"),
		UserID:    userID,
		Reason:    reason,
	}
}

// LoanDisbursed is raised when funds are released and the repayment schedule
// becomes authoritative.
type LoanDisbursed struct {
	NextPaymentDue time.Time `json:"next_payment_due"`
	events.BaseEvent
	UserID          string          `json:"user_id"`
	Principal       decimal.Decimal `json:"principal"`
	Currency        string          `json:"currency"`
	InterestRateBps int             `json:"interest_rate_bps"`
	TenureMonths    int             `json:"tenure_months"`
}

func NewLoanDisbursed(
	loanID, userID string,
	principal decimal.Decimal, currency string,
	rateBps, tenureMonths int, nextPaymentDue time.Time, _ time.Time,
) LoanDisbursed {
	return LoanDisbursed{
		BaseEvent:       events.NewBaseEvent("lending.loan.disbursed", loanID, "Loan"),
		UserID:          userID,
		Principal:       principal,
		Currency:        currency,
		InterestRateBps: rateBps,
		TenureMonths:    tenureMonths,
		NextPaymentDue:  nextPaymentDue,
	}
}

// PaymentReceived is raised for every successful payment allocation.
type PaymentReceived struct {
	events.BaseEvent
	UserID                string          `json:"user_id"`
	PrincipalInterestPaid decimal.Decimal `json:"principal_interest_paid"`
	PenaltyPaid           decimal.Decimal `json:"penalty_paid"`
	Currency              string          `json:"currency"`
	RemainingAmount       decimal.Decimal `json:"remaining_amount"`
}

func NewPaymentReceived(
	loanID, userID string,
	principalInterestPaid, penaltyPaid decimal.Decimal,
	currency string,
	remainingAmount decimal.Decimal, _ time.Time,
) PaymentReceived {
	return PaymentReceived{
		BaseEvent:             events.NewBaseEvent("lending.payment.received", loanID, "Loan"),
		UserID:                userID,
		PrincipalInterestPaid: principalInterestPaid,
		PenaltyPaid:           penaltyPaid,
		Currency:              currency,
		RemainingAmount:       remainingAmount,
	}
}

// LoanCompleted is raised when the final installment is settled.
type LoanCompleted struct {
	events.BaseEvent
	UserID string `json:"user_id"`
}

func NewLoanCompleted(loanID, userID string, _ time.Time) LoanCompleted {
	return LoanCompleted{
		BaseEvent: events.NewBaseEvent("lending.loan.completed", loanID, "Loan"),
		UserID:    userID,
	}
}

// LoanDefaulted is raised when an active loan is written to DEFAULTED.
type LoanDefaulted struct {
	events.BaseEvent
	UserID          string          `json:"user_id"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

func NewLoanDefaulted(loanID, userID string, remaining decimal.Decimal, _ time.Time) LoanDefaulted {
	return LoanDefaulted{
		BaseEvent:       events.NewBaseEvent("lending.loan.defaulted", loanID, "Loan"),
		UserID:          userID,
		RemainingAmount: remaining,
	}
}
