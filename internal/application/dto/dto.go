package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// EmploymentDetailsPayload mirrors the employment snapshot fields.
type EmploymentDetailsPayload struct {
	CompanyName    string `json:"company_name"`
	Designation    string `json:"designation"`
	WorkingSince   string `json:"working_since"`
	CompanyAddress string `json:"company_address"`
}

// FinancialDetailsPayload mirrors the financial snapshot fields.
type FinancialDetailsPayload struct {
	BankBalance     decimal.Decimal `json:"bank_balance"`
	ExistingLoans   decimal.Decimal `json:"existing_loans"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	OtherIncome     decimal.Decimal `json:"other_income,omitempty"`
}

// DocumentPayload is one supporting document reference.
type DocumentPayload struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// ApplyLoanRequest carries a new loan application.
type ApplyLoanRequest struct {
	UserID            string                   `json:"user_id"`
	Amount            decimal.Decimal          `json:"amount"`
	Currency          string                   `json:"currency"`
	Purpose           string                   `json:"purpose"`
	TenureMonths      int                      `json:"tenure_months"`
	MonthlyIncome     decimal.Decimal          `json:"monthly_income"`
	EmploymentStatus  string                   `json:"employment_status"`
	EmploymentDetails EmploymentDetailsPayload `json:"employment_details"`
	FinancialDetails  FinancialDetailsPayload  `json:"financial_details"`
	Collateral        string                   `json:"collateral,omitempty"`
	Documents         []DocumentPayload        `json:"documents"`
	AgreeToTerms      bool                     `json:"agree_to_terms"`
}

// ReviewLoanRequest is the admin approve/reject input event for a PENDING loan.
type ReviewLoanRequest struct {
	LoanID   string `json:"loan_id"`
	Reviewer string `json:"reviewer"`
	Approve  bool   `json:"approve"`
	Reason   string `json:"reason"`
}

// DisburseLoanRequest releases funds for an APPROVED loan.
type DisburseLoanRequest struct {
	LoanID string `json:"loan_id"`
	Actor  string `json:"actor"`
}

// MakePaymentRequest carries a repayment against an ACTIVE loan.
type MakePaymentRequest struct {
	LoanID         string          `json:"loan_id"`
	UserID         string          `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentType    string          `json:"payment_type"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentNote    string          `json:"payment_note,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// MarkDefaultRequest is the external delinquency decision applied to an
// ACTIVE loan.
type MarkDefaultRequest struct {
	LoanID string `json:"loan_id"`
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
}

// AssessPenaltyRequest records an externally computed late charge against an
// ACTIVE loan.
type AssessPenaltyRequest struct {
	LoanID        string          `json:"loan_id"`
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
	Actor         string          `json:"actor"`
	Reason        string          `json:"reason"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	LoanID string `json:"loan_id"`
}

// ListLoansRequest identifies a borrower whose loans to list.
type ListLoansRequest struct {
	UserID string `json:"user_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// InstallmentResponse is one schedule entry.
type InstallmentResponse struct {
	Number     int             `json:"number"`
	DueDate    time.Time       `json:"due_date"`
	Amount     decimal.Decimal `json:"amount"`
	Principal  decimal.Decimal `json:"principal"`
	Interest   decimal.Decimal `json:"interest"`
	Status     string          `json:"status"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
}

// ApplyLoanResponse is returned on successful origination.
type ApplyLoanResponse struct {
	LoanID          string                `json:"loan_id"`
	Status          string                `json:"status"`
	InterestRate    decimal.Decimal       `json:"interest_rate"`
	EMIAmount       decimal.Decimal       `json:"emi_amount"`
	CreditScore     int                   `json:"credit_score"`
	TenureMonths    int                   `json:"tenure_months"`
	SchedulePreview []InstallmentResponse `json:"schedule_preview"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	Principal       decimal.Decimal       `json:"principal"`
	Currency        string                `json:"currency"`
	InterestRate    decimal.Decimal       `json:"interest_rate"`
	TenureMonths    int                   `json:"tenure_months"`
	EMIAmount       decimal.Decimal       `json:"emi_amount"`
	CreditScore     int                   `json:"credit_score"`
	Purpose         string                `json:"purpose"`
	Status          string                `json:"status"`
	DecisionReason  string                `json:"decision_reason,omitempty"`
	TotalPaid       decimal.Decimal       `json:"total_paid"`
	RemainingAmount decimal.Decimal       `json:"remaining_amount"`
	PenaltyAmount   decimal.Decimal       `json:"penalty_amount"`
	OverdueAmount   decimal.Decimal       `json:"overdue_amount"`
	Schedule        []InstallmentResponse `json:"schedule,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	CompletedAt     *time.Time            `json:"completed_at,omitempty"`
}

// NextInstallmentResponse previews the next pending installment.
type NextInstallmentResponse struct {
	Number  int             `json:"number"`
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
}

// PaymentResponse is the result of a payment.
type PaymentResponse struct {
	TransactionID   string                   `json:"transaction_id"`
	LoanID          string                   `json:"loan_id"`
	Status          string                   `json:"status"`
	TotalPaid       decimal.Decimal          `json:"total_paid"`
	RemainingAmount decimal.Decimal          `json:"remaining_amount"`
	PenaltyAmount   decimal.Decimal          `json:"penalty_amount"`
	IsCompleted     bool                     `json:"is_completed"`
	Replayed        bool                     `json:"replayed,omitempty"`
	NextInstallment *NextInstallmentResponse `json:"next_installment,omitempty"`
}
