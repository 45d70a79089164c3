package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iprofitlabs/lending-service/internal/domain/model"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
)

type scannable interface {
	Scan(dest ...any) error
}

// loanColumns is the canonical column list for loan reads. Keep in sync with
// scanLoanRow.
const loanColumns = `
	id, user_id, principal, currency, interest_rate_bps, tenure_months,
	emi_amount, credit_score, purpose, employment_status,
	employment, financials, collateral, documents,
	status, decision_reason,
	total_paid, remaining_amount, penalty_amount, overdue_amount,
	version, created_at, updated_at, completed_at
`

func scanLoanRow(s scannable) (model.Loan, error) {
	var (
		id, userID                   string
		principal                    decimal.Decimal
		currency                     string
		interestRateBps              int
		tenureMonths                 int
		emiAmount                    decimal.Decimal
		creditScore                  int
		purpose, employmentStatus    string
		employmentJSON               []byte
		financialsJSON               []byte
		collateral                   string
		documentsJSON                []byte
		statusStr, decisionReason    string
		totalPaid, remainingAmount   decimal.Decimal
		penaltyAmount, overdueAmount decimal.Decimal
		version                      int
		createdAt, updatedAt         time.Time
		completedAt                  *time.Time
	)

	err := s.Scan(
		&id, &userID, &principal, &currency, &interestRateBps, &tenureMonths,
		&emiAmount, &creditScore, &purpose, &employmentStatus,
		&employmentJSON, &financialsJSON, &collateral, &documentsJSON,
		&statusStr, &decisionReason,
		&totalPaid, &remainingAmount, &penaltyAmount, &overdueAmount,
		&version, &createdAt, &updatedAt, &completedAt,
	)
	if err != nil {
		return model.Loan{}, fmt.Errorf("scan loan: %w", err)
	}

	status, err := valueobject.NewLoanStatus(statusStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse loan status: %w", err)
	}

	var employment model.EmploymentDetails
	if len(employmentJSON) > 0 {
		if err := json.Unmarshal(employmentJSON, &employment); err != nil {
			return model.Loan{}, fmt.Errorf("decode employment details: %w", err)
		}
	}
	var financials model.FinancialDetails
	if len(financialsJSON) > 0 {
		if err := json.Unmarshal(financialsJSON, &financials); err != nil {
			return model.Loan{}, fmt.Errorf("decode financial details: %w", err)
		}
	}
	var documents []model.Document
	if len(documentsJSON) > 0 {
		if err := json.Unmarshal(documentsJSON, &documents); err != nil {
			return model.Loan{}, fmt.Errorf("decode documents: %w", err)
		}
	}

	return model.ReconstructLoan(
		id, userID, principal, currency, interestRateBps, tenureMonths,
		emiAmount, creditScore, purpose, employmentStatus,
		employment, financials, collateral, documents,
		status, decisionReason,
		nil,
		totalPaid, remainingAmount, penaltyAmount, overdueAmount,
		version, createdAt, updatedAt, completedAt,
	), nil
}

func scanInstallment(s scannable, loanID string) (model.Installment, error) {
	var (
		number     int
		dueDate    time.Time
		amount     decimal.Decimal
		principal  decimal.Decimal
		interest   decimal.Decimal
		statusStr  string
		paidAmount decimal.Decimal
		paidAt     *time.Time
	)
	if err := s.Scan(&number, &dueDate, &amount, &principal, &interest, &statusStr, &paidAmount, &paidAt); err != nil {
		return model.Installment{}, fmt.Errorf("scan installment: %w", err)
	}
	status, err := valueobject.NewInstallmentStatus(statusStr)
	if err != nil {
		return model.Installment{}, fmt.Errorf("parse installment status: %w", err)
	}
	return model.Installment{
		LoanID:     loanID,
		Number:     number,
		DueDate:    dueDate,
		Amount:     amount,
		Principal:  principal,
		Interest:   interest,
		Status:     status,
		PaidAmount: paidAmount,
		PaidAt:     paidAt,
	}, nil
}

func marshalJSON(v any, what string) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", what, err)
	}
	return b, nil
}
