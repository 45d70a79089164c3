package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
)

// InstallmentShare records how much of a payment landed on one installment.
type InstallmentShare struct {
	InstallmentNumber int             `json:"installment_number"`
	Amount            decimal.Decimal `json:"amount"`
	Settled           bool            `json:"settled"`
}

// PaymentTransaction is an append-only ledger entry created per successful
// payment. Immutable once written; never updated or deleted.
type PaymentTransaction struct {
	ID             string
	LoanID         string
	UserID         string
	Amount         decimal.Decimal
	Currency       string
	PaymentType    valueobject.PaymentType
	PaymentMethod  valueobject.PaymentMethod
	PenaltyPaid    decimal.Decimal
	Breakdown      []InstallmentShare
	BalanceBefore  decimal.Decimal
	BalanceAfter   decimal.Decimal
	Note           string
	IdempotencyKey string
	CreatedAt      time.Time
}

// NewPaymentTransaction builds the immutable ledger record for a payment.
// Balance snapshots are filled in by the ledger writer at commit time.
func NewPaymentTransaction(
	loanID, userID string,
	amount decimal.Decimal,
	currency string,
	paymentType valueobject.PaymentType,
	paymentMethod valueobject.PaymentMethod,
	penaltyPaid decimal.Decimal,
	breakdown []InstallmentShare,
	note, idempotencyKey string,
	now time.Time,
) (PaymentTransaction, error) {
	if loanID == "" || userID == "" {
		return PaymentTransaction{}, errors.New("loan ID and user ID are required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return PaymentTransaction{}, valueobject.ErrInvalidPaymentAmount
	}

	return PaymentTransaction{
		ID:             uuid.New().String(),
		LoanID:         loanID,
		UserID:         userID,
		Amount:         amount,
		Currency:       currency,
		PaymentType:    paymentType,
		PaymentMethod:  paymentMethod,
		PenaltyPaid:    penaltyPaid,
		Breakdown:      breakdown,
		Note:           note,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      now,
	}, nil
}
