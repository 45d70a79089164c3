package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iprofitlabs/lending-service/internal/domain/event"
	"github.com/iprofitlabs/lending-service/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Read-side repository port
// ---------------------------------------------------------------------------

// LoanRepository retrieves loans. All mutations go through LoanLedger.
type LoanRepository interface {
	FindByID(ctx context.Context, id string) (model.Loan, error)
	FindByUserID(ctx context.Context, userID string) ([]model.Loan, error)
	// HasOpenLoan reports whether the user holds a PENDING, APPROVED or
	// ACTIVE loan.
	HasOpenLoan(ctx context.Context, userID string) (bool, error)
}

// ---------------------------------------------------------------------------
// Ledger port (sole writer)
// ---------------------------------------------------------------------------

// PaymentCommit is everything RecordPayment persists as one atomic unit:
// installment updates, loan aggregates, the immutable transaction record,
// and the balance debit (zero for externally funded payments).
type PaymentCommit struct {
	Loan         model.Loan
	Installments []model.Installment
	Transaction  model.PaymentTransaction
	DebitAmount  decimal.Decimal
}

// AllocationFunc computes the outcome of a payment. It is invoked with the
// loan and its pending installments loaded under a row lock; everything it
// returns is committed atomically or not at all.
type AllocationFunc func(loan model.Loan, pending []model.Installment) (PaymentCommit, error)

// LoanLedger owns every mutation of loan, installment, transaction and
// balance state, so the money invariants are enforced in one place.
type LoanLedger interface {
	// CreateLoan persists a new PENDING loan together with its schedule.
	CreateLoan(ctx context.Context, loan model.Loan) error

	// SaveLoan persists a status/aggregate change with an optimistic
	// version check.
	SaveLoan(ctx context.Context, loan model.Loan) error

	// RecordPayment serializes payments per loan: it locks the loan row,
	// loads pending installments, invokes fn, and commits the returned
	// PaymentCommit atomically. A request whose idempotency key was already
	// recorded returns the stored transaction with replayed=true and calls
	// nothing.
	RecordPayment(ctx context.Context, loanID, idempotencyKey string, fn AllocationFunc) (tx model.PaymentTransaction, replayed bool, err error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers. Publish
// failures after a committed financial write are side-channel: callers log
// and continue.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
