package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iprofitlabs/lending-service/internal/domain/model"
	"github.com/iprofitlabs/lending-service/internal/domain/port"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
	pgutil "github.com/iprofitlabs/lending-service/pkg/postgres"
)

// LedgerRepo implements port.LoanLedger. It is the only writer of loans,
// installments, payment_transactions and user_balances.
type LedgerRepo struct {
	pool *pgxpool.Pool
}

// NewLedgerRepo creates the PostgreSQL-backed loan ledger.
func NewLedgerRepo(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// CreateLoan persists a new PENDING loan together with its full schedule in
// one transaction.
func (r *LedgerRepo) CreateLoan(ctx context.Context, loan model.Loan) error {
	return pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		employment, err := marshalJSON(loan.Employment(), "employment details")
		if err != nil {
			return err
		}
		financials, err := marshalJSON(loan.Financials(), "financial details")
		if err != nil {
			return err
		}
		documents, err := marshalJSON(loan.Documents(), "documents")
		if err != nil {
			return err
		}

		query := `
			INSERT INTO loans (
				id, user_id, principal, currency, interest_rate_bps, tenure_months,
				emi_amount, credit_score, purpose, employment_status,
				employment, financials, collateral, documents,
				status, decision_reason,
				total_paid, remaining_amount, penalty_amount, overdue_amount,
				version, created_at, updated_at, completed_at
			) VALUES (
				$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,
				$15,$16,$17,$18,$19,$20,$21,$22,$23,$24
			)
		`
		_, err = tx.Exec(ctx, query,
			loan.ID(), loan.UserID(), loan.Principal(), loan.Currency(),
			loan.InterestRateBps(), loan.TenureMonths(),
			loan.EMIAmount(), loan.CreditScore(), loan.Purpose(), loan.EmploymentStatus(),
			employment, financials, loan.Collateral(), documents,
			loan.Status().String(), loan.DecisionReason(),
			loan.TotalPaid(), loan.RemainingAmount(), loan.PenaltyAmount(), loan.OverdueAmount(),
			loan.Version(), loan.CreatedAt(), loan.UpdatedAt(), loan.CompletedAt(),
		)
		if err != nil {
			return fmt.Errorf("insert loan: %w", err)
		}

		for _, inst := range loan.Schedule() {
			entryQuery := `
				INSERT INTO installments (loan_id, number, due_date, amount, principal, interest, status, paid_amount, paid_at)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			`
			_, err := tx.Exec(ctx, entryQuery,
				loan.ID(), inst.Number, inst.DueDate,
				inst.Amount, inst.Principal, inst.Interest,
				inst.Status.String(), inst.PaidAmount, inst.PaidAt,
			)
			if err != nil {
				return fmt.Errorf("insert installment %d: %w", inst.Number, err)
			}
		}
		return nil
	})
}

// SaveLoan persists a status/aggregate change with an optimistic version
// check. The schedule is not touched; installment updates only happen inside
// RecordPayment.
func (r *LedgerRepo) SaveLoan(ctx context.Context, loan model.Loan) error {
	query := `
		UPDATE loans SET
			status           = $2,
			decision_reason  = $3,
			total_paid       = $4,
			remaining_amount = $5,
			penalty_amount   = $6,
			overdue_amount   = $7,
			updated_at       = $8,
			completed_at     = $9,
			version          = version + 1
		WHERE id = $1 AND version = $10
	`
	tag, err := r.pool.Exec(ctx, query,
		loan.ID(), loan.Status().String(), loan.DecisionReason(),
		loan.TotalPaid(), loan.RemainingAmount(), loan.PenaltyAmount(), loan.OverdueAmount(),
		loan.UpdatedAt(), loan.CompletedAt(), loan.Version(),
	)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.New("optimistic locking conflict on loan")
	}
	return nil
}

// RecordPayment serializes payments per loan. The loan row is locked for the
// whole allocation, so two concurrent payments against the same loan never
// interleave; everything in the returned PaymentCommit lands in one
// transaction or not at all.
func (r *LedgerRepo) RecordPayment(
	ctx context.Context,
	loanID, idempotencyKey string,
	fn port.AllocationFunc,
) (model.PaymentTransaction, bool, error) {
	var result model.PaymentTransaction
	var replayed bool

	err := pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// 1. Idempotency fast path before taking any lock.
		stored, found, err := findTransactionByKey(ctx, tx, idempotencyKey)
		if err != nil {
			return err
		}
		if found {
			result = stored
			replayed = true
			return nil
		}

		// 2. Lock the loan row for the duration of the allocation.
		lockQuery := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`
		loan, err := scanLoanRow(tx.QueryRow(ctx, lockQuery, loanID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: %s", valueobject.ErrLoanNotFound, loanID)
			}
			return err
		}

		// 2b. Re-check the key under the lock. A concurrent request with
		// the same key can commit between the unlocked check and lock
		// acquisition; without this the loser would run a full allocation
		// and debit only to trip the unique index at insert.
		stored, found, err = findTransactionByKey(ctx, tx, idempotencyKey)
		if err != nil {
			return err
		}
		if found {
			result = stored
			replayed = true
			return nil
		}

		// 3. Load the schedule as of the locked read.
		schedule, err := loadSchedule(ctx, tx, loanID)
		if err != nil {
			return err
		}
		loan = loan.WithSchedule(schedule)

		pending := make([]model.Installment, 0, len(schedule))
		for _, inst := range schedule {
			if inst.Status.Equal(valueobject.InstallmentStatusPending) {
				pending = append(pending, inst)
			}
		}

		// 4. Run the allocation.
		commit, err := fn(loan, pending)
		if err != nil {
			return err
		}

		// 5. Debit the wallet balance, atomically guarded against
		// overdraft. Externally funded payments only snapshot the balance.
		balanceAfter, err := debitBalance(ctx, tx, commit.Transaction.UserID, commit.DebitAmount)
		if err != nil {
			return err
		}
		commit.Transaction.BalanceAfter = balanceAfter
		commit.Transaction.BalanceBefore = balanceAfter.Add(commit.DebitAmount)

		// 6. Write back installments touched by the allocation.
		for _, inst := range commit.Installments {
			instQuery := `
				UPDATE installments SET status = $3, paid_amount = $4, paid_at = $5
				WHERE loan_id = $1 AND number = $2
			`
			tag, err := tx.Exec(ctx, instQuery,
				loanID, inst.Number, inst.Status.String(), inst.PaidAmount, inst.PaidAt,
			)
			if err != nil {
				return fmt.Errorf("update installment %d: %w", inst.Number, err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("installment %d of loan %s not found", inst.Number, loanID)
			}
		}

		// 7. Write back the loan aggregates.
		loanQuery := `
			UPDATE loans SET
				status           = $2,
				total_paid       = $3,
				remaining_amount = $4,
				penalty_amount   = $5,
				overdue_amount   = $6,
				updated_at       = $7,
				completed_at     = $8,
				version          = version + 1
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, loanQuery,
			loanID, commit.Loan.Status().String(),
			commit.Loan.TotalPaid(), commit.Loan.RemainingAmount(),
			commit.Loan.PenaltyAmount(), commit.Loan.OverdueAmount(),
			commit.Loan.UpdatedAt(), commit.Loan.CompletedAt(),
		); err != nil {
			return fmt.Errorf("update loan aggregates: %w", err)
		}

		// 8. Append the immutable transaction record.
		if err := insertTransaction(ctx, tx, commit.Transaction); err != nil {
			return err
		}

		result = commit.Transaction
		return nil
	})
	if err != nil {
		return model.PaymentTransaction{}, false, err
	}
	return result, replayed, nil
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

const transactionColumns = `
	id, loan_id, user_id, amount, currency, payment_type, payment_method,
	penalty_paid, breakdown, balance_before, balance_after, note,
	idempotency_key, created_at
`

func findTransactionByKey(ctx context.Context, q pgutil.Querier, key string) (model.PaymentTransaction, bool, error) {
	query := `SELECT ` + transactionColumns + ` FROM payment_transactions WHERE idempotency_key = $1`
	tx, err := scanTransaction(q.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PaymentTransaction{}, false, nil
		}
		return model.PaymentTransaction{}, false, err
	}
	return tx, true, nil
}

func insertTransaction(ctx context.Context, q pgutil.Querier, t model.PaymentTransaction) error {
	breakdown, err := marshalJSON(t.Breakdown, "payment breakdown")
	if err != nil {
		return err
	}
	query := `
		INSERT INTO payment_transactions (` + transactionColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`
	if _, err := q.Exec(ctx, query,
		t.ID, t.LoanID, t.UserID, t.Amount, t.Currency,
		t.PaymentType.String(), t.PaymentMethod.String(),
		t.PenaltyPaid, breakdown, t.BalanceBefore, t.BalanceAfter, t.Note,
		t.IdempotencyKey, t.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert payment transaction: %w", err)
	}
	return nil
}

func scanTransaction(s scannable) (model.PaymentTransaction, error) {
	var (
		t                  model.PaymentTransaction
		typeStr, methodStr string
		breakdownJSON      []byte
		createdAt          time.Time
	)
	err := s.Scan(
		&t.ID, &t.LoanID, &t.UserID, &t.Amount, &t.Currency, &typeStr, &methodStr,
		&t.PenaltyPaid, &breakdownJSON, &t.BalanceBefore, &t.BalanceAfter, &t.Note,
		&t.IdempotencyKey, &createdAt,
	)
	if err != nil {
		return model.PaymentTransaction{}, err
	}

	paymentType, err := valueobject.NewPaymentType(typeStr)
	if err != nil {
		return model.PaymentTransaction{}, fmt.Errorf("parse payment type: %w", err)
	}
	paymentMethod, err := valueobject.NewPaymentMethod(methodStr)
	if err != nil {
		return model.PaymentTransaction{}, fmt.Errorf("parse payment method: %w", err)
	}
	if len(breakdownJSON) > 0 {
		if err := json.Unmarshal(breakdownJSON, &t.Breakdown); err != nil {
			return model.PaymentTransaction{}, fmt.Errorf("decode payment breakdown: %w", err)
		}
	}

	t.PaymentType = paymentType
	t.PaymentMethod = paymentMethod
	t.CreatedAt = createdAt
	return t, nil
}

// debitBalance applies the debit in one statement so the overdraft guard and
// the decrement cannot race. A zero debit reads the balance without writing.
func debitBalance(ctx context.Context, q pgutil.Querier, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		var balance decimal.Decimal
		err := q.QueryRow(ctx, `SELECT balance FROM user_balances WHERE user_id = $1`, userID).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		if err != nil {
			return decimal.Zero, fmt.Errorf("read balance: %w", err)
		}
		return balance, nil
	}

	query := `
		UPDATE user_balances
		SET balance = balance - $2, updated_at = now()
		WHERE user_id = $1 AND balance >= $2
		RETURNING balance
	`
	var after decimal.Decimal
	err := q.QueryRow(ctx, query, userID, amount).Scan(&after)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("%w: user %s", valueobject.ErrInsufficientBalance, userID)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("debit balance: %w", err)
	}
	return after, nil
}
