package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iprofitlabs/lending-service/internal/domain/model"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
	pgutil "github.com/iprofitlabs/lending-service/pkg/postgres"
)

// LoanRepo implements port.LoanRepository (read side only; all writes go
// through LedgerRepo).
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

// FindByID retrieves a loan and its amortization schedule.
func (r *LoanRepo) FindByID(ctx context.Context, id string) (model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	loan, err := scanLoanRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Loan{}, fmt.Errorf("%w: %s", valueobject.ErrLoanNotFound, id)
		}
		return model.Loan{}, err
	}

	schedule, err := loadSchedule(ctx, r.pool, id)
	if err != nil {
		return model.Loan{}, err
	}
	return loan.WithSchedule(schedule), nil
}

// FindByUserID retrieves all loans held by a user, newest first.
func (r *LoanRepo) FindByUserID(ctx context.Context, userID string) ([]model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range loans {
		schedule, err := loadSchedule(ctx, r.pool, loans[i].ID())
		if err != nil {
			return nil, err
		}
		loans[i] = loans[i].WithSchedule(schedule)
	}
	return loans, nil
}

// HasOpenLoan reports whether the user holds a PENDING, APPROVED or ACTIVE
// loan.
func (r *LoanRepo) HasOpenLoan(ctx context.Context, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM loans
			WHERE user_id = $1 AND status IN ('PENDING', 'APPROVED', 'ACTIVE')
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check open loans: %w", err)
	}
	return exists, nil
}

// loadSchedule loads all installments of a loan in period order. It accepts
// any querier so the ledger can reuse it inside a transaction.
func loadSchedule(ctx context.Context, q pgutil.Querier, loanID string) ([]model.Installment, error) {
	query := `
		SELECT number, due_date, amount, principal, interest, status, paid_amount, paid_at
		FROM installments
		WHERE loan_id = $1
		ORDER BY number
	`
	rows, err := q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	var schedule []model.Installment
	for rows.Next() {
		inst, err := scanInstallment(rows, loanID)
		if err != nil {
			return nil, err
		}
		schedule = append(schedule, inst)
	}
	return schedule, rows.Err()
}
