//go:build integration

package integration

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iprofitlabs/lending-service/internal/domain/model"
	"github.com/iprofitlabs/lending-service/internal/domain/port"
	"github.com/iprofitlabs/lending-service/internal/domain/service"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
	"github.com/iprofitlabs/lending-service/internal/infrastructure/persistence/postgres"
	"github.com/iprofitlabs/lending-service/pkg/testutil"
)

func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
}

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pg := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() { pg.Cleanup(t) })

	pg.RunMigrations(t, migrationsDir())
	return pg.Pool
}

// seedActiveLoan persists a disbursed zero-rate loan of 1200 over 12 months,
// so every installment is an even 100.00.
func seedActiveLoan(t *testing.T, ledger *postgres.LedgerRepo, userID string) model.Loan {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)

	loan, err := model.NewLoan(
		userID,
		decimal.NewFromInt(1200), "USD",
		0, 12, 710,
		"appliances", "employed",
		model.EmploymentDetails{CompanyName: "Acme"},
		model.FinancialDetails{MonthlyIncome: decimal.NewFromInt(8000)},
		"",
		nil,
		now,
	)
	require.NoError(t, err)
	loan, err = loan.Approve("meets criteria", now)
	require.NoError(t, err)
	loan, err = loan.Disburse(now)
	require.NoError(t, err)
	loan = loan.ClearEvents()

	require.NoError(t, ledger.CreateLoan(context.Background(), loan))
	return loan
}

func seedBalance(t *testing.T, pool *pgxpool.Pool, userID string, balance decimal.Decimal) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO user_balances (user_id, balance, updated_at) VALUES ($1, $2, now())`,
		userID, balance,
	)
	require.NoError(t, err)
}

// payFromBalance records a balance-funded FULL_EMI payment through the ledger
// using the same allocation closure the payment usecase builds.
func payFromBalance(
	ledger *postgres.LedgerRepo,
	loanID string,
	amount decimal.Decimal,
	key string,
) (model.PaymentTransaction, bool, error) {
	allocator := service.NewPaymentAllocator()
	now := time.Now().UTC()

	return ledger.RecordPayment(context.Background(), loanID, key,
		func(loan model.Loan, pending []model.Installment) (port.PaymentCommit, error) {
			alloc, err := allocator.Allocate(loan, pending, amount, valueobject.PaymentTypeFullEMI, now)
			if err != nil {
				return port.PaymentCommit{}, err
			}
			next, err := loan.ApplyPayment(alloc.PrincipalInterestPaid, alloc.PenaltyPaid, alloc.SettledAll, now)
			if err != nil {
				return port.PaymentCommit{}, err
			}
			record, err := model.NewPaymentTransaction(
				loan.ID(), loan.UserID(), amount, loan.Currency(),
				valueobject.PaymentTypeFullEMI, valueobject.PaymentMethodBalance,
				alloc.PenaltyPaid, alloc.Breakdown,
				"", key, now,
			)
			if err != nil {
				return port.PaymentCommit{}, err
			}
			return port.PaymentCommit{
				Loan:         next,
				Installments: alloc.Touched,
				Transaction:  record,
				DebitAmount:  amount,
			}, nil
		})
}

func countTransactions(t *testing.T, pool *pgxpool.Pool, loanID string) int {
	t.Helper()
	var count int
	err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM payment_transactions WHERE loan_id = $1`, loanID,
	).Scan(&count)
	require.NoError(t, err)
	return count
}

func readBalance(t *testing.T, pool *pgxpool.Pool, userID string) decimal.Decimal {
	t.Helper()
	var balance decimal.Decimal
	err := pool.QueryRow(context.Background(),
		`SELECT balance FROM user_balances WHERE user_id = $1`, userID,
	).Scan(&balance)
	require.NoError(t, err)
	return balance
}

func TestLedgerRepo_CreateLoanRoundTrip(t *testing.T) {
	pool := setupTestDB(t)
	ledger := postgres.NewLedgerRepo(pool)
	loanRepo := postgres.NewLoanRepo(pool)

	loan := seedActiveLoan(t, ledger, "user-int-1")

	fetched, err := loanRepo.FindByID(context.Background(), loan.ID())
	require.NoError(t, err)

	assert.Equal(t, loan.ID(), fetched.ID())
	assert.Equal(t, loan.UserID(), fetched.UserID())
	assert.True(t, fetched.Status().Equal(valueobject.LoanStatusActive))
	testutil.AssertDecimalEqual(t, loan.Principal(), fetched.Principal())
	testutil.AssertDecimalEqual(t, loan.EMIAmount(), fetched.EMIAmount())

	require.Len(t, fetched.Schedule(), 12)
	for i, inst := range fetched.Schedule() {
		assert.Equal(t, i+1, inst.Number)
		assert.Equal(t, "100", inst.Amount.String())
		assert.True(t, inst.Status.Equal(valueobject.InstallmentStatusPending))
	}
}

func TestLedgerRepo_RecordPayment_CommitsAtomically(t *testing.T) {
	pool := setupTestDB(t)
	ledger := postgres.NewLedgerRepo(pool)
	loanRepo := postgres.NewLoanRepo(pool)
	ctx := context.Background()

	loan := seedActiveLoan(t, ledger, "user-int-2")
	seedBalance(t, pool, "user-int-2", decimal.NewFromInt(500))

	// A successful payment lands installment, aggregates, transaction and
	// debit together.
	tx, replayed, err := payFromBalance(ledger, loan.ID(), decimal.NewFromInt(100), "atomic-1")
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, "400", tx.BalanceAfter.String())
	assert.Equal(t, "500", tx.BalanceBefore.String())

	fetched, err := loanRepo.FindByID(ctx, loan.ID())
	require.NoError(t, err)
	assert.Equal(t, "100", fetched.TotalPaid().String())
	assert.True(t, fetched.Schedule()[0].Status.Equal(valueobject.InstallmentStatusPaid))
	assert.Equal(t, "400", readBalance(t, pool, "user-int-2").String())
	assert.Equal(t, 1, countTransactions(t, pool, loan.ID()))
}

func TestLedgerRepo_RecordPayment_RollsBackOnInsufficientBalance(t *testing.T) {
	pool := setupTestDB(t)
	ledger := postgres.NewLedgerRepo(pool)
	loanRepo := postgres.NewLoanRepo(pool)
	ctx := context.Background()

	loan := seedActiveLoan(t, ledger, "user-int-3")
	seedBalance(t, pool, "user-int-3", decimal.NewFromInt(50))

	_, _, err := payFromBalance(ledger, loan.ID(), decimal.NewFromInt(100), "broke-1")
	require.ErrorIs(t, err, valueobject.ErrInsufficientBalance)

	// Nothing from the failed attempt survives the rollback.
	fetched, err := loanRepo.FindByID(ctx, loan.ID())
	require.NoError(t, err)
	assert.True(t, fetched.TotalPaid().IsZero())
	assert.True(t, fetched.Schedule()[0].Status.Equal(valueobject.InstallmentStatusPending))
	assert.Equal(t, "50", readBalance(t, pool, "user-int-3").String())
	assert.Equal(t, 0, countTransactions(t, pool, loan.ID()))
}

func TestLedgerRepo_RecordPayment_ReplaysIdempotentKey(t *testing.T) {
	pool := setupTestDB(t)
	ledger := postgres.NewLedgerRepo(pool)
	loanRepo := postgres.NewLoanRepo(pool)
	ctx := context.Background()

	loan := seedActiveLoan(t, ledger, "user-int-4")
	seedBalance(t, pool, "user-int-4", decimal.NewFromInt(500))

	first, replayed, err := payFromBalance(ledger, loan.ID(), decimal.NewFromInt(100), "replay-1")
	require.NoError(t, err)
	require.False(t, replayed)

	// The retried request returns the stored transaction and moves no money.
	second, replayed, err := payFromBalance(ledger, loan.ID(), decimal.NewFromInt(100), "replay-1")
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, first.ID, second.ID)

	fetched, err := loanRepo.FindByID(ctx, loan.ID())
	require.NoError(t, err)
	assert.Equal(t, "100", fetched.TotalPaid().String())
	assert.Equal(t, "400", readBalance(t, pool, "user-int-4").String())
	assert.Equal(t, 1, countTransactions(t, pool, loan.ID()))
}

func TestLedgerRepo_RecordPayment_SerializesConcurrentPayments(t *testing.T) {
	pool := setupTestDB(t)
	ledger := postgres.NewLedgerRepo(pool)
	loanRepo := postgres.NewLoanRepo(pool)
	ctx := context.Background()

	loan := seedActiveLoan(t, ledger, "user-int-5")
	seedBalance(t, pool, "user-int-5", decimal.NewFromInt(1200))

	// Two distinct payments race on the same loan. The row lock serializes
	// them, so each settles its own installment against a consistent view.
	keys := []string{"race-a", "race-b"}
	errs := make([]error, len(keys))
	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			_, _, errs[i] = payFromBalance(ledger, loan.ID(), decimal.NewFromInt(100), key)
		}(i, key)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "payment %s failed", keys[i])
	}

	fetched, err := loanRepo.FindByID(ctx, loan.ID())
	require.NoError(t, err)
	assert.Equal(t, "200", fetched.TotalPaid().String())
	assert.True(t, fetched.Schedule()[0].Status.Equal(valueobject.InstallmentStatusPaid))
	assert.True(t, fetched.Schedule()[1].Status.Equal(valueobject.InstallmentStatusPaid))
	assert.Equal(t, "1000", readBalance(t, pool, "user-int-5").String())
	assert.Equal(t, 2, countTransactions(t, pool, loan.ID()))
}

func TestLedgerRepo_RecordPayment_ConcurrentSameKeyDebitsOnce(t *testing.T) {
	pool := setupTestDB(t)
	ledger := postgres.NewLedgerRepo(pool)
	loanRepo := postgres.NewLoanRepo(pool)
	ctx := context.Background()

	loan := seedActiveLoan(t, ledger, "user-int-6")
	seedBalance(t, pool, "user-int-6", decimal.NewFromInt(500))

	// Both requests carry the same key. Whichever loses the row lock must
	// come back as a replay of the winner's transaction, not a second debit
	// and not a unique-index failure.
	type outcome struct {
		tx       model.PaymentTransaction
		replayed bool
		err      error
	}
	outcomes := make([]outcome, 2)
	var wg sync.WaitGroup
	for i := range outcomes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tx, replayed, err := payFromBalance(ledger, loan.ID(), decimal.NewFromInt(100), "dup-key")
			outcomes[i] = outcome{tx: tx, replayed: replayed, err: err}
		}(i)
	}
	wg.Wait()

	replays := 0
	for _, o := range outcomes {
		require.NoError(t, o.err)
		if o.replayed {
			replays++
		}
	}
	assert.Equal(t, 1, replays)
	assert.Equal(t, outcomes[0].tx.ID, outcomes[1].tx.ID)

	fetched, err := loanRepo.FindByID(ctx, loan.ID())
	require.NoError(t, err)
	assert.Equal(t, "100", fetched.TotalPaid().String())
	assert.Equal(t, "400", readBalance(t, pool, "user-int-6").String())
	assert.Equal(t, 1, countTransactions(t, pool, loan.ID()))
}
