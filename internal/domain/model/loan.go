package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iprofitlabs/lending-service/internal/domain/event"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// EmploymentDetails is the employment snapshot captured at underwriting.
// Immutable after creation.
type EmploymentDetails struct {
	CompanyName    string `json:"company_name"`
	Designation    string `json:"designation"`
	WorkingSince   string `json:"working_since"`
	CompanyAddress string `json:"company_address"`
}

// FinancialDetails is the financial snapshot captured at underwriting.
// Immutable after creation.
type FinancialDetails struct {
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	BankBalance     decimal.Decimal `json:"bank_balance"`
	ExistingLoans   decimal.Decimal `json:"existing_loans"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	OtherIncome     decimal.Decimal `json:"other_income"`
}

// Document is a supporting document reference attached at application time.
type Document struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Loan is an immutable aggregate. Mutations return a new copy. The ledger is
// the only component allowed to persist one.
type Loan struct {
	id               string
	userID           string
	principal        decimal.Decimal
	currency         string
	interestRateBps  int
	tenureMonths     int
	emiAmount        decimal.Decimal
	creditScore      int
	purpose          string
	employmentStatus string
	employment       EmploymentDetails
	financials       FinancialDetails
	collateral       string
	documents        []Document
	status           valueobject.LoanStatus
	decisionReason   string
	schedule         []Installment
	totalPaid        decimal.Decimal
	remainingAmount  decimal.Decimal
	penaltyAmount    decimal.Decimal
	overdueAmount    decimal.Decimal
	version          int
	createdAt        time.Time
	updatedAt        time.Time
	completedAt      *time.Time
	domainEvents     []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoan creates a loan from a successful underwriting decision and
// generates the amortization schedule. The loan starts in PENDING status;
// remainingAmount covers principal plus all scheduled interest.
func NewLoan(
	userID string,
	principal decimal.Decimal,
	currency string,
	interestRateBps, tenureMonths int,
	creditScore int,
	purpose, employmentStatus string,
	employment EmploymentDetails,
	financials FinancialDetails,
	collateral string,
	documents []Document,
	now time.Time,
) (Loan, error) {
	if userID == "" {
		return Loan{}, errors.New("user ID is required")
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return Loan{}, errors.New("principal must be positive")
	}
	if currency == "" {
		return Loan{}, errors.New("currency is required")
	}
	if tenureMonths <= 0 {
		return Loan{}, errors.New("tenure months must be positive")
	}
	if interestRateBps < 0 {
		return Loan{}, errors.New("interest rate must not be negative")
	}

	id := uuid.New().String()
	schedule := GenerateSchedule(id, principal, interestRateBps, tenureMonths, now)

	loan := Loan{
		id:               id,
		userID:           userID,
		principal:        principal,
		currency:         currency,
		interestRateBps:  interestRateBps,
		tenureMonths:     tenureMonths,
		emiAmount:        MonthlyInstallment(principal, interestRateBps, tenureMonths),
		creditScore:      creditScore,
		purpose:          purpose,
		employmentStatus: employmentStatus,
		employment:       employment,
		financials:       financials,
		collateral:       collateral,
		documents:        documents,
		status:           valueobject.LoanStatusPending,
		schedule:         schedule,
		totalPaid:        decimal.Zero,
		remainingAmount:  principal.Add(TotalInterest(schedule)),
		penaltyAmount:    decimal.Zero,
		overdueAmount:    decimal.Zero,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}

	loan.domainEvents = append(loan.domainEvents, event.NewLoanApplied(
		id, userID, principal, currency, interestRateBps, tenureMonths, creditScore, now,
	))

	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence without
// side-effects.
func ReconstructLoan(
	id, userID string,
	principal decimal.Decimal,
	currency string,
	interestRateBps, tenureMonths int,
	emiAmount decimal.Decimal,
	creditScore int,
	purpose, employmentStatus string,
	employment EmploymentDetails,
	financials FinancialDetails,
	collateral string,
	documents []Document,
	status valueobject.LoanStatus,
	decisionReason string,
	schedule []Installment,
	totalPaid, remainingAmount, penaltyAmount, overdueAmount decimal.Decimal,
	version int,
	createdAt, updatedAt time.Time,
	completedAt *time.Time,
) Loan {
	return Loan{
		id:               id,
		userID:           userID,
		principal:        principal,
		currency:         currency,
		interestRateBps:  interestRateBps,
		tenureMonths:     tenureMonths,
		emiAmount:        emiAmount,
		creditScore:      creditScore,
		purpose:          purpose,
		employmentStatus: employmentStatus,
		employment:       employment,
		financials:       financials,
		collateral:       collateral,
		documents:        documents,
		status:           status,
		decisionReason:   decisionReason,
		schedule:         schedule,
		totalPaid:        totalPaid,
		remainingAmount:  remainingAmount,
		penaltyAmount:    penaltyAmount,
		overdueAmount:    overdueAmount,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
		completedAt:      completedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions (each returns a new copy)
// ---------------------------------------------------------------------------

// Approve transitions PENDING -> APPROVED.
func (l Loan) Approve(reason string, now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusPending) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l
	next.status = valueobject.LoanStatusApproved
	next.decisionReason = reason
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanApproved(l.id, l.userID, reason, now))
	return next, nil
}

// Reject transitions PENDING -> REJECTED (terminal).
func (l Loan) Reject(reason string, now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusPending) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l
	next.status = valueobject.LoanStatusRejected
	next.decisionReason = reason
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanRejected(l.id, l.userID, reason, now))
	return next, nil
}

// Disburse transitions APPROVED -> ACTIVE. From this point the repayment
// schedule is authoritative and payments are accepted.
func (l Loan) Disburse(now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusApproved) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l
	next.status = valueobject.LoanStatusActive
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)

	var firstDue time.Time
	if len(l.schedule) > 0 {
		firstDue = l.schedule[0].DueDate
	}
	next.domainEvents = append(next.domainEvents, event.NewLoanDisbursed(
		l.id, l.userID, l.principal, l.currency, l.interestRateBps, l.tenureMonths, firstDue, now,
	))
	return next, nil
}

// MarkDefaulted transitions ACTIVE -> DEFAULTED (terminal). The delinquency
// policy that decides when to default lives outside this core.
func (l Loan) MarkDefaulted(now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l
	next.status = valueobject.LoanStatusDefaulted
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanDefaulted(l.id, l.userID, l.remainingAmount, now))
	return next, nil
}

// AssessPenalty adds an externally computed late charge to the outstanding
// penalty balance and records the overdue exposure it relates to. The caller
// supplies the authoritative current overdue amount, so overdueAmount is
// replaced here rather than accumulated; ApplyPayment decrements it as
// principal and interest are settled.
func (l Loan) AssessPenalty(penalty, overdue decimal.Decimal, now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return l, valueobject.ErrLoanNotActive
	}
	if penalty.LessThan(decimal.Zero) || overdue.LessThan(decimal.Zero) {
		return l, errors.New("penalty and overdue amounts must not be negative")
	}
	next := l
	next.penaltyAmount = l.penaltyAmount.Add(penalty)
	next.overdueAmount = overdue
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	return next, nil
}

// ApplyPayment settles an allocation outcome against the loan aggregates:
// principalInterestPaid counts toward totalPaid and reduces remainingAmount,
// penaltyPaid only reduces the penalty balance. When settledAll is true every
// installment is paid and the loan completes.
func (l Loan) ApplyPayment(principalInterestPaid, penaltyPaid decimal.Decimal, settledAll bool, now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return l, valueobject.ErrLoanNotActive
	}
	if principalInterestPaid.LessThan(decimal.Zero) || penaltyPaid.LessThan(decimal.Zero) {
		return l, valueobject.ErrInvalidPaymentAmount
	}
	if penaltyPaid.GreaterThan(l.penaltyAmount) {
		return l, valueobject.ErrPenaltyExceeded
	}

	next := l
	next.totalPaid = l.totalPaid.Add(principalInterestPaid)
	next.remainingAmount = l.remainingAmount.Sub(principalInterestPaid)
	if next.remainingAmount.LessThan(decimal.Zero) {
		next.remainingAmount = decimal.Zero
	}
	next.penaltyAmount = l.penaltyAmount.Sub(penaltyPaid)
	next.overdueAmount = l.overdueAmount.Sub(principalInterestPaid)
	if next.overdueAmount.LessThan(decimal.Zero) {
		next.overdueAmount = decimal.Zero
	}
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewPaymentReceived(
		l.id, l.userID, principalInterestPaid, penaltyPaid, l.currency, next.remainingAmount, now,
	))

	if settledAll {
		next.status = valueobject.LoanStatusCompleted
		completed := now
		next.completedAt = &completed
		next.domainEvents = append(next.domainEvents, event.NewLoanCompleted(l.id, l.userID, now))
	}

	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                         { return l.id }
func (l Loan) UserID() string                     { return l.userID }
func (l Loan) Principal() decimal.Decimal         { return l.principal }
func (l Loan) Currency() string                   { return l.currency }
func (l Loan) InterestRateBps() int               { return l.interestRateBps }
func (l Loan) TenureMonths() int                  { return l.tenureMonths }
func (l Loan) EMIAmount() decimal.Decimal         { return l.emiAmount }
func (l Loan) CreditScore() int                   { return l.creditScore }
func (l Loan) Purpose() string                    { return l.purpose }
func (l Loan) EmploymentStatus() string           { return l.employmentStatus }
func (l Loan) Employment() EmploymentDetails      { return l.employment }
func (l Loan) Financials() FinancialDetails       { return l.financials }
func (l Loan) Collateral() string                 { return l.collateral }
func (l Loan) Status() valueobject.LoanStatus     { return l.status }
func (l Loan) DecisionReason() string             { return l.decisionReason }
func (l Loan) TotalPaid() decimal.Decimal         { return l.totalPaid }
func (l Loan) RemainingAmount() decimal.Decimal   { return l.remainingAmount }
func (l Loan) PenaltyAmount() decimal.Decimal     { return l.penaltyAmount }
func (l Loan) OverdueAmount() decimal.Decimal     { return l.overdueAmount }
func (l Loan) Version() int                       { return l.version }
func (l Loan) CreatedAt() time.Time               { return l.createdAt }
func (l Loan) UpdatedAt() time.Time               { return l.updatedAt }
func (l Loan) CompletedAt() *time.Time            { return l.completedAt }
func (l Loan) DomainEvents() []event.DomainEvent  { return l.domainEvents }

// Documents returns a defensive copy of the attached documents.
func (l Loan) Documents() []Document {
	if l.documents == nil {
		return nil
	}
	out := make([]Document, len(l.documents))
	copy(out, l.documents)
	return out
}

// Schedule returns a defensive copy of the amortization schedule.
func (l Loan) Schedule() []Installment {
	if l.schedule == nil {
		return nil
	}
	out := make([]Installment, len(l.schedule))
	copy(out, l.schedule)
	return out
}

// NextPendingInstallment returns the earliest-due unpaid installment, if any.
func (l Loan) NextPendingInstallment() (Installment, bool) {
	for _, inst := range l.schedule {
		if inst.Status.Equal(valueobject.InstallmentStatusPending) {
			return inst, true
		}
	}
	return Installment{}, false
}

// WithSchedule returns a copy carrying the given schedule. Used by the
// persistence layer when installments are loaded separately from the loan row.
func (l Loan) WithSchedule(schedule []Installment) Loan {
	next := l
	next.schedule = schedule
	return next
}

// ClearEvents returns a copy with an empty event list (call after publishing).
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
