package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iprofitlabs/lending-service/internal/domain/model"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// PaymentAllocator – deterministic single-pass payment allocation
// ---------------------------------------------------------------------------

// Allocation is the outcome of allocating one payment. Touched carries the
// updated installment copies in allocation order; PenaltyPaid is tracked
// separately and never counts toward PrincipalInterestPaid.
type Allocation struct {
	PenaltyPaid           decimal.Decimal
	PrincipalInterestPaid decimal.Decimal
	Touched               []model.Installment
	Breakdown             []model.InstallmentShare
	SettledAll            bool
}

// PaymentAllocator distributes an incoming payment across the outstanding
// penalty balance and pending installments. It is pure: the caller supplies
// the loan and its pending installments, and persists the result.
type PaymentAllocator struct{}

// NewPaymentAllocator returns the allocator.
func NewPaymentAllocator() *PaymentAllocator {
	return &PaymentAllocator{}
}

// Allocate runs the single-pass allocation:
//
//  1. Outstanding penalty is paid first, from any payment type.
//  2. FULL_EMI and PARTIAL walk pending installments oldest-due-first (ties
//     broken by installment number), filling each up to its amount. An
//     installment is marked PAID only when fully covered.
//  3. PREPAYMENT is rejected until the recalculation policy is defined.
//  4. PENALTY_ONLY stops after step 1 and rejects any remainder.
//
// The function never allocates more than the payment amount and rejects
// payments that exceed everything outstanding rather than absorbing the
// difference.
func (a *PaymentAllocator) Allocate(
	loan model.Loan,
	pending []model.Installment,
	amount decimal.Decimal,
	paymentType valueobject.PaymentType,
	now time.Time,
) (Allocation, error) {
	if !loan.Status().Equal(valueobject.LoanStatusActive) {
		return Allocation{}, fmt.Errorf("%w: status is %s", valueobject.ErrLoanNotActive, loan.Status())
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return Allocation{}, valueobject.ErrInvalidPaymentAmount
	}
	if paymentType.Equal(valueobject.PaymentTypePrepayment) {
		return Allocation{}, valueobject.ErrPrepaymentUnsupported
	}

	remaining := amount
	alloc := Allocation{
		PenaltyPaid:           decimal.Zero,
		PrincipalInterestPaid: decimal.Zero,
	}

	// Step 1: penalty before anything else.
	if loan.PenaltyAmount().GreaterThan(decimal.Zero) {
		penalty := decimal.Min(remaining, loan.PenaltyAmount())
		alloc.PenaltyPaid = penalty
		remaining = remaining.Sub(penalty)
	}

	if paymentType.Equal(valueobject.PaymentTypePenaltyOnly) {
		if remaining.GreaterThan(decimal.Zero) {
			return Allocation{}, fmt.Errorf("%w: outstanding penalty %s, payment %s",
				valueobject.ErrPenaltyExceeded, loan.PenaltyAmount(), amount)
		}
		return alloc, nil
	}

	if len(pending) == 0 {
		if alloc.PenaltyPaid.IsZero() {
			return Allocation{}, valueobject.ErrNoPendingInstallments
		}
		if remaining.GreaterThan(decimal.Zero) {
			return Allocation{}, fmt.Errorf("%w: payment exceeds outstanding balance",
				valueobject.ErrInvalidPaymentAmount)
		}
		return alloc, nil
	}

	// Step 2: oldest-due-first, ties broken by installment number.
	ordered := make([]model.Installment, len(pending))
	copy(ordered, pending)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DueDate.Equal(ordered[j].DueDate) {
			return ordered[i].Number < ordered[j].Number
		}
		return ordered[i].DueDate.Before(ordered[j].DueDate)
	})

	settled := 0
	for idx := range ordered {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		inst := ordered[idx]
		if !inst.Status.Equal(valueobject.InstallmentStatusPending) {
			continue
		}

		apply := decimal.Min(remaining, inst.Outstanding())
		if apply.LessThanOrEqual(decimal.Zero) {
			continue
		}

		inst.PaidAmount = inst.PaidAmount.Add(apply)
		fullyPaid := inst.PaidAmount.GreaterThanOrEqual(inst.Amount)
		if fullyPaid {
			inst.Status = valueobject.InstallmentStatusPaid
			paidAt := now
			inst.PaidAt = &paidAt
			settled++
		}

		remaining = remaining.Sub(apply)
		alloc.PrincipalInterestPaid = alloc.PrincipalInterestPaid.Add(apply)
		alloc.Touched = append(alloc.Touched, inst)
		alloc.Breakdown = append(alloc.Breakdown, model.InstallmentShare{
			InstallmentNumber: inst.Number,
			Amount:            apply,
			Settled:           fullyPaid,
		})
	}

	if remaining.GreaterThan(decimal.Zero) {
		return Allocation{}, fmt.Errorf("%w: payment exceeds outstanding balance",
			valueobject.ErrInvalidPaymentAmount)
	}

	alloc.SettledAll = settled == len(ordered)
	return alloc, nil
}
