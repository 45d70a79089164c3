package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
)

// Installment is one repayment period of a loan. The ordering key is
// (LoanID, Number); the sequence is created at origination and never
// reordered. Amount, Principal and Interest are fixed at schedule generation.
type Installment struct {
	LoanID     string
	Number     int
	DueDate    time.Time
	Amount     decimal.Decimal
	Principal  decimal.Decimal
	Interest   decimal.Decimal
	Status     valueobject.InstallmentStatus
	PaidAmount decimal.Decimal
	PaidAt     *time.Time
}

// Outstanding returns the unpaid remainder of this installment.
func (i Installment) Outstanding() decimal.Decimal {
	return i.Amount.Sub(i.PaidAmount)
}

// MonthlyInstallment computes the fixed EMI for a reducing-balance loan:
//
//	r   = annualRateBps / 10_000 / 12
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate degenerates to an even split P/n. The result is rounded to
// 2 decimal places.
func MonthlyInstallment(principal decimal.Decimal, annualRateBps, tenureMonths int) decimal.Decimal {
	if tenureMonths <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	monthlyRate := float64(annualRateBps) / 10_000.0 / 12.0
	if monthlyRate == 0 {
		return principal.Div(decimal.NewFromInt(int64(tenureMonths))).Round(2)
	}

	// The power term is computed in float64, then monetary arithmetic
	// switches back to decimal.
	factor := math.Pow(1+monthlyRate, float64(tenureMonths))
	emi := principal.InexactFloat64() * monthlyRate * factor / (factor - 1)
	return decimal.NewFromFloat(emi).Round(2)
}

// GenerateSchedule computes the full amortization schedule for a loan.
// Interest for period i is charged on the running balance; rounding happens
// at emission only, so intermediate balances do not accumulate rounding
// error. The final period absorbs any residual drift so that the principal
// components sum to exactly the original principal.
func GenerateSchedule(
	loanID string,
	principal decimal.Decimal,
	annualRateBps, tenureMonths int,
	originationDate time.Time,
) []Installment {
	if tenureMonths <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	emi := MonthlyInstallment(principal, annualRateBps, tenureMonths)
	monthlyRate := decimal.NewFromFloat(float64(annualRateBps) / 10_000.0 / 12.0)

	schedule := make([]Installment, 0, tenureMonths)
	balance := principal

	for period := 1; period <= tenureMonths; period++ {
		interest := balance.Mul(monthlyRate).Round(2)
		principalPart := emi.Sub(interest)
		amount := emi

		// Final period: the principal component absorbs the residual so the
		// schedule retires the balance exactly.
		if period == tenureMonths {
			principalPart = balance
			amount = principalPart.Add(interest)
		}

		balance = balance.Sub(principalPart)
		if balance.LessThan(decimal.Zero) {
			balance = decimal.Zero
		}

		schedule = append(schedule, Installment{
			LoanID:     loanID,
			Number:     period,
			DueDate:    originationDate.AddDate(0, period, 0),
			Amount:     amount.Round(2),
			Principal:  principalPart.Round(2),
			Interest:   interest,
			Status:     valueobject.InstallmentStatusPending,
			PaidAmount: decimal.Zero,
		})
	}

	return schedule
}

// TotalInterest sums the interest components of a schedule.
func TotalInterest(schedule []Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range schedule {
		total = total.Add(inst.Interest)
	}
	return total
}
