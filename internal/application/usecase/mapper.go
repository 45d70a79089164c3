package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/iprofitlabs/lending-service/internal/application/dto"
	"github.com/iprofitlabs/lending-service/internal/domain/model"
)

// rateBpsToPercent converts a basis-point rate into the percent figure shown
// externally (1200 -> 12.00).
func rateBpsToPercent(bps int) decimal.Decimal {
	return decimal.NewFromInt(int64(bps)).Div(decimal.NewFromInt(100)).Round(2)
}

func toInstallmentResponses(schedule []model.Installment) []dto.InstallmentResponse {
	out := make([]dto.InstallmentResponse, 0, len(schedule))
	for _, inst := range schedule {
		out = append(out, dto.InstallmentResponse{
			Number:     inst.Number,
			DueDate:    inst.DueDate,
			Amount:     inst.Amount,
			Principal:  inst.Principal,
			Interest:   inst.Interest,
			Status:     inst.Status.String(),
			PaidAmount: inst.PaidAmount,
			PaidAt:     inst.PaidAt,
		})
	}
	return out
}

func toLoanResponse(loan model.Loan, includeSchedule bool) dto.LoanResponse {
	resp := dto.LoanResponse{
		ID:              loan.ID(),
		UserID:          loan.UserID(),
		Principal:       loan.Principal(),
		Currency:        loan.Currency(),
		InterestRate:    rateBpsToPercent(loan.InterestRateBps()),
		TenureMonths:    loan.TenureMonths(),
		EMIAmount:       loan.EMIAmount(),
		CreditScore:     loan.CreditScore(),
		Purpose:         loan.Purpose(),
		Status:          loan.Status().String(),
		DecisionReason:  loan.DecisionReason(),
		TotalPaid:       loan.TotalPaid(),
		RemainingAmount: loan.RemainingAmount(),
		PenaltyAmount:   loan.PenaltyAmount(),
		OverdueAmount:   loan.OverdueAmount(),
		CreatedAt:       loan.CreatedAt(),
		UpdatedAt:       loan.UpdatedAt(),
		CompletedAt:     loan.CompletedAt(),
	}
	if includeSchedule {
		resp.Schedule = toInstallmentResponses(loan.Schedule())
	}
	return resp
}

func toNextInstallmentResponse(loan model.Loan) *dto.NextInstallmentResponse {
	next, ok := loan.NextPendingInstallment()
	if !ok {
		return nil
	}
	return &dto.NextInstallmentResponse{
		Number:  next.Number,
		DueDate: next.DueDate,
		Amount:  next.Outstanding(),
	}
}
