package usecase

import (
	"context"
	"fmt"

	"github.com/iprofitlabs/lending-service/internal/application/dto"
	"github.com/iprofitlabs/lending-service/internal/domain/port"
)

// GetLoanUseCase serves loan reads: a single loan with its schedule, or all
// loans of a borrower.
type GetLoanUseCase struct {
	loanRepo port.LoanRepository
}

// NewGetLoanUseCase wires dependencies.
func NewGetLoanUseCase(loanRepo port.LoanRepository) *GetLoanUseCase {
	return &GetLoanUseCase{loanRepo: loanRepo}
}

// Execute returns one loan including its full amortization schedule.
func (uc *GetLoanUseCase) Execute(
	ctx context.Context,
	req dto.GetLoanRequest,
) (dto.LoanResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}
	return toLoanResponse(loan, true), nil
}

// ListByUser returns every loan held by a user, schedules omitted.
func (uc *GetLoanUseCase) ListByUser(
	ctx context.Context,
	req dto.ListLoansRequest,
) ([]dto.LoanResponse, error) {
	loans, err := uc.loanRepo.FindByUserID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	out := make([]dto.LoanResponse, 0, len(loans))
	for _, loan := range loans {
		out = append(out, toLoanResponse(loan, false))
	}
	return out, nil
}
