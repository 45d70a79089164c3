package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/iprofitlabs/lending-service/internal/application/dto"
	"github.com/iprofitlabs/lending-service/internal/application/usecase"
	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
	"github.com/iprofitlabs/lending-service/pkg/auth"
)

// LendingHandler implements LendingServiceServer on top of the use cases.
// The caller identity comes from the JWT claims placed in the context by the
// auth interceptor.
type LendingHandler struct {
	UnimplementedLendingServiceServer

	apply         *usecase.ApplyForLoanUseCase
	review        *usecase.ReviewLoanUseCase
	disburse      *usecase.DisburseLoanUseCase
	payment       *usecase.MakePaymentUseCase
	markDefault   *usecase.MarkDefaultUseCase
	assessPenalty *usecase.AssessPenaltyUseCase
	getLoan       *usecase.GetLoanUseCase
}

// NewLendingHandler creates a new handler with all use-case dependencies.
func NewLendingHandler(
	apply *usecase.ApplyForLoanUseCase,
	review *usecase.ReviewLoanUseCase,
	disburse *usecase.DisburseLoanUseCase,
	payment *usecase.MakePaymentUseCase,
	markDefault *usecase.MarkDefaultUseCase,
	assessPenalty *usecase.AssessPenaltyUseCase,
	getLoan *usecase.GetLoanUseCase,
) *LendingHandler {
	return &LendingHandler{
		apply:         apply,
		review:        review,
		disburse:      disburse,
		payment:       payment,
		markDefault:   markDefault,
		assessPenalty: assessPenalty,
		getLoan:       getLoan,
	}
}

// ApplyLoan submits a new loan application for the authenticated user.
func (h *LendingHandler) ApplyLoan(ctx context.Context, req *ApplyLoanRequest) (*ApplyLoanResponse, error) {
	claims, err := callerClaims(ctx)
	if err != nil {
		return nil, err
	}
	userID := req.UserId
	if userID == "" {
		userID = claims.UserID
	}
	if userID != claims.UserID && !hasRole(claims, auth.RoleAdmin) {
		return nil, status.Error(codes.PermissionDenied, "cannot apply on behalf of another user")
	}

	amount, err := parseAmount(req.Amount, "amount")
	if err != nil {
		return nil, err
	}
	income, err := parseAmount(req.MonthlyIncome, "monthly_income")
	if err != nil {
		return nil, err
	}

	appReq := dto.ApplyLoanRequest{
		UserID:           userID,
		Amount:           amount,
		Currency:         req.Currency,
		Purpose:          req.Purpose,
		TenureMonths:     int(req.TenureMonths),
		MonthlyIncome:    income,
		EmploymentStatus: req.EmploymentStatus,
		Collateral:       req.Collateral,
		AgreeToTerms:     req.AgreeToTerms,
	}
	if req.EmploymentDetails != nil {
		appReq.EmploymentDetails = dto.EmploymentDetailsPayload{
			CompanyName:    req.EmploymentDetails.CompanyName,
			Designation:    req.EmploymentDetails.Designation,
			WorkingSince:   req.EmploymentDetails.WorkingSince,
			CompanyAddress: req.EmploymentDetails.CompanyAddress,
		}
	}
	if req.FinancialDetails != nil {
		fin, err := parseFinancials(req.FinancialDetails)
		if err != nil {
			return nil, err
		}
		appReq.FinancialDetails = fin
	}
	for _, d := range req.Documents {
		appReq.Documents = append(appReq.Documents, dto.DocumentPayload{
			Type: d.Type, URL: d.Url, Filename: d.Filename,
		})
	}

	resp, err := h.apply.Execute(ctx, appReq)
	if err != nil {
		return nil, statusFromError(err)
	}

	return &ApplyLoanResponse{
		LoanId:          resp.LoanID,
		Status:          resp.Status,
		InterestRate:    resp.InterestRate.String(),
		EmiAmount:       resp.EMIAmount.String(),
		CreditScore:     int32(resp.CreditScore),
		TenureMonths:    int32(resp.TenureMonths),
		SchedulePreview: toWireInstallments(resp.SchedulePreview),
	}, nil
}

// GetLoan retrieves one loan with its schedule. Customers may only read
// their own loans.
func (h *LendingHandler) GetLoan(ctx context.Context, req *GetLoanRequest) (*GetLoanResponse, error) {
	claims, err := callerClaims(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := h.getLoan.Execute(ctx, dto.GetLoanRequest{LoanID: req.LoanId})
	if err != nil {
		return nil, statusFromError(err)
	}
	if resp.UserID != claims.UserID && !hasRole(claims, auth.RoleAdmin, auth.RoleSupport) {
		return nil, status.Error(codes.PermissionDenied, "not your loan")
	}
	return &GetLoanResponse{Loan: toWireLoan(resp)}, nil
}

// ListLoans lists loans of a user.
func (h *LendingHandler) ListLoans(ctx context.Context, req *ListLoansRequest) (*ListLoansResponse, error) {
	claims, err := callerClaims(ctx)
	if err != nil {
		return nil, err
	}
	userID := req.UserId
	if userID == "" {
		userID = claims.UserID
	}
	if userID != claims.UserID && !hasRole(claims, auth.RoleAdmin, auth.RoleSupport) {
		return nil, status.Error(codes.PermissionDenied, "not your loans")
	}

	loans, err := h.getLoan.ListByUser(ctx, dto.ListLoansRequest{UserID: userID})
	if err != nil {
		return nil, statusFromError(err)
	}
	out := make([]*Loan, 0, len(loans))
	for _, l := range loans {
		out = append(out, toWireLoan(l))
	}
	return &ListLoansResponse{Loans: out}, nil
}

// ReviewLoan approves or rejects a pending loan. Admin only.
func (h *LendingHandler) ReviewLoan(ctx context.Context, req *ReviewLoanRequest) (*ReviewLoanResponse, error) {
	claims, err := requireRole(ctx, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}
	resp, err := h.review.Execute(ctx, dto.ReviewLoanRequest{
		LoanID:   req.LoanId,
		Reviewer: claims.UserID,
		Approve:  req.Approve,
		Reason:   req.Reason,
	})
	if err != nil {
		return nil, statusFromError(err)
	}
	return &ReviewLoanResponse{Loan: toWireLoan(resp)}, nil
}

// DisburseLoan releases funds for an approved loan. Admin only.
func (h *LendingHandler) DisburseLoan(ctx context.Context, req *DisburseLoanRequest) (*DisburseLoanResponse, error) {
	claims, err := requireRole(ctx, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}
	resp, err := h.disburse.Execute(ctx, dto.DisburseLoanRequest{
		LoanID: req.LoanId,
		Actor:  claims.UserID,
	})
	if err != nil {
		return nil, statusFromError(err)
	}
	return &DisburseLoanResponse{Loan: toWireLoan(resp)}, nil
}

// MakePayment records a repayment by the authenticated user.
func (h *LendingHandler) MakePayment(ctx context.Context, req *MakePaymentRequest) (*MakePaymentResponse, error) {
	claims, err := callerClaims(ctx)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(req.Amount, "amount")
	if err != nil {
		return nil, err
	}

	resp, err := h.payment.Execute(ctx, dto.MakePaymentRequest{
		LoanID:         req.LoanId,
		UserID:         claims.UserID,
		Amount:         amount,
		PaymentType:    req.PaymentType,
		PaymentMethod:  req.PaymentMethod,
		PaymentNote:    req.PaymentNote,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, statusFromError(err)
	}

	out := &MakePaymentResponse{
		TransactionId:   resp.TransactionID,
		LoanId:          resp.LoanID,
		Status:          resp.Status,
		TotalPaid:       resp.TotalPaid.String(),
		RemainingAmount: resp.RemainingAmount.String(),
		PenaltyAmount:   resp.PenaltyAmount.String(),
		IsCompleted:     resp.IsCompleted,
		Replayed:        resp.Replayed,
	}
	if resp.NextInstallment != nil {
		out.NextInstallment = &NextInstallment{
			Number:  int32(resp.NextInstallment.Number),
			DueDate: resp.NextInstallment.DueDate.Format(time.RFC3339),
			Amount:  resp.NextInstallment.Amount.String(),
		}
	}
	return out, nil
}

// MarkDefault writes off an active loan. Admin only.
func (h *LendingHandler) MarkDefault(ctx context.Context, req *MarkDefaultRequest) (*MarkDefaultResponse, error) {
	claims, err := requireRole(ctx, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}
	resp, err := h.markDefault.Execute(ctx, dto.MarkDefaultRequest{
		LoanID: req.LoanId,
		Actor:  claims.UserID,
		Reason: req.Reason,
	})
	if err != nil {
		return nil, statusFromError(err)
	}
	return &MarkDefaultResponse{Loan: toWireLoan(resp)}, nil
}

// AssessPenalty records a late charge. Admin only.
func (h *LendingHandler) AssessPenalty(ctx context.Context, req *AssessPenaltyRequest) (*AssessPenaltyResponse, error) {
	claims, err := requireRole(ctx, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}
	penalty, err := parseAmount(req.PenaltyAmount, "penalty_amount")
	if err != nil {
		return nil, err
	}
	overdue, err := parseAmount(req.OverdueAmount, "overdue_amount")
	if err != nil {
		return nil, err
	}
	resp, err := h.assessPenalty.Execute(ctx, dto.AssessPenaltyRequest{
		LoanID:        req.LoanId,
		PenaltyAmount: penalty,
		OverdueAmount: overdue,
		Actor:         claims.UserID,
		Reason:        req.Reason,
	})
	if err != nil {
		return nil, statusFromError(err)
	}
	return &AssessPenaltyResponse{Loan: toWireLoan(resp)}, nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func callerClaims(ctx context.Context) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing credentials")
	}
	return claims, nil
}

func requireRole(ctx context.Context, roles ...string) (*auth.Claims, error) {
	claims, err := callerClaims(ctx)
	if err != nil {
		return nil, err
	}
	if !hasRole(claims, roles...) {
		return nil, status.Error(codes.PermissionDenied, "insufficient role")
	}
	return claims, nil
}

func hasRole(claims *auth.Claims, roles ...string) bool {
	for _, r := range roles {
		if claims.HasRole(r) {
			return true
		}
	}
	return false
}

func parseAmount(raw, field string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, status.Errorf(codes.InvalidArgument, "invalid %s: %v", field, err)
	}
	return v, nil
}

func parseFinancials(in *FinancialDetails) (dto.FinancialDetailsPayload, error) {
	var out dto.FinancialDetailsPayload
	var err error
	parse := func(raw, field string) decimal.Decimal {
		if err != nil || raw == "" {
			return decimal.Zero
		}
		var v decimal.Decimal
		v, err = decimal.NewFromString(raw)
		if err != nil {
			err = status.Errorf(codes.InvalidArgument, "invalid %s: %v", field, err)
		}
		return v
	}
	out.BankBalance = parse(in.BankBalance, "bank_balance")
	out.ExistingLoans = parse(in.ExistingLoans, "existing_loans")
	out.MonthlyExpenses = parse(in.MonthlyExpenses, "monthly_expenses")
	out.OtherIncome = parse(in.OtherIncome, "other_income")
	return out, err
}

// statusFromError maps domain sentinels onto gRPC status codes.
func statusFromError(err error) error {
	switch {
	case errors.Is(err, valueobject.ErrLoanNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, valueobject.ErrValidation),
		errors.Is(err, valueobject.ErrInvalidPaymentAmount),
		errors.Is(err, valueobject.ErrPrepaymentUnsupported),
		errors.Is(err, valueobject.ErrPenaltyExceeded),
		errors.Is(err, valueobject.ErrNoPendingInstallments):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, valueobject.ErrKYCNotApproved),
		errors.Is(err, valueobject.ErrOpenLoanExists),
		errors.Is(err, valueobject.ErrScoreTooLow),
		errors.Is(err, valueobject.ErrDTITooHigh),
		errors.Is(err, valueobject.ErrLoanNotActive),
		errors.Is(err, valueobject.ErrInvalidStatusTransition),
		errors.Is(err, valueobject.ErrInsufficientBalance):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Errorf(codes.Internal, "internal error: %v", err)
	}
}

func toWireInstallments(in []dto.InstallmentResponse) []*Installment {
	out := make([]*Installment, 0, len(in))
	for _, inst := range in {
		w := &Installment{
			Number:     int32(inst.Number),
			DueDate:    inst.DueDate.Format(time.RFC3339),
			Amount:     inst.Amount.String(),
			Principal:  inst.Principal.String(),
			Interest:   inst.Interest.String(),
			Status:     inst.Status,
			PaidAmount: inst.PaidAmount.String(),
		}
		if inst.PaidAt != nil {
			w.PaidAt = inst.PaidAt.Format(time.RFC3339)
		}
		out = append(out, w)
	}
	return out
}

func toWireLoan(in dto.LoanResponse) *Loan {
	w := &Loan{
		Id:              in.ID,
		UserId:          in.UserID,
		Principal:       in.Principal.String(),
		Currency:        in.Currency,
		InterestRate:    in.InterestRate.String(),
		TenureMonths:    int32(in.TenureMonths),
		EmiAmount:       in.EMIAmount.String(),
		CreditScore:     int32(in.CreditScore),
		Purpose:         in.Purpose,
		Status:          in.Status,
		DecisionReason:  in.DecisionReason,
		TotalPaid:       in.TotalPaid.String(),
		RemainingAmount: in.RemainingAmount.String(),
		PenaltyAmount:   in.PenaltyAmount.String(),
		OverdueAmount:   in.OverdueAmount.String(),
		Schedule:        toWireInstallments(in.Schedule),
		CreatedAt:       in.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       in.UpdatedAt.Format(time.RFC3339),
	}
	if in.CompletedAt != nil {
		w.CompletedAt = in.CompletedAt.Format(time.RFC3339)
	}
	return w
}
