package grpc

// proto.go defines the gRPC server interface derived from
// iprofit/lending/v1/lending.proto. This file serves as a stand-in for
// buf-generated code. Once `buf generate` is run, replace this file with the
// import from github.com/iprofitlabs/lending-service/api/gen/go/iprofit/lending/v1.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ---------------------------------------------------------------------------
// Wire messages. Monetary values travel as decimal strings.
// ---------------------------------------------------------------------------

type EmploymentDetails struct {
	CompanyName    string `json:"company_name,omitempty"`
	Designation    string `json:"designation,omitempty"`
	WorkingSince   string `json:"working_since,omitempty"`
	CompanyAddress string `json:"company_address,omitempty"`
}

type FinancialDetails struct {
	BankBalance     string `json:"bank_balance,omitempty"`
	ExistingLoans   string `json:"existing_loans,omitempty"`
	MonthlyExpenses string `json:"monthly_expenses,omitempty"`
	OtherIncome     string `json:"other_income,omitempty"`
}

type Document struct {
	Type     string `json:"type,omitempty"`
	Url      string `json:"url,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type Installment struct {
	Number     int32  `json:"number,omitempty"`
	DueDate    string `json:"due_date,omitempty"`
	Amount     string `json:"amount,omitempty"`
	Principal  string `json:"principal,omitempty"`
	Interest   string `json:"interest,omitempty"`
	Status     string `json:"status,omitempty"`
	PaidAmount string `json:"paid_amount,omitempty"`
	PaidAt     string `json:"paid_at,omitempty"`
}

type Loan struct {
	Id              string         `json:"id,omitempty"`
	UserId          string         `json:"user_id,omitempty"`
	Principal       string         `json:"principal,omitempty"`
	Currency        string         `json:"currency,omitempty"`
	InterestRate    string         `json:"interest_rate,omitempty"`
	TenureMonths    int32          `json:"tenure_months,omitempty"`
	EmiAmount       string         `json:"emi_amount,omitempty"`
	CreditScore     int32          `json:"credit_score,omitempty"`
	Purpose         string         `json:"purpose,omitempty"`
	Status          string         `json:"status,omitempty"`
	DecisionReason  string         `json:"decision_reason,omitempty"`
	TotalPaid       string         `json:"total_paid,omitempty"`
	RemainingAmount string         `json:"remaining_amount,omitempty"`
	PenaltyAmount   string         `json:"penalty_amount,omitempty"`
	OverdueAmount   string         `json:"overdue_amount,omitempty"`
	Schedule        []*Installment `json:"schedule,omitempty"`
	CreatedAt       string         `json:"created_at,omitempty"`
	UpdatedAt       string         `json:"updated_at,omitempty"`
	CompletedAt     string         `json:"completed_at,omitempty"`
}

type ApplyLoanRequest struct {
	UserId            string             `json:"user_id,omitempty"`
	Amount            string             `json:"amount,omitempty"`
	Currency          string             `json:"currency,omitempty"`
	Purpose           string             `json:"purpose,omitempty"`
	TenureMonths      int32              `json:"tenure_months,omitempty"`
	MonthlyIncome     string             `json:"monthly_income,omitempty"`
	EmploymentStatus  string             `json:"employment_status,omitempty"`
	EmploymentDetails *EmploymentDetails `json:"employment_details,omitempty"`
	FinancialDetails  *FinancialDetails  `json:"financial_details,omitempty"`
	Collateral        string             `json:"collateral,omitempty"`
	Documents         []*Document        `json:"documents,omitempty"`
	AgreeToTerms      bool               `json:"agree_to_terms,omitempty"`
}

type ApplyLoanResponse struct {
	LoanId          string         `json:"loan_id,omitempty"`
	Status          string         `json:"status,omitempty"`
	InterestRate    string         `json:"interest_rate,omitempty"`
	EmiAmount       string         `json:"emi_amount,omitempty"`
	CreditScore     int32          `json:"credit_score,omitempty"`
	TenureMonths    int32          `json:"tenure_months,omitempty"`
	SchedulePreview []*Installment `json:"schedule_preview,omitempty"`
}

type GetLoanRequest struct {
	LoanId string `json:"loan_id,omitempty"`
}

type GetLoanResponse struct {
	Loan *Loan `json:"loan,omitempty"`
}

type ListLoansRequest struct {
	UserId string `json:"user_id,omitempty"`
}

type ListLoansResponse struct {
	Loans []*Loan `json:"loans,omitempty"`
}

type ReviewLoanRequest struct {
	LoanId  string `json:"loan_id,omitempty"`
	Approve bool   `json:"approve,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type ReviewLoanResponse struct {
	Loan *Loan `json:"loan,omitempty"`
}

type DisburseLoanRequest struct {
	LoanId string `json:"loan_id,omitempty"`
}

type DisburseLoanResponse struct {
	Loan *Loan `json:"loan,omitempty"`
}

type MakePaymentRequest struct {
	LoanId         string `json:"loan_id,omitempty"`
	Amount         string `json:"amount,omitempty"`
	PaymentType    string `json:"payment_type,omitempty"`
	PaymentMethod  string `json:"payment_method,omitempty"`
	PaymentNote    string `json:"payment_note,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type NextInstallment struct {
	Number  int32  `json:"number,omitempty"`
	DueDate string `json:"due_date,omitempty"`
	Amount  string `json:"amount,omitempty"`
}

type MakePaymentResponse struct {
	TransactionId   string           `json:"transaction_id,omitempty"`
	LoanId          string           `json:"loan_id,omitempty"`
	Status          string           `json:"status,omitempty"`
	TotalPaid       string           `json:"total_paid,omitempty"`
	RemainingAmount string           `json:"remaining_amount,omitempty"`
	PenaltyAmount   string           `json:"penalty_amount,omitempty"`
	IsCompleted     bool             `json:"is_completed,omitempty"`
	Replayed        bool             `json:"replayed,omitempty"`
	NextInstallment *NextInstallment `json:"next_installment,omitempty"`
}

type MarkDefaultRequest struct {
	LoanId string `json:"loan_id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type MarkDefaultResponse struct {
	Loan *Loan `json:"loan,omitempty"`
}

type AssessPenaltyRequest struct {
	LoanId        string `json:"loan_id,omitempty"`
	PenaltyAmount string `json:"penalty_amount,omitempty"`
	OverdueAmount string `json:"overdue_amount,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

type AssessPenaltyResponse struct {
	Loan *Loan `json:"loan,omitempty"`
}

// LendingServiceServer is the server API for LendingService.
// It mirrors the proto-generated interface from iprofit.lending.v1.LendingService.
type LendingServiceServer interface {
	ApplyLoan(context.Context, *ApplyLoanRequest) (*ApplyLoanResponse, error)
	GetLoan(context.Context, *GetLoanRequest) (*GetLoanResponse, error)
	ListLoans(context.Context, *ListLoansRequest) (*ListLoansResponse, error)
	ReviewLoan(context.Context, *ReviewLoanRequest) (*ReviewLoanResponse, error)
	DisburseLoan(context.Context, *DisburseLoanRequest) (*DisburseLoanResponse, error)
	MakePayment(context.Context, *MakePaymentRequest) (*MakePaymentResponse, error)
	MarkDefault(context.Context, *MarkDefaultRequest) (*MarkDefaultResponse, error)
	AssessPenalty(context.Context, *AssessPenaltyRequest) (*AssessPenaltyResponse, error)
	mustEmbedUnimplementedLendingServiceServer()
}

// UnimplementedLendingServiceServer provides forward-compatible default implementations.
type UnimplementedLendingServiceServer struct{}

func (UnimplementedLendingServiceServer) ApplyLoan(context.Context, *ApplyLoanRequest) (*ApplyLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ApplyLoan not implemented")
}
func (UnimplementedLendingServiceServer) GetLoan(context.Context, *GetLoanRequest) (*GetLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoan not implemented")
}
func (UnimplementedLendingServiceServer) ListLoans(context.Context, *ListLoansRequest) (*ListLoansResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListLoans not implemented")
}
func (UnimplementedLendingServiceServer) ReviewLoan(context.Context, *ReviewLoanRequest) (*ReviewLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReviewLoan not implemented")
}
func (UnimplementedLendingServiceServer) DisburseLoan(context.Context, *DisburseLoanRequest) (*DisburseLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DisburseLoan not implemented")
}
func (UnimplementedLendingServiceServer) MakePayment(context.Context, *MakePaymentRequest) (*MakePaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MakePayment not implemented")
}
func (UnimplementedLendingServiceServer) MarkDefault(context.Context, *MarkDefaultRequest) (*MarkDefaultResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MarkDefault not implemented")
}
func (UnimplementedLendingServiceServer) AssessPenalty(context.Context, *AssessPenaltyRequest) (*AssessPenaltyResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AssessPenalty not implemented")
}
func (UnimplementedLendingServiceServer) mustEmbedUnimplementedLendingServiceServer() {}

// RegisterLendingServiceServer registers the LendingServiceServer with the gRPC server.
func RegisterLendingServiceServer(s *grpclib.Server, srv LendingServiceServer) {
	s.RegisterService(&_LendingService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _LendingService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "iprofit.lending.v1.LendingService",
	HandlerType: (*LendingServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ApplyLoan", Handler: _LendingService_ApplyLoan_Handler},         //nolint:revive // gRPC handler registration
		{MethodName: "GetLoan", Handler: _LendingService_GetLoan_Handler},             //nolint:revive // gRPC handler registration
		{MethodName: "ListLoans", Handler: _LendingService_ListLoans_Handler},         //nolint:revive // gRPC handler registration
		{MethodName: "ReviewLoan", Handler: _LendingService_ReviewLoan_Handler},       //nolint:revive // gRPC handler registration
		{MethodName: "DisburseLoan", Handler: _LendingService_DisburseLoan_Handler},   //nolint:revive // gRPC handler registration
		{MethodName: "MakePayment", Handler: _LendingService_MakePayment_Handler},     //nolint:revive // gRPC handler registration
		{MethodName: "MarkDefault", Handler: _LendingService_MarkDefault_Handler},     //nolint:revive // gRPC handler registration
		{MethodName: "AssessPenalty", Handler: _LendingService_AssessPenalty_Handler}, //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _LendingService_ApplyLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ApplyLoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LendingServiceServer).ApplyLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/iprofit.lending.v1.LendingService/ApplyLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LendingServiceServer).ApplyLoan(ctx, req.(*ApplyLoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LendingService_GetLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetLoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LendingServiceServer).GetLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/iprofit.lending.v1.LendingService/GetLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LendingServiceServer).GetLoan(ctx, req.(*GetLoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LendingService_ListLoans_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListLoansRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LendingServiceServer).ListLoans(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/iprofit.lending.v1.LendingService/ListLoans",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LendingServiceServer).ListLoans(ctx, req.(*ListLoansRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LendingService_ReviewLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ReviewLoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LendingServiceServer).ReviewLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/iprofit.lending.v1.LendingService/ReviewLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LendingServiceServer).ReviewLoan(ctx, req.(*ReviewLoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LendingService_DisburseLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(DisburseLoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LendingServiceServer).DisburseLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/iprofit.lending.v1.LendingService/DisburseLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LendingServiceServer).DisburseLoan(ctx, req.(*DisburseLoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LendingService_MakePayment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(MakePaymentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LendingServiceServer).MakePayment(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/iprofit.lending.v1.LendingService/MakePayment",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LendingServiceServer).MakePayment(ctx, req.(*MakePaymentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LendingService_MarkDefault_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(MarkDefaultRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LendingServiceServer).MarkDefault(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/iprofit.lending.v1.LendingService/MarkDefault",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LendingServiceServer).MarkDefault(ctx, req.(*MarkDefaultRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LendingService_AssessPenalty_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(AssessPenaltyRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LendingServiceServer).AssessPenalty(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/iprofit.lending.v1.LendingService/AssessPenalty",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LendingServiceServer).AssessPenalty(ctx, req.(*AssessPenaltyRequest))
	}
	return interceptor(ctx, in, info, handler)
}
