package valueobject

import "errors"

// Business-rule sentinel errors. Callers match with errors.Is; the message a
// caller sees usually carries required-vs-actual detail wrapped around one of
// these.
var (
	ErrValidation              = errors.New("invalid request")
	ErrLoanNotFound            = errors.New("loan not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	ErrKYCNotApproved        = errors.New("KYC is not approved")
	ErrOpenLoanExists        = errors.New("user already has an open loan")
	ErrScoreTooLow           = errors.New("credit score below minimum")
	ErrDTITooHigh            = errors.New("debt-to-income ratio above maximum")
	ErrLoanNotActive         = errors.New("loan is not active")
	ErrNoPendingInstallments = errors.New("no pending installments")
	ErrInvalidPaymentAmount  = errors.New("payment amount must be positive")
	ErrPenaltyExceeded       = errors.New("payment exceeds outstanding penalty")
	ErrPrepaymentUnsupported = errors.New("prepayment requires schedule recalculation and is not supported")
	ErrInsufficientBalance   = errors.New("insufficient balance")
)
