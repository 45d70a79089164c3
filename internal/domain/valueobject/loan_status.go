package valueobject

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// LoanStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanStatus represents the lifecycle stage of a loan.
type LoanStatus struct {
	value string
}

const (
	loanStatusPending   = "PENDING"
	loanStatusApproved  = "APPROVED"
	loanStatusActive    = "ACTIVE"
	loanStatusCompleted = "COMPLETED"
	loanStatusRejected  = "REJECTED"
	loanStatusDefaulted = "DEFAULTED"
)

var (
	LoanStatusPending   = LoanStatus{value: loanStatusPending}
	LoanStatusApproved  = LoanStatus{value: loanStatusApproved}
	LoanStatusActive    = LoanStatus{value: loanStatusActive}
	LoanStatusCompleted = LoanStatus{value: loanStatusCompleted}
	LoanStatusRejected  = LoanStatus{value: loanStatusRejected}
	LoanStatusDefaulted = LoanStatus{value: loanStatusDefaulted}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusPending:   LoanStatusPending,
	loanStatusApproved:  LoanStatusApproved,
	loanStatusActive:    LoanStatusActive,
	loanStatusCompleted: LoanStatusCompleted,
	loanStatusRejected:  LoanStatusRejected,
	loanStatusDefaulted: LoanStatusDefaulted,
}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool { return s.value == other.value }

// IsTerminal reports whether the status is final. Terminal loans are retained
// for audit and never mutated again.
func (s LoanStatus) IsTerminal() bool {
	switch s.value {
	case loanStatusCompleted, loanStatusRejected, loanStatusDefaulted:
		return true
	}
	return false
}

// IsOpen reports whether the loan counts against the one-open-loan-per-user rule.
func (s LoanStatus) IsOpen() bool {
	switch s.value {
	case loanStatusPending, loanStatusApproved, loanStatusActive:
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// InstallmentStatus – immutable value object
// ---------------------------------------------------------------------------

// InstallmentStatus represents the payment state of one repayment period.
type InstallmentStatus struct {
	value string
}

const (
	installmentStatusPending = "PENDING"
	installmentStatusPaid    = "PAID"
)

var (
	InstallmentStatusPending = InstallmentStatus{value: installmentStatusPending}
	InstallmentStatusPaid    = InstallmentStatus{value: installmentStatusPaid}
)

// NewInstallmentStatus creates an InstallmentStatus from a raw string.
func NewInstallmentStatus(s string) (InstallmentStatus, error) {
	switch s {
	case installmentStatusPending:
		return InstallmentStatusPending, nil
	case installmentStatusPaid:
		return InstallmentStatusPaid, nil
	}
	return InstallmentStatus{}, fmt.Errorf("invalid installment status: %q", s)
}

// String returns the string representation of the status.
func (s InstallmentStatus) String() string { return s.value }

// Equal returns true when both statuses carry the same value.
func (s InstallmentStatus) Equal(other InstallmentStatus) bool { return s.value == other.value }
