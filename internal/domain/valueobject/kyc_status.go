package valueobject

import "fmt"

// KYCStatus is the identity-verification state reported by the external KYC
// subsystem. The lending core only reads it; the KYC workflow lives elsewhere.
type KYCStatus struct {
	value string
}

const (
	kycStatusPending  = "PENDING"
	kycStatusApproved = "APPROVED"
	kycStatusRejected = "REJECTED"
)

var (
	KYCStatusPending  = KYCStatus{value: kycStatusPending}
	KYCStatusApproved = KYCStatus{value: kycStatusApproved}
	KYCStatusRejected = KYCStatus{value: kycStatusRejected}
)

// NewKYCStatus creates a KYCStatus from a raw string.
func NewKYCStatus(s string) (KYCStatus, error) {
	switch s {
	case kycStatusPending:
		return KYCStatusPending, nil
	case kycStatusApproved:
		return KYCStatusApproved, nil
	case kycStatusRejected:
		return KYCStatusRejected, nil
	}
	return KYCStatus{}, fmt.Errorf("invalid KYC status: %q", s)
}

// String returns the string representation of the status.
func (s KYCStatus) String() string { return s.value }

// IsApproved reports whether the user has cleared identity verification.
func (s KYCStatus) IsApproved() bool { return s.value == kycStatusApproved }
