package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/iprofitlabs/lending-service/internal/domain/port"
)

// StubApplicantDirectory is a development/test adapter that derives a
// deterministic applicant profile from the user ID. It implements
// port.ApplicantDirectory and stands in for the user subsystem.
type StubApplicantDirectory struct{}

// NewStubApplicantDirectory creates a new stub adapter.
func NewStubApplicantDirectory() *StubApplicantDirectory {
	return &StubApplicantDirectory{}
}

// Profile returns a deterministic profile based on a hash of the user ID.
// This allows repeatable underwriting scenarios in tests.
func (d *StubApplicantDirectory) Profile(_ context.Context, userID string) (port.ApplicantProfile, error) {
	if userID == "" {
		return port.ApplicantProfile{}, fmt.Errorf("user ID is required")
	}

	h := sha256.Sum256([]byte(userID))
	return port.ApplicantProfile{
		Email:          fmt.Sprintf("user-%x@iprofit.example", h[:4]),
		Age:            21 + int(binary.BigEndian.Uint16(h[4:6])%45), // range [21, 65]
		PaymentHistory: 40 + int(binary.BigEndian.Uint16(h[6:8])%61), // range [40, 100]
	}, nil
}
