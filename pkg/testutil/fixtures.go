package testutil

// Fixed identifiers for deterministic testing.
const (
	TestUserID1 = "00000000-0000-0000-0000-000000000001"
	TestUserID2 = "00000000-0000-0000-0000-000000000002"
	TestLoanID1 = "00000000-0000-0000-0000-000000000101"
	TestLoanID2 = "00000000-0000-0000-0000-000000000102"
)
