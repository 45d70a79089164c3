package port

import (
	"context"
	"time"

	"github.com/iprofitlabs/lending-service/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// External collaborator ports. These subsystems live outside the lending
// core; the contracts here are the whole of what the core knows about them.
// ---------------------------------------------------------------------------

// KYCClient looks up a user's identity-verification status.
type KYCClient interface {
	Status(ctx context.Context, userID string) (valueobject.KYCStatus, error)
}

// ApplicantProfile is the slice of the user record the core needs for
// underwriting and notification addressing.
type ApplicantProfile struct {
	Email          string
	Age            int
	PaymentHistory int // 0..100, from the platform's repayment records
}

// ApplicantDirectory resolves applicant profile facts owned by the user
// subsystem.
type ApplicantDirectory interface {
	Profile(ctx context.Context, userID string) (ApplicantProfile, error)
}

// Notifier dispatches a user notification. Fire-and-forget: failures are
// logged by the caller, never surfaced to the financial operation's caller,
// never retried synchronously.
type Notifier interface {
	Send(ctx context.Context, userID, templateID string, vars map[string]string) error
}

// AuditEntry is a write-only record of what happened.
type AuditEntry struct {
	Actor      string
	Action     string
	LoanID     string
	UserID     string
	Detail     map[string]string
	OccurredAt time.Time
}

// AuditLogger appends audit entries. The core never reads them back.
type AuditLogger interface {
	Append(ctx context.Context, entry AuditEntry) error
}
