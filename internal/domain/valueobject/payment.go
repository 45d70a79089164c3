package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// PaymentType – immutable value object
// ---------------------------------------------------------------------------

// PaymentType selects the allocation strategy for an incoming payment.
type PaymentType struct {
	value string
}

const (
	paymentTypeFullEMI     = "FULL_EMI"
	paymentTypePartial     = "PARTIAL"
	paymentTypePrepayment  = "PREPAYMENT"
	paymentTypePenaltyOnly = "PENALTY_ONLY"
)

var (
	PaymentTypeFullEMI     = PaymentType{value: paymentTypeFullEMI}
	PaymentTypePartial     = PaymentType{value: paymentTypePartial}
	PaymentTypePrepayment  = PaymentType{value: paymentTypePrepayment}
	PaymentTypePenaltyOnly = PaymentType{value: paymentTypePenaltyOnly}
)

var validPaymentTypes = map[string]PaymentType{
	paymentTypeFullEMI:     PaymentTypeFullEMI,
	paymentTypePartial:     PaymentTypePartial,
	paymentTypePrepayment:  PaymentTypePrepayment,
	paymentTypePenaltyOnly: PaymentTypePenaltyOnly,
}

// NewPaymentType creates a PaymentType from a raw string. Lowercase wire
// aliases (full_emi, partial, prepayment, penalty_only) are accepted.
func NewPaymentType(s string) (PaymentType, error) {
	if v, ok := validPaymentTypes[s]; ok {
		return v, nil
	}
	switch s {
	case "full_emi":
		return PaymentTypeFullEMI, nil
	case "partial":
		return PaymentTypePartial, nil
	case "prepayment":
		return PaymentTypePrepayment, nil
	case "penalty_only":
		return PaymentTypePenaltyOnly, nil
	}
	return PaymentType{}, fmt.Errorf("invalid payment type: %q", s)
}

// String returns the string representation of the payment type.
func (p PaymentType) String() string { return p.value }

// Equal returns true when both types carry the same value.
func (p PaymentType) Equal(other PaymentType) bool { return p.value == other.value }

// ---------------------------------------------------------------------------
// PaymentMethod – immutable value object
// ---------------------------------------------------------------------------

// PaymentMethod identifies the funding source of a payment.
type PaymentMethod struct {
	value string
}

const (
	paymentMethodBalance      = "BALANCE"
	paymentMethodCard         = "CARD"
	paymentMethodBankTransfer = "BANK_TRANSFER"
)

var (
	PaymentMethodBalance      = PaymentMethod{value: paymentMethodBalance}
	PaymentMethodCard         = PaymentMethod{value: paymentMethodCard}
	PaymentMethodBankTransfer = PaymentMethod{value: paymentMethodBankTransfer}
)

// NewPaymentMethod creates a PaymentMethod from a raw string. Lowercase wire
// aliases (balance, card, bank_transfer) are accepted.
func NewPaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case paymentMethodBalance, "balance":
		return PaymentMethodBalance, nil
	case paymentMethodCard, "card":
		return PaymentMethodCard, nil
	case paymentMethodBankTransfer, "bank_transfer":
		return PaymentMethodBankTransfer, nil
	}
	return PaymentMethod{}, fmt.Errorf("invalid payment method: %q", s)
}

// String returns the string representation of the payment method.
func (m PaymentMethod) String() string { return m.value }

// Equal returns true when both methods carry the same value.
func (m PaymentMethod) Equal(other PaymentMethod) bool { return m.value == other.value }
