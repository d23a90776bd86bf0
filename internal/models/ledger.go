package models

// LedgerState names the steps a fee payment passes through.
type LedgerState string

const (
	LedgerStateLookup          LedgerState = "lookup"
	LedgerStateBalanceCheck    LedgerState = "balance_check"
	LedgerStatePaymentAccepted LedgerState = "payment_accepted"
	LedgerStateDone            LedgerState = "done"
)

// PaymentOutcome is the terminal result reported for a payment request.
type PaymentOutcome string

const (
	PaymentOutcomePaid           PaymentOutcome = "paid"
	PaymentOutcomeAlreadySettled PaymentOutcome = "already_settled"
)

// LedgerBalance summarises the fee fields of a student.
type LedgerBalance struct {
	StudentID string  `json:"student_id"`
	Name      string  `json:"name"`
	TotalFees float64 `json:"total_fees"`
	PaidFees  float64 `json:"paid_fees"`
	Remaining float64 `json:"remaining"`
	Settled   bool    `json:"settled"`
}

// PaymentReceipt is returned after a payment request completes.
type PaymentReceipt struct {
	LedgerBalance
	Outcome        PaymentOutcome `json:"outcome"`
	Amount         float64        `json:"amount"`
	Password       string         `json:"password,omitempty"`
	PasswordIssued bool           `json:"password_issued"`
}
