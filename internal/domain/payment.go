package domain

// PaymentOutcome is the gateway callback reduced to what the core consumes.
// Signature verification happens before this struct is built; the raw payload
// is retained only for the audit trail.
type PaymentOutcome struct {
	OrderNumber   string `json:"order_number"`
	ResultCode    int    `json:"result_code"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	RawPayload    string `json:"raw_payload,omitempty"`
}

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomePending
	OutcomeFailure
)

// Kind buckets the gateway result code. Zero is success, a small band of
// codes means the gateway is still processing, everything else is a failure
// or user cancellation.
func (p PaymentOutcome) Kind() OutcomeKind {
	switch {
	case p.ResultCode == 0:
		return OutcomeSuccess
	case p.ResultCode == 9000 || p.ResultCode == 7000 || p.ResultCode == 7002:
		return OutcomePending
	default:
		return OutcomeFailure
	}
}
