package model

// OrderStatus describes the order lifecycle state.
type OrderStatus string

const (
	StatusOrdered             OrderStatus = "ORDERED"
	StatusReviewed            OrderStatus = "REVIEWED"
	StatusReviewAwaited       OrderStatus = "REVIEW_AWAITED"
	StatusRefundDelayed       OrderStatus = "REFUND_DELAYED"
	StatusRefunded            OrderStatus = "REFUNDED"
	StatusCorrected           OrderStatus = "CORRECTED"
	StatusCancelled           OrderStatus = "CANCELLED"
	StatusCommissionCollected OrderStatus = "COMMISSION_COLLECTED"
	StatusPaid                OrderStatus = "PAID"
	StatusSentToSeller        OrderStatus = "SENT_TO_SELLER"
	StatusOnHold              OrderStatus = "ON_HOLD"
	StatusSent                OrderStatus = "SENT"
)

// Statuses lists every lifecycle state in declaration order.
var Statuses = []OrderStatus{
	StatusOrdered,
	StatusReviewed,
	StatusReviewAwaited,
	StatusRefundDelayed,
	StatusRefunded,
	StatusCorrected,
	StatusCancelled,
	StatusCommissionCollected,
	StatusPaid,
	StatusSentToSeller,
	StatusOnHold,
	StatusSent,
}

// legacySpellings maps status tokens that appeared in historical data to the
// canonical token. Only the canonical spelling is ever persisted.
var legacySpellings = map[string]OrderStatus{
	"COMISSION_COLLECTED": StatusCommissionCollected,
	"SENT_TO SELLER":      StatusSentToSeller,
	"ON HOLD":             StatusOnHold,
}

// ParseStatus resolves raw input to a canonical status token.
func ParseStatus(raw string) (OrderStatus, bool) {
	if canonical, ok := legacySpellings[raw]; ok {
		return canonical, true
	}
	s := OrderStatus(raw)
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Valid reports whether the status is a member of the canonical enumeration.
func (s OrderStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}
