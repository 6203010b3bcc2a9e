package webhook

// Notification types pushed by the payment processor.
const (
	TypePaymentSucceeded = "payment_succeeded"
	TypePaymentFailed    = "payment_failed"
)

// PaymentNotification is the authenticated payload the processor delivers at
// least once. Metadata round-trips the opaque linkage fields attached when
// the intent was created.
type PaymentNotification struct {
	Type            string               `json:"type"`
	PaymentIntentID string               `json:"payment_intent_id"`
	Metadata        NotificationMetadata `json:"metadata"`
}

// NotificationMetadata links a processor event back to the originating
// customer request.
type NotificationMetadata struct {
	RequestID  string `json:"request_id"`
	CustomerID string `json:"customer_id"`
}
