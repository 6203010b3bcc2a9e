package payments

// IntentMetadata is attached to a payment intent and round-trips unchanged
// through the processor back into the webhook notification.
type IntentMetadata struct {
	RequestID  string `json:"request_id"`
	CustomerID string `json:"customer_id"`
}

// IntentRequest asks the processor to create a payment intent.
type IntentRequest struct {
	AmountCents int64          `json:"amount_cents"`
	Currency    string         `json:"currency"`
	Metadata    IntentMetadata `json:"metadata"`
}

// IntentResponse is the processor's reply. The client secret is handed to
// the customer-facing UI to complete the payment.
type IntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}
