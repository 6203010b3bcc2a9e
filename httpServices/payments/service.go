// Package payments is the thin client for the external payment processor.
// The processor is a black box: it issues intents here and reports outcomes
// asynchronously through the webhook intake.
package payments

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the payment processor API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a new payment processor client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// CreateIntent registers a payment intent with the processor and returns
// the handle the UI needs to collect payment.
func (c *Client) CreateIntent(req IntentRequest) (*IntentResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+"/v1/payment_intents", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("payment API returned non-OK status: " + resp.Status)
	}

	var intent IntentResponse
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("failed to decode intent response: %w", err)
	}

	if intent.ClientSecret == "" {
		return nil, errors.New("empty client secret in intent response")
	}

	return &intent, nil
}
