// Package transport defines the wire types for the offer API.
package transport

import "github.com/google/uuid"

// EmailDraft is a prefilled offer email the operator can review before
// sending.
type EmailDraft struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendQuoteRequest sends the offer by email. An empty To falls back to
// the customer's email address.
type SendQuoteRequest struct {
	To string `json:"to" validate:"omitempty,email"`
}

// SendQuoteResponse reports the outcome of a send.
type SendQuoteResponse struct {
	QuoteID uuid.UUID `json:"quoteId"`
	SentTo  string    `json:"sentTo"`
	Status  string    `json:"status"`
}
