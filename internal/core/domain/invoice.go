package domain

import (
	"errors"
	"time"
)

// InvoiceStatus represents the billing state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
	InvoiceVoid  InvoiceStatus = "void"
)

// validInvoiceTransitions defines the allowed state machine transitions.
// Paid is terminal; void can be reached from any non-paid state.
var validInvoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft: {InvoiceSent, InvoiceVoid},
	InvoiceSent:  {InvoicePaid, InvoiceVoid},
}

var ErrInvoiceNotFound = errors.New("invoice not found")
var ErrInvalidInvoiceTransition = errors.New("invalid invoice status transition")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	for _, allowed := range validInvoiceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LineItem is a single billed row on an invoice. Amounts are stored in
// cents to avoid floating-point drift on totals.
type LineItem struct {
	Description string `json:"description" bson:"description"`
	Quantity    int    `json:"quantity" bson:"quantity"`
	UnitCents   int64  `json:"unit_cents" bson:"unit_cents"`
}

// TotalCents returns quantity times unit price for this line.
func (li LineItem) TotalCents() int64 {
	return int64(li.Quantity) * li.UnitCents
}

// Invoice bills a customer for one or more completed jobs.
type Invoice struct {
	ID         string        `json:"id" bson:"_id,omitempty"`
	Number     string        `json:"number" bson:"number"`
	CustomerID string        `json:"customer_id" bson:"customer_id"`
	JobID      string        `json:"job_id,omitempty" bson:"job_id,omitempty"`
	Status     InvoiceStatus `json:"status" bson:"status"`
	Currency   string        `json:"currency" bson:"currency"`
	LineItems  []LineItem    `json:"line_items" bson:"line_items"`
	IssuedAt   time.Time     `json:"issued_at" bson:"issued_at"`
	DueAt      time.Time     `json:"due_at" bson:"due_at"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" bson:"updated_at"`
}

// TotalCents sums all line item totals.
func (i *Invoice) TotalCents() int64 {
	var total int64
	for _, li := range i.LineItems {
		total += li.TotalCents()
	}
	return total
}
