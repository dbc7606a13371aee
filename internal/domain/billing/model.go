package billing

import (
	"time"

	"github.com/rpggio/cabinet/internal/domain/client"
)

// Kind is a billing document kind.
type Kind string

const (
	KindInvoice    Kind = "invoice"
	KindQuote      Kind = "quote"
	KindCreditNote Kind = "credit_note"
)

// Item is a billing line. Total is cached and recomputed on every save.
type Item struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
	VATRate     float64 `json:"vat_rate,omitempty"`
	IsExpense   bool    `json:"is_expense,omitempty"`
}

// Template names the layout used when rendering a document elsewhere.
type Template struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Header         string `json:"header,omitempty"`
	Footer         string `json:"footer,omitempty"`
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
}

// Totals is the derived amount block of a document.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	VATAmount float64 `json:"vat_amount"`
	Total     float64 `json:"total"`
}

// InvoiceStatus is the status of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// QuoteStatus is the status of a quote.
type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuoteSent     QuoteStatus = "sent"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
	QuoteExpired  QuoteStatus = "expired"
)

// CreditNoteStatus is the status of a credit note.
type CreditNoteStatus string

const (
	CreditNoteDraft     CreditNoteStatus = "draft"
	CreditNoteSent      CreditNoteStatus = "sent"
	CreditNoteProcessed CreditNoteStatus = "processed"
)

// Invoice is a bill sent to a client.
type Invoice struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"client_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Date          time.Time       `json:"date"`
	DueDate       time.Time       `json:"due_date"`
	Currency      client.Currency `json:"currency"`
	Items         []Item          `json:"items"`
	VATRate       float64         `json:"vat_rate"`
	Totals
	Status    InvoiceStatus `json:"status"`
	Template  Template      `json:"template"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Quote is a priced proposal.
type Quote struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id"`
	QuoteNumber string          `json:"quote_number"`
	Date        time.Time       `json:"date"`
	ValidUntil  time.Time       `json:"valid_until"`
	Currency    client.Currency `json:"currency"`
	Items       []Item          `json:"items"`
	VATRate     float64         `json:"vat_rate"`
	Totals
	Status    QuoteStatus `json:"status"`
	Template  Template    `json:"template"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CreditNote reverses all or part of an invoice.
type CreditNote struct {
	ID                string          `json:"id"`
	ClientID          string          `json:"client_id"`
	OriginalInvoiceID string          `json:"original_invoice_id"`
	CreditNoteNumber  string          `json:"credit_note_number"`
	Date              time.Time       `json:"date"`
	Currency          client.Currency `json:"currency"`
	Items             []Item          `json:"items"`
	VATRate           float64         `json:"vat_rate"`
	Totals
	Reason    string           `json:"reason"`
	Status    CreditNoteStatus `json:"status"`
	Template  Template         `json:"template"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (i Invoice) EntityID() string { return i.ID }

func (i Invoice) Normalized() Invoice {
	if i.Items == nil {
		i.Items = []Item{}
	}
	return i
}

func (q Quote) EntityID() string { return q.ID }

func (q Quote) Normalized() Quote {
	if q.Items == nil {
		q.Items = []Item{}
	}
	return q
}

func (c CreditNote) EntityID() string { return c.ID }

func (c CreditNote) Normalized() CreditNote {
	if c.Items == nil {
		c.Items = []Item{}
	}
	return c
}
