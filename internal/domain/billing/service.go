package billing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/cabinet/internal/domain/activity"
	"github.com/rpggio/cabinet/internal/domain/client"
)

// Number prefixes per document kind.
const (
	InvoicePrefix    = "FAC"
	QuotePrefix      = "DEV"
	CreditNotePrefix = "AV"
)

// Config holds billing defaults.
type Config struct {
	DefaultVATRate  float64
	DefaultCurrency client.Currency
}

// Service handles billing documents. Every save normalizes lines and
// recomputes totals.
type Service struct {
	invoices    Store[Invoice]
	quotes      Store[Quote]
	creditNotes Store[CreditNote]
	clients     ClientLookup
	activity    ActivityRecorder
	cfg         Config
	logger      *slog.Logger
	now         func() time.Time
}

// NewService creates a new billing service.
func NewService(invoices Store[Invoice], quotes Store[Quote], creditNotes Store[CreditNote], clients ClientLookup, recorder ActivityRecorder, cfg Config, logger *slog.Logger) *Service {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = client.CurrencyMAD
	}
	return &Service{
		invoices:    invoices,
		quotes:      quotes,
		creditNotes: creditNotes,
		clients:     clients,
		activity:    recorder,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// DefaultVATRate is the rate applied when a caller doesn't give one.
func (s *Service) DefaultVATRate() float64 {
	return s.cfg.DefaultVATRate
}

// Saved wraps a stored document with its advisory warning, if any.
type Saved[T any] struct {
	Document T      `json:"document"`
	Warning  string `json:"warning,omitempty"`
}

// prepare validates and normalizes lines and returns the derived totals and
// free-zone warning.
func (s *Service) prepare(clientID string, items []Item, rate float64) ([]Item, Totals, string, error) {
	if clientID == "" || rate < 0 {
		return nil, Totals{}, "", ErrInvalidInput
	}
	if err := ValidateUniformRates(items, rate); err != nil {
		return nil, Totals{}, "", err
	}
	items = Normalize(items, rate)
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}
	var warning string
	if c, ok := s.clients.Find(clientID); ok {
		warning = FreeZoneWarning(c, items, rate)
	}
	return items, DocumentTotals(items, rate), warning, nil
}

// SaveInvoice creates the invoice when it has no ID and replaces it otherwise.
// actorID is stamped on the audit entry.
func (s *Service) SaveInvoice(ctx context.Context, actorID string, inv Invoice) (*Saved[Invoice], error) {
	if inv.Status == "" {
		inv.Status = InvoiceDraft
	}
	if !validInvoiceStatus(inv.Status) {
		return nil, ErrInvalidInput
	}
	items, totals, warning, err := s.prepare(inv.ClientID, inv.Items, inv.VATRate)
	if err != nil {
		return nil, err
	}
	inv.Items, inv.Totals = items, totals
	if inv.Currency == "" {
		inv.Currency = s.cfg.DefaultCurrency
	}

	now := s.now()
	inv.UpdatedAt = now
	var saveErr error
	if inv.ID == "" {
		inv.ID = uuid.NewString()
		inv.CreatedAt = now
		if inv.Date.IsZero() {
			inv.Date = now
		}
		if inv.InvoiceNumber == "" {
			inv.InvoiceNumber = nextNumber(InvoicePrefix, now, len(s.invoices.List()))
		}
		inv = inv.Normalized()
		saveErr = s.invoices.Create(ctx, inv)
	} else {
		existing, ok := s.invoices.Find(inv.ID)
		if !ok {
			return nil, ErrDocumentNotFound
		}
		inv.CreatedAt = existing.CreatedAt
		if inv.InvoiceNumber == "" {
			inv.InvoiceNumber = existing.InvoiceNumber
		}
		inv = inv.Normalized()
		saveErr = s.invoices.Update(ctx, inv)
	}

	saved := &Saved[Invoice]{Document: inv, Warning: warning}
	if saveErr != nil {
		return saved, fmt.Errorf("saving invoice: %w", saveErr)
	}
	s.record(ctx, actorID, inv.ID, "invoice "+inv.InvoiceNumber)
	return saved, nil
}

// SaveQuote creates the quote when it has no ID and replaces it otherwise.
func (s *Service) SaveQuote(ctx context.Context, actorID string, q Quote) (*Saved[Quote], error) {
	if q.Status == "" {
		q.Status = QuoteDraft
	}
	if !validQuoteStatus(q.Status) {
		return nil, ErrInvalidInput
	}
	items, totals, warning, err := s.prepare(q.ClientID, q.Items, q.VATRate)
	if err != nil {
		return nil, err
	}
	q.Items, q.Totals = items, totals
	if q.Currency == "" {
		q.Currency = s.cfg.DefaultCurrency
	}

	now := s.now()
	q.UpdatedAt = now
	var saveErr error
	if q.ID == "" {
		q.ID = uuid.NewString()
		q.CreatedAt = now
		if q.Date.IsZero() {
			q.Date = now
		}
		if q.QuoteNumber == "" {
			q.QuoteNumber = nextNumber(QuotePrefix, now, len(s.quotes.List()))
		}
		q = q.Normalized()
		saveErr = s.quotes.Create(ctx, q)
	} else {
		existing, ok := s.quotes.Find(q.ID)
		if !ok {
			return nil, ErrDocumentNotFound
		}
		q.CreatedAt = existing.CreatedAt
		if q.QuoteNumber == "" {
			q.QuoteNumber = existing.QuoteNumber
		}
		q = q.Normalized()
		saveErr = s.quotes.Update(ctx, q)
	}

	saved := &Saved[Quote]{Document: q, Warning: warning}
	if saveErr != nil {
		return saved, fmt.Errorf("saving quote: %w", saveErr)
	}
	s.record(ctx, actorID, q.ID, "quote "+q.QuoteNumber)
	return saved, nil
}

// SaveCreditNote creates or replaces a credit note. It must reference an
// existing invoice of the same client and give a reason.
func (s *Service) SaveCreditNote(ctx context.Context, actorID string, cn CreditNote) (*Saved[CreditNote], error) {
	if cn.Status == "" {
		cn.Status = CreditNoteDraft
	}
	if !validCreditNoteStatus(cn.Status) || strings.TrimSpace(cn.Reason) == "" {
		return nil, ErrInvalidInput
	}
	original, ok := s.invoices.Find(cn.OriginalInvoiceID)
	if !ok {
		return nil, fmt.Errorf("original invoice %s: %w", cn.OriginalInvoiceID, ErrDocumentNotFound)
	}
	if cn.ClientID == "" {
		cn.ClientID = original.ClientID
	}
	if cn.ClientID != original.ClientID {
		return nil, fmt.Errorf("%w: credit note client differs from invoice client", ErrInvalidInput)
	}
	items, totals, warning, err := s.prepare(cn.ClientID, cn.Items, cn.VATRate)
	if err != nil {
		return nil, err
	}
	cn.Items, cn.Totals = items, totals
	if cn.Currency == "" {
		cn.Currency = original.Currency
	}

	now := s.now()
	cn.UpdatedAt = now
	var saveErr error
	if cn.ID == "" {
		cn.ID = uuid.NewString()
		cn.CreatedAt = now
		if cn.Date.IsZero() {
			cn.Date = now
		}
		if cn.CreditNoteNumber == "" {
			cn.CreditNoteNumber = nextNumber(CreditNotePrefix, now, len(s.creditNotes.List()))
		}
		cn = cn.Normalized()
		saveErr = s.creditNotes.Create(ctx, cn)
	} else {
		existing, ok := s.creditNotes.Find(cn.ID)
		if !ok {
			return nil, ErrDocumentNotFound
		}
		cn.CreatedAt = existing.CreatedAt
		if cn.CreditNoteNumber == "" {
			cn.CreditNoteNumber = existing.CreditNoteNumber
		}
		cn = cn.Normalized()
		saveErr = s.creditNotes.Update(ctx, cn)
	}

	saved := &Saved[CreditNote]{Document: cn, Warning: warning}
	if saveErr != nil {
		return saved, fmt.Errorf("saving credit note: %w", saveErr)
	}
	s.record(ctx, actorID, cn.ID, "credit note "+cn.CreditNoteNumber)
	return saved, nil
}

// ListOptions filters document listings.
type ListOptions struct {
	ClientID string
	Status   string
}

// ListInvoices returns invoices, newest first.
func (s *Service) ListInvoices(_ context.Context, opts ListOptions) []Invoice {
	out := []Invoice{}
	for _, inv := range s.invoices.List() {
		if opts.ClientID != "" && inv.ClientID != opts.ClientID {
			continue
		}
		if opts.Status != "" && string(inv.Status) != opts.Status {
			continue
		}
		out = append(out, inv)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// ListQuotes returns quotes, newest first.
func (s *Service) ListQuotes(_ context.Context, opts ListOptions) []Quote {
	out := []Quote{}
	for _, q := range s.quotes.List() {
		if opts.ClientID != "" && q.ClientID != opts.ClientID {
			continue
		}
		if opts.Status != "" && string(q.Status) != opts.Status {
			continue
		}
		out = append(out, q)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// ListCreditNotes returns credit notes, newest first.
func (s *Service) ListCreditNotes(_ context.Context, opts ListOptions) []CreditNote {
	out := []CreditNote{}
	for _, cn := range s.creditNotes.List() {
		if opts.ClientID != "" && cn.ClientID != opts.ClientID {
			continue
		}
		if opts.Status != "" && string(cn.Status) != opts.Status {
			continue
		}
		out = append(out, cn)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// GetInvoice fetches an invoice by ID.
func (s *Service) GetInvoice(_ context.Context, id string) (*Invoice, error) {
	inv, ok := s.invoices.Find(id)
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return &inv, nil
}

// CountForClient counts documents of every kind referencing clientID.
func (s *Service) CountForClient(clientID string) int {
	n := 0
	for _, inv := range s.invoices.List() {
		if inv.ClientID == clientID {
			n++
		}
	}
	for _, q := range s.quotes.List() {
		if q.ClientID == clientID {
			n++
		}
	}
	for _, cn := range s.creditNotes.List() {
		if cn.ClientID == clientID {
			n++
		}
	}
	return n
}

func (s *Service) record(ctx context.Context, actorID, subjectID, summary string) {
	if s.activity != nil {
		s.activity.Record(ctx, activity.TypeDocumentSaved, actorID, subjectID, summary)
	}
}

// nextNumber formats PREFIX-YYYY-NNN from the count of existing documents.
func nextNumber(prefix string, now time.Time, existing int) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, now.Year(), existing+1)
}

func validInvoiceStatus(st InvoiceStatus) bool {
	switch st {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

func validQuoteStatus(st QuoteStatus) bool {
	switch st {
	case QuoteDraft, QuoteSent, QuoteAccepted, QuoteRejected, QuoteExpired:
		return true
	}
	return false
}

func validCreditNoteStatus(st CreditNoteStatus) bool {
	switch st {
	case CreditNoteDraft, CreditNoteSent, CreditNoteProcessed:
		return true
	}
	return false
}
