package client

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/cabinet/internal/domain/activity"
)

// Service handles client operations.
type Service struct {
	store      Store
	dependents map[string]Dependent
	activity   ActivityRecorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new client service. dependents maps a collection name
// to the counter used by the delete guard.
func NewService(store Store, dependents map[string]Dependent, recorder ActivityRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, dependents: dependents, activity: recorder, logger: logger, now: time.Now}
}

// CreateRequest defines client creation inputs.
type CreateRequest struct {
	CompanyName     string
	RC              string
	ICE             string
	IF              string
	CNSS            string
	VATRegime       VATRegime
	VATPeriodicity  VATPeriodicity
	FiscalYearStart time.Time
	FiscalYearEnd   time.Time
	Contacts        []Contact
	Address         Address
	Sector          string
	IsFreeZone      bool
	Currency        Currency
}

// Create creates a new active client.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Client, error) {
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, ErrInvalidInput
	}
	regime := req.VATRegime
	if regime == "" {
		regime = VATRegimeNormal
	}
	currency := req.Currency
	if currency == "" {
		currency = CurrencyMAD
	}

	c := Client{
		ID:              uuid.NewString(),
		CompanyName:     strings.TrimSpace(req.CompanyName),
		RC:              req.RC,
		ICE:             req.ICE,
		IF:              req.IF,
		CNSS:            req.CNSS,
		VATRegime:       regime,
		VATPeriodicity:  req.VATPeriodicity,
		FiscalYearStart: req.FiscalYearStart,
		FiscalYearEnd:   req.FiscalYearEnd,
		Contacts:        req.Contacts,
		Address:         req.Address,
		Sector:          req.Sector,
		IsFreeZone:      req.IsFreeZone,
		Currency:        currency,
		CreatedAt:       s.now(),
		IsActive:        true,
	}.Normalized()

	if err := s.store.Create(ctx, c); err != nil {
		return &c, fmt.Errorf("creating client: %w", err)
	}
	return &c, nil
}

// Get fetches a client by ID.
func (s *Service) Get(_ context.Context, id string) (*Client, error) {
	c, ok := s.store.Find(id)
	if !ok {
		return nil, ErrClientNotFound
	}
	return &c, nil
}

// Find is the lookup used by other services.
func (s *Service) Find(id string) (Client, bool) {
	return s.store.Find(id)
}

// List returns clients, optionally only active ones.
func (s *Service) List(_ context.Context, activeOnly bool) []Client {
	all := s.store.List()
	if !activeOnly {
		return all
	}
	out := make([]Client, 0, len(all))
	for _, c := range all {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out
}

// Update replaces a client. ID and creation time are kept from the stored copy.
func (s *Service) Update(ctx context.Context, c Client) (*Client, error) {
	existing, ok := s.store.Find(c.ID)
	if !ok {
		return nil, ErrClientNotFound
	}
	if strings.TrimSpace(c.CompanyName) == "" {
		return nil, ErrInvalidInput
	}
	c.CreatedAt = existing.CreatedAt
	c = c.Normalized()
	if err := s.store.Update(ctx, c); err != nil {
		return &c, fmt.Errorf("updating client: %w", err)
	}
	return &c, nil
}

// References counts the records in each dependent collection pointing at id.
// Collections with no reference are omitted.
func (s *Service) References(id string) map[string]int {
	refs := make(map[string]int)
	for name, dep := range s.dependents {
		if n := dep.CountForClient(id); n > 0 {
			refs[name] = n
		}
	}
	return refs
}

// Delete removes a client. While other records reference it the delete fails
// with an *InUseError unless force is set; forced deletes leave the
// references dangling and name lookups fall back to UnknownName. The audit
// entry names the orphaned collections.
func (s *Service) Delete(ctx context.Context, id, actorID string, force bool) error {
	c, ok := s.store.Find(id)
	if !ok {
		return ErrClientNotFound
	}
	refs := s.References(id)
	if len(refs) > 0 {
		if !force {
			return &InUseError{ClientID: id, References: refs}
		}
		s.logger.Warn("force-deleting referenced client", "client_id", id, "references", refs)
	}
	if err := s.store.Remove(ctx, id); err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	if s.activity != nil {
		summary := c.CompanyName
		if len(refs) > 0 {
			summary += " (forced, " + describeRefs(refs) + ")"
		}
		s.activity.Record(ctx, activity.TypeClientDeleted, actorID, id, summary)
	}
	return nil
}

func describeRefs(refs map[string]int) string {
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, refs[name]))
	}
	return strings.Join(parts, " ")
}

// DisplayName returns the company name for id, or UnknownName.
func (s *Service) DisplayName(id string) string {
	if c, ok := s.store.Find(id); ok && c.CompanyName != "" {
		return c.CompanyName
	}
	return UnknownName
}
