package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Service handles user operations.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a new user service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateRequest defines user creation inputs.
type CreateRequest struct {
	Email        string
	FirstName    string
	LastName     string
	Role         Role
	Team         string
	InternalCost float64
}

// Create creates a new active user.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	if strings.TrimSpace(req.Email) == "" || !validRole(req.Role) {
		return nil, ErrInvalidInput
	}

	u := User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Team:         req.Team,
		InternalCost: req.InternalCost,
		IsActive:     true,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &u, nil
}

// Get fetches a user by ID.
func (s *Service) Get(_ context.Context, id string) (*User, error) {
	u, ok := s.store.Find(id)
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// Find is the lookup used by other services.
func (s *Service) Find(id string) (User, bool) {
	return s.store.Find(id)
}

// List returns all users.
func (s *Service) List(_ context.Context) []User {
	return s.store.List()
}

// Update replaces a user.
func (s *Service) Update(ctx context.Context, u User) (*User, error) {
	if _, ok := s.store.Find(u.ID); !ok {
		return nil, ErrUserNotFound
	}
	if !validRole(u.Role) {
		return nil, ErrInvalidInput
	}
	if err := s.store.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return &u, nil
}

// DisplayName returns the user's full name, or "Non assigné" when unknown.
func (s *Service) DisplayName(id string) string {
	if u, ok := s.store.Find(id); ok {
		return u.FullName()
	}
	return UnassignedName
}

// UnassignedName is shown for missing or unknown user references.
const UnassignedName = "Non assigné"

func validRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCollaborator, RoleQualityControl, RoleClient:
		return true
	}
	return false
}
