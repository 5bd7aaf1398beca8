package accounts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/devstack-vibes/clinic-api/internal/platform/store"
	"github.com/devstack-vibes/clinic-api/internal/platform/telemetry"
)

type Service struct {
	repo   UserRepository
	tel    *telemetry.Provider
	logger zerolog.Logger
}

func NewService(repo UserRepository, tel *telemetry.Provider, logger zerolog.Logger) *Service {
	return &Service{repo: repo, tel: tel, logger: logger}
}

func (s *Service) record(operation string) {
	if s.tel != nil {
		s.tel.RecordOperation(store.Users, operation)
	}
}

// Create adds a user. The password is demanded as proof of intent and then
// discarded; only id, username and role are persisted.
func (s *Service) Create(ctx context.Context, u *User, password string) error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if u.Role == "" {
		u.Role = DefaultRole
	}
	u.ID = uuid.NewString()
	if err := s.repo.Create(ctx, u); err != nil {
		return err
	}
	s.record("create")
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, u *User) error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	if u.Role == "" {
		u.Role = DefaultRole
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	s.record("update")
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record("delete")
	return nil
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	s.record("list")
	return s.repo.List(ctx)
}
