package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/myflix-backend/internal/apperr"
	"github.com/AnshRaj112/myflix-backend/internal/models"
	"github.com/AnshRaj112/myflix-backend/internal/store"
)

// UserService is the CRUD surface over the credential store.
type UserService struct {
	users store.UserStore
	log   logrus.FieldLogger
}

func NewUserService(users store.UserStore, log logrus.FieldLogger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.log.WithError(err).Error("Failed to list users")
		return nil, apperr.Internal(err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, name string) (*models.User, error) {
	u, err := s.users.GetUser(ctx, name)
	if err != nil {
		return nil, s.mapErr(err, name)
	}
	return u, nil
}

// Update fully replaces the profile of name with in. Favorites are kept.
func (s *UserService) Update(ctx context.Context, name string, in UserInput) (*models.User, error) {
	u, err := buildUser(in)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.ReplaceUser(ctx, name, u)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperr.Conflict(in.Name + " already exists")
		}
		return nil, s.mapErr(err, name)
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, name string) error {
	if err := s.users.DeleteUser(ctx, name); err != nil {
		return s.mapErr(err, name)
	}
	s.log.WithField("name", name).Info("User deleted")
	return nil
}

func (s *UserService) mapErr(err error, name string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(name + " was not found")
	}
	s.log.WithError(err).WithField("name", name).Error("User store failure")
	return apperr.Internal(err)
}
