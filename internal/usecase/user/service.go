package user

import (
	"context"
	"errors"

	"skillmatch/internal/domain/user"

	"github.com/google/uuid"
)

var ErrInternal = errors.New("internal error")

type Service struct {
	users user.Repository
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return user.User{}, ErrInternal
	}
	usr.PasswordHash = ""
	return usr, nil
}
