package services

import (
	"context"
	"strings"

	"github.com/daylog/daylog-backend/internal/model"
	"github.com/daylog/daylog-backend/internal/store"
)

type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService {
	return &UserService{store: s}
}

func (s *UserService) Register(ctx context.Context, u *model.User) (*model.User, error) {
	if !strings.Contains(u.Email, "@") {
		return nil, model.NewValidationError("email", "valid email is required")
	}
	return s.store.Users().Create(ctx, u)
}

func (s *UserService) Get(ctx context.Context, userID int64) (*model.User, error) {
	return s.store.Users().Get(ctx, userID)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.store.Users().GetByEmail(ctx, email)
}
