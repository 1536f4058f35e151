package services

import (
	"context"
	"strings"

	"github.com/daylog/daylog-backend/internal/model"
	"github.com/daylog/daylog-backend/internal/store"
)

const (
	defaultCategoryName  = "General"
	defaultCategoryColor = "#3174ad"
)

type CategoryService struct {
	store store.Store
}

func NewCategoryService(s store.Store) *CategoryService {
	return &CategoryService{store: s}
}

// Create inserts the category and then seeds its default visibility row.
// The two writes are separate; if the second is lost, the next visibility
// read or write converges the state.
func (s *CategoryService) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, model.NewValidationError("name", "name is required")
	}
	created, err := s.store.Categories().Create(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := s.store.Visibilities().EnsureDefault(ctx, created.UserID, created.ID); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, categoryID int64) (*model.Category, error) {
	return s.store.Categories().Get(ctx, userID, categoryID)
}

// List returns the user's categories, seeding a starter category on first
// use so calendar views always have at least one bucket.
func (s *CategoryService) List(ctx context.Context, userID int64) ([]*model.Category, error) {
	cats, err := s.store.Categories().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cats) > 0 {
		return cats, nil
	}
	def, err := s.Create(ctx, &model.Category{
		UserID: userID,
		Name:   defaultCategoryName,
		Color:  defaultCategoryColor,
	})
	if err != nil {
		return nil, err
	}
	return []*model.Category{def}, nil
}

func (s *CategoryService) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, model.NewValidationError("name", "name is required")
	}
	return s.store.Categories().Update(ctx, c)
}

// Delete drops the category together with its visibility rows; events and
// todos tagged with it are untagged, not deleted.
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID int64) error {
	return s.store.Categories().Delete(ctx, userID, categoryID)
}
