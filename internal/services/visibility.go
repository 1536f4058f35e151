package services

import (
	"context"

	"github.com/daylog/daylog-backend/internal/model"
	"github.com/daylog/daylog-backend/internal/store"
)

type VisibilityService struct {
	store store.Store
}

func NewVisibilityService(s store.Store) *VisibilityService {
	return &VisibilityService{store: s}
}

// List returns one visibility flag per category. Categories that lost their
// default row get one seeded (visible) before the final read, so callers
// always see a complete map.
func (s *VisibilityService) List(ctx context.Context, userID int64) ([]*model.CategoryVisibility, error) {
	cats, err := s.store.Categories().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	vis, err := s.store.Visibilities().List(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(vis))
	for _, v := range vis {
		seen[v.CategoryID] = true
	}
	missing := false
	for _, c := range cats {
		if !seen[c.ID] {
			if err := s.store.Visibilities().EnsureDefault(ctx, userID, c.ID); err != nil {
				return nil, err
			}
			missing = true
		}
	}
	if !missing {
		return vis, nil
	}
	return s.store.Visibilities().List(ctx, userID)
}

// Set writes the flag for one category. The store converges any duplicate
// rows for the pair as part of the same write.
func (s *VisibilityService) Set(ctx context.Context, userID, categoryID int64, visible bool) (*model.CategoryVisibility, error) {
	return s.store.Visibilities().Set(ctx, userID, categoryID, visible)
}
