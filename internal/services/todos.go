package services

import (
	"context"
	"strings"

	"github.com/daylog/daylog-backend/internal/model"
	"github.com/daylog/daylog-backend/internal/store"
)

type TodoService struct {
	store store.Store
}

func NewTodoService(s store.Store) *TodoService {
	return &TodoService{store: s}
}

func (s *TodoService) Create(ctx context.Context, td *model.Todo) (*model.Todo, error) {
	if err := validateTodo(td); err != nil {
		return nil, err
	}
	if td.CategoryID != nil {
		if _, err := s.store.Categories().Get(ctx, td.UserID, *td.CategoryID); err != nil {
			return nil, err
		}
	}
	td.Progress = clampProgress(td.Progress)
	return s.store.Todos().Create(ctx, td)
}

func (s *TodoService) Get(ctx context.Context, userID, todoID int64) (*model.Todo, error) {
	return s.store.Todos().Get(ctx, userID, todoID)
}

func (s *TodoService) List(ctx context.Context, userID int64) ([]*model.Todo, error) {
	return s.store.Todos().List(ctx, userID)
}

func (s *TodoService) Update(ctx context.Context, td *model.Todo) (*model.Todo, error) {
	if err := validateTodo(td); err != nil {
		return nil, err
	}
	if td.CategoryID != nil {
		if _, err := s.store.Categories().Get(ctx, td.UserID, *td.CategoryID); err != nil {
			return nil, err
		}
	}
	td.Progress = clampProgress(td.Progress)
	// a full bar means done, and vice versa
	if td.Progress == 100 {
		td.Completed = true
	}
	return s.store.Todos().Update(ctx, td)
}

// UpdateProgress sets only the progress bar. Progress is clamped to [0,100]
// and 100 marks the todo completed.
func (s *TodoService) UpdateProgress(ctx context.Context, userID, todoID int64, progress int) (*model.Todo, error) {
	td, err := s.store.Todos().Get(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}
	td.Progress = clampProgress(progress)
	td.Completed = td.Progress == 100
	return s.store.Todos().Update(ctx, td)
}

// Delete removes the todo and, in the same transaction, any diary relation
// pointing at it.
func (s *TodoService) Delete(ctx context.Context, userID, todoID int64) error {
	return s.store.Todos().Delete(ctx, userID, todoID)
}

func validateTodo(td *model.Todo) error {
	if strings.TrimSpace(td.Title) == "" {
		return model.NewValidationError("title", "title is required")
	}
	return nil
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
