package services

import (
	"context"
	"strings"

	"github.com/daylog/daylog-backend/internal/model"
	"github.com/daylog/daylog-backend/internal/store"
)

type EventService struct {
	store store.Store
}

func NewEventService(s store.Store) *EventService {
	return &EventService{store: s}
}

func (s *EventService) Create(ctx context.Context, e *model.CalendarEvent) (*model.CalendarEvent, error) {
	if err := validateEvent(e); err != nil {
		return nil, err
	}
	if e.CategoryID != nil {
		if _, err := s.store.Categories().Get(ctx, e.UserID, *e.CategoryID); err != nil {
			return nil, err
		}
	}
	return s.store.Events().Create(ctx, e)
}

func (s *EventService) Get(ctx context.Context, userID, eventID int64) (*model.CalendarEvent, error) {
	return s.store.Events().Get(ctx, userID, eventID)
}

func (s *EventService) List(ctx context.Context, userID int64) ([]*model.CalendarEvent, error) {
	return s.store.Events().List(ctx, userID)
}

func (s *EventService) Update(ctx context.Context, e *model.CalendarEvent) (*model.CalendarEvent, error) {
	if err := validateEvent(e); err != nil {
		return nil, err
	}
	if e.CategoryID != nil {
		if _, err := s.store.Categories().Get(ctx, e.UserID, *e.CategoryID); err != nil {
			return nil, err
		}
	}
	return s.store.Events().Update(ctx, e)
}

// Delete removes the event and, in the same transaction, any diary relation
// pointing at it.
func (s *EventService) Delete(ctx context.Context, userID, eventID int64) error {
	return s.store.Events().Delete(ctx, userID, eventID)
}

func validateEvent(e *model.CalendarEvent) error {
	if strings.TrimSpace(e.Title) == "" {
		return model.NewValidationError("title", "title is required")
	}
	if e.EndTime.Before(e.StartTime) {
		return model.NewValidationError("endTime", "end time must not precede start time")
	}
	return nil
}
