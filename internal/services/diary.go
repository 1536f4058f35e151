package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/daylog/daylog-backend/internal/assets"
	"github.com/daylog/daylog-backend/internal/model"
	"github.com/daylog/daylog-backend/internal/store"
)

// DiaryService owns the diary write path: it coordinates image files on disk
// with diary rows and their relation sets. Store writes are transactional;
// file deletions are best-effort and only logged when they fail, so a stale
// file never blocks or corrupts a diary write.
type DiaryService struct {
	store  store.Store
	assets *assets.Manager
	log    zerolog.Logger
}

func NewDiaryService(s store.Store, am *assets.Manager, log zerolog.Logger) *DiaryService {
	return &DiaryService{store: s, assets: am, log: log}
}

// DiaryInput is the write payload for create and update. EventIDs and
// TodoIDs together define the complete relation set; whatever the diary was
// linked to before is replaced. A nil Date defaults to now.
type DiaryInput struct {
	Title       string
	Content     string
	Date        *time.Time
	EventIDs    []int64
	TodoIDs     []int64
	Image       *assets.Upload
	RemoveImage bool
}

// DiaryView is a diary with its related entities resolved.
type DiaryView struct {
	model.Diary
	RelatedEvents []*model.CalendarEvent `json:"relatedEvents"`
	RelatedTodos  []*model.Todo          `json:"relatedTodos"`
}

func (in *DiaryInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return model.NewValidationError("title", "title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return model.NewValidationError("content", "content is required")
	}
	return nil
}

func (s *DiaryService) Create(ctx context.Context, userID int64, in DiaryInput) (*DiaryView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	date := time.Now().UTC()
	if in.Date != nil {
		date = in.Date.UTC()
	}

	var imageURL *string
	if in.Image != nil {
		url, err := s.assets.Save(*in.Image)
		if err != nil {
			return nil, err
		}
		imageURL = &url
	}

	d, err := s.store.Diaries().Create(ctx, &model.Diary{
		UserID:   userID,
		Title:    in.Title,
		Content:  in.Content,
		Date:     date,
		ImageURL: imageURL,
	}, model.MergeRefs(in.EventIDs, in.TodoIDs))
	if err != nil {
		// the row never committed, drop the orphaned file
		if imageURL != nil {
			s.removeFile(*imageURL)
		}
		return nil, err
	}
	return s.view(ctx, d)
}

func (s *DiaryService) Update(ctx context.Context, userID, diaryID int64, in DiaryInput) (*DiaryView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.store.Diaries().Get(ctx, userID, diaryID)
	if err != nil {
		return nil, err
	}

	date := existing.Date
	if in.Date != nil {
		date = in.Date.UTC()
	}

	// Work out the image transition before touching the database. A new
	// upload is written first; the old file is only removed after the row
	// commit succeeds.
	imageURL := existing.ImageURL
	var newURL, oldURL string
	switch {
	case in.Image != nil:
		url, err := s.assets.Save(*in.Image)
		if err != nil {
			return nil, err
		}
		newURL = url
		if existing.ImageURL != nil {
			oldURL = *existing.ImageURL
		}
		imageURL = &url
	case in.RemoveImage && existing.ImageURL != nil:
		oldURL = *existing.ImageURL
		imageURL = nil
	}

	d, err := s.store.Diaries().Update(ctx, &model.Diary{
		ID:       diaryID,
		UserID:   userID,
		Title:    in.Title,
		Content:  in.Content,
		Date:     date,
		ImageURL: imageURL,
	}, model.MergeRefs(in.EventIDs, in.TodoIDs))
	if err != nil {
		if newURL != "" {
			s.removeFile(newURL)
		}
		return nil, err
	}
	if oldURL != "" {
		s.removeFile(oldURL)
	}
	return s.view(ctx, d)
}

func (s *DiaryService) Get(ctx context.Context, userID, diaryID int64) (*DiaryView, error) {
	d, err := s.store.Diaries().Get(ctx, userID, diaryID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, d)
}

func (s *DiaryService) List(ctx context.Context, userID int64) ([]*DiaryView, error) {
	ds, err := s.store.Diaries().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, ds)
}

// ListByDate returns the diaries whose date falls on the given calendar day
// (UTC).
func (s *DiaryService) ListByDate(ctx context.Context, userID int64, day time.Time) ([]*DiaryView, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	ds, err := s.store.Diaries().ListByDateRange(ctx, userID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return s.views(ctx, ds)
}

func (s *DiaryService) Delete(ctx context.Context, userID, diaryID int64) error {
	existing, err := s.store.Diaries().Get(ctx, userID, diaryID)
	if err != nil {
		return err
	}
	if err := s.store.Diaries().Delete(ctx, userID, diaryID); err != nil {
		return err
	}
	if existing.ImageURL != nil {
		s.removeFile(*existing.ImageURL)
	}
	return nil
}

// removeFile deletes an image file and logs on failure. Callers never fail
// because of a leftover file.
func (s *DiaryService) removeFile(url string) {
	if err := s.assets.Remove(url); err != nil {
		s.log.Warn().Err(err).Str("url", url).Msg("failed to remove image file")
	}
}

func (s *DiaryService) view(ctx context.Context, d *model.Diary) (*DiaryView, error) {
	v := &DiaryView{
		Diary:         *d,
		RelatedEvents: []*model.CalendarEvent{},
		RelatedTodos:  []*model.Todo{},
	}
	for _, rel := range d.Relations {
		switch rel.Ref.Kind() {
		case model.RelationEvent:
			e, err := s.store.Events().Get(ctx, d.UserID, rel.Ref.TargetID())
			if err != nil {
				return nil, err
			}
			v.RelatedEvents = append(v.RelatedEvents, e)
		case model.RelationTodo:
			td, err := s.store.Todos().Get(ctx, d.UserID, rel.Ref.TargetID())
			if err != nil {
				return nil, err
			}
			v.RelatedTodos = append(v.RelatedTodos, td)
		}
	}
	return v, nil
}

func (s *DiaryService) views(ctx context.Context, ds []*model.Diary) ([]*DiaryView, error) {
	out := make([]*DiaryView, 0, len(ds))
	for _, d := range ds {
		v, err := s.view(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
