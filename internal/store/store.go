package store

import (
	"context"
	"time"

	"github.com/daylog/daylog-backend/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
// Every method scopes its queries by the owning user; callers never see
// another user's rows.
type Store interface {
	Users() Users
	Diaries() Diaries
	Events() Events
	Todos() Todos
	Categories() Categories
	Visibilities() Visibilities
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// Diaries owns the diary rows and their relation rows. Create and Update run
// the diary write and the full relation replacement in one transaction:
// every referenced event/todo must resolve to a row owned by the diary's
// user or the whole call fails with model.NotFoundError and nothing commits.
type Diaries interface {
	Create(ctx context.Context, d *model.Diary, refs []model.RelationRef) (*model.Diary, error)
	Update(ctx context.Context, d *model.Diary, refs []model.RelationRef) (*model.Diary, error)
	Get(ctx context.Context, userID, diaryID int64) (*model.Diary, error)
	List(ctx context.Context, userID int64) ([]*model.Diary, error)
	ListByDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*model.Diary, error)
	Delete(ctx context.Context, userID, diaryID int64) error
}

// Events and Todos cascade on Delete: any diary relation referencing the
// deleted row is removed in the same transaction.
type Events interface {
	Create(ctx context.Context, e *model.CalendarEvent) (*model.CalendarEvent, error)
	Get(ctx context.Context, userID, eventID int64) (*model.CalendarEvent, error)
	List(ctx context.Context, userID int64) ([]*model.CalendarEvent, error)
	Update(ctx context.Context, e *model.CalendarEvent) (*model.CalendarEvent, error)
	Delete(ctx context.Context, userID, eventID int64) error
}

type Todos interface {
	Create(ctx context.Context, t *model.Todo) (*model.Todo, error)
	Get(ctx context.Context, userID, todoID int64) (*model.Todo, error)
	List(ctx context.Context, userID int64) ([]*model.Todo, error)
	Update(ctx context.Context, t *model.Todo) (*model.Todo, error)
	Delete(ctx context.Context, userID, todoID int64) error
}

// Categories.Delete removes dependent visibility rows and clears category
// references on events and todos before dropping the category. The default
// visibility row is created separately via Visibilities().EnsureDefault.
type Categories interface {
	Create(ctx context.Context, c *model.Category) (*model.Category, error)
	Get(ctx context.Context, userID, categoryID int64) (*model.Category, error)
	List(ctx context.Context, userID int64) ([]*model.Category, error)
	Update(ctx context.Context, c *model.Category) (*model.Category, error)
	Delete(ctx context.Context, userID, categoryID int64) error
}

// Visibilities manages per (user, category) visibility flags. The schema
// does not enforce uniqueness on the pair, so Set must converge duplicate
// rows: keep the earliest, update it, delete the rest, all in one
// transaction.
type Visibilities interface {
	List(ctx context.Context, userID int64) ([]*model.CategoryVisibility, error)
	Set(ctx context.Context, userID, categoryID int64, visible bool) (*model.CategoryVisibility, error)
	EnsureDefault(ctx context.Context, userID, categoryID int64) error
}
