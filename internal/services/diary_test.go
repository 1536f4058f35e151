package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog/daylog-backend/internal/assets"
	"github.com/daylog/daylog-backend/internal/model"
	"github.com/daylog/daylog-backend/internal/store"
	"github.com/daylog/daylog-backend/internal/store/sqlite"
)

type diaryFixture struct {
	store  store.Store
	assets *assets.Manager
	svc    *DiaryService
	userID int64
}

func newDiaryFixture(t *testing.T) *diaryFixture {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "daylog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	am, err := assets.New(t.TempDir())
	require.NoError(t, err)

	u, err := s.Users().Create(context.Background(), &model.User{Email: "svc@example.com"})
	require.NoError(t, err)

	return &diaryFixture{
		store:  s,
		assets: am,
		svc:    NewDiaryService(s, am, zerolog.Nop()),
		userID: u.ID,
	}
}

func (f *diaryFixture) newEvent(t *testing.T, title string) *model.CalendarEvent {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	e, err := f.store.Events().Create(context.Background(), &model.CalendarEvent{
		UserID: f.userID, Title: title, StartTime: now, EndTime: now.Add(time.Hour),
	})
	require.NoError(t, err)
	return e
}

func (f *diaryFixture) newTodo(t *testing.T, title string) *model.Todo {
	t.Helper()
	td, err := f.store.Todos().Create(context.Background(), &model.Todo{UserID: f.userID, Title: title})
	require.NoError(t, err)
	return td
}

func (f *diaryFixture) fileExists(url string) bool {
	name := strings.TrimPrefix(url, assets.URLPrefix)
	_, err := os.Stat(filepath.Join(f.assets.Root(), name))
	return err == nil
}

func TestDiaryService_UpdateReplacesRelationSet(t *testing.T) {
	ctx := context.Background()
	f := newDiaryFixture(t)
	ev := f.newEvent(t, "run")
	td := f.newTodo(t, "stretch")

	created, err := f.svc.Create(ctx, f.userID, DiaryInput{
		Title: "monday", Content: "ran far", EventIDs: []int64{ev.ID},
	})
	require.NoError(t, err)
	require.Len(t, created.RelatedEvents, 1)
	require.Empty(t, created.RelatedTodos)

	// switching the set from an event to a todo leaves exactly one relation
	updated, err := f.svc.Update(ctx, f.userID, created.ID, DiaryInput{
		Title: "monday", Content: "ran far", TodoIDs: []int64{td.ID},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.RelatedEvents)
	require.Len(t, updated.RelatedTodos, 1)
	assert.Equal(t, td.ID, updated.RelatedTodos[0].ID)

	// the same update again is a no-op on the relation count
	again, err := f.svc.Update(ctx, f.userID, created.ID, DiaryInput{
		Title: "monday", Content: "ran far", TodoIDs: []int64{td.ID},
	})
	require.NoError(t, err)
	require.Len(t, again.RelatedTodos, 1)
}

func TestDiaryService_DuplicateIDsCollapse(t *testing.T) {
	ctx := context.Background()
	f := newDiaryFixture(t)
	ev := f.newEvent(t, "gym")

	created, err := f.svc.Create(ctx, f.userID, DiaryInput{
		Title: "t", Content: "c", EventIDs: []int64{ev.ID, ev.ID, ev.ID},
	})
	require.NoError(t, err)
	assert.Len(t, created.RelatedEvents, 1)
}

func TestDiaryService_ForeignRefRollsBackEverything(t *testing.T) {
	ctx := context.Background()
	f := newDiaryFixture(t)

	other, err := f.store.Users().Create(ctx, &model.User{Email: "intruder@example.com"})
	require.NoError(t, err)
	now := time.Now().UTC()
	foreign, err := f.store.Events().Create(ctx, &model.CalendarEvent{
		UserID: other.ID, Title: "not yours", StartTime: now, EndTime: now.Add(time.Hour),
	})
	require.NoError(t, err)

	created, err := f.svc.Create(ctx, f.userID, DiaryInput{Title: "before", Content: "c"})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.userID, created.ID, DiaryInput{
		Title: "after", Content: "c", EventIDs: []int64{foreign.ID},
	})
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))

	got, err := f.svc.Get(ctx, f.userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "before", got.Title, "failed update must not change the row")
}

func TestDiaryService_ImageLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newDiaryFixture(t)

	created, err := f.svc.Create(ctx, f.userID, DiaryInput{
		Title: "pic day", Content: "c",
		Image: &assets.Upload{Filename: "a.png", Data: []byte("first")},
	})
	require.NoError(t, err)
	require.NotNil(t, created.ImageURL)
	firstURL := *created.ImageURL
	assert.True(t, f.fileExists(firstURL))

	// replacing the image deletes the old file after the row commits
	updated, err := f.svc.Update(ctx, f.userID, created.ID, DiaryInput{
		Title: "pic day", Content: "c",
		Image: &assets.Upload{Filename: "b.jpg", Data: []byte("second")},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ImageURL)
	secondURL := *updated.ImageURL
	assert.NotEqual(t, firstURL, secondURL)
	assert.False(t, f.fileExists(firstURL))
	assert.True(t, f.fileExists(secondURL))

	// explicit removal clears the reference and the file
	cleared, err := f.svc.Update(ctx, f.userID, created.ID, DiaryInput{
		Title: "pic day", Content: "c", RemoveImage: true,
	})
	require.NoError(t, err)
	assert.Nil(t, cleared.ImageURL)
	assert.False(t, f.fileExists(secondURL))
}

func TestDiaryService_RemoveImageToleratesMissingFile(t *testing.T) {
	ctx := context.Background()
	f := newDiaryFixture(t)

	created, err := f.svc.Create(ctx, f.userID, DiaryInput{
		Title: "t", Content: "c",
		Image: &assets.Upload{Filename: "gone.png", Data: []byte("x")},
	})
	require.NoError(t, err)
	require.NotNil(t, created.ImageURL)

	// simulate the file vanishing out from under the reference
	name := strings.TrimPrefix(*created.ImageURL, assets.URLPrefix)
	require.NoError(t, os.Remove(filepath.Join(f.assets.Root(), name)))

	updated, err := f.svc.Update(ctx, f.userID, created.ID, DiaryInput{
		Title: "t", Content: "c", RemoveImage: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.ImageURL)
}

func TestDiaryService_DeleteRemovesImageFile(t *testing.T) {
	ctx := context.Background()
	f := newDiaryFixture(t)

	created, err := f.svc.Create(ctx, f.userID, DiaryInput{
		Title: "t", Content: "c",
		Image: &assets.Upload{Filename: "a.png", Data: []byte("x")},
	})
	require.NoError(t, err)
	url := *created.ImageURL

	require.NoError(t, f.svc.Delete(ctx, f.userID, created.ID))
	assert.False(t, f.fileExists(url))
	_, err = f.svc.Get(ctx, f.userID, created.ID)
	assert.True(t, model.IsNotFound(err))
}

func TestDiaryService_ValidationAndDateDefault(t *testing.T) {
	ctx := context.Background()
	f := newDiaryFixture(t)

	_, err := f.svc.Create(ctx, f.userID, DiaryInput{Title: "  ", Content: "c"})
	assert.True(t, model.IsValidation(err))
	_, err = f.svc.Create(ctx, f.userID, DiaryInput{Title: "t", Content: ""})
	assert.True(t, model.IsValidation(err))

	before := time.Now().UTC().Add(-time.Minute)
	created, err := f.svc.Create(ctx, f.userID, DiaryInput{Title: "t", Content: "c"})
	require.NoError(t, err)
	assert.True(t, created.Date.After(before), "nil date defaults to now")
}

func TestDiaryService_ListByDate(t *testing.T) {
	ctx := context.Background()
	f := newDiaryFixture(t)

	day := time.Date(2026, 5, 20, 9, 30, 0, 0, time.UTC)
	date1 := day
	date2 := day.AddDate(0, 0, 1)
	_, err := f.svc.Create(ctx, f.userID, DiaryInput{Title: "on day", Content: "c", Date: &date1})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.userID, DiaryInput{Title: "next day", Content: "c", Date: &date2})
	require.NoError(t, err)

	got, err := f.svc.ListByDate(ctx, f.userID, day)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "on day", got[0].Title)
}

func TestVisibilityService_ListSeedsMissingRows(t *testing.T) {
	ctx := context.Background()
	f := newDiaryFixture(t)
	vsvc := NewVisibilityService(f.store)

	// category created straight through the store has no visibility row
	c, err := f.store.Categories().Create(ctx, &model.Category{UserID: f.userID, Name: "Raw"})
	require.NoError(t, err)

	vis, err := vsvc.List(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, vis, 1)
	assert.Equal(t, c.ID, vis[0].CategoryID)
	assert.True(t, vis[0].Visible)
}

func TestCategoryService_ListSeedsStarterCategory(t *testing.T) {
	ctx := context.Background()
	f := newDiaryFixture(t)
	csvc := NewCategoryService(f.store)

	cats, err := csvc.List(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "General", cats[0].Name)

	vis, err := f.store.Visibilities().List(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, vis, 1)
	assert.True(t, vis[0].Visible)
}

func TestTodoService_ProgressClampAndCompletion(t *testing.T) {
	ctx := context.Background()
	f := newDiaryFixture(t)
	tsvc := NewTodoService(f.store)
	td := f.newTodo(t, "ship it")

	got, err := tsvc.UpdateProgress(ctx, f.userID, td.ID, 150)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)
	assert.True(t, got.Completed)

	got, err = tsvc.UpdateProgress(ctx, f.userID, td.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Progress)
	assert.False(t, got.Completed)
}
