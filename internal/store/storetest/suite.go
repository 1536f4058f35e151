// Package storetest provides a conformance suite shared by all store
// implementations. Each driver's test package calls Run with a factory that
// returns a fresh, empty store.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog/daylog-backend/internal/model"
	"github.com/daylog/daylog-backend/internal/store"
)

// Run executes the conformance suite against a store produced by makeStore.
// makeStore must return an isolated store per call.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Run("Users", func(t *testing.T) { testUsers(t, makeStore(t)) })
	t.Run("Categories", func(t *testing.T) { testCategories(t, makeStore(t)) })
	t.Run("EventsAndTodos", func(t *testing.T) { testEventsAndTodos(t, makeStore(t)) })
	t.Run("DiaryRelations", func(t *testing.T) { testDiaryRelations(t, makeStore(t)) })
	t.Run("RelationOwnership", func(t *testing.T) { testRelationOwnership(t, makeStore(t)) })
	t.Run("CascadeDelete", func(t *testing.T) { testCascadeDelete(t, makeStore(t)) })
	t.Run("Visibility", func(t *testing.T) { testVisibility(t, makeStore(t)) })
	t.Run("DateRange", func(t *testing.T) { testDateRange(t, makeStore(t)) })
}

func newUser(t *testing.T, s store.Store, email string) *model.User {
	t.Helper()
	u, err := s.Users().Create(context.Background(), &model.User{Email: email})
	require.NoError(t, err)
	return u
}

func newEvent(t *testing.T, s store.Store, userID int64, title string) *model.CalendarEvent {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	e, err := s.Events().Create(context.Background(), &model.CalendarEvent{
		UserID:    userID,
		Title:     title,
		StartTime: now,
		EndTime:   now.Add(time.Hour),
	})
	require.NoError(t, err)
	return e
}

func newTodo(t *testing.T, s store.Store, userID int64, title string) *model.Todo {
	t.Helper()
	td, err := s.Todos().Create(context.Background(), &model.Todo{UserID: userID, Title: title})
	require.NoError(t, err)
	return td
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s, "alice@example.com")
	require.NotZero(t, u.ID)
	require.False(t, u.CreationTime.IsZero())

	got, err := s.Users().Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)

	byEmail, err := s.Users().GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = s.Users().Get(ctx, u.ID+1000)
	assert.True(t, model.IsNotFound(err))
}

func testCategories(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s, "cat@example.com")

	c, err := s.Categories().Create(ctx, &model.Category{UserID: u.ID, Name: "Work"})
	require.NoError(t, err)
	assert.Equal(t, "#3174ad", c.Color, "empty color gets the default")

	require.NoError(t, s.Visibilities().EnsureDefault(ctx, u.ID, c.ID))
	// second call is a no-op once a row exists
	require.NoError(t, s.Visibilities().EnsureDefault(ctx, u.ID, c.ID))

	vis, err := s.Visibilities().List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, vis, 1)
	assert.True(t, vis[0].Visible)
	assert.Equal(t, c.ID, vis[0].CategoryID)

	c.Name = "Work renamed"
	c.Color = "#ff0000"
	updated, err := s.Categories().Update(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, "Work renamed", updated.Name)
	assert.Equal(t, "#ff0000", updated.Color)

	list, err := s.Categories().List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// delete clears the visibility rows and category references
	e := newEvent(t, s, u.ID, "tagged")
	e.CategoryID = &c.ID
	_, err = s.Events().Update(ctx, e)
	require.NoError(t, err)

	require.NoError(t, s.Categories().Delete(ctx, u.ID, c.ID))

	vis, err = s.Visibilities().List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, vis)

	got, err := s.Events().Get(ctx, u.ID, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	_, err = s.Categories().Get(ctx, u.ID, c.ID)
	assert.True(t, model.IsNotFound(err))
}

func testEventsAndTodos(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s, "et@example.com")

	e := newEvent(t, s, u.ID, "standup")
	require.NotZero(t, e.ID)

	e.Title = "standup moved"
	e.AllDay = true
	updated, err := s.Events().Update(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, "standup moved", updated.Title)
	assert.True(t, updated.AllDay)

	td := newTodo(t, s, u.ID, "write report")
	td.Progress = 40
	td.ShowInCalendar = true
	due := time.Now().UTC().Truncate(time.Second).Add(48 * time.Hour)
	td.DueDate = &due
	tUpdated, err := s.Todos().Update(ctx, td)
	require.NoError(t, err)
	assert.Equal(t, 40, tUpdated.Progress)
	assert.True(t, tUpdated.ShowInCalendar)
	require.NotNil(t, tUpdated.DueDate)
	assert.True(t, tUpdated.DueDate.Equal(due))

	// updates scoped to a different user affect nothing
	other := newUser(t, s, "other@example.com")
	e.UserID = other.ID
	_, err = s.Events().Update(ctx, e)
	assert.True(t, model.IsNotFound(err))

	events, err := s.Events().List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "standup moved", events[0].Title)

	todos, err := s.Todos().List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, todos, 1)
}

func testDiaryRelations(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s, "diary@example.com")
	ev := newEvent(t, s, u.ID, "hike")
	td := newTodo(t, s, u.ID, "pack bag")

	date := time.Now().UTC().Truncate(time.Second)
	d, err := s.Diaries().Create(ctx, &model.Diary{
		UserID:  u.ID,
		Title:   "a good day",
		Content: "went hiking",
		Date:    date,
	}, []model.RelationRef{model.EventRef(ev.ID), model.TodoRef(td.ID)})
	require.NoError(t, err)
	require.NotZero(t, d.ID)
	require.Len(t, d.Relations, 2)

	got, err := s.Diaries().Get(ctx, u.ID, d.ID)
	require.NoError(t, err)
	require.Len(t, got.Relations, 2)
	assert.Equal(t, model.EventRef(ev.ID), got.Relations[0].Ref)
	assert.Equal(t, model.TodoRef(td.ID), got.Relations[1].Ref)

	// update replaces the full relation set
	td2 := newTodo(t, s, u.ID, "buy boots")
	got.Title = "a better day"
	updated, err := s.Diaries().Update(ctx, got, []model.RelationRef{model.TodoRef(td2.ID)})
	require.NoError(t, err)
	require.NotNil(t, updated.UpdateTime)
	require.Len(t, updated.Relations, 1)
	assert.Equal(t, model.TodoRef(td2.ID), updated.Relations[0].Ref)

	reloaded, err := s.Diaries().Get(ctx, u.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "a better day", reloaded.Title)
	require.Len(t, reloaded.Relations, 1)

	// replaying the same update is idempotent
	again, err := s.Diaries().Update(ctx, reloaded, []model.RelationRef{model.TodoRef(td2.ID)})
	require.NoError(t, err)
	require.Len(t, again.Relations, 1)

	require.NoError(t, s.Diaries().Delete(ctx, u.ID, d.ID))
	_, err = s.Diaries().Get(ctx, u.ID, d.ID)
	assert.True(t, model.IsNotFound(err))
}

func testRelationOwnership(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := newUser(t, s, "alice2@example.com")
	bob := newUser(t, s, "bob@example.com")
	bobsEvent := newEvent(t, s, bob.ID, "bob's meeting")

	// create referencing another user's event fails and commits nothing
	_, err := s.Diaries().Create(ctx, &model.Diary{
		UserID:  alice.ID,
		Title:   "should not exist",
		Content: "x",
		Date:    time.Now().UTC(),
	}, []model.RelationRef{model.EventRef(bobsEvent.ID)})
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))

	list, err := s.Diaries().List(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	// update referencing a missing target rolls back the title change too
	d, err := s.Diaries().Create(ctx, &model.Diary{
		UserID:  alice.ID,
		Title:   "original title",
		Content: "x",
		Date:    time.Now().UTC(),
	}, nil)
	require.NoError(t, err)

	d.Title = "changed title"
	_, err = s.Diaries().Update(ctx, d, []model.RelationRef{model.TodoRef(99999)})
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))

	got, err := s.Diaries().Get(ctx, alice.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "original title", got.Title)
	assert.Empty(t, got.Relations)
}

func testCascadeDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s, "cascade@example.com")
	ev := newEvent(t, s, u.ID, "doomed event")
	td := newTodo(t, s, u.ID, "doomed todo")

	d, err := s.Diaries().Create(ctx, &model.Diary{
		UserID:  u.ID,
		Title:   "linked",
		Content: "x",
		Date:    time.Now().UTC(),
	}, []model.RelationRef{model.EventRef(ev.ID), model.TodoRef(td.ID)})
	require.NoError(t, err)

	require.NoError(t, s.Events().Delete(ctx, u.ID, ev.ID))
	got, err := s.Diaries().Get(ctx, u.ID, d.ID)
	require.NoError(t, err)
	require.Len(t, got.Relations, 1)
	assert.Equal(t, model.TodoRef(td.ID), got.Relations[0].Ref)

	require.NoError(t, s.Todos().Delete(ctx, u.ID, td.ID))
	got, err = s.Diaries().Get(ctx, u.ID, d.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Relations)

	// deleting for the wrong user is a not-found, nothing cascades
	other := newUser(t, s, "cascade-other@example.com")
	ev2 := newEvent(t, s, u.ID, "survives")
	err = s.Events().Delete(ctx, other.ID, ev2.ID)
	assert.True(t, model.IsNotFound(err))
	_, err = s.Events().Get(ctx, u.ID, ev2.ID)
	require.NoError(t, err)
}

func testVisibility(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s, "vis@example.com")
	c, err := s.Categories().Create(ctx, &model.Category{UserID: u.ID, Name: "Health"})
	require.NoError(t, err)

	// no row yet: Set inserts
	v, err := s.Visibilities().Set(ctx, u.ID, c.ID, false)
	require.NoError(t, err)
	require.NotZero(t, v.ID)
	assert.False(t, v.Visible)

	// row exists: Set updates in place
	v2, err := s.Visibilities().Set(ctx, u.ID, c.ID, true)
	require.NoError(t, err)
	assert.Equal(t, v.ID, v2.ID)
	assert.True(t, v2.Visible)

	vis, err := s.Visibilities().List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, vis, 1)

	// unknown category
	_, err = s.Visibilities().Set(ctx, u.ID, c.ID+1000, true)
	assert.True(t, model.IsNotFound(err))
}

func testDateRange(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser(t, s, "range@example.com")

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"day one", "day two", "day three"} {
		_, err := s.Diaries().Create(ctx, &model.Diary{
			UserID:  u.ID,
			Title:   title,
			Content: "x",
			Date:    base.AddDate(0, 0, i),
		}, nil)
		require.NoError(t, err)
	}

	got, err := s.Diaries().ListByDateRange(ctx, u.ID, base, base.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "day one", got[0].Title)
	assert.Equal(t, "day two", got[1].Title)

	all, err := s.Diaries().List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "day three", all[0].Title, "List orders newest first")
}
