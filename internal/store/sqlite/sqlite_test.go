package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog/daylog-backend/internal/model"
	"github.com/daylog/daylog-backend/internal/store"
	"github.com/daylog/daylog-backend/internal/store/storetest"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "daylog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSqliteStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return newTestStore(t) })
}

// Duplicate visibility rows can exist because the schema has no uniqueness
// constraint on (user_id, category_id). Set must keep the earliest row and
// delete the rest.
func TestSqliteStore_SetHealsDuplicateVisibilityRows(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.Users().Create(ctx, &model.User{Email: "dup@example.com"})
	require.NoError(t, err)
	c, err := s.Categories().Create(ctx, &model.Category{UserID: u.ID, Name: "Dup"})
	require.NoError(t, err)

	// inject duplicates directly, as a lost race would have left them
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		_, err := s.DB().ExecContext(ctx, `
            INSERT INTO category_visibility (user_id, category_id, visible, creation_time)
            VALUES (?,?,?,?)
        `, u.ID, c.ID, true, now.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}

	var earliest int64
	require.NoError(t, s.DB().QueryRowContext(ctx, `
        SELECT MIN(id) FROM category_visibility WHERE user_id=? AND category_id=?
    `, u.ID, c.ID).Scan(&earliest))

	v, err := s.Visibilities().Set(ctx, u.ID, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, earliest, v.ID)
	assert.False(t, v.Visible)

	var n int
	require.NoError(t, s.DB().QueryRowContext(ctx, `
        SELECT COUNT(1) FROM category_visibility WHERE user_id=? AND category_id=?
    `, u.ID, c.ID).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSqliteStore_DiaryDeleteRemovesRelationRows(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.Users().Create(ctx, &model.User{Email: "rows@example.com"})
	require.NoError(t, err)
	now := time.Now().UTC().Truncate(time.Second)
	ev, err := s.Events().Create(ctx, &model.CalendarEvent{
		UserID: u.ID, Title: "e", StartTime: now, EndTime: now.Add(time.Hour),
	})
	require.NoError(t, err)

	d, err := s.Diaries().Create(ctx, &model.Diary{
		UserID: u.ID, Title: "d", Content: "c", Date: now,
	}, []model.RelationRef{model.EventRef(ev.ID)})
	require.NoError(t, err)

	require.NoError(t, s.Diaries().Delete(ctx, u.ID, d.ID))

	var n int
	require.NoError(t, s.DB().QueryRowContext(ctx, `
        SELECT COUNT(1) FROM diary_relations WHERE diary_id=?
    `, d.ID).Scan(&n))
	assert.Equal(t, 0, n)
}
