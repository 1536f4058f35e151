package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/daylog/daylog-backend/internal/model"
	"github.com/daylog/daylog-backend/internal/store"
)

// SqliteStore implements store.Store on a SQLite database. It backs local
// deployments and the unit test suites.
type SqliteStore struct{ db *sql.DB }

// New opens (or creates) a SQLite database file and ensures the schema.
func New(path string) (*SqliteStore, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

// NewWithDB wires the store onto an existing connection.
func NewWithDB(db *sql.DB) *SqliteStore { return &SqliteStore{db: db} }

// DB exposes the underlying connection (local tooling and tests).
func (s *SqliteStore) DB() *sql.DB { return s.db }

// HealthPing implements health.HealthPinger.
func (s *SqliteStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SqliteStore) Close() error { return s.db.Close() }

func (s *SqliteStore) Users() store.Users               { return &users{db: s.db} }
func (s *SqliteStore) Diaries() store.Diaries           { return &diaries{db: s.db} }
func (s *SqliteStore) Events() store.Events             { return &events{db: s.db} }
func (s *SqliteStore) Todos() store.Todos               { return &todos{db: s.db} }
func (s *SqliteStore) Categories() store.Categories     { return &categories{db: s.db} }
func (s *SqliteStore) Visibilities() store.Visibilities { return &visibilities{db: s.db} }

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	now := time.Now().UTC()
	res, err := u.db.ExecContext(ctx,
		`INSERT INTO users (email, name, creation_time) VALUES (?,?,?)`,
		m.Email, m.Name, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.CreationTime = now
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID int64) (*model.User, error) {
	var out model.User
	row := u.db.QueryRowContext(ctx,
		`SELECT id, email, name, creation_time FROM users WHERE id=?`, userID)
	if err := row.Scan(&out.ID, &out.Email, &out.Name, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("user", userID)
		}
		return nil, err
	}
	return &out, nil
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var out model.User
	row := u.db.QueryRowContext(ctx,
		`SELECT id, email, name, creation_time FROM users WHERE email=?`, email)
	if err := row.Scan(&out.ID, &out.Email, &out.Name, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("user", 0)
		}
		return nil, err
	}
	return &out, nil
}

// --- Diaries ---

type diaries struct{ db *sql.DB }

func (d *diaries) Create(ctx context.Context, m *model.Diary, refs []model.RelationRef) (*model.Diary, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO diaries (user_id, title, content, date, image_url, creation_time) VALUES (?,?,?,?,?,?)`,
		m.UserID, m.Title, m.Content, m.Date, m.ImageURL, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	rels, err := replaceRelations(ctx, tx, id, m.UserID, refs, now)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	out := *m
	out.ID = id
	out.CreationTime = now
	out.Relations = rels
	return &out, nil
}

func (d *diaries) Update(ctx context.Context, m *model.Diary, refs []model.RelationRef) (*model.Diary, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`UPDATE diaries SET title=?, content=?, date=?, image_url=?, update_time=? WHERE id=? AND user_id=?`,
		m.Title, m.Content, m.Date, m.ImageURL, now, m.ID, m.UserID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.NewNotFoundError("diary", m.ID)
	}

	rels, err := replaceRelations(ctx, tx, m.ID, m.UserID, refs, now)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	out := *m
	out.UpdateTime = &now
	out.Relations = rels
	return &out, nil
}

func (d *diaries) Get(ctx context.Context, userID, diaryID int64) (*model.Diary, error) {
	var out model.Diary
	row := d.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, date, image_url, creation_time, update_time
         FROM diaries WHERE id=? AND user_id=?`, diaryID, userID)
	if err := row.Scan(&out.ID, &out.UserID, &out.Title, &out.Content, &out.Date, &out.ImageURL, &out.CreationTime, &out.UpdateTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("diary", diaryID)
		}
		return nil, err
	}
	rels, err := loadRelations(ctx, d.db, out.ID)
	if err != nil {
		return nil, err
	}
	out.Relations = rels
	return &out, nil
}

func (d *diaries) List(ctx context.Context, userID int64) ([]*model.Diary, error) {
	return d.list(ctx, `SELECT id, user_id, title, content, date, image_url, creation_time, update_time
        FROM diaries WHERE user_id=? ORDER BY date DESC`, userID)
}

func (d *diaries) ListByDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*model.Diary, error) {
	return d.list(ctx, `SELECT id, user_id, title, content, date, image_url, creation_time, update_time
        FROM diaries WHERE user_id=? AND date>=? AND date<? ORDER BY date`, userID, from, to)
}

func (d *diaries) list(ctx context.Context, query string, args ...interface{}) ([]*model.Diary, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Diary
	for rows.Next() {
		var m model.Diary
		if err := rows.Scan(&m.ID, &m.UserID, &m.Title, &m.Content, &m.Date, &m.ImageURL, &m.CreationTime, &m.UpdateTime); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Relation fan-out per diary is small and bounded, so per-row loading
	// is acceptable here.
	for _, m := range out {
		rels, err := loadRelations(ctx, d.db, m.ID)
		if err != nil {
			return nil, err
		}
		m.Relations = rels
	}
	return out, nil
}

func (d *diaries) Delete(ctx context.Context, userID, diaryID int64) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM diaries WHERE id=? AND user_id=?`, diaryID, userID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NewNotFoundError("diary", diaryID)
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM diary_relations WHERE diary_id=?`, diaryID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM diaries WHERE id=?`, diaryID); err != nil {
		return err
	}
	return tx.Commit()
}

// replaceRelations drops every relation row owned by the diary and inserts
// one row per ref, validating inside the transaction that each target is
// owned by the diary's user. A single missing target aborts the whole
// transaction; partial application is forbidden.
func replaceRelations(ctx context.Context, tx *sql.Tx, diaryID, userID int64, refs []model.RelationRef, now time.Time) ([]model.DiaryRelation, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM diary_relations WHERE diary_id=?`, diaryID); err != nil {
		return nil, err
	}
	out := make([]model.DiaryRelation, 0, len(refs))
	for _, ref := range refs {
		var table, kind string
		var eventID, todoID *int64
		id := ref.TargetID()
		switch ref.Kind() {
		case model.RelationEvent:
			table, kind, eventID = "calendar_events", "event", &id
		case model.RelationTodo:
			table, kind, todoID = "todo_items", "todo", &id
		default:
			return nil, model.NewValidationError("relations", "unknown relation type")
		}
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id=? AND user_id=?`, id, userID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, model.NewNotFoundError(kind, id)
			}
			return nil, err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO diary_relations (diary_id, relation_type, calendar_event_id, todo_item_id, creation_time) VALUES (?,?,?,?,?)`,
			diaryID, string(ref.Kind()), eventID, todoID, now)
		if err != nil {
			return nil, err
		}
		rid, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		out = append(out, model.DiaryRelation{ID: rid, DiaryID: diaryID, Ref: ref, CreationTime: now})
	}
	return out, nil
}

func loadRelations(ctx context.Context, db *sql.DB, diaryID int64) ([]model.DiaryRelation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, relation_type, calendar_event_id, todo_item_id, creation_time
         FROM diary_relations WHERE diary_id=? ORDER BY id`, diaryID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.DiaryRelation
	for rows.Next() {
		var (
			rel     model.DiaryRelation
			typ     string
			eventID *int64
			todoID  *int64
		)
		if err := rows.Scan(&rel.ID, &typ, &eventID, &todoID, &rel.CreationTime); err != nil {
			return nil, err
		}
		rel.DiaryID = diaryID
		switch {
		case model.RelationType(typ) == model.RelationEvent && eventID != nil:
			rel.Ref = model.EventRef(*eventID)
		case model.RelationType(typ) == model.RelationTodo && todoID != nil:
			rel.Ref = model.TodoRef(*todoID)
		default:
			return nil, model.NewValidationError("relations", "stored relation row violates tag invariant")
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

// --- Events ---

type events struct{ db *sql.DB }

func (e *events) Create(ctx context.Context, m *model.CalendarEvent) (*model.CalendarEvent, error) {
	now := time.Now().UTC()
	res, err := e.db.ExecContext(ctx,
		`INSERT INTO calendar_events (user_id, title, description, start_time, end_time, all_day, color, category_id, creation_time)
         VALUES (?,?,?,?,?,?,?,?,?)`,
		m.UserID, m.Title, m.Description, m.StartTime, m.EndTime, m.AllDay, m.Color, m.CategoryID, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.CreationTime = now
	return &out, nil
}

func (e *events) Get(ctx context.Context, userID, eventID int64) (*model.CalendarEvent, error) {
	var out model.CalendarEvent
	row := e.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, start_time, end_time, all_day, color, category_id, creation_time
         FROM calendar_events WHERE id=? AND user_id=?`, eventID, userID)
	if err := row.Scan(&out.ID, &out.UserID, &out.Title, &out.Description, &out.StartTime, &out.EndTime, &out.AllDay, &out.Color, &out.CategoryID, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("event", eventID)
		}
		return nil, err
	}
	return &out, nil
}

func (e *events) List(ctx context.Context, userID int64) ([]*model.CalendarEvent, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, start_time, end_time, all_day, color, category_id, creation_time
         FROM calendar_events WHERE user_id=? ORDER BY start_time`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.CalendarEvent
	for rows.Next() {
		var m model.CalendarEvent
		if err := rows.Scan(&m.ID, &m.UserID, &m.Title, &m.Description, &m.StartTime, &m.EndTime, &m.AllDay, &m.Color, &m.CategoryID, &m.CreationTime); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (e *events) Update(ctx context.Context, m *model.CalendarEvent) (*model.CalendarEvent, error) {
	res, err := e.db.ExecContext(ctx,
		`UPDATE calendar_events SET title=?, description=?, start_time=?, end_time=?, all_day=?, color=?, category_id=?
         WHERE id=? AND user_id=?`,
		m.Title, m.Description, m.StartTime, m.EndTime, m.AllDay, m.Color, m.CategoryID, m.ID, m.UserID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.NewNotFoundError("event", m.ID)
	}
	return e.Get(ctx, m.UserID, m.ID)
}

func (e *events) Delete(ctx context.Context, userID, eventID int64) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM calendar_events WHERE id=? AND user_id=?`, eventID, userID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NewNotFoundError("event", eventID)
		}
		return err
	}
	// Relations referencing the event go first so no dangling link survives.
	if _, err := tx.ExecContext(ctx, `DELETE FROM diary_relations WHERE calendar_event_id=?`, eventID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM calendar_events WHERE id=?`, eventID); err != nil {
		return err
	}
	return tx.Commit()
}

// --- Todos ---

type todos struct{ db *sql.DB }

func (t *todos) Create(ctx context.Context, m *model.Todo) (*model.Todo, error) {
	now := time.Now().UTC()
	res, err := t.db.ExecContext(ctx,
		`INSERT INTO todo_items (user_id, title, description, progress, completed, show_in_calendar, due_date, color, category_id, creation_time)
         VALUES (?,?,?,?,?,?,?,?,?,?)`,
		m.UserID, m.Title, m.Description, m.Progress, m.Completed, m.ShowInCalendar, m.DueDate, m.Color, m.CategoryID, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.CreationTime = now
	return &out, nil
}

func (t *todos) Get(ctx context.Context, userID, todoID int64) (*model.Todo, error) {
	var out model.Todo
	row := t.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, progress, completed, show_in_calendar, due_date, color, category_id, creation_time
         FROM todo_items WHERE id=? AND user_id=?`, todoID, userID)
	if err := row.Scan(&out.ID, &out.UserID, &out.Title, &out.Description, &out.Progress, &out.Completed, &out.ShowInCalendar, &out.DueDate, &out.Color, &out.CategoryID, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("todo", todoID)
		}
		return nil, err
	}
	return &out, nil
}

func (t *todos) List(ctx context.Context, userID int64) ([]*model.Todo, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, progress, completed, show_in_calendar, due_date, color, category_id, creation_time
         FROM todo_items WHERE user_id=? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Todo
	for rows.Next() {
		var m model.Todo
		if err := rows.Scan(&m.ID, &m.UserID, &m.Title, &m.Description, &m.Progress, &m.Completed, &m.ShowInCalendar, &m.DueDate, &m.Color, &m.CategoryID, &m.CreationTime); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (t *todos) Update(ctx context.Context, m *model.Todo) (*model.Todo, error) {
	res, err := t.db.ExecContext(ctx,
		`UPDATE todo_items SET title=?, description=?, progress=?, completed=?, show_in_calendar=?, due_date=?, color=?, category_id=?
         WHERE id=? AND user_id=?`,
		m.Title, m.Description, m.Progress, m.Completed, m.ShowInCalendar, m.DueDate, m.Color, m.CategoryID, m.ID, m.UserID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.NewNotFoundError("todo", m.ID)
	}
	return t.Get(ctx, m.UserID, m.ID)
}

func (t *todos) Delete(ctx context.Context, userID, todoID int64) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM todo_items WHERE id=? AND user_id=?`, todoID, userID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NewNotFoundError("todo", todoID)
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM diary_relations WHERE todo_item_id=?`, todoID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM todo_items WHERE id=?`, todoID); err != nil {
		return err
	}
	return tx.Commit()
}

// --- Categories ---

type categories struct{ db *sql.DB }

func (c *categories) Create(ctx context.Context, m *model.Category) (*model.Category, error) {
	now := time.Now().UTC()
	color := m.Color
	if color == "" {
		color = "#3174ad"
	}
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, color, creation_time) VALUES (?,?,?,?)`,
		m.UserID, m.Name, color, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *m
	out.ID = id
	out.Color = color
	out.CreationTime = now
	return &out, nil
}

func (c *categories) Get(ctx context.Context, userID, categoryID int64) (*model.Category, error) {
	var out model.Category
	row := c.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, color, creation_time FROM categories WHERE id=? AND user_id=?`, categoryID, userID)
	if err := row.Scan(&out.ID, &out.UserID, &out.Name, &out.Color, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("category", categoryID)
		}
		return nil, err
	}
	return &out, nil
}

func (c *categories) List(ctx context.Context, userID int64) ([]*model.Category, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, user_id, name, color, creation_time FROM categories WHERE user_id=? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Category
	for rows.Next() {
		var m model.Category
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Color, &m.CreationTime); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (c *categories) Update(ctx context.Context, m *model.Category) (*model.Category, error) {
	res, err := c.db.ExecContext(ctx,
		`UPDATE categories SET name=?, color=? WHERE id=? AND user_id=?`,
		m.Name, m.Color, m.ID, m.UserID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.NewNotFoundError("category", m.ID)
	}
	return c.Get(ctx, m.UserID, m.ID)
}

func (c *categories) Delete(ctx context.Context, userID, categoryID int64) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM categories WHERE id=? AND user_id=?`, categoryID, userID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.NewNotFoundError("category", categoryID)
		}
		return err
	}
	// Events and todos keep their rows; only the weak category reference is cleared.
	if _, err := tx.ExecContext(ctx, `UPDATE calendar_events SET category_id=NULL WHERE category_id=? AND user_id=?`, categoryID, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE todo_items SET category_id=NULL WHERE category_id=? AND user_id=?`, categoryID, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM category_visibility WHERE category_id=? AND user_id=?`, categoryID, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id=?`, categoryID); err != nil {
		return err
	}
	return tx.Commit()
}

// --- Visibilities ---

type visibilities struct{ db *sql.DB }

func (v *visibilities) List(ctx context.Context, userID int64) ([]*model.CategoryVisibility, error) {
	rows, err := v.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, visible, creation_time FROM category_visibility WHERE user_id=? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.CategoryVisibility
	for rows.Next() {
		var m model.CategoryVisibility
		if err := rows.Scan(&m.ID, &m.UserID, &m.CategoryID, &m.Visible, &m.CreationTime); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// Set converges the (user, category) pair to exactly one row carrying the
// requested flag. Duplicate rows can exist because default creation is not
// guarded by a uniqueness constraint; the earliest row wins and the rest are
// deleted in the same transaction.
func (v *visibilities) Set(ctx context.Context, userID, categoryID int64, visible bool) (*model.CategoryVisibility, error) {
	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM categories WHERE id=? AND user_id=?`, categoryID, userID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError("category", categoryID)
		}
		return nil, err
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, creation_time FROM category_visibility WHERE user_id=? AND category_id=? ORDER BY id`,
		userID, categoryID)
	if err != nil {
		return nil, err
	}
	var ids []int64
	var firstCreated time.Time
	for rows.Next() {
		var id int64
		var created time.Time
		if err := rows.Scan(&id, &created); err != nil {
			_ = rows.Close()
			return nil, err
		}
		if len(ids) == 0 {
			firstCreated = created
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := &model.CategoryVisibility{UserID: userID, CategoryID: categoryID, Visible: visible}
	switch {
	case len(ids) == 0:
		now := time.Now().UTC()
		res, err := tx.ExecContext(ctx,
			`INSERT INTO category_visibility (user_id, category_id, visible, creation_time) VALUES (?,?,?,?)`,
			userID, categoryID, visible, now)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		out.ID = id
		out.CreationTime = now
	default:
		keep := ids[0]
		if _, err := tx.ExecContext(ctx, `UPDATE category_visibility SET visible=? WHERE id=?`, visible, keep); err != nil {
			return nil, err
		}
		if len(ids) > 1 {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM category_visibility WHERE user_id=? AND category_id=? AND id<>?`,
				userID, categoryID, keep); err != nil {
				return nil, err
			}
		}
		out.ID = keep
		out.CreationTime = firstCreated
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureDefault inserts the default visible row for a freshly created
// category when the pair has none. It is idempotent in intent only: two
// concurrent callers can both observe zero rows and both insert, which is
// exactly the duplication Set heals later.
func (v *visibilities) EnsureDefault(ctx context.Context, userID, categoryID int64) error {
	var n int
	if err := v.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM category_visibility WHERE user_id=? AND category_id=?`,
		userID, categoryID).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err := v.db.ExecContext(ctx,
		`INSERT INTO category_visibility (user_id, category_id, visible, creation_time) VALUES (?,?,?,?)`,
		userID, categoryID, true, time.Now().UTC())
	return err
}
