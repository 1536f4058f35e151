package sqlite

import "database/sql"

// Schema for the sqlite driver. category_visibility deliberately carries no
// UNIQUE(user_id, category_id) constraint; duplicate rows from concurrent
// default creation are converged by Visibilities().Set.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    email         TEXT NOT NULL UNIQUE,
    name          TEXT,
    creation_time TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id       INTEGER NOT NULL REFERENCES users(id),
    name          TEXT NOT NULL,
    color         TEXT NOT NULL DEFAULT '#3174ad',
    creation_time TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS category_visibility (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id       INTEGER NOT NULL REFERENCES users(id),
    category_id   INTEGER NOT NULL REFERENCES categories(id),
    visible       INTEGER NOT NULL DEFAULT 1,
    creation_time TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS calendar_events (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id       INTEGER NOT NULL REFERENCES users(id),
    title         TEXT NOT NULL,
    description   TEXT,
    start_time    TIMESTAMP NOT NULL,
    end_time      TIMESTAMP NOT NULL,
    all_day       INTEGER NOT NULL DEFAULT 0,
    color         TEXT,
    category_id   INTEGER REFERENCES categories(id),
    creation_time TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS todo_items (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id          INTEGER NOT NULL REFERENCES users(id),
    title            TEXT NOT NULL,
    description      TEXT,
    progress         INTEGER NOT NULL DEFAULT 0,
    completed        INTEGER NOT NULL DEFAULT 0,
    show_in_calendar INTEGER NOT NULL DEFAULT 0,
    due_date         TIMESTAMP,
    color            TEXT,
    category_id      INTEGER REFERENCES categories(id),
    creation_time    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS diaries (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id       INTEGER NOT NULL REFERENCES users(id),
    title         TEXT NOT NULL,
    content       TEXT NOT NULL,
    date          TIMESTAMP NOT NULL,
    image_url     TEXT,
    creation_time TIMESTAMP NOT NULL,
    update_time   TIMESTAMP
);

CREATE TABLE IF NOT EXISTS diary_relations (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    diary_id          INTEGER NOT NULL REFERENCES diaries(id),
    relation_type     TEXT NOT NULL,
    calendar_event_id INTEGER REFERENCES calendar_events(id),
    todo_item_id      INTEGER REFERENCES todo_items(id),
    creation_time     TIMESTAMP NOT NULL,
    CHECK (
        (relation_type = 'EVENT' AND calendar_event_id IS NOT NULL AND todo_item_id IS NULL) OR
        (relation_type = 'TODO' AND todo_item_id IS NOT NULL AND calendar_event_id IS NULL)
    )
);

CREATE INDEX IF NOT EXISTS idx_diaries_user_date ON diaries(user_id, date);
CREATE INDEX IF NOT EXISTS idx_diary_relations_diary ON diary_relations(diary_id);
CREATE INDEX IF NOT EXISTS idx_visibility_user_category ON category_visibility(user_id, category_id);
`

// EnsureSchema creates all tables and indexes if they do not exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
